package request

import (
	"stubgen/internal/analyze"
	"stubgen/internal/gen"
	"stubgen/internal/operation"
	"stubgen/internal/plan"
)

// Target returns the plan target the entry designates.
func (e *Entry) Target() plan.Target {
	if e.Offset != nil {
		return plan.InstantiationTarget(*e.Offset, e.Iface...)
	}

	return plan.NamedTarget(e.Type, e.Iface...)
}

// Request converts the entry into an operation request, starting from the
// given generation settings.
func (e *Entry) Request(settings gen.Settings) operation.Request {
	if e.Body != "" {
		settings.Body = gen.BodyPolicy(e.Body)
	}

	return operation.Request{
		Path:     e.File,
		Target:   e.Target(),
		Keys:     analyze.Keys(e.Keys...),
		Settings: settings,
		Anchor:   e.Anchor,
		Apply:    e.Apply,
		Save:     e.Save,
	}
}
