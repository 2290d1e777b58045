package diagnostic

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"stubgen/internal/common"
)

// Diagnostic codes reported by the engine.
const (
	CodeBindingNotFound   = "binding_not_found"
	CodeAnchorNotFound    = "anchor_not_found"
	CodeTargetNotFound    = "target_not_found"
	CodeInterfaceNotFound = "interface_not_found"
	CodeTypeError         = "type_error"
	CodeSiblingSkipped    = "sibling_skipped"
	CodeCancelled         = "cancelled"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Diagnostic is one finding about a request. It satisfies error so that
// error diagnostics can be joined into a single error.
type Diagnostic struct {
	Severity Severity
	// Code identifies the kind of finding, one of the Code constants.
	Code    string
	Message string
	// Target is the label of the type the finding is about, if any.
	Target string
	// Key is the binding key the finding is about, if any.
	Key string
	// Suggestions are close matches of an unresolved Key.
	Suggestions []string
}

// Error implements error.
func (d Diagnostic) Error() string {
	return d.String()
}

// String renders "[target] key: [code] message (did you mean ...?)",
// omitting the empty parts.
func (d Diagnostic) String() string {
	var sb strings.Builder

	if d.Target != "" {
		sb.WriteString("[" + d.Target + "]")
	}

	if d.Key != "" {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(d.Key)
	}

	if sb.Len() > 0 {
		sb.WriteString(": ")
	}

	if d.Code != "" {
		fmt.Fprintf(&sb, "[%s] ", d.Code)
	}

	sb.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		sb.WriteString(" (did you mean " + strings.Join(d.Suggestions, ", ") + "?)")
	}

	return sb.String()
}

// Diagnostics collects the findings of one request in emission order. The
// zero value is empty and ready to use.
type Diagnostics struct {
	list []Diagnostic
}

func (d *Diagnostics) add(sev Severity, code, message, target, key string, suggestions []string) {
	d.list = append(d.list, Diagnostic{
		Severity:    sev,
		Code:        code,
		Message:     message,
		Target:      target,
		Key:         key,
		Suggestions: suggestions,
	})
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, target, key string) {
	d.add(SeverityError, code, message, target, key, nil)
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, target, key string) {
	d.add(SeverityWarning, code, message, target, key, nil)
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, target, key string, suggestions ...string) {
	d.add(SeverityInfo, code, message, target, key, suggestions)
}

// Len returns the number of diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.list)
}

// HasErrors reports whether any error diagnostic was added.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Of(SeverityError)) > 0
}

// Of returns the diagnostics of severity sev in emission order.
func (d *Diagnostics) Of(sev Severity) []Diagnostic {
	var out []Diagnostic

	for _, diag := range d.list {
		if diag.Severity == sev {
			out = append(out, diag)
		}
	}

	return out
}

// All returns every diagnostic by decreasing severity, in emission order
// within a severity.
func (d *Diagnostics) All() []Diagnostic {
	all := append([]Diagnostic(nil), d.list...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Severity > all[j].Severity
	})

	return all
}

// ByCode returns the diagnostics carrying code in emission order.
func (d *Diagnostics) ByCode(code string) []Diagnostic {
	var out []Diagnostic

	for _, diag := range d.list {
		if diag.Code == code {
			out = append(out, diag)
		}
	}

	return out
}

// Err joins the error diagnostics, nil when there are none.
func (d *Diagnostics) Err() error {
	errs := d.Of(SeverityError)
	if len(errs) == 0 {
		return nil
	}

	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}

	return errors.Join(joined...)
}
