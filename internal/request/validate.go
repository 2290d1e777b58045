package request

import (
	"fmt"

	"stubgen/internal/diagnostic"
	"stubgen/internal/gen"
)

// Validate checks the structure of a batch file. Entries are not resolved
// against source; that happens when they run.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("batch_is_nil", "batch file is nil", "", "")
		return res
	}

	if f.Version != "1" {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported batch version %q", f.Version), "", "")
	}

	if len(f.Requests) == 0 {
		res.AddWarning("empty_batch", "batch file has no requests", "", "")
	}

	for i := range f.Requests {
		validateEntry(res, &f.Requests[i])
	}

	return res
}

func validateEntry(res *diagnostic.Diagnostics, e *Entry) {
	label := e.Label()

	if e.File == "" {
		res.AddError("missing_file", "request has no file", label, "")
	}

	switch e.Op {
	case OpDelegate, OpImplement:
	case "":
		res.AddError("missing_op", "request has no op", label, "")
	default:
		res.AddError("unknown_op", fmt.Sprintf("unknown op %q", e.Op), label, "")
	}

	switch {
	case e.Type == "" && e.Offset == nil:
		res.AddError("missing_target", "request needs a type or an offset", label, "")
	case e.Type != "" && e.Offset != nil:
		res.AddError("ambiguous_target", "type and offset are exclusive", label, "")
	case e.Offset != nil && *e.Offset < 0:
		res.AddError("invalid_offset", fmt.Sprintf("negative offset %d", *e.Offset), label, "")
	}

	if e.Op == OpDelegate && e.Keys.IsEmpty() {
		res.AddError("missing_keys", "delegate requests need at least one key", label, "")
	}

	switch gen.BodyPolicy(e.Body) {
	case "", gen.BodyPanic, gen.BodyZero:
	default:
		res.AddError("unknown_body", fmt.Sprintf("unknown body policy %q", e.Body), label, "")
	}

	if e.Save && !e.Apply {
		res.AddWarning("save_without_apply", "save is ignored without apply", label, "")
	}
}
