package operation

import (
	"stubgen/internal/analyze"
	"stubgen/internal/diagnostic"
	"stubgen/internal/edit"
	"stubgen/internal/gen"
	"stubgen/internal/plan"
	"stubgen/internal/rewrite"
)

// Request describes one operation on one document.
type Request struct {
	// Path identifies the document in the registry.
	Path   string
	Target plan.Target
	// Keys are the binding keys to synthesize, in output order. For
	// AddUnimplementedMethods an empty list means every missing method.
	Keys     []analyze.BindingKey
	Settings gen.Settings
	// Anchor names a method of the target type, or a top-level function,
	// before which members are inserted. Empty appends to the file.
	Anchor string
	// Apply replays the edit on the document.
	Apply bool
	// Save persists the document after applying. Ignored without Apply.
	Save bool
}

// Member is a handle to a created declaration in the resulting text.
type Member struct {
	Key  analyze.BindingKey
	Name string
	// Span covers the declaration, doc comment included.
	Span rewrite.Span
	// Body covers the placeholder body of an unimplemented method; zero
	// for delegates.
	Body rewrite.Span
}

// Result is the outcome of an operation.
type Result struct {
	// Created lists the keys synthesized, in request order.
	Created []analyze.BindingKey
	// Edit turns the analysed text into Text.
	Edit edit.TextEdit
	// Text is the resulting document text; empty when nothing was created.
	Text    string
	Members []Member
	// Cancelled is set when the context was done before every key was
	// processed. Created holds the keys matched up to then.
	Cancelled bool
	Applied   bool
	Saved     bool

	Diagnostics diagnostic.Diagnostics
}

// Candidate is a binding a target can be given.
type Candidate struct {
	Key analyze.BindingKey
	// Via names the field a delegate forwards to, or the interface a
	// missing method belongs to.
	Via string
}

// Candidates lists the bindings available for a target.
type Candidates struct {
	Delegates   []Candidate
	Missing     []Candidate
	Diagnostics diagnostic.Diagnostics
}
