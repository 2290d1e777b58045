package rewrite

import "go/ast"

// MarkerKind distinguishes the two kinds of node data.
type MarkerKind int

const (
	// Tracked markers record where an existing or synthesized node ends up.
	Tracked MarkerKind = iota
	// Placeholder markers record the span of a synthesized placeholder.
	Placeholder
)

// Marker is a text span recorded for node data during flattening.
//
// A Length of -1 is an interim value meaning "the node closes at Offset";
// it is resolved to 0 by the format adapter. After remapping every Length
// is non-negative.
type Marker struct {
	Kind   MarkerKind
	Data   any
	Offset int
	Length int
}

// End returns Offset+Length.
func (m *Marker) End() int {
	return m.Offset + m.Length
}

// Table attaches correlation data to syntax nodes by node identity. The
// nodes themselves are never modified, so a tree can be flattened with
// different tables.
type Table struct {
	tracked      map[ast.Node]any
	placeholders map[ast.Node]any
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{
		tracked:      make(map[ast.Node]any),
		placeholders: make(map[ast.Node]any),
	}
}

// Track attaches tracked data to n. data must be comparable.
func (t *Table) Track(n ast.Node, data any) {
	t.tracked[n] = data
}

// Placeholder attaches placeholder data to n. data must be comparable.
func (t *Table) Placeholder(n ast.Node, data any) {
	t.placeholders[n] = data
}

// TrackedData returns the tracked data of n.
func (t *Table) TrackedData(n ast.Node) (any, bool) {
	d, ok := t.tracked[n]
	return d, ok
}

// PlaceholderData returns the placeholder data of n.
func (t *Table) PlaceholderData(n ast.Node) (any, bool) {
	d, ok := t.placeholders[n]
	return d, ok
}

// Span is a half-open byte range [Offset, Offset+Length).
type Span struct {
	Offset int
	Length int
}

// End returns Offset+Length.
func (s Span) End() int {
	return s.Offset + s.Length
}

// TrackedSpan returns the span between the opening and the closing marker
// of tracked data.
func TrackedSpan(markers []*Marker, data any) (Span, bool) {
	var (
		open   *Marker
		closed *Marker
	)

	for _, m := range markers {
		if m.Kind != Tracked || m.Data != data {
			continue
		}

		if open == nil {
			open = m
		} else {
			closed = m
		}
	}

	if open == nil || closed == nil {
		return Span{}, false
	}

	return Span{Offset: open.Offset, Length: closed.Offset - open.Offset}, true
}

// PlaceholderSpan returns the span of placeholder data.
func PlaceholderSpan(markers []*Marker, data any) (Span, bool) {
	for _, m := range markers {
		if m.Kind == Placeholder && m.Data == data {
			return Span{Offset: m.Offset, Length: m.Length}, true
		}
	}

	return Span{}, false
}

// Shift moves every marker by delta.
func Shift(markers []*Marker, delta int) {
	for _, m := range markers {
		m.Offset += delta
	}
}
