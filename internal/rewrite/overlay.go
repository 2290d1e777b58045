package rewrite

import (
	"fmt"
	"go/ast"
	"sort"
	"strings"

	"stubgen/internal/analyze"
)

// Renderer turns a pending declaration into its final text. The returned
// markers are relative to the start of the text and must be fully resolved
// (no interim lengths).
type Renderer func(decl ast.Decl, table *Table) (string, []*Marker, error)

type pending struct {
	decl   ast.Decl
	anchor ast.Decl // nil appends to the end of the file
}

// Overlay collects declarations to insert into one file, together with the
// marker table and the import accumulator shared by everything synthesized
// for that file. The underlying Unit is never modified.
type Overlay struct {
	unit    *analyze.Unit
	table   *Table
	imports *ImportRewrite
	pending []pending
}

// NewOverlay creates an empty overlay over unit.
func NewOverlay(unit *analyze.Unit, imports *ImportRewrite) *Overlay {
	return &Overlay{
		unit:    unit,
		table:   NewTable(),
		imports: imports,
	}
}

// Table returns the marker side table.
func (o *Overlay) Table() *Table {
	return o.table
}

// Imports returns the import accumulator.
func (o *Overlay) Imports() *ImportRewrite {
	return o.imports
}

// Len returns the number of pending declarations.
func (o *Overlay) Len() int {
	return len(o.pending)
}

// InsertBefore queues decl for insertion before anchor, a top-level
// declaration of the file. Declarations queued before the same anchor keep
// their queue order.
func (o *Overlay) InsertBefore(decl, anchor ast.Decl) {
	o.pending = append(o.pending, pending{decl: decl, anchor: anchor})
}

// InsertLast queues decl for insertion at the end of the declaration list.
func (o *Overlay) InsertLast(decl ast.Decl) {
	o.pending = append(o.pending, pending{decl: decl})
}

// Rewritten is the text of the file with the overlay applied.
type Rewritten struct {
	Text string
	// Markers are the markers of every inserted declaration, in document
	// coordinates of Text.
	Markers []*Marker
}

type splice struct {
	offset  int
	text    string
	markers []*Marker
}

// Rewrite renders every pending declaration with render and splices the
// results and the required imports into the original source. Inserted
// lines end with delim; import specs added to a block are indented with
// indent.
func (o *Overlay) Rewrite(render Renderer, delim, indent string) (*Rewritten, error) {
	src := string(o.unit.Src)

	var splices []splice

	if o.imports != nil {
		for _, ins := range o.imports.Insertions(delim, indent) {
			splices = append(splices, splice{offset: ins.Offset, text: ins.Text})
		}
	}

	appendAt := len(src)
	appendPrefix := delim

	if !strings.HasSuffix(src, "\n") {
		appendPrefix = delim + delim
	}

	for _, p := range o.pending {
		text, markers, err := render(p.decl, o.table)
		if err != nil {
			return nil, fmt.Errorf("rendering declaration: %w", err)
		}

		if p.anchor == nil {
			Shift(markers, len(appendPrefix))
			splices = append(splices, splice{offset: appendAt, text: appendPrefix + text + delim, markers: markers})
			appendPrefix = delim

			continue
		}

		splices = append(splices, splice{offset: o.anchorOffset(p.anchor), text: text + delim + delim, markers: markers})
	}

	sort.SliceStable(splices, func(i, j int) bool {
		return splices[i].offset < splices[j].offset
	})

	var (
		sb      strings.Builder
		markers []*Marker
		last    int
	)

	for _, s := range splices {
		sb.WriteString(src[last:s.offset])
		last = s.offset

		Shift(s.markers, sb.Len())
		markers = append(markers, s.markers...)

		sb.WriteString(s.text)
	}

	sb.WriteString(src[last:])

	return &Rewritten{Text: sb.String(), Markers: markers}, nil
}

// anchorOffset returns the offset at which declarations inserted before
// anchor start: the beginning of its doc comment, or of the declaration.
func (o *Overlay) anchorOffset(anchor ast.Decl) int {
	pos := anchor.Pos()

	switch d := anchor.(type) {
	case *ast.FuncDecl:
		if d.Doc != nil {
			pos = d.Doc.Pos()
		}
	case *ast.GenDecl:
		if d.Doc != nil {
			pos = d.Doc.Pos()
		}
	}

	return o.unit.Offset(pos)
}
