package rewrite

import (
	"fmt"
	"go/ast"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"stubgen/internal/analyze"
	"stubgen/internal/common"
)

// StdGroup is the import order entry matching standard library paths.
const StdGroup = "std"

// Import is one import spec added by an ImportRewrite.
type Import struct {
	// Name is the explicit local name, empty when the default name is used.
	Name string
	Path string
}

// String renders the spec as it appears inside an import declaration.
func (i Import) String() string {
	if i.Name == "" {
		return strconv.Quote(i.Path)
	}

	return i.Name + " " + strconv.Quote(i.Path)
}

// Insertion is a text insertion at an offset of the original source.
type Insertion struct {
	Offset int
	Text   string
}

// ImportRewrite accumulates the imports required by synthesized code.
// Packages already imported by the file are reused under their local name.
type ImportRewrite struct {
	unit      *analyze.Unit
	order     []string
	threshold int

	local map[string]string // path -> local name
	taken map[string]string // local name -> path
	added []Import
}

// NewImportRewrite starts an accumulator over unit's file. order lists path
// prefixes defining import groups (StdGroup for the standard library);
// threshold is the number of new imports from which a grouped import
// declaration is created when the file has none (0 disables grouping).
func NewImportRewrite(unit *analyze.Unit, order []string, threshold int) *ImportRewrite {
	r := &ImportRewrite{
		unit:      unit,
		order:     order,
		threshold: threshold,
		local:     make(map[string]string),
		taken:     make(map[string]string),
	}

	for _, imp := range unit.File.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}

		var name string

		switch {
		case imp.Name != nil:
			name = imp.Name.Name
		case unit.Info != nil && unit.Info.PkgNameOf(imp) != nil:
			name = unit.Info.PkgNameOf(imp).Name()
		default:
			name = common.PkgAlias(path)
		}

		if name == "_" || name == "." {
			continue
		}

		r.local[path] = name
		r.taken[name] = path
	}

	return r
}

// Add records that the package at path with declared name is referenced
// and returns the qualifier to use for it. The unit's own package needs no
// qualifier.
func (r *ImportRewrite) Add(path, name string) string {
	if r.unit.Pkg != nil && path == r.unit.Pkg.Path() {
		return ""
	}

	if local, ok := r.local[path]; ok {
		return local
	}

	local := name
	for i := 2; r.conflicts(local); i++ {
		local = fmt.Sprintf("%s%d", name, i)
	}

	imp := Import{Path: path}
	if local != common.PkgAlias(path) {
		imp.Name = local
	}

	r.local[path] = local
	r.taken[local] = path
	r.added = append(r.added, imp)

	return local
}

func (r *ImportRewrite) conflicts(name string) bool {
	if _, ok := r.taken[name]; ok {
		return true
	}

	return r.unit.Pkg != nil && r.unit.Pkg.Scope().Lookup(name) != nil
}

// Added returns the new imports sorted by group then path.
func (r *ImportRewrite) Added() []Import {
	out := append([]Import(nil), r.added...)
	sort.SliceStable(out, func(i, j int) bool {
		gi, gj := r.group(out[i].Path), r.group(out[j].Path)
		if gi != gj {
			return gi < gj
		}

		return out[i].Path < out[j].Path
	})

	return out
}

// group returns the index of the first order entry matching path, or
// len(order) when none does.
func (r *ImportRewrite) group(path string) int {
	for i, prefix := range r.order {
		if prefix == StdGroup {
			if common.IsStdlib(path) {
				return i
			}

			continue
		}

		if strings.HasPrefix(path, prefix) {
			return i
		}
	}

	return len(r.order)
}

// Insertions returns the text insertions adding the accumulated imports to
// the original source. Lines end with delim and specs inside a block are
// indented with indent, a tab when empty.
func (r *ImportRewrite) Insertions(delim, indent string) []Insertion {
	added := r.Added()
	if len(added) == 0 {
		return nil
	}

	if indent == "" {
		indent = "\t"
	}

	var lastSingle *ast.GenDecl

	for _, decl := range r.unit.File.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.IMPORT {
			continue
		}

		if gen.Lparen.IsValid() {
			return []Insertion{r.intoBlock(gen, added, delim, indent)}
		}

		lastSingle = gen
	}

	var (
		offset int
		sb     strings.Builder
	)

	if lastSingle != nil {
		offset = r.unit.Offset(lastSingle.End())
		sb.WriteString(delim)
	} else {
		offset = r.unit.Offset(r.unit.File.Name.End())
		sb.WriteString(delim + delim)
	}

	if r.threshold > 0 && len(added) >= r.threshold {
		sb.WriteString("import (" + delim)

		for i, imp := range added {
			if i > 0 && r.group(imp.Path) != r.group(added[i-1].Path) {
				sb.WriteString(delim)
			}

			sb.WriteString(indent + imp.String() + delim)
		}

		sb.WriteString(")")
	} else {
		for i, imp := range added {
			if i > 0 {
				sb.WriteString(delim)
			}

			sb.WriteString("import " + imp.String())
		}
	}

	return []Insertion{{Offset: offset, Text: sb.String()}}
}

func (r *ImportRewrite) intoBlock(gen *ast.GenDecl, added []Import, delim, indent string) Insertion {
	offset := r.unit.Offset(gen.Rparen)

	var sb strings.Builder

	if offset > 0 && r.unit.Src[offset-1] != '\n' {
		sb.WriteString(delim)
	}

	for _, imp := range added {
		sb.WriteString(indent + imp.String() + delim)
	}

	return Insertion{Offset: offset, Text: sb.String()}
}
