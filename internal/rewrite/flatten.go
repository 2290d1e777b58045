package rewrite

import (
	"errors"
	"fmt"
	"go/ast"
	"strings"
)

// ErrUnsupportedNode is returned by Flatten for syntax it cannot print.
var ErrUnsupportedNode = errors.New("unsupported node")

// Flatten serializes node into unformatted Go source and reports a marker
// for every node carrying tracked or placeholder data in table. Markers are
// returned in emission order.
//
// The output is token-correct but not laid out; it is meant to be passed
// through a formatter. Separators are written by the parent before a child
// is entered, so marker spans never include surrounding whitespace.
func Flatten(node ast.Node, table *Table) (string, []*Marker, error) {
	p := &flattener{table: table}
	p.node(node)

	if p.err != nil {
		return "", nil, p.err
	}

	return p.sb.String(), p.markers, nil
}

type flattener struct {
	sb      strings.Builder
	table   *Table
	markers []*Marker
	err     error
}

func (p *flattener) pre(n ast.Node) {
	if p.table == nil {
		return
	}

	if data, ok := p.table.TrackedData(n); ok {
		p.markers = append(p.markers, &Marker{Kind: Tracked, Data: data, Offset: p.sb.Len()})
	}

	if data, ok := p.table.PlaceholderData(n); ok {
		p.markers = append(p.markers, &Marker{Kind: Placeholder, Data: data, Offset: p.sb.Len()})
	}
}

func (p *flattener) post(n ast.Node) {
	if p.table == nil {
		return
	}

	if data, ok := p.table.PlaceholderData(n); ok {
		// Close the most recently opened placeholder for data.
		for i := len(p.markers) - 1; i >= 0; i-- {
			m := p.markers[i]
			if m.Kind == Placeholder && m.Data == data {
				m.Length = p.sb.Len() - m.Offset
				break
			}
		}
	}

	if data, ok := p.table.TrackedData(n); ok {
		p.markers = append(p.markers, &Marker{Kind: Tracked, Data: data, Offset: p.sb.Len(), Length: -1})
	}
}

func (p *flattener) write(ss ...string) {
	for _, s := range ss {
		p.sb.WriteString(s)
	}
}

func (p *flattener) fail(n ast.Node) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %T", ErrUnsupportedNode, n)
	}
}

func (p *flattener) node(n ast.Node) {
	if p.err != nil {
		return
	}

	p.pre(n)

	switch n := n.(type) {
	case *ast.FuncDecl:
		p.funcDecl(n)
	case *ast.CommentGroup:
		for i, c := range n.List {
			if i > 0 {
				p.write("\n")
			}

			p.write(c.Text)
		}
	case *ast.FieldList:
		p.fieldList(n, "(", ")")
	case *ast.Field:
		p.field(n)
	case *ast.BlockStmt:
		p.write("{")

		for _, s := range n.List {
			p.write("\n")
			p.node(s)
		}

		p.write("\n}")
	case *ast.ExprStmt:
		p.node(n.X)
	case *ast.ReturnStmt:
		p.write("return")

		for i, r := range n.Results {
			if i == 0 {
				p.write(" ")
			} else {
				p.write(", ")
			}

			p.node(r)
		}
	default:
		if expr, ok := n.(ast.Expr); ok {
			p.expr(expr)
		} else {
			p.fail(n)
		}
	}

	p.post(n)
}

func (p *flattener) funcDecl(n *ast.FuncDecl) {
	if n.Doc != nil {
		p.node(n.Doc)
		p.write("\n")
	}

	p.write("func ")

	if n.Recv != nil {
		p.node(n.Recv)
		p.write(" ")
	}

	p.node(n.Name)
	p.signature(n.Type)

	if n.Body != nil {
		p.write(" ")
		p.node(n.Body)
	}
}

// signature prints a function type without the func keyword.
func (p *flattener) signature(ft *ast.FuncType) {
	if ft.TypeParams != nil {
		p.fieldList(ft.TypeParams, "[", "]")
	}

	if ft.Params != nil {
		p.node(ft.Params)
	} else {
		p.write("()")
	}

	res := ft.Results
	if res == nil || len(res.List) == 0 {
		return
	}

	p.write(" ")

	if len(res.List) == 1 && len(res.List[0].Names) == 0 {
		p.node(res.List[0])
		return
	}

	p.node(res)
}

func (p *flattener) fieldList(fl *ast.FieldList, open, closing string) {
	p.write(open)

	for i, f := range fl.List {
		if i > 0 {
			p.write(", ")
		}

		p.node(f)
	}

	p.write(closing)
}

func (p *flattener) field(f *ast.Field) {
	for i, name := range f.Names {
		if i > 0 {
			p.write(", ")
		}

		p.node(name)
	}

	if len(f.Names) > 0 {
		p.write(" ")
	}

	p.node(f.Type)

	if f.Tag != nil {
		p.write(" ")
		p.node(f.Tag)
	}
}

// members prints the fields of a struct or the elements of an interface.
func (p *flattener) members(fl *ast.FieldList, method bool) {
	p.write("{")

	for i, f := range fl.List {
		if i > 0 {
			p.write("; ")
		}

		if method && len(f.Names) == 1 {
			if ft, ok := f.Type.(*ast.FuncType); ok {
				p.pre(f)
				p.node(f.Names[0])
				p.signature(ft)
				p.post(f)

				continue
			}
		}

		p.node(f)
	}

	p.write("}")
}

func (p *flattener) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Ident:
		p.write(e.Name)
	case *ast.BasicLit:
		p.write(e.Value)
	case *ast.SelectorExpr:
		p.node(e.X)
		p.write(".")
		p.node(e.Sel)
	case *ast.StarExpr:
		p.write("*")
		p.node(e.X)
	case *ast.UnaryExpr:
		p.write(e.Op.String())
		p.node(e.X)
	case *ast.BinaryExpr:
		p.node(e.X)
		p.write(" ", e.Op.String(), " ")
		p.node(e.Y)
	case *ast.ParenExpr:
		p.write("(")
		p.node(e.X)
		p.write(")")
	case *ast.Ellipsis:
		p.write("...")

		if e.Elt != nil {
			p.node(e.Elt)
		}
	case *ast.ArrayType:
		p.write("[")

		if e.Len != nil {
			p.node(e.Len)
		}

		p.write("]")
		p.node(e.Elt)
	case *ast.MapType:
		p.write("map[")
		p.node(e.Key)
		p.write("]")
		p.node(e.Value)
	case *ast.ChanType:
		switch e.Dir {
		case ast.SEND:
			p.write("chan<- ")
		case ast.RECV:
			p.write("<-chan ")
		default:
			p.write("chan ")
		}

		p.node(e.Value)
	case *ast.FuncType:
		p.write("func")
		p.signature(e)
	case *ast.StructType:
		p.write("struct")
		p.members(e.Fields, false)
	case *ast.InterfaceType:
		p.write("interface")
		p.members(e.Methods, true)
	case *ast.IndexExpr:
		p.node(e.X)
		p.write("[")
		p.node(e.Index)
		p.write("]")
	case *ast.IndexListExpr:
		p.node(e.X)
		p.write("[")

		for i, idx := range e.Indices {
			if i > 0 {
				p.write(", ")
			}

			p.node(idx)
		}

		p.write("]")
	case *ast.CallExpr:
		p.node(e.Fun)
		p.write("(")

		for i, arg := range e.Args {
			if i > 0 {
				p.write(", ")
			}

			p.node(arg)
		}

		if e.Ellipsis.IsValid() {
			p.write("...")
		}

		p.write(")")
	case *ast.CompositeLit:
		if e.Type != nil {
			p.node(e.Type)
		}

		p.write("{")

		for i, elt := range e.Elts {
			if i > 0 {
				p.write(", ")
			}

			p.node(elt)
		}

		p.write("}")
	case *ast.KeyValueExpr:
		p.node(e.Key)
		p.write(": ")
		p.node(e.Value)
	default:
		p.fail(e)
	}
}
