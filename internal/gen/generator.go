package gen

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"
	"unicode"
	"unicode/utf8"

	"stubgen/internal/analyze"
	"stubgen/internal/rewrite"
)

// Stub is one synthesized method declaration.
type Stub struct {
	Key  analyze.BindingKey
	Name string
	Decl *ast.FuncDecl
	// Body is the placeholder node of an unimplemented stub; nil for delegates.
	Body ast.Node
}

// BodyData is the placeholder data attached to a stub's body.
type BodyData struct {
	Stub *Stub
}

// Generator synthesizes stubs for the types of one Unit. Imports and
// markers are recorded in the overlay the generator was created for.
type Generator struct {
	unit     *analyze.Unit
	settings Settings
	imports  *rewrite.ImportRewrite
	table    *rewrite.Table
}

// NewGenerator creates a Generator writing into overlay.
func NewGenerator(unit *analyze.Unit, settings Settings, overlay *rewrite.Overlay) *Generator {
	return &Generator{
		unit:     unit,
		settings: settings,
		imports:  overlay.Imports(),
		table:    overlay.Table(),
	}
}

// Unimplemented synthesizes a stub for an interface method named lacks. The
// whole declaration is tracked and the body is registered as a placeholder.
func (g *Generator) Unimplemented(named *types.Named, m analyze.Missing) (*Stub, error) {
	sig, ok := m.Method.Type().(*types.Signature)
	if !ok {
		return nil, fmt.Errorf("method %s has no signature", m.Method.Name())
	}

	ftype, err := g.funcType(sig)
	if err != nil {
		return nil, fmt.Errorf("stub %s: %w", m.Method.Name(), err)
	}

	body, placeholder, err := g.placeholderBody(sig)
	if err != nil {
		return nil, fmt.Errorf("stub %s: %w", m.Method.Name(), err)
	}

	// Parameters and receiver must not shadow what the body refers to.
	reserved := bodyNames(body)
	recv, recvName := g.receiver(named, reserved)
	reserved[recvName] = true
	nameParams(ftype, sig.Params(), reserved)

	decl := &ast.FuncDecl{
		Recv: recv,
		Name: ast.NewIdent(m.Method.Name()),
		Type: ftype,
		Body: body,
	}

	if g.settings.Comments {
		decl.Doc = comment(fmt.Sprintf("%s implements %s.",
			m.Method.Name(), types.TypeString(m.Interface, g.docQualifier)))
	}

	stub := &Stub{Key: m.Key(), Name: m.Method.Name(), Decl: decl, Body: placeholder}

	g.table.Track(decl, stub)
	g.table.Placeholder(placeholder, BodyData{Stub: stub})

	return stub, nil
}

// Delegate synthesizes a method forwarding to d's method through d's field.
// Void methods are called without return.
func (g *Generator) Delegate(named *types.Named, d analyze.Delegatable) (*Stub, error) {
	sig, ok := d.Method.Type().(*types.Signature)
	if !ok {
		return nil, fmt.Errorf("method %s has no signature", d.Method.Name())
	}

	ftype, err := g.funcType(sig)
	if err != nil {
		return nil, fmt.Errorf("delegate %s: %w", d.Method.Name(), err)
	}

	reserved := make(map[string]bool)
	recv, recvName := g.receiver(named, reserved)
	reserved[recvName] = true
	args := nameParams(ftype, sig.Params(), reserved)

	target := &ast.SelectorExpr{
		X:   &ast.SelectorExpr{X: ast.NewIdent(recvName), Sel: ast.NewIdent(d.Field.Name())},
		Sel: ast.NewIdent(d.Method.Name()),
	}

	call := &ast.CallExpr{Fun: target, Args: args}
	if sig.Variadic() {
		call.Ellipsis = token.Pos(1)
	}

	var stmt ast.Stmt = &ast.ExprStmt{X: call}
	if sig.Results().Len() > 0 {
		stmt = &ast.ReturnStmt{Results: []ast.Expr{call}}
	}

	decl := &ast.FuncDecl{
		Recv: recv,
		Name: ast.NewIdent(d.Method.Name()),
		Type: ftype,
		Body: &ast.BlockStmt{List: []ast.Stmt{stmt}},
	}

	forward := recvName + "." + d.Field.Name() + "." + d.Method.Name()

	var lines []string
	if g.settings.Delegate {
		lines = append(lines, fmt.Sprintf("%s forwards to %s.", d.Method.Name(), forward))
	}

	if g.settings.Deprecate {
		if len(lines) > 0 {
			lines = append(lines, "")
		}

		lines = append(lines, fmt.Sprintf("Deprecated: use %s.%s instead.", d.Field.Name(), d.Method.Name()))
	}

	if len(lines) > 0 {
		decl.Doc = comment(lines...)
	}

	stub := &Stub{Key: d.Key(), Name: d.Method.Name(), Decl: decl}
	g.table.Track(decl, stub)

	return stub, nil
}

// receiver builds the receiver of new methods on named, following the
// receivers of its existing methods. The receiver's type parameter names are
// added to reserved and the receiver name avoids them.
func (g *Generator) receiver(named *types.Named, reserved map[string]bool) (*ast.FieldList, string) {
	origin := named.Origin()
	typeName := origin.Obj().Name()

	var typ ast.Expr = ast.NewIdent(typeName)

	if tparams := origin.TypeParams(); tparams.Len() > 0 {
		indices := make([]ast.Expr, tparams.Len())
		for i := range tparams.Len() {
			tname := tparams.At(i).Obj().Name()
			reserved[tname] = true
			indices[i] = ast.NewIdent(tname)
		}

		if len(indices) == 1 {
			typ = &ast.IndexExpr{X: typ, Index: indices[0]}
		} else {
			typ = &ast.IndexListExpr{X: typ, Indices: indices}
		}
	}

	existing := g.unit.ExistingReceiver(typeName)
	if !existing.Found || existing.Pointer {
		typ = &ast.StarExpr{X: typ}
	}

	name := existing.Name
	if name == "" || reserved[name] {
		name = freshName(defaultReceiverName(typeName), reserved)
	}

	return &ast.FieldList{List: []*ast.Field{{Names: []*ast.Ident{ast.NewIdent(name)}, Type: typ}}}, name
}

func defaultReceiverName(typeName string) string {
	r, _ := utf8.DecodeRuneInString(typeName)
	if !unicode.IsLetter(r) {
		return "r"
	}

	return string(unicode.ToLower(r))
}

// freshName returns base, or base followed by the first counter from 2 on
// that is not taken.
func freshName(base string, taken map[string]bool) string {
	name := base
	for i := 2; taken[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}

	return name
}

// bodyNames returns the identifiers body resolves from its enclosing scopes.
// Selected names are skipped: in time.Time only time is collected.
func bodyNames(body ast.Node) map[string]bool {
	names := make(map[string]bool)

	var visit func(ast.Node) bool
	visit = func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.SelectorExpr:
			ast.Inspect(n.X, visit)
			return false
		case *ast.Ident:
			names[n.Name] = true
		}

		return true
	}

	ast.Inspect(body, visit)

	return names
}

// nameParams names the parameters of ft after params. A declared name is
// kept unless it is blank, repeated or reserved; any other parameter gets
// the first p<N>, N from its index on, that no parameter declares. The
// returned args reference the parameters in order.
func nameParams(ft *ast.FuncType, params *types.Tuple, reserved map[string]bool) []ast.Expr {
	declared := make(map[string]bool, params.Len())
	for i := range params.Len() {
		declared[params.At(i).Name()] = true
	}

	used := make(map[string]bool, params.Len())
	taken := func(name string) bool {
		return reserved[name] || declared[name] || used[name]
	}

	args := make([]ast.Expr, 0, params.Len())

	for i, field := range ft.Params.List {
		name := params.At(i).Name()
		if name == "" || name == "_" || used[name] || reserved[name] {
			name = fmt.Sprintf("p%d", i)
			for n := i + 1; taken(name); n++ {
				name = fmt.Sprintf("p%d", n)
			}
		}

		used[name] = true
		field.Names = []*ast.Ident{ast.NewIdent(name)}
		args = append(args, ast.NewIdent(name))
	}

	return args
}

// funcType renders sig as a method type with unnamed parameters and
// results; see nameParams.
func (g *Generator) funcType(sig *types.Signature) (*ast.FuncType, error) {
	params := sig.Params()
	ft := &ast.FuncType{Params: &ast.FieldList{}}

	for i := range params.Len() {
		var (
			texpr ast.Expr
			err   error
		)

		if sig.Variadic() && i == params.Len()-1 {
			slice, _ := params.At(i).Type().(*types.Slice)
			if slice == nil {
				return nil, fmt.Errorf("variadic parameter %d is not a slice", i)
			}

			var elem ast.Expr

			elem, err = g.typeExpr(slice.Elem())
			texpr = &ast.Ellipsis{Elt: elem}
		} else {
			texpr, err = g.typeExpr(params.At(i).Type())
		}

		if err != nil {
			return nil, err
		}

		ft.Params.List = append(ft.Params.List, &ast.Field{Type: texpr})
	}

	results := sig.Results()
	if results.Len() == 0 {
		return ft, nil
	}

	ft.Results = &ast.FieldList{}

	for i := range results.Len() {
		texpr, err := g.typeExpr(results.At(i).Type())
		if err != nil {
			return nil, err
		}

		ft.Results.List = append(ft.Results.List, &ast.Field{Type: texpr})
	}

	return ft, nil
}

// placeholderBody builds the body of an unimplemented stub and returns the
// node to register as placeholder.
func (g *Generator) placeholderBody(sig *types.Signature) (*ast.BlockStmt, ast.Node, error) {
	body := &ast.BlockStmt{}

	if g.settings.Body == BodyZero {
		results := sig.Results()
		if results.Len() == 0 {
			return body, body, nil
		}

		ret := &ast.ReturnStmt{}

		for i := range results.Len() {
			zero, err := g.zeroValue(results.At(i).Type())
			if err != nil {
				return nil, nil, err
			}

			ret.Results = append(ret.Results, zero)
		}

		body.List = []ast.Stmt{ret}

		return body, ret, nil
	}

	stmt := &ast.ExprStmt{X: &ast.CallExpr{
		Fun:  ast.NewIdent("panic"),
		Args: []ast.Expr{&ast.BasicLit{Kind: token.STRING, Value: `"unimplemented"`}},
	}}
	body.List = []ast.Stmt{stmt}

	return body, stmt, nil
}

// comment builds a doc comment; an empty line becomes a bare "//".
func comment(lines ...string) *ast.CommentGroup {
	cg := &ast.CommentGroup{}
	for _, line := range lines {
		text := "//"
		if line != "" {
			text += " " + strings.TrimSpace(line)
		}

		cg.List = append(cg.List, &ast.Comment{Text: text})
	}

	return cg
}
