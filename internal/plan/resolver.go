package plan

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"

	"stubgen/internal/analyze"
	"stubgen/internal/diagnostic"
	"stubgen/internal/match"
)

// maxSuggestions bounds the "did you mean" list of an unresolved key.
const maxSuggestions = 3

// Resolver locates binding contexts and candidates inside one Unit.
type Resolver struct {
	unit  *analyze.Unit
	diags *diagnostic.Diagnostics
}

// NewResolver creates a Resolver reporting misses into diags.
func NewResolver(unit *analyze.Unit, diags *diagnostic.Diagnostics) *Resolver {
	return &Resolver{unit: unit, diags: diags}
}

// Context resolves the binding context of t. It returns nil when the
// declaration, the literal or the named type cannot be located; the miss is
// recorded as a diagnostic and the caller has nothing to do.
func (r *Resolver) Context(t Target) *Context {
	var c *Context

	switch t.Kind {
	case TargetNamedType:
		c = r.namedContext(t)
	case TargetInstantiation:
		c = r.instantiationContext(t)
	default:
		r.diags.AddWarning(diagnostic.CodeTargetNotFound,
			fmt.Sprintf("invalid target kind %s", t.Kind), t.Label(), "")
	}

	if c == nil {
		return nil
	}

	for _, name := range t.Interfaces {
		it := r.unit.LookupType(name)
		if it == nil || !types.IsInterface(it) {
			r.diags.AddWarning(diagnostic.CodeInterfaceNotFound,
				fmt.Sprintf("interface %s not found", name), t.Label(), "")

			continue
		}

		c.Supers = analyze.AppendUnique(c.Supers, it)
	}

	for _, it := range analyze.AssertedInterfaces(r.unit, c.Named) {
		c.Supers = analyze.AppendUnique(c.Supers, it)
	}

	return c
}

func (r *Resolver) namedContext(t Target) *Context {
	spec := r.unit.FindTypeSpec(t.TypeName)
	if spec == nil {
		r.diags.AddWarning(diagnostic.CodeTargetNotFound,
			fmt.Sprintf("type %s is not declared in %s", t.TypeName, r.unit.Path), t.Label(), "")

		return nil
	}

	named := r.unit.NamedOf(spec)
	if named == nil {
		r.diags.AddWarning(diagnostic.CodeTargetNotFound,
			fmt.Sprintf("%s is not a defined type", t.TypeName), t.Label(), "")

		return nil
	}

	return &Context{Target: t, Named: named, Spec: spec}
}

func (r *Resolver) instantiationContext(t Target) *Context {
	pos := r.unit.Pos(t.Offset)
	if !pos.IsValid() {
		r.diags.AddWarning(diagnostic.CodeTargetNotFound,
			fmt.Sprintf("offset %d is outside %s", t.Offset, r.unit.Path), t.Label(), "")

		return nil
	}

	path, _ := astutil.PathEnclosingInterval(r.unit.File, pos, pos)

	litIdx := -1

	for i, n := range path {
		if _, ok := n.(*ast.CompositeLit); ok {
			litIdx = i
			break
		}
	}

	if litIdx < 0 {
		r.diags.AddWarning(diagnostic.CodeTargetNotFound,
			fmt.Sprintf("no composite literal encloses offset %d", t.Offset), t.Label(), "")

		return nil
	}

	lit := path[litIdx].(*ast.CompositeLit)

	named := analyze.NamedOfType(r.unit.Info.TypeOf(lit))
	if named == nil || named.Obj().Pkg() != r.unit.Pkg {
		r.diags.AddWarning(diagnostic.CodeTargetNotFound,
			"the literal's type is not a named type of this package", t.Label(), "")

		return nil
	}

	c := &Context{Target: t, Named: named.Origin(), Lit: lit}

	// Walk out of &T{...} and parentheses to the node giving the expected type.
	var expr ast.Expr = lit

	rest := path[litIdx+1:]
	for len(rest) > 0 {
		switch p := rest[0].(type) {
		case *ast.ParenExpr:
			expr = p
		case *ast.UnaryExpr:
			if p.Op != token.AND {
				rest = nil
				continue
			}

			expr = p
		default:
			if it := expectedType(r.unit.Info, expr, rest); it != nil && types.IsInterface(it) {
				c.Supers = analyze.AppendUnique(c.Supers, it)
			}

			return c
		}

		rest = rest[1:]
	}

	return c
}

// expectedType returns the type that the context path[0] expects for expr,
// or nil when the context does not fix one.
func expectedType(info *types.Info, expr ast.Expr, path []ast.Node) types.Type {
	switch p := path[0].(type) {
	case *ast.ValueSpec:
		if p.Type != nil {
			return info.TypeOf(p.Type)
		}
	case *ast.AssignStmt:
		if p.Tok != token.ASSIGN || len(p.Lhs) != len(p.Rhs) {
			return nil
		}

		if i := indexOf(p.Rhs, expr); i >= 0 {
			return info.TypeOf(p.Lhs[i])
		}
	case *ast.CallExpr:
		sig, ok := info.TypeOf(p.Fun).(*types.Signature)
		if !ok {
			return nil
		}

		return paramType(sig, indexOf(p.Args, expr), p.Ellipsis.IsValid())
	case *ast.ReturnStmt:
		i := indexOf(p.Results, expr)
		if i < 0 {
			return nil
		}

		sig := enclosingSignature(info, path[1:])
		if sig == nil || i >= sig.Results().Len() {
			return nil
		}

		return sig.Results().At(i).Type()
	}

	return nil
}

func paramType(sig *types.Signature, i int, spread bool) types.Type {
	params := sig.Params()
	if i < 0 || params.Len() == 0 {
		return nil
	}

	if sig.Variadic() && i >= params.Len()-1 {
		last := params.At(params.Len() - 1).Type()
		if spread {
			return last
		}

		if s, ok := last.(*types.Slice); ok {
			return s.Elem()
		}

		return nil
	}

	if i >= params.Len() {
		return nil
	}

	return params.At(i).Type()
}

func enclosingSignature(info *types.Info, path []ast.Node) *types.Signature {
	for _, n := range path {
		switch fn := n.(type) {
		case *ast.FuncLit:
			sig, _ := info.TypeOf(fn).(*types.Signature)
			return sig
		case *ast.FuncDecl:
			obj := info.Defs[fn.Name]
			if obj == nil {
				return nil
			}

			sig, _ := obj.Type().(*types.Signature)

			return sig
		}
	}

	return nil
}

func indexOf(list []ast.Expr, expr ast.Expr) int {
	for i, e := range list {
		if e == expr {
			return i
		}
	}

	return -1
}

// Delegates returns the delegatable [field, method] candidates of c.
func (r *Resolver) Delegates(c *Context) []analyze.Delegatable {
	return analyze.DelegatableMethods(c.Named, r.unit.Pkg)
}

// Missing returns the interface methods c's type still lacks.
func (r *Resolver) Missing(c *Context) []analyze.Missing {
	return analyze.MissingMethods(c.Named, c.Supers, r.unit.Pkg)
}

// Candidate is anything that can be matched by binding key.
type Candidate interface {
	Key() analyze.BindingKey
}

// MatchResult is the outcome of matching requested keys against candidates.
type MatchResult[C Candidate] struct {
	// Matched holds one candidate per resolved key, in request order.
	Matched []C
	// Cancelled is set when ctx was done before every key was processed.
	Cancelled bool
}

// Keys returns the keys of the matched candidates.
func (m MatchResult[C]) Keys() []analyze.BindingKey {
	keys := make([]analyze.BindingKey, len(m.Matched))
	for i, c := range m.Matched {
		keys[i] = c.Key()
	}

	return keys
}

// Match resolves keys against cands. Cancellation is polled once per key;
// keys matched before cancellation was observed are kept. For each key the
// first candidate with an equal key wins. A key requested twice is matched
// once. Unresolved keys are reported as info diagnostics with suggestions.
func Match[C Candidate](
	ctx context.Context,
	keys []analyze.BindingKey,
	cands []C,
	diags *diagnostic.Diagnostics,
	target string,
) MatchResult[C] {
	var res MatchResult[C]

	done := make(map[analyze.BindingKey]bool, len(keys))

	for _, key := range keys {
		if ctx.Err() != nil {
			res.Cancelled = true
			diags.AddInfo(diagnostic.CodeCancelled,
				fmt.Sprintf("cancelled after %d of %d keys", len(done), len(keys)), target, "")

			break
		}

		if done[key] {
			continue
		}

		done[key] = true

		found := false

		for _, c := range cands {
			if c.Key() == key {
				res.Matched = append(res.Matched, c)
				found = true

				break
			}
		}

		if !found {
			diags.AddInfo(diagnostic.CodeBindingNotFound, "no candidate with this key", target, string(key),
				match.Suggest(string(key), candidateKeys(cands), maxSuggestions)...)
		}
	}

	return res
}

// All matches every candidate, in candidate order, keeping the first of
// duplicate keys. Cancellation is polled once per candidate.
func All[C Candidate](ctx context.Context, cands []C, diags *diagnostic.Diagnostics, target string) MatchResult[C] {
	keys := make([]analyze.BindingKey, len(cands))
	for i, c := range cands {
		keys[i] = c.Key()
	}

	return Match(ctx, keys, cands, diags, target)
}

func candidateKeys[C Candidate](cands []C) []string {
	keys := make([]string, len(cands))
	for i, c := range cands {
		keys[i] = string(c.Key())
	}

	return keys
}
