package gen

import (
	"go/ast"
	"go/token"
	"go/types"
)

// zeroValue returns an expression for the zero value of t.
func (g *Generator) zeroValue(t types.Type) (ast.Expr, error) {
	switch u := types.Unalias(t).(type) {
	case *types.TypeParam:
		texpr, err := g.typeExpr(u)
		if err != nil {
			return nil, err
		}

		// *new(T)
		return &ast.StarExpr{X: &ast.CallExpr{Fun: ast.NewIdent("new"), Args: []ast.Expr{texpr}}}, nil
	case *types.Named:
		switch u.Underlying().(type) {
		case *types.Struct, *types.Array:
			return g.compositeZero(u)
		default:
			return g.zeroValue(u.Underlying())
		}
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		return zeroValueForBasicType(u), nil
	case *types.Struct, *types.Array:
		return g.compositeZero(t)
	default:
		// pointers, slices, maps, channels, functions and interfaces
		return ast.NewIdent("nil"), nil
	}
}

func (g *Generator) compositeZero(t types.Type) (ast.Expr, error) {
	texpr, err := g.typeExpr(t)
	if err != nil {
		return nil, err
	}

	return &ast.CompositeLit{Type: texpr}, nil
}

// zeroValueForBasicType returns the zero value literal for a basic type.
func zeroValueForBasicType(b *types.Basic) ast.Expr {
	info := b.Info()

	switch {
	case info&types.IsBoolean != 0:
		return ast.NewIdent("false")
	case info&types.IsString != 0:
		return &ast.BasicLit{Kind: token.STRING, Value: `""`}
	case info&types.IsNumeric != 0:
		return &ast.BasicLit{Kind: token.INT, Value: "0"}
	default:
		// unsafe.Pointer and untyped nil
		return ast.NewIdent("nil")
	}
}
