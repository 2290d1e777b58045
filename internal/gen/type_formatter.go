package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/types"
)

// qualifier returns a types.Qualifier that records every referenced package
// in the import accumulator and yields its local name.
func (g *Generator) qualifier() types.Qualifier {
	return func(p *types.Package) string {
		if p == g.unit.Pkg {
			return ""
		}

		return g.imports.Add(p.Path(), p.Name())
	}
}

// docQualifier names packages without recording imports, for comments.
func (g *Generator) docQualifier(p *types.Package) string {
	if p == g.unit.Pkg {
		return ""
	}

	return p.Name()
}

// typeString renders t as seen from the unit's file.
func (g *Generator) typeString(t types.Type) string {
	return types.TypeString(t, g.qualifier())
}

// typeExpr renders t into a fresh expression.
func (g *Generator) typeExpr(t types.Type) (ast.Expr, error) {
	s := g.typeString(t)

	expr, err := parser.ParseExpr(s)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", s, err)
	}

	return expr, nil
}
