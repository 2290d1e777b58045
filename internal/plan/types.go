package plan

import (
	"go/ast"
	"go/types"

	"stubgen/internal/analyze"
)

//go:generate go tool stringer -type=TargetKind -trimprefix=Target -output=target_kind_string.go

// TargetKind tells how the target declaration of a request is located.
type TargetKind int

const (
	_ TargetKind = iota // zero value is an invalid kind

	// TargetNamedType is a type declared by name in the file.
	TargetNamedType
	// TargetInstantiation is a composite literal T{...} or &T{...}, usually
	// used where an interface value is expected.
	TargetInstantiation
)

// Target is the declaration a request synthesizes members for.
type Target struct {
	Kind TargetKind
	// TypeName names the type for TargetNamedType.
	TypeName string
	// Offset is a byte offset inside the composite literal for TargetInstantiation.
	Offset int
	// Interfaces are additional interfaces the type must implement, as
	// possibly qualified names ("io.Reader", "Store").
	Interfaces []string
}

// NamedTarget returns a target for the type declared as name.
func NamedTarget(name string, interfaces ...string) Target {
	return Target{Kind: TargetNamedType, TypeName: name, Interfaces: interfaces}
}

// InstantiationTarget returns a target for the composite literal enclosing offset.
func InstantiationTarget(offset int, interfaces ...string) Target {
	return Target{Kind: TargetInstantiation, Offset: offset, Interfaces: interfaces}
}

// Label returns a short human-readable name for diagnostics.
func (t Target) Label() string {
	if t.Kind == TargetNamedType {
		return t.TypeName
	}

	return t.Kind.String()
}

// Context is the resolved binding context of a target.
type Context struct {
	Target Target
	// Named is the type new methods are declared on.
	Named *types.Named
	// Spec is the type declaration (set for TargetNamedType).
	Spec *ast.TypeSpec
	// Lit is the enclosing composite literal (set for TargetInstantiation).
	Lit *ast.CompositeLit
	// Supers are the interfaces the type is expected to implement.
	Supers []types.Type
}

// ID returns the TypeID of the context type.
func (c *Context) ID() analyze.TypeID {
	return analyze.IDOf(c.Named)
}

// TypeName returns the declared name of the context type.
func (c *Context) TypeName() string {
	return c.Named.Obj().Name()
}
