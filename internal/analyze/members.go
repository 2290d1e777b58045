package analyze

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"
)

// Delegatable is a method reachable through one field of a struct: calling
// recv.Field.Method forwards to it. It is the [fieldBinding, memberBinding]
// pair the delegate operation matches keys against.
type Delegatable struct {
	Field  *types.Var
	Method *types.Func
}

// Key returns the binding key of the delegated method.
func (d Delegatable) Key() BindingKey {
	return KeyOf(d.Method)
}

// DelegatableMethods enumerates, in field order and then method order, every
// method of every field type of named's underlying struct. Methods already
// declared on named and unexported methods of other packages are skipped.
// Non-struct types have no delegatable methods.
func DelegatableMethods(named *types.Named, pkg *types.Package) []Delegatable {
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	declared := declaredMethods(named)

	var out []Delegatable

	for i := range st.NumFields() {
		field := st.Field(i)
		if field.Name() == "_" {
			continue
		}

		ft := field.Type()
		if _, isParam := ft.(*types.TypeParam); isParam {
			continue
		}

		for _, m := range fieldMethods(ft) {
			if declared[m.Name()] {
				continue
			}

			if !m.Exported() && m.Pkg() != pkg {
				continue
			}

			out = append(out, Delegatable{Field: field, Method: m})
		}
	}

	return out
}

// fieldMethods returns the methods callable on an addressable value of type t.
func fieldMethods(t types.Type) []*types.Func {
	mt := t
	if _, isPtr := t.Underlying().(*types.Pointer); !isPtr && !types.IsInterface(t) {
		mt = types.NewPointer(t)
	}

	ms := types.NewMethodSet(mt)
	out := make([]*types.Func, 0, ms.Len())

	for i := range ms.Len() {
		if fn, ok := ms.At(i).Obj().(*types.Func); ok {
			out = append(out, fn)
		}
	}

	return out
}

func declaredMethods(named *types.Named) map[string]bool {
	origin := named.Origin()
	declared := make(map[string]bool, origin.NumMethods())

	for i := range origin.NumMethods() {
		declared[origin.Method(i).Name()] = true
	}

	return declared
}

// Missing is an interface method that a type does not implement.
type Missing struct {
	// Interface is the interface type the method belongs to.
	Interface types.Type
	Method    *types.Func
}

// Key returns the binding key of the missing method.
func (m Missing) Key() BindingKey {
	return KeyOf(m.Method)
}

// MissingMethods returns the methods of supers that are absent from the
// method set of *named, in super order then interface method order.
// A method name required by several interfaces is reported once.
func MissingMethods(named *types.Named, supers []types.Type, pkg *types.Package) []Missing {
	seen := make(map[string]bool)

	var out []Missing

	for _, super := range supers {
		iface, ok := super.Underlying().(*types.Interface)
		if !ok {
			continue
		}

		for i := range iface.NumMethods() {
			m := iface.Method(i)
			if seen[m.Name()] {
				continue
			}

			seen[m.Name()] = true

			if !m.Exported() && m.Pkg() != pkg {
				continue
			}

			obj, _, _ := types.LookupFieldOrMethod(named, true, pkg, m.Name())
			if obj != nil {
				continue
			}

			out = append(out, Missing{Interface: super, Method: m})
		}
	}

	return out
}

// AssertedInterfaces collects the interfaces the package asserts named to
// implement with declarations such as
//
//	var _ io.Reader = (*T)(nil)
//	var _ fmt.Stringer = T{}
func AssertedInterfaces(u *Unit, named *types.Named) []types.Type {
	var out []types.Type

	for _, f := range u.Files {
		for _, decl := range f.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.VAR {
				continue
			}

			for _, spec := range gen.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok || vs.Type == nil {
					continue
				}

				iface := u.Info.TypeOf(vs.Type)
				if iface == nil || !types.IsInterface(iface) {
					continue
				}

				for _, v := range vs.Values {
					if sameNamed(u.Info.TypeOf(v), named) {
						out = AppendUnique(out, iface)
						break
					}
				}
			}
		}
	}

	return out
}

// AppendUnique appends t unless an identical type is already present.
func AppendUnique(list []types.Type, t types.Type) []types.Type {
	for _, existing := range list {
		if types.Identical(existing, t) {
			return list
		}
	}

	return append(list, t)
}

// NamedOfType returns the named type behind t, dereferencing one pointer.
func NamedOfType(t types.Type) *types.Named {
	if t == nil {
		return nil
	}

	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}

	named, _ := types.Unalias(t).(*types.Named)

	return named
}

func sameNamed(t types.Type, named *types.Named) bool {
	n := NamedOfType(t)
	return n != nil && n.Origin().Obj() == named.Origin().Obj()
}

// LookupType resolves a possibly qualified type name ("Reader", "io.Reader",
// "example.com/pkg.Reader") as seen from the unit's file. It returns nil
// when the name does not denote a type.
func (u *Unit) LookupType(name string) types.Type {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return typeOf(u.Pkg.Scope().Lookup(name))
	}

	qual, ident := name[:dot], name[dot+1:]

	for _, imp := range u.File.Imports {
		pkgName := u.Info.PkgNameOf(imp)
		if pkgName == nil {
			continue
		}

		if pkgName.Name() == qual || pkgName.Imported().Path() == qual {
			return typeOf(pkgName.Imported().Scope().Lookup(ident))
		}
	}

	for _, imported := range u.Pkg.Imports() {
		if imported.Path() == qual {
			return typeOf(imported.Scope().Lookup(ident))
		}
	}

	if u.Pkg.Path() == qual || u.Pkg.Name() == qual {
		return typeOf(u.Pkg.Scope().Lookup(ident))
	}

	return nil
}

func typeOf(obj types.Object) types.Type {
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil
	}

	return tn.Type()
}
