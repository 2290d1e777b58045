package analyze

import (
	"bytes"
	"go/ast"
	"go/token"
	"go/types"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "example.com/server"
	Name    string // e.g., "Server"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// IDOf returns the TypeID of a named type.
func IDOf(named *types.Named) TypeID {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return TypeID{Name: obj.Name()}
	}

	return TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
}

// Unit is one parsed and type-checked Go file together with the package it
// belongs to. A Unit is read-only: rewrites are layered over it, never
// applied to it.
type Unit struct {
	// Path is the buffer identity the unit was parsed from.
	Path string
	// Src is the exact content that was parsed.
	Src []byte
	// Fset holds positions for every file of the package.
	Fset *token.FileSet
	// File is the syntax tree of Path.
	File *ast.File
	// Files are all files of the package, File included.
	Files []*ast.File
	// Pkg is the type-checked package.
	Pkg *types.Package
	// Info holds type information for every file in Files.
	Info *types.Info
	// TypeErrors are soft type-checking errors. A type that is missing
	// methods produces exactly such errors, so they never abort a request.
	TypeErrors []error
	// SiblingErrors name the sibling files left out of the check because
	// they could not be read or parsed.
	SiblingErrors []error
}

// Offset converts a position inside File into a byte offset into Src.
func (u *Unit) Offset(pos token.Pos) int {
	return u.Fset.File(u.File.Package).Offset(pos)
}

// Pos converts a byte offset into Src into a position inside File.
// Offsets outside the file yield token.NoPos.
func (u *Unit) Pos(offset int) token.Pos {
	tf := u.Fset.File(u.File.Package)
	if offset < 0 || offset > tf.Size() {
		return token.NoPos
	}

	return tf.Pos(offset)
}

// LineDelimiter returns the line delimiter used by Src: "\r\n" when the
// first line ends with it, "\n" otherwise.
func (u *Unit) LineDelimiter() string {
	i := bytes.IndexByte(u.Src, '\n')
	if i > 0 && u.Src[i-1] == '\r' {
		return "\r\n"
	}

	return "\n"
}

// FindTypeSpec returns the declaration of the named type in File, or nil.
func (u *Unit) FindTypeSpec(name string) *ast.TypeSpec {
	for _, decl := range u.File.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if ok && ts.Name.Name == name {
				return ts
			}
		}
	}

	return nil
}

// NamedOf returns the named type declared by spec, or nil when spec does
// not declare a defined type (e.g. an alias to an unnamed type).
func (u *Unit) NamedOf(spec *ast.TypeSpec) *types.Named {
	obj, ok := u.Info.Defs[spec.Name].(*types.TypeName)
	if !ok {
		return nil
	}

	named, _ := types.Unalias(obj.Type()).(*types.Named)

	return named
}

// Receiver describes how existing methods of a type spell their receiver.
type Receiver struct {
	Name    string
	Pointer bool
	// Found is false when the type has no method with a usable receiver.
	Found bool
}

// ExistingReceiver looks for methods declared on the type named typeName in
// any file of the package and reports the receiver of the first one.
func (u *Unit) ExistingReceiver(typeName string) Receiver {
	for _, f := range u.Files {
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
				continue
			}

			field := fn.Recv.List[0]

			base, pointer := receiverBase(field.Type)
			if base != typeName {
				continue
			}

			r := Receiver{Pointer: pointer, Found: true}
			if len(field.Names) > 0 && field.Names[0].Name != "_" {
				r.Name = field.Names[0].Name
			}

			return r
		}
	}

	return Receiver{}
}

// ReceiverBase returns the base type name of a method receiver expression.
func ReceiverBase(expr ast.Expr) string {
	name, _ := receiverBase(expr)
	return name
}

func receiverBase(expr ast.Expr) (string, bool) {
	pointer := false

	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			pointer = true
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name, pointer
		default:
			return "", pointer
		}
	}
}
