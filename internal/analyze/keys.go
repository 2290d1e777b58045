package analyze

import (
	"go/types"
	"strings"
)

// BindingKey is a stable textual identifier of a method signature within a
// type: the method name, the parameter types and the result types, with
// every named type qualified by its full package path. Parameter names are
// not part of the key.
//
// Examples:
//
//	Close()error
//	Read([]byte)(int,error)
//	Printf(string,...any)
//	Serve(net.Listener)error
type BindingKey string

// String returns the key text.
func (k BindingKey) String() string {
	return string(k)
}

// Name returns the method name part of the key.
func (k BindingKey) Name() string {
	name, _, _ := strings.Cut(string(k), "(")
	return name
}

// Keys converts plain strings into binding keys.
func Keys(ss ...string) []BindingKey {
	keys := make([]BindingKey, len(ss))
	for i, s := range ss {
		keys[i] = BindingKey(s)
	}

	return keys
}

// KeyOf returns the binding key of a method or function.
func KeyOf(fn *types.Func) BindingKey {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return BindingKey(fn.Name())
	}

	return BindingKey(fn.Name() + SignatureKey(sig))
}

// SignatureKey renders the parameter and result part of a binding key.
func SignatureKey(sig *types.Signature) string {
	var sb strings.Builder

	sb.WriteByte('(')

	params := sig.Params()
	for i := range params.Len() {
		if i > 0 {
			sb.WriteByte(',')
		}

		t := params.At(i).Type()
		if sig.Variadic() && i == params.Len()-1 {
			if s, ok := t.(*types.Slice); ok {
				sb.WriteString("...")
				t = s.Elem()
			}
		}

		sb.WriteString(types.TypeString(t, qualifyByPath))
	}

	sb.WriteByte(')')

	results := sig.Results()
	switch results.Len() {
	case 0:
	case 1:
		sb.WriteString(types.TypeString(results.At(0).Type(), qualifyByPath))
	default:
		sb.WriteByte('(')

		for i := range results.Len() {
			if i > 0 {
				sb.WriteByte(',')
			}

			sb.WriteString(types.TypeString(results.At(i).Type(), qualifyByPath))
		}

		sb.WriteByte(')')
	}

	return sb.String()
}

func qualifyByPath(p *types.Package) string {
	return p.Path()
}
