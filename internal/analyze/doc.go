// Package analyze provides the symbol/AST side of member synthesis.
//
// It parses one buffer (plus the rest of its package) with go/parser and
// go/types, or through golang.org/x/tools/go/packages with an overlay, and
// answers the questions the synthesis pipeline asks about types:
//
// Key types:
//   - Unit: the parsed, type-checked file a request operates on
//   - BindingKey: stable textual identifier of a method signature
//   - Delegatable: a [field, method] pair reachable through a struct field
//   - Missing: an interface method the type does not implement yet
package analyze
