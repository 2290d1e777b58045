// Package gen synthesizes method declarations from resolved bindings.
//
// Two kinds of stubs are produced:
//   - unimplemented stubs for interface methods a type lacks, with a
//     placeholder body chosen by Settings.Body;
//   - delegate stubs forwarding to a method of one of the type's fields.
//
// Stubs are fresh *ast.FuncDecl values. Type expressions are rendered through
// the overlay's ImportRewrite so that required imports are recorded rather
// than written inline. Nothing here touches the buffer.
package gen
