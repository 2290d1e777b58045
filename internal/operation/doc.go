// Package operation implements the member synthesis operations: adding
// delegate methods and adding unimplemented interface methods to a type.
//
// An operation analyses a snapshot of the document, synthesizes the
// requested members into a rewrite overlay, formats them and computes the
// minimal edit between the snapshot and the rewritten text. When asked to,
// it then checks the document out of the registry, applies the edit and
// saves it. The handle is released on every path.
package operation
