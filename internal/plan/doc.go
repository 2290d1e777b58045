// Package plan resolves a synthesis request against a Unit: it finds the
// binding context of the target declaration and matches the requested
// binding keys against the candidates reachable from it.
//
// Resolution pipeline:
//  1. Target (named type or instantiation) → binding Context
//  2. Context → candidates (delegatable field methods or missing interface methods)
//  3. Requested keys → matched candidates, in request order
//  4. Misses are reported as diagnostics, never as errors
package plan
