// Package diagnostic provides structured, non-fatal findings of a synthesis
// request.
//
// Key capabilities:
//   - Unresolved binding keys with "did you mean" suggestions
//   - Missing insertion anchors (the request degrades to append)
//   - Unknown target types and interfaces
//   - Soft type-checking errors of the analysed package
package diagnostic
