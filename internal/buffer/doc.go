// Package buffer manages the documents edits are applied to.
//
// A Registry holds the live documents opened by clients and hands out
// exclusive, reference-counted Handles. Acquiring a path that is not open
// materializes a temporary document from Storage; such a document lives only
// as long as its handle. Acquisition is reentrant for the same owner, see
// WithOwner.
package buffer
