// Package rewrite layers pending declarations and imports over a parsed Go
// file without mutating it.
//
// It has three parts:
//   - Table and Marker: a side table attaching correlation data to syntax
//     nodes, and the text spans recorded for them;
//   - Flatten: a printer that serializes synthesized declarations while
//     emitting markers for tracked and placeholder nodes;
//   - Overlay and ImportRewrite: pending insertions into the file's
//     declaration list and import section, spliced into the original text
//     by Overlay.Rewrite.
package rewrite
