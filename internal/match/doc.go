// Package match ranks binding keys by similarity so that a key which does
// not resolve can be reported together with the closest available ones.
//
// Key functions:
//   - Levenshtein: computes edit distance between strings
//   - NormalizeKey: folds a binding key for fuzzy comparison
//   - Suggest: returns the closest candidate keys
package match
