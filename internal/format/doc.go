// Package format reformats synthesized declarations while keeping track of
// positions inside them.
//
// A Formatter maps a list of split offsets from the unformatted text into
// the formatted one. Adapter derives those splits from rewrite markers and
// remaps the markers afterwards, resolving interim lengths.
package format
