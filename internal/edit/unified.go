package edit

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

type diffLine struct {
	kind byte // ' ', '-' or '+'
	text string
}

// Unified renders a line-based diff between original and target in unified
// format, labelled with name. Identical texts render as "".
func Unified(name, original, target string) string {
	if original == target {
		return ""
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	a, b, lines := dmp.DiffLinesToChars(original, target)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var all []diffLine

	for _, d := range diffs {
		kind := byte(' ')

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			kind = '-'
		case diffmatchpatch.DiffInsert:
			kind = '+'
		case diffmatchpatch.DiffEqual:
		}

		for _, l := range splitLines(d.Text) {
			all = append(all, diffLine{kind: kind, text: l})
		}
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", name, name)

	oldLine, newLine := 1, 1

	for i := 0; i < len(all); {
		if all[i].kind == ' ' {
			oldLine++
			newLine++
			i++

			continue
		}

		start := max(i-contextLines, 0)
		end := hunkEnd(all, i)

		oldStart := oldLine - (i - start)
		newStart := newLine - (i - start)

		var oldCount, newCount int

		for _, l := range all[start:end] {
			if l.kind != '+' {
				oldCount++
			}

			if l.kind != '-' {
				newCount++
			}
		}

		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)

		for j := start; j < end; j++ {
			sb.WriteByte(all[j].kind)
			sb.WriteString(strings.TrimRight(all[j].text, "\r\n"))
			sb.WriteByte('\n')

			if j >= i {
				if all[j].kind != '+' {
					oldLine++
				}

				if all[j].kind != '-' {
					newLine++
				}
			}
		}

		i = end
	}

	return sb.String()
}

// hunkEnd returns the index after the last line of the hunk starting with
// the change at i: changes separated by more than twice the context merge
// into separate hunks.
func hunkEnd(all []diffLine, i int) int {
	lastChange := i

	for j := i; j < len(all); j++ {
		if all[j].kind != ' ' {
			lastChange = j
			continue
		}

		if j-lastChange > 2*contextLines {
			break
		}
	}

	return min(lastChange+contextLines+1, len(all))
}

func splitLines(s string) []string {
	var out []string

	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, s)
			break
		}

		out = append(out, s[:i+1])
		s = s[i+1:]
	}

	return out
}
