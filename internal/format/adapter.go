package format

import (
	"fmt"
	"go/ast"

	"stubgen/internal/rewrite"
)

// Adapter runs a Formatter over flattened text and keeps rewrite markers in
// step with the formatting.
type Adapter struct {
	Formatter     Formatter
	IndentLevel   int
	LineDelimiter string
}

// Format formats text and remaps markers in place. Each marker contributes
// its start offset (one before it for an interim close marker) and, when it
// spans text, the offset of its last character. After remapping every
// marker length is non-negative.
func (a Adapter) Format(text string, markers []*rewrite.Marker) (string, error) {
	splits := make([]int, 0, 2*len(markers))

	for _, m := range markers {
		start := m.Offset
		if m.Length == -1 {
			start--
		}

		splits = append(splits, start)

		if m.Length > 0 {
			splits = append(splits, m.Offset+m.Length-1)
		}
	}

	out, mapped, err := a.Formatter.Format(text, a.IndentLevel, a.LineDelimiter, splits)
	if err != nil {
		return "", err
	}

	if len(mapped) != len(splits) {
		return "", fmt.Errorf("formatter returned %d positions for %d splits", len(mapped), len(splits))
	}

	k := 0

	for _, m := range markers {
		pos := mapped[k]
		k++

		switch {
		case m.Length == -1:
			m.Offset = pos + 1
			m.Length = 0
		case m.Length > 0:
			end := mapped[k]
			k++

			m.Offset = pos
			m.Length = end + 1 - pos
		default:
			m.Offset = pos
		}
	}

	return out, nil
}

// Render flattens decl and formats it. It satisfies rewrite.Renderer.
func (a Adapter) Render(decl ast.Decl, table *rewrite.Table) (string, []*rewrite.Marker, error) {
	text, markers, err := rewrite.Flatten(decl, table)
	if err != nil {
		return "", nil, fmt.Errorf("flatten: %w", err)
	}

	out, err := a.Format(text, markers)
	if err != nil {
		return "", nil, fmt.Errorf("format: %w", err)
	}

	return out, markers, nil
}
