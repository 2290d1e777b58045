package format

import (
	"errors"
	"fmt"
	goformat "go/format"
	"go/scanner"
	"go/token"
	"strings"
)

// ErrTokenMismatch is returned when formatting changed the token stream.
var ErrTokenMismatch = errors.New("formatted token stream differs from input")

// Formatter reformats a fragment of source text.
//
// splits are offsets into text; the returned slice has the same length and
// holds, for each split, the corresponding offset in the formatted text.
// Negative splits are passed through unchanged.
type Formatter interface {
	Format(text string, indentLevel int, lineDelim string, splits []int) (string, []int, error)
}

// GoFormatter formats declaration lists with go/format.
type GoFormatter struct {
	// IndentUnit replaces each leading tab of the gofmt output. Empty keeps tabs.
	IndentUnit string
}

// Format implements Formatter.
func (f GoFormatter) Format(text string, indentLevel int, lineDelim string, splits []int) (string, []int, error) {
	out, err := goformat.Source([]byte(text))
	if err != nil {
		return "", nil, fmt.Errorf("gofmt: %w", err)
	}

	formatted := string(out)

	mapped, err := alignSplits(text, formatted, splits)
	if err != nil {
		return "", nil, err
	}

	unit := f.IndentUnit
	if unit == "" {
		unit = "\t"
	}

	if lineDelim == "" {
		lineDelim = "\n"
	}

	result, offsets := relayout(formatted, strings.Repeat(unit, indentLevel), unit, lineDelim)

	for i, s := range mapped {
		if s >= 0 {
			mapped[i] = offsets[s]
		}
	}

	return result, mapped, nil
}

type tok struct {
	offset int
	length int
}

// scanTokens lists the tokens of src, comments included and automatic
// semicolons skipped.
func scanTokens(src string) ([]tok, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var (
		s    scanner.Scanner
		errs scanner.ErrorList
	)

	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		errs.Add(pos, msg)
	}, scanner.ScanComments)

	var toks []tok

	for {
		pos, t, lit := s.Scan()
		if t == token.EOF {
			break
		}

		if t == token.SEMICOLON {
			continue
		}

		length := len(lit)
		if length == 0 {
			length = len(t.String())
		}

		toks = append(toks, tok{offset: file.Offset(pos), length: length})
	}

	if errs.Len() > 0 {
		return nil, errs.Err()
	}

	return toks, nil
}

// alignSplits maps offsets of src onto dst, assuming both hold the same
// token sequence. An offset inside a token keeps its distance to the token
// start; an offset in whitespace maps to the end of the preceding token.
func alignSplits(src, dst string, splits []int) ([]int, error) {
	from, err := scanTokens(src)
	if err != nil {
		return nil, err
	}

	to, err := scanTokens(dst)
	if err != nil {
		return nil, err
	}

	if len(from) != len(to) {
		return nil, fmt.Errorf("%w: %d tokens before, %d after", ErrTokenMismatch, len(from), len(to))
	}

	out := make([]int, len(splits))

	for i, s := range splits {
		switch {
		case s < 0:
			out[i] = s
		case s > len(src):
			return nil, fmt.Errorf("split %d outside text of length %d", s, len(src))
		default:
			out[i] = alignOne(from, to, s)
		}
	}

	return out, nil
}

func alignOne(from, to []tok, s int) int {
	prevEnd := 0

	for j, t := range from {
		if s < t.offset {
			return prevEnd
		}

		if s < t.offset+t.length {
			return to[j].offset + (s - t.offset)
		}

		prevEnd = to[j].offset + to[j].length
	}

	return prevEnd
}

// relayout indents every non-empty line of text by prefix, replaces the
// leading tabs of each line with unit and converts newlines to delim. It
// returns the new text and, for every offset 0..len(text) of the input, the
// corresponding offset of the output.
func relayout(text, prefix, unit, delim string) (string, []int) {
	var sb strings.Builder

	offsets := make([]int, len(text)+1)
	lineStart := true
	leading := true

	for i := 0; i < len(text); i++ {
		c := text[i]

		if lineStart {
			lineStart = false
			leading = true

			if c != '\n' {
				sb.WriteString(prefix)
			}
		}

		offsets[i] = sb.Len()

		switch {
		case c == '\n':
			sb.WriteString(delim)

			lineStart = true
		case c == '\t' && leading:
			sb.WriteString(unit)
		default:
			leading = false

			sb.WriteByte(c)
		}
	}

	offsets[len(text)] = sb.Len()

	return sb.String(), offsets
}
