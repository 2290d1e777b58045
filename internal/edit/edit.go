// Package edit models text edits over a document: a minimal edit computed
// between two versions of a text, and its replay.
package edit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ErrInvalidEdit is returned when an edit does not fit the text it is applied to.
var ErrInvalidEdit = errors.New("invalid text edit")

// Op replaces Length bytes at Offset with Text.
type Op struct {
	Offset int
	Length int
	Text   string
}

// TextEdit is a list of ascending, non-overlapping operations expressed
// against the original text.
type TextEdit struct {
	Ops []Op
}

// IsEmpty reports whether the edit changes nothing.
func (e TextEdit) IsEmpty() bool {
	return len(e.Ops) == 0
}

// Diff computes the minimal edit turning original into target. The diff has
// no time limit, so the result is deterministic.
func Diff(original, target string) TextEdit {
	if original == target {
		return TextEdit{}
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	diffs := dmp.DiffMain(original, target, false)

	var (
		e      TextEdit
		cur    *Op
		offset int
	)

	flush := func() {
		if cur != nil {
			e.Ops = append(e.Ops, *cur)
			cur = nil
		}
	}

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()

			offset += len(d.Text)
		case diffmatchpatch.DiffDelete:
			if cur == nil {
				cur = &Op{Offset: offset}
			}

			cur.Length += len(d.Text)
			offset += len(d.Text)
		case diffmatchpatch.DiffInsert:
			if cur == nil {
				cur = &Op{Offset: offset}
			}

			cur.Text += d.Text
		}
	}

	flush()

	return e
}

// Validate checks that the operations are ascending, non-overlapping and
// inside a text of the given size.
func (e TextEdit) Validate(size int) error {
	end := 0

	for i, op := range e.Ops {
		if op.Offset < end || op.Length < 0 {
			return fmt.Errorf("%w: operation %d at %d overlaps or is out of order", ErrInvalidEdit, i, op.Offset)
		}

		end = op.Offset + op.Length
		if end > size {
			return fmt.Errorf("%w: operation %d ends at %d beyond %d", ErrInvalidEdit, i, end, size)
		}
	}

	return nil
}

// Apply replays the edit on text, in descending offset order so that
// earlier offsets stay valid.
func (e TextEdit) Apply(text string) (string, error) {
	if err := e.Validate(len(text)); err != nil {
		return "", err
	}

	for i := len(e.Ops) - 1; i >= 0; i-- {
		op := e.Ops[i]
		text = text[:op.Offset] + op.Text + text[op.Offset+op.Length:]
	}

	return text, nil
}

// Counts returns the total number of bytes inserted and deleted.
func (e TextEdit) Counts() (inserted, deleted int) {
	for _, op := range e.Ops {
		inserted += len(op.Text)
		deleted += op.Length
	}

	return inserted, deleted
}

// String renders the operations for debugging.
func (e TextEdit) String() string {
	parts := make([]string, 0, len(e.Ops))
	for _, op := range e.Ops {
		parts = append(parts, fmt.Sprintf("@%d-%d:%q", op.Offset, op.Length, op.Text))
	}

	return strings.Join(parts, " ")
}
