package operation

import (
	"errors"
	"fmt"

	"stubgen/internal/common"
)

// Kind classifies operation failures.
type Kind int

const (
	// KindFormat failures happen while synthesizing or formatting members.
	KindFormat Kind = iota + 1
	// KindApply failures happen while checking out, editing or saving the document.
	KindApply
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindApply:
		return "apply"
	default:
		return common.UnknownStr
	}
}

var (
	// ErrFormatFailure matches every KindFormat error.
	ErrFormatFailure = errors.New("format failure")
	// ErrApplyFailure matches every KindApply error.
	ErrApplyFailure = errors.New("apply failure")
	// ErrStale is the cause of an apply failure when the document changed
	// between analysis and application.
	ErrStale = errors.New("document changed since it was analysed")
)

// Error is a failure of an operation on one document.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrFormatFailure:
		return e.Kind == KindFormat
	case ErrApplyFailure:
		return e.Kind == KindApply
	default:
		return false
	}
}

func formatError(path string, err error) error {
	return &Error{Kind: KindFormat, Path: path, Err: err}
}

func applyError(path string, err error) error {
	return &Error{Kind: KindApply, Path: path, Err: err}
}
