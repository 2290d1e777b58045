package gen

import (
	"errors"
	"fmt"
	"strings"
)

// BodyPolicy selects the body of unimplemented stubs.
type BodyPolicy string

const (
	// BodyPanic bodies are panic("unimplemented").
	BodyPanic BodyPolicy = "panic"
	// BodyZero bodies return the zero value of every result.
	BodyZero BodyPolicy = "zero"
)

// ErrInvalidSettings is returned by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid generation settings")

// Settings holds code generation settings.
type Settings struct {
	// IndentUnit is one level of indentation.
	IndentUnit string `mapstructure:"indent_unit" yaml:"indent_unit"`
	// IndentLevel is the indentation level of inserted declarations.
	IndentLevel int `mapstructure:"indent_level" yaml:"indent_level"`
	// LineDelimiter ends inserted lines. Empty means the buffer's own.
	LineDelimiter string `mapstructure:"line_delimiter" yaml:"line_delimiter"`
	// ImportOrder lists import path prefixes defining import groups;
	// "std" stands for the standard library.
	ImportOrder []string `mapstructure:"import_order" yaml:"import_order"`
	// ImportThreshold is the number of new imports from which a grouped
	// import declaration is created. 0 never groups.
	ImportThreshold int `mapstructure:"import_threshold" yaml:"import_threshold"`
	// Body is the placeholder policy of unimplemented stubs.
	Body BodyPolicy `mapstructure:"body" yaml:"body"`
	// Comments adds a doc comment to unimplemented stubs.
	Comments bool `mapstructure:"comments" yaml:"comments"`
	// Delegate adds a doc comment naming the forwarded method to delegates.
	Delegate bool `mapstructure:"delegate" yaml:"delegate"`
	// Deprecate marks delegates as deprecated in favour of the field's method.
	Deprecate bool `mapstructure:"deprecate" yaml:"deprecate"`
}

// DefaultSettings returns the default generation settings.
func DefaultSettings() Settings {
	return Settings{
		IndentUnit:      "\t",
		ImportOrder:     []string{"std"},
		ImportThreshold: 2,
		Body:            BodyPanic,
		Comments:        true,
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	switch s.Body {
	case BodyPanic, BodyZero:
	default:
		return fmt.Errorf("%w: unknown body policy %q", ErrInvalidSettings, s.Body)
	}

	if s.IndentLevel < 0 {
		return fmt.Errorf("%w: negative indent level %d", ErrInvalidSettings, s.IndentLevel)
	}

	if s.IndentUnit == "" || strings.Trim(s.IndentUnit, " \t") != "" {
		return fmt.Errorf("%w: indent unit %q is not blank", ErrInvalidSettings, s.IndentUnit)
	}

	switch s.LineDelimiter {
	case "", "\n", "\r\n", "\r":
	default:
		return fmt.Errorf("%w: line delimiter %q", ErrInvalidSettings, s.LineDelimiter)
	}

	if s.ImportThreshold < 0 {
		return fmt.Errorf("%w: negative import threshold %d", ErrInvalidSettings, s.ImportThreshold)
	}

	return nil
}

// Delimiter returns LineDelimiter, or detected when it is empty.
func (s Settings) Delimiter(detected string) string {
	if s.LineDelimiter != "" {
		return s.LineDelimiter
	}

	if detected != "" {
		return detected
	}

	return "\n"
}
