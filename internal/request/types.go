package request

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"stubgen/internal/common"
)

// Op names the operation of an entry.
type Op string

const (
	// OpDelegate adds methods forwarding to a field.
	OpDelegate Op = "delegate"
	// OpImplement adds stubs for missing interface methods.
	OpImplement Op = "implement"
)

// File is a batch request file.
type File struct {
	Version  string  `yaml:"version"`
	Requests []Entry `yaml:"requests"`
}

// Entry is one operation of a batch.
type Entry struct {
	File string `yaml:"file"`
	Op   Op     `yaml:"op"`
	// Type names the target type. Exclusive with Offset.
	Type string `yaml:"type,omitempty"`
	// Offset is a byte offset inside a composite literal.
	Offset *int          `yaml:"offset,omitempty"`
	Iface  StringOrArray `yaml:"iface,omitempty"`
	Keys   StringOrArray `yaml:"keys,omitempty"`
	Anchor string        `yaml:"anchor,omitempty"`
	// Body overrides the configured body policy for this entry.
	Body  string `yaml:"body,omitempty"`
	Apply bool   `yaml:"apply,omitempty"`
	Save  bool   `yaml:"save,omitempty"`
}

// Label returns a short description of the entry for diagnostics.
func (e *Entry) Label() string {
	if e.Offset != nil {
		return fmt.Sprintf("%s %s@%d", e.Op, e.File, *e.Offset)
	}

	return fmt.Sprintf("%s %s:%s", e.Op, e.File, e.Type)
}

// StringOrArray represents a YAML value that can be a single string or an array.
type StringOrArray []string

// UnmarshalYAML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}
