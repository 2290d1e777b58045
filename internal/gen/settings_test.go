package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Validate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"body policy", func(s *Settings) { s.Body = "todo" }},
		{"indent level", func(s *Settings) { s.IndentLevel = -1 }},
		{"indent unit", func(s *Settings) { s.IndentUnit = "x" }},
		{"empty indent unit", func(s *Settings) { s.IndentUnit = "" }},
		{"line delimiter", func(s *Settings) { s.LineDelimiter = ";" }},
		{"import threshold", func(s *Settings) { s.ImportThreshold = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

func TestSettings_Delimiter(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "\r\n", s.Delimiter("\r\n"))
	assert.Equal(t, "\n", s.Delimiter(""))

	s.LineDelimiter = "\r\n"
	assert.Equal(t, "\r\n", s.Delimiter("\n"))
}
