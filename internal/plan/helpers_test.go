package plan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stubgen/internal/analyze"
)

func loadUnit(t *testing.T, src string) *analyze.Unit {
	t.Helper()

	path := filepath.Join(t.TempDir(), "unit.go")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	unit, err := analyze.SourceProvider{}.Load(t.Context(), path, []byte(src))
	require.NoError(t, err)

	return unit
}

// offsetOf returns the byte offset of the first occurrence of marker in src.
func offsetOf(t *testing.T, src, marker string) int {
	t.Helper()

	i := strings.Index(src, marker)
	require.GreaterOrEqual(t, i, 0, "marker %q not found", marker)

	return i
}
