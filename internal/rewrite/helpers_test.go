package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stubgen/internal/analyze"
)

func loadUnit(t *testing.T, src string) *analyze.Unit {
	t.Helper()

	path := filepath.Join(t.TempDir(), "unit.go")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	unit, err := analyze.SourceProvider{PkgPath: "example.com/shop"}.Load(t.Context(), path, []byte(src))
	require.NoError(t, err)

	return unit
}
