package analyze

import (
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// loadSource writes src into a fresh directory and loads it with SourceProvider.
func loadSource(t *testing.T, src string, siblings ...string) *Unit {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "unit.go")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	for i, s := range siblings {
		name := filepath.Join(dir, "sibling"+string(rune('a'+i))+".go")
		require.NoError(t, os.WriteFile(name, []byte(s), 0o644))
	}

	unit, err := SourceProvider{}.Load(t.Context(), path, []byte(src))
	require.NoError(t, err)

	return unit
}

func namedType(t *testing.T, u *Unit, name string) *types.Named {
	t.Helper()

	spec := u.FindTypeSpec(name)
	require.NotNil(t, spec, "type %s not declared", name)

	named := u.NamedOf(spec)
	require.NotNil(t, named)

	return named
}
