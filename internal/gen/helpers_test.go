package gen

import (
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stubgen/internal/analyze"
	"stubgen/internal/rewrite"
)

func loadUnit(t *testing.T, src string) *analyze.Unit {
	t.Helper()

	path := filepath.Join(t.TempDir(), "unit.go")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	unit, err := analyze.SourceProvider{PkgPath: "example.com/shop"}.Load(t.Context(), path, []byte(src))
	require.NoError(t, err)

	return unit
}

func newGenerator(unit *analyze.Unit, settings Settings) (*Generator, *rewrite.Overlay) {
	overlay := rewrite.NewOverlay(unit, rewrite.NewImportRewrite(unit, settings.ImportOrder, settings.ImportThreshold))
	return NewGenerator(unit, settings, overlay), overlay
}

func namedType(t *testing.T, u *analyze.Unit, name string) *types.Named {
	t.Helper()

	spec := u.FindTypeSpec(name)
	require.NotNil(t, spec, "type %s not declared", name)

	return u.NamedOf(spec)
}

// render flattens a stub without any formatting.
func render(t *testing.T, stub *Stub) string {
	t.Helper()

	text, _, err := rewrite.Flatten(stub.Decl, nil)
	require.NoError(t, err)

	return text
}

func findDelegate(t *testing.T, cands []analyze.Delegatable, key string) analyze.Delegatable {
	t.Helper()

	for _, c := range cands {
		if c.Key() == analyze.BindingKey(key) {
			return c
		}
	}

	require.FailNow(t, "delegate not found", key)

	return analyze.Delegatable{}
}
