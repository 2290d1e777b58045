package analyze

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceProvider_LoadsBufferContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.go")
	require.NoError(t, os.WriteFile(path, []byte("package server\n"), 0o644))

	// The buffer differs from disk: the unit must reflect the buffer.
	src := []byte("package server\n\ntype Server struct{}\n")

	unit, err := SourceProvider{}.Load(t.Context(), path, src)
	require.NoError(t, err)

	assert.Equal(t, src, unit.Src)
	assert.Equal(t, "server", unit.Pkg.Name())
	assert.NotNil(t, unit.FindTypeSpec("Server"))
	assert.Empty(t, unit.TypeErrors)
}

func TestSourceProvider_SiblingsShareThePackage(t *testing.T) {
	unit := loadSource(t, `package shop

type Cart struct {
	items Items
}
`, `package shop

type Items []string

func (i Items) Len() int { return len(i) }
`, `package other

type Ignored int
`)

	require.Len(t, unit.Files, 2)
	assert.Empty(t, unit.TypeErrors)
	assert.NotNil(t, unit.LookupType("Items"))
	assert.Nil(t, unit.LookupType("Ignored"))
}

func TestSourceProvider_SiblingsReadThroughReadFunc(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cart.go")
	sibling := filepath.Join(dir, "items.go")

	src := []byte("package shop\n\ntype Cart struct{ items Items }\n")
	require.NoError(t, os.WriteFile(path, src, 0o644))
	require.NoError(t, os.WriteFile(sibling, []byte("package shop\n"), 0o644))

	// The live sibling declares Items; the stored one does not.
	read := func(_ context.Context, p string) ([]byte, error) {
		if p == sibling {
			return []byte("package shop\n\ntype Items []string\n"), nil
		}

		return os.ReadFile(p)
	}

	unit, err := SourceProvider{Read: read}.Load(t.Context(), path, src)
	require.NoError(t, err)

	assert.NotNil(t, unit.LookupType("Items"))
	assert.Empty(t, unit.TypeErrors)
	assert.Empty(t, unit.SiblingErrors)
}

func TestSourceProvider_BrokenSiblingIsReported(t *testing.T) {
	unit := loadSource(t, `package shop

type Cart struct{}
`, "package shop\n\nfunc (c *Cart) Tot")

	require.Len(t, unit.Files, 1)
	require.Len(t, unit.SiblingErrors, 1)
	assert.Contains(t, unit.SiblingErrors[0].Error(), "siblinga.go")
}

func TestSourceProvider_UnreadableSiblingIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cart.go")
	src := []byte("package shop\n")
	require.NoError(t, os.WriteFile(path, src, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.go"), src, 0o644))

	errGone := errors.New("gone")
	read := func(context.Context, string) ([]byte, error) { return nil, errGone }

	unit, err := SourceProvider{Read: read}.Load(t.Context(), path, src)
	require.NoError(t, err)
	require.Len(t, unit.SiblingErrors, 1)
	assert.ErrorIs(t, unit.SiblingErrors[0], errGone)
}

func TestPackagesProvider_LoadsOverlay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/shop\n\ngo 1.21\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.go"),
		[]byte("package shop\n\ntype Items []string\n"), 0o644))

	path := filepath.Join(dir, "cart.go")
	require.NoError(t, os.WriteFile(path, []byte("package shop\n"), 0o644))

	src := []byte("package shop\n\ntype Cart struct{ items Items }\n")

	unit, err := PackagesProvider{}.Load(t.Context(), path, src)
	require.NoError(t, err)

	assert.Equal(t, "example.com/shop", unit.Pkg.Path())
	assert.Equal(t, src, unit.Src)
	assert.Len(t, unit.Files, 2)
	assert.NotNil(t, unit.FindTypeSpec("Cart"))
	assert.NotNil(t, unit.LookupType("Items"))
	assert.Empty(t, unit.TypeErrors)
}

func TestSourceProvider_TypeErrorsAreSoft(t *testing.T) {
	unit := loadSource(t, `package shop

type Reader interface{ Read() int }

type impl struct{}

var _ Reader = impl{}
`)

	require.NotNil(t, unit.Pkg)
	assert.NotEmpty(t, unit.TypeErrors)
}

func TestSourceProvider_SyntaxErrorFails(t *testing.T) {
	dir := t.TempDir()

	_, err := SourceProvider{}.Load(t.Context(), filepath.Join(dir, "bad.go"), []byte("package bad\nfunc {"))
	require.Error(t, err)
}

func TestSourceProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := SourceProvider{}.Load(ctx, "x.go", []byte("package x\n"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestUnit_OffsetsAndLineDelimiter(t *testing.T) {
	unit := loadSource(t, "package p\r\n\r\ntype T struct{}\r\n")

	spec := unit.FindTypeSpec("T")
	require.NotNil(t, spec)

	off := unit.Offset(spec.Name.Pos())
	assert.Equal(t, "T struct{}", string(unit.Src[off:off+len("T struct{}")]))
	assert.Equal(t, spec.Name.Pos(), unit.Pos(off))
	assert.Equal(t, "\r\n", unit.LineDelimiter())
	assert.False(t, unit.Pos(len(unit.Src)+10).IsValid())
}

func TestUnit_ExistingReceiver(t *testing.T) {
	unit := loadSource(t, `package p

type T struct{}

func (self *T) A() {}

type V struct{}

func (V) B() {}
`)

	assert.Equal(t, Receiver{Name: "self", Pointer: true, Found: true}, unit.ExistingReceiver("T"))
	assert.Equal(t, Receiver{Pointer: false, Found: true}, unit.ExistingReceiver("V"))
	assert.False(t, unit.ExistingReceiver("W").Found)
}

func TestTypeID_String(t *testing.T) {
	assert.Equal(t, "example.com/shop.Cart", TypeID{PkgPath: "example.com/shop", Name: "Cart"}.String())
	assert.Equal(t, "int", TypeID{Name: "int"}.String())
}
