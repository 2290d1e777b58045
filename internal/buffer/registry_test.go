package buffer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stubgen/internal/edit"
)

func TestRegistry_MaterializesFromStorage(t *testing.T) {
	storage := NewMemStorage(map[string]string{"a.go": "package a\n"})
	r := NewRegistry(storage)

	h, err := r.Acquire(t.Context(), "a.go")
	require.NoError(t, err)

	defer h.Release()

	assert.False(t, h.Document().Primary())
	assert.Equal(t, "package a\n", h.Document().Text())
	assert.Equal(t, 1, r.Refs("a.go"))

	require.NoError(t, h.Document().Apply(edit.Diff("package a\n", "package a\n\nvar X int\n")))
	require.NoError(t, h.Commit(t.Context()))

	stored, _ := storage.Get("a.go")
	assert.Equal(t, "package a\n\nvar X int\n", stored)

	h.Release()
	h.Release()
	assert.Zero(t, r.Refs("a.go"))
}

func TestRegistry_ReusesLiveDocument(t *testing.T) {
	storage := NewMemStorage(map[string]string{"a.go": "package a\n"})
	r := NewRegistry(storage)

	live := r.Open("a.go", "package a // edited\n")
	assert.Same(t, live, r.Open("a.go", "ignored"))

	text, err := r.Snapshot(t.Context(), "a.go")
	require.NoError(t, err)
	assert.Equal(t, "package a // edited\n", text)

	h, err := r.Acquire(t.Context(), "a.go")
	require.NoError(t, err)

	defer h.Release()

	assert.Same(t, live, h.Document())

	live.SetText("package a // edited twice\n")
	assert.True(t, live.Dirty())

	require.NoError(t, h.Commit(t.Context()))
	assert.False(t, live.Dirty())

	stored, _ := storage.Get("a.go")
	assert.Equal(t, "package a // edited twice\n", stored)
}

func TestRegistry_ReentrantForSameOwner(t *testing.T) {
	r := NewRegistry(NewMemStorage(map[string]string{"a.go": "package a\n"}))
	ctx := WithOwner(t.Context())

	outer, err := r.Acquire(ctx, "a.go")
	require.NoError(t, err)

	inner, err := r.Acquire(ctx, "a.go")
	require.NoError(t, err)

	assert.Equal(t, 2, r.Refs("a.go"))
	assert.Same(t, outer.Document(), inner.Document())

	inner.Release()
	assert.Equal(t, 1, r.Refs("a.go"))

	outer.Release()
	assert.Zero(t, r.Refs("a.go"))
}

func TestRegistry_OtherOwnerWaits(t *testing.T) {
	r := NewRegistry(NewMemStorage(map[string]string{"a.go": "package a\n"}))

	h, err := r.Acquire(WithOwner(t.Context()), "a.go")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(WithOwner(t.Context()), 20*time.Millisecond)
	defer cancel()

	_, err = r.Acquire(ctx, "a.go")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	acquired := make(chan *Handle)

	go func() {
		other, err := r.Acquire(WithOwner(context.Background()), "a.go")
		if err != nil {
			close(acquired)
			return
		}

		acquired <- other
	}()

	h.Release()

	select {
	case other := <-acquired:
		require.NotNil(t, other)
		other.Release()
	case <-time.After(5 * time.Second):
		t.Fatal("waiter did not acquire the released document")
	}
}

func TestRegistry_UncontendedAcquireIgnoresCancellation(t *testing.T) {
	r := NewRegistry(NewMemStorage(map[string]string{"a.go": "package a\n"}))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	h, err := r.Acquire(ctx, "a.go")
	require.NoError(t, err)
	h.Release()
}

func TestRegistry_MissingDocument(t *testing.T) {
	r := NewRegistry(NewMemStorage(nil))

	_, err := r.Acquire(t.Context(), "missing.go")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, r.Refs("missing.go"))

	_, err = r.Snapshot(t.Context(), "missing.go")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStorage_KeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o600))

	var s FileStorage

	data, err := s.Read(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(data))

	require.NoError(t, s.Write(t.Context(), path, []byte("package b\n")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = s.Read(t.Context(), filepath.Join(t.TempDir(), "none.go"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDocument_ApplyInvalidEdit(t *testing.T) {
	doc := newDocument("a.go", "abc", false)

	err := doc.Apply(edit.TextEdit{Ops: []edit.Op{{Offset: 10, Length: 1}}})
	require.ErrorIs(t, err, edit.ErrInvalidEdit)
	assert.Equal(t, "abc", doc.Text())
	assert.Zero(t, doc.Version())
}

func TestFileStorage_WriteReplacesWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n\nvar long = 1\n"), 0o644))

	var s FileStorage
	require.NoError(t, s.Write(t.Context(), path, []byte("package a\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(data))

	// No temporary file is left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.go", entries[0].Name())

	require.NoError(t, s.Write(t.Context(), filepath.Join(dir, "new.go"), []byte("package a\n")))

	info, err := os.Stat(filepath.Join(dir, "new.go"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestRegistry_SourcePrefersLiveDocument(t *testing.T) {
	r := NewRegistry(NewMemStorage(map[string]string{"a.go": "package a\n", "b.go": "package b\n"}))
	r.Open("a.go", "package a\n\ntype T struct{}\n")

	data, err := r.Source(t.Context(), "a.go")
	require.NoError(t, err)
	assert.Equal(t, "package a\n\ntype T struct{}\n", string(data))

	data, err = r.Source(t.Context(), "b.go")
	require.NoError(t, err)
	assert.Equal(t, "package b\n", string(data))

	_, err = r.Source(t.Context(), "c.go")
	require.ErrorIs(t, err, ErrNotFound)
}
