package buffer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Storage.Read for missing documents.
var ErrNotFound = errors.New("document not found")

// Storage persists document contents.
type Storage interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
}

// FileStorage stores documents as files. Existing files keep their mode.
type FileStorage struct{}

// Read implements Storage.
func (FileStorage) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}

// Write implements Storage. The file is replaced atomically: data goes to a
// temporary file of the same directory which is then renamed over path.
func (FileStorage) Write(_ context.Context, path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	// A no-op once the rename succeeded.
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(mode.Perm())
	}

	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}

	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// MemStorage keeps documents in memory.
type MemStorage struct {
	mu     sync.Mutex
	files  map[string][]byte
	writes int

	// WriteErr, when set, is returned by every Write.
	WriteErr error
}

// NewMemStorage returns a MemStorage holding files.
func NewMemStorage(files map[string]string) *MemStorage {
	m := &MemStorage{files: make(map[string][]byte, len(files))}
	for path, text := range files {
		m.files[path] = []byte(text)
	}

	return m
}

// Read implements Storage.
func (m *MemStorage) Read(_ context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	return append([]byte(nil), data...), nil
}

// Write implements Storage.
func (m *MemStorage) Write(_ context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}

	m.files[path] = append([]byte(nil), data...)
	m.writes++

	return nil
}

// Get returns the stored text of path.
func (m *MemStorage) Get(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.files[path]

	return string(data), ok
}

// Writes returns the number of successful writes.
func (m *MemStorage) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.writes
}
