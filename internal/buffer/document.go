package buffer

import (
	"context"
	"sync"

	"stubgen/internal/edit"
)

// Document is the in-memory text of one path.
type Document struct {
	mu      sync.Mutex
	path    string
	text    string
	dirty   bool
	version int
	// primary documents are owned by the registry, the others were
	// materialized for a single checkout.
	primary bool
}

func newDocument(path, text string, primary bool) *Document {
	return &Document{path: path, text: text, primary: primary}
}

// Path returns the document's path.
func (d *Document) Path() string {
	return d.path
}

// Text returns the current text.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.text
}

// Dirty reports whether the text differs from what was last saved.
func (d *Document) Dirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.dirty
}

// Version increases with every change of the text.
func (d *Document) Version() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.version
}

// Primary reports whether the document is a live document of the registry.
func (d *Document) Primary() bool {
	return d.primary
}

// SetText replaces the whole text, as an editor would.
func (d *Document) SetText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if text == d.text {
		return
	}

	d.text = text
	d.dirty = true
	d.version++
}

// Apply replays e on the text.
func (d *Document) Apply(e edit.TextEdit) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	text, err := e.Apply(d.text)
	if err != nil {
		return err
	}

	if text != d.text {
		d.text = text
		d.dirty = true
		d.version++
	}

	return nil
}

// flush writes the text through storage and marks the document clean.
func (d *Document) flush(ctx context.Context, storage Storage) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := storage.Write(ctx, d.path, []byte(d.text)); err != nil {
		return err
	}

	d.dirty = false

	return nil
}
