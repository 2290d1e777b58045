package buffer

import (
	"context"
	"fmt"
	"sync"
)

type owner struct {
	_ byte
}

type ownerKey struct{}

// WithOwner returns a context carrying a fresh owner token. Acquisitions
// made with contexts sharing the token are reentrant; without a token every
// acquisition is a distinct owner.
func WithOwner(ctx context.Context) context.Context {
	return context.WithValue(ctx, ownerKey{}, &owner{})
}

func ownerFrom(ctx context.Context) *owner {
	o, _ := ctx.Value(ownerKey{}).(*owner)
	return o
}

type checkout struct {
	owner    *owner
	depth    int
	doc      *Document
	ready    chan struct{} // closed once doc is set or loading failed
	released chan struct{} // closed when depth drops to zero
}

// Registry tracks live documents and checkouts.
type Registry struct {
	storage Storage

	mu        sync.Mutex
	docs      map[string]*Document
	checkouts map[string]*checkout
}

// NewRegistry creates a registry persisting through storage.
func NewRegistry(storage Storage) *Registry {
	return &Registry{
		storage:   storage,
		docs:      make(map[string]*Document),
		checkouts: make(map[string]*checkout),
	}
}

// Storage returns the registry's storage.
func (r *Registry) Storage() Storage {
	return r.storage
}

// Open registers a live document for path with the given text. If path is
// already open the existing document is returned unchanged.
func (r *Registry) Open(path, text string) *Document {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc, ok := r.docs[path]; ok {
		return doc
	}

	doc := newDocument(path, text, true)
	r.docs[path] = doc

	return doc
}

// Close forgets the live document of path. Unsaved changes are dropped.
func (r *Registry) Close(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.docs[path]
	delete(r.docs, path)

	return ok
}

// Lookup returns the live document of path, if any.
func (r *Registry) Lookup(path string) (*Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[path]

	return doc, ok
}

// Snapshot returns the current text of path without checking it out: the
// live document's text when open, the stored content otherwise.
func (r *Registry) Snapshot(ctx context.Context, path string) (string, error) {
	if doc, ok := r.Lookup(path); ok {
		return doc.Text(), nil
	}

	data, err := r.storage.Read(ctx, path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Source returns Snapshot as bytes. It has the shape of analyze.ReadFunc.
func (r *Registry) Source(ctx context.Context, path string) ([]byte, error) {
	text, err := r.Snapshot(ctx, path)
	if err != nil {
		return nil, err
	}

	return []byte(text), nil
}

// Refs returns the checkout depth of path; 0 when it is not checked out.
func (r *Registry) Refs(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.checkouts[path]; ok {
		return c.depth
	}

	return 0
}

// Acquire checks path out exclusively. A second acquisition by the same
// owner (see WithOwner) nests; other owners wait until every handle is
// released or ctx is done. An uncontended acquisition does not consult ctx.
// The caller must Release the handle.
func (r *Registry) Acquire(ctx context.Context, path string) (*Handle, error) {
	o := ownerFrom(ctx)
	if o == nil {
		o = &owner{}
	}

	for {
		r.mu.Lock()

		c, busy := r.checkouts[path]
		if !busy {
			c = &checkout{owner: o, depth: 1, ready: make(chan struct{}), released: make(chan struct{})}
			r.checkouts[path] = c
			live := r.docs[path]
			r.mu.Unlock()

			return r.load(ctx, path, c, live)
		}

		if c.owner == o {
			c.depth++
			r.mu.Unlock()

			<-c.ready

			if c.doc == nil {
				r.release(path, c)
				return nil, fmt.Errorf("checkout of %s failed", path)
			}

			return &Handle{registry: r, path: path, checkout: c}, nil
		}

		released := c.released
		r.mu.Unlock()

		select {
		case <-released:
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", path, ctx.Err())
		}
	}
}

func (r *Registry) load(ctx context.Context, path string, c *checkout, live *Document) (*Handle, error) {
	defer close(c.ready)

	if live != nil {
		c.doc = live
		return &Handle{registry: r, path: path, checkout: c}, nil
	}

	data, err := r.storage.Read(ctx, path)
	if err != nil {
		r.release(path, c)
		return nil, err
	}

	c.doc = newDocument(path, string(data), false)

	return &Handle{registry: r, path: path, checkout: c}, nil
}

func (r *Registry) release(path string, c *checkout) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.depth--
	if c.depth > 0 {
		return
	}

	if r.checkouts[path] == c {
		delete(r.checkouts, path)
	}

	close(c.released)
}

// Handle is an exclusive checkout of one document.
type Handle struct {
	registry *Registry
	path     string
	checkout *checkout
	once     sync.Once
}

// Path returns the checked-out path.
func (h *Handle) Path() string {
	return h.path
}

// Document returns the checked-out document.
func (h *Handle) Document() *Document {
	return h.checkout.doc
}

// Commit persists the document. A live document is flushed and marked
// clean; a materialized one is written straight to storage.
func (h *Handle) Commit(ctx context.Context) error {
	doc := h.checkout.doc
	if doc.primary {
		return doc.flush(ctx, h.registry.storage)
	}

	return h.registry.storage.Write(ctx, h.path, []byte(doc.Text()))
}

// Release ends this checkout. It is safe to call more than once.
func (h *Handle) Release() {
	h.once.Do(func() {
		h.registry.release(h.path, h.checkout)
	})
}
