package assets

import (
	"path/filepath"
	"sync"
)

// Library hands out one Store per game content directory under a root.
// Stores are loaded on first use and shared afterwards.
type Library struct {
	root   string
	opts   []Option
	mu     sync.Mutex
	stores map[string]*Store
}

// NewLibrary creates a library rooted at root. An empty root yields stores
// that only serve placeholders.
func NewLibrary(root string, opts ...Option) *Library {
	return &Library{root: root, opts: opts, stores: map[string]*Store{}}
}

// Root returns the library root.
func (l *Library) Root() string { return l.root }

// Store returns the store for name, loading it on first use.
func (l *Library) Store(name string) *Store {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.stores[name]; ok {
		return s
	}
	dir := ""
	if l.root != "" {
		dir = filepath.Join(l.root, name)
	}
	s := New(dir, l.opts...)
	l.stores[name] = s
	return s
}
