// Package registry maps game names to constructors.
//
// Every game is registered once with an explicit Constructor. Lookups never
// inspect the game value, so there is exactly one way a name becomes a game.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/facepad/internal/assets"
	"github.com/okian/facepad/internal/domain/game"
	"github.com/okian/facepad/pkg/logger"
)

// SourceLocal marks games built into this module.
const SourceLocal = "local"

// Env is what a constructor may use.
type Env struct {
	Registry      *Registry
	Assets        *assets.Library
	Logger        logger.Logger
	CameraIndices []int
}

// Constructor builds a fresh game instance.
type Constructor func(env Env) (game.Game, error)

// Entry describes one registered game.
type Entry struct {
	Name string
	// Source is SourceLocal or the package that contributed the game.
	Source string
	// Aliases are extra names Lookup and Create accept. They are not listed.
	Aliases []string
	New     Constructor
}

// Registry holds entries by name. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	aliases map[string]string
	env     Env
}

// Option configures a Registry.
type Option func(*Registry)

// WithAssets sets the asset library passed to constructors.
func WithAssets(lib *assets.Library) Option {
	return func(r *Registry) {
		if lib != nil {
			r.env.Assets = lib
		}
	}
}

// WithLogger sets the logger passed to constructors.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.env.Logger = l
		}
	}
}

// WithCameraIndices sets the default cameras for multiplayer games.
func WithCameraIndices(indices []int) Option {
	return func(r *Registry) {
		if len(indices) > 0 {
			r.env.CameraIndices = append([]int(nil), indices...)
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: map[string]Entry{},
		aliases: map[string]string{},
		env: Env{
			Assets: assets.NewLibrary(""),
			Logger: logger.Discard(),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.env.Registry = r
	return r
}

// Register adds e. Names and aliases must be unique and non-empty.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" || e.New == nil {
		return fmt.Errorf("%w: %q", ErrInvalidEntry, e.Name)
	}
	if e.Source == "" {
		e.Source = SourceLocal
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range append([]string{e.Name}, e.Aliases...) {
		if n == "" {
			return fmt.Errorf("%w: %q has an empty alias", ErrInvalidEntry, e.Name)
		}
		if r.taken(n) {
			return fmt.Errorf("%w: %s", ErrDuplicateGame, n)
		}
	}
	r.entries[e.Name] = e
	for _, a := range e.Aliases {
		r.aliases[a] = e.Name
	}
	return nil
}

func (r *Registry) taken(name string) bool {
	_, isName := r.entries[name]
	_, isAlias := r.aliases[name]
	return isName || isAlias
}

// Lookup returns the entry for name or one of its aliases.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	e, ok := r.entries[name]
	return e, ok
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Entries returns every entry sorted by name.
func (r *Registry) Entries() []Entry {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		out = append(out, r.entries[n])
	}
	return out
}

// Env returns the environment passed to constructors.
func (r *Registry) Env() Env { return r.env }

// Create builds a new instance of the named game.
func (r *Registry) Create(name string) (game.Game, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, name)
	}
	g, err := e.New(r.env)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", e.Name, err)
	}
	if g == nil {
		return nil, fmt.Errorf("%w: %s constructor returned nil", ErrInvalidEntry, e.Name)
	}
	r.env.Logger.Debug(context.Background(), "game created", logger.String("game", e.Name), logger.String("source", e.Source))
	return g, nil
}
