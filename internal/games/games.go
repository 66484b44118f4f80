// Package games assembles the registry of built-in games.
package games

import (
	"fmt"

	"github.com/okian/facepad/internal/games/inputtest"
	"github.com/okian/facepad/internal/games/menu"
	"github.com/okian/facepad/internal/games/reaction"
	"github.com/okian/facepad/internal/games/reactionvs"
	"github.com/okian/facepad/internal/games/registry"
	"github.com/okian/facepad/internal/games/runner"
)

// Local returns the entries for every game in this module.
func Local() []registry.Entry {
	return []registry.Entry{
		menu.Entry(),
		runner.Entry(),
		reaction.Entry(),
		reactionvs.Entry(),
		inputtest.Entry(),
	}
}

// Register adds entries to r, stopping at the first failure.
func Register(r *registry.Registry, entries ...registry.Entry) error {
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			return fmt.Errorf("register %s: %w", e.Name, err)
		}
	}
	return nil
}

// Discover builds a registry holding the local games followed by extra.
func Discover(extra []registry.Entry, opts ...registry.Option) (*registry.Registry, error) {
	r := registry.New(opts...)
	if err := Register(r, Local()...); err != nil {
		return nil, err
	}
	if err := Register(r, extra...); err != nil {
		return nil, err
	}
	return r, nil
}
