// Package game defines the contract every playable game satisfies and the
// handoff slot games use to pass control to one another.
package game

import (
	"fmt"

	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/render"
)

// Game is driven by the frame loop. OnEvent and Update run on the frame
// goroutine only; returned errors are logged and the frame continues.
type Game interface {
	Width() int
	Height() int
	OnEvent(e model.InputEvent) error
	Update() error
	Draw(rc render.Context) error

	// Next returns the game that should replace this one, or nil.
	Next() Game
	// ClearNext empties the handoff slot.
	ClearNext()
}

// Multiplayer is implemented by games with one face camera per player.
type Multiplayer interface {
	PlayerCount() int
	CameraIndices() []int
	SetCameraIndices(indices []int) error
}

// Menu marks the game selector. Face input is suppressed while it is active.
type Menu interface {
	IsMenu() bool
}

// Named games report a stable name for logs and metrics.
type Named interface {
	Name() string
}

// IsMenu reports whether g is the game selector.
func IsMenu(g Game) bool {
	m, ok := g.(Menu)
	return ok && m.IsMenu()
}

// NameOf returns g's name, falling back to its type.
func NameOf(g Game) string {
	if g == nil {
		return "none"
	}
	if n, ok := g.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", g)
}

// Handoff is embedded by games to satisfy Next and ClearNext.
type Handoff struct {
	next Game
}

// Next returns the requested game.
func (h *Handoff) Next() Game { return h.next }

// SetNext requests that g replace the current game after this frame's update.
func (h *Handoff) SetNext(g Game) { h.next = g }

// ClearNext empties the slot.
func (h *Handoff) ClearNext() { h.next = nil }
