package app

import "errors"

// Sentinel errors for the frame loop.
var (
	// ErrPanic wraps a panic recovered at a frame stage boundary.
	ErrPanic = errors.New("recovered panic")
	// ErrNoGame is returned when the loop is built without a game.
	ErrNoGame = errors.New("no active game")
	// ErrAlreadyRunning is returned by a second concurrent Run.
	ErrAlreadyRunning = errors.New("frame loop already running")
)
