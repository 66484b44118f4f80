package registry

import "errors"

// Sentinel errors for game registration and lookup.
var (
	ErrUnknownGame   = errors.New("unknown game")
	ErrDuplicateGame = errors.New("game already registered")
	ErrInvalidEntry  = errors.New("invalid game entry")
)
