package game

import "errors"

// ErrPlayerCount is returned when camera indices do not match the players.
var ErrPlayerCount = errors.New("camera indices must match player count")
