package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrServe   = errors.New("status server failed")
	ErrMethod  = errors.New("method not allowed")
	ErrNoStats = errors.New("stats unavailable")
)
