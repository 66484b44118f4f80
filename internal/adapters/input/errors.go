package input

import "errors"

// Sentinel errors for provider parsing and delivery.
var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrInvalidSpec     = errors.New("invalid provider spec")
)
