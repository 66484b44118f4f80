// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// Action is an abstract game input. Producers only ever emit these values,
// never raw sensor data.
type Action int

// The closed action vocabulary.
const (
	Action1 Action = iota + 1 // primary button (jump, select next)
	Action2                   // secondary button (start, surprise)
	Action3                   // tertiary button (smile)
	Quit                      // quit / back request
)

// String returns the wire name used in logs, metrics and debug output.
func (a Action) String() string {
	switch a {
	case Action1:
		return "ACTION1"
	case Action2:
		return "ACTION2"
	case Action3:
		return "ACTION3"
	case Quit:
		return "QUIT"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Valid reports whether a is one of the four known actions.
func (a Action) Valid() bool {
	return a >= Action1 && a <= Quit
}

// DefaultValue is the event magnitude when the producer has no continuous value.
const DefaultValue = 1.0

// InputEvent is the envelope every provider produces. It is a value type:
// once built it is only read.
type InputEvent struct {
	Action    Action    // abstract input
	Value     float64   // continuous magnitude, DefaultValue when unused
	Timestamp time.Time // capture time
	Note      string    // producer tag, e.g. "keyboard" or "face:player1"
}

// EventOption customizes NewInputEvent.
type EventOption func(*InputEvent)

// WithValue sets the event magnitude.
func WithValue(v float64) EventOption {
	return func(e *InputEvent) { e.Value = v }
}

// WithTimestamp sets the capture time.
func WithTimestamp(ts time.Time) EventOption {
	return func(e *InputEvent) {
		if !ts.IsZero() {
			e.Timestamp = ts
		}
	}
}

// WithNote tags the event with its producer.
func WithNote(note string) EventOption {
	return func(e *InputEvent) { e.Note = note }
}

// NewInputEvent builds an event stamped with the current time and DefaultValue.
func NewInputEvent(action Action, opts ...EventOption) InputEvent {
	e := InputEvent{
		Action:    action,
		Value:     DefaultValue,
		Timestamp: time.Now(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e InputEvent) String() string {
	if e.Note == "" {
		return fmt.Sprintf("%s val=%.2f", e.Action, e.Value)
	}
	return fmt.Sprintf("%s val=%.2f note=%s", e.Action, e.Value, e.Note)
}
