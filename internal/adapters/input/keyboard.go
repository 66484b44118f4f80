package input

import (
	"context"
	"errors"

	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/render"
)

// KeyBinding maps one key to one action.
type KeyBinding struct {
	Key    render.Key
	Action model.Action
}

// DefaultBindings maps Space, Return, Shift and Escape to the four actions.
func DefaultBindings() []KeyBinding {
	return []KeyBinding{
		{Key: render.KeySpace, Action: model.Action1},
		{Key: render.KeyReturn, Action: model.Action2},
		{Key: render.KeyShift, Action: model.Action3},
		{Key: render.KeyEscape, Action: model.Quit},
	}
}

// KeyboardProvider reports key press edges from the render context.
type KeyboardProvider struct {
	note     string
	bindings []KeyBinding
}

// KeyboardOption configures a KeyboardProvider.
type KeyboardOption func(*KeyboardProvider)

// WithKeyboardNote overrides the producer tag.
func WithKeyboardNote(note string) KeyboardOption {
	return func(k *KeyboardProvider) {
		if note != "" {
			k.note = note
		}
	}
}

// WithBindings replaces the default key map.
func WithBindings(b []KeyBinding) KeyboardOption {
	return func(k *KeyboardProvider) {
		if len(b) > 0 {
			k.bindings = b
		}
	}
}

// NewKeyboardProvider creates a keyboard poller.
func NewKeyboardProvider(opts ...KeyboardOption) *KeyboardProvider {
	k := &KeyboardProvider{note: KeyboardNote, bindings: DefaultBindings()}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Name identifies the provider in logs.
func (k *KeyboardProvider) Name() string { return KindKeyboard }

// Note returns the producer tag.
func (k *KeyboardProvider) Note() string { return k.note }

// Poll enqueues one event per bound key pressed this frame, in binding order.
func (k *KeyboardProvider) Poll(ctx context.Context, rc render.Context, sink Sink) error {
	if rc == nil {
		return nil
	}
	var errs []error
	for _, b := range k.bindings {
		if !rc.ButtonPressed(b.Key) {
			continue
		}
		if err := sink.Enqueue(ctx, model.NewInputEvent(b.Action, model.WithNote(k.note))); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
