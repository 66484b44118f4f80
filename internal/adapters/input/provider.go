// Package input turns keyboard state and face detections into input events.
//
// A provider implements Poller, Threaded, or both. Pollers run once per frame
// on the frame goroutine and must not block. Threaded providers produce in
// the background between Start and Stop.
package input

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/render"
)

// Producer tags carried in InputEvent.Note.
const (
	KeyboardNote = "keyboard"
	facePrefix   = "face:player"
)

// FaceNote returns the tag for events from player (1-based).
func FaceNote(player int) string { return facePrefix + strconv.Itoa(player) }

// Sink accepts events from any goroutine.
type Sink interface {
	Enqueue(ctx context.Context, e model.InputEvent) error
}

// Provider is anything registered with the frame loop.
type Provider interface {
	Name() string
}

// Poller is called once per frame.
type Poller interface {
	Provider
	Poll(ctx context.Context, rc render.Context, sink Sink) error
}

// Threaded produces events on its own goroutine.
type Threaded interface {
	Provider
	Start(ctx context.Context, sink Sink) error
	Stop() error
}

// Provider kinds accepted by ParseSpec.
const (
	KindKeyboard = "keyboard"
	KindFace     = "face"
)

var kindAliases = map[string]string{ //nolint:gochecknoglobals // fixed vocabulary
	"keyboard":       KindKeyboard,
	"face":           KindFace,
	"mediapipe_face": KindFace,
}

// Spec is a parsed "name" or "name:camera" provider argument.
type Spec struct {
	Kind      string
	Camera    int
	HasCamera bool
}

func (s Spec) String() string {
	if s.HasCamera {
		return fmt.Sprintf("%s:%d", s.Kind, s.Camera)
	}
	return s.Kind
}

// ParseSpec parses a provider argument.
func ParseSpec(raw string) (Spec, error) {
	name, cam, hasCam := strings.Cut(strings.TrimSpace(raw), ":")
	kind, ok := kindAliases[strings.ToLower(name)]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	spec := Spec{Kind: kind}
	if !hasCam {
		return spec, nil
	}
	if kind != KindFace {
		return Spec{}, fmt.Errorf("%w: %s takes no camera index", ErrInvalidSpec, kind)
	}
	idx, err := strconv.Atoi(cam)
	if err != nil || idx < 0 {
		return Spec{}, fmt.Errorf("%w: camera index %q", ErrInvalidSpec, cam)
	}
	spec.Camera = idx
	spec.HasCamera = true
	return spec, nil
}
