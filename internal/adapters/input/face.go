package input

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/facepad/internal/adapters/capture"
	"github.com/okian/facepad/internal/domain/expression"
	"github.com/okian/facepad/internal/domain/model"
	"github.com/okian/facepad/internal/render"
	"github.com/okian/facepad/pkg/logger"
)

// Source is the capture side of a face provider.
type Source interface {
	Start(ctx context.Context) error
	Stop() error
	Poll() (capture.Result, bool)
	CameraIndex() int
}

// FaceProvider converts detections from one camera into edge-triggered
// events for one player.
type FaceProvider struct {
	player    int
	note      string
	source    Source
	extractor *expression.Extractor
	logger    logger.Logger
}

// FaceOption configures a FaceProvider.
type FaceOption func(*FaceProvider)

// WithPlayer sets the 1-based player slot used in the event note.
func WithPlayer(player int) FaceOption {
	return func(f *FaceProvider) {
		if player > 0 {
			f.player = player
		}
	}
}

// WithFaceLogger sets a custom logger for the provider.
func WithFaceLogger(l logger.Logger) FaceOption {
	return func(f *FaceProvider) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFaceProvider wraps source. A nil extractor uses the default thresholds.
func NewFaceProvider(source Source, extractor *expression.Extractor, opts ...FaceOption) *FaceProvider {
	if extractor == nil {
		extractor = expression.NewExtractor(expression.DefaultConfig())
	}
	f := &FaceProvider{
		player:    1,
		source:    source,
		extractor: extractor,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.note = FaceNote(f.player)
	return f
}

// Name identifies the provider in logs.
func (f *FaceProvider) Name() string {
	return fmt.Sprintf("%s:%d", KindFace, f.source.CameraIndex())
}

// Note returns the producer tag.
func (f *FaceProvider) Note() string { return f.note }

// Player returns the 1-based player slot.
func (f *FaceProvider) Player() int { return f.player }

// Extractor exposes the channel state.
func (f *FaceProvider) Extractor() *expression.Extractor { return f.extractor }

// Start launches the capture worker. Events are produced from Poll, so sink
// is unused here.
func (f *FaceProvider) Start(ctx context.Context, _ Sink) error {
	if err := f.source.Start(ctx); err != nil {
		return fmt.Errorf("start %s: %w", f.Name(), err)
	}
	f.logger.Info(ctx, "face provider started", logger.String("note", f.note))
	return nil
}

// Stop halts the capture worker.
func (f *FaceProvider) Stop() error { return f.source.Stop() }

// Poll reports an Escape edge as QUIT and then consumes at most one new
// detection. A detection without a face re-arms every channel.
func (f *FaceProvider) Poll(ctx context.Context, rc render.Context, sink Sink) error {
	var errs []error
	if rc != nil && rc.ButtonPressed(render.KeyEscape) {
		if err := sink.Enqueue(ctx, model.NewInputEvent(model.Quit, model.WithNote(f.note))); err != nil {
			errs = append(errs, err)
		}
	}

	r, ok := f.source.Poll()
	if !ok {
		return errors.Join(errs...)
	}
	if r.Shapes == nil {
		f.extractor.Reset()
		return errors.Join(errs...)
	}

	for _, edge := range f.extractor.Update(r.Shapes) {
		e := model.NewInputEvent(edge.Action,
			model.WithValue(edge.Score),
			model.WithTimestamp(r.CapturedAt),
			model.WithNote(f.note))
		if err := sink.Enqueue(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
