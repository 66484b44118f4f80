package script

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/facepad/internal/adapters/capture"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("script source closed")

// Camera yields blank BGR frames of the requested size.
type Camera struct {
	settings capture.CameraSettings
	mu       sync.Mutex
	closed   bool
}

// Open satisfies capture.CameraOpener. Every index opens successfully.
func Open(_ context.Context, _ int, settings capture.CameraSettings) (capture.Camera, error) {
	return &Camera{settings: settings}, nil
}

// Read returns a black frame.
func (c *Camera) Read(ctx context.Context) (capture.Frame, error) {
	if err := ctx.Err(); err != nil {
		return capture.Frame{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return capture.Frame{}, ErrClosed
	}
	w, h := c.settings.Width, c.settings.Height
	return capture.Frame{Width: w, Height: h, Format: capture.BGR, Pix: make([]byte, w*h*3)}, nil
}

// Close releases the camera.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithAsync delivers results on a new goroutine per submission.
func WithAsync() DetectorOption {
	return func(d *Detector) { d.async = true }
}

// Detector replays a timeline, one step position per submission.
type Detector struct {
	timeline Timeline
	async    bool

	mu     sync.Mutex
	next   int
	closed bool
	wg     sync.WaitGroup
}

// NewDetector creates a detector replaying t.
func NewDetector(t Timeline, opts ...DetectorOption) *Detector {
	d := &Detector{timeline: t}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Factory returns a capture.DetectorFactory building a fresh detector for t.
func Factory(t Timeline, opts ...DetectorOption) capture.DetectorFactory {
	return func(context.Context) (capture.Detector, error) {
		return NewDetector(t, opts...), nil
	}
}

// DetectAsync answers the submission with the current step.
func (d *Detector) DetectAsync(_ capture.Frame, timestampMS int64, done func(capture.Detection)) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	step := d.timeline.At(d.next)
	d.next++
	if d.async {
		d.wg.Add(1)
	}
	d.mu.Unlock()

	det := capture.Detection{TimestampMS: timestampMS}
	if step.HasFace() {
		face := make([]capture.Blendshape, 0, len(step.Shapes))
		for name, score := range step.Shapes {
			face = append(face, capture.Blendshape{Name: name, Score: score})
		}
		det.Faces = [][]capture.Blendshape{face}
	}

	if d.async {
		go func() {
			defer d.wg.Done()
			done(det)
		}()
		return nil
	}
	done(det)
	return nil
}

// Close stops accepting submissions and waits for pending callbacks.
func (d *Detector) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
	return nil
}
