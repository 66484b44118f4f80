// Package capture runs camera capture and face detection off the frame loop.
//
// A Worker owns one camera and one detector. Its goroutine reads frames at a
// fixed pace and submits them to the detector; detector callbacks publish
// into a single-slot Mailbox that the frame loop polls without blocking.
package capture

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/okian/facepad/internal/domain/expression"
	"github.com/okian/facepad/pkg/logger"
	"github.com/okian/facepad/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultFrameWidth   = 640
	defaultFrameHeight  = 480
	defaultCameraFPS    = 30
	defaultStopTimeout  = 2 * time.Second
	defaultRetryInitial = 10 * time.Millisecond
	defaultRetryMax     = 500 * time.Millisecond
	errorLogInterval    = 5 * time.Second
)

// Worker captures frames and publishes detections for one camera.
type Worker struct {
	id          string
	cameraIndex int
	settings    CameraSettings
	frameSkip   int

	stopTimeout  time.Duration
	retryInitial time.Duration
	retryMax     time.Duration

	camera   Camera
	detector Detector
	mailbox  *Mailbox

	now       func() time.Time
	startedAt time.Time
	lastTS    int64
	frames    uint64

	started     atomic.Bool
	cancel      context.CancelFunc
	startOnce   sync.Once
	stopOnce    sync.Once
	releaseOnce sync.Once
	done        chan struct{}
	stopErr     error

	logger    logger.Logger
	logErrors rate.Sometimes
}

// NewWorker opens the camera and creates the detector. Either failure is
// returned immediately; the camera is closed if the detector cannot be built.
func NewWorker(ctx context.Context, cameraIndex int, open CameraOpener, newDetector DetectorFactory, opts ...Option) (*Worker, error) {
	w := &Worker{
		id:          uuid.NewString(),
		cameraIndex: cameraIndex,
		settings: CameraSettings{
			Width:  defaultFrameWidth,
			Height: defaultFrameHeight,
			FPS:    defaultCameraFPS,
		},
		frameSkip:    1,
		stopTimeout:  defaultStopTimeout,
		retryInitial: defaultRetryInitial,
		retryMax:     defaultRetryMax,
		mailbox:      NewMailbox(),
		now:          time.Now,
		done:         make(chan struct{}),
		logger:       logger.Discard(),
		logErrors:    rate.Sometimes{First: 1, Interval: errorLogInterval},
	}

	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(logger.Int("camera", cameraIndex), logger.String("worker_id", w.id))

	camera, err := open(ctx, cameraIndex, w.settings)
	if err != nil {
		return nil, fmt.Errorf("%w: index %d: %w", ErrCameraOpen, cameraIndex, err)
	}
	if camera == nil {
		return nil, fmt.Errorf("%w: index %d: no device", ErrCameraOpen, cameraIndex)
	}

	detector, err := newDetector(ctx)
	if err != nil {
		if cerr := camera.Close(); cerr != nil {
			w.logger.Warn(ctx, "closing camera after detector failure", logger.Error(cerr))
		}
		return nil, fmt.Errorf("%w: %w", ErrDetectorInit, err)
	}

	w.camera = camera
	w.detector = detector
	return w, nil
}

// ID returns the worker's unique identifier.
func (w *Worker) ID() string { return w.id }

// CameraIndex returns the device index this worker owns.
func (w *Worker) CameraIndex() int { return w.cameraIndex }

// Mailbox returns the mailbox detections are published to.
func (w *Worker) Mailbox() *Mailbox { return w.mailbox }

// Poll returns the newest unconsumed detection, if any. It never blocks.
func (w *Worker) Poll() (Result, bool) { return w.mailbox.Poll() }

// Start launches the capture goroutine. It may be called once.
func (w *Worker) Start(ctx context.Context) error {
	launched := false
	w.startOnce.Do(func() {
		launched = true
		runCtx, cancel := context.WithCancel(ctx)
		w.cancel = cancel
		w.startedAt = w.now()
		w.started.Store(true)
		go w.run(runCtx)
	})
	if !launched {
		if !w.started.Load() {
			return ErrStopped
		}
		return ErrAlreadyStarted
	}
	w.logger.Info(ctx, "capture worker started",
		logger.Int("width", w.settings.Width),
		logger.Int("height", w.settings.Height),
		logger.Float64("fps", w.settings.FPS),
		logger.Int("frame_skip", w.frameSkip))
	return nil
}

// Stop signals the capture goroutine and waits up to the stop timeout for it
// to exit. Camera and detector are released exactly once. Repeated calls
// return the first call's result.
func (w *Worker) Stop() error {
	w.stopOnce.Do(func() {
		// Claim startOnce so a later Start cannot launch.
		w.startOnce.Do(func() {})
		if !w.started.Load() {
			close(w.done)
			w.release()
			return
		}
		w.cancel()
		select {
		case <-w.done:
		case <-time.After(w.stopTimeout):
			w.stopErr = fmt.Errorf("%w after %s", ErrStopTimeout, w.stopTimeout)
			w.logger.Warn(context.Background(), "capture worker did not exit in time",
				logger.Duration("timeout", w.stopTimeout))
		}
	})
	return w.stopErr
}

// Done is closed once the capture goroutine has exited.
func (w *Worker) Done() <-chan struct{} { return w.done }

func (w *Worker) release() {
	w.releaseOnce.Do(func() {
		ctx := context.Background()
		if err := w.detector.Close(); err != nil {
			w.logger.Warn(ctx, "closing detector", logger.Error(err))
		}
		if err := w.camera.Close(); err != nil {
			w.logger.Warn(ctx, "closing camera", logger.Error(err))
		}
	})
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	defer w.release()

	limiter := rate.NewLimiter(rate.Limit(w.settings.FPS), 1)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = w.retryInitial
	bo.MaxInterval = w.retryMax
	bo.Reset()

	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		frame, err := w.camera.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			metrics.RecordCaptureError("read")
			w.logTransient(ctx, "camera read failed", err)
			if !w.sleep(ctx, bo.NextBackOff()) {
				return
			}
			continue
		}

		w.frames++
		if w.frameSkip > 1 && (w.frames-1)%uint64(w.frameSkip) != 0 {
			metrics.RecordFrameSkipped()
			continue
		}

		ts := w.nextTimestamp()
		if err := w.detector.DetectAsync(ToRGB(frame), ts, w.onDetection); err != nil {
			metrics.RecordCaptureError("detect")
			w.logTransient(ctx, "detector submission failed", err)
			if !w.sleep(ctx, bo.NextBackOff()) {
				return
			}
			continue
		}
		bo.Reset()
	}
}

// nextTimestamp returns milliseconds since Start, strictly increasing.
func (w *Worker) nextTimestamp() int64 {
	ts := w.now().Sub(w.startedAt).Milliseconds()
	if ts <= w.lastTS {
		ts = w.lastTS + 1
	}
	w.lastTS = ts
	return ts
}

// onDetection runs on the detector's goroutine.
func (w *Worker) onDetection(d Detection) {
	metrics.RecordDetectionLatency(float64(w.now().Sub(w.startedAt).Milliseconds() - d.TimestampMS))
	w.mailbox.Publish(Result{
		Shapes:      extractShapes(d),
		TimestampMS: d.TimestampMS,
		CapturedAt:  w.startedAt.Add(time.Duration(d.TimestampMS) * time.Millisecond),
	})
}

// extractShapes keeps the first face's known blendshapes, lower-cased. It
// returns nil when no face was detected.
func extractShapes(d Detection) expression.Shapes {
	if len(d.Faces) == 0 {
		return nil
	}
	shapes := make(expression.Shapes, len(expression.Names))
	for _, b := range d.Faces[0] {
		name := strings.ToLower(b.Name)
		if isKnown(name) {
			shapes[name] = b.Score
		}
	}
	return shapes
}

func isKnown(name string) bool {
	for _, n := range expression.Names {
		if n == name {
			return true
		}
	}
	return false
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		d = w.retryInitial
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (w *Worker) logTransient(ctx context.Context, msg string, err error) {
	w.logErrors.Do(func() {
		w.logger.Warn(ctx, msg, logger.Error(err))
	})
}
