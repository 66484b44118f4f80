package capture

import (
	"time"

	"github.com/okian/facepad/pkg/logger"
)

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithFrameSize sets the requested capture resolution.
func WithFrameSize(width, height int) Option {
	return func(w *Worker) {
		if width > 0 && height > 0 {
			w.settings.Width = width
			w.settings.Height = height
		}
	}
}

// WithCameraFPS sets the capture pacing rate.
func WithCameraFPS(fps float64) Option {
	return func(w *Worker) {
		if fps > 0 {
			w.settings.FPS = fps
		}
	}
}

// WithFrameSkip submits only one of every n frames to the detector.
func WithFrameSkip(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.frameSkip = n
		}
	}
}

// WithStopTimeout bounds how long Stop waits for the capture goroutine.
func WithStopTimeout(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.stopTimeout = d
		}
	}
}

// WithRetry sets the backoff range used after transient failures.
func WithRetry(initial, maxInterval time.Duration) Option {
	return func(w *Worker) {
		if initial > 0 {
			w.retryInitial = initial
		}
		if maxInterval >= w.retryInitial {
			w.retryMax = maxInterval
		}
	}
}

// WithMailbox publishes results into m instead of a private mailbox.
func WithMailbox(m *Mailbox) Option {
	return func(w *Worker) {
		if m != nil {
			w.mailbox = m
		}
	}
}

// WithClock replaces time.Now for timestamp derivation.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		if now != nil {
			w.now = now
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}
