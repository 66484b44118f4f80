// Package config defines process configuration and its loading layers.
//
// Conventions:
//   - Provide New(ctx) to build a Config with defaults.
//   - Keys are flat snake_case; env vars are the upper-cased key with the
//     FACEPAD_ prefix.
//   - Errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/facepad/internal/domain/expression"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json records.
	LogFormat string `koanf:"log_format"`

	// StatusAddr is the listen address of the status server. Empty disables it.
	StatusAddr string `koanf:"status_addr"`

	// FPS is the frame loop tick rate.
	FPS int `koanf:"fps"`

	// Scale is the window scale factor passed to the surface.
	Scale int `koanf:"scale"`

	// QueueSize bounds the input event queue.
	QueueSize int `koanf:"queue_size"`

	// Strict re-raises panics caught at frame stage boundaries.
	Strict bool `koanf:"strict"`

	// KeyboardNote is the event tag allowed through while the menu is active.
	KeyboardNote string `koanf:"keyboard_note"`

	// AssetsDir is the content root; each game reads a subdirectory.
	AssetsDir string `koanf:"assets_dir"`

	// Face thresholds.
	FaceBlinkThreshold float64 `koanf:"face_blink_threshold"`
	FaceMouthThreshold float64 `koanf:"face_mouth_threshold"`
	FaceSmileThreshold float64 `koanf:"face_smile_threshold"`
	FaceHysteresis     float64 `koanf:"face_hysteresis"`

	// Capture worker.
	FaceFrameWidth     int     `koanf:"face_frame_width"`
	FaceFrameHeight    int     `koanf:"face_frame_height"`
	FaceCameraFPS      float64 `koanf:"face_camera_fps"`
	FaceFrameSkip      int     `koanf:"face_frame_skip"`
	FaceStopTimeoutMS  int     `koanf:"face_stop_timeout_ms"`
	FaceRetryInitialMS int     `koanf:"face_retry_initial_ms"`
	FaceRetryMaxMS     int     `koanf:"face_retry_max_ms"`

	// FaceScript is a timeline file driving the scripted detector. Empty uses
	// the built-in demo timeline.
	FaceScript string `koanf:"face_script"`
}

// New creates a Config with defaults. Context is accepted first to match the
// project-wide convention.
func New(_ context.Context) *Config {
	face := expression.DefaultConfig()
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		StatusAddr:         "",
		FPS:                30,
		Scale:              3,
		QueueSize:          1024,
		Strict:             false,
		KeyboardNote:       "keyboard",
		AssetsDir:          "assets",
		FaceBlinkThreshold: face.BlinkOn,
		FaceMouthThreshold: face.MouthOn,
		FaceSmileThreshold: face.SmileOn,
		FaceHysteresis:     face.Hysteresis,
		FaceFrameWidth:     640,
		FaceFrameHeight:    480,
		FaceCameraFPS:      30,
		FaceFrameSkip:      1,
		FaceStopTimeoutMS:  2000,
		FaceRetryInitialMS: 10,
		FaceRetryMaxMS:     500,
	}
}

// Expression returns the extractor thresholds.
func (c *Config) Expression() expression.Config {
	return expression.Config{
		BlinkOn:    c.FaceBlinkThreshold,
		MouthOn:    c.FaceMouthThreshold,
		SmileOn:    c.FaceSmileThreshold,
		Hysteresis: c.FaceHysteresis,
	}
}

// StopTimeout is FaceStopTimeoutMS as a duration.
func (c *Config) StopTimeout() time.Duration {
	return time.Duration(c.FaceStopTimeoutMS) * time.Millisecond
}

// RetryRange returns the capture backoff bounds.
func (c *Config) RetryRange() (initial, maxInterval time.Duration) {
	return time.Duration(c.FaceRetryInitialMS) * time.Millisecond,
		time.Duration(c.FaceRetryMaxMS) * time.Millisecond
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS)
	case c.Scale <= 0:
		return fmt.Errorf("%w: scale must be positive, got %d", ErrInvalidConfig, c.Scale)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case strings.TrimSpace(c.KeyboardNote) == "":
		return fmt.Errorf("%w: keyboard_note must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	for key, v := range map[string]float64{
		"face_blink_threshold": c.FaceBlinkThreshold,
		"face_mouth_threshold": c.FaceMouthThreshold,
		"face_smile_threshold": c.FaceSmileThreshold,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%w: %s must be in (0,1], got %v", ErrInvalidConfig, key, v)
		}
	}
	if c.FaceHysteresis < 0 {
		return fmt.Errorf("%w: face_hysteresis must not be negative", ErrInvalidConfig)
	}
	if c.FaceFrameSkip <= 0 || c.FaceCameraFPS <= 0 {
		return fmt.Errorf("%w: face_frame_skip and face_camera_fps must be positive", ErrInvalidConfig)
	}
	if c.FaceRetryInitialMS <= 0 || c.FaceRetryMaxMS < c.FaceRetryInitialMS {
		return fmt.Errorf("%w: face retry range [%d,%d]ms is invalid", ErrInvalidConfig, c.FaceRetryInitialMS, c.FaceRetryMaxMS)
	}
	if c.FaceStopTimeoutMS <= 0 {
		return fmt.Errorf("%w: face_stop_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
