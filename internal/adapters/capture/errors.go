package capture

import "errors"

// Sentinel errors for the capture worker.
var (
	ErrCameraOpen     = errors.New("camera open failed")
	ErrDetectorInit   = errors.New("detector init failed")
	ErrStopTimeout    = errors.New("capture worker stop timed out")
	ErrStopped        = errors.New("capture worker stopped")
	ErrAlreadyStarted = errors.New("capture worker already started")
)
