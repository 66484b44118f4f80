package capture

import "context"

// CameraSettings are requested from the device at open time.
type CameraSettings struct {
	Width  int
	Height int
	FPS    float64
}

// Camera is an open capture device. Read may block until a frame arrives.
type Camera interface {
	Read(ctx context.Context) (Frame, error)
	Close() error
}

// CameraOpener opens the device at index.
type CameraOpener func(ctx context.Context, index int, settings CameraSettings) (Camera, error)

// Blendshape is one named score from a detected face.
type Blendshape struct {
	Name  string
	Score float64
}

// Detection is a detector result. Faces is empty when no face was found.
type Detection struct {
	TimestampMS int64
	Faces       [][]Blendshape
}

// Detector runs face landmark inference asynchronously. done may be called
// on any goroutine, in any order relative to submissions.
type Detector interface {
	DetectAsync(frame Frame, timestampMS int64, done func(Detection)) error
	Close() error
}

// DetectorFactory creates a detector for one worker.
type DetectorFactory func(ctx context.Context) (Detector, error)
