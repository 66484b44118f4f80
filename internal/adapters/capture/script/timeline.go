// Package script provides a camera and detector driven by a YAML timeline.
//
// It stands in for real capture hardware and the landmark model: the camera
// yields blank frames and the detector answers each submission with the
// blendshapes of the current timeline step.
//
//	loop: true
//	steps:
//	  - frames: 30
//	  - frames: 5
//	    shapes: {eyeBlinkLeft: 0.9, eyeBlinkRight: 0.9}
//	  - frames: 10
//	    face: false
package script

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for timeline loading.
var (
	ErrEmptyTimeline = errors.New("timeline has no steps")
	ErrInvalidStep   = errors.New("invalid timeline step")
)

// Step holds one set of scores for a number of consecutive detections.
type Step struct {
	Frames int                `yaml:"frames"`
	Face   *bool              `yaml:"face,omitempty"`
	Shapes map[string]float64 `yaml:"shapes,omitempty"`
}

// HasFace reports whether the step should produce a face. It defaults to true.
func (s Step) HasFace() bool { return s.Face == nil || *s.Face }

// Timeline is an ordered list of steps, optionally repeated.
type Timeline struct {
	Loop  bool   `yaml:"loop"`
	Steps []Step `yaml:"steps"`
}

// Len returns the number of detections one pass covers.
func (t Timeline) Len() int {
	n := 0
	for _, s := range t.Steps {
		n += s.Frames
	}
	return n
}

// At returns the step covering detection i (zero based). Past the end of a
// non-looping timeline the last step repeats.
func (t Timeline) At(i int) Step {
	total := t.Len()
	if total == 0 {
		return Step{}
	}
	if t.Loop {
		i %= total
	} else if i >= total {
		return t.Steps[len(t.Steps)-1]
	}
	for _, s := range t.Steps {
		if i < s.Frames {
			return s
		}
		i -= s.Frames
	}
	return t.Steps[len(t.Steps)-1]
}

// Validate checks that every step covers at least one frame and every score
// lies in [0,1].
func (t Timeline) Validate() error {
	if len(t.Steps) == 0 {
		return ErrEmptyTimeline
	}
	for i, s := range t.Steps {
		if s.Frames <= 0 {
			return fmt.Errorf("%w %d: frames must be positive", ErrInvalidStep, i)
		}
		for name, v := range s.Shapes {
			if v < 0 || v > 1 {
				return fmt.Errorf("%w %d: %s=%v outside [0,1]", ErrInvalidStep, i, name, v)
			}
		}
	}
	return nil
}

// Parse decodes and validates a YAML timeline.
func Parse(data []byte) (Timeline, error) {
	var t Timeline
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Timeline{}, fmt.Errorf("decode timeline: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Timeline{}, err
	}
	return t, nil
}

// Load reads a timeline file.
func Load(path string) (Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Timeline{}, fmt.Errorf("read timeline %s: %w", path, err)
	}
	return Parse(data)
}

// Demo cycles through a rest pose, a blink, an open mouth and a smile, with a
// short no-face gap, at roughly one expression per second at 30 fps.
func Demo() Timeline {
	noFace := false
	return Timeline{
		Loop: true,
		Steps: []Step{
			{Frames: 30, Shapes: rest()},
			{Frames: 6, Shapes: with(rest(), map[string]float64{"eyeBlinkLeft": 0.9, "eyeBlinkRight": 0.85})},
			{Frames: 30, Shapes: rest()},
			{Frames: 10, Shapes: with(rest(), map[string]float64{"jawOpen": 0.7})},
			{Frames: 30, Shapes: rest()},
			{Frames: 10, Shapes: with(rest(), map[string]float64{"mouthSmileLeft": 0.8, "mouthSmileRight": 0.75})},
			{Frames: 15, Face: &noFace},
		},
	}
}

func rest() map[string]float64 {
	return map[string]float64{
		"eyeBlinkLeft": 0.05, "eyeBlinkRight": 0.05,
		"jawOpen":        0.02,
		"mouthSmileLeft": 0.1, "mouthSmileRight": 0.1,
	}
}

func with(base, over map[string]float64) map[string]float64 {
	for k, v := range over {
		base[k] = v
	}
	return base
}
