// Package expression turns continuous blendshape scores into edge-triggered
// game actions.
//
// Three signals are derived from the detector's named scores (blink, mouth
// open, smile). Each signal runs through its own hysteresis channel: a channel
// activates when the score reaches On and stays active while the score is at
// least Off. Only the inactive -> active transition produces an action.
package expression

import "strings"

// Blendshape names as produced by the face landmarker, lower-cased.
const (
	EyeBlinkLeft         = "eyeblinkleft"
	EyeBlinkRight        = "eyeblinkright"
	EyeSquintLeft        = "eyesquintleft"
	EyeSquintRight       = "eyesquintright"
	JawOpen              = "jawopen"
	MouthClose           = "mouthclose"
	MouthSmileLeft       = "mouthsmileleft"
	MouthSmileRight      = "mouthsmileright"
	MouthCornerPullLeft  = "mouthcornerpullleft"
	MouthCornerPullRight = "mouthcornerpullright"
)

// Names lists every blendshape the extractor reads. The capture worker keeps
// only these from a detection result.
var Names = []string{ //nolint:gochecknoglobals // fixed vocabulary
	EyeBlinkLeft, EyeBlinkRight,
	EyeSquintLeft, EyeSquintRight,
	JawOpen, MouthClose,
	MouthSmileLeft, MouthSmileRight,
	MouthCornerPullLeft, MouthCornerPullRight,
}

// Shapes maps lower-cased blendshape names to scores in [0,1].
type Shapes map[string]float64

// Normalize returns a copy of raw with lower-cased keys.
func Normalize(raw map[string]float64) Shapes {
	out := make(Shapes, len(raw))
	for k, v := range raw {
		out[strings.ToLower(k)] = v
	}
	return out
}

func (s Shapes) pair(left, right string) (float64, bool) {
	l, okL := s[left]
	r, okR := s[right]
	if !okL || !okR {
		return 0, false
	}
	return (l + r) / 2, true
}

// Blink is max(avg(eyeBlink), avg(eyeSquint)) using whichever pair exists.
func Blink(s Shapes) (float64, bool) {
	blink, okBlink := s.pair(EyeBlinkLeft, EyeBlinkRight)
	squint, okSquint := s.pair(EyeSquintLeft, EyeSquintRight)
	switch {
	case okBlink && okSquint:
		return max(blink, squint), true
	case okBlink:
		return blink, true
	case okSquint:
		return squint, true
	default:
		return 0, false
	}
}

// MouthOpen is jawOpen, falling back to 1 - mouthClose.
func MouthOpen(s Shapes) (float64, bool) {
	if v, ok := s[JawOpen]; ok {
		return v, true
	}
	if v, ok := s[MouthClose]; ok {
		return 1 - v, true
	}
	return 0, false
}

// Smile is avg(mouthSmile), falling back to avg(mouthCornerPull).
func Smile(s Shapes) (float64, bool) {
	if v, ok := s.pair(MouthSmileLeft, MouthSmileRight); ok {
		return v, true
	}
	return s.pair(MouthCornerPullLeft, MouthCornerPullRight)
}
