package expression

import (
	"github.com/okian/facepad/internal/domain/model"
)

// Threshold is an on/off hysteresis pair. Off never exceeds On.
type Threshold struct {
	On  float64
	Off float64
}

// NewThreshold builds a pair with Off = max(0, on - hysteresis).
func NewThreshold(on, hysteresis float64) Threshold {
	if hysteresis < 0 {
		hysteresis = 0
	}
	return Threshold{On: on, Off: max(0, on-hysteresis)}
}

// SignalFunc derives one score from the shapes, or reports it is unknown.
type SignalFunc func(Shapes) (float64, bool)

// Channel tracks the activation state of a single signal.
type Channel struct {
	name      string
	action    model.Action
	threshold Threshold
	signal    SignalFunc
	active    bool
}

// NewChannel creates an inactive channel emitting action on rising edges.
func NewChannel(name string, action model.Action, th Threshold, signal SignalFunc) *Channel {
	return &Channel{name: name, action: action, threshold: th, signal: signal}
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// Action returns the action emitted on activation.
func (c *Channel) Action() model.Action { return c.action }

// Threshold returns the hysteresis pair.
func (c *Channel) Threshold() Threshold { return c.threshold }

// Active reports the retained activation state.
func (c *Channel) Active() bool { return c.active }

// Observe feeds one score and reports whether it produced a rising edge.
func (c *Channel) Observe(score float64) bool {
	if c.active {
		c.active = score >= c.threshold.Off
		return false
	}
	if score >= c.threshold.On {
		c.active = true
		return true
	}
	return false
}

// Update derives the channel's score from s and feeds it. An unknown signal
// leaves the state untouched.
func (c *Channel) Update(s Shapes) (score float64, edge bool) {
	score, ok := c.signal(s)
	if !ok {
		return 0, false
	}
	return score, c.Observe(score)
}

// Reset forces the channel inactive.
func (c *Channel) Reset() { c.active = false }
