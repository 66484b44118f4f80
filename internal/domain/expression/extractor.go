package expression

import (
	"github.com/okian/facepad/internal/domain/model"
)

// Channel names.
const (
	ChannelBlink = "blink"
	ChannelMouth = "mouth"
	ChannelSmile = "smile"
)

// Config holds the per-channel activation thresholds and the shared hysteresis.
type Config struct {
	BlinkOn    float64
	MouthOn    float64
	SmileOn    float64
	Hysteresis float64
}

// DefaultConfig returns the thresholds tuned for the bundled games.
func DefaultConfig() Config {
	return Config{
		BlinkOn:    0.6,
		MouthOn:    0.4,
		SmileOn:    0.5,
		Hysteresis: 0.1,
	}
}

// Edge is a rising transition on a channel.
type Edge struct {
	Channel string
	Action  model.Action
	Score   float64
}

// Extractor owns the blink, mouth and smile channels. It is not safe for
// concurrent use; the frame loop is its only caller.
type Extractor struct {
	channels []*Channel
}

// NewExtractor builds the three channels: blink -> ACTION1, mouth -> ACTION2,
// smile -> ACTION3.
func NewExtractor(cfg Config) *Extractor {
	return &Extractor{channels: []*Channel{
		NewChannel(ChannelBlink, model.Action1, NewThreshold(cfg.BlinkOn, cfg.Hysteresis), Blink),
		NewChannel(ChannelMouth, model.Action2, NewThreshold(cfg.MouthOn, cfg.Hysteresis), MouthOpen),
		NewChannel(ChannelSmile, model.Action3, NewThreshold(cfg.SmileOn, cfg.Hysteresis), Smile),
	}}
}

// Update feeds one detection and returns the rising edges it produced, at
// most one per channel, in channel order.
func (x *Extractor) Update(s Shapes) []Edge {
	var edges []Edge
	for _, c := range x.channels {
		score, edge := c.Update(s)
		if edge {
			edges = append(edges, Edge{Channel: c.Name(), Action: c.Action(), Score: score})
		}
	}
	return edges
}

// Reset deactivates every channel; used when the face leaves the frame.
func (x *Extractor) Reset() {
	for _, c := range x.channels {
		c.Reset()
	}
}

// Channel returns the named channel or nil.
func (x *Extractor) Channel(name string) *Channel {
	for _, c := range x.channels {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
