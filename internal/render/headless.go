package render

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Op is one recorded draw call.
type Op struct {
	Name string
	Args []int
	Text string
}

func (o Op) String() string {
	if o.Text != "" {
		return fmt.Sprintf("%s%v %q", o.Name, o.Args, o.Text)
	}
	return fmt.Sprintf("%s%v", o.Name, o.Args)
}

// Headless is a Context that records draw calls instead of painting them.
// Key presses may be injected from any goroutine; they become visible at the
// next BeginFrame.
type Headless struct {
	width  int
	height int
	scale  int

	mu      sync.Mutex
	pending map[Key]bool
	pressed map[Key]bool
	frame   int
	ops     []Op
	images  map[int]string
	played  []int
}

// HeadlessOption configures a Headless surface.
type HeadlessOption func(*Headless)

// WithScale records the window scale factor.
func WithScale(scale int) HeadlessOption {
	return func(h *Headless) {
		if scale > 0 {
			h.scale = scale
		}
	}
}

// NewHeadless creates a surface of the given logical size.
func NewHeadless(width, height int, opts ...HeadlessOption) *Headless {
	h := &Headless{
		width:   width,
		height:  height,
		scale:   1,
		pending: map[Key]bool{},
		pressed: map[Key]bool{},
		images:  map[int]string{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Size returns the logical width and height.
func (h *Headless) Size() (int, int) { return h.width, h.height }

// Scale returns the window scale factor.
func (h *Headless) Scale() int { return h.scale }

// Resize changes the logical size, as when the active game changes.
func (h *Headless) Resize(width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.width, h.height = width, height
}

// BeginFrame advances the frame counter, publishes pending key presses and
// discards the previous frame's draw calls.
func (h *Headless) BeginFrame() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frame++
	h.pressed, h.pending = h.pending, map[Key]bool{}
	h.ops = h.ops[:0]
	h.played = h.played[:0]
}

// Press queues a key press for the next frame.
func (h *Headless) Press(k Key) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending[k] = true
}

// ReadKeys reads key names, one per line, from r and presses them until r
// is exhausted or ctx is done. Unknown names are ignored. If r is an
// io.Closer it is closed when ctx is done so a pending read returns; a plain
// reader is only checked between lines.
func (h *Headless) ReadKeys(ctx context.Context, r io.Reader) error {
	if c, ok := r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stop()
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := sc.Text()
		if line == "" {
			h.Press(KeySpace)
			continue
		}
		for _, name := range strings.Fields(line) {
			if k, ok := ParseKey(name); ok {
				h.Press(k)
			}
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return sc.Err()
}

// Ops returns a copy of the current frame's draw calls.
func (h *Headless) Ops() []Op {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Op(nil), h.ops...)
}

// Texts returns the strings drawn this frame, in order.
func (h *Headless) Texts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, o := range h.ops {
		if o.Name == "text" {
			out = append(out, o.Text)
		}
	}
	return out
}

// Played returns the sounds started this frame.
func (h *Headless) Played() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int(nil), h.played...)
}

// Image returns the path loaded into bank.
func (h *Headless) Image(bank int) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.images[bank]
	return p, ok
}

func (h *Headless) record(name, text string, args ...int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ops = append(h.ops, Op{Name: name, Args: args, Text: text})
}

// Cls clears the frame.
func (h *Headless) Cls(col int) {
	h.mu.Lock()
	h.ops = h.ops[:0]
	h.mu.Unlock()
	h.record("cls", "", col)
}

func (h *Headless) Text(x, y int, s string, col int) { h.record("text", s, x, y, col) }
func (h *Headless) Rect(x, y, w, hh, col int)        { h.record("rect", "", x, y, w, hh, col) }
func (h *Headless) RectB(x, y, w, hh, col int)       { h.record("rectb", "", x, y, w, hh, col) }
func (h *Headless) Line(x1, y1, x2, y2, col int)     { h.record("line", "", x1, y1, x2, y2, col) }
func (h *Headless) Pset(x, y, col int)               { h.record("pset", "", x, y, col) }

func (h *Headless) Blt(x, y, bank, u, v, w, hh int) {
	h.record("blt", "", x, y, bank, u, v, w, hh)
}

// Play records a sound start.
func (h *Headless) Play(channel, sound int) {
	h.mu.Lock()
	h.played = append(h.played, sound)
	h.mu.Unlock()
	h.record("play", "", channel, sound)
}

// LoadImage records path for bank. The file must exist.
func (h *Headless) LoadImage(bank int, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("load image bank %d: %w", bank, err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.images[bank] = path
	return nil
}

// FrameCount returns the number of frames begun.
func (h *Headless) FrameCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame
}

// ButtonPressed reports whether k was pressed before this frame began.
func (h *Headless) ButtonPressed(k Key) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pressed[k]
}
