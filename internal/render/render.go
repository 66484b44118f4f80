// Package render defines the drawing surface games paint into.
package render

import "strings"

// Key identifies a button the frame loop can query.
type Key int

// Keys understood by games and providers.
const (
	KeySpace Key = iota + 1
	KeyReturn
	KeyShift
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

var keyNames = map[Key]string{ //nolint:gochecknoglobals // fixed vocabulary
	KeySpace:  "space",
	KeyReturn: "return",
	KeyShift:  "shift",
	KeyEscape: "escape",
	KeyUp:     "up",
	KeyDown:   "down",
	KeyLeft:   "left",
	KeyRight:  "right",
}

var keyAliases = map[string]Key{ //nolint:gochecknoglobals // fixed vocabulary
	"enter": KeyReturn,
	"esc":   KeyEscape,
	"q":     KeyEscape,
	" ":     KeySpace,
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseKey resolves a key name, case-insensitively.
func ParseKey(name string) (Key, bool) {
	n := strings.ToLower(name)
	if k, ok := keyAliases[n]; ok {
		return k, true
	}
	n = strings.TrimSpace(n)
	for k, kn := range keyNames {
		if kn == n {
			return k, true
		}
	}
	return 0, false
}

// Context is the narrow drawing and input capability handed to games and
// polling providers once per frame. Colors are palette indices.
type Context interface {
	Cls(col int)
	Text(x, y int, s string, col int)
	Rect(x, y, w, h, col int)
	RectB(x, y, w, h, col int)
	Line(x1, y1, x2, y2, col int)
	Pset(x, y, col int)
	// Blt copies a w*h region at (u,v) of image bank to (x,y).
	Blt(x, y, bank, u, v, w, h int)
	Play(channel, sound int)
	LoadImage(bank int, path string) error

	// FrameCount is the number of frames started so far.
	FrameCount() int
	// ButtonPressed reports a press edge during the current frame.
	ButtonPressed(k Key) bool
}

// Palette indices used by the bundled games.
const (
	ColorBlack  = 0
	ColorNavy   = 1
	ColorPurple = 2
	ColorGreen  = 3
	ColorBrown  = 4
	ColorGray   = 5
	ColorLight  = 6
	ColorWhite  = 7
	ColorRed    = 8
	ColorOrange = 9
	ColorYellow = 10
	ColorLime   = 11
	ColorCyan   = 12
)

// CharWidth is the glyph advance of the built-in font.
const CharWidth = 4
