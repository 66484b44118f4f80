package capture

// PixelFormat is the byte order of a packed 3-channel frame.
type PixelFormat int

// Supported pixel formats.
const (
	BGR PixelFormat = iota
	RGB
)

func (f PixelFormat) String() string {
	if f == RGB {
		return "rgb"
	}
	return "bgr"
}

// Frame is one packed 8-bit 3-channel image.
type Frame struct {
	Width  int
	Height int
	Format PixelFormat
	Pix    []byte
}

// ToRGB returns f in RGB order. BGR input is copied with the outer channels
// swapped; RGB input is returned unchanged.
func ToRGB(f Frame) Frame {
	if f.Format == RGB {
		return f
	}
	out := make([]byte, len(f.Pix))
	n := len(f.Pix) - len(f.Pix)%3
	for i := 0; i < n; i += 3 {
		out[i] = f.Pix[i+2]
		out[i+1] = f.Pix[i+1]
		out[i+2] = f.Pix[i]
	}
	copy(out[n:], f.Pix[n:])
	return Frame{Width: f.Width, Height: f.Height, Format: RGB, Pix: out}
}
