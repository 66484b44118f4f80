package render

// TextWidth is the pixel width of s in the built-in font.
func TextWidth(s string) int { return len(s) * CharWidth }

// TextCentered draws s horizontally centred in a surface of the given width.
func TextCentered(rc Context, s string, width, y, col int) {
	rc.Text(width/2-TextWidth(s)/2, y, s, col)
}

// TextOutlined draws s with a one pixel black outline.
func TextOutlined(rc Context, x, y int, s string, col int) {
	for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		rc.Text(x+d[0], y+d[1], s, ColorBlack)
	}
	rc.Text(x, y, s, col)
}
