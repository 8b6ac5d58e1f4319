package waterfall

import (
	"errors"
	"fmt"
)

const BytesPerPixel = 2

var ErrRowWidth = errors.New("row width does not match framebuffer")
var ErrRowOffset = errors.New("row offset out of range")

// Framebuffer is a W x H RGB565 image used as a circular buffer of rows.
// New rows are written from the bottom up; the most recently written row
// is the seam a display rotates around.
type Framebuffer struct {
	w, h int
	buf  []byte
}

func NewFramebuffer(w, h int) (*Framebuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("bad framebuffer size %dx%d", w, h)
	}
	return &Framebuffer{w: w, h: h, buf: make([]byte, w*h*BytesPerPixel)}, nil
}

func (fb *Framebuffer) Width() int     { return fb.w }
func (fb *Framebuffer) Height() int    { return fb.h }
func (fb *Framebuffer) Buffer() []byte { return fb.buf }

// VisualRowFor is the buffer row that holds the frame written at offset.
func VisualRowFor(h, offset int) int { return h - 1 - offset }

// PixelAddress is the pixel index of (col, row); its bytes start at twice
// that.
func (fb *Framebuffer) PixelAddress(col, row int) int { return col + row*fb.w }

// WriteRow stores one row of pixels for the given row offset and returns the
// buffer row written, which is the seam for rendering.
func (fb *Framebuffer) WriteRow(colors []Color, offset int) (int, error) {
	if len(colors) != fb.w {
		return 0, ErrRowWidth
	}
	if offset < 0 || offset >= fb.h {
		return 0, ErrRowOffset
	}
	row := VisualRowFor(fb.h, offset)
	for col, c := range colors {
		a := BytesPerPixel * fb.PixelAddress(col, row)
		fb.buf[a] = c[0]
		fb.buf[a+1] = c[1]
	}
	return row, nil
}

func (fb *Framebuffer) Pixel(col, row int) Color {
	a := BytesPerPixel * fb.PixelAddress(col, row)
	return Color{fb.buf[a], fb.buf[a+1]}
}

func (fb *Framebuffer) SetPixel(col, row int, c Color) {
	a := BytesPerPixel * fb.PixelAddress(col, row)
	fb.buf[a], fb.buf[a+1] = c[0], c[1]
}

func (fb *Framebuffer) Fill(c Color) {
	for i := 0; i < len(fb.buf); i += BytesPerPixel {
		fb.buf[i], fb.buf[i+1] = c[0], c[1]
	}
}

// DrawRamp paints every column with the table entry spread across the
// width; it is the startup image on hosts.
func (fb *Framebuffer) DrawRamp(t *ColorTable) {
	for col := 0; col < fb.w; col++ {
		c := t[col*len(t)/fb.w]
		for row := 0; row < fb.h; row++ {
			fb.SetPixel(col, row, c)
		}
	}
}

// Rotate copies buf, an h-row image of stride bytes per row, into dst so
// that row seam comes first and rows wrap after the bottom. The newest row
// ends up on top.
func Rotate(dst, buf []byte, stride, seam int) []byte {
	n := len(buf)
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	split := seam * stride
	copy(dst, buf[split:])
	copy(dst[n-split:], buf[:split])
	return dst
}
