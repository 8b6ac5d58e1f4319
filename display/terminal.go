//go:build !tinygo

package display

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chzchzchz/iqfall/waterfall"
)

const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	upperHalf   = "▀"
)

// Terminal draws the framebuffer with half-block characters, two pixel
// rows per text line: the upper pixel is the foreground and the lower one
// the background.
type Terminal struct {
	out   *bufio.Writer
	r     *lipgloss.Renderer
	cells map[[2]waterfall.Color]string
	// Title is printed above the image when set.
	Title string
	rot   []byte
	ready bool
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		out:   bufio.NewWriter(w),
		r:     lipgloss.NewRenderer(w),
		cells: make(map[[2]waterfall.Color]string),
	}
}

func (t *Terminal) Init(o Orientation) error {
	t.ready = true
	_, err := io.WriteString(t.out, clearScreen)
	if err != nil {
		return err
	}
	return t.out.Flush()
}

func hexColor(c waterfall.Color) lipgloss.Color {
	r, g, b := c.RGB()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

func (t *Terminal) cell(top, bottom waterfall.Color) string {
	k := [2]waterfall.Color{top, bottom}
	if s, ok := t.cells[k]; ok {
		return s
	}
	s := t.r.NewStyle().
		Foreground(hexColor(top)).
		Background(hexColor(bottom)).
		Render(upperHalf)
	t.cells[k] = s
	return s
}

func (t *Terminal) Clear(c waterfall.Color) error {
	if !t.ready {
		return ErrNotInitialized
	}
	_, err := io.WriteString(t.out, clearScreen+cursorHome)
	if err != nil {
		return err
	}
	return t.out.Flush()
}

func (t *Terminal) draw(img []byte, w, h int) error {
	stride := w * waterfall.BytesPerPixel
	px := func(x, y int) waterfall.Color {
		if y >= h {
			return waterfall.Black
		}
		a := y*stride + x*waterfall.BytesPerPixel
		return waterfall.Color{img[a], img[a+1]}
	}
	var sb strings.Builder
	sb.WriteString(cursorHome)
	if t.Title != "" {
		sb.WriteString(t.Title)
		sb.WriteString("\n")
	}
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			sb.WriteString(t.cell(px(x, y), px(x, y+1)))
		}
		sb.WriteString("\n")
	}
	if _, err := t.out.WriteString(sb.String()); err != nil {
		return err
	}
	return t.out.Flush()
}

func (t *Terminal) DisplayFull(fb *waterfall.Framebuffer) error {
	if !t.ready {
		return ErrNotInitialized
	}
	return t.draw(fb.Buffer(), fb.Width(), fb.Height())
}

func (t *Terminal) DisplayRotated(fb *waterfall.Framebuffer, seam int) error {
	if !t.ready {
		return ErrNotInitialized
	}
	if err := checkSeam(fb, seam); err != nil {
		return err
	}
	t.rot = waterfall.Rotate(t.rot, fb.Buffer(), fb.Width()*waterfall.BytesPerPixel, seam)
	return t.draw(t.rot, fb.Width(), fb.Height())
}

func (t *Terminal) Close() error {
	t.ready = false
	return t.out.Flush()
}
