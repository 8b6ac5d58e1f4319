// Package display renders a waterfall framebuffer on a panel, window,
// terminal or browser.
package display

import (
	"errors"
	"image/color"

	"github.com/chzchzchz/iqfall/waterfall"
)

var (
	ErrNotInitialized = errors.New("display not initialized")
	// ErrClosed is returned once the user closes an interactive display.
	ErrClosed = errors.New("display closed")
	ErrSize   = errors.New("framebuffer does not fit display")
)

type Orientation int

const (
	// Landscape puts the long side horizontal; frame width runs along it.
	Landscape Orientation = iota
	Portrait
)

func (o Orientation) String() string {
	if o == Portrait {
		return "portrait"
	}
	return "landscape"
}

// Display is the render side of the pipeline. DisplayRotated treats the
// buffer row seam as the newest row and draws it on top, followed by the
// older rows in storage order, wrapping at the bottom of the buffer.
type Display interface {
	Init(o Orientation) error
	Clear(c waterfall.Color) error
	DisplayFull(fb *waterfall.Framebuffer) error
	DisplayRotated(fb *waterfall.Framebuffer, seam int) error
	Close() error
}

func RGBA(c waterfall.Color) color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func checkSeam(fb *waterfall.Framebuffer, seam int) error {
	if seam < 0 || seam >= fb.Height() {
		return waterfall.ErrRowOffset
	}
	return nil
}
