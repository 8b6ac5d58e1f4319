package display

import (
	"bytes"

	"github.com/chzchzchz/iqfall/waterfall"
)

// Memory keeps the last presented image in a byte slice. It stands in for
// a panel in tests and headless runs.
type Memory struct {
	W, H        int
	Orientation Orientation
	// Frame is the presented image, rows top to bottom.
	Frame []byte
	// Seam is the seam of the last rotated render, or -1 for a full one.
	Seam    int
	Renders int

	ready bool
}

func NewMemory(w, h int) *Memory {
	return &Memory{W: w, H: h, Seam: -1}
}

func (m *Memory) Init(o Orientation) error {
	m.Orientation = o
	m.Frame = make([]byte, m.W*m.H*waterfall.BytesPerPixel)
	m.ready = true
	return nil
}

func (m *Memory) Clear(c waterfall.Color) error {
	if !m.ready {
		return ErrNotInitialized
	}
	for i := 0; i < len(m.Frame); i += waterfall.BytesPerPixel {
		m.Frame[i], m.Frame[i+1] = c[0], c[1]
	}
	return nil
}

func (m *Memory) fits(fb *waterfall.Framebuffer) error {
	if !m.ready {
		return ErrNotInitialized
	}
	if fb.Width() != m.W || fb.Height() != m.H {
		return ErrSize
	}
	return nil
}

func (m *Memory) DisplayFull(fb *waterfall.Framebuffer) error {
	if err := m.fits(fb); err != nil {
		return err
	}
	copy(m.Frame, fb.Buffer())
	m.Seam = -1
	m.Renders++
	return nil
}

func (m *Memory) DisplayRotated(fb *waterfall.Framebuffer, seam int) error {
	if err := m.fits(fb); err != nil {
		return err
	}
	if err := checkSeam(fb, seam); err != nil {
		return err
	}
	m.Frame = waterfall.Rotate(m.Frame, fb.Buffer(), m.W*waterfall.BytesPerPixel, seam)
	m.Seam = seam
	m.Renders++
	return nil
}

// Row is presented row y.
func (m *Memory) Row(y int) []byte {
	stride := m.W * waterfall.BytesPerPixel
	return m.Frame[y*stride : (y+1)*stride]
}

// Uniform reports whether every pixel of presented row y is c.
func (m *Memory) Uniform(y int, c waterfall.Color) bool {
	return bytes.Equal(m.Row(y), bytes.Repeat(c[:], m.W))
}

func (m *Memory) Close() error {
	m.ready = false
	return nil
}
