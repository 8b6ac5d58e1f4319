package display

import (
	"image"
	"image/jpeg"
	"io"
	"os"

	"github.com/chzchzchz/iqfall/waterfall"
)

// Image converts a presented RGB565 image to NRGBA.
func Image(img []byte, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := (y*w + x) * waterfall.BytesPerPixel
			c := RGBA(waterfall.Color{img[a], img[a+1]})
			o := out.PixOffset(x, y)
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = c.R, c.G, c.B, 0xff
		}
	}
	return out
}

// Snapshot keeps the latest render and encodes it as a jpeg on Close.
type Snapshot struct {
	Memory
	path string
	// Quality is the jpeg quality; zero uses the encoder default.
	Quality int
}

func NewSnapshot(path string, w, h int) *Snapshot {
	return &Snapshot{Memory: *NewMemory(w, h), path: path}
}

func (s *Snapshot) Encode(w io.Writer) error {
	if !s.ready {
		return ErrNotInitialized
	}
	var opts *jpeg.Options
	if s.Quality > 0 {
		opts = &jpeg.Options{Quality: s.Quality}
	}
	return jpeg.Encode(w, Image(s.Frame, s.W, s.H), opts)
}

func (s *Snapshot) Close() error {
	if !s.ready {
		return nil
	}
	outf, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer outf.Close()
	if err := s.Encode(outf); err != nil {
		return err
	}
	return s.Memory.Close()
}
