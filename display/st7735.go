//go:build tinygo

package display

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/st7735"

	"github.com/chzchzchz/iqfall/waterfall"
)

// ST7735 pushes the framebuffer to an 80x160 ST7735 panel over SPI.
type ST7735 struct {
	dev   *st7735.Device
	w, h  int16
	ready bool
}

// NewST7735 wraps a panel whose SPI bus is already configured.
func NewST7735(dev *st7735.Device) *ST7735 {
	return &ST7735{dev: dev}
}

func (d *ST7735) Init(o Orientation) error {
	rot := drivers.Rotation90
	if o == Portrait {
		rot = drivers.Rotation0
	}
	d.dev.Configure(st7735.Config{
		Model:    st7735.MINI80x160,
		Rotation: rot,
	})
	d.dev.IsBGR(false)
	d.dev.InvertColors(true)
	d.w, d.h = d.dev.Size()
	d.ready = true
	return nil
}

func (d *ST7735) Clear(c waterfall.Color) error {
	if !d.ready {
		return ErrNotInitialized
	}
	d.dev.FillScreen(RGBA(c))
	return nil
}

func (d *ST7735) fits(fb *waterfall.Framebuffer) error {
	if !d.ready {
		return ErrNotInitialized
	}
	if int16(fb.Width()) > d.w || int16(fb.Height()) > d.h {
		return ErrSize
	}
	return nil
}

func (d *ST7735) DisplayFull(fb *waterfall.Framebuffer) error {
	if err := d.fits(fb); err != nil {
		return err
	}
	return d.dev.DrawRGBBitmap8(0, 0, fb.Buffer(), int16(fb.Width()), int16(fb.Height()))
}

func (d *ST7735) DisplayRotated(fb *waterfall.Framebuffer, seam int) error {
	if err := d.fits(fb); err != nil {
		return err
	}
	if err := checkSeam(fb, seam); err != nil {
		return err
	}
	w, h := int16(fb.Width()), int16(fb.Height())
	stride := fb.Width() * waterfall.BytesPerPixel
	buf, s := fb.Buffer(), int16(seam)
	if err := d.dev.DrawRGBBitmap8(0, 0, buf[seam*stride:], w, h-s); err != nil {
		return err
	}
	if s == 0 {
		return nil
	}
	return d.dev.DrawRGBBitmap8(0, h-s, buf[:seam*stride], w, s)
}

func (d *ST7735) Close() error {
	d.ready = false
	return nil
}
