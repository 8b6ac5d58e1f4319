//go:build sdl && !tinygo

package display

import (
	"encoding/binary"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/chzchzchz/iqfall/waterfall"
)

// SDL shows the waterfall in a desktop window scaled by Scale. The caller
// runs sdl.Init and sdl.Quit around it.
type SDL struct {
	Title string
	Scale int

	w, h int
	win  *sdl.Window
	r    *sdl.Renderer
	tex  *sdl.Texture
	// native is the framebuffer in host byte order.
	native []byte
}

func NewSDL(title string, w, h, scale int) *SDL {
	if scale < 1 {
		scale = 1
	}
	return &SDL{Title: title, Scale: scale, w: w, h: h}
}

func (d *SDL) Init(o Orientation) (err error) {
	ww, wh := d.w*d.Scale, d.h*d.Scale
	if o == Portrait {
		ww, wh = wh, ww
	}
	win, err := sdl.CreateWindow(
		d.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(ww),
		int32(wh),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			win.Destroy()
		}
	}()
	r, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			r.Destroy()
		}
	}()
	if err := r.SetLogicalSize(int32(d.w), int32(d.h)); err != nil {
		return err
	}
	tex, err := r.CreateTexture(
		sdl.PIXELFORMAT_RGB565, sdl.TEXTUREACCESS_STREAMING, int32(d.w), int32(d.h))
	if err != nil {
		return err
	}
	d.win, d.r, d.tex = win, r, tex
	d.native = make([]byte, d.w*d.h*waterfall.BytesPerPixel)
	return nil
}

// pollEvents reports false once the window is closed.
func (d *SDL) pollEvents() bool {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYUP && e.Keysym.Sym == sdl.K_ESCAPE {
				return false
			}
		}
	}
	return true
}

func (d *SDL) upload(fb *waterfall.Framebuffer) error {
	if fb.Width() != d.w || fb.Height() != d.h {
		return ErrSize
	}
	// Panel order is high byte first; the texture wants host order.
	buf := fb.Buffer()
	for i := 0; i < len(buf); i += 2 {
		binary.NativeEndian.PutUint16(d.native[i:], binary.BigEndian.Uint16(buf[i:]))
	}
	return d.tex.Update(nil, d.native, d.w*waterfall.BytesPerPixel)
}

func (d *SDL) present() error {
	d.r.Present()
	if !d.pollEvents() {
		return ErrClosed
	}
	return nil
}

func (d *SDL) Clear(c waterfall.Color) error {
	if d.r == nil {
		return ErrNotInitialized
	}
	r, g, b := c.RGB()
	d.r.SetDrawColor(r, g, b, 0xff)
	if err := d.r.Clear(); err != nil {
		return err
	}
	return d.present()
}

func (d *SDL) DisplayFull(fb *waterfall.Framebuffer) error {
	if d.r == nil {
		return ErrNotInitialized
	}
	if err := d.upload(fb); err != nil {
		return err
	}
	if err := d.r.Copy(d.tex, nil, nil); err != nil {
		return err
	}
	return d.present()
}

func (d *SDL) DisplayRotated(fb *waterfall.Framebuffer, seam int) error {
	if d.r == nil {
		return ErrNotInitialized
	}
	if err := checkSeam(fb, seam); err != nil {
		return err
	}
	if err := d.upload(fb); err != nil {
		return err
	}
	w, h, s := int32(d.w), int32(d.h), int32(seam)
	// Rows seam..h-1 go on top, then rows 0..seam-1.
	top := &sdl.Rect{X: 0, Y: s, W: w, H: h - s}
	if err := d.r.Copy(d.tex, top, &sdl.Rect{X: 0, Y: 0, W: w, H: h - s}); err != nil {
		return err
	}
	if s > 0 {
		bottom := &sdl.Rect{X: 0, Y: 0, W: w, H: s}
		if err := d.r.Copy(d.tex, bottom, &sdl.Rect{X: 0, Y: h - s, W: w, H: s}); err != nil {
			return err
		}
	}
	return d.present()
}

func (d *SDL) Close() error {
	if d.tex != nil {
		d.tex.Destroy()
	}
	if d.r != nil {
		d.r.Destroy()
	}
	if d.win != nil {
		d.win.Destroy()
	}
	d.tex, d.r, d.win = nil, nil, nil
	return nil
}
