package waterfall

import (
	"github.com/chzchzchz/iqfall/dsp"
	"github.com/lucasb-eyer/go-colorful"
)

// Color is one RGB565 pixel in panel byte order, high byte first.
type Color [2]byte

func RGB565(r, g, b uint8) Color {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	p := (rr << 11) | (gg << 5) | bb
	return Color{byte(p >> 8), byte(p)}
}

func (c Color) RGB() (r, g, b uint8) {
	p := uint16(c[0])<<8 | uint16(c[1])
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F
	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

var (
	White = RGB565(0xff, 0xff, 0xff)
	Black = RGB565(0, 0, 0)
)

// ColorTable maps a power index to a pixel.
type ColorTable [256]Color

// Lookup is the pixel for a raw bin power.
func (t *ColorTable) Lookup(power float32) Color { return t[dsp.ColorIndex(power)] }

// RainbowTable sweeps hue from blue to red while brightening, so weak bins
// are dark blue and strong bins bright red.
func RainbowTable() *ColorTable {
	var t ColorTable
	for i := range t {
		f := float64(i) / float64(len(t)-1)
		c := colorful.Hsv(240*(1-f), 1, 0.25+0.75*f)
		t[i] = RGB565(c.Clamped().RGB255())
	}
	return &t
}

// Mapper turns a spectrum into one row of pixels.
type Mapper struct {
	table *ColorTable
	row   []Color
}

func NewMapper(t *ColorTable, bins int) *Mapper {
	return &Mapper{table: t, row: make([]Color, bins)}
}

// Colorize maps each bin through power, the truncating color index and the
// table. The returned row is reused by the next call.
func (m *Mapper) Colorize(spectrum []complex64) ([]Color, error) {
	if len(spectrum) != len(m.row) {
		return nil, ErrRowWidth
	}
	for i, v := range spectrum {
		m.row[i] = m.table.Lookup(dsp.Power(v))
	}
	return m.row, nil
}
