package display

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/chzchzchz/iqfall/waterfall"
)

func fill(t *testing.T, w, h int) (*waterfall.Framebuffer, int) {
	fb, err := waterfall.NewFramebuffer(w, h)
	if err != nil {
		t.Fatal(err)
	}
	o := waterfall.NewRowOffset(h)
	seam := 0
	row := make([]waterfall.Color, w)
	for i := 0; i < h+2; i++ {
		for j := range row {
			row[j] = waterfall.Color{byte(i), byte(j)}
		}
		if seam, err = fb.WriteRow(row, o.Value()); err != nil {
			t.Fatal(err)
		}
		o.Advance()
	}
	return fb, seam
}

func TestMemoryNotInitialized(t *testing.T) {
	m := NewMemory(4, 4)
	if err := m.Clear(waterfall.White); err != ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	fb, _ := waterfall.NewFramebuffer(4, 4)
	if err := m.DisplayRotated(fb, 0); err != ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory(3, 2)
	if err := m.Init(Landscape); err != nil {
		t.Fatal(err)
	}
	if err := m.Clear(waterfall.White); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 2; y++ {
		if !m.Uniform(y, waterfall.White) {
			t.Fatalf("row %d not white: %v", y, m.Row(y))
		}
	}
}

func TestMemoryRotatedNewestOnTop(t *testing.T) {
	const w, h = 3, 5
	fb, seam := fill(t, w, h)
	m := NewMemory(w, h)
	m.Init(Landscape)
	if err := m.DisplayRotated(fb, seam); err != nil {
		t.Fatal(err)
	}
	// Seven frames into five rows: newest is frame 6, then 5, 4, 3, 2.
	for y := 0; y < h; y++ {
		want := byte(h + 1 - y)
		if got := m.Row(y)[0]; got != want {
			t.Errorf("row %d shows frame %d, want %d", y, got, want)
		}
	}
	if m.Seam != seam || m.Renders != 1 {
		t.Fatalf("seam %d renders %d", m.Seam, m.Renders)
	}
	if err := m.DisplayRotated(fb, h); err != waterfall.ErrRowOffset {
		t.Fatalf("bad seam: %v", err)
	}
}

func TestMemoryFull(t *testing.T) {
	fb, _ := fill(t, 2, 3)
	m := NewMemory(2, 3)
	m.Init(Landscape)
	if err := m.DisplayFull(fb); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(m.Frame, fb.Buffer()) {
		t.Fatal("full render should copy storage order")
	}
	small, _ := waterfall.NewFramebuffer(1, 3)
	if err := m.DisplayFull(small); err != ErrSize {
		t.Fatalf("expected ErrSize, got %v", err)
	}
}

func TestTerminal(t *testing.T) {
	fb, seam := fill(t, 4, 5)
	var out bytes.Buffer
	term := NewTerminal(&out)
	if err := term.DisplayRotated(fb, seam); err != ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := term.Init(Landscape); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := term.DisplayRotated(fb, seam); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	// Five pixel rows take three text lines.
	if n := bytes.Count(out.Bytes(), []byte("\n")); n != 3 {
		t.Fatalf("expected 3 lines, got %d in %q", n, s)
	}
	if n := bytes.Count(out.Bytes(), []byte(upperHalf)); n != 12 {
		t.Fatalf("expected 12 cells, got %d", n)
	}
}

func TestSnapshotJPEG(t *testing.T) {
	fb, seam := fill(t, 16, 8)
	s := NewSnapshot(t.TempDir()+"/out.jpg", 16, 8)
	s.Init(Landscape)
	if err := s.DisplayRotated(fb, seam); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	cfg, err := jpeg.DecodeConfig(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 16 || cfg.Height != 8 {
		t.Fatalf("got %dx%d", cfg.Width, cfg.Height)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestImage(t *testing.T) {
	img := Image([]byte{0xf8, 0x00, 0x00, 0x1f}, 2, 1)
	if c := img.NRGBAAt(0, 0); c.R != 0xff || c.G != 0 || c.B != 0 {
		t.Fatalf("red pixel %v", c)
	}
	if c := img.NRGBAAt(1, 0); c.B != 0xff || c.R != 0 {
		t.Fatalf("blue pixel %v", c)
	}
}
