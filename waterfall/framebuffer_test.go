package waterfall

import (
	"bytes"
	"testing"
)

func TestRowOffsetWraps(t *testing.T) {
	h := 80
	o := NewRowOffset(h)
	if o.Value() != 0 {
		t.Fatalf("initial offset %d", o.Value())
	}
	for i := 1; i <= 2*h; i++ {
		v := o.Advance()
		if v != i%h {
			t.Fatalf("frame %d: got offset %d, want %d", i, v, i%h)
		}
	}
}

func TestVisualRowFor(t *testing.T) {
	tests := []struct{ h, off, row int }{
		{80, 0, 79},
		{80, 1, 78},
		{80, 79, 0},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if r := VisualRowFor(tt.h, tt.off); r != tt.row {
			t.Errorf("VisualRowFor(%d, %d) = %d, want %d", tt.h, tt.off, r, tt.row)
		}
	}
}

func TestPixelAddressInBounds(t *testing.T) {
	fb, err := NewFramebuffer(160, 80)
	if err != nil {
		t.Fatal(err)
	}
	n := len(fb.Buffer())
	if n != 160*80*BytesPerPixel {
		t.Fatalf("buffer len %d", n)
	}
	seen := make(map[int]bool)
	for off := 0; off < fb.Height(); off++ {
		row := VisualRowFor(fb.Height(), off)
		for col := 0; col < fb.Width(); col++ {
			a := BytesPerPixel * fb.PixelAddress(col, row)
			if a < 0 || a+1 >= n {
				t.Fatalf("col %d offset %d: byte address %d out of range", col, off, a)
			}
			if seen[a] {
				t.Fatalf("col %d offset %d: address %d reused", col, off, a)
			}
			seen[a] = true
		}
	}
	if len(seen) != fb.Width()*fb.Height() {
		t.Fatalf("covered %d pixels", len(seen))
	}
}

func TestWriteRow(t *testing.T) {
	fb, _ := NewFramebuffer(4, 3)
	fb.Fill(White)
	row := []Color{{1, 2}, {3, 4}, {5, 6}, {7, 8}}
	seam, err := fb.WriteRow(row, 0)
	if err != nil {
		t.Fatal(err)
	}
	if seam != 2 {
		t.Fatalf("seam %d, want 2", seam)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if got := fb.Buffer()[2*4*2:]; !bytes.Equal(got, want) {
		t.Fatalf("bottom row %v, want %v", got, want)
	}
	for i, b := range fb.Buffer()[:2*4*2] {
		if b != 0xff {
			t.Fatalf("byte %d clobbered: %x", i, b)
		}
	}
	if _, err := fb.WriteRow(row[:3], 0); err != ErrRowWidth {
		t.Fatalf("short row: %v", err)
	}
	if _, err := fb.WriteRow(row, 3); err != ErrRowOffset {
		t.Fatalf("offset past height: %v", err)
	}
	if _, err := fb.WriteRow(row, -1); err != ErrRowOffset {
		t.Fatalf("negative offset: %v", err)
	}
}

func TestWriteRowDeterministic(t *testing.T) {
	a, _ := NewFramebuffer(8, 5)
	b, _ := NewFramebuffer(8, 5)
	row := make([]Color, 8)
	for i := range row {
		row[i] = Color{byte(i), byte(3 * i)}
	}
	a.WriteRow(row, 2)
	b.WriteRow(row, 2)
	if !bytes.Equal(a.Buffer(), b.Buffer()) {
		t.Fatal("same row and offset produced different buffers")
	}
}

func TestRotateNewestOnTop(t *testing.T) {
	fb, _ := NewFramebuffer(1, 4)
	o := NewRowOffset(fb.Height())
	var seam int
	for i := 0; i < 6; i++ {
		seam, _ = fb.WriteRow([]Color{{byte(i), 0}}, o.Value())
		o.Advance()
	}
	// Frames 4 and 5 overwrote rows 3 and 2.
	got := Rotate(nil, fb.Buffer(), fb.Width()*BytesPerPixel, seam)
	want := []byte{5, 0, 4, 0, 3, 0, 2, 0}
	if !bytes.Equal(got, want) {
		t.Fatalf("rotated %v, want %v", got, want)
	}
	if !bytes.Equal(Rotate(got, fb.Buffer(), 2, 0), fb.Buffer()) {
		t.Fatal("seam 0 should be the identity")
	}
}

func TestNewFramebufferRejectsEmpty(t *testing.T) {
	if _, err := NewFramebuffer(0, 80); err == nil {
		t.Fatal("expected error for zero width")
	}
}
