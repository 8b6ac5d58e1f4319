package iqfall

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/chzchzchz/iqfall/display"
	"github.com/chzchzchz/iqfall/radio"
	"github.com/chzchzchz/iqfall/waterfall"
)

func testConfig(w, h, frames int) Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Frames, cfg.LogEvery = w, h, frames, 0
	return cfg
}

func TestDriverToneColumn(t *testing.T) {
	const w, h = 32, 8
	s := radio.NewSynth(5, 0.5)
	mem := display.NewMemory(w, h)
	mem.Init(display.Landscape)
	d, err := NewDriver(testConfig(w, h, 3), s, mem, waterfall.RainbowTable())
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if err := d.Run(context.TODO()); err != nil {
		t.Fatal(err)
	}
	st := d.Stats()
	if st.Frames != 3 || mem.Renders != 3 {
		t.Fatalf("frames %d renders %d", st.Frames, mem.Renders)
	}
	if st.PeakBin != 5 {
		t.Fatalf("peak bin %d, want 5", st.PeakBin)
	}
	if d.Offset() != 3 {
		t.Fatalf("offset %d, want 3", d.Offset())
	}
	// Third frame went to buffer row h-1-2 and is shown on top.
	if mem.Seam != h-3 {
		t.Fatalf("seam %d", mem.Seam)
	}
}

func TestDriverFlatInput(t *testing.T) {
	const w, h = 16, 4
	in := bytes.Repeat([]byte{128}, 2*w*6)
	mem := display.NewMemory(w, h)
	mem.Init(display.Landscape)
	tab := waterfall.RainbowTable()
	d, err := NewDriver(testConfig(w, h, 0), radio.NewStreamSampler(bytes.NewReader(in)), mem, tab)
	if err != nil {
		t.Fatal(err)
	}
	// Six frames then end of input.
	if err := d.Run(context.TODO()); err != nil {
		t.Fatal(err)
	}
	if d.Stats().Frames != 6 {
		t.Fatalf("frames %d", d.Stats().Frames)
	}
	if d.Offset() != 6%h {
		t.Fatalf("offset %d", d.Offset())
	}
	for y := 0; y < h; y++ {
		if !mem.Uniform(y, tab[0]) {
			t.Fatalf("row %d is not table[0]: %v", y, mem.Row(y))
		}
	}
}

func TestDriverShortTail(t *testing.T) {
	const w, h = 8, 4
	in := append(bytes.Repeat([]byte{100}, 2*w), 1, 2, 3)
	mem := display.NewMemory(w, h)
	mem.Init(display.Landscape)
	d, _ := NewDriver(testConfig(w, h, 0), radio.NewStreamSampler(bytes.NewReader(in)), mem, waterfall.RainbowTable())
	if err := d.Run(context.TODO()); err != nil {
		t.Fatalf("partial last frame should end the run cleanly: %v", err)
	}
	st := d.Stats()
	if st.Frames != 1 || st.Faults != 1 {
		t.Fatalf("frames %d faults %d", st.Frames, st.Faults)
	}
}

type scriptSampler struct {
	errs []error
	n    int
}

func (s *scriptSampler) CaptureBlocking(ctx context.Context, dst []byte) error {
	if s.n >= len(s.errs) {
		return context.Canceled
	}
	err := s.errs[s.n]
	s.n++
	for i := range dst {
		dst[i] = 128
	}
	return err
}

func (s *scriptSampler) Close() error { return nil }

func TestDriverTimeoutLeavesFrame(t *testing.T) {
	const w, h = 8, 4
	s := &scriptSampler{errs: []error{nil, radio.ErrCaptureTimeout, radio.ErrCaptureTimeout, nil}}
	mem := display.NewMemory(w, h)
	mem.Init(display.Landscape)
	d, _ := NewDriver(testConfig(w, h, 2), s, mem, waterfall.RainbowTable())
	if err := d.Run(context.TODO()); err != nil {
		t.Fatal(err)
	}
	st := d.Stats()
	if st.Frames != 2 || st.Timeouts != 2 || mem.Renders != 2 {
		t.Fatalf("frames %d timeouts %d renders %d", st.Frames, st.Timeouts, mem.Renders)
	}
	if d.Offset() != 2 {
		t.Fatalf("offset %d", d.Offset())
	}
}

func TestDriverFaultStops(t *testing.T) {
	const w, h = 8, 4
	bus := errors.New("bus error")
	s := &scriptSampler{errs: []error{nil, &radio.FaultError{Bytes: 3, Err: bus}}}
	mem := display.NewMemory(w, h)
	mem.Init(display.Landscape)
	d, _ := NewDriver(testConfig(w, h, 0), s, mem, waterfall.RainbowTable())
	err := d.Run(context.TODO())
	if !errors.Is(err, bus) {
		t.Fatalf("expected bus fault, got %v", err)
	}
	if d.Offset() != 1 || d.Stats().Faults != 1 {
		t.Fatalf("offset %d faults %d", d.Offset(), d.Stats().Faults)
	}
}

type closedDisplay struct{ *display.Memory }

func (closedDisplay) DisplayRotated(*waterfall.Framebuffer, int) error { return display.ErrClosed }

func TestDriverDisplayClosed(t *testing.T) {
	d, _ := NewDriver(testConfig(8, 4, 0), radio.NewSynth(1, 0.5), closedDisplay{display.NewMemory(8, 4)}, waterfall.RainbowTable())
	if err := d.Run(context.TODO()); err != nil {
		t.Fatal(err)
	}
}

func TestDriverOffsetWrapsWithDisplay(t *testing.T) {
	const w, h = 8, 5
	mem := display.NewMemory(w, h)
	mem.Init(display.Landscape)
	d, _ := NewDriver(testConfig(w, h, 2*h), radio.NewSynth(2, 0.3), mem, waterfall.RainbowTable())
	seen := make(map[int]int)
	for i := 0; i < 2*h; i++ {
		seen[d.Offset()]++
		if err := d.Step(context.TODO()); err != nil {
			t.Fatal(err)
		}
		if want := waterfall.VisualRowFor(h, i%h); mem.Seam != want {
			t.Fatalf("step %d: seam %d, want %d", i, mem.Seam, want)
		}
	}
	for off := 0; off < h; off++ {
		if seen[off] != 2 {
			t.Fatalf("offset %d visited %d times", off, seen[off])
		}
	}
}

func TestDriverCancelUnblocksCapture(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	mem := display.NewMemory(8, 4)
	mem.Init(display.Landscape)
	d, _ := NewDriver(testConfig(8, 4, 0), radio.NewStreamSampler(r), mem, waterfall.RainbowTable())
	defer d.Close()

	ctx, cancel := context.WithCancel(context.TODO())
	errc := make(chan error, 1)
	go func() { errc <- d.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errc:
		if err != context.Canceled {
			t.Fatalf("expected canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run still blocked after cancel")
	}
}

type closingSampler struct {
	scriptSampler
	closes int
	err    error
}

func (s *closingSampler) Close() error {
	s.closes++
	return s.err
}

func TestDriverCloseReportsSampler(t *testing.T) {
	gone := errors.New("device gone")
	s := &closingSampler{err: gone}
	d, _ := NewDriver(testConfig(8, 4, 0), s, display.NewMemory(8, 4), waterfall.RainbowTable())
	ctx, cancel := context.WithCancel(context.TODO())
	cancel()
	d.Run(ctx)
	if err := d.Close(); !errors.Is(err, gone) {
		t.Fatalf("expected close error, got %v", err)
	}
	if s.closes != 1 {
		t.Fatalf("sampler closed %d times", s.closes)
	}
}
