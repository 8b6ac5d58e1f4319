// Package iqfall runs the capture to render loop of the waterfall.
package iqfall

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/chzchzchz/iqfall/display"
	"github.com/chzchzchz/iqfall/dsp"
	"github.com/chzchzchz/iqfall/radio"
	"github.com/chzchzchz/iqfall/waterfall"
)

// Stats counts what the driver has seen so far.
type Stats struct {
	Frames   int
	Timeouts int
	Faults   int
	// PeakBin and PeakPower describe the last rendered frame.
	PeakBin   int
	PeakPower float32
	// FrameTime is the mean time per rendered frame since the last log.
	FrameTime time.Duration
}

// Driver sequences one capture, transform and render per iteration. It owns
// the capture buffer, the framebuffer and the row offset.
type Driver struct {
	cfg    Config
	acq    *radio.Acquirer
	pre    *dsp.Preprocessor
	plan   dsp.Plan
	mapper *waterfall.Mapper
	fb     *waterfall.Framebuffer
	disp   display.Display
	offset *waterfall.RowOffset

	stats    Stats
	lastLog  time.Time
	logCount int

	closeOnce sync.Once
	closeErr  error
}

// NewDriver builds the pipeline. The plan is created here, once, for the
// configured width and released by Close.
func NewDriver(cfg Config, s radio.Sampler, d display.Display, t *waterfall.ColorTable) (*Driver, error) {
	fb, err := waterfall.NewFramebuffer(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	plan, err := dsp.NewPlan(cfg.Width)
	if err != nil {
		return nil, fmt.Errorf("fft plan: %w", err)
	}
	acq := radio.NewAcquirer(s, cfg.Width)
	acq.Timeout = cfg.Timeout
	return &Driver{
		cfg:    cfg,
		acq:    acq,
		pre:    dsp.NewPreprocessor(cfg.Width, cfg.Order),
		plan:   plan,
		mapper: waterfall.NewMapper(t, cfg.Width),
		fb:     fb,
		disp:   d,
		offset: waterfall.NewRowOffset(cfg.Height),
	}, nil
}

func (d *Driver) Framebuffer() *waterfall.Framebuffer { return d.fb }
func (d *Driver) Offset() int                         { return d.offset.Value() }
func (d *Driver) Stats() Stats                        { return d.stats }

// Step runs one iteration. A capture that times out or faults leaves the
// framebuffer and offset untouched; otherwise exactly one row is written,
// rendered with its buffer row as the seam, and the offset advances.
func (d *Driver) Step(ctx context.Context) error {
	buf, err := d.acq.Capture(ctx)
	if err != nil {
		var fe *radio.FaultError
		switch {
		case err == radio.ErrCaptureTimeout:
			d.stats.Timeouts++
		case errors.As(err, &fe):
			d.stats.Faults++
		}
		return err
	}
	in, err := d.pre.Preprocess(buf)
	if err != nil {
		return err
	}
	spectrum, err := d.plan.Transform(in)
	if err != nil {
		return err
	}
	row, err := d.mapper.Colorize(spectrum)
	if err != nil {
		return err
	}
	seam, err := d.fb.WriteRow(row, d.offset.Value())
	if err != nil {
		return err
	}
	d.stats.PeakBin, d.stats.PeakPower = dsp.PeakBin(spectrum)
	if err := d.disp.DisplayRotated(d.fb, seam); err != nil {
		return err
	}
	d.offset.Advance()
	d.stats.Frames++
	return nil
}

// endOfInput reports whether err means the source has no more frames.
func endOfInput(err error) bool {
	return err == io.EOF || errors.Is(err, radio.ErrShortCapture)
}

// Run steps until the frame limit, the end of input, a closed display or
// the context ends. Timeouts are logged and retried. Ending the context
// closes the sampler so a blocked capture returns.
func (d *Driver) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { d.closeSampler() })
	defer stop()
	d.lastLog = time.Now()
	for d.cfg.Frames == 0 || d.stats.Frames < d.cfg.Frames {
		err := d.Step(ctx)
		switch {
		case err == nil:
			d.logFrame()
			continue
		case err == radio.ErrCaptureTimeout:
			if d.stats.Timeouts == 1 || d.stats.Timeouts%100 == 0 {
				log.Printf("capture timed out (%d so far)", d.stats.Timeouts)
			}
			continue
		case endOfInput(err):
			log.Printf("end of input after %d frames", d.stats.Frames)
			return nil
		case errors.Is(err, display.ErrClosed):
			return nil
		}
		return err
	}
	return nil
}

func (d *Driver) logFrame() {
	if d.cfg.LogEvery <= 0 {
		return
	}
	if d.logCount++; d.logCount < d.cfg.LogEvery {
		return
	}
	now := time.Now()
	d.stats.FrameTime = now.Sub(d.lastLog) / time.Duration(d.logCount)
	d.lastLog, d.logCount = now, 0
	hz := d.cfg.Band.BinCenterHz(d.stats.PeakBin, d.cfg.Width)
	log.Printf("frame %d: peak bin %d (%.0f Hz) power %.4g, %v/frame",
		d.stats.Frames, d.stats.PeakBin, hz, d.stats.PeakPower, d.stats.FrameTime)
}

func (d *Driver) closeSampler() error {
	d.closeOnce.Do(func() { d.closeErr = d.acq.Close() })
	return d.closeErr
}

func (d *Driver) Close() error {
	return errors.Join(d.plan.Close(), d.closeSampler())
}
