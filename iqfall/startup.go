package iqfall

import (
	"context"
	"fmt"
	"time"

	"github.com/chzchzchz/iqfall/display"
	"github.com/chzchzchz/iqfall/waterfall"
)

// Startup brings the display up, clears it to white and shows splash full
// screen for hold. A display that fails to come up stops startup.
func Startup(ctx context.Context, d display.Display, o display.Orientation, splash *waterfall.Framebuffer, hold time.Duration) error {
	if err := d.Init(o); err != nil {
		return fmt.Errorf("display init: %w", err)
	}
	if err := d.Clear(waterfall.White); err != nil {
		return fmt.Errorf("display clear: %w", err)
	}
	if splash != nil {
		if err := d.DisplayFull(splash); err != nil {
			return fmt.Errorf("splash: %w", err)
		}
	}
	if hold <= 0 {
		return nil
	}
	select {
	case <-time.After(hold):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Splash is the startup image: the color table as a left to right ramp.
func Splash(w, h int, t *waterfall.ColorTable) (*waterfall.Framebuffer, error) {
	fb, err := waterfall.NewFramebuffer(w, h)
	if err != nil {
		return nil, err
	}
	fb.DrawRamp(t)
	return fb, nil
}
