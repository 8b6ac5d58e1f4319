package iqfall

import (
	"fmt"
	"time"

	"github.com/chzchzchz/iqfall/radio"
	"github.com/chzchzchz/iqfall/waterfall"
)

// Fixed build parameters of the panel firmware.
const (
	// Width is the number of FFT bins, one per display column.
	Width = 160
	// Height is the number of waterfall rows kept.
	Height = 80
	// ClockDiv is the ADC clock divider; 48MHz/(ClockDiv+1) conversions
	// per second shared by both channels.
	ClockDiv      = 600
	BytesPerPixel = waterfall.BytesPerPixel

	SplashHold = 2 * time.Second
)

type Config struct {
	Width  int
	Height int
	Order  radio.ChannelOrder
	// Timeout bounds each capture; zero blocks until the frame arrives.
	Timeout time.Duration
	// Frames stops the driver after this many rows; zero runs forever.
	Frames int
	// LogEvery logs a summary line every LogEvery frames; zero disables it.
	LogEvery int
	// Band labels the bins in log lines.
	Band radio.HzBand
}

func DefaultConfig() Config {
	return Config{
		Width:    Width,
		Height:   Height,
		Order:    radio.OrderQI,
		LogEvery: 100,
		Band:     radio.IQBandForDivider(ClockDiv),
	}
}

// BandLabel is the band edges in MHz, for titles and log lines.
func BandLabel(b radio.HzBand) string {
	mhz := b.ToMHz()
	return fmt.Sprintf("[%0.5g,%0.5g]MHz", mhz.BeginMHz(), mhz.EndMHz())
}
