//go:build tinygo && rp2040

// Command iqfall-pico is the panel firmware: ADC0 (GP26) carries Q and
// ADC1 (GP27) carries I, sampled in round-robin and drawn on a 160x80
// ST7735.
package main

import (
	"context"
	"machine"

	"tinygo.org/x/drivers/st7735"

	"github.com/chzchzchz/iqfall/display"
	"github.com/chzchzchz/iqfall/iqfall"
	"github.com/chzchzchz/iqfall/radio"
	"github.com/chzchzchz/iqfall/waterfall"
)

// Panel wiring.
const (
	lcdSPIFreq = 40_000_000
	lcdSCK     = machine.GP10
	lcdSDO     = machine.GP11
	lcdDC      = machine.GP8
	lcdCS      = machine.GP9
	lcdRST     = machine.GP12
	lcdBL      = machine.GP13

	adcDMAChannel = 0
)

func halt(msg string, err error) {
	println(msg, err.Error())
	for {
	}
}

func main() {
	ctx := context.Background()

	machine.SPI1.Configure(machine.SPIConfig{
		Frequency: lcdSPIFreq,
		SCK:       lcdSCK,
		SDO:       lcdSDO,
		Mode:      0,
	})
	panel := st7735.New(machine.SPI1, lcdRST, lcdDC, lcdCS, lcdBL)
	disp := display.NewST7735(&panel)

	tab := waterfall.RainbowTable()
	splash, err := iqfall.Splash(iqfall.Width, iqfall.Height, tab)
	if err != nil {
		halt("splash:", err)
	}
	if err := iqfall.Startup(ctx, disp, display.Landscape, splash, iqfall.SplashHold); err != nil {
		halt("startup:", err)
	}

	s, err := radio.NewRP2040Sampler(iqfall.ClockDiv, machine.ADC0, machine.ADC1, adcDMAChannel)
	if err != nil {
		halt("adc:", err)
	}
	cfg := iqfall.DefaultConfig()
	cfg.Order = radio.OrderQI
	d, err := iqfall.NewDriver(cfg, s, disp, tab)
	if err != nil {
		halt("framebuffer:", err)
	}
	println("iqfall", iqfall.Width, "bins,", cfg.Band.Width, "Hz")
	for {
		if err := d.Step(ctx); err != nil {
			println("frame:", err.Error())
		}
	}
}
