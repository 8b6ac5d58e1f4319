package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/chzchzchz/iqfall/display"
	"github.com/chzchzchz/iqfall/iqfall"
	"github.com/chzchzchz/iqfall/radio"
	"github.com/chzchzchz/iqfall/waterfall"
)

var (
	flagBand    radio.HzBand
	bins        int
	rows        int
	runFrames   int
	snapFrames  int
	logEvery    int
	orderName   string
	timeout     time.Duration
	splashHold  time.Duration
	displayName string
	httpAddr    string
	scale       int
)

var rootCmd = &cobra.Command{
	Use:   "iqfall",
	Short: "A real-time I/Q spectral waterfall.",
}

func addFlagBand(cmd *cobra.Command) {
	cmd.Flags().Uint64VarP(&flagBand.Center, "center-hz", "c", 0, "Center frequency in Hz")
	cmd.Flags().Uint64VarP(&flagBand.Width, "sample-rate", "s", 2048000, "Sample rate in Hz")
}

func addFlagPipeline(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&bins, "width", "w", iqfall.Width, "FFT bins / waterfall width")
	cmd.Flags().IntVarP(&rows, "rows", "r", iqfall.Height, "Waterfall rows")
	cmd.Flags().StringVarP(&orderName, "order", "o", "qi", "Byte order of sample pairs (qi or iq)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "Capture timeout, 0 waits forever")
}

func init() {
	runCmd := &cobra.Command{
		Use:   "run [flags] [input.iq8|input.wav|rtltcp://host:port|rtlsdr://serial|dev:///path|synth://]",
		Short: "Stream a waterfall to a display",
		Args:  cobra.MaximumNArgs(1),
		Run:   func(cmd *cobra.Command, args []string) { runCmd(args) },
	}
	addFlagBand(runCmd)
	addFlagPipeline(runCmd)
	runCmd.Flags().IntVarP(&runFrames, "frames", "n", 0, "Stop after this many frames, 0 runs forever")
	runCmd.Flags().IntVarP(&logEvery, "log-every", "l", 100, "Log a summary every this many frames")
	runCmd.Flags().StringVarP(&displayName, "display", "d", "terminal", "Display: "+displayNames())
	runCmd.Flags().StringVarP(&httpAddr, "addr", "a", "localhost:8080", "Listen address for the web display")
	runCmd.Flags().IntVarP(&scale, "scale", "x", 4, "Window scale for the sdl display")
	runCmd.Flags().DurationVar(&splashHold, "splash", iqfall.SplashHold, "How long to show the startup image")
	rootCmd.AddCommand(runCmd)

	snapCmd := &cobra.Command{
		Use:   "snapshot [flags] input out.jpg",
		Short: "Write the waterfall after a number of frames as a jpeg",
		Args:  cobra.ExactArgs(2),
		Run:   func(cmd *cobra.Command, args []string) { snapshotCmd(args[0], args[1]) },
	}
	addFlagBand(snapCmd)
	addFlagPipeline(snapCmd)
	snapCmd.Flags().IntVarP(&snapFrames, "frames", "n", iqfall.Height, "Frames to capture")
	rootCmd.AddCommand(snapCmd)

	synthCmd := &cobra.Command{
		Use:   "synth [flags] out.iq8|out.wav",
		Short: "Write a synthetic tone as u8 I/Q",
		Args:  cobra.ExactArgs(1),
		Run:   func(cmd *cobra.Command, args []string) { synthCmd(args[0]) },
	}
	addFlagBand(synthCmd)
	addFlagPipeline(synthCmd)
	addFlagSynth(synthCmd)
	rootCmd.AddCommand(synthCmd)
}

func pipelineConfig(band radio.HzBand, frames int) iqfall.Config {
	o, err := radio.ParseChannelOrder(orderName)
	if err != nil {
		panic(err)
	}
	cfg := iqfall.DefaultConfig()
	cfg.Width, cfg.Height = bins, rows
	cfg.Order, cfg.Timeout = o, timeout
	cfg.Frames, cfg.LogEvery = frames, logEvery
	cfg.Band = band
	return cfg
}

func openSource(ctx context.Context, args []string) *iqfall.Source {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	o, err := radio.ParseChannelOrder(orderName)
	if err != nil {
		panic(err)
	}
	src, err := iqfall.OpenSource(ctx, path, flagBand, o)
	if err != nil {
		panic(err)
	}
	log.Printf("opened %s: %s, %s order", path, iqfall.BandLabel(src.Band), src.Order)
	return src
}

func runCmd(args []string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	src := openSource(ctx, args)
	cfg := pipelineConfig(src.Band, runFrames)
	cfg.Order = src.Order
	title := "iqfall @ " + iqfall.BandLabel(src.Band)
	disp, closer, err := openDisplay(displayName, cfg.Width, cfg.Height, title)
	if err != nil {
		panic(err)
	}
	defer closer()

	tab := waterfall.RainbowTable()
	splash, err := iqfall.Splash(cfg.Width, cfg.Height, tab)
	if err != nil {
		panic(err)
	}
	if err := iqfall.Startup(ctx, disp, display.Landscape, splash, splashHold); err != nil {
		panic(err)
	}
	defer disp.Close()

	d, err := iqfall.NewDriver(cfg, src, disp, tab)
	if err != nil {
		panic(err)
	}
	defer d.Close()
	if err := d.Run(ctx); err != nil && err != context.Canceled {
		log.Println("stopped:", err)
	}
	st := d.Stats()
	log.Printf("%d frames, %d timeouts, %d faults", st.Frames, st.Timeouts, st.Faults)
}

func snapshotCmd(in, out string) {
	ctx := context.Background()
	src := openSource(ctx, []string{in})
	cfg := pipelineConfig(src.Band, snapFrames)
	cfg.Order, cfg.LogEvery = src.Order, 0
	snap := display.NewSnapshot(out, cfg.Width, cfg.Height)
	if err := iqfall.Startup(ctx, snap, display.Landscape, nil, 0); err != nil {
		panic(err)
	}
	d, err := iqfall.NewDriver(cfg, src, snap, waterfall.RainbowTable())
	if err != nil {
		panic(err)
	}
	defer d.Close()
	if err := d.Run(ctx); err != nil {
		panic(err)
	}
	if err := snap.Close(); err != nil {
		panic(err)
	}
	fmt.Printf("wrote %d frames to %s\n", d.Stats().Frames, out)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
