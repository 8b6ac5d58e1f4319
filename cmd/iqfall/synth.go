package main

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chzchzchz/iqfall/iqfall"
	"github.com/chzchzchz/iqfall/radio"
	"github.com/chzchzchz/iqfall/radio/wav"
)

var (
	synthBin    float64
	synthAmp    float64
	synthNoise  float64
	synthDrift  float64
	synthFrames int
)

func addFlagSynth(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&synthBin, "bin", "b", iqfall.Width/4, "Tone frequency in bins")
	cmd.Flags().Float64VarP(&synthAmp, "amp", "A", 0.5, "Tone amplitude of full scale")
	cmd.Flags().Float64VarP(&synthNoise, "noise", "N", 0.02, "Noise deviation of full scale")
	cmd.Flags().Float64VarP(&synthDrift, "drift", "D", 0, "Tone drift in bins per frame")
	cmd.Flags().IntVarP(&synthFrames, "frames", "n", 1000, "Frames to write")
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" || path == "-.wav" || path == "-.iq8" {
		return os.Stdout, nil
	}
	return os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
}

func synthCmd(out string) {
	o, err := radio.ParseChannelOrder(orderName)
	if err != nil {
		panic(err)
	}
	f, err := openOutput(out)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	var w io.Writer = f
	if strings.HasSuffix(out, ".wav") {
		ww, err := wav.NewWriter(f, int(flagBand.Width), 8, 2)
		if err != nil {
			panic(err)
		}
		defer ww.Close()
		w = ww
	}

	s := radio.NewSynth(synthBin, synthAmp)
	s.Noise, s.Drift = synthNoise, synthDrift
	iqw := radio.NewIQWriter(w, o)
	for i := 0; i < synthFrames; i++ {
		if err := iqw.Write64(s.Next(bins)); err != nil {
			panic(err)
		}
	}
	log.Printf("wrote %d frames of %d samples to %s", synthFrames, bins, out)
}
