//go:build !tinygo

package iqfall

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/chzchzchz/iqfall/radio"
	"github.com/chzchzchz/iqfall/radio/wav"
)

// Source is an opened sampler with the band and byte order it delivers.
type Source struct {
	radio.Sampler
	Band  radio.HzBand
	Order radio.ChannelOrder
}

// OpenSource opens a sample source by path or URL:
//
//	-, file.iq8          raw u8 pairs in the given order
//	file.wav             8-bit stereo wav; the band width is its rate
//	rtltcp://host:port   rtl_tcp server (I first), ?gain=tenths-dB&ppm=N
//	rtlsdr://serial      spawns rtl_tcp for a local dongle
//	dev:///path          character device or FIFO with bounded waits
//	synth://?bin=K&amp=A synthetic tone, also noise, drift and rate
func OpenSource(ctx context.Context, path string, b radio.HzBand, o radio.ChannelOrder) (*Source, error) {
	if u, err := url.Parse(path); err == nil && u.Scheme != "" {
		return openURL(ctx, u, b, o)
	}
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".wav") {
		r, err := wav.NewIQ8Reader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		b = radio.HzBand{Center: b.Center, Width: uint64(r.SampleRate())}
		return &Source{radio.NewStreamSampler(r), b, o}, nil
	}
	return &Source{radio.NewStreamSampler(f), b, o}, nil
}

// stdinFile keeps the read deadline of stdin but never closes it.
type stdinFile struct{ *os.File }

func (stdinFile) Close() error { return nil }

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" || path == "-.wav" || path == "-.iq8" {
		return stdinFile{os.Stdin}, nil
	}
	return os.Open(path)
}

func openURL(ctx context.Context, u *url.URL, b radio.HzBand, o radio.ChannelOrder) (*Source, error) {
	q := u.Query()
	switch u.Scheme {
	case "rtltcp":
		log.Printf("connecting to rtl_tcp at %s", u.Host)
		sdr, err := radio.DialRTLTCP(ctx, u.Host, b)
		if err != nil {
			return nil, err
		}
		if err := tune(sdr, q); err != nil {
			sdr.Close()
			return nil, err
		}
		return &Source{sdr, b, radio.OrderIQ}, nil
	case "rtlsdr":
		ser := u.Host
		if ser == "" {
			ser = "0"
		}
		sdr, err := radio.OpenRTLSDR(ctx, ser, b)
		if err != nil {
			return nil, err
		}
		if err := tune(sdr.RTLTCP, q); err != nil {
			sdr.Close()
			return nil, err
		}
		return &Source{sdr, b, radio.OrderIQ}, nil
	case "dev":
		d, err := radio.OpenDevice(u.Path)
		if err != nil {
			return nil, err
		}
		return &Source{d, b, o}, nil
	case "synth":
		return openSynth(q, b, o)
	}
	return nil, fmt.Errorf("unknown source scheme %q", u.Scheme)
}

func tune(sdr *radio.RTLTCP, q url.Values) error {
	if v := q.Get("gain"); v != "" {
		gain, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("bad gain %q: %w", v, err)
		}
		if err := sdr.SetGain(uint32(gain)); err != nil {
			return err
		}
	}
	if v := q.Get("ppm"); v != "" {
		ppm, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("bad ppm %q: %w", v, err)
		}
		if err := sdr.SetFreqCorrection(uint32(int32(ppm))); err != nil {
			return err
		}
	}
	return nil
}

func floatParam(q url.Values, k string, def float64) (float64, error) {
	v := q.Get(k)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", k, v, err)
	}
	return f, nil
}

func openSynth(q url.Values, b radio.HzBand, o radio.ChannelOrder) (*Source, error) {
	s := radio.NewSynth(0, 0.5)
	s.Order = o
	var err error
	if s.Bin, err = floatParam(q, "bin", Width/4); err != nil {
		return nil, err
	}
	if s.Amp, err = floatParam(q, "amp", s.Amp); err != nil {
		return nil, err
	}
	if s.Noise, err = floatParam(q, "noise", 0.02); err != nil {
		return nil, err
	}
	if s.Drift, err = floatParam(q, "drift", 0); err != nil {
		return nil, err
	}
	rate, err := floatParam(q, "rate", 0)
	if err != nil {
		return nil, err
	}
	s.Rate = uint32(rate)
	if s.Rate != 0 {
		b.Width = uint64(s.Rate)
	}
	return &Source{s, b, o}, nil
}
