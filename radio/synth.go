package radio

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Synth generates a complex tone plus optional noise as u8 I/Q frames. It
// stands in for the ADC on hosts without hardware.
type Synth struct {
	// Bin is the tone frequency in FFT bins for a frame of len(dst)/2 pairs.
	Bin float64
	// Amp is the tone amplitude in [0, 1] of full scale.
	Amp float64
	// Noise is the standard deviation of added gaussian noise, full scale.
	Noise float64
	// Drift moves the tone by this many bins per frame.
	Drift float64
	Order ChannelOrder
	// Rate paces captures at this many I/Q pairs per second; zero is unpaced.
	Rate uint32

	rnd   *rand.Rand
	phase float64
	last  time.Time
	samps []complex64
}

func NewSynth(bin, amp float64) *Synth {
	return &Synth{Bin: bin, Amp: amp, rnd: rand.New(rand.NewSource(1))}
}

func (s *Synth) CaptureBlocking(ctx context.Context, dst []byte) error {
	if err := s.pace(ctx, len(dst)/2); err != nil {
		return err
	}
	EncodeIQ8(dst, s.Next(len(dst)/2), s.Order)
	return nil
}

// Next generates the next frame of n samples. The slice is reused.
func (s *Synth) Next(n int) []complex64 {
	if len(s.samps) != n {
		s.samps = make([]complex64, n)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(1))
	}
	step := 2 * math.Pi * s.Bin / float64(n)
	for i := range s.samps {
		re := s.Amp*math.Cos(s.phase) + s.Noise*s.rnd.NormFloat64()
		im := s.Amp*math.Sin(s.phase) + s.Noise*s.rnd.NormFloat64()
		s.samps[i] = complex(float32(re), float32(im))
		s.phase = math.Mod(s.phase+step, 2*math.Pi)
	}
	s.Bin += s.Drift
	return s.samps
}

func (s *Synth) pace(ctx context.Context, pairs int) error {
	if s.Rate == 0 {
		return ctx.Err()
	}
	frame := time.Duration(float64(pairs) / float64(s.Rate) * float64(time.Second))
	next := s.last.Add(frame)
	if wait := time.Until(next); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.last = time.Now()
	return nil
}

func (s *Synth) Close() error { return nil }
