package dsp

import (
	"errors"

	"github.com/chzchzchz/iqfall/radio"
)

var ErrLength = errors.New("buffer length does not match plan")

// Preprocessor removes the DC bias from a capture buffer and reshapes the
// interleaved bytes into complex samples. Its output slice is reused.
type Preprocessor struct {
	order radio.ChannelOrder
	out   []complex64
}

func NewPreprocessor(bins int, o radio.ChannelOrder) *Preprocessor {
	return &Preprocessor{order: o, out: make([]complex64, bins)}
}

func (p *Preprocessor) Bins() int { return len(p.out) }

// Mean is the average byte value over both channels.
func Mean(buf []byte) float32 {
	if len(buf) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range buf {
		sum += uint64(v)
	}
	return float32(sum) / float32(len(buf))
}

// Preprocess subtracts the mean of the whole buffer from both channels.
// The in-phase byte becomes the real part, the quadrature byte the
// imaginary part, according to the channel order.
func (p *Preprocessor) Preprocess(buf radio.CaptureBuffer) ([]complex64, error) {
	if len(buf) != 2*len(p.out) {
		return nil, ErrLength
	}
	avg := Mean(buf)
	for i := range p.out {
		ib, qb := p.order.Split(buf, i)
		p.out[i] = complex(float32(ib)-avg, float32(qb)-avg)
	}
	return p.out, nil
}
