package dsp

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

type gonumPlan struct {
	fft *fourier.CmplxFFT
	in  []complex128
	out []complex128
	res []complex64
}

// NewGonumPlan builds a pure Go plan; twiddle factors are computed here.
func NewGonumPlan(n int) (Plan, error) {
	if n <= 0 {
		return nil, fmt.Errorf("bad fft length %d", n)
	}
	return &gonumPlan{
		fft: fourier.NewCmplxFFT(n),
		in:  make([]complex128, n),
		out: make([]complex128, n),
		res: make([]complex64, n),
	}, nil
}

func (p *gonumPlan) Len() int { return len(p.res) }

func (p *gonumPlan) Transform(in []complex64) ([]complex64, error) {
	if len(in) != len(p.in) {
		return nil, ErrLength
	}
	for i, v := range in {
		p.in[i] = complex128(v)
	}
	p.fft.Coefficients(p.out, p.in)
	for i, v := range p.out {
		p.res[i] = complex64(v)
	}
	return p.res, nil
}

func (p *gonumPlan) Close() error { return nil }
