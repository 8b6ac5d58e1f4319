//go:build fftw

package dsp

import (
	"fmt"

	"github.com/runningwild/go-fftw/fftw32"
)

type fftwPlan struct {
	in   *fftw32.Array
	out  *fftw32.Array
	plan *fftw32.Plan
}

// NewFFTWPlan builds an FFTW single precision plan over arrays owned by
// the plan. Building it is the expensive part; Execute is not.
func NewFFTWPlan(n int) (Plan, error) {
	if n <= 0 {
		return nil, fmt.Errorf("bad fft length %d", n)
	}
	p := &fftwPlan{in: fftw32.NewArray(n), out: fftw32.NewArray(n)}
	p.plan = fftw32.NewPlan(p.in, p.out, fftw32.Forward, fftw32.Estimate)
	return p, nil
}

func (p *fftwPlan) Len() int { return len(p.in.Elems) }

func (p *fftwPlan) Transform(in []complex64) ([]complex64, error) {
	if len(in) != len(p.in.Elems) {
		return nil, ErrLength
	}
	copy(p.in.Elems, in)
	p.plan.Execute()
	return p.out.Elems, nil
}

func (p *fftwPlan) Close() error {
	p.plan.Destroy()
	return nil
}

func NewPlan(n int) (Plan, error) { return NewFFTWPlan(n) }
