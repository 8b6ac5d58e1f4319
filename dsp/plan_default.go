//go:build !fftw

package dsp

// NewPlan builds the default plan for this build. Build with -tags fftw to
// use FFTW instead of gonum.
func NewPlan(n int) (Plan, error) { return NewGonumPlan(n) }
