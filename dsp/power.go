package dsp

import "math"

// Power is the squared magnitude of a bin.
func Power(c complex64) float32 {
	re, im := real(c), imag(c)
	return re*re + im*im
}

// ColorIndex narrows a power value to a color table index by truncation.
// The integer part is taken as a 32-bit unsigned value, saturating at both
// ends (NaN and negatives give 0), and only its low 8 bits are kept. Values
// past 255 therefore wrap: 256 is 0, 300 is 44.
func ColorIndex(p float32) uint8 {
	switch {
	case !(p >= 1):
		return 0
	case p >= math.MaxUint32:
		return uint8(math.MaxUint32 & 0xff)
	}
	return uint8(uint32(p))
}

// PeakBin is the index of the strongest bin and its power.
func PeakBin(spectrum []complex64) (int, float32) {
	best, bestPow := 0, float32(-1)
	for i, v := range spectrum {
		if p := Power(v); p > bestPow {
			best, bestPow = i, p
		}
	}
	return best, bestPow
}
