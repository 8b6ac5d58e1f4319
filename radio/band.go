package radio

// adcClockHz is the RP2040 ADC clock; one conversion takes 96 cycles.
const adcClockHz = 48000000
const adcCyclesPerSample = 96

type HzBand struct {
	Center uint64 `json:"center_hz"`
	Width  uint64 `json:"width_hz"`
}

func (hzb HzBand) ToMHz() FreqBand {
	return FreqBand{
		float64(hzb.Center) / 1e6,
		float64(hzb.Width) / 1e6,
	}
}

// BinHz is the width of one FFT bin.
func (hzb HzBand) BinHz(bins int) float64 { return float64(hzb.Width) / float64(bins) }

// BinCenterHz is the frequency of bin i in unshifted FFT order: bins past
// the middle are negative offsets from the center.
func (hzb HzBand) BinCenterHz(i, bins int) float64 {
	if i >= (bins+1)/2 {
		i -= bins
	}
	return float64(hzb.Center) + float64(i)*hzb.BinHz(bins)
}

type FreqBand struct {
	Center float64
	Width  float64
}

func (f FreqBand) BeginMHz() float64 { return f.Center - f.Width/2.0 }
func (f FreqBand) EndMHz() float64   { return f.Center + f.Width/2.0 }

// SampleRateForDivider is the total conversion rate of the ADC for a clock
// divider. Dividers below one conversion time run back-to-back.
func SampleRateForDivider(div uint32) uint32 {
	if div < adcCyclesPerSample {
		return adcClockHz / adcCyclesPerSample
	}
	return adcClockHz / (div + 1)
}

// IQBandForDivider is the complex bandwidth seen when two channels share
// the ADC in round-robin: each pair of conversions yields one I/Q sample.
func IQBandForDivider(div uint32) HzBand {
	return HzBand{Width: uint64(SampleRateForDivider(div) / 2)}
}
