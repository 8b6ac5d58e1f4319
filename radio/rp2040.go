//go:build tinygo && rp2040

package radio

import (
	"context"
	"device/rp"
	"errors"
	"machine"
	"runtime"
	"runtime/volatile"
	"time"
	"unsafe"
)

const dreqADC = 36

var errNotADCPin = errors.New("pin has no adc input")
var errDMABus = errors.New("dma bus error")

type dmaChannel struct {
	READ_ADDR   volatile.Register32
	WRITE_ADDR  volatile.Register32
	TRANS_COUNT volatile.Register32
	CTRL_TRIG   volatile.Register32
	_           [12]volatile.Register32 // alias registers
}

func dmaChannelAt(ch uint8) *dmaChannel {
	base := unsafe.Pointer(rp.DMA)
	return (*dmaChannel)(unsafe.Add(base, uintptr(ch)*unsafe.Sizeof(dmaChannel{})))
}

// RP2040Sampler captures two ADC inputs in round-robin through one DMA
// channel paced by the ADC FIFO request line. Bytes alternate chA, chB.
type RP2040Sampler struct {
	dma  uint8
	ainA uint32
	ctrl uint32
}

func adcInput(p machine.Pin) (uint32, error) {
	if p < machine.ADC0 || p > machine.ADC3 {
		return 0, errNotADCPin
	}
	return uint32(p - machine.ADC0), nil
}

// NewRP2040Sampler sets up free-running dual channel sampling with the
// given clock divider and claims DMA channel dmaCh.
func NewRP2040Sampler(clkDiv uint32, chA, chB machine.Pin, dmaCh uint8) (*RP2040Sampler, error) {
	ainA, err := adcInput(chA)
	if err != nil {
		return nil, err
	}
	ainB, err := adcInput(chB)
	if err != nil {
		return nil, err
	}
	machine.InitADC()
	machine.ADC{Pin: chA}.Configure(machine.ADCConfig{})
	machine.ADC{Pin: chB}.Configure(machine.ADCConfig{})

	rp.ADC.CS.Set(rp.ADC_CS_EN |
		ainA<<rp.ADC_CS_AINSEL_Pos |
		((1<<ainA)|(1<<ainB))<<rp.ADC_CS_RROBIN_Pos)
	rp.ADC.DIV.Set(clkDiv << rp.ADC_DIV_INT_Pos)
	// Every conversion goes to the FIFO, shifted to 8 bits, and raises
	// DREQ as soon as one sample is present. The error bit is not kept.
	rp.ADC.FCS.Set(rp.ADC_FCS_EN |
		rp.ADC_FCS_DREQ_EN |
		rp.ADC_FCS_SHIFT |
		1<<rp.ADC_FCS_THRESH_Pos)

	s := &RP2040Sampler{
		dma:  dmaCh,
		ainA: ainA,
		ctrl: rp.DMA_CH0_CTRL_TRIG_EN |
			// Byte transfers from a fixed address to an incrementing one.
			rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_SIZE_BYTE<<rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Pos |
			rp.DMA_CH0_CTRL_TRIG_INCR_WRITE |
			// Don't chain.
			uint32(dmaCh)<<rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos |
			dreqADC<<rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos,
	}
	return s, nil
}

func (s *RP2040Sampler) stopADC() {
	rp.ADC.CS.ClearBits(rp.ADC_CS_START_MANY)
	for rp.ADC.CS.Get()&rp.ADC_CS_READY == 0 {
	}
	for rp.ADC.FCS.Get()&rp.ADC_FCS_LEVEL_Msk != 0 {
		rp.ADC.FIFO.Get()
	}
	cs := rp.ADC.CS.Get() &^ rp.ADC_CS_AINSEL_Msk
	rp.ADC.CS.Set(cs | s.ainA<<rp.ADC_CS_AINSEL_Pos)
}

func (s *RP2040Sampler) abort() {
	ch := dmaChannelAt(s.dma)
	ch.CTRL_TRIG.ClearBits(rp.DMA_CH0_CTRL_TRIG_EN)
	rp.DMA.CHAN_ABORT.Set(1 << s.dma)
	for rp.DMA.CHAN_ABORT.Get() != 0 {
	}
}

func (s *RP2040Sampler) CaptureBlocking(ctx context.Context, dst []byte) error {
	s.stopADC()
	ch := dmaChannelAt(s.dma)
	ch.READ_ADDR.Set(uint32(uintptr(unsafe.Pointer(&rp.ADC.FIFO))))
	ch.WRITE_ADDR.Set(uint32(uintptr(unsafe.Pointer(unsafe.SliceData(dst)))))
	ch.TRANS_COUNT.Set(uint32(len(dst)))
	ch.CTRL_TRIG.Set(s.ctrl)
	rp.ADC.CS.SetBits(rp.ADC_CS_START_MANY)

	deadline, bounded := ctx.Deadline()
	for ch.CTRL_TRIG.Get()&rp.DMA_CH0_CTRL_TRIG_BUSY != 0 {
		if bounded && time.Now().After(deadline) {
			s.abort()
			return ErrCaptureTimeout
		}
		select {
		case <-ctx.Done():
			s.abort()
			return ctx.Err()
		default:
		}
	}
	runtime.KeepAlive(dst)
	if ch.CTRL_TRIG.Get()&rp.DMA_CH0_CTRL_TRIG_AHB_ERROR != 0 {
		n := len(dst) - int(ch.TRANS_COUNT.Get())
		s.abort()
		return &FaultError{Bytes: n, Err: errDMABus}
	}
	return nil
}

func (s *RP2040Sampler) Close() error {
	s.abort()
	s.stopADC()
	rp.ADC.CS.ClearBits(rp.ADC_CS_EN)
	return nil
}
