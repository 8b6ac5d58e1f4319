//go:build !tinygo

package radio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
)

var ErrRateOutOfRange = errors.New("sample rate out of range")
var ErrFrequencyOutOfRange = errors.New("frequency out of range")

var dongleMagic = [...]byte{'R', 'T', 'L', '0'}

// RTLTCP samples from an rtl_tcp spectrum server.
type RTLTCP struct {
	*net.TCPConn
	*StreamSampler
	Info DongleInfo
}

// DialRTLTCP connects to the spectrum server at addr ("127.0.0.1:1234")
// and tunes it to the band. The caller closes the returned sampler.
func DialRTLTCP(ctx context.Context, addr string, b HzBand) (*RTLTCP, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to spectrum server: %v", err)
	}
	sdr := &RTLTCP{TCPConn: c.(*net.TCPConn)}
	if err := sdr.handshake(b); err != nil {
		c.Close()
		return nil, err
	}
	sdr.StreamSampler = NewStreamSampler(sdr.TCPConn)
	return sdr, nil
}

func (sdr *RTLTCP) handshake(b HzBand) error {
	if err := binary.Read(sdr.TCPConn, binary.BigEndian, &sdr.Info); err != nil {
		return fmt.Errorf("error getting dongle information: %v", err)
	}
	if !sdr.Info.Valid() {
		return fmt.Errorf("bad magic number: %q", sdr.Info.Magic)
	}
	if !isValidRate(uint32(b.Width)) {
		return ErrRateOutOfRange
	}
	if b.Center < uint64(minFreqHz) || b.Center > uint64(maxFreqHz) {
		return ErrFrequencyOutOfRange
	}
	if err := sdr.SetAGCMode(true); err != nil {
		return err
	}
	if err := sdr.SetCenterFreq(uint32(b.Center)); err != nil {
		return err
	}
	return sdr.SetSampleRate(uint32(b.Width))
}

func (sdr *RTLTCP) Close() error { return sdr.TCPConn.Close() }

// DongleInfo is data pulled from the server on connection.
type DongleInfo struct {
	Magic     [4]byte
	Tuner     uint32
	GainCount uint32
}

// Valid checks the received magic number matches the expected byte string 'RTL0'.
func (d DongleInfo) Valid() bool {
	return d.Magic == dongleMagic
}

type command struct {
	command   uint8
	Parameter uint32
}

// Command constants defined in rtl_tcp.c
const (
	centerFreq = iota + 1
	sampleRate
	tunerGainMode
	tunerGain
	freqCorrection
	tunerIfGain
	testMode
	agcMode
)

var minFreqHz = uint32(25000000)
var maxFreqHz = uint32(1750000000)

func isValidRate(rate uint32) bool {
	return !((rate <= 225000) || (rate > 3200000) ||
		((rate > 300000) && (rate <= 900000)))
}

func (sdr *RTLTCP) do(cmd uint8, v uint32) error {
	return binary.Write(sdr.TCPConn, binary.BigEndian, command{cmd, v})
}

// Set the center frequency in Hz.
func (sdr *RTLTCP) SetCenterFreq(freq uint32) error {
	return sdr.do(centerFreq, freq)
}

// Set the sample rate in Hz.
func (sdr *RTLTCP) SetSampleRate(rate uint32) error {
	return sdr.do(sampleRate, rate)
}

// Set gain in tenths of dB. (197 => 19.7dB)
func (sdr *RTLTCP) SetGain(gain uint32) error {
	if err := sdr.do(tunerGainMode, 1); err != nil {
		return err
	}
	return sdr.do(tunerGain, gain)
}

// Set frequency correction in ppm.
func (sdr *RTLTCP) SetFreqCorrection(ppm uint32) error {
	return sdr.do(freqCorrection, ppm)
}

// Set RTL AGC mode, true for enabled.
func (sdr *RTLTCP) SetAGCMode(state bool) error {
	if state {
		return sdr.do(agcMode, 1)
	}
	return sdr.do(agcMode, 0)
}
