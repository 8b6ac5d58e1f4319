package radio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

// ChannelOrder says which byte of each interleaved pair is which channel.
// It follows the acquisition wiring and is never inferred from the data.
type ChannelOrder int

const (
	// OrderQI has Q (ADC0) on even bytes and I (ADC1) on odd bytes, the
	// round-robin order of the pico board.
	OrderQI ChannelOrder = iota
	// OrderIQ has I on even bytes and Q on odd bytes, as rtl_tcp sends.
	OrderIQ
)

// Split returns the in-phase and quadrature bytes of pair i.
func (o ChannelOrder) Split(buf []byte, i int) (ib, qb byte) {
	if o == OrderIQ {
		return buf[2*i], buf[2*i+1]
	}
	return buf[2*i+1], buf[2*i]
}

func (o ChannelOrder) put(buf []byte, i int, ib, qb byte) {
	if o == OrderIQ {
		buf[2*i], buf[2*i+1] = ib, qb
	} else {
		buf[2*i], buf[2*i+1] = qb, ib
	}
}

func (o ChannelOrder) String() string {
	if o == OrderIQ {
		return "iq"
	}
	return "qi"
}

func ParseChannelOrder(s string) (ChannelOrder, error) {
	switch s {
	case "qi", "":
		return OrderQI, nil
	case "iq":
		return OrderIQ, nil
	}
	return OrderQI, fmt.Errorf("unknown channel order %q", s)
}

type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// StreamSampler reads u8 I/Q frames from a byte stream.
type StreamSampler struct {
	r      io.Reader
	closer io.Closer
	// skip is the number of bytes to drop before the next frame so that
	// frames stay aligned on sample pairs after an interrupted read.
	skip int
}

// NewStreamSampler takes a reader that yields u8 I/Q samples.
func NewStreamSampler(r io.Reader) *StreamSampler {
	if r == nil {
		panic("nil reader")
	}
	ss := &StreamSampler{r: r}
	if c, ok := r.(io.Closer); ok {
		ss.closer = c
	}
	return ss
}

func (ss *StreamSampler) CaptureBlocking(ctx context.Context, dst []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d, ok := ss.r.(deadliner); ok {
		dl, _ := ctx.Deadline()
		if err := d.SetReadDeadline(dl); err != nil && !errors.Is(err, os.ErrNoDeadline) {
			return &FaultError{Err: err}
		}
	}
	for ss.skip > 0 {
		var pad [2]byte
		n, err := ss.r.Read(pad[:ss.skip])
		ss.skip -= n
		if err != nil {
			// Still owed; a timeout here must not forget the pad byte.
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return ErrCaptureTimeout
			}
			return ss.readErr(err, 0)
		}
	}
	sumBytes := 0
	for sumBytes != len(dst) {
		readBytes, err := ss.r.Read(dst[sumBytes:])
		sumBytes += readBytes
		if err != nil {
			if err == io.EOF && sumBytes == len(dst) {
				break
			}
			return ss.readErr(err, sumBytes)
		}
	}
	return nil
}

func (ss *StreamSampler) readErr(err error, n int) error {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		ss.skip = n % 2
		return ErrCaptureTimeout
	}
	if err == io.EOF {
		if n == 0 {
			return io.EOF
		}
		return &FaultError{Bytes: n, Err: ErrShortCapture}
	}
	return &FaultError{Bytes: n, Err: err}
}

func (ss *StreamSampler) Close() error {
	if ss.closer == nil {
		return nil
	}
	return ss.closer.Close()
}

// EncodeIQ8 packs complex samples in [-1, 1] into u8 pairs using order.
func EncodeIQ8(dst []byte, samps []complex64, o ChannelOrder) {
	for i, s := range samps {
		o.put(dst, i, toU8(real(s)), toU8(imag(s)))
	}
}

func toU8(v float32) byte {
	f := math.Round(float64(v)*128.0 + 127.0)
	if f < 0 {
		return 0
	} else if f > 255 {
		return 255
	}
	return byte(f)
}

type IQWriter struct {
	w     io.Writer
	order ChannelOrder
}

func NewIQWriter(w io.Writer, o ChannelOrder) *IQWriter { return &IQWriter{w, o} }

func (iq *IQWriter) Write64(out []complex64) error {
	buf := make([]byte, 2*len(out))
	EncodeIQ8(buf, out, iq.order)
	_, err := iq.w.Write(buf)
	return err
}
