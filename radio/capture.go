package radio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

var ErrCaptureTimeout = errors.New("capture timed out")
var ErrShortCapture = errors.New("short capture")

// Sampler fills a destination with interleaved 8-bit samples from two
// channels. CaptureBlocking returns only once every byte of dst is written,
// or with an error; it never reports a partial buffer as success.
type Sampler interface {
	CaptureBlocking(ctx context.Context, dst []byte) error
	Close() error
}

// FaultError is a capture that failed for a reason other than a timeout.
type FaultError struct {
	Bytes int
	Err   error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("capture fault after %d bytes: %v", e.Bytes, e.Err)
}

func (e *FaultError) Unwrap() error { return e.Err }

// CaptureBuffer holds one frame of interleaved samples, two bytes per bin.
type CaptureBuffer []byte

func (cb CaptureBuffer) Bins() int { return len(cb) / 2 }

// Acquirer owns the capture buffer and runs one capture per call.
type Acquirer struct {
	s   Sampler
	buf CaptureBuffer

	// Timeout bounds each capture; zero waits forever.
	Timeout time.Duration
}

func NewAcquirer(s Sampler, bins int) *Acquirer {
	if s == nil {
		panic("nil sampler")
	}
	if bins <= 0 {
		panic("bad bin count")
	}
	return &Acquirer{s: s, buf: make(CaptureBuffer, 2*bins)}
}

func (a *Acquirer) Bins() int { return a.buf.Bins() }

// Capture overwrites the acquirer's buffer with a new frame. The returned
// buffer is only valid until the next call.
func (a *Acquirer) Capture(ctx context.Context) (CaptureBuffer, error) {
	cctx := ctx
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	err := a.s.CaptureBlocking(cctx, a.buf)
	if err == nil {
		return a.buf, nil
	}
	return nil, classify(ctx, err)
}

func (a *Acquirer) Close() error { return a.s.Close() }

// classify maps sampler errors onto ok/timeout/fault. Cancellation of the
// parent context and end of input pass through untouched.
func classify(ctx context.Context, err error) error {
	var fe *FaultError
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err == io.EOF:
		return io.EOF
	case errors.Is(err, ErrCaptureTimeout):
		return ErrCaptureTimeout
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return ErrCaptureTimeout
	case errors.As(err, &fe):
		return fe
	}
	return &FaultError{Err: err}
}
