package radio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"
)

type errSampler struct{ err error }

func (e *errSampler) CaptureBlocking(ctx context.Context, dst []byte) error { return e.err }
func (e *errSampler) Close() error                                          { return nil }

func TestAcquirerFrames(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	a := NewAcquirer(NewStreamSampler(bytes.NewReader(data)), 2)
	buf, err := a.Capture(context.TODO())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, data[:4]) {
		t.Fatalf("expected %v, got %v", data[:4], buf)
	}
	if buf, err = a.Capture(context.TODO()); err != nil || !bytes.Equal(buf, data[4:8]) {
		t.Fatalf("expected %v, got %v (%v)", data[4:8], buf, err)
	}
	// A trailing partial frame is never returned.
	if _, err = a.Capture(context.TODO()); !errors.Is(err, ErrShortCapture) {
		t.Fatalf("expected short capture, got %v", err)
	}
	var fe *FaultError
	if !errors.As(err, &fe) || fe.Bytes != 1 {
		t.Fatalf("expected fault after 1 byte, got %v", err)
	}
	if _, err = a.Capture(context.TODO()); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestAcquirerBufferLength(t *testing.T) {
	for _, bins := range []int{1, 160, 1024} {
		a := NewAcquirer(NewSynth(0, 0), bins)
		buf, err := a.Capture(context.TODO())
		if err != nil {
			t.Fatal(err)
		}
		if len(buf) != 2*bins || buf.Bins() != bins {
			t.Fatalf("expected %d bytes, got %d", 2*bins, len(buf))
		}
	}
}

func TestAcquirerClassify(t *testing.T) {
	hw := errors.New("bus stuck")
	tests := []struct {
		err  error
		want error
	}{
		{ErrCaptureTimeout, ErrCaptureTimeout},
		{context.DeadlineExceeded, ErrCaptureTimeout},
		{io.EOF, io.EOF},
		{hw, hw},
	}
	for _, tt := range tests {
		a := NewAcquirer(&errSampler{tt.err}, 4)
		_, err := a.Capture(context.TODO())
		if !errors.Is(err, tt.want) {
			t.Errorf("%v: expected %v, got %v", tt.err, tt.want, err)
		}
		if tt.err == hw {
			var fe *FaultError
			if !errors.As(err, &fe) {
				t.Errorf("expected fault, got %T", err)
			}
		}
	}

	ctx, cancel := context.WithCancel(context.TODO())
	cancel()
	a := NewAcquirer(&errSampler{context.Canceled}, 4)
	if _, err := a.Capture(ctx); err != context.Canceled {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestAcquirerTimeoutRealigns(t *testing.T) {
	r, w := net.Pipe()
	defer r.Close()
	defer w.Close()
	a := NewAcquirer(NewStreamSampler(r), 2)
	a.Timeout = 50 * time.Millisecond

	go w.Write([]byte{7, 7, 7})
	if _, err := a.Capture(context.TODO()); err != ErrCaptureTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
	// Nothing arrives; the owed pad byte must survive this timeout too.
	if _, err := a.Capture(context.TODO()); err != ErrCaptureTimeout {
		t.Fatalf("expected second timeout, got %v", err)
	}
	go w.Write([]byte{7, 1, 2, 3, 4})
	buf, err := a.Capture(context.TODO())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{1, 2, 3, 4}) {
		t.Fatalf("expected aligned frame, got %v", buf)
	}
}

func TestAcquirerPacedTimeout(t *testing.T) {
	s := NewSynth(1, 0.5)
	s.Rate = 1
	a := NewAcquirer(s, 4)
	a.Timeout = 50 * time.Millisecond
	if _, err := a.Capture(context.TODO()); err != nil {
		t.Fatalf("first capture is not paced: %v", err)
	}
	if _, err := a.Capture(context.TODO()); err != ErrCaptureTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}
