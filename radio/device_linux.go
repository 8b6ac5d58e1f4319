//go:build linux && !tinygo

package radio

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// DeviceSampler reads frames from a character device or FIFO that streams
// u8 I/Q pairs, such as a DMA bridge. Waits are bounded by the context
// deadline through poll(2).
type DeviceSampler struct {
	fd   int
	path string
	skip int
}

func OpenDevice(path string) (*DeviceSampler, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("could not open device %s: %v", path, err)
	}
	return &DeviceSampler{fd: fd, path: path}, nil
}

func (d *DeviceSampler) CaptureBlocking(ctx context.Context, dst []byte) error {
	var pad [1]byte
	for d.skip > 0 {
		n, err := d.read(ctx, pad[:])
		if err == ErrCaptureTimeout {
			return err
		} else if err != nil {
			return d.fail(err, 0)
		}
		d.skip -= n
	}
	total := 0
	for total < len(dst) {
		n, err := d.read(ctx, dst[total:])
		total += n
		if err != nil {
			return d.fail(err, total)
		}
	}
	return nil
}

func (d *DeviceSampler) fail(err error, n int) error {
	if err == ErrCaptureTimeout {
		d.skip = n % 2
		return err
	}
	return &FaultError{Bytes: n, Err: err}
}

func (d *DeviceSampler) read(ctx context.Context, p []byte) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			if err == context.DeadlineExceeded {
				return 0, ErrCaptureTimeout
			}
			return 0, err
		}
		timeout := -1
		if dl, ok := ctx.Deadline(); ok {
			timeout = int(time.Until(dl) / time.Millisecond)
			if timeout <= 0 {
				return 0, ErrCaptureTimeout
			}
		}
		fds := []unix.PollFd{{Fd: int32(d.fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, timeout)
		if err == unix.EINTR {
			continue
		} else if err != nil {
			return 0, err
		} else if n == 0 {
			return 0, ErrCaptureTimeout
		}
		rn, err := unix.Read(d.fd, p)
		switch {
		case err == unix.EINTR || err == unix.EAGAIN:
			continue
		case err != nil:
			return 0, err
		case rn == 0:
			return 0, ErrShortCapture
		}
		return rn, nil
	}
}

func (d *DeviceSampler) Close() error { return unix.Close(d.fd) }
