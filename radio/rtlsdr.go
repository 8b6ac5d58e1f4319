//go:build !tinygo

package radio

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/kr/pty"
)

const rtlTCPAddr = "127.0.0.1:12345"

// RTLSDR runs a private rtl_tcp for a local dongle and samples from it.
type RTLSDR struct {
	*RTLTCP
	cmd  *exec.Cmd
	fpty *os.File
	// device serial number or device index
	serialNumber string
}

func OpenRTLSDR(ctx context.Context, ser string, b HzBand) (*RTLSDR, error) {
	if !isValidRate(uint32(b.Width)) {
		return nil, ErrRateOutOfRange
	}
	cmd := exec.CommandContext(ctx, "rtl_tcp", "-a", "127.0.0.1", "-p", "12345", "-d", ser, "-s", fmt.Sprint(b.Width))
	fpty, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}
	go io.Copy(os.Stdout, fpty)
	s := &RTLSDR{fpty: fpty, cmd: cmd, serialNumber: ser}
	// TODO: would like to wait for 'listening...' but need tty to line-buffer
	select {
	case <-time.After(2 * time.Second):
	case <-ctx.Done():
		s.stop()
		return nil, ctx.Err()
	}
	if s.RTLTCP, err = connect(ctx, b); err != nil {
		s.stop()
		return nil, err
	}
	return s, nil
}

func (s *RTLSDR) Close() (err error) {
	if s.RTLTCP != nil {
		err = s.RTLTCP.Close()
	}
	s.stop()
	return err
}

func (s *RTLSDR) stop() {
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.fpty.Close()
	s.cmd.Wait()
}

func connect(ctx context.Context, b HzBand) (sdr *RTLTCP, err error) {
	for i := 0; i < 10; i++ {
		if sdr, err = DialRTLTCP(ctx, rtlTCPAddr, b); err == nil {
			return sdr, nil
		}
		log.Println(err)
		time.Sleep(100 * time.Millisecond)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, err
}
