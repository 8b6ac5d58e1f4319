//go:build !linux || tinygo

package radio

import "errors"

var errNoDevice = errors.New("device capture requires linux")

// DeviceSampler is only available on linux.
type DeviceSampler struct{ StreamSampler }

func OpenDevice(path string) (*DeviceSampler, error) { return nil, errNoDevice }
