//go:build linux

package dshow

import (
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/thesyncim/neomedia/internal/native"
)

var (
	linuxOnce    sync.Once
	linuxSources map[Category]*indexedSource
	linuxErr     error
)

// libstream_v4l2 function pointers
var (
	streamV4L2DeviceCount func() int32
	streamV4L2DevicePath  func(index int32) uintptr
	streamV4L2DeviceName  func(index int32) uintptr
	streamV4L2FreeString  func(ptr uintptr)
)

// libstream_alsa function pointers
var (
	streamALSAInputDeviceCount func() int32
	streamALSAInputDeviceID    func(index int32) uintptr
	streamALSAInputDeviceName  func(index int32) uintptr
	streamALSAFreeString       func(ptr uintptr)
)

// DefaultPlatform enumerates V4L2 cameras and ALSA capture devices.
func DefaultPlatform() Platform {
	return indexedPlatform{load: loadLinuxSources}
}

func loadLinuxSources() (map[Category]*indexedSource, error) {
	linuxOnce.Do(func() {
		sources := make(map[Category]*indexedSource)
		var errs *multierror.Error

		if lib, err := native.Open("stream_v4l2", "STREAM_V4L2_LIB_PATH"); err != nil {
			errs = multierror.Append(errs, err)
		} else if err := lib.RegisterSymbols(map[string]any{
			"stream_v4l2_device_count": &streamV4L2DeviceCount,
			"stream_v4l2_device_path":  &streamV4L2DevicePath,
			"stream_v4l2_device_name":  &streamV4L2DeviceName,
			"stream_v4l2_free_string":  &streamV4L2FreeString,
		}); err != nil {
			lib.Close()
			errs = multierror.Append(errs, err)
		} else {
			sources[VideoInput] = &indexedSource{
				count:  streamV4L2DeviceCount,
				id:     streamV4L2DevicePath,
				name:   streamV4L2DeviceName,
				free:   streamV4L2FreeString,
				verify: statDeviceNode,
			}
		}

		if lib, err := native.Open("stream_alsa", "STREAM_ALSA_LIB_PATH"); err != nil {
			errs = multierror.Append(errs, err)
		} else if err := lib.RegisterSymbols(map[string]any{
			"stream_alsa_input_device_count": &streamALSAInputDeviceCount,
			"stream_alsa_input_device_id":    &streamALSAInputDeviceID,
			"stream_alsa_input_device_name":  &streamALSAInputDeviceName,
			"stream_alsa_free_string":        &streamALSAFreeString,
		}); err != nil {
			lib.Close()
			errs = multierror.Append(errs, err)
		} else {
			sources[AudioInput] = &indexedSource{
				count: streamALSAInputDeviceCount,
				id:    streamALSAInputDeviceID,
				name:  streamALSAInputDeviceName,
				free:  streamALSAFreeString,
			}
		}

		linuxSources = sources
		if len(sources) == 0 {
			linuxErr = errs.ErrorOrNil()
		}
	})
	return linuxSources, linuxErr
}

func statDeviceNode(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.Mode()&os.ModeDevice == 0 {
		return errors.Errorf("dshow: %s is not a device node", path)
	}
	return nil
}
