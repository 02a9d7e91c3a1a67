package portaudio

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// MaxAudioSampleRate is the highest rate any audio codec in the pipeline
// consumes. Devices whose default rate reaches it are used at that default.
const MaxAudioSampleRate = 48000.0

// AudioDevice is one PortAudio device as seen by Probe.
type AudioDevice struct {
	Index             int
	Name              string
	HostApi           int
	MaxInputChannels  int
	MaxOutputChannels int
	// SampleRate is the rate to open the device at for 16-bit mono.
	SampleRate float64
}

// ProbeResult lists capture and playback devices in index order.
type ProbeResult struct {
	Capture         []AudioDevice
	Playback        []AudioDevice
	DefaultCapture  *AudioDevice
	DefaultPlayback *AudioDevice
}

// SampleFormatForBits maps a sample size in bits to the signed integer
// sample format of that width. It returns 0 for unsupported sizes.
func SampleFormatForBits(bits int) SampleFormat {
	switch bits {
	case 8:
		return Int8
	case 16:
		return Int16
	case 24:
		return Int24
	case 32:
		return Int32
	}
	return 0
}

// Probe enumerates devices. PortAudio must be initialized.
func Probe() (*ProbeResult, error) {
	count, err := DeviceCount()
	if err != nil {
		return nil, err
	}
	defIn, defOut := DefaultInputDevice(), DefaultOutputDevice()

	const channels = 1
	format := SampleFormatForBits(16)

	res := &ProbeResult{}
	for i := 0; i < count; i++ {
		info := GetDeviceInfo(i)
		if info.IsNil() {
			continue
		}
		dev := AudioDevice{
			Index:             i,
			Name:              strings.TrimSpace(info.Name()),
			HostApi:           info.HostApi(),
			MaxInputChannels:  info.MaxInputChannels(),
			MaxOutputChannels: info.MaxOutputChannels(),
			SampleRate:        DefaultSampleRate,
		}
		if dev.MaxInputChannels > 0 {
			dev.SampleRate = SupportedSampleRate(true, i, channels, format)
		}
		res.add(dev, i == defIn, i == defOut)
	}

	log().WithFields(logrus.Fields{
		"capture":  len(res.Capture),
		"playback": len(res.Playback),
	}).Debug("portaudio: devices probed")
	return res, nil
}

func (r *ProbeResult) add(dev AudioDevice, defaultIn, defaultOut bool) {
	if dev.MaxInputChannels > 0 {
		r.Capture = append(r.Capture, dev)
	}
	if dev.MaxOutputChannels > 0 {
		r.Playback = append(r.Playback, dev)
	}
	if defaultIn {
		d := dev
		r.DefaultCapture = &d
	}
	if defaultOut {
		d := dev
		r.DefaultPlayback = &d
	}
}

// SupportedSampleRate returns DefaultSampleRate when the device accepts it,
// otherwise the device's own default rate.
func SupportedSampleRate(input bool, device, channels int, format SampleFormat) float64 {
	info := GetDeviceInfo(device)
	if info.IsNil() {
		return DefaultSampleRate
	}
	defaultRate := info.DefaultSampleRate()
	if defaultRate >= MaxAudioSampleRate {
		return defaultRate
	}

	params := NewStreamParameters(device, channels, format, LatencyUnspecified)
	var in, out *StreamParameters
	if input {
		in = params
	} else {
		out = params
	}
	if IsFormatSupported(in, out, DefaultSampleRate) == nil {
		return DefaultSampleRate
	}
	return defaultRate
}
