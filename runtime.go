package neomedia

import (
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/thesyncim/neomedia/dshow"
	"github.com/thesyncim/neomedia/ffmpeg"
	"github.com/thesyncim/neomedia/h264"
	"github.com/thesyncim/neomedia/internal/native"
	"github.com/thesyncim/neomedia/portaudio"
)

// ErrDisabled is returned for subsystems turned off in the configuration.
var ErrDisabled = errors.New("neomedia: subsystem disabled")

// Runtime holds the initialized native subsystems. Only one Runtime should
// be open at a time, since PortAudio and the capture device manager are
// process-wide.
type Runtime struct {
	cfg *Config
	log *logrus.Logger

	audio bool
	// ownsDevices is set when Open created the process-wide device manager
	// and Close must destroy it.
	devices     *dshow.Manager
	ownsDevices bool

	closeOnce sync.Once
	closeErr  error
}

// Open loads and initializes every enabled subsystem. On failure anything
// already initialized is torn down again and the errors of all failing
// subsystems are returned together.
func Open(cfg *Config) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.LibraryDir != "" {
		native.SetLibraryDir(cfg.LibraryDir)
	}
	ffmpeg.SetLogger(logger)
	portaudio.SetLogger(logger)

	r := &Runtime{cfg: cfg, log: logger}
	var result *multierror.Error

	if cfg.Video.Enabled {
		if err := ffmpeg.Load(); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "video"))
		} else {
			logger.WithField("version", ffmpeg.Version()).Info("neomedia: ffmpeg loaded")
		}
	}

	if cfg.Audio.Enabled {
		if err := portaudio.Initialize(); err != nil {
			result = multierror.Append(result, errors.Wrap(err, "audio"))
		} else {
			r.audio = true
			logger.Info("neomedia: portaudio initialized")
		}
	}

	if cfg.Capture.Enabled {
		category := dshow.VideoInput
		if cfg.Capture.Category == "audio" {
			category = dshow.AudioInput
		}
		r.devices, r.ownsDevices = dshow.Acquire(dshow.WithCategory(category), dshow.WithLogger(logger))
		if !r.ownsDevices && r.devices.Category() != category {
			logger.WithFields(logrus.Fields{
				"want": category.String(),
				"have": r.devices.Category().String(),
			}).Warn("neomedia: using existing capture device manager of another category")
		}
		logger.WithFields(logrus.Fields{
			"devices": r.devices.DevicesCount(),
			"owned":   r.ownsDevices,
		}).Info("neomedia: capture devices enumerated")
	}

	if err := result.ErrorOrNil(); err != nil {
		if cerr := r.Close(); cerr != nil {
			logger.WithError(cerr).Warn("neomedia: teardown after failed open")
		}
		return nil, err
	}
	return r, nil
}

func (r *Runtime) Config() *Config { return r.cfg }

func (r *Runtime) Logger() *logrus.Logger { return r.log }

// Devices returns the capture device manager, or nil when capture is
// disabled.
func (r *Runtime) Devices() *dshow.Manager { return r.devices }

// ProbeAudio lists audio devices with their usable sample rates.
func (r *Runtime) ProbeAudio() (*portaudio.ProbeResult, error) {
	if !r.audio {
		return nil, errors.Wrap(ErrDisabled, "audio")
	}
	return portaudio.Probe()
}

// OpenCapture opens an audio capture stream with the configured latency
// and echo processing. playback may be nil.
func (r *Runtime) OpenCapture(device int, sampleRate float64, channels, bits int, playback *portaudio.Stream) (*portaudio.Capture, error) {
	if !r.audio {
		return nil, errors.Wrap(ErrDisabled, "audio")
	}
	a := r.cfg.Audio
	return portaudio.OpenCapture(device, sampleRate, channels, bits, portaudio.CaptureOptions{
		SuggestedLatency: a.SuggestedLatency.Seconds(),
		Denoise:          a.Denoise,
		EchoCancel:       a.EchoCancel,
		EchoFilterLength: a.EchoFilterLength,
		Playback:         playback,
	})
}

// NewEncoder opens an H.264 encoder with the configured rate settings.
func (r *Runtime) NewEncoder(width, height int) (*h264.Encoder, error) {
	if !r.cfg.Video.Enabled {
		return nil, errors.Wrap(ErrDisabled, "video")
	}
	return h264.NewEncoder(h264.EncoderConfig{
		Width:     width,
		Height:    height,
		FrameRate: r.cfg.Video.FrameRate,
		BitRate:   r.cfg.Video.BitRate,
		Logger:    r.log,
	})
}

func (r *Runtime) NewDecoder() (*h264.Decoder, error) {
	if !r.cfg.Video.Enabled {
		return nil, errors.Wrap(ErrDisabled, "video")
	}
	return h264.NewDecoder(r.log)
}

// Close releases the capture devices and terminates PortAudio. A device
// manager that existed before Open is left to its creator. Later calls
// return the first call's result.
func (r *Runtime) Close() error {
	r.closeOnce.Do(func() {
		var result *multierror.Error
		if r.devices != nil && r.ownsDevices {
			if err := dshow.Release(r.devices); err != nil {
				result = multierror.Append(result, errors.Wrap(err, "capture devices"))
			}
		}
		r.devices, r.ownsDevices = nil, false
		if r.audio {
			if err := portaudio.Terminate(); err != nil {
				result = multierror.Append(result, errors.Wrap(err, "portaudio"))
			}
			r.audio = false
		}
		r.closeErr = result.ErrorOrNil()
		r.log.Debug("neomedia: runtime closed")
	})
	return r.closeErr
}
