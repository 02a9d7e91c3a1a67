// Package portaudio binds PortAudio v19 (libportaudio) through purego.
//
// Calls forward directly to the library and block for as long as it does.
// PaError values are returned unchanged inside *Error.
package portaudio

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/thesyncim/neomedia/internal/native"
)

// LibPathEnv overrides the location of libportaudio.
const LibPathEnv = "STREAM_PORTAUDIO_LIB_PATH"

// SampleFormat is a PaSampleFormat bit.
type SampleFormat uint64

const (
	Float32 SampleFormat = 1
	Int32   SampleFormat = 2
	Int24   SampleFormat = 4
	Int16   SampleFormat = 8
	Int8    SampleFormat = 16
	UInt8   SampleFormat = 32
)

// StreamFlags is a PaStreamFlags mask.
type StreamFlags uint64

const (
	NoFlag                                StreamFlags = 0
	ClipOff                               StreamFlags = 1
	DitherOff                             StreamFlags = 2
	NeverDropInput                        StreamFlags = 4
	PrimeOutputBuffersUsingStreamCallback StreamFlags = 8
	PlatformSpecificFlags                 StreamFlags = 0xFFFF0000
)

// Suggested latency sentinels. Positive values are seconds.
const (
	LatencyUnspecified = 0.0
	LatencyHigh        = -1.0
	LatencyLow         = -2.0
)

const (
	// NoDevice is paNoDevice.
	NoDevice = -1

	FramesPerBufferUnspecified = 0
	DefaultSampleRate          = 44100.0
	DefaultMillisPerBuffer     = 20
)

// PaError codes callers commonly test for.
const (
	NoError                   = 0
	ErrCodeNotInitialized     = -10000
	ErrCodeInvalidDevice      = -9996
	ErrCodeSampleFormat       = -9994
	ErrCodeBadIODeviceCombo   = -9993
	ErrCodeInsufficientMemory = -9992
	ErrCodeBadStreamPtr       = -9988
	ErrCodeInputOverflowed    = -9981
	ErrCodeOutputUnderflowed  = -9980
	ErrCodeStreamIsStopped    = -9983
	ErrCodeStreamIsNotStopped = -9982
)

// Error is a PaError with the library's description of it.
type Error struct {
	Code int
	Text string
}

func (e *Error) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("portaudio: error %d", e.Code)
	}
	return fmt.Sprintf("portaudio: %s (%d)", e.Text, e.Code)
}

func newError(code int32) error {
	if code >= 0 {
		return nil
	}
	e := &Error{Code: int(code)}
	if paGetErrorText != nil {
		e.Text = native.GoString(paGetErrorText(code))
	}
	return e
}

var (
	loadOnce sync.Once
	loadErr  error
	loaded   bool
	lib      *native.Library

	logMu  sync.RWMutex
	logger logrus.FieldLogger = logrus.StandardLogger()
)

// SetLogger replaces the package logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		return
	}
	logMu.Lock()
	logger = l
	logMu.Unlock()
}

func log() logrus.FieldLogger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

// Load loads libportaudio. Only the first call does any work.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadLibrary()
		loaded = loadErr == nil
		if loaded {
			log().WithFields(logrus.Fields{
				"path":        lib.Path,
				"echo_cancel": paSetEchoCancelParams != nil,
			}).Debug("portaudio: library loaded")
		}
	})
	return loadErr
}

// Available reports whether libportaudio could be loaded.
func Available() bool {
	return Load() == nil && loaded
}

func loadLibrary() error {
	l, err := native.Open("portaudio", LibPathEnv, "libportaudio.so.2", "libportaudio.2.dylib")
	if err != nil {
		return err
	}
	if err := l.RegisterSymbols(symbols()); err != nil {
		l.Close()
		return err
	}
	l.RegisterOptional(&paSetEchoCancelParams, "Pa_SetEchoCancelParams")
	lib = l
	return nil
}

// Initialize initializes PortAudio. Calls nest; each needs a Terminate.
func Initialize() error {
	if err := Load(); err != nil {
		return err
	}
	return newError(paInitialize())
}

// Terminate undoes one Initialize.
func Terminate() error {
	if !loaded {
		return nil
	}
	return newError(paTerminate())
}

// notInitialized stands in for calls made before the library is loaded.
func notInitialized() error {
	return &Error{Code: ErrCodeNotInitialized, Text: "PortAudio not initialized"}
}

// DeviceCount returns the number of devices.
func DeviceCount() (int, error) {
	if !loaded {
		return 0, notInitialized()
	}
	n := paGetDeviceCount()
	if err := newError(n); err != nil {
		return 0, err
	}
	return int(n), nil
}

// DefaultInputDevice returns the default input device index or NoDevice.
func DefaultInputDevice() int {
	if !loaded {
		return NoDevice
	}
	return int(paGetDefaultInputDevice())
}

// DefaultOutputDevice returns the default output device index or NoDevice.
func DefaultOutputDevice() int {
	if !loaded {
		return NoDevice
	}
	return int(paGetDefaultOutputDevice())
}

// HostApiCount returns the number of host APIs.
func HostApiCount() (int, error) {
	if !loaded {
		return 0, notInitialized()
	}
	n := paGetHostApiCount()
	if err := newError(n); err != nil {
		return 0, err
	}
	return int(n), nil
}

// SampleSize returns the size in bytes of one sample of format.
func SampleSize(format SampleFormat) (int, error) {
	if !loaded {
		return 0, notInitialized()
	}
	n := paGetSampleSize(uint64(format))
	if err := newError(n); err != nil {
		return 0, err
	}
	return int(n), nil
}
