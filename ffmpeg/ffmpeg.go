// Package ffmpeg exposes libavcodec and libswscale through libstream_ffmpeg,
// a thin wrapper with a primitive-only C API (see clib/stream_ffmpeg.h).
//
// Every call is a direct forward to the native library. Native objects are
// represented by distinct handle types; a handle returned by an allocation
// call belongs to the caller until it is passed to the matching Free or
// Close. Negative status codes are returned unchanged as AVError.
//
// Until Load succeeds no call reaches the library: handles come back nil
// and status-returning calls fail with ErrNotLoaded.
package ffmpeg

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/thesyncim/neomedia/internal/native"
)

// LibPathEnv overrides the location of libstream_ffmpeg.
const LibPathEnv = "STREAM_FFMPEG_LIB_PATH"

// Encoder option constants understood by the H.264 encoder.
const (
	CodecFlagLoopFilter    = 0x00000800
	FFCmpChroma            = 256
	FFMBDecisionSimple     = 0
	InputBufferPaddingSize = 8
	SWSBicubic             = 4
	X264RCABR              = 2
)

// ErrNotLoaded is returned by status-returning calls made before Load has
// succeeded. Handle-returning calls return a nil handle instead.
var ErrNotLoaded = errors.New("ffmpeg: library not loaded")

// AVError is a negative libav* status code, returned verbatim.
type AVError int32

func (e AVError) Error() string {
	return fmt.Sprintf("ffmpeg: error %d", int32(e))
}

func check(ret int32) error {
	if ret < 0 {
		return AVError(ret)
	}
	return nil
}

// ready reports whether the symbols are bound. Until then entry points
// answer with the library's failure values and never call through.
func ready() bool { return loaded }

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

// Load loads libstream_ffmpeg. It is safe to call repeatedly; only the
// first call does any work.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadLibrary()
		loaded = loadErr == nil
		if loaded {
			log().WithField("path", lib.Path).Debug("ffmpeg: library loaded")
		}
	})
	return loadErr
}

// Available reports whether the native library could be loaded.
func Available() bool {
	return Load() == nil && loaded
}

// Version returns the libav* version string, or "" when unavailable.
func Version() string {
	if !Available() {
		return ""
	}
	return native.GoString(streamFFmpegVersion())
}

func loadLibrary() error {
	l, err := native.Open("stream_ffmpeg", LibPathEnv)
	if err != nil {
		return err
	}
	if err := l.RegisterSymbols(symbols()); err != nil {
		l.Close()
		return err
	}
	lib = l
	return nil
}
