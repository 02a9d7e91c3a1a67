package portaudio

import "github.com/pkg/errors"

// ErrEchoCancelUnavailable is returned when libportaudio was built without
// the echo cancellation extension.
var ErrEchoCancelUnavailable = errors.New("portaudio: echo cancellation not available in this libportaudio")

// SetEchoCancelParams pairs a capture stream with the playback stream whose
// signal should be cancelled from it. Either stream may be nil. frameSize
// and filterLength are in samples.
func SetEchoCancelParams(in, out *Stream, denoise, echoCancel bool, frameSize, filterLength int) error {
	if paSetEchoCancelParams == nil {
		return ErrEchoCancelUnavailable
	}
	paSetEchoCancelParams(streamHandle(in), streamHandle(out),
		boolInt(denoise), boolInt(echoCancel), int32(frameSize), int32(filterLength))
	return nil
}

func streamHandle(s *Stream) uintptr {
	if s == nil {
		return 0
	}
	return s.h
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
