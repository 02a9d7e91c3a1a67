package portaudio

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/thesyncim/neomedia/internal/native"
)

// paStreamParameters mirrors PaStreamParameters.
type paStreamParameters struct {
	device                    int32
	channelCount              int32
	sampleFormat              uint64
	suggestedLatency          float64
	hostApiSpecificStreamInfo uintptr
}

// StreamParameters describes one direction of a stream. SuggestedLatency
// is in seconds or one of the Latency sentinels.
type StreamParameters struct {
	Device           int
	ChannelCount     int
	SampleFormat     SampleFormat
	SuggestedLatency float64
}

// NewStreamParameters returns parameters for device.
func NewStreamParameters(device, channelCount int, format SampleFormat, suggestedLatency float64) *StreamParameters {
	return &StreamParameters{
		Device:           device,
		ChannelCount:     channelCount,
		SampleFormat:     format,
		SuggestedLatency: suggestedLatency,
	}
}

// resolveLatency maps the LatencyHigh and LatencyLow sentinels to the
// device's defaults for the given direction.
func resolveLatency(info DeviceInfo, input bool, latency float64) float64 {
	if latency >= 0 {
		return latency
	}
	if info.IsNil() {
		return LatencyUnspecified
	}
	switch {
	case latency == LatencyHigh && input:
		return info.DefaultHighInputLatency()
	case latency == LatencyHigh:
		return info.DefaultHighOutputLatency()
	case latency == LatencyLow && input:
		return info.DefaultLowInputLatency()
	case latency == LatencyLow:
		return info.DefaultLowOutputLatency()
	}
	return LatencyUnspecified
}

func (p *StreamParameters) toNative(info DeviceInfo, input bool) *paStreamParameters {
	if p == nil {
		return nil
	}
	return &paStreamParameters{
		device:           int32(p.Device),
		channelCount:     int32(p.ChannelCount),
		sampleFormat:     uint64(p.SampleFormat),
		suggestedLatency: resolveLatency(info, input, p.SuggestedLatency),
	}
}

func (p *StreamParameters) nativeFor(input bool) *paStreamParameters {
	if p == nil {
		return nil
	}
	return p.toNative(GetDeviceInfo(p.Device), input)
}

func (p *StreamParameters) frameBytes() (int, error) {
	if p == nil {
		return 0, nil
	}
	size, err := SampleSize(p.SampleFormat)
	if err != nil {
		return 0, err
	}
	return size * p.ChannelCount, nil
}

// IsFormatSupported returns nil when PortAudio accepts the combination.
func IsFormatSupported(in, out *StreamParameters, sampleRate float64) error {
	if !loaded {
		return notInitialized()
	}
	nin, nout := in.nativeFor(true), out.nativeFor(false)
	ret := paIsFormatSupported(nin, nout, sampleRate)
	runtime.KeepAlive(nin)
	runtime.KeepAlive(nout)
	return newError(ret)
}

// CallbackResult tells PortAudio whether to keep calling the callback.
type CallbackResult int

const (
	Continue CallbackResult = 0
	Complete CallbackResult = 1
	Abort    CallbackResult = 2
)

// StreamCallback receives audio on PortAudio's thread. The slices alias
// native buffers and are only valid during the call.
type StreamCallback interface {
	Process(input, output []byte) CallbackResult
	Finished()
}

// CallbackFunc adapts a function to StreamCallback.
type CallbackFunc func(input, output []byte) CallbackResult

func (f CallbackFunc) Process(input, output []byte) CallbackResult { return f(input, output) }
func (f CallbackFunc) Finished()                                   {}

// Callback streams are routed through one pair of native trampolines keyed
// by the user-data pointer, since callbacks cannot be freed.
var (
	trampolineOnce      sync.Once
	streamTrampolinePtr uintptr
	finishedTrampoline  uintptr

	activeStreams sync.Map // uintptr -> *Stream
	nextStreamID  atomic.Uintptr
)

func initTrampolines() {
	trampolineOnce.Do(func() {
		streamTrampolinePtr = native.NewCallback(streamTrampoline)
		finishedTrampoline = native.NewCallback(finishedTrampolineFn)
	})
}

func streamTrampoline(input, output, frameCount, timeInfo, statusFlags, userData uintptr) uintptr {
	v, ok := activeStreams.Load(userData)
	if !ok {
		return uintptr(Abort)
	}
	return uintptr(v.(*Stream).process(input, output, int(frameCount)))
}

func finishedTrampolineFn(userData uintptr) uintptr {
	if v, ok := activeStreams.Load(userData); ok {
		v.(*Stream).callback.Finished()
	}
	return 0
}

// Stream is an open PaStream.
type Stream struct {
	h             uintptr
	id            uintptr
	callback      StreamCallback
	inFrameBytes  int
	outFrameBytes int
	closeOnce     sync.Once
}

// OpenStream opens a stream. With a nil callback the stream is blocking and
// is driven with Read and Write.
func OpenStream(in, out *StreamParameters, sampleRate float64, framesPerBuffer int, flags StreamFlags, cb StreamCallback) (*Stream, error) {
	if !loaded {
		return nil, notInitialized()
	}
	inBytes, err := in.frameBytes()
	if err != nil {
		return nil, err
	}
	outBytes, err := out.frameBytes()
	if err != nil {
		return nil, err
	}
	s := &Stream{callback: cb, inFrameBytes: inBytes, outFrameBytes: outBytes}

	var cbPtr uintptr
	if cb != nil {
		initTrampolines()
		s.id = nextStreamID.Add(1)
		activeStreams.Store(s.id, s)
		cbPtr = streamTrampolinePtr
	}

	nin, nout := in.nativeFor(true), out.nativeFor(false)
	var h uintptr
	ret := paOpenStream(&h, nin, nout, sampleRate, uint64(framesPerBuffer), uint64(flags), cbPtr, s.id)
	runtime.KeepAlive(nin)
	runtime.KeepAlive(nout)
	if err := newError(ret); err != nil {
		if cb != nil {
			activeStreams.Delete(s.id)
		}
		return nil, err
	}
	s.h = h

	if cb != nil {
		if err := newError(paSetStreamFinishedCallback(h, finishedTrampoline)); err != nil {
			log().WithError(err).Warn("portaudio: finished callback not installed")
		}
	}

	log().WithFields(logrus.Fields{
		"sample_rate": sampleRate,
		"frames":      framesPerBuffer,
		"callback":    cb != nil,
	}).Debug("portaudio: stream opened")
	return s, nil
}

func (s *Stream) process(input, output uintptr, frames int) CallbackResult {
	var in, out []byte
	if input != 0 && s.inFrameBytes > 0 {
		in = unsafe.Slice((*byte)(unsafe.Pointer(input)), frames*s.inFrameBytes)
	}
	if output != 0 && s.outFrameBytes > 0 {
		out = unsafe.Slice((*byte)(unsafe.Pointer(output)), frames*s.outFrameBytes)
	}
	return s.callback.Process(in, out)
}

// Handle returns the PaStream pointer.
func (s *Stream) Handle() uintptr { return s.h }

func (s *Stream) Start() error { return newError(paStartStream(s.h)) }
func (s *Stream) Stop() error  { return newError(paStopStream(s.h)) }
func (s *Stream) Abort() error { return newError(paAbortStream(s.h)) }

// Close closes the stream. Later calls return nil.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = newError(paCloseStream(s.h))
		if s.callback != nil {
			activeStreams.Delete(s.id)
		}
		s.h = 0
	})
	return err
}

// Read blocks until frames frames have been read into buf.
func (s *Stream) Read(buf []byte, frames int) error {
	if err := checkBuffer(buf, frames, s.inFrameBytes); err != nil {
		return err
	}
	if frames == 0 {
		return nil
	}
	ret := paReadStream(s.h, &buf[0], uint64(frames))
	runtime.KeepAlive(buf)
	return newError(ret)
}

// Write blocks until frames frames from buf have been written.
func (s *Stream) Write(buf []byte, frames int) error {
	if err := checkBuffer(buf, frames, s.outFrameBytes); err != nil {
		return err
	}
	if frames == 0 {
		return nil
	}
	ret := paWriteStream(s.h, &buf[0], uint64(frames))
	runtime.KeepAlive(buf)
	return newError(ret)
}

func checkBuffer(buf []byte, frames, frameBytes int) error {
	if frameBytes == 0 {
		return errors.New("portaudio: stream has no such direction")
	}
	if need := frames * frameBytes; len(buf) < need {
		return errors.Errorf("portaudio: buffer of %d bytes cannot hold %d frames (%d bytes)", len(buf), frames, need)
	}
	return nil
}

// ReadAvailable returns the number of frames that can be read without
// blocking.
func (s *Stream) ReadAvailable() (int, error) {
	n := paGetStreamReadAvailable(s.h)
	if n < 0 {
		return 0, newError(int32(n))
	}
	return int(n), nil
}

// WriteAvailable returns the number of frames that can be written without
// blocking.
func (s *Stream) WriteAvailable() (int, error) {
	n := paGetStreamWriteAvailable(s.h)
	if n < 0 {
		return 0, newError(int32(n))
	}
	return int(n), nil
}
