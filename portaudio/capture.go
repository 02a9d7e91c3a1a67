package portaudio

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CaptureOptions tune OpenCapture.
type CaptureOptions struct {
	// SuggestedLatency in seconds, or a Latency sentinel.
	SuggestedLatency float64
	Denoise          bool
	EchoCancel       bool
	EchoFilterLength time.Duration
	// Playback is the stream whose output is cancelled from the capture.
	Playback *Stream
}

// ErrCaptureClosed is returned by a Capture used after Close.
var ErrCaptureClosed = errors.New("portaudio: capture closed")

// Capture is a blocking input stream read one buffer at a time.
type Capture struct {
	mu              sync.Mutex
	stream          *Stream
	framesPerBuffer int
	bytesPerBuffer  int
	sequence        uint64
}

// framesPerBuffer returns the frame count of one DefaultMillisPerBuffer
// buffer. The channel division matches what existing callers size their
// buffers against.
func framesPerBuffer(sampleRate float64, channels int) int {
	return int(sampleRate * DefaultMillisPerBuffer / float64(channels*1000))
}

// OpenCapture opens device for 20 ms blocking reads of signed little-endian
// samples.
func OpenCapture(device int, sampleRate float64, channels, bits int, opts CaptureOptions) (*Capture, error) {
	format := SampleFormatForBits(bits)
	if format == 0 {
		return nil, errors.Errorf("portaudio: unsupported sample size %d bits", bits)
	}
	if channels <= 0 {
		return nil, errors.Errorf("portaudio: invalid channel count %d", channels)
	}
	frames := framesPerBuffer(sampleRate, channels)

	params := NewStreamParameters(device, channels, format, opts.SuggestedLatency)
	stream, err := OpenStream(params, nil, sampleRate, frames, ClipOff|DitherOff, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open capture device %d", device)
	}

	c := &Capture{
		stream:          stream,
		framesPerBuffer: frames,
		bytesPerBuffer:  stream.inFrameBytes * frames,
	}

	if opts.Denoise || opts.EchoCancel {
		var filter int
		if opts.EchoCancel {
			filter = int(sampleRate * opts.EchoFilterLength.Seconds())
		}
		err := SetEchoCancelParams(stream, opts.Playback, opts.Denoise, opts.EchoCancel, frames, filter)
		if err != nil {
			log().WithError(err).Debug("portaudio: audio processing disabled")
		}
	}

	log().WithFields(logrus.Fields{
		"device":      device,
		"sample_rate": sampleRate,
		"channels":    channels,
		"bits":        bits,
		"frames":      frames,
	}).Debug("portaudio: capture opened")
	return c, nil
}

// BytesPerBuffer is the size Read fills.
func (c *Capture) BytesPerBuffer() int { return c.bytesPerBuffer }

// FramesPerBuffer is the number of frames one Read returns.
func (c *Capture) FramesPerBuffer() int { return c.framesPerBuffer }

// Stream returns the underlying stream, e.g. to pair it for echo
// cancellation.
func (c *Capture) Stream() *Stream {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream
}

func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return ErrCaptureClosed
	}
	return c.stream.Start()
}

func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return nil
	}
	return c.stream.Stop()
}

// Read blocks for one buffer and returns it with its sequence number. buf is
// reused when it is large enough.
func (c *Capture) Read(buf []byte) ([]byte, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return buf[:0], 0, ErrCaptureClosed
	}
	if cap(buf) < c.bytesPerBuffer {
		buf = make([]byte, c.bytesPerBuffer)
	}
	buf = buf[:c.bytesPerBuffer]
	if err := c.stream.Read(buf, c.framesPerBuffer); err != nil {
		return buf[:0], 0, err
	}
	seq := c.sequence
	c.sequence++
	return buf, seq, nil
}

// Close waits for an in-flight Read and closes the stream.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return nil
	}
	err := c.stream.Close()
	c.stream = nil
	return err
}
