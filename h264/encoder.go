package h264

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/thesyncim/neomedia/ffmpeg"
)

// Encoder defaults
const (
	DefaultFrameRate  = 15
	DefaultBitRate    = 128000
	KeyFrameInterval  = 150
	minInputLength    = 10
	defaultRCEquation = "blurCplx^(1-qComp)"
)

var (
	ErrEncoderClosed = errors.New("h264: encoder closed")
	ErrShortFrame    = errors.New("h264: input shorter than one YUV420 picture")
)

// EncoderConfig configures an Encoder.
type EncoderConfig struct {
	Width     int
	Height    int
	FrameRate int // frames per second, DefaultFrameRate when zero
	BitRate   int // bits per second, DefaultBitRate when zero
	Logger    logrus.FieldLogger

	// now is the clock used for PLI rate limiting.
	now func() time.Time
}

func (c *EncoderConfig) setDefaults() {
	if c.FrameRate <= 0 {
		c.FrameRate = DefaultFrameRate
	}
	if c.BitRate <= 0 {
		c.BitRate = DefaultBitRate
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
}

// EncoderStats counts encoder activity.
type EncoderStats struct {
	FramesEncoded    uint64
	KeyFramesEncoded uint64
	BytesEncoded     uint64
	FramesDiscarded  uint64
	FramesBuffered   uint64
}

// Encoder encodes planar YUV 4:2:0 pictures into H.264 access units with
// libavcodec, tuned for low-latency conferencing.
type Encoder struct {
	config EncoderConfig
	log    logrus.FieldLogger

	mu     sync.Mutex
	ctx    ffmpeg.CodecContext
	frame  ffmpeg.Frame
	raw    ffmpeg.Ptr
	rawLen int
	out    []byte
	keys   *keyFramePolicy

	statsMu sync.Mutex
	stats   EncoderStats
}

// NewEncoder opens libavcodec's H.264 encoder for the configured size.
func NewEncoder(config EncoderConfig) (*Encoder, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, errors.Errorf("h264: invalid size %dx%d", config.Width, config.Height)
	}
	config.setDefaults()
	if err := ffmpeg.Load(); err != nil {
		return nil, errors.Wrap(err, "h264: encoder not available")
	}

	codec := ffmpeg.FindEncoder(ffmpeg.CodecIDH264())
	if codec.IsNil() {
		return nil, errors.New("h264: libavcodec has no H.264 encoder")
	}
	ctx := ffmpeg.AllocContext()
	if ctx.IsNil() {
		return nil, errors.New("h264: failed to allocate codec context")
	}
	configureEncoder(ctx, config)
	if err := ctx.Open(codec); err != nil {
		ctx.Free()
		return nil, errors.Wrapf(err, "h264: could not open codec (size=%dx%d)", config.Width, config.Height)
	}

	w, h := config.Width, config.Height
	e := &Encoder{
		config: config,
		log: config.Logger.WithFields(logrus.Fields{
			"codec":  "h264",
			"width":  w,
			"height": h,
		}),
		ctx:    ctx,
		rawLen: w * h * 3 / 2,
		keys:   newKeyFramePolicy(config.now),
	}
	e.raw = ffmpeg.Malloc(e.rawLen)
	e.frame = ffmpeg.AllocFrame()
	if e.raw.IsNil() || e.frame.IsNil() {
		_ = ctx.Close()
		e.release()
		return nil, errors.New("h264: out of native memory")
	}
	e.frame.SetData(e.raw, w*h, w*h/4)
	e.frame.SetLinesize(w, w/2, w/2)
	e.out = make([]byte, e.rawLen)

	e.log.WithFields(logrus.Fields{
		"fps":     config.FrameRate,
		"bitrate": config.BitRate,
	}).Debug("h264: encoder opened")
	return e, nil
}

func configureEncoder(ctx ffmpeg.CodecContext, c EncoderConfig) {
	ctx.SetPixFmt(ffmpeg.PixFmtYUV420P())
	ctx.SetSize(c.Width, c.Height)
	ctx.SetQCompress(0.6)

	ctx.SetBitRate(c.BitRate)
	// a tolerance of one frame's worth of bits
	ctx.SetBitRateTolerance(c.BitRate / c.FrameRate)
	ctx.SetRCMaxRate(c.BitRate)
	ctx.SetSampleAspectRatio(0, 0)
	ctx.SetThreadCount(1)
	ctx.SetTimeBase(1, c.FrameRate)
	ctx.SetTicksPerFrame(2)
	ctx.SetQuantizer(30, 31, 4)

	// X264_PART_I4X4 | X264_PART_P8X8 | X264_PART_B8X8
	ctx.AddPartitions(0x111)
	ctx.SetMBDecision(ffmpeg.FFMBDecisionSimple)
	ctx.SetRCEq(defaultRCEquation)
	ctx.AddFlags(ffmpeg.CodecFlagLoopFilter)
	ctx.SetMEMethod(7)
	ctx.SetMESubpelQuality(2)
	ctx.SetMERange(16)
	ctx.SetMECmp(ffmpeg.FFCmpChroma)
	ctx.SetScenechangeThreshold(40)
	ctx.SetCRF(0)
	ctx.SetRCBufferSize(10)
	ctx.SetGOPSize(KeyFrameInterval)
	ctx.SetIQuantFactor(1 / 1.4)
	ctx.SetRefs(1)
}

// InputSize is the number of bytes Encode reads from each picture.
func (e *Encoder) InputSize() int { return e.rawLen }

func (e *Encoder) Config() EncoderConfig { return e.config }

// Encode encodes one YUV 4:2:0 picture (Y plane, then U, then V) and
// returns the access unit stamped with timestamp. It returns nil without
// error when the input is discarded (shorter than 10 bytes) or when the
// encoder buffered the picture.
func (e *Encoder) Encode(yuv []byte, timestamp uint32) (*EncodedFrame, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx.IsNil() {
		return nil, ErrEncoderClosed
	}
	if len(yuv) < minInputLength {
		e.countDiscarded()
		return nil, nil
	}
	if len(yuv) < e.rawLen {
		return nil, errors.Wrapf(ErrShortFrame, "got %d bytes, want %d", len(yuv), e.rawLen)
	}

	ffmpeg.CopyToNative(e.raw, yuv[:e.rawLen])
	forced := e.keys.next()
	e.frame.SetKeyFrame(forced)

	n, err := e.ctx.EncodeVideo(e.out, e.frame)
	if err != nil {
		return nil, errors.Wrap(err, "h264: encode")
	}
	if n == 0 {
		e.statsMu.Lock()
		e.stats.FramesBuffered++
		e.statsMu.Unlock()
		return nil, nil
	}

	data := make([]byte, n)
	copy(data, e.out[:n])
	ft := frameTypeOf(data)
	if ft == FrameTypeUnknown && forced {
		ft = FrameTypeKey
	}

	e.statsMu.Lock()
	e.stats.FramesEncoded++
	if ft == FrameTypeKey {
		e.stats.KeyFramesEncoded++
	}
	e.stats.BytesEncoded += uint64(n)
	e.statsMu.Unlock()

	return &EncodedFrame{
		Data:      data,
		FrameType: ft,
		Timestamp: timestamp,
		Duration:  time.Second / time.Duration(e.config.FrameRate),
	}, nil
}

func (e *Encoder) countDiscarded() {
	e.statsMu.Lock()
	e.stats.FramesDiscarded++
	e.statsMu.Unlock()
}

// RequestKeyFrame handles a picture loss indication. It reports whether
// the request was accepted; requests arriving within PLIInterval of the
// last accepted one are dropped.
func (e *Encoder) RequestKeyFrame() bool {
	ok := e.keys.request()
	e.log.WithField("accepted", ok).Debug("h264: key frame requested")
	return ok
}

func (e *Encoder) Stats() EncoderStats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	return e.stats
}

// Close releases the codec context and native buffers. It is safe to call
// more than once.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctx.IsNil() {
		return nil
	}
	err := e.ctx.Close()
	e.release()
	e.log.Debug("h264: encoder closed")
	return errors.Wrap(err, "h264: close encoder")
}

func (e *Encoder) release() {
	e.ctx.Free()
	e.ctx = ffmpeg.CodecContext{}
	e.frame.Free()
	e.frame = ffmpeg.Frame{}
	e.raw.Free()
	e.raw = ffmpeg.Ptr{}
	e.out = nil
}
