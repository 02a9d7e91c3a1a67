package h264

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/thesyncim/neomedia/ffmpeg"
)

var ErrDecoderClosed = errors.New("h264: decoder closed")

// Picture is a decoded frame as packed 32-bit RGB pixels (ffmpeg's RGB32,
// which is native-endian ARGB).
type Picture struct {
	Width  int
	Height int
	Pix    []byte
}

// Decoder decodes H.264 access units and converts the pictures to RGB32.
type Decoder struct {
	log logrus.FieldLogger

	mu     sync.Mutex
	ctx    ffmpeg.CodecContext
	frame  ffmpeg.Frame
	sws    ffmpeg.SwsContext
	in     []byte
	width  int
	height int
}

// NewDecoder opens libavcodec's H.264 decoder. A nil logger uses the
// standard logrus logger.
func NewDecoder(logger logrus.FieldLogger) (*Decoder, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := ffmpeg.Load(); err != nil {
		return nil, errors.Wrap(err, "h264: decoder not available")
	}
	codec := ffmpeg.FindDecoder(ffmpeg.CodecIDH264())
	if codec.IsNil() {
		return nil, errors.New("h264: libavcodec has no H.264 decoder")
	}
	ctx := ffmpeg.AllocContext()
	if ctx.IsNil() {
		return nil, errors.New("h264: failed to allocate codec context")
	}
	ctx.SetWorkaroundBugs(1)
	if err := ctx.Open(codec); err != nil {
		ctx.Free()
		return nil, errors.Wrap(err, "h264: could not open decoder")
	}
	frame := ffmpeg.AllocFrame()
	if frame.IsNil() {
		_ = ctx.Close()
		ctx.Free()
		return nil, errors.New("h264: out of native memory")
	}
	d := &Decoder{
		log:   logger.WithField("codec", "h264"),
		ctx:   ctx,
		frame: frame,
	}
	d.log.Debug("h264: decoder opened")
	return d, nil
}

// Decode decodes one Annex-B access unit. It returns nil without error
// when the decoder produced no picture for this input.
func (d *Decoder) Decode(au []byte) (*Picture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx.IsNil() {
		return nil, ErrDecoderClosed
	}
	if len(au) == 0 {
		return nil, nil
	}

	// libavcodec may read past the payload; the tail must be zeroed.
	need := len(au) + ffmpeg.InputBufferPaddingSize
	if cap(d.in) < need {
		d.in = make([]byte, need)
	}
	d.in = d.in[:need]
	copy(d.in, au)
	clear(d.in[len(au):])

	_, got, err := d.ctx.DecodeVideo(d.frame, d.in[:len(au)])
	if err != nil {
		return nil, errors.Wrap(err, "h264: decode")
	}
	if !got {
		return nil, nil
	}

	w, h := d.ctx.Width(), d.ctx.Height()
	if w != d.width || h != d.height {
		d.log.WithFields(logrus.Fields{"width": w, "height": h}).Debug("h264: stream size changed")
		d.width, d.height = w, h
	}

	rgb := ffmpeg.PixFmtRGB32()
	d.sws = ffmpeg.GetCachedContext(d.sws, w, h, d.ctx.PixFmt(), w, h, rgb, ffmpeg.SWSBicubic)
	if d.sws.IsNil() {
		return nil, errors.Errorf("h264: no conversion from pixel format %d", d.ctx.PixFmt())
	}
	size, err := ffmpeg.PictureSize(rgb, w, h)
	if err != nil {
		return nil, errors.Wrap(err, "h264: picture size")
	}
	pix := make([]byte, size)
	if _, err := d.sws.ScalePicture(d.frame, 0, h, pix, rgb, w, h); err != nil {
		return nil, errors.Wrap(err, "h264: convert to RGB32")
	}
	return &Picture{Width: w, Height: h, Pix: pix}, nil
}

// Size returns the dimensions of the last decoded picture.
func (d *Decoder) Size() (width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

func (d *Decoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx.IsNil() {
		return nil
	}
	err := d.ctx.Close()
	d.ctx.Free()
	d.ctx = ffmpeg.CodecContext{}
	d.frame.Free()
	d.frame = ffmpeg.Frame{}
	d.sws.Free()
	d.sws = ffmpeg.SwsContext{}
	d.in = nil
	return errors.Wrap(err, "h264: close decoder")
}
