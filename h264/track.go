package h264

import (
	"time"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/pkg/errors"
)

// Codec is the capability advertised for tracks carrying this package's
// output: packetization mode 1 (FU-A), constrained baseline.
var Codec = webrtc.RTPCodecCapability{
	MimeType:    webrtc.MimeTypeH264,
	ClockRate:   ClockRate,
	SDPFmtpLine: "level-asymmetry-allowed=1;packetization-mode=1;profile-level-id=42e01f",
}

// TrackWriter writes encoded frames to a WebRTC track. pion packetizes the
// samples itself.
type TrackWriter struct {
	track    *webrtc.TrackLocalStaticSample
	duration time.Duration
}

// NewTrackWriter creates a sample track in streamID with a random track id.
// frameRate sets the sample duration for frames that carry none.
func NewTrackWriter(streamID string, frameRate int) (*TrackWriter, error) {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	track, err := webrtc.NewTrackLocalStaticSample(Codec, uuid.NewString(), streamID)
	if err != nil {
		return nil, errors.Wrap(err, "h264: create sample track")
	}
	return &TrackWriter{
		track:    track,
		duration: time.Second / time.Duration(frameRate),
	}, nil
}

// Track is the local track to add to a peer connection.
func (w *TrackWriter) Track() *webrtc.TrackLocalStaticSample { return w.track }

func (w *TrackWriter) WriteFrame(f *EncodedFrame) error {
	if f == nil || len(f.Data) == 0 {
		return nil
	}
	d := f.Duration
	if d <= 0 {
		d = w.duration
	}
	return w.track.WriteSample(media.Sample{Data: f.Data, Duration: d})
}

// RTPTrackWriter writes frames through this package's Packetizer to an RTP
// track, keeping the 1024-byte payload limit on the wire.
type RTPTrackWriter struct {
	track      *webrtc.TrackLocalStaticRTP
	packetizer *Packetizer
}

func NewRTPTrackWriter(streamID string, payloadType uint8) (*RTPTrackWriter, error) {
	track, err := webrtc.NewTrackLocalStaticRTP(Codec, uuid.NewString(), streamID)
	if err != nil {
		return nil, errors.Wrap(err, "h264: create RTP track")
	}
	return &RTPTrackWriter{
		track:      track,
		packetizer: NewPacketizer(uuid.New().ID(), payloadType),
	}, nil
}

func (w *RTPTrackWriter) Track() *webrtc.TrackLocalStaticRTP { return w.track }

func (w *RTPTrackWriter) WriteFrame(f *EncodedFrame) error {
	for _, pkt := range w.packetizer.Packetize(f) {
		if err := w.track.WriteRTP(pkt); err != nil {
			return errors.Wrap(err, "h264: write RTP")
		}
	}
	return nil
}
