package h264

import (
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
	"github.com/pkg/errors"
)

// Depacketizer reassembles Annex-B access units from RTP packets. Single
// NAL unit, STAP-A and FU-A payloads are accepted.
type Depacketizer struct {
	mu        sync.Mutex
	h264      codecs.H264Packet
	frame     []byte
	frameType FrameType
	timestamp uint32
	started   bool
}

func NewDepacketizer() *Depacketizer {
	return &Depacketizer{}
}

// Depacketize consumes one packet and returns the access unit it completes,
// or nil while the access unit is still incomplete. A timestamp change
// discards any partial access unit.
func (d *Depacketizer) Depacketize(pkt *rtp.Packet) (*EncodedFrame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(pkt.Payload) == 0 {
		return nil, nil
	}
	if d.started && pkt.Timestamp != d.timestamp {
		d.reset()
	}
	d.started = true
	d.timestamp = pkt.Timestamp

	data, err := d.h264.Unmarshal(pkt.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "h264: depacketize")
	}
	if len(data) > 0 {
		d.frame = append(d.frame, data...)
		if ft := frameTypeOf(data); ft == FrameTypeKey || d.frameType == FrameTypeUnknown {
			d.frameType = ft
		}
	}

	if !pkt.Marker || len(d.frame) == 0 {
		return nil, nil
	}
	out := &EncodedFrame{
		Data:      make([]byte, len(d.frame)),
		FrameType: d.frameType,
		Timestamp: d.timestamp,
	}
	copy(out.Data, d.frame)
	d.frame = d.frame[:0]
	d.frameType = FrameTypeUnknown
	return out, nil
}

// DepacketizeBytes unmarshals a raw RTP packet and depacketizes it.
func (d *Depacketizer) DepacketizeBytes(b []byte) (*EncodedFrame, error) {
	var pkt rtp.Packet
	if err := pkt.Unmarshal(b); err != nil {
		return nil, err
	}
	return d.Depacketize(&pkt)
}

func (d *Depacketizer) reset() {
	d.frame = d.frame[:0]
	d.frameType = FrameTypeUnknown
	d.h264 = codecs.H264Packet{}
}

// Reset drops any buffered partial access unit.
func (d *Depacketizer) Reset() {
	d.mu.Lock()
	d.reset()
	d.started = false
	d.mu.Unlock()
}
