package h264

import (
	"sync"

	"github.com/pion/rtp"
)

// MaxPayloadSize bounds the RTP payload of every packet. Larger NAL units
// are split into FU-A fragments.
const MaxPayloadSize = 1024

// minPacketizeLength is the smallest access unit worth scanning: a start
// code plus one byte.
const minPacketizeLength = 4

// Packetizer turns Annex-B access units into RTP packets carrying single
// NAL unit packets or FU-A fragments. Sequence numbers start at 0.
type Packetizer struct {
	mu          sync.Mutex
	ssrc        uint32
	payloadType uint8
	sequencer   rtp.Sequencer
}

func NewPacketizer(ssrc uint32, payloadType uint8) *Packetizer {
	return &Packetizer{
		ssrc:        ssrc,
		payloadType: payloadType,
		sequencer:   rtp.NewFixedSequencer(0),
	}
}

// Payloads splits an access unit into RTP payloads in send order.
func Payloads(au []byte) [][]byte {
	if len(au) < minPacketizeLength {
		return nil
	}
	var payloads [][]byte
	for _, nalu := range splitAnnexB(au) {
		payloads = appendNALPayloads(payloads, nalu)
	}
	return payloads
}

func appendNALPayloads(payloads [][]byte, nalu []byte) [][]byte {
	if len(nalu) <= MaxPayloadSize {
		single := make([]byte, len(nalu))
		copy(single, nalu)
		return append(payloads, single)
	}

	// FU indicator keeps F and NRI from the NAL header
	fuIndicator := nalu[0]&0xE0 | nalTypeFUA
	fuHeader := fuStartBit | nalu[0]&0x1F

	rest := nalu[1:]
	const maxFragment = MaxPayloadSize - 2
	for len(rest) > 0 {
		n := len(rest)
		if n > maxFragment {
			n = maxFragment
		} else {
			fuHeader |= fuEndBit
		}
		fua := make([]byte, 2+n)
		fua[0] = fuIndicator
		fua[1] = fuHeader
		copy(fua[2:], rest[:n])
		payloads = append(payloads, fua)

		rest = rest[n:]
		fuHeader &^= fuStartBit
	}
	return payloads
}

// Packetize converts an access unit into RTP packets. All packets carry the
// frame's timestamp; the marker bit is set on the last one.
func (p *Packetizer) Packetize(frame *EncodedFrame) []*rtp.Packet {
	if frame == nil {
		return nil
	}
	payloads := Payloads(frame.Data)
	if len(payloads) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	packets := make([]*rtp.Packet, len(payloads))
	for i, payload := range payloads {
		packets[i] = &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				Marker:         i == len(payloads)-1,
				PayloadType:    p.payloadType,
				SequenceNumber: p.sequencer.NextSequenceNumber(),
				Timestamp:      frame.Timestamp,
				SSRC:           p.ssrc,
			},
			Payload: payload,
		}
	}
	return packets
}

// PacketizeToBytes is Packetize followed by marshaling each packet.
func (p *Packetizer) PacketizeToBytes(frame *EncodedFrame) ([][]byte, error) {
	packets := p.Packetize(frame)
	out := make([][]byte, len(packets))
	for i, pkt := range packets {
		b, err := pkt.Marshal()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func (p *Packetizer) SSRC() uint32        { p.mu.Lock(); defer p.mu.Unlock(); return p.ssrc }
func (p *Packetizer) SetSSRC(ssrc uint32) { p.mu.Lock(); p.ssrc = ssrc; p.mu.Unlock() }
func (p *Packetizer) PayloadType() uint8  { p.mu.Lock(); defer p.mu.Unlock(); return p.payloadType }

// Reset restarts sequence numbering at 0.
func (p *Packetizer) Reset() {
	p.mu.Lock()
	p.sequencer = rtp.NewFixedSequencer(0)
	p.mu.Unlock()
}
