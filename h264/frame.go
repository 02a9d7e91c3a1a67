// Package h264 provides the H.264 encoder, decoder and RTP (RFC 3984)
// packetization used by the video pipeline. Encoding and decoding run in
// libavcodec through the ffmpeg package.
package h264

import "time"

// ClockRate is the RTP clock rate for H.264 video.
const ClockRate = 90000

// FrameType classifies an encoded access unit.
type FrameType int

const (
	FrameTypeUnknown FrameType = iota
	FrameTypeKey
	FrameTypeDelta
)

func (t FrameType) String() string {
	switch t {
	case FrameTypeKey:
		return "key"
	case FrameTypeDelta:
		return "delta"
	default:
		return "unknown"
	}
}

// EncodedFrame is one Annex-B access unit.
type EncodedFrame struct {
	Data      []byte
	FrameType FrameType
	Timestamp uint32 // RTP timestamp, 90 kHz
	Duration  time.Duration
}

// NAL unit types
const (
	nalTypeSlice = 1
	nalTypeIDR   = 5
	nalTypeSEI   = 6
	nalTypeSPS   = 7
	nalTypePPS   = 8
	nalTypeSTAPA = 24
	nalTypeFUA   = 28
)

const (
	fuStartBit = 0x80
	fuEndBit   = 0x40
)

// findStartCode returns the index of the next 00 00 01 at or after from,
// or len(data) when there is none.
func findStartCode(data []byte, from int) int {
	for i := from; i+3 <= len(data); i++ {
		if data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 {
			return i
		}
	}
	return len(data)
}

// splitAnnexB splits an Annex-B byte stream into NAL units. Trailing zero
// bytes are dropped from each unit, which also removes the leading zero of
// a four-byte start code.
func splitAnnexB(data []byte) [][]byte {
	var nalUnits [][]byte
	begin := findStartCode(data, 0)
	for begin < len(data) {
		begin += 3
		next := findStartCode(data, begin)
		nalu := data[begin:next]
		for len(nalu) > 0 && nalu[len(nalu)-1] == 0 {
			nalu = nalu[:len(nalu)-1]
		}
		if len(nalu) > 0 {
			nalUnits = append(nalUnits, nalu)
		}
		begin = next
	}
	return nalUnits
}

// frameTypeOf reports FrameTypeKey when the access unit holds an IDR slice.
func frameTypeOf(data []byte) FrameType {
	ft := FrameTypeUnknown
	for _, nalu := range splitAnnexB(data) {
		switch nalu[0] & 0x1F {
		case nalTypeIDR:
			return FrameTypeKey
		case nalTypeSlice:
			ft = FrameTypeDelta
		}
	}
	return ft
}
