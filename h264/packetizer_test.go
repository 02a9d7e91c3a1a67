package h264

import (
	"bytes"
	"testing"

	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSPS = []byte{0x67, 0x42, 0xe0, 0x1f, 0xda, 0x02, 0x80, 0xbf, 0xe5, 0x84}
	testPPS = []byte{0x68, 0xce, 0x06, 0xe2}
)

func fill(header byte, n int) []byte {
	nalu := bytes.Repeat([]byte{0xAA}, n)
	nalu[0] = header
	return nalu
}

// annexB joins NAL units with four-byte start codes.
func annexB(nalUnits ...[]byte) []byte {
	var out []byte
	for _, n := range nalUnits {
		out = append(out, 0, 0, 0, 1)
		out = append(out, n...)
	}
	return out
}

func TestSplitAnnexB(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want [][]byte
	}{
		{"empty", nil, nil},
		{"no start code", []byte{0x41, 0x01, 0x02}, nil},
		{"three byte", []byte{0, 0, 1, 0x41, 0xAA}, [][]byte{{0x41, 0xAA}}},
		{"four byte", []byte{0, 0, 0, 1, 0x41, 0xAA, 0, 0, 0, 1, 0x41, 0xBB}, [][]byte{{0x41, 0xAA}, {0x41, 0xBB}}},
		{"trailing zeros dropped", []byte{0, 0, 1, 0x41, 0xAA, 0, 0, 0, 0, 0, 1, 0x41}, [][]byte{{0x41, 0xAA}, {0x41}}},
		{"leading garbage", []byte{0x12, 0x34, 0, 0, 1, 0x65, 0x01}, [][]byte{{0x65, 0x01}}},
		{"empty unit skipped", []byte{0, 0, 1, 0, 0, 1, 0x41}, [][]byte{{0x41}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitAnnexB(tt.in))
		})
	}
}

func TestFrameTypeOf(t *testing.T) {
	assert.Equal(t, FrameTypeKey, frameTypeOf(annexB(testSPS, testPPS, fill(0x65, 20))))
	assert.Equal(t, FrameTypeDelta, frameTypeOf(annexB(fill(0x41, 20))))
	assert.Equal(t, FrameTypeUnknown, frameTypeOf(annexB(testSPS)))
	assert.Equal(t, "key", FrameTypeKey.String())
}

func TestPayloadsSingleNAL(t *testing.T) {
	au := annexB(testSPS, testPPS, fill(0x65, MaxPayloadSize))
	payloads := Payloads(au)
	require.Len(t, payloads, 3)
	assert.Equal(t, testSPS, payloads[0])
	assert.Equal(t, testPPS, payloads[1])
	assert.Len(t, payloads[2], MaxPayloadSize)
}

func TestPayloadsFragmentation(t *testing.T) {
	nalu := fill(0x65, 3000)
	payloads := Payloads(annexB(nalu))

	// 2999 bytes after the NAL header, 1022 per fragment
	require.Len(t, payloads, 3)
	assert.Len(t, payloads[0], MaxPayloadSize)
	assert.Len(t, payloads[1], MaxPayloadSize)
	assert.Len(t, payloads[2], 2+2999-2*1022)

	for _, p := range payloads {
		assert.Equal(t, byte(0x7C), p[0], "FU indicator keeps NRI, type 28")
	}
	assert.Equal(t, byte(0x85), payloads[0][1])
	assert.Equal(t, byte(0x05), payloads[1][1])
	assert.Equal(t, byte(0x45), payloads[2][1])

	var rebuilt []byte
	rebuilt = append(rebuilt, payloads[0][0]&0xE0|payloads[0][1]&0x1F)
	for _, p := range payloads {
		rebuilt = append(rebuilt, p[2:]...)
	}
	assert.Equal(t, nalu, rebuilt)
}

func TestPayloadsTooShort(t *testing.T) {
	assert.Nil(t, Payloads([]byte{0, 0, 1}))
	assert.Nil(t, Payloads(nil))
}

func TestPacketizerHeaders(t *testing.T) {
	p := NewPacketizer(0x1234, 99)
	frame := &EncodedFrame{
		Data:      annexB(testSPS, testPPS, fill(0x65, 2500)),
		Timestamp: 9000,
	}

	packets := p.Packetize(frame)
	require.Len(t, packets, 5)
	for i, pkt := range packets {
		assert.Equal(t, uint16(i), pkt.SequenceNumber)
		assert.Equal(t, uint32(9000), pkt.Timestamp)
		assert.Equal(t, uint32(0x1234), pkt.SSRC)
		assert.Equal(t, uint8(99), pkt.PayloadType)
		assert.Equal(t, uint8(2), pkt.Version)
		assert.Equal(t, i == len(packets)-1, pkt.Marker)
		assert.LessOrEqual(t, len(pkt.Payload), MaxPayloadSize)
	}

	next := p.Packetize(&EncodedFrame{Data: annexB(fill(0x41, 10)), Timestamp: 15000})
	require.Len(t, next, 1)
	assert.Equal(t, uint16(5), next[0].SequenceNumber)
	assert.True(t, next[0].Marker)

	p.Reset()
	again := p.Packetize(&EncodedFrame{Data: annexB(fill(0x41, 10))})
	assert.Equal(t, uint16(0), again[0].SequenceNumber)

	assert.Nil(t, p.Packetize(nil))
	assert.Nil(t, p.Packetize(&EncodedFrame{Data: []byte{1, 2}}))
}

func TestPacketizerRoundTrip(t *testing.T) {
	p := NewPacketizer(1, 96)
	d := NewDepacketizer()

	au := annexB(testSPS, testPPS, fill(0x65, 4000))
	raw, err := p.PacketizeToBytes(&EncodedFrame{Data: au, Timestamp: 3000})
	require.NoError(t, err)

	var got *EncodedFrame
	for i, b := range raw {
		f, err := d.DepacketizeBytes(b)
		require.NoError(t, err)
		if i < len(raw)-1 {
			assert.Nil(t, f)
		}
		got = f
	}
	require.NotNil(t, got)
	assert.Equal(t, au, got.Data)
	assert.Equal(t, FrameTypeKey, got.FrameType)
	assert.Equal(t, uint32(3000), got.Timestamp)

	delta := annexB(fill(0x41, 300))
	packets := p.Packetize(&EncodedFrame{Data: delta, Timestamp: 6000})
	require.Len(t, packets, 1)
	f, err := d.Depacketize(packets[0])
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, delta, f.Data)
	assert.Equal(t, FrameTypeDelta, f.FrameType)
}

func TestDepacketizerDropsPartialFrameOnTimestampChange(t *testing.T) {
	p := NewPacketizer(1, 96)
	d := NewDepacketizer()

	first := p.Packetize(&EncodedFrame{Data: annexB(fill(0x65, 3000)), Timestamp: 100})
	require.Greater(t, len(first), 1)
	f, err := d.Depacketize(first[0])
	require.NoError(t, err)
	assert.Nil(t, f)

	second := p.Packetize(&EncodedFrame{Data: annexB(fill(0x41, 50)), Timestamp: 200})
	f, err = d.Depacketize(second[0])
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, annexB(fill(0x41, 50)), f.Data)
	assert.Equal(t, uint32(200), f.Timestamp)
}

func TestDepacketizerIgnoresEmptyPayload(t *testing.T) {
	d := NewDepacketizer()
	f, err := d.Depacketize(&rtp.Packet{Header: rtp.Header{Marker: true}})
	assert.NoError(t, err)
	assert.Nil(t, f)

	_, err = d.DepacketizeBytes([]byte{0x80})
	assert.Error(t, err)
}
