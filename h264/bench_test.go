package h264

import (
	"testing"

	"github.com/thesyncim/neomedia/ffmpeg"
)

// BenchmarkPuregoCallOverhead measures the cost of crossing into
// libstream_ffmpeg.
func BenchmarkPuregoCallOverhead(b *testing.B) {
	if !ffmpeg.Available() {
		b.Skip("libstream_ffmpeg not available")
	}

	b.Run("PixFmt", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = ffmpeg.PixFmtYUV420P()
		}
	})

	b.Run("CreateDestroy", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			enc, err := NewEncoder(EncoderConfig{Width: 176, Height: 144})
			if err != nil {
				b.Skip(err)
			}
			enc.Close()
		}
	})

	b.Run("EncodeFrame", func(b *testing.B) {
		enc, err := NewEncoder(EncoderConfig{Width: 352, Height: 288})
		if err != nil {
			b.Skip(err)
		}
		defer enc.Close()

		yuv := grey(352, 288)
		b.SetBytes(int64(len(yuv)))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := enc.Encode(yuv, uint32(i*6000)); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkPacketize(b *testing.B) {
	p := NewPacketizer(1, 96)
	frame := &EncodedFrame{Data: annexB(testSPS, testPPS, fill(0x65, 20000))}
	b.SetBytes(int64(len(frame.Data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = p.Packetize(frame)
	}
}
