package ffmpeg

import "runtime"

// RegisterAll and InitCodec are kept for callers written against the
// pre-4.0 API; registration is implicit in current libavcodec.
func RegisterAll() {
	if ready() {
		streamFFmpegAvRegisterAll()
	}
}

func InitCodec() {
	if ready() {
		streamFFmpegAvcodecInit()
	}
}

// FindDecoder returns the decoder for id, or a nil Codec.
func FindDecoder(id int) Codec {
	if !ready() {
		return Codec{}
	}
	return Codec{streamFFmpegFindDecoder(int32(id))}
}

// FindEncoder returns the encoder for id, or a nil Codec.
func FindEncoder(id int) Codec {
	if !ready() {
		return Codec{}
	}
	return Codec{streamFFmpegFindEncoder(int32(id))}
}

// CodecIDH264 returns AV_CODEC_ID_H264 as compiled into the library, or
// AV_CODEC_ID_NONE (0) when it is not loaded.
func CodecIDH264() int {
	if !ready() {
		return 0
	}
	return int(streamFFmpegCodecIDH264())
}

// AllocContext allocates a codec context with default values.
func AllocContext() CodecContext {
	if !ready() {
		return CodecContext{}
	}
	return CodecContext{streamFFmpegAllocContext()}
}

// Open opens the context with codec.
func (c CodecContext) Open(codec Codec) error {
	if !ready() {
		return ErrNotLoaded
	}
	return check(streamFFmpegOpen(c.h, codec.h))
}

// Close closes an opened context. The context must still be freed.
func (c CodecContext) Close() error {
	if !ready() {
		return ErrNotLoaded
	}
	return check(streamFFmpegClose(c.h))
}

// Free releases the context.
func (c CodecContext) Free() {
	if c.h != 0 && ready() {
		streamFFmpegFreeContext(c.h)
	}
}

// DecodeVideo decodes one access unit from buf into frame. buf must carry
// InputBufferPaddingSize zero bytes past its payload length n, so callers
// pass buf[:n] from a larger slice. An empty buf is passed as NULL, which
// flushes a delayed picture.
func (c CodecContext) DecodeVideo(frame Frame, buf []byte) (n int, gotPicture bool, err error) {
	if !ready() {
		return 0, false, ErrNotLoaded
	}
	var got int32
	ret := streamFFmpegDecodeVideo(c.h, frame.h, &got, first(buf), int32(len(buf)))
	runtime.KeepAlive(buf)
	if err := check(ret); err != nil {
		return 0, false, err
	}
	return int(ret), got != 0, nil
}

// EncodeVideo encodes frame into buf and returns the number of bytes
// written. Zero means the encoder buffered the frame. An empty buf is
// passed as NULL and left to libavcodec to reject.
func (c CodecContext) EncodeVideo(buf []byte, frame Frame) (int, error) {
	if !ready() {
		return 0, ErrNotLoaded
	}
	ret := streamFFmpegEncodeVideo(c.h, first(buf), int32(len(buf)), frame.h)
	runtime.KeepAlive(buf)
	if err := check(ret); err != nil {
		return 0, err
	}
	return int(ret), nil
}

// first returns the address of b's first byte, or nil for an empty slice.
func first(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}

func setInt(fn func(uintptr, int32), h uintptr, v int) {
	if ready() {
		fn(h, int32(v))
	}
}

func setFloat(fn func(uintptr, float32), h uintptr, v float32) {
	if ready() {
		fn(h, v)
	}
}

func getInt(fn func(uintptr) int32, h uintptr) int {
	if !ready() {
		return 0
	}
	return int(fn(h))
}

func (c CodecContext) AddFlags(flags int) { setInt(streamFFmpegAddFlags, c.h, flags) }
func (c CodecContext) AddPartitions(partitions int) {
	setInt(streamFFmpegAddPartitions, c.h, partitions)
}

func (c CodecContext) Width() int  { return getInt(streamFFmpegGetWidth, c.h) }
func (c CodecContext) Height() int { return getInt(streamFFmpegGetHeight, c.h) }

// PixFmt returns the context's pixel format, or AV_PIX_FMT_NONE (-1) when
// the library is not loaded.
func (c CodecContext) PixFmt() int {
	if !ready() {
		return -1
	}
	return int(streamFFmpegGetPixFmt(c.h))
}

func (c CodecContext) SetBFrameStrategy(v int)   { setInt(streamFFmpegSetBFrameStrategy, c.h, v) }
func (c CodecContext) SetBitRate(v int)          { setInt(streamFFmpegSetBitRate, c.h, v) }
func (c CodecContext) SetBitRateTolerance(v int) { setInt(streamFFmpegSetBitRateTolerance, c.h, v) }
func (c CodecContext) SetChromaOffset(v int)     { setInt(streamFFmpegSetChromaOffset, c.h, v) }
func (c CodecContext) SetCRF(v float32)          { setFloat(streamFFmpegSetCRF, c.h, v) }
func (c CodecContext) SetDeblockBeta(v int)      { setInt(streamFFmpegSetDeblockBeta, c.h, v) }
func (c CodecContext) SetGOPSize(v int)          { setInt(streamFFmpegSetGOPSize, c.h, v) }
func (c CodecContext) SetIQuantFactor(v float32) { setFloat(streamFFmpegSetIQuantFactor, c.h, v) }
func (c CodecContext) SetMaxBFrames(v int)       { setInt(streamFFmpegSetMaxBFrames, c.h, v) }
func (c CodecContext) SetMBDecision(v int)       { setInt(streamFFmpegSetMBDecision, c.h, v) }
func (c CodecContext) SetMECmp(v int)            { setInt(streamFFmpegSetMECmp, c.h, v) }
func (c CodecContext) SetMEMethod(v int)         { setInt(streamFFmpegSetMEMethod, c.h, v) }
func (c CodecContext) SetMERange(v int)          { setInt(streamFFmpegSetMERange, c.h, v) }
func (c CodecContext) SetMESubpelQuality(v int)  { setInt(streamFFmpegSetMESubpelQuality, c.h, v) }
func (c CodecContext) SetPixFmt(v int)           { setInt(streamFFmpegSetPixFmt, c.h, v) }
func (c CodecContext) SetQCompress(v float32)    { setFloat(streamFFmpegSetQCompress, c.h, v) }
func (c CodecContext) SetRCBufferSize(v int)     { setInt(streamFFmpegSetRCBufferSize, c.h, v) }
func (c CodecContext) SetRCMaxRate(v int)        { setInt(streamFFmpegSetRCMaxRate, c.h, v) }
func (c CodecContext) SetRefs(v int)             { setInt(streamFFmpegSetRefs, c.h, v) }
func (c CodecContext) SetRTPPayloadSize(v int)   { setInt(streamFFmpegSetRTPPayloadSize, c.h, v) }
func (c CodecContext) SetScenechangeThreshold(v int) {
	setInt(streamFFmpegSetScenechangeThreshold, c.h, v)
}
func (c CodecContext) SetThreadCount(v int)    { setInt(streamFFmpegSetThreadCount, c.h, v) }
func (c CodecContext) SetTicksPerFrame(v int)  { setInt(streamFFmpegSetTicksPerFrame, c.h, v) }
func (c CodecContext) SetTrellis(v int)        { setInt(streamFFmpegSetTrellis, c.h, v) }
func (c CodecContext) SetWorkaroundBugs(v int) { setInt(streamFFmpegSetWorkaroundBugs, c.h, v) }

func (c CodecContext) SetRCEq(eq string) {
	if ready() {
		streamFFmpegSetRCEq(c.h, eq)
	}
}

// SetQuantizer sets qmin, qmax and max_qdiff.
func (c CodecContext) SetQuantizer(qmin, qmax, maxQDiff int) {
	if ready() {
		streamFFmpegSetQuantizer(c.h, int32(qmin), int32(qmax), int32(maxQDiff))
	}
}

func (c CodecContext) SetSampleAspectRatio(num, den int) {
	if ready() {
		streamFFmpegSetSampleAspectRatio(c.h, int32(num), int32(den))
	}
}

func (c CodecContext) SetSize(width, height int) {
	if ready() {
		streamFFmpegSetSize(c.h, int32(width), int32(height))
	}
}

func (c CodecContext) SetTimeBase(num, den int) {
	if ready() {
		streamFFmpegSetTimeBase(c.h, int32(num), int32(den))
	}
}
