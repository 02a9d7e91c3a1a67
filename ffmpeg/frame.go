package ffmpeg

// AllocFrame allocates an empty frame.
func AllocFrame() Frame {
	if !ready() {
		return Frame{}
	}
	return Frame{streamFFmpegAllocFrame()}
}

// Free releases the frame. Data planes set with SetData are not owned by
// the frame and stay valid.
func (f Frame) Free() {
	if f.h != 0 && ready() {
		streamFFmpegFreeFrame(f.h)
	}
}

// noPTS is AV_NOPTS_VALUE.
const noPTS = -1 << 63

func (f Frame) PTS() int64 {
	if !ready() {
		return noPTS
	}
	return streamFFmpegFrameGetPTS(f.h)
}

// SetData points the three planes at data0, data0+offset1 and
// data0+offset1+offset2.
func (f Frame) SetData(data0 Ptr, offset1, offset2 int) {
	if ready() {
		streamFFmpegFrameSetData(f.h, data0.h, uintptr(offset1), uintptr(offset2))
	}
}

func (f Frame) SetKeyFrame(key bool) {
	if !ready() {
		return
	}
	var v int32
	if key {
		v = 1
	}
	streamFFmpegFrameSetKey(f.h, v)
}

func (f Frame) SetLinesize(y, u, v int) {
	if ready() {
		streamFFmpegFrameSetLinesize(f.h, int32(y), int32(u), int32(v))
	}
}

// FillPicture lays out a picture of the given format and size over ptr and
// returns the number of bytes it spans.
func (f Frame) FillPicture(ptr Ptr, pixFmt, width, height int) (int, error) {
	if !ready() {
		return 0, ErrNotLoaded
	}
	ret := streamFFmpegPictureFill(f.h, ptr.h, int32(pixFmt), int32(width), int32(height))
	if err := check(ret); err != nil {
		return 0, err
	}
	return int(ret), nil
}

// Data0 returns the first data plane.
func (f Frame) Data0() Ptr {
	if !ready() {
		return Ptr{}
	}
	return Ptr{streamFFmpegPictureGetData0(f.h)}
}

// PictureSize returns the buffer size for a picture of the given format and
// size.
func PictureSize(pixFmt, width, height int) (int, error) {
	if !ready() {
		return 0, ErrNotLoaded
	}
	ret := streamFFmpegPictureGetSize(int32(pixFmt), int32(width), int32(height))
	if err := check(ret); err != nil {
		return 0, err
	}
	return int(ret), nil
}

// pixFmt returns the library's value for a pixel format, or
// AV_PIX_FMT_NONE (-1) when it is not loaded.
func pixFmt(fn func() int32) int {
	if !ready() {
		return -1
	}
	return int(fn())
}

func PixFmtBGR32() int   { return pixFmt(streamFFmpegPixFmtBGR32) }
func PixFmtBGR32_1() int { return pixFmt(streamFFmpegPixFmtBGR32_1) }
func PixFmtRGB24() int   { return pixFmt(streamFFmpegPixFmtRGB24) }
func PixFmtRGB32() int   { return pixFmt(streamFFmpegPixFmtRGB32) }
func PixFmtRGB32_1() int { return pixFmt(streamFFmpegPixFmtRGB32_1) }
func PixFmtYUV420P() int { return pixFmt(streamFFmpegPixFmtYUV420P) }
