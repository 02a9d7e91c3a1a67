package ffmpeg

import "runtime"

// GetCachedContext returns a scaling context for the given geometry,
// reusing prev when it already matches. prev may be nil. A nil result means
// the conversion is not supported.
func GetCachedContext(prev SwsContext, srcW, srcH, srcFmt, dstW, dstH, dstFmt, flags int) SwsContext {
	if !ready() {
		return SwsContext{}
	}
	return SwsContext{streamFFmpegSwsGetCachedContext(prev.h,
		int32(srcW), int32(srcH), int32(srcFmt),
		int32(dstW), int32(dstH), int32(dstFmt), int32(flags))}
}

// Free releases the context.
func (s SwsContext) Free() {
	if s.h != 0 && ready() {
		streamFFmpegSwsFreeContext(s.h)
	}
}

// ScalePicture converts rows [sliceY, sliceY+sliceH) of src into dst, a
// packed buffer of the destination format, and returns the output height.
// An empty dst is passed as NULL.
func (s SwsContext) ScalePicture(src Frame, sliceY, sliceH int, dst []byte, dstFmt, dstW, dstH int) (int, error) {
	if !ready() {
		return 0, ErrNotLoaded
	}
	ret := streamFFmpegSwsScalePicture(s.h, src.h, int32(sliceY), int32(sliceH),
		first(dst), int32(dstFmt), int32(dstW), int32(dstH))
	runtime.KeepAlive(dst)
	if err := check(ret); err != nil {
		return 0, err
	}
	return int(ret), nil
}

// ScaleBuffer converts a packed src buffer into dst. Empty buffers are
// passed as NULL.
func (s SwsContext) ScaleBuffer(src []byte, srcFmt, srcW, srcH, sliceY, sliceH int, dst []byte, dstFmt, dstW, dstH int) (int, error) {
	if !ready() {
		return 0, ErrNotLoaded
	}
	ret := streamFFmpegSwsScaleBuffer(s.h,
		first(src), int32(srcFmt), int32(srcW), int32(srcH),
		int32(sliceY), int32(sliceH),
		first(dst), int32(dstFmt), int32(dstW), int32(dstH))
	runtime.KeepAlive(src)
	runtime.KeepAlive(dst)
	if err := check(ret); err != nil {
		return 0, err
	}
	return int(ret), nil
}
