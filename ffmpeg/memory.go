package ffmpeg

import "unsafe"

// Malloc allocates size bytes with av_malloc. The result is nil on failure.
func Malloc(size int) Ptr {
	if !ready() {
		return Ptr{}
	}
	return Ptr{streamFFmpegAvMalloc(int32(size))}
}

// Free releases memory obtained from Malloc.
func (p Ptr) Free() {
	if p.h != 0 && ready() {
		streamFFmpegAvFree(p.h)
	}
}

// CopyToNative copies src into the native memory at dst. The caller
// guarantees dst holds at least len(src) bytes.
func CopyToNative(dst Ptr, src []byte) {
	if len(src) == 0 || dst.h == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(dst.h)), len(src)), src)
}

// CopyBytesFromNative fills dst from the native memory at src.
func CopyBytesFromNative(dst []byte, src Ptr) {
	if len(dst) == 0 || src.h == 0 {
		return
	}
	copy(dst, unsafe.Slice((*byte)(unsafe.Pointer(src.h)), len(dst)))
}

// CopyFromNative fills dst with 32-bit words read from src, as used to pull
// packed RGB32 pixels out of a scaled picture.
func CopyFromNative(dst []int32, src Ptr) {
	if len(dst) == 0 || src.h == 0 {
		return
	}
	copy(dst, unsafe.Slice((*int32)(unsafe.Pointer(src.h)), len(dst)))
}
