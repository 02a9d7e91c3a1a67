package ffmpeg

// Ptr is memory allocated with Malloc.
type Ptr struct{ h uintptr }

// Codec is a static codec descriptor owned by libavcodec; it is never freed.
type Codec struct{ h uintptr }

// CodecContext is an AVCodecContext.
type CodecContext struct{ h uintptr }

// Frame is an AVFrame. It also stands in for the picture handles of the
// older API.
type Frame struct{ h uintptr }

// SwsContext is a libswscale context.
type SwsContext struct{ h uintptr }

func PtrFromHandle(h uintptr) Ptr                   { return Ptr{h} }
func CodecFromHandle(h uintptr) Codec               { return Codec{h} }
func CodecContextFromHandle(h uintptr) CodecContext { return CodecContext{h} }
func FrameFromHandle(h uintptr) Frame               { return Frame{h} }
func SwsContextFromHandle(h uintptr) SwsContext     { return SwsContext{h} }

func (p Ptr) Handle() uintptr          { return p.h }
func (c Codec) Handle() uintptr        { return c.h }
func (c CodecContext) Handle() uintptr { return c.h }
func (f Frame) Handle() uintptr        { return f.h }
func (s SwsContext) Handle() uintptr   { return s.h }

func (p Ptr) IsNil() bool          { return p.h == 0 }
func (c Codec) IsNil() bool        { return c.h == 0 }
func (c CodecContext) IsNil() bool { return c.h == 0 }
func (f Frame) IsNil() bool        { return f.h == 0 }
func (s SwsContext) IsNil() bool   { return s.h == 0 }
