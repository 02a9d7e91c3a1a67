// Package neomedia binds a VoIP/IM media stack to its native subsystems and
// owns their process-wide lifecycle.
//
// Key pieces include:
//   - ffmpeg: libavcodec/libswscale through libstream_ffmpeg
//   - portaudio: PortAudio v19 audio I/O, including device probing
//   - dshow: the capture device manager (DirectShow, V4L2/ALSA, AVFoundation)
//   - h264: the H.264 encoder, decoder and RTP packetization built on ffmpeg
//
// # Runtime
//
//	cfg, _ := neomedia.LoadConfig("")
//	rt, err := neomedia.Open(cfg)
//	...
//	defer rt.Close()
//
// Open loads the enabled libraries, initializes PortAudio and enumerates
// capture devices. A subsystem whose library is missing is reported by
// Open unless it is disabled in the configuration.
//
// # Native Libraries
//
// Bindings load libstream_ffmpeg (built from clib/), libportaudio and the
// platform capture wrappers with purego; no cgo is required. Set
// STREAM_SDK_LIB_PATH or library_dir to the directory containing them.
// Each library also honours its own override variable, such as
// STREAM_FFMPEG_LIB_PATH or STREAM_PORTAUDIO_LIB_PATH.
package neomedia
