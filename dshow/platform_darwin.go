//go:build darwin

package dshow

import (
	"sync"

	"github.com/thesyncim/neomedia/internal/native"
)

var (
	avfOnce    sync.Once
	avfSources map[Category]*indexedSource
	avfErr     error
)

// libstream_avfoundation function pointers
var (
	streamAVVideoDeviceCount      func() int32
	streamAVVideoDeviceID         func(index int32) uintptr
	streamAVVideoDeviceLabel      func(index int32) uintptr
	streamAVAudioInputDeviceCount func() int32
	streamAVAudioInputDeviceID    func(index int32) uintptr
	streamAVAudioInputDeviceLabel func(index int32) uintptr
	streamAVFreeString            func(ptr uintptr)
)

// DefaultPlatform enumerates AVFoundation cameras and microphones.
func DefaultPlatform() Platform {
	return indexedPlatform{load: loadAVFoundation}
}

func loadAVFoundation() (map[Category]*indexedSource, error) {
	avfOnce.Do(func() {
		lib, err := native.Open("stream_avfoundation", "STREAM_AV_LIB_PATH")
		if err != nil {
			avfErr = err
			return
		}
		if err := lib.RegisterSymbols(map[string]any{
			"stream_av_video_device_count":       &streamAVVideoDeviceCount,
			"stream_av_video_device_id":          &streamAVVideoDeviceID,
			"stream_av_video_device_label":       &streamAVVideoDeviceLabel,
			"stream_av_audio_input_device_count": &streamAVAudioInputDeviceCount,
			"stream_av_audio_input_device_id":    &streamAVAudioInputDeviceID,
			"stream_av_audio_input_device_label": &streamAVAudioInputDeviceLabel,
			"stream_av_free_string":              &streamAVFreeString,
		}); err != nil {
			lib.Close()
			avfErr = err
			return
		}
		avfSources = map[Category]*indexedSource{
			VideoInput: {
				count: streamAVVideoDeviceCount,
				id:    streamAVVideoDeviceID,
				name:  streamAVVideoDeviceLabel,
				free:  streamAVFreeString,
			},
			AudioInput: {
				count: streamAVAudioInputDeviceCount,
				id:    streamAVAudioInputDeviceID,
				name:  streamAVAudioInputDeviceLabel,
				free:  streamAVFreeString,
			},
		}
	})
	return avfSources, avfErr
}
