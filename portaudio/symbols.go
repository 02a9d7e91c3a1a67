package portaudio

// libportaudio function pointers
var (
	paInitialize   func() int32
	paTerminate    func() int32
	paGetErrorText func(code int32) uintptr

	paGetDeviceCount         func() int32
	paGetDefaultInputDevice  func() int32
	paGetDefaultOutputDevice func() int32
	paGetDeviceInfo          func(device int32) uintptr
	paGetHostApiCount        func() int32
	paGetHostApiInfo         func(hostApi int32) uintptr

	paIsFormatSupported func(in, out *paStreamParameters, sampleRate float64) int32
	paGetSampleSize     func(format uint64) int32

	paOpenStream                func(stream *uintptr, in, out *paStreamParameters, sampleRate float64, framesPerBuffer, flags uint64, cb, userData uintptr) int32
	paSetStreamFinishedCallback func(stream, cb uintptr) int32
	paStartStream               func(stream uintptr) int32
	paStopStream                func(stream uintptr) int32
	paAbortStream               func(stream uintptr) int32
	paCloseStream               func(stream uintptr) int32
	paReadStream                func(stream uintptr, buf *byte, frames uint64) int32
	paWriteStream               func(stream uintptr, buf *byte, frames uint64) int32
	paGetStreamReadAvailable    func(stream uintptr) int64
	paGetStreamWriteAvailable   func(stream uintptr) int64

	// Only present in builds carrying the echo cancellation patch.
	paSetEchoCancelParams func(in, out uintptr, denoise, echoCancel, frameSize, filterLength int32)
)

func symbols() map[string]any {
	return map[string]any{
		"Pa_Initialize":   &paInitialize,
		"Pa_Terminate":    &paTerminate,
		"Pa_GetErrorText": &paGetErrorText,

		"Pa_GetDeviceCount":         &paGetDeviceCount,
		"Pa_GetDefaultInputDevice":  &paGetDefaultInputDevice,
		"Pa_GetDefaultOutputDevice": &paGetDefaultOutputDevice,
		"Pa_GetDeviceInfo":          &paGetDeviceInfo,
		"Pa_GetHostApiCount":        &paGetHostApiCount,
		"Pa_GetHostApiInfo":         &paGetHostApiInfo,

		"Pa_IsFormatSupported": &paIsFormatSupported,
		"Pa_GetSampleSize":     &paGetSampleSize,

		"Pa_OpenStream":                &paOpenStream,
		"Pa_SetStreamFinishedCallback": &paSetStreamFinishedCallback,
		"Pa_StartStream":               &paStartStream,
		"Pa_StopStream":                &paStopStream,
		"Pa_AbortStream":               &paAbortStream,
		"Pa_CloseStream":               &paCloseStream,
		"Pa_ReadStream":                &paReadStream,
		"Pa_WriteStream":               &paWriteStream,
		"Pa_GetStreamReadAvailable":    &paGetStreamReadAvailable,
		"Pa_GetStreamWriteAvailable":   &paGetStreamWriteAvailable,
	}
}
