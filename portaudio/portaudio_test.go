package portaudio

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/neomedia/internal/native"
)

func TestStructLayout(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layout checked on 64-bit targets")
	}
	assert.Equal(t, uintptr(72), unsafe.Sizeof(paDeviceInfo{}))
	assert.Equal(t, uintptr(32), unsafe.Sizeof(paHostApiInfo{}))
	assert.Equal(t, uintptr(32), unsafe.Sizeof(paStreamParameters{}))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(paDeviceInfo{}.name))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(paDeviceInfo{}.defaultLowInputLatency))
	assert.Equal(t, uintptr(64), unsafe.Offsetof(paDeviceInfo{}.defaultSampleRate))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(paHostApiInfo{}.deviceCount))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(paStreamParameters{}.suggestedLatency))
}

// fixtures keeps fake native structs reachable from a global so they are
// heap allocated; handles built from their addresses must not move.
var fixtures []any

func retain[T any](v T) T {
	fixtures = append(fixtures, v)
	return v
}

func cstr(s string) uintptr {
	b := retain(native.CString(s))
	return uintptr(unsafe.Pointer(&b[0]))
}

func fakeDeviceInfo(name string) *paDeviceInfo {
	return retain(&paDeviceInfo{
		structVersion:            2,
		name:                     cstr(name),
		hostAPI:                  1,
		maxInputChannels:         2,
		maxOutputChannels:        0,
		defaultLowInputLatency:   0.01,
		defaultLowOutputLatency:  0.02,
		defaultHighInputLatency:  0.1,
		defaultHighOutputLatency: 0.2,
		defaultSampleRate:        48000,
	})
}

func TestDeviceInfoAccessors(t *testing.T) {
	raw := fakeDeviceInfo("USB Microphone")
	info := DeviceInfoFromHandle(uintptr(unsafe.Pointer(raw)))

	assert.Equal(t, "USB Microphone", info.Name())
	assert.Equal(t, 1, info.HostApi())
	assert.Equal(t, 2, info.MaxInputChannels())
	assert.Equal(t, 0, info.MaxOutputChannels())
	assert.Equal(t, 48000.0, info.DefaultSampleRate())
	assert.Equal(t, 0.01, info.DefaultLowInputLatency())
	assert.Equal(t, 0.2, info.DefaultHighOutputLatency())
	assert.Equal(t, uintptr(unsafe.Pointer(raw)), info.Handle())
	assert.True(t, DeviceInfo{}.IsNil())
}

func TestHostApiInfoAccessors(t *testing.T) {
	raw := retain(&paHostApiInfo{
		structVersion:       1,
		typeID:              8,
		name:                cstr("ALSA"),
		deviceCount:         3,
		defaultInputDevice:  1,
		defaultOutputDevice: 2,
	})
	api := HostApiInfoFromHandle(uintptr(unsafe.Pointer(raw)))

	assert.Equal(t, 8, api.Type())
	assert.Equal(t, "ALSA", api.Name())
	assert.Equal(t, 3, api.DeviceCount())
	assert.Equal(t, 1, api.DefaultInputDevice())
	assert.Equal(t, 2, api.DefaultOutputDevice())
}

// The accessors must keep reading the fixture after the goroutine stack has
// been copied.
func TestDeviceInfoSurvivesStackGrowth(t *testing.T) {
	info := DeviceInfoFromHandle(uintptr(unsafe.Pointer(fakeDeviceInfo("dev"))))
	growStack(64)
	assert.Equal(t, "dev", info.Name())
	assert.Equal(t, 0.1, info.DefaultHighInputLatency())
}

//go:noinline
func growStack(n int) byte {
	var pad [1024]byte
	pad[n%len(pad)] = byte(n)
	if n == 0 {
		return pad[0]
	}
	return growStack(n-1) + pad[n%len(pad)]
}

func TestResolveLatency(t *testing.T) {
	info := DeviceInfoFromHandle(uintptr(unsafe.Pointer(fakeDeviceInfo("dev"))))

	tests := []struct {
		name    string
		input   bool
		latency float64
		want    float64
	}{
		{"explicit", true, 0.05, 0.05},
		{"unspecified", true, LatencyUnspecified, 0},
		{"high input", true, LatencyHigh, 0.1},
		{"high output", false, LatencyHigh, 0.2},
		{"low input", true, LatencyLow, 0.01},
		{"low output", false, LatencyLow, 0.02},
		{"unknown sentinel", true, -7, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveLatency(info, tt.input, tt.latency))
		})
	}

	assert.Equal(t, 0.0, resolveLatency(DeviceInfo{}, true, LatencyHigh))
}

func TestStreamParametersToNative(t *testing.T) {
	var nilParams *StreamParameters
	assert.Nil(t, nilParams.toNative(DeviceInfo{}, true))

	p := NewStreamParameters(3, 2, Int16, 0.04)
	n := p.toNative(DeviceInfo{}, true)
	require.NotNil(t, n)
	assert.Equal(t, int32(3), n.device)
	assert.Equal(t, int32(2), n.channelCount)
	assert.Equal(t, uint64(Int16), n.sampleFormat)
	assert.Equal(t, 0.04, n.suggestedLatency)
	assert.Equal(t, uintptr(0), n.hostApiSpecificStreamInfo)
}

func TestSampleFormatForBits(t *testing.T) {
	assert.Equal(t, Int8, SampleFormatForBits(8))
	assert.Equal(t, Int16, SampleFormatForBits(16))
	assert.Equal(t, Int24, SampleFormatForBits(24))
	assert.Equal(t, Int32, SampleFormatForBits(32))
	assert.Equal(t, SampleFormat(0), SampleFormatForBits(12))
}

func TestFramesPerBuffer(t *testing.T) {
	assert.Equal(t, 882, framesPerBuffer(44100, 1))
	assert.Equal(t, 480, framesPerBuffer(48000, 2))
	assert.Equal(t, 160, framesPerBuffer(8000, 1))
}

func TestErrorText(t *testing.T) {
	err := &Error{Code: ErrCodeInvalidDevice, Text: "Invalid device"}
	assert.Equal(t, "portaudio: Invalid device (-9996)", err.Error())
	assert.Equal(t, "portaudio: error -9996", (&Error{Code: -9996}).Error())
}

func TestCheckBuffer(t *testing.T) {
	assert.NoError(t, checkBuffer(make([]byte, 64), 16, 4))
	assert.Error(t, checkBuffer(make([]byte, 63), 16, 4))
	assert.Error(t, checkBuffer(make([]byte, 64), 16, 0))
}

func TestTrampolineRouting(t *testing.T) {
	var gotIn, gotOut int
	finished := make(chan struct{}, 1)
	s := &Stream{
		id:            nextStreamID.Add(1),
		inFrameBytes:  2,
		outFrameBytes: 4,
		callback: &recordingCallback{
			process: func(in, out []byte) CallbackResult {
				gotIn, gotOut = len(in), len(out)
				for i := range out {
					out[i] = 0x7f
				}
				return Complete
			},
			finished: finished,
		},
	}
	activeStreams.Store(s.id, s)
	defer activeStreams.Delete(s.id)

	in := retain(make([]byte, 10*2))
	out := retain(make([]byte, 10*4))
	ret := streamTrampoline(uintptr(unsafe.Pointer(&in[0])), uintptr(unsafe.Pointer(&out[0])), 10, 0, 0, s.id)

	assert.Equal(t, uintptr(Complete), ret)
	assert.Equal(t, 20, gotIn)
	assert.Equal(t, 40, gotOut)
	assert.Equal(t, byte(0x7f), out[39])

	finishedTrampolineFn(s.id)
	select {
	case <-finished:
	default:
		t.Fatal("Finished not delivered")
	}
}

func TestTrampolineUnknownStreamAborts(t *testing.T) {
	assert.Equal(t, uintptr(Abort), streamTrampoline(0, 0, 10, 0, 0, ^uintptr(0)))
	assert.Equal(t, uintptr(0), finishedTrampolineFn(^uintptr(0)))
}

func TestCallbackFunc(t *testing.T) {
	var cb StreamCallback = CallbackFunc(func(in, out []byte) CallbackResult { return Abort })
	assert.Equal(t, Abort, cb.Process(nil, nil))
	cb.Finished()
}

type recordingCallback struct {
	process  func(in, out []byte) CallbackResult
	finished chan struct{}
}

func (r *recordingCallback) Process(in, out []byte) CallbackResult { return r.process(in, out) }
func (r *recordingCallback) Finished()                             { r.finished <- struct{}{} }

func TestProbeResultAdd(t *testing.T) {
	var r ProbeResult
	r.add(AudioDevice{Index: 0, MaxInputChannels: 2}, true, false)
	r.add(AudioDevice{Index: 1, MaxOutputChannels: 2}, false, true)
	r.add(AudioDevice{Index: 2, MaxInputChannels: 1, MaxOutputChannels: 1}, false, false)

	require.Len(t, r.Capture, 2)
	require.Len(t, r.Playback, 2)
	assert.Equal(t, 0, r.Capture[0].Index)
	assert.Equal(t, 2, r.Capture[1].Index)
	require.NotNil(t, r.DefaultCapture)
	require.NotNil(t, r.DefaultPlayback)
	assert.Equal(t, 0, r.DefaultCapture.Index)
	assert.Equal(t, 1, r.DefaultPlayback.Index)
}

func TestEchoCancelUnavailable(t *testing.T) {
	if paSetEchoCancelParams != nil {
		t.Skip("libportaudio carries the echo cancellation extension")
	}
	assert.ErrorIs(t, SetEchoCancelParams(nil, nil, true, true, 160, 1600), ErrEchoCancelUnavailable)
}

func TestOpenCaptureRejectsBadFormat(t *testing.T) {
	_, err := OpenCapture(0, 8000, 1, 12, CaptureOptions{})
	assert.Error(t, err)
	_, err = OpenCapture(0, 8000, 0, 16, CaptureOptions{})
	assert.Error(t, err)
}

// Go memory handed to PortAudio must be passed as typed pointers so it
// cannot move during the call.
func TestNativeSignaturesTakePointers(t *testing.T) {
	open := reflect.TypeOf(paOpenStream)
	for i := 0; i < 3; i++ {
		assert.Equal(t, reflect.Pointer, open.In(i).Kind(), "Pa_OpenStream argument %d", i)
	}
	format := reflect.TypeOf(paIsFormatSupported)
	assert.Equal(t, reflect.Pointer, format.In(0).Kind())
	assert.Equal(t, reflect.Pointer, format.In(1).Kind())
	assert.Equal(t, reflect.Pointer, reflect.TypeOf(paReadStream).In(1).Kind())
	assert.Equal(t, reflect.Pointer, reflect.TypeOf(paWriteStream).In(1).Kind())
}

func TestCaptureAfterClose(t *testing.T) {
	c := &Capture{}
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Start(), ErrCaptureClosed)
	assert.NoError(t, c.Stop())
	_, _, err := c.Read(nil)
	assert.ErrorIs(t, err, ErrCaptureClosed)
	assert.Nil(t, c.Stream())
}

func TestProbeIntegration(t *testing.T) {
	if !Available() {
		t.Skip("libportaudio not available")
	}
	require.NoError(t, Initialize())
	defer Terminate()

	res, err := Probe()
	require.NoError(t, err)
	for _, d := range res.Capture {
		t.Logf("capture %d: %s @ %.0f Hz", d.Index, d.Name, d.SampleRate)
		assert.Greater(t, d.SampleRate, 0.0)
	}
	for _, d := range res.Playback {
		t.Logf("playback %d: %s", d.Index, d.Name)
	}

	n, err := HostApiCount()
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		api := GetHostApiInfo(i)
		require.False(t, api.IsNil())
		t.Logf("host api %d: %s (%d devices)", i, api.Name(), api.DeviceCount())
	}

	size, err := SampleSize(Int16)
	require.NoError(t, err)
	assert.Equal(t, 2, size)
}
