package portaudio

import (
	"unsafe"

	"github.com/thesyncim/neomedia/internal/native"
)

// paDeviceInfo mirrors PaDeviceInfo (structVersion 2).
type paDeviceInfo struct {
	structVersion            int32
	name                     uintptr
	hostAPI                  int32
	maxInputChannels         int32
	maxOutputChannels        int32
	defaultLowInputLatency   float64
	defaultLowOutputLatency  float64
	defaultHighInputLatency  float64
	defaultHighOutputLatency float64
	defaultSampleRate        float64
}

// paHostApiInfo mirrors PaHostApiInfo (structVersion 1).
type paHostApiInfo struct {
	structVersion       int32
	typeID              int32
	name                uintptr
	deviceCount         int32
	defaultInputDevice  int32
	defaultOutputDevice int32
}

// DeviceInfo is a read-only PaDeviceInfo owned by PortAudio. It stays valid
// until Terminate.
type DeviceInfo struct{ h uintptr }

func DeviceInfoFromHandle(h uintptr) DeviceInfo { return DeviceInfo{h} }

func (d DeviceInfo) Handle() uintptr { return d.h }
func (d DeviceInfo) IsNil() bool     { return d.h == 0 }

func (d DeviceInfo) info() *paDeviceInfo {
	return (*paDeviceInfo)(unsafe.Pointer(d.h))
}

// GetDeviceInfo returns the info for device i. The result is nil when i is
// out of range or PortAudio is not initialized.
func GetDeviceInfo(i int) DeviceInfo {
	if !loaded {
		return DeviceInfo{}
	}
	return DeviceInfo{paGetDeviceInfo(int32(i))}
}

func (d DeviceInfo) Name() string                     { return native.GoString(d.info().name) }
func (d DeviceInfo) HostApi() int                     { return int(d.info().hostAPI) }
func (d DeviceInfo) MaxInputChannels() int            { return int(d.info().maxInputChannels) }
func (d DeviceInfo) MaxOutputChannels() int           { return int(d.info().maxOutputChannels) }
func (d DeviceInfo) DefaultSampleRate() float64       { return d.info().defaultSampleRate }
func (d DeviceInfo) DefaultLowInputLatency() float64  { return d.info().defaultLowInputLatency }
func (d DeviceInfo) DefaultLowOutputLatency() float64 { return d.info().defaultLowOutputLatency }
func (d DeviceInfo) DefaultHighInputLatency() float64 { return d.info().defaultHighInputLatency }
func (d DeviceInfo) DefaultHighOutputLatency() float64 {
	return d.info().defaultHighOutputLatency
}

// HostApiInfo is a read-only PaHostApiInfo owned by PortAudio.
type HostApiInfo struct{ h uintptr }

func HostApiInfoFromHandle(h uintptr) HostApiInfo { return HostApiInfo{h} }

func (a HostApiInfo) Handle() uintptr { return a.h }
func (a HostApiInfo) IsNil() bool     { return a.h == 0 }

func (a HostApiInfo) info() *paHostApiInfo {
	return (*paHostApiInfo)(unsafe.Pointer(a.h))
}

// GetHostApiInfo returns the info for host API i, or nil.
func GetHostApiInfo(i int) HostApiInfo {
	if !loaded {
		return HostApiInfo{}
	}
	return HostApiInfo{paGetHostApiInfo(int32(i))}
}

// Type is the PaHostApiTypeId.
func (a HostApiInfo) Type() int                { return int(a.info().typeID) }
func (a HostApiInfo) Name() string             { return native.GoString(a.info().name) }
func (a HostApiInfo) DeviceCount() int         { return int(a.info().deviceCount) }
func (a HostApiInfo) DefaultInputDevice() int  { return int(a.info().defaultInputDevice) }
func (a HostApiInfo) DefaultOutputDevice() int { return int(a.info().defaultOutputDevice) }
