package dshow

import "github.com/pkg/errors"

// Category selects the class of capture devices to enumerate.
type Category int

const (
	VideoInput Category = iota
	AudioInput
)

func (c Category) String() string {
	switch c {
	case VideoInput:
		return "videoinput"
	case AudioInput:
		return "audioinput"
	default:
		return "unknown"
	}
}

// Property names readable from a PropertyBag.
const (
	PropFriendlyName = "FriendlyName"
	PropDevicePath   = "DevicePath"
)

var (
	// ErrNoDevices is returned by CreateClassEnumerator when the category is
	// empty.
	ErrNoDevices = errors.New("dshow: no devices in category")

	// ErrUnsupportedPlatform is returned by Open where no enumeration API
	// exists.
	ErrUnsupportedPlatform = errors.New("dshow: capture enumeration not supported on this platform")
)

// Platform opens an enumeration session against the system device API.
type Platform interface {
	Open() (DeviceEnumerator, error)
}

// DeviceEnumerator is the system device enumerator. Release ends the
// session; nothing obtained from it may be used afterwards.
type DeviceEnumerator interface {
	CreateClassEnumerator(Category) (MonikerEnumerator, error)
	Release()
}

// MonikerEnumerator yields one moniker per device until it is exhausted.
type MonikerEnumerator interface {
	Next() (Moniker, bool)
	Release()
}

// Moniker identifies one enumerated device.
type Moniker interface {
	BindToStorage() (PropertyBag, error)
	BindToObject() (Binding, error)
	Release()
}

// PropertyBag exposes a device's string properties.
type PropertyBag interface {
	Read(name string) (string, error)
	Release()
}

// Binding is a verified connection to a capture device.
type Binding interface {
	// Path identifies the device to capture APIs.
	Path() string
	Close() error
}
