//go:build !(darwin || linux || windows)

package dshow

type unsupportedPlatform struct{}

func (unsupportedPlatform) Open() (DeviceEnumerator, error) {
	return nil, ErrUnsupportedPlatform
}

// DefaultPlatform reports ErrUnsupportedPlatform from Open.
func DefaultPlatform() Platform { return unsupportedPlatform{} }
