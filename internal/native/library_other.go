//go:build !(darwin || linux)

package native

// Library is a dlopen'ed shared object.
type Library struct {
	Handle uintptr
	Path   string
}

// Open always fails where dlopen is unavailable.
func Open(base, envVar string, sonames ...string) (*Library, error) {
	return nil, ErrUnsupportedPlatform
}

func (l *Library) Symbol(name string) uintptr { return 0 }

func (l *Library) Register(fptr any, name string) { panic(ErrUnsupportedPlatform) }

func (l *Library) RegisterOptional(fptr any, name string) bool { return false }

func (l *Library) RegisterSymbols(symbols map[string]any) error { return ErrUnsupportedPlatform }

func (l *Library) Close() error { return nil }

func NewCallback(fn any) uintptr { panic(ErrUnsupportedPlatform) }
