//go:build darwin || linux

package native

import (
	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
)

// Library is a dlopen'ed shared object.
type Library struct {
	Handle uintptr
	Path   string
}

// Open loads the first candidate from SearchPaths that dlopen accepts.
func Open(base, envVar string, sonames ...string) (*Library, error) {
	var lastErr error
	for _, path := range SearchPaths(base, envVar, sonames...) {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			lastErr = err
			continue
		}
		return &Library{Handle: handle, Path: path}, nil
	}
	if lastErr != nil {
		return nil, errors.Wrapf(lastErr, "failed to load %s", LibraryFileName(base))
	}
	return nil, errors.Errorf("%s not found in any standard location", LibraryFileName(base))
}

// Symbol looks up an optional symbol, returning 0 when it is absent.
func (l *Library) Symbol(name string) uintptr {
	if l == nil || l.Handle == 0 {
		return 0
	}
	sym, err := purego.Dlsym(l.Handle, name)
	if err != nil {
		return 0
	}
	return sym
}

// Register binds fptr to a required symbol. It panics when the symbol is
// missing, so callers recover and report a load failure.
func (l *Library) Register(fptr any, name string) {
	purego.RegisterLibFunc(fptr, l.Handle, name)
}

// RegisterOptional binds fptr when the symbol exists and reports whether it
// did.
func (l *Library) RegisterOptional(fptr any, name string) bool {
	sym := l.Symbol(name)
	if sym == 0 {
		return false
	}
	purego.RegisterFunc(fptr, sym)
	return true
}

// Close unloads the library.
func (l *Library) Close() error {
	if l == nil || l.Handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.Handle)
	l.Handle = 0
	return err
}

// NewCallback returns a C function pointer that calls fn. The number of
// callbacks a process can create is limited, so callers create them once.
func NewCallback(fn any) uintptr {
	return purego.NewCallback(fn)
}

// RegisterSymbols binds a batch of required symbols and converts a missing
// symbol panic into an error.
func (l *Library) RegisterSymbols(symbols map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%s: %v", l.Path, r)
		}
	}()
	for name, fptr := range symbols {
		l.Register(fptr, name)
	}
	return nil
}
