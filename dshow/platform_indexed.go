//go:build darwin || linux

package dshow

import (
	"github.com/pkg/errors"

	"github.com/thesyncim/neomedia/internal/native"
)

// indexedSource is a capture library that lists devices by index and
// returns malloc'ed strings.
type indexedSource struct {
	count func() int32
	id    func(index int32) uintptr
	name  func(index int32) uintptr
	free  func(ptr uintptr)
	// verify checks that an identifier still refers to a device.
	verify func(id string) error
}

func (s *indexedSource) str(get func(int32) uintptr, i int) (string, error) {
	ptr := get(int32(i))
	if ptr == 0 {
		return "", errors.Errorf("dshow: device %d has no such property", i)
	}
	defer s.free(ptr)
	return native.GoString(ptr), nil
}

// indexedPlatform serves sources for each category from loaded libraries.
type indexedPlatform struct {
	load func() (map[Category]*indexedSource, error)
}

func (p indexedPlatform) Open() (DeviceEnumerator, error) {
	sources, err := p.load()
	if err != nil {
		return nil, err
	}
	return indexedEnumerator{sources: sources}, nil
}

type indexedEnumerator struct {
	sources map[Category]*indexedSource
}

func (e indexedEnumerator) CreateClassEnumerator(c Category) (MonikerEnumerator, error) {
	src, ok := e.sources[c]
	if !ok || src == nil {
		return nil, errors.Errorf("dshow: no %s backend loaded", c)
	}
	n := int(src.count())
	if n <= 0 {
		return nil, ErrNoDevices
	}
	return &indexedMonikers{src: src, count: n}, nil
}

func (indexedEnumerator) Release() {}

type indexedMonikers struct {
	src   *indexedSource
	next  int
	count int
}

func (m *indexedMonikers) Next() (Moniker, bool) {
	if m.next >= m.count {
		return nil, false
	}
	mon := indexedMoniker{src: m.src, index: m.next}
	m.next++
	return mon, true
}

func (m *indexedMonikers) Release() {}

type indexedMoniker struct {
	src   *indexedSource
	index int
}

func (m indexedMoniker) BindToStorage() (PropertyBag, error) {
	return indexedBag(m), nil
}

func (m indexedMoniker) BindToObject() (Binding, error) {
	id, err := m.src.str(m.src.id, m.index)
	if err != nil {
		return nil, err
	}
	if m.src.verify != nil {
		if err := m.src.verify(id); err != nil {
			return nil, err
		}
	}
	return pathBinding(id), nil
}

func (indexedMoniker) Release() {}

type indexedBag indexedMoniker

func (b indexedBag) Read(name string) (string, error) {
	switch name {
	case PropFriendlyName:
		return b.src.str(b.src.name, b.index)
	case PropDevicePath:
		return b.src.str(b.src.id, b.index)
	}
	return "", errors.Errorf("dshow: unknown property %q", name)
}

func (indexedBag) Release() {}
