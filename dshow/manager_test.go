package dshow

import (
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice describes one moniker produced by fakePlatform.
type fakeDevice struct {
	name     string
	path     string
	nameErr  error
	bagErr   error
	bindErr  error
	closeErr error
}

type counters struct {
	enumerators  atomic.Int32
	monikerEnums atomic.Int32
	monikers     atomic.Int32
	bags         atomic.Int32
	bindings     atomic.Int32
}

// open reports resources acquired but not yet released.
func (c *counters) open() int32 {
	return c.enumerators.Load() + c.monikerEnums.Load() + c.monikers.Load() + c.bags.Load() + c.bindings.Load()
}

type fakePlatform struct {
	devices  []fakeDevice
	openErr  error
	classErr error
	opens    int
	c        counters
}

func (p *fakePlatform) Open() (DeviceEnumerator, error) {
	p.opens++
	if p.openErr != nil {
		return nil, p.openErr
	}
	p.c.enumerators.Add(1)
	return &fakeEnumerator{p: p}, nil
}

type fakeEnumerator struct {
	p        *fakePlatform
	released bool
}

func (e *fakeEnumerator) CreateClassEnumerator(Category) (MonikerEnumerator, error) {
	if e.p.classErr != nil {
		return nil, e.p.classErr
	}
	e.p.c.monikerEnums.Add(1)
	return &fakeMonikers{p: e.p}, nil
}

func (e *fakeEnumerator) Release() {
	if !e.released {
		e.released = true
		e.p.c.enumerators.Add(-1)
	}
}

type fakeMonikers struct {
	p    *fakePlatform
	next int
}

func (m *fakeMonikers) Next() (Moniker, bool) {
	if m.next >= len(m.p.devices) {
		return nil, false
	}
	d := m.p.devices[m.next]
	m.next++
	m.p.c.monikers.Add(1)
	return &fakeMoniker{p: m.p, d: d}, true
}

func (m *fakeMonikers) Release() { m.p.c.monikerEnums.Add(-1) }

type fakeMoniker struct {
	p *fakePlatform
	d fakeDevice
}

func (m *fakeMoniker) BindToStorage() (PropertyBag, error) {
	if m.d.bagErr != nil {
		return nil, m.d.bagErr
	}
	m.p.c.bags.Add(1)
	return &fakeBag{p: m.p, d: m.d}, nil
}

func (m *fakeMoniker) BindToObject() (Binding, error) {
	if m.d.bindErr != nil {
		return nil, m.d.bindErr
	}
	m.p.c.bindings.Add(1)
	return &fakeBinding{p: m.p, d: m.d}, nil
}

func (m *fakeMoniker) Release() { m.p.c.monikers.Add(-1) }

type fakeBag struct {
	p *fakePlatform
	d fakeDevice
}

func (b *fakeBag) Read(name string) (string, error) {
	switch name {
	case PropFriendlyName:
		if b.d.nameErr != nil {
			return "", b.d.nameErr
		}
		return b.d.name, nil
	case PropDevicePath:
		return b.d.path, nil
	}
	return "", errors.Errorf("no property %s", name)
}

func (b *fakeBag) Release() { b.p.c.bags.Add(-1) }

type fakeBinding struct {
	p      *fakePlatform
	d      fakeDevice
	closed bool
}

func (b *fakeBinding) Path() string { return b.d.path }

func (b *fakeBinding) Close() error {
	if !b.closed {
		b.closed = true
		b.p.c.bindings.Add(-1)
	}
	return b.d.closeErr
}

func names(devs []*Device) []string {
	out := make([]string, 0, len(devs))
	for _, d := range devs {
		out = append(out, d.Name())
	}
	return out
}

func twoCameras() *fakePlatform {
	return &fakePlatform{devices: []fakeDevice{
		{name: "Integrated Camera", path: `\\?\usb#vid_04f2&pid_b604`},
		{name: "OBS Virtual Camera", path: "obs"},
	}}
}

func TestManagerEnumeratesInOrder(t *testing.T) {
	p := twoCameras()
	m := NewManager(WithPlatform(p))

	devs := m.Devices()
	require.Len(t, devs, 2)
	assert.Equal(t, []string{"Integrated Camera", "OBS Virtual Camera"}, names(devs))
	assert.Equal(t, `\\?\usb#vid_04f2&pid_b604`, devs[0].Path())
	assert.Equal(t, len(devs), m.DevicesCount())
	for _, d := range devs {
		assert.True(t, d.Initialized())
	}
	assert.NoError(t, m.Skipped())

	// Only the bindings outlive enumeration.
	assert.Equal(t, int32(2), p.c.open())
	assert.Equal(t, int32(2), p.c.bindings.Load())

	require.NoError(t, m.Close())
	assert.Zero(t, p.c.open())
	assert.Zero(t, m.DevicesCount())
}

func TestManagerSkipsFailingDevices(t *testing.T) {
	p := &fakePlatform{devices: []fakeDevice{
		{name: "A", path: "a"},
		{name: "B", nameErr: errors.New("no FriendlyName")},
		{name: "C", bindErr: errors.New("filter unavailable")},
		{name: "D", bagErr: errors.New("no storage")},
	}}
	m := NewManager(WithPlatform(p))

	assert.Equal(t, []string{"A"}, names(m.Devices()))
	assert.Equal(t, 1, m.DevicesCount())

	var merr *multierror.Error
	require.True(t, errors.As(m.Skipped(), &merr))
	assert.Len(t, merr.Errors, 3)
	assert.Contains(t, m.Skipped().Error(), `initialize "C"`)

	// Every moniker and property bag was released, including failed ones.
	assert.Zero(t, p.c.monikers.Load())
	assert.Zero(t, p.c.bags.Load())
	assert.Zero(t, p.c.monikerEnums.Load())
	assert.Zero(t, p.c.enumerators.Load())
	require.NoError(t, m.Close())
	assert.Zero(t, p.c.open())
}

func TestManagerEnumeratorFailureLeavesListEmpty(t *testing.T) {
	tests := []struct {
		name string
		p    *fakePlatform
	}{
		{"open fails", &fakePlatform{openErr: errors.New("CoCreateInstance failed")}},
		{"no devices", &fakePlatform{classErr: ErrNoDevices}},
		{"class enumerator fails", &fakePlatform{classErr: errors.New("E_OUTOFMEMORY")}},
		{"empty enumeration", &fakePlatform{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(WithPlatform(tt.p))
			assert.Empty(t, m.Devices())
			assert.Zero(t, m.DevicesCount())
			assert.NoError(t, m.Skipped())
			assert.Zero(t, tt.p.c.open())
		})
	}
}

func TestManagerRefreshReplacesDevices(t *testing.T) {
	p := twoCameras()
	m := NewManager(WithPlatform(p))
	first := m.Devices()
	require.Len(t, first, 2)

	m.Refresh()
	assert.Equal(t, 2, m.DevicesCount())
	assert.Equal(t, int32(2), p.c.bindings.Load())
	for _, d := range first {
		assert.False(t, d.Initialized())
	}

	p.devices = p.devices[:1]
	m.Refresh()
	assert.Equal(t, []string{"Integrated Camera"}, names(m.Devices()))
	assert.Equal(t, 3, p.opens)

	require.NoError(t, m.Close())
	assert.Zero(t, p.c.open())
}

func TestManagerCloseReportsBindingErrors(t *testing.T) {
	p := &fakePlatform{devices: []fakeDevice{
		{name: "A", path: "a", closeErr: errors.New("busy")},
		{name: "B", path: "b"},
	}}
	m := NewManager(WithPlatform(p))
	err := m.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `close "A"`)
	assert.Zero(t, m.DevicesCount())
}

func TestDevicesReturnsCopy(t *testing.T) {
	m := NewManager(WithPlatform(twoCameras()))
	devs := m.Devices()
	devs[0] = nil
	assert.NotNil(t, m.Devices()[0])
	require.NoError(t, m.Close())
}

func TestInitializeIsIdempotent(t *testing.T) {
	t.Cleanup(Destroy)
	Destroy()

	p := twoCameras()
	require.True(t, Initialize(WithPlatform(p)))
	first := Instance()
	require.NotNil(t, first)

	other := &fakePlatform{devices: []fakeDevice{{name: "X", path: "x"}}}
	require.True(t, Initialize(WithPlatform(other)))
	assert.Same(t, first, Instance())
	assert.Equal(t, 2, Instance().DevicesCount())
	assert.Equal(t, 1, p.opens)
	assert.Zero(t, other.opens)
}

func TestInitializeSucceedsWithoutDevices(t *testing.T) {
	t.Cleanup(Destroy)
	Destroy()

	p := &fakePlatform{openErr: errors.New("no COM")}
	assert.True(t, Initialize(WithPlatform(p)))
	require.NotNil(t, Instance())
	assert.Zero(t, Instance().DevicesCount())
}

func TestDestroy(t *testing.T) {
	Destroy()
	assert.Nil(t, Instance())
	Destroy()
	assert.Nil(t, Instance())

	p := twoCameras()
	require.True(t, Initialize(WithPlatform(p)))
	Destroy()
	assert.Nil(t, Instance())
	assert.Zero(t, p.c.open())

	require.True(t, Initialize(WithPlatform(p)))
	assert.Equal(t, 2, Instance().DevicesCount())
	Destroy()
}

func TestAcquireReportsCreation(t *testing.T) {
	t.Cleanup(Destroy)
	Destroy()

	m, created := Acquire(WithPlatform(twoCameras()), WithCategory(AudioInput))
	require.NotNil(t, m)
	assert.True(t, created)
	assert.Equal(t, AudioInput, m.Category())

	again, created := Acquire(WithPlatform(twoCameras()))
	assert.Same(t, m, again)
	assert.False(t, created)
}

func TestReleaseOnlyDestroysItsOwnManager(t *testing.T) {
	t.Cleanup(Destroy)
	Destroy()

	p := &fakePlatform{devices: []fakeDevice{
		{name: "A", path: "a", closeErr: errors.New("busy")},
	}}
	old, _ := Acquire(WithPlatform(p))
	Destroy()
	current, created := Acquire(WithPlatform(twoCameras()))
	require.True(t, created)

	assert.NoError(t, Release(old), "a replaced manager is left alone")
	assert.Same(t, current, Instance())
	assert.NoError(t, Release(nil))

	assert.NoError(t, Release(current))
	assert.Nil(t, Instance())
	assert.Zero(t, current.DevicesCount())

	failing, _ := Acquire(WithPlatform(p))
	assert.ErrorContains(t, Release(failing), "busy")
	assert.Nil(t, Instance())
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "videoinput", VideoInput.String())
	assert.Equal(t, "audioinput", AudioInput.String())
}
