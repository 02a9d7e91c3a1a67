package dshow

import "github.com/pkg/errors"

// Device is one initialized capture device owned by a Manager.
type Device struct {
	name        string
	path        string
	binding     Binding
	initialized bool
}

func newDevice(name string) *Device {
	return &Device{name: name}
}

// init binds the device through its moniker. On failure the device holds
// nothing and is discarded.
func (d *Device) init(m Moniker) error {
	b, err := m.BindToObject()
	if err != nil {
		return err
	}
	if b == nil {
		return errors.New("dshow: moniker returned no binding")
	}
	d.binding = b
	d.path = b.Path()
	d.initialized = true
	return nil
}

// Name is the device's friendly name.
func (d *Device) Name() string { return d.name }

// Path identifies the device to capture APIs.
func (d *Device) Path() string { return d.path }

func (d *Device) Initialized() bool { return d.initialized }

func (d *Device) close() error {
	if d.binding == nil {
		return nil
	}
	err := d.binding.Close()
	d.binding = nil
	d.initialized = false
	return err
}

// pathBinding identifies a device by path; there is nothing to release.
type pathBinding string

func (b pathBinding) Path() string { return string(b) }
func (pathBinding) Close() error   { return nil }
