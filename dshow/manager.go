// Package dshow keeps the process-wide list of capture devices.
//
// Devices are enumerated through the platform's device enumerator
// (DirectShow on Windows, libstream_v4l2/libstream_alsa on Linux,
// libstream_avfoundation on macOS). A device whose name cannot be read or
// that fails to bind is skipped; a failure to enumerate at all leaves the
// list empty. Neither is reported as an error to the caller of Initialize.
package dshow

import (
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type options struct {
	platform Platform
	category Category
	logger   logrus.FieldLogger
}

// Option configures a Manager.
type Option func(*options)

// WithPlatform replaces the system enumeration API.
func WithPlatform(p Platform) Option {
	return func(o *options) { o.platform = p }
}

// WithCategory selects the device category. The default is VideoInput.
func WithCategory(c Category) Option {
	return func(o *options) { o.category = c }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Manager owns an enumerated device list.
type Manager struct {
	mu       sync.RWMutex
	platform Platform
	category Category
	log      logrus.FieldLogger
	devices  []*Device
	skipped  error
}

// NewManager creates a manager and enumerates devices before returning.
func NewManager(opts ...Option) *Manager {
	o := options{
		platform: DefaultPlatform(),
		category: VideoInput,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	m := &Manager{
		platform: o.platform,
		category: o.category,
		log:      o.logger.WithField("category", o.category.String()),
	}
	m.Refresh()
	return m
}

// Devices returns the devices in enumeration order. The devices remain
// owned by the manager.
func (m *Manager) Devices() []*Device {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Device, len(m.devices))
	copy(out, m.devices)
	return out
}

// Category returns the device category the manager enumerates.
func (m *Manager) Category() Category { return m.category }

func (m *Manager) DevicesCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.devices)
}

// Skipped reports why devices were left out of the last enumeration, or
// nil when none were.
func (m *Manager) Skipped() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.skipped
}

// Refresh discards the current devices and enumerates again.
func (m *Manager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.clear(); err != nil {
		m.log.WithError(err).Warn("dshow: releasing previous devices")
	}
	m.skipped = nil

	enum, err := m.platform.Open()
	if err != nil {
		m.log.WithError(err).Debug("dshow: device enumerator unavailable")
		return
	}
	defer enum.Release()

	monikers, err := enum.CreateClassEnumerator(m.category)
	if err != nil {
		if errors.Is(err, ErrNoDevices) {
			m.log.Debug("dshow: no capture devices")
		} else {
			m.log.WithError(err).Debug("dshow: class enumerator unavailable")
		}
		return
	}
	defer monikers.Release()

	var skipped *multierror.Error
	for {
		mon, ok := monikers.Next()
		if !ok {
			break
		}
		if err := m.add(mon); err != nil {
			skipped = multierror.Append(skipped, err)
		}
		mon.Release()
	}
	m.skipped = skipped.ErrorOrNil()

	m.log.WithFields(logrus.Fields{
		"devices": len(m.devices),
		"skipped": skippedCount(skipped),
	}).Debug("dshow: enumeration complete")
}

func (m *Manager) add(mon Moniker) error {
	bag, err := mon.BindToStorage()
	if err != nil {
		return errors.Wrap(err, "bind property bag")
	}
	defer bag.Release()

	name, err := bag.Read(PropFriendlyName)
	if err != nil {
		return errors.Wrap(err, "read friendly name")
	}

	dev := newDevice(name)
	if err := dev.init(mon); err != nil {
		m.log.WithError(err).WithField("device", name).Debug("dshow: failed to initialize device")
		return errors.Wrapf(err, "initialize %q", name)
	}
	m.devices = append(m.devices, dev)
	return nil
}

func (m *Manager) clear() error {
	var result *multierror.Error
	for _, d := range m.devices {
		if err := d.close(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "close %q", d.name))
		}
	}
	m.devices = nil
	return result.ErrorOrNil()
}

// Close releases every device. The manager is empty afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped = nil
	return m.clear()
}

func skippedCount(err *multierror.Error) int {
	if err == nil {
		return 0
	}
	return len(err.Errors)
}

var (
	instanceMu sync.Mutex
	instance   *Manager
)

// Initialize creates the process-wide manager if there is none. It reports
// whether a manager exists afterwards; options are ignored when one
// already does.
func Initialize(opts ...Option) bool {
	m, _ := Acquire(opts...)
	return m != nil
}

// Acquire returns the process-wide manager, creating it with opts if there
// is none. created reports whether this call created it; a caller that did
// not create the manager should leave its teardown to the one that did.
func Acquire(opts ...Option) (m *Manager, created bool) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = NewManager(opts...)
		created = true
	}
	return instance, created
}

// Instance returns the process-wide manager, or nil before Initialize.
func Instance() *Manager {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	return instance
}

// Destroy releases the process-wide manager and its devices. It does
// nothing when there is no manager.
func Destroy() {
	instanceMu.Lock()
	m := instance
	instance = nil
	instanceMu.Unlock()
	if m == nil {
		return
	}
	if err := m.Close(); err != nil {
		m.log.WithError(err).Warn("dshow: releasing devices")
	}
}

// Release destroys the process-wide manager if it is still m and returns
// the errors from releasing its devices. A manager that has already been
// destroyed or replaced is left alone.
func Release(m *Manager) error {
	instanceMu.Lock()
	if m == nil || instance != m {
		instanceMu.Unlock()
		return nil
	}
	instance = nil
	instanceMu.Unlock()
	return m.Close()
}
