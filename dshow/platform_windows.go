//go:build windows

package dshow

import (
	"runtime"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"github.com/pkg/errors"
)

var (
	clsidSystemDeviceEnum         = ole.NewGUID("{62BE5D10-60EB-11d0-BD3B-00A0C911CE86}")
	iidICreateDevEnum             = ole.NewGUID("{29840822-5B84-11D0-BD3B-00A0C911CE86}")
	clsidVideoInputDeviceCategory = ole.NewGUID("{860BB310-5D01-11d0-BD3B-00A0C911CE86}")
	clsidAudioInputDeviceCategory = ole.NewGUID("{33D9A762-90C8-11d0-BD43-00A0C911CE86}")
	iidIPropertyBag               = ole.NewGUID("{55272A00-42CB-11CE-8135-00AA004BB851}")
	iidIBaseFilter                = ole.NewGUID("{56a86895-0ad4-11ce-b03a-0020af0ba770}")
)

// COM vtable indices (IUnknown = 0,1,2)
const (
	vtRelease                    = 2
	createDevEnumCreateClassEnum = 3 // ICreateDevEnum::CreateClassEnumerator
	enumMonikerNext              = 3 // IEnumMoniker::Next
	monikerBindToObject          = 8 // IMoniker::BindToObject (after IPersistStream 3..7)
	monikerBindToStorage         = 9 // IMoniker::BindToStorage
	propertyBagRead              = 3 // IPropertyBag::Read

	sOK    = 0
	sFalse = 1
)

// method returns the address of vtable entry idx of obj. Out-parameter
// addresses must be converted to uintptr in the syscall.SyscallN argument
// list itself so the compiler keeps them in place for the call.
func method(obj uintptr, idx int) uintptr {
	vtbl := *(*uintptr)(unsafe.Pointer(obj))
	return *(*uintptr)(unsafe.Pointer(vtbl + uintptr(idx)*unsafe.Sizeof(uintptr(0))))
}

func comRelease(obj uintptr) {
	if obj != 0 {
		syscall.SyscallN(method(obj, vtRelease), obj)
	}
}

func failed(hr uintptr) bool { return int32(hr) < 0 }

type comPlatform struct{}

// DefaultPlatform enumerates DirectShow capture filters.
func DefaultPlatform() Platform { return comPlatform{} }

// Open starts a COM session on the calling goroutine's OS thread. The
// thread stays locked until Release.
func (comPlatform) Open() (DeviceEnumerator, error) {
	runtime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			runtime.UnlockOSThread()
			return nil, errors.Wrap(err, "dshow: CoInitializeEx")
		}
	}
	unk, err := ole.CreateInstance(clsidSystemDeviceEnum, iidICreateDevEnum)
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, errors.Wrap(err, "dshow: create system device enumerator")
	}
	return &comEnumerator{devEnum: unk}, nil
}

type comEnumerator struct {
	devEnum *ole.IUnknown
}

func (e *comEnumerator) CreateClassEnumerator(c Category) (MonikerEnumerator, error) {
	clsid := clsidVideoInputDeviceCategory
	if c == AudioInput {
		clsid = clsidAudioInputDeviceCategory
	}
	var enum uintptr
	obj := uintptr(unsafe.Pointer(e.devEnum))
	hr, _, _ := syscall.SyscallN(method(obj, createDevEnumCreateClassEnum), obj,
		uintptr(unsafe.Pointer(clsid)), uintptr(unsafe.Pointer(&enum)), 0)
	if failed(hr) {
		return nil, ole.NewError(hr)
	}
	if hr == sFalse || enum == 0 {
		return nil, ErrNoDevices
	}
	return &comMonikers{enum: enum}, nil
}

func (e *comEnumerator) Release() {
	if e.devEnum != nil {
		e.devEnum.Release()
		e.devEnum = nil
		ole.CoUninitialize()
		runtime.UnlockOSThread()
	}
}

type comMonikers struct {
	enum uintptr
}

func (m *comMonikers) Next() (Moniker, bool) {
	var mon uintptr
	hr, _, _ := syscall.SyscallN(method(m.enum, enumMonikerNext), m.enum, 1, uintptr(unsafe.Pointer(&mon)), 0)
	if hr != sOK || mon == 0 {
		return nil, false
	}
	return comMoniker(mon), true
}

func (m *comMonikers) Release() {
	comRelease(m.enum)
	m.enum = 0
}

type comMoniker uintptr

func (m comMoniker) bind(idx int, iid *ole.GUID) (uintptr, error) {
	var out uintptr
	hr, _, _ := syscall.SyscallN(method(uintptr(m), idx), uintptr(m), 0, 0,
		uintptr(unsafe.Pointer(iid)), uintptr(unsafe.Pointer(&out)))
	if failed(hr) {
		return 0, ole.NewError(hr)
	}
	return out, nil
}

func (m comMoniker) BindToStorage() (PropertyBag, error) {
	bag, err := m.bind(monikerBindToStorage, iidIPropertyBag)
	if err != nil {
		return nil, err
	}
	return comPropertyBag(bag), nil
}

// BindToObject instantiates the capture filter to prove the device is
// usable, then releases it. The binding keeps the device path only, since
// COM objects do not outlive the enumeration session.
func (m comMoniker) BindToObject() (Binding, error) {
	filter, err := m.bind(monikerBindToObject, iidIBaseFilter)
	if err != nil {
		return nil, err
	}
	comRelease(filter)

	bag, err := m.BindToStorage()
	if err != nil {
		return nil, err
	}
	defer bag.Release()
	path, err := bag.Read(PropDevicePath)
	if err != nil {
		// Virtual devices have no device path.
		path, err = bag.Read(PropFriendlyName)
		if err != nil {
			return nil, err
		}
	}
	return pathBinding(path), nil
}

func (m comMoniker) Release() { comRelease(uintptr(m)) }

type comPropertyBag uintptr

func (b comPropertyBag) Read(name string) (string, error) {
	prop, err := syscall.UTF16PtrFromString(name)
	if err != nil {
		return "", err
	}
	var v ole.VARIANT
	ole.VariantInit(&v)
	defer ole.VariantClear(&v)

	hr, _, _ := syscall.SyscallN(method(uintptr(b), propertyBagRead), uintptr(b),
		uintptr(unsafe.Pointer(prop)), uintptr(unsafe.Pointer(&v)), 0)
	if failed(hr) {
		return "", ole.NewError(hr)
	}
	if v.VT != ole.VT_BSTR {
		return "", errors.Errorf("dshow: property %s has type %d", name, v.VT)
	}
	return v.ToString(), nil
}

func (b comPropertyBag) Release() { comRelease(uintptr(b)) }
