// Package native locates and loads the shared libraries wrapped by neomedia
// and converts between C and Go memory representations.
package native

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
)

// ErrUnsupportedPlatform is returned by Open where dlopen is unavailable.
var ErrUnsupportedPlatform = errors.New("native libraries are not supported on " + runtime.GOOS)

// SDKPathEnv names the directory holding every libstream_* wrapper.
const SDKPathEnv = "STREAM_SDK_LIB_PATH"

// maxCStringLen bounds GoString scans of unterminated memory.
const maxCStringLen = 4096

var (
	libraryDirMu sync.RWMutex
	libraryDir   string
)

// SetLibraryDir adds a directory that is searched right after the
// environment overrides.
func SetLibraryDir(dir string) {
	libraryDirMu.Lock()
	libraryDir = dir
	libraryDirMu.Unlock()
}

func configuredDir() string {
	libraryDirMu.RLock()
	defer libraryDirMu.RUnlock()
	return libraryDir
}

// LibraryFileName maps a base name such as "stream_ffmpeg" or "portaudio" to
// the platform file name.
func LibraryFileName(base string) string {
	switch runtime.GOOS {
	case "darwin":
		return "lib" + base + ".dylib"
	case "windows":
		return base + ".dll"
	default:
		return "lib" + base + ".so"
	}
}

// SearchPaths returns the candidate locations for a library in the order
// they should be tried. envVar, when non-empty, names a variable holding an
// explicit file path that takes precedence over everything else.
func SearchPaths(base, envVar string, sonames ...string) []string {
	libName := LibraryFileName(base)
	var paths []string

	if envVar != "" {
		if p := os.Getenv(envVar); p != "" {
			paths = append(paths, p)
		}
	}

	var dirs []string
	if p := os.Getenv(SDKPathEnv); p != "" {
		dirs = append(dirs, p)
	}
	if p := configuredDir(); p != "" {
		dirs = append(dirs, p)
	}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		dirs = append(dirs, exeDir, filepath.Join(exeDir, "..", "lib"))
	}
	if root := findModuleRoot(); root != "" {
		dirs = append(dirs, filepath.Join(root, "build"), filepath.Join(root, "build", "ffi"))
	}
	dirs = append(dirs, "build", "build/ffi", "../build", "../../build")

	for _, dir := range dirs {
		paths = append(paths, filepath.Join(dir, libName))
	}

	// Bare names go through the dynamic loader's own search path.
	paths = append(paths, libName)
	paths = append(paths, sonames...)

	switch runtime.GOOS {
	case "darwin":
		paths = append(paths,
			filepath.Join("/usr/local/lib", libName),
			filepath.Join("/opt/homebrew/lib", libName),
		)
	case "linux":
		paths = append(paths,
			filepath.Join("/usr/local/lib", libName),
			filepath.Join("/usr/lib", libName),
		)
	}
	return paths
}

// findModuleRoot walks up from the working directory to the nearest go.mod.
func findModuleRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// GoString copies a NUL-terminated C string.
func GoString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := unsafe.Pointer(ptr)
	n := 0
	for n < maxCStringLen && *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), n))
}

// CString returns a NUL-terminated copy of s in Go memory. The caller keeps
// the slice alive for as long as C may read it.
func CString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// Bool converts to the C int convention.
func Bool(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
