//go:build !cgo

package platform

import "errors"

// ErrNoBackend is returned when the binary was built without cgo and so
// without the GLFW backend.
var ErrNoBackend = errors.New("platform: no window backend (built with CGO_ENABLED=0)")

func NewPlatformWindowWrapper(WindowConfig) (PlatformWindowWrapper, error) {
	return nil, ErrNoBackend
}
