package backend

import (
	"errors"

	"github.com/gogpu/stem/gpucore"
)

// Registry names of the built-in drivers.
const (
	// BackendGL is the OpenGL 4.1 core driver in backend/gl.
	BackendGL = "gl"

	// BackendHeadless is the in-memory driver in backend/headless.
	BackendHeadless = "headless"
)

// ErrBackendNotAvailable is returned when a requested backend is not
// registered or none of the registered backends could be opened.
var ErrBackendNotAvailable = errors.New("backend: not available")

// Factory opens a driver. GPU backends fail when no graphics context is
// current on the calling goroutine.
type Factory func() (gpucore.Driver, error)
