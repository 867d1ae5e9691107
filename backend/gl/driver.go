// Package gl provides a gpucore.Driver over OpenGL 4.1 core using go-gl.
//
// The driver is a thin translation layer: gpucore IDs are GL object names
// and the gpucore type tags carry GL enumerant values, so almost every
// method forwards to one GL call. An OpenGL 4.1 context must be current on
// the calling goroutine (see runtime.LockOSThread) before [New] is called
// and for as long as the driver is used.
//
// Importing the package registers the driver as "gl":
//
//	import _ "github.com/gogpu/stem/backend/gl"
package gl

import (
	"errors"
	"fmt"
	"sync"

	glapi "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/stem/backend"
	"github.com/gogpu/stem/gpucore"
)

// Name is the registry name of the OpenGL driver.
const Name = backend.BackendGL

// ErrNoContext is returned by New when no OpenGL context is current.
var ErrNoContext = errors.New("gl: no current OpenGL context")

func init() {
	backend.Register(Name, func() (gpucore.Driver, error) {
		return New()
	})
}

var (
	initOnce sync.Once
	initErr  error
)

// Driver is a gpucore.Driver backed by the current OpenGL context.
type Driver struct {
	version string
}

var _ gpucore.Driver = (*Driver)(nil)

// New loads the OpenGL entry points and returns a driver for the context
// current on the calling goroutine.
func New() (*Driver, error) {
	initOnce.Do(func() {
		initErr = glapi.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("gl: init: %w", initErr)
	}
	v := glapi.GetString(glapi.VERSION)
	if v == nil {
		return nil, ErrNoContext
	}
	return &Driver{version: glapi.GoStr(v)}, nil
}

// Version returns the GL_VERSION string of the context.
func (d *Driver) Version() string {
	return d.version
}

// Error returns and clears one pending GL error flag.
func (d *Driver) Error() gpucore.ErrorCode {
	return gpucore.ErrorCode(glapi.GetError())
}

var stages = map[gpucore.ShaderStage]uint32{
	gpucore.StageVertex:   glapi.VERTEX_SHADER,
	gpucore.StageGeometry: glapi.GEOMETRY_SHADER,
	gpucore.StageFragment: glapi.FRAGMENT_SHADER,
}

var usages = map[gpucore.Usage]uint32{
	gpucore.UsageStatic:  glapi.STATIC_DRAW,
	gpucore.UsageDynamic: glapi.DYNAMIC_DRAW,
	gpucore.UsageStream:  glapi.STREAM_DRAW,
}

var topologies = map[gputypes.PrimitiveTopology]uint32{
	gputypes.PrimitiveTopologyPointList:     glapi.POINTS,
	gputypes.PrimitiveTopologyLineList:      glapi.LINES,
	gputypes.PrimitiveTopologyLineStrip:     glapi.LINE_STRIP,
	gputypes.PrimitiveTopologyTriangleList:  glapi.TRIANGLES,
	gputypes.PrimitiveTopologyTriangleStrip: glapi.TRIANGLE_STRIP,
}

// bufferTarget maps a buffer class to its GL binding point. Unknown
// classes map to 0, which GL rejects with GL_INVALID_ENUM.
func bufferTarget(target gputypes.BufferUsage) uint32 {
	switch target {
	case gputypes.BufferUsageVertex:
		return glapi.ARRAY_BUFFER
	case gputypes.BufferUsageIndex:
		return glapi.ELEMENT_ARRAY_BUFFER
	}
	return 0
}

// cstr returns a NUL-terminated copy of s for GL string parameters.
func cstr(s string) *uint8 {
	return glapi.Str(s + "\x00")
}

// infoLog reads a shader or program log of the given length.
func infoLog(length int32, read func(int32, *int32, *uint8)) string {
	if length <= 1 {
		return ""
	}
	buf := make([]uint8, length)
	var n int32
	read(length, &n, &buf[0])
	return string(buf[:n])
}
