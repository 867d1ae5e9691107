// Package headless provides an in-memory gpucore.Driver.
//
// The headless driver implements the full object, reflection and draw API
// without a GPU. Shader stages are checked and reflected by scanning their
// declarations (GLSL) or by compiling them with naga (WGSL), uniform uploads
// are stored per program, draws are validated against the bound state, and
// every call is appended to a call log.
//
// It is the driver used by the stem tests and by CI machines without a GPU
// context, and it is registered with the backend registry as "headless".
//
// Like a real driver, failures never surface as return values: they raise an
// error flag collected with [Driver.Error].
package headless

import (
	"fmt"
	"slices"

	"github.com/gogpu/stem/backend"
	"github.com/gogpu/stem/gpucore"
)

// Name is the registry name of the headless driver.
const Name = backend.BackendHeadless

func init() {
	backend.Register(Name, func() (gpucore.Driver, error) {
		return New(), nil
	})
}

// Call is one recorded driver call.
type Call struct {
	Op   string
	Args []any
}

// String formats the call like a C call expression.
func (c Call) String() string {
	s := c.Op + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprint(a)
	}
	return s + ")"
}

// Objects counts live driver objects.
type Objects struct {
	Shaders      int
	Programs     int
	Buffers      int
	VertexArrays int
}

// idPool hands out object names the way GL drivers do: the lowest released
// name is reused first.
type idPool struct {
	next uint32
	free []uint32
}

func (p *idPool) alloc() uint32 {
	if n := len(p.free); n > 0 {
		slices.Sort(p.free)
		id := p.free[0]
		p.free = p.free[1:]
		return id
	}
	p.next++
	return p.next
}

func (p *idPool) release(id uint32) {
	p.free = append(p.free, id)
}

// Driver is an in-memory gpucore.Driver.
//
// Driver is not safe for concurrent use, matching the single-context model
// of the API it stands in for.
type Driver struct {
	shaderIDs  idPool
	programIDs idPool
	bufferIDs  idPool
	arrayIDs   idPool

	shaders  map[gpucore.ShaderID]*shader
	programs map[gpucore.ProgramID]*program
	buffers  map[gpucore.BufferID]*buffer
	arrays   map[gpucore.VertexArrayID]*vertexArray

	// Current binding state.
	current      gpucore.ProgramID
	vertexBuffer gpucore.BufferID
	indexBuffer  gpucore.BufferID // used while no vertex array is bound
	vertexArray  gpucore.VertexArrayID

	errors []gpucore.ErrorCode
	calls  []Call
}

var _ gpucore.Driver = (*Driver)(nil)

// New creates an empty headless driver.
func New() *Driver {
	return &Driver{
		shaders:  make(map[gpucore.ShaderID]*shader),
		programs: make(map[gpucore.ProgramID]*program),
		buffers:  make(map[gpucore.BufferID]*buffer),
		arrays:   make(map[gpucore.VertexArrayID]*vertexArray),
	}
}

func (d *Driver) record(op string, args ...any) {
	d.calls = append(d.calls, Call{Op: op, Args: args})
}

func (d *Driver) raise(code gpucore.ErrorCode) {
	d.errors = append(d.errors, code)
}

// Calls returns a copy of the call log.
func (d *Driver) Calls() []Call {
	return slices.Clone(d.calls)
}

// Count returns how many times op was called since the last Reset.
func (d *Driver) Count(op string) int {
	n := 0
	for _, c := range d.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Last returns the most recent call to op.
func (d *Driver) Last(op string) (Call, bool) {
	for i := len(d.calls) - 1; i >= 0; i-- {
		if d.calls[i].Op == op {
			return d.calls[i], true
		}
	}
	return Call{}, false
}

// Reset clears the call log. Object state is kept.
func (d *Driver) Reset() {
	d.calls = d.calls[:0]
}

// Live returns the number of live objects of each kind.
func (d *Driver) Live() Objects {
	return Objects{
		Shaders:      len(d.shaders),
		Programs:     len(d.programs),
		Buffers:      len(d.buffers),
		VertexArrays: len(d.arrays),
	}
}

// CurrentProgram returns the program made current by UseProgram.
func (d *Driver) CurrentProgram() gpucore.ProgramID {
	return d.current
}

// BoundVertexArray returns the vertex array made current by BindVertexArray.
func (d *Driver) BoundVertexArray() gpucore.VertexArrayID {
	return d.vertexArray
}

// Error returns and clears the oldest pending error flag.
func (d *Driver) Error() gpucore.ErrorCode {
	if len(d.errors) == 0 {
		return gpucore.NoError
	}
	code := d.errors[0]
	d.errors = d.errors[1:]
	return code
}
