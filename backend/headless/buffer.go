package headless

import (
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/stem/gpucore"
)

// MaxVertexAttribs is the number of attribute locations a vertex array has.
const MaxVertexAttribs = 16

type buffer struct {
	data  []byte
	usage gpucore.Usage
}

// AttribState is the recorded state of one vertex array attribute.
type AttribState struct {
	Enabled    bool
	Buffer     gpucore.BufferID
	Size       int32
	Type       gpucore.ElementType
	Normalized bool
	Integer    bool
	Stride     int32
	Offset     int
}

type vertexArray struct {
	attribs map[uint32]*AttribState
	index   gpucore.BufferID
}

// CreateBuffer creates a buffer object.
func (d *Driver) CreateBuffer() gpucore.BufferID {
	d.record("CreateBuffer")
	id := gpucore.BufferID(d.bufferIDs.alloc())
	d.buffers[id] = &buffer{}
	return id
}

// BindBuffer binds a buffer to the vertex or index target. The index
// binding is part of the current vertex array, or of the default binding
// state when none is bound.
func (d *Driver) BindBuffer(target gputypes.BufferUsage, id gpucore.BufferID) {
	d.record("BindBuffer", target, id)
	if id != gpucore.InvalidID {
		if _, ok := d.buffers[id]; !ok {
			d.raise(gpucore.InvalidOperation)
			return
		}
	}
	switch target {
	case gputypes.BufferUsageVertex:
		d.vertexBuffer = id
	case gputypes.BufferUsageIndex:
		*d.indexBinding() = id
	default:
		d.raise(gpucore.InvalidEnum)
	}
}

// BufferData replaces the storage of the buffer bound to target.
func (d *Driver) BufferData(target gputypes.BufferUsage, data []byte, usage gpucore.Usage) {
	d.record("BufferData", target, len(data), usage)
	var id gpucore.BufferID
	switch target {
	case gputypes.BufferUsageVertex:
		id = d.vertexBuffer
	case gputypes.BufferUsageIndex:
		id = *d.indexBinding()
	default:
		d.raise(gpucore.InvalidEnum)
		return
	}
	buf, ok := d.buffers[id]
	if !ok {
		d.raise(gpucore.InvalidOperation)
		return
	}
	buf.data = slices.Clone(data)
	buf.usage = usage
}

// DeleteBuffer releases a buffer object and unbinds it from the current
// bindings.
func (d *Driver) DeleteBuffer(id gpucore.BufferID) {
	d.record("DeleteBuffer", id)
	if _, ok := d.buffers[id]; !ok {
		return
	}
	delete(d.buffers, id)
	d.bufferIDs.release(uint32(id))
	if d.vertexBuffer == id {
		d.vertexBuffer = gpucore.InvalidID
	}
	if idx := d.indexBinding(); *idx == id {
		*idx = gpucore.InvalidID
	}
}

// indexBinding returns the index buffer binding point in effect.
func (d *Driver) indexBinding() *gpucore.BufferID {
	if va, ok := d.arrays[d.vertexArray]; ok {
		return &va.index
	}
	return &d.indexBuffer
}

// BufferContents returns a copy of a buffer's storage.
func (d *Driver) BufferContents(id gpucore.BufferID) ([]byte, bool) {
	buf, ok := d.buffers[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(buf.data), true
}

// CreateVertexArray creates a vertex array object.
func (d *Driver) CreateVertexArray() gpucore.VertexArrayID {
	d.record("CreateVertexArray")
	id := gpucore.VertexArrayID(d.arrayIDs.alloc())
	d.arrays[id] = &vertexArray{attribs: make(map[uint32]*AttribState)}
	return id
}

// BindVertexArray makes the vertex array current.
func (d *Driver) BindVertexArray(id gpucore.VertexArrayID) {
	d.record("BindVertexArray", id)
	if id != gpucore.InvalidID {
		if _, ok := d.arrays[id]; !ok {
			d.raise(gpucore.InvalidOperation)
			return
		}
	}
	d.vertexArray = id
}

// DeleteVertexArray releases a vertex array object.
func (d *Driver) DeleteVertexArray(id gpucore.VertexArrayID) {
	d.record("DeleteVertexArray", id)
	if _, ok := d.arrays[id]; !ok {
		return
	}
	delete(d.arrays, id)
	d.arrayIDs.release(uint32(id))
	if d.vertexArray == id {
		d.vertexArray = gpucore.InvalidID
	}
}

// VertexArray returns a copy of the attribute state of a vertex array,
// keyed by location, and its index buffer binding.
func (d *Driver) VertexArray(id gpucore.VertexArrayID) (map[uint32]AttribState, gpucore.BufferID, bool) {
	va, ok := d.arrays[id]
	if !ok {
		return nil, gpucore.InvalidID, false
	}
	attribs := make(map[uint32]AttribState, len(va.attribs))
	for loc, a := range va.attribs {
		attribs[loc] = *a
	}
	return attribs, va.index, true
}

func (d *Driver) attrib(location uint32) (*AttribState, bool) {
	va, ok := d.arrays[d.vertexArray]
	if !ok {
		d.raise(gpucore.InvalidOperation)
		return nil, false
	}
	if location >= MaxVertexAttribs {
		d.raise(gpucore.InvalidValue)
		return nil, false
	}
	a, ok := va.attribs[location]
	if !ok {
		a = &AttribState{}
		va.attribs[location] = a
	}
	return a, true
}

// EnableVertexAttribArray enables an attribute of the current vertex array.
func (d *Driver) EnableVertexAttribArray(location uint32) {
	d.record("EnableVertexAttribArray", location)
	if a, ok := d.attrib(location); ok {
		a.Enabled = true
	}
}

// VertexAttribPointer describes a floating point attribute.
func (d *Driver) VertexAttribPointer(location uint32, size int32, typ gpucore.ElementType, normalized bool, stride int32, offset int) {
	d.record("VertexAttribPointer", location, size, typ, normalized, stride, offset)
	d.pointer(location, size, typ, normalized, false, stride, offset)
}

// VertexAttribIPointer describes an integer attribute.
func (d *Driver) VertexAttribIPointer(location uint32, size int32, typ gpucore.ElementType, stride int32, offset int) {
	d.record("VertexAttribIPointer", location, size, typ, stride, offset)
	if typ == gpucore.Float {
		d.raise(gpucore.InvalidEnum)
		return
	}
	d.pointer(location, size, typ, false, true, stride, offset)
}

func (d *Driver) pointer(location uint32, size int32, typ gpucore.ElementType, normalized, integer bool, stride int32, offset int) {
	if size < 1 || size > 4 || stride < 0 || offset < 0 {
		d.raise(gpucore.InvalidValue)
		return
	}
	if typ.Size() == 0 {
		d.raise(gpucore.InvalidEnum)
		return
	}
	if d.vertexBuffer == gpucore.InvalidID {
		d.raise(gpucore.InvalidOperation)
		return
	}
	a, ok := d.attrib(location)
	if !ok {
		return
	}
	a.Buffer = d.vertexBuffer
	a.Size = size
	a.Type = typ
	a.Normalized = normalized
	a.Integer = integer
	a.Stride = stride
	a.Offset = offset
}

// drawState checks the state every draw needs and returns the bound
// vertex array.
func (d *Driver) drawState(mode gputypes.PrimitiveTopology, count int32) (*vertexArray, bool) {
	if mode != gputypes.PrimitiveTopologyTriangleList {
		d.raise(gpucore.InvalidEnum)
		return nil, false
	}
	if count < 0 {
		d.raise(gpucore.InvalidValue)
		return nil, false
	}
	if d.current == gpucore.InvalidID {
		d.raise(gpucore.InvalidOperation)
		return nil, false
	}
	va, ok := d.arrays[d.vertexArray]
	if !ok {
		d.raise(gpucore.InvalidOperation)
		return nil, false
	}
	return va, true
}

// verticesFit reports whether every enabled attribute can supply vertex
// number last.
func (d *Driver) verticesFit(va *vertexArray, last int) bool {
	for _, a := range va.attribs {
		if !a.Enabled {
			continue
		}
		buf, ok := d.buffers[a.Buffer]
		if !ok {
			return false
		}
		width := int(a.Size) * a.Type.Size()
		stride := int(a.Stride)
		if stride == 0 {
			stride = width
		}
		if a.Offset+last*stride+width > len(buf.data) {
			return false
		}
	}
	return true
}

// DrawArrays draws count vertices starting at first.
func (d *Driver) DrawArrays(mode gputypes.PrimitiveTopology, first, count int32) {
	d.record("DrawArrays", mode, first, count)
	va, ok := d.drawState(mode, count)
	if !ok || count == 0 {
		return
	}
	if first < 0 {
		d.raise(gpucore.InvalidValue)
		return
	}
	if !d.verticesFit(va, int(first+count-1)) {
		d.raise(gpucore.InvalidOperation)
	}
}

// DrawElements draws count indices from the bound index buffer.
func (d *Driver) DrawElements(mode gputypes.PrimitiveTopology, count int32, typ gpucore.ElementType, offset int) {
	d.record("DrawElements", mode, count, typ, offset)
	va, ok := d.drawState(mode, count)
	if !ok {
		return
	}
	switch typ {
	case gpucore.UnsignedByte, gpucore.UnsignedShort, gpucore.UnsignedInt:
	default:
		d.raise(gpucore.InvalidEnum)
		return
	}
	buf, ok := d.buffers[va.index]
	if !ok {
		d.raise(gpucore.InvalidOperation)
		return
	}
	if offset < 0 || offset+int(count)*typ.Size() > len(buf.data) {
		d.raise(gpucore.InvalidOperation)
	}
}
