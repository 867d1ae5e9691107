package stem

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/stem/gpucore"
)

// Element is the set of buffer element types.
type Element interface {
	float32 | uint32 | uint16 | uint8 | int32 | int16 | int8
}

// IndexElement is the set of index buffer element types.
type IndexElement interface {
	uint32 | uint16 | uint8
}

// BufferObject is implemented by every buffer, whatever its element type.
// Geometry stores attribute and index buffers through it.
type BufferObject interface {
	// ID returns the driver buffer ID, gpucore.InvalidID once destroyed.
	ID() gpucore.BufferID

	// Bind binds the buffer to its target.
	Bind()

	// Destroy releases the buffer. Repeated calls are no-ops.
	Destroy()

	// Len returns the number of elements.
	Len() int

	// Type returns the element type.
	Type() gpucore.ElementType

	// Target returns gputypes.BufferUsageVertex or gputypes.BufferUsageIndex.
	Target() gputypes.BufferUsage
}

// Buffer is a typed block of GPU memory.
type Buffer[T Element] struct {
	ctx    *Context
	id     gpucore.BufferID
	n      int
	typ    gpucore.ElementType
	target gputypes.BufferUsage
	usage  gpucore.Usage
}

// Vertex buffer aliases for each element type.
type (
	FloatBuffer  = Buffer[float32]
	Uint32Buffer = Buffer[uint32]
	Uint16Buffer = Buffer[uint16]
	Uint8Buffer  = Buffer[uint8]
	Int32Buffer  = Buffer[int32]
	Int16Buffer  = Buffer[int16]
	Int8Buffer   = Buffer[int8]
)

var _ BufferObject = (*Buffer[float32])(nil)

// NewBuffer creates a vertex buffer holding data. The usage hint is passed
// to the driver and has no other effect.
func NewBuffer[T Element](ctx *Context, data []T, usage gpucore.Usage) (*Buffer[T], error) {
	return newBuffer(ctx, data, gputypes.BufferUsageVertex, usage)
}

// NewIndexBuffer creates an index buffer holding data.
func NewIndexBuffer[T IndexElement](ctx *Context, data []T, usage gpucore.Usage) (*Buffer[T], error) {
	return newBuffer(ctx, data, gputypes.BufferUsageIndex, usage)
}

func newBuffer[T Element](ctx *Context, data []T, target gputypes.BufferUsage, usage gpucore.Usage) (*Buffer[T], error) {
	if ctx.closed {
		return nil, ErrContextClosed
	}
	raw, err := binary.Append(nil, binary.NativeEndian, data)
	if err != nil {
		return nil, fmt.Errorf("stem: encode buffer: %w", err)
	}

	d := ctx.driver
	b := &Buffer[T]{
		ctx:    ctx,
		n:      len(data),
		typ:    elementType[T](),
		target: target,
		usage:  usage,
	}
	b.id = d.CreateBuffer()
	if target == gputypes.BufferUsageIndex {
		// The index binding belongs to the bound vertex array; keep it
		// away from any geometry's.
		d.BindVertexArray(gpucore.InvalidID)
	}
	d.BindBuffer(target, b.id)
	d.BufferData(target, raw, usage)
	ctx.track(b)
	return b, nil
}

// elementType returns the driver element type of T.
func elementType[T Element]() gpucore.ElementType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return gpucore.Float
	case uint32:
		return gpucore.UnsignedInt
	case uint16:
		return gpucore.UnsignedShort
	case uint8:
		return gpucore.UnsignedByte
	case int32:
		return gpucore.Int
	case int16:
		return gpucore.Short
	default: // int8
		return gpucore.Byte
	}
}

// ID returns the driver buffer ID, or gpucore.InvalidID once the buffer is
// destroyed. A nil *Buffer reports gpucore.InvalidID.
func (b *Buffer[T]) ID() gpucore.BufferID {
	if b == nil {
		return gpucore.InvalidID
	}
	return b.id
}

func (b *Buffer[T]) Len() int                     { return b.n }
func (b *Buffer[T]) Type() gpucore.ElementType    { return b.typ }
func (b *Buffer[T]) Target() gputypes.BufferUsage { return b.target }
func (b *Buffer[T]) Usage() gpucore.Usage         { return b.usage }

// Bind binds the buffer to its target. It does nothing once the buffer is
// destroyed.
func (b *Buffer[T]) Bind() {
	if b.id == gpucore.InvalidID {
		return
	}
	b.ctx.driver.BindBuffer(b.target, b.id)
}

// Destroy releases the GPU memory and resets the ID to gpucore.InvalidID.
// Repeated calls are no-ops.
func (b *Buffer[T]) Destroy() {
	if b.id == gpucore.InvalidID {
		return
	}
	b.ctx.driver.DeleteBuffer(b.id)
	b.id = gpucore.InvalidID
	b.ctx.untrack(b)
}
