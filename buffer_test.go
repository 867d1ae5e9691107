package stem

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/stem/backend/headless"
	"github.com/gogpu/stem/gpucore"
)

// checkBuffer verifies the metadata of a buffer and the bytes the driver
// holds for it.
func checkBuffer[T Element](t *testing.T, d *headless.Driver, b *Buffer[T], data []T, typ gpucore.ElementType, target gputypes.BufferUsage) {
	t.Helper()
	if b.ID() == gpucore.InvalidID {
		t.Fatal("ID() = InvalidID")
	}
	if b.Len() != len(data) {
		t.Errorf("Len() = %d, want %d", b.Len(), len(data))
	}
	if b.Type() != typ {
		t.Errorf("Type() = %v, want %v", b.Type(), typ)
	}
	if b.Target() != target {
		t.Errorf("Target() = %v, want %v", b.Target(), target)
	}
	got, ok := d.BufferContents(b.ID())
	if !ok {
		t.Fatal("driver has no storage for the buffer")
	}
	want, err := binary.Append(nil, binary.NativeEndian, data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("contents = %v, want %v", got, want)
	}
}

func TestNewBufferElementTypes(t *testing.T) {
	ctx, d := newTestContext(t)
	vertex := gputypes.BufferUsageVertex

	f, err := NewBuffer(ctx, []float32{0.5, -1, 2}, gpucore.UsageStatic)
	if err != nil {
		t.Fatal(err)
	}
	checkBuffer(t, d, f, []float32{0.5, -1, 2}, gpucore.Float, vertex)

	u32, err := NewBuffer(ctx, []uint32{1, 1 << 20}, gpucore.UsageStatic)
	if err != nil {
		t.Fatal(err)
	}
	checkBuffer(t, d, u32, []uint32{1, 1 << 20}, gpucore.UnsignedInt, vertex)

	u16, err := NewBuffer(ctx, []uint16{7, 65535}, gpucore.UsageDynamic)
	if err != nil {
		t.Fatal(err)
	}
	checkBuffer(t, d, u16, []uint16{7, 65535}, gpucore.UnsignedShort, vertex)

	u8, err := NewBuffer(ctx, []uint8{255}, gpucore.UsageStream)
	if err != nil {
		t.Fatal(err)
	}
	checkBuffer(t, d, u8, []uint8{255}, gpucore.UnsignedByte, vertex)

	i32, err := NewBuffer(ctx, []int32{-3, 3}, gpucore.UsageStatic)
	if err != nil {
		t.Fatal(err)
	}
	checkBuffer(t, d, i32, []int32{-3, 3}, gpucore.Int, vertex)

	i16, err := NewBuffer(ctx, []int16{-300}, gpucore.UsageStatic)
	if err != nil {
		t.Fatal(err)
	}
	checkBuffer(t, d, i16, []int16{-300}, gpucore.Short, vertex)

	i8, err := NewBuffer(ctx, []int8{-1, 0, 1}, gpucore.UsageStatic)
	if err != nil {
		t.Fatal(err)
	}
	checkBuffer(t, d, i8, []int8{-1, 0, 1}, gpucore.Byte, vertex)

	if got := ctx.Live(); got != 7 {
		t.Errorf("ctx.Live() = %d, want 7", got)
	}
	noDriverErrors(t, d)
}

func TestNewBufferUsage(t *testing.T) {
	ctx, d := newTestContext(t)
	b, err := NewBuffer(ctx, []float32{1}, gpucore.UsageDynamic)
	if err != nil {
		t.Fatal(err)
	}
	if b.Usage() != gpucore.UsageDynamic {
		t.Errorf("Usage() = %v, want UsageDynamic", b.Usage())
	}
	call, _ := d.Last("BufferData")
	if call.Args[2] != gpucore.UsageDynamic {
		t.Errorf("BufferData usage = %v, want UsageDynamic", call.Args[2])
	}
}

func TestNewBufferEmpty(t *testing.T) {
	ctx, d := newTestContext(t)
	b, err := NewBuffer[float32](ctx, nil, gpucore.UsageStatic)
	if err != nil {
		t.Fatalf("NewBuffer(nil) error = %v", err)
	}
	checkBuffer(t, d, b, nil, gpucore.Float, gputypes.BufferUsageVertex)
	noDriverErrors(t, d)
}

func TestNewIndexBuffer(t *testing.T) {
	ctx, d := newTestContext(t)
	b, err := NewIndexBuffer(ctx, []uint16{0, 1, 2, 2, 3, 0}, gpucore.UsageStatic)
	if err != nil {
		t.Fatal(err)
	}
	checkBuffer(t, d, b, []uint16{0, 1, 2, 2, 3, 0}, gpucore.UnsignedShort, gputypes.BufferUsageIndex)
	noDriverErrors(t, d)
}

func TestNewIndexBufferKeepsVertexArrays(t *testing.T) {
	ctx, d := newTestContext(t)
	p := newQuadProgram(t, ctx)
	g, err := NewGeometry(ctx, Attribute{Name: "position", Size: 2, Buffer: newFloatBuffer(t, ctx, quadPositions)})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Use(); err != nil {
		t.Fatal(err)
	}
	if err := g.Draw(p); err != nil {
		t.Fatal(err)
	}
	va := d.BoundVertexArray()

	// Creating an index buffer must not change the index binding of the
	// vertex array left bound by the draw.
	if _, err := NewIndexBuffer(ctx, []uint8{0, 1, 2}, gpucore.UsageStatic); err != nil {
		t.Fatal(err)
	}
	if _, index, _ := d.VertexArray(va); index != gpucore.InvalidID {
		t.Errorf("vertex array index binding = %d, want none", index)
	}
	noDriverErrors(t, d)
}

func TestBufferDestroy(t *testing.T) {
	ctx, d := newTestContext(t)
	b, err := NewBuffer(ctx, []float32{1, 2}, gpucore.UsageStatic)
	if err != nil {
		t.Fatal(err)
	}
	d.Reset()

	b.Destroy()
	b.Destroy()
	if b.ID() != gpucore.InvalidID {
		t.Errorf("ID() after Destroy = %d, want InvalidID", b.ID())
	}
	if got := d.Count("DeleteBuffer"); got != 1 {
		t.Errorf("DeleteBuffer calls = %d, want 1", got)
	}
	if got := ctx.Live(); got != 0 {
		t.Errorf("ctx.Live() = %d, want 0", got)
	}

	// Bind on a destroyed buffer does not reach the driver.
	b.Bind()
	if got := d.Count("BindBuffer"); got != 0 {
		t.Errorf("BindBuffer calls after Destroy = %d, want 0", got)
	}
}

func TestNewBufferClosedContext(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Close()
	if _, err := NewBuffer(ctx, []float32{1}, gpucore.UsageStatic); !errors.Is(err, ErrContextClosed) {
		t.Errorf("NewBuffer() error = %v, want ErrContextClosed", err)
	}
	if _, err := NewIndexBuffer(ctx, []uint32{0}, gpucore.UsageStatic); !errors.Is(err, ErrContextClosed) {
		t.Errorf("NewIndexBuffer() error = %v, want ErrContextClosed", err)
	}
}
