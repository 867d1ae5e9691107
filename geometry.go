package stem

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/stem/gpucore"
)

// Attribute describes how one named vertex input is read from a buffer.
type Attribute struct {
	// Name is matched against the active attributes of a program.
	Name string

	// Size is the number of components per vertex, 1 to 4.
	Size int32

	// Stride is the byte distance between vertices; 0 means tightly packed.
	Stride int32

	// Normalized maps integer data to [0, 1] or [-1, 1].
	Normalized bool

	// Offset is the byte offset of the first component.
	Offset int

	// Buffer holds the data. The geometry takes ownership of it.
	Buffer BufferObject
}

// Range is the vertex range drawn by a geometry without index buffer.
type Range struct {
	Start int32
	Count int32
}

// Geometry is a set of named vertex attributes with an optional index
// buffer. It keeps one vertex array per program it has been drawn with,
// because attribute locations differ between programs.
//
// A geometry owns its buffers: replacing an attribute or the index buffer
// releases the old buffer, and Destroy releases them all.
type Geometry struct {
	ctx        *Context
	attributes map[string]Attribute
	order      []string
	vertices   map[string]int
	index      BufferObject
	rng        Range
	// explicitRange is set once SetRange overrides the derived range.
	explicitRange bool
	layouts       map[ProgramHandle]gpucore.VertexArrayID
	destroyed     bool
}

// NewGeometry creates a geometry from attrs. Duplicate names keep the last
// attribute, and the buffers of overridden duplicates are released. If any
// attribute is invalid no buffer is released and the caller keeps them all.
func NewGeometry(ctx *Context, attrs ...Attribute) (*Geometry, error) {
	if ctx.closed {
		return nil, ErrContextClosed
	}
	last := make(map[string]int, len(attrs))
	var names []string
	for i, a := range attrs {
		if err := validAttribute(a); err != nil {
			return nil, err
		}
		if _, ok := last[a.Name]; !ok {
			names = append(names, a.Name)
		}
		last[a.Name] = i
	}

	g := &Geometry{
		ctx:        ctx,
		attributes: make(map[string]Attribute, len(names)),
		vertices:   make(map[string]int, len(names)),
		layouts:    make(map[ProgramHandle]gpucore.VertexArrayID),
	}
	for _, name := range names {
		a := attrs[last[name]]
		n := vertexCount(a)
		if err := g.checkVertices(name, n); err != nil {
			return nil, err
		}
		g.attributes[name] = a
		g.vertices[name] = n
		g.rng.Count = max(g.rng.Count, int32(n))
	}
	g.order = names

	released := make(map[BufferObject]bool)
	for i, a := range attrs {
		if last[a.Name] == i || released[a.Buffer] || g.shared(a.Buffer) {
			continue
		}
		released[a.Buffer] = true
		a.Buffer.Destroy()
	}
	ctx.track(g)
	return g, nil
}

// vertexCount returns how many whole vertices a reads from its buffer.
func vertexCount(a Attribute) int {
	elem := a.Buffer.Type().Size()
	width := int(a.Size) * elem
	stride := int(a.Stride)
	if stride == 0 {
		stride = width
	}
	n := a.Buffer.Len() * elem
	if n < a.Offset+width {
		return 0
	}
	return (n-a.Offset-width)/stride + 1
}

func validAttribute(a Attribute) error {
	switch {
	case a.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAttribute)
	case a.Size < 1 || a.Size > 4:
		return fmt.Errorf("%w: %q has size %d, want 1 to 4", ErrInvalidAttribute, a.Name, a.Size)
	case a.Stride < 0 || a.Offset < 0:
		return fmt.Errorf("%w: %q has negative stride or offset", ErrInvalidAttribute, a.Name)
	case a.Buffer == nil || a.Buffer.ID() == gpucore.InvalidID:
		return fmt.Errorf("%w: %q has no buffer", ErrInvalidAttribute, a.Name)
	case a.Buffer.Target() != gputypes.BufferUsageVertex:
		return fmt.Errorf("%w: %q uses an index buffer", ErrInvalidAttribute, a.Name)
	}
	return nil
}

// checkVertices reports whether n vertices for the named attribute agree
// with every other attribute.
func (g *Geometry) checkVertices(name string, n int) error {
	for other, m := range g.vertices {
		if other != name && m != n {
			return fmt.Errorf("%w: %q has %d vertices, %q has %d", ErrVertexCountMismatch, name, n, other, m)
		}
	}
	return nil
}

// SetAttribute adds or replaces the named attribute. Every attribute must
// describe the same number of vertices. The draw range count grows to the
// attribute's vertex count if it is larger. Replacing the only attribute
// resets a derived range to the new vertex count; a range set with SetRange
// is kept and must be adjusted by the caller.
func (g *Geometry) SetAttribute(a Attribute) error {
	if g.destroyed {
		return ErrGeometryDestroyed
	}
	if err := validAttribute(a); err != nil {
		return err
	}
	n := vertexCount(a)
	if err := g.checkVertices(a.Name, n); err != nil {
		return err
	}

	old, replaced := g.attributes[a.Name]
	g.attributes[a.Name] = a
	g.vertices[a.Name] = n
	if !replaced {
		g.order = append(g.order, a.Name)
	} else if old.Buffer != a.Buffer && !g.shared(old.Buffer) {
		old.Buffer.Destroy()
	}
	if replaced && len(g.attributes) == 1 && !g.explicitRange {
		g.rng = Range{Count: int32(n)}
	} else {
		g.rng.Count = max(g.rng.Count, int32(n))
	}
	g.dropLayouts()
	return nil
}

// shared reports whether any attribute reads from b.
func (g *Geometry) shared(b BufferObject) bool {
	for _, a := range g.attributes {
		if a.Buffer == b {
			return true
		}
	}
	return false
}

// Attribute returns the named attribute.
func (g *Geometry) Attribute(name string) (Attribute, bool) {
	a, ok := g.attributes[name]
	return a, ok
}

// Attributes returns the attributes in the order they were first set.
func (g *Geometry) Attributes() []Attribute {
	attrs := make([]Attribute, 0, len(g.order))
	for _, name := range g.order {
		attrs = append(attrs, g.attributes[name])
	}
	return attrs
}

// SetIndex sets the index buffer, releasing the previous one. Once set,
// Draw always draws indexed. A nil buffer removes the index buffer; a
// destroyed or typed-nil buffer is rejected.
func (g *Geometry) SetIndex(b BufferObject) error {
	if g.destroyed {
		return ErrGeometryDestroyed
	}
	if b != nil {
		if b.ID() == gpucore.InvalidID {
			return fmt.Errorf("%w: buffer has no GPU storage", ErrNotIndexBuffer)
		}
		if b.Target() != gputypes.BufferUsageIndex {
			return ErrNotIndexBuffer
		}
	}
	if g.index != nil && g.index != b {
		g.index.Destroy()
	}
	g.index = b
	g.dropLayouts()
	return nil
}

// Index returns the index buffer, or nil.
func (g *Geometry) Index() BufferObject {
	return g.index
}

// SetRange sets the range drawn without index buffer.
func (g *Geometry) SetRange(r Range) {
	g.rng = r
	g.explicitRange = true
}

// Range returns the range drawn without index buffer.
func (g *Geometry) Range() Range {
	return g.rng
}

// Layouts returns the number of cached vertex arrays.
func (g *Geometry) Layouts() int {
	return len(g.layouts)
}

// Draw draws the geometry with p, which should be current (see
// Program.Use). The first draw with a program builds its vertex array:
// every active attribute of p is read from the geometry attribute of the
// same name, and attributes the geometry lacks are left disabled.
func (g *Geometry) Draw(p *Program) error {
	if g.destroyed {
		return ErrGeometryDestroyed
	}
	if p.ID() == gpucore.InvalidID {
		return ErrProgramDestroyed
	}
	if p.ctx != g.ctx {
		return ErrForeignProgram
	}
	d := g.ctx.driver

	for h, va := range g.layouts {
		if !g.ctx.Alive(h) {
			d.DeleteVertexArray(va)
			delete(g.layouts, h)
		}
	}

	if va, ok := g.layouts[p.Handle()]; ok {
		d.BindVertexArray(va)
	} else {
		g.layouts[p.Handle()] = g.buildLayout(p)
	}

	if g.index != nil {
		g.index.Bind()
		d.DrawElements(gputypes.PrimitiveTopologyTriangleList, int32(g.index.Len()), g.index.Type(), 0)
		return nil
	}
	d.DrawArrays(gputypes.PrimitiveTopologyTriangleList, g.rng.Start, g.rng.Count)
	return nil
}

// buildLayout creates and binds the vertex array for p.
func (g *Geometry) buildLayout(p *Program) gpucore.VertexArrayID {
	d := g.ctx.driver
	va := d.CreateVertexArray()
	d.BindVertexArray(va)

	bound := 0
	for _, slot := range p.Attributes() {
		a, ok := g.attributes[slot.Name]
		if !ok {
			continue
		}
		loc := uint32(slot.Location)
		a.Buffer.Bind()
		d.EnableVertexAttribArray(loc)
		if slot.Type.Integer() && a.Buffer.Type() != gpucore.Float {
			d.VertexAttribIPointer(loc, a.Size, a.Buffer.Type(), a.Stride, a.Offset)
		} else {
			d.VertexAttribPointer(loc, a.Size, a.Buffer.Type(), a.Normalized, a.Stride, a.Offset)
		}
		bound++
	}
	g.ctx.logger.Debug("stem: vertex array built",
		"program", p.ID(),
		"vertexArray", va,
		"attributes", bound)
	return va
}

// dropLayouts deletes every cached vertex array.
func (g *Geometry) dropLayouts() {
	for h, va := range g.layouts {
		g.ctx.driver.DeleteVertexArray(va)
		delete(g.layouts, h)
	}
}

// Destroy releases every attribute buffer once, the index buffer and every
// cached vertex array. Repeated calls are no-ops.
func (g *Geometry) Destroy() {
	if g.destroyed {
		return
	}
	released := make(map[BufferObject]bool, len(g.attributes))
	for _, name := range g.order {
		b := g.attributes[name].Buffer
		if released[b] {
			continue
		}
		released[b] = true
		b.Destroy()
	}
	if g.index != nil {
		g.index.Destroy()
	}
	g.dropLayouts()
	g.destroyed = true
	g.ctx.untrack(g)
}
