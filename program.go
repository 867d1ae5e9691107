package stem

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/stem/gpucore"
)

// Settings holds the sources and initial uniform values of a program.
// Empty stage sources are skipped; a vertex and fragment stage is the
// usual minimum.
type Settings struct {
	Vertex   string
	Geometry string
	Fragment string

	// Uniforms are applied by name after linking. Names the program does
	// not use are ignored.
	Uniforms []Uniform
}

// Program is a compiled and linked shader program.
//
// Uniform values are stored on the CPU side and uploaded by Use: each
// changed uniform is uploaded once, with its latest value.
type Program struct {
	ctx    *Context
	id     gpucore.ProgramID
	handle ProgramHandle

	uniforms   map[string]*UniformSlot
	attributes map[string]AttributeSlot
}

// NewProgram compiles, links and reflects a program. A stage that fails to
// compile returns a *ShaderSyntaxError and a failed link a
// *ProgramLinkError; no driver object is left behind in either case.
func NewProgram(ctx *Context, s Settings) (*Program, error) {
	if ctx.closed {
		return nil, ErrContextClosed
	}
	d := ctx.driver
	p := &Program{
		ctx:        ctx,
		uniforms:   make(map[string]*UniformSlot),
		attributes: make(map[string]AttributeSlot),
	}

	p.id = d.CreateProgram()
	stages := []struct {
		stage  gpucore.ShaderStage
		source string
	}{
		{gpucore.StageVertex, s.Vertex},
		{gpucore.StageGeometry, s.Geometry},
		{gpucore.StageFragment, s.Fragment},
	}
	for _, st := range stages {
		if err := p.compile(st.stage, st.source); err != nil {
			d.DeleteProgram(p.id)
			return nil, err
		}
	}

	d.LinkProgram(p.id)
	if !d.ProgramLinked(p.id) {
		log := d.ProgramInfoLog(p.id)
		d.DeleteProgram(p.id)
		return nil, &ProgramLinkError{Log: log}
	}

	p.reflectUniforms()
	for _, u := range s.Uniforms {
		if err := p.SetUniform(u.Name, u.Value); err != nil {
			d.DeleteProgram(p.id)
			return nil, err
		}
	}
	p.reflectAttributes()

	p.handle = ctx.acquire()
	ctx.track(p)
	ctx.logger.Debug("stem: program linked",
		"id", p.id,
		"uniforms", len(p.uniforms),
		"attributes", len(p.attributes))
	return p, nil
}

// compile compiles one stage and attaches it. Empty sources are skipped.
func (p *Program) compile(stage gpucore.ShaderStage, source string) error {
	if source == "" {
		return nil
	}
	d := p.ctx.driver
	sh := d.CreateShader(stage)
	d.ShaderSource(sh, source)
	d.CompileShader(sh)
	if !d.ShaderCompiled(sh) {
		log := d.ShaderInfoLog(sh)
		d.DeleteShader(sh)
		return &ShaderSyntaxError{Stage: stage, Log: log}
	}
	d.AttachShader(p.id, sh)
	d.DeleteShader(sh)
	return nil
}

func (p *Program) reflectUniforms() {
	d := p.ctx.driver
	for i := range d.ActiveUniforms(p.id) {
		v := d.ActiveUniform(p.id, i)
		name := strings.TrimSuffix(v.Name, "[0]")
		p.uniforms[name] = &UniformSlot{
			Name:     name,
			Location: d.UniformLocation(p.id, v.Name),
			Type:     v.Type,
			Size:     v.Size,
		}
	}
}

func (p *Program) reflectAttributes() {
	d := p.ctx.driver
	for i := range d.ActiveAttributes(p.id) {
		v := d.ActiveAttribute(p.id, i)
		loc := d.AttribLocation(p.id, v.Name)
		if loc < 0 {
			// Built-in inputs such as gl_VertexID.
			continue
		}
		p.attributes[v.Name] = AttributeSlot{Name: v.Name, Location: loc, Type: v.Type}
	}
}

// ID returns the driver program ID, gpucore.InvalidID once destroyed.
func (p *Program) ID() gpucore.ProgramID {
	return p.id
}

// Handle returns the program's handle in its Context.
func (p *Program) Handle() ProgramHandle {
	return p.handle
}

// SetUniform stores a uniform value for the next Use. Names the program
// does not use are ignored. The value must match the reflected type of the
// uniform: Int for int, Vec2f for vec2, and so on.
func (p *Program) SetUniform(name string, value UniformValue) error {
	slot, ok := p.uniforms[name]
	if !ok {
		return nil
	}
	if !supportedUniform(slot.Type) {
		return &UniformError{Name: name, Type: slot.Type, Value: value, Err: ErrUnsupportedUniformType}
	}
	if value == nil || value.Type() != slot.Type {
		return &UniformError{Name: name, Type: slot.Type, Value: value, Err: ErrUniformTypeMismatch}
	}
	slot.Value = value
	slot.dirty = true
	return nil
}

// SetUniforms calls SetUniform for each uniform and stops at the first
// error.
func (p *Program) SetUniforms(uniforms ...Uniform) error {
	for _, u := range uniforms {
		if err := p.SetUniform(u.Name, u.Value); err != nil {
			return err
		}
	}
	return nil
}

// Use makes the program current and uploads every uniform changed since
// the last Use.
func (p *Program) Use() error {
	if p.id == gpucore.InvalidID {
		return ErrProgramDestroyed
	}
	d := p.ctx.driver
	d.UseProgram(p.id)
	for _, slot := range p.uniforms {
		if !slot.dirty {
			continue
		}
		if err := uploadUniform(d, slot); err != nil {
			return fmt.Errorf("stem: use program %d: %w", p.id, err)
		}
		slot.dirty = false
	}
	return nil
}

// Uniform returns the slot of the named uniform.
func (p *Program) Uniform(name string) (UniformSlot, bool) {
	slot, ok := p.uniforms[name]
	if !ok {
		return UniformSlot{}, false
	}
	return *slot, true
}

// Uniforms returns all uniform slots ordered by location.
func (p *Program) Uniforms() []UniformSlot {
	slots := make([]UniformSlot, 0, len(p.uniforms))
	for _, slot := range p.uniforms {
		slots = append(slots, *slot)
	}
	slices.SortFunc(slots, func(a, b UniformSlot) int {
		return cmp.Compare(a.Location, b.Location)
	})
	return slots
}

// Attribute returns the slot of the named vertex attribute.
func (p *Program) Attribute(name string) (AttributeSlot, bool) {
	slot, ok := p.attributes[name]
	return slot, ok
}

// Attributes returns all vertex attribute slots ordered by location.
func (p *Program) Attributes() []AttributeSlot {
	slots := make([]AttributeSlot, 0, len(p.attributes))
	for _, slot := range p.attributes {
		slots = append(slots, slot)
	}
	slices.SortFunc(slots, func(a, b AttributeSlot) int {
		return cmp.Compare(a.Location, b.Location)
	})
	return slots
}

// Destroy deletes the program, resets the ID to gpucore.InvalidID and
// retires the handle. Repeated calls are no-ops.
func (p *Program) Destroy() {
	if p.id == gpucore.InvalidID {
		return
	}
	p.ctx.driver.DeleteProgram(p.id)
	p.id = gpucore.InvalidID
	p.ctx.retire(p.handle)
	p.ctx.untrack(p)
}
