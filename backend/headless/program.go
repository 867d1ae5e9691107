package headless

import (
	"fmt"
	"strings"

	"github.com/gogpu/stem/gpucore"
)

// variable is one reflected uniform or attribute of a linked program.
type variable struct {
	gpucore.ActiveVariable
	location int32
}

type program struct {
	attached []*shader
	linked   bool
	log      string

	uniforms   []variable
	attributes []variable

	// values holds the last value uploaded to each uniform location.
	values map[int32]any
}

// CreateProgram creates an empty program object.
func (d *Driver) CreateProgram() gpucore.ProgramID {
	d.record("CreateProgram")
	id := gpucore.ProgramID(d.programIDs.alloc())
	d.programs[id] = &program{values: make(map[int32]any)}
	return id
}

// AttachShader attaches a shader to a program. The program keeps a snapshot
// of the shader, so the shader object may be deleted right after.
func (d *Driver) AttachShader(id gpucore.ProgramID, sid gpucore.ShaderID) {
	d.record("AttachShader", id, sid)
	pr, ok := d.programs[id]
	if !ok {
		d.raise(gpucore.InvalidValue)
		return
	}
	sh, ok := d.shaders[sid]
	if !ok {
		d.raise(gpucore.InvalidValue)
		return
	}
	snapshot := *sh
	pr.attached = append(pr.attached, &snapshot)
}

// LinkProgram links the attached shaders.
func (d *Driver) LinkProgram(id gpucore.ProgramID) {
	d.record("LinkProgram", id)
	pr, ok := d.programs[id]
	if !ok {
		d.raise(gpucore.InvalidValue)
		return
	}
	pr.linked = false
	pr.uniforms = nil
	pr.attributes = nil
	pr.values = make(map[int32]any)
	if err := pr.link(); err != nil {
		pr.log = err.Error()
		pr.uniforms = nil
		pr.attributes = nil
		return
	}
	pr.linked = true
	pr.log = ""
}

// ProgramLinked reports whether the last link succeeded.
func (d *Driver) ProgramLinked(id gpucore.ProgramID) bool {
	d.record("ProgramLinked", id)
	pr, ok := d.programs[id]
	if !ok {
		d.raise(gpucore.InvalidValue)
		return false
	}
	return pr.linked
}

// ProgramInfoLog returns the diagnostic log of the last link.
func (d *Driver) ProgramInfoLog(id gpucore.ProgramID) string {
	d.record("ProgramInfoLog", id)
	pr, ok := d.programs[id]
	if !ok {
		d.raise(gpucore.InvalidValue)
		return ""
	}
	return pr.log
}

// UseProgram makes the program current.
func (d *Driver) UseProgram(id gpucore.ProgramID) {
	d.record("UseProgram", id)
	if id == gpucore.InvalidID {
		d.current = gpucore.InvalidID
		return
	}
	pr, ok := d.programs[id]
	if !ok {
		d.raise(gpucore.InvalidValue)
		return
	}
	if !pr.linked {
		d.raise(gpucore.InvalidOperation)
		return
	}
	d.current = id
}

// DeleteProgram releases a program object.
func (d *Driver) DeleteProgram(id gpucore.ProgramID) {
	d.record("DeleteProgram", id)
	if id == gpucore.InvalidID {
		return
	}
	if _, ok := d.programs[id]; !ok {
		d.raise(gpucore.InvalidValue)
		return
	}
	delete(d.programs, id)
	d.programIDs.release(uint32(id))
	if d.current == id {
		d.current = gpucore.InvalidID
	}
}

// link validates the attached stages and assigns locations.
func (pr *program) link() error {
	stages := make(map[gpucore.ShaderStage]*shader, len(pr.attached))
	for _, sh := range pr.attached {
		if !sh.compiled {
			return fmt.Errorf("error: linking with uncompiled %s shader", sh.stage)
		}
		if _, dup := stages[sh.stage]; dup {
			return fmt.Errorf("error: more than one %s shader attached", sh.stage)
		}
		stages[sh.stage] = sh
	}

	if frag, ok := stages[gpucore.StageFragment]; ok {
		prev := stages[gpucore.StageGeometry]
		if prev == nil {
			prev = stages[gpucore.StageVertex]
		}
		if prev != nil {
			if err := matchInterface(prev, frag); err != nil {
				return err
			}
		}
	}
	if geom, ok := stages[gpucore.StageGeometry]; ok {
		if vert, ok := stages[gpucore.StageVertex]; ok {
			if err := matchInterface(vert, geom); err != nil {
				return err
			}
		}
	}

	// Uniforms are shared by all stages; a name must keep one type.
	var next int32
	index := map[string]int{}
	for _, stage := range []gpucore.ShaderStage{gpucore.StageVertex, gpucore.StageGeometry, gpucore.StageFragment} {
		sh, ok := stages[stage]
		if !ok {
			continue
		}
		for _, u := range sh.info.uniforms {
			if i, seen := index[u.name]; seen {
				if pr.uniforms[i].Type != u.typ {
					return fmt.Errorf("error: uniform '%s' declared as %s and %s", u.name, pr.uniforms[i].Type, u.typ)
				}
				continue
			}
			if !u.active {
				continue
			}
			name := u.name
			if u.size > 1 {
				name += "[0]"
			}
			index[u.name] = len(pr.uniforms)
			pr.uniforms = append(pr.uniforms, variable{
				ActiveVariable: gpucore.ActiveVariable{Name: name, Type: u.typ, Size: u.size},
				location:       next,
			})
			next += u.size
		}
	}

	vert, ok := stages[gpucore.StageVertex]
	if !ok {
		return nil
	}
	used := map[int32]bool{}
	for _, in := range vert.info.inputs {
		if in.active && in.location >= 0 {
			used[in.location] = true
		}
	}
	var free int32
	for _, in := range vert.info.inputs {
		if !in.active {
			continue
		}
		loc := in.location
		if loc < 0 {
			for used[free] {
				free++
			}
			loc = free
			used[loc] = true
		}
		pr.attributes = append(pr.attributes, variable{
			ActiveVariable: gpucore.ActiveVariable{Name: in.name, Type: in.typ, Size: 1},
			location:       loc,
		})
	}
	for _, b := range vert.info.builtins {
		pr.attributes = append(pr.attributes, variable{
			ActiveVariable: gpucore.ActiveVariable{Name: b, Type: gpucore.TypeInt, Size: 1},
			location:       -1,
		})
	}
	return nil
}

// matchInterface checks that every input of next is written by prev.
// WGSL stages pass data through structs and are not checked.
func matchInterface(prev, next *shader) error {
	if prev.info.lang != langGLSL || next.info.lang != langGLSL {
		return nil
	}
	outs := make(map[string]declaration, len(prev.info.outputs))
	for _, o := range prev.info.outputs {
		outs[o.name] = o
	}
	for _, in := range next.info.inputs {
		out, ok := outs[in.name]
		if !ok {
			return fmt.Errorf("error: %s shader input '%s' has no matching output in the %s shader", next.stage, in.name, prev.stage)
		}
		// Geometry inputs are per-primitive arrays of the vertex outputs.
		if next.stage != gpucore.StageGeometry && out.typ != in.typ {
			return fmt.Errorf("error: '%s' declared as %s in the %s shader but %s in the %s shader", in.name, in.typ, next.stage, out.typ, prev.stage)
		}
	}
	return nil
}

// ActiveUniforms returns the number of active uniforms.
func (d *Driver) ActiveUniforms(id gpucore.ProgramID) int {
	d.record("ActiveUniforms", id)
	pr, ok := d.linkedProgram(id)
	if !ok {
		return 0
	}
	return len(pr.uniforms)
}

// ActiveUniform returns the reflection record of the uniform at index.
func (d *Driver) ActiveUniform(id gpucore.ProgramID, index int) gpucore.ActiveVariable {
	d.record("ActiveUniform", id, index)
	pr, ok := d.linkedProgram(id)
	if !ok {
		return gpucore.ActiveVariable{}
	}
	if index < 0 || index >= len(pr.uniforms) {
		d.raise(gpucore.InvalidValue)
		return gpucore.ActiveVariable{}
	}
	return pr.uniforms[index].ActiveVariable
}

// UniformLocation returns the location of a named uniform, or -1.
func (d *Driver) UniformLocation(id gpucore.ProgramID, name string) int32 {
	d.record("UniformLocation", id, name)
	pr, ok := d.linkedProgram(id)
	if !ok {
		return -1
	}
	return lookup(pr.uniforms, name)
}

// ActiveAttributes returns the number of active vertex attributes.
func (d *Driver) ActiveAttributes(id gpucore.ProgramID) int {
	d.record("ActiveAttributes", id)
	pr, ok := d.linkedProgram(id)
	if !ok {
		return 0
	}
	return len(pr.attributes)
}

// ActiveAttribute returns the reflection record of the attribute at index.
func (d *Driver) ActiveAttribute(id gpucore.ProgramID, index int) gpucore.ActiveVariable {
	d.record("ActiveAttribute", id, index)
	pr, ok := d.linkedProgram(id)
	if !ok {
		return gpucore.ActiveVariable{}
	}
	if index < 0 || index >= len(pr.attributes) {
		d.raise(gpucore.InvalidValue)
		return gpucore.ActiveVariable{}
	}
	return pr.attributes[index].ActiveVariable
}

// AttribLocation returns the location of a named attribute, or -1.
func (d *Driver) AttribLocation(id gpucore.ProgramID, name string) int32 {
	d.record("AttribLocation", id, name)
	pr, ok := d.linkedProgram(id)
	if !ok {
		return -1
	}
	return lookup(pr.attributes, name)
}

func (d *Driver) linkedProgram(id gpucore.ProgramID) (*program, bool) {
	pr, ok := d.programs[id]
	if !ok {
		d.raise(gpucore.InvalidValue)
		return nil, false
	}
	if !pr.linked {
		d.raise(gpucore.InvalidOperation)
		return nil, false
	}
	return pr, true
}

func lookup(vars []variable, name string) int32 {
	for _, v := range vars {
		if v.Name == name || strings.TrimSuffix(v.Name, "[0]") == name {
			return v.location
		}
	}
	return -1
}

// UniformValue returns the last value uploaded to the named uniform of a
// program. Scalars are returned as int32, uint32, float32 or float64 and
// two-component vectors as the matching [2]T array.
func (d *Driver) UniformValue(id gpucore.ProgramID, name string) (any, bool) {
	pr, ok := d.programs[id]
	if !ok {
		return nil, false
	}
	loc := lookup(pr.uniforms, name)
	if loc < 0 {
		return nil, false
	}
	v, ok := pr.values[loc]
	return v, ok
}

// upload stores a uniform value into the current program after checking
// that the upload call matches the uniform's declared type.
func (d *Driver) upload(location int32, value any, accepts ...gpucore.DataType) {
	if location == -1 {
		return
	}
	pr, ok := d.programs[d.current]
	if !ok || d.current == gpucore.InvalidID {
		d.raise(gpucore.InvalidOperation)
		return
	}
	for _, u := range pr.uniforms {
		if location < u.location || location >= u.location+u.Size {
			continue
		}
		for _, t := range accepts {
			if u.Type == t {
				pr.values[location] = value
				return
			}
		}
		break
	}
	d.raise(gpucore.InvalidOperation)
}

// Uniform1i uploads an int (or bool/sampler) uniform.
func (d *Driver) Uniform1i(location int32, v int32) {
	d.record("Uniform1i", location, v)
	d.upload(location, v, gpucore.TypeInt, gpucore.TypeBool, gpucore.TypeSampler2D)
}

// Uniform1ui uploads a uint (or bool) uniform.
func (d *Driver) Uniform1ui(location int32, v uint32) {
	d.record("Uniform1ui", location, v)
	d.upload(location, v, gpucore.TypeUint, gpucore.TypeBool)
}

// Uniform1f uploads a float (or bool) uniform.
func (d *Driver) Uniform1f(location int32, v float32) {
	d.record("Uniform1f", location, v)
	d.upload(location, v, gpucore.TypeFloat, gpucore.TypeBool)
}

// Uniform1d uploads a double uniform.
func (d *Driver) Uniform1d(location int32, v float64) {
	d.record("Uniform1d", location, v)
	d.upload(location, v, gpucore.TypeDouble)
}

// Uniform2i uploads an ivec2 uniform.
func (d *Driver) Uniform2i(location int32, x, y int32) {
	d.record("Uniform2i", location, x, y)
	d.upload(location, [2]int32{x, y}, gpucore.TypeIVec2)
}

// Uniform2ui uploads a uvec2 uniform.
func (d *Driver) Uniform2ui(location int32, x, y uint32) {
	d.record("Uniform2ui", location, x, y)
	d.upload(location, [2]uint32{x, y}, gpucore.TypeUVec2)
}

// Uniform2f uploads a vec2 uniform.
func (d *Driver) Uniform2f(location int32, x, y float32) {
	d.record("Uniform2f", location, x, y)
	d.upload(location, [2]float32{x, y}, gpucore.TypeVec2)
}

// Uniform2d uploads a dvec2 uniform.
func (d *Driver) Uniform2d(location int32, x, y float64) {
	d.record("Uniform2d", location, x, y)
	d.upload(location, [2]float64{x, y}, gpucore.TypeDVec2)
}
