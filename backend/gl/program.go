package gl

import (
	glapi "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/stem/gpucore"
)

func (d *Driver) CreateProgram() gpucore.ProgramID {
	return gpucore.ProgramID(glapi.CreateProgram())
}

func (d *Driver) AttachShader(id gpucore.ProgramID, shader gpucore.ShaderID) {
	glapi.AttachShader(uint32(id), uint32(shader))
}

func (d *Driver) LinkProgram(id gpucore.ProgramID) {
	glapi.LinkProgram(uint32(id))
}

func (d *Driver) ProgramLinked(id gpucore.ProgramID) bool {
	var status int32
	glapi.GetProgramiv(uint32(id), glapi.LINK_STATUS, &status)
	return status == glapi.TRUE
}

func (d *Driver) ProgramInfoLog(id gpucore.ProgramID) string {
	var length int32
	glapi.GetProgramiv(uint32(id), glapi.INFO_LOG_LENGTH, &length)
	return infoLog(length, func(size int32, n *int32, buf *uint8) {
		glapi.GetProgramInfoLog(uint32(id), size, n, buf)
	})
}

func (d *Driver) UseProgram(id gpucore.ProgramID) {
	glapi.UseProgram(uint32(id))
}

func (d *Driver) DeleteProgram(id gpucore.ProgramID) {
	glapi.DeleteProgram(uint32(id))
}

func (d *Driver) ActiveUniforms(id gpucore.ProgramID) int {
	var n int32
	glapi.GetProgramiv(uint32(id), glapi.ACTIVE_UNIFORMS, &n)
	return int(n)
}

func (d *Driver) ActiveUniform(id gpucore.ProgramID, index int) gpucore.ActiveVariable {
	return activeVariable(uint32(id), index, glapi.ACTIVE_UNIFORM_MAX_LENGTH, glapi.GetActiveUniform)
}

func (d *Driver) UniformLocation(id gpucore.ProgramID, name string) int32 {
	return glapi.GetUniformLocation(uint32(id), cstr(name))
}

func (d *Driver) ActiveAttributes(id gpucore.ProgramID) int {
	var n int32
	glapi.GetProgramiv(uint32(id), glapi.ACTIVE_ATTRIBUTES, &n)
	return int(n)
}

func (d *Driver) ActiveAttribute(id gpucore.ProgramID, index int) gpucore.ActiveVariable {
	return activeVariable(uint32(id), index, glapi.ACTIVE_ATTRIBUTE_MAX_LENGTH, glapi.GetActiveAttrib)
}

func (d *Driver) AttribLocation(id gpucore.ProgramID, name string) int32 {
	return glapi.GetAttribLocation(uint32(id), cstr(name))
}

// activeVariable reads one record through glGetActiveUniform or
// glGetActiveAttrib, which share a signature.
func activeVariable(program uint32, index int, maxLength uint32,
	get func(program, index uint32, bufSize int32, length, size *int32, xtype *uint32, name *uint8)) gpucore.ActiveVariable {
	var bufSize int32
	glapi.GetProgramiv(program, maxLength, &bufSize)
	if bufSize < 1 {
		bufSize = 1
	}
	buf := make([]uint8, bufSize)
	var length, size int32
	var xtype uint32
	get(program, uint32(index), bufSize, &length, &size, &xtype, &buf[0])
	return gpucore.ActiveVariable{
		Name: string(buf[:length]),
		Type: gpucore.DataType(xtype),
		Size: size,
	}
}

func (d *Driver) Uniform1i(location int32, v int32)   { glapi.Uniform1i(location, v) }
func (d *Driver) Uniform1ui(location int32, v uint32) { glapi.Uniform1ui(location, v) }
func (d *Driver) Uniform1f(location int32, v float32) { glapi.Uniform1f(location, v) }
func (d *Driver) Uniform1d(location int32, v float64) { glapi.Uniform1d(location, v) }

func (d *Driver) Uniform2i(location int32, x, y int32)   { glapi.Uniform2i(location, x, y) }
func (d *Driver) Uniform2ui(location int32, x, y uint32) { glapi.Uniform2ui(location, x, y) }
func (d *Driver) Uniform2f(location int32, x, y float32) { glapi.Uniform2f(location, x, y) }
func (d *Driver) Uniform2d(location int32, x, y float64) { glapi.Uniform2d(location, x, y) }
