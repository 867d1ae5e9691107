package stem

import (
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/stem/gpucore"
)

// maxPendingErrors bounds one check. GL keeps at most one flag per error
// kind, so a driver that keeps reporting errors is lost or broken.
const maxPendingErrors = 8

// checkedDriver reads the driver error flags after every call and logs
// them. It is installed by WithDebug(true).
type checkedDriver struct {
	gpucore.Driver
	logger *slog.Logger
}

var _ gpucore.Driver = (*checkedDriver)(nil)

func (d *checkedDriver) check(op string) {
	for range maxPendingErrors {
		code := d.Driver.Error()
		if code == gpucore.NoError {
			return
		}
		d.logger.Error("gpu error", "op", op, "code", code.String(), "description", code.Description())
	}
}

func (d *checkedDriver) CreateShader(stage gpucore.ShaderStage) gpucore.ShaderID {
	r := d.Driver.CreateShader(stage)
	d.check("CreateShader")
	return r
}

func (d *checkedDriver) ShaderSource(id gpucore.ShaderID, source string) {
	d.Driver.ShaderSource(id, source)
	d.check("ShaderSource")
}

func (d *checkedDriver) CompileShader(id gpucore.ShaderID) {
	d.Driver.CompileShader(id)
	d.check("CompileShader")
}

func (d *checkedDriver) ShaderCompiled(id gpucore.ShaderID) bool {
	r := d.Driver.ShaderCompiled(id)
	d.check("ShaderCompiled")
	return r
}

func (d *checkedDriver) ShaderInfoLog(id gpucore.ShaderID) string {
	r := d.Driver.ShaderInfoLog(id)
	d.check("ShaderInfoLog")
	return r
}

func (d *checkedDriver) DeleteShader(id gpucore.ShaderID) {
	d.Driver.DeleteShader(id)
	d.check("DeleteShader")
}

func (d *checkedDriver) CreateProgram() gpucore.ProgramID {
	r := d.Driver.CreateProgram()
	d.check("CreateProgram")
	return r
}

func (d *checkedDriver) AttachShader(id gpucore.ProgramID, shader gpucore.ShaderID) {
	d.Driver.AttachShader(id, shader)
	d.check("AttachShader")
}

func (d *checkedDriver) LinkProgram(id gpucore.ProgramID) {
	d.Driver.LinkProgram(id)
	d.check("LinkProgram")
}

func (d *checkedDriver) ProgramLinked(id gpucore.ProgramID) bool {
	r := d.Driver.ProgramLinked(id)
	d.check("ProgramLinked")
	return r
}

func (d *checkedDriver) ProgramInfoLog(id gpucore.ProgramID) string {
	r := d.Driver.ProgramInfoLog(id)
	d.check("ProgramInfoLog")
	return r
}

func (d *checkedDriver) UseProgram(id gpucore.ProgramID) {
	d.Driver.UseProgram(id)
	d.check("UseProgram")
}

func (d *checkedDriver) DeleteProgram(id gpucore.ProgramID) {
	d.Driver.DeleteProgram(id)
	d.check("DeleteProgram")
}

func (d *checkedDriver) ActiveUniforms(id gpucore.ProgramID) int {
	r := d.Driver.ActiveUniforms(id)
	d.check("ActiveUniforms")
	return r
}

func (d *checkedDriver) ActiveUniform(id gpucore.ProgramID, index int) gpucore.ActiveVariable {
	r := d.Driver.ActiveUniform(id, index)
	d.check("ActiveUniform")
	return r
}

func (d *checkedDriver) UniformLocation(id gpucore.ProgramID, name string) int32 {
	r := d.Driver.UniformLocation(id, name)
	d.check("UniformLocation")
	return r
}

func (d *checkedDriver) ActiveAttributes(id gpucore.ProgramID) int {
	r := d.Driver.ActiveAttributes(id)
	d.check("ActiveAttributes")
	return r
}

func (d *checkedDriver) ActiveAttribute(id gpucore.ProgramID, index int) gpucore.ActiveVariable {
	r := d.Driver.ActiveAttribute(id, index)
	d.check("ActiveAttribute")
	return r
}

func (d *checkedDriver) AttribLocation(id gpucore.ProgramID, name string) int32 {
	r := d.Driver.AttribLocation(id, name)
	d.check("AttribLocation")
	return r
}

func (d *checkedDriver) Uniform1i(location int32, v int32) {
	d.Driver.Uniform1i(location, v)
	d.check("Uniform1i")
}

func (d *checkedDriver) Uniform1ui(location int32, v uint32) {
	d.Driver.Uniform1ui(location, v)
	d.check("Uniform1ui")
}

func (d *checkedDriver) Uniform1f(location int32, v float32) {
	d.Driver.Uniform1f(location, v)
	d.check("Uniform1f")
}

func (d *checkedDriver) Uniform1d(location int32, v float64) {
	d.Driver.Uniform1d(location, v)
	d.check("Uniform1d")
}

func (d *checkedDriver) Uniform2i(location int32, x, y int32) {
	d.Driver.Uniform2i(location, x, y)
	d.check("Uniform2i")
}

func (d *checkedDriver) Uniform2ui(location int32, x, y uint32) {
	d.Driver.Uniform2ui(location, x, y)
	d.check("Uniform2ui")
}

func (d *checkedDriver) Uniform2f(location int32, x, y float32) {
	d.Driver.Uniform2f(location, x, y)
	d.check("Uniform2f")
}

func (d *checkedDriver) Uniform2d(location int32, x, y float64) {
	d.Driver.Uniform2d(location, x, y)
	d.check("Uniform2d")
}

func (d *checkedDriver) CreateBuffer() gpucore.BufferID {
	r := d.Driver.CreateBuffer()
	d.check("CreateBuffer")
	return r
}

func (d *checkedDriver) BindBuffer(target gputypes.BufferUsage, id gpucore.BufferID) {
	d.Driver.BindBuffer(target, id)
	d.check("BindBuffer")
}

func (d *checkedDriver) BufferData(target gputypes.BufferUsage, data []byte, usage gpucore.Usage) {
	d.Driver.BufferData(target, data, usage)
	d.check("BufferData")
}

func (d *checkedDriver) DeleteBuffer(id gpucore.BufferID) {
	d.Driver.DeleteBuffer(id)
	d.check("DeleteBuffer")
}

func (d *checkedDriver) CreateVertexArray() gpucore.VertexArrayID {
	r := d.Driver.CreateVertexArray()
	d.check("CreateVertexArray")
	return r
}

func (d *checkedDriver) BindVertexArray(id gpucore.VertexArrayID) {
	d.Driver.BindVertexArray(id)
	d.check("BindVertexArray")
}

func (d *checkedDriver) DeleteVertexArray(id gpucore.VertexArrayID) {
	d.Driver.DeleteVertexArray(id)
	d.check("DeleteVertexArray")
}

func (d *checkedDriver) EnableVertexAttribArray(location uint32) {
	d.Driver.EnableVertexAttribArray(location)
	d.check("EnableVertexAttribArray")
}

func (d *checkedDriver) VertexAttribPointer(location uint32, size int32, typ gpucore.ElementType, normalized bool, stride int32, offset int) {
	d.Driver.VertexAttribPointer(location, size, typ, normalized, stride, offset)
	d.check("VertexAttribPointer")
}

func (d *checkedDriver) VertexAttribIPointer(location uint32, size int32, typ gpucore.ElementType, stride int32, offset int) {
	d.Driver.VertexAttribIPointer(location, size, typ, stride, offset)
	d.check("VertexAttribIPointer")
}

func (d *checkedDriver) DrawArrays(mode gputypes.PrimitiveTopology, first, count int32) {
	d.Driver.DrawArrays(mode, first, count)
	d.check("DrawArrays")
}

func (d *checkedDriver) DrawElements(mode gputypes.PrimitiveTopology, count int32, typ gpucore.ElementType, offset int) {
	d.Driver.DrawElements(mode, count, typ, offset)
	d.check("DrawElements")
}
