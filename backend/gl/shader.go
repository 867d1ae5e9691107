package gl

import (
	glapi "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/stem/gpucore"
)

// CreateShader creates a shader object. Unknown stages map to 0, which GL
// rejects with GL_INVALID_ENUM.
func (d *Driver) CreateShader(stage gpucore.ShaderStage) gpucore.ShaderID {
	return gpucore.ShaderID(glapi.CreateShader(stages[stage]))
}

func (d *Driver) ShaderSource(id gpucore.ShaderID, source string) {
	csources, free := glapi.Strs(source + "\x00")
	glapi.ShaderSource(uint32(id), 1, csources, nil)
	free()
}

func (d *Driver) CompileShader(id gpucore.ShaderID) {
	glapi.CompileShader(uint32(id))
}

func (d *Driver) ShaderCompiled(id gpucore.ShaderID) bool {
	var status int32
	glapi.GetShaderiv(uint32(id), glapi.COMPILE_STATUS, &status)
	return status == glapi.TRUE
}

func (d *Driver) ShaderInfoLog(id gpucore.ShaderID) string {
	var length int32
	glapi.GetShaderiv(uint32(id), glapi.INFO_LOG_LENGTH, &length)
	return infoLog(length, func(size int32, n *int32, buf *uint8) {
		glapi.GetShaderInfoLog(uint32(id), size, n, buf)
	})
}

func (d *Driver) DeleteShader(id gpucore.ShaderID) {
	glapi.DeleteShader(uint32(id))
}
