package gpucore

import "github.com/gogpu/gputypes"

// Driver abstracts over GPU driver implementations.
//
// This interface is the boundary between the stem object layer and the
// underlying retained-mode graphics API. It mirrors the OpenGL object model:
// every object is named by an opaque ID, and binding calls change a single
// piece of implicit "current" state per context.
//
// Implementations are not safe for concurrent use. All calls for one driver
// must come from the goroutine that owns the GPU context.
//
// Resource lifecycle:
//   - Objects are created via Create* methods
//   - Objects must be explicitly released via Delete* methods
//   - IDs become invalid after deletion and may be reused by the driver
//
// Failures are never returned from individual calls. They raise an error
// flag that is collected with Error, the way glGetError works.
type Driver interface {
	// === Shaders ===

	// CreateShader creates an empty shader object for the given stage.
	CreateShader(stage ShaderStage) ShaderID

	// ShaderSource replaces the source text of a shader.
	ShaderSource(id ShaderID, source string)

	// CompileShader compiles the shader's current source.
	CompileShader(id ShaderID)

	// ShaderCompiled reports whether the last compilation succeeded.
	ShaderCompiled(id ShaderID) bool

	// ShaderInfoLog returns the diagnostic log of the last compilation.
	ShaderInfoLog(id ShaderID) string

	// DeleteShader flags a shader for deletion. Attached shaders are kept
	// alive by their programs until those are deleted.
	DeleteShader(id ShaderID)

	// === Programs ===

	// CreateProgram creates an empty program object.
	CreateProgram() ProgramID

	// AttachShader attaches a compiled shader to a program.
	AttachShader(program ProgramID, shader ShaderID)

	// LinkProgram links the attached shaders.
	LinkProgram(id ProgramID)

	// ProgramLinked reports whether the last link succeeded.
	ProgramLinked(id ProgramID) bool

	// ProgramInfoLog returns the diagnostic log of the last link.
	ProgramInfoLog(id ProgramID) string

	// UseProgram makes the program current. InvalidID unbinds.
	UseProgram(id ProgramID)

	// DeleteProgram releases a program object.
	DeleteProgram(id ProgramID)

	// === Reflection ===

	// ActiveUniforms returns the number of active uniforms of a linked program.
	ActiveUniforms(id ProgramID) int

	// ActiveUniform returns the reflection record of the uniform at index.
	ActiveUniform(id ProgramID, index int) ActiveVariable

	// UniformLocation returns the location of a named uniform, or -1.
	UniformLocation(id ProgramID, name string) int32

	// ActiveAttributes returns the number of active vertex attributes.
	ActiveAttributes(id ProgramID) int

	// ActiveAttribute returns the reflection record of the attribute at index.
	ActiveAttribute(id ProgramID, index int) ActiveVariable

	// AttribLocation returns the location of a named attribute, or -1.
	AttribLocation(id ProgramID, name string) int32

	// === Uniform upload ===
	//
	// Uploads target the current program.

	Uniform1i(location int32, v int32)
	Uniform1ui(location int32, v uint32)
	Uniform1f(location int32, v float32)
	Uniform1d(location int32, v float64)
	Uniform2i(location int32, x, y int32)
	Uniform2ui(location int32, x, y uint32)
	Uniform2f(location int32, x, y float32)
	Uniform2d(location int32, x, y float64)

	// === Buffers ===

	// CreateBuffer creates a buffer object.
	CreateBuffer() BufferID

	// BindBuffer binds a buffer to the target class. Only
	// gputypes.BufferUsageVertex and gputypes.BufferUsageIndex are targets.
	BindBuffer(target gputypes.BufferUsage, id BufferID)

	// BufferData replaces the storage of the buffer bound to target.
	BufferData(target gputypes.BufferUsage, data []byte, usage Usage)

	// DeleteBuffer releases a buffer object.
	DeleteBuffer(id BufferID)

	// === Vertex arrays ===

	// CreateVertexArray creates a vertex array object.
	CreateVertexArray() VertexArrayID

	// BindVertexArray makes the vertex array current. InvalidID unbinds.
	BindVertexArray(id VertexArrayID)

	// DeleteVertexArray releases a vertex array object.
	DeleteVertexArray(id VertexArrayID)

	// EnableVertexAttribArray enables the attribute at location in the
	// current vertex array.
	EnableVertexAttribArray(location uint32)

	// VertexAttribPointer describes how to read the attribute at location
	// from the buffer bound to the vertex target. Components are converted
	// to floating point.
	VertexAttribPointer(location uint32, size int32, typ ElementType, normalized bool, stride int32, offset int)

	// VertexAttribIPointer is VertexAttribPointer for integer attributes.
	VertexAttribIPointer(location uint32, size int32, typ ElementType, stride int32, offset int)

	// === Draw ===

	// DrawArrays draws count vertices starting at first.
	DrawArrays(mode gputypes.PrimitiveTopology, first, count int32)

	// DrawElements draws count indices of the given type from the bound
	// index buffer, starting at the byte offset.
	DrawElements(mode gputypes.PrimitiveTopology, count int32, typ ElementType, offset int)

	// === Diagnostics ===

	// Error returns and clears the oldest pending error flag.
	// NoError means no error is pending.
	Error() ErrorCode
}
