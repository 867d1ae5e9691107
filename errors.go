package stem

import (
	"errors"
	"fmt"

	"github.com/gogpu/stem/gpucore"
)

// Common errors.
var (
	// ErrNilDriver is returned by NewContext when no driver is given.
	ErrNilDriver = errors.New("stem: nil driver")

	// ErrContextClosed is returned when creating objects on a closed Context.
	ErrContextClosed = errors.New("stem: context closed")

	// ErrShaderSyntax matches every *ShaderSyntaxError.
	ErrShaderSyntax = errors.New("stem: shader syntax error")

	// ErrProgramLink matches every *ProgramLinkError.
	ErrProgramLink = errors.New("stem: program link error")

	// ErrProgramDestroyed is returned when using or drawing with a destroyed
	// program.
	ErrProgramDestroyed = errors.New("stem: program destroyed")

	// ErrUnsupportedUniformType is returned when a uniform's reflected type
	// has no upload call.
	ErrUnsupportedUniformType = errors.New("stem: unsupported uniform type")

	// ErrUniformTypeMismatch is returned when a value does not match the
	// reflected type of its uniform.
	ErrUniformTypeMismatch = errors.New("stem: uniform type mismatch")

	// ErrGeometryDestroyed is returned when drawing a destroyed geometry.
	ErrGeometryDestroyed = errors.New("stem: geometry destroyed")

	// ErrInvalidAttribute is returned for malformed geometry attributes.
	ErrInvalidAttribute = errors.New("stem: invalid attribute")

	// ErrVertexCountMismatch is returned when an attribute describes a
	// different number of vertices than the attributes already set.
	ErrVertexCountMismatch = errors.New("stem: vertex count mismatch")

	// ErrNotIndexBuffer is returned by SetIndex for vertex buffers and
	// destroyed buffers.
	ErrNotIndexBuffer = errors.New("stem: not an index buffer")

	// ErrForeignProgram is returned when drawing a geometry with a program
	// created on another Context.
	ErrForeignProgram = errors.New("stem: program belongs to another context")
)

// ShaderSyntaxError reports a shader stage that failed to compile.
type ShaderSyntaxError struct {
	Stage gpucore.ShaderStage
	Log   string // driver info log
}

func (e *ShaderSyntaxError) Error() string {
	return fmt.Sprintf("stem: %s shader: %s", e.Stage, e.Log)
}

// Is reports whether target is ErrShaderSyntax.
func (e *ShaderSyntaxError) Is(target error) bool {
	return target == ErrShaderSyntax
}

// ProgramLinkError reports a program that failed to link.
type ProgramLinkError struct {
	Log string // driver info log
}

func (e *ProgramLinkError) Error() string {
	return "stem: link program: " + e.Log
}

// Is reports whether target is ErrProgramLink.
func (e *ProgramLinkError) Is(target error) bool {
	return target == ErrProgramLink
}

// UniformError reports a value that cannot be uploaded to a uniform.
type UniformError struct {
	Name  string
	Type  gpucore.DataType // reflected type of the uniform
	Value UniformValue
	Err   error // ErrUnsupportedUniformType or ErrUniformTypeMismatch
}

func (e *UniformError) Error() string {
	if errors.Is(e.Err, ErrUnsupportedUniformType) {
		return fmt.Sprintf("stem: uniform %q: unsupported type %s", e.Name, e.Type)
	}
	if e.Value == nil {
		return fmt.Sprintf("stem: uniform %q: cannot set nil value on %s", e.Name, e.Type)
	}
	return fmt.Sprintf("stem: uniform %q: cannot set %s value on %s", e.Name, e.Value.Type(), e.Type)
}

func (e *UniformError) Unwrap() error {
	return e.Err
}
