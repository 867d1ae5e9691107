package gpucore

import "fmt"

// Object IDs
//
// These opaque IDs name driver objects. The values are assigned by the
// driver and may be reused once an object has been deleted, so they must
// never be used as long-lived identity keys.

// ShaderID is an opaque handle to a shader object.
type ShaderID uint32

// ProgramID is an opaque handle to a program object.
type ProgramID uint32

// BufferID is an opaque handle to a buffer object.
type BufferID uint32

// VertexArrayID is an opaque handle to a vertex array object.
type VertexArrayID uint32

// InvalidID is the zero value, representing an unbound/deleted object.
const InvalidID = 0

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage uint8

// Shader stages, in the order a program compiles them.
const (
	StageVertex ShaderStage = iota + 1
	StageGeometry
	StageFragment
)

// String returns the stage name.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageGeometry:
		return "geometry"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderStage(%d)", uint8(s))
	}
}

// Usage is an upload-frequency hint for buffer data.
// It carries no behavioral difference beyond what the driver does with it.
type Usage uint8

// Buffer usage hints.
const (
	// UsageStatic means the data is uploaded once and drawn many times.
	UsageStatic Usage = iota
	// UsageDynamic means the data is modified repeatedly and drawn many times.
	UsageDynamic
	// UsageStream means the data is modified once and drawn a few times.
	UsageStream
)

// String returns the usage name.
func (u Usage) String() string {
	switch u {
	case UsageStatic:
		return "static"
	case UsageDynamic:
		return "dynamic"
	case UsageStream:
		return "stream"
	default:
		return fmt.Sprintf("Usage(%d)", uint8(u))
	}
}

// ElementType is the scalar type of buffer elements and vertex components.
// Values match the OpenGL enumerants so GL-backed drivers can pass them through.
type ElementType uint32

// Element types.
const (
	Byte          ElementType = 0x1400
	UnsignedByte  ElementType = 0x1401
	Short         ElementType = 0x1402
	UnsignedShort ElementType = 0x1403
	Int           ElementType = 0x1404
	UnsignedInt   ElementType = 0x1405
	Float         ElementType = 0x1406
)

// Size returns the size of one element in bytes, or 0 for an unknown type.
func (t ElementType) Size() int {
	switch t {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case Int, UnsignedInt, Float:
		return 4
	default:
		return 0
	}
}

// String returns the element type name.
func (t ElementType) String() string {
	switch t {
	case Byte:
		return "int8"
	case UnsignedByte:
		return "uint8"
	case Short:
		return "int16"
	case UnsignedShort:
		return "uint16"
	case Int:
		return "int32"
	case UnsignedInt:
		return "uint32"
	case Float:
		return "float32"
	default:
		return fmt.Sprintf("ElementType(0x%04X)", uint32(t))
	}
}

// DataType is the type of an active uniform or attribute as reported by
// program reflection. Values match the OpenGL enumerants.
type DataType uint32

// Reflected data types. Only the scalar and two-component types are
// uploadable as uniforms; the rest are reported so callers can inspect them.
const (
	TypeInt       DataType = 0x1404
	TypeUint      DataType = 0x1405
	TypeFloat     DataType = 0x1406
	TypeDouble    DataType = 0x140A
	TypeVec2      DataType = 0x8B50
	TypeVec3      DataType = 0x8B51
	TypeVec4      DataType = 0x8B52
	TypeIVec2     DataType = 0x8B53
	TypeIVec3     DataType = 0x8B54
	TypeIVec4     DataType = 0x8B55
	TypeBool      DataType = 0x8B56
	TypeMat2      DataType = 0x8B5A
	TypeMat3      DataType = 0x8B5B
	TypeMat4      DataType = 0x8B5C
	TypeSampler2D DataType = 0x8B5E
	TypeUVec2     DataType = 0x8DC6
	TypeUVec3     DataType = 0x8DC7
	TypeUVec4     DataType = 0x8DC8
	TypeDVec2     DataType = 0x8FFC
	TypeDVec3     DataType = 0x8FFD
	TypeDVec4     DataType = 0x8FFE
	TypeUnknown   DataType = 0
)

var dataTypeNames = map[DataType]string{
	TypeInt:       "int",
	TypeUint:      "uint",
	TypeFloat:     "float",
	TypeDouble:    "double",
	TypeVec2:      "vec2",
	TypeVec3:      "vec3",
	TypeVec4:      "vec4",
	TypeIVec2:     "ivec2",
	TypeIVec3:     "ivec3",
	TypeIVec4:     "ivec4",
	TypeBool:      "bool",
	TypeMat2:      "mat2",
	TypeMat3:      "mat3",
	TypeMat4:      "mat4",
	TypeSampler2D: "sampler2D",
	TypeUVec2:     "uvec2",
	TypeUVec3:     "uvec3",
	TypeUVec4:     "uvec4",
	TypeDVec2:     "dvec2",
	TypeDVec3:     "dvec3",
	TypeDVec4:     "dvec4",
}

// String returns the GLSL spelling of the type.
func (t DataType) String() string {
	if s, ok := dataTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("DataType(0x%04X)", uint32(t))
}

// Integer reports whether vertex data for this type must be fed through the
// integer attribute path (no conversion to float).
func (t DataType) Integer() bool {
	switch t {
	case TypeInt, TypeUint, TypeIVec2, TypeIVec3, TypeIVec4, TypeUVec2, TypeUVec3, TypeUVec4:
		return true
	default:
		return false
	}
}

// ActiveVariable is one reflection record for an active uniform or attribute.
type ActiveVariable struct {
	// Name as reported by the driver. Arrays report "name[0]".
	Name string

	// Type is the declared data type.
	Type DataType

	// Size is the array length, 1 for non-arrays.
	Size int32
}

// ErrorCode is a driver error flag as returned by Driver.Error.
// Values match the OpenGL enumerants.
type ErrorCode uint32

// Driver error codes.
const (
	NoError                     ErrorCode = 0
	InvalidEnum                 ErrorCode = 0x0500
	InvalidValue                ErrorCode = 0x0501
	InvalidOperation            ErrorCode = 0x0502
	StackOverflow               ErrorCode = 0x0503
	StackUnderflow              ErrorCode = 0x0504
	OutOfMemory                 ErrorCode = 0x0505
	InvalidFramebufferOperation ErrorCode = 0x0506
)

// String returns the enumerant name.
func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case StackOverflow:
		return "GL_STACK_OVERFLOW"
	case StackUnderflow:
		return "GL_STACK_UNDERFLOW"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("ErrorCode(0x%04X)", uint32(c))
	}
}

// Description returns a one-line explanation of the error.
func (c ErrorCode) Description() string {
	switch c {
	case NoError:
		return "No error"
	case InvalidEnum:
		return "An unacceptable value is specified for an enumerated argument."
	case InvalidValue:
		return "A numeric argument is out of range."
	case InvalidOperation:
		return "The specified operation is not allowed in the current state."
	case StackOverflow:
		return "This command would cause a stack overflow."
	case StackUnderflow:
		return "This command would cause a stack underflow."
	case OutOfMemory:
		return "There is not enough memory left to execute the command."
	case InvalidFramebufferOperation:
		return "The framebuffer object is not complete."
	default:
		return "No description"
	}
}
