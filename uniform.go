package stem

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/stem/gpucore"
)

// UniformValue is a value that can be stored in a uniform slot. The set of
// implementations is closed: Int, Uint, Float, Double, Vec2i, Vec2u, Vec2f
// and Vec2d.
type UniformValue interface {
	// Type returns the reflected uniform type the value uploads to.
	Type() gpucore.DataType

	uniformValue()
}

// Scalar uniform values.
type (
	Int    int32
	Uint   uint32
	Float  float32
	Double float64
)

// Vector uniform values.
type (
	Vec2i [2]int32
	Vec2u [2]uint32
	Vec2f mgl32.Vec2
	Vec2d mgl64.Vec2
)

func (Int) Type() gpucore.DataType    { return gpucore.TypeInt }
func (Uint) Type() gpucore.DataType   { return gpucore.TypeUint }
func (Float) Type() gpucore.DataType  { return gpucore.TypeFloat }
func (Double) Type() gpucore.DataType { return gpucore.TypeDouble }
func (Vec2i) Type() gpucore.DataType  { return gpucore.TypeIVec2 }
func (Vec2u) Type() gpucore.DataType  { return gpucore.TypeUVec2 }
func (Vec2f) Type() gpucore.DataType  { return gpucore.TypeVec2 }
func (Vec2d) Type() gpucore.DataType  { return gpucore.TypeDVec2 }

func (Int) uniformValue()    {}
func (Uint) uniformValue()   {}
func (Float) uniformValue()  {}
func (Double) uniformValue() {}
func (Vec2i) uniformValue()  {}
func (Vec2u) uniformValue()  {}
func (Vec2f) uniformValue()  {}
func (Vec2d) uniformValue()  {}

// Uniform is a named uniform value, used for initial program values.
type Uniform struct {
	Name  string
	Value UniformValue
}

// UniformSlot is one active uniform of a linked program.
type UniformSlot struct {
	Name     string // without the "[0]" suffix of arrays
	Location int32
	Type     gpucore.DataType
	Size     int32 // array length, 1 for non-arrays
	Value    UniformValue

	dirty bool
}

// Dirty reports whether the value is waiting for the next Program.Use.
func (s UniformSlot) Dirty() bool {
	return s.dirty
}

// AttributeSlot is one active vertex attribute of a linked program.
type AttributeSlot struct {
	Name     string
	Location int32
	Type     gpucore.DataType
}

// supportedUniform reports whether values of type t can be uploaded.
func supportedUniform(t gpucore.DataType) bool {
	switch t {
	case gpucore.TypeInt, gpucore.TypeUint, gpucore.TypeFloat, gpucore.TypeDouble,
		gpucore.TypeIVec2, gpucore.TypeUVec2, gpucore.TypeVec2, gpucore.TypeDVec2:
		return true
	}
	return false
}

// uploadUniform issues the typed upload call for a slot. The slot value
// has already been checked against the slot type by Program.SetUniform.
func uploadUniform(d gpucore.Driver, s *UniformSlot) error {
	switch v := s.Value.(type) {
	case Int:
		d.Uniform1i(s.Location, int32(v))
	case Uint:
		d.Uniform1ui(s.Location, uint32(v))
	case Float:
		d.Uniform1f(s.Location, float32(v))
	case Double:
		d.Uniform1d(s.Location, float64(v))
	case Vec2i:
		d.Uniform2i(s.Location, v[0], v[1])
	case Vec2u:
		d.Uniform2ui(s.Location, v[0], v[1])
	case Vec2f:
		d.Uniform2f(s.Location, v[0], v[1])
	case Vec2d:
		d.Uniform2d(s.Location, v[0], v[1])
	default:
		return &UniformError{Name: s.Name, Type: s.Type, Value: s.Value, Err: ErrUnsupportedUniformType}
	}
	return nil
}
