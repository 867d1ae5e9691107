package headless

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/stem/gpucore"
)

// language is the source language of a shader stage.
type language uint8

const (
	langGLSL language = iota
	langWGSL
)

// declaration is one interface variable found in a stage.
type declaration struct {
	name     string
	typ      gpucore.DataType
	size     int32
	location int32 // explicit location, -1 if none
	active   bool
}

// stageInfo is what compilation learns about a stage.
type stageInfo struct {
	lang     language
	uniforms []declaration
	inputs   []declaration
	outputs  []declaration
	builtins []string // referenced built-in vertex inputs
}

type shader struct {
	stage    gpucore.ShaderStage
	source   string
	compiled bool
	log      string
	info     stageInfo
}

// CreateShader creates an empty shader object for the given stage.
func (d *Driver) CreateShader(stage gpucore.ShaderStage) gpucore.ShaderID {
	d.record("CreateShader", stage)
	switch stage {
	case gpucore.StageVertex, gpucore.StageGeometry, gpucore.StageFragment:
	default:
		d.raise(gpucore.InvalidEnum)
		return gpucore.InvalidID
	}
	id := gpucore.ShaderID(d.shaderIDs.alloc())
	d.shaders[id] = &shader{stage: stage}
	return id
}

// ShaderSource replaces the source text of a shader.
func (d *Driver) ShaderSource(id gpucore.ShaderID, source string) {
	d.record("ShaderSource", id, len(source))
	sh, ok := d.shaders[id]
	if !ok {
		d.raise(gpucore.InvalidValue)
		return
	}
	sh.source = source
}

// CompileShader compiles the shader's current source.
func (d *Driver) CompileShader(id gpucore.ShaderID) {
	d.record("CompileShader", id)
	sh, ok := d.shaders[id]
	if !ok {
		d.raise(gpucore.InvalidValue)
		return
	}
	info, err := compileCache.compile(stageKey{stage: sh.stage, source: sh.source}, func() (stageInfo, error) {
		return compileStage(sh.stage, sh.source)
	})
	if err != nil {
		sh.compiled = false
		sh.log = err.Error()
		sh.info = stageInfo{}
		return
	}
	sh.compiled = true
	sh.log = ""
	sh.info = info
}

// ShaderCompiled reports whether the last compilation succeeded.
func (d *Driver) ShaderCompiled(id gpucore.ShaderID) bool {
	d.record("ShaderCompiled", id)
	sh, ok := d.shaders[id]
	if !ok {
		d.raise(gpucore.InvalidValue)
		return false
	}
	return sh.compiled
}

// ShaderInfoLog returns the diagnostic log of the last compilation.
func (d *Driver) ShaderInfoLog(id gpucore.ShaderID) string {
	d.record("ShaderInfoLog", id)
	sh, ok := d.shaders[id]
	if !ok {
		d.raise(gpucore.InvalidValue)
		return ""
	}
	return sh.log
}

// DeleteShader releases a shader object. Programs keep a copy of what they
// need at attach time, so deletion is immediate.
func (d *Driver) DeleteShader(id gpucore.ShaderID) {
	d.record("DeleteShader", id)
	if id == gpucore.InvalidID {
		return
	}
	if _, ok := d.shaders[id]; !ok {
		d.raise(gpucore.InvalidValue)
		return
	}
	delete(d.shaders, id)
	d.shaderIDs.release(uint32(id))
}

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	wgslMarker   = regexp.MustCompile(`@(?:vertex|fragment|compute)\b|\bfn\s+\w+\s*\(`)

	glslMain    = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(?:void\s*)?\)\s*\{`)
	glslUniform = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
	glslVarying = regexp.MustCompile(`(?:layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*)?(?:(?:flat|smooth|noperspective|centroid)\s+)?\b(in|out|attribute|varying)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*\d*\s*\])?\s*;`)
	glslBuiltin = regexp.MustCompile(`\bgl_(?:VertexID|InstanceID)\b`)
)

var glslTypes = map[string]gpucore.DataType{
	"int":       gpucore.TypeInt,
	"uint":      gpucore.TypeUint,
	"float":     gpucore.TypeFloat,
	"double":    gpucore.TypeDouble,
	"bool":      gpucore.TypeBool,
	"vec2":      gpucore.TypeVec2,
	"vec3":      gpucore.TypeVec3,
	"vec4":      gpucore.TypeVec4,
	"ivec2":     gpucore.TypeIVec2,
	"ivec3":     gpucore.TypeIVec3,
	"ivec4":     gpucore.TypeIVec4,
	"uvec2":     gpucore.TypeUVec2,
	"uvec3":     gpucore.TypeUVec3,
	"uvec4":     gpucore.TypeUVec4,
	"dvec2":     gpucore.TypeDVec2,
	"dvec3":     gpucore.TypeDVec3,
	"dvec4":     gpucore.TypeDVec4,
	"mat2":      gpucore.TypeMat2,
	"mat3":      gpucore.TypeMat3,
	"mat4":      gpucore.TypeMat4,
	"sampler2D": gpucore.TypeSampler2D,
}

// stripComments blanks out comments, keeping line breaks so reported line
// numbers still match the caller's source.
func stripComments(src string) string {
	src = blockComment.ReplaceAllStringFunc(src, func(c string) string {
		return strings.Repeat("\n", strings.Count(c, "\n"))
	})
	return lineComment.ReplaceAllString(src, "")
}

// compileStage checks one stage and extracts its interface.
func compileStage(stage gpucore.ShaderStage, source string) (stageInfo, error) {
	src := stripComments(source)
	if wgslMarker.MatchString(src) {
		return compileWGSL(stage, source, src)
	}
	return compileGLSL(stage, src)
}

func compileGLSL(stage gpucore.ShaderStage, src string) (stageInfo, error) {
	if err := checkBalance(src); err != nil {
		return stageInfo{}, err
	}
	if !glslMain.MatchString(src) {
		return stageInfo{}, fmt.Errorf("0:%d(1): error: syntax error, %s shader has no main function", lastLine(src), stage)
	}

	info := stageInfo{lang: langGLSL}
	for _, m := range glslUniform.FindAllStringSubmatch(src, -1) {
		decl := declaration{name: m[2], typ: glslTypes[m[1]], size: 1, location: -1}
		if m[3] != "" {
			n, _ := strconv.Atoi(m[3])
			decl.size = int32(n)
		}
		decl.active = referenced(src, decl.name)
		info.uniforms = append(info.uniforms, decl)
	}
	for _, m := range glslVarying.FindAllStringSubmatch(src, -1) {
		decl := declaration{name: m[4], typ: glslTypes[m[3]], size: 1, location: -1}
		if m[1] != "" {
			n, _ := strconv.Atoi(m[1])
			decl.location = int32(n)
		}
		decl.active = referenced(src, decl.name)
		switch {
		case m[2] == "attribute", m[2] == "in":
			info.inputs = append(info.inputs, decl)
		case m[2] == "out":
			info.outputs = append(info.outputs, decl)
		case stage == gpucore.StageVertex: // varying
			info.outputs = append(info.outputs, decl)
		default:
			info.inputs = append(info.inputs, decl)
		}
	}
	if stage == gpucore.StageVertex {
		seen := map[string]bool{}
		for _, b := range glslBuiltin.FindAllString(src, -1) {
			if !seen[b] {
				seen[b] = true
				info.builtins = append(info.builtins, b)
			}
		}
	}
	return info, nil
}

func compileWGSL(stage gpucore.ShaderStage, source, src string) (stageInfo, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return stageInfo{}, fmt.Errorf("error: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return stageInfo{}, fmt.Errorf("error: %w", err)
	}
	problems, err := naga.Validate(module)
	if err != nil {
		return stageInfo{}, fmt.Errorf("error: %w", err)
	}
	if len(problems) > 0 {
		return stageInfo{}, fmt.Errorf("error: %w", &problems[0])
	}

	info := stageInfo{lang: langWGSL}
	for _, gv := range module.GlobalVariables {
		if gv.Space != ir.SpaceUniform {
			continue
		}
		typ, size := irType(module, gv.Type)
		info.uniforms = append(info.uniforms, declaration{
			name:     gv.Name,
			typ:      typ,
			size:     size,
			location: -1,
			active:   referenced(src, gv.Name),
		})
	}
	if stage != gpucore.StageVertex {
		return info, nil
	}
	for _, ep := range module.EntryPoints {
		if ep.Stage != ir.StageVertex {
			continue
		}
		for _, arg := range ep.Function.Arguments {
			if st, ok := module.Types[arg.Type].Inner.(ir.StructType); ok && arg.Binding == nil {
				for _, m := range st.Members {
					info.addInput(module, src, m.Name, m.Type, m.Binding)
				}
				continue
			}
			info.addInput(module, src, arg.Name, arg.Type, arg.Binding)
		}
		break
	}
	return info, nil
}

// addInput records one vertex entry point input. Built-in inputs are kept
// by name, location inputs become attributes.
func (info *stageInfo) addInput(module *ir.Module, src, name string, th ir.TypeHandle, binding *ir.Binding) {
	if binding == nil {
		return
	}
	switch b := (*binding).(type) {
	case ir.BuiltinBinding:
		if b.Builtin == ir.BuiltinVertexIndex || b.Builtin == ir.BuiltinInstanceIndex {
			info.builtins = append(info.builtins, name)
		}
	case ir.LocationBinding:
		typ, _ := irType(module, th)
		info.inputs = append(info.inputs, declaration{
			name:     name,
			typ:      typ,
			size:     1,
			location: int32(b.Location),
			active:   referenced(src, name),
		})
	}
}

// irType maps a naga type to its reflected data type and array length.
func irType(module *ir.Module, th ir.TypeHandle) (gpucore.DataType, int32) {
	if int(th) >= len(module.Types) {
		return gpucore.TypeUnknown, 1
	}
	switch t := module.Types[th].Inner.(type) {
	case ir.ScalarType:
		return scalarType(t), 1
	case ir.VectorType:
		return vectorType(t), 1
	case ir.MatrixType:
		if t.Columns == t.Rows && t.Scalar.Kind == ir.ScalarFloat && t.Scalar.Width == 4 {
			switch t.Columns {
			case ir.Vec2:
				return gpucore.TypeMat2, 1
			case ir.Vec3:
				return gpucore.TypeMat3, 1
			case ir.Vec4:
				return gpucore.TypeMat4, 1
			}
		}
	case ir.ArrayType:
		typ, _ := irType(module, t.Base)
		if t.Size.Constant != nil {
			return typ, int32(*t.Size.Constant)
		}
		return typ, 1
	}
	return gpucore.TypeUnknown, 1
}

func scalarType(s ir.ScalarType) gpucore.DataType {
	switch s.Kind {
	case ir.ScalarSint:
		return gpucore.TypeInt
	case ir.ScalarUint:
		return gpucore.TypeUint
	case ir.ScalarBool:
		return gpucore.TypeBool
	case ir.ScalarFloat:
		if s.Width == 8 {
			return gpucore.TypeDouble
		}
		return gpucore.TypeFloat
	}
	return gpucore.TypeUnknown
}

var vectorTypes = map[ir.ScalarKind][3]gpucore.DataType{
	ir.ScalarSint:  {gpucore.TypeIVec2, gpucore.TypeIVec3, gpucore.TypeIVec4},
	ir.ScalarUint:  {gpucore.TypeUVec2, gpucore.TypeUVec3, gpucore.TypeUVec4},
	ir.ScalarFloat: {gpucore.TypeVec2, gpucore.TypeVec3, gpucore.TypeVec4},
}

func vectorType(v ir.VectorType) gpucore.DataType {
	row, ok := vectorTypes[v.Scalar.Kind]
	if !ok || v.Size < ir.Vec2 || v.Size > ir.Vec4 {
		return gpucore.TypeUnknown
	}
	if v.Scalar.Kind == ir.ScalarFloat && v.Scalar.Width == 8 {
		return [3]gpucore.DataType{gpucore.TypeDVec2, gpucore.TypeDVec3, gpucore.TypeDVec4}[v.Size-ir.Vec2]
	}
	return row[v.Size-ir.Vec2]
}

// referenced reports whether name is used beyond its own declaration.
// Drivers drop unreferenced uniforms and attributes from reflection.
func referenced(src, name string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	return len(re.FindAllStringIndex(src, 2)) > 1
}

// checkBalance reports the first unbalanced bracket.
func checkBalance(src string) error {
	pairs := map[rune]rune{')': '(', ']': '[', '}': '{'}
	var stack []rune
	line := 1
	for _, r := range src {
		switch r {
		case '\n':
			line++
		case '(', '[', '{':
			stack = append(stack, r)
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return fmt.Errorf("0:%d(1): error: syntax error, unexpected '%c'", line, r)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("0:%d(1): error: syntax error, unexpected end of file, expecting closing bracket for '%c'", line, stack[len(stack)-1])
	}
	return nil
}

func lastLine(src string) int {
	return strings.Count(src, "\n") + 1
}
