package headless

import (
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/stem/gpucore"
)

const layoutVertex = `
#version 330 core
layout(location = 1) in vec2 position;
in vec3 color;
in float unused;
out vec3 vColor;
uniform float scale;
uniform vec2 ignored; // never read
uniform float weights[3];

void main() {
    vColor = color * weights[0];
    gl_Position = vec4(position * scale, 0.0, 1.0);
}
`

const layoutFragment = `
#version 330 core
in vec3 vColor;
out vec4 outColor;
uniform int mode;

void main() {
    outColor = vec4(vColor, float(mode));
}
`

const wgslVertex = `
@group(0) @binding(0) var<uniform> mvp: mat4x4<f32>;

@vertex
fn vs_main(
    @location(0) position: vec3<f32>,
    @location(2) uv: vec2<f32>,
    @builtin(vertex_index) index: u32
) -> @builtin(position) vec4<f32> {
    let shift = vec4<f32>(uv, f32(index), 0.0);
    return mvp * vec4<f32>(position, 1.0) + shift;
}
`

const wgslFragment = `
@group(0) @binding(1) var<uniform> tint: vec4<f32>;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return tint;
}
`

// compile builds one shader and returns it with its compile status.
func compile(t *testing.T, d *Driver, stage gpucore.ShaderStage, src string) (gpucore.ShaderID, bool) {
	t.Helper()
	id := d.CreateShader(stage)
	d.ShaderSource(id, src)
	d.CompileShader(id)
	return id, d.ShaderCompiled(id)
}

// link builds and links a program from vertex and fragment sources.
func link(t *testing.T, d *Driver, vertex, fragment string) gpucore.ProgramID {
	t.Helper()
	p := d.CreateProgram()
	for stage, src := range map[gpucore.ShaderStage]string{gpucore.StageVertex: vertex, gpucore.StageFragment: fragment} {
		id, ok := compile(t, d, stage, src)
		if !ok {
			t.Fatalf("%s shader: %s", stage, d.ShaderInfoLog(id))
		}
		d.AttachShader(p, id)
		d.DeleteShader(id)
	}
	d.LinkProgram(p)
	if !d.ProgramLinked(p) {
		t.Fatalf("link: %s", d.ProgramInfoLog(p))
	}
	return p
}

func activeUniforms(d *Driver, p gpucore.ProgramID) map[string]gpucore.ActiveVariable {
	vars := make(map[string]gpucore.ActiveVariable)
	for i := range d.ActiveUniforms(p) {
		v := d.ActiveUniform(p, i)
		vars[v.Name] = v
	}
	return vars
}

func activeAttributes(d *Driver, p gpucore.ProgramID) map[string]gpucore.ActiveVariable {
	vars := make(map[string]gpucore.ActiveVariable)
	for i := range d.ActiveAttributes(p) {
		v := d.ActiveAttribute(p, i)
		vars[v.Name] = v
	}
	return vars
}

func TestCompileGLSLErrors(t *testing.T) {
	tests := []struct {
		name  string
		stage gpucore.ShaderStage
		src   string
		want  string
	}{
		{"unbalanced", gpucore.StageVertex, "void main() { gl_Position = vec4(0.0; }", "unexpected '}'"},
		{"unterminated", gpucore.StageFragment, "void main() {\n", "unexpected end of file"},
		{"no main", gpucore.StageFragment, "out vec4 color;", "fragment shader has no main function"},
		{"commented main", gpucore.StageVertex, "/* void main() {} */", "no main function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			id, ok := compile(t, d, tt.stage, tt.src)
			if ok {
				t.Fatal("compiled, want syntax error")
			}
			log := d.ShaderInfoLog(id)
			if !strings.Contains(log, "syntax error") || !strings.Contains(log, tt.want) {
				t.Errorf("log = %q, want syntax error containing %q", log, tt.want)
			}
		})
	}
}

func TestRecompileClearsLog(t *testing.T) {
	d := New()
	id, ok := compile(t, d, gpucore.StageVertex, "void main() {")
	if ok {
		t.Fatal("compiled broken source")
	}
	d.ShaderSource(id, "void main() {}")
	d.CompileShader(id)
	if !d.ShaderCompiled(id) {
		t.Fatalf("recompile failed: %s", d.ShaderInfoLog(id))
	}
	if log := d.ShaderInfoLog(id); log != "" {
		t.Errorf("log after successful compile = %q, want empty", log)
	}
}

func TestLinkGLSLReflection(t *testing.T) {
	d := New()
	p := link(t, d, layoutVertex, layoutFragment)

	uniforms := activeUniforms(d, p)
	if _, ok := uniforms["ignored"]; ok {
		t.Error("unreferenced uniform reported active")
	}
	if u, ok := uniforms["weights[0]"]; !ok || u.Size != 3 || u.Type != gpucore.TypeFloat {
		t.Errorf("weights = %+v, want float[3] named weights[0]", u)
	}
	// Locations follow stage and declaration order; arrays take one per element.
	for name, want := range map[string]int32{"scale": 0, "weights": 1, "weights[0]": 1, "mode": 4, "ignored": -1} {
		if got := d.UniformLocation(p, name); got != want {
			t.Errorf("UniformLocation(%q) = %d, want %d", name, got, want)
		}
	}

	attrs := activeAttributes(d, p)
	if _, ok := attrs["unused"]; ok {
		t.Error("unreferenced attribute reported active")
	}
	if len(attrs) != 2 {
		t.Errorf("active attributes = %v, want position and color", attrs)
	}
	for name, want := range map[string]int32{"position": 1, "color": 0} {
		if got := d.AttribLocation(p, name); got != want {
			t.Errorf("AttribLocation(%q) = %d, want %d", name, got, want)
		}
	}
	if code := d.Error(); code != gpucore.NoError {
		t.Errorf("Error() = %s", code)
	}
}

func TestLinkErrors(t *testing.T) {
	tests := []struct {
		name     string
		vertex   string
		fragment string
		want     string
	}{
		{
			"missing output",
			"in vec2 p;\nvoid main() { gl_Position = vec4(p, 0.0, 1.0); }",
			"in vec2 uv;\nout vec4 c;\nvoid main() { c = vec4(uv, 0.0, 1.0); }",
			"input 'uv' has no matching output",
		},
		{
			"type mismatch",
			"out vec3 uv;\nvoid main() { uv = vec3(0.0); }",
			"in vec2 uv;\nout vec4 c;\nvoid main() { c = vec4(uv, 0.0, 1.0); }",
			"'uv' declared as",
		},
		{
			"uniform type conflict",
			"uniform float k;\nvoid main() { gl_Position = vec4(k); }",
			"uniform int k;\nout vec4 c;\nvoid main() { c = vec4(float(k)); }",
			"uniform 'k' declared as",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			p := d.CreateProgram()
			for _, s := range []struct {
				stage gpucore.ShaderStage
				src   string
			}{{gpucore.StageVertex, tt.vertex}, {gpucore.StageFragment, tt.fragment}} {
				id, ok := compile(t, d, s.stage, s.src)
				if !ok {
					t.Fatalf("%s shader: %s", s.stage, d.ShaderInfoLog(id))
				}
				d.AttachShader(p, id)
			}
			d.LinkProgram(p)
			if d.ProgramLinked(p) {
				t.Fatal("linked, want error")
			}
			if log := d.ProgramInfoLog(p); !strings.Contains(log, tt.want) {
				t.Errorf("log = %q, want %q", log, tt.want)
			}
			// Reflection on an unlinked program is an invalid operation.
			if n := d.ActiveUniforms(p); n != 0 {
				t.Errorf("ActiveUniforms() = %d, want 0", n)
			}
			if code := d.Error(); code != gpucore.InvalidOperation {
				t.Errorf("Error() = %s, want GL_INVALID_OPERATION", code)
			}
		})
	}
}

func TestWGSLReflection(t *testing.T) {
	d := New()
	p := link(t, d, wgslVertex, wgslFragment)

	uniforms := activeUniforms(d, p)
	if u := uniforms["mvp"]; u.Type != gpucore.TypeMat4 {
		t.Errorf("mvp type = %s, want mat4", u.Type)
	}
	if u := uniforms["tint"]; u.Type != gpucore.TypeVec4 {
		t.Errorf("tint type = %s, want vec4", u.Type)
	}

	attrs := activeAttributes(d, p)
	if a := attrs["position"]; a.Type != gpucore.TypeVec3 {
		t.Errorf("position type = %s, want vec3", a.Type)
	}
	if a := attrs["uv"]; a.Type != gpucore.TypeVec2 {
		t.Errorf("uv type = %s, want vec2", a.Type)
	}
	for name, want := range map[string]int32{"position": 0, "uv": 2, "index": -1} {
		if got := d.AttribLocation(p, name); got != want {
			t.Errorf("AttribLocation(%q) = %d, want %d", name, got, want)
		}
	}
	if code := d.Error(); code != gpucore.NoError {
		t.Errorf("Error() = %s", code)
	}
}

func TestWGSLCompileError(t *testing.T) {
	d := New()
	id, ok := compile(t, d, gpucore.StageVertex, "@vertex\nfn vs_main( -> @builtin(position) vec4<f32> {\n    return vec4<f32>();\n}\n")
	if ok {
		t.Fatal("compiled, want error")
	}
	if log := d.ShaderInfoLog(id); !strings.HasPrefix(log, "error: ") {
		t.Errorf("log = %q, want error prefix", log)
	}
}

func TestUniformUpload(t *testing.T) {
	d := New()
	p := link(t, d, layoutVertex, layoutFragment)

	// No current program.
	d.Uniform1f(0, 1)
	if code := d.Error(); code != gpucore.InvalidOperation {
		t.Errorf("upload without program: Error() = %s, want GL_INVALID_OPERATION", code)
	}

	d.UseProgram(p)
	if d.CurrentProgram() != p {
		t.Fatalf("CurrentProgram() = %d, want %d", d.CurrentProgram(), p)
	}
	d.Uniform1f(d.UniformLocation(p, "scale"), 2.5)
	d.Uniform1f(d.UniformLocation(p, "weights")+2, 0.5)
	d.Uniform1i(d.UniformLocation(p, "mode"), 3)
	d.Uniform1f(-1, 9) // ignored
	if code := d.Error(); code != gpucore.NoError {
		t.Fatalf("Error() = %s", code)
	}
	if v, _ := d.UniformValue(p, "scale"); v != float32(2.5) {
		t.Errorf("scale = %v, want 2.5", v)
	}
	if v, _ := d.UniformValue(p, "mode"); v != int32(3) {
		t.Errorf("mode = %v, want 3", v)
	}

	// Wrong call for the declared type.
	d.Uniform1i(d.UniformLocation(p, "scale"), 1)
	if code := d.Error(); code != gpucore.InvalidOperation {
		t.Errorf("int upload to float: Error() = %s, want GL_INVALID_OPERATION", code)
	}
	if v, _ := d.UniformValue(p, "scale"); v != float32(2.5) {
		t.Errorf("scale after failed upload = %v, want 2.5", v)
	}
	// Location past every uniform.
	d.Uniform1f(40, 1)
	if code := d.Error(); code != gpucore.InvalidOperation {
		t.Errorf("unknown location: Error() = %s, want GL_INVALID_OPERATION", code)
	}
}

func TestDrawValidation(t *testing.T) {
	d := New()
	p := link(t, d, layoutVertex, layoutFragment)

	buf := d.CreateBuffer()
	d.BindBuffer(gputypes.BufferUsageVertex, buf)
	d.BufferData(gputypes.BufferUsageVertex, make([]byte, 3*2*4), gpucore.UsageStatic)
	va := d.CreateVertexArray()
	d.BindVertexArray(va)
	d.EnableVertexAttribArray(1)
	d.VertexAttribPointer(1, 2, gpucore.Float, false, 0, 0)

	// No current program.
	d.DrawArrays(gputypes.PrimitiveTopologyTriangleList, 0, 3)
	if code := d.Error(); code != gpucore.InvalidOperation {
		t.Errorf("draw without program: Error() = %s, want GL_INVALID_OPERATION", code)
	}

	d.UseProgram(p)
	d.DrawArrays(gputypes.PrimitiveTopologyTriangleList, 0, 3)
	if code := d.Error(); code != gpucore.NoError {
		t.Errorf("valid draw: Error() = %s", code)
	}
	d.DrawArrays(gputypes.PrimitiveTopologyPointList, 0, 3)
	if code := d.Error(); code != gpucore.InvalidEnum {
		t.Errorf("point list: Error() = %s, want GL_INVALID_ENUM", code)
	}
	d.DrawArrays(gputypes.PrimitiveTopologyTriangleList, 1, 3)
	if code := d.Error(); code != gpucore.InvalidOperation {
		t.Errorf("range past buffer: Error() = %s, want GL_INVALID_OPERATION", code)
	}

	// Indexed draws need an unsigned type and an index buffer that fits.
	d.DrawElements(gputypes.PrimitiveTopologyTriangleList, 3, gpucore.UnsignedShort, 0)
	if code := d.Error(); code != gpucore.InvalidOperation {
		t.Errorf("no index buffer: Error() = %s, want GL_INVALID_OPERATION", code)
	}
	index := d.CreateBuffer()
	d.BindBuffer(gputypes.BufferUsageIndex, index)
	d.BufferData(gputypes.BufferUsageIndex, make([]byte, 6), gpucore.UsageStatic)
	d.DrawElements(gputypes.PrimitiveTopologyTriangleList, 3, gpucore.Float, 0)
	if code := d.Error(); code != gpucore.InvalidEnum {
		t.Errorf("float indices: Error() = %s, want GL_INVALID_ENUM", code)
	}
	d.DrawElements(gputypes.PrimitiveTopologyTriangleList, 3, gpucore.UnsignedShort, 0)
	if code := d.Error(); code != gpucore.NoError {
		t.Errorf("valid indexed draw: Error() = %s", code)
	}
	d.DrawElements(gputypes.PrimitiveTopologyTriangleList, 3, gpucore.UnsignedInt, 0)
	if code := d.Error(); code != gpucore.InvalidOperation {
		t.Errorf("index buffer too small: Error() = %s, want GL_INVALID_OPERATION", code)
	}
}

func TestDeleteCurrentProgram(t *testing.T) {
	d := New()
	p := link(t, d, layoutVertex, layoutFragment)
	d.UseProgram(p)
	d.DeleteProgram(p)
	if d.CurrentProgram() != gpucore.InvalidID {
		t.Errorf("CurrentProgram() = %d after delete, want InvalidID", d.CurrentProgram())
	}
	if got := d.Live(); got != (Objects{}) {
		t.Errorf("Live() = %+v, want none", got)
	}
}
