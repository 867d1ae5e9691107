package stem

import (
	"testing"

	"github.com/gogpu/stem/backend/headless"
)

const quadVertex = `
#version 330 core
in vec2 position;

void main() {
    gl_Position = vec4(position, 0.0, 1.0);
}
`

const quadFragment = `
#version 330 core
out vec4 color;
uniform vec2 resolution;

void main() {
    vec2 uv = gl_FragCoord.xy / resolution;
    color = vec4(uv.x, uv.y, 0.0, 1.0);
}
`

// typedVertex declares one uniform of every supported type plus a matrix
// and an array.
const typedVertex = `
#version 410 core
in vec2 position;
uniform float time;
uniform int mode;
uniform uint flags;
uniform double scale;
uniform ivec2 cell;
uniform uvec2 extent;
uniform dvec2 origin;
uniform mat4 mvp;
uniform float weights[4];

void main() {
    float t = time + float(mode) + float(flags) + float(scale);
    t += float(cell.x) + float(extent.x) + float(origin.x) + weights[0];
    gl_Position = mvp * vec4(position, t, 1.0);
}
`

const colorVertex = `
#version 330 core
in vec2 position;
in vec3 color;
out vec3 vColor;

void main() {
    vColor = color;
    gl_Position = vec4(position, 0.0, 1.0);
}
`

const colorFragment = `
#version 330 core
in vec3 vColor;
out vec4 outColor;

void main() {
    outColor = vec4(vColor, 1.0);
}
`

const plainFragment = `
#version 330 core
out vec4 outColor;

void main() {
    outColor = vec4(1.0);
}
`

// newTestContext returns a Context over a fresh headless driver.
func newTestContext(t *testing.T, opts ...ContextOption) (*Context, *headless.Driver) {
	t.Helper()
	d := headless.New()
	ctx, err := NewContext(d, opts...)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	t.Cleanup(ctx.Close)
	return ctx, d
}

// newQuadProgram builds the quad program or fails the test.
func newQuadProgram(t *testing.T, ctx *Context) *Program {
	t.Helper()
	p, err := NewProgram(ctx, Settings{Vertex: quadVertex, Fragment: quadFragment})
	if err != nil {
		t.Fatalf("NewProgram() error = %v", err)
	}
	return p
}

// noDriverErrors fails the test if the driver raised any error flag.
func noDriverErrors(t *testing.T, d *headless.Driver) {
	t.Helper()
	for code := d.Error(); code != 0; code = d.Error() {
		t.Errorf("driver error %s", code)
	}
}
