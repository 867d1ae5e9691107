// Command stemdemo opens a window and draws a full-screen quad with stem.
//
// The quad is colored by its window coordinates and pulses over time:
//
//	stemdemo -config stemdemo.yaml -debug
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/chewxy/math32"
	glapi "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/stem"
	"github.com/gogpu/stem/backend"
	_ "github.com/gogpu/stem/backend/gl"
	_ "github.com/gogpu/stem/backend/headless"
	"github.com/gogpu/stem/gpucore"
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
uniform float pulse;

void main() {
    vec2 uv = gl_FragCoord.xy / resolution;
    color = vec4(uv.x, uv.y, pulse, 1.0);
}
`

// quad is two triangles covering clip space.
var quad = []float32{
	-1, -1,
	1, -1,
	1, 1,

	1, 1,
	-1, 1,
	-1, -1,
}

func init() {
	// GL calls must come from the thread that owns the context.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		width      = flag.Int("width", 0, "window width, overrides the configuration")
		height     = flag.Int("height", 0, "window height, overrides the configuration")
		driver     = flag.String("backend", "", "driver name, overrides the configuration")
		debug      = flag.Bool("debug", false, "log driver errors after every call")
		verbose    = flag.Bool("v", false, "log debug records")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	if *driver != "" {
		cfg.Backend = *driver
	}
	cfg.Debug = cfg.Debug || *debug

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	stem.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg Config) error {
	vertex, fragment, err := cfg.shaderSources()
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return err
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	driver, err := backend.Open(cfg.Backend)
	if err != nil {
		return err
	}
	if err := glapi.Init(); err != nil {
		return err
	}
	log.Printf("%s backend on %s", cfg.Backend, glapi.GoStr(glapi.GetString(glapi.VERSION)))

	ctx, err := stem.NewContext(driver, stem.WithDebug(cfg.Debug))
	if err != nil {
		return err
	}
	defer ctx.Close()

	fbWidth, fbHeight := window.GetFramebufferSize()
	program, err := stem.NewProgram(ctx, stem.Settings{
		Vertex:   vertex,
		Fragment: fragment,
		Uniforms: []stem.Uniform{
			{Name: "resolution", Value: stem.Vec2f(mgl32.Vec2{float32(fbWidth), float32(fbHeight)})},
		},
	})
	if err != nil {
		return err
	}

	positions, err := stem.NewBuffer(ctx, quad, gpucore.UsageStatic)
	if err != nil {
		return err
	}
	geometry, err := stem.NewGeometry(ctx, stem.Attribute{
		Name:   "position",
		Size:   2,
		Buffer: positions,
	})
	if err != nil {
		return err
	}

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		glapi.Viewport(0, 0, int32(w), int32(h))
		if err := program.SetUniform("resolution", stem.Vec2f{float32(w), float32(h)}); err != nil {
			log.Printf("resize: %v", err)
		}
	})

	glapi.ClearColor(0, 0, 0, 1)
	for !window.ShouldClose() {
		glapi.Clear(glapi.COLOR_BUFFER_BIT)

		t := float32(glfw.GetTime())
		if err := program.SetUniform("pulse", stem.Float(0.5+0.5*math32.Sin(2*t))); err != nil {
			return err
		}
		if err := program.Use(); err != nil {
			return err
		}
		if err := geometry.Draw(program); err != nil {
			return err
		}

		window.SwapBuffers()
		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}
	}

	geometry.Destroy()
	program.Destroy()
	return nil
}
