// Package stem provides typed handles for shader programs, GPU buffers and
// drawable geometry on top of a retained-mode graphics driver.
//
// # Overview
//
// stem replaces raw object names and manual binding calls with three
// objects:
//   - [Program]: compiles and links shader stages, reflects the active
//     uniforms and vertex attributes, and uploads changed uniform values
//     lazily when the program is used.
//   - [Buffer]: a typed block of GPU memory, either vertex data or indices.
//   - [Geometry]: named vertex attributes plus an optional index buffer. It
//     builds one vertex array per program it is drawn with and caches it.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/stem"
//		"github.com/gogpu/stem/backend"
//		_ "github.com/gogpu/stem/backend/gl"
//	)
//
//	driver, _, err := backend.Default()
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx, err := stem.NewContext(driver)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	program, err := stem.NewProgram(ctx, stem.Settings{
//		Vertex:   vertexSource,
//		Fragment: fragmentSource,
//		Uniforms: []stem.Uniform{{Name: "resolution", Value: stem.Vec2f{640, 480}}},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	positions, _ := stem.NewBuffer(ctx, []float32{-1, -1, 1, -1, 1, 1}, gpucore.UsageStatic)
//	geometry, _ := stem.NewGeometry(ctx, stem.Attribute{Name: "position", Size: 2, Buffer: positions})
//
//	// Per frame:
//	program.Use()
//	geometry.Draw(program)
//
// # Render Context
//
// Every object is created on a [Context], which wraps one [gpucore.Driver].
// The Context issues generation-stamped [ProgramHandle] values, so a vertex
// array cached for a destroyed program is never reused for a new program
// that happens to get the same driver ID. Closing the Context releases all
// objects still alive.
//
// # Errors
//
// Shader compile and link failures are returned as [*ShaderSyntaxError]
// and [*ProgramLinkError] and leave no driver objects behind. Setting a
// uniform the program does not use is not an error. Driver error flags are
// not part of any result; enable [WithDebug] to log them.
//
// # Threading
//
// Driver state (current program, bound buffers, bound vertex array) is
// global to the GPU context. A Context and its objects must be used from
// one goroutine, the one the GPU context is current on.
package stem

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
