// Package backend provides the registry of gpucore drivers.
//
// Driver packages register a factory from their init() function, so
// importing a backend for its side effect makes it available:
//
//	import _ "github.com/gogpu/stem/backend/gl"
//	import _ "github.com/gogpu/stem/backend/headless"
//
// # Backend Selection
//
// Use Default() to open the best available driver, or Open() to request
// a specific driver by name:
//
//	// Open the default (best available) driver
//	d, name, err := backend.Default()
//
//	// Or request a specific driver
//	d, err := backend.Open(backend.BackendHeadless)
//
// The gl driver only opens when an OpenGL context is current on the calling
// goroutine, so Default() falls back to headless on machines without one.
//
// # Usage with Context
//
//	ctx, err := stem.NewContext(d)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ctx.Close()
//
// # Available Backends
//
// - "gl": OpenGL 4.1 core via go-gl
// - "headless": in-memory driver for tests and CI
package backend
