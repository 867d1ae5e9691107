// Package gpucore provides the driver abstraction stem is built on.
//
// This package defines the [Driver] interface, which abstracts over different
// GPU driver implementations, allowing the same object layer to work with:
//   - OpenGL 4.1 core via go-gl (backend/gl)
//   - an in-memory reference driver for tests and CI (backend/headless)
//
// # Architecture
//
// The stem object layer (Program, Buffer, Geometry) is implemented once in
// the root package, while thin backends translate between the [Driver]
// interface and a specific graphics API.
//
//	               +-----------------+
//	               |      stem       |
//	               | (Program, Geom) |
//	               +--------+--------+
//	                        |
//	         +--------------+--------------+
//	         |                             |
//	+--------v--------+          +--------v--------+
//	|   gl backend    |          | headless backend|
//	|  (go-gl 4.1)    |          |   (in memory)   |
//	+--------+--------+          +-----------------+
//	         |
//	+--------v--------+
//	|  OpenGL driver  |
//	+-----------------+
//
// # Resource Management
//
// Driver objects are named by opaque IDs ([ShaderID], [ProgramID],
// [BufferID], [VertexArrayID]). [InvalidID] is the "unbound" sentinel.
// Drivers may reuse an ID after the object has been deleted.
//
// # Type Tags
//
// [ElementType], [DataType] and [ErrorCode] use the numeric values of the
// matching OpenGL enumerants, so GL-backed drivers pass them through
// unchanged and other drivers treat them as plain tags.
//
// # Error Reporting
//
// Driver calls never return errors. Failures raise a flag that is collected
// with [Driver.Error], like glGetError. Compile and link results are read
// back explicitly with [Driver.ShaderCompiled] and [Driver.ProgramLinked].
package gpucore
