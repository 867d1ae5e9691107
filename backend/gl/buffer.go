package gl

import (
	glapi "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/stem/gpucore"
)

func (d *Driver) CreateBuffer() gpucore.BufferID {
	var id uint32
	glapi.GenBuffers(1, &id)
	return gpucore.BufferID(id)
}

func (d *Driver) BindBuffer(target gputypes.BufferUsage, id gpucore.BufferID) {
	glapi.BindBuffer(bufferTarget(target), uint32(id))
}

func (d *Driver) BufferData(target gputypes.BufferUsage, data []byte, usage gpucore.Usage) {
	if len(data) == 0 {
		glapi.BufferData(bufferTarget(target), 0, nil, usages[usage])
		return
	}
	glapi.BufferData(bufferTarget(target), len(data), glapi.Ptr(&data[0]), usages[usage])
}

func (d *Driver) DeleteBuffer(id gpucore.BufferID) {
	name := uint32(id)
	glapi.DeleteBuffers(1, &name)
}

func (d *Driver) CreateVertexArray() gpucore.VertexArrayID {
	var id uint32
	glapi.GenVertexArrays(1, &id)
	return gpucore.VertexArrayID(id)
}

func (d *Driver) BindVertexArray(id gpucore.VertexArrayID) {
	glapi.BindVertexArray(uint32(id))
}

func (d *Driver) DeleteVertexArray(id gpucore.VertexArrayID) {
	name := uint32(id)
	glapi.DeleteVertexArrays(1, &name)
}

func (d *Driver) EnableVertexAttribArray(location uint32) {
	glapi.EnableVertexAttribArray(location)
}

func (d *Driver) VertexAttribPointer(location uint32, size int32, typ gpucore.ElementType, normalized bool, stride int32, offset int) {
	glapi.VertexAttribPointerWithOffset(location, size, uint32(typ), normalized, stride, uintptr(offset))
}

func (d *Driver) VertexAttribIPointer(location uint32, size int32, typ gpucore.ElementType, stride int32, offset int) {
	glapi.VertexAttribIPointerWithOffset(location, size, uint32(typ), stride, uintptr(offset))
}

func (d *Driver) DrawArrays(mode gputypes.PrimitiveTopology, first, count int32) {
	glapi.DrawArrays(topologies[mode], first, count)
}

func (d *Driver) DrawElements(mode gputypes.PrimitiveTopology, count int32, typ gpucore.ElementType, offset int) {
	glapi.DrawElementsWithOffset(topologies[mode], count, uint32(typ), uintptr(offset))
}
