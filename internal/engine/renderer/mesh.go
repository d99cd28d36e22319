package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/rockblast/pkg/math"
	"github.com/Faultbox/rockblast/pkg/obj"
)

// floatsPerVertex is position(3) + normal(3) + texcoord(2).
const floatsPerVertex = 8

// gpuMesh is a mesh uploaded to the GPU.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// interleave packs the parallel mesh arrays into one vertex buffer.
func interleave(m *obj.Mesh) []float32 {
	out := make([]float32, 0, len(m.Positions)*floatsPerVertex)
	for i, p := range m.Positions {
		var n math.Vec3
		if i < len(m.Normals) {
			n = m.Normals[i]
		}
		var uv math.Vec2
		if i < len(m.TexCoords) {
			uv = m.TexCoords[i]
		}
		out = append(out, p.X, p.Y, p.Z, n.X, n.Y, n.Z, uv.X, uv.Y)
	}
	return out
}

func upload(m *obj.Mesh) *gpuMesh {
	vertices := interleave(m)
	g := &gpuMesh{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	stride := int32(floatsPerVertex * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return g
}

func (g *gpuMesh) draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (g *gpuMesh) delete() {
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
}
