// Package primitive builds procedural meshes for the shapes that are not
// loaded from OBJ files: the ground/sky box and the rock sphere.
package primitive

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/rockblast/pkg/math"
	"github.com/Faultbox/rockblast/pkg/obj"
)

// Box returns an axis-aligned cube spanning [-1, 1] on every axis with flat
// per-face normals (24 vertices, 12 triangles).
func Box() *obj.Mesh {
	m := &obj.Mesh{}

	faces := []struct {
		normal, u, v math.Vec3
	}{
		{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	for _, f := range faces {
		base := uint32(len(m.Positions))
		for _, c := range corners {
			p := f.normal.Add(f.u.Scale(c[0])).Add(f.v.Scale(c[1]))
			m.Positions = append(m.Positions, p)
			m.Normals = append(m.Normals, f.normal)
			m.TexCoords = append(m.TexCoords, math.Vec2{X: (c[0] + 1) / 2, Y: (c[1] + 1) / 2})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Sphere returns a unit sphere made by repeatedly subdividing an
// icosahedron. Each level multiplies the triangle count by four; normals
// equal positions.
func Sphere(subdivisions int) *obj.Mesh {
	t := (1 + math32.Sqrt(5)) / 2
	verts := []math.Vec3{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	for i := range verts {
		verts[i] = verts[i].Normalize()
	}
	tris := []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	for level := 0; level < subdivisions; level++ {
		midpoints := make(map[[2]uint32]uint32)
		midpoint := func(a, b uint32) uint32 {
			key := [2]uint32{min(a, b), max(a, b)}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			idx := uint32(len(verts))
			verts = append(verts, verts[a].Add(verts[b]).Scale(0.5).Normalize())
			midpoints[key] = idx
			return idx
		}

		next := make([]uint32, 0, len(tris)*4)
		for i := 0; i < len(tris); i += 3 {
			a, b, c := tris[i], tris[i+1], tris[i+2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			next = append(next,
				a, ab, ca,
				b, bc, ab,
				c, ca, bc,
				ab, bc, ca,
			)
		}
		tris = next
	}

	m := &obj.Mesh{
		Positions: verts,
		Normals:   make([]math.Vec3, len(verts)),
		TexCoords: make([]math.Vec2, len(verts)),
		Indices:   tris,
	}
	for i, p := range verts {
		m.Normals[i] = p
		m.TexCoords[i] = math.Vec2{
			X: 0.5 + math32.Atan2(p.Z, p.X)/(2*math32.Pi),
			Y: 0.5 - math32.Asin(p.Y)/math32.Pi,
		}
	}
	return m
}
