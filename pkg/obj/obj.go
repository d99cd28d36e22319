// Package obj parses the Wavefront OBJ subset used by the game's meshes
// (v, vn, vt and f records) into a compact indexed triangle mesh.
package obj

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/rockblast/pkg/math"
)

// OBJ format errors.
var (
	ErrMalformedLine   = errors.New("malformed OBJ line")
	ErrIndexOutOfRange = errors.New("OBJ index out of range")
	ErrDegenerateFace  = errors.New("OBJ face has fewer than 3 vertices")
)

// Mesh is an indexed triangle mesh. Positions, Normals and TexCoords are
// index-parallel; Indices holds three entries per triangle.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords []math.Vec2
	Indices   []uint32
}

// VertexCount returns the number of unique vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Empty reports whether the mesh has nothing to draw.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Positions) == 0 || len(m.Indices) == 0
}

// Bounds returns the axis-aligned bounding box of the positions.
// An empty mesh returns zero vectors.
func (m *Mesh) Bounds() (lo, hi math.Vec3) {
	if len(m.Positions) == 0 {
		return
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		lo.X, hi.X = min(lo.X, p.X), max(hi.X, p.X)
		lo.Y, hi.Y = min(lo.Y, p.Y), max(hi.Y, p.Y)
		lo.Z, hi.Z = min(lo.Z, p.Z), max(hi.Z, p.Z)
	}
	return lo, hi
}

// NormalizePositions centres the point cloud on its centroid and rescales it
// so the mean absolute extent is about one unit. With perAxis every axis is
// divided by its own mean extent (aspect ratio is lost); otherwise all axes
// are divided by the length of the mean-extent vector.
func (m *Mesh) NormalizePositions(perAxis bool) {
	n := len(m.Positions)
	if n == 0 {
		return
	}
	inv := 1 / float32(n)

	var centroid math.Vec3
	for _, p := range m.Positions {
		centroid = centroid.Add(p.Scale(inv))
	}

	var extent math.Vec3
	for i, p := range m.Positions {
		p = p.Sub(centroid)
		m.Positions[i] = p
		extent = extent.Add(p.Abs().Scale(inv))
	}

	if perAxis {
		for i, p := range m.Positions {
			m.Positions[i] = p.Div(extent)
		}
		return
	}

	l := extent.Length()
	if l == 0 {
		return
	}
	for i, p := range m.Positions {
		m.Positions[i] = p.Scale(1 / l)
	}
}

// Load reads and parses an OBJ file from disk.
func Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseReader(f)
}

// Parse parses OBJ text.
func Parse(data []byte) (*Mesh, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader parses OBJ text from r. Unknown record types are skipped.
func ParseReader(r io.Reader) (*Mesh, error) {
	p := &parser{
		mesh: &Mesh{},
		seen: make(map[string]uint32),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	return p.mesh, nil
}

// parser holds the raw records read so far and the output mesh being built.
type parser struct {
	positions []math.Vec3
	normals   []math.Vec3
	texCoords []math.Vec2

	mesh *Mesh
	// seen maps a raw face-vertex token ("v/vt/vn") to its output index.
	seen map[string]uint32
	line int
	face []uint32
}

func (p *parser) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := parseVec3(fields[1:])
		if err != nil {
			return err
		}
		p.positions = append(p.positions, v)
	case "vn":
		v, err := parseVec3(fields[1:])
		if err != nil {
			return err
		}
		p.normals = append(p.normals, v)
	case "vt":
		v, err := parseVec2(fields[1:])
		if err != nil {
			return err
		}
		p.texCoords = append(p.texCoords, v)
	case "f":
		return p.parseFace(fields[1:])
	}
	return nil
}

// parseFace resolves every face vertex and fan-triangulates from the first.
func (p *parser) parseFace(tokens []string) error {
	if len(tokens) < 3 {
		return ErrDegenerateFace
	}

	p.face = p.face[:0]
	for _, tok := range tokens {
		idx, err := p.vertex(tok)
		if err != nil {
			return err
		}
		p.face = append(p.face, idx)
	}

	for i := 1; i+1 < len(p.face); i++ {
		p.mesh.Indices = append(p.mesh.Indices, p.face[0], p.face[i], p.face[i+1])
	}
	return nil
}

// vertex returns the output index for a face token, emitting a new vertex
// the first time the token is seen.
func (p *parser) vertex(tok string) (uint32, error) {
	if idx, ok := p.seen[tok]; ok {
		return idx, nil
	}

	parts := strings.Split(tok, "/")
	if len(parts) > 3 || parts[0] == "" {
		return 0, fmt.Errorf("%w: face vertex %q", ErrMalformedLine, tok)
	}

	vi, err := resolveIndex(parts[0], len(p.positions))
	if err != nil {
		return 0, err
	}

	// Missing texture/normal references fall back to the position index.
	// A fallback index past the end of the list yields a zero value.
	ti, ni := vi, vi
	if len(parts) > 1 && parts[1] != "" {
		if ti, err = resolveIndex(parts[1], len(p.texCoords)); err != nil {
			return 0, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ni, err = resolveIndex(parts[2], len(p.normals)); err != nil {
			return 0, err
		}
	}

	var tc math.Vec2
	if ti < len(p.texCoords) {
		tc = p.texCoords[ti]
	}
	var n math.Vec3
	if ni < len(p.normals) {
		n = p.normals[ni]
	}

	idx := uint32(len(p.mesh.Positions))
	p.mesh.Positions = append(p.mesh.Positions, p.positions[vi])
	p.mesh.TexCoords = append(p.mesh.TexCoords, tc)
	p.mesh.Normals = append(p.mesh.Normals, n)
	p.seen[tok] = idx
	return idx, nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index into a
// 0-based index into a list of length count.
func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrMalformedLine, s)
	}

	var idx int
	switch {
	case n > 0:
		idx = n - 1
	case n < 0:
		idx = count + n
	default:
		return 0, fmt.Errorf("%w: index 0", ErrIndexOutOfRange)
	}

	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, n, count)
	}
	return idx, nil
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("%w: want 3 components, got %d", ErrMalformedLine, len(fields))
	}
	var c [3]float32
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("%w: %v", ErrMalformedLine, err)
		}
		c[i] = float32(f)
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// parseVec2 reads u and an optional v; a third (w) component is ignored.
func parseVec2(fields []string) (math.Vec2, error) {
	if len(fields) < 1 {
		return math.Vec2{}, fmt.Errorf("%w: empty texture coordinate", ErrMalformedLine)
	}
	var c [2]float32
	for i := 0; i < 2 && i < len(fields); i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec2{}, fmt.Errorf("%w: %v", ErrMalformedLine, err)
		}
		c[i] = float32(f)
	}
	return math.Vec2{X: c[0], Y: c[1]}, nil
}
