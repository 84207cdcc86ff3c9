package resource

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	rmath "github.com/mertwole/pathtracer/math"
)

// Vertex is one corner of a loaded triangle, normal always resolved
// (falling back to the triangle's geometric normal when the source
// file didn't carry one).
type Vertex struct {
	Position rmath.Vec3
	UV       rmath.Vec2
	Normal   rmath.Vec3
}

// Triangle is a single renderable face of a Mesh. TrueNormal is the
// geometric face normal, used both as the per-vertex normal fallback
// and to weight barycentric coordinates during intersection.
type Triangle struct {
	Vertices   [3]Vertex
	TrueNormal rmath.Vec3
}

// Mesh is the resolved form of a mesh resource: a flat list of
// triangles, already fan-triangulated and normal-resolved.
type Mesh struct {
	Triangles []Triangle
}

type rawVertex struct {
	position  rmath.Vec3
	uv        rmath.Vec2
	normal    rmath.Vec3
	hasNormal bool
}

// LoadMeshFromOBJ parses a Wavefront .obj file into a Mesh, fan
// triangulating any polygon with more than three vertices. Unlike the
// Wavefront .mtl side of the format, material assignment is carried
// entirely by the referencing hierarchy node, not by the mesh file
// (spec.md §4.2's mesh-reference node holds its own material Ref).
func LoadMeshFromOBJ(data []byte) (Mesh, error) {
	var positions []rmath.Vec3
	var normals []rmath.Vec3
	var uvs []rmath.Vec2
	var faces [][]rawVertex

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		switch parts[0] {
		case "v":
			v, err := parseVec3(parts)
			if err != nil {
				return Mesh{}, fmt.Errorf("resource: parsing obj vertex: %w", err)
			}
			positions = append(positions, v)
		case "vn":
			v, err := parseVec3(parts)
			if err != nil {
				return Mesh{}, fmt.Errorf("resource: parsing obj normal: %w", err)
			}
			normals = append(normals, v)
		case "vt":
			if len(parts) < 3 {
				return Mesh{}, &ErrMalformed{Reason: "obj texture coordinate needs two components"}
			}
			u, errU := strconv.ParseFloat(parts[1], 32)
			v, errV := strconv.ParseFloat(parts[2], 32)
			if errU != nil || errV != nil {
				return Mesh{}, &ErrMalformed{Reason: "obj texture coordinate is not numeric"}
			}
			uvs = append(uvs, rmath.NewVec2(float32(u), float32(v)))
		case "f":
			face, err := parseFace(parts[1:], positions, normals, uvs)
			if err != nil {
				return Mesh{}, err
			}
			faces = append(faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return Mesh{}, fmt.Errorf("resource: scanning obj data: %w", err)
	}

	var triangles []Triangle
	for _, face := range faces {
		for i := 2; i < len(face); i++ {
			triangles = append(triangles, initTriangle([3]rawVertex{face[0], face[i-1], face[i]}))
		}
	}

	return Mesh{Triangles: triangles}, nil
}

func initTriangle(verts [3]rawVertex) Triangle {
	side0 := verts[1].position.Sub(verts[0].position)
	side1 := verts[1].position.Sub(verts[2].position)
	trueNormal := side0.Cross(side1).Normalize()

	var tri Triangle
	tri.TrueNormal = trueNormal
	for i, v := range verts {
		normal := trueNormal
		if v.hasNormal {
			normal = v.normal
		}
		tri.Vertices[i] = Vertex{Position: v.position, UV: v.uv, Normal: normal}
	}
	return tri
}

func parseVec3(parts []string) (rmath.Vec3, error) {
	if len(parts) < 4 {
		return rmath.Vec3{}, &ErrMalformed{Reason: "obj vector needs three components"}
	}
	x, errX := strconv.ParseFloat(parts[1], 32)
	y, errY := strconv.ParseFloat(parts[2], 32)
	z, errZ := strconv.ParseFloat(parts[3], 32)
	if errX != nil || errY != nil || errZ != nil {
		return rmath.Vec3{}, &ErrMalformed{Reason: "obj vector component is not numeric"}
	}
	return rmath.NewVec3(float32(x), float32(y), float32(z)), nil
}

func parseFace(tokens []string, positions, normals []rmath.Vec3, uvs []rmath.Vec2) ([]rawVertex, error) {
	if len(tokens) < 3 {
		return nil, &ErrMalformed{Reason: "obj face needs at least three vertices"}
	}
	face := make([]rawVertex, 0, len(tokens))
	for _, tok := range tokens {
		fields := strings.Split(tok, "/")

		posIdx, err := resolveIndex(fields, 0, len(positions))
		if err != nil {
			return nil, fmt.Errorf("resource: parsing obj face: %w", err)
		}
		if posIdx < 0 {
			return nil, &ErrMalformed{Reason: "obj face vertex missing position index"}
		}
		v := rawVertex{position: positions[posIdx]}

		if uvIdx, err := resolveIndex(fields, 1, len(uvs)); err == nil && uvIdx >= 0 {
			v.uv = uvs[uvIdx]
		}
		if normIdx, err := resolveIndex(fields, 2, len(normals)); err == nil && normIdx >= 0 {
			v.normal = normals[normIdx]
			v.hasNormal = true
		}
		face = append(face, v)
	}
	return face, nil
}

// resolveIndex returns the 0-based index for fields[slot], or -1 if
// that slot is absent from the face spec (e.g. "v//vn").
func resolveIndex(fields []string, slot int, count int) (int, error) {
	if slot >= len(fields) || fields[slot] == "" {
		return -1, nil
	}
	raw, err := strconv.Atoi(fields[slot])
	if err != nil {
		return -1, fmt.Errorf("index %q is not an integer", fields[slot])
	}
	if raw < 0 {
		raw = count + raw + 1
	}
	if raw < 1 || raw > count {
		return -1, fmt.Errorf("index %d out of range [1, %d]", raw, count)
	}
	return raw - 1, nil
}
