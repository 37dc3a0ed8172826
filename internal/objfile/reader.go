// Package objfile reads Wavefront OBJ meshes into flat triangle lists, one per
// object or group.
package objfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"scene-renderer/internal/mesh"
)

// ErrNoGeometry is returned when a file defines no faces.
var ErrNoGeometry = errors.New("objfile: no faces defined")

type reader struct {
	file string

	vertexList []mgl32.Vec3
	normalList []mgl32.Vec3
	uvList     []mgl32.Vec2

	meshes  []mesh.Mesh
	current *mesh.Mesh
}

// Load parses the OBJ file at path.
func Load(path string) ([]mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("objfile: open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads OBJ text from r. name is used for error messages and as the
// default sub-mesh name.
func Parse(r io.Reader, name string) ([]mesh.Mesh, error) {
	rd := &reader{file: name}
	rd.begin(name)

	lineNum := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "v":
			var v mgl32.Vec3
			if v, err = parseVec3(lineTokens); err == nil {
				rd.vertexList = append(rd.vertexList, v)
			}
		case "vn":
			var v mgl32.Vec3
			if v, err = parseVec3(lineTokens); err == nil {
				rd.normalList = append(rd.normalList, v)
			}
		case "vt":
			var v mgl32.Vec2
			if v, err = parseVec2(lineTokens); err == nil {
				rd.uvList = append(rd.uvList, v)
			}
		case "f":
			err = rd.parseFace(lineTokens)
		case "o", "g":
			label := name
			if len(lineTokens) > 1 {
				label = strings.Join(lineTokens[1:], " ")
			}
			rd.begin(label)
		default:
			// mtllib, usemtl, s, l: materials come from the scene file
		}
		if err != nil {
			return nil, fmt.Errorf("objfile: [%s: %d] %w", name, lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("objfile: read %s: %w", name, err)
	}

	rd.flush()
	if len(rd.meshes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoGeometry, name)
	}
	return rd.meshes, nil
}

// begin starts a new sub-mesh; an empty current sub-mesh is renamed instead.
func (r *reader) begin(label string) {
	if r.current != nil && len(r.current.Data) == 0 {
		r.current.Name = label
		return
	}
	r.flush()
	r.current = &mesh.Mesh{Name: label}
}

func (r *reader) flush() {
	if r.current != nil && len(r.current.Data) > 0 {
		r.meshes = append(r.meshes, *r.current)
	}
	r.current = nil
}

type faceVertex struct {
	p      mgl32.Vec3
	n      mgl32.Vec3
	uv     mgl32.Vec2
	hasNrm bool
}

// parseFace triangulates a convex polygon as a fan around its first vertex.
func (r *reader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf("unsupported syntax for 'f'; expected at least 3 arguments; got %d", len(lineTokens)-1)
	}

	verts := make([]faceVertex, 0, len(lineTokens)-1)
	for arg, tok := range lineTokens[1:] {
		vTokens := strings.Split(tok, "/")
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		var fv faceVertex
		idx, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList))
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %w", arg, err)
		}
		fv.p = r.vertexList[idx]

		if len(vTokens) > 1 && vTokens[1] != "" {
			idx, err = selectFaceCoordIndex(vTokens[1], len(r.uvList))
			if err != nil {
				return fmt.Errorf("could not parse tex coord for face argument %d: %w", arg, err)
			}
			fv.uv = r.uvList[idx]
		}
		if len(vTokens) > 2 && vTokens[2] != "" {
			idx, err = selectFaceCoordIndex(vTokens[2], len(r.normalList))
			if err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %w", arg, err)
			}
			fv.n = r.normalList[idx].Normalize()
			fv.hasNrm = true
		}
		verts = append(verts, fv)
	}

	if r.current == nil {
		r.current = &mesh.Mesh{Name: r.file}
	}
	for i := 1; i+1 < len(verts); i++ {
		a, b, c := verts[0], verts[i], verts[i+1]
		flat := b.p.Sub(a.p).Cross(c.p.Sub(a.p))
		if l := flat.Len(); l > 0 {
			flat = flat.Mul(1 / l)
		}
		for _, v := range [3]faceVertex{a, b, c} {
			n := v.n
			if !v.hasNrm {
				n = flat
			}
			r.current.Append(v.p, n, v.uv)
		}
	}
	return nil
}

// selectFaceCoordIndex resolves a 1-based or negative (relative) OBJ index.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var offset int
	if index < 0 {
		offset = coordListLen + int(index)
	} else {
		offset = int(index - 1)
	}
	if offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index %d out of bounds", index)
	}
	return offset, nil
}

func parseVec3(lineTokens []string) (mgl32.Vec3, error) {
	if len(lineTokens) < 4 {
		return mgl32.Vec3{}, fmt.Errorf("unsupported syntax for '%s'; expected 3 arguments; got %d", lineTokens[0], len(lineTokens)-1)
	}

	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		coord, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(coord)
	}
	return v, nil
}

func parseVec2(lineTokens []string) (mgl32.Vec2, error) {
	if len(lineTokens) < 3 {
		return mgl32.Vec2{}, fmt.Errorf("unsupported syntax for '%s'; expected 2 arguments; got %d", lineTokens[0], len(lineTokens)-1)
	}

	var v mgl32.Vec2
	for i := 0; i < 2; i++ {
		coord, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(coord)
	}
	return v, nil
}
