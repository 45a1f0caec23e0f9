package meshcenter

import (
	"github.com/flywave/go-stl"
	"github.com/pkg/errors"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec3"
)

// StlLoader reads ASCII and binary STL files. STL has no shared vertices,
// so every facet contributes three vertices.
type StlLoader struct{}

// Load reads an ASCII or binary .stl file, naming the mesh after the solid
// when the file carries a name.
func (l *StlLoader) Load(path string) (*Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read stl %s", path)
	}
	name := solid.Name
	if name == "" {
		name = baseName(path)
	}
	return checkMesh(MeshFromSolid(solid, name), path)
}

// MeshFromSolid converts an STL solid to a Mesh.
func MeshFromSolid(solid *stl.Solid, name string) *Mesh {
	vertices := make([]dvec3.T, 0, len(solid.Triangles)*3)
	faces := make([][3]uint32, 0, len(solid.Triangles))
	for _, tri := range solid.Triangles {
		base := uint32(len(vertices))
		for _, v := range tri.Vertices {
			vertices = append(vertices, dvec3.T{float64(v[0]), float64(v[1]), float64(v[2])})
		}
		faces = append(faces, [3]uint32{base, base + 1, base + 2})
	}
	return NewMesh(name, vertices, faces)
}

// SolidFromMesh converts m to an STL solid with its world transform applied.
func SolidFromMesh(m *Mesh) *stl.Solid {
	mat := m.Matrix()
	solid := &stl.Solid{Name: m.Name}
	for _, f := range m.Faces {
		var tri stl.Triangle
		var w [3]dvec3.T
		for k := 0; k < 3; k++ {
			w[k] = mat.MulVec3(&m.Vertices[f[k]])
			tri.Vertices[k] = vec3.T{float32(w[k][0]), float32(w[k][1]), float32(w[k][2])}
		}
		n := faceNormal(&w[0], &w[1], &w[2])
		tri.Normal = vec3.T{float32(n[0]), float32(n[1]), float32(n[2])}
		solid.Triangles = append(solid.Triangles, tri)
	}
	return solid
}

// SaveSTL writes m, transform applied, to path.
func SaveSTL(m *Mesh, path string) error {
	if m == nil {
		return ErrInvalidMesh
	}
	if err := SolidFromMesh(m).WriteFile(path); err != nil {
		return errors.Wrapf(err, "write stl %s", path)
	}
	return nil
}

func faceNormal(a, b, c *dvec3.T) dvec3.T {
	e1 := dvec3.Sub(b, a)
	e2 := dvec3.Sub(c, a)
	n := dvec3.Cross(&e1, &e2)
	l := n.Length()
	if l == 0 {
		return dvec3.T{0, 0, 1}
	}
	return dvec3.T{n[0] / l, n[1] / l, n[2] / l}
}

var _ MeshLoader = (*StlLoader)(nil)
