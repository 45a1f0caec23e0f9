package meshcenter

import (
	"os"

	gobj "github.com/flywave/go-obj"
	"github.com/pkg/errors"

	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// ObjLoader reads Wavefront OBJ geometry. Materials are ignored; polygons
// are fan triangulated.
type ObjLoader struct{}

// Load reads the vertices and faces of an .obj file. Faces with
// out-of-range indices are dropped.
func (l *ObjLoader) Load(path string) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open obj %s", path)
	}
	defer file.Close()

	reader := &gobj.ObjReader{}
	if err := reader.Read(file); err != nil {
		return nil, errors.Wrapf(err, "read obj %s", path)
	}
	return checkMesh(meshFromObj(reader, baseName(path)), path)
}

func meshFromObj(reader *gobj.ObjReader, name string) *Mesh {
	vertices := make([]dvec3.T, len(reader.V))
	for i, v := range reader.V {
		vertices[i] = dvec3.T{float64(v[0]), float64(v[1]), float64(v[2])}
	}

	var faces [][3]uint32
	for _, face := range reader.F {
		for i := 1; i < len(face.Corners)-1; i++ {
			a := face.Corners[0].VertexIndex
			b := face.Corners[i].VertexIndex
			c := face.Corners[i+1].VertexIndex
			if !validIndex(a, len(vertices)) || !validIndex(b, len(vertices)) || !validIndex(c, len(vertices)) {
				continue
			}
			faces = append(faces, [3]uint32{uint32(a), uint32(b), uint32(c)})
		}
	}
	return NewMesh(name, vertices, faces)
}

func validIndex(i, n int) bool {
	return i >= 0 && i < n
}

var _ MeshLoader = (*ObjLoader)(nil)
