package meshcenter

import (
	"os"

	"github.com/pkg/errors"

	mat4d "github.com/flywave/go3d/float64/mat4"
	vec3d "github.com/flywave/go3d/float64/vec3"

	fbx "github.com/flywave/ofbx"
)

// FbxLoader reads FBX scenes. Each mesh is placed by its global matrix.
type FbxLoader struct{}

// Load reads every mesh of an .fbx file into one mesh in world space.
func (l *FbxLoader) Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open fbx %s", path)
	}
	defer f.Close()

	scene, err := fbx.Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read fbx %s", path)
	}

	var vertices []vec3d.T
	var faces [][3]uint32
	for _, mh := range scene.Meshes {
		g := mh.Geometry
		mtx := fbx.GetGlobalMatrix(mh)
		matrix := mat4d.FromArray(mtx.ToArray())

		base := uint32(len(vertices))
		pts := make([]vec3d.T, len(g.Vertices))
		for i, v := range g.Vertices {
			pts[i] = vec3d.T{float64(v[0]), float64(v[1]), float64(v[2])}
			vertices = append(vertices, matrix.MulVec3(&pts[i]))
		}

		for _, face := range g.Faces {
			for _, tri := range triangulate(face, pts) {
				if !validIndex(tri[0], len(pts)) || !validIndex(tri[1], len(pts)) || !validIndex(tri[2], len(pts)) {
					continue
				}
				faces = append(faces, [3]uint32{base + uint32(tri[0]), base + uint32(tri[1]), base + uint32(tri[2])})
			}
		}
	}
	return checkMesh(NewMesh(baseName(path), vertices, faces), path)
}

// triangulate splits quads along the shorter diagonal and fans anything
// larger.
func triangulate(face []int, pts []vec3d.T) [][3]int {
	switch {
	case len(face) < 3:
		return nil
	case len(face) == 3:
		return [][3]int{{face[0], face[1], face[2]}}
	case len(face) == 4 && allValid(face, len(pts)):
		d1 := vec3d.Distance(&pts[face[0]], &pts[face[2]])
		d2 := vec3d.Distance(&pts[face[1]], &pts[face[3]])
		if d1 <= d2 {
			return [][3]int{{face[0], face[1], face[2]}, {face[0], face[2], face[3]}}
		}
		return [][3]int{{face[0], face[1], face[3]}, {face[1], face[2], face[3]}}
	}
	tris := make([][3]int, 0, len(face)-2)
	for i := 1; i < len(face)-1; i++ {
		tris = append(tris, [3]int{face[0], face[i], face[i+1]})
	}
	return tris
}

func allValid(idx []int, n int) bool {
	for _, i := range idx {
		if !validIndex(i, n) {
			return false
		}
	}
	return true
}

var _ MeshLoader = (*FbxLoader)(nil)
