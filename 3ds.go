package meshcenter

import (
	"os"

	tds "github.com/flywave/go-3ds"
	"github.com/pkg/errors"

	dmat "github.com/flywave/go3d/float64/mat4"
	quat "github.com/flywave/go3d/float64/quaternion"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	dvec4 "github.com/flywave/go3d/float64/vec4"
)

// ThreeDsLoader reads Autodesk 3DS files. Each mesh is placed by its own
// matrix and then by every mesh instance node that names it, so a mesh
// instanced three times contributes three copies.
type ThreeDsLoader struct{}

// Load reads every mesh of a .3ds file into one mesh in world space.
func (l *ThreeDsLoader) Load(path string) (*Mesh, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "open 3ds %s", path)
	}
	f := tds.OpenFile(path)

	ndMap := make(map[string][]*tds.MeshInstanceNode)
	for _, nd := range f.GetMeshInstanceNode() {
		ndMap[nd.InstanceName] = append(ndMap[nd.InstanceName], nd)
	}

	m := NewMesh(baseName(path), nil, nil)
	meshes := f.GetMeshs()
	for i := range meshes {
		mh := &meshes[i]
		mat := threeDsMeshMatrix(mh)
		nds, ok := ndMap[mh.Name]
		if !ok {
			appendThreeDsMesh(m, mh, &mat)
			continue
		}
		for _, nd := range nds {
			inst := threeDsInstanceMatrix(nd)
			appendThreeDsMesh(m, mh, dmat.AssignMul(&inst, &mat))
		}
	}
	return checkMesh(m, path)
}

func threeDsMeshMatrix(mh *tds.Mesh) dmat.T {
	mat := dmat.Ident
	for i, r := range mh.Matrix {
		mat[i] = dvec4.T{float64(r[0]), float64(r[1]), float64(r[2]), float64(r[3])}
	}
	return mat
}

// threeDsInstanceMatrix builds the placement of an instance node from its
// position, rotation and scale keys. A zero scale is read as unit scale.
func threeDsInstanceMatrix(nd *tds.MeshInstanceNode) dmat.T {
	q := quat.FromVec4(&dvec4.T{float64(nd.Rot[0]), float64(nd.Rot[1]), float64(nd.Rot[2]), float64(nd.Rot[3])})
	if q == (quat.T{}) {
		q = quat.Ident
	}
	t := dvec3.T{float64(nd.Pos[0]), float64(nd.Pos[1]), float64(nd.Pos[2])}
	s := dvec3.T{float64(nd.Scl[0]), float64(nd.Scl[1]), float64(nd.Scl[2])}
	if s == (dvec3.T{}) {
		s = dvec3.T{1, 1, 1}
	}
	return *dmat.Compose(&t, &q, &s)
}

func appendThreeDsMesh(m *Mesh, mh *tds.Mesh, mat *dmat.T) {
	base := uint32(len(m.Vertices))
	n := len(mh.Vertices)
	for _, v := range mh.Vertices {
		vt := dvec3.T{float64(v[0]), float64(v[1]), float64(v[2])}
		m.Vertices = append(m.Vertices, mat.MulVec3(&vt))
	}
	for _, fc := range mh.Faces {
		a, b, c := int(fc.Index[0]), int(fc.Index[1]), int(fc.Index[2])
		if !validIndex(a, n) || !validIndex(b, n) || !validIndex(c, n) {
			continue
		}
		m.Faces = append(m.Faces, [3]uint32{base + uint32(a), base + uint32(b), base + uint32(c)})
	}
}

var _ MeshLoader = (*ThreeDsLoader)(nil)
