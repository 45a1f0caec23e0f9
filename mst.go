package meshcenter

import (
	"os"

	mst "github.com/flywave/go-mst"
	"github.com/pkg/errors"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec3"
)

// FromMst flattens an MST mesh, including every placed instance, into a
// single Mesh.
func FromMst(mh *mst.Mesh, name string) *Mesh {
	m := NewMesh(name, nil, nil)
	for _, nd := range mh.Nodes {
		appendMstNode(m, nd, nil)
	}
	for _, inst := range mh.InstanceNode {
		if inst == nil || inst.Mesh == nil {
			continue
		}
		for _, trans := range inst.Transfors {
			for _, nd := range inst.Mesh.Nodes {
				appendMstNode(m, nd, trans)
			}
		}
	}
	return m
}

func appendMstNode(m *Mesh, nd *mst.MeshNode, mat *dmat.T) {
	if nd == nil {
		return
	}
	base := uint32(len(m.Vertices))
	n := uint32(len(nd.Vertices))
	for _, v := range nd.Vertices {
		p := dvec3.T{float64(v[0]), float64(v[1]), float64(v[2])}
		if mat != nil {
			p = mat.MulVec3(&p)
		}
		m.Vertices = append(m.Vertices, p)
	}
	for _, fg := range nd.FaceGroup {
		for _, f := range fg.Faces {
			if f.Vertex[0] >= n || f.Vertex[1] >= n || f.Vertex[2] >= n {
				continue
			}
			m.Faces = append(m.Faces, [3]uint32{base + f.Vertex[0], base + f.Vertex[1], base + f.Vertex[2]})
		}
	}
}

// ToMst converts m, transform applied, to a single-node MST mesh with one
// grey material.
func ToMst(m *Mesh) *mst.Mesh {
	out := mst.NewMesh()
	out.Materials = append(out.Materials, &mst.BaseMaterial{
		Color: [3]byte{200, 200, 200},
	})

	mat := m.Matrix()
	nd := &mst.MeshNode{}
	for i := range m.Vertices {
		p := mat.MulVec3(&m.Vertices[i])
		nd.Vertices = append(nd.Vertices, vec3.T{float32(p[0]), float32(p[1]), float32(p[2])})
	}
	tg := &mst.MeshTriangle{Batchid: 0}
	for _, f := range m.Faces {
		tg.Faces = append(tg.Faces, &mst.Face{Vertex: f})
	}
	nd.FaceGroup = append(nd.FaceGroup, tg)
	nd.ReComputeNormal()
	out.Nodes = append(out.Nodes, nd)
	return out
}

// SaveMST writes m, transform applied, as an MST file.
func SaveMST(m *Mesh, path string) error {
	if m == nil {
		return ErrInvalidMesh
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create mst %s", path)
	}
	mst.MeshMarshal(f, ToMst(m))
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "write mst %s", path)
	}
	return nil
}
