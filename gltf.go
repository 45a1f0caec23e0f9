package meshcenter

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	dmat "github.com/flywave/go3d/float64/mat4"
	quat "github.com/flywave/go3d/float64/quaternion"
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// GltfLoader reads .gltf and .glb files. Every triangle primitive reachable
// from the default scene is merged into one mesh, with node transforms
// applied.
type GltfLoader struct {
	doc      *gltf.Document
	vertices []dvec3.T
	faces    [][3]uint32
}

// Load opens a .gltf or .glb file and merges its default scene into one mesh.
func (g *GltfLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open gltf %s", path)
	}
	m, err := g.LoadDocument(doc, baseName(path))
	if err != nil {
		return nil, errors.Wrapf(err, "read gltf %s", path)
	}
	return checkMesh(m, path)
}

// LoadDocument merges the triangle primitives of an already decoded
// document. Node transforms are baked into the returned vertices.
func (g *GltfLoader) LoadDocument(doc *gltf.Document, name string) (*Mesh, error) {
	g.doc = doc
	g.vertices = nil
	g.faces = nil

	visited := make(map[uint32]bool)
	for _, n := range rootNodes(doc) {
		if err := g.walk(n, dmat.Ident, visited); err != nil {
			return nil, err
		}
	}
	return NewMesh(name, g.vertices, g.faces), nil
}

func (g *GltfLoader) walk(idx uint32, parent dmat.T, visited map[uint32]bool) error {
	if int(idx) >= len(g.doc.Nodes) || visited[idx] {
		return nil
	}
	visited[idx] = true
	nd := g.doc.Nodes[idx]

	local := nodeMatrix(nd)
	world := dmat.AssignMul(&parent, &local)

	if nd.Mesh != nil {
		if err := g.appendMesh(*nd.Mesh, world); err != nil {
			return err
		}
	}
	for _, c := range nd.Children {
		if err := g.walk(c, *world, visited); err != nil {
			return err
		}
	}
	return nil
}

func (g *GltfLoader) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(g.doc.Accessors) {
		return nil, errors.Errorf("accessor index %d out of range", idx)
	}
	return g.doc.Accessors[idx], nil
}

func (g *GltfLoader) appendMesh(mhid uint32, mat *dmat.T) error {
	if int(mhid) >= len(g.doc.Meshes) {
		return errors.Errorf("mesh index %d out of range", mhid)
	}
	for _, ps := range g.doc.Meshes[mhid].Primitives {
		if ps.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := ps.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		acr, err := g.accessor(posIdx)
		if err != nil {
			return err
		}
		positions, err := modeler.ReadPosition(g.doc, acr, nil)
		if err != nil {
			return err
		}

		var indices []uint32
		if ps.Indices != nil {
			if acr, err = g.accessor(*ps.Indices); err != nil {
				return err
			}
			if indices, err = modeler.ReadIndices(g.doc, acr, nil); err != nil {
				return err
			}
		} else {
			indices = make([]uint32, len(positions))
			for k := range indices {
				indices[k] = uint32(k)
			}
		}

		base := uint32(len(g.vertices))
		for _, p := range positions {
			v := dvec3.T{float64(p[0]), float64(p[1]), float64(p[2])}
			g.vertices = append(g.vertices, mat.MulVec3(&v))
		}
		n := uint32(len(positions))
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			if a >= n || b >= n || c >= n {
				continue
			}
			g.faces = append(g.faces, [3]uint32{base + a, base + b, base + c})
		}
	}
	return nil
}

// rootNodes returns the nodes of the default scene, or every parentless
// node when the document has no scenes.
func rootNodes(doc *gltf.Document) []uint32 {
	if len(doc.Scenes) > 0 {
		s := uint32(0)
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			s = *doc.Scene
		}
		return doc.Scenes[s].Nodes
	}
	child := make(map[uint32]bool)
	for _, nd := range doc.Nodes {
		for _, c := range nd.Children {
			child[c] = true
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !child[uint32(i)] {
			roots = append(roots, uint32(i))
		}
	}
	return roots
}

// nodeMatrix prefers an explicit matrix and falls back to TRS.
func nodeMatrix(nd *gltf.Node) dmat.T {
	if mtx := nd.MatrixOrDefault(); mtx != gltf.DefaultMatrix {
		var arr [16]float64
		for i := range mtx {
			arr[i] = float64(mtx[i])
		}
		return dmat.FromArray(arr)
	}
	tr := nd.TranslationOrDefault()
	rt := nd.RotationOrDefault()
	sc := nd.ScaleOrDefault()
	t := dvec3.T{float64(tr[0]), float64(tr[1]), float64(tr[2])}
	r := quat.T{float64(rt[0]), float64(rt[1]), float64(rt[2]), float64(rt[3])}
	s := dvec3.T{float64(sc[0]), float64(sc[1]), float64(sc[2])}
	return *dmat.Compose(&t, &r, &s)
}

var _ MeshLoader = (*GltfLoader)(nil)
