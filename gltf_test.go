package meshcenter

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// unitCubeDocument holds one unit cube mesh with no nodes yet.
func unitCubeDocument() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	})
	idx := modeler.WriteIndices(doc, []uint32{
		0, 2, 1, 0, 3, 2,
		4, 5, 6, 4, 6, 7,
		0, 1, 5, 0, 5, 4,
		3, 7, 6, 3, 6, 2,
		0, 4, 7, 0, 7, 3,
		1, 2, 6, 1, 6, 5,
	})
	doc.Meshes = []*gltf.Mesh{{
		Name: "cube",
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveTriangles,
			Indices:    gltf.Index(idx),
			Attributes: gltf.Attribute{gltf.POSITION: pos},
		}},
	}}
	return doc
}

func assertVecWithin(t *testing.T, what string, got, want dvec3.T, tol float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("%s = %v, want %v", what, got, want)
			return
		}
	}
}

func TestGltfLoadDocumentNodeHierarchy(t *testing.T) {
	doc := unitCubeDocument()
	doc.Nodes = []*gltf.Node{
		{Name: "parent", Translation: [3]float32{10, 0, 0}, Children: []uint32{1}},
		{Name: "child", Mesh: gltf.Index(0), Translation: [3]float32{0, 5, 0}, Scale: [3]float32{2, 2, 2}},
	}
	doc.Scenes[0].Nodes = []uint32{0}

	m, err := (&GltfLoader{}).LoadDocument(doc, "cube")
	if err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != 8 || len(m.Faces) != 12 {
		t.Fatalf("got %d vertices, %d faces; want 8, 12", m.VertexCount(), len(m.Faces))
	}
	box := m.WorldBox()
	assertVec(t, "min", box.Min, dvec3.T{10, 5, 0})
	assertVec(t, "max", box.Max, dvec3.T{12, 7, 2})
	assertVec(t, "position", m.Position, dvec3.T{})

	if _, err := Center(m); err != nil {
		t.Fatal(err)
	}
	assertVec(t, "position", m.Position, dvec3.T{-11, -6, -1})
}

func TestGltfLoadDocumentMatrixAndRotation(t *testing.T) {
	doc := unitCubeDocument()
	doc.Nodes = []*gltf.Node{
		{Matrix: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 1, 2, 3, 1}, Children: []uint32{1}},
		// Quarter turn about Z: (x, y, z) -> (-y, x, z).
		{Mesh: gltf.Index(0), Rotation: [4]float32{0, 0, 0.70710678, 0.70710678}},
	}
	doc.Scenes[0].Nodes = []uint32{0}

	m, err := (&GltfLoader{}).LoadDocument(doc, "cube")
	if err != nil {
		t.Fatal(err)
	}
	// float32 rotation components are only accurate to about 1e-7.
	box := m.WorldBox()
	assertVecWithin(t, "min", box.Min, dvec3.T{0, 2, 3}, 1e-6)
	assertVecWithin(t, "max", box.Max, dvec3.T{1, 3, 4}, 1e-6)
}

func TestGltfLoadDocumentWithoutScene(t *testing.T) {
	doc := unitCubeDocument()
	doc.Scene = nil
	doc.Scenes = nil
	doc.Meshes[0].Primitives = append(doc.Meshes[0].Primitives, &gltf.Primitive{
		Mode:       gltf.PrimitiveLines,
		Attributes: gltf.Attribute{gltf.POSITION: 0},
	})
	doc.Nodes = []*gltf.Node{
		{Mesh: gltf.Index(0), Translation: [3]float32{-4, 0, 0}},
		{Mesh: gltf.Index(0), Translation: [3]float32{4, 0, 0}},
	}

	m, err := (&GltfLoader{}).LoadDocument(doc, "pair")
	if err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != 16 || len(m.Faces) != 24 {
		t.Fatalf("got %d vertices, %d faces; want 16, 24", m.VertexCount(), len(m.Faces))
	}
	box := m.WorldBox()
	assertVec(t, "min", box.Min, dvec3.T{-4, 0, 0})
	assertVec(t, "max", box.Max, dvec3.T{5, 1, 1})
}

func TestGltfLoadDocumentBadMeshIndex(t *testing.T) {
	doc := unitCubeDocument()
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(7)}}
	doc.Scenes[0].Nodes = []uint32{0}
	if _, err := (&GltfLoader{}).LoadDocument(doc, "bad"); err == nil {
		t.Fatal("expected an error for a missing mesh")
	}
}

func TestGltfLoadGlb(t *testing.T) {
	doc := unitCubeDocument()
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0), Translation: [3]float32{20, 20, 20}}}
	doc.Scenes[0].Nodes = []uint32{0}
	path := filepath.Join(t.TempDir(), "cube.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}

	m, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "cube" {
		t.Errorf("name = %q, want cube", m.Name)
	}
	box := m.WorldBox()
	assertVec(t, "min", box.Min, dvec3.T{20, 20, 20})
}

func TestGltfLoadEmpty(t *testing.T) {
	doc := gltf.NewDocument()
	path := filepath.Join(t.TempDir(), "empty.gltf")
	if err := gltf.Save(doc, path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); errors.Cause(err) != ErrEmptyMesh {
		t.Errorf("LoadFile = %v, want ErrEmptyMesh", err)
	}
}
