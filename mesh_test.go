package meshcenter

import (
	"math"
	"testing"

	quat "github.com/flywave/go3d/float64/quaternion"
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

func TestMeshWorldVertex(t *testing.T) {
	m := NewMesh("tri", []dvec3.T{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, [][3]uint32{{0, 1, 2}})
	m.Rotation = quat.T{0, 0, math.Sqrt2 / 2, math.Sqrt2 / 2}
	m.Scale = dvec3.T{3, 3, 3}
	m.Position = dvec3.T{1, 2, 3}

	assertVec(t, "v0", m.WorldVertex(0), dvec3.T{1, 5, 3})
	assertVec(t, "v1", m.WorldVertex(1), dvec3.T{-2, 2, 3})
	assertVec(t, "v2", m.WorldVertex(2), dvec3.T{1, 2, 6})
}

func TestMeshLocalBox(t *testing.T) {
	m := cubeMesh(-2, 6)
	m.Position = dvec3.T{100, 100, 100}
	box := m.LocalBox()
	assertVec(t, "min", box.Min, dvec3.T{-2, -2, -2})
	assertVec(t, "max", box.Max, dvec3.T{6, 6, 6})

	world := m.WorldBox()
	assertVec(t, "world min", world.Min, dvec3.T{98, 98, 98})
}

func TestMeshBake(t *testing.T) {
	m := cubeMesh(0, 1)
	m.Position = dvec3.T{5, 0, 0}
	m.Scale = dvec3.T{2, 1, 1}
	before := m.WorldBox()

	c := m.Clone()
	c.Bake()
	if c.Position != (dvec3.T{}) || c.Rotation != quat.Ident || c.Scale != (dvec3.T{1, 1, 1}) {
		t.Fatalf("transform not reset: %v %v %v", c.Position, c.Rotation, c.Scale)
	}
	after := c.WorldBox()
	assertVec(t, "min", after.Min, before.Min)
	assertVec(t, "max", after.Max, before.Max)

	if m.Vertices[7] != (dvec3.T{1, 1, 1}) {
		t.Errorf("Bake on clone modified original: %v", m.Vertices[7])
	}
}
