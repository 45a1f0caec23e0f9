package meshcenter

import (
	dmat "github.com/flywave/go3d/float64/mat4"
	quat "github.com/flywave/go3d/float64/quaternion"
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// Mesh is an indexed triangle surface with a local-to-world transform.
// Vertices are stored in local space; Position, Rotation and Scale place
// them in the world.
type Mesh struct {
	Name     string
	Vertices []dvec3.T
	Faces    [][3]uint32
	Position dvec3.T
	Rotation quat.T
	Scale    dvec3.T
}

// NewMesh returns a mesh with an identity transform.
func NewMesh(name string, vertices []dvec3.T, faces [][3]uint32) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Faces:    faces,
		Rotation: quat.Ident,
		Scale:    dvec3.T{1, 1, 1},
	}
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Matrix returns the local-to-world matrix T*R*S.
func (m *Mesh) Matrix() dmat.T {
	return *dmat.Compose(&m.Position, &m.Rotation, &m.Scale)
}

// WorldVertex returns vertex i under the current transform.
func (m *Mesh) WorldVertex(i int) dvec3.T {
	mat := m.Matrix()
	return mat.MulVec3(&m.Vertices[i])
}

// LocalBox returns the bounding box of the untransformed vertices.
func (m *Mesh) LocalBox() dvec3.Box {
	if len(m.Vertices) == 0 {
		return dvec3.Box{}
	}
	box := dvec3.MinBox
	for i := range m.Vertices {
		box.Extend(&m.Vertices[i])
	}
	return box
}

// WorldBox returns the axis-aligned bounding box of the vertices in world
// space. A mesh without vertices yields the degenerate box at Position.
func (m *Mesh) WorldBox() dvec3.Box {
	if len(m.Vertices) == 0 {
		return dvec3.Box{Min: m.Position, Max: m.Position}
	}
	mat := m.Matrix()
	box := dvec3.MinBox
	for i := range m.Vertices {
		p := mat.MulVec3(&m.Vertices[i])
		box.Extend(&p)
	}
	return box
}

// Translate moves the mesh by offset in world space.
func (m *Mesh) Translate(offset dvec3.T) {
	m.Position[0] += offset[0]
	m.Position[1] += offset[1]
	m.Position[2] += offset[2]
}

// Clone returns a copy of m that shares no vertex or face storage with it.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Vertices = append([]dvec3.T(nil), m.Vertices...)
	c.Faces = append([][3]uint32(nil), m.Faces...)
	return &c
}

// Bake moves the transform into the vertices and resets it to identity.
func (m *Mesh) Bake() {
	mat := m.Matrix()
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(&m.Vertices[i])
	}
	m.Position = dvec3.T{}
	m.Rotation = quat.Ident
	m.Scale = dvec3.T{1, 1, 1}
}
