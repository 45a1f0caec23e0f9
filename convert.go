package meshcenter

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Formats, named by their file extension.
const (
	STL     = "stl"
	OBJ     = "obj"
	GLTF    = "gltf"
	GLB     = "glb"
	THREEDS = "3ds"
	FBX     = "fbx"
	TBIN    = "bin"
	DAE     = "dae"
	MST     = "mst"
)

var (
	// ErrUnsupportedFormat is returned for a file extension no loader or
	// writer handles.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrEmptyMesh is returned when a file holds no readable vertices.
	ErrEmptyMesh = errors.New("mesh has no vertices")
)

// MeshLoader reads a mesh file. Transforms stored in the file are baked into
// the returned vertices, so the mesh comes back with an identity transform.
type MeshLoader interface {
	Load(path string) (*Mesh, error)
}

// LoaderFunc adapts a plain function to MeshLoader.
type LoaderFunc func(path string) (*Mesh, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (*Mesh, error) {
	return f(path)
}

// LoaderFactory returns the loader for a format constant such as STL or
// GLB, or nil when the format has no loader. MST is write-only.
func LoaderFactory(format string) MeshLoader {
	switch format {
	case STL:
		return &StlLoader{}
	case OBJ:
		return &ObjLoader{}
	case GLTF, GLB:
		return &GltfLoader{}
	case THREEDS:
		return &ThreeDsLoader{}
	case FBX:
		return &FbxLoader{}
	case TBIN:
		return &ThreejsBinLoader{}
	case DAE:
		return &DaeLoader{}
	}
	return nil
}

// FormatOf returns the lower-case extension of path without the dot.
func FormatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// LoadFile picks a loader by file extension.
func LoadFile(path string) (*Mesh, error) {
	format := FormatOf(path)
	ld := LoaderFactory(format)
	if ld == nil {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	return ld.Load(path)
}

func checkMesh(m *Mesh, path string) (*Mesh, error) {
	if len(m.Vertices) == 0 {
		return nil, errors.Wrap(ErrEmptyMesh, path)
	}
	return m, nil
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
