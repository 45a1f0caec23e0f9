package meshcenter

import (
	"github.com/fogleman/simplify"
	"github.com/pkg/errors"

	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// SimplifyOptions controls mesh decimation.
type SimplifyOptions struct {
	// Factor is the fraction of faces to keep, in (0, 1].
	Factor float64
}

// Simplify returns a decimated copy of m with its transform baked in.
// Shared vertices are welded on output.
func Simplify(m *Mesh, opts SimplifyOptions) (*Mesh, error) {
	if m == nil {
		return nil, ErrInvalidMesh
	}
	if opts.Factor <= 0 || opts.Factor > 1 {
		return nil, errors.Errorf("simplify factor %v out of range (0, 1]", opts.Factor)
	}
	out := m.Clone()
	out.Bake()
	if opts.Factor == 1 {
		return out, nil
	}

	tris := make([]*simplify.Triangle, 0, len(out.Faces))
	for _, f := range out.Faces {
		tris = append(tris, simplify.NewTriangle(
			toSimplifyVector(out.Vertices[f[0]]),
			toSimplifyVector(out.Vertices[f[1]]),
			toSimplifyVector(out.Vertices[f[2]]),
		))
	}
	reduced := simplify.NewMesh(tris).Simplify(opts.Factor)

	index := make(map[dvec3.T]uint32)
	out.Vertices = out.Vertices[:0:0]
	out.Faces = make([][3]uint32, 0, len(reduced.Triangles))
	weld := func(v simplify.Vector) uint32 {
		p := dvec3.T{v.X, v.Y, v.Z}
		if i, ok := index[p]; ok {
			return i
		}
		i := uint32(len(out.Vertices))
		index[p] = i
		out.Vertices = append(out.Vertices, p)
		return i
	}
	for _, t := range reduced.Triangles {
		out.Faces = append(out.Faces, [3]uint32{weld(t.V1), weld(t.V2), weld(t.V3)})
	}
	return out, nil
}

func toSimplifyVector(v dvec3.T) simplify.Vector {
	return simplify.Vector{X: v[0], Y: v[1], Z: v[2]}
}
