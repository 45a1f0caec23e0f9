package meshcenter

import (
	"math"
	"reflect"

	"github.com/beorn7/floats"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/pkg/errors"
)

// DefaultTolerance is the distance from the origin below which a box center
// counts as centered.
const DefaultTolerance = 1e-6

var ErrInvalidMesh = errors.New("invalid mesh")

// Centerable is anything with a world-space bounding box that can be moved.
// *Mesh implements it.
type Centerable interface {
	WorldBox() dvec3.Box
	Translate(offset dvec3.T)
}

// Center translates m so that the center of its world-space bounding box
// lies at the origin and returns the applied offset. Rotation and scale are
// left alone. Calling it again on the same mesh applies a zero offset.
func Center(m Centerable) (dvec3.T, error) {
	if isNil(m) {
		return dvec3.T{}, ErrInvalidMesh
	}
	box := m.WorldBox()
	c := BoxCenter(&box)
	offset := dvec3.T{-c[0], -c[1], -c[2]}
	m.Translate(offset)
	return offset, nil
}

// BoxCenter returns the midpoint of the box corners.
func BoxCenter(box *dvec3.Box) dvec3.T {
	return dvec3.T{
		(box.Min[0] + box.Max[0]) / 2,
		(box.Min[1] + box.Max[1]) / 2,
		(box.Min[2] + box.Max[2]) / 2,
	}
}

// IsCentered reports whether the world box center of m is within tol of
// the origin on every axis.
func IsCentered(m Centerable, tol float64) bool {
	if isNil(m) {
		return false
	}
	box := m.WorldBox()
	c := BoxCenter(&box)
	return nearlyEqual(c[0], 0, tol) && nearlyEqual(c[1], 0, tol) && nearlyEqual(c[2], 0, tol)
}

// nearlyEqual compares absolutely near zero and relatively elsewhere.
func nearlyEqual(a, b, tol float64) bool {
	if math.Abs(a-b) <= tol {
		return true
	}
	return floats.AlmostEqual(a, b, tol)
}

func isNil(m Centerable) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return v.IsNil()
	}
	return false
}
