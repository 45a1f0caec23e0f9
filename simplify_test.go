package meshcenter

import (
	"testing"

	dvec3 "github.com/flywave/go3d/float64/vec3"
)

func TestSimplifyFactorRange(t *testing.T) {
	m := cubeMesh(0, 1)
	for _, f := range []float64{0, -0.5, 1.5} {
		if _, err := Simplify(m, SimplifyOptions{Factor: f}); err == nil {
			t.Errorf("factor %v accepted", f)
		}
	}
	if _, err := Simplify(nil, SimplifyOptions{Factor: 0.5}); err != ErrInvalidMesh {
		t.Errorf("Simplify(nil) = %v, want ErrInvalidMesh", err)
	}
}

func TestSimplifyKeepAllBakes(t *testing.T) {
	m := cubeMesh(0, 2)
	m.Position = dvec3.T{-1, -1, -1}
	out, err := Simplify(m, SimplifyOptions{Factor: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Faces) != len(m.Faces) || out.VertexCount() != m.VertexCount() {
		t.Errorf("counts changed: %d/%d", out.VertexCount(), len(out.Faces))
	}
	if out.Position != (dvec3.T{}) {
		t.Errorf("position not baked: %v", out.Position)
	}
	if !IsCentered(out, DefaultTolerance) {
		t.Errorf("baked copy not centered")
	}
	if m.Position != (dvec3.T{-1, -1, -1}) {
		t.Errorf("original modified: %v", m.Position)
	}
}

func TestSimplifyReduces(t *testing.T) {
	m := cubeMesh(-1, 1)
	out, err := Simplify(m, SimplifyOptions{Factor: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Faces) > len(m.Faces) {
		t.Errorf("faces grew: %d > %d", len(out.Faces), len(m.Faces))
	}
	for _, f := range out.Faces {
		for _, i := range f {
			if int(i) >= out.VertexCount() {
				t.Fatalf("face index %d out of range", i)
			}
		}
	}
}
