package meshcenter

import (
	"path/filepath"
	"testing"

	vec3d "github.com/flywave/go3d/float64/vec3"
)

func TestTriangulateQuadShorterDiagonal(t *testing.T) {
	// 0-2 is the long diagonal of this kite, so the split uses 1-3.
	pts := []vec3d.T{{0, 0, 0}, {1, 1, 0}, {4, 0, 0}, {1, -1, 0}}
	tris := triangulate([]int{0, 1, 2, 3}, pts)
	want := [][3]int{{0, 1, 3}, {1, 2, 3}}
	if len(tris) != 2 || tris[0] != want[0] || tris[1] != want[1] {
		t.Errorf("triangulate = %v, want %v", tris, want)
	}
}

func TestTriangulateFan(t *testing.T) {
	pts := make([]vec3d.T, 5)
	tris := triangulate([]int{0, 1, 2, 3, 4}, pts)
	if len(tris) != 3 || tris[2] != [3]int{0, 3, 4} {
		t.Errorf("triangulate = %v", tris)
	}
	if tris := triangulate([]int{0, 1}, pts); tris != nil {
		t.Errorf("degenerate face gave %v", tris)
	}
}

func TestFbxLoadMissing(t *testing.T) {
	if _, err := (&FbxLoader{}).Load(filepath.Join(t.TempDir(), "none.fbx")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
