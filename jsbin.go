package meshcenter

import (
	jsbin "github.com/flywave/go-3jsbin"
	"github.com/pkg/errors"
)

// ThreejsBinLoader reads three.js binary model files.
type ThreejsBinLoader struct{}

// Load converts a three.js binary model through its MST form.
func (l *ThreejsBinLoader) Load(path string) (*Mesh, error) {
	mh, err := jsbin.ThreejsBin2Mst(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read three.js bin %s", path)
	}
	return checkMesh(FromMst(mh, baseName(path)), path)
}

var _ MeshLoader = (*ThreejsBinLoader)(nil)
