package meshcenter

import (
	"math"
	"os"
	"strconv"
	"strings"

	dae "github.com/flywave/go-collada"
	"github.com/pkg/errors"

	dmat "github.com/flywave/go3d/float64/mat4"
	quat "github.com/flywave/go3d/float64/quaternion"
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// DaeLoader reads COLLADA documents. Geometry instanced from the visual
// scene is placed by the accumulated node transforms, following
// <instance_node> references. When the visual scene places nothing, the
// geometry library is read in geometry space. <triangles> and <polylist>
// primitives are read; splines and other primitives are skipped.
type DaeLoader struct {
	geoMap  map[string]*dae.Geometry
	nodeMap map[string]*dae.Node
}

// Load reads a .dae file into one mesh in world space.
func (l *DaeLoader) Load(path string) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dae %s", path)
	}
	defer file.Close()

	collada, err := dae.LoadDocumentFromReader(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read dae %s", path)
	}
	return checkMesh(l.LoadDocument(collada, baseName(path)), path)
}

// LoadDocument merges the geometry of an already decoded document.
func (l *DaeLoader) LoadDocument(collada *dae.Collada, name string) *Mesh {
	l.geoMap = make(map[string]*dae.Geometry)
	for _, lib := range collada.LibraryGeometries {
		for _, geo := range lib.Geometry {
			l.geoMap[string(geo.Id)] = geo
		}
	}
	l.nodeMap = make(map[string]*dae.Node)
	scenes := l.visualScenes(collada)
	for _, vs := range scenes {
		l.indexNodes(vs.Node)
	}

	m := NewMesh(name, nil, nil)
	for _, vs := range scenes {
		for _, nd := range vs.Node {
			l.walk(m, nd, dmat.Ident, make(map[*dae.Node]bool))
		}
	}
	if len(m.Vertices) == 0 {
		for _, lib := range collada.LibraryGeometries {
			for _, geo := range lib.Geometry {
				appendDaeMesh(m, geo.Mesh, &dmat.Ident)
			}
		}
	}
	return m
}

// visualScenes returns the scene named by <scene><instance_visual_scene>,
// or every visual scene when the document does not name one.
func (l *DaeLoader) visualScenes(collada *dae.Collada) []*dae.VisualScene {
	var all []*dae.VisualScene
	for _, lib := range collada.LibraryVisualScenes {
		all = append(all, lib.VisualScene...)
	}
	if collada.Scene == nil || collada.Scene.InstanceVisualScene == nil {
		return all
	}
	id := collada.Scene.InstanceVisualScene.Url.GetId()
	for _, vs := range all {
		if string(vs.Id) == id {
			return []*dae.VisualScene{vs}
		}
	}
	return all
}

func (l *DaeLoader) indexNodes(nds []*dae.Node) {
	for _, nd := range nds {
		if nd.Id != "" {
			l.nodeMap[string(nd.Id)] = nd
		}
		l.indexNodes(nd.Node)
	}
}

// walk visits nd and its children. path holds the nodes on the current
// branch so a self-referencing <instance_node> cannot recurse forever.
func (l *DaeLoader) walk(m *Mesh, nd *dae.Node, parent dmat.T, path map[*dae.Node]bool) {
	if path[nd] {
		return
	}
	path[nd] = true
	defer delete(path, nd)

	local := daeNodeMatrix(nd)
	world := dmat.AssignMul(&parent, &local)

	for _, g := range nd.InstanceGeometry {
		if geo, ok := l.geoMap[g.Url.GetId()]; ok {
			appendDaeMesh(m, geo.Mesh, world)
		}
	}
	for _, in := range nd.InstanceNode {
		if ref, ok := l.nodeMap[in.Url.GetId()]; ok {
			l.walk(m, ref, *world, path)
		}
	}
	for _, c := range nd.Node {
		l.walk(m, c, *world, path)
	}
}

// daeNodeMatrix combines the transform elements of a node. The decoder
// keeps each element kind in its own list, so they are applied in the
// order matrix, translate, rotate, scale used by common exporters.
func daeNodeMatrix(nd *dae.Node) dmat.T {
	mat := dmat.Ident
	mul := func(b *dmat.T) {
		mat = *dmat.AssignMul(&mat, b)
	}
	for _, mt := range nd.Matrix {
		var ay [16]float64
		parseFloats(mt.ToSlice(), ay[:])
		// COLLADA matrices are written row-major.
		local := dmat.FromArray(ay)
		local.Transpose()
		mul(&local)
	}
	for _, t := range nd.Translate {
		var v dvec3.T
		parseFloats(t.ToSlice(), v[:])
		local := dmat.Ident
		local.Translate(&v)
		mul(&local)
	}
	for _, r := range nd.Rotate {
		var v [4]float64
		parseFloats(r.ToSlice(), v[:])
		axis := dvec3.T{v[0], v[1], v[2]}
		if axis.LengthSqr() == 0 {
			continue
		}
		axis.Normalize()
		q := quat.FromAxisAngle(&axis, v[3]*math.Pi/180)
		local := dmat.Ident
		local.AssignQuaternion(&q)
		mul(&local)
	}
	for _, s := range nd.Scale {
		v := dvec3.T{1, 1, 1}
		parseFloats(s.ToSlice(), v[:])
		local := dmat.Ident
		local.ScaleVec3(&v)
		mul(&local)
	}
	return mat
}

func appendDaeMesh(m *Mesh, mh *dae.Mesh, mat *dmat.T) {
	if mh == nil {
		return
	}
	srcMap := make(map[string]*dae.Source)
	for _, src := range mh.Source {
		srcMap[string(src.Id)] = src
	}

	base := uint32(len(m.Vertices))
	for _, input := range mh.Vertices.Input {
		if input.Semantic != "POSITION" {
			continue
		}
		src, ok := srcMap[input.Source.GetId()]
		if !ok || src.FloatArray == nil {
			continue
		}
		ay := src.FloatArray.ToSlice()
		stride := src.TechniqueCommon.Accessor.Stride
		if stride < 3 {
			stride = 3
		}
		for k := 0; k*stride+2 < len(ay); k++ {
			v := dvec3.T{
				parseFloat(ay[k*stride]),
				parseFloat(ay[k*stride+1]),
				parseFloat(ay[k*stride+2]),
			}
			m.Vertices = append(m.Vertices, mat.MulVec3(&v))
		}
		break
	}
	n := uint32(len(m.Vertices)) - base
	if n == 0 {
		return
	}

	for _, t := range mh.Triangles {
		var trg dae.Trig = t
		inputs := trg.GetSharedInput()
		if len(inputs) == 0 || trg.GetP() == nil {
			continue
		}
		stride := inputStride(inputs)
		offset := vertexOffset(inputs)
		idxs := trg.GetP().ToSlice()
		for k := 0; k < trg.GetCount(); k++ {
			var f [3]uint32
			valid := true
			for c := 0; c < 3 && valid; c++ {
				f[c], valid = vertexIndex(idxs, (k*3+c)*stride+offset, base, n)
			}
			if valid {
				m.Faces = append(m.Faces, f)
			}
		}
	}

	for _, p := range mh.Polylist {
		if len(p.Input) == 0 || p.P == nil || p.VCount == nil {
			continue
		}
		stride := inputStride(p.Input)
		offset := vertexOffset(p.Input)
		idxs := p.P.ToSlice()
		j := 0
		for _, cs := range p.VCount.ToSlice() {
			count, err := strconv.Atoi(strings.TrimSpace(cs))
			if err != nil || count < 0 {
				break
			}
			poly := make([]uint32, 0, count)
			valid := true
			for k := 0; k < count; k++ {
				var v uint32
				if v, valid = vertexIndex(idxs, (j+k)*stride+offset, base, n); !valid {
					break
				}
				poly = append(poly, v)
			}
			j += count
			if !valid {
				continue
			}
			for k := 1; k+1 < len(poly); k++ {
				m.Faces = append(m.Faces, [3]uint32{poly[0], poly[k], poly[k+1]})
			}
		}
	}
}

// inputStride is the number of <p> entries per vertex: one more than the
// largest input offset.
func inputStride(inputs []*dae.InputShared) int {
	stride := 0
	for _, in := range inputs {
		if int(in.Offset)+1 > stride {
			stride = int(in.Offset) + 1
		}
	}
	return stride
}

func vertexOffset(inputs []*dae.InputShared) int {
	for _, in := range inputs {
		if in.Semantic == "VERTEX" {
			return int(in.Offset)
		}
	}
	return 0
}

func vertexIndex(idxs []string, at int, base, n uint32) (uint32, bool) {
	if at >= len(idxs) {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimSpace(idxs[at]), 10, 32)
	if err != nil || uint32(v) >= n {
		return 0, false
	}
	return base + uint32(v), true
}

func parseFloats(strs []string, dst []float64) {
	for i := 0; i < len(strs) && i < len(dst); i++ {
		dst[i] = parseFloat(strs[i])
	}
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

var _ MeshLoader = (*DaeLoader)(nil)
