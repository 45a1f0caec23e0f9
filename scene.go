package meshcenter

import (
	"context"
	"sync"

	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// SceneOptions configures a Scene.
type SceneOptions struct {
	AutoCenter bool       // center meshes before they are added
	Loader     MeshLoader // defaults to LoadFile
	Logger     Logger
}

// Scene holds the meshes on display. It replaces page-global scene state
// with an explicit value owned by whoever runs the render loop.
type Scene struct {
	mu      sync.RWMutex
	meshes  []*Mesh
	options *SceneOptions
}

// LoadResult is delivered once per LoadAsync call.
type LoadResult struct {
	Mesh *Mesh
	Err  error
}

// NewScene returns an empty scene that centers every mesh it is given.
func NewScene() *Scene {
	return NewSceneWithOptions(&SceneOptions{AutoCenter: true})
}

// NewSceneWithOptions returns an empty scene configured by options. A nil
// options value behaves like NewScene.
func NewSceneWithOptions(options *SceneOptions) *Scene {
	if options == nil {
		options = &SceneOptions{AutoCenter: true}
	}
	return &Scene{options: options}
}

// Add puts m into the scene, centering it first when AutoCenter is set.
func (s *Scene) Add(m *Mesh) error {
	if m == nil {
		return ErrInvalidMesh
	}
	if s.options.AutoCenter {
		offset, err := Center(m)
		if err != nil {
			return err
		}
		s.options.Logger.logf(LogDebug, "centered %s by %v", m.Name, offset)
	}
	s.mu.Lock()
	s.meshes = append(s.meshes, m)
	s.mu.Unlock()
	return nil
}

// Meshes returns a snapshot of the scene contents.
func (s *Scene) Meshes() []*Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Mesh(nil), s.meshes...)
}

// Bounds joins the world boxes of all meshes. ok is false for an empty scene.
func (s *Scene) Bounds() (box dvec3.Box, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.meshes) == 0 {
		return dvec3.Box{}, false
	}
	box = dvec3.MinBox
	for _, m := range s.meshes {
		bx := m.WorldBox()
		box.Join(&bx)
	}
	return box, true
}

// Recenter centers every mesh in the scene again. The logger is called
// after the scene lock is released, so it may read the scene.
func (s *Scene) Recenter() {
	s.mu.Lock()
	meshes := append([]*Mesh(nil), s.meshes...)
	offsets := make([]dvec3.T, len(meshes))
	for i, m := range meshes {
		offsets[i], _ = Center(m)
	}
	s.mu.Unlock()

	for i, m := range meshes {
		s.options.Logger.logf(LogDebug, "recentered %s by %v", m.Name, offsets[i])
	}
}

// LoadAsync loads path in the background. On success the mesh is added
// to the scene (and centered, per options) before the result is sent.
// The channel receives exactly one result and is then closed.
func (s *Scene) LoadAsync(ctx context.Context, path string) <-chan LoadResult {
	ch := make(chan LoadResult, 1)
	go func() {
		defer close(ch)
		ch <- s.load(ctx, path)
	}()
	return ch
}

// Load is the blocking form of LoadAsync. Cancellation is honored up to
// the point the mesh is added; once added, the mesh is returned without
// error even if ctx is canceled afterwards.
func (s *Scene) Load(ctx context.Context, path string) (*Mesh, error) {
	r := <-s.LoadAsync(ctx, path)
	return r.Mesh, r.Err
}

func (s *Scene) load(ctx context.Context, path string) LoadResult {
	if err := ctx.Err(); err != nil {
		return LoadResult{Err: err}
	}
	s.options.Logger.logf(LogInfo, "loading %s", path)

	var (
		m   *Mesh
		err error
	)
	if s.options.Loader != nil {
		m, err = s.options.Loader.Load(path)
	} else {
		m, err = LoadFile(path)
	}
	if err != nil {
		s.options.Logger.logf(LogError, "load %s: %v", path, err)
		return LoadResult{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return LoadResult{Err: err}
	}
	if err := s.Add(m); err != nil {
		return LoadResult{Err: err}
	}
	s.options.Logger.logf(LogInfo, "loaded %s: %d vertices, %d faces", path, len(m.Vertices), len(m.Faces))
	return LoadResult{Mesh: m}
}
