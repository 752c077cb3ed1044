package core

import (
	"fmt"
	"maps"
	"slices"

	"github.com/flyscene/flyscene/render/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// DefaultClearColor is the sky color a new Scene starts with.
var DefaultClearColor = mgl32.Vec4{0, 0, 0, 1}

// Scene owns a set of geometries keyed by their identity plus the color the
// frame is cleared with.
type Scene struct {
	label      string
	geometries map[ID]*Geometry
	clear      mgl32.Vec4
}

func NewScene() *Scene {
	return &Scene{
		label:      "scene-" + uuid.NewString(),
		geometries: make(map[ID]*Geometry),
		clear:      DefaultClearColor,
	}
}

func (s *Scene) Label() string { return s.label }
func (s *Scene) Len() int      { return len(s.geometries) }

// Insert stores g under its identity and takes ownership of it. An existing
// entry with the same identity is replaced, and released when it is a
// different instance.
func (s *Scene) Insert(g *Geometry) error {
	if g == nil || g.ID() == NoID || g.Released() {
		return fmt.Errorf("insert into %s: %w", s.label, ErrReleased)
	}
	if prev, ok := s.geometries[g.ID()]; ok && prev != g {
		prev.Release()
	}
	s.geometries[g.ID()] = g
	return nil
}

// Lookup returns the geometry registered under id. NoID never matches.
func (s *Scene) Lookup(id ID) (*Geometry, bool) {
	if id == NoID {
		return nil, false
	}
	g, ok := s.geometries[id]
	return g, ok
}

// Remove drops and releases the geometry registered under id.
func (s *Scene) Remove(id ID) bool {
	g, ok := s.Lookup(id)
	if !ok {
		return false
	}
	delete(s.geometries, id)
	g.Release()
	return true
}

// IDs returns the registered identities in ascending order.
func (s *Scene) IDs() []ID {
	return slices.Sorted(maps.Keys(s.geometries))
}

// DrawAll binds program and draws every geometry with
// projection * view * model. It returns the number of draw calls issued.
func (s *Scene) DrawAll(program gpu.Program, camera *Camera) int {
	if len(s.geometries) == 0 {
		return 0
	}
	program.Use()
	loc := program.UniformLocation(gpu.TransformUniform)
	viewProj := camera.ProjectionMatrix().Mul4(camera.ViewMatrix())

	drawn := 0
	for _, id := range s.IDs() {
		g := s.geometries[id]
		if g.DrawCount() == 0 || g.Released() {
			continue
		}
		program.SetMat4(loc, viewProj.Mul4(g.Matrix()))
		g.Draw()
		drawn++
	}
	return drawn
}

func (s *Scene) SetClearColor(r, g, b float32) {
	s.clear = mgl32.Vec4{r, g, b, 1}
}

func (s *Scene) SetClearColorRGBA(r, g, b, a float32) {
	s.clear = mgl32.Vec4{r, g, b, a}
}

func (s *Scene) ClearColor() mgl32.Vec4 { return s.clear }

// Release frees every geometry and empties the scene.
func (s *Scene) Release() {
	for _, id := range s.IDs() {
		s.geometries[id].Release()
	}
	clear(s.geometries)
}
