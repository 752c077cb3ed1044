package core

import (
	"strings"
	"testing"

	"github.com/flyscene/flyscene/render/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneLookup(t *testing.T) {
	dev, ids := newTestDevice()
	s := NewScene()

	_, ok := s.Lookup(NoID)
	assert.False(t, ok)
	_, ok = s.Lookup(42)
	assert.False(t, ok)

	g, err := NewCube(dev, ids)
	require.NoError(t, err)
	require.NoError(t, s.Insert(g))

	got, ok := s.Lookup(g.ID())
	require.True(t, ok)
	assert.Same(t, g, got)
	_, ok = s.Lookup(NoID)
	assert.False(t, ok)
}

func TestSceneInsertRejectsEmpty(t *testing.T) {
	dev, ids := newTestDevice()
	s := NewScene()
	g, err := NewCube(dev, ids)
	require.NoError(t, err)
	moved := g.Transfer()

	assert.ErrorIs(t, s.Insert(g), ErrReleased)
	assert.ErrorIs(t, s.Insert(nil), ErrReleased)
	require.NoError(t, s.Insert(moved))
	assert.Equal(t, 1, s.Len())
}

func TestSceneInsertSameInstanceTwice(t *testing.T) {
	dev, ids := newTestDevice()
	s := NewScene()
	g, err := NewCube(dev, ids)
	require.NoError(t, err)

	require.NoError(t, s.Insert(g))
	require.NoError(t, s.Insert(g))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, dev.Releases())
}

func TestSceneRemoveAndRelease(t *testing.T) {
	dev, ids := newTestDevice()
	s := NewScene()
	for i := 0; i < 3; i++ {
		g, err := NewCube(dev, ids)
		require.NoError(t, err)
		require.NoError(t, s.Insert(g))
	}

	assert.True(t, s.Remove(2))
	assert.False(t, s.Remove(2))
	assert.Equal(t, 1, dev.Releases())

	s.Release()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 3, dev.Releases())
	assert.Equal(t, 0, dev.Live())
}

func TestSceneDrawAll(t *testing.T) {
	dev, ids := newTestDevice()
	s := NewScene()
	prog, err := dev.NewProgram(gpu.ProgramSource{Name: "flat"})
	require.NoError(t, err)
	cam := NewCamera()
	cam.Position = mgl32.Vec3{0, 0, 2}

	var geoms []*Geometry
	for i := 0; i < 3; i++ {
		g, err := NewCube(dev, ids)
		require.NoError(t, err)
		g.Transform().Position = mgl32.Vec3{float32(i), 0, 0}
		geoms = append(geoms, g)
	}
	// insertion order must not matter
	for i := len(geoms) - 1; i >= 0; i-- {
		require.NoError(t, s.Insert(geoms[i]))
	}

	assert.Equal(t, 3, s.DrawAll(prog, cam))

	draws := dev.Draws()
	require.Len(t, draws, 3)
	viewProj := cam.ProjectionMatrix().Mul4(cam.ViewMatrix())
	for i, d := range draws {
		assert.Equal(t, geoms[i].Handles(), d.Handles)
		assert.Equal(t, "flat", d.Program)
		assert.Equal(t, 36, d.Count)
		assert.True(t, viewProj.Mul4(geoms[i].Matrix()).ApproxEqual(d.Transform))
	}

	assert.Equal(t, 0, NewScene().DrawAll(prog, cam))
}

func TestSceneClearColor(t *testing.T) {
	s := NewScene()
	assert.Equal(t, DefaultClearColor, s.ClearColor())

	s.SetClearColor(0.1, 0.2, 0.3)
	assert.Equal(t, mgl32.Vec4{0.1, 0.2, 0.3, 1}, s.ClearColor())
	s.SetClearColorRGBA(0.1, 0.2, 0.3, 0.5)
	assert.Equal(t, mgl32.Vec4{0.1, 0.2, 0.3, 0.5}, s.ClearColor())
}

func TestSceneLabel(t *testing.T) {
	a, b := NewScene(), NewScene()
	assert.True(t, strings.HasPrefix(a.Label(), "scene-"))
	assert.NotEqual(t, a.Label(), b.Label())
}
