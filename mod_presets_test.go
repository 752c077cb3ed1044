package flyscene

import (
	"testing"

	"github.com/flyscene/flyscene/config"
	"github.com/flyscene/flyscene/render/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoScene(cubes int, seed int64) config.Scene {
	s := config.Default().Scene
	s.RandomCubes = cubes
	s.Seed = seed
	s.GridRadius = 3
	return s
}

func worldPositions(r *Renderer) []mgl32.Vec3 {
	var out []mgl32.Vec3
	for _, id := range r.World.IDs() {
		g, _ := r.World.Lookup(id)
		out = append(out, g.Transform().Position)
	}
	return out
}

func TestPopulateDemo_Population(t *testing.T) {
	r, dev, _ := newTestRenderer(t)
	s := demoScene(10, 7)
	s.SkyColor = [4]float32{0.2, 0.3, 0.4, 1}
	require.NoError(t, PopulateDemo(r, s))

	assert.Equal(t, 2+2+10+1+1, r.World.Len())
	assert.Equal(t, 1, r.Guides.Len())
	assert.Equal(t, mgl32.Vec4{0.2, 0.3, 0.4, 1}, r.World.ClearColor())
	assert.Equal(t, r.World.Len()+r.Guides.Len()+r.Overlay.Len(), dev.Live())

	kinds := map[core.Kind]int{}
	for _, id := range r.World.IDs() {
		g, ok := r.World.Lookup(id)
		require.True(t, ok)
		assert.Equal(t, id, g.ID())
		kinds[g.Kind()]++
	}
	assert.Equal(t, 2, kinds[core.KindTriangle])
	assert.Equal(t, 12, kinds[core.KindCube])
	assert.Equal(t, 1, kinds[core.KindLines])
	assert.Equal(t, 1, kinds[core.KindSphere])
	require.NotNil(t, r.Sphere)
	assert.Equal(t, mgl32.Vec3{}, r.Sphere.Transform().Position)
}

func TestPopulateDemo_Positions(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	require.NoError(t, PopulateDemo(r, demoScene(50, 3)))

	positions := worldPositions(r)
	assert.Contains(t, positions, PresetCubePosition)
	assert.Contains(t, positions, PresetCloneCubePosition)

	random := 0
	for _, id := range r.World.IDs() {
		g, _ := r.World.Lookup(id)
		p := g.Transform().Position
		if g.Kind() != core.KindCube || p == PresetCubePosition || p == PresetCloneCubePosition {
			continue
		}
		random++
		for i := 0; i < 3; i++ {
			assert.GreaterOrEqual(t, p[i], float32(5))
			assert.Less(t, p[i], float32(10))
		}
	}
	assert.Equal(t, 50, random)
}

func TestPopulateDemo_Seeded(t *testing.T) {
	a, _, _ := newTestRenderer(t)
	b, _, _ := newTestRenderer(t)
	c, _, _ := newTestRenderer(t)
	require.NoError(t, PopulateDemo(a, demoScene(20, 42)))
	require.NoError(t, PopulateDemo(b, demoScene(20, 42)))
	require.NoError(t, PopulateDemo(c, demoScene(20, 43)))

	assert.Equal(t, worldPositions(a), worldPositions(b))
	assert.NotEqual(t, worldPositions(a), worldPositions(c))
}

func TestPopulateDemo_NoGuidesNoGrid(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	s := demoScene(0, 1)
	s.GridRadius = 0
	s.SphereRadius = 0
	s.ShowGuides = false
	require.NoError(t, PopulateDemo(r, s))

	assert.Equal(t, 4, r.World.Len())
	assert.Zero(t, r.Guides.Len())
	assert.Nil(t, r.Grid)
	assert.Nil(t, r.Sphere)
}

func TestPopulateDemo_AllocationFailure(t *testing.T) {
	r, dev, _ := newTestRenderer(t)
	dev.FailAllocation = true
	assert.Error(t, PopulateDemo(r, demoScene(1, 1)))
}

func TestDemoSceneModule_NeedsRenderer(t *testing.T) {
	app := NewApp()
	assert.Panics(t, func() {
		app.UseModules(DemoSceneModule{Scene: demoScene(1, 1)})
	})
}
