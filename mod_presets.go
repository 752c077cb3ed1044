package flyscene

import (
	"fmt"
	"math/rand/v2"

	"github.com/flyscene/flyscene/config"
	"github.com/flyscene/flyscene/render/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Preset positions of the demo population.
var (
	PresetCubePosition      = mgl32.Vec3{2.2, 1, 2}
	PresetCloneCubePosition = mgl32.Vec3{10, 3, 0}
)

const (
	randomCubeMin  = 5
	randomCubeSpan = 5
	axesLength     = 1
)

// DemoSceneModule fills the renderer's scenes: two triangles, a cube and its
// clone, RandomCubes seeded cubes, the sphere, the ground grid and the origin
// axes.
type DemoSceneModule struct {
	Scene config.Scene
}

func (m DemoSceneModule) Install(app *App, cmd *Commands) {
	r := MustResource[Renderer](app)
	if err := PopulateDemo(r, m.Scene); err != nil {
		app.Logger().Errorf("demo scene: %v", err)
		panic(err)
	}
	app.Logger().Infof("demo scene: %d world geometries, %d guides", r.World.Len(), r.Guides.Len())
}

// PopulateDemo builds the demo population into r. The same Seed always
// yields the same cube positions.
func PopulateDemo(r *Renderer, s config.Scene) error {
	r.World.SetClearColorRGBA(s.SkyColor[0], s.SkyColor[1], s.SkyColor[2], s.SkyColor[3])

	for _, verts := range [][9]float32{core.TriangleUpRight, core.TriangleDownLeft} {
		tri, err := core.NewTriangle(r.Device, r.IDs, verts)
		if err != nil {
			return fmt.Errorf("triangle: %w", err)
		}
		if err := r.World.Insert(tri); err != nil {
			return err
		}
	}

	cube, err := core.NewCube(r.Device, r.IDs)
	if err != nil {
		return fmt.Errorf("cube: %w", err)
	}
	cube.Transform().Position = PresetCubePosition
	if err := r.World.Insert(cube); err != nil {
		return err
	}

	clone, err := cube.Clone(r.IDs)
	if err != nil {
		return fmt.Errorf("clone cube: %w", err)
	}
	clone.Transform().Position = PresetCloneCubePosition
	if err := r.World.Insert(clone); err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(uint64(s.Seed), uint64(s.Seed)))
	for i := 0; i < s.RandomCubes; i++ {
		c, err := cube.Clone(r.IDs)
		if err != nil {
			return fmt.Errorf("random cube %d: %w", i, err)
		}
		c.Transform().Position = mgl32.Vec3{
			rng.Float32()*randomCubeSpan + randomCubeMin,
			rng.Float32()*randomCubeSpan + randomCubeMin,
			rng.Float32()*randomCubeSpan + randomCubeMin,
		}
		// the registry takes ownership; c is left empty
		if err := r.World.Insert(c.Transfer()); err != nil {
			return err
		}
	}

	if err := r.SetSphere(s.SphereRadius, s.SphereSectors, s.SphereStacks); err != nil {
		return err
	}
	if err := r.SetGrid(s.GridRadius); err != nil {
		return err
	}

	if s.ShowGuides {
		axes, err := core.NewLines(r.Device, r.IDs, core.AxesVertices(axesLength))
		if err != nil {
			return fmt.Errorf("axes: %w", err)
		}
		if err := r.Guides.Insert(axes); err != nil {
			return err
		}
	}
	return nil
}
