package flyscene

import (
	"github.com/flyscene/flyscene/config"
	"github.com/flyscene/flyscene/render/core"
	"github.com/flyscene/flyscene/render/gpu"
)

// ConfigState is the active configuration. With Watch set in the module,
// edits to the file are applied at the start of the next frame.
type ConfigState struct {
	Current config.Config
	Path    string
	Reloads int

	watcher *config.Watcher
}

type ConfigModule struct {
	Path   string
	Config config.Config
	Watch  bool
}

func (m ConfigModule) Install(app *App, cmd *Commands) {
	state := &ConfigState{Current: m.Config, Path: m.Path}
	cmd.AddResources(state)

	if !m.Watch || m.Path == "" {
		return
	}
	w, err := config.Watch(m.Path, app.Logger())
	if err != nil {
		app.Logger().Warnf("config hot reload disabled: %v", err)
		return
	}
	state.watcher = w
	app.Logger().Infof("watching %s", w.Path())

	app.UseSystem(System(configReloadSystem).InStage(Prelude))
	cmd.OnShutdown(func() {
		if err := w.Close(); err != nil {
			app.Logger().Warnf("close config watcher: %v", err)
		}
	})
}

func configReloadSystem(state *ConfigState, cmd *Commands) {
	select {
	case next, ok := <-state.watcher.Updates():
		if !ok {
			return
		}
		applyConfig(cmd.app, state.Current, next)
		state.Current = next
		state.Reloads++
	default:
	}
}

// applyConfig pushes the live-tunable parts of next into the installed
// resources. Values fixed at startup only produce a warning.
func applyConfig(app *App, prev, next config.Config) {
	log := app.Logger()
	log.SetDebug(next.Log.Debug)

	if cam, ok := Resource[core.Camera](app); ok {
		applyCameraConfig(cam, next.Camera)
	}
	if pick, ok := Resource[PickState](app); ok {
		if next.Picker.ScrollStep > 0 {
			pick.ScrollStep = next.Picker.ScrollStep
		}
		pick.ShowMarker = next.Picker.ShowMarker
	}
	if r, ok := Resource[Renderer](app); ok {
		sky := next.Scene.SkyColor
		r.World.SetClearColorRGBA(sky[0], sky[1], sky[2], sky[3])
		if next.Scene.GridRadius != prev.Scene.GridRadius {
			if err := r.SetGrid(next.Scene.GridRadius); err != nil {
				log.Warnf("grid radius %d: %v", next.Scene.GridRadius, err)
			}
		}
		if sphereChanged(prev.Scene, next.Scene) {
			if err := r.SetSphere(next.Scene.SphereRadius, next.Scene.SphereSectors, next.Scene.SphereStacks); err != nil {
				log.Warnf("sphere: %v", err)
			}
		}
		if w, ok := r.Device.(gpu.Wireframer); ok && next.Renderer.Wireframe != prev.Renderer.Wireframe {
			w.SetWireframe(next.Renderer.Wireframe)
		}
	}

	if next.Window != prev.Window || next.Renderer.Backend != prev.Renderer.Backend {
		log.Warnf("window and backend changes take effect after a restart")
	}
	if next.Scene.RandomCubes != prev.Scene.RandomCubes || next.Scene.Seed != prev.Scene.Seed {
		log.Warnf("scene population changes take effect after a restart")
	}
}

func sphereChanged(prev, next config.Scene) bool {
	return prev.SphereRadius != next.SphereRadius ||
		prev.SphereSectors != next.SphereSectors ||
		prev.SphereStacks != next.SphereStacks
}
