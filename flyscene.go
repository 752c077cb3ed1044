// Package flyscene is a small fly-through 3D scene viewer: a free-flying
// camera over a grid of cubes, with a marker that follows the cursor on a
// horizontal plane.
package flyscene

import (
	"time"

	"github.com/flyscene/flyscene/config"
)

// Options are the settings that do not come from the config file.
type Options struct {
	ConfigPath string
	Watch      bool
	MaxFrames  uint64
	// FixedStep replaces the wall clock when non-zero.
	FixedStep time.Duration
	Logger    *DefaultLogger
}

// New builds the viewer App for cfg. It panics when the window or the
// graphics device cannot be created.
func New(cfg config.Config, opt Options) *App {
	app := NewAppBuilder().
		UseModule(
			LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug, Logger: opt.Logger},
			TimeModule{Fixed: opt.FixedStep},
			ConfigModule{Path: opt.ConfigPath, Config: cfg, Watch: opt.Watch},
		).
		Build()

	app.UseRenderer(cfg)

	return app.UseModules(
		InputModule{},
		FlyingCameraModule{Config: cfg.Camera},
		DemoSceneModule{Scene: cfg.Scene},
		PickerModule{ScrollStep: cfg.Picker.ScrollStep, ShowMarker: cfg.Picker.ShowMarker},
		LifecycleModule{MaxFrames: opt.MaxFrames},
	)
}
