package flyscene

import (
	"fmt"

	"github.com/flyscene/flyscene/config"
	"github.com/flyscene/flyscene/render/gpu"
	"github.com/flyscene/flyscene/render/gpu/opengl"
	"github.com/flyscene/flyscene/render/gpu/webgpu"
)

// RendererName identifies a graphics backend. Names match the config values.
type RendererName string

const (
	RendererOpenGL   RendererName = config.BackendOpenGL
	RendererWebGPU   RendererName = config.BackendWebGPU
	RendererHeadless RendererName = config.BackendHeadless
)

// windowAPI reports the client API the backend needs, and false when it
// renders without a window.
func (n RendererName) windowAPI() (WindowAPI, bool) {
	switch n {
	case RendererOpenGL:
		return WindowOpenGL, true
	case RendererWebGPU:
		return WindowNoAPI, true
	default:
		return 0, false
	}
}

// openDevice creates the device for name. The returned close func is never nil.
func openDevice(app *App, name RendererName) (gpu.Device, func(), error) {
	nop := func() {}
	switch name {
	case RendererHeadless:
		return gpu.NewMemoryDevice(), nop, nil
	case RendererOpenGL:
		dev, err := opengl.New()
		if err != nil {
			return nil, nop, err
		}
		app.Logger().Debugf("OpenGL %s", dev.Version())
		return dev, nop, nil
	case RendererWebGPU:
		ws, ok := Resource[WindowState](app)
		if !ok {
			return nil, nop, fmt.Errorf("webgpu needs a window: %w", gpu.ErrNoContext)
		}
		dev, err := webgpu.New(ws.Window())
		if err != nil {
			return nil, nop, err
		}
		return dev, dev.Close, nil
	default:
		return nil, nop, fmt.Errorf("unknown renderer %q", name)
	}
}

// UseRenderer installs the window the configured backend needs and then the
// renderer itself.
func (app *App) UseRenderer(cfg config.Config) *App {
	name := RendererName(cfg.Renderer.Backend)
	if api, ok := name.windowAPI(); ok {
		win := NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, api)
		win.VSync = cfg.Window.VSync
		app.UseModules(win)
	}
	app.Logger().Infof("renderer selected: %s", name)
	return app.UseModules(RendererModule{
		Backend:   name,
		Wireframe: cfg.Renderer.Wireframe,
	})
}
