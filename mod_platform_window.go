package flyscene

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowAPI selects the client API the window is created for.
type WindowAPI int

const (
	WindowOpenGL WindowAPI = iota
	// WindowNoAPI leaves the surface to WebGPU.
	WindowNoAPI
)

// WindowState owns the single GLFW window of the App.
type WindowState struct {
	window *glfw.Window
	api    WindowAPI
	title  string
}

func (s *WindowState) Window() *glfw.Window { return s.window }
func (s *WindowState) API() WindowAPI       { return s.api }

func (s *WindowState) SetTitle(title string) {
	if title == s.title {
		return
	}
	s.title = title
	s.window.SetTitle(title)
}

func (s *WindowState) Size() (int, int) { return s.window.GetSize() }

func createWindowState(width, height int, title string, api WindowAPI, vsync bool) (*WindowState, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	switch api {
	case WindowNoAPI:
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	default:
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	if api == WindowOpenGL {
		win.MakeContextCurrent()
		if vsync {
			glfw.SwapInterval(1)
		} else {
			glfw.SwapInterval(0)
		}
	}

	return &WindowState{
		window: win,
		api:    api,
		title:  title,
	}, nil
}

// Present runs after Finale so the frame is complete before buffers swap.
var Present = Stage{Name: "Present"}

// PlatformWindowModule creates the shared window. Install panics when the
// window cannot be created; nothing else can run without it.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
	API    WindowAPI
	VSync  bool
}

// NewPlatformWindow fills in defaults for zero values.
func NewPlatformWindow(width, height int, title string, api WindowAPI) *PlatformWindowModule {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	if title == "" {
		title = "flyscene"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
		API:    api,
		VSync:  true,
	}
}

// Install is a no-op when a WindowState already exists.
func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[WindowState](app); ok {
		return
	}

	ws, err := createWindowState(m.Width, m.Height, m.Title, m.API, m.VSync)
	if err != nil {
		app.Logger().Errorf("window: %v", err)
		panic(err)
	}
	app.addResources(ws)
	app.Logger().Infof("window %dx%d %q created", m.Width, m.Height, m.Title)

	if !app.HasStage(Present) {
		app.UseStage(Present, AfterStage(Finale))
	}
	if m.API == WindowOpenGL {
		app.UseSystem(System(func(s *WindowState) {
			s.window.SwapBuffers()
		}).InStage(Present))
	}

	cmd.OnShutdown(func() {
		ws.window.Destroy()
		glfw.Terminate()
	})
}
