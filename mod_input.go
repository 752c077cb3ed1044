package flyscene

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyW int = iota
	KeyA
	KeyS
	KeyD
	KeyP
	KeySpace
	KeyShift
	KeyEscape
	KeyF1
	keyCount
)

type InputModule struct{}

// Input is the per-frame snapshot of keyboard, cursor, scroll and window state.
type Input struct {
	Pressed [keyCount]bool

	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	MouseCaptured            bool

	// ScrollY accumulates wheel notches since start.
	ScrollX, ScrollY float64

	WindowWidth, WindowHeight           int
	FramebufferWidth, FramebufferHeight int
	CloseRequested                      bool
}

// SetKey records the key state for this frame and derives the edge flags.
func (input *Input) SetKey(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

// MoveTo updates the cursor and the delta used for mouse look.
func (input *Input) MoveTo(x, y float64) {
	if input.MouseCaptured {
		input.MouseDeltaX = x - input.MouseX
		input.MouseDeltaY = y - input.MouseY
	} else {
		input.MouseDeltaX = 0
		input.MouseDeltaY = 0
	}
	input.MouseX = x
	input.MouseY = y
}

func (input *Input) Scroll(dx, dy float64) {
	input.ScrollX += dx
	input.ScrollY += dy
}

// EndFrame clears the per-frame edges so a key press is seen by one frame only.
func (input *Input) EndFrame() {
	input.JustPressed = [keyCount]bool{}
	input.JustReleased = [keyCount]bool{}
	input.MouseDeltaX = 0
	input.MouseDeltaY = 0
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	input := &Input{}
	cmd.AddResources(input)
	app.UseSystem(
		System((*Input).EndFrame).
			InStage(Finale),
	)

	ws, ok := Resource[WindowState](app)
	if !ok {
		app.Logger().Debugf("input: no window, polling disabled")
		return
	}
	input.WindowWidth, input.WindowHeight = ws.window.GetSize()
	input.FramebufferWidth, input.FramebufferHeight = ws.window.GetFramebufferSize()
	ws.window.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		input.Scroll(xoff, yoff)
	})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
}

func inputSystem(s *WindowState, input *Input) {
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		input.SetKey(key, s.window.GetKey(glfwKey) == glfw.Press)
	}

	input.MoveTo(s.window.GetCursorPos())

	input.WindowWidth, input.WindowHeight = s.window.GetSize()
	input.FramebufferWidth, input.FramebufferHeight = s.window.GetFramebufferSize()
	input.CloseRequested = s.window.ShouldClose()

	if input.MouseCaptured {
		s.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		s.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyW:      glfw.KeyW,
	KeyA:      glfw.KeyA,
	KeyS:      glfw.KeyS,
	KeyD:      glfw.KeyD,
	KeyP:      glfw.KeyP,
	KeySpace:  glfw.KeySpace,
	KeyShift:  glfw.KeyLeftShift,
	KeyEscape: glfw.KeyEscape,
	KeyF1:     glfw.KeyF1,
}
