package flyscene

import (
	"fmt"

	"github.com/flyscene/flyscene/config"
	"github.com/flyscene/flyscene/render/core"

	"github.com/go-gl/mathgl/mgl32"
)

// FlyingCameraModule installs the single *core.Camera and drives it from Input.
type FlyingCameraModule struct {
	Config config.Camera
}

func (m FlyingCameraModule) Install(app *App, cmd *Commands) {
	cam := core.NewCamera()
	applyCameraConfig(cam, m.Config)
	cam.Position = mgl32.Vec3(m.Config.Position)
	cmd.AddResources(cam)

	app.UseSystem(
		System(FlyingCameraInputSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(FlyingCameraControlSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(cameraViewportSystem).
			InStage(PostUpdate),
	)
	if _, ok := Resource[WindowState](app); ok {
		app.UseSystem(
			System(cameraTitleSystem).
				InStage(Finale),
		)
	}
}

func applyCameraConfig(cam *core.Camera, c config.Camera) {
	if c.FieldOfView > 0 {
		cam.FieldOfView = c.FieldOfView
	}
	if c.Near > 0 {
		cam.Near = c.Near
	}
	if c.Far > cam.Near {
		cam.Far = c.Far
	}
	if c.Speed > 0 {
		cam.Speed = c.Speed
	}
	if c.Sensitivity > 0 {
		cam.Sensitivity = c.Sensitivity
	}
}

// FlyingCameraInputSystem toggles mouse capture on F1 and applies mouse look
// while the cursor is captured.
func FlyingCameraInputSystem(input *Input, cam *core.Camera) {
	if input.JustPressed[KeyF1] {
		input.MouseCaptured = !input.MouseCaptured
		input.MouseDeltaX, input.MouseDeltaY = 0, 0
	}

	if input.MouseCaptured {
		cam.Look(float32(input.MouseDeltaX), float32(input.MouseDeltaY))
	}
}

func FlyingCameraControlSystem(input *Input, cam *core.Camera, time *Time) {
	dt := time.Seconds()
	if dt <= 0 {
		return
	}

	cam.Move(core.MoveInput{
		Forward:  input.Pressed[KeyW],
		Backward: input.Pressed[KeyS],
		Left:     input.Pressed[KeyA],
		Right:    input.Pressed[KeyD],
		Up:       input.Pressed[KeySpace],
		Down:     input.Pressed[KeyShift],
	}, dt)
}

func cameraViewportSystem(input *Input, cam *core.Camera) {
	cam.SetViewport(input.WindowWidth, input.WindowHeight)
}

func cameraTitle(cam *core.Camera) string {
	p := cam.Position
	return fmt.Sprintf("Coordinates: %.2fx, %.2fy, %.2fz", p.X(), p.Y(), p.Z())
}

func cameraTitleSystem(ws *WindowState, cam *core.Camera) {
	ws.SetTitle(cameraTitle(cam))
}
