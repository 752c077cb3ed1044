package flyscene

import (
	"testing"

	"github.com/flyscene/flyscene/render/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlyingCameraModule_AppliesConfig(t *testing.T) {
	cfg := headlessConfig()
	cfg.Camera.Position = [3]float32{1, 2, 3}
	cfg.Camera.FieldOfView = 60
	cfg.Camera.Speed = 8
	ta := newHeadlessApp(t, cfg, Options{})

	cam := MustResource[core.Camera](ta.App)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cam.Position)
	assert.Equal(t, float32(60), cam.FieldOfView)
	assert.Equal(t, float32(8), cam.Speed)

	ta.Step()
	assert.InDelta(t, 800.0/600.0, cam.Aspect, 1e-6)
}

func TestFlyingCameraControlSystem_MovesWithFixedStep(t *testing.T) {
	ta := newHeadlessApp(t, headlessConfig(), Options{})
	cam := MustResource[core.Camera](ta.App)
	start := cam.Position

	ta.input.SetKey(KeyW, true)
	ta.Step()

	step := cam.Speed * float32(testStep.Seconds())
	want := start.Add(mgl32.Vec3{0, 0, -step})
	assert.InDelta(t, want.Z(), cam.Position.Z(), 1e-5)
	assert.InDelta(t, want.X(), cam.Position.X(), 1e-5)

	ta.input.SetKey(KeyW, false)
	ta.input.SetKey(KeySpace, true)
	ta.Step()
	assert.InDelta(t, start.Y()+step, cam.Position.Y(), 1e-5)
}

func TestFlyingCameraInputSystem_CaptureAndLook(t *testing.T) {
	input := &Input{}
	cam := core.NewCamera()

	input.MoveTo(100, 100)
	FlyingCameraInputSystem(input, cam)
	assert.Zero(t, cam.Yaw(), "free cursor does not steer")

	input.SetKey(KeyF1, true)
	FlyingCameraInputSystem(input, cam)
	require.True(t, input.MouseCaptured)
	input.EndFrame()

	input.MoveTo(110, 95)
	FlyingCameraInputSystem(input, cam)
	assert.InDelta(t, 10*cam.Sensitivity, cam.Yaw(), 1e-5)
	assert.InDelta(t, 5*cam.Sensitivity, cam.Pitch(), 1e-5)

	input.EndFrame()
	input.SetKey(KeyF1, false)
	input.SetKey(KeyF1, true)
	FlyingCameraInputSystem(input, cam)
	assert.False(t, input.MouseCaptured)
}

func TestCameraTitle(t *testing.T) {
	cam := core.NewCamera()
	cam.Position = mgl32.Vec3{1.5, -2, 10.25}
	assert.Equal(t, "Coordinates: 1.50x, -2.00y, 10.25z", cameraTitle(cam))
}
