package flyscene

import (
	"testing"

	"github.com/flyscene/flyscene/render/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lookDown places the camera above the origin looking almost straight down
// with the cursor in the middle of the window.
func lookDown(ta *testApp, height float32) *core.Camera {
	cam := MustResource[core.Camera](ta.App)
	cam.Position = mgl32.Vec3{0, height, 0}
	cam.SetRotation(core.MinPitch, 0)
	ta.input.MouseX, ta.input.MouseY = 400, 300
	return cam
}

func TestPickerModule_PlacesMarker(t *testing.T) {
	ta := newHeadlessApp(t, headlessConfig(), Options{})
	lookDown(ta, 5)

	ta.Step()

	pick := MustResource[PickState](ta.App)
	pos, placed := pick.Placement()
	require.True(t, placed)
	assert.InDelta(t, 0, pos.X(), 1e-3)
	assert.InDelta(t, 0, pos.Y(), 1e-4)
	assert.InDelta(t, 0, pos.Z(), 0.2)

	r := MustResource[Renderer](ta.App)
	assert.True(t, r.MarkerVisible)
	assert.Equal(t, pos, r.Marker.Transform().Position)

	draws := ta.dev.Draws()
	require.NotEmpty(t, draws)
	last := draws[len(draws)-1]
	assert.Equal(t, "marker", last.Program)
	assert.Equal(t, r.Marker.Handles(), last.Handles)
}

func TestPickerModule_ScrollMovesPlane(t *testing.T) {
	cfg := headlessConfig()
	cfg.Picker.ScrollStep = 0.5
	ta := newHeadlessApp(t, cfg, Options{})
	lookDown(ta, 5)

	ta.input.Scroll(0, 4)
	ta.Step()

	pick := MustResource[PickState](ta.App)
	assert.InDelta(t, 2, pick.PlaneHeight, 1e-9)
	pos, placed := pick.Placement()
	require.True(t, placed)
	assert.InDelta(t, 2, pos.Y(), 1e-4)
}

func TestPickerModule_KeepsPlacementOnMiss(t *testing.T) {
	ta := newHeadlessApp(t, headlessConfig(), Options{})
	cam := lookDown(ta, 5)
	ta.Step()
	pick := MustResource[PickState](ta.App)
	before, placed := pick.Placement()
	require.True(t, placed)

	// looking up, the ray never reaches the ground
	cam.SetRotation(core.MaxPitch, 0)
	ta.Step()
	after, placed := pick.Placement()
	assert.True(t, placed)
	assert.Equal(t, before, after)
}

func TestPickerModule_HiddenWhileCaptured(t *testing.T) {
	ta := newHeadlessApp(t, headlessConfig(), Options{})
	lookDown(ta, 5)
	ta.input.MouseCaptured = true

	ta.Step()

	_, placed := MustResource[PickState](ta.App).Placement()
	assert.False(t, placed)
	r := MustResource[Renderer](ta.App)
	assert.False(t, r.MarkerVisible)
	for _, d := range ta.dev.Draws() {
		assert.NotEqual(t, "marker", d.Program)
	}
}

func TestPickerModule_MarkerDisabled(t *testing.T) {
	cfg := headlessConfig()
	cfg.Picker.ShowMarker = false
	ta := newHeadlessApp(t, cfg, Options{})
	lookDown(ta, 5)

	ta.Step()

	_, placed := MustResource[PickState](ta.App).Placement()
	assert.True(t, placed)
	assert.False(t, MustResource[Renderer](ta.App).MarkerVisible)
}
