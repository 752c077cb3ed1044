package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayIntersectHorizontalPlane(t *testing.T) {
	ray := NewRay(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0})

	hit, distance, err := ray.IntersectHorizontalPlane(0)
	require.NoError(t, err)
	assert.InDelta(t, 5, distance, 1e-9)
	assert.True(t, hit.ApproxEqual(mgl64.Vec3{0, 0, 0}))

	hit, distance, err = ray.IntersectHorizontalPlane(2)
	require.NoError(t, err)
	assert.InDelta(t, 3, distance, 1e-9)
	assert.True(t, hit.ApproxEqual(mgl64.Vec3{0, 2, 0}))
}

func TestRayNoIntersection(t *testing.T) {
	parallel := NewRay(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{1, 0, 0})
	_, _, err := parallel.IntersectHorizontalPlane(0)
	assert.ErrorIs(t, err, ErrNoIntersection)

	away := NewRay(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, 1, 0})
	_, _, err = away.IntersectHorizontalPlane(0)
	assert.ErrorIs(t, err, ErrNoIntersection)
}

func TestProjectionRoundTrip(t *testing.T) {
	cam := NewCamera()
	const w, h = 800, 800
	cam.SetViewport(w, h)

	view := mat4To64(cam.ViewMatrix())
	proj := mat4To64(cam.ProjectionMatrix())
	point := mgl64.Vec3{0, 0, -10}

	win := mgl64.Project(point, view, proj, 0, 0, w, h)
	back, err := mgl64.UnProject(win, view, proj, 0, 0, w, h)
	require.NoError(t, err)
	for i := range point {
		assert.InDelta(t, point[i], back[i], 1e-3)
	}
}

func TestScreenRayThroughProjectedPoint(t *testing.T) {
	cam := NewCamera()
	cam.Position = mgl32.Vec3{1, 3, 4}
	cam.SetRotation(-20, 15)
	const w, h = 1024, 768
	cam.SetViewport(w, h)

	target := mgl64.Vec3{2, 0.5, -6}
	win := mgl64.Project(target, mat4To64(cam.ViewMatrix()), mat4To64(cam.ProjectionMatrix()), 0, 0, w, h)

	ray, err := ScreenRay(cam, win.X(), float64(h)-win.Y(), w, h)
	require.NoError(t, err)

	origin := vec3To64(cam.Position)
	at := ray.At(target.Sub(origin).Len())
	for i := range target {
		assert.InDelta(t, target[i], at[i], 1e-3)
	}
}

func TestScreenRayBadWindow(t *testing.T) {
	_, err := ScreenRay(NewCamera(), 0, 0, 0, 600)
	assert.Error(t, err)
}

func TestPickerUpdate(t *testing.T) {
	cam := NewCamera()
	cam.Position = mgl32.Vec3{0, 5, 0}
	cam.SetRotation(-89, 0)
	cam.SetViewport(800, 600)

	var p Picker
	_, placed := p.Placement()
	assert.False(t, placed)

	hit, ok := p.Update(cam, 400, 300, 800, 600)
	require.True(t, ok)
	assert.InDelta(t, 0, hit.X(), 1e-3)
	assert.InDelta(t, 0, hit.Y(), 1e-3)
	assert.Less(t, hit.Z(), float32(0))

	// looking up at the sky misses the plane and keeps the last hit
	cam.SetRotation(30, 0)
	kept, ok := p.Update(cam, 400, 300, 800, 600)
	assert.False(t, ok)
	assert.Equal(t, hit, kept)

	got, placed := p.Placement()
	assert.True(t, placed)
	assert.Equal(t, hit, got)
}

func TestPickerPlaneHeight(t *testing.T) {
	cam := NewCamera()
	cam.Position = mgl32.Vec3{0, 5, 0}
	cam.SetRotation(-89, 0)

	p := Picker{PlaneHeight: 2}
	hit, ok := p.Update(cam, 400, 300, 800, 600)
	require.True(t, ok)
	assert.InDelta(t, 2, hit.Y(), 1e-3)
}
