package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// parallelEpsilon bounds |dot(direction, normal)| below which a ray is
// treated as parallel to the plane.
const parallelEpsilon = 1e-9

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

func (r Ray) At(distance float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(distance))
}

// IntersectHorizontalPlane intersects the ray with the plane y = height and
// returns the hit point and its distance along the ray. Rays parallel to the
// plane or pointing away from it return ErrNoIntersection.
func (r Ray) IntersectHorizontalPlane(height float64) (mgl64.Vec3, float64, error) {
	normal := mgl64.Vec3{0, 1, 0}
	denom := r.Direction.Dot(normal)
	if math.Abs(denom) < parallelEpsilon {
		return mgl64.Vec3{}, 0, ErrNoIntersection
	}
	planePoint := mgl64.Vec3{0, height, 0}
	distance := planePoint.Sub(r.Origin).Dot(normal) / denom
	if distance <= 0 {
		return mgl64.Vec3{}, 0, ErrNoIntersection
	}
	return r.At(distance), distance, nil
}

// ScreenRay builds the world ray under a cursor. Cursor coordinates have
// their origin at the top left of a width x height window.
func ScreenRay(camera *Camera, cursorX, cursorY float64, width, height int) (Ray, error) {
	if width <= 0 || height <= 0 {
		return Ray{}, fmt.Errorf("screen ray: window %dx%d", width, height)
	}
	view := mat4To64(camera.ViewMatrix())
	proj := mat4To64(camera.ProjectionMatrix())
	win := mgl64.Vec3{cursorX, float64(height) - cursorY, 1}
	far, err := mgl64.UnProject(win, view, proj, 0, 0, width, height)
	if err != nil {
		return Ray{}, fmt.Errorf("screen ray: %w", err)
	}
	origin := vec3To64(camera.Position)
	return NewRay(origin, far.Sub(origin)), nil
}

// Picker projects the cursor onto a horizontal plane and keeps the last hit.
type Picker struct {
	PlaneHeight float64

	placement mgl32.Vec3
	placed    bool
}

// Update recomputes the placement. When the cursor ray misses the plane the
// previous placement is kept and false is returned.
func (p *Picker) Update(camera *Camera, cursorX, cursorY float64, width, height int) (mgl32.Vec3, bool) {
	ray, err := ScreenRay(camera, cursorX, cursorY, width, height)
	if err != nil {
		return p.placement, false
	}
	hit, _, err := ray.IntersectHorizontalPlane(p.PlaneHeight)
	if err != nil {
		return p.placement, false
	}
	p.placement = mgl32.Vec3{float32(hit[0]), float32(hit[1]), float32(hit[2])}
	p.placed = true
	return p.placement, true
}

// Placement returns the last hit and whether there has been one.
func (p *Picker) Placement() (mgl32.Vec3, bool) { return p.placement, p.placed }

func mat4To64(m mgl32.Mat4) mgl64.Mat4 {
	var out mgl64.Mat4
	for i, v := range m {
		out[i] = float64(v)
	}
	return out
}

func vec3To64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}
