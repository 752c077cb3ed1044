package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	MaxPitch = 89
	MinPitch = -89

	// horizontalEpsilon is the squared length below which the horizontal part
	// of front is treated as zero.
	horizontalEpsilon = 1e-10
)

// Direction is one of the fixed orientations the camera can snap to.
type Direction int

const (
	DirectionFront Direction = iota
	DirectionBack
	DirectionFrontLeft
	DirectionFrontRight
)

// MoveInput is the movement requested for one frame.
type MoveInput struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Up       bool
	Down     bool
}

func (m MoveInput) Any() bool {
	return m.Forward || m.Backward || m.Left || m.Right || m.Up || m.Down
}

// Camera is a fly camera with Y up. Angles are in degrees.
type Camera struct {
	Position        mgl32.Vec3
	FieldOfView     float32
	Aspect          float32
	Near            float32
	Far             float32
	Speed           float32
	Sensitivity     float32
	MovementEnabled bool

	pitch    float32
	yaw      float32
	front    mgl32.Vec3
	up       mgl32.Vec3
	movement mgl32.Vec3
}

func NewCamera() *Camera {
	c := &Camera{
		FieldOfView:     45,
		Aspect:          1,
		Near:            0.1,
		Far:             1000,
		Speed:           5,
		Sensitivity:     0.1,
		MovementEnabled: true,
		up:              mgl32.Vec3{0, 1, 0},
		movement:        mgl32.Vec3{0, 0, -1},
	}
	c.SetRotation(0, 0)
	return c
}

func (c *Camera) Pitch() float32         { return c.pitch }
func (c *Camera) Yaw() float32           { return c.yaw }
func (c *Camera) Front() mgl32.Vec3      { return c.front }
func (c *Camera) Up() mgl32.Vec3         { return c.up }
func (c *Camera) MoveVector() mgl32.Vec3 { return c.movement }
func (c *Camera) Right() mgl32.Vec3      { return c.front.Cross(c.up).Normalize() }
func (c *Camera) Target() mgl32.Vec3     { return c.Position.Add(c.front) }

// SetRotation clamps pitch and recomputes front and the ground movement
// vector. When front is vertical the previous movement vector is kept.
func (c *Camera) SetRotation(pitch, yaw float32) {
	pitch = math32.Max(MinPitch, math32.Min(MaxPitch, pitch))
	c.pitch, c.yaw = pitch, yaw

	p := mgl32.DegToRad(pitch)
	y := mgl32.DegToRad(yaw)
	c.front = mgl32.Vec3{
		math32.Sin(y) * math32.Cos(p),
		math32.Sin(p),
		-math32.Cos(y) * math32.Cos(p),
	}.Normalize()

	horizontal := mgl32.Vec3{c.front.X(), 0, c.front.Z()}
	if horizontal.LenSqr() > horizontalEpsilon {
		c.movement = horizontal.Normalize()
	}
}

// Rotate adds the deltas to the current angles.
func (c *Camera) Rotate(dPitch, dYaw float32) {
	c.SetRotation(c.pitch+dPitch, c.yaw+dYaw)
}

// Look applies a cursor delta scaled by Sensitivity. Moving the cursor up
// pitches the camera up.
func (c *Camera) Look(dx, dy float32) {
	c.Rotate(-dy*c.Sensitivity, dx*c.Sensitivity)
}

func (c *Camera) SetDirection(d Direction) {
	switch d {
	case DirectionBack:
		c.SetRotation(0, 180)
	case DirectionFrontLeft:
		c.SetRotation(0, -45)
	case DirectionFrontRight:
		c.SetRotation(0, 45)
	default:
		c.SetRotation(0, 0)
	}
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target(), c.up)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FieldOfView), c.Aspect, c.Near, c.Far)
}

// SetViewport updates the aspect ratio. A zero height (minimized window) is ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Move translates the camera for one frame of input.
func (c *Camera) Move(in MoveInput, dt float32) {
	if !c.MovementEnabled || !in.Any() || dt <= 0 {
		return
	}
	step := c.Speed * dt
	var delta mgl32.Vec3
	if in.Forward {
		delta = delta.Add(c.movement)
	}
	if in.Backward {
		delta = delta.Sub(c.movement)
	}
	if in.Left || in.Right {
		right := c.Right()
		if in.Left {
			delta = delta.Sub(right)
		}
		if in.Right {
			delta = delta.Add(right)
		}
	}
	if in.Up {
		delta[1]++
	}
	if in.Down {
		delta[1]--
	}
	c.Position = c.Position.Add(delta.Mul(step))
}
