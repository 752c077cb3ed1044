package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places a geometry in the world. Only translation is modeled.
type Transform struct {
	Position mgl32.Vec3
}

func NewTransform(position mgl32.Vec3) Transform {
	return Transform{Position: position}
}

func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
}

func (t *Transform) Translate(offset mgl32.Vec3) {
	t.Position = t.Position.Add(offset)
}
