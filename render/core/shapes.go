package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Preset triangles of the demo scene.
var (
	TriangleUpRight  = [9]float32{0, 0, 0, 1, 0, 0, 0, 1, 1}
	TriangleDownLeft = [9]float32{0, 0, 0, -1, 0, 0, 0, -1, 1}
)

// cubeFaces lists the four corners of each face as signs of the half extent.
// Faces are wound c0 c1 c2, c2 c3 c0.
var cubeFaces = [6][4][3]float32{
	{{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1}},
	{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}},
	{{-1, 1, 1}, {-1, 1, -1}, {-1, -1, -1}, {-1, -1, 1}},
	{{1, 1, 1}, {1, 1, -1}, {1, -1, -1}, {1, -1, 1}},
	{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}},
	{{-1, 1, -1}, {1, 1, -1}, {1, 1, 1}, {-1, 1, 1}},
}

// CubeVertices returns the 36 vertices of an axis-aligned cube centered on
// the origin with the given edge length.
func CubeVertices(size float32) []float32 {
	half := size / 2
	out := make([]float32, 0, 36*3)
	for _, face := range cubeFaces {
		for _, corner := range []int{0, 1, 2, 2, 3, 0} {
			c := face[corner]
			out = append(out, c[0]*half, c[1]*half, c[2]*half)
		}
	}
	return out
}

// GridVertices returns a line list covering [0, 2*radius] on the XZ plane
// with one unit spacing. Place the geometry at (-radius, 0, -radius) to
// center it on the origin.
func GridVertices(radius int) []float32 {
	if radius <= 0 {
		return nil
	}
	extent := float32(2 * radius)
	lines := 2*radius + 1
	out := make([]float32, 0, lines*2*2*3)
	for i := 0; i < lines; i++ {
		f := float32(i)
		out = append(out,
			0, 0, f, extent, 0, f,
			f, 0, 0, f, 0, extent,
		)
	}
	return out
}

// AxesVertices returns three line segments of the given length along +X, +Y
// and +Z.
func AxesVertices(length float32) []float32 {
	return []float32{
		0, 0, 0, length, 0, 0,
		0, 0, 0, 0, length, 0,
		0, 0, 0, 0, 0, length,
	}
}

// GridOrigin is where a grid built by GridVertices must be placed.
func GridOrigin(radius int) mgl32.Vec3 {
	r := float32(radius)
	return mgl32.Vec3{-r, 0, -r}
}

// SphereVertices returns a UV sphere of the given radius as a triangle list.
// Stacks run from pole to pole along Y and sectors go around it. The cap
// stacks contribute one triangle per sector, the others two. It returns nil
// when radius <= 0, sectors < 3 or stacks < 2.
func SphereVertices(radius float32, sectors, stacks int) []float32 {
	if radius <= 0 || sectors < 3 || stacks < 2 {
		return nil
	}
	sectorStep := 2 * math32.Pi / float32(sectors)
	stackStep := math32.Pi / float32(stacks)

	ring := sectors + 1
	points := make([]mgl32.Vec3, 0, (stacks+1)*ring)
	for i := 0; i <= stacks; i++ {
		stackAngle := math32.Pi/2 - float32(i)*stackStep
		xz := radius * math32.Cos(stackAngle)
		y := radius * math32.Sin(stackAngle)
		for j := 0; j <= sectors; j++ {
			sectorAngle := float32(j) * sectorStep
			points = append(points, mgl32.Vec3{
				xz * math32.Cos(sectorAngle),
				y,
				-xz * math32.Sin(sectorAngle),
			})
		}
	}

	out := make([]float32, 0, 2*sectors*(stacks-1)*3*3)
	emit := func(idx ...int) {
		for _, k := range idx {
			p := points[k]
			out = append(out, p[0], p[1], p[2])
		}
	}
	for i := 0; i < stacks; i++ {
		k1 := i * ring
		k2 := k1 + ring
		for j := 0; j < sectors; j, k1, k2 = j+1, k1+1, k2+1 {
			if i != 0 {
				emit(k1, k2, k1+1)
			}
			if i != stacks-1 {
				emit(k1+1, k2, k2+1)
			}
		}
	}
	return out
}
