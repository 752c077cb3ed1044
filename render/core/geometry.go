package core

import (
	"fmt"
	"slices"

	"github.com/flyscene/flyscene/render/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
)

// Kind is the closed set of shapes a Geometry can take.
type Kind int

const (
	KindTriangle Kind = iota
	KindCube
	KindMarker
	KindLines
	// KindSphere is a tessellated sphere drawn as a plain triangle list.
	KindSphere
)

func (k Kind) String() string {
	switch k {
	case KindTriangle:
		return "triangle"
	case KindCube:
		return "cube"
	case KindMarker:
		return "marker"
	case KindLines:
		return "lines"
	case KindSphere:
		return "sphere"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// VertexCount is the fixed number of vertices drawn for the kind, or 0 when
// the kind draws whatever it holds.
func (k Kind) VertexCount() int {
	switch k {
	case KindTriangle:
		return 3
	case KindCube, KindMarker:
		return 36
	default:
		return 0
	}
}

func (k Kind) Topology() gpu.Topology {
	if k == KindLines {
		return gpu.Lines
	}
	return gpu.Triangles
}

func (k Kind) validate(vertices []float32) error {
	n := len(vertices)
	if n == 0 || n%gpu.FloatsPerVertex != 0 {
		return fmt.Errorf("%s with %d floats: %w", k, n, ErrVertexLayout)
	}
	if want := k.VertexCount(); want != 0 && n != want*gpu.FloatsPerVertex {
		return fmt.Errorf("%s needs %d floats, got %d: %w", k, want*gpu.FloatsPerVertex, n, ErrVertexLayout)
	}
	if k == KindLines && (n/gpu.FloatsPerVertex)%2 != 0 {
		return fmt.Errorf("lines need vertex pairs, got %d vertices: %w", n/gpu.FloatsPerVertex, ErrVertexLayout)
	}
	if k == KindSphere && (n/gpu.FloatsPerVertex)%3 != 0 {
		return fmt.Errorf("sphere needs whole triangles, got %d vertices: %w", n/gpu.FloatsPerVertex, ErrVertexLayout)
	}
	return nil
}

// noCopy makes `go vet` flag accidental value copies of a Geometry.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// geometryState is the CPU side of a geometry that Clone duplicates.
type geometryState struct {
	Transform Transform
	Vertices  []float32
}

// Geometry owns one vertex buffer and one vertex-array handle on a device.
// A Geometry is always used through a pointer; Clone and Transfer are the
// only ways to produce another owner.
type Geometry struct {
	_ noCopy

	id        ID
	kind      Kind
	device    gpu.Device
	handles   gpu.Handles
	allocated int
	state     geometryState
}

// NewGeometry allocates GPU resources for vertices and assigns the next identity.
func NewGeometry(dev gpu.Device, ids *IDAllocator, kind Kind, vertices []float32) (*Geometry, error) {
	if err := kind.validate(vertices); err != nil {
		return nil, err
	}
	data := slices.Clone(vertices)
	handles, err := dev.Allocate(data)
	if err != nil {
		return nil, fmt.Errorf("allocate %s: %w", kind, err)
	}
	return &Geometry{
		id:        ids.Next(),
		kind:      kind,
		device:    dev,
		handles:   handles,
		allocated: len(data),
		state:     geometryState{Vertices: data},
	}, nil
}

func NewTriangle(dev gpu.Device, ids *IDAllocator, vertices [9]float32) (*Geometry, error) {
	return NewGeometry(dev, ids, KindTriangle, vertices[:])
}

func NewCube(dev gpu.Device, ids *IDAllocator) (*Geometry, error) {
	return NewGeometry(dev, ids, KindCube, CubeVertices(1))
}

// NewMarker creates the half-size cube used to show the pick point.
func NewMarker(dev gpu.Device, ids *IDAllocator) (*Geometry, error) {
	return NewGeometry(dev, ids, KindMarker, CubeVertices(0.5))
}

func NewLines(dev gpu.Device, ids *IDAllocator, vertices []float32) (*Geometry, error) {
	return NewGeometry(dev, ids, KindLines, vertices)
}

// NewSphere tessellates a sphere centered on the origin. See SphereVertices.
func NewSphere(dev gpu.Device, ids *IDAllocator, radius float32, sectors, stacks int) (*Geometry, error) {
	return NewGeometry(dev, ids, KindSphere, SphereVertices(radius, sectors, stacks))
}

func (g *Geometry) ID() ID               { return g.id }
func (g *Geometry) Kind() Kind           { return g.kind }
func (g *Geometry) Handles() gpu.Handles { return g.handles }
func (g *Geometry) Released() bool       { return g.handles.IsZero() }
func (g *Geometry) VertexLen() int       { return len(g.state.Vertices) }
func (g *Geometry) String() string       { return fmt.Sprintf("%s#%d", g.kind, g.id) }

// Transform is the geometry's placement; callers mutate it in place.
func (g *Geometry) Transform() *Transform { return &g.state.Transform }

func (g *Geometry) Matrix() mgl32.Mat4 { return g.state.Transform.Matrix() }

// Vertices returns a copy of the vertex data last uploaded.
func (g *Geometry) Vertices() []float32 { return slices.Clone(g.state.Vertices) }

// Clone duplicates the geometry into freshly allocated GPU resources with a
// new identity. The two geometries share nothing afterwards.
func (g *Geometry) Clone(ids *IDAllocator) (*Geometry, error) {
	if g.Released() {
		return nil, fmt.Errorf("clone %s: %w", g, ErrReleased)
	}
	var state geometryState
	if err := copier.CopyWithOption(&state, &g.state, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone %s: %w", g, err)
	}
	handles, err := g.device.Allocate(state.Vertices)
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", g, err)
	}
	return &Geometry{
		id:        ids.Next(),
		kind:      g.kind,
		device:    g.device,
		handles:   handles,
		allocated: len(state.Vertices),
		state:     state,
	}, nil
}

// Transfer moves ownership into a new Geometry. The receiver is left empty:
// no identity, no handles, no vertices, and releasing it does nothing.
func (g *Geometry) Transfer() *Geometry {
	moved := &Geometry{
		id:        g.id,
		kind:      g.kind,
		device:    g.device,
		handles:   g.handles,
		allocated: g.allocated,
		state:     g.state,
	}
	g.id = NoID
	g.handles = gpu.Handles{}
	g.allocated = 0
	g.state = geometryState{}
	return moved
}

// ReplaceVertices uploads new vertex data into the existing buffer, keeping
// identity and handles. A length different from the allocation returns a
// *MismatchError; the upload still happens and draws are clamped to the
// vertices present.
func (g *Geometry) ReplaceVertices(vertices []float32) error {
	if g.Released() {
		return fmt.Errorf("replace vertices of %s: %w", g, ErrReleased)
	}
	if len(vertices) == 0 || len(vertices)%gpu.FloatsPerVertex != 0 {
		return fmt.Errorf("replace vertices of %s with %d floats: %w", g, len(vertices), ErrVertexLayout)
	}
	data := slices.Clone(vertices)
	if err := g.device.Upload(g.handles, data); err != nil {
		return fmt.Errorf("replace vertices of %s: %w", g, err)
	}
	g.state.Vertices = data
	if len(data) != g.allocated {
		return &MismatchError{ID: g.id, Kind: g.kind, Want: g.allocated, Got: len(data)}
	}
	return nil
}

// DrawCount is the number of vertices Draw submits.
func (g *Geometry) DrawCount() int {
	available := len(g.state.Vertices) / gpu.FloatsPerVertex
	switch g.kind {
	case KindLines:
		available -= available % 2
	case KindSphere:
		available -= available % 3
	}
	if want := g.kind.VertexCount(); want != 0 && want <= available {
		return want
	}
	return available
}

// Draw issues one draw call with the bound program. It does not change state.
func (g *Geometry) Draw() {
	if g.Released() {
		return
	}
	count := g.DrawCount()
	if count == 0 {
		return
	}
	g.device.Draw(g.handles, g.kind.Topology(), 0, count)
}

// Release frees the GPU resources once. Later calls are no-ops.
func (g *Geometry) Release() {
	if g.Released() {
		return
	}
	g.device.Release(g.handles)
	g.handles = gpu.Handles{}
}
