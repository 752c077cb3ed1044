package gpu

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the number of position components per vertex.
// Every backend uses the same single-attribute layout: location 0, vec3, tightly packed.
const FloatsPerVertex = 3

// TransformUniform is the uniform every program exposes for the combined
// projection * view * model matrix.
const TransformUniform = "transform"

var (
	ErrNoContext     = errors.New("gpu: graphics context unavailable")
	ErrUnknownHandle = errors.New("gpu: unknown handle")
	ErrEmptyUpload   = errors.New("gpu: empty vertex upload")
)

type BufferHandle uint32
type ArrayHandle uint32

// Handles pairs a vertex buffer with the vertex-array state describing it.
// The zero value holds nothing; backends never hand out zero names.
type Handles struct {
	Buffer BufferHandle
	Array  ArrayHandle
}

func (h Handles) IsZero() bool {
	return h.Buffer == 0 && h.Array == 0
}

type Topology int

const (
	Triangles Topology = iota
	Lines
)

func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	default:
		return "unknown"
	}
}

// ProgramSource carries a shader program for every backend. Backends pick the
// sources they understand.
type ProgramSource struct {
	Name         string
	GLSLVertex   string
	GLSLFragment string
	WGSL         string
}

// Program is the shader context handed to draw calls.
type Program interface {
	Use()
	UniformLocation(name string) int32
	SetMat4(location int32, m mgl32.Mat4)
	Release()
}

// Device owns GPU memory for geometry. All calls must happen on the thread
// that owns the graphics context.
type Device interface {
	Name() string

	// Allocate creates a fresh buffer/array pair and uploads vertices into it.
	Allocate(vertices []float32) (Handles, error)
	// Upload replaces the contents of an existing buffer. The buffer storage is
	// resized to fit the data.
	Upload(h Handles, vertices []float32) error
	// Release frees both handles. Releasing zero handles is a no-op.
	Release(h Handles)
	Draw(h Handles, topology Topology, first, count int)

	BeginFrame(clear mgl32.Vec4) error
	EndFrame() error
	Resize(width, height int)

	NewProgram(src ProgramSource) (Program, error)
}

// Wireframer is implemented by backends that can switch polygon rasterization.
type Wireframer interface {
	SetWireframe(enabled bool)
	Wireframe() bool
}
