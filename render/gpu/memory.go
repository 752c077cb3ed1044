package gpu

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// DrawCall is one draw recorded by the MemoryDevice.
type DrawCall struct {
	Handles   Handles
	Topology  Topology
	First     int
	Count     int
	Program   string
	Transform mgl32.Mat4
}

// MemoryDevice is a headless Device keeping buffer contents in host memory.
// It backs the headless renderer and every GPU-facing test.
type MemoryDevice struct {
	nextName uint32
	buffers  map[BufferHandle][]float32
	arrays   map[ArrayHandle]BufferHandle

	allocations    int
	releases       int
	strayReleases  int
	uploads        int
	frames         int
	inFrame        bool
	clear          mgl32.Vec4
	width, height  int
	draws          []DrawCall
	frameDraws     int
	boundProgram   *memoryProgram
	wireframe      bool
	FailAllocation bool
}

func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{
		buffers: make(map[BufferHandle][]float32),
		arrays:  make(map[ArrayHandle]BufferHandle),
	}
}

func (d *MemoryDevice) Name() string { return "headless" }

func (d *MemoryDevice) name() uint32 {
	d.nextName++
	return d.nextName
}

func (d *MemoryDevice) Allocate(vertices []float32) (Handles, error) {
	if d.FailAllocation {
		return Handles{}, ErrNoContext
	}
	if len(vertices) == 0 {
		return Handles{}, ErrEmptyUpload
	}
	h := Handles{
		Array:  ArrayHandle(d.name()),
		Buffer: BufferHandle(d.name()),
	}
	d.buffers[h.Buffer] = slices.Clone(vertices)
	d.arrays[h.Array] = h.Buffer
	d.allocations++
	d.uploads++
	return h, nil
}

func (d *MemoryDevice) Upload(h Handles, vertices []float32) error {
	if _, ok := d.buffers[h.Buffer]; !ok {
		return fmt.Errorf("upload to buffer %d: %w", h.Buffer, ErrUnknownHandle)
	}
	if len(vertices) == 0 {
		return ErrEmptyUpload
	}
	d.buffers[h.Buffer] = slices.Clone(vertices)
	d.uploads++
	return nil
}

func (d *MemoryDevice) Release(h Handles) {
	if h.IsZero() {
		return
	}
	_, okBuf := d.buffers[h.Buffer]
	_, okArr := d.arrays[h.Array]
	if !okBuf || !okArr {
		d.strayReleases++
		return
	}
	delete(d.buffers, h.Buffer)
	delete(d.arrays, h.Array)
	d.releases++
}

func (d *MemoryDevice) Draw(h Handles, topology Topology, first, count int) {
	call := DrawCall{
		Handles:  h,
		Topology: topology,
		First:    first,
		Count:    count,
	}
	if d.boundProgram != nil {
		call.Program = d.boundProgram.name
		call.Transform = d.boundProgram.transform
	}
	d.draws = append(d.draws, call)
	d.frameDraws++
}

func (d *MemoryDevice) BeginFrame(clear mgl32.Vec4) error {
	if d.inFrame {
		return fmt.Errorf("gpu: frame %d already open", d.frames)
	}
	d.inFrame = true
	d.clear = clear
	d.frameDraws = 0
	return nil
}

func (d *MemoryDevice) EndFrame() error {
	if !d.inFrame {
		return fmt.Errorf("gpu: no open frame")
	}
	d.inFrame = false
	d.frames++
	return nil
}

func (d *MemoryDevice) Resize(width, height int) {
	d.width, d.height = width, height
}

func (d *MemoryDevice) SetWireframe(enabled bool) { d.wireframe = enabled }
func (d *MemoryDevice) Wireframe() bool          { return d.wireframe }

func (d *MemoryDevice) NewProgram(src ProgramSource) (Program, error) {
	return &memoryProgram{dev: d, name: src.Name}, nil
}

// Contents returns a copy of the data currently stored in a buffer.
func (d *MemoryDevice) Contents(b BufferHandle) ([]float32, bool) {
	data, ok := d.buffers[b]
	return slices.Clone(data), ok
}

func (d *MemoryDevice) Live() int          { return len(d.buffers) }
func (d *MemoryDevice) Allocations() int   { return d.allocations }
func (d *MemoryDevice) Releases() int      { return d.releases }
func (d *MemoryDevice) StrayReleases() int { return d.strayReleases }
func (d *MemoryDevice) Uploads() int       { return d.uploads }
func (d *MemoryDevice) Frames() int        { return d.frames }
func (d *MemoryDevice) FrameDraws() int    { return d.frameDraws }
func (d *MemoryDevice) ClearColor() mgl32.Vec4 {
	return d.clear
}
func (d *MemoryDevice) Viewport() (int, int) { return d.width, d.height }

// Draws returns the draw calls recorded since the last ResetDraws.
func (d *MemoryDevice) Draws() []DrawCall { return slices.Clone(d.draws) }
func (d *MemoryDevice) ResetDraws()       { d.draws = d.draws[:0] }

type memoryProgram struct {
	dev       *MemoryDevice
	name      string
	transform mgl32.Mat4
	released  bool
}

func (p *memoryProgram) Use() { p.dev.boundProgram = p }

func (p *memoryProgram) UniformLocation(name string) int32 {
	if name == TransformUniform {
		return 0
	}
	return -1
}

func (p *memoryProgram) SetMat4(location int32, m mgl32.Mat4) {
	if location != 0 {
		return
	}
	p.transform = m
}

func (p *memoryProgram) Release() {
	p.released = true
	if p.dev.boundProgram == p {
		p.dev.boundProgram = nil
	}
}
