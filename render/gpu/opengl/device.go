// Package opengl implements gpu.Device on an OpenGL 4.1 core context.
package opengl

import (
	"fmt"
	"strings"

	"github.com/flyscene/flyscene/render/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const floatSize = 4

// Device expects the context to be current on the calling thread.
type Device struct {
	live          map[gpu.Handles]struct{}
	width, height int32
	wireframe     bool
}

// New loads the GL function pointers for the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", gpu.ErrNoContext, err)
	}
	gl.Enable(gl.DEPTH_TEST)
	return &Device{live: make(map[gpu.Handles]struct{})}, nil
}

func (d *Device) Name() string { return "opengl" }

// Version reports the driver's GL version string.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Device) Allocate(vertices []float32) (gpu.Handles, error) {
	if len(vertices) == 0 {
		return gpu.Handles{}, gpu.ErrEmptyUpload
	}
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	if vao == 0 || vbo == 0 {
		return gpu.Handles{}, gpu.ErrNoContext
	}

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, gpu.FloatsPerVertex, gl.FLOAT, false, gpu.FloatsPerVertex*floatSize, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	h := gpu.Handles{Buffer: gpu.BufferHandle(vbo), Array: gpu.ArrayHandle(vao)}
	d.live[h] = struct{}{}
	return h, nil
}

func (d *Device) Upload(h gpu.Handles, vertices []float32) error {
	if _, ok := d.live[h]; !ok {
		return fmt.Errorf("upload to buffer %d: %w", h.Buffer, gpu.ErrUnknownHandle)
	}
	if len(vertices) == 0 {
		return gpu.ErrEmptyUpload
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(h.Buffer))
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func (d *Device) Release(h gpu.Handles) {
	if _, ok := d.live[h]; !ok {
		return
	}
	delete(d.live, h)
	vao, vbo := uint32(h.Array), uint32(h.Buffer)
	gl.DeleteVertexArrays(1, &vao)
	gl.DeleteBuffers(1, &vbo)
}

func (d *Device) Draw(h gpu.Handles, topology gpu.Topology, first, count int) {
	gl.BindVertexArray(uint32(h.Array))
	gl.DrawArrays(drawMode(topology), int32(first), int32(count))
}

func (d *Device) BeginFrame(clear mgl32.Vec4) error {
	if d.width > 0 && d.height > 0 {
		gl.Viewport(0, 0, d.width, d.height)
	}
	if d.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	gl.ClearColor(clear[0], clear[1], clear[2], clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

// EndFrame reports the first pending GL error. Presenting is up to the window.
func (d *Device) EndFrame() error {
	gl.BindVertexArray(0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("opengl: error 0x%04x", code)
	}
	return nil
}

func (d *Device) Resize(width, height int) {
	d.width, d.height = int32(width), int32(height)
}

func (d *Device) SetWireframe(enabled bool) { d.wireframe = enabled }
func (d *Device) Wireframe() bool          { return d.wireframe }

func (d *Device) NewProgram(src gpu.ProgramSource) (gpu.Program, error) {
	id, err := newProgram(src.GLSLVertex, src.GLSLFragment)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", src.Name, err)
	}
	return &Program{id: id, name: src.Name}, nil
}

func drawMode(t gpu.Topology) uint32 {
	if t == gpu.Lines {
		return gl.LINES
	}
	return gl.TRIANGLES
}

// Program wraps a linked GL program object.
type Program struct {
	id   uint32
	name string
}

func (p *Program) Use() { gl.UseProgram(p.id) }

func (p *Program) UniformLocation(name string) int32 {
	return gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
}

func (p *Program) SetMat4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (p *Program) Release() {
	if p.id == 0 {
		return
	}
	gl.DeleteProgram(p.id)
	p.id = 0
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
