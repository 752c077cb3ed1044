// Package webgpu implements gpu.Device on a wgpu surface bound to a GLFW window.
package webgpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/flyscene/flyscene/render/gpu"
	"github.com/flyscene/flyscene/render/shaders"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	floatSize   = 4
	uniformSize = 16 * floatSize
	depthFormat = wgpu.TextureFormatDepth24Plus
)

var errNoFrame = errors.New("webgpu: no open frame")

type vertexBuffer struct {
	buf  *wgpu.Buffer
	size uint64
}

// binding is the per-geometry transform uniform. WebGPU has no vertex-array
// objects, so the array handle names this instead.
type binding struct {
	uniform *wgpu.Buffer
	group   *wgpu.BindGroup
}

type frame struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
}

type Device struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	config   *wgpu.SurfaceConfiguration

	depth     *wgpu.Texture
	depthView *wgpu.TextureView
	depthErr  error
	newDepth  func(width, height uint32) (*wgpu.Texture, *wgpu.TextureView, error)

	uniformLayout  *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout

	nextName uint32
	buffers  map[gpu.BufferHandle]*vertexBuffer
	arrays   map[gpu.ArrayHandle]*binding

	frame *frame
	bound *Program
}

// New creates a surface for window and requests a device for it. On error
// everything created so far is released.
func New(window *glfw.Window) (dev *Device, err error) {
	d := &Device{
		buffers: make(map[gpu.BufferHandle]*vertexBuffer),
		arrays:  make(map[gpu.ArrayHandle]*binding),
	}
	d.newDepth = d.createDepthTexture
	defer func() {
		if err != nil {
			d.release()
		}
	}()

	d.instance = wgpu.CreateInstance(nil)
	d.surface = d.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	d.adapter, err = d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: d.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: request adapter: %v", gpu.ErrNoContext, err)
	}

	d.device, err = d.adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: request device: %v", gpu.ErrNoContext, err)
	}
	d.queue = d.device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := d.surface.GetCapabilities(d.adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return nil, fmt.Errorf("%w: surface reports %d formats and %d alpha modes",
			gpu.ErrNoContext, len(caps.Formats), len(caps.AlphaModes))
	}
	d.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	d.surface.Configure(d.adapter, d.device, d.config)
	if err = d.createDepth(); err != nil {
		return nil, err
	}

	d.uniformLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "TransformBGL",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uniformSize,
			},
		}},
	})
	if err != nil {
		return nil, err
	}
	d.pipelineLayout, err = d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{d.uniformLayout},
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) Name() string { return "webgpu" }

func (d *Device) name() uint32 {
	d.nextName++
	return d.nextName
}

// createDepth builds the depth attachment for the configured size. On
// failure the device has no depth attachment and BeginFrame refuses to run
// until a later Resize succeeds.
func (d *Device) createDepth() error {
	tex, view, err := d.newDepth(d.config.Width, d.config.Height)
	d.releaseDepth()
	if err != nil {
		d.depthErr = err
		return err
	}
	d.depth, d.depthView, d.depthErr = tex, view, nil
	return nil
}

func (d *Device) createDepthTexture(width, height uint32) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("create depth view: %w", err)
	}
	return tex, view, nil
}

func (d *Device) releaseDepth() {
	if d.depthView != nil {
		d.depthView.Release()
		d.depthView = nil
	}
	if d.depth != nil {
		d.depth.Release()
		d.depth = nil
	}
}

func (d *Device) createVertexBuffer(vertices []float32) (*vertexBuffer, error) {
	size := uint64(len(vertices) * floatSize)
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Vertices",
		Size:  size,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	d.queue.WriteBuffer(buf, 0, floatBytes(vertices))
	return &vertexBuffer{buf: buf, size: size}, nil
}

func (d *Device) Allocate(vertices []float32) (gpu.Handles, error) {
	if len(vertices) == 0 {
		return gpu.Handles{}, gpu.ErrEmptyUpload
	}
	vb, err := d.createVertexBuffer(vertices)
	if err != nil {
		return gpu.Handles{}, fmt.Errorf("allocate vertex buffer: %w", err)
	}

	uniform, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Transform",
		Size:  uniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.buf.Release()
		return gpu.Handles{}, fmt.Errorf("allocate transform uniform: %w", err)
	}
	group, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: d.uniformLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  uniform,
			Size:    uniformSize,
		}},
	})
	if err != nil {
		vb.buf.Release()
		uniform.Release()
		return gpu.Handles{}, fmt.Errorf("bind transform uniform: %w", err)
	}

	h := gpu.Handles{
		Array:  gpu.ArrayHandle(d.name()),
		Buffer: gpu.BufferHandle(d.name()),
	}
	d.buffers[h.Buffer] = vb
	d.arrays[h.Array] = &binding{uniform: uniform, group: group}
	return h, nil
}

// Upload writes in place when the data fits and reallocates the buffer
// under the same handle when it does not.
func (d *Device) Upload(h gpu.Handles, vertices []float32) error {
	vb, ok := d.buffers[h.Buffer]
	if !ok {
		return fmt.Errorf("upload to buffer %d: %w", h.Buffer, gpu.ErrUnknownHandle)
	}
	if len(vertices) == 0 {
		return gpu.ErrEmptyUpload
	}
	size := uint64(len(vertices) * floatSize)
	if size <= vb.buf.GetSize() {
		d.queue.WriteBuffer(vb.buf, 0, floatBytes(vertices))
		vb.size = size
		return nil
	}
	next, err := d.createVertexBuffer(vertices)
	if err != nil {
		return fmt.Errorf("grow buffer %d: %w", h.Buffer, err)
	}
	vb.buf.Release()
	d.buffers[h.Buffer] = next
	return nil
}

func (d *Device) Release(h gpu.Handles) {
	if vb, ok := d.buffers[h.Buffer]; ok {
		vb.buf.Release()
		delete(d.buffers, h.Buffer)
	}
	if b, ok := d.arrays[h.Array]; ok {
		b.group.Release()
		b.uniform.Release()
		delete(d.arrays, h.Array)
	}
}

// Draw writes the bound program's transform into the geometry's uniform and
// records the draw into the open pass. Drawing the same geometry twice in one
// frame keeps only the last transform.
func (d *Device) Draw(h gpu.Handles, topology gpu.Topology, first, count int) {
	if d.frame == nil || d.bound == nil {
		return
	}
	vb, okBuf := d.buffers[h.Buffer]
	b, okArr := d.arrays[h.Array]
	if !okBuf || !okArr {
		return
	}
	pipeline := d.bound.pipelines[topology]
	if pipeline == nil {
		return
	}
	m := d.bound.transform
	d.queue.WriteBuffer(b.uniform, 0, floatBytes(m[:]))

	pass := d.frame.pass
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, b.group, nil)
	pass.SetVertexBuffer(0, vb.buf, 0, vb.size)
	pass.Draw(uint32(count), 1, uint32(first), 0)
}

func (d *Device) BeginFrame(clear mgl32.Vec4) error {
	if d.frame != nil {
		return errors.New("webgpu: frame already open")
	}
	if d.depthView == nil {
		return fmt.Errorf("webgpu: no depth attachment: %w", d.depthErr)
	}
	texture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return fmt.Errorf("create view: %w", err)
	}
	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		texture.Release()
		return fmt.Errorf("create command encoder: %w", err)
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(clear[0]),
				G: float64(clear[1]),
				B: float64(clear[2]),
				A: float64(clear[3]),
			},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	d.frame = &frame{texture: texture, view: view, encoder: encoder, pass: pass}
	return nil
}

// EndFrame submits the recorded pass and presents the surface.
func (d *Device) EndFrame() error {
	f := d.frame
	if f == nil {
		return errNoFrame
	}
	d.frame = nil
	defer f.texture.Release()
	defer f.view.Release()

	if err := f.pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}
	cmd, err := f.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	d.queue.Submit(cmd)
	d.surface.Present()
	return nil
}

// Resize reconfigures the surface. A failed depth rebuild is retried on the
// next call even when the size is unchanged.
func (d *Device) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if d.config.Width == uint32(width) && d.config.Height == uint32(height) && d.depthView != nil {
		return
	}
	d.config.Width = uint32(width)
	d.config.Height = uint32(height)
	if d.surface != nil {
		d.surface.Configure(d.adapter, d.device, d.config)
	}
	if err := d.createDepth(); err != nil {
		d.depthErr = fmt.Errorf("resize to %dx%d: %w", width, height, err)
	}
}

func (d *Device) NewProgram(src gpu.ProgramSource) (gpu.Program, error) {
	if src.WGSL == "" {
		return nil, fmt.Errorf("program %q: no WGSL source", src.Name)
	}
	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          src.Name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src.WGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", src.Name, err)
	}
	defer module.Release()

	p := &Program{dev: d, name: src.Name, pipelines: make(map[gpu.Topology]*wgpu.RenderPipeline)}
	for topology, prim := range map[gpu.Topology]wgpu.PrimitiveTopology{
		gpu.Triangles: wgpu.PrimitiveTopologyTriangleList,
		gpu.Lines:     wgpu.PrimitiveTopologyLineList,
	} {
		pipeline, err := d.createPipeline(src.Name, module, prim)
		if err != nil {
			p.Release()
			return nil, fmt.Errorf("program %q (%s): %w", src.Name, topology, err)
		}
		p.pipelines[topology] = pipeline
	}
	return p, nil
}

func (d *Device) createPipeline(label string, module *wgpu.ShaderModule, topology wgpu.PrimitiveTopology) (*wgpu.RenderPipeline, error) {
	keep := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}
	return d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: d.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: shaders.VertexEntry,
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: gpu.FloatsPerVertex * floatSize,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{{
					Format:         wgpu.VertexFormatFloat32x3,
					Offset:         0,
					ShaderLocation: 0,
				}},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: shaders.FragmentEntry,
			Targets: []wgpu.ColorTargetState{{
				Format:    d.config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      keep,
			StencilBack:       keep,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
}

// Close releases the surface, device and every remaining buffer.
func (d *Device) Close() {
	for b := range d.buffers {
		d.Release(gpu.Handles{Buffer: b})
	}
	for a := range d.arrays {
		d.Release(gpu.Handles{Array: a})
	}
	d.release()
}

// release frees whatever New managed to create, in reverse order.
func (d *Device) release() {
	d.releaseDepth()
	if d.pipelineLayout != nil {
		d.pipelineLayout.Release()
		d.pipelineLayout = nil
	}
	if d.uniformLayout != nil {
		d.uniformLayout.Release()
		d.uniformLayout = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

// Program holds one pipeline per topology built from the same WGSL module.
type Program struct {
	dev       *Device
	name      string
	pipelines map[gpu.Topology]*wgpu.RenderPipeline
	transform mgl32.Mat4
}

func (p *Program) Use() { p.dev.bound = p }

func (p *Program) UniformLocation(name string) int32 {
	if name == gpu.TransformUniform {
		return 0
	}
	return -1
}

// SetMat4 stores the matrix; it reaches the GPU with the next Draw.
func (p *Program) SetMat4(location int32, m mgl32.Mat4) {
	if location == 0 {
		p.transform = m
	}
}

func (p *Program) Release() {
	for t, pipeline := range p.pipelines {
		pipeline.Release()
		delete(p.pipelines, t)
	}
	if p.dev.bound == p {
		p.dev.bound = nil
	}
}

func floatBytes(v []float32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*floatSize)
}
