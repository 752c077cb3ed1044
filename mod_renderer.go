package flyscene

import (
	"errors"
	"fmt"

	"github.com/flyscene/flyscene/render/core"
	"github.com/flyscene/flyscene/render/gpu"
	"github.com/flyscene/flyscene/render/shaders"
)

// Renderer owns the device, the identity allocator and the scenes drawn each
// frame. World is drawn flat, Guides with the axis program and Overlay (the
// pick marker) last.
type Renderer struct {
	Device  gpu.Device
	IDs     *core.IDAllocator
	World   *core.Scene
	Guides  *core.Scene
	Overlay *core.Scene

	Marker        *core.Geometry
	MarkerVisible bool
	Grid          *core.Geometry
	Sphere        *core.Geometry

	flat, axis, marker gpu.Program

	log       Logger
	inFrame   bool
	lastDraws int
}

// NewRenderer compiles the programs and creates the marker on dev.
func NewRenderer(dev gpu.Device, log Logger) (*Renderer, error) {
	if log == nil {
		log = NewNopLogger()
	}
	r := &Renderer{
		Device:  dev,
		IDs:     core.NewIDAllocator(),
		World:   core.NewScene(),
		Guides:  core.NewScene(),
		Overlay: core.NewScene(),
		log:     log,
	}

	var err error
	if r.flat, err = dev.NewProgram(shaders.Flat()); err != nil {
		return nil, err
	}
	if r.axis, err = dev.NewProgram(shaders.Axis()); err != nil {
		r.flat.Release()
		return nil, err
	}
	if r.marker, err = dev.NewProgram(shaders.Marker()); err != nil {
		r.flat.Release()
		r.axis.Release()
		return nil, err
	}

	r.Marker, err = core.NewMarker(dev, r.IDs)
	if err != nil {
		r.releasePrograms()
		return nil, err
	}
	if err := r.Overlay.Insert(r.Marker); err != nil {
		r.releasePrograms()
		return nil, err
	}
	log.Debugf("renderer on %s: world %s, guides %s, overlay %s",
		dev.Name(), r.World.Label(), r.Guides.Label(), r.Overlay.Label())
	return r, nil
}

// Replace uploads new vertices into g. A size mismatch is logged and the
// upload still takes effect.
func (r *Renderer) Replace(g *core.Geometry, vertices []float32) error {
	err := g.ReplaceVertices(vertices)
	var mismatch *core.MismatchError
	if errors.As(err, &mismatch) {
		r.log.Warnf("%v", mismatch)
		return nil
	}
	return err
}

// SetGrid builds the ground grid in World, replacing any previous one since
// a different radius needs a different buffer size. A radius of zero
// removes it.
func (r *Renderer) SetGrid(radius int) error {
	if r.Grid != nil {
		r.World.Remove(r.Grid.ID())
		r.Grid = nil
	}
	if radius <= 0 {
		return nil
	}
	grid, err := core.NewLines(r.Device, r.IDs, core.GridVertices(radius))
	if err != nil {
		return fmt.Errorf("create grid: %w", err)
	}
	grid.Transform().Position = core.GridOrigin(radius)
	if err := r.World.Insert(grid); err != nil {
		grid.Release()
		return err
	}
	r.Grid = grid
	return nil
}

// SetSphere rebuilds the sphere in World at the origin. A radius of zero
// removes it.
func (r *Renderer) SetSphere(radius float32, sectors, stacks int) error {
	if r.Sphere != nil {
		r.World.Remove(r.Sphere.ID())
		r.Sphere = nil
	}
	if radius <= 0 {
		return nil
	}
	sphere, err := core.NewSphere(r.Device, r.IDs, radius, sectors, stacks)
	if err != nil {
		return fmt.Errorf("create sphere: %w", err)
	}
	if err := r.World.Insert(sphere); err != nil {
		sphere.Release()
		return err
	}
	r.Sphere = sphere
	return nil
}

func (r *Renderer) BeginFrame() bool {
	if err := r.Device.BeginFrame(r.World.ClearColor()); err != nil {
		r.log.Warnf("skipping frame: %v", err)
		r.inFrame = false
		return false
	}
	r.inFrame = true
	r.lastDraws = 0
	return true
}

func (r *Renderer) InFrame() bool { return r.inFrame }

// DrawScenes draws World and Guides and returns the number of draw calls.
func (r *Renderer) DrawScenes(cam *core.Camera) int {
	if !r.inFrame {
		return 0
	}
	n := r.World.DrawAll(r.flat, cam)
	n += r.Guides.DrawAll(r.axis, cam)
	r.lastDraws += n
	return n
}

func (r *Renderer) DrawOverlay(cam *core.Camera) int {
	if !r.inFrame || !r.MarkerVisible {
		return 0
	}
	n := r.Overlay.DrawAll(r.marker, cam)
	r.lastDraws += n
	return n
}

func (r *Renderer) EndFrame() error {
	if !r.inFrame {
		return nil
	}
	r.inFrame = false
	return r.Device.EndFrame()
}

// LastDraws is the number of draw calls issued in the last frame.
func (r *Renderer) LastDraws() int { return r.lastDraws }

// ToggleWireframe flips polygon rasterization when the backend supports it.
func (r *Renderer) ToggleWireframe() bool {
	w, ok := r.Device.(gpu.Wireframer)
	if !ok {
		r.log.Warnf("wireframe is not supported by the %s backend", r.Device.Name())
		return false
	}
	w.SetWireframe(!w.Wireframe())
	r.log.Infof("wireframe %v", w.Wireframe())
	return true
}

func (r *Renderer) releasePrograms() {
	for _, p := range []gpu.Program{r.flat, r.axis, r.marker} {
		if p != nil {
			p.Release()
		}
	}
}

// Release frees every scene and program. The device itself stays open.
func (r *Renderer) Release() {
	r.World.Release()
	r.Guides.Release()
	r.Overlay.Release()
	r.releasePrograms()
}

// RendererModule installs a Renderer on Device, or on a device created for
// Backend when Device is nil. Install panics when no device can be created.
type RendererModule struct {
	Backend   RendererName
	Wireframe bool
	Device    gpu.Device
}

func (m RendererModule) Install(app *App, cmd *Commands) {
	name := m.Backend
	if name == "" {
		name = RendererHeadless
	}
	ensureSingleRenderer(app, string(name))

	dev := m.Device
	closeDevice := func() {}
	if dev == nil {
		var err error
		dev, closeDevice, err = openDevice(app, name)
		if err != nil {
			app.Logger().Errorf("renderer %s: %v", name, err)
			panic(err)
		}
	}
	if w, ok := dev.(gpu.Wireframer); ok {
		w.SetWireframe(m.Wireframe)
	}

	r, err := NewRenderer(dev, app.Logger())
	if err != nil {
		closeDevice()
		app.Logger().Errorf("renderer %s: %v", name, err)
		panic(err)
	}
	cmd.AddResources(r)
	app.Logger().Infof("renderer %s ready", dev.Name())

	app.UseSystem(System(rendererWireframeSystem).InStage(Update))
	app.UseSystem(System(rendererBeginFrameSystem).InStage(PreRender))
	app.UseSystem(System(rendererDrawSystem).InStage(Render))
	app.UseSystem(System(rendererEndFrameSystem).InStage(Finale))

	cmd.OnShutdown(func() {
		r.Release()
		closeDevice()
	})
}

func rendererWireframeSystem(input *Input, r *Renderer) {
	if input.JustPressed[KeyP] {
		r.ToggleWireframe()
	}
}

func rendererBeginFrameSystem(input *Input, r *Renderer) {
	if input.FramebufferWidth > 0 && input.FramebufferHeight > 0 {
		r.Device.Resize(input.FramebufferWidth, input.FramebufferHeight)
	}
	r.BeginFrame()
}

func rendererDrawSystem(r *Renderer, cam *core.Camera) {
	r.DrawScenes(cam)
}

func rendererEndFrameSystem(r *Renderer) {
	if err := r.EndFrame(); err != nil {
		r.log.Errorf("end frame: %v", err)
	}
}
