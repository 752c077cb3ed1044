package webgpu

import (
	"errors"
	"testing"

	"github.com/flyscene/flyscene/render/gpu"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ gpu.Device  = (*Device)(nil)
	_ gpu.Program = (*Program)(nil)
)

func TestFloatBytes(t *testing.T) {
	b := floatBytes([]float32{1, 2, 3})
	require.Len(t, b, 12)
	// 1.0f little endian
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, b[:4])
}

func TestProgramUniforms(t *testing.T) {
	d := &Device{}
	p := &Program{dev: d}
	p.Use()
	assert.Same(t, p, d.bound)

	loc := p.UniformLocation(gpu.TransformUniform)
	assert.Equal(t, int32(0), loc)
	assert.Equal(t, int32(-1), p.UniformLocation("color"))

	m := mgl32.Translate3D(1, 2, 3)
	p.SetMat4(loc, m)
	p.SetMat4(-1, mgl32.Ident4())
	assert.Equal(t, m, p.transform)

	p.Release()
	assert.Nil(t, d.bound)
}

func TestDrawWithoutFrameIsNoop(t *testing.T) {
	d := &Device{}
	d.Draw(gpu.Handles{Buffer: 1, Array: 2}, gpu.Triangles, 0, 3)
	assert.ErrorIs(t, d.EndFrame(), errNoFrame)
}

func TestResizeDepthFailureSkipsFrames(t *testing.T) {
	errDepth := errors.New("out of memory")
	calls := 0
	d := &Device{config: &wgpu.SurfaceConfiguration{Width: 4, Height: 4}}
	d.newDepth = func(width, height uint32) (*wgpu.Texture, *wgpu.TextureView, error) {
		calls++
		assert.Equal(t, uint32(10), width)
		assert.Equal(t, uint32(20), height)
		return nil, nil, errDepth
	}

	d.Resize(10, 20)
	assert.Equal(t, 1, calls)
	assert.Nil(t, d.depth)
	assert.Nil(t, d.depthView)
	assert.Equal(t, uint32(10), d.config.Width)

	err := d.BeginFrame(mgl32.Vec4{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDepth)
	assert.Nil(t, d.frame)

	// same size again still retries while there is no depth attachment
	d.Resize(10, 20)
	assert.Equal(t, 2, calls)

	d.Resize(0, 20)
	assert.Equal(t, 2, calls)
}

func TestReleasePartialDevice(t *testing.T) {
	d := &Device{config: &wgpu.SurfaceConfiguration{}}
	assert.NotPanics(t, d.release)
	assert.NotPanics(t, d.Close)
	assert.Nil(t, d.instance)
	assert.Nil(t, d.device)
}
