package opengl

import (
	"testing"

	"github.com/flyscene/flyscene/render/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"
)

var (
	_ gpu.Device     = (*Device)(nil)
	_ gpu.Wireframer = (*Device)(nil)
	_ gpu.Program    = (*Program)(nil)
)

func TestDrawMode(t *testing.T) {
	assert.Equal(t, uint32(gl.TRIANGLES), drawMode(gpu.Triangles))
	assert.Equal(t, uint32(gl.LINES), drawMode(gpu.Lines))
}

func TestReleaseUnknownIsNoop(t *testing.T) {
	d := &Device{live: make(map[gpu.Handles]struct{})}
	d.Release(gpu.Handles{Buffer: 3, Array: 4})
	assert.ErrorIs(t, d.Upload(gpu.Handles{Buffer: 3, Array: 4}, []float32{1, 2, 3}), gpu.ErrUnknownHandle)
}
