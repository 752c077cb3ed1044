package shaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramsCarryEverySource(t *testing.T) {
	for _, src := range []struct {
		name string
		vert string
		frag string
		wgsl string
	}{
		{Flat().Name, Flat().GLSLVertex, Flat().GLSLFragment, Flat().WGSL},
		{Axis().Name, Axis().GLSLVertex, Axis().GLSLFragment, Axis().WGSL},
		{Marker().Name, Marker().GLSLVertex, Marker().GLSLFragment, Marker().WGSL},
	} {
		assert.NotEmpty(t, src.name)
		assert.Contains(t, src.vert, "uniform mat4 transform", src.name)
		assert.Contains(t, src.frag, "FragColor", src.name)
		assert.True(t, strings.Contains(src.wgsl, "fn "+VertexEntry) && strings.Contains(src.wgsl, "fn "+FragmentEntry), src.name)
	}
}
