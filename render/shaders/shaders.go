package shaders

import (
	_ "embed"

	"github.com/flyscene/flyscene/render/gpu"
)

//go:embed flat.vert
var FlatVertexGLSL string

//go:embed flat.frag
var FlatFragmentGLSL string

//go:embed axis.vert
var AxisVertexGLSL string

//go:embed axis.frag
var AxisFragmentGLSL string

//go:embed marker.frag
var MarkerFragmentGLSL string

//go:embed flat.wgsl
var FlatWGSL string

//go:embed axis.wgsl
var AxisWGSL string

//go:embed marker.wgsl
var MarkerWGSL string

// WGSL entry points shared by every program.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Flat draws scene geometry in a single grey.
func Flat() gpu.ProgramSource {
	return gpu.ProgramSource{Name: "flat", GLSLVertex: FlatVertexGLSL, GLSLFragment: FlatFragmentGLSL, WGSL: FlatWGSL}
}

// Axis colors the origin axes from their vertex positions.
func Axis() gpu.ProgramSource {
	return gpu.ProgramSource{Name: "axis", GLSLVertex: AxisVertexGLSL, GLSLFragment: AxisFragmentGLSL, WGSL: AxisWGSL}
}

func Marker() gpu.ProgramSource {
	return gpu.ProgramSource{Name: "marker", GLSLVertex: FlatVertexGLSL, GLSLFragment: MarkerFragmentGLSL, WGSL: MarkerWGSL}
}
