// Package config loads the TOML settings file and watches it for edits.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is used when no -config flag is given.
const DefaultPath = "flyscene.toml"

const (
	BackendOpenGL   = "opengl"
	BackendWebGPU   = "webgpu"
	BackendHeadless = "headless"
)

var Backends = []string{BackendOpenGL, BackendWebGPU, BackendHeadless}

type Config struct {
	Window   Window   `toml:"window"`
	Renderer Renderer `toml:"renderer"`
	Camera   Camera   `toml:"camera"`
	Scene    Scene    `toml:"scene"`
	Picker   Picker   `toml:"picker"`
	Log      Log      `toml:"log"`
}

type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

type Renderer struct {
	Backend   string `toml:"backend"`
	Wireframe bool   `toml:"wireframe"`
}

// Camera angles are in degrees, speed in units per second.
type Camera struct {
	Position    [3]float32 `toml:"position"`
	FieldOfView float32    `toml:"fov"`
	Near        float32    `toml:"near"`
	Far         float32    `toml:"far"`
	Speed       float32    `toml:"speed"`
	Sensitivity float32    `toml:"sensitivity"`
}

type Scene struct {
	SkyColor    [4]float32 `toml:"sky_color"`
	RandomCubes int        `toml:"random_cubes"`
	Seed        int64      `toml:"seed"`
	GridRadius  int        `toml:"grid_radius"`
	ShowGuides  bool       `toml:"show_guides"`

	// A sphere radius of zero leaves the sphere out.
	SphereRadius  float32 `toml:"sphere_radius"`
	SphereSectors int     `toml:"sphere_sectors"`
	SphereStacks  int     `toml:"sphere_stacks"`
}

// Picker.ScrollStep is the plane height change per scroll notch.
type Picker struct {
	ScrollStep float32 `toml:"scroll_step"`
	ShowMarker bool    `toml:"show_marker"`
}

type Log struct {
	Debug  bool   `toml:"debug"`
	Prefix string `toml:"prefix"`
}

func Default() Config {
	return Config{
		Window: Window{
			Title:  "flyscene",
			Width:  800,
			Height: 600,
			VSync:  true,
		},
		Renderer: Renderer{Backend: BackendOpenGL},
		Camera: Camera{
			Position:    [3]float32{0, 0, 2},
			FieldOfView: 45,
			Near:        0.1,
			Far:         1000,
			Speed:       5,
			Sensitivity: 0.1,
		},
		Scene: Scene{
			SkyColor:    [4]float32{0, 0, 0, 1},
			RandomCubes: 100,
			Seed:        1,
			GridRadius:  30,
			ShowGuides:  true,

			SphereRadius:  5,
			SphereSectors: 5,
			SphereStacks:  5,
		},
		Picker: Picker{ScrollStep: 1, ShowMarker: true},
		Log:    Log{Prefix: "[flyscene]"},
	}
}

// Load reads path over Default(). A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	cfg, err = Parse(data)
	if err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over Default() and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if !slices.Contains(Backends, c.Renderer.Backend) {
		errs = append(errs, fmt.Errorf("unknown renderer backend %q (want one of %v)", c.Renderer.Backend, Backends))
	}
	if c.Camera.FieldOfView <= 0 || c.Camera.FieldOfView >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v out of (0, 180)", c.Camera.FieldOfView))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip range [%v, %v] invalid", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.Speed < 0 {
		errs = append(errs, fmt.Errorf("camera speed %v is negative", c.Camera.Speed))
	}
	if c.Camera.Sensitivity <= 0 {
		errs = append(errs, fmt.Errorf("camera sensitivity %v must be positive", c.Camera.Sensitivity))
	}
	if c.Picker.ScrollStep <= 0 {
		errs = append(errs, fmt.Errorf("picker scroll_step %v must be positive", c.Picker.ScrollStep))
	}
	for i, v := range c.Scene.SkyColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("sky_color[%d] = %v out of [0, 1]", i, v))
		}
	}
	if c.Scene.RandomCubes < 0 {
		errs = append(errs, fmt.Errorf("random_cubes %d is negative", c.Scene.RandomCubes))
	}
	if c.Scene.GridRadius < 0 {
		errs = append(errs, fmt.Errorf("grid_radius %d is negative", c.Scene.GridRadius))
	}
	if c.Scene.SphereRadius < 0 {
		errs = append(errs, fmt.Errorf("sphere_radius %v is negative", c.Scene.SphereRadius))
	}
	if c.Scene.SphereRadius > 0 && (c.Scene.SphereSectors < 3 || c.Scene.SphereStacks < 2) {
		errs = append(errs, fmt.Errorf("sphere needs at least 3 sectors and 2 stacks, got %d and %d",
			c.Scene.SphereSectors, c.Scene.SphereStacks))
	}
	return errors.Join(errs...)
}
