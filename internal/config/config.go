package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all runtime parameters consumed by the renderer.
type Config struct {
	Render       Render       `toml:"render"`
	Tessellation Tessellation `toml:"tessellation"`
	Shadows      Shadows      `toml:"shadows"`
	Effects      Effects      `toml:"effects"`
	Camera       Camera       `toml:"camera"`
	Output       Output       `toml:"output"`
}

// Render holds framebuffer and projection settings.
type Render struct {
	Width       int        `toml:"width"`
	Height      int        `toml:"height"`
	Supersample int        `toml:"supersample"`
	Near        float32    `toml:"near"`
	Far         float32    `toml:"far"`
	Exposure    float32    `toml:"exposure"`
	Gamma       float32    `toml:"gamma"`
	Tonemap     string     `toml:"tonemap"`
	Background  [3]float32 `toml:"background"`
}

// Tessellation holds the primitive subdivision parameters.
type Tessellation struct {
	Param1 int `toml:"param1"`
	Param2 int `toml:"param2"`
}

// Shadows holds shadow-map settings.
type Shadows struct {
	Enabled *bool   `toml:"enabled"`
	Size    int     `toml:"size"`
	Bias    float32 `toml:"bias"`
	Soft    bool    `toml:"soft"`
	Extent  float32 `toml:"extent"`
}

// Effects holds the optional post-processing toggles.
type Effects struct {
	Bloom          bool    `toml:"bloom"`
	BloomThreshold float32 `toml:"bloom_threshold"`
	BloomStrength  float32 `toml:"bloom_strength"`
	Trail          bool    `toml:"trail"`
	TrailMaxAge    float32 `toml:"trail_max_age"`
	TrailSegment   float32 `toml:"trail_min_segment"`
}

// Camera holds interactive movement and flythrough settings.
type Camera struct {
	Speed        float32 `toml:"speed"`
	Sensitivity  float32 `toml:"sensitivity"`
	PathDuration float32 `toml:"path_duration"`
	PathEasing   string  `toml:"path_easing"`
	PathEnd      string  `toml:"path_end"`
}

// Output holds encoder settings for written frames.
type Output struct {
	Dir     string `toml:"dir"`
	Workers int    `toml:"workers"`
}

// Tonemap curves.
const (
	TonemapExposure = "exposure"
	TonemapACES     = "aces"
	TonemapNone     = "none"
)

// Path end policies.
const (
	PathHold    = "hold"
	PathLoop    = "loop"
	PathRelease = "release"
)

// Load reads a TOML config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Default returns a fully resolved config with no file and no flags.
func Default() Config {
	var cfg Config
	cfg.Resolve(Flags{})
	return cfg
}

// ShadowsEnabled reports whether shadow passes should run.
func (c *Config) ShadowsEnabled() bool {
	return c.Shadows.Enabled == nil || *c.Shadows.Enabled
}

// Resolve fills in any empty fields with defaults and clamps degenerate values.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Width > 0 {
		c.Render.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Render.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Render.Supersample = flags.Supersample
	}
	if flags.Param1 > 0 {
		c.Tessellation.Param1 = flags.Param1
	}
	if flags.Param2 > 0 {
		c.Tessellation.Param2 = flags.Param2
	}
	if flags.NoShadows {
		off := false
		c.Shadows.Enabled = &off
	}
	if flags.SoftShadows {
		c.Shadows.Soft = true
	}
	if flags.Bloom {
		c.Effects.Bloom = true
	}
	if flags.Trail {
		c.Effects.Trail = true
	}
	if flags.OutputDir != "" {
		c.Output.Dir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Output.Workers = flags.Workers
	}

	c.resolveRender()
	c.resolveTessellation()
	c.resolveShadows()
	c.resolveEffects()
	c.resolveCamera()

	if c.Output.Dir == "" {
		c.Output.Dir = "frames"
	}
	if c.Output.Workers <= 0 {
		c.Output.Workers = runtime.NumCPU()
	}
}

func (c *Config) resolveRender() {
	r := &c.Render
	if r.Width <= 0 {
		r.Width = 640
	}
	if r.Height <= 0 {
		r.Height = 480
	}
	if r.Supersample <= 0 {
		r.Supersample = 1
	}
	if r.Supersample > 4 {
		r.Supersample = 4
	}

	// near == far yields a singular projection
	if r.Near <= 0 {
		r.Near = 0.1
	}
	if r.Near < 1e-4 {
		r.Near = 1e-4
	}
	if r.Far <= 0 {
		r.Far = 100
	}
	if r.Far <= r.Near+1e-3 {
		r.Far = r.Near + 1
	}

	if r.Exposure <= 0 {
		r.Exposure = 1
	}
	if r.Gamma <= 0 {
		r.Gamma = 2.2
	}
	switch r.Tonemap {
	case TonemapExposure, TonemapACES, TonemapNone:
	default:
		r.Tonemap = TonemapExposure
	}
}

func (c *Config) resolveTessellation() {
	if c.Tessellation.Param1 <= 0 {
		c.Tessellation.Param1 = 5
	}
	if c.Tessellation.Param2 <= 0 {
		c.Tessellation.Param2 = 5
	}
	if c.Tessellation.Param2 < 3 {
		c.Tessellation.Param2 = 3
	}
}

func (c *Config) resolveShadows() {
	s := &c.Shadows
	if s.Size <= 0 {
		s.Size = 1024
	}
	if s.Size < 16 {
		s.Size = 16
	}
	if s.Size > 4096 {
		s.Size = 4096
	}
	if s.Bias <= 0 {
		s.Bias = 0.005
	}
	if s.Extent <= 0 {
		s.Extent = 10
	}
}

func (c *Config) resolveEffects() {
	e := &c.Effects
	if e.BloomThreshold <= 0 {
		e.BloomThreshold = 1
	}
	if e.BloomStrength <= 0 {
		e.BloomStrength = 0.6
	}
	if e.TrailMaxAge <= 0 {
		e.TrailMaxAge = 3
	}
	if e.TrailSegment <= 0 {
		e.TrailSegment = 0.05
	}
}

func (c *Config) resolveCamera() {
	cam := &c.Camera
	if cam.Speed <= 0 {
		cam.Speed = 5
	}
	if cam.Sensitivity <= 0 {
		cam.Sensitivity = 0.005
	}
	if cam.PathDuration <= 0 {
		cam.PathDuration = 5
	}
	if cam.PathEasing == "" {
		cam.PathEasing = "linear"
	}
	switch cam.PathEnd {
	case PathHold, PathLoop, PathRelease:
	default:
		cam.PathEnd = PathHold
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width       int
	Height      int
	Supersample int
	Param1      int
	Param2      int
	NoShadows   bool
	SoftShadows bool
	Bloom       bool
	Trail       bool
	OutputDir   string
	Workers     int
}
