package s2d

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds engine configuration. The zero value is not valid; start from
// DefaultConfig.
type Config struct {
	// Window settings
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// Renderer settings
	MaxTriangles  int  `yaml:"max_triangles"`
	BufferRing    int  `yaml:"buffer_ring"`
	RenderEnabled bool `yaml:"render_enabled"`

	// Diagnostics
	LogPerformance bool      `yaml:"log_performance"`
	Debug          bool      `yaml:"debug"`
	Log            LogConfig `yaml:"log"`

	// Assets
	AssetRoot          string `yaml:"asset_root"`
	MaxConcurrentLoads int    `yaml:"max_concurrent_loads"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Title:              "s2d",
		Width:              1280,
		Height:             720,
		MaxTriangles:       DefaultMaxTriangles,
		BufferRing:         DefaultBufferRing,
		RenderEnabled:      true,
		Log:                LogConfig{Level: "info", Encoding: "console"},
		AssetRoot:          ".",
		MaxConcurrentLoads: 4,
	}
}

// LoadConfig reads YAML from r on top of DefaultConfig and validates the
// result.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "s2d: decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("s2d: invalid window size %dx%d", c.Width, c.Height)
	}
	if c.MaxTriangles < 2 {
		return errors.Errorf("s2d: max_triangles %d cannot hold a quad", c.MaxTriangles)
	}
	if c.MaxTriangles*3 > maxIndexableVertices {
		return errors.Errorf("s2d: max_triangles %d exceeds u16 index range", c.MaxTriangles)
	}
	if c.BufferRing <= 0 {
		return errors.Errorf("s2d: buffer_ring must be positive, got %d", c.BufferRing)
	}
	if c.MaxConcurrentLoads <= 0 {
		return errors.Errorf("s2d: max_concurrent_loads must be positive, got %d", c.MaxConcurrentLoads)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Encoding {
	case "", "console", "json":
	default:
		return errors.Errorf("s2d: unknown log encoding %q", c.Log.Encoding)
	}
	return nil
}

// RenderOptions returns the renderer sizing part of the configuration.
func (c Config) RenderOptions() RenderOptions {
	return RenderOptions{MaxTriangles: c.MaxTriangles, BufferRing: c.BufferRing}
}
