package s2d

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, RenderOptions{MaxTriangles: 4096, BufferRing: 16}, cfg.RenderOptions())
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`
title: stress
width: 640
height: 480
max_triangles: 2048
render_enabled: false
log:
  level: debug
  encoding: json
`))
	require.NoError(t, err)
	assert.Equal(t, "stress", cfg.Title)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 2048, cfg.MaxTriangles)
	assert.False(t, cfg.RenderEnabled)
	assert.Equal(t, LogConfig{Level: "debug", Encoding: "json"}, cfg.Log)
	assert.Equal(t, DefaultBufferRing, cfg.BufferRing, "untouched fields keep defaults")
	assert.Equal(t, 4, cfg.MaxConcurrentLoads)
}

func TestLoadConfig_EmptyIsDefault(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name, yaml, want string
	}{
		{"unknown field", "fullscreen: true\n", "decode config"},
		{"bad size", "width: 0\n", "window size"},
		{"tiny batch", "max_triangles: 1\n", "cannot hold a quad"},
		{"huge batch", "max_triangles: 30000\n", "u16 index range"},
		{"no ring", "buffer_ring: 0\n", "buffer_ring"},
		{"no loads", "max_concurrent_loads: -1\n", "max_concurrent_loads"},
		{"bad level", "log: {level: loud}\n", "log level"},
		{"bad encoding", "log: {encoding: xml}\n", "log encoding"},
		{"bad yaml", "width: [\n", "decode config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, enc := range []string{"", "console", "json"} {
		log, err := NewLogger(LogConfig{Level: "warn", Encoding: enc})
		require.NoError(t, err, enc)
		assert.False(t, log.Core().Enabled(-1), "debug disabled at warn")
	}
	_, err := NewLogger(LogConfig{Level: "chatty"})
	assert.Error(t, err)
}
