package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde expands to home", "~/pictures", filepath.Join(home, "pictures")},
		{"absolute path unchanged", "/srv/images", "/srv/images"},
		{"relative path unchanged", "images/cache", "images/cache"},
		{"empty string unchanged", "", ""},
		{"tilde only", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(xdg.ConfigHome, "imgview", "config.toml"), paths[0])
	assert.Equal(t, "config.toml", paths[1], "local config has highest priority")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load([]string{filepath.Join(t.TempDir(), "missing.toml")}, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Protocol)
	assert.Equal(t, "#ffffff", cfg.Background)
	assert.True(t, cfg.DiskCacheEnabled())
	assert.Equal(t, 30*24*time.Hour, cfg.CacheMaxAge())
	assert.Equal(t, 100, cfg.HistorySize())
	assert.Equal(t, ZoomConfig{Min: 0.2, Max: 1.4, Step: 1.1}, cfg.GetZoomConfig())

	fetch := cfg.GetFetchConfig()
	assert.Equal(t, 15*time.Second, fetch.Timeout())
	assert.Equal(t, int64(64<<20), fetch.MaxBytes())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
protocol = "Sixel"
background = "#202020"

[zoom]
min = 0.5
max = 3.0
step = 1.25

[fetch]
timeout_seconds = 5
max_mb = 8
user_agent = "test-agent"

[cache]
disk = false
dir = "~/imgcache"
max_age_days = 7

[history]
size = 20

[log]
level = "debug"
`)

	cfg, err := load([]string{path}, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "sixel", cfg.Protocol)
	assert.Equal(t, ZoomConfig{Min: 0.5, Max: 3.0, Step: 1.25}, cfg.GetZoomConfig())
	assert.Equal(t, 5*time.Second, cfg.GetFetchConfig().Timeout())
	assert.Equal(t, int64(8<<20), cfg.GetFetchConfig().MaxBytes())
	assert.Equal(t, "test-agent", cfg.Fetch.UserAgent)
	assert.False(t, cfg.DiskCacheEnabled())
	assert.Equal(t, 7*24*time.Hour, cfg.CacheMaxAge())
	assert.NotContains(t, cfg.Cache.Dir, "~")
	assert.Equal(t, 20, cfg.HistorySize())
	assert.Equal(t, "debug", cfg.Log.Level)

	r, g, b, _ := cfg.BackgroundColor().RGBA()
	assert.Equal(t, []uint32{0x2020, 0x2020, 0x2020}, []uint32{r, g, b})
}

func TestLoad_LastFileWins(t *testing.T) {
	global := writeConfig(t, "protocol = \"kitty\"\n[history]\nsize = 5\n")
	local := writeConfig(t, "protocol = \"blocks\"\n")

	cfg, err := load([]string{global, local}, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "blocks", cfg.Protocol)
	assert.Equal(t, 5, cfg.HistorySize())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "protocol = \"kitty\"\n[cache]\ndisk = true\n[log]\nlevel = \"warn\"\n")

	cfg, err := load([]string{path}, map[string]string{
		"IMGVIEW_PROTOCOL":   "none",
		"IMGVIEW_LOG_LEVEL":  "trace",
		"IMGVIEW_LOG_FILE":   "~/imgview.log",
		"IMGVIEW_CACHE_DISK": "false",
	})
	require.NoError(t, err)

	assert.Equal(t, "none", cfg.Protocol)
	assert.Equal(t, "trace", cfg.Log.Level)
	assert.NotContains(t, cfg.Log.File, "~")
	assert.False(t, cfg.DiskCacheEnabled())
}

func TestLoad_InvalidEnv(t *testing.T) {
	_, err := load(nil, map[string]string{"IMGVIEW_CACHE_DISK": "maybe"})
	assert.Error(t, err)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeConfig(t, "protocol = [unterminated\n")
	_, err := load([]string{path}, map[string]string{})
	assert.Error(t, err)
}

func TestGetZoomConfig_InvalidValues(t *testing.T) {
	cfg := &Config{Zoom: ZoomConfig{Min: 2, Max: 1, Step: 0.5}}
	z := cfg.GetZoomConfig()
	assert.InDelta(t, 2.0, z.Min, 1e-9)
	assert.InDelta(t, 4.0, z.Max, 1e-9)
	assert.InDelta(t, 1.1, z.Step, 1e-9)
}

func TestBackgroundColor_Invalid(t *testing.T) {
	cfg := &Config{Background: "not a colour"}
	assert.Equal(t, color.White, cfg.BackgroundColor())
}

func TestLoad_KeyOverrides(t *testing.T) {
	path := writeConfig(t, `
icons = "nerd"

[keys]
next_image = ["x", "right"]
quit = ["Q"]
`)

	cfg, err := load([]string{path}, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"next_image": {"x", "right"},
		"quit":       {"Q"},
	}, cfg.Keys)
	assert.Equal(t, "nerd", cfg.Icons)
}
