package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xray-overlay/pkg/colorutil"
	"xray-overlay/pkg/geometry"
)

type mapPrefs map[string]any

func (m mapPrefs) FloatWithFallback(key string, fallback float64) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return fallback
}

func (m mapPrefs) String(key string) string {
	s, _ := m[key].(string)
	return s
}

func (m mapPrefs) Bool(key string, fallback bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return fallback
}

func (m mapPrefs) SetFloat(key string, val float64) { m[key] = val }
func (m mapPrefs) SetString(key string, val string) { m[key] = val }
func (m mapPrefs) SetBool(key string, val bool)     { m[key] = val }

func TestDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.MMPerPixel)
	assert.Equal(t, 20.0, cfg.AreaCloseRadius)
	assert.Equal(t, 10, cfg.AreaMaxPoints)
	assert.Equal(t, 10.0, cfg.EraserPathRadius)
	assert.Equal(t, 20.0, cfg.EraserAnchorRadius)
	assert.Equal(t, 10.0, cfg.DragRadius)
	assert.Equal(t, "#ef4444", cfg.Color)

	p := cfg.Params()
	assert.Equal(t, geometry.DefaultCalibration, p.Calibration)
	assert.Equal(t, colorutil.Red, p.Color)
}

func TestPrefsThenEnv(t *testing.T) {
	prefs := mapPrefs{
		KeyMMPerPixel: 0.15,
		KeyColor:      "#3b82f6",
		KeyDragRadius: 12.0,
	}
	t.Setenv("XRAY_MM_PER_PIXEL", "0.1")
	t.Setenv("XRAY_AREA_MAX_POINTS", "6")

	cfg, err := Load(prefs)
	require.NoError(t, err)

	assert.Equal(t, 0.1, cfg.MMPerPixel, "environment wins over prefs")
	assert.Equal(t, 6, cfg.AreaMaxPoints)
	assert.Equal(t, 12.0, cfg.DragRadius)
	assert.Equal(t, colorutil.Blue, cfg.Params().Color)
}

func TestEnvParseErrors(t *testing.T) {
	t.Setenv("XRAY_MM_PER_PIXEL", "abc")
	t.Setenv("XRAY_USE_IMAGE_DPI", "maybe")

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `XRAY_MM_PER_PIXEL="abc" is not a valid number`)
	assert.Contains(t, err.Error(), `XRAY_USE_IMAGE_DPI="maybe" is not a valid boolean`)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.MMPerPixel = 0
	cfg.AreaMaxPoints = 2
	cfg.Color = "blue"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mm per pixel")
	assert.Contains(t, err.Error(), "at least 3")
	assert.Contains(t, err.Error(), "invalid hex color")
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.MMPerPixel = 0.143
	cfg.UseImageDPI = true
	cfg.ExportDir = "/tmp/reports"

	store := mapPrefs{}
	cfg.Save(store)

	got, err := Load(store)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.env")
	require.NoError(t, os.WriteFile(path, []byte("XRAY_DRAG_PX=14\n"), 0o644))
	t.Setenv("XRAY_DRAG_PX", "")
	os.Unsetenv("XRAY_DRAG_PX")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 14.0, cfg.DragRadius)
}
