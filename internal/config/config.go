// Package config resolves the overlay thresholds and export settings from
// built-in defaults, saved preferences, a .env file and XRAY_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"xray-overlay/internal/editor"
	"xray-overlay/pkg/colorutil"
	"xray-overlay/pkg/geometry"
)

// Preference keys shared with the preferences store.
const (
	KeyMMPerPixel         = "mmPerPixel"
	KeyAreaCloseRadius    = "areaCloseRadius"
	KeyAreaMaxPoints      = "areaMaxPoints"
	KeyEraserPathRadius   = "eraserPathRadius"
	KeyEraserAnchorRadius = "eraserAnchorRadius"
	KeyDragRadius         = "dragRadius"
	KeyColor              = "annotationColor"
	KeyExportDir          = "exportDirectory"
	KeyUseImageDPI        = "useImageDPI"
)

// Config holds the resolved settings.
type Config struct {
	MMPerPixel         float64
	AreaCloseRadius    float64
	AreaMaxPoints      int
	EraserPathRadius   float64
	EraserAnchorRadius float64
	DragRadius         float64
	Color              string
	ExportDir          string
	// UseImageDPI takes the calibration from TIFF resolution tags when present.
	UseImageDPI bool
}

// Prefs is the read side of the preferences store.
type Prefs interface {
	FloatWithFallback(key string, fallback float64) float64
	String(key string) string
	Bool(key string, fallback bool) bool
}

// PrefsWriter is the write side of the preferences store.
type PrefsWriter interface {
	SetFloat(key string, val float64)
	SetString(key string, val string)
	SetBool(key string, val bool)
}

// Default returns the built-in settings.
func Default() Config {
	dir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dir = home
	}
	return Config{
		MMPerPixel:         float64(geometry.DefaultCalibration),
		AreaCloseRadius:    20,
		AreaMaxPoints:      10,
		EraserPathRadius:   10,
		EraserAnchorRadius: 20,
		DragRadius:         10,
		Color:              colorutil.Hex(colorutil.Red),
		ExportDir:          dir,
	}
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none
// are given) into the process environment. Missing files are ignored and
// variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load resolves the configuration. p may be nil.
func Load(p Prefs) (Config, error) {
	cfg := Default()
	if p != nil {
		cfg.applyPrefs(p)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyPrefs(p Prefs) {
	c.MMPerPixel = p.FloatWithFallback(KeyMMPerPixel, c.MMPerPixel)
	c.AreaCloseRadius = p.FloatWithFallback(KeyAreaCloseRadius, c.AreaCloseRadius)
	c.AreaMaxPoints = int(p.FloatWithFallback(KeyAreaMaxPoints, float64(c.AreaMaxPoints)))
	c.EraserPathRadius = p.FloatWithFallback(KeyEraserPathRadius, c.EraserPathRadius)
	c.EraserAnchorRadius = p.FloatWithFallback(KeyEraserAnchorRadius, c.EraserAnchorRadius)
	c.DragRadius = p.FloatWithFallback(KeyDragRadius, c.DragRadius)
	if s := p.String(KeyColor); s != "" {
		c.Color = s
	}
	if s := p.String(KeyExportDir); s != "" {
		c.ExportDir = s
	}
	c.UseImageDPI = p.Bool(KeyUseImageDPI, c.UseImageDPI)
}

func (c *Config) applyEnv() error {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	var err error

	c.MMPerPixel, err = envFloat("XRAY_MM_PER_PIXEL", c.MMPerPixel)
	collect(err)
	c.AreaCloseRadius, err = envFloat("XRAY_AREA_CLOSE_PX", c.AreaCloseRadius)
	collect(err)
	c.AreaMaxPoints, err = envInt("XRAY_AREA_MAX_POINTS", c.AreaMaxPoints)
	collect(err)
	c.EraserPathRadius, err = envFloat("XRAY_ERASER_PATH_PX", c.EraserPathRadius)
	collect(err)
	c.EraserAnchorRadius, err = envFloat("XRAY_ERASER_ANCHOR_PX", c.EraserAnchorRadius)
	collect(err)
	c.DragRadius, err = envFloat("XRAY_DRAG_PX", c.DragRadius)
	collect(err)
	c.UseImageDPI, err = envBool("XRAY_USE_IMAGE_DPI", c.UseImageDPI)
	collect(err)
	c.Color = envStr("XRAY_COLOR", c.Color)
	c.ExportDir = envStr("XRAY_EXPORT_DIR", c.ExportDir)

	return errors.Join(errs...)
}

// Validate checks every threshold.
func (c Config) Validate() error {
	var errs []error
	if !geometry.Calibration(c.MMPerPixel).Valid() {
		errs = append(errs, fmt.Errorf("mm per pixel must be positive, got %v", c.MMPerPixel))
	}
	if c.AreaCloseRadius <= 0 {
		errs = append(errs, fmt.Errorf("area close radius must be positive, got %v", c.AreaCloseRadius))
	}
	if c.AreaMaxPoints < 3 {
		errs = append(errs, fmt.Errorf("area max points must be at least 3, got %d", c.AreaMaxPoints))
	}
	if c.EraserPathRadius <= 0 || c.EraserAnchorRadius <= 0 {
		errs = append(errs, errors.New("eraser radii must be positive"))
	}
	if c.DragRadius <= 0 {
		errs = append(errs, fmt.Errorf("drag radius must be positive, got %v", c.DragRadius))
	}
	if _, err := colorutil.ParseHex(c.Color); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Params converts the configuration into editor thresholds.
func (c Config) Params() editor.Params {
	p := editor.DefaultParams()
	p.Calibration = geometry.Calibration(c.MMPerPixel)
	p.CloseRadius = c.AreaCloseRadius
	p.MaxAreaPoints = c.AreaMaxPoints
	p.EraserPathRadius = c.EraserPathRadius
	p.EraserAnchorRadius = c.EraserAnchorRadius
	p.DragRadius = c.DragRadius
	if col, err := colorutil.ParseHex(c.Color); err == nil {
		p.Color = col
	}
	return p
}

// Save writes the user-editable settings back to the preferences store.
func (c Config) Save(w PrefsWriter) {
	w.SetFloat(KeyMMPerPixel, c.MMPerPixel)
	w.SetFloat(KeyAreaCloseRadius, c.AreaCloseRadius)
	w.SetFloat(KeyAreaMaxPoints, float64(c.AreaMaxPoints))
	w.SetFloat(KeyEraserPathRadius, c.EraserPathRadius)
	w.SetFloat(KeyEraserAnchorRadius, c.EraserAnchorRadius)
	w.SetFloat(KeyDragRadius, c.DragRadius)
	w.SetString(KeyColor, c.Color)
	w.SetString(KeyExportDir, c.ExportDir)
	w.SetBool(KeyUseImageDPI, c.UseImageDPI)
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q is not a valid number", key, v)
	}
	return f, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}
