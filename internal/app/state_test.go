package app

import (
	goimage "image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xray-overlay/internal/config"
	"xray-overlay/internal/editor"
	"xray-overlay/internal/image"
	"xray-overlay/internal/shape"
	"xray-overlay/pkg/geometry"
)

func testState(t *testing.T) *State {
	t.Helper()
	cfg := config.Default()
	cfg.ExportDir = t.TempDir()
	return NewState(cfg)
}

func testLayer(w, h int) *image.Layer {
	img := goimage.NewGray(goimage.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 40
	}
	return &image.Layer{Path: "chest.png", Image: img}
}

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func TestOverlayEventsCarryKit(t *testing.T) {
	s := testState(t)
	var kits []editor.Kit
	s.On(EventOverlayChanged, func(data interface{}) { kits = append(kits, data.(editor.Kit)) })

	require.NoError(t, s.Measurements.SelectTool(editor.ToolDistance))
	require.NoError(t, s.Annotations.SelectTool(editor.ToolDraw))

	assert.Equal(t, []editor.Kit{editor.KitMeasurement, editor.KitAnnotation}, kits)
	assert.Same(t, s.Measurements, s.Editor(editor.KitMeasurement))
}

func TestTextRequestEvent(t *testing.T) {
	s := testState(t)
	var got editor.TextRequest
	s.On(EventTextRequested, func(data interface{}) { got = data.(editor.TextRequest) })

	require.NoError(t, s.Annotations.SelectTool(editor.ToolNote))
	s.Annotations.PointerDown(pt(5, 6))
	assert.Equal(t, editor.TextRequest{Tool: editor.ToolNote, Position: pt(5, 6)}, got)
}

func TestSaveWithoutImage(t *testing.T) {
	s := testState(t)
	saved := 0
	s.On(EventSaved, func(interface{}) { saved++ })

	_, err := s.Save()
	assert.ErrorIs(t, err, image.ErrNoImage)
	assert.Equal(t, 2, saved, "save callbacks still receive the shape lists")
}

func TestSaveWritesFlattenedPNG(t *testing.T) {
	s := testState(t)
	require.NoError(t, s.SetImage(testLayer(120, 80)))

	require.NoError(t, s.Measurements.SelectTool(editor.ToolDistance))
	s.Measurements.PointerDown(pt(10, 40))
	s.Measurements.PointerDown(pt(110, 40))

	var exported string
	s.On(EventExported, func(data interface{}) { exported = data.(string) })

	path, err := s.Save()
	require.NoError(t, err)
	assert.Equal(t, path, exported)
	assert.Equal(t, s.Config().ExportDir, filepath.Dir(path))
	_, err = os.Stat(path)
	require.NoError(t, err)

	img, err := s.Flatten()
	require.NoError(t, err)
	assert.Equal(t, goimage.Rect(0, 0, 120, 80), img.Bounds())
	line := img.RGBAAt(60, 40)
	assert.Greater(t, line.B, line.R, "measurement ink over the film")
	assert.Equal(t, color.RGBA{R: 40, G: 40, B: 40, A: 255}, img.RGBAAt(60, 75))
}

func TestApplyConfigRederives(t *testing.T) {
	s := testState(t)
	require.NoError(t, s.Measurements.SelectTool(editor.ToolDistance))
	s.Measurements.PointerDown(pt(0, 0))
	s.Measurements.PointerDown(pt(100, 0))

	cfg := s.Config()
	cfg.MMPerPixel = 0.5
	require.NoError(t, s.ApplyConfig(cfg))
	assert.InDelta(t, 50.0, s.Measurements.Measurements()[0].Value(), 1e-9)
	assert.Equal(t, geometry.Calibration(0.5), s.Calibration())

	cfg.MMPerPixel = 0
	assert.Error(t, s.ApplyConfig(cfg))
	assert.Equal(t, geometry.Calibration(0.5), s.Calibration())
}

func TestImageDPICalibration(t *testing.T) {
	s := testState(t)
	cfg := s.Config()
	cfg.UseImageDPI = true
	require.NoError(t, s.ApplyConfig(cfg))

	layer := testLayer(10, 10)
	layer.DPI = 254
	require.NoError(t, s.SetImage(layer))
	assert.InDelta(t, 0.1, float64(s.Calibration()), 1e-12)

	w, h := s.ImageSize()
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, h)
}

func TestFindingsAndReport(t *testing.T) {
	s := testState(t)
	require.NoError(t, s.SetImage(testLayer(50, 50)))
	require.NoError(t, s.Annotations.SelectTool(editor.ToolText))
	s.Annotations.PointerDown(pt(5, 20))
	require.True(t, s.Annotations.SubmitText("apex"))

	f := s.Findings()
	assert.Equal(t, "chest.png", f.Source)
	require.Len(t, f.Annotations, 1)
	assert.IsType(t, shape.Text{}, f.Annotations[0])

	path, err := s.ExportReport()
	require.NoError(t, err)
	assert.Equal(t, ".pdf", filepath.Ext(path))
}
