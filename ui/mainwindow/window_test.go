package mainwindow

import (
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xray-overlay/internal/app"
	"xray-overlay/internal/config"
	"xray-overlay/internal/editor"
	"xray-overlay/ui/prefs"
)

func newTestWindow(t *testing.T) *MainWindow {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	cfg := config.Default()
	cfg.ExportDir = t.TempDir()
	p := prefs.LoadFrom(filepath.Join(t.TempDir(), "preferences.json"))
	mw := New(a, app.NewState(cfg), p)
	t.Cleanup(mw.Close)
	return mw
}

func TestSelectToolSwitchesKits(t *testing.T) {
	mw := newTestWindow(t)

	mw.selectTool(editor.ToolDraw)
	assert.Equal(t, editor.ToolDraw, mw.state.Annotations.Tool())
	assert.Same(t, mw.state.Annotations, mw.view.Active())
	assert.Equal(t, widget.HighImportance, mw.toolButtons[editor.ToolDraw].Importance)

	mw.selectTool(editor.ToolAngle)
	assert.Equal(t, editor.ToolNone, mw.state.Annotations.Tool())
	assert.Equal(t, editor.ToolAngle, mw.state.Measurements.Tool())
	assert.Same(t, mw.state.Measurements, mw.view.Active())
	assert.Equal(t, widget.MediumImportance, mw.toolButtons[editor.ToolDraw].Importance)
	assert.Equal(t, widget.HighImportance, mw.toolButtons[editor.ToolAngle].Importance)
	assert.Equal(t, "Click the first arm", mw.statusBar.Text)

	mw.selectTool(editor.ToolAngle)
	assert.Equal(t, editor.ToolNone, mw.activeTool())
	assert.Equal(t, "Ready", mw.statusBar.Text)
}

func TestEscapeDisarms(t *testing.T) {
	mw := newTestWindow(t)

	mw.selectTool(editor.ToolArea)
	mw.onTypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	assert.Equal(t, editor.ToolNone, mw.activeTool())
}

func TestSaveWithoutImage(t *testing.T) {
	mw := newTestWindow(t)

	mw.onSave()
	assert.Equal(t, "Nothing to export: no image loaded", mw.statusBar.Text)
}

func TestApplyConfigPersists(t *testing.T) {
	mw := newTestWindow(t)

	cfg := mw.state.Config()
	cfg.MMPerPixel = 0.5
	cfg.Color = "#22c55e"
	mw.applyConfig(cfg)

	assert.InDelta(t, 0.5, mw.prefs.Float(config.KeyMMPerPixel), 1e-12)
	assert.Equal(t, "#22c55e", mw.prefs.String(config.KeyColor))
	assert.Equal(t, mw.state.Annotations.Color(), mw.colorSwatch.FillColor)
	require.NoError(t, mw.prefs.SaveIfChanged())
}

func TestToolLabel(t *testing.T) {
	assert.Equal(t, "Distance", toolLabel(editor.ToolDistance))
	assert.Equal(t, "Eraser", toolLabel(editor.ToolEraser))
}
