package overlay

import (
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xray-overlay/internal/editor"
	"xray-overlay/internal/render"
	"xray-overlay/internal/shape"
	"xray-overlay/pkg/geometry"
)

func press(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

type fixture struct {
	view         *View
	annotations  *editor.Editor
	measurements *editor.Editor
}

func newFixture(t *testing.T, w, h int) *fixture {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	f := &fixture{}
	redraw := func() {
		if f.view != nil {
			f.view.Redraw()
		}
	}
	f.annotations = editor.New(editor.KitAnnotation, editor.DefaultParams(), editor.WithOnChange(redraw))
	f.measurements = editor.New(editor.KitMeasurement, editor.DefaultParams(), editor.WithOnChange(redraw))
	f.view = New(w, h, render.DefaultStyle(), f.annotations, f.measurements)
	f.view.Resize(fyne.NewSize(float32(w), float32(h)))
	return f
}

func TestDistanceThroughMouse(t *testing.T) {
	f := newFixture(t, 200, 100)
	f.view.SetActive(f.measurements)
	require.NoError(t, f.measurements.SelectTool(editor.ToolDistance))

	f.view.MouseDown(press(20, 50))
	f.view.MouseUp(press(20, 50))
	f.view.MouseMoved(press(120, 50))
	f.view.MouseDown(press(120, 50))
	f.view.MouseUp(press(120, 50))

	ms := f.measurements.Measurements()
	require.Len(t, ms, 1)
	assert.InDelta(t, 20.0, ms[0].Value(), 1e-9)
	assert.NotZero(t, f.view.Frame().RGBAAt(70, 50).A)
}

func TestStrokeThroughDrag(t *testing.T) {
	f := newFixture(t, 100, 100)
	f.view.SetActive(f.annotations)
	require.NoError(t, f.annotations.SelectTool(editor.ToolDraw))

	f.view.MouseDown(press(10, 10))
	f.view.Dragged(drag(30, 10))
	f.view.Dragged(drag(60, 10))
	f.view.DragEnd()
	f.view.MouseUp(press(60, 10))

	shapes := f.annotations.Shapes()
	require.Len(t, shapes, 1, "drag end and mouse up release once")
	assert.Len(t, shapes[0].Points(), 3)
}

func TestMouseOutEndsStroke(t *testing.T) {
	f := newFixture(t, 100, 100)
	f.view.SetActive(f.annotations)
	require.NoError(t, f.annotations.SelectTool(editor.ToolDraw))

	f.view.MouseDown(press(10, 10))
	f.view.Dragged(drag(50, 50))
	f.view.MouseOut()

	assert.Equal(t, 1, f.annotations.Len())
	assert.Equal(t, editor.PhaseArmed, f.annotations.Phase())
}

func TestSecondaryButtonIgnored(t *testing.T) {
	f := newFixture(t, 100, 100)
	f.view.SetActive(f.annotations)
	require.NoError(t, f.annotations.SelectTool(editor.ToolText))

	ev := press(10, 10)
	ev.Button = desktop.MouseButtonSecondary
	f.view.MouseDown(ev)
	_, pending := f.annotations.PendingText()
	assert.False(t, pending)
}

func TestPositionsScaleToImage(t *testing.T) {
	f := newFixture(t, 400, 200)
	f.view.Resize(fyne.NewSize(200, 100))
	f.view.SetActive(f.measurements)
	require.NoError(t, f.measurements.SelectTool(editor.ToolDistance))

	f.view.MouseDown(press(10, 10))
	f.view.MouseDown(press(60, 10))

	ms := f.measurements.Measurements()
	require.Len(t, ms, 1)
	assert.Equal(t, []geometry.Point2D{{X: 20, Y: 20}, {X: 120, Y: 20}}, ms[0].Points())
}

func TestSetImageComposesBase(t *testing.T) {
	f := newFixture(t, 10, 10)
	base := image.NewGray(image.Rect(0, 0, 30, 20))
	for i := range base.Pix {
		base.Pix[i] = 90
	}
	f.view.SetImage(base)

	w, h := f.view.ImageSize()
	assert.Equal(t, 30, w)
	assert.Equal(t, 20, h)
	assert.Equal(t, color.RGBA{R: 90, G: 90, B: 90, A: 255}, f.view.Frame().RGBAAt(5, 5))
}

func TestLayersStackInOrder(t *testing.T) {
	f := newFixture(t, 100, 100)
	f.view.SetActive(f.annotations)
	require.NoError(t, f.annotations.SelectTool(editor.ToolDraw))
	f.view.MouseDown(press(0, 50))
	f.view.Dragged(drag(100, 50))
	f.view.MouseUp(press(100, 50))

	f.view.SetActive(f.measurements)
	require.NoError(t, f.measurements.SelectTool(editor.ToolDistance))
	f.view.MouseDown(press(50, 0))
	f.view.MouseDown(press(50, 100))

	assert.Same(t, f.measurements, f.view.Active())
	px := f.view.Frame().RGBAAt(50, 50)
	assert.Greater(t, px.B, px.R, "measurement layer is on top")
	assert.IsType(t, shape.Drawing{}, f.annotations.Shapes()[0])
}

func TestRendersInWindow(t *testing.T) {
	f := newFixture(t, 64, 48)
	w := test.NewWindow(f.view)
	defer w.Close()
	w.Resize(fyne.NewSize(100, 100))

	assert.NotNil(t, test.WidgetRenderer(f.view))
}

func TestPaintedImageIsSnapshot(t *testing.T) {
	f := newFixture(t, 200, 100)
	f.view.SetActive(f.measurements)
	require.NoError(t, f.measurements.SelectTool(editor.ToolDistance))

	painted := f.view.draw(200, 100).(*image.RGBA)
	f.view.MouseDown(press(20, 50))
	f.view.MouseUp(press(20, 50))
	f.view.MouseDown(press(180, 50))
	f.view.MouseUp(press(180, 50))
	require.Equal(t, 1, f.measurements.Len())

	assert.Equal(t, color.RGBA{}, painted.RGBAAt(100, 50), "earlier paint is not rewritten")
	assert.NotEqual(t, color.RGBA{}, f.view.draw(200, 100).(*image.RGBA).RGBAAt(100, 50))
}
