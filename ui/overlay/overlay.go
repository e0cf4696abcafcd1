// Package overlay provides the fyne widget that shows the radiograph with
// its annotation and measurement layers and forwards pointer input to the
// active editor in image pixel coordinates.
package overlay

import (
	"image"
	"image/draw"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"xray-overlay/internal/editor"
	"xray-overlay/internal/render"
	"xray-overlay/pkg/geometry"
)

// View stacks the base image and one overlay surface per editor.
type View struct {
	widget.BaseWidget

	mu       sync.Mutex
	base     image.Image
	editors  []*editor.Editor
	surfaces []*render.Surface
	active   *editor.Editor
	frame    *image.RGBA
	width    int
	height   int
	pressed  bool
	lastPos  geometry.Point2D

	raster *fynecanvas.Raster
}

var (
	_ fyne.Widget       = (*View)(nil)
	_ desktop.Mouseable = (*View)(nil)
	_ desktop.Hoverable = (*View)(nil)
	_ fyne.Draggable    = (*View)(nil)
)

// New creates a view of the given image size. Editors are layered in the
// order given, the first at the bottom.
func New(width, height int, style render.Style, editors ...*editor.Editor) *View {
	v := &View{
		editors: editors,
		width:   width,
		height:  height,
		frame:   image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	for range editors {
		v.surfaces = append(v.surfaces, render.NewSurface(width, height, style))
	}
	if len(editors) > 0 {
		v.active = editors[0]
	}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScaleSmooth
	v.ExtendBaseWidget(v)
	return v
}

// SetImage replaces the base image and resizes every surface to match.
func (v *View) SetImage(img image.Image) {
	v.mu.Lock()
	v.base = img
	if img != nil {
		v.width, v.height = img.Bounds().Dx(), img.Bounds().Dy()
	}
	for _, s := range v.surfaces {
		s.Resize(v.width, v.height)
	}
	v.frame = image.NewRGBA(image.Rect(0, 0, v.width, v.height))
	v.mu.Unlock()
	v.Redraw()
}

// ImageSize returns the overlay size in image pixels.
func (v *View) ImageSize() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// SetActive routes pointer input to ed.
func (v *View) SetActive(ed *editor.Editor) {
	v.mu.Lock()
	v.active = ed
	v.mu.Unlock()
}

// Active returns the editor receiving pointer input.
func (v *View) Active() *editor.Editor {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// Redraw repaints every surface from its editor and refreshes the widget.
func (v *View) Redraw() {
	v.mu.Lock()
	if v.base != nil {
		draw.Draw(v.frame, v.frame.Bounds(), v.base, v.base.Bounds().Min, draw.Src)
	} else {
		clear(v.frame.Pix)
	}
	for i, ed := range v.editors {
		layer := v.surfaces[i].Redraw(ed.Shapes(), ed.Draft())
		draw.Draw(v.frame, v.frame.Bounds(), layer, image.Point{}, draw.Over)
	}
	v.mu.Unlock()
	v.raster.Refresh()
}

// Frame returns a copy of the last composed picture.
func (v *View) Frame() *image.RGBA {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := image.NewRGBA(v.frame.Bounds())
	copy(out.Pix, v.frame.Pix)
	return out
}

// draw hands the painter a snapshot, since Redraw reuses the frame buffer.
func (v *View) draw(w, h int) image.Image {
	return v.Frame()
}

// toImage maps a widget position to image pixels.
func (v *View) toImage(pos fyne.Position) geometry.Point2D {
	size := v.Size()
	v.mu.Lock()
	w, h := v.width, v.height
	v.mu.Unlock()

	sx, sy := 1.0, 1.0
	if size.Width > 0 && w > 0 {
		sx = float64(w) / float64(size.Width)
	}
	if size.Height > 0 && h > 0 {
		sy = float64(h) / float64(size.Height)
	}
	return geometry.NewPoint2D(float64(pos.X)*sx, float64(pos.Y)*sy)
}

// MouseDown implements desktop.Mouseable.
func (v *View) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ed := v.Active()
	if ed == nil {
		return
	}
	v.pressed = true
	v.lastPos = v.toImage(ev.Position)
	ed.PointerDown(v.lastPos)
}

// MouseUp implements desktop.Mouseable.
func (v *View) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || !v.pressed {
		return
	}
	v.pressed = false
	if ed := v.Active(); ed != nil {
		ed.PointerUp(v.toImage(ev.Position))
	}
}

// Dragged implements fyne.Draggable. Presses are handled by MouseDown, so
// drag events only carry motion.
func (v *View) Dragged(ev *fyne.DragEvent) {
	v.lastPos = v.toImage(ev.Position)
	if ed := v.Active(); ed != nil {
		ed.PointerMove(v.lastPos)
	}
}

// DragEnd implements fyne.Draggable. It releases the press when the driver
// reports the drag end without a matching MouseUp.
func (v *View) DragEnd() {
	if !v.pressed {
		return
	}
	v.pressed = false
	if ed := v.Active(); ed != nil {
		ed.PointerUp(v.lastPos)
	}
}

// MouseIn implements desktop.Hoverable.
func (v *View) MouseIn(ev *desktop.MouseEvent) {
	v.MouseMoved(ev)
}

// MouseMoved implements desktop.Hoverable.
func (v *View) MouseMoved(ev *desktop.MouseEvent) {
	if ed := v.Active(); ed != nil {
		ed.PointerMove(v.toImage(ev.Position))
	}
}

// MouseOut implements desktop.Hoverable. Leaving the view ends any stroke
// or drag in progress.
func (v *View) MouseOut() {
	v.pressed = false
	if ed := v.Active(); ed != nil {
		ed.PointerLeave()
	}
}

// MinSize keeps the view at a usable size before an image is loaded.
func (v *View) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// CreateRenderer implements fyne.Widget.
func (v *View) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}
