// Package editor implements the pointer-driven state machine behind the
// annotation and measurement toolbars.
//
// An Editor owns the committed shapes of one kit together with the active
// tool and any in-progress draft. Hosts forward pointer events in image
// pixel coordinates and redraw whenever the change callback fires.
package editor

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"xray-overlay/internal/hittest"
	"xray-overlay/internal/shape"
	"xray-overlay/pkg/geometry"
)

// ErrToolUnavailable is returned when selecting a tool from another kit.
var ErrToolUnavailable = errors.New("tool not available in this kit")

type dragTarget struct {
	shapeID    string
	pointIndex int
}

// Editor is not safe for concurrent use; drive it from the UI goroutine.
type Editor struct {
	kit    Kit
	params Params
	store  *shape.Store
	tool   Tool

	// Draft state.
	points     []geometry.Point2D
	stroking   bool
	pending    *TextRequest
	drag       *dragTarget
	cursor     geometry.Point2D
	haveCursor bool

	onChange      func()
	onSave        func([]shape.Shape)
	onTextRequest func(TextRequest)
	newID         func() string
}

// New creates an editor for a kit.
func New(kit Kit, params Params, opts ...Option) *Editor {
	e := &Editor{
		kit:    kit,
		params: params,
		store:  shape.NewStore(),
		newID:  shape.NewID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Editor) notify() {
	if e.onChange != nil {
		e.onChange()
	}
}

// Kit returns the kit this editor serves.
func (e *Editor) Kit() Kit { return e.kit }

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// Params returns the current thresholds.
func (e *Editor) Params() Params { return e.params }

// Phase reports the interaction state.
func (e *Editor) Phase() Phase {
	switch {
	case e.drag != nil:
		return PhaseDragging
	case e.stroking || len(e.points) > 0 || e.pending != nil:
		return PhaseCollecting
	case e.tool != ToolNone:
		return PhaseArmed
	}
	return PhaseIdle
}

// SelectTool activates a tool, discarding any in-progress draft.
func (e *Editor) SelectTool(t Tool) error {
	if t != ToolNone && t.Kit() != e.kit {
		return fmt.Errorf("%s: %w", t, ErrToolUnavailable)
	}
	e.resetDraft()
	e.tool = t
	e.notify()
	return nil
}

// ToggleTool selects t, or deselects it when it is already active.
func (e *Editor) ToggleTool(t Tool) error {
	if e.tool == t {
		return e.SelectTool(ToolNone)
	}
	return e.SelectTool(t)
}

func (e *Editor) resetDraft() {
	e.points = nil
	e.stroking = false
	e.pending = nil
	e.drag = nil
}

// Color returns the ink used for new annotations.
func (e *Editor) Color() color.RGBA { return e.params.Color }

// SetColor changes the ink for subsequently committed annotations.
func (e *Editor) SetColor(c color.RGBA) {
	e.params.Color = c
	e.notify()
}

// SetCalibration changes the mm-per-pixel ratio and re-derives every
// committed measurement.
func (e *Editor) SetCalibration(cal geometry.Calibration) error {
	if !cal.Valid() {
		return fmt.Errorf("invalid calibration %v", float64(cal))
	}
	e.params.Calibration = cal
	for _, m := range e.store.Measurements() {
		e.store.Replace(m.ID(), m.Rederive(cal))
	}
	e.notify()
	return nil
}

// SetParams replaces every threshold and re-derives committed measurements
// under the new calibration.
func (e *Editor) SetParams(p Params) error {
	if !p.Calibration.Valid() {
		return fmt.Errorf("invalid calibration %v", float64(p.Calibration))
	}
	e.params = p
	return e.SetCalibration(p.Calibration)
}

// PointerDown handles a primary button press at p.
func (e *Editor) PointerDown(p geometry.Point2D) {
	e.cursor, e.haveCursor = p, true
	switch e.tool {
	case ToolDraw:
		e.stroking = true
		e.points = []geometry.Point2D{p}
		e.notify()
	case ToolText, ToolNote:
		req := TextRequest{Tool: e.tool, Position: p}
		e.pending = &req
		e.notify()
		if e.onTextRequest != nil {
			e.onTextRequest(req)
		}
	case ToolEraser:
		e.erase(p)
	case ToolDistance, ToolAngle, ToolArea:
		e.addPoint(p)
	case ToolMove:
		e.beginDrag(p)
	}
}

// PointerMove handles pointer motion, pressed or not.
func (e *Editor) PointerMove(p geometry.Point2D) {
	e.cursor, e.haveCursor = p, true
	switch {
	case e.stroking:
		e.points = append(e.points, p)
		e.notify()
	case e.drag != nil:
		e.moveDrag(p)
	case len(e.points) > 0:
		// Rubber-band preview follows the cursor.
		e.notify()
	}
}

// PointerUp handles a primary button release.
func (e *Editor) PointerUp(geometry.Point2D) {
	e.release()
}

// PointerLeave handles the pointer leaving the surface. A stroke or drag in
// progress ends as if the button were released.
func (e *Editor) PointerLeave() {
	e.haveCursor = false
	if !e.release() && len(e.points) > 0 {
		e.notify()
	}
}

func (e *Editor) release() bool {
	switch {
	case e.stroking:
		if len(e.points) >= 2 {
			e.store.Append(shape.NewDrawing(e.newID(), e.points, e.params.Color))
		}
		e.points = nil
		e.stroking = false
	case e.drag != nil:
		e.drag = nil
	default:
		return false
	}
	e.notify()
	return true
}

// PendingText returns the anchor awaiting text, if any.
func (e *Editor) PendingText() (TextRequest, bool) {
	if e.pending == nil {
		return TextRequest{}, false
	}
	return *e.pending, true
}

// SubmitText commits the pending text or note. Blank content discards it.
// It reports whether a shape was committed.
func (e *Editor) SubmitText(content string) bool {
	if e.pending == nil {
		return false
	}
	req := *e.pending
	e.pending = nil
	content = strings.TrimSpace(content)
	committed := content != ""
	if committed {
		switch req.Tool {
		case ToolNote:
			e.store.Append(shape.NewNote(e.newID(), content, req.Position, e.params.Color))
		default:
			e.store.Append(shape.NewText(e.newID(), content, req.Position, e.params.Color))
		}
	}
	e.notify()
	return committed
}

// CancelText discards the pending text or note.
func (e *Editor) CancelText() {
	if e.pending == nil {
		return
	}
	e.pending = nil
	e.notify()
}

func (e *Editor) erase(p geometry.Point2D) {
	tol := hittest.Eraser(e.params.EraserPathRadius, e.params.EraserAnchorRadius)
	m, ok := hittest.FindNearest(p, e.store.Shapes(), tol)
	if !ok {
		return
	}
	e.store.Remove(m.ShapeID)
	e.notify()
}

func (e *Editor) addPoint(p geometry.Point2D) {
	cal := e.params.Calibration
	switch e.tool {
	case ToolDistance:
		e.points = append(e.points, p)
		if len(e.points) == 2 {
			e.commit(shape.NewDistance(e.newID(), e.points[0], e.points[1], cal))
			return
		}
	case ToolAngle:
		e.points = append(e.points, p)
		if len(e.points) == 3 {
			e.commit(shape.NewAngle(e.newID(), e.points[0], e.points[1], e.points[2]))
			return
		}
	case ToolArea:
		// A click near the first vertex, or the click reaching the point
		// cap, closes the polygon and is dropped.
		if len(e.points) >= 3 && (geometry.Distance(p, e.points[0]) < e.params.CloseRadius ||
			(e.params.MaxAreaPoints > 0 && len(e.points)+1 >= e.params.MaxAreaPoints)) {
			e.commit(shape.NewArea(e.newID(), e.points, cal))
			return
		}
		e.points = append(e.points, p)
	}
	e.notify()
}

func (e *Editor) commit(s shape.Shape) {
	e.store.Append(s)
	e.points = nil
	e.notify()
}

func (e *Editor) beginDrag(p geometry.Point2D) {
	m, ok := hittest.FindNearest(p, e.store.Shapes(), hittest.Measurements(e.params.DragRadius))
	if !ok {
		return
	}
	e.drag = &dragTarget{shapeID: m.ShapeID, pointIndex: m.PointIndex}
	e.notify()
}

func (e *Editor) moveDrag(p geometry.Point2D) {
	s, _, ok := e.store.Find(e.drag.shapeID)
	if !ok {
		e.drag = nil
		return
	}
	m := s.(shape.Measurement)
	// The closest point is re-picked on every move.
	idx := hittest.ClosestPoint(p, m.Points())
	e.store.Replace(m.ID(), m.WithPoint(idx, p, e.params.Calibration))
	e.drag.pointIndex = idx
	e.notify()
}

// Clear removes every committed shape, discards any draft and deselects the
// tool.
func (e *Editor) Clear() {
	e.store.Clear()
	e.resetDraft()
	e.tool = ToolNone
	e.notify()
}

// Shapes returns a snapshot of the committed shapes in draw order.
func (e *Editor) Shapes() []shape.Shape { return e.store.Shapes() }

// Measurements returns the committed measurements in draw order.
func (e *Editor) Measurements() []shape.Measurement { return e.store.Measurements() }

// Len returns the number of committed shapes.
func (e *Editor) Len() int { return e.store.Len() }

// Draft describes the in-progress shape for rendering.
func (e *Editor) Draft() shape.Draft {
	d := shape.Draft{
		Cursor:    e.cursor,
		HasCursor: e.haveCursor,
		Color:     e.params.Color,
	}
	switch {
	case e.pending != nil:
		d.Active = true
		d.Kind = shape.KindText
		if e.pending.Tool == ToolNote {
			d.Kind = shape.KindNote
		}
		d.Points = []geometry.Point2D{e.pending.Position}
	case len(e.points) > 0:
		d.Active = true
		d.Points = append([]geometry.Point2D(nil), e.points...)
		switch e.tool {
		case ToolDistance:
			d.Kind = shape.KindDistance
		case ToolAngle:
			d.Kind = shape.KindAngle
		case ToolArea:
			d.Kind = shape.KindArea
		default:
			d.Kind = shape.KindDrawing
		}
	}
	return d
}

// Save hands a snapshot of the committed shapes to the save callback and
// returns it.
func (e *Editor) Save() []shape.Shape {
	snap := e.store.Shapes()
	if e.onSave != nil {
		e.onSave(snap)
	}
	return snap
}

// Hint returns a short instruction for the current tool and phase.
func (e *Editor) Hint() string {
	switch e.tool {
	case ToolDraw:
		return "Drag to draw"
	case ToolText:
		return "Click to place text"
	case ToolNote:
		return "Click to place a note"
	case ToolEraser:
		return "Click a stroke or label to erase it"
	case ToolDistance:
		if len(e.points) == 1 {
			return "Click the end point"
		}
		return "Click the start point"
	case ToolAngle:
		switch len(e.points) {
		case 1:
			return "Click the vertex"
		case 2:
			return "Click the second arm"
		}
		return "Click the first arm"
	case ToolArea:
		if len(e.points) >= 3 {
			return fmt.Sprintf("%d points; click near the first point to close", len(e.points))
		}
		return "Click to add polygon points"
	case ToolMove:
		if e.drag != nil {
			return "Release to drop the point"
		}
		return "Drag a measurement point"
	}
	return ""
}
