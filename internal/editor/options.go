package editor

import (
	"image/color"

	"xray-overlay/internal/shape"
	"xray-overlay/pkg/colorutil"
	"xray-overlay/pkg/geometry"
)

// Params are the tunable thresholds of an editor, in image pixels.
type Params struct {
	Calibration geometry.Calibration
	// CloseRadius closes an area polygon when a click lands this close to
	// its first vertex.
	CloseRadius float64
	// MaxAreaPoints is the click count that closes an area polygon. The
	// closing click is dropped.
	MaxAreaPoints int
	// DragRadius is the pick radius of the move tool.
	DragRadius float64
	// EraserPathRadius and EraserAnchorRadius are the eraser pick radii for
	// stroke vertices and text or note anchors.
	EraserPathRadius   float64
	EraserAnchorRadius float64
	Color              color.RGBA
}

// DefaultParams returns the stock thresholds.
func DefaultParams() Params {
	return Params{
		Calibration:        geometry.DefaultCalibration,
		CloseRadius:        20,
		MaxAreaPoints:      10,
		DragRadius:         10,
		EraserPathRadius:   10,
		EraserAnchorRadius: 20,
		Color:              colorutil.Red,
	}
}

// TextRequest asks the host to collect text for a pending text or note.
type TextRequest struct {
	Tool     Tool
	Position geometry.Point2D
}

// Option configures an Editor.
type Option func(*Editor)

// WithOnChange registers a callback run after every visible state change.
func WithOnChange(fn func()) Option {
	return func(e *Editor) { e.onChange = fn }
}

// WithOnSave registers the callback run by Save with the committed shapes.
func WithOnSave(fn func([]shape.Shape)) Option {
	return func(e *Editor) { e.onSave = fn }
}

// WithOnTextRequest registers the callback run when a text or note anchor is
// placed and content is needed.
func WithOnTextRequest(fn func(TextRequest)) Option {
	return func(e *Editor) { e.onTextRequest = fn }
}

// WithIDs overrides the shape identifier source.
func WithIDs(fn func() string) Option {
	return func(e *Editor) { e.newID = fn }
}
