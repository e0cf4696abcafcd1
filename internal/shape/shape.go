// Package shape defines the overlay data model: freehand drawings, text and
// note annotations, and the calibrated distance, angle and area measurements.
//
// Shapes are immutable values. Editing a measurement produces a new value
// whose derived quantity is recomputed from its points.
package shape

import (
	"image/color"

	"github.com/google/uuid"

	"xray-overlay/pkg/geometry"
)

// Kind identifies the variant of a Shape.
type Kind int

const (
	KindDrawing Kind = iota
	KindText
	KindNote
	KindDistance
	KindAngle
	KindArea
)

func (k Kind) String() string {
	switch k {
	case KindDrawing:
		return "Drawing"
	case KindText:
		return "Text"
	case KindNote:
		return "Note"
	case KindDistance:
		return "Distance"
	case KindAngle:
		return "Angle"
	case KindArea:
		return "Area"
	}
	return "Unknown"
}

// IsMeasurement reports whether shapes of this kind carry a derived value.
func (k Kind) IsMeasurement() bool {
	return k == KindDistance || k == KindAngle || k == KindArea
}

// Shape is implemented by every overlay element.
type Shape interface {
	ID() string
	Kind() Kind
	// Points returns a copy of the shape's control points in image pixels.
	Points() []geometry.Point2D
	sealed()
}

// NewID returns a fresh unique shape identifier.
func NewID() string {
	return uuid.NewString()
}

func clonePoints(pts []geometry.Point2D) []geometry.Point2D {
	if pts == nil {
		return nil
	}
	out := make([]geometry.Point2D, len(pts))
	copy(out, pts)
	return out
}

// Drawing is a freehand polyline stroke.
type Drawing struct {
	id    string
	path  []geometry.Point2D
	color color.RGBA
}

// NewDrawing creates a stroke from path. The path is copied.
func NewDrawing(id string, path []geometry.Point2D, c color.RGBA) Drawing {
	return Drawing{id: id, path: clonePoints(path), color: c}
}

func (d Drawing) ID() string                 { return d.id }
func (Drawing) Kind() Kind                   { return KindDrawing }
func (d Drawing) Points() []geometry.Point2D { return clonePoints(d.path) }
func (d Drawing) Color() color.RGBA          { return d.color }
func (Drawing) sealed()                      {}

// anchored is the common body of text and note annotations.
type anchored struct {
	id       string
	content  string
	position geometry.Point2D
	color    color.RGBA
}

func (a anchored) ID() string                 { return a.id }
func (a anchored) Points() []geometry.Point2D { return []geometry.Point2D{a.position} }
func (a anchored) Content() string            { return a.content }
func (a anchored) Position() geometry.Point2D { return a.position }
func (a anchored) Color() color.RGBA          { return a.color }
func (anchored) sealed()                      {}

// Text is a free-floating text label anchored at its baseline origin.
type Text struct{ anchored }

// NewText creates a text annotation.
func NewText(id, content string, pos geometry.Point2D, c color.RGBA) Text {
	return Text{anchored{id: id, content: content, position: pos, color: c}}
}

func (Text) Kind() Kind { return KindText }

// Note is a boxed sticky note anchored at its top-left corner.
type Note struct{ anchored }

// NewNote creates a note annotation.
func NewNote(id, content string, pos geometry.Point2D, c color.RGBA) Note {
	return Note{anchored{id: id, content: content, position: pos, color: c}}
}

func (Note) Kind() Kind { return KindNote }

// Colored is implemented by annotations that carry an ink color.
type Colored interface {
	Color() color.RGBA
}
