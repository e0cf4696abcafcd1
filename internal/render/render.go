// Package render rasterizes overlay shapes onto a transparent RGBA surface
// sized to the underlying image. Rendering only reads shapes.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"xray-overlay/internal/shape"
	"xray-overlay/pkg/colorutil"
	"xray-overlay/pkg/geometry"
)

// Style holds the visual constants of the overlays.
type Style struct {
	StrokeWidth  float64
	MarkerRadius float64
	ArcRadius    float64
	// LabelLift raises distance labels above the segment midpoint.
	LabelLift float64

	Measure       color.Color
	MeasureMarker color.Color
	MeasureFill   color.Color
	Draft         color.Color
	DraftMarker   color.Color
	DraftFill     color.Color
	LabelFill     color.Color
	LabelOutline  color.Color

	NoteHeight   float64
	NoteMaxWidth float64
	NoteRadius   float64
	NoteFill     color.Color
	NoteText     color.Color
	// NoteMaxRunes is the longest note shown in full; longer notes are cut
	// to NoteMaxRunes-3 runes plus an ellipsis.
	NoteMaxRunes int
}

// DefaultStyle returns the stock overlay look.
func DefaultStyle() Style {
	return Style{
		StrokeWidth:   2,
		MarkerRadius:  4,
		ArcRadius:     20,
		LabelLift:     10,
		Measure:       colorutil.Blue,
		MeasureMarker: colorutil.WithAlpha(colorutil.Blue, 0.5),
		MeasureFill:   colorutil.WithAlpha(colorutil.Blue, 0.2),
		Draft:         colorutil.Red,
		DraftMarker:   colorutil.WithAlpha(colorutil.Red, 0.5),
		DraftFill:     colorutil.WithAlpha(colorutil.Red, 0.2),
		LabelFill:     colorutil.White,
		LabelOutline:  colorutil.DarkBlue,
		NoteHeight:    40,
		NoteMaxWidth:  200,
		NoteRadius:    5,
		NoteFill:      colorutil.NoteFill,
		NoteText:      colorutil.Black,
		NoteMaxRunes:  25,
	}
}

// Surface is a transparent overlay raster.
type Surface struct {
	img   *image.RGBA
	style Style
}

// NewSurface creates a transparent surface of the given pixel size.
func NewSurface(width, height int, style Style) *Surface {
	return &Surface{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		style: style,
	}
}

// Image returns the backing raster. It is overwritten by the next Redraw.
func (s *Surface) Image() *image.RGBA { return s.img }

// Style returns the surface style.
func (s *Surface) Style() Style { return s.style }

// Resize reallocates the raster when the image size changes.
func (s *Surface) Resize(width, height int) {
	if s.img.Bounds().Dx() == width && s.img.Bounds().Dy() == height {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Redraw clears the surface and paints the committed shapes in order,
// followed by the draft.
func (s *Surface) Redraw(shapes []shape.Shape, draft shape.Draft) *image.RGBA {
	clear(s.img.Pix)
	for _, sh := range shapes {
		s.drawShape(sh)
	}
	s.drawDraft(draft)
	return s.img
}

// Render paints shapes onto a fresh transparent raster.
func Render(width, height int, style Style, shapes []shape.Shape) *image.RGBA {
	return NewSurface(width, height, style).Redraw(shapes, shape.Draft{})
}

func (s *Surface) drawShape(sh shape.Shape) {
	st := s.style
	switch v := sh.(type) {
	case shape.Drawing:
		pts := v.Points()
		if len(pts) > 1 {
			strokePolyline(s.img, pts, st.StrokeWidth, v.Color(), false)
		}
	case shape.Text:
		p := v.Position()
		drawText(s.img, v.Content(), int(math.Round(p.X)), int(math.Round(p.Y)), v.Color())
	case shape.Note:
		s.drawNote(v)
	case shape.Distance:
		a, b := v.Endpoints()
		strokeLine(s.img, a, b, st.StrokeWidth, st.Measure)
		s.markers(v.Points(), st.MeasureMarker)
	case shape.Angle:
		pts := v.Points()
		strokePolyline(s.img, pts, st.StrokeWidth, st.Measure, false)
		s.markers(pts, st.MeasureMarker)
		s.arc(pts[0], pts[1], pts[2], st.Measure)
	case shape.Area:
		pts := v.Points()
		fillPolygon(s.img, pts, st.MeasureFill)
		strokePolyline(s.img, pts, st.StrokeWidth, st.Measure, true)
		s.markers(pts, st.MeasureMarker)
	}
	if m, ok := sh.(shape.Measurement); ok {
		drawLabel(s.img, LabelText(m), s.labelPosition(m), st.LabelFill, st.LabelOutline)
	}
}

func (s *Surface) markers(pts []geometry.Point2D, col color.Color) {
	for _, p := range pts {
		fillCircle(s.img, p, s.style.MarkerRadius, col)
	}
}

func (s *Surface) arc(p1, vertex, p2 geometry.Point2D, col color.Color) {
	from := math.Atan2(p1.Y-vertex.Y, p1.X-vertex.X)
	to := math.Atan2(p2.Y-vertex.Y, p2.X-vertex.X)
	pts := geometry.ArcPoints(vertex, s.style.ArcRadius, from, to, 24)
	strokePolyline(s.img, pts, s.style.StrokeWidth, col, false)
}

func (s *Surface) drawNote(n shape.Note) {
	st := s.style
	p := n.Position()
	text := NoteText(n.Content(), st.NoteMaxRunes)
	box := geometry.Rect{
		X:      p.X,
		Y:      p.Y,
		Width:  NoteWidth(n.Content(), st.NoteMaxWidth),
		Height: st.NoteHeight,
	}
	outline := roundRect(box, st.NoteRadius)
	fillPolygon(s.img, outline, st.NoteFill)
	strokePolyline(s.img, outline, 1, n.Color(), true)
	drawText(s.img, text, int(math.Round(p.X))+10, int(math.Round(p.Y))+25, st.NoteText)
}

func (s *Surface) drawDraft(d shape.Draft) {
	if !d.Active || len(d.Points) == 0 {
		return
	}
	st := s.style
	pts := d.Points
	switch d.Kind {
	case shape.KindDrawing:
		if len(pts) > 1 {
			strokePolyline(s.img, pts, st.StrokeWidth, d.Color, false)
		}
		return
	case shape.KindText, shape.KindNote:
		p := pts[0]
		strokeLine(s.img, p.Add(geometry.NewPoint2D(-6, 0)), p.Add(geometry.NewPoint2D(6, 0)), 1, d.Color)
		strokeLine(s.img, p.Add(geometry.NewPoint2D(0, -6)), p.Add(geometry.NewPoint2D(0, 6)), 1, d.Color)
		return
	}

	s.markers(pts, st.DraftMarker)
	switch d.Kind {
	case shape.KindDistance:
		if d.HasCursor {
			strokeLine(s.img, pts[0], d.Cursor, st.StrokeWidth, st.Draft)
		}
	case shape.KindAngle:
		if len(pts) == 2 {
			strokeLine(s.img, pts[1], pts[0], st.StrokeWidth, st.Draft)
			if d.HasCursor {
				strokeLine(s.img, pts[1], d.Cursor, st.StrokeWidth, st.Draft)
			}
		} else if d.HasCursor {
			strokeLine(s.img, pts[0], d.Cursor, st.StrokeWidth, st.Draft)
		}
	case shape.KindArea:
		ring := pts
		if d.HasCursor {
			ring = append(append([]geometry.Point2D(nil), pts...), d.Cursor)
		}
		if len(ring) > 2 {
			fillPolygon(s.img, ring, st.DraftFill)
		}
		strokePolyline(s.img, ring, st.StrokeWidth, st.Draft, len(ring) > 2)
	}
}

func (s *Surface) labelPosition(m shape.Measurement) geometry.Point2D {
	p := LabelAnchor(m, s.style.ArcRadius)
	if m.Kind() == shape.KindDistance {
		p.Y -= s.style.LabelLift
	}
	return p
}

// LabelAnchor returns where a measurement's label belongs: the midpoint of
// a distance, a point on the angle bisector at arcRadius from the vertex,
// or the vertex average of an area polygon.
func LabelAnchor(m shape.Measurement, arcRadius float64) geometry.Point2D {
	pts := m.Points()
	switch m.Kind() {
	case shape.KindDistance:
		return geometry.Midpoint(pts[0], pts[1])
	case shape.KindAngle:
		return geometry.BisectorPoint(pts[0], pts[1], pts[2], arcRadius)
	}
	return geometry.Centroid(pts)
}

// LabelText formats a measurement value with one decimal.
func LabelText(m shape.Measurement) string {
	if m.Kind() == shape.KindAngle {
		return fmt.Sprintf("%.1f%s", m.Value(), m.Unit())
	}
	return fmt.Sprintf("%.1f %s", m.Value(), m.Unit())
}

// NoteWidth sizes a note box to its content, capped at maxWidth.
func NoteWidth(content string, maxWidth float64) float64 {
	return math.Min(float64(len([]rune(content))*7+20), maxWidth)
}

// NoteText cuts content longer than maxRunes to maxRunes-3 runes plus "...".
func NoteText(content string, maxRunes int) string {
	r := []rune(content)
	if maxRunes <= 3 || len(r) <= maxRunes {
		return content
	}
	return string(r[:maxRunes-3]) + "..."
}
