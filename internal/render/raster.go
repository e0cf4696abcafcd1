package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"xray-overlay/pkg/geometry"
)

// face is the bitmap font used for every overlay label. It covers Latin-1,
// which includes the degree and superscript-two signs.
var face font.Face = basicfont.Face7x13

const (
	faceAscent  = 11
	faceDescent = 2
)

// pathBuilder accumulates subpaths in a rasterizer sized to a clip rectangle
// of the destination, so the cost of a primitive scales with its extent.
type pathBuilder struct {
	z    *vector.Rasterizer
	clip image.Rectangle
	ox   float64
	oy   float64
}

func newPath(dst *image.RGBA, box geometry.Rect) (*pathBuilder, bool) {
	r := image.Rect(
		int(math.Floor(box.X)), int(math.Floor(box.Y)),
		int(math.Ceil(box.X+box.Width))+1, int(math.Ceil(box.Y+box.Height))+1,
	).Intersect(dst.Bounds())
	if r.Empty() {
		return nil, false
	}
	return &pathBuilder{
		z:    vector.NewRasterizer(r.Dx(), r.Dy()),
		clip: r,
		ox:   float64(r.Min.X),
		oy:   float64(r.Min.Y),
	}, true
}

func (b *pathBuilder) polygon(pts []geometry.Point2D) {
	if len(pts) < 3 {
		return
	}
	b.z.MoveTo(float32(pts[0].X-b.ox), float32(pts[0].Y-b.oy))
	for _, p := range pts[1:] {
		b.z.LineTo(float32(p.X-b.ox), float32(p.Y-b.oy))
	}
	b.z.ClosePath()
}

// segment adds a rectangle of the given width around a-b. The winding
// matches CirclePoints so overlapping pieces merge instead of cancelling.
func (b *pathBuilder) segment(a, c geometry.Point2D, width float64) {
	d := c.Sub(a)
	l := math.Hypot(d.X, d.Y)
	if l == 0 {
		return
	}
	n := geometry.NewPoint2D(-d.Y/l*width/2, d.X/l*width/2)
	b.polygon([]geometry.Point2D{a.Sub(n), c.Sub(n), c.Add(n), a.Add(n)})
}

func (b *pathBuilder) disc(c geometry.Point2D, radius float64) {
	b.polygon(geometry.CirclePoints(c, radius, discSegments(radius)))
}

func (b *pathBuilder) fill(dst *image.RGBA, col color.Color) {
	b.z.Draw(dst, b.clip, image.NewUniform(col), image.Point{})
}

func discSegments(radius float64) int {
	n := int(radius * 4)
	if n < 12 {
		n = 12
	}
	if n > 64 {
		n = 64
	}
	return n
}

// fillPolygon fills a closed polygon.
func fillPolygon(dst *image.RGBA, pts []geometry.Point2D, col color.Color) {
	if len(pts) < 3 {
		return
	}
	b, ok := newPath(dst, geometry.BoundingBox(pts))
	if !ok {
		return
	}
	b.polygon(pts)
	b.fill(dst, col)
}

// fillCircle fills a disc centered at c.
func fillCircle(dst *image.RGBA, c geometry.Point2D, radius float64, col color.Color) {
	b, ok := newPath(dst, geometry.Rect{X: c.X - radius, Y: c.Y - radius, Width: 2 * radius, Height: 2 * radius})
	if !ok {
		return
	}
	b.disc(c, radius)
	b.fill(dst, col)
}

// strokePolyline draws a polyline with round joins and caps. closed adds
// the segment from the last point back to the first.
func strokePolyline(dst *image.RGBA, pts []geometry.Point2D, width float64, col color.Color, closed bool) {
	if len(pts) == 0 {
		return
	}
	b, ok := newPath(dst, geometry.BoundingBox(pts).Inflate(width))
	if !ok {
		return
	}
	for i := 1; i < len(pts); i++ {
		b.segment(pts[i-1], pts[i], width)
	}
	if closed && len(pts) > 2 {
		b.segment(pts[len(pts)-1], pts[0], width)
	}
	for _, p := range pts {
		b.disc(p, width/2)
	}
	b.fill(dst, col)
}

// strokeLine draws a single segment.
func strokeLine(dst *image.RGBA, a, c geometry.Point2D, width float64, col color.Color) {
	strokePolyline(dst, []geometry.Point2D{a, c}, width, col, false)
}

// roundRect returns the outline of a rectangle with circular corners.
func roundRect(r geometry.Rect, radius float64) []geometry.Point2D {
	radius = math.Min(radius, math.Min(r.Width, r.Height)/2)
	corners := []struct {
		c     geometry.Point2D
		start float64
	}{
		{geometry.NewPoint2D(r.X+r.Width-radius, r.Y+radius), -math.Pi / 2},
		{geometry.NewPoint2D(r.X+r.Width-radius, r.Y+r.Height-radius), 0},
		{geometry.NewPoint2D(r.X+radius, r.Y+r.Height-radius), math.Pi / 2},
		{geometry.NewPoint2D(r.X+radius, r.Y+radius), math.Pi},
	}
	var pts []geometry.Point2D
	for _, k := range corners {
		pts = append(pts, geometry.ArcPoints(k.c, radius, k.start, k.start+math.Pi/2, 4)...)
	}
	return pts
}

// textWidth returns the advance of s in pixels.
func textWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

// drawText draws s with its baseline origin at (x, y).
func drawText(dst *image.RGBA, s string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawLabel draws s centered on c with a one pixel outline.
func drawLabel(dst *image.RGBA, s string, c geometry.Point2D, fill, outline color.Color) {
	x := int(math.Round(c.X)) - textWidth(s)/2
	y := int(math.Round(c.Y)) + (faceAscent-faceDescent)/2
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx != 0 || dy != 0 {
				drawText(dst, s, x+dx, y+dy, outline)
			}
		}
	}
	drawText(dst, s, x, y, fill)
}
