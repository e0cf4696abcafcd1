package shape

import "xray-overlay/pkg/geometry"

// Measurement is a Shape with a value derived from its points.
type Measurement interface {
	Shape
	// Value is the derived quantity in Unit.
	Value() float64
	Unit() string
	// WithPoint returns a copy with point i moved to p and the value
	// recomputed. Out-of-range indices return the receiver unchanged.
	WithPoint(i int, p geometry.Point2D, cal geometry.Calibration) Measurement
	// Rederive recomputes the value under a new calibration.
	Rederive(cal geometry.Calibration) Measurement
}

// Units of the derived measurement values.
const (
	UnitMillimetre       = "mm"
	UnitDegree           = "°"
	UnitSquareMillimetre = "mm²"
)

type measure struct {
	id     string
	points []geometry.Point2D
	value  float64
}

func (m measure) ID() string                 { return m.id }
func (m measure) Points() []geometry.Point2D { return clonePoints(m.points) }
func (m measure) Value() float64             { return m.value }
func (measure) sealed()                      {}

func (m measure) moved(i int, p geometry.Point2D) ([]geometry.Point2D, bool) {
	if i < 0 || i >= len(m.points) {
		return nil, false
	}
	pts := clonePoints(m.points)
	pts[i] = p
	return pts, true
}

// Distance is a calibrated straight-line length between two points.
type Distance struct{ measure }

// NewDistance creates a distance measurement from a to b.
func NewDistance(id string, a, b geometry.Point2D, cal geometry.Calibration) Distance {
	return Distance{measure{
		id:     id,
		points: []geometry.Point2D{a, b},
		value:  cal.Length(geometry.Distance(a, b)),
	}}
}

func (Distance) Kind() Kind   { return KindDistance }
func (Distance) Unit() string { return UnitMillimetre }

// Endpoints returns the two ends of the segment.
func (d Distance) Endpoints() (geometry.Point2D, geometry.Point2D) {
	return d.points[0], d.points[1]
}

func (d Distance) WithPoint(i int, p geometry.Point2D, cal geometry.Calibration) Measurement {
	pts, ok := d.moved(i, p)
	if !ok {
		return d
	}
	return NewDistance(d.id, pts[0], pts[1], cal)
}

func (d Distance) Rederive(cal geometry.Calibration) Measurement {
	return NewDistance(d.id, d.points[0], d.points[1], cal)
}

// Angle is the included angle at a vertex, ordered (p1, vertex, p2).
type Angle struct{ measure }

// NewAngle creates an angle measurement. The value is in degrees and does
// not depend on calibration.
func NewAngle(id string, p1, vertex, p2 geometry.Point2D) Angle {
	return Angle{measure{
		id:     id,
		points: []geometry.Point2D{p1, vertex, p2},
		value:  geometry.Angle(p1, vertex, p2),
	}}
}

func (Angle) Kind() Kind   { return KindAngle }
func (Angle) Unit() string { return UnitDegree }

// Vertex returns the apex of the angle.
func (a Angle) Vertex() geometry.Point2D { return a.points[1] }

func (a Angle) WithPoint(i int, p geometry.Point2D, _ geometry.Calibration) Measurement {
	pts, ok := a.moved(i, p)
	if !ok {
		return a
	}
	return NewAngle(a.id, pts[0], pts[1], pts[2])
}

func (a Angle) Rederive(geometry.Calibration) Measurement { return a }

// Area is a calibrated closed polygon area.
type Area struct{ measure }

// NewArea creates an area measurement over the closed polygon pts. The
// polygon is implicitly closed; pts should not repeat the first vertex.
func NewArea(id string, pts []geometry.Point2D, cal geometry.Calibration) Area {
	return Area{measure{
		id:     id,
		points: clonePoints(pts),
		value:  cal.Area(geometry.Area(pts)),
	}}
}

func (Area) Kind() Kind   { return KindArea }
func (Area) Unit() string { return UnitSquareMillimetre }

func (a Area) WithPoint(i int, p geometry.Point2D, cal geometry.Calibration) Measurement {
	pts, ok := a.moved(i, p)
	if !ok {
		return a
	}
	return NewArea(a.id, pts, cal)
}

func (a Area) Rederive(cal geometry.Calibration) Measurement {
	return NewArea(a.id, a.points, cal)
}
