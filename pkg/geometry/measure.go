package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Calibration is the physical length in millimetres covered by one image pixel.
type Calibration float64

// DefaultCalibration is the nominal chest film scale of 0.2 mm per pixel.
const DefaultCalibration Calibration = 0.2

// Valid reports whether the calibration is a positive finite ratio.
func (c Calibration) Valid() bool {
	f := float64(c)
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Length converts a pixel length to millimetres.
func (c Calibration) Length(px float64) float64 {
	return px * float64(c)
}

// Area converts a pixel area to square millimetres.
func (c Calibration) Area(px2 float64) float64 {
	return px2 * float64(c) * float64(c)
}

// Distance returns the Euclidean pixel distance between a and b.
func Distance(a, b Point2D) float64 {
	return a.Distance(b)
}

// Angle returns the included angle in degrees at vertex between the rays
// towards p1 and p2, folded into [0, 180].
func Angle(p1, vertex, p2 Point2D) float64 {
	a1 := math.Atan2(p1.Y-vertex.Y, p1.X-vertex.X)
	a2 := math.Atan2(p2.Y-vertex.Y, p2.X-vertex.X)
	deg := math.Abs(a1-a2) * 180 / math.Pi
	if deg > 180 {
		deg = 360 - deg
	}
	return deg
}

// SignedArea returns the shoelace area of the closed polygon. The sign
// follows the winding order.
func SignedArea(points []Point2D) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += r2.Cross(points[i].vec(), points[(i+1)%n].vec())
	}
	return sum / 2
}

// Area returns the absolute shoelace area of the closed polygon in square pixels.
func Area(points []Point2D) float64 {
	return math.Abs(SignedArea(points))
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point2D) Point2D {
	return fromVec(r2.Scale(0.5, r2.Add(a.vec(), b.vec())))
}

// BisectorPoint returns the point at radius from vertex along the bisector
// of the angle p1-vertex-p2.
func BisectorPoint(p1, vertex, p2 Point2D, radius float64) Point2D {
	d1 := r2.Sub(p1.vec(), vertex.vec())
	d2 := r2.Sub(p2.vec(), vertex.vec())
	n1, n2 := r2.Norm(d1), r2.Norm(d2)

	var dir r2.Vec
	switch {
	case n1 == 0 && n2 == 0:
		dir = r2.Vec{X: 1}
	case n1 == 0:
		dir = r2.Unit(d2)
	case n2 == 0:
		dir = r2.Unit(d1)
	default:
		sum := r2.Add(r2.Scale(1/n1, d1), r2.Scale(1/n2, d2))
		if r2.Norm(sum) < 1e-9 {
			// Straight angle: take the left-hand normal of the first ray.
			u := r2.Scale(1/n1, d1)
			dir = r2.Vec{X: u.Y, Y: -u.X}
		} else {
			dir = r2.Unit(sum)
		}
	}
	return fromVec(r2.Add(vertex.vec(), r2.Scale(radius, dir)))
}
