// Package hittest resolves a pointer position to the committed shape and
// control point it refers to.
package hittest

import (
	"xray-overlay/internal/shape"
	"xray-overlay/pkg/geometry"
)

// Match identifies a shape and one of its control points.
type Match struct {
	ShapeID    string
	ShapeIndex int
	PointIndex int
}

// Tolerance returns the pick radius for a shape, or false if the shape
// cannot be picked at all.
type Tolerance func(s shape.Shape) (float64, bool)

// Uniform picks every shape with the same radius.
func Uniform(radius float64) Tolerance {
	return func(shape.Shape) (float64, bool) {
		return radius, true
	}
}

// Eraser picks annotations: stroke vertices within pathRadius, text and note
// anchors within anchorRadius. Measurements are not erasable.
func Eraser(pathRadius, anchorRadius float64) Tolerance {
	return func(s shape.Shape) (float64, bool) {
		switch s.Kind() {
		case shape.KindDrawing:
			return pathRadius, true
		case shape.KindText, shape.KindNote:
			return anchorRadius, true
		}
		return 0, false
	}
}

// Measurements picks only measurement shapes.
func Measurements(radius float64) Tolerance {
	return func(s shape.Shape) (float64, bool) {
		return radius, s.Kind().IsMeasurement()
	}
}

// FindNearest scans shapes in order, and each shape's control points in
// order, and returns the first point strictly closer to p than the shape's
// tolerance. Encounter order wins over distance.
func FindNearest(p geometry.Point2D, shapes []shape.Shape, tol Tolerance) (Match, bool) {
	for i, s := range shapes {
		radius, ok := tol(s)
		if !ok {
			continue
		}
		for j, q := range s.Points() {
			if geometry.Distance(p, q) < radius {
				return Match{ShapeID: s.ID(), ShapeIndex: i, PointIndex: j}, true
			}
		}
	}
	return Match{}, false
}

// ClosestPoint returns the index of the point nearest to p, the lowest index
// on ties, or -1 when points is empty.
func ClosestPoint(p geometry.Point2D, points []geometry.Point2D) int {
	best := -1
	bestDist := 0.0
	for i, q := range points {
		d := geometry.Distance(p, q)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
