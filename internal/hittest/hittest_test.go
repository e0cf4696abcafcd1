package hittest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xray-overlay/internal/shape"
	"xray-overlay/pkg/colorutil"
	"xray-overlay/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func TestClosestPoint(t *testing.T) {
	pts := []geometry.Point2D{pt(0, 0), pt(10, 0), pt(10, 0), pt(20, 0)}

	assert.Equal(t, -1, ClosestPoint(pt(0, 0), nil))
	assert.Equal(t, 0, ClosestPoint(pt(1, 1), pts))
	assert.Equal(t, 1, ClosestPoint(pt(11, 0), pts), "ties resolve to the lowest index")
	assert.Equal(t, 3, ClosestPoint(pt(100, 0), pts))
}

func TestFindNearestFirstInOrderWins(t *testing.T) {
	shapes := []shape.Shape{
		shape.NewDistance("a", pt(0, 0), pt(50, 0), 1),
		shape.NewDistance("b", pt(2, 0), pt(50, 50), 1),
	}

	m, ok := FindNearest(pt(2, 0), shapes, Uniform(10))
	require.True(t, ok)
	assert.Equal(t, Match{ShapeID: "a", ShapeIndex: 0, PointIndex: 0}, m)
}

func TestFindNearestStrictTolerance(t *testing.T) {
	shapes := []shape.Shape{shape.NewDistance("a", pt(0, 0), pt(50, 0), 1)}

	_, ok := FindNearest(pt(10, 0), shapes, Uniform(10))
	assert.False(t, ok, "exactly on the radius is a miss")

	m, ok := FindNearest(pt(9.9, 0), shapes, Uniform(10))
	require.True(t, ok)
	assert.Equal(t, 0, m.PointIndex)
}

func TestEraserTolerance(t *testing.T) {
	stroke := shape.NewDrawing("s", []geometry.Point2D{pt(0, 0), pt(40, 0)}, colorutil.Red)
	note := shape.NewNote("n", "x", pt(100, 100), colorutil.Red)
	dist := shape.NewDistance("d", pt(200, 200), pt(300, 200), 1)
	shapes := []shape.Shape{stroke, note, dist}
	tol := Eraser(10, 20)

	_, ok := FindNearest(pt(0, 15), shapes, tol)
	assert.False(t, ok, "stroke vertices use the tighter radius")

	m, ok := FindNearest(pt(100, 115), shapes, tol)
	require.True(t, ok)
	assert.Equal(t, "n", m.ShapeID)

	_, ok = FindNearest(pt(200, 200), shapes, tol)
	assert.False(t, ok, "measurements are not erasable")
}

func TestMeasurementsTolerance(t *testing.T) {
	shapes := []shape.Shape{
		shape.NewText("t", "label", pt(0, 0), colorutil.Red),
		shape.NewAngle("a", pt(10, 0), pt(0, 0), pt(0, 10)),
	}

	m, ok := FindNearest(pt(1, 1), shapes, Measurements(10))
	require.True(t, ok)
	assert.Equal(t, "a", m.ShapeID)
	assert.Equal(t, 0, m.PointIndex, "first arm is within 10 px before the vertex")
	assert.Equal(t, 1, m.ShapeIndex)
}

func TestFindNearestFirstPointWithinTolerance(t *testing.T) {
	shapes := []shape.Shape{shape.NewDistance("d", pt(0, 0), pt(5, 0), 1)}

	m, ok := FindNearest(pt(4, 0), shapes, Uniform(10))
	require.True(t, ok)
	assert.Equal(t, Match{ShapeID: "d", ShapeIndex: 0, PointIndex: 0}, m)

	m, ok = FindNearest(pt(14, 0), shapes, Uniform(10))
	require.True(t, ok)
	assert.Equal(t, 1, m.PointIndex, "only the far end is in range")
}
