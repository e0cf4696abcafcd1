package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xray-overlay/pkg/colorutil"
	"xray-overlay/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestMeasurementValues(t *testing.T) {
	cal := geometry.DefaultCalibration

	d := NewDistance("d", pt(0, 0), pt(100, 0), cal)
	assert.InDelta(t, 20.0, d.Value(), 1e-9)
	assert.Equal(t, "mm", d.Unit())

	a := NewAngle("a", pt(10, 0), pt(0, 0), pt(0, 10))
	assert.InDelta(t, 90.0, a.Value(), 1e-9)
	assert.Equal(t, "°", a.Unit())
	assert.Equal(t, pt(0, 0), a.Vertex())

	ar := NewArea("r", []geometry.Point2D{pt(0, 0), pt(0, 10), pt(10, 10), pt(10, 0)}, cal)
	assert.InDelta(t, 4.0, ar.Value(), 1e-9)
	assert.Equal(t, "mm²", ar.Unit())
}

func TestWithPointRecomputes(t *testing.T) {
	cal := geometry.DefaultCalibration
	d := NewDistance("d", pt(0, 0), pt(100, 0), cal)

	moved := d.WithPoint(1, pt(200, 0), cal)
	assert.Equal(t, "d", moved.ID())
	assert.InDelta(t, 40.0, moved.Value(), 1e-9)
	assert.InDelta(t, 20.0, d.Value(), 1e-9, "original untouched")
	assert.Equal(t, pt(100, 0), d.Points()[1])

	assert.Equal(t, Measurement(d), d.WithPoint(5, pt(1, 1), cal))

	a := NewAngle("a", pt(10, 0), pt(0, 0), pt(0, 10))
	assert.InDelta(t, 45.0, a.WithPoint(2, pt(10, 10), cal).Value(), 1e-9)

	ar := NewArea("r", []geometry.Point2D{pt(0, 0), pt(0, 10), pt(10, 10), pt(10, 0)}, cal)
	grown := ar.WithPoint(2, pt(20, 20), cal)
	assert.InDelta(t, cal.Area(geometry.Area(grown.Points())), grown.Value(), 1e-12)
}

func TestRederive(t *testing.T) {
	d := NewDistance("d", pt(0, 0), pt(100, 0), 0.2)
	assert.InDelta(t, 50.0, d.Rederive(0.5).Value(), 1e-9)

	a := NewAngle("a", pt(10, 0), pt(0, 0), pt(0, 10))
	assert.InDelta(t, 90.0, a.Rederive(0.5).Value(), 1e-9)
}

func TestPointsAreCopies(t *testing.T) {
	path := []geometry.Point2D{pt(1, 1), pt(2, 2)}
	dr := NewDrawing("s", path, colorutil.Red)
	path[0] = pt(99, 99)
	assert.Equal(t, pt(1, 1), dr.Points()[0])

	got := dr.Points()
	got[1] = pt(50, 50)
	assert.Equal(t, pt(2, 2), dr.Points()[1])
}

func TestAnnotations(t *testing.T) {
	tx := NewText("t", "effusion", pt(5, 6), colorutil.Blue)
	assert.Equal(t, KindText, tx.Kind())
	assert.Equal(t, "effusion", tx.Content())
	assert.Equal(t, []geometry.Point2D{pt(5, 6)}, tx.Points())

	n := NewNote("n", "follow up", pt(1, 2), colorutil.Red)
	assert.Equal(t, KindNote, n.Kind())
	assert.Equal(t, colorutil.Red, n.Color())

	assert.False(t, KindNote.IsMeasurement())
	assert.True(t, KindArea.IsMeasurement())
	assert.Equal(t, "Angle", KindAngle.String())
}

func TestStore(t *testing.T) {
	s := NewStore()
	a := NewDistance("a", pt(0, 0), pt(1, 0), 1)
	b := NewText("b", "x", pt(0, 0), colorutil.Red)
	c := NewAngle("c", pt(1, 0), pt(0, 0), pt(0, 1))
	s.Append(a)
	s.Append(b)
	s.Append(c)

	require.Equal(t, 3, s.Len())
	assert.Len(t, s.Measurements(), 2)

	_, i, ok := s.Find("b")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	moved := a.WithPoint(1, pt(5, 0), 1)
	require.True(t, s.Replace("a", moved))
	assert.InDelta(t, 5.0, s.Shapes()[0].(Measurement).Value(), 1e-9)

	snapshot := s.Shapes()
	require.True(t, s.Remove("b"))
	assert.False(t, s.Remove("b"))
	assert.Len(t, snapshot, 3, "snapshots are independent of later removals")
	assert.Equal(t, "c", s.Shapes()[1].ID())

	s.Clear()
	assert.Zero(t, s.Len())
	assert.False(t, s.Replace("a", moved))
}
