package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmoothControls(t *testing.T) {
	p0, p1, p2, p3 := Pt(0, 0), Pt(6, 0), Pt(12, 6), Pt(18, 6)
	c1, c2 := SmoothControls(p0, p1, p2, p3)
	assert.Equal(t, Pt(8, 1), c1)
	assert.Equal(t, Pt(10, 5), c2)
}

func TestSmoothClampsEnds(t *testing.T) {
	p := Smooth([]Point{Pt(10, 10), Pt(100, 10)})
	require.Len(t, p, 2)
	assert.Equal(t, MoveTo, p[0].Op)
	assert.Equal(t, CubeTo, p[1].Op)
	assert.Equal(t, Pt(25, 10), p[1].Pts[0])
	assert.Equal(t, Pt(85, 10), p[1].Pts[1])
	assert.Equal(t, Pt(100, 10), p[1].Pts[2])

	assert.Nil(t, Smooth(nil))
}

func TestSnapAngle(t *testing.T) {
	cases := []struct {
		name string
		end  Point
		want Point
	}{
		{"near horizontal", Pt(100, 10), Pt(math.Hypot(100, 10), 0)},
		{"near diagonal", Pt(50, 45), Pt(math.Hypot(50, 45)/math.Sqrt2, math.Hypot(50, 45)/math.Sqrt2)},
		{"near vertical", Pt(-3, -80), Pt(0, -math.Hypot(3, 80))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SnapAngle(Pt(0, 0), tc.end, 45)
			assert.InDelta(t, tc.want.X, got.X, 1e-9)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-9)
		})
	}
}

func TestSnapSquare(t *testing.T) {
	assert.Equal(t, Pt(40, 40), SnapSquare(Pt(0, 0), Pt(40, 10)))
	assert.Equal(t, Pt(-30, 30), SnapSquare(Pt(0, 0), Pt(-10, 30)))
}

func TestRectOps(t *testing.T) {
	a := RectFromPoints(Pt(10, 40), Pt(0, 0))
	assert.Equal(t, Rect{0, 0, 10, 40}, a)
	assert.True(t, a.Intersects(RectXYWH(10, 40, 5, 5)))
	assert.False(t, a.Intersects(RectXYWH(11, 0, 5, 5)))
	assert.Equal(t, Rect{0, 0, 20, 40}, a.Union(RectXYWH(15, 5, 5, 5)))
	assert.True(t, Rect{}.Empty())

	assert.Equal(t, []Point{{0, 0}, {10, 0}, {10, 40}, {0, 40}}, a.Corners())
	outline := Polygon(a.Corners()...).Flatten(1)
	require.Len(t, outline, 1)
	assert.Len(t, outline[0], 5, "closed ring repeats the first corner")

	r := RectXYWH(0, 0, 10, 10).RotatedBounds(45)
	half := 5 * math.Sqrt2
	assert.InDelta(t, 5-half, r.MinX, 1e-9)
	assert.InDelta(t, 5+half, r.MaxY, 1e-9)
}

func TestAffine(t *testing.T) {
	m := RotateAbout(Pt(5, 5), 90)
	got := m.Apply(Pt(10, 5))
	assert.InDelta(t, 5, got.X, 1e-9)
	assert.InDelta(t, 10, got.Y, 1e-9)

	chain := Translate(1, 2).Then(Scale(2))
	assert.Equal(t, Pt(4, 6), chain.Apply(Pt(1, 1)))
}

func TestPathFlattenAndSVG(t *testing.T) {
	p := Polygon(Pt(0, 0), Pt(10, 0), Pt(10, 10))
	lines := p.Flatten(4)
	require.Len(t, lines, 1)
	assert.Equal(t, []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 0)}, lines[0])
	assert.Equal(t, "M0 0 L10 0 L10 10 Z", p.SVG())

	assert.Equal(t, "1.235", FormatFloat(1.23456))
	assert.Equal(t, "-2.5", FormatFloat(-2.5))
}

func TestSegmentDist(t *testing.T) {
	assert.InDelta(t, 3, SegmentDist(Pt(5, 3), Pt(0, 0), Pt(10, 0)), 1e-9)
	assert.InDelta(t, 5, SegmentDist(Pt(13, 4), Pt(0, 0), Pt(10, 0)), 1e-9)
}
