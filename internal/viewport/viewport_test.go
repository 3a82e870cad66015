package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"LayerBoard/internal/geom"
)

func TestRoundTrip(t *testing.T) {
	v := Viewport{Zoom: 2, PanX: 30, PanY: -10}
	logical := v.ToLogical(geom.Pt(130, 90))
	assert.Equal(t, geom.Pt(50, 50), logical)
	assert.Equal(t, geom.Pt(130, 90), v.ToScreen(logical))
}

func TestSetZoomClamps(t *testing.T) {
	v := New()
	for i := 0; i < 40; i++ {
		v.SetZoom(0.1)
	}
	assert.Equal(t, MaxZoom, v.Zoom)
	for i := 0; i < 40; i++ {
		v.SetZoom(-0.1)
	}
	assert.Equal(t, MinZoom, v.Zoom)
}

func TestSetZoomKeepsTopLeftOrigin(t *testing.T) {
	v := Viewport{Zoom: 1, PanX: 12, PanY: 7}
	v.SetZoom(0.5)
	assert.Equal(t, 1.5, v.Zoom)
	assert.Equal(t, 12.0, v.PanX)
	assert.Equal(t, 7.0, v.PanY)
}

func TestZoomStepsThenReset(t *testing.T) {
	v := New()
	v.SetZoom(0.1)
	v.SetZoom(0.1)
	v.SetZoom(0.1)
	assert.Equal(t, 1.3, v.Zoom)
	v.PanBy(40, 25)
	v.Reset()
	assert.Equal(t, 1.0, v.Zoom)
	assert.Equal(t, 0.0, v.PanX)
	assert.Equal(t, 0.0, v.PanY)
}

func TestZoomAtKeepsFocalPoint(t *testing.T) {
	v := New()
	focal := geom.Pt(200, 100)
	before := v.ToLogical(focal)
	v.ZoomAt(focal, 1)
	after := v.ToLogical(focal)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.Equal(t, 2.0, v.Zoom)
}
