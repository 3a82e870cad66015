package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/state"
)

func TestParseRoundTrip(t *testing.T) {
	all := []Tool{
		Brush{Kind: state.Brush},
		Brush{Kind: state.Marker},
		Brush{Kind: state.Highlighter},
		Eraser{Mode: ErasePixel},
		Eraser{Mode: EraseStroke},
		Text{},
		Select{},
		Hand{},
	}
	for _, k := range state.ShapeKinds() {
		all = append(all, Shape{Kind: k})
	}
	for _, tool := range all {
		t.Run(tool.String(), func(t *testing.T) {
			got, err := Parse(tool.String())
			require.NoError(t, err)
			assert.Equal(t, tool, got)
			assert.NoError(t, Validate(got))
		})
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	for _, name := range []string{"", "pencil", "shape:blob", "eraser:smudge"} {
		_, err := Parse(name)
		assert.ErrorIs(t, err, state.ErrValidation, name)
	}
	assert.ErrorIs(t, Validate(Brush{Kind: state.Eraser}), state.ErrValidation)
	assert.ErrorIs(t, Validate(nil), state.ErrValidation)
}

func TestGestureSampling(t *testing.T) {
	var g Gesture
	assert.False(t, g.Active())

	ev := PointerEvent{Pointer: 3, Screen: geom.Pt(10, 10)}
	g.Begin(Drawing, Default(), ev, geom.Pt(5, 5))
	assert.True(t, g.Owns(ev))
	assert.False(t, g.Owns(PointerEvent{Pointer: 4}))

	ev.Screen = geom.Pt(14, 13)
	ev.Pressure = 0.5
	d := g.Advance(ev, geom.Pt(7, 6.5))
	assert.Equal(t, geom.Pt(4, 3), d)
	g.Advance(ev, geom.Pt(7, 6.5))

	require.Len(t, g.Samples, 2, "repeated positions are not sampled twice")
	assert.Equal(t, 1.0, g.Samples[0].Pressure)
	assert.Equal(t, 0.5, g.Samples[1].Pressure)

	g.Reset()
	assert.Equal(t, Idle, g.Phase)
	assert.Nil(t, g.Samples)
}

func TestAdditiveIsLatchedAtPress(t *testing.T) {
	var g Gesture
	ev := PointerEvent{Pointer: 1, Mods: Modifiers{Additive: true}}
	g.Begin(Marquee, Select{}, ev, geom.Pt(0, 0))

	ev.Mods = Modifiers{Constrain: true}
	g.Advance(ev, geom.Pt(10, 10))
	assert.True(t, g.Additive)
	assert.False(t, g.Mods.Additive)
	assert.True(t, g.Mods.Constrain, "constrain follows the keys")
}
