package tools

import (
	"LayerBoard/internal/geom"
	"LayerBoard/internal/state"
)

// Button is the pointer button that started a gesture.
type Button uint8

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Modifiers are the keys held during a pointer event.
type Modifiers struct {
	// Additive toggles primitives into the selection instead of replacing it.
	Additive bool
	// Constrain snaps angles and aspect ratios.
	Constrain bool
	// Pan turns any drag into a viewport pan.
	Pan bool
}

// PointerEvent is one device event in screen pixels. Outside marks a
// release that happened off the canvas, which aborts the gesture.
type PointerEvent struct {
	Pointer  int
	Screen   geom.Point
	Pressure float64
	Button   Button
	Mods     Modifiers
	Outside  bool
}

// Phase is what an in-flight gesture is doing.
type Phase uint8

const (
	Idle Phase = iota
	Drawing
	Erasing
	Shaping
	Boxing
	Panning
	Marquee
	Moving
	Resizing
	Rotating
)

var phaseNames = [...]string{"idle", "drawing", "erasing", "shaping", "boxing", "panning", "marquee", "moving", "resizing", "rotating"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Gesture is the single pointer interaction in flight, from press to
// release. The zero value is idle.
type Gesture struct {
	Phase   Phase
	Pointer int
	Tool    Tool
	Mods    Modifiers
	// Additive is Mods.Additive as held at press. Mods follows the keys
	// for the rest of the gesture.
	Additive bool

	StartScreen geom.Point
	LastScreen  geom.Point
	Start       geom.Point
	Last        geom.Point

	// Samples holds freehand points for Drawing and pixel Erasing.
	Samples []state.Point
	// Erased collects primitives deleted by a stroke-mode eraser pass.
	Erased []state.ID
	// Rejected counts stroke-mode eraser hits on locked layers.
	Rejected int
}

// Active reports whether a gesture is in flight.
func (g *Gesture) Active() bool { return g.Phase != Idle }

// Owns reports whether ev belongs to the gesture in flight.
func (g *Gesture) Owns(ev PointerEvent) bool { return g.Active() && g.Pointer == ev.Pointer }

// Begin starts a gesture at the logical point p.
func (g *Gesture) Begin(phase Phase, t Tool, ev PointerEvent, p geom.Point) {
	*g = Gesture{
		Phase:       phase,
		Pointer:     ev.Pointer,
		Tool:        t,
		Mods:        ev.Mods,
		Additive:    ev.Mods.Additive,
		StartScreen: ev.Screen,
		LastScreen:  ev.Screen,
		Start:       p,
		Last:        p,
	}
	if phase == Drawing || phase == Erasing {
		g.Sample(p, ev.Pressure)
	}
}

// Advance records a move to the logical point p and returns the screen
// delta since the previous event.
func (g *Gesture) Advance(ev PointerEvent, p geom.Point) geom.Point {
	d := ev.Screen.Sub(g.LastScreen)
	g.LastScreen = ev.Screen
	g.Last = p
	g.Mods = ev.Mods
	if g.Phase == Drawing || g.Phase == Erasing {
		g.Sample(p, ev.Pressure)
	}
	return d
}

// Sample appends a freehand point, skipping exact repeats.
func (g *Gesture) Sample(p geom.Point, pressure float64) {
	if pressure <= 0 {
		pressure = 1
	}
	if n := len(g.Samples); n > 0 && g.Samples[n-1].Pos().Eq(p) {
		return
	}
	g.Samples = append(g.Samples, state.Point{X: p.X, Y: p.Y, Pressure: pressure})
}

// Reset returns the gesture to idle.
func (g *Gesture) Reset() { *g = Gesture{} }
