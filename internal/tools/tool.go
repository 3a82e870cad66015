// Package tools defines the drawing tools and the pointer gesture they drive.
package tools

import (
	"fmt"
	"strings"

	"LayerBoard/internal/state"
)

// Tool is the closed set of tools. The unexported method seals it, so a
// type switch over Brush, Eraser, Shape, Text, Select and Hand is exhaustive.
type Tool interface {
	fmt.Stringer
	tool()
}

// Brush draws freehand strokes with one of the inking profiles.
type Brush struct{ Kind state.BrushKind }

// EraseMode picks between painting ink away and deleting whole primitives.
type EraseMode uint8

const (
	ErasePixel EraseMode = iota
	EraseStroke
)

func (m EraseMode) String() string {
	if m == EraseStroke {
		return "stroke"
	}
	return "pixel"
}

// Eraser removes ink. Pixel mode commits a destination-out stroke; stroke
// mode deletes every primitive the pointer path touches.
type Eraser struct{ Mode EraseMode }

// Shape drags out a parametric shape between press and release.
type Shape struct{ Kind state.ShapeKind }

// Text places a text box.
type Text struct{}

// Select picks, marquees and transforms primitives.
type Select struct{}

// Hand pans the viewport.
type Hand struct{}

func (Brush) tool()  {}
func (Eraser) tool() {}
func (Shape) tool()  {}
func (Text) tool()   {}
func (Select) tool() {}
func (Hand) tool()   {}

func (t Brush) String() string  { return t.Kind.String() }
func (t Eraser) String() string { return "eraser:" + t.Mode.String() }
func (t Shape) String() string  { return "shape:" + t.Kind.String() }
func (Text) String() string     { return "text" }
func (Select) String() string   { return "select" }
func (Hand) String() string     { return "hand" }

// Default is the tool a fresh engine starts with.
func Default() Tool { return Brush{Kind: state.Brush} }

// Parse reads the names produced by String: "brush", "marker",
// "highlighter", "eraser[:pixel|:stroke]", "shape:<kind>", "text",
// "select" and "hand".
func Parse(name string) (Tool, error) {
	head, arg, _ := strings.Cut(strings.TrimSpace(name), ":")
	switch head {
	case "brush":
		return Brush{Kind: state.Brush}, nil
	case "marker":
		return Brush{Kind: state.Marker}, nil
	case "highlighter":
		return Brush{Kind: state.Highlighter}, nil
	case "eraser":
		switch arg {
		case "", "pixel":
			return Eraser{Mode: ErasePixel}, nil
		case "stroke":
			return Eraser{Mode: EraseStroke}, nil
		}
	case "shape":
		kind, err := state.ParseShapeKind(arg)
		if err != nil {
			return nil, err
		}
		return Shape{Kind: kind}, nil
	case "text":
		return Text{}, nil
	case "select":
		return Select{}, nil
	case "hand":
		return Hand{}, nil
	}
	return nil, state.Invalid("tool", "unknown tool %q", name)
}

// Validate rejects variants carrying out-of-range payloads, such as a
// Brush with the eraser profile.
func Validate(t Tool) error {
	switch v := t.(type) {
	case Brush:
		if v.Kind == state.Eraser || v.Kind > state.Eraser {
			return state.Invalid("tool", "brush kind %d is not a drawing brush", v.Kind)
		}
	case Eraser:
		if v.Mode > EraseStroke {
			return state.Invalid("tool", "unknown eraser mode %d", v.Mode)
		}
	case Shape:
		if _, err := state.ParseShapeKind(v.Kind.String()); err != nil {
			return err
		}
	case Text, Select, Hand:
	case nil:
		return state.Invalid("tool", "no tool")
	}
	return nil
}
