package state

import (
	"encoding/json"
	"fmt"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/viewport"
)

// FormatVersion is the persisted board layout version.
const FormatVersion = 1

type document struct {
	Version     int                `json:"version"`
	Canvas      Size               `json:"canvas"`
	Background  Color              `json:"background"`
	ActiveLayer ID                 `json:"activeLayerId"`
	NextID      ID                 `json:"nextId,omitempty"`
	Viewport    *viewport.Viewport `json:"viewport,omitempty"`
	Layers      []layerRecord      `json:"layers"`
}

type layerRecord struct {
	ID         ID                `json:"id"`
	Name       string            `json:"name"`
	Visible    bool              `json:"visible"`
	Locked     bool              `json:"locked"`
	Raster     *Raster           `json:"raster,omitempty"`
	Primitives []json.RawMessage `json:"primitives"`
}

type (
	strokeRecord struct {
		Type string `json:"type"`
		*Stroke
	}
	shapeRecord struct {
		Type string `json:"type"`
		*Shape
	}
	textRecord struct {
		Type string `json:"type"`
		*TextField
	}
)

// Encode serializes the whole board: layers, viewport and id counter.
// This is the blob handed to the persistence collaborator.
func Encode(b *Board) ([]byte, error) {
	doc, err := toDocument(b)
	if err != nil {
		return nil, err
	}
	view := b.View
	doc.Viewport = &view
	doc.NextID = b.clock.Last()
	return json.Marshal(doc)
}

// EncodeContent serializes only the document content (canvas, layers and
// active layer). History entries store this form; it leaves out the
// viewport, selection and id counter, which are view or session state.
func EncodeContent(b *Board) ([]byte, error) {
	doc, err := toDocument(b)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func toDocument(b *Board) (*document, error) {
	doc := &document{
		Version:     FormatVersion,
		Canvas:      b.Canvas,
		Background:  b.Background,
		ActiveLayer: b.ActiveLayer,
		Layers:      make([]layerRecord, len(b.Layers)),
	}
	for i, l := range b.Layers {
		rec := layerRecord{
			ID:         l.ID,
			Name:       l.Name,
			Visible:    l.Visible,
			Locked:     l.Locked,
			Raster:     l.Raster,
			Primitives: make([]json.RawMessage, len(l.Primitives)),
		}
		for j, p := range l.Primitives {
			raw, err := encodePrimitive(p)
			if err != nil {
				return nil, fmt.Errorf("encode %s primitive %d: %w", p.Kind(), p.PrimitiveID(), err)
			}
			rec.Primitives[j] = raw
		}
		doc.Layers[i] = rec
	}
	return doc, nil
}

func encodePrimitive(p Primitive) ([]byte, error) {
	switch v := p.(type) {
	case *Stroke:
		return json.Marshal(strokeRecord{Type: KindStroke.String(), Stroke: v})
	case *Shape:
		return json.Marshal(shapeRecord{Type: KindShape.String(), Shape: v})
	case *TextField:
		return json.Marshal(textRecord{Type: KindText.String(), TextField: v})
	default:
		return nil, fmt.Errorf("unknown primitive %T", p)
	}
}

// Decode parses a persisted board. It fails closed: any inconsistency
// yields a *LoadError and no board.
func Decode(data []byte) (*Board, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Reason: "unreadable blob", Err: err}
	}
	b, err := fromDocument(&doc)
	if err != nil {
		return nil, err
	}
	if doc.Viewport != nil {
		if !doc.Viewport.Valid() {
			return nil, &LoadError{Reason: "viewport out of range"}
		}
		b.View = *doc.Viewport
	}
	if doc.NextID != 0 {
		if doc.NextID < b.clock.Last() {
			return nil, &LoadError{Reason: fmt.Sprintf("id counter %d is below used id %d", doc.NextID, b.clock.Last())}
		}
		b.clock.Update(doc.NextID)
	}
	return b, nil
}

// RestoreContent replaces b's document content with an EncodeContent blob.
// The viewport is kept, the id clock never moves backwards and the
// selection is pruned to ids that still exist. On error b is untouched.
func RestoreContent(b *Board, data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return &LoadError{Reason: "unreadable history state", Err: err}
	}
	nb, err := fromDocument(&doc)
	if err != nil {
		return err
	}
	b.Canvas = nb.Canvas
	b.Background = nb.Background
	b.Layers = nb.Layers
	b.ActiveLayer = nb.ActiveLayer
	b.clock.Update(nb.clock.Last())
	b.PruneSelection()
	return nil
}

func fromDocument(doc *document) (*Board, error) {
	if doc.Version != FormatVersion {
		return nil, &LoadError{Reason: fmt.Sprintf("unsupported version %d", doc.Version)}
	}
	if !geom.Finite(doc.Canvas.Width, doc.Canvas.Height) || doc.Canvas.Width <= 0 || doc.Canvas.Height <= 0 {
		return nil, &LoadError{Reason: "canvas size must be positive"}
	}
	if len(doc.Layers) == 0 {
		return nil, &LoadError{Reason: "board has no layers"}
	}
	b := &Board{Canvas: doc.Canvas, Background: doc.Background, View: viewport.New()}
	seen := make(map[ID]bool)
	claim := func(id ID) error {
		if id == 0 || seen[id] {
			return &LoadError{Reason: fmt.Sprintf("missing or duplicate id %d", id)}
		}
		seen[id] = true
		b.clock.Update(id)
		return nil
	}
	for _, rec := range doc.Layers {
		if err := claim(rec.ID); err != nil {
			return nil, err
		}
		l := &Layer{ID: rec.ID, Name: rec.Name, Visible: rec.Visible, Locked: rec.Locked}
		if rec.Raster != nil {
			r, err := NewRaster(rec.Raster.PNG, rec.Raster.X, rec.Raster.Y)
			if err != nil {
				return nil, &LoadError{Reason: fmt.Sprintf("layer %d raster", rec.ID), Err: err}
			}
			l.Raster = r
		}
		for _, raw := range rec.Primitives {
			p, err := decodePrimitive(raw)
			if err != nil {
				return nil, &LoadError{Reason: fmt.Sprintf("layer %d primitive", rec.ID), Err: err}
			}
			if err := claim(p.PrimitiveID()); err != nil {
				return nil, err
			}
			p.setIdentity(p.PrimitiveID(), l.ID)
			l.Primitives = append(l.Primitives, p)
		}
		b.Layers = append(b.Layers, l)
	}
	b.renumber()
	if b.Layer(doc.ActiveLayer) == nil {
		return nil, &LoadError{Reason: fmt.Sprintf("active layer %d does not exist", doc.ActiveLayer)}
	}
	b.ActiveLayer = doc.ActiveLayer
	return b, nil
}

func decodePrimitive(raw json.RawMessage) (Primitive, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	var p Primitive
	switch head.Type {
	case KindStroke.String():
		p = &Stroke{}
	case KindShape.String():
		p = &Shape{}
	case KindText.String():
		p = &TextField{}
	default:
		return nil, fmt.Errorf("unknown primitive type %q", head.Type)
	}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
