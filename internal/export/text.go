package export

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"LayerBoard/internal/state"
)

type faceKey struct {
	mono   bool
	bold   bool
	italic bool
	size   float64
}

// fontCache parses the Go fonts once and keeps a face per size and variant.
type fontCache struct {
	mu    sync.Mutex
	fonts map[faceKey]*opentype.Font
	faces map[faceKey]font.Face
}

func newFontCache() *fontCache {
	return &fontCache{fonts: make(map[faceKey]*opentype.Font), faces: make(map[faceKey]font.Face)}
}

func fontData(k faceKey) []byte {
	switch {
	case k.mono && k.bold && k.italic:
		return gomonobolditalic.TTF
	case k.mono && k.bold:
		return gomonobold.TTF
	case k.mono && k.italic:
		return gomonoitalic.TTF
	case k.mono:
		return gomono.TTF
	case k.bold && k.italic:
		return gobolditalic.TTF
	case k.bold:
		return gobold.TTF
	case k.italic:
		return goitalic.TTF
	}
	return goregular.TTF
}

func monospace(family string) bool {
	f := strings.ToLower(family)
	return strings.Contains(f, "mono") || strings.Contains(f, "courier") || strings.Contains(f, "code")
}

// face returns the face for a text style at size pixels.
func (c *fontCache) face(family string, w state.FontWeight, s state.FontStyle, size float64) (font.Face, error) {
	key := faceKey{mono: monospace(family), bold: w == state.WeightBold, italic: s == state.StyleItalic, size: size}
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	fk := key
	fk.size = 0
	parsed, ok := c.fonts[fk]
	if !ok {
		var err error
		parsed, err = opentype.Parse(fontData(fk))
		if err != nil {
			return nil, fmt.Errorf("parse font: %w", err)
		}
		c.fonts[fk] = parsed
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("font face %.1fpx: %w", size, err)
	}
	c.faces[key] = f
	return f, nil
}

// textLine is one laid-out line relative to the text box's top-left corner.
type textLine struct {
	Text     string
	X        float64
	Baseline float64
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// layoutText wraps t's content to a box width pixels wide and aligns each
// line. Explicit line breaks are kept; words longer than the box overflow.
func layoutText(face font.Face, t *state.TextField, width float64) []textLine {
	m := face.Metrics()
	ascent, lineH := fixedToFloat(m.Ascent), fixedToFloat(m.Height)
	measure := func(s string) float64 { return fixedToFloat(font.MeasureString(face, s)) }

	var rows []string
	for _, para := range t.Lines() {
		words := strings.Fields(para)
		if len(words) == 0 {
			rows = append(rows, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			if measure(cur+" "+w) > width {
				rows = append(rows, cur)
				cur = w
				continue
			}
			cur += " " + w
		}
		rows = append(rows, cur)
	}

	out := make([]textLine, len(rows))
	for i, row := range rows {
		x := 0.0
		switch t.TextAlign {
		case state.AlignCenter:
			x = (width - measure(row)) / 2
		case state.AlignRight:
			x = width - measure(row)
		}
		out[i] = textLine{Text: row, X: x, Baseline: ascent + float64(i)*lineH}
	}
	return out
}
