package biovis

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Font is the interface for text measurement and layout.
type Font interface {
	MeasureString(text string) (width, height float64)
	LineHeight() float64
}

// --- TextBlock ---

// TextBlock holds text content, formatting, and cached layout state.
type TextBlock struct {
	Content string
	Font    Font
	Color   Color

	// Cached layout (unexported)
	layoutDirty bool
	measuredW   float64
	measuredH   float64

	// Rendering cache (unexported)
	image      *ebiten.Image // cached rendered text
	imageDirty bool          // true when the cache needs re-render
}

// SetContent replaces the text and invalidates the cached layout.
func (tb *TextBlock) SetContent(s string) {
	if tb.Content == s {
		return
	}
	tb.Content = s
	tb.layoutDirty = true
}

// Size returns the measured width and height of the text.
func (tb *TextBlock) Size() (w, h float64) {
	tb.layout()
	return tb.measuredW, tb.measuredH
}

// layout recomputes measured dimensions if dirty.
func (tb *TextBlock) layout() {
	if !tb.layoutDirty {
		return
	}
	tb.layoutDirty = false
	tb.imageDirty = true

	if tb.Font == nil || tb.Content == "" {
		tb.measuredW = 0
		tb.measuredH = 0
		return
	}
	tb.measuredW, tb.measuredH = tb.Font.MeasureString(tb.Content)
}

// release frees the cached image.
func (tb *TextBlock) release() {
	if tb.image != nil {
		tb.image.Deallocate()
		tb.image = nil
	}
}

// --- TTFFont ---

// TTFFont wraps Ebitengine's text/v2 for TrueType font rendering.
type TTFFont struct {
	face   *text.GoTextFace
	source *text.GoTextFaceSource
	size   float64
	lh     float64 // cached line height
	ascent float64
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("biovis: failed to parse TTF data: %w", err)
	}

	face := &text.GoTextFace{
		Source: source,
		Size:   size,
	}

	// Compute line height from metrics
	m := face.Metrics()
	lh := m.HAscent + m.HDescent + m.HLineGap

	return &TTFFont{
		face:   face,
		source: source,
		size:   size,
		lh:     lh,
		ascent: m.HAscent,
	}, nil
}

// LoadDefaultFont loads the Go Regular face at the given size.
func LoadDefaultFont(size float64) (*TTFFont, error) {
	return LoadTTFFont(goregular.TTF, size)
}

// MeasureString returns the width and height of the rendered text.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *TTFFont) LineHeight() float64 {
	return f.lh
}

// Ascent returns the distance from the top of a line to its baseline.
func (f *TTFFont) Ascent() float64 {
	return f.ascent
}

// Size returns the font size in pixels.
func (f *TTFFont) Size() float64 {
	return f.size
}

// Face returns the underlying GoTextFace for direct Ebitengine text/v2 rendering.
func (f *TTFFont) Face() *text.GoTextFace {
	return f.face
}

// baselineOffset returns how far above its baseline a text node's origin
// must sit so that the baseline lands on the node's Y.
func baselineOffset(f Font) float64 {
	switch ft := f.(type) {
	case *TTFFont:
		return ft.Ascent()
	case nil:
		return 0
	default:
		return f.LineHeight() * 0.8
	}
}

// --- Text rendering helper (used by render.go) ---

// textImage returns the cached rendered image for tb, re-rendering it only
// when the content or font changed. Returns nil for empty text.
func textImage(tb *TextBlock) *ebiten.Image {
	tb.layout()
	if tb.measuredW == 0 || tb.measuredH == 0 {
		return nil
	}
	f, ok := tb.Font.(*TTFFont)
	if !ok {
		return nil
	}
	if !tb.imageDirty && tb.image != nil {
		return tb.image
	}
	tb.imageDirty = false

	w := int(tb.measuredW) + 1
	h := int(tb.measuredH) + 1
	if tb.image != nil {
		oldB := tb.image.Bounds()
		if oldB.Dx() != w || oldB.Dy() != h {
			tb.image.Deallocate()
			tb.image = ebiten.NewImage(w, h)
		} else {
			tb.image.Clear()
		}
	} else {
		tb.image = ebiten.NewImage(w, h)
	}

	op := &text.DrawOptions{}
	op.ColorScale.Scale(
		float32(tb.Color.R),
		float32(tb.Color.G),
		float32(tb.Color.B),
		float32(tb.Color.A),
	)
	op.LineSpacing = f.lh
	text.Draw(tb.image, tb.Content, f.face, op)
	return tb.image
}
