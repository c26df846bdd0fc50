package biovis

import (
	"errors"
	"math"
)

// Sentinel errors returned by engine operations. Callers match them with
// errors.Is; most are wrapped with the offending id or value.
var (
	ErrComponentNotFound = errors.New("biovis: component not found")
	ErrInvalidSide       = errors.New("biovis: invalid annotation side")
	ErrInvalidDuration   = errors.New("biovis: duration must be positive")
	ErrNoProperties      = errors.New("biovis: no properties to animate")
	ErrUnknownKind       = errors.New("biovis: no factory for kind")
	ErrUnknownLayer      = errors.New("biovis: unknown layer")
	ErrContainerNotFound = errors.New("biovis: container not found")
	ErrDestroyed         = errors.New("biovis: scene destroyed")
	ErrInvalidSize       = errors.New("biovis: surface size must be positive")
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// toRGBA converts c to a premultiplied colorRGBA for image fills.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether the rectangle has neither width nor height.
func (r Rect) Empty() bool {
	return r.Width <= 0 && r.Height <= 0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// rectUnion returns the smallest Rect containing both a and b.
func rectUnion(a, b Rect) Rect {
	minX := math.Min(a.X, b.X)
	minY := math.Min(a.Y, b.Y)
	maxX := math.Max(a.X+a.Width, b.X+b.Width)
	maxY := math.Max(a.Y+a.Height, b.Y+b.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeMesh                      // renders arbitrary triangles via DrawTriangles
	NodeTypeText                      // renders text via a TTF face
)

// TextAlign controls where a text node sits relative to its anchor. The
// names follow SVG's text-anchor values.
type TextAlign uint8

const (
	TextAlignStart  TextAlign = iota // text begins at the anchor
	TextAlignMiddle                  // text is centered on the anchor
	TextAlignEnd                     // text ends at the anchor
)

func (a TextAlign) String() string {
	switch a {
	case TextAlignStart:
		return "start"
	case TextAlignMiddle:
		return "middle"
	case TextAlignEnd:
		return "end"
	default:
		return "unknown"
	}
}
