// Package organelle provides the shape factories that draw a cell, its
// organelles and the molecules of protein synthesis.
//
// Every factory builds a container node whose children carry absolute
// scene coordinates, so the container's bounding box is the shape's.
package organelle

import (
	"math"
	"math/rand/v2"

	"github.com/phanxgames/biovis"
)

// Catalog returns a factory for every kind the engine knows. seed drives
// the jitter of Golgi vesicles.
func Catalog(seed uint64) biovis.Factories {
	return biovis.Factories{
		biovis.KindCell:         Cell{},
		biovis.KindNucleus:      Nucleus{},
		biovis.KindMitochondria: Mitochondria{},
		biovis.KindGolgi:        NewGolgi(seed),
		biovis.KindER:           ER{},
		biovis.KindLysosome:     Lysosome{},
		biovis.KindMRNA:         MRNA{},
		biovis.KindRibosome:     Ribosome{},
		biovis.KindTRNA:         TRNA{},
		biovis.KindProtein:      Protein{},
	}
}

func filled(parent *biovis.Node, name string, points []biovis.Vec2, c biovis.Color) *biovis.Node {
	n := biovis.NewPolygon(name, points)
	n.Color = c
	parent.AddChild(n)
	return n
}

func stroked(parent *biovis.Node, name string, points []biovis.Vec2, width float64, closed bool, c biovis.Color) *biovis.Node {
	n := biovis.NewStroke(name, points, width, closed)
	n.Color = c
	parent.AddChild(n)
	return n
}

func dot(parent *biovis.Node, name string, x, y, r float64, c biovis.Color) *biovis.Node {
	n := biovis.NewCircle(name, x, y, r)
	n.Color = c
	parent.AddChild(n)
	return n
}

// ellipse adds a filled ellipse with an outline on top.
func ellipse(parent *biovis.Node, name string, cx, cy, rx, ry float64, fill, stroke biovis.Color, width float64) {
	pts := biovis.EllipsePoints(cx, cy, rx, ry, 0)
	filled(parent, name, pts, fill)
	stroked(parent, name+"-outline", pts, width, true, stroke)
}

// Cell draws the plasma membrane, its proteins and the cytoplasm. X, Y is
// the center.
type Cell struct{}

func (Cell) Layer() string { return biovis.LayerMembrane }

func (Cell) Build(g biovis.Geometry) *biovis.Node {
	root := biovis.NewContainer("cell")
	rx, ry := g.Width/2, g.Height/2

	filled(root, "membrane", biovis.EllipsePoints(g.X, g.Y, rx, ry, 0), membraneFill)
	filled(root, "membrane-inner", biovis.EllipsePoints(g.X, g.Y, rx*0.95, ry*0.95, 0), membraneEdge.WithAlpha(0.5))
	stroked(root, "membrane-outline", biovis.EllipsePoints(g.X, g.Y, rx, ry, 0), 3, true, membraneStroke)

	for i, p := range biovis.EllipsePoints(g.X, g.Y, rx-5, ry-5, 12) {
		angle := float64(i) / 12 * 2 * math.Pi
		root.AddChild(membraneProteinNode(p, angle))
	}

	filled(root, "cytoplasm", biovis.EllipsePoints(g.X, g.Y, rx-10, ry-10, 0), cytoplasmFill.WithAlpha(0.5))
	return root
}

// membraneProteinNode is a cup shape rotated to face outward.
func membraneProteinNode(at biovis.Vec2, angle float64) *biovis.Node {
	n := biovis.NewContainer("membrane-protein")
	outline := []biovis.Vec2{{X: -8, Y: 0}, {X: 8, Y: 0}}
	outline = append(outline, biovis.CubicBezierPoints(
		biovis.Vec2{X: 8, Y: 0}, biovis.Vec2{X: 8, Y: 8}, biovis.Vec2{X: 4, Y: 12}, biovis.Vec2{X: 0, Y: 12}, 8)[1:]...)
	outline = append(outline, biovis.CubicBezierPoints(
		biovis.Vec2{X: 0, Y: 12}, biovis.Vec2{X: -4, Y: 12}, biovis.Vec2{X: -8, Y: 8}, biovis.Vec2{X: -8, Y: 0}, 8)[1:]...)
	filled(n, "body", outline, membraneProtein)
	stroked(n, "body-outline", outline, 1, true, proteinStroke)
	n.SetPosition(at.X, at.Y)
	n.SetRotation(angle)
	return n
}

// Nucleus draws the double nuclear envelope, pores, chromatin and the
// nucleolus. X, Y is the center and Size the radius.
type Nucleus struct{}

func (Nucleus) Layer() string { return biovis.LayerOrganelles }

func (Nucleus) Build(g biovis.Geometry) *biovis.Node {
	root := biovis.NewContainer("nucleus")
	r := g.Size
	ellipse(root, "envelope", g.X, g.Y, r, r, nucleusOuter, nucleusStroke, 2)
	ellipse(root, "envelope-inner", g.X, g.Y, r-4, r-4, nucleusInner, nucleusStroke, 1)

	for i, p := range biovis.EllipsePoints(g.X, g.Y, r*0.55, r*0.45, 6) {
		dot(root, "chromatin", p.X, p.Y, 2+float64(i%2), chromatin.WithAlpha(0.4))
	}
	for _, p := range biovis.EllipsePoints(g.X, g.Y, r, r, 8) {
		dot(root, "pore", p.X, p.Y, 3, pore)
	}
	dot(root, "nucleolus", g.X+r/4, g.Y-r/4, r/4, nucleolus.WithAlpha(0.7))
	return root
}

// Mitochondria draws outer and inner membranes, cristae folds and ATP
// synthase particles. X, Y is the center; the body is 3*Size wide.
type Mitochondria struct{}

func (Mitochondria) Layer() string { return biovis.LayerOrganelles }

func (Mitochondria) Build(g biovis.Geometry) *biovis.Node {
	root := biovis.NewContainer("mitochondria")
	s := g.Size
	ellipse(root, "outer", g.X, g.Y, s*1.5, s*0.75, mitoFill, mitoStroke, 2)
	ellipse(root, "inner", g.X, g.Y, s*1.4, s*0.65, mitoInner, mitoStroke, 1)

	// Cristae: alternating folds across the inner membrane.
	folds := 4
	step := s * 2.4 / float64(folds)
	for i := range folds {
		x0 := g.X - s*1.2 + float64(i)*step
		bulge := s * 0.5
		if i%2 == 1 {
			bulge = -bulge
		}
		pts := biovis.QuadBezierPoints(
			biovis.Vec2{X: x0, Y: g.Y},
			biovis.Vec2{X: x0 + step/2, Y: g.Y + bulge},
			biovis.Vec2{X: x0 + step, Y: g.Y}, 12)
		stroked(root, "crista", pts, 1, false, mitoStroke)
	}

	for _, p := range biovis.EllipsePoints(g.X, g.Y, s*1.4, s*0.65, 6) {
		dot(root, "atp-synthase", p.X, p.Y, 3, atpSynth)
	}
	return root
}

// Golgi draws a stack of six curved cisternae, each with three vesicles.
// X, Y is the top of the stack and Size its half width.
type Golgi struct {
	rng *rand.Rand
}

// NewGolgi returns a Golgi factory whose vesicle jitter is seeded.
func NewGolgi(seed uint64) *Golgi {
	return &Golgi{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (*Golgi) Layer() string { return biovis.LayerOrganelles }

const golgiCisternae = 6

func (f *Golgi) Build(g biovis.Geometry) *biovis.Node {
	root := biovis.NewContainer("golgi")
	s := g.Size
	layerHeight := s / golgiCisternae
	for i := range golgiCisternae {
		c := biovis.NewContainer("cisterna")
		y := g.Y + float64(i)*layerHeight
		curve := 15 - float64(i)*2
		col := cisternaColor(i)
		pts := biovis.CubicBezierPoints(
			biovis.Vec2{X: g.X - s, Y: y},
			biovis.Vec2{X: g.X - s/2, Y: y - curve},
			biovis.Vec2{X: g.X + s/2, Y: y - curve},
			biovis.Vec2{X: g.X + s, Y: y}, 0)
		stroked(c, "membrane", pts, 3, false, col)
		for j := range 3 {
			vx := g.X + float64(j-1)*s/2 + f.rng.Float64()*20
			vy := y + (f.rng.Float64()-0.5)*10
			dot(c, "vesicle", vx, vy, 5, col)
			stroked(c, "vesicle-outline", biovis.EllipsePoints(vx, vy, 5, 5, 16), 1, true, vesicleStroke)
		}
		root.AddChild(c)
	}
	return root
}

// ER draws rough endoplasmic reticulum as a sine wave studded with
// ribosomes. X, Y is the left end; the wave spans Width.
type ER struct{}

func (ER) Layer() string { return biovis.LayerOrganelles }

func erWave(g biovis.Geometry, i float64) biovis.Vec2 {
	return biovis.Vec2{X: g.X + i, Y: g.Y + math.Sin(i/20)*10}
}

func (ER) Build(g biovis.Geometry) *biovis.Node {
	root := biovis.NewContainer("er")
	var pts []biovis.Vec2
	for i := 0.0; i < g.Width; i += 20 {
		pts = append(pts, erWave(g, i))
	}
	if len(pts) >= 2 {
		stroked(root, "membrane", pts, 3, false, erStroke)
	}
	for i := 0.0; i < g.Width; i += 15 {
		p := erWave(g, i)
		dot(root, "ribosome", p.X, p.Y, 3, erRibosome)
	}
	return root
}

// Lysosome draws a vesicle holding eight enzyme particles. X, Y is the
// center and Size the radius.
type Lysosome struct{}

func (Lysosome) Layer() string { return biovis.LayerOrganelles }

func (Lysosome) Build(g biovis.Geometry) *biovis.Node {
	root := biovis.NewContainer("lysosome")
	ellipse(root, "body", g.X, g.Y, g.Size, g.Size, lysoFill, lysoStroke, 2)
	for _, p := range biovis.EllipsePoints(g.X, g.Y, g.Size*0.7, g.Size*0.7, 8) {
		dot(root, "enzyme", p.X, p.Y, 2, enzyme)
	}
	return root
}
