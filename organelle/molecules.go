package organelle

import (
	"math"

	"github.com/phanxgames/biovis"
)

// Molecules start fully transparent; the protein synthesis scenario fades
// them in.

func hidden(n *biovis.Node) *biovis.Node {
	n.SetAlpha(0)
	return n
}

// MRNA draws an arched strand with colored bases. X, Y is the left end,
// Width the span and Height the arch.
type MRNA struct{}

func (MRNA) Layer() string { return biovis.LayerMolecules }

func (MRNA) Build(g biovis.Geometry) *biovis.Node {
	root := biovis.NewContainer("mrna")
	stroked(root, "backbone", biovis.QuadBezierPoints(
		biovis.Vec2{X: g.X, Y: g.Y},
		biovis.Vec2{X: g.X + g.Width/2, Y: g.Y - g.Height},
		biovis.Vec2{X: g.X + g.Width, Y: g.Y}, 0), 3, false, mrnaStroke)

	length := math.Floor(g.Width)
	for i := 0; float64(i) < length; i += 20 {
		t := float64(i) / length
		x := g.X + t*g.Width
		y := g.Y - math.Sin(t*math.Pi)*g.Height
		dot(root, "base", x, y, 3, mrnaBases[(i/20)%len(mrnaBases)])
	}
	return hidden(root)
}

// Ribosome draws the large and small subunits. X, Y is the center of the
// large subunit; Size is its horizontal radius.
type Ribosome struct{}

func (Ribosome) Layer() string { return biovis.LayerMolecules }

func (Ribosome) Build(g biovis.Geometry) *biovis.Node {
	root := biovis.NewContainer("ribosome")
	s := g.Size
	ellipse(root, "large-subunit", g.X, g.Y, s, s*0.6, ribosomeLarge, ribosomeLargeStroke, 2)
	ellipse(root, "small-subunit", g.X, g.Y-s*0.4, s*0.6, s*0.4, ribosomeSmall, ribosomeSmallStroke, 2)
	return hidden(root)
}

// TRNA draws an L-shaped tRNA carrying an amino acid. X, Y is the foot;
// the arm rises Height and reaches Width to the right.
type TRNA struct{}

func (TRNA) Layer() string { return biovis.LayerMolecules }

func (TRNA) Build(g biovis.Geometry) *biovis.Node {
	root := biovis.NewContainer("trna")
	top := g.Y - g.Height
	stroked(root, "body", []biovis.Vec2{
		{X: g.X, Y: g.Y},
		{X: g.X, Y: top},
		{X: g.X + g.Width, Y: top},
	}, 2, false, trnaStroke)
	dot(root, "amino-acid", g.X+g.Width, top, 4, aminoAcid)
	return hidden(root)
}

// Protein draws a polypeptide chain sagging below X, Y across Width, with
// a residue every 10 units.
type Protein struct{}

func (Protein) Layer() string { return biovis.LayerMolecules }

func (Protein) Build(g biovis.Geometry) *biovis.Node {
	root := biovis.NewContainer("protein")
	stroked(root, "chain", biovis.QuadBezierPoints(
		biovis.Vec2{X: g.X, Y: g.Y},
		biovis.Vec2{X: g.X + g.Width/2, Y: g.Y + g.Height},
		biovis.Vec2{X: g.X + g.Width, Y: g.Y}, 0), 4, false, proteinChain)

	length := math.Floor(g.Width)
	for i := 0; float64(i) < length; i += 10 {
		t := float64(i) / length
		dot(root, "residue", g.X+t*g.Width, g.Y+math.Sin(t*math.Pi)*g.Height, 3, proteinResidue)
	}
	return hidden(root)
}
