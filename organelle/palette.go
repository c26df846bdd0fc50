package organelle

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/phanxgames/biovis"
)

func fromColorful(c colorful.Color, alpha float64) biovis.Color {
	c = c.Clamped()
	return biovis.Color{R: c.R, G: c.G, B: c.B, A: alpha}
}

// hex parses a #rrggbb color. Palette entries are constants, so a bad one
// is a programming error.
func hex(s string) biovis.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("organelle: " + err.Error())
	}
	return fromColorful(c, 1)
}

// hsl takes hue in degrees, saturation and lightness in [0, 1].
func hsl(h, s, l float64) biovis.Color {
	return fromColorful(colorful.Hsl(h, s, l), 1)
}

var (
	membraneFill    = hex("#f0f4f8")
	membraneEdge    = hex("#cbd5e0")
	membraneStroke  = hex("#2d3748")
	membraneProtein = hex("#4299e1")
	proteinStroke   = hex("#2b6cb0")
	cytoplasmFill   = hex("#e2e8f0")

	nucleusOuter  = hex("#d69e2e")
	nucleusInner  = hex("#ecc94b")
	nucleusStroke = hex("#744210")
	chromatin     = hex("#718096")
	pore          = hex("#2d3748")
	nucleolus     = hex("#975a16")

	mitoFill   = hex("#f56565")
	mitoInner  = hex("#fc8181")
	mitoStroke = hex("#c53030")
	atpSynth   = hex("#742a2a")

	vesicleStroke = hex("#4a5568")

	erStroke   = hex("#81e6d9")
	erRibosome = hex("#4a5568")

	lysoFill   = hex("#fc8181")
	lysoStroke = hex("#e53e3e")
	enzyme     = hex("#742a2a")

	mrnaStroke = hex("#fc8181")
	mrnaBases  = []biovis.Color{hex("#f56565"), hex("#48bb78"), hex("#4299e1"), hex("#9f7aea")}

	ribosomeLarge       = hex("#4a90e2")
	ribosomeLargeStroke = hex("#2b6cb0")
	ribosomeSmall       = hex("#63b3ed")
	ribosomeSmallStroke = hex("#3182ce")

	trnaStroke = hex("#48bb78")
	aminoAcid  = hex("#9ae6b4")

	proteinChain   = hex("#b794f4")
	proteinResidue = hex("#805ad5")
)

// cisternaColor grades the Golgi stack from violet to pale pink.
func cisternaColor(i int) biovis.Color {
	return hsl(280+float64(i)*10, 0.7, 0.6+float64(i)*0.05)
}
