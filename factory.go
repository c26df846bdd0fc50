package biovis

// Kind names a shape a ShapeFactory can build.
type Kind string

const (
	KindCell         Kind = "cell"
	KindNucleus      Kind = "nucleus"
	KindMitochondria Kind = "mitochondria"
	KindGolgi        Kind = "golgi"
	KindER           Kind = "er"
	KindLysosome     Kind = "lysosome"
	KindMRNA         Kind = "mrna"
	KindRibosome     Kind = "ribosome"
	KindTRNA         Kind = "trna"
	KindProtein      Kind = "protein"
)

// Geometry positions a shape. Factories read the fields they need: most
// structures use X, Y as their center with Width and Height, molecules use
// Size.
type Geometry struct {
	X, Y          float64
	Width, Height float64
	Size          float64
}

// ShapeFactory builds the drawable for one kind. The engine never looks
// inside the returned node beyond its bounds and numeric properties.
type ShapeFactory interface {
	// Layer is the layer the built node is added to.
	Layer() string
	Build(g Geometry) *Node
}

// Factories maps kinds to their factories.
type Factories map[Kind]ShapeFactory

// FactoryFunc adapts a function to ShapeFactory.
type FactoryFunc struct {
	LayerName string
	Fn        func(g Geometry) *Node
}

func (f FactoryFunc) Layer() string          { return f.LayerName }
func (f FactoryFunc) Build(g Geometry) *Node { return f.Fn(g) }
