package biovis

import (
	"fmt"
	"math"
)

// Layer names used by the engine and the default configuration.
const (
	LayerBackground   = "background"
	LayerMembrane     = "membrane"
	LayerCytoplasm    = "cytoplasm"
	LayerOrganelles   = "organelles"
	LayerMolecules    = "molecules"
	LayerLabels       = "labels"
	LayerInteractions = "interactions"
	LayerAnnotations  = "annotations"
)

// DefaultLayers is the back-to-front paint order used when Options.Layers is empty.
var DefaultLayers = []string{
	LayerBackground,
	LayerMembrane,
	LayerCytoplasm,
	LayerOrganelles,
	LayerMolecules,
	LayerLabels,
	LayerInteractions,
	LayerAnnotations,
}

// requiredLayers are looked up by the engine itself.
var requiredLayers = []string{LayerLabels, LayerAnnotations}

// LayerSet is the fixed, ordered set of named drawing layers. Each layer is a
// container node under the scene root. Layers are created once and never
// removed or reordered.
type LayerSet struct {
	root   *Node
	names  []string
	layers map[string]*Node
}

// newLayerSet creates one container per name under root, in order.
func newLayerSet(root *Node, names []string) (*LayerSet, error) {
	if len(names) > math.MaxUint8+1 {
		return nil, fmt.Errorf("biovis: %d layers exceeds %d", len(names), math.MaxUint8+1)
	}
	ls := &LayerSet{
		root:   root,
		names:  make([]string, 0, len(names)),
		layers: make(map[string]*Node, len(names)),
	}
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("biovis: layer %d has an empty name", i)
		}
		if _, dup := ls.layers[name]; dup {
			return nil, fmt.Errorf("biovis: duplicate layer %q", name)
		}
		layer := NewContainer("layer-" + name)
		layer.RenderLayer = uint8(i)
		root.AddChild(layer)
		ls.names = append(ls.names, name)
		ls.layers[name] = layer
	}
	for _, name := range requiredLayers {
		if _, ok := ls.layers[name]; !ok {
			return nil, fmt.Errorf("%w: required layer %q missing", ErrUnknownLayer, name)
		}
	}
	return ls, nil
}

// Layer returns the container for name, or nil if there is no such layer.
func (ls *LayerSet) Layer(name string) *Node {
	return ls.layers[name]
}

// Names returns the layer names in paint order. The returned slice MUST NOT
// be mutated.
func (ls *LayerSet) Names() []string {
	return ls.names
}

// Add appends n to the named layer. Nodes never move between layers once added.
func (ls *LayerSet) Add(name string, n *Node) error {
	layer, ok := ls.layers[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	layer.AddChild(n)
	return nil
}

// LayerOf returns the name of the layer n lives in.
func (ls *LayerSet) LayerOf(n *Node) (string, bool) {
	for p := n; p != nil; p = p.Parent {
		if p.Parent == ls.root {
			for _, name := range ls.names {
				if ls.layers[name] == p {
					return name, true
				}
			}
		}
	}
	return "", false
}

// SetVisible shows or hides an entire layer.
func (ls *LayerSet) SetVisible(name string, visible bool) error {
	layer, ok := ls.layers[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, name)
	}
	layer.Visible = visible
	return nil
}

// Visible reports whether the named layer is shown.
func (ls *LayerSet) Visible(name string) bool {
	layer, ok := ls.layers[name]
	return ok && layer.Visible
}

// PaintOrder returns the top-level drawables of every layer in the order they
// are painted: layer declaration order, then insertion order within a layer.
// Hidden layers are included.
func (ls *LayerSet) PaintOrder() []*Node {
	var out []*Node
	for _, name := range ls.names {
		out = append(out, ls.layers[name].children...)
	}
	return out
}

// clear disposes every drawable in every layer, keeping the layers themselves.
func (ls *LayerSet) clear() {
	for _, name := range ls.names {
		layer := ls.layers[name]
		for len(layer.children) > 0 {
			layer.children[len(layer.children)-1].Dispose()
		}
	}
}
