package biovis

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"go.uber.org/zap"
)

// annotationOffset is the gap between a target's bounding box and the anchor.
const annotationOffset = 10

// Annotation styling.
var (
	connectorColor = Color{R: 0x4a / 255.0, G: 0x55 / 255.0, B: 0x68 / 255.0, A: 1}
	annotationInk  = Color{R: 0x2d / 255.0, G: 0x37 / 255.0, B: 0x48 / 255.0, A: 1}
)

const (
	connectorWidth = 1
	connectorDash  = 3
	connectorGap   = 3
)

// Side selects which edge of the target box an annotation is placed against.
type Side uint8

const (
	SideRight Side = iota
	SideLeft
	SideTop
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideRight:
		return "right"
	case SideLeft:
		return "left"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "Side(" + strconv.Itoa(int(s)) + ")"
	}
}

// Valid reports whether s is one of the four accepted sides.
func (s Side) Valid() bool {
	return s <= SideBottom
}

// ParseSide converts a side name. The empty string means SideRight.
func ParseSide(name string) (Side, error) {
	switch name {
	case "", "right":
		return SideRight, nil
	case "left":
		return SideLeft, nil
	case "top":
		return SideTop, nil
	case "bottom":
		return SideBottom, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSide, name)
}

// Anchor is where an annotation's text is placed and how it aligns there.
type Anchor struct {
	X, Y  float64
	Align TextAlign
}

// AnchorFor derives the anchor point annotationOffset units outward from box
// on the given side. Right and left anchors are vertically centered, top and
// bottom anchors horizontally centered.
func AnchorFor(box Rect, side Side) (Anchor, error) {
	c := box.Center()
	switch side {
	case SideRight:
		return Anchor{X: box.X + box.Width + annotationOffset, Y: c.Y, Align: TextAlignStart}, nil
	case SideLeft:
		return Anchor{X: box.X - annotationOffset, Y: c.Y, Align: TextAlignEnd}, nil
	case SideTop:
		return Anchor{X: c.X, Y: box.Y - annotationOffset, Align: TextAlignMiddle}, nil
	case SideBottom:
		return Anchor{X: c.X, Y: box.Y + box.Height + annotationOffset, Align: TextAlignMiddle}, nil
	}
	return Anchor{}, fmt.Errorf("%w: %v", ErrInvalidSide, side)
}

// AnnotationID names an annotation. Annotation ids come from their own
// counter and are a different type from ComponentID, so the two namespaces
// cannot be confused.
type AnnotationID uint64

func (id AnnotationID) String() string {
	return "annotation-" + strconv.FormatUint(uint64(id), 10)
}

// Annotation is a dashed connector plus a text label attached to a component.
type Annotation struct {
	ID     AnnotationID
	Target ComponentID
	Text   string
	Side   Side
	Box    Rect // target bounds when the annotation was created
	Anchor Anchor

	Group     *Node // lives in the annotations layer
	Connector *Node
	Label     *Node
}

type annotationStore struct {
	next AnnotationID
	byID map[AnnotationID]*Annotation
}

func newAnnotationStore() *annotationStore {
	return &annotationStore{byID: make(map[AnnotationID]*Annotation)}
}

func (st *annotationStore) add(a *Annotation) AnnotationID {
	st.next++
	a.ID = st.next
	st.byID[a.ID] = a
	return a.ID
}

func (st *annotationStore) remove(id AnnotationID) bool {
	a, ok := st.byID[id]
	if !ok {
		return false
	}
	delete(st.byID, id)
	a.Group.Dispose()
	return true
}

func (st *annotationStore) removeTarget(target ComponentID) {
	for id, a := range st.byID {
		if a.Target == target {
			st.remove(id)
		}
	}
}

func (st *annotationStore) clear() {
	for id := range st.byID {
		st.remove(id)
	}
}

// AddAnnotation attaches a text annotation to the component target on the
// given side of its bounding box. The side is validated before the target is
// looked up. An unknown target is logged and reported as
// ErrComponentNotFound; nothing is created in either failure case.
func (s *Scene) AddAnnotation(target ComponentID, text string, side Side) (AnnotationID, error) {
	if s.destroyed {
		return 0, ErrDestroyed
	}
	if !side.Valid() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSide, side)
	}
	n, ok := s.registry.Lookup(target)
	if !ok {
		s.missing("annotate", target)
		return 0, fmt.Errorf("annotate %v: %w", target, ErrComponentNotFound)
	}

	box := n.WorldBounds()
	anchor, err := AnchorFor(box, side)
	if err != nil {
		return 0, err
	}

	group := NewContainer("annotation")
	connector := NewDashedLine("annotation-connector", box.Center(), Vec2{X: anchor.X, Y: anchor.Y},
		connectorWidth, connectorDash, connectorGap)
	connector.Color = connectorColor
	group.AddChild(connector)

	label := NewText("annotation-text", text, s.font)
	label.TextBlock.Color = annotationInk
	placeText(label, anchor)
	group.AddChild(label)

	if err := s.layers.Add(LayerAnnotations, group); err != nil {
		group.Dispose()
		return 0, err
	}
	a := &Annotation{
		Target:    target,
		Text:      text,
		Side:      side,
		Box:       box,
		Anchor:    anchor,
		Group:     group,
		Connector: connector,
		Label:     label,
	}
	id := s.annotations.add(a)
	s.log.Debug("annotation added",
		zap.Stringer("annotation", id),
		zap.Stringer("target", target),
		zap.Stringer("side", side))
	return id, nil
}

// Annotation returns the annotation with the given id.
func (s *Scene) Annotation(id AnnotationID) (*Annotation, bool) {
	a, ok := s.annotations.byID[id]
	return a, ok
}

// Annotations returns every live annotation in creation order.
func (s *Scene) Annotations() []*Annotation {
	out := make([]*Annotation, 0, len(s.annotations.byID))
	for _, a := range s.annotations.byID {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *Annotation) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// RemoveAnnotation deletes an annotation and its drawables. Reports whether
// the id existed.
func (s *Scene) RemoveAnnotation(id AnnotationID) bool {
	return s.annotations.remove(id)
}

// AddLabel places a caption centered on the target's bounding box in the
// labels layer. Labels are what ToggleLabels shows and hides.
func (s *Scene) AddLabel(target ComponentID, text string) (*Node, error) {
	if s.destroyed {
		return nil, ErrDestroyed
	}
	n, ok := s.registry.Lookup(target)
	if !ok {
		s.missing("label", target)
		return nil, fmt.Errorf("label %v: %w", target, ErrComponentNotFound)
	}
	c := n.WorldBounds().Center()
	label := NewText("label", text, s.font)
	label.TextBlock.Color = annotationInk
	placeText(label, Anchor{X: c.X, Y: c.Y, Align: TextAlignMiddle})
	if err := s.layers.Add(LayerLabels, label); err != nil {
		label.Dispose()
		return nil, err
	}
	return label, nil
}

// placeText positions a text node so that its baseline starts, centers or
// ends at the anchor.
func placeText(n *Node, anchor Anchor) {
	w, _ := n.TextBlock.Size()
	x := anchor.X
	switch anchor.Align {
	case TextAlignMiddle:
		x -= w / 2
	case TextAlignEnd:
		x -= w
	}
	n.SetPosition(x, anchor.Y-baselineOffset(n.TextBlock.Font))
}
