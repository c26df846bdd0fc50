package biovis

import (
	"errors"
	"testing"
)

func TestAnchorFor(t *testing.T) {
	box := Rect{X: 100, Y: 100, Width: 50, Height: 20}
	tests := []struct {
		side Side
		want Anchor
	}{
		{SideRight, Anchor{X: 160, Y: 110, Align: TextAlignStart}},
		{SideLeft, Anchor{X: 90, Y: 110, Align: TextAlignEnd}},
		{SideTop, Anchor{X: 125, Y: 90, Align: TextAlignMiddle}},
		{SideBottom, Anchor{X: 125, Y: 130, Align: TextAlignMiddle}},
	}
	for _, tt := range tests {
		got, err := AnchorFor(box, tt.side)
		if err != nil {
			t.Fatalf("AnchorFor(%v): %v", tt.side, err)
		}
		if got != tt.want {
			t.Errorf("AnchorFor(%v) = %+v, want %+v", tt.side, got, tt.want)
		}
	}
}

func TestAnchorForInvalidSide(t *testing.T) {
	if _, err := AnchorFor(Rect{}, Side(9)); !errors.Is(err, ErrInvalidSide) {
		t.Errorf("err = %v, want ErrInvalidSide", err)
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in   string
		want Side
	}{
		{"", SideRight},
		{"right", SideRight},
		{"left", SideLeft},
		{"top", SideTop},
		{"bottom", SideBottom},
	}
	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseSide(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
		if got.String() != tt.want.String() {
			t.Errorf("String mismatch for %q", tt.in)
		}
	}
	if _, err := ParseSide("diagonal"); !errors.Is(err, ErrInvalidSide) {
		t.Errorf("err = %v, want ErrInvalidSide", err)
	}
}

func TestAddAnnotation(t *testing.T) {
	s, _, _ := newTestScene(t)
	id := mustCreate(t, s, KindNucleus, Geometry{X: 125, Y: 110, Width: 50, Height: 20})

	aid, err := s.AddAnnotation(id, "Nucleus", SideRight)
	if err != nil {
		t.Fatalf("AddAnnotation: %v", err)
	}
	a, ok := s.Annotation(aid)
	if !ok {
		t.Fatal("annotation should be stored")
	}
	if a.Box != (Rect{X: 100, Y: 100, Width: 50, Height: 20}) {
		t.Errorf("Box = %v", a.Box)
	}
	if a.Anchor != (Anchor{X: 160, Y: 110, Align: TextAlignStart}) {
		t.Errorf("Anchor = %+v", a.Anchor)
	}

	// text starts at the anchor with its baseline on the anchor's Y
	assertNear(t, "label X", a.Label.X, 160)
	assertNear(t, "label Y", a.Label.Y, 110-8)

	if layer, _ := s.Layers().LayerOf(a.Group); layer != LayerAnnotations {
		t.Errorf("annotation layer = %q, want %q", layer, LayerAnnotations)
	}
	if s.Registry().Len() != 1 {
		t.Error("annotations should not be registered as components")
	}

	// connector starts at the box center; the last 3+3 dash ends at 33
	a.Connector.recomputeMeshAABB()
	cb := a.Connector.meshAABB
	assertNear(t, "connector X", cb.X, 125)
	assertNear(t, "connector width", cb.Width, 33)
}

func TestAddAnnotationAlignment(t *testing.T) {
	s, _, _ := newTestScene(t)
	id := mustCreate(t, s, KindNucleus, Geometry{X: 125, Y: 110, Width: 50, Height: 20})

	aid, err := s.AddAnnotation(id, "abcd", SideLeft)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := s.Annotation(aid)
	// right-aligned: text ends at the anchor
	assertNear(t, "left label X", a.Label.X, 90-24)

	aid, err = s.AddAnnotation(id, "ab", SideTop)
	if err != nil {
		t.Fatal(err)
	}
	a, _ = s.Annotation(aid)
	assertNear(t, "top label X", a.Label.X, 125-6)
}

func TestAddAnnotationInvalidSideFirst(t *testing.T) {
	s, _, logs := newTestScene(t)
	// invalid side wins over unknown target and logs nothing
	if _, err := s.AddAnnotation(42, "x", Side(7)); !errors.Is(err, ErrInvalidSide) {
		t.Errorf("err = %v, want ErrInvalidSide", err)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected log entries: %d", logs.Len())
	}
	if len(s.Annotations()) != 0 {
		t.Error("nothing should be created")
	}
}

func TestAddAnnotationMissingTarget(t *testing.T) {
	s, _, logs := newTestScene(t)
	if _, err := s.AddAnnotation(42, "x", SideRight); !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("err = %v, want ErrComponentNotFound", err)
	}
	entries := logs.FilterMessage("component not found").All()
	if len(entries) != 1 {
		t.Fatalf("warnings = %d, want 1", len(entries))
	}
	if op := entries[0].ContextMap()["op"]; op != "annotate" {
		t.Errorf("op = %v, want annotate", op)
	}
	if got := s.Layers().Layer(LayerAnnotations).NumChildren(); got != 0 {
		t.Errorf("annotations layer has %d children", got)
	}
}

func TestAnnotationIDsIndependentOfComponents(t *testing.T) {
	s, _, _ := newTestScene(t)
	a := mustCreate(t, s, KindNucleus, Geometry{Width: 10, Height: 10})
	b := mustCreate(t, s, KindNucleus, Geometry{Width: 10, Height: 10})
	aid, _ := s.AddAnnotation(b, "B", SideTop)
	if uint64(aid) != 1 {
		t.Errorf("first annotation id = %v, want 1", aid)
	}
	aid2, _ := s.AddAnnotation(a, "A", SideTop)
	list := s.Annotations()
	if len(list) != 2 || list[0].ID != aid || list[1].ID != aid2 {
		t.Errorf("Annotations order = %v", list)
	}
	if !s.RemoveAnnotation(aid) || s.RemoveAnnotation(aid) {
		t.Error("RemoveAnnotation should succeed once")
	}
}

func TestAddLabel(t *testing.T) {
	s, _, _ := newTestScene(t)
	id := mustCreate(t, s, KindCell, Geometry{X: 100, Y: 100, Width: 60, Height: 40})
	label, err := s.AddLabel(id, "Cell")
	if err != nil {
		t.Fatal(err)
	}
	if layer, _ := s.Layers().LayerOf(label); layer != LayerLabels {
		t.Errorf("label layer = %q, want %q", layer, LayerLabels)
	}
	assertNear(t, "label X", label.X, 100-12)
	if _, err := s.AddLabel(99, "x"); !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("err = %v, want ErrComponentNotFound", err)
	}
}
