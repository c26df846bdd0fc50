package biovis

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newDebugScene(t *testing.T) (*Scene, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	s, err := newScene(Options{
		Clock:     NewManualClock(testEpoch),
		Logger:    zap.New(core),
		Font:      testFont,
		Factories: testFactories(),
		Debug:     true,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Destroy)
	return s, logs
}

func TestDebugLogFrameStats(t *testing.T) {
	s, logs := newDebugScene(t)
	s.debugLog(debugStats{
		traverseTime: time.Millisecond,
		sortTime:     2 * time.Millisecond,
		commandCount: 7,
	})
	entries := logs.FilterMessage("frame").All()
	if len(entries) != 1 {
		t.Fatalf("frame entries = %d, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["total"] != 3*time.Millisecond {
		t.Errorf("total = %v, want 3ms", ctx["total"])
	}
	if ctx["commands"] != int64(7) {
		t.Errorf("commands = %v, want 7", ctx["commands"])
	}
}

func TestDebugLogDisabled(t *testing.T) {
	s, logs := newDebugScene(t)
	s.SetDebugMode(false)
	s.debugLog(debugStats{})
	if logs.FilterMessage("frame").Len() != 0 {
		t.Error("no stats should be logged with debug off")
	}
}

func TestDebugTreeDepthWarning(t *testing.T) {
	s, logs := newDebugScene(t)
	s.SetFactory("deep", FactoryFunc{LayerName: LayerOrganelles, Fn: func(Geometry) *Node {
		top := NewContainer("top")
		n := top
		for range debugMaxTreeDepth {
			c := NewContainer("deeper")
			n.AddChild(c)
			n = c
		}
		return top
	}})
	id, err := s.Create("deep", Geometry{})
	if err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("tree depth exceeds threshold").Len() != 0 {
		t.Error("shallow root should not warn")
	}

	leaf := s.Get(id)
	for leaf.NumChildren() > 0 {
		leaf = leaf.ChildAt(0)
	}
	s.debugCheckTreeDepth(leaf)
	if logs.FilterMessage("tree depth exceeds threshold").Len() != 1 {
		t.Error("deep leaf should warn once")
	}
}

func TestDebugCreateLogsComponent(t *testing.T) {
	s, logs := newDebugScene(t)
	mustCreate(t, s, KindNucleus, Geometry{Width: 1, Height: 1})
	entries := logs.FilterMessage("component created").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].ContextMap()["kind"] != "nucleus" {
		t.Errorf("kind = %v", entries[0].ContextMap()["kind"])
	}
}
