package biovis

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when the scene runs with Options.Debug.
type debugStats struct {
	traverseTime  time.Duration
	sortTime      time.Duration
	submitTime    time.Duration
	commandCount  int
	drawCallCount int
}

// debugLog writes timing and draw-call stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.log.Debug("frame",
		zap.Duration("traverse", stats.traverseTime),
		zap.Duration("sort", stats.sortTime),
		zap.Duration("submit", stats.submitTime),
		zap.Duration("total", stats.traverseTime+stats.sortTime+stats.submitTime),
		zap.Int("commands", stats.commandCount),
		zap.Int("drawCalls", stats.drawCallCount),
		zap.Int("tweens", s.scheduler.Active()),
		zap.Int("cues", s.scheduler.Pending()),
	)
}

// SetDebugMode enables or disables per-frame render stats.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// debugMaxTreeDepth is the depth past which the scene warns about a drawable.
const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns when n sits deeper than debugMaxTreeDepth.
// Factories produce shallow trees; a deep one usually means a node was
// added to the wrong parent.
func (s *Scene) debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		s.log.Warn("tree depth exceeds threshold",
			zap.Int("depth", depth),
			zap.Int("threshold", debugMaxTreeDepth),
			zap.String("node", n.Name))
	}
}
