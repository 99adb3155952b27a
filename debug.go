package domo

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	updateTime    time.Duration
	renderTime    time.Duration
	batchCount    int
	quadCount     int
	drawCallCount int
	migrated      int
}

// debugLog writes timing and draw-call stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	Logger().Debug("frame",
		zap.Duration("update", stats.updateTime),
		zap.Duration("render", stats.renderTime),
		zap.Duration("total", stats.updateTime+stats.renderTime),
		zap.Int("batches", stats.batchCount),
		zap.Int("quads", stats.quadCount),
		zap.Int("drawCalls", stats.drawCallCount),
		zap.Int("migrated", stats.migrated))
}

// debugMaxEntityCount is the entity count above which debug mode warns.
const debugMaxEntityCount = 50000

func debugCheckEntityCount(n int) {
	if n == debugMaxEntityCount+1 {
		Logger().Warn("scene entity count exceeds threshold",
			zap.Int("entities", n),
			zap.Int("threshold", debugMaxEntityCount))
	}
}
