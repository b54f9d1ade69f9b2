package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	start := time.Unix(0, 0)
	clock := start
	p := NewProfiler(time.Second)
	p.lastTime = start
	p.now = func() time.Time { return clock }

	clock = start.Add(400 * time.Millisecond)
	assert.False(t, p.Tick(2*time.Millisecond))
	clock = start.Add(800 * time.Millisecond)
	assert.False(t, p.Tick(6*time.Millisecond))
	assert.Zero(t, p.Last().Frames)

	clock = start.Add(2 * time.Second)
	assert.True(t, p.Tick(4*time.Millisecond))

	stats := p.Last()
	assert.Equal(t, 3, stats.Frames)
	assert.InDelta(t, 1.5, stats.FPS, 1e-9)
	assert.Equal(t, 4*time.Millisecond, stats.AvgFrameTime)
	assert.Equal(t, 6*time.Millisecond, stats.MaxFrameTime)
	assert.Contains(t, stats.String(), "FPS: 1.50")

	// The counters restart after a report.
	clock = clock.Add(100 * time.Millisecond)
	assert.False(t, p.Tick(time.Millisecond))
}

func TestNewProfilerDefaultInterval(t *testing.T) {
	assert.Equal(t, time.Second, NewProfiler(0).updateInterval)
}
