package profiler

import (
	"fmt"
	"runtime"
	"time"

	"fortio.org/log"
)

// Stats is one reporting interval of frame timing and memory statistics.
type Stats struct {
	Frames       int
	FPS          float64
	AvgFrameTime time.Duration
	MaxFrameTime time.Duration
	HeapMB       float64
	SysMB        float64
	NumGC        uint32
}

// String formats the stats as a single log line.
func (s Stats) String() string {
	return fmt.Sprintf("FPS: %.2f | Frame: avg %s, max %s | Heap: %.2f MB | GC: %d | Sys: %.2f MB",
		s.FPS, s.AvgFrameTime, s.MaxFrameTime, s.HeapMB, s.NumGC, s.SysMB)
}

// Profiler tracks frame rate, render time and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	frameTime      time.Duration
	maxFrameTime   time.Duration
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	now            func() time.Time
	last           Stats
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - interval: how often stats are logged, or 0 for the default
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick should be called once per rendered frame with the time the frame took.
// Logs the statistics when the update interval has elapsed.
//
// Parameters:
//   - frameTime: the duration of the frame's render work
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(frameTime time.Duration) bool {
	p.frameCount++
	p.frameTime += frameTime
	p.maxFrameTime = max(p.maxFrameTime, frameTime)

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	p.last = Stats{
		Frames:       p.frameCount,
		FPS:          float64(p.frameCount) / elapsed.Seconds(),
		AvgFrameTime: p.frameTime / time.Duration(p.frameCount),
		MaxFrameTime: p.maxFrameTime,
		HeapMB:       float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:        float64(p.memStats.Sys) / 1024 / 1024,
		NumGC:        p.memStats.NumGC,
	}
	log.Infof("[Profiler] %s", p.last)

	p.frameCount = 0
	p.frameTime = 0
	p.maxFrameTime = 0
	p.lastTime = currentTime
	return true
}

// Last returns the stats of the most recent interval that was logged.
//
// Returns:
//   - Stats: the last reported stats, zero before the first report
func (p *Profiler) Last() Stats {
	return p.last
}
