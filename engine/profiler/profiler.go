package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting interval's worth of frame and memory statistics.
type Stats struct {
	FPS      float64
	MinFrame time.Duration
	AvgFrame time.Duration
	MaxFrame time.Duration
	Voxels   int
	HeapMB   float64
	SysMB    float64
	NumGC    uint32
}

// Profiler tracks frame times and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	frameSum       time.Duration
	frameMin       time.Duration
	frameMax       time.Duration
	lastFrame      time.Time
	lastReport     time.Time
	updateInterval time.Duration
	voxels         int
	last           Stats

	now      func() time.Time
	logger   *log.Logger
	memStats runtime.MemStats
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: optional configuration
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logger:         log.Default(),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastFrame = p.now()
	p.lastReport = p.lastFrame
	return p
}

// SetVoxelCount sets the voxel count reported alongside the frame stats.
//
// Parameters:
//   - n: number of voxel instances currently drawn
func (p *Profiler) SetVoxelCount(n int) {
	p.voxels = n
}

// Tick should be called once per frame. It records the time since the previous Tick
// and logs a summary once the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	current := p.now()
	frame := current.Sub(p.lastFrame)
	p.lastFrame = current

	if p.frameCount == 0 || frame < p.frameMin {
		p.frameMin = frame
	}
	if frame > p.frameMax {
		p.frameMax = frame
	}
	p.frameSum += frame
	p.frameCount++

	elapsed := current.Sub(p.lastReport)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	p.last = Stats{
		FPS:      float64(p.frameCount) / elapsed.Seconds(),
		MinFrame: p.frameMin,
		AvgFrame: p.frameSum / time.Duration(p.frameCount),
		MaxFrame: p.frameMax,
		Voxels:   p.voxels,
		HeapMB:   float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:    float64(p.memStats.Sys) / 1024 / 1024,
		NumGC:    p.memStats.NumGC,
	}

	p.logger.Printf("[Profiler] FPS: %.2f | Frame: %.2f/%.2f/%.2f ms (min/avg/max) | Voxels: %d | Heap: %.2f MB | GC: %d | Sys: %.2f MB",
		p.last.FPS, ms(p.last.MinFrame), ms(p.last.AvgFrame), ms(p.last.MaxFrame), p.last.Voxels, p.last.HeapMB, p.last.NumGC, p.last.SysMB)

	p.frameCount = 0
	p.frameSum = 0
	p.frameMin = 0
	p.frameMax = 0
	p.lastReport = current
	return true
}

// Last returns the stats logged by the most recent reporting Tick.
//
// Returns:
//   - Stats: the last reported stats, zero before the first report
func (p *Profiler) Last() Stats {
	return p.last
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
