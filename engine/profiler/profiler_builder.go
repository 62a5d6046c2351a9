package profiler

import (
	"log"
	"time"
)

// ProfilerOption is a functional option applied to a Profiler during construction via NewProfiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often stats are logged. Non-positive values are ignored.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces the time source.
//
// Parameters:
//   - now: returns the current time
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithLogger sets the logger stats are written to.
//
// Parameters:
//   - l: the destination logger
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLogger(l *log.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = l
	}
}
