package profiler

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTickReportsFrameStats(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	var out bytes.Buffer
	p := NewProfiler(WithClock(clock.now), WithLogger(log.New(&out, "", 0)))
	p.SetVoxelCount(4096)

	frames := []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}
	for i, d := range frames {
		clock.advance(d)
		reported := p.Tick()
		if last := i == len(frames)-1; reported != last {
			t.Fatalf("frame %d: expected reported=%v, got %v", i, last, reported)
		}
	}

	s := p.Last()
	if s.FPS != 4 {
		t.Errorf("expected 4 FPS over one second, got %v", s.FPS)
	}
	if s.MinFrame != 100*time.Millisecond || s.MaxFrame != 400*time.Millisecond || s.AvgFrame != 250*time.Millisecond {
		t.Errorf("unexpected min/avg/max %v/%v/%v", s.MinFrame, s.AvgFrame, s.MaxFrame)
	}
	if s.Voxels != 4096 {
		t.Errorf("expected 4096 voxels, got %d", s.Voxels)
	}

	line := out.String()
	for _, want := range []string{"[Profiler] FPS: 4.00", "Frame: 100.00/250.00/400.00 ms", "Voxels: 4096"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected log to contain %q, got %q", want, line)
		}
	}
}

func TestTickResetsAfterReport(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithLogger(log.New(&bytes.Buffer{}, "", 0)), WithInterval(500*time.Millisecond))

	clock.advance(600 * time.Millisecond)
	if !p.Tick() {
		t.Fatal("expected a report after the interval")
	}

	clock.advance(50 * time.Millisecond)
	if p.Tick() {
		t.Fatal("expected no report before the next interval")
	}
	clock.advance(450 * time.Millisecond)
	if !p.Tick() {
		t.Fatal("expected a second report")
	}

	s := p.Last()
	if s.MinFrame != 50*time.Millisecond || s.MaxFrame != 450*time.Millisecond {
		t.Errorf("expected stats from the second interval only, got min %v max %v", s.MinFrame, s.MaxFrame)
	}
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	if p.updateInterval != time.Second {
		t.Errorf("expected default interval, got %v", p.updateInterval)
	}
}
