package stats

import (
	"errors"
	"math"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestLatency(window time.Duration) (*Latency, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLatency(window)
	l.now = clock.now
	return l, clock
}

func TestSnapshotPercentiles(t *testing.T) {
	l, _ := newTestLatency(time.Hour)
	for _, ms := range []int{100, 200, 300, 400, 500} {
		l.Record("html", time.Duration(ms)*time.Millisecond, nil)
	}

	snap := l.Snapshot().Total
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got %f %f", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if math.Abs(snap.P95Ms-480) > 1e-9 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if math.Abs(snap.P99Ms-496) > 1e-9 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestSnapshotByFormat(t *testing.T) {
	l, _ := newTestLatency(time.Hour)
	l.Record("html", 10*time.Millisecond, nil)
	l.Record("markdown", 30*time.Millisecond, nil)
	l.Record("markdown", 0, errors.New("boom"))

	snap := l.Snapshot()
	if snap.Total.Count != 3 || snap.Total.Failed != 1 {
		t.Fatalf("total = %+v", snap.Total)
	}
	md := snap.ByFormat["markdown"]
	if md.Count != 2 || md.Failed != 1 || md.MinMs != 30 {
		t.Errorf("markdown = %+v", md)
	}
	if snap.ByFormat["html"].AvgMs != 10 {
		t.Errorf("html = %+v", snap.ByFormat["html"])
	}
	if snap.Window != "1h0m0s" {
		t.Errorf("window = %q", snap.Window)
	}
}

func TestPrunesExpiredSamples(t *testing.T) {
	l, clock := newTestLatency(time.Minute)
	l.Record("html", 100*time.Millisecond, nil)
	clock.t = clock.t.Add(2 * time.Minute)

	if n := l.Snapshot().Total.Count; n != 0 {
		t.Fatalf("expected count=0 after prune, got %d", n)
	}

	l.Record("html", 200*time.Millisecond, nil)
	snap := l.Snapshot().Total
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected one fresh sample of 200ms, got %+v", snap)
	}
}

func TestRecordClampsNegativeDuration(t *testing.T) {
	l, _ := newTestLatency(time.Hour)
	l.Record("html", -10*time.Millisecond, nil)
	snap := l.Snapshot().Total
	if snap.Count != 1 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got %+v", snap)
	}
}

func TestDefaultWindow(t *testing.T) {
	if w := NewLatency(0).window; w != time.Hour {
		t.Errorf("window = %v", w)
	}
}
