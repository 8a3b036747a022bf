// Package stats keeps rolling conversion timings.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at     time.Time
	format string
	took   time.Duration
	failed bool
}

// Summary aggregates the samples of one format, or of all formats.
type Summary struct {
	Count  int     `json:"count"`
	Failed int     `json:"failed"`
	MinMs  float64 `json:"min_ms"`
	MaxMs  float64 `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// Snapshot is a point-in-time view of the window.
type Snapshot struct {
	Window   string             `json:"window"`
	Total    Summary            `json:"total"`
	ByFormat map[string]Summary `json:"by_format"`
}

// Latency records conversion durations within a rolling window.
type Latency struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

// NewLatency keeps samples for window; a non-positive window means one hour.
func NewLatency(window time.Duration) *Latency {
	if window <= 0 {
		window = time.Hour
	}
	return &Latency{
		samples: make([]sample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one conversion of the given format. Failed conversions count
// toward Failed but not toward the timing figures.
func (l *Latency) Record(format string, took time.Duration, err error) {
	took = max(took, 0)
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)
	l.samples = append(l.samples, sample{at: now, format: format, took: took, failed: err != nil})
}

func (l *Latency) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(l.now())
	groups := make(map[string][]sample)
	for _, s := range l.samples {
		groups[s.format] = append(groups[s.format], s)
	}
	snap := Snapshot{
		Window:   l.window.String(),
		Total:    summarize(l.samples),
		ByFormat: make(map[string]Summary, len(groups)),
	}
	for format, g := range groups {
		snap.ByFormat[format] = summarize(g)
	}
	return snap
}

func (l *Latency) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	l.samples = slices.DeleteFunc(l.samples, func(s sample) bool {
		return s.at.Before(cutoff)
	})
}

func summarize(samples []sample) Summary {
	var sum Summary
	ms := make([]float64, 0, len(samples))
	for _, s := range samples {
		sum.Count++
		if s.failed {
			sum.Failed++
			continue
		}
		ms = append(ms, float64(s.took)/float64(time.Millisecond))
	}
	if len(ms) == 0 {
		return sum
	}
	slices.Sort(ms)
	var total float64
	for _, v := range ms {
		total += v
	}
	sum.MinMs = ms[0]
	sum.MaxMs = ms[len(ms)-1]
	sum.AvgMs = total / float64(len(ms))
	sum.P50Ms = percentile(ms, 50)
	sum.P95Ms = percentile(ms, 95)
	sum.P99Ms = percentile(ms, 99)
	return sum
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return sorted[0]
	case pct >= 100:
		return sorted[len(sorted)-1]
	}
	idx := float64(len(sorted)-1) * pct / 100
	lower := int(idx)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	weight := idx - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*weight
}
