package runner

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// LatencyStats summarizes the request latencies of one run.
type LatencyStats struct {
	Requests int64
	Errors   int64
	Min      time.Duration
	Max      time.Duration
	Mean     time.Duration
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
}

// maxLatencyUs bounds the histogram at 60s.
const maxLatencyUs = 60_000_000

// latencyRecorder collects request latencies; safe for concurrent use.
type latencyRecorder struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
	errors    int64
}

func newLatencyRecorder() *latencyRecorder {
	return &latencyRecorder{
		// Histogram: 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(1, maxLatencyUs, 3),
	}
}

// Record records a completed request. Failed requests are only counted.
func (l *latencyRecorder) Record(duration time.Duration, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		l.errors++
		return
	}

	latencyUs := duration.Microseconds()
	if latencyUs < 1 {
		latencyUs = 1
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}
	_ = l.histogram.RecordValue(latencyUs)
}

func (l *latencyRecorder) Stats() LatencyStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := LatencyStats{
		Requests: l.histogram.TotalCount() + l.errors,
		Errors:   l.errors,
	}
	if l.histogram.TotalCount() == 0 {
		return stats
	}

	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	stats.Min = us(l.histogram.Min())
	stats.Max = us(l.histogram.Max())
	stats.Mean = us(int64(l.histogram.Mean()))
	stats.P50 = us(l.histogram.ValueAtQuantile(50))
	stats.P95 = us(l.histogram.ValueAtQuantile(95))
	stats.P99 = us(l.histogram.ValueAtQuantile(99))
	return stats
}
