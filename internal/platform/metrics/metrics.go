// Package metrics keeps lightweight in-process request counters for the
// admin metrics endpoint. Counters are grouped by status class so the
// snapshot can report 2xx/4xx/5xx totals without per-route labels.
package metrics

import (
	"sync"
	"time"
)

type Collector struct {
	mu        sync.Mutex
	started   time.Time
	byClass   [6]uint64
	throttled uint64
	totalMs   int64
	slowestMs int64
}

func New() *Collector {
	return &Collector{started: time.Now()}
}

func (c *Collector) Record(status int, duration time.Duration) {
	class := status / 100
	if class < 1 || class > 5 {
		class = 0
	}
	ms := duration.Milliseconds()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byClass[class]++
	if status == 429 {
		c.throttled++
	}
	c.totalMs += ms
	if ms > c.slowestMs {
		c.slowestMs = ms
	}
}

func (c *Collector) Snapshot() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total uint64
	for _, n := range c.byClass {
		total += n
	}
	avg := float64(0)
	if total > 0 {
		avg = float64(c.totalMs) / float64(total)
	}
	return map[string]any{
		"uptimeSec":        int64(time.Since(c.started).Seconds()),
		"requestsTotal":    total,
		"responses2xx":     c.byClass[2],
		"responses4xx":     c.byClass[4],
		"responses5xx":     c.byClass[5],
		"rateLimitedTotal": c.throttled,
		"avgDurationMs":    avg,
		"slowestMs":        c.slowestMs,
	}
}
