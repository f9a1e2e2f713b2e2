package metrics

import (
	"testing"
	"time"
)

func TestSnapshotGroupsByStatusClass(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(201, 20*time.Millisecond)
	c.Record(404, 5*time.Millisecond)
	c.Record(429, 1*time.Millisecond)
	c.Record(500, 80*time.Millisecond)

	snap := c.Snapshot()
	if got := snap["requestsTotal"].(uint64); got != 5 {
		t.Fatalf("requestsTotal = %d, want 5", got)
	}
	if got := snap["responses2xx"].(uint64); got != 2 {
		t.Fatalf("responses2xx = %d, want 2", got)
	}
	if got := snap["responses4xx"].(uint64); got != 2 {
		t.Fatalf("responses4xx = %d, want 2", got)
	}
	if got := snap["responses5xx"].(uint64); got != 1 {
		t.Fatalf("responses5xx = %d, want 1", got)
	}
	if got := snap["rateLimitedTotal"].(uint64); got != 1 {
		t.Fatalf("rateLimitedTotal = %d, want 1", got)
	}
	if got := snap["slowestMs"].(int64); got != 80 {
		t.Fatalf("slowestMs = %d, want 80", got)
	}
}

func TestSnapshotOnFreshCollector(t *testing.T) {
	snap := New().Snapshot()
	if got := snap["requestsTotal"].(uint64); got != 0 {
		t.Fatalf("requestsTotal = %d, want 0", got)
	}
	if got := snap["avgDurationMs"].(float64); got != 0 {
		t.Fatalf("avgDurationMs = %v, want 0", got)
	}
}

func TestRecordIgnoresOutOfRangeStatus(t *testing.T) {
	c := New()
	c.Record(700, time.Millisecond)
	snap := c.Snapshot()
	if got := snap["requestsTotal"].(uint64); got != 1 {
		t.Fatalf("requestsTotal = %d, want 1", got)
	}
	if got := snap["responses5xx"].(uint64); got != 0 {
		t.Fatalf("responses5xx = %d, want 0", got)
	}
}
