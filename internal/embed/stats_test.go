package embed

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(ms, false)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestStatsCountsFailuresSeparately(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(50, false)
	stats.Record(9000, true)

	snap := stats.Snapshot()
	if snap.Count != 1 || snap.Errors != 1 {
		t.Fatalf("expected count=1 errors=1, got %+v", snap)
	}
	if snap.MaxMs != 50 {
		t.Fatalf("failed call leaked into latency: max=%d", snap.MaxMs)
	}
}

func TestStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewStats(10 * time.Millisecond)
	stats.Record(100, false)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200, false)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 200 {
		t.Fatalf("expected one fresh sample of 200, got %+v", snap)
	}
}

func TestStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.Record(-10, false)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 0 {
		t.Fatalf("expected clamped duration=0, got %+v", snap)
	}
}

func TestTimedRecordsCalls(t *testing.T) {
	stats := NewStats(time.Hour)
	boom := errors.New("boom")
	calls := 0
	e := NewTimed(Func(func(ctx context.Context, text string) ([]float32, error) {
		calls++
		if text == "bad" {
			return nil, boom
		}
		return []float32{1}, nil
	}), stats)

	if _, err := e.Embed(context.Background(), "good"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Embed(context.Background(), "bad"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	snap := stats.Snapshot()
	if calls != 2 || snap.Count != 1 || snap.Errors != 1 {
		t.Fatalf("unexpected snapshot %+v after %d calls", snap, calls)
	}
}
