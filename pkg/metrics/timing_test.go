package metrics_test

import (
	"testing"
	"time"

	"github.com/baloola/naucse/pkg/metrics"
)

func TestTimerRecords(t *testing.T) {
	metrics.SetEnabled(true)
	t.Cleanup(metrics.ResetAll)

	done := metrics.Timer(metrics.SequenceBuild)
	time.Sleep(time.Millisecond)
	done()

	if got := metrics.SequenceBuild.Count(); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	if metrics.SequenceBuild.TotalNs() <= 0 {
		t.Error("elapsed time not recorded")
	}
}

func TestTimingStats(t *testing.T) {
	metrics.SetEnabled(true)
	t.Cleanup(metrics.ResetAll)

	metrics.MarkdownRender.Record(2 * time.Millisecond)
	metrics.MarkdownRender.Record(4 * time.Millisecond)

	stats := metrics.MarkdownRender.Stats()
	if stats.Count != 2 {
		t.Errorf("count = %d, want 2", stats.Count)
	}
	if stats.AvgMs != 3 {
		t.Errorf("avg = %v, want 3", stats.AvgMs)
	}
	if stats.MinMs != 2 || stats.MaxMs != 4 {
		t.Errorf("min/max = %v/%v, want 2/4", stats.MinMs, stats.MaxMs)
	}

	all := metrics.AllTimingStats()
	if len(all) != 1 || all[0].Name != "markdown_render" {
		t.Errorf("AllTimingStats should only report metrics with data: %v", all)
	}
}

func TestDisabledCollection(t *testing.T) {
	metrics.SetEnabled(false)
	t.Cleanup(func() {
		metrics.SetEnabled(true)
		metrics.ResetAll()
	})

	metrics.ContentLoad.Record(time.Millisecond)
	metrics.SequenceCache.Hit()

	if metrics.ContentLoad.Count() != 0 {
		t.Error("disabled collection should drop timings")
	}
	if metrics.SequenceCache.Hits() != 0 {
		t.Error("disabled collection should drop cache counts")
	}
}

func TestCacheHitRate(t *testing.T) {
	metrics.SetEnabled(true)
	t.Cleanup(metrics.ResetAll)

	if metrics.SequenceCache.HitRate() != 0 {
		t.Error("hit rate without traffic should be 0")
	}

	metrics.SequenceCache.Hit()
	metrics.SequenceCache.Hit()
	metrics.SequenceCache.Miss()

	if got := metrics.SequenceCache.HitRate(); got < 0.66 || got > 0.67 {
		t.Errorf("hit rate = %v, want 2/3", got)
	}
	stats := metrics.SequenceCache.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
