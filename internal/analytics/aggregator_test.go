package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func emit(t *testing.T, agg *Aggregator, event SearchEvent) {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatal(err)
	}
	if err := HandleEvent(agg)(context.Background(), nil, data); err != nil {
		t.Fatalf("HandleEvent returned error: %v", err)
	}
}

func TestAggregatorCounters(t *testing.T) {
	agg := NewAggregator(nil)
	emit(t, agg, SearchEvent{Type: EventSearch, Query: "serum", ResultCount: 5, LatencyMs: 10, CacheHit: true})
	emit(t, agg, SearchEvent{Type: EventSearch, Query: "serum", ResultCount: 0, LatencyMs: 30})
	emit(t, agg, SearchEvent{Type: EventSearch, Query: "toner", ResultCount: 2, LatencyMs: 20, BrandFilter: "glowlab"})

	stats := agg.Stats()
	if stats.TotalSearches != 3 {
		t.Errorf("TotalSearches = %d, want 3", stats.TotalSearches)
	}
	if stats.CacheHits != 1 || stats.CacheMisses != 2 {
		t.Errorf("cache counters = (%d, %d), want (1, 2)", stats.CacheHits, stats.CacheMisses)
	}
	if stats.ZeroResultCount != 1 {
		t.Errorf("ZeroResultCount = %d, want 1", stats.ZeroResultCount)
	}
	if stats.AvgLatencyMs != 20 {
		t.Errorf("AvgLatencyMs = %v, want 20", stats.AvgLatencyMs)
	}
	if len(stats.TopQueries) != 2 || stats.TopQueries[0].Query != "serum" || stats.TopQueries[0].Count != 2 {
		t.Errorf("TopQueries = %v", stats.TopQueries)
	}
	if len(stats.ZeroResultQueries) != 1 || stats.ZeroResultQueries[0].Query != "serum" {
		t.Errorf("ZeroResultQueries = %v", stats.ZeroResultQueries)
	}
	if len(stats.TopBrandFilters) != 1 || stats.TopBrandFilters[0].Query != "glowlab" {
		t.Errorf("TopBrandFilters = %v", stats.TopBrandFilters)
	}
	if stats.QueriesPerMinute <= 0 {
		t.Errorf("QueriesPerMinute = %v, want > 0", stats.QueriesPerMinute)
	}
}

func TestAggregatorLatencyPercentiles(t *testing.T) {
	agg := NewAggregator(nil)
	for i := 1; i <= 100; i++ {
		emit(t, agg, SearchEvent{Type: EventSearch, Query: "q", ResultCount: 1, LatencyMs: int64(i)})
	}
	stats := agg.Stats()
	if stats.P50LatencyMs != 51 {
		t.Errorf("P50 = %d, want 51", stats.P50LatencyMs)
	}
	if stats.P95LatencyMs != 96 {
		t.Errorf("P95 = %d, want 96", stats.P95LatencyMs)
	}
	if stats.P99LatencyMs != 100 {
		t.Errorf("P99 = %d, want 100", stats.P99LatencyMs)
	}
}

func TestHandleEventSkipsGarbage(t *testing.T) {
	agg := NewAggregator(nil)
	if err := HandleEvent(agg)(context.Background(), nil, []byte("not json")); err != nil {
		t.Errorf("garbage message should be skipped, got error %v", err)
	}
	if got := agg.Stats().TotalSearches; got != 0 {
		t.Errorf("TotalSearches = %d, want 0", got)
	}
}

func TestStatsSnapshotIsConsistent(t *testing.T) {
	agg := NewAggregator(nil)
	emit(t, agg, SearchEvent{Type: EventSearch, Query: "q", ResultCount: 1, LatencyMs: 5, Timestamp: time.Now()})
	before := agg.Stats()
	emit(t, agg, SearchEvent{Type: EventSearch, Query: "q", ResultCount: 1, LatencyMs: 5})
	if before.TotalSearches != 1 {
		t.Errorf("earlier snapshot mutated: %d", before.TotalSearches)
	}
}
