// Package analytics is the asynchronous usage pipeline: the API emits
// search events through Kafka, and the aggregator folds them into live
// usage statistics served by the analytics endpoint.
package analytics

import "time"

type EventType string

const (
	EventSearch EventType = "search"
)

// SearchEvent describes one completed search request. It is emitted after
// the response is written and never blocks the request path.
type SearchEvent struct {
	Type         EventType `json:"type"`
	Query        string    `json:"query"`
	SkinConcerns []string  `json:"skin_concerns,omitempty"`
	BrandFilter  string    `json:"brand_filter,omitempty"`
	PriceFilter  bool      `json:"price_filter"`
	ResultCount  int       `json:"result_count"`
	LatencyMs    int64     `json:"latency_ms"`
	CacheHit     bool      `json:"cache_hit"`
	Timestamp    time.Time `json:"timestamp"`
	RequestID    string    `json:"request_id"`
}
