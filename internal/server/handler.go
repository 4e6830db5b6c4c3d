// Package server implements the HTTP API: request decoding and validation,
// the search endpoint with optional caching and analytics, and the catalog
// metadata endpoints.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gleamstack/beautysearch/internal/analytics"
	"github.com/gleamstack/beautysearch/internal/search"
	"github.com/gleamstack/beautysearch/internal/search/cache"
	"github.com/gleamstack/beautysearch/internal/stats"
	"github.com/gleamstack/beautysearch/pkg/config"
	apperrors "github.com/gleamstack/beautysearch/pkg/errors"
	"github.com/gleamstack/beautysearch/pkg/logger"
	"github.com/gleamstack/beautysearch/pkg/metrics"
	"github.com/gleamstack/beautysearch/pkg/middleware"
)

const defaultReviewLimit = 5

// Handler serves the search API. The cache and collector are optional;
// nil disables the feature without changing response semantics.
type Handler struct {
	engine    *search.Engine
	cache     *cache.QueryCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	cfg       config.SearchConfig
	logger    *slog.Logger
}

// New creates the API handler.
func New(engine *search.Engine, queryCache *cache.QueryCache, collector *analytics.Collector, m *metrics.Metrics, cfg config.SearchConfig) *Handler {
	return &Handler{
		engine:    engine,
		cache:     queryCache,
		collector: collector,
		metrics:   m,
		cfg:       cfg,
		logger:    slog.Default().With("component", "api-handler"),
	}
}

// searchRequest is the JSON body of POST /api/v1/search.
type searchRequest struct {
	Query        string     `json:"query"`
	SkinConcerns []string   `json:"skin_concerns"`
	PriceRange   *[]float64 `json:"price_range"` // [min, max]
	Brand        string     `json:"brand"`
	Limit        *int       `json:"limit"`
}

type searchResponse struct {
	Query        string          `json:"query"`
	Filters      searchFilters   `json:"filters"`
	TotalResults int             `json:"total_results"`
	Products     []search.Result `json:"products"`
	CacheHit     bool            `json:"cache_hit"`
}

type searchFilters struct {
	SkinConcerns []string   `json:"skin_concerns"`
	PriceRange   *[]float64 `json:"price_range"`
	Brand        string     `json:"brand,omitempty"`
}

// Search handles POST /api/v1/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.rejected(w, "invalid JSON body")
		return
	}
	if body.Query == "" {
		h.rejected(w, "query is required")
		return
	}
	if body.PriceRange != nil && len(*body.PriceRange) != 2 {
		h.rejected(w, "price_range must be [min, max]")
		return
	}

	req := search.Request{
		Query:        body.Query,
		SkinConcerns: body.SkinConcerns,
		Filters:      search.Filters{Brand: body.Brand},
		Limit:        h.cfg.DefaultLimit,
	}
	if body.PriceRange != nil {
		pr := *body.PriceRange
		req.Filters.PriceRange = &search.PriceRange{Min: pr[0], Max: pr[1]}
	}
	if body.Limit != nil {
		req.Limit = *body.Limit
		if req.Limit > h.cfg.MaxResults {
			req.Limit = h.cfg.MaxResults
		}
	}

	var results []search.Result
	var err error
	cacheHit := false

	if h.cache != nil {
		results, cacheHit, err = h.cache.GetOrCompute(ctx, req, func() ([]search.Result, error) {
			return h.engine.Search(req)
		})
	} else {
		results, err = h.engine.Search(req)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidFilter) {
			h.metrics.SearchQueriesTotal.WithLabelValues("rejected").Inc()
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("search failed", "query", body.Query, "error", err)
		h.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	latency := time.Since(start)
	h.recordSearchMetrics(results, cacheHit, latency)

	log.Info("search completed",
		"query", body.Query,
		"returned", len(results),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)

	if h.collector != nil {
		h.collector.Track(analytics.SearchEvent{
			Type:         analytics.EventSearch,
			Query:        body.Query,
			SkinConcerns: body.SkinConcerns,
			BrandFilter:  body.Brand,
			PriceFilter:  body.PriceRange != nil,
			ResultCount:  len(results),
			LatencyMs:    latency.Milliseconds(),
			CacheHit:     cacheHit,
			Timestamp:    time.Now().UTC(),
			RequestID:    middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, searchResponse{
		Query: body.Query,
		Filters: searchFilters{
			SkinConcerns: body.SkinConcerns,
			PriceRange:   body.PriceRange,
			Brand:        body.Brand,
		},
		TotalResults: len(results),
		Products:     results,
		CacheHit:     cacheHit,
	})
}

func (h *Handler) recordSearchMetrics(results []search.Result, cacheHit bool, latency time.Duration) {
	resultType := "hit"
	switch {
	case !h.engine.Ready():
		resultType = "not_ready"
	case len(results) == 0:
		resultType = "zero_result"
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()

	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
	}
	if h.cache == nil {
		cacheStatus = "disabled"
	}
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
	h.metrics.SearchResultsCount.Observe(float64(len(results)))
	if h.cache != nil {
		if cacheHit {
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
	}
}

func (h *Handler) rejected(w http.ResponseWriter, message string) {
	h.metrics.SearchQueriesTotal.WithLabelValues("rejected").Inc()
	h.writeError(w, http.StatusBadRequest, message)
}

// Reviews handles GET /api/v1/products/{id}/reviews.
func (h *Handler) Reviews(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	if productID == "" {
		h.writeError(w, http.StatusBadRequest, "product id is required")
		return
	}

	limit := defaultReviewLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	if h.engine.Ready() && !h.engine.HasProduct(productID) {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	reviews := h.engine.ReviewsFor(productID, limit)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"product_id":    productID,
		"total_reviews": len(reviews),
		"reviews":       reviews,
	})
}

// Categories handles GET /api/v1/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	primary, secondary := h.engine.Categories()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"primary_categories":   primary,
		"secondary_categories": secondary,
	})
}

// Brands handles GET /api/v1/brands.
func (h *Handler) Brands(w http.ResponseWriter, r *http.Request) {
	all, top := h.engine.Brands()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"all_brands": all,
		"top_brands": top,
	})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	datasetStats, ok := h.engine.Stats()
	if !ok {
		h.writeError(w, http.StatusServiceUnavailable, "catalog not loaded")
		return
	}
	h.writeJSON(w, http.StatusOK, datasetStats)
}

// Trending handles GET /api/v1/trending.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	entries := h.engine.Trending()
	if entries == nil {
		entries = []stats.TrendingEntry{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"trending_products": entries,
	})
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": strconv.FormatFloat(hitRate, 'f', 1, 64) + "%",
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
