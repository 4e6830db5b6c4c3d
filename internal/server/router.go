package server

import (
	"net/http"
	"time"

	"github.com/gleamstack/beautysearch/internal/analytics"
	"github.com/gleamstack/beautysearch/pkg/health"
	"github.com/gleamstack/beautysearch/pkg/metrics"
	"github.com/gleamstack/beautysearch/pkg/middleware"
)

const requestTimeout = 10 * time.Second

// NewRouter builds the full HTTP handler with all routes and middleware.
//
// Route table:
//
//	POST /api/v1/search                  → ranked product search
//	GET  /api/v1/products/{id}/reviews   → raw reviews for a product
//	GET  /api/v1/categories              → category listings
//	GET  /api/v1/brands                  → brand listings
//	GET  /api/v1/stats                   → dataset statistics
//	GET  /api/v1/trending                → trending products
//	GET  /api/v1/analytics               → aggregated usage stats (when enabled)
//	GET  /api/v1/cache/stats             → query cache counters
//	POST /api/v1/cache/invalidate        → drop all cached search responses
//	GET  /health/live                    → liveness
//	GET  /health/ready                   → readiness (engine built)
//
// Middleware chain, outermost first: RequestID, CORS, Metrics, Timeout.
func NewRouter(h *Handler, analyticsHandler *analytics.Handler, checker *health.Checker, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/products/{id}/reviews", h.Reviews)
	mux.HandleFunc("GET /api/v1/categories", h.Categories)
	mux.HandleFunc("GET /api/v1/brands", h.Brands)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("GET /api/v1/trending", h.Trending)

	if analyticsHandler != nil {
		mux.HandleFunc("GET /api/v1/analytics", analyticsHandler.Stats)
	}

	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)

	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(requestTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.CORS(middleware.DefaultCORSConfig())(chain)
	chain = middleware.RequestID(chain)

	return chain
}
