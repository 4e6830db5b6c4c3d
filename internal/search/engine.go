// Package search wires the filter engine, vector space index, and ranker
// into the engine facade the transport layer talks to.
package search

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gleamstack/beautysearch/internal/catalog"
	"github.com/gleamstack/beautysearch/internal/feature"
	"github.com/gleamstack/beautysearch/internal/index"
	"github.com/gleamstack/beautysearch/internal/stats"
)

// Request is a fully-typed search request. The transport layer validates
// shape (non-empty query, two-element price range) before constructing one.
type Request struct {
	Query        string
	SkinConcerns []string
	Filters      Filters
	Limit        int
}

// Options configures the engine build.
type Options struct {
	Index    index.Config
	Trending stats.TrendingOptions
}

// DefaultOptions returns the production build settings.
func DefaultOptions() Options {
	return Options{
		Index:    index.DefaultConfig(),
		Trending: stats.DefaultTrendingOptions(),
	}
}

// state is one immutable build artifact: catalog, fitted vectorizer, and
// index-aligned document vectors. It is published atomically and shared by
// any number of concurrent readers without locking.
type state struct {
	store      *catalog.Store
	vectorizer *index.Vectorizer
	docVectors []index.SparseVector
}

// Engine owns the published search state. Build constructs a fresh state
// and swaps the reference; queries before the first successful Build see a
// nil state and degrade to empty results (NotReady is not a fault of the
// request).
type Engine struct {
	opts   Options
	state  atomic.Pointer[state]
	logger *slog.Logger
}

// New creates an unbuilt Engine.
func New(opts Options) *Engine {
	return &Engine{
		opts:   opts,
		logger: slog.Default().With("component", "search-engine"),
	}
}

// Build constructs the catalog, fits the vector space index over its
// corpus, and publishes the result. A failed build leaves any previously
// published state untouched.
func (e *Engine) Build(records []catalog.ProductRecord, reviews []catalog.ReviewRecord) error {
	start := time.Now()

	products, err := feature.Build(records, reviews)
	if err != nil {
		return fmt.Errorf("building catalog: %w", err)
	}
	store := catalog.NewStore(products, reviews)
	vectorizer := index.Fit(store.Corpus(), e.opts.Index)
	docVectors := vectorizer.TransformCorpus(store.Corpus())

	e.state.Store(&state{
		store:      store,
		vectorizer: vectorizer,
		docVectors: docVectors,
	})

	e.logger.Info("engine built",
		"products", store.Len(),
		"reviews", store.ReviewCount(),
		"vocabulary_terms", vectorizer.VocabSize(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// Ready reports whether a build has been published.
func (e *Engine) Ready() bool {
	return e.state.Load() != nil
}

// CatalogSize returns the number of products in the published catalog, or 0
// before the first build.
func (e *Engine) CatalogSize() int {
	st := e.state.Load()
	if st == nil {
		return 0
	}
	return st.store.Len()
}

// VocabSize returns the fitted vocabulary size, or 0 before the first build.
func (e *Engine) VocabSize() int {
	st := e.state.Load()
	if st == nil {
		return 0
	}
	return st.vectorizer.VocabSize()
}

// Search runs the filter, similarity, and rank pipeline and returns at most
// req.Limit results ordered by composite score descending. It returns an
// error only for structurally invalid filters; an unbuilt engine or an
// empty candidate set yields an empty list.
func (e *Engine) Search(req Request) ([]Result, error) {
	if err := req.Filters.Validate(); err != nil {
		return nil, err
	}

	st := e.state.Load()
	if st == nil {
		e.logger.Debug("search before build, returning empty result")
		return []Result{}, nil
	}
	if req.Limit <= 0 {
		return []Result{}, nil
	}

	// Predicate scan first: an empty candidate set short-circuits before
	// any query transform or similarity work.
	positions := req.Filters.apply(st.store)
	if len(positions) == 0 {
		return []Result{}, nil
	}

	queryVec := st.vectorizer.Transform(augmentQuery(req.Query, req.SkinConcerns))
	if queryVec.IsZero() {
		// No vocabulary overlap: every similarity is 0 and zero-similarity
		// candidates are excluded, not ranked low.
		return []Result{}, nil
	}

	sims := make([]float64, len(positions))
	for i, pos := range positions {
		sims[i] = index.Dot(queryVec, st.docVectors[pos])
	}
	return rank(st.store, positions, sims, req.Limit), nil
}

// augmentQuery normalizes the query and appends normalized skin-concern
// terms; concerns are extra query terms, not a separate ranking signal.
func augmentQuery(query string, concerns []string) string {
	parts := make([]string, 0, 1+len(concerns))
	parts = append(parts, feature.NormalizeText(query))
	for _, c := range concerns {
		parts = append(parts, feature.NormalizeText(c))
	}
	return strings.Join(parts, " ")
}

// HasProduct reports whether the published catalog contains the product.
func (e *Engine) HasProduct(id string) bool {
	st := e.state.Load()
	return st != nil && st.store.ByID(id) != nil
}

// ReviewDetail is one raw review in a pass-through lookup.
type ReviewDetail struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
	SkinTone   string `json:"skin_tone"`
	EyeColor   string `json:"eye_color"`
	SkinType   string `json:"skin_type"`
	HairColor  string `json:"hair_color"`
	Age        string `json:"age"`
}

const reviewTextLimit = 500

// ReviewsFor returns up to limit raw reviews for the product, with review
// text capped like the result excerpts. An unknown product or unbuilt
// engine yields an empty list.
func (e *Engine) ReviewsFor(productID string, limit int) []ReviewDetail {
	st := e.state.Load()
	if st == nil {
		return []ReviewDetail{}
	}
	records := st.store.Reviews(productID, limit)
	details := make([]ReviewDetail, 0, len(records))
	for _, r := range records {
		details = append(details, ReviewDetail{
			Rating:     r.Rating,
			ReviewText: truncateExcerpt(r.Text, reviewTextLimit),
			SkinTone:   orNotSpecified(r.SkinTone),
			EyeColor:   orNotSpecified(r.EyeColor),
			SkinType:   orNotSpecified(r.SkinType),
			HairColor:  orNotSpecified(r.HairColor),
			Age:        orNotSpecified(r.Age),
		})
	}
	return details
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

// Categories returns the sorted primary and secondary category lists.
func (e *Engine) Categories() (primary, secondary []string) {
	st := e.state.Load()
	if st == nil {
		return []string{}, []string{}
	}
	return stats.Categories(st.store)
}

// Brands returns all brands sorted plus the top-20 frequency table.
func (e *Engine) Brands() (all []string, top []stats.NameCount) {
	st := e.state.Load()
	if st == nil {
		return []string{}, []stats.NameCount{}
	}
	return stats.Brands(st.store)
}

// Stats returns catalog-wide descriptive statistics.
func (e *Engine) Stats() (stats.DatasetStats, bool) {
	st := e.state.Load()
	if st == nil {
		return stats.DatasetStats{}, false
	}
	return stats.Compute(st.store), true
}

// Trending returns the query-independent trending listing.
func (e *Engine) Trending() []stats.TrendingEntry {
	st := e.state.Load()
	if st == nil {
		return []stats.TrendingEntry{}
	}
	return stats.Trending(st.store, e.opts.Trending)
}
