package stats

import (
	"math"
	"sort"

	"github.com/gleamstack/beautysearch/internal/catalog"
)

const (
	trendingRatingWeight    = 0.4
	trendingVolumeWeight    = 0.4
	trendingSentimentWeight = 0.2
)

// TrendingOptions holds the eligibility thresholds and result cap.
type TrendingOptions struct {
	MinRating      float64
	MinReviewCount int
	Limit          int
}

// DefaultTrendingOptions returns the production thresholds.
func DefaultTrendingOptions() TrendingOptions {
	return TrendingOptions{
		MinRating:      4.0,
		MinReviewCount: 50,
		Limit:          20,
	}
}

// TrendingEntry is one row of the trending listing.
type TrendingEntry struct {
	ProductID     string   `json:"product_id"`
	ProductName   string   `json:"product_name"`
	BrandName     string   `json:"brand_name"`
	FinalRating   float64  `json:"final_rating"`
	ReviewCount   int      `json:"final_review_count"`
	PriceUSD      *float64 `json:"price_usd"`
	TrendingScore float64  `json:"trending_score"`
}

// Trending ranks eligible products (rating and review-count thresholds) by
// the query-independent trending score. The sort is stable, so catalog order
// breaks score ties deterministically.
func Trending(store *catalog.Store, opts TrendingOptions) []TrendingEntry {
	if opts.Limit <= 0 {
		opts.Limit = DefaultTrendingOptions().Limit
	}

	entries := make([]TrendingEntry, 0, opts.Limit)
	for _, p := range store.Products() {
		if p.FinalRating < opts.MinRating || p.FinalReviewCount < opts.MinReviewCount {
			continue
		}
		e := TrendingEntry{
			ProductID:     p.ID,
			ProductName:   p.Name,
			BrandName:     p.Brand,
			FinalRating:   p.FinalRating,
			ReviewCount:   p.FinalReviewCount,
			TrendingScore: trendingScore(p),
		}
		if p.Price > 0 {
			price := p.Price
			e.PriceUSD = &price
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TrendingScore > entries[j].TrendingScore
	})
	if len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries
}

// trendingScore blends rating, log review volume, and sentiment shifted to
// a 0..5 scale so each component carries comparable weight.
func trendingScore(p *catalog.Product) float64 {
	return trendingRatingWeight*p.FinalRating +
		trendingVolumeWeight*math.Log1p(float64(p.FinalReviewCount)) +
		trendingSentimentWeight*(p.AvgSentiment+1)*2.5
}
