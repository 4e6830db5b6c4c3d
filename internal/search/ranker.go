package search

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/gleamstack/beautysearch/internal/catalog"
)

const (
	ratingBonusWeight    = 0.2
	reviewBonusCap       = 0.1
	sentimentBonusWeight = 0.1

	ingredientsExcerptLimit   = 300
	sampleReviewsExcerptLimit = 200
)

// Result is one ranked product in a search response.
type Result struct {
	ProductID     string   `json:"product_id"`
	ProductName   string   `json:"product_name"`
	BrandName     string   `json:"brand_name"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory"`
	PriceUSD      *float64 `json:"price_usd"` // null when unknown
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"review_count"`
	Similarity    float64  `json:"similarity_score"`
	Composite     float64  `json:"composite_score"`
	Sentiment     float64  `json:"sentiment_score"`
	Ingredients   string   `json:"ingredients"`
	SampleReviews string   `json:"sample_reviews"`
}

// rank computes composite scores for every candidate with strictly positive
// base similarity, orders them descending (stable, so catalog order breaks
// ties), and truncates to limit. positions and sims are index-aligned.
func rank(store *catalog.Store, positions []int, sims []float64, limit int) []Result {
	results := make([]Result, 0, len(positions))
	for i, pos := range positions {
		base := sims[i]
		if base <= 0 {
			continue
		}
		p := store.At(pos)
		results = append(results, buildResult(p, base))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Composite > results[j].Composite
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func buildResult(p *catalog.Product, base float64) Result {
	r := Result{
		ProductID:     p.ID,
		ProductName:   p.Name,
		BrandName:     p.Brand,
		Category:      p.PrimaryCategory,
		Subcategory:   p.SecondaryCategory,
		Rating:        p.FinalRating,
		ReviewCount:   p.FinalReviewCount,
		Similarity:    base,
		Composite:     compositeScore(p, base),
		Sentiment:     p.AvgSentiment,
		Ingredients:   truncateExcerpt(p.Ingredients, ingredientsExcerptLimit),
		SampleReviews: truncateExcerpt(p.SampleReviews, sampleReviewsExcerptLimit),
	}
	if p.Price > 0 {
		price := p.Price
		r.PriceUSD = &price
	}
	return r
}

// compositeScore blends text similarity with rating, review-volume, and
// sentiment bonuses: up to 20% for rating, 10% for volume, 10% for positive
// sentiment. Negative sentiment never penalises.
func compositeScore(p *catalog.Product, base float64) float64 {
	ratingBonus := p.FinalRating / 5.0 * ratingBonusWeight
	reviewBonus := math.Min(math.Log1p(float64(p.FinalReviewCount))/10, reviewBonusCap)
	sentimentBonus := math.Max(p.AvgSentiment, 0) * sentimentBonusWeight
	return base + ratingBonus + reviewBonus + sentimentBonus
}

// truncateExcerpt caps s at max bytes, appending an ellipsis marker when
// anything was cut. The cut backs up to a rune boundary so multi-byte
// characters in ingredient or review text are never split.
func truncateExcerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
