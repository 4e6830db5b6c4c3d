// Package feature derives the searchable representation of each product:
// the normalized text blob used for retrieval and the merged review signals
// (rating, review volume, sentiment). All missing-value fallbacks happen
// here, once; downstream code never re-checks for absent fields.
package feature

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/gleamstack/beautysearch/internal/catalog"
	apperrors "github.com/gleamstack/beautysearch/pkg/errors"
)

const (
	fallbackBrand    = "Unknown Brand"
	fallbackCategory = "Skincare"
	sampleReviewMax  = 3
)

// NormalizeText lowercases s, replaces every character outside [a-z0-9] and
// whitespace with a space, collapses whitespace runs, and trims. The result
// contains only lowercase letters, digits, and single spaces.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Build produces the fully-populated catalog from raw snapshot records.
// Products with an empty name are dropped; this is the only build-time
// filtering. The returned slice order follows the snapshot order of the
// surviving products and defines the corpus alignment.
func Build(records []catalog.ProductRecord, reviews []catalog.ReviewRecord) ([]*catalog.Product, error) {
	aggregates := Aggregate(reviews)

	products := make([]*catalog.Product, 0, len(records))
	dropped := 0
	for _, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			dropped++
			continue
		}
		agg := aggregates[rec.ProductID]
		products = append(products, buildProduct(rec, agg))
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: no products with a usable name in snapshot of %d records",
			apperrors.ErrBuildFailed, len(records))
	}
	if dropped > 0 {
		slog.Default().With("component", "feature-builder").
			Warn("dropped products without names", "dropped", dropped, "kept", len(products))
	}
	return products, nil
}

// buildProduct merges one raw record with its optional review aggregate,
// applying the fallback policy: aggregate value, else listed value, else 0.
func buildProduct(rec catalog.ProductRecord, agg *catalog.ReviewAggregate) *catalog.Product {
	p := &catalog.Product{
		ID:                rec.ProductID,
		Name:              rec.Name,
		Brand:             rec.Brand,
		PrimaryCategory:   rec.PrimaryCategory,
		SecondaryCategory: rec.SecondaryCategory,
		Ingredients:       rec.Ingredients,
		Price:             rec.Price,
		FinalRating:       rec.Rating,
		FinalReviewCount:  rec.ReviewCount,
	}
	if strings.TrimSpace(p.Brand) == "" {
		p.Brand = fallbackBrand
	}
	if strings.TrimSpace(p.PrimaryCategory) == "" {
		p.PrimaryCategory = fallbackCategory
	}
	if agg != nil {
		p.FinalRating = agg.MeanRating
		p.FinalReviewCount = agg.RatingCount
		p.AvgSentiment = agg.MeanSentiment
		p.SampleReviews = agg.SampleReviews
	}
	if p.FinalRating < 0 {
		p.FinalRating = 0
	}
	if p.FinalReviewCount < 0 {
		p.FinalReviewCount = 0
	}

	parts := []string{
		NormalizeText(p.Name),
		NormalizeText(p.Brand),
		NormalizeText(p.PrimaryCategory),
		NormalizeText(p.SecondaryCategory),
		NormalizeText(p.Ingredients),
	}
	p.NormalizedText = strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	return p
}

// Aggregate computes per-product review statistics. Products with no reviews
// have no entry in the returned map.
func Aggregate(reviews []catalog.ReviewRecord) map[string]*catalog.ReviewAggregate {
	aggs := make(map[string]*catalog.ReviewAggregate)
	sums := make(map[string]float64)
	sumSquares := make(map[string]float64)
	sentimentSums := make(map[string]float64)
	samples := make(map[string][]string)

	for _, r := range reviews {
		agg, ok := aggs[r.ProductID]
		if !ok {
			agg = &catalog.ReviewAggregate{ProductID: r.ProductID}
			aggs[r.ProductID] = agg
		}
		rating := float64(r.Rating)
		agg.RatingCount++
		sums[r.ProductID] += rating
		sumSquares[r.ProductID] += rating * rating
		sentimentSums[r.ProductID] += r.Sentiment
		if strings.TrimSpace(r.Text) != "" {
			agg.ReviewTextCount++
			if len(samples[r.ProductID]) < sampleReviewMax {
				samples[r.ProductID] = append(samples[r.ProductID], r.Text)
			}
		}
	}

	for id, agg := range aggs {
		n := float64(agg.RatingCount)
		agg.MeanRating = sums[id] / n
		agg.MeanSentiment = sentimentSums[id] / n
		agg.RatingStdDev = sampleStdDev(sums[id], sumSquares[id], agg.RatingCount)
		agg.SampleReviews = strings.Join(samples[id], " ")
	}
	return aggs
}

// sampleStdDev returns the n-1 standard deviation, or 0 for fewer than two
// samples.
func sampleStdDev(sum, sumSquares float64, n int) float64 {
	if n < 2 {
		return 0
	}
	mean := sum / float64(n)
	variance := (sumSquares - float64(n)*mean*mean) / float64(n-1)
	if variance < 0 {
		// Guard against negative variance from float rounding.
		variance = 0
	}
	return math.Sqrt(variance)
}
