// Package stats computes catalog-wide descriptive statistics and the
// query-independent trending ranking.
package stats

import (
	"sort"

	"github.com/gleamstack/beautysearch/internal/catalog"
)

// NameCount is one row of a frequency table.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RatingBucket is one bin of the rating histogram, keyed by the exact
// final-rating value.
type RatingBucket struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

// DatasetStats is the aggregate view served by the stats endpoint.
type DatasetStats struct {
	Dataset struct {
		TotalProducts   int `json:"total_products"`
		TotalReviews    int `json:"total_reviews"`
		TotalBrands     int `json:"total_brands"`
		TotalCategories int `json:"total_categories"`
	} `json:"dataset"`
	Ratings struct {
		AverageRating      float64        `json:"average_rating"`
		MedianRating       float64        `json:"median_rating"`
		RatingDistribution []RatingBucket `json:"rating_distribution"`
	} `json:"ratings"`
	Pricing struct {
		MinPrice     float64 `json:"min_price"`
		MaxPrice     float64 `json:"max_price"`
		AveragePrice float64 `json:"average_price"`
		MedianPrice  float64 `json:"median_price"`
	} `json:"pricing"`
	Categories []NameCount `json:"categories"`
	TopBrands  []NameCount `json:"top_brands"`
}

// Compute derives DatasetStats from the built catalog. Price statistics
// other than the maximum consider only products with a known (> 0) price;
// the maximum ranges over all products.
func Compute(store *catalog.Store) DatasetStats {
	products := store.Products()

	var stats DatasetStats
	stats.Dataset.TotalProducts = len(products)
	stats.Dataset.TotalReviews = store.ReviewCount()

	brands := make(map[string]int)
	categories := make(map[string]int)
	ratings := make([]float64, 0, len(products))
	ratingCounts := make(map[float64]int)
	knownPrices := make([]float64, 0, len(products))
	maxPrice := 0.0

	for _, p := range products {
		brands[p.Brand]++
		categories[p.PrimaryCategory]++
		ratings = append(ratings, p.FinalRating)
		ratingCounts[p.FinalRating]++
		if p.Price > 0 {
			knownPrices = append(knownPrices, p.Price)
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
	}

	stats.Dataset.TotalBrands = len(brands)
	stats.Dataset.TotalCategories = len(categories)

	stats.Ratings.AverageRating = mean(ratings)
	stats.Ratings.MedianRating = median(ratings)
	stats.Ratings.RatingDistribution = ratingHistogram(ratingCounts)

	if len(knownPrices) > 0 {
		sort.Float64s(knownPrices)
		stats.Pricing.MinPrice = knownPrices[0]
		stats.Pricing.AveragePrice = mean(knownPrices)
		stats.Pricing.MedianPrice = medianSorted(knownPrices)
	}
	stats.Pricing.MaxPrice = maxPrice

	stats.Categories = topN(categories, 10)
	stats.TopBrands = topN(brands, 10)
	return stats
}

// Categories returns the sorted distinct primary categories and the sorted
// distinct non-empty secondary categories.
func Categories(store *catalog.Store) (primary, secondary []string) {
	prim := make(map[string]struct{})
	sec := make(map[string]struct{})
	for _, p := range store.Products() {
		prim[p.PrimaryCategory] = struct{}{}
		if p.SecondaryCategory != "" {
			sec[p.SecondaryCategory] = struct{}{}
		}
	}
	return sortedKeys(prim), sortedKeys(sec)
}

// Brands returns all distinct brands sorted, plus the top-20 brand
// frequency table.
func Brands(store *catalog.Store) (all []string, top []NameCount) {
	counts := make(map[string]int)
	for _, p := range store.Products() {
		counts[p.Brand]++
	}
	all = make([]string, 0, len(counts))
	for b := range counts {
		all = append(all, b)
	}
	sort.Strings(all)
	return all, topN(counts, 20)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return medianSorted(sorted)
}

func medianSorted(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func ratingHistogram(counts map[float64]int) []RatingBucket {
	buckets := make([]RatingBucket, 0, len(counts))
	for rating, count := range counts {
		buckets = append(buckets, RatingBucket{Rating: rating, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Rating < buckets[j].Rating })
	return buckets
}

// topN returns the n most frequent entries, counts descending with
// lexicographic tie-break for deterministic output.
func topN(counts map[string]int, n int) []NameCount {
	rows := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, NameCount{Name: name, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
