package stats

import (
	"math"
	"testing"

	"github.com/gleamstack/beautysearch/internal/catalog"
)

func statsStore() *catalog.Store {
	products := []*catalog.Product{
		{ID: "p1", Name: "Serum", Brand: "GlowLab", PrimaryCategory: "Skincare", SecondaryCategory: "Treatments", Price: 30, FinalRating: 4.5, FinalReviewCount: 120, AvgSentiment: 0.3},
		{ID: "p2", Name: "Gel", Brand: "PureDerm", PrimaryCategory: "Skincare", Price: 0, FinalRating: 3.0, FinalReviewCount: 10, AvgSentiment: -0.1},
		{ID: "p3", Name: "Cream", Brand: "GlowLab", PrimaryCategory: "Makeup", SecondaryCategory: "Face", Price: 50, FinalRating: 4.5, FinalReviewCount: 500, AvgSentiment: 0.1},
	}
	reviews := []catalog.ReviewRecord{
		{ProductID: "p1", Rating: 5},
		{ProductID: "p1", Rating: 4},
		{ProductID: "p3", Rating: 4},
	}
	return catalog.NewStore(products, reviews)
}

func TestComputeDatasetCounts(t *testing.T) {
	s := Compute(statsStore())
	if s.Dataset.TotalProducts != 3 {
		t.Errorf("TotalProducts = %d, want 3", s.Dataset.TotalProducts)
	}
	if s.Dataset.TotalReviews != 3 {
		t.Errorf("TotalReviews = %d, want 3", s.Dataset.TotalReviews)
	}
	if s.Dataset.TotalBrands != 2 {
		t.Errorf("TotalBrands = %d, want 2", s.Dataset.TotalBrands)
	}
	if s.Dataset.TotalCategories != 2 {
		t.Errorf("TotalCategories = %d, want 2", s.Dataset.TotalCategories)
	}
}

func TestComputeRatings(t *testing.T) {
	s := Compute(statsStore())
	if got, want := s.Ratings.AverageRating, 4.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("AverageRating = %v, want %v", got, want)
	}
	if got, want := s.Ratings.MedianRating, 4.5; got != want {
		t.Errorf("MedianRating = %v, want %v", got, want)
	}
	// Histogram keys ascending: 3.0 once, 4.5 twice.
	if len(s.Ratings.RatingDistribution) != 2 {
		t.Fatalf("rating distribution = %v", s.Ratings.RatingDistribution)
	}
	if s.Ratings.RatingDistribution[0].Rating != 3.0 || s.Ratings.RatingDistribution[0].Count != 1 {
		t.Errorf("bucket 0 = %+v", s.Ratings.RatingDistribution[0])
	}
	if s.Ratings.RatingDistribution[1].Rating != 4.5 || s.Ratings.RatingDistribution[1].Count != 2 {
		t.Errorf("bucket 1 = %+v", s.Ratings.RatingDistribution[1])
	}
}

func TestComputePricingSkipsUnknown(t *testing.T) {
	s := Compute(statsStore())
	// p2's unknown price is excluded from min, mean, and median.
	if s.Pricing.MinPrice != 30 {
		t.Errorf("MinPrice = %v, want 30", s.Pricing.MinPrice)
	}
	if s.Pricing.MaxPrice != 50 {
		t.Errorf("MaxPrice = %v, want 50", s.Pricing.MaxPrice)
	}
	if s.Pricing.AveragePrice != 40 {
		t.Errorf("AveragePrice = %v, want 40", s.Pricing.AveragePrice)
	}
	if s.Pricing.MedianPrice != 40 {
		t.Errorf("MedianPrice = %v, want 40", s.Pricing.MedianPrice)
	}
}

func TestComputeTopTables(t *testing.T) {
	s := Compute(statsStore())
	if len(s.TopBrands) != 2 || s.TopBrands[0].Name != "GlowLab" || s.TopBrands[0].Count != 2 {
		t.Errorf("TopBrands = %v", s.TopBrands)
	}
	if len(s.Categories) != 2 || s.Categories[0].Name != "Skincare" {
		t.Errorf("Categories = %v", s.Categories)
	}
}

func TestCategoriesListing(t *testing.T) {
	primary, secondary := Categories(statsStore())
	if len(primary) != 2 || primary[0] != "Makeup" || primary[1] != "Skincare" {
		t.Errorf("primary = %v", primary)
	}
	// Empty secondary categories are excluded.
	if len(secondary) != 2 || secondary[0] != "Face" || secondary[1] != "Treatments" {
		t.Errorf("secondary = %v", secondary)
	}
}

func TestBrandsListing(t *testing.T) {
	all, top := Brands(statsStore())
	if len(all) != 2 || all[0] != "GlowLab" || all[1] != "PureDerm" {
		t.Errorf("all = %v", all)
	}
	if top[0].Name != "GlowLab" || top[0].Count != 2 {
		t.Errorf("top = %v", top)
	}
}

func TestTopNTieBreak(t *testing.T) {
	rows := topN(map[string]int{"zeta": 2, "alpha": 2, "mid": 5}, 2)
	if rows[0].Name != "mid" {
		t.Errorf("rows[0] = %+v, want mid first", rows[0])
	}
	// Equal counts break lexicographically.
	if rows[1].Name != "alpha" {
		t.Errorf("rows[1] = %+v, want alpha", rows[1])
	}
}

func TestTrendingEligibilityAndOrder(t *testing.T) {
	entries := Trending(statsStore(), DefaultTrendingOptions())
	// p2 fails both thresholds (3.0 rating, 10 reviews).
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ProductID != "p3" || entries[1].ProductID != "p1" {
		t.Errorf("order = [%s %s], want [p3 p1]", entries[0].ProductID, entries[1].ProductID)
	}
	want := 0.4*4.5 + 0.4*math.Log1p(500) + 0.2*(0.1+1)*2.5
	if math.Abs(entries[0].TrendingScore-want) > 1e-9 {
		t.Errorf("p3 score = %v, want %v", entries[0].TrendingScore, want)
	}
}

func TestTrendingLimit(t *testing.T) {
	opts := DefaultTrendingOptions()
	opts.Limit = 1
	entries := Trending(statsStore(), opts)
	if len(entries) != 1 || entries[0].ProductID != "p3" {
		t.Errorf("entries = %v, want just p3", entries)
	}
}

func TestTrendingPriceNullWhenUnknown(t *testing.T) {
	products := []*catalog.Product{
		{ID: "p1", Name: "X", FinalRating: 4.5, FinalReviewCount: 100, Price: 0},
	}
	entries := Trending(catalog.NewStore(products, nil), DefaultTrendingOptions())
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].PriceUSD != nil {
		t.Errorf("PriceUSD = %v, want nil", *entries[0].PriceUSD)
	}
}
