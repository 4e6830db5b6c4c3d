// Package catalog defines the product and review data model and the
// immutable in-memory store the search engine is built over.
package catalog

// ProductRecord is a raw catalog row as supplied by the snapshot loader.
// Numeric zero values mean "unknown" and are resolved by the feature builder.
type ProductRecord struct {
	ProductID         string
	Name              string
	Brand             string
	PrimaryCategory   string
	SecondaryCategory string
	Ingredients       string
	Price             float64
	Rating            float64
	ReviewCount       int
}

// ReviewRecord is a raw review row. Sentiment is a precomputed scalar in
// [-1, 1] supplied by the upstream sentiment collaborator.
type ReviewRecord struct {
	ProductID string
	Rating    int
	Text      string
	Sentiment float64
	SkinTone  string
	EyeColor  string
	SkinType  string
	HairColor string
	Age       string
}

// Product is a fully-populated catalog entry. After the feature builder runs,
// FinalRating, FinalReviewCount, and AvgSentiment are always resolved; no
// downstream code re-checks for missing values.
type Product struct {
	ID                string
	Name              string
	Brand             string
	PrimaryCategory   string
	SecondaryCategory string
	Ingredients       string
	Price             float64 // <= 0 means unknown

	// NormalizedText is the retrieval blob: lowercase alphanumerics and
	// single spaces, built from name, brand, categories, and ingredients.
	NormalizedText string

	FinalRating      float64 // 0..5
	FinalReviewCount int
	AvgSentiment     float64 // nominally -1..1
	SampleReviews    string
}

// ReviewAggregate holds per-product review statistics. It exists only while
// the feature builder runs; its values are folded into Product.
type ReviewAggregate struct {
	ProductID       string
	MeanRating      float64
	RatingCount     int
	RatingStdDev    float64 // 0 when only one sample
	ReviewTextCount int
	MeanSentiment   float64
	SampleReviews   string // up to 3 representative excerpts, space-joined
}
