package feature

import (
	"errors"
	"math"
	"testing"

	"github.com/gleamstack/beautysearch/internal/catalog"
	apperrors "github.com/gleamstack/beautysearch/pkg/errors"
)

func TestNormalizeText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Hydrating SERUM", "hydrating serum"},
		{"punctuation", "Vitamin-C (10%)!", "vitamin c 10"},
		{"collapse whitespace", "  a \t b\n\nc  ", "a b c"},
		{"digits kept", "SPF50 Sunscreen", "spf50 sunscreen"},
		{"empty", "", ""},
		{"only punctuation", "!!! --- ???", ""},
		{"unicode stripped", "crème brûlée", "cr me br l e"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeText(tc.in); got != tc.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestBuildDropsNamelessProducts(t *testing.T) {
	records := []catalog.ProductRecord{
		{ProductID: "p1", Name: "Hydrating Serum"},
		{ProductID: "p2", Name: "   "},
		{ProductID: "p3", Name: ""},
	}
	products, err := Build(records, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("got %d products, want 1", len(products))
	}
	if products[0].ID != "p1" {
		t.Errorf("kept product %q, want p1", products[0].ID)
	}
}

func TestBuildFailsWhenNothingSurvives(t *testing.T) {
	records := []catalog.ProductRecord{{ProductID: "p1", Name: ""}}
	_, err := Build(records, nil)
	if !errors.Is(err, apperrors.ErrBuildFailed) {
		t.Fatalf("got error %v, want ErrBuildFailed", err)
	}
}

func TestBuildFallbacks(t *testing.T) {
	records := []catalog.ProductRecord{
		{ProductID: "p1", Name: "Serum", Brand: " ", PrimaryCategory: ""},
	}
	products, err := Build(records, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	p := products[0]
	if p.Brand != "Unknown Brand" {
		t.Errorf("brand = %q, want Unknown Brand", p.Brand)
	}
	if p.PrimaryCategory != "Skincare" {
		t.Errorf("primary category = %q, want Skincare", p.PrimaryCategory)
	}
}

func TestBuildPrefersAggregateOverListedValues(t *testing.T) {
	records := []catalog.ProductRecord{
		{ProductID: "p1", Name: "Serum", Rating: 2.5, ReviewCount: 7},
		{ProductID: "p2", Name: "Cream", Rating: 3.5, ReviewCount: 9},
	}
	reviews := []catalog.ReviewRecord{
		{ProductID: "p1", Rating: 5, Sentiment: 0.4, Text: "love it"},
		{ProductID: "p1", Rating: 4, Sentiment: 0.2, Text: "pretty good"},
	}
	products, err := Build(records, reviews)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	p1 := products[0]
	if got, want := p1.FinalRating, 4.5; got != want {
		t.Errorf("p1 FinalRating = %v, want %v", got, want)
	}
	if p1.FinalReviewCount != 2 {
		t.Errorf("p1 FinalReviewCount = %d, want 2", p1.FinalReviewCount)
	}
	if got, want := p1.AvgSentiment, 0.3; math.Abs(got-want) > 1e-9 {
		t.Errorf("p1 AvgSentiment = %v, want %v", got, want)
	}
	if p1.SampleReviews != "love it pretty good" {
		t.Errorf("p1 SampleReviews = %q", p1.SampleReviews)
	}

	// No reviews for p2: listed values remain.
	p2 := products[1]
	if p2.FinalRating != 3.5 || p2.FinalReviewCount != 9 {
		t.Errorf("p2 finals = (%v, %d), want (3.5, 9)", p2.FinalRating, p2.FinalReviewCount)
	}
}

func TestBuildNormalizedTextJoinOrder(t *testing.T) {
	records := []catalog.ProductRecord{{
		ProductID:         "p1",
		Name:              "Glow Serum",
		Brand:             "LumiCo",
		PrimaryCategory:   "Skincare",
		SecondaryCategory: "Treatments",
		Ingredients:       "Water, Glycerin",
	}}
	products, err := Build(records, nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	want := "glow serum lumico skincare treatments water glycerin"
	if products[0].NormalizedText != want {
		t.Errorf("NormalizedText = %q, want %q", products[0].NormalizedText, want)
	}
}

func TestAggregate(t *testing.T) {
	reviews := []catalog.ReviewRecord{
		{ProductID: "p1", Rating: 5, Text: "one", Sentiment: 0.5},
		{ProductID: "p1", Rating: 3, Text: "two", Sentiment: -0.1},
		{ProductID: "p1", Rating: 4, Text: "three", Sentiment: 0.2},
		{ProductID: "p1", Rating: 4, Text: "four", Sentiment: 0.0},
		{ProductID: "p1", Rating: 4, Text: "  ", Sentiment: 0.0},
	}
	aggs := Aggregate(reviews)
	agg := aggs["p1"]
	if agg == nil {
		t.Fatal("no aggregate for p1")
	}
	if agg.RatingCount != 5 {
		t.Errorf("RatingCount = %d, want 5", agg.RatingCount)
	}
	if got, want := agg.MeanRating, 4.0; got != want {
		t.Errorf("MeanRating = %v, want %v", got, want)
	}
	// Blank review text does not count toward text stats.
	if agg.ReviewTextCount != 4 {
		t.Errorf("ReviewTextCount = %d, want 4", agg.ReviewTextCount)
	}
	// Only the first three texts are sampled.
	if agg.SampleReviews != "one two three" {
		t.Errorf("SampleReviews = %q", agg.SampleReviews)
	}
	// Sample stddev of {5,3,4,4,4} is sqrt(2/4).
	if got, want := agg.RatingStdDev, math.Sqrt(0.5); math.Abs(got-want) > 1e-9 {
		t.Errorf("RatingStdDev = %v, want %v", got, want)
	}
}

func TestAggregateSingleReviewStdDevZero(t *testing.T) {
	aggs := Aggregate([]catalog.ReviewRecord{{ProductID: "p1", Rating: 4}})
	if got := aggs["p1"].RatingStdDev; got != 0 {
		t.Errorf("RatingStdDev = %v, want 0", got)
	}
}
