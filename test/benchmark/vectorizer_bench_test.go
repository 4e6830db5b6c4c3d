package benchmark

import (
	"fmt"
	"testing"

	"github.com/gleamstack/beautysearch/internal/feature"
	"github.com/gleamstack/beautysearch/internal/index"
)

var normalizeSamples = map[string]string{
	"short": "Hydrating Serum with Hyaluronic Acid (1.5%)",
	"ingredients": `Water, Glycerin, Butylene Glycol, Sodium Hyaluronate, Panthenol,
        Niacinamide, Allantoin, Tocopheryl Acetate, Xanthan Gum, Disodium EDTA,
        Citric Acid, Phenoxyethanol, Ethylhexylglycerin, Fragrance/Parfum`,
}

func BenchmarkNormalizeText(b *testing.B) {
	for name, text := range normalizeSamples {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = feature.NormalizeText(text)
			}
		})
	}
}

func benchCorpus(n int) []string {
	docs := make([]string, n)
	for i := 0; i < n; i++ {
		docs[i] = fmt.Sprintf(
			"hydrating serum no %d glowlab skincare treatments water glycerin hyaluronic acid panthenol", i)
	}
	return docs
}

func BenchmarkVectorizerFit(b *testing.B) {
	for _, size := range []int{100, 1000, 8000} {
		corpus := benchCorpus(size)
		b.Run(fmt.Sprintf("docs_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = index.Fit(corpus, index.DefaultConfig())
			}
		})
	}
}

func BenchmarkVectorizerTransform(b *testing.B) {
	v := index.Fit(benchCorpus(1000), index.DefaultConfig())
	query := "hydrating serum hyaluronic acid"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = v.Transform(query)
	}
}

func BenchmarkDot(b *testing.B) {
	v := index.Fit(benchCorpus(1000), index.DefaultConfig())
	docs := v.TransformCorpus(benchCorpus(1000))
	query := v.Transform("hydrating serum hyaluronic acid")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var sum float64
		for _, d := range docs {
			sum += index.Dot(query, d)
		}
		_ = sum
	}
}
