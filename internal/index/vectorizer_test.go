package index

import (
	"math"
	"testing"
)

func TestNgrams(t *testing.T) {
	got := ngrams("hydrating serum for dry skin")
	// "for" is a stop word; bigrams span the filtered token stream.
	want := []string{
		"hydrating", "hydrating serum",
		"serum", "serum dry",
		"dry", "dry skin",
		"skin",
	}
	if len(got) != len(want) {
		t.Fatalf("ngrams = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ngrams[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFitMinDocFreqPruning(t *testing.T) {
	corpus := []string{
		"hydrating serum",
		"mattifying gel",
		"hydrating cream",
	}
	v := Fit(corpus, Config{MaxFeatures: 100, MinDocFreq: 2, MaxDocFreqRatio: 0.8})

	// Only "hydrating" appears in at least two documents.
	if v.VocabSize() != 1 {
		t.Fatalf("vocab size = %d, want 1", v.VocabSize())
	}
	if v.IDF("hydrating") == 0 {
		t.Error("hydrating should be in the vocabulary")
	}
	if v.IDF("serum") != 0 {
		t.Error("serum should be pruned (df=1)")
	}
}

func TestFitMaxDocFreqPruning(t *testing.T) {
	corpus := []string{
		"serum skincare",
		"gel skincare",
		"cream skincare",
		"serum toner",
	}
	v := Fit(corpus, Config{MaxFeatures: 100, MinDocFreq: 2, MaxDocFreqRatio: 0.7})

	// "skincare" appears in 3 of 4 documents, above the 0.7 ratio cap.
	if v.IDF("skincare") != 0 {
		t.Error("skincare should be pruned by the document frequency cap")
	}
	if v.IDF("serum") == 0 {
		t.Error("serum (df=2) should be retained")
	}
}

func TestFitMaxFeaturesTieBreak(t *testing.T) {
	// Four terms all with df=2; budget of 2 keeps the lexicographically
	// first pair.
	corpus := []string{
		"alpha beta gamma delta",
		"alpha beta gamma delta",
	}
	v := Fit(corpus, Config{MaxFeatures: 2, MinDocFreq: 2, MaxDocFreqRatio: 1.0})
	if v.VocabSize() != 2 {
		t.Fatalf("vocab size = %d, want 2", v.VocabSize())
	}
	if v.IDF("alpha") == 0 || v.IDF("alpha beta") == 0 {
		t.Error("expected alpha and the bigram alpha beta to win the budget")
	}
}

func TestFitIDFFormula(t *testing.T) {
	corpus := []string{
		"hydrating serum",
		"hydrating gel",
		"matte powder",
	}
	v := Fit(corpus, Config{MaxFeatures: 100, MinDocFreq: 2, MaxDocFreqRatio: 1.0})

	// df(hydrating)=2, n=3: idf = ln(4/3) + 1.
	want := math.Log(4.0/3.0) + 1
	if got := v.IDF("hydrating"); math.Abs(got-want) > 1e-12 {
		t.Errorf("IDF(hydrating) = %v, want %v", got, want)
	}
}

func TestTransformUnitLength(t *testing.T) {
	corpus := []string{
		"hydrating serum glow",
		"hydrating serum matte",
		"glow toner",
	}
	v := Fit(corpus, Config{MaxFeatures: 100, MinDocFreq: 2, MaxDocFreqRatio: 1.0})

	vec := v.Transform("hydrating serum glow")
	if vec.IsZero() {
		t.Fatal("expected non-zero vector")
	}
	if got := vec.Norm(); math.Abs(got-1) > 1e-12 {
		t.Errorf("norm = %v, want 1", got)
	}
}

func TestTransformNoOverlapIsZero(t *testing.T) {
	corpus := []string{"hydrating serum", "hydrating gel"}
	v := Fit(corpus, Config{MaxFeatures: 100, MinDocFreq: 2, MaxDocFreqRatio: 1.0})

	if !v.Transform("completely unrelated words").IsZero() {
		t.Error("expected zero vector for out-of-vocabulary text")
	}
	if !v.Transform("").IsZero() {
		t.Error("expected zero vector for empty text")
	}
}

func TestTransformCosineIdentity(t *testing.T) {
	corpus := []string{
		"hydrating serum",
		"hydrating serum",
		"matte gel",
	}
	v := Fit(corpus, Config{MaxFeatures: 100, MinDocFreq: 2, MaxDocFreqRatio: 1.0})

	doc := v.Transform("hydrating serum")
	if got := Dot(doc, doc); math.Abs(got-1) > 1e-12 {
		t.Errorf("self-similarity = %v, want 1", got)
	}
}

func TestFitEmptyCorpus(t *testing.T) {
	v := Fit(nil, DefaultConfig())
	if v.VocabSize() != 0 {
		t.Errorf("vocab size = %d, want 0", v.VocabSize())
	}
	if !v.Transform("anything").IsZero() {
		t.Error("transform over empty vocabulary should be the zero vector")
	}
}

func TestTransformCorpusAlignment(t *testing.T) {
	corpus := []string{
		"hydrating serum",
		"matte gel",
		"hydrating cream",
	}
	v := Fit(corpus, Config{MaxFeatures: 100, MinDocFreq: 2, MaxDocFreqRatio: 1.0})
	vectors := v.TransformCorpus(corpus)
	if len(vectors) != len(corpus) {
		t.Fatalf("got %d vectors, want %d", len(vectors), len(corpus))
	}
	// Only "hydrating" survives; document 1 has no vocabulary overlap.
	if vectors[0].IsZero() || vectors[2].IsZero() {
		t.Error("documents 0 and 2 should have non-zero vectors")
	}
	if !vectors[1].IsZero() {
		t.Error("document 1 should have a zero vector")
	}
}
