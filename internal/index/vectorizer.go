// Package index implements the vector space index: a TF-IDF representation
// of the normalized product corpus with an explicit sparse-vector encoding
// and cosine similarity via dot products of L2-normalized vectors.
//
// The vocabulary and IDF weights are frozen after Fit. Re-indexing means
// fitting a fresh Vectorizer over a new corpus and swapping the published
// reference; there is no incremental update.
package index

import (
	"log/slog"
	"math"
	"sort"
	"strings"
)

// Config controls vocabulary construction.
type Config struct {
	// MaxFeatures caps the vocabulary at the N highest-document-frequency
	// terms.
	MaxFeatures int
	// MinDocFreq excludes terms appearing in fewer documents.
	MinDocFreq int
	// MaxDocFreqRatio excludes terms appearing in more than this fraction
	// of documents.
	MaxDocFreqRatio float64
}

// DefaultConfig returns the production vocabulary settings.
func DefaultConfig() Config {
	return Config{
		MaxFeatures:     8000,
		MinDocFreq:      2,
		MaxDocFreqRatio: 0.8,
	}
}

// Vectorizer maps text to sparse TF-IDF vectors over a frozen vocabulary of
// unigrams and bigrams.
type Vectorizer struct {
	vocab    map[string]int
	idf      []float64
	docCount int
}

// Fit builds the vocabulary and IDF weights from the corpus. The corpus
// entries are expected to be normalized already (lowercase alphanumerics and
// single spaces); tokenization is a plain whitespace split.
//
// A corpus too small or too uniform to retain any term yields an empty
// vocabulary: every transform then produces the zero vector and all
// similarities evaluate to 0.
func Fit(corpus []string, cfg Config) *Vectorizer {
	if cfg.MaxFeatures <= 0 {
		cfg.MaxFeatures = DefaultConfig().MaxFeatures
	}
	if cfg.MinDocFreq < 1 {
		cfg.MinDocFreq = 1
	}
	if cfg.MaxDocFreqRatio <= 0 || cfg.MaxDocFreqRatio > 1 {
		cfg.MaxDocFreqRatio = DefaultConfig().MaxDocFreqRatio
	}

	n := len(corpus)
	docFreq := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, term := range ngrams(doc) {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			docFreq[term]++
		}
	}

	maxDF := cfg.MaxDocFreqRatio * float64(n)
	type termDF struct {
		term string
		df   int
	}
	kept := make([]termDF, 0, len(docFreq))
	for term, df := range docFreq {
		if df < cfg.MinDocFreq || float64(df) > maxDF {
			continue
		}
		kept = append(kept, termDF{term, df})
	}
	// Highest document frequency wins the feature budget; lexicographic
	// tie-break keeps the vocabulary deterministic across builds.
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].df != kept[j].df {
			return kept[i].df > kept[j].df
		}
		return kept[i].term < kept[j].term
	})
	if len(kept) > cfg.MaxFeatures {
		kept = kept[:cfg.MaxFeatures]
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].term < kept[j].term })

	v := &Vectorizer{
		vocab:    make(map[string]int, len(kept)),
		idf:      make([]float64, len(kept)),
		docCount: n,
	}
	for col, t := range kept {
		v.vocab[t.term] = col
		// Smoothed IDF: positive and finite even at maximum document
		// frequency.
		v.idf[col] = math.Log(float64(1+n)/float64(1+t.df)) + 1
	}

	slog.Default().With("component", "vector-index").Info("vocabulary fitted",
		"documents", n,
		"candidate_terms", len(docFreq),
		"retained_terms", len(kept),
	)
	return v
}

// Transform maps text to a unit-length sparse TF-IDF vector over the fitted
// vocabulary. Terms outside the vocabulary contribute nothing; text with no
// vocabulary overlap yields the zero vector.
func (v *Vectorizer) Transform(text string) SparseVector {
	tf := make(map[int]float64)
	for _, term := range ngrams(text) {
		if col, ok := v.vocab[term]; ok {
			tf[col]++
		}
	}
	if len(tf) == 0 {
		return SparseVector{}
	}

	cols := make([]int, 0, len(tf))
	for col := range tf {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	vec := SparseVector{
		Cols:    cols,
		Weights: make([]float64, len(cols)),
	}
	for i, col := range cols {
		vec.Weights[i] = tf[col] * v.idf[col]
	}
	vec.Normalize()
	return vec
}

// TransformCorpus transforms every corpus entry, preserving order. The
// result is index-aligned with the corpus (and therefore the catalog).
func (v *Vectorizer) TransformCorpus(corpus []string) []SparseVector {
	vectors := make([]SparseVector, len(corpus))
	for i, doc := range corpus {
		vectors[i] = v.Transform(doc)
	}
	return vectors
}

// VocabSize returns the number of retained vocabulary terms.
func (v *Vectorizer) VocabSize() int {
	return len(v.vocab)
}

// DocCount returns the corpus size the vectorizer was fitted on.
func (v *Vectorizer) DocCount() int {
	return v.docCount
}

// IDF returns the inverse-document-frequency weight for term, or 0 when the
// term is not in the vocabulary.
func (v *Vectorizer) IDF(term string) float64 {
	col, ok := v.vocab[term]
	if !ok {
		return 0
	}
	return v.idf[col]
}

// ngrams splits normalized text on whitespace, removes stop words, and
// emits the remaining unigrams plus adjacent-pair bigrams.
func ngrams(text string) []string {
	fields := strings.Fields(text)
	tokens := fields[:0:len(fields)]
	for _, f := range fields {
		if IsStopWord(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	terms := make([]string, 0, len(tokens)*2)
	for i, tok := range tokens {
		terms = append(terms, tok)
		if i+1 < len(tokens) {
			terms = append(terms, tok+" "+tokens[i+1])
		}
	}
	return terms
}
