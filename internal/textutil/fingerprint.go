package textutil

import (
	"math"
	"strings"
)

// Fingerprint is a term-frequency vector over the tokens of a piece of text.
// Vectors compare with CosineSimilarity.
type Fingerprint struct {
	weights map[string]float64
	norm    float64
}

// newVector wraps a weight map, computing its Euclidean norm once. Returns
// nil when no terms carry weight.
func newVector(weights map[string]float64) *Fingerprint {
	if len(weights) == 0 {
		return nil
	}
	var sum float64
	for _, w := range weights {
		sum += w * w
	}
	return &Fingerprint{weights: weights, norm: math.Sqrt(sum)}
}

// NewFingerprint tokenizes text and builds its term-frequency vector.
// Returns nil if the text produces no usable tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	weights := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		weights[token]++
	}
	return newVector(weights)
}

// minTokenLen keeps connective noise ("a", "of", "to") out of fingerprints.
const minTokenLen = 3

// Tokenize lowercases text, splits it on runs of non-alphanumeric
// characters, and drops tokens shorter than minTokenLen.
func Tokenize(text string) []string {
	parts := strings.FieldsFunc(strings.ToLower(text), isTokenBoundary)
	tokens := parts[:0]
	for _, part := range parts {
		if len(part) >= minTokenLen {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

func isTokenBoundary(r rune) bool {
	return (r < 'a' || r > 'z') && (r < '0' || r > '9')
}

// WithIDF reweights the vector with inverse document frequencies. Terms
// missing from the idf map keep their raw frequency; terms whose weight
// drops to zero are removed.
func (f *Fingerprint) WithIDF(idf map[string]float64) *Fingerprint {
	if f == nil || len(idf) == 0 {
		return f
	}
	weights := make(map[string]float64, len(f.weights))
	for term, w := range f.weights {
		if scale, ok := idf[term]; ok {
			w *= scale
		}
		if w != 0 {
			weights[term] = w
		}
	}
	return newVector(weights)
}

// Corpus accumulates document frequencies so a set of vectors can be
// reweighted toward their distinctive terms.
type Corpus struct {
	docs int
	seen map[string]int
}

func NewCorpus() *Corpus {
	return &Corpus{seen: make(map[string]int)}
}

// Add counts each unique term of fp once.
func (c *Corpus) Add(fp *Fingerprint) {
	if c == nil || fp == nil {
		return
	}
	c.docs++
	for term := range fp.weights {
		c.seen[term]++
	}
}

// IDF returns log((N+1)/(1+df)) per term. The +1 smoothing keeps terms seen
// in most documents at a small positive weight; a term present in every
// document scores exactly zero and falls out of reweighted vectors.
func (c *Corpus) IDF() map[string]float64 {
	if c == nil || c.docs == 0 {
		return nil
	}
	idf := make(map[string]float64, len(c.seen))
	total := float64(c.docs)
	for term, df := range c.seen {
		idf[term] = math.Log((total + 1) / (1 + float64(df)))
	}
	return idf
}

// CosineSimilarity reports how closely two vectors align, in [0, 1].
// Either side being nil or empty yields 0.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	small, large := a, b
	if len(b.weights) < len(a.weights) {
		small, large = b, a
	}
	var dot float64
	for term, w := range small.weights {
		dot += w * large.weights[term]
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}
