package textutil

import (
	"math"
	"strings"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	same := "vacation photos summer beach"
	cases := []struct {
		name  string
		a, b  *Fingerprint
		check func(float64) bool
		want  string
	}{
		{"both nil", nil, nil, func(v float64) bool { return v == 0 }, "0"},
		{"one nil", nil, NewFingerprint("household bills"), func(v float64) bool { return v == 0 }, "0"},
		{"identical text", NewFingerprint(same), NewFingerprint(same), func(v float64) bool { return v == 1.0 }, "1.0"},
		{"disjoint vocabulary", NewFingerprint("apple banana cherry"), NewFingerprint("dog elephant frog"), func(v float64) bool { return v == 0 }, "0"},
		{"partial overlap", NewFingerprint("tax documents receipts"), NewFingerprint("documents receipts invoices"), func(v float64) bool { return v > 0 && v < 1 }, "between 0 and 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CosineSimilarity(tc.a, tc.b)
			if !tc.check(got) {
				t.Fatalf("CosineSimilarity() = %v, want %s", got, tc.want)
			}
		})
	}
}

func TestCosineSimilarityIsSymmetric(t *testing.T) {
	a := NewFingerprint("tax documents receipts")
	b := NewFingerprint("documents receipts invoices")
	if ab, ba := CosineSimilarity(a, b), CosineSimilarity(b, a); ab != ba {
		t.Fatalf("asymmetric result: %v vs %v", ab, ba)
	}
}

func TestNewFingerprintDegenerateInput(t *testing.T) {
	for _, text := range []string{"", "a an it to"} {
		if fp := NewFingerprint(text); fp != nil {
			t.Errorf("NewFingerprint(%q) = %+v, want nil", text, fp)
		}
	}
}

func TestNewFingerprintNorm(t *testing.T) {
	// hello appears twice and world once, so the norm is sqrt(2*2 + 1*1).
	fp := NewFingerprint("hello hello world")
	if fp == nil {
		t.Fatal("expected fingerprint")
	}
	if want := math.Sqrt(5); math.Abs(fp.norm-want) > 1e-9 {
		t.Fatalf("norm = %v, want %v", fp.norm, want)
	}
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Family Photos", "family photos"},
		{"a to the tax return", "the tax return"},
		{"receipts, invoices & statements!", "receipts invoices statements"},
		{"report2025 q3summary", "report2025 q3summary"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := strings.Join(Tokenize(tc.input), " "); got != tc.want {
			t.Errorf("Tokenize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestWithIDFWeightsDistinctiveTerms(t *testing.T) {
	// Folder names where "documents" is ubiquitous and carries no signal.
	corpus := NewCorpus()
	folders := []string{
		"tax documents",
		"insurance documents",
		"travel documents",
		"family photos",
	}
	fingerprints := make([]*Fingerprint, 0, len(folders))
	for _, name := range folders {
		fp := NewFingerprint(name)
		corpus.Add(fp)
		fingerprints = append(fingerprints, fp)
	}
	idf := corpus.IDF()

	query := NewFingerprint("tax return documents").WithIDF(idf)
	taxSim := CosineSimilarity(query, fingerprints[0].WithIDF(idf))
	travelSim := CosineSimilarity(query, fingerprints[2].WithIDF(idf))

	if taxSim <= travelSim {
		t.Errorf("expected tax folder to outrank travel folder: tax=%v travel=%v", taxSim, travelSim)
	}
}
