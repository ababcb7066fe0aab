package scoring

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TextSimilarityIndex is a TF-IDF vector space over one query document and N
// listing documents. The vocabulary and IDF statistics are computed from that
// exact N+1-document corpus and nothing else: an index is built per
// comparison, used once and discarded, so statistics can never leak between
// unrelated candidates or listing sets.
type TextSimilarityIndex struct {
	query []float64
	docs  [][]float64
}

// BuildTextSimilarityIndex fits the corpus of queryText plus docTexts. With
// no documents it returns an empty index without building anything.
func BuildTextSimilarityIndex(queryText string, docTexts []string) TextSimilarityIndex {
	if len(docTexts) == 0 {
		return TextSimilarityIndex{}
	}

	corpus := make([][]string, 0, len(docTexts)+1)
	corpus = append(corpus, tokenize(queryText))
	for _, d := range docTexts {
		corpus = append(corpus, tokenize(d))
	}

	vocab := make(map[string]int)
	for _, doc := range corpus {
		for _, tok := range doc {
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
		}
	}

	counts := make([][]float64, len(corpus))
	df := make([]int, len(vocab))
	for i, doc := range corpus {
		tf := make([]float64, len(vocab))
		for _, tok := range doc {
			tf[vocab[tok]]++
		}
		for term, c := range tf {
			if c > 0 {
				df[term]++
			}
		}
		counts[i] = tf
	}

	// Smoothed IDF: ln((1+n)/(1+df)) + 1, so terms present everywhere still
	// carry non-zero weight.
	n := float64(len(corpus))
	idf := make([]float64, len(vocab))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([][]float64, len(corpus))
	for i, tf := range counts {
		v := make([]float64, len(vocab))
		for term, c := range tf {
			v[term] = c * idf[term]
		}
		vectors[i] = l2Normalize(v)
	}

	return TextSimilarityIndex{query: vectors[0], docs: vectors[1:]}
}

// Similarities returns the cosine similarity between the query and each
// document, clamped to [0,1] to absorb floating-point overshoot, aligned
// one-to-one with the document order the index was built with. A document
// sharing no vocabulary with the query scores 0.
func (ix TextSimilarityIndex) Similarities() []float64 {
	out := make([]float64, len(ix.docs))
	for i, doc := range ix.docs {
		out[i] = Clamp(dot(ix.query, doc))
	}
	return out
}

func l2Normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
	return v
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// tokenize lowercases and splits on non-alphanumeric runes. Single-character
// tokens carry no signal and are dropped.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 {
			continue
		}
		out = append(out, f)
	}
	return out
}
