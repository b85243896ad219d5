// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/frightclub/gorehound/internal/catalog"
)

// stopwords filtered from content documents before vectorization. Small
// English set; the metadata corpus is terse enough that an exhaustive list
// buys nothing.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "were": {}, "will": {}, "with": {},
}

// ContentModel holds unit-length TF-IDF vectors for every movie with content
// features. Vectors are sparse maps from vocabulary index to weight; all
// weights are non-negative, so pairwise cosine similarity lies in [0, 1].
type ContentModel struct {
	VectorsByID map[int]map[int]float64
	Vocab       map[string]int
	Documents   int
}

// BuildContentModel vectorizes the catalog. Movies without content features
// get no vector; Similarity reports 0 for them.
func BuildContentModel(cfg ContentConfig, universe *catalog.Index, logger zerolog.Logger) *ContentModel {
	ids := universe.IDs()
	docs := make(map[int][]string, len(ids))
	for _, id := range ids {
		m, err := universe.Get(id)
		if err != nil {
			continue
		}
		if !m.HasContentFeatures() {
			continue
		}
		docs[id] = contentTerms(cfg, m)
	}

	// Corpus frequency drives vocabulary selection; ties break
	// lexicographically so the vocabulary is deterministic.
	termCounts := make(map[string]int)
	for _, terms := range docs {
		for _, t := range terms {
			termCounts[t]++
		}
	}
	terms := make([]string, 0, len(termCounts))
	for t := range termCounts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCounts[terms[i]] != termCounts[terms[j]] {
			return termCounts[terms[i]] > termCounts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if cfg.MaxFeatures > 0 && len(terms) > cfg.MaxFeatures {
		terms = terms[:cfg.MaxFeatures]
	}
	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}

	// Document frequency over the retained vocabulary.
	df := make([]int, len(terms))
	for _, docTerms := range docs {
		seen := make(map[int]struct{})
		for _, t := range docTerms {
			if idx, ok := vocab[t]; ok {
				seen[idx] = struct{}{}
			}
		}
		for idx := range seen {
			df[idx]++
		}
	}

	n := len(docs)
	idf := make([]float64, len(terms))
	for i := range terms {
		// Smoothed IDF keeps weights finite for terms present in every
		// document.
		idf[i] = math.Log(float64(1+n)/float64(1+df[i])) + 1
	}

	model := &ContentModel{
		VectorsByID: make(map[int]map[int]float64, n),
		Vocab:       vocab,
		Documents:   n,
	}
	for id, docTerms := range docs {
		tf := make(map[int]float64)
		for _, t := range docTerms {
			if idx, ok := vocab[t]; ok {
				tf[idx]++
			}
		}
		if len(tf) == 0 {
			continue
		}
		var norm float64
		for idx := range tf {
			tf[idx] *= idf[idx]
			norm += tf[idx] * tf[idx]
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			continue
		}
		for idx := range tf {
			tf[idx] /= norm
		}
		model.VectorsByID[id] = tf
	}

	logger.Debug().
		Int("documents", n).
		Int("vocabulary", len(vocab)).
		Msg("Content model built")
	return model
}

// contentTerms assembles the weighted term document for one movie: genres
// repeated for emphasis, then director, then keywords. Unigrams and adjacent
// bigrams within each field.
func contentTerms(cfg ContentConfig, m catalog.Movie) []string {
	var terms []string
	for _, g := range m.Genres {
		toks := tokenize(g)
		for i := 0; i < cfg.GenreRepeat; i++ {
			terms = appendGrams(terms, toks)
		}
	}
	if m.Director != "" {
		toks := tokenize(m.Director)
		for i := 0; i < cfg.DirectorRepeat; i++ {
			terms = appendGrams(terms, toks)
		}
	}
	for _, k := range m.Keywords {
		terms = appendGrams(terms, tokenize(k))
	}
	return terms
}

// appendGrams appends unigrams and adjacent bigrams from one field's tokens.
func appendGrams(dst, toks []string) []string {
	dst = append(dst, toks...)
	for i := 0; i+1 < len(toks); i++ {
		dst = append(dst, toks[i]+" "+toks[i+1])
	}
	return dst
}

// tokenize lowercases and splits on non-alphanumeric runs, dropping
// stopwords and single characters.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Similarity returns the cosine similarity between two movies' content
// vectors. Missing vectors on either side yield 0.
func (cm *ContentModel) Similarity(a, b int) float64 {
	va, ok := cm.VectorsByID[a]
	if !ok {
		return 0
	}
	vb, ok := cm.VectorsByID[b]
	if !ok {
		return 0
	}
	if len(vb) < len(va) {
		va, vb = vb, va
	}
	var dot float64
	for idx, w := range va {
		if w2, ok := vb[idx]; ok {
			dot += w * w2
		}
	}
	// Vectors are unit length; clamp residual float error.
	if dot > 1 {
		dot = 1
	}
	return dot
}

// Has reports whether the movie has a content vector.
func (cm *ContentModel) Has(movieID int) bool {
	_, ok := cm.VectorsByID[movieID]
	return ok
}
