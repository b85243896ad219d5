// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package recommend

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/frightclub/gorehound/internal/catalog"
)

// LatentModel is the truncated SVD of the mean-centered user x movie rating
// matrix. Each catalog movie whose letterboxd slug appears in the ratings
// corpus gets an embedding row of V*Sigma; movies absent from the corpus
// have no embedding, and similarity against them is reported as unavailable
// rather than zero.
type LatentModel struct {
	Factors      [][]float64 // per rated-slug embedding rows, k wide
	Norms        []float64   // L2 norm of each row
	IDToRow      map[int]int // catalog movie ID -> row; duplicates share rows
	RatingCounts map[int]int // catalog movie ID -> ratings of its slug
	Users        int
	RatingsUsed  int
	Rank         int
}

type sparseEntry struct {
	col int
	val float64
}

// BuildLatentModel trains the SVD from explicit ratings. Returns nil when
// the filtered corpus is empty; the engine then falls back to co-occurrence
// mode. Rows with out-of-range values or slugs outside the catalog are
// skipped with a warning count.
func BuildLatentModel(ctx context.Context, cfg LatentConfig, ratings []Rating, universe *catalog.Index, logger zerolog.Logger) (*LatentModel, error) {
	slugIDs := universe.SlugIndex()
	if len(slugIDs) == 0 || len(ratings) == 0 {
		return nil, nil
	}

	// Filter and deduplicate: last rating wins when a user rates the same
	// slug twice.
	type cell struct {
		user int
		slug int
	}
	userIdx := make(map[string]int)
	slugIdx := make(map[string]int)
	slugs := make([]string, 0)
	values := make(map[cell]float64)
	skippedRange := 0
	skippedUnknown := 0
	for _, r := range ratings {
		if r.Username == "" || r.Slug == "" {
			skippedUnknown++
			continue
		}
		if _, ok := slugIDs[r.Slug]; !ok {
			skippedUnknown++
			continue
		}
		if r.Value < cfg.MinRating || r.Value > cfg.MaxRating {
			skippedRange++
			continue
		}
		ui, ok := userIdx[r.Username]
		if !ok {
			ui = len(userIdx)
			userIdx[r.Username] = ui
		}
		si, ok := slugIdx[r.Slug]
		if !ok {
			si = len(slugIdx)
			slugIdx[r.Slug] = si
			slugs = append(slugs, r.Slug)
		}
		values[cell{ui, si}] = r.Value
	}
	if skippedRange > 0 || skippedUnknown > 0 {
		logger.Warn().
			Int("out_of_range", skippedRange).
			Int("unknown_slug", skippedUnknown).
			Msg("Skipped malformed rating records")
	}
	if len(values) == 0 {
		return nil, nil
	}

	m := len(userIdx)
	n := len(slugIdx)
	k := cfg.Factors
	if k > n {
		k = n
	}

	// Sparse rows, mean-centered per user over rated entries only. Unrated
	// cells stay implicit zeros and do not contribute to the mean.
	rows := make([][]sparseEntry, m)
	sums := make([]float64, m)
	counts := make([]int, m)
	for c, v := range values {
		sums[c.user] += v
		counts[c.user]++
	}
	for c, v := range values {
		mean := sums[c.user] / float64(counts[c.user])
		rows[c.user] = append(rows[c.user], sparseEntry{col: c.slug, val: v - mean})
	}
	for i := range rows {
		sort.Slice(rows[i], func(a, b int) bool { return rows[i][a].col < rows[i][b].col })
	}

	factors, sigma, err := truncatedSVD(ctx, rows, m, n, k, cfg.Iterations, cfg.Seed)
	if err != nil {
		return nil, err
	}

	// Embedding rows are V*Sigma.
	norms := make([]float64, n)
	for i := 0; i < n; i++ {
		var sq float64
		for j := 0; j < k; j++ {
			factors[i][j] *= sigma[j]
			sq += factors[i][j] * factors[i][j]
		}
		norms[i] = math.Sqrt(sq)
	}

	// Every catalog ID sharing a rated slug maps onto the same row and
	// rating count. Remakes with distinct IDs but distinct slugs stay
	// separate.
	slugCounts := make([]int, n)
	for c := range values {
		slugCounts[c.slug]++
	}
	idToRow := make(map[int]int)
	ratingCounts := make(map[int]int)
	for si, slug := range slugs {
		for _, id := range slugIDs[slug] {
			idToRow[id] = si
			ratingCounts[id] = slugCounts[si]
		}
	}

	model := &LatentModel{
		Factors:      factors,
		Norms:        norms,
		IDToRow:      idToRow,
		RatingCounts: ratingCounts,
		Users:        m,
		RatingsUsed:  len(values),
		Rank:         k,
	}
	logger.Debug().
		Int("users", m).
		Int("rated_slugs", n).
		Int("ratings", len(values)).
		Int("rank", k).
		Msg("Latent model built")
	return model, nil
}

// truncatedSVD computes the top-k right singular vectors and singular values
// of the sparse matrix A via block power iteration on A^T A with modified
// Gram-Schmidt re-orthonormalization. Deterministic for a fixed seed.
func truncatedSVD(ctx context.Context, rows [][]sparseEntry, m, n, k, iterations int, seed int64) ([][]float64, []float64, error) {
	rng := rand.New(rand.NewSource(seed))
	v := make([][]float64, n)
	for i := range v {
		v[i] = make([]float64, k)
		for j := range v[i] {
			v[i][j] = rng.NormFloat64()
		}
	}
	orthonormalize(v, k, rng)

	t := make([]float64, m)
	w := make([]float64, n)
	for iter := 0; iter < iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		for j := 0; j < k; j++ {
			// t = A v_j
			for i := 0; i < m; i++ {
				var dot float64
				for _, e := range rows[i] {
					dot += e.val * v[e.col][j]
				}
				t[i] = dot
			}
			// w = A^T t
			for i := range w {
				w[i] = 0
			}
			for i := 0; i < m; i++ {
				ti := t[i]
				if ti == 0 {
					continue
				}
				for _, e := range rows[i] {
					w[e.col] += e.val * ti
				}
			}
			for i := 0; i < n; i++ {
				v[i][j] = w[i]
			}
		}
		orthonormalize(v, k, rng)
	}

	// sigma_j = ||A v_j||.
	sigma := make([]float64, k)
	for j := 0; j < k; j++ {
		var sq float64
		for i := 0; i < m; i++ {
			var dot float64
			for _, e := range rows[i] {
				dot += e.val * v[e.col][j]
			}
			sq += dot * dot
		}
		sigma[j] = math.Sqrt(sq)
	}
	return v, sigma, nil
}

// orthonormalize applies modified Gram-Schmidt over the k columns of v.
// Columns that collapse to numerical zero are re-seeded so the basis keeps
// full rank.
func orthonormalize(v [][]float64, k int, rng *rand.Rand) {
	n := len(v)
	for j := 0; j < k; j++ {
		for p := 0; p < j; p++ {
			var dot float64
			for i := 0; i < n; i++ {
				dot += v[i][j] * v[i][p]
			}
			for i := 0; i < n; i++ {
				v[i][j] -= dot * v[i][p]
			}
		}
		var norm float64
		for i := 0; i < n; i++ {
			norm += v[i][j] * v[i][j]
		}
		norm = math.Sqrt(norm)
		if norm < 1e-12 {
			for i := 0; i < n; i++ {
				v[i][j] = rng.NormFloat64()
			}
			j--
			continue
		}
		for i := 0; i < n; i++ {
			v[i][j] /= norm
		}
	}
}

// Similarity returns the cosine similarity between two movies' embeddings
// and whether both embeddings exist. Negative cosines are clamped to zero so
// the collaborative component stays in [0, 1].
func (lm *LatentModel) Similarity(a, b int) (float64, bool) {
	if lm == nil {
		return 0, false
	}
	ra, ok := lm.IDToRow[a]
	if !ok {
		return 0, false
	}
	rb, ok := lm.IDToRow[b]
	if !ok {
		return 0, false
	}
	na, nb := lm.Norms[ra], lm.Norms[rb]
	if na == 0 || nb == 0 {
		return 0, false
	}
	var dot float64
	fa, fb := lm.Factors[ra], lm.Factors[rb]
	for j := range fa {
		dot += fa[j] * fb[j]
	}
	sim := dot / (na * nb)
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim, true
}

// Has reports whether the movie has a latent embedding.
func (lm *LatentModel) Has(movieID int) bool {
	if lm == nil {
		return false
	}
	_, ok := lm.IDToRow[movieID]
	return ok
}

// RatingCount returns the number of ratings backing the movie's embedding.
func (lm *LatentModel) RatingCount(movieID int) int {
	if lm == nil {
		return 0
	}
	return lm.RatingCounts[movieID]
}

// Coverage returns the number of catalog movies with embeddings.
func (lm *LatentModel) Coverage() int {
	if lm == nil {
		return 0
	}
	return len(lm.IDToRow)
}
