// Gorehound - Horror Club Movie Recommendations
// Copyright 2026 Fright Club
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frightclub/gorehound

package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/frightclub/gorehound/internal/catalog"
	"github.com/frightclub/gorehound/internal/logging"
	"github.com/frightclub/gorehound/internal/metrics"
	"github.com/frightclub/gorehound/internal/recommend/storage"
)

const artifactName = "hybrid-models"

// modelArtifact is the expensive-to-train portion of a snapshot, persisted
// through the model store so restarts against an unchanged corpus skip the
// SVD and vectorizer work.
type modelArtifact struct {
	Content *ContentModel
	Latent  *LatentModel
	Ratings int
	Raters  int
}

// Engine owns snapshot lifecycle: training, atomic publication, response
// caching, and rebuild status. Queries are served lock-free from the current
// snapshot.
type Engine struct {
	cfg      *Config
	logger   zerolog.Logger
	provider DataProvider
	store    *storage.Store // optional, may be nil

	current atomic.Pointer[Snapshot]
	version atomic.Int64

	rebuildMu sync.Mutex // TryLock guards concurrent rebuilds

	statusMu sync.RWMutex
	status   RebuildStatus

	cacheMu sync.Mutex
	cache   map[string]cacheEntry
}

type cacheEntry struct {
	result  *Result
	expires time.Time
}

// NewEngine validates the configuration and returns an engine with no
// published snapshot. Rebuild must succeed once before queries work.
func NewEngine(cfg *Config, provider DataProvider) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:      cfg.Clone(),
		logger:   logging.With().Str("component", "recommend").Logger(),
		provider: provider,
		cache:    make(map[string]cacheEntry),
	}, nil
}

// SetModelStore attaches a persistent artifact store. Must be called before
// the first Rebuild.
func (e *Engine) SetModelStore(store *storage.Store) {
	e.store = store
}

// Ready reports whether a snapshot has been published.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// Rebuild loads all three corpora, trains the models, and atomically swaps
// in a new snapshot. The previous snapshot keeps serving until the swap;
// concurrent rebuild requests fail fast with ErrRebuildInProgress.
func (e *Engine) Rebuild(ctx context.Context) error {
	if !e.rebuildMu.TryLock() {
		return ErrRebuildInProgress
	}
	defer e.rebuildMu.Unlock()

	start := time.Now()
	e.setStatus(func(st *RebuildStatus) {
		st.Running = true
		st.LastStart = start
	})

	snap, err := e.build(ctx)
	duration := time.Since(start)
	if err != nil {
		e.setStatus(func(st *RebuildStatus) {
			st.Running = false
			st.LastFinish = time.Now()
			st.LastError = err.Error()
			st.Duration = duration
		})
		metrics.RebuildsTotal.WithLabelValues("error").Inc()
		e.logger.Error().Err(err).Dur("duration", duration).Msg("Snapshot rebuild failed")
		return fmt.Errorf("rebuild: %w", err)
	}

	e.current.Store(snap)
	e.invalidateCache()
	e.setStatus(func(st *RebuildStatus) {
		st.Running = false
		st.LastFinish = time.Now()
		st.LastError = ""
		st.Duration = duration
		st.Version = snap.version
	})
	metrics.RebuildsTotal.WithLabelValues("success").Inc()
	metrics.RebuildDuration.Observe(duration.Seconds())
	metrics.SetCorpusGauges(snap.universe.Len(), snap.interactions.Pairs(), snap.interactions.Users(), snap.latent.Coverage())

	e.logger.Info().
		Int("version", snap.version).
		Int("movies", snap.universe.Len()).
		Int("review_pairs", snap.interactions.Pairs()).
		Int("latent_coverage", snap.latent.Coverage()).
		Dur("duration", duration).
		Msg("Snapshot published")
	return nil
}

func (e *Engine) build(ctx context.Context) (*Snapshot, error) {
	movies, err := e.provider.GetMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("load movies: empty catalog")
	}
	reviews, err := e.provider.GetReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	ratings, err := e.provider.GetRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	universe, skipped := catalog.Load(movies)
	if skipped > 0 {
		e.logger.Warn().Int("skipped", skipped).Msg("Skipped malformed movie records")
	}
	interactions := BuildInteractionIndex(reviews, universe, e.logger)

	fingerprint := e.corpusFingerprint(movies, reviews, ratings)
	artifact, loaded := e.loadArtifact(ctx, fingerprint)
	if !loaded {
		artifact = &modelArtifact{
			Content: BuildContentModel(e.cfg.Content, universe, e.logger),
			Ratings: len(ratings),
		}
		artifact.Latent, err = BuildLatentModel(ctx, e.cfg.Latent, ratings, universe, e.logger)
		if err != nil {
			return nil, fmt.Errorf("train latent model: %w", err)
		}
		if artifact.Latent != nil {
			artifact.Raters = artifact.Latent.Users
		}
		e.saveArtifact(ctx, fingerprint, artifact)
	}

	version := int(e.version.Add(1))
	return &Snapshot{
		cfg:          e.cfg,
		logger:       e.logger,
		universe:     universe,
		interactions: interactions,
		content:      artifact.Content,
		latent:       artifact.Latent,
		ratings:      artifact.Ratings,
		raters:       artifact.Raters,
		builtAt:      time.Now(),
		version:      version,
	}, nil
}

// corpusFingerprint hashes corpus shape and training knobs. Counts rather
// than full contents: corpora only change through batch imports, and a
// same-size in-place edit is rare enough that a forced rebuild via the API
// covers it.
func (e *Engine) corpusFingerprint(movies []catalog.Movie, reviews []Review, ratings []Rating) string {
	h := sha256.New()
	fmt.Fprintf(h, "movies=%d;reviews=%d;ratings=%d;", len(movies), len(reviews), len(ratings))
	fmt.Fprintf(h, "factors=%d;iters=%d;seed=%d;", e.cfg.Latent.Factors, e.cfg.Latent.Iterations, e.cfg.Latent.Seed)
	fmt.Fprintf(h, "maxfeat=%d;grep=%d;drep=%d;", e.cfg.Content.MaxFeatures, e.cfg.Content.GenreRepeat, e.cfg.Content.DirectorRepeat)
	return hex.EncodeToString(h.Sum(nil))
}

func (e *Engine) loadArtifact(ctx context.Context, fingerprint string) (*modelArtifact, bool) {
	if e.store == nil {
		return nil, false
	}
	var artifact modelArtifact
	ok, err := e.store.LoadModel(ctx, artifactName, fingerprint, &artifact)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Stored model artifact unusable, retraining")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	e.logger.Info().Str("fingerprint", fingerprint[:12]).Msg("Loaded trained models from store")
	metrics.ModelStoreHits.Inc()
	return &artifact, true
}

func (e *Engine) saveArtifact(ctx context.Context, fingerprint string, artifact *modelArtifact) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveModel(ctx, artifactName, fingerprint, artifact); err != nil {
		// Persistence is an optimization; a failed save never fails the
		// rebuild.
		e.logger.Warn().Err(err).Msg("Failed to persist trained models")
	}
}

// Recommend serves a recommendation request from the current snapshot,
// consulting the response cache first. topN <= 0 selects the configured
// default; values above the maximum are clamped.
func (e *Engine) Recommend(ctx context.Context, movieID, topN int, filters Filters) (*Result, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	if topN <= 0 {
		topN = e.cfg.Limits.DefaultTopN
	}
	if topN > e.cfg.Limits.MaxTopN {
		topN = e.cfg.Limits.MaxTopN
	}

	key := cacheKey(snap.version, movieID, topN, filters)
	if res, ok := e.cacheGet(key); ok {
		metrics.CacheHits.Inc()
		return res, nil
	}
	metrics.CacheMisses.Inc()

	start := time.Now()
	res, err := snap.Recommend(ctx, movieID, topN, filters)
	if err != nil {
		return nil, err
	}
	metrics.RecommendationsServed.WithLabelValues(res.MethodName).Inc()
	metrics.RecommendationLatency.WithLabelValues(res.MethodName).Observe(time.Since(start).Seconds())

	e.cachePut(key, res)
	return res, nil
}

// RecommendByTitle resolves an exact title then delegates to Recommend.
// Title resolution is ambiguous for remakes; ID-based requests are the
// precise path.
func (e *Engine) RecommendByTitle(ctx context.Context, title string, topN int, filters Filters) (*Result, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	id, err := snap.universe.ResolveTitle(title)
	if err != nil {
		return nil, err
	}
	return e.Recommend(ctx, id, topN, filters)
}

// Search matches catalog titles by substring.
func (e *Engine) Search(query string, limit int) ([]Summary, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	if limit <= 0 {
		limit = e.cfg.Limits.DefaultTopN
	}
	if limit > e.cfg.Limits.MaxTopN {
		limit = e.cfg.Limits.MaxTopN
	}
	return snap.Search(query, limit), nil
}

// MovieInfo returns the enriched view of one catalog movie.
func (e *Engine) MovieInfo(movieID int) (Summary, error) {
	snap := e.current.Load()
	if snap == nil {
		return Summary{}, ErrNotReady
	}
	return snap.Summary(movieID)
}

// Popular returns the most-reviewed movies.
func (e *Engine) Popular(limit int) ([]Summary, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	if limit <= 0 {
		limit = e.cfg.Limits.DefaultTopN
	}
	if limit > e.cfg.Limits.MaxTopN {
		limit = e.cfg.Limits.MaxTopN
	}
	return snap.Popular(limit), nil
}

// Stats reports the published snapshot's corpus shape.
func (e *Engine) Stats() (Stats, error) {
	snap := e.current.Load()
	if snap == nil {
		return Stats{}, ErrNotReady
	}
	return snap.Stats(), nil
}

// Status reports rebuild state.
func (e *Engine) Status() RebuildStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status
}

// RunPeriodicRebuilds rebuilds on the configured interval until the context
// is cancelled. Intended to run in its own goroutine.
func (e *Engine) RunPeriodicRebuilds(ctx context.Context) {
	if e.cfg.RebuildInterval <= 0 {
		return
	}
	ticker := time.NewTicker(e.cfg.RebuildInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.Rebuild(ctx); err != nil {
				e.logger.Error().Err(err).Msg("Periodic rebuild failed")
			}
		}
	}
}

func (e *Engine) setStatus(fn func(*RebuildStatus)) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	fn(&e.status)
}

func cacheKey(version, movieID, topN int, filters Filters) string {
	minSim := -1.0
	if filters.MinContentSimilarity != nil {
		minSim = *filters.MinContentSimilarity
	}
	return fmt.Sprintf("v%d:m%d:n%d:h%t:s%.4f", version, movieID, topN, filters.TrueHorrorOnly, minSim)
}

func (e *Engine) cacheGet(key string) (*Result, bool) {
	if !e.cfg.Cache.Enabled {
		return nil, false
	}
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	entry, ok := e.cache[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		delete(e.cache, key)
		return nil, false
	}
	return entry.result, true
}

func (e *Engine) cachePut(key string, res *Result) {
	if !e.cfg.Cache.Enabled {
		return
	}
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	if len(e.cache) >= e.cfg.Cache.MaxEntries {
		// Full eviction is simpler than LRU bookkeeping and the cache
		// refills within one TTL window.
		e.cache = make(map[string]cacheEntry)
	}
	e.cache[key] = cacheEntry{result: res, expires: time.Now().Add(e.cfg.Cache.TTL)}
}

func (e *Engine) invalidateCache() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	e.cache = make(map[string]cacheEntry)
}
