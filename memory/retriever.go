package memory

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/YourBr0ther/EeveeLLM/core"
)

// Retrieval ranking coefficients. The relevance of a candidate is its
// similarity plus bounded bonuses for recency, strength, significance, and
// context matches. Kept as named constants so the ranking is documented in
// one place.
const (
	recencyDayBonus   = 0.20 // created or accessed within 24h
	recencyWeekBonus  = 0.10 // within a week
	strengthSpan      = 0.20 // (strength-0.5) contributes -0.1..+0.1
	highSigBonus      = 0.15 // significance >= 8
	midSigBonus       = 0.10 // significance >= 7
	locationBonus     = 0.20 // memory from the current location
	emotionBonus      = 0.15 // memory sharing the current emotion
	frequentBonus     = 0.10 // accessed more than 5 times
	maxRelevance      = 1.5
	minOverFetch      = 20 // M: candidates pulled before re-ranking
	locationSideCount = 3
	emotionSideCount  = 2
)

// Retrieved pairs a memory with the final relevance score it was ranked by.
type Retrieved struct {
	*Memory
	Relevance float64
}

// Retriever finds the memories most relevant to the current situation. It
// is the Hippocampus region's view into long-term storage.
//
// Retrieval never fails from the caller's perspective: any store or
// embedder error degrades to an empty result with a logged warning.
type Retriever struct {
	store    Store
	embedder Embedder
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithRetrieverLogger sets the logger used for degraded-path warnings.
func WithRetrieverLogger(l *slog.Logger) RetrieverOption {
	return func(r *Retriever) { r.logger = l }
}

// WithRetrieverClock overrides the time source, for tests.
func WithRetrieverClock(now func() time.Time) RetrieverOption {
	return func(r *Retriever) { r.now = now }
}

// NewRetriever creates a retriever over the given store and embedder.
func NewRetriever(store Store, embedder Embedder, cfg Config, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns up to k memories ordered by relevance to the situation.
// Candidates come from a wide similarity query plus small location- and
// emotion-scoped side queries, then are re-ranked by similarity, recency,
// strength, and significance. Each returned memory has its access count
// bumped and its strength boosted (bounded).
func (r *Retriever) Retrieve(ctx context.Context, situation string, qc *core.Context, k int) []Retrieved {
	if k <= 0 {
		k = r.cfg.RetrievalCount
	}

	embedding, err := r.embedder.Embed(ctx, situation)
	if err != nil {
		r.logger.Warn("memory retrieval skipped: embedding failed", "error", err)
		return nil
	}

	overFetch := 2 * k
	if overFetch < minOverFetch {
		overFetch = minOverFetch
	}

	now := r.now()
	seen := make(map[string]Retrieved)

	primary, err := r.store.Query(ctx, embedding, overFetch, QueryFilter{})
	if err != nil {
		r.logger.Warn("memory retrieval degraded to empty: store query failed", "error", err)
		return nil
	}
	for _, res := range primary {
		seen[res.Memory.ID] = Retrieved{res.Memory, r.relevance(res, now, 0)}
	}

	// Side queries only add candidates; their failures are not worth
	// more than a debug line since the primary query already succeeded.
	if qc != nil && qc.Location != "" {
		byLoc, err := r.store.Query(ctx, embedding, locationSideCount, QueryFilter{Location: qc.Location})
		if err != nil {
			r.logger.Debug("location-scoped memory query failed", "error", err)
		}
		for _, res := range byLoc {
			if _, ok := seen[res.Memory.ID]; !ok {
				seen[res.Memory.ID] = Retrieved{res.Memory, r.relevance(res, now, locationBonus)}
			}
		}
	}
	if qc != nil && qc.Emotion != "" {
		byEmotion, err := r.store.Query(ctx, embedding, emotionSideCount, QueryFilter{Emotion: Emotion(qc.Emotion)})
		if err != nil {
			r.logger.Debug("emotion-scoped memory query failed", "error", err)
		}
		for _, res := range byEmotion {
			if _, ok := seen[res.Memory.ID]; !ok {
				seen[res.Memory.ID] = Retrieved{res.Memory, r.relevance(res, now, emotionBonus)}
			}
		}
	}

	ranked := make([]Retrieved, 0, len(seen))
	for _, m := range seen {
		ranked = append(ranked, m)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Relevance != ranked[j].Relevance {
			return ranked[i].Relevance > ranked[j].Relevance
		}
		if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
			return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}

	for _, m := range ranked {
		m.MarkAccessed(now)
		if err := r.store.UpdateAccess(ctx, m.Memory); err != nil {
			r.logger.Warn("failed to persist memory access", "id", m.ID, "error", err)
		}
	}

	r.logger.Debug("retrieved memories", "count", len(ranked), "candidates", len(seen))
	return ranked
}

// Recall adapts Retrieve for the brain council, which only sees compact
// snippets. It satisfies the council's Recaller interface.
func (r *Retriever) Recall(ctx context.Context, situation string, c *core.Context) []core.RetrievedMemory {
	retrieved := r.Retrieve(ctx, situation, c, r.cfg.RetrievalCount)
	if len(retrieved) == 0 {
		return nil
	}
	out := make([]core.RetrievedMemory, len(retrieved))
	for i, m := range retrieved {
		out[i] = core.RetrievedMemory{
			Content:      m.Content,
			Type:         string(m.Type),
			Emotion:      string(m.Emotion),
			Location:     m.Location,
			Significance: m.Significance,
			Relevance:    m.Relevance,
		}
	}
	return out
}

func (r *Retriever) relevance(res QueryResult, now time.Time, contextBonus float64) float64 {
	m := res.Memory
	rel := res.Similarity

	anchor := m.LastAccessed
	if anchor.IsZero() {
		anchor = m.CreatedAt
	}
	age := now.Sub(anchor)
	switch {
	case age < 24*time.Hour:
		rel += recencyDayBonus
	case age < 7*24*time.Hour:
		rel += recencyWeekBonus
	}

	rel += (m.EffectiveStrength(now, r.cfg.ForgettingRate) - 0.5) * strengthSpan

	switch {
	case m.Significance >= 8.0:
		rel += highSigBonus
	case m.Significance >= 7.0:
		rel += midSigBonus
	}

	if m.AccessCount > 5 {
		rel += frequentBonus
	}

	rel += contextBonus
	if rel > maxRelevance {
		rel = maxRelevance
	}
	return rel
}
