// Package chromem backs the memory store with chromem-go, a pure Go
// embedded vector database. Each memory type gets its own collection so
// type-scoped retrieval stays cheap.
package chromem

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/YourBr0ther/EeveeLLM/memory"
)

// Store implements memory.Store on top of chromem-go. Embeddings are
// provided by the caller; chromem only does the similarity search.
type Store struct {
	db          *chromem.DB
	collections map[memory.Type]*chromem.Collection
	mu          sync.RWMutex
}

// New creates an in-memory store with one collection per memory type.
func New() (*Store, error) {
	db := chromem.NewDB()
	s := &Store{
		db:          db,
		collections: make(map[memory.Type]*chromem.Collection),
	}
	for _, t := range memory.Types {
		// Embeddings arrive pre-computed, so no embedding func; the
		// default cosine distance matches the retrieval contract.
		col, err := db.CreateCollection("eevee_memories_"+string(t), nil, nil)
		if err != nil {
			return nil, fmt.Errorf("create collection %s: %w", t, err)
		}
		s.collections[t] = col
	}
	return s, nil
}

// Store saves a memory into its type's collection. A second store with the
// same ID overwrites the previous document.
func (s *Store) Store(ctx context.Context, m *memory.Memory) error {
	if m == nil {
		return fmt.Errorf("store: nil memory")
	}
	if !m.Type.Valid() {
		return fmt.Errorf("store: unknown memory type %q", m.Type)
	}
	if len(m.Embedding) == 0 {
		return fmt.Errorf("store: memory %s has no embedding", m.ID)
	}

	s.mu.RLock()
	col := s.collections[m.Type]
	s.mu.RUnlock()

	doc := chromem.Document{
		ID:        m.ID,
		Content:   m.Content,
		Embedding: m.Embedding,
		Metadata:  encodeMetadata(m),
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// Query returns up to limit memories nearest to the embedding, most similar
// first. A filter type restricts the search to one collection; location and
// emotion filters become chromem metadata where-clauses.
func (s *Store) Query(ctx context.Context, embedding []float32, limit int, filter memory.QueryFilter) ([]memory.QueryResult, error) {
	if limit <= 0 {
		return nil, nil
	}

	types := memory.Types
	if filter.Type != "" {
		if !filter.Type.Valid() {
			return nil, fmt.Errorf("query: unknown memory type %q", filter.Type)
		}
		types = []memory.Type{filter.Type}
	}

	where := map[string]string{}
	if filter.Location != "" {
		where["location"] = filter.Location
	}
	if filter.Emotion != "" {
		where["emotion"] = string(filter.Emotion)
	}
	if len(where) == 0 {
		where = nil
	}

	var results []memory.QueryResult
	for _, t := range types {
		s.mu.RLock()
		col := s.collections[t]
		s.mu.RUnlock()

		// chromem rejects nResults above the collection size.
		n := limit
		if count := col.Count(); count < n {
			n = count
		}
		if n == 0 {
			continue
		}

		found, err := col.QueryEmbedding(ctx, embedding, n, where, nil)
		if err != nil {
			return nil, fmt.Errorf("query %s collection: %w", t, err)
		}
		for _, res := range found {
			m, err := decodeResult(t, res)
			if err != nil {
				return nil, fmt.Errorf("decode %s result: %w", t, err)
			}
			results = append(results, memory.QueryResult{
				Memory:     m,
				Similarity: float64(res.Similarity),
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Memory.ID < results[j].Memory.ID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// UpdateAccess persists retrieval-driven strength and access-count changes
// by rewriting the document in place.
func (s *Store) UpdateAccess(ctx context.Context, m *memory.Memory) error {
	return s.Store(ctx, m)
}

// Count returns the number of memories of type t, or across all types when
// t is empty.
func (s *Store) Count(ctx context.Context, t memory.Type) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t != "" {
		col, ok := s.collections[t]
		if !ok {
			return 0, fmt.Errorf("count: unknown memory type %q", t)
		}
		return col.Count(), nil
	}
	total := 0
	for _, col := range s.collections {
		total += col.Count()
	}
	return total, nil
}

// Close releases resources. chromem keeps everything in memory, so there is
// nothing to flush.
func (s *Store) Close() error { return nil }

// chromem metadata values must be strings; every record field round-trips
// through this map.
func encodeMetadata(m *memory.Memory) map[string]string {
	meta := map[string]string{
		"type":              string(m.Type),
		"created_at":        m.CreatedAt.Format(time.RFC3339Nano),
		"emotion":           string(m.Emotion),
		"emotion_intensity": formatFloat(m.EmotionIntensity),
		"significance":      formatFloat(m.Significance),
		"location":          m.Location,
		"tags":              strings.Join(m.Tags, ","),
		"strength":          formatFloat(m.Strength),
		"access_count":      strconv.Itoa(m.AccessCount),
	}
	if !m.LastAccessed.IsZero() {
		meta["last_accessed"] = m.LastAccessed.Format(time.RFC3339Nano)
	}

	switch m.Type {
	case memory.TypeEpisodic:
		meta["event_type"] = m.EventType
		meta["outcome"] = m.Outcome
	case memory.TypeSemantic:
		meta["fact_category"] = m.FactCategory
		meta["fact_confidence"] = formatFloat(m.FactConfidence)
		meta["evidence_count"] = strconv.Itoa(m.EvidenceCount)
	case memory.TypeEmotional:
		meta["trigger"] = m.Trigger
		meta["response"] = m.Response
		meta["learned_from"] = strings.Join(m.LearnedFrom, ",")
	case memory.TypeProcedural:
		meta["behavior"] = m.Behavior
		meta["trigger_condition"] = m.TriggerCondition
		meta["success_rate"] = formatFloat(m.SuccessRate)
		meta["times_used"] = strconv.Itoa(m.TimesUsed)
	}
	return meta
}

func decodeResult(t memory.Type, res chromem.Result) (*memory.Memory, error) {
	meta := res.Metadata

	createdAt, err := time.Parse(time.RFC3339Nano, meta["created_at"])
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	m := &memory.Memory{
		ID:               res.ID,
		Type:             t,
		Content:          res.Content,
		CreatedAt:        createdAt,
		Emotion:          memory.Emotion(meta["emotion"]),
		EmotionIntensity: parseFloat(meta["emotion_intensity"]),
		Significance:     parseFloat(meta["significance"]),
		Location:         meta["location"],
		Tags:             splitList(meta["tags"]),
		Strength:         parseFloat(meta["strength"]),
		AccessCount:      parseInt(meta["access_count"]),
		Embedding:        res.Embedding,
	}
	if raw := meta["last_accessed"]; raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			m.LastAccessed = ts
		}
	}

	switch t {
	case memory.TypeEpisodic:
		m.EventType = meta["event_type"]
		m.Outcome = meta["outcome"]
	case memory.TypeSemantic:
		m.FactCategory = meta["fact_category"]
		m.FactConfidence = parseFloat(meta["fact_confidence"])
		m.EvidenceCount = parseInt(meta["evidence_count"])
	case memory.TypeEmotional:
		m.Trigger = meta["trigger"]
		m.Response = meta["response"]
		m.LearnedFrom = splitList(meta["learned_from"])
	case memory.TypeProcedural:
		m.Behavior = meta["behavior"]
		m.TriggerCondition = meta["trigger_condition"]
		m.SuccessRate = parseFloat(meta["success_rate"])
		m.TimesUsed = parseInt(meta["times_used"])
	}
	return m, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
