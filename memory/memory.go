package memory

import (
	"context"
	"time"
)

// Type classifies a long-term memory record.
type Type string

const (
	// TypeEpisodic records specific events: "Trainer gave me a berry when sick".
	TypeEpisodic Type = "episodic"
	// TypeSemantic records facts and knowledge: "Oran berries heal".
	TypeSemantic Type = "semantic"
	// TypeEmotional records associations: "deep forest = scary but exciting".
	TypeEmotional Type = "emotional"
	// TypeProcedural records learned behaviors: "when hungry, nuzzle trainer".
	TypeProcedural Type = "procedural"
)

// Types lists every memory type, in storage order.
var Types = []Type{TypeEpisodic, TypeSemantic, TypeEmotional, TypeProcedural}

// Valid reports whether t is one of the four known types.
func (t Type) Valid() bool {
	switch t {
	case TypeEpisodic, TypeSemantic, TypeEmotional, TypeProcedural:
		return true
	}
	return false
}

// Emotion tags a memory with a primary emotion.
type Emotion string

const (
	EmotionJoy          Emotion = "joy"
	EmotionFear         Emotion = "fear"
	EmotionSadness      Emotion = "sadness"
	EmotionAnger        Emotion = "anger"
	EmotionSurprise     Emotion = "surprise"
	EmotionTrust        Emotion = "trust"
	EmotionAnticipation Emotion = "anticipation"
	EmotionDisgust      Emotion = "disgust"
	EmotionGratitude    Emotion = "gratitude"
	EmotionCuriosity    Emotion = "curiosity"
	EmotionLoneliness   Emotion = "loneliness"
	EmotionContentment  Emotion = "contentment"
)

const (
	// MaxStrength caps memory strength regardless of how often a record
	// is accessed.
	MaxStrength = 1.0
	// accessBoost is the strength gain applied on each retrieval.
	accessBoost = 0.05
)

// Memory is one durable record. Records are created by the Consolidator,
// owned by the Store, and mutated (strength, access count) only through
// retrieval.
type Memory struct {
	ID        string
	Type      Type
	Content   string
	CreatedAt time.Time

	Emotion          Emotion
	EmotionIntensity float64 // 0-10
	Significance     float64 // 0-10
	Location         string
	Tags             []string

	Strength     float64 // 0-1, boosted on access, decays with age
	AccessCount  int
	LastAccessed time.Time

	Embedding []float32

	// Episodic fields.
	EventType string
	Outcome   string

	// Semantic fields.
	FactCategory   string
	FactConfidence float64
	EvidenceCount  int

	// Emotional-association fields.
	Trigger     string
	Response    string
	LearnedFrom []string

	// Procedural fields.
	Behavior         string
	TriggerCondition string
	SuccessRate      float64
	TimesUsed        int
}

// MarkAccessed records a retrieval: the access count goes up and the memory
// strengthens by a bounded amount. Strength never exceeds MaxStrength.
func (m *Memory) MarkAccessed(now time.Time) {
	m.AccessCount++
	m.LastAccessed = now
	m.Strength = min(MaxStrength, m.Strength+accessBoost)
}

// EffectiveStrength returns the memory's strength after time decay, without
// mutating the record. Decay is recomputed on read so no background job is
// needed; significant memories decay slower.
func (m *Memory) EffectiveStrength(now time.Time, forgettingRate float64) float64 {
	anchor := m.LastAccessed
	if anchor.IsZero() {
		anchor = m.CreatedAt
	}
	days := now.Sub(anchor).Hours() / 24
	if days <= 0 {
		return m.Strength
	}
	rate := forgettingRate * (1.0 - m.Significance/10.0)
	s := m.Strength - rate*days
	if s < 0 {
		return 0
	}
	return s
}

// QueryFilter narrows a similarity query. Zero values match everything.
type QueryFilter struct {
	Type     Type
	Location string
	Emotion  Emotion
}

// QueryResult pairs a stored memory with its similarity to the query
// embedding, in [0,1] with 1 an exact match.
type QueryResult struct {
	Memory     *Memory
	Similarity float64
}

// Store is the vector storage backend. Implementations must persist the
// full record and return it intact from Query.
type Store interface {
	// Store saves a memory. The embedding must already be set.
	Store(ctx context.Context, m *Memory) error

	// Query returns up to limit memories nearest to the embedding,
	// most similar first, optionally filtered by metadata.
	Query(ctx context.Context, embedding []float32, limit int, filter QueryFilter) ([]QueryResult, error)

	// UpdateAccess persists retrieval-driven mutation of strength,
	// access count, and last-accessed time.
	UpdateAccess(ctx context.Context, m *Memory) error

	// Count returns the number of stored memories of the given type,
	// or of all types when t is empty.
	Count(ctx context.Context, t Type) (int, error)

	Close() error
}

// Embedder converts text to vector embeddings. Implementations are expected
// to be deterministic for identical input.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Config holds the tunable memory coefficients. All values are validated by
// the config package at load time; the zero value is unusable, use
// DefaultConfig.
type Config struct {
	// SignificanceThreshold gates long-term storage, 0-10 scale.
	SignificanceThreshold float64
	// RetrievalCount is k, the number of memories handed to the council.
	RetrievalCount int
	// WorkingCapacity is the size of the working-memory window.
	WorkingCapacity int
	// ForgettingRate is the per-day strength decay for a significance-0
	// memory.
	ForgettingRate float64
}

// DefaultConfig mirrors the shipped configuration defaults.
func DefaultConfig() Config {
	return Config{
		SignificanceThreshold: 6.0,
		RetrievalCount:        5,
		WorkingCapacity:       10,
		ForgettingRate:        0.01,
	}
}
