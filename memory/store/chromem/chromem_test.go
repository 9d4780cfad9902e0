package chromem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YourBr0ther/EeveeLLM/memory"
	"github.com/YourBr0ther/EeveeLLM/memory/embedder/mock"
)

func embed(t *testing.T, text string) []float32 {
	t.Helper()
	vec, err := mock.New(64).Embed(context.Background(), text)
	require.NoError(t, err)
	return vec
}

func sampleMemory(t *testing.T, id string) *memory.Memory {
	t.Helper()
	return &memory.Memory{
		ID:               id,
		Type:             memory.TypeEpisodic,
		Content:          "trainer gave me a berry at the stream",
		CreatedAt:        time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
		Emotion:          memory.EmotionGratitude,
		EmotionIntensity: 7.5,
		Significance:     8.0,
		Location:         "stream",
		Tags:             []string{"interaction", "discovery"},
		Strength:         1.0,
		AccessCount:      2,
		LastAccessed:     time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC),
		Embedding:        embed(t, "trainer gave me a berry at the stream"),
		EventType:        "discovery",
		Outcome:          "Decision: accept",
	}
}

func TestStoreAndQueryRoundTrip(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	want := sampleMemory(t, "m1")
	require.NoError(t, s.Store(ctx, want))

	got, err := s.Query(ctx, want.Embedding, 5, memory.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	m := got[0].Memory
	assert.Equal(t, want.ID, m.ID)
	assert.Equal(t, want.Type, m.Type)
	assert.Equal(t, want.Content, m.Content)
	assert.True(t, want.CreatedAt.Equal(m.CreatedAt))
	assert.Equal(t, want.Emotion, m.Emotion)
	assert.Equal(t, want.EmotionIntensity, m.EmotionIntensity)
	assert.Equal(t, want.Significance, m.Significance)
	assert.Equal(t, want.Location, m.Location)
	assert.Equal(t, want.Tags, m.Tags)
	assert.Equal(t, want.Strength, m.Strength)
	assert.Equal(t, want.AccessCount, m.AccessCount)
	assert.True(t, want.LastAccessed.Equal(m.LastAccessed))
	assert.Equal(t, want.EventType, m.EventType)
	assert.Equal(t, want.Outcome, m.Outcome)

	// Identical embedding means an exact match.
	assert.InDelta(t, 1.0, got[0].Similarity, 1e-5)
}

func TestStoreValidation(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	assert.Error(t, s.Store(ctx, nil))
	assert.Error(t, s.Store(ctx, &memory.Memory{ID: "x", Type: "bogus", Embedding: []float32{1}}))
	assert.Error(t, s.Store(ctx, &memory.Memory{ID: "x", Type: memory.TypeEpisodic}))
}

func TestQueryTypeFilter(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	episodic := sampleMemory(t, "ep")
	require.NoError(t, s.Store(ctx, episodic))

	fact := sampleMemory(t, "fact")
	fact.Type = memory.TypeSemantic
	fact.Content = "berries restore health"
	fact.Embedding = embed(t, fact.Content)
	fact.FactCategory = "item"
	fact.FactConfidence = 0.8
	fact.EvidenceCount = 2
	require.NoError(t, s.Store(ctx, fact))

	got, err := s.Query(ctx, fact.Embedding, 5, memory.QueryFilter{Type: memory.TypeSemantic})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fact", got[0].Memory.ID)
	assert.Equal(t, "item", got[0].Memory.FactCategory)
	assert.Equal(t, 0.8, got[0].Memory.FactConfidence)
	assert.Equal(t, 2, got[0].Memory.EvidenceCount)
}

func TestQueryLocationFilter(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	here := sampleMemory(t, "here")
	require.NoError(t, s.Store(ctx, here))

	elsewhere := sampleMemory(t, "elsewhere")
	elsewhere.Location = "deep_forest"
	require.NoError(t, s.Store(ctx, elsewhere))

	got, err := s.Query(ctx, here.Embedding, 5, memory.QueryFilter{Location: "stream"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "here", got[0].Memory.ID)
}

func TestUpdateAccessOverwrites(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	m := sampleMemory(t, "m1")
	require.NoError(t, s.Store(ctx, m))

	m.AccessCount = 5
	m.Strength = 0.7
	require.NoError(t, s.UpdateAccess(ctx, m))

	got, err := s.Query(ctx, m.Embedding, 5, memory.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1, "rewrite must not duplicate the record")
	assert.Equal(t, 5, got[0].Memory.AccessCount)
	assert.Equal(t, 0.7, got[0].Memory.Strength)
}

func TestCount(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Store(ctx, sampleMemory(t, "a")))
	require.NoError(t, s.Store(ctx, sampleMemory(t, "b")))

	fact := sampleMemory(t, "c")
	fact.Type = memory.TypeSemantic
	require.NoError(t, s.Store(ctx, fact))

	n, err := s.Count(ctx, memory.TypeEpisodic)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	total, err := s.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestQueryEmptyStore(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Query(context.Background(), embed(t, "anything"), 5, memory.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
