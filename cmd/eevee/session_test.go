package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YourBr0ther/EeveeLLM/config"
	"github.com/YourBr0ther/EeveeLLM/council"
	"github.com/YourBr0ther/EeveeLLM/memory"
	"github.com/YourBr0ther/EeveeLLM/memory/embedder/mock"
	chromemstore "github.com/YourBr0ther/EeveeLLM/memory/store/chromem"
	"github.com/YourBr0ther/EeveeLLM/respond"
	"github.com/YourBr0ther/EeveeLLM/state"
	"github.com/YourBr0ther/EeveeLLM/world"
)

// newTestSession wires a fully offline session: hash embeddings, fallback
// responses, fresh state in a temp dir.
func newTestSession(t *testing.T) *session {
	t.Helper()

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := state.Open(filepath.Join(t.TempDir(), "eevee_save.db"), state.DefaultState())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	store, err := chromemstore.New()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	embedder := mock.New(0)
	memCfg := memory.DefaultConfig()

	engine, err := council.New(council.DefaultConfig(), council.WithLogger(logger))
	require.NoError(t, err)

	return &session{
		cfg:          cfg,
		logger:       logger,
		state:        st,
		world:        world.NewMap(),
		store:        store,
		retriever:    memory.NewRetriever(store, embedder, memCfg),
		consolidator: memory.NewConsolidator(store, embedder, memCfg),
		working:      memory.NewWorking(memCfg.WorkingCapacity),
		engine:       engine,
		generator:    respond.New(respond.Config{}),
		in:           &bytes.Buffer{},
		out:          io.Discard,
	}
}

func TestInteractAlwaysFillsWorkingMemory(t *testing.T) {
	s := newTestSession(t)

	// A plain greeting scores below the long-term threshold, yet the raw
	// exchange must still land in the short-term window.
	s.interact(context.Background(), "talk", "hello there", "hello there")

	assert.Equal(t, 1, s.working.Len())
	recent := s.working.Recent(1)
	require.Len(t, recent, 1)
	assert.Contains(t, recent[0], "hello there")
}

func TestInteractWindowEntriesReachContext(t *testing.T) {
	s := newTestSession(t)

	s.interact(context.Background(), "talk", "hello there", "hello there")
	s.interact(context.Background(), "talk", "nice weather today", "nice weather today")

	c := s.buildContext("what now?")
	require.Len(t, c.Recent, 2)
	assert.Contains(t, c.Recent[0], "hello there")
	assert.Contains(t, c.Recent[1], "nice weather today")
}

func TestInteractCarriesEmotionForward(t *testing.T) {
	s := newTestSession(t)
	s.state.SetLocation("deep_forest")

	s.interact(context.Background(), "talk", "should we explore deeper?",
		"Should we explore deeper into the forest?")

	assert.Equal(t, "fearful", s.lastEmotion)

	c := s.buildContext("it is getting dark")
	assert.Equal(t, "fearful", c.Emotion)
	assert.Greater(t, c.EmotionIntensity, 0.0)
}
