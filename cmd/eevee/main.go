// Command eevee runs the interactive Eevee companion: a brain council
// deliberates over every interaction, memories consolidate into a vector
// store, and state persists between sessions.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/YourBr0ther/EeveeLLM/config"
	"github.com/YourBr0ther/EeveeLLM/core"
	"github.com/YourBr0ther/EeveeLLM/council"
	"github.com/YourBr0ther/EeveeLLM/memory"
	"github.com/YourBr0ther/EeveeLLM/memory/embedder/cached"
	"github.com/YourBr0ther/EeveeLLM/memory/embedder/mock"
	openaiembed "github.com/YourBr0ther/EeveeLLM/memory/embedder/openai"
	chromemstore "github.com/YourBr0ther/EeveeLLM/memory/store/chromem"
	"github.com/YourBr0ther/EeveeLLM/respond"
	"github.com/YourBr0ther/EeveeLLM/state"
	"github.com/YourBr0ther/EeveeLLM/world"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configDir string
		debug     bool
	)

	cmd := &cobra.Command{
		Use:   "eevee",
		Short: "Your Eevee companion awaits",
		Long: "EeveeLLM simulates a Pokemon companion with a brain-council\n" +
			"decision system and a long-term memory that consolidates and\n" +
			"decays like the real thing.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configDir, debug)
		},
	}

	cmd.Flags().StringVarP(&configDir, "config", "c", "", "directory containing eevee.yaml")
	cmd.Flags().BoolVar(&debug, "debug", false, "show council deliberations and memory activity")
	return cmd
}

func run(configDir string, debug bool) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	if debug {
		cfg.Debug.ShowCouncil = true
		cfg.Debug.ShowMemory = true
		cfg.Debug.LogLevel = "debug"
	}

	logger := newLogger(cfg.Debug.LogLevel)
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	st, err := state.Open(filepath.Join(cfg.DataDir, "eevee_save.db"), state.Defaults{
		Physical: core.PhysicalState{
			Hunger:    cfg.Initial.Hunger,
			Energy:    cfg.Initial.Energy,
			Health:    cfg.Initial.Health,
			Happiness: cfg.Initial.Happiness,
		},
		Location: cfg.Initial.Location,
		Relationship: core.Relationship{
			Trust: cfg.Initial.Trust,
			Bond:  cfg.Initial.Bond,
		},
		Personality: core.Personality{
			Curiosity:    cfg.Initial.Curiosity,
			Bravery:      cfg.Initial.Bravery,
			Playfulness:  cfg.Initial.Playfulness,
			Loyalty:      cfg.Initial.Loyalty,
			Independence: cfg.Initial.Independence,
		},
	})
	if err != nil {
		return err
	}
	defer st.Close()

	store, err := chromemstore.New()
	if err != nil {
		return err
	}
	defer store.Close()

	embedder, err := buildEmbedder(cfg, logger)
	if err != nil {
		return err
	}

	memCfg := memory.Config{
		SignificanceThreshold: cfg.Memory.SignificanceThreshold,
		RetrievalCount:        cfg.Memory.RetrievalCount,
		WorkingCapacity:       cfg.Memory.WorkingCapacity,
		ForgettingRate:        cfg.Memory.ForgettingRate,
	}
	retriever := memory.NewRetriever(store, embedder, memCfg,
		memory.WithRetrieverLogger(logger))
	consolidator := memory.NewConsolidator(store, embedder, memCfg,
		memory.WithConsolidatorLogger(logger))
	working := memory.NewWorking(memCfg.WorkingCapacity)

	engine, err := council.New(council.Config{
		Weights: council.Weights{
			council.Prefrontal:   cfg.Council.WeightPrefrontal,
			council.Amygdala:     cfg.Council.WeightAmygdala,
			council.Hippocampus:  cfg.Council.WeightHippocampus,
			council.Hypothalamus: cfg.Council.WeightHypothalamus,
			council.Cerebellum:   cfg.Council.WeightCerebellum,
		},
		SafetyThreshold: cfg.Council.SafetyThreshold,
		TieEpsilon:      cfg.Council.TieEpsilon,
	}, council.WithRecaller(retriever), council.WithLogger(logger))
	if err != nil {
		return err
	}

	generator := respond.New(respond.Config{
		APIKey:    cfg.LLM.AnthropicAPIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	}, respond.WithLogger(logger))

	s := &session{
		cfg:          cfg,
		logger:       logger,
		state:        st,
		world:        world.NewMap(),
		store:        store,
		retriever:    retriever,
		consolidator: consolidator,
		working:      working,
		engine:       engine,
		generator:    generator,
		in:           os.Stdin,
		out:          os.Stdout,
	}
	return s.Run()
}

// buildEmbedder picks the OpenAI embedder when a key is configured and the
// deterministic mock otherwise, wrapping either in a memoizing cache.
func buildEmbedder(cfg *config.Config, logger *slog.Logger) (memory.Embedder, error) {
	var inner memory.Embedder
	if cfg.LLM.OpenAIAPIKey != "" {
		e, err := openaiembed.New(openaiembed.Config{
			APIKey:     cfg.LLM.OpenAIAPIKey,
			Model:      cfg.LLM.EmbeddingModel,
			Dimensions: cfg.LLM.EmbeddingDims,
		})
		if err != nil {
			return nil, err
		}
		inner = e
	} else {
		logger.Info("no embedding API key set, using hash embeddings")
		inner = mock.New(cfg.LLM.EmbeddingDims)
	}
	return cached.New(inner, 0)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
