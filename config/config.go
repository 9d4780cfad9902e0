// Package config loads runtime settings from an optional YAML file and
// EEVEE_-prefixed environment variables, with sane defaults for everything.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	DataDir string `mapstructure:"data_dir"`

	LLM     LLM     `mapstructure:"llm"`
	Memory  Memory  `mapstructure:"memory"`
	Council Council `mapstructure:"council"`
	Initial Initial `mapstructure:"initial"`
	Debug   Debug   `mapstructure:"debug"`
}

// LLM configures response generation and embeddings.
type LLM struct {
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	Model           string `mapstructure:"model"`
	MaxTokens       int64  `mapstructure:"max_tokens"`

	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	EmbeddingModel string `mapstructure:"embedding_model"`
	EmbeddingDims  int    `mapstructure:"embedding_dims"`
}

// Memory configures consolidation and retrieval.
type Memory struct {
	SignificanceThreshold float64 `mapstructure:"significance_threshold"`
	RetrievalCount        int     `mapstructure:"retrieval_count"`
	WorkingCapacity       int     `mapstructure:"working_capacity"`
	ForgettingRate        float64 `mapstructure:"forgetting_rate"`
}

// Council configures deliberation.
type Council struct {
	WeightPrefrontal   float64 `mapstructure:"weight_prefrontal"`
	WeightAmygdala     float64 `mapstructure:"weight_amygdala"`
	WeightHippocampus  float64 `mapstructure:"weight_hippocampus"`
	WeightHypothalamus float64 `mapstructure:"weight_hypothalamus"`
	WeightCerebellum   float64 `mapstructure:"weight_cerebellum"`

	SafetyThreshold int     `mapstructure:"safety_threshold"`
	TieEpsilon      float64 `mapstructure:"tie_epsilon"`
}

// Initial seeds a fresh save.
type Initial struct {
	Hunger    int `mapstructure:"hunger"`
	Energy    int `mapstructure:"energy"`
	Health    int `mapstructure:"health"`
	Happiness int `mapstructure:"happiness"`

	Trust int `mapstructure:"trust"`
	Bond  int `mapstructure:"bond"`

	Location string `mapstructure:"location"`

	Curiosity    int `mapstructure:"curiosity"`
	Bravery      int `mapstructure:"bravery"`
	Playfulness  int `mapstructure:"playfulness"`
	Loyalty      int `mapstructure:"loyalty"`
	Independence int `mapstructure:"independence"`
}

// Debug toggles diagnostic output.
type Debug struct {
	ShowCouncil bool   `mapstructure:"show_council"`
	ShowMemory  bool   `mapstructure:"show_memory"`
	LogLevel    string `mapstructure:"log_level"`
}

// Load reads eevee.yaml from the given directory (and the working
// directory), applies EEVEE_ environment overrides, and validates the
// result. A missing config file is fine; defaults apply.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("data_dir", "data")

	v.SetDefault("llm.model", "claude-3-5-haiku-latest")
	v.SetDefault("llm.max_tokens", 300)
	v.SetDefault("llm.embedding_model", "text-embedding-3-small")
	v.SetDefault("llm.embedding_dims", 1536)

	v.SetDefault("memory.significance_threshold", 6.0)
	v.SetDefault("memory.retrieval_count", 5)
	v.SetDefault("memory.working_capacity", 10)
	v.SetDefault("memory.forgetting_rate", 0.01)

	v.SetDefault("council.weight_prefrontal", 0.25)
	v.SetDefault("council.weight_amygdala", 0.30)
	v.SetDefault("council.weight_hippocampus", 0.20)
	v.SetDefault("council.weight_hypothalamus", 0.15)
	v.SetDefault("council.weight_cerebellum", 0.10)
	v.SetDefault("council.safety_threshold", 5)
	v.SetDefault("council.tie_epsilon", 0.01)

	v.SetDefault("initial.hunger", 40)
	v.SetDefault("initial.energy", 70)
	v.SetDefault("initial.health", 95)
	v.SetDefault("initial.happiness", 85)
	v.SetDefault("initial.trust", 50)
	v.SetDefault("initial.bond", 30)
	v.SetDefault("initial.location", "trainer_home")
	v.SetDefault("initial.curiosity", 8)
	v.SetDefault("initial.bravery", 5)
	v.SetDefault("initial.playfulness", 9)
	v.SetDefault("initial.loyalty", 10)
	v.SetDefault("initial.independence", 6)

	v.SetDefault("debug.show_council", false)
	v.SetDefault("debug.show_memory", false)
	v.SetDefault("debug.log_level", "info")

	v.SetConfigName("eevee")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("EEVEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

const weightSumTolerance = 1e-6

// Validate checks ranges and the council weight sum.
func (c *Config) Validate() error {
	sum := c.Council.WeightPrefrontal + c.Council.WeightAmygdala +
		c.Council.WeightHippocampus + c.Council.WeightHypothalamus +
		c.Council.WeightCerebellum
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("council weights sum to %g, want 1.0", sum)
	}

	if c.Memory.SignificanceThreshold < 0 || c.Memory.SignificanceThreshold > 10 {
		return fmt.Errorf("significance threshold %g outside [0,10]", c.Memory.SignificanceThreshold)
	}
	if c.Memory.RetrievalCount <= 0 {
		return fmt.Errorf("retrieval count must be positive, got %d", c.Memory.RetrievalCount)
	}
	if c.Memory.WorkingCapacity <= 0 {
		return fmt.Errorf("working capacity must be positive, got %d", c.Memory.WorkingCapacity)
	}
	if c.Memory.ForgettingRate < 0 || c.Memory.ForgettingRate > 1 {
		return fmt.Errorf("forgetting rate %g outside [0,1]", c.Memory.ForgettingRate)
	}

	if c.Council.SafetyThreshold < 1 || c.Council.SafetyThreshold > 10 {
		return fmt.Errorf("safety threshold %d outside [1,10]", c.Council.SafetyThreshold)
	}
	if c.Council.TieEpsilon <= 0 {
		return fmt.Errorf("tie epsilon must be positive, got %g", c.Council.TieEpsilon)
	}

	for _, stat := range []struct {
		name string
		v    int
	}{
		{"hunger", c.Initial.Hunger},
		{"energy", c.Initial.Energy},
		{"health", c.Initial.Health},
		{"happiness", c.Initial.Happiness},
		{"trust", c.Initial.Trust},
		{"bond", c.Initial.Bond},
	} {
		if stat.v < 0 || stat.v > 100 {
			return fmt.Errorf("initial %s %d outside [0,100]", stat.name, stat.v)
		}
	}
	return nil
}
