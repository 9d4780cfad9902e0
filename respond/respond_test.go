package respond

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YourBr0ther/EeveeLLM/core"
	"github.com/YourBr0ther/EeveeLLM/council"
)

func testDecision() *council.Decision {
	return &council.Decision{
		Winner: council.Vote{
			Region:    council.Amygdala,
			Decision:  "joyful_yes",
			Reasoning: "Playing is the best!",
		},
		Consensus: 0.85,
		Emotion:   "joyful",
		Summary:   "My whole being agrees: joyful_yes",
	}
}

func TestFallbackModeWithoutAPIKey(t *testing.T) {
	g := New(Config{})
	c := &core.Context{Physical: core.PhysicalState{Happiness: 85, Energy: 70, Hunger: 40}}

	tests := []struct {
		input string
		want  string
	}{
		{"want to play a game?", "*pounces playfully*"},
		{"here's a berry", "*looks hopefully at you*"},
		{"hello!", "*bounces happily*"},
		{"time for a nap", "*curls up in a cozy ball*"},
		{"quantum chromodynamics", "*tilts head curiously*"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := g.Generate(context.Background(), tt.input, c, testDecision())
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	c := &core.Context{
		Physical: core.PhysicalState{Happiness: 60, Energy: 50, Hunger: 30},
		Memories: []core.RetrievedMemory{
			{Content: "we played fetch yesterday"},
		},
	}
	got := buildPrompt("want to play?", c, testDecision())

	assert.Contains(t, got, `"want to play?"`)
	assert.Contains(t, got, "joyful_yes")
	assert.Contains(t, got, "Playing is the best!")
	assert.Contains(t, got, "Happiness: 60/100")
	assert.Contains(t, got, "we played fetch yesterday")
}

func TestBuildPromptLimitsMemories(t *testing.T) {
	c := &core.Context{
		Memories: []core.RetrievedMemory{
			{Content: "one"}, {Content: "two"}, {Content: "three"}, {Content: "four"},
		},
	}
	got := buildPrompt("hi", c, testDecision())
	assert.Contains(t, got, "- three")
	assert.NotContains(t, got, "- four")
}

func TestDefaultConfigApplied(t *testing.T) {
	g := New(Config{})
	assert.Equal(t, "claude-3-5-haiku-latest", g.cfg.Model)
	assert.Equal(t, int64(300), g.cfg.MaxTokens)
	assert.Nil(t, g.client)
}
