// Package respond turns a council decision into Eevee's spoken reply. With
// an API key configured it asks Claude to voice the decision; without one,
// or when the API fails, it falls back to canned template responses so the
// simulation never stalls on the network.
package respond

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/YourBr0ther/EeveeLLM/core"
	"github.com/YourBr0ther/EeveeLLM/council"
)

const systemPrompt = "You are Eevee, a curious and loyal Pokemon companion. " +
	"Respond with Pokemon sounds (\"Vee!\", \"Veevee!\") and body language in " +
	"*asterisks*. Keep responses to 2-4 sentences, authentic to a curious, " +
	"energetic Eevee."

// Config controls the language model used for voicing responses.
type Config struct {
	// APIKey enables live generation. Empty means fallback mode.
	APIKey string
	// Model defaults to claude-3-5-haiku-latest.
	Model string
	// MaxTokens bounds each reply. Default 300.
	MaxTokens int64
}

// DefaultConfig returns the standard generation settings.
func DefaultConfig() Config {
	return Config{
		Model:     "claude-3-5-haiku-latest",
		MaxTokens: 300,
	}
}

// Generator produces Eevee's replies. The zero-value-adjacent fallback mode
// (no API key) still returns something for every input.
type Generator struct {
	client *anthropic.Client
	cfg    Config
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New creates a generator. A missing API key is not an error; the generator
// runs in fallback mode and logs that once.
func New(cfg Config, opts ...Option) *Generator {
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}

	g := &Generator{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}

	if cfg.APIKey == "" {
		g.logger.Info("no API key set, using template responses")
	} else {
		client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
		g.client = &client
	}
	return g
}

// Generate voices the decision as Eevee dialogue. It never returns an
// error: any API failure degrades to a template response.
func (g *Generator) Generate(ctx context.Context, userInput string, c *core.Context, d *council.Decision) string {
	if g.client == nil {
		return fallback(userInput)
	}

	prompt := buildPrompt(userInput, c, d)
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.cfg.Model),
		MaxTokens: g.cfg.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		g.logger.Warn("response generation failed, using template", "error", err)
		return fallback(userInput)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return fallback(userInput)
	}
	return text
}

// buildPrompt assembles the situation, internal decision, and physical
// state for the model.
func buildPrompt(userInput string, c *core.Context, d *council.Decision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Situation: %q\n\n", userInput)
	fmt.Fprintf(&b, "Your internal decision: %s\n", d.Winner.Decision)
	fmt.Fprintf(&b, "Your reasoning: %s\n", d.Winner.Reasoning)
	fmt.Fprintf(&b, "Your emotional state: %s\n", d.Emotion)
	fmt.Fprintf(&b, "Internal agreement: %s\n\n", d.Summary)
	fmt.Fprintf(&b, "Current state:\n")
	fmt.Fprintf(&b, "- Happiness: %d/100\n", c.Physical.Happiness)
	fmt.Fprintf(&b, "- Energy: %d/100\n", c.Physical.Energy)
	fmt.Fprintf(&b, "- Hunger: %d/100\n", c.Physical.Hunger)
	if len(c.Memories) > 0 {
		b.WriteString("\nRelevant memories:\n")
		for i, m := range c.Memories {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", m.Content)
		}
	}
	b.WriteString("\nRespond naturally, showing the emotion and reflecting the decision.")
	return b.String()
}

// templates map input keywords to canned replies for offline mode.
var templates = []struct {
	words []string
	reply string
}{
	{[]string{"hello", "hey", "greeting", "hi"}, "*Eevee perks up excitedly* Vee! Veevee! *bounces happily*"},
	{[]string{"explore", "adventure"}, "*Eevee's ears perk up with interest* Vee? *looks at you curiously, tail wagging*"},
	{[]string{"play", "game"}, "*Eevee runs in excited circles* Vee vee! *pounces playfully*"},
	{[]string{"food", "hungry", "berry"}, "*Eevee's nose twitches* Vee! *looks hopefully at you*"},
	{[]string{"pet", "cuddle", "hug"}, "*Eevee nuzzles against you affectionately* Veeee~ *purrs contentedly*"},
	{[]string{"scared", "afraid"}, "*Eevee's ears droop, tail between legs* Vee... *huddles close to you for safety*"},
	{[]string{"tired", "sleep", "nap"}, "*Eevee yawns widely* Veee... *curls up in a cozy ball*"},
	{[]string{"happy", "joy"}, "*Eevee bounces energetically* Vee vee vee! *tail wagging so hard entire body wiggles*"},
	{[]string{"memory", "remember"}, "*Eevee tilts head thoughtfully* Vee... *looks distant, as if remembering*"},
}

func fallback(userInput string) string {
	lower := strings.ToLower(userInput)
	for _, t := range templates {
		for _, w := range t.words {
			if strings.Contains(lower, w) {
				return t.reply
			}
		}
	}
	return "*Eevee looks at you attentively* Vee? *tilts head curiously*"
}
