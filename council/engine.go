// Package council implements weighted deliberation across five brain
// regions. Each region analyzes the situation independently and votes; the
// engine scores the votes, picks a winner, and measures how much the
// regions agreed.
package council

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/YourBr0ther/EeveeLLM/core"
)

// ErrNoQuorum is returned when every region abstained and no vote can win.
var ErrNoQuorum = errors.New("council: all regions abstained")

// emotionalAmplification scales how much a vote's emotional weight boosts
// its score.
const emotionalAmplification = 0.5

// Recaller supplies relevant memories for the hippocampus vote. The memory
// package's retriever satisfies this; tests plug in stubs.
type Recaller interface {
	Recall(ctx context.Context, situation string, c *core.Context) []core.RetrievedMemory
}

// Observer receives every completed deliberation, for tracing or UI.
type Observer func(votes []Vote, d *Decision)

// Config controls engine behavior. Zero values fall back to defaults.
type Config struct {
	// Weights is the baseline influence table. Must sum to 1.0.
	Weights Weights

	// SafetyThreshold is the location safety below which the amygdala
	// gets boosted. Default 5.
	SafetyThreshold int

	// TieEpsilon is the score gap under which two votes count as tied.
	// Default 0.01.
	TieEpsilon float64

	// TiePriority orders regions for the final tie-break. Defaults to
	// amygdala first (survival beats deliberation when nothing else
	// separates the votes).
	TiePriority []Region

	// RecallTimeout bounds the memory lookup inside a deliberation.
	// Default 2s.
	RecallTimeout time.Duration
}

// DefaultConfig returns the standard council tuning.
func DefaultConfig() Config {
	return Config{
		Weights:         DefaultWeights(),
		SafetyThreshold: 5,
		TieEpsilon:      0.01,
		TiePriority:     []Region{Amygdala, Prefrontal, Hippocampus, Hypothalamus, Cerebellum},
		RecallTimeout:   2 * time.Second,
	}
}

// Decision is the outcome of one deliberation.
type Decision struct {
	// Winner is the vote that carried the council.
	Winner Vote
	// Votes holds every non-abstaining vote, best score first.
	Votes []Vote
	// Scores maps each region to its weighted score. Abstaining regions
	// score zero.
	Scores map[Region]float64
	// Consensus measures agreement in [0,1]: 1.0 when all scores are
	// equal, near 0 when one region dominates completely.
	Consensus float64
	// Emotion is the dominant feeling inferred from the leading votes.
	Emotion string
	// Summary is a short internal-state line reflecting the consensus.
	Summary string
}

// Engine runs deliberations. Safe for concurrent use.
type Engine struct {
	cfg      Config
	recaller Recaller
	observer Observer
	logger   *slog.Logger

	tieRank map[Region]int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecaller wires a memory source into the hippocampus vote. Without
// one the hippocampus votes from the relationship bond alone.
func WithRecaller(r Recaller) Option {
	return func(e *Engine) { e.recaller = r }
}

// WithObserver registers a callback invoked after every deliberation.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine, validating the weight table.
func New(cfg Config, opts ...Option) (*Engine, error) {
	def := DefaultConfig()
	if cfg.Weights == (Weights{}) {
		cfg.Weights = def.Weights
	}
	if cfg.SafetyThreshold <= 0 {
		cfg.SafetyThreshold = def.SafetyThreshold
	}
	if cfg.TieEpsilon <= 0 {
		cfg.TieEpsilon = def.TieEpsilon
	}
	if len(cfg.TiePriority) == 0 {
		cfg.TiePriority = def.TiePriority
	}
	if cfg.RecallTimeout <= 0 {
		cfg.RecallTimeout = def.RecallTimeout
	}

	if err := cfg.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("council config: %w", err)
	}

	tieRank := make(map[Region]int, regionCount)
	for i, r := range cfg.TiePriority {
		tieRank[r] = i
	}
	for _, r := range Regions {
		if _, ok := tieRank[r]; !ok {
			tieRank[r] = len(tieRank)
		}
	}

	e := &Engine{
		cfg:     cfg,
		logger:  slog.Default(),
		tieRank: tieRank,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

type regionResult struct {
	vote Vote
	err  error
}

// Deliberate runs all five regions concurrently and combines their votes
// into a decision. A region that panics or fails abstains; the decision is
// still valid as long as at least one region voted. Cancellation of ctx
// abandons the deliberation entirely.
func (e *Engine) Deliberate(ctx context.Context, c *core.Context) (*Decision, error) {
	if c == nil {
		return nil, errors.New("council: nil context")
	}

	weights := e.cfg.Weights.Adjusted(c, e.cfg.SafetyThreshold)

	var results [regionCount]regionResult
	var wg sync.WaitGroup
	for _, r := range Regions {
		wg.Add(1)
		go func(r Region) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					results[r] = regionResult{err: fmt.Errorf("region panic: %v", rec)}
				}
			}()
			results[r] = regionResult{vote: e.regionVote(ctx, r, c)}
		}(r)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("deliberation abandoned: %w", err)
	}

	scores := make(map[Region]float64, regionCount)
	var votes []Vote
	for _, r := range Regions {
		res := results[r]
		if res.err != nil {
			e.logger.Warn("region abstained", "region", r.String(), "error", res.err)
			scores[r] = 0
			continue
		}
		v := res.vote
		v.normalize()
		scores[r] = weights[r] * v.Confidence * (1 + emotionalAmplification*v.EmotionalWeight)
		votes = append(votes, v)
	}
	if len(votes) == 0 {
		return nil, ErrNoQuorum
	}

	bands := scoreBands(votes, scores, e.cfg.TieEpsilon)
	sort.SliceStable(votes, func(i, j int) bool {
		return e.outranks(votes[i], votes[j], bands)
	})

	d := &Decision{
		Winner:    votes[0],
		Votes:     votes,
		Scores:    scores,
		Consensus: consensusOf(votes, scores),
	}
	d.Emotion = dominantEmotion(votes)
	d.Summary = summarize(d)

	e.logger.Debug("deliberation complete",
		"winner", d.Winner.Region.String(),
		"decision", d.Winner.Decision,
		"consensus", d.Consensus,
		"emotion", d.Emotion,
	)

	if e.observer != nil {
		e.observer(append([]Vote(nil), votes...), d)
	}
	return d, nil
}

func (e *Engine) regionVote(ctx context.Context, r Region, c *core.Context) Vote {
	switch r {
	case Prefrontal:
		return analyzePrefrontal(c)
	case Amygdala:
		return analyzeAmygdala(c)
	case Hippocampus:
		return analyzeHippocampus(c, e.recall(ctx, c))
	case Hypothalamus:
		return analyzeHypothalamus(c)
	case Cerebellum:
		return analyzeCerebellum(c)
	default:
		panic(fmt.Sprintf("unknown region %d", int(r)))
	}
}

// recall fetches memories for the hippocampus under a bounded deadline.
// Memories already present on the context win over a live lookup; any
// failure or absence of a recaller degrades to an empty list.
func (e *Engine) recall(ctx context.Context, c *core.Context) []core.RetrievedMemory {
	if len(c.Memories) > 0 {
		return c.Memories
	}
	if e.recaller == nil {
		return nil
	}
	rctx, cancel := context.WithTimeout(ctx, e.cfg.RecallTimeout)
	defer cancel()
	return e.recaller.Recall(rctx, c.Situation, c)
}

// scoreBands clusters votes into rank bands: walking the scores in
// descending order, a gap of at most epsilon keeps a vote in its
// predecessor's band. Banding keeps the sort comparator transitive, which a
// direct pairwise epsilon test is not.
func scoreBands(votes []Vote, scores map[Region]float64, epsilon float64) map[Region]int {
	ordered := append([]Vote(nil), votes...)
	sort.Slice(ordered, func(i, j int) bool {
		return scores[ordered[i].Region] > scores[ordered[j].Region]
	})

	bands := make(map[Region]int, len(ordered))
	band := 0
	for i, v := range ordered {
		if i > 0 && scores[ordered[i-1].Region]-scores[v.Region] > epsilon {
			band++
		}
		bands[v.Region] = band
	}
	return bands
}

// outranks reports whether vote a beats vote b. Votes in the same band are
// tied on score; ties fall to raw confidence, then to the fixed priority
// order.
func (e *Engine) outranks(a, b Vote, bands map[Region]int) bool {
	if bands[a.Region] != bands[b.Region] {
		return bands[a.Region] < bands[b.Region]
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return e.tieRank[a.Region] < e.tieRank[b.Region]
}

// consensusOf measures agreement as one minus the normalized variance of
// the score distribution. Equal scores give 1.0; a single dominant region
// with the rest near zero approaches 0.
func consensusOf(votes []Vote, scores map[Region]float64) float64 {
	n := len(votes)
	if n < 2 {
		return 1.0
	}

	total := 0.0
	for _, v := range votes {
		total += scores[v.Region]
	}
	if total == 0 {
		return 1.0
	}

	mean := 1.0 / float64(n)
	sumSq := 0.0
	for _, v := range votes {
		p := scores[v.Region] / total
		sumSq += (p - mean) * (p - mean)
	}
	// The one-hot distribution has sum of squared deviations 1-1/n, the
	// largest possible, so this ratio lands in [0,1].
	return clamp01(1 - sumSq/(1-mean))
}

// emotionKeywords maps decision-label fragments to a dominant emotion.
var emotionKeywords = []struct {
	words   []string
	emotion string
}{
	{[]string{"joy", "happy", "excited", "enthusiastic"}, "joyful"},
	{[]string{"fear", "scary", "afraid", "flight"}, "fearful"},
	{[]string{"sad", "lonely", "protest"}, "sad"},
	{[]string{"angry", "frustrated"}, "frustrated"},
	{[]string{"curious", "interested", "explore"}, "curious"},
	{[]string{"cautious", "nervous", "careful"}, "cautious"},
}

// dominantEmotion infers the current feeling from the decision label of the
// most emotionally charged vote among the top two scorers.
func dominantEmotion(votes []Vote) string {
	top := votes
	if len(top) > 2 {
		top = top[:2]
	}

	lead := top[0]
	for _, v := range top[1:] {
		if v.EmotionalWeight > lead.EmotionalWeight {
			lead = v
		}
	}

	decision := strings.ToLower(lead.Decision)
	for _, ek := range emotionKeywords {
		for _, w := range ek.words {
			if strings.Contains(decision, w) {
				return ek.emotion
			}
		}
	}
	return "calm"
}

// summarize renders a short internal-state line from the consensus level.
func summarize(d *Decision) string {
	switch {
	case d.Consensus > 0.8:
		return fmt.Sprintf("My whole being agrees: %s", d.Winner.Decision)
	case d.Consensus > 0.5:
		return fmt.Sprintf("Mostly decided on %s, though part of me hesitates.", d.Winner.Decision)
	case d.Consensus > 0.3:
		return fmt.Sprintf("Torn between impulses, but settling on %s.", d.Winner.Decision)
	default:
		return fmt.Sprintf("Deep internal conflict... going with %s, reluctantly.", d.Winner.Decision)
	}
}

// Transcript renders the full debate for debugging and the CLI's
// thought-process view.
func (d *Decision) Transcript() string {
	var b strings.Builder
	b.WriteString("=== Council Deliberation ===\n")
	for _, v := range d.Votes {
		fmt.Fprintf(&b, "[%s] %s (score %.3f, confidence %.2f)\n    %s\n",
			v.Region, v.Decision, d.Scores[v.Region], v.Confidence, v.Reasoning)
	}
	fmt.Fprintf(&b, "Winner: %s (%s)\n", d.Winner.Decision, d.Winner.Region)
	fmt.Fprintf(&b, "Consensus: %.2f  Emotion: %s\n", d.Consensus, d.Emotion)
	return b.String()
}
