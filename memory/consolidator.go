package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/YourBr0ther/EeveeLLM/core"
)

// Interaction is one completed exchange handed to the consolidator after
// the council has decided and the response has been delivered.
type Interaction struct {
	UserInput string
	Response  string
	Context   core.Context

	// Decision is the winning decision label; empty when the council was
	// bypassed. Consensus is only meaningful when Decision is set.
	Decision  string
	Consensus float64
}

// Significance factor weights, 0-10 scale. Tunable; see config.
const (
	baseSignificance      = 5.0
	maxSignificance       = 10.0
	strongEmotionAdd      = 1.0
	veryIntenseAdd        = 2.0
	intenseAdd            = 1.0
	noveltyAdd            = 1.5
	highConflictAdd       = 1.5
	mildConflictAdd       = 0.5
	relationshipAdd       = 1.0
	extremeStateAdd       = 1.0
	unsafeLocationAdd     = 1.0
	giftAdd               = 1.5
	emotionalMemoryMinInt = 7.0
	proceduralMinRepeats  = 3
)

var (
	noveltyKeywords      = []string{"first", "new", "never", "discover", "found"}
	relationshipKeywords = []string{"love", "trust", "friend", "care", "miss", "sorry"}
	giftKeywords         = []string{"give", "gift"}
	intenseEmotions      = map[string]bool{
		"fear": true, "joy": true, "gratitude": true, "loneliness": true, "anger": true,
	}
)

// Consolidator turns completed interactions into durable memories, or
// discards them when they are not significant enough to keep.
type Consolidator struct {
	store    Store
	embedder Embedder
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time

	// patterns counts repeated behaviors; a procedural memory forms
	// only after the same pattern has been seen proceduralMinRepeats
	// times.
	patterns map[string]int
}

// ConsolidatorOption configures a Consolidator.
type ConsolidatorOption func(*Consolidator)

// WithConsolidatorLogger sets the logger for storage warnings.
func WithConsolidatorLogger(l *slog.Logger) ConsolidatorOption {
	return func(c *Consolidator) { c.logger = l }
}

// WithConsolidatorClock overrides the time source, for tests.
func WithConsolidatorClock(now func() time.Time) ConsolidatorOption {
	return func(c *Consolidator) { c.now = now }
}

// NewConsolidator creates a consolidator writing to the given store.
func NewConsolidator(store Store, embedder Embedder, cfg Config, opts ...ConsolidatorOption) *Consolidator {
	c := &Consolidator{
		store:    store,
		embedder: embedder,
		cfg:      cfg,
		logger:   slog.Default(),
		now:      time.Now,
		patterns: make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Consolidate scores the interaction and, when it clears the significance
// threshold, writes one record per applicable memory type. An interaction
// can produce an episodic record, a semantic fact, an emotional
// association, and a procedural behavior at once; these are independent
// records.
//
// A failed embed or store drops that single record with a warning; the
// interaction flow is never interrupted. The returned slice holds the
// records that were actually stored.
func (c *Consolidator) Consolidate(ctx context.Context, in *Interaction) ([]*Memory, error) {
	if in == nil {
		return nil, fmt.Errorf("consolidate: nil interaction")
	}

	significance := c.Significance(in)
	if significance < c.cfg.SignificanceThreshold {
		c.logger.Debug("interaction below significance threshold",
			"significance", significance, "threshold", c.cfg.SignificanceThreshold)
		return nil, nil
	}

	candidates := []*Memory{c.episodic(in, significance)}
	if m := c.semanticFact(in, significance); m != nil {
		candidates = append(candidates, m)
	}
	if m := c.emotionalAssociation(in, significance, candidates[0].ID); m != nil {
		candidates = append(candidates, m)
	}
	if m := c.proceduralPattern(in); m != nil {
		candidates = append(candidates, m)
	}

	var stored []*Memory
	for _, m := range candidates {
		embedding, err := c.embedder.Embed(ctx, m.Content)
		if err != nil {
			c.logger.Warn("memory dropped: embedding failed", "type", m.Type, "error", err)
			continue
		}
		m.Embedding = embedding
		if err := c.store.Store(ctx, m); err != nil {
			c.logger.Warn("memory dropped: store failed", "type", m.Type, "id", m.ID, "error", err)
			continue
		}
		c.logger.Info("stored memory", "type", m.Type, "significance", m.Significance)
		stored = append(stored, m)
	}
	return stored, nil
}

// Significance scores how memorable the interaction is on a 0-10 scale.
// Factors: emotional intensity, strong primary emotions, novelty, council
// conflict, relationship moments, extreme physical state, unsafe location,
// and gifts.
func (c *Consolidator) Significance(in *Interaction) float64 {
	s := baseSignificance
	cx := &in.Context
	input := strings.ToLower(in.UserInput)

	switch {
	case cx.EmotionIntensity >= 8.0:
		s += veryIntenseAdd
	case cx.EmotionIntensity >= 7.0:
		s += intenseAdd
	}

	if intenseEmotions[strings.ToLower(cx.Emotion)] {
		s += strongEmotionAdd
	}

	if containsAny(input, noveltyKeywords) {
		s += noveltyAdd
	}

	if in.Decision != "" {
		switch {
		case in.Consensus < 0.3:
			s += highConflictAdd
		case in.Consensus < 0.5:
			s += mildConflictAdd
		}
	}

	if containsAny(input, relationshipKeywords) {
		s += relationshipAdd
	}

	if cx.Physical.Hunger > 85 || cx.Physical.Energy < 15 {
		s += extremeStateAdd
	}

	if cx.LocationSafety < 5 {
		s += unsafeLocationAdd
	}

	if containsAny(input, giftKeywords) {
		s += giftAdd
	}

	if s > maxSignificance {
		s = maxSignificance
	}
	return s
}

// episodic builds the event record; one is always created for a
// significant interaction.
func (c *Consolidator) episodic(in *Interaction, significance float64) *Memory {
	input := strings.ToLower(in.UserInput)

	eventType := "interaction"
	switch {
	case strings.Contains(input, "explore") || strings.Contains(input, "go"):
		eventType = "exploration"
	case strings.Contains(input, "give") || strings.Contains(input, "found"):
		eventType = "discovery"
	case strings.Contains(input, "play") || strings.Contains(input, "pet"):
		eventType = "social"
	}

	emotion := in.Context.Emotion
	if emotion == "" {
		emotion = string(EmotionCuriosity)
	}

	outcome := ""
	if in.Decision != "" {
		outcome = "Decision: " + in.Decision
	}

	return &Memory{
		ID:               uuid.New().String(),
		Type:             TypeEpisodic,
		Content:          fmt.Sprintf("Trainer said: %q at %s. Felt %s.", clip(in.UserInput, 100), in.Context.Location, emotion),
		CreatedAt:        c.now(),
		Emotion:          parseEmotion(emotion),
		EmotionIntensity: in.Context.EmotionIntensity,
		Significance:     significance,
		Location:         in.Context.Location,
		Tags:             []string{"interaction", eventType},
		Strength:         MaxStrength,
		EventType:        eventType,
		Outcome:          outcome,
	}
}

// semanticFact extracts a fact record when the interaction teaches
// something about a place or an item.
func (c *Consolidator) semanticFact(in *Interaction, significance float64) *Memory {
	input := strings.ToLower(in.UserInput)
	location := in.Context.Location

	if strings.Contains(input, "safe") || strings.Contains(input, "danger") {
		fact := fmt.Sprintf("%s is safe and comfortable", location)
		if in.Context.LocationSafety < 5 {
			fact = fmt.Sprintf("%s is dangerous - must be careful here", location)
		}
		return &Memory{
			ID:             uuid.New().String(),
			Type:           TypeSemantic,
			Content:        fact,
			CreatedAt:      c.now(),
			Significance:   significance - 1.0,
			Location:       location,
			Tags:           []string{"fact", "location"},
			Strength:       MaxStrength,
			FactCategory:   "location",
			FactConfidence: 0.7,
			EvidenceCount:  1,
		}
	}

	if strings.Contains(input, "berry") && strings.Contains(input, "health") {
		return &Memory{
			ID:             uuid.New().String(),
			Type:           TypeSemantic,
			Content:        "Berries restore health and make me feel better",
			CreatedAt:      c.now(),
			Significance:   significance - 1.0,
			Tags:           []string{"fact", "item"},
			Strength:       MaxStrength,
			FactCategory:   "item",
			FactConfidence: 0.8,
			EvidenceCount:  1,
		}
	}
	return nil
}

// emotionalAssociation records a trigger->feeling link for strong emotions
// only, linked back to the episodic record it was learned from.
func (c *Consolidator) emotionalAssociation(in *Interaction, significance float64, episodicID string) *Memory {
	if in.Context.EmotionIntensity < emotionalMemoryMinInt {
		return nil
	}

	trigger := in.Context.Location
	if trigger == "" {
		trigger = "unknown"
	}
	emotion := in.Context.Emotion
	if emotion == "" {
		emotion = string(EmotionCuriosity)
	}

	return &Memory{
		ID:               uuid.New().String(),
		Type:             TypeEmotional,
		Content:          fmt.Sprintf("%s is associated with %s", trigger, emotion),
		CreatedAt:        c.now(),
		Emotion:          parseEmotion(emotion),
		EmotionIntensity: in.Context.EmotionIntensity,
		Significance:     significance,
		Location:         in.Context.Location,
		Tags:             []string{"emotion", "association"},
		Strength:         MaxStrength,
		Trigger:          trigger,
		Response:         fmt.Sprintf("Feel %s when thinking about this", emotion),
		LearnedFrom:      []string{episodicID},
	}
}

// proceduralPattern watches for repeated behaviors and forms a learned
// behavior once a pattern has been seen enough times.
func (c *Consolidator) proceduralPattern(in *Interaction) *Memory {
	input := strings.ToLower(in.UserInput)
	response := strings.ToLower(in.Response)

	if in.Context.Physical.Hunger > 70 && (strings.Contains(input, "feed") || strings.Contains(input, "food")) {
		c.patterns["ask_for_food"]++
		if c.patterns["ask_for_food"] >= proceduralMinRepeats {
			return &Memory{
				ID:               uuid.New().String(),
				Type:             TypeProcedural,
				Content:          "When hungry, look at trainer and make soft sounds to ask for food",
				CreatedAt:        c.now(),
				Significance:     7.0,
				Tags:             []string{"behavior", "learned"},
				Strength:         MaxStrength,
				Behavior:         "ask_for_food",
				TriggerCondition: "When hungry",
				SuccessRate:      0.8,
				TimesUsed:        c.patterns["ask_for_food"],
			}
		}
	}

	if strings.Contains(response, "scared") || strings.Contains(response, "afraid") {
		c.patterns["seek_comfort"]++
		if c.patterns["seek_comfort"] >= proceduralMinRepeats {
			return &Memory{
				ID:               uuid.New().String(),
				Type:             TypeProcedural,
				Content:          "When scared, stay close to trainer and seek reassurance",
				CreatedAt:        c.now(),
				Significance:     7.5,
				Tags:             []string{"behavior", "learned"},
				Strength:         MaxStrength,
				Behavior:         "seek_comfort",
				TriggerCondition: "When scared or afraid",
				SuccessRate:      0.9,
				TimesUsed:        c.patterns["seek_comfort"],
			}
		}
	}
	return nil
}

func parseEmotion(s string) Emotion {
	switch strings.ToLower(s) {
	case "joy", "joyful", "happy":
		return EmotionJoy
	case "fear", "scared", "fearful", "afraid":
		return EmotionFear
	case "sad", "sadness":
		return EmotionSadness
	case "angry", "anger", "frustrated":
		return EmotionAnger
	case "surprise", "surprised":
		return EmotionSurprise
	case "trust", "trusting":
		return EmotionTrust
	case "anticipation":
		return EmotionAnticipation
	case "disgust":
		return EmotionDisgust
	case "gratitude", "grateful":
		return EmotionGratitude
	case "curiosity", "curious":
		return EmotionCuriosity
	case "loneliness", "lonely":
		return EmotionLoneliness
	case "contentment", "content", "calm":
		return EmotionContentment
	default:
		return EmotionCuriosity
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// clip truncates to n runes, never splitting a multi-byte character.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
