package council

import (
	"fmt"
	"strings"

	"github.com/YourBr0ther/EeveeLLM/core"
)

// Region identifies one of the five fixed brain regions. The set is closed:
// each region is a variant with its own scoring logic, not a subclass.
type Region int

const (
	// Prefrontal handles logic, planning, and long-term thinking.
	Prefrontal Region = iota
	// Amygdala handles emotion and survival instincts.
	Amygdala
	// Hippocampus recalls past experiences and patterns.
	Hippocampus
	// Hypothalamus monitors physical needs and drives.
	Hypothalamus
	// Cerebellum covers instinct and species-specific behavior.
	Cerebellum

	regionCount = 5
)

// Regions lists every region in declaration order.
var Regions = [regionCount]Region{Prefrontal, Amygdala, Hippocampus, Hypothalamus, Cerebellum}

func (r Region) String() string {
	switch r {
	case Prefrontal:
		return "prefrontal"
	case Amygdala:
		return "amygdala"
	case Hippocampus:
		return "hippocampus"
	case Hypothalamus:
		return "hypothalamus"
	case Cerebellum:
		return "cerebellum"
	default:
		return fmt.Sprintf("region(%d)", int(r))
	}
}

// Role describes what the region weighs in on.
func (r Region) Role() string {
	switch r {
	case Prefrontal:
		return "Logic & Planning - evaluates long-term consequences and the trainer relationship"
	case Amygdala:
		return "Emotion & Survival - processes fear, joy, and excitement"
	case Hippocampus:
		return "Memory - recalls past experiences and identifies patterns"
	case Hypothalamus:
		return "Needs & Drives - monitors hunger, energy, comfort, and physical state"
	case Cerebellum:
		return "Instinct & Coordination - species-specific behaviors and automatic responses"
	default:
		return ""
	}
}

// Vote is one region's proposed decision. Confidence and EmotionalWeight
// are always within [0,1] and Decision is never empty once the engine has
// normalized the vote.
type Vote struct {
	Region          Region
	Decision        string
	Reasoning       string
	Confidence      float64
	EmotionalWeight float64
}

// normalize clamps the bounded fields and guarantees a decision label.
func (v *Vote) normalize() {
	v.Confidence = clamp01(v.Confidence)
	v.EmotionalWeight = clamp01(v.EmotionalWeight)
	if v.Decision == "" {
		v.Decision = "observe"
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func analyzePrefrontal(c *core.Context) Vote {
	situation := strings.ToLower(c.Situation)
	energy := c.Physical.Energy
	trust := c.Relationship.Trust

	var decision, reasoning string
	var confidence float64

	switch {
	case strings.Contains(situation, "explore") || strings.Contains(situation, "adventure"):
		if energy > 40 {
			decision = "agree_cautiously"
			reasoning = "Exploring builds experience and strengthens our bond with trainer. But we should stay alert."
			confidence = 0.7 + float64(trust)/200
		} else {
			decision = "suggest_rest_first"
			reasoning = "Logic suggests we rest before exploring. Low energy could be dangerous."
			confidence = 0.8
		}
	case strings.Contains(situation, "play"):
		if energy > 30 {
			decision = "agree"
			reasoning = "Playing strengthens bond with trainer. It's a good use of energy."
			confidence = 0.8
		} else {
			decision = "suggest_later"
			reasoning = "We should conserve energy. Perhaps after rest?"
			confidence = 0.7
		}
	case strings.Contains(situation, "food") || strings.Contains(situation, "eat"):
		decision = "agree"
		reasoning = "Meeting basic needs is logical and necessary."
		confidence = 0.9
	default:
		decision = "consider_options"
		reasoning = "Let's think about the consequences before acting."
		confidence = 0.6
	}

	return Vote{
		Region:          Prefrontal,
		Decision:        decision,
		Reasoning:       reasoning,
		Confidence:      confidence,
		EmotionalWeight: 0.3,
	}
}

func analyzeAmygdala(c *core.Context) Vote {
	situation := strings.ToLower(c.Situation)
	happiness := c.Physical.Happiness
	trust := c.Relationship.Trust
	safety := c.LocationSafety

	var decision, reasoning string
	var confidence, emotional float64

	switch {
	case strings.Contains(situation, "trainer") && trust > 60:
		decision = "enthusiastic_yes"
		reasoning = "TRAINER! My favorite person! This makes me so happy!"
		confidence = 0.95
		emotional = 1.0
	case strings.Contains(situation, "explore"):
		switch {
		case safety > 7 && trust > 60:
			decision = "excited_agree"
			reasoning = "Adventure with trainer! Exciting but safe with them!"
			confidence = 0.8
			emotional = 0.9
		case safety < 5:
			decision = "fear_disagree"
			reasoning = "Scary... Unknown places make me nervous. Too dangerous!"
			confidence = 0.9
			emotional = 1.0
		default:
			decision = "cautious_maybe"
			reasoning = "Nervous but curious... Stay close to trainer?"
			confidence = 0.6
			emotional = 0.7
		}
	case strings.Contains(situation, "play"):
		if happiness > 50 {
			decision = "joyful_yes"
			reasoning = "YES! Playing is the BEST! So much joy!"
			confidence = 0.9
			emotional = 1.0
		} else {
			decision = "subdued_yes"
			reasoning = "Playing might make me feel better..."
			confidence = 0.6
			emotional = 0.5
		}
	case strings.Contains(situation, "alone") || strings.Contains(situation, "leave"):
		decision = "sad_protest"
		reasoning = "Don't go! Being alone is scary and lonely!"
		confidence = 0.8
		emotional = 0.9
	default:
		decision = "curious"
		reasoning = "Interesting... How do I feel about this?"
		confidence = 0.5
		emotional = 0.6
	}

	return Vote{
		Region:          Amygdala,
		Decision:        decision,
		Reasoning:       reasoning,
		Confidence:      confidence,
		EmotionalWeight: emotional,
	}
}

// positiveEmotions marks retrieved-memory emotion tags that read as good
// experiences; negativeEmotions as bad ones.
var (
	positiveEmotions = map[string]bool{"joy": true, "trust": true, "gratitude": true, "contentment": true}
	negativeEmotions = map[string]bool{"fear": true, "sadness": true, "anger": true, "loneliness": true, "disgust": true}
)

func analyzeHippocampus(c *core.Context, memories []core.RetrievedMemory) Vote {
	bond := c.Relationship.Bond

	var decision, reasoning string
	var confidence float64

	if len(memories) > 0 {
		// The most relevant memory colors the whole vote.
		top := memories[0]
		switch {
		case positiveEmotions[top.Emotion]:
			decision = "remember_positive"
			reasoning = fmt.Sprintf("I remember: %s. That was good!", top.Content)
			confidence = 0.8
		case negativeEmotions[top.Emotion]:
			decision = "remember_negative"
			reasoning = fmt.Sprintf("I remember: %s. That was scary...", top.Content)
			confidence = 0.8
		default:
			decision = "remember_neutral"
			reasoning = fmt.Sprintf("I remember something similar: %s", top.Content)
			confidence = 0.6
		}
	} else if bond > 50 {
		decision = "trust_pattern"
		reasoning = "No direct memory, but past experiences with trainer have been mostly positive."
		confidence = 0.6
	} else {
		decision = "no_pattern"
		reasoning = "This is new. No past experience to guide us."
		confidence = 0.4
	}

	return Vote{
		Region:          Hippocampus,
		Decision:        decision,
		Reasoning:       reasoning,
		Confidence:      confidence,
		EmotionalWeight: 0.4,
	}
}

func analyzeHypothalamus(c *core.Context) Vote {
	situation := strings.ToLower(c.Situation)
	hunger := c.Physical.Hunger
	energy := c.Physical.Energy
	health := c.Physical.Health

	var decision, reasoning string
	var confidence float64

	switch {
	case strings.Contains(situation, "food") || strings.Contains(situation, "eat") || strings.Contains(situation, "berry"):
		if hunger > 50 {
			decision = "urgent_need"
			reasoning = "HUNGRY! Need food now!"
			confidence = 0.95
		} else {
			decision = "accept"
			reasoning = "Food is always good, even if not urgent."
			confidence = 0.7
		}
	case strings.Contains(situation, "rest") || strings.Contains(situation, "sleep") || strings.Contains(situation, "nap"):
		if energy < 30 {
			decision = "urgent_need"
			reasoning = "So tired... Need rest badly."
			confidence = 0.95
		} else {
			decision = "not_needed"
			reasoning = "Not particularly tired right now."
			confidence = 0.6
		}
	case strings.Contains(situation, "play") || strings.Contains(situation, "explore"):
		switch {
		case energy < 30:
			decision = "too_tired"
			reasoning = "Too exhausted for this. Need energy first."
			confidence = 0.9
		case hunger > 70:
			decision = "too_hungry"
			reasoning = "Too hungry to focus. Need food first."
			confidence = 0.85
		case health < 50:
			decision = "too_hurt"
			reasoning = "Not feeling well. Should rest."
			confidence = 0.9
		default:
			decision = "acceptable"
			reasoning = "Physical state is adequate for this activity."
			confidence = 0.7
		}
	default:
		switch {
		case hunger > 70:
			decision = "distracted_hungry"
			reasoning = "Hard to focus... so hungry..."
			confidence = 0.7
		case energy < 25:
			decision = "distracted_tired"
			reasoning = "Having trouble staying alert... need rest..."
			confidence = 0.7
		default:
			decision = "fine"
			reasoning = "Physical needs are manageable."
			confidence = 0.6
		}
	}

	return Vote{
		Region:          Hypothalamus,
		Decision:        decision,
		Reasoning:       reasoning,
		Confidence:      confidence,
		EmotionalWeight: 0.2,
	}
}

func analyzeCerebellum(c *core.Context) Vote {
	situation := strings.ToLower(c.Situation)
	playfulness := c.Personality.Playfulness
	curiosity := c.Personality.Curiosity
	energy := c.Physical.Energy

	var decision, reasoning string
	var confidence float64

	switch {
	case strings.Contains(situation, "play"):
		if energy > 40 && playfulness > 6 {
			decision = "instinct_yes"
			reasoning = "*tail wagging intensifies* Eevee instincts say PLAY!"
			confidence = 0.8
		} else {
			decision = "instinct_mild"
			reasoning = "*ears perk up* Play instinct triggered but subdued."
			confidence = 0.6
		}
	case strings.Contains(situation, "danger") || strings.Contains(situation, "threat"):
		decision = "fight_or_flight"
		reasoning = "*fur bristles* Survival instinct activated!"
		confidence = 0.9
	case strings.Contains(situation, "trainer"):
		decision = "bond_response"
		reasoning = "*automatic tail wag* Pack bond instinct!"
		confidence = 0.85
	case strings.Contains(situation, "explore"):
		if curiosity > 6 {
			decision = "explore_instinct"
			reasoning = "*nose twitching* Natural curiosity activated!"
			confidence = 0.7
		} else {
			decision = "cautious_instinct"
			reasoning = "*ears swivel* Proceed with caution."
			confidence = 0.6
		}
	case strings.Contains(situation, "food"):
		decision = "approach_food"
		reasoning = "*nose sniffing* Food-seeking behavior engaged!"
		confidence = 0.8
	default:
		decision = "observe"
		reasoning = "*alert posture* Monitoring situation instinctively."
		confidence = 0.5
	}

	return Vote{
		Region:          Cerebellum,
		Decision:        decision,
		Reasoning:       reasoning,
		Confidence:      confidence,
		EmotionalWeight: 0.3,
	}
}
