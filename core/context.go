// Package core holds the shared value types that flow between the brain
// council, the memory subsystem, and the outer interaction loop. It has no
// dependencies on either side so both can import it freely.
package core

// PhysicalState holds Eevee's bodily stats, each clamped to 0-100.
type PhysicalState struct {
	Hunger    int
	Energy    int
	Health    int
	Happiness int
}

// Relationship tracks the bond with the trainer, 0-100.
type Relationship struct {
	Trust int
	Bond  int
}

// Personality holds the semi-permanent traits, each 0-10.
type Personality struct {
	Curiosity    int
	Bravery      int
	Playfulness  int
	Loyalty      int
	Independence int
}

// RetrievedMemory is the compact view of a long-term memory handed to the
// brain council. Storage details (embeddings, access counts) stay inside
// the memory package.
type RetrievedMemory struct {
	Content      string
	Type         string
	Emotion      string
	Location     string
	Significance float64
	Relevance    float64
}

// Context is the read-only snapshot consumed by every brain region and by
// memory retrieval during a single deliberation. It is built once per
// interaction and never mutated while the council is voting, so regions may
// evaluate it concurrently without synchronization.
type Context struct {
	// Situation is the trainer's input or the event being reacted to.
	Situation string

	Location       string
	LocationSafety int // 0-10, higher is safer

	Physical     PhysicalState
	Relationship Relationship
	Personality  Personality

	// Emotion is the primary emotion carried over from the previous
	// interaction, with its 0-10 intensity. Used by retrieval side
	// queries and by consolidation.
	Emotion          string
	EmotionIntensity float64

	// Memories is pre-retrieved long-term context. The memory region
	// normally fills its own list through the retriever; this field
	// serves callers that already hold one.
	Memories []RetrievedMemory

	// Recent is the working-memory window of raw recent interactions.
	Recent []string
}
