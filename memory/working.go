package memory

import (
	"fmt"
	"strings"
)

// Working is the short-term window of recent raw interactions. It is
// independent of the long-term store: entries land here unconditionally and
// the oldest is evicted on overflow. Not safe for concurrent use; at most
// one deliberation is in flight per agent.
type Working struct {
	capacity int
	entries  []string
}

// NewWorking creates a working-memory window. Capacity must be positive.
func NewWorking(capacity int) *Working {
	if capacity <= 0 {
		capacity = DefaultConfig().WorkingCapacity
	}
	return &Working{capacity: capacity}
}

// Add appends an interaction, evicting the oldest entry when full.
func (w *Working) Add(content string) {
	w.entries = append(w.entries, content)
	if len(w.entries) > w.capacity {
		w.entries = w.entries[1:]
	}
}

// Recent returns the n most recent entries, oldest first.
func (w *Working) Recent(n int) []string {
	if n <= 0 || len(w.entries) == 0 {
		return nil
	}
	if n > len(w.entries) {
		n = len(w.entries)
	}
	out := make([]string, n)
	copy(out, w.entries[len(w.entries)-n:])
	return out
}

// Len returns the number of held entries.
func (w *Working) Len() int { return len(w.entries) }

// Clear drops all entries.
func (w *Working) Clear() { w.entries = nil }

// ContextString formats the last few entries for the brain council.
func (w *Working) ContextString() string {
	recent := w.Recent(5)
	if len(recent) == 0 {
		return "No recent memories."
	}
	var b strings.Builder
	for _, e := range recent {
		fmt.Fprintf(&b, "- %s\n", e)
	}
	return strings.TrimRight(b.String(), "\n")
}
