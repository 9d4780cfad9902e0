package memory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkingEvictsOldest(t *testing.T) {
	w := NewWorking(3)
	for i := 1; i <= 5; i++ {
		w.Add(fmt.Sprintf("event %d", i))
	}

	assert.Equal(t, 3, w.Len())
	assert.Equal(t, []string{"event 3", "event 4", "event 5"}, w.Recent(10))
}

func TestWorkingRecent(t *testing.T) {
	w := NewWorking(10)
	w.Add("first")
	w.Add("second")
	w.Add("third")

	assert.Equal(t, []string{"second", "third"}, w.Recent(2))
	assert.Nil(t, w.Recent(0))

	w.Clear()
	assert.Zero(t, w.Len())
	assert.Nil(t, w.Recent(5))
}

func TestWorkingContextString(t *testing.T) {
	w := NewWorking(10)
	assert.Equal(t, "No recent memories.", w.ContextString())

	w.Add("trainer petted me")
	w.Add("ate a berry")
	got := w.ContextString()
	assert.Contains(t, got, "- trainer petted me")
	assert.Contains(t, got, "- ate a berry")
}

func TestWorkingDefaultCapacity(t *testing.T) {
	w := NewWorking(0)
	for i := 0; i < 20; i++ {
		w.Add("x")
	}
	assert.Equal(t, DefaultConfig().WorkingCapacity, w.Len())
}
