package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YourBr0ther/EeveeLLM/core"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "save.db")
	st, err := Open(path, DefaultState())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, path
}

func TestOpenSeedsDefaults(t *testing.T) {
	st, _ := openTestStore(t)
	snap := st.Snapshot()

	assert.Equal(t, core.PhysicalState{Hunger: 40, Energy: 70, Health: 95, Happiness: 85}, snap.Physical)
	assert.Equal(t, "trainer_home", snap.Location)
	assert.Equal(t, core.Relationship{Trust: 50, Bond: 30}, snap.Relationship)
	assert.Equal(t, core.Personality{Curiosity: 8, Bravery: 5, Playfulness: 9, Loyalty: 10, Independence: 6}, snap.Personality)
	assert.Equal(t, "morning", snap.TimeOfDay)
	assert.Equal(t, "sunny", snap.Weather)
	assert.Zero(t, snap.TotalInteractions)
	assert.Empty(t, snap.Inventory)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.db")
	st, err := Open(path, DefaultState())
	require.NoError(t, err)

	st.AdjustPhysical(-10, 5, 0, 3)
	st.SetLocation("meadow")
	st.AdjustRelationship(2, 4)
	st.AddItem("Oran Berry")
	require.NoError(t, st.Save(context.Background()))
	require.NoError(t, st.Close())

	reopened, err := Open(path, DefaultState())
	require.NoError(t, err)
	defer reopened.Close()

	snap := reopened.Snapshot()
	assert.Equal(t, 30, snap.Physical.Hunger)
	assert.Equal(t, 75, snap.Physical.Energy)
	assert.Equal(t, 88, snap.Physical.Happiness)
	assert.Equal(t, "meadow", snap.Location)
	assert.Equal(t, 52, snap.Relationship.Trust)
	assert.Equal(t, 34, snap.Relationship.Bond)
	assert.Equal(t, []string{"Oran Berry"}, snap.Inventory)
}

func TestAdjustClamps(t *testing.T) {
	st, _ := openTestStore(t)

	st.AdjustPhysical(1000, -1000, 1000, -1000)
	snap := st.Snapshot()
	assert.Equal(t, 100, snap.Physical.Hunger)
	assert.Equal(t, 0, snap.Physical.Energy)
	assert.Equal(t, 100, snap.Physical.Health)
	assert.Equal(t, 0, snap.Physical.Happiness)

	st.AdjustRelationship(-1000, 1000)
	snap = st.Snapshot()
	assert.Equal(t, 0, snap.Relationship.Trust)
	assert.Equal(t, 100, snap.Relationship.Bond)
}

func TestSetPhysicalClamps(t *testing.T) {
	st, _ := openTestStore(t)
	st.SetPhysical(core.PhysicalState{Hunger: 150, Energy: -5, Health: 50, Happiness: 200})
	snap := st.Snapshot()
	assert.Equal(t, core.PhysicalState{Hunger: 100, Energy: 0, Health: 50, Happiness: 100}, snap.Physical)
}

func TestLogInteraction(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.LogInteraction(ctx, "talk", "hi", "Vee!", "joyful", 5.0))
	require.NoError(t, st.LogInteraction(ctx, "pet", "pet", "Veee~", "contentment", 6.0))

	snap := st.Snapshot()
	assert.Equal(t, 2, snap.TotalInteractions)
	assert.False(t, snap.LastInteraction.IsZero())
}

func TestHoursSinceInteraction(t *testing.T) {
	st, _ := openTestStore(t)
	require.NoError(t, st.LogInteraction(context.Background(), "talk", "hi", "Vee!", "calm", 5.0))

	st.now = func() time.Time { return time.Now().Add(6 * time.Hour) }
	assert.InDelta(t, 6.0, st.HoursSinceInteraction(), 0.01)
}

func TestInventory(t *testing.T) {
	st, _ := openTestStore(t)

	st.AddItem("stick")
	st.AddItem("stick")
	assert.Equal(t, []string{"stick"}, st.Snapshot().Inventory)

	assert.True(t, st.RemoveItem("stick"))
	assert.False(t, st.RemoveItem("stick"))
	assert.Empty(t, st.Snapshot().Inventory)
}
