// Package state persists Eevee's physical condition, location, relationship
// stats, and interaction history in a SQLite database. The database holds a
// single state row; the interactions table grows append-only.
package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/YourBr0ther/EeveeLLM/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS eevee_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	created_at TEXT NOT NULL,
	last_updated TEXT NOT NULL,
	last_interaction TEXT,

	hunger INTEGER NOT NULL,
	energy INTEGER NOT NULL,
	health INTEGER NOT NULL,
	happiness INTEGER NOT NULL,

	current_location TEXT NOT NULL,
	time_of_day TEXT NOT NULL DEFAULT 'morning',
	weather TEXT NOT NULL DEFAULT 'sunny',

	trust_level INTEGER NOT NULL,
	bond_strength INTEGER NOT NULL,
	time_together_minutes INTEGER NOT NULL DEFAULT 0,

	inventory TEXT NOT NULL DEFAULT '[]',

	total_interactions INTEGER NOT NULL DEFAULT 0,
	memories_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS personality (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	curiosity INTEGER NOT NULL,
	bravery INTEGER NOT NULL,
	playfulness INTEGER NOT NULL,
	loyalty INTEGER NOT NULL,
	independence INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS interactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	interaction_type TEXT,
	user_input TEXT,
	eevee_response TEXT,
	location TEXT,
	emotional_state TEXT,
	significance REAL NOT NULL DEFAULT 5.0
);
`

// Defaults seeds a fresh database.
type Defaults struct {
	Physical     core.PhysicalState
	Location     string
	Relationship core.Relationship
	Personality  core.Personality
}

// DefaultState returns the stats a brand-new Eevee starts with.
func DefaultState() Defaults {
	return Defaults{
		Physical:     core.PhysicalState{Hunger: 40, Energy: 70, Health: 95, Happiness: 85},
		Location:     "trainer_home",
		Relationship: core.Relationship{Trust: 50, Bond: 30},
		Personality:  core.Personality{Curiosity: 8, Bravery: 5, Playfulness: 9, Loyalty: 10, Independence: 6},
	}
}

// Snapshot is the full persisted state at a point in time.
type Snapshot struct {
	CreatedAt       time.Time
	LastUpdated     time.Time
	LastInteraction time.Time

	Physical  core.PhysicalState
	Location  string
	TimeOfDay string
	Weather   string

	Relationship        core.Relationship
	TimeTogetherMinutes int

	Inventory []string

	TotalInteractions int
	MemoriesCount     int

	Personality core.Personality
}

// Store owns the database connection and an in-memory copy of the state.
// Mutations touch the copy; Save writes it back.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	s   Snapshot
	now func() time.Time
}

// Open connects to the database at path (":memory:" works for tests),
// creates the schema, and loads the state row, seeding it from defaults on
// first run.
func Open(path string, defaults Defaults) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	st := &Store{db: db, now: time.Now}
	if err := st.loadOrSeed(defaults); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

func (st *Store) loadOrSeed(defaults Defaults) error {
	var count int
	if err := st.db.QueryRow("SELECT COUNT(*) FROM eevee_state").Scan(&count); err != nil {
		return fmt.Errorf("check state row: %w", err)
	}

	if count == 0 {
		now := st.now().UTC().Format(time.RFC3339Nano)
		_, err := st.db.Exec(`
			INSERT INTO eevee_state (
				id, created_at, last_updated, last_interaction,
				hunger, energy, health, happiness,
				current_location, trust_level, bond_strength
			) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			now, now, now,
			defaults.Physical.Hunger, defaults.Physical.Energy,
			defaults.Physical.Health, defaults.Physical.Happiness,
			defaults.Location,
			defaults.Relationship.Trust, defaults.Relationship.Bond,
		)
		if err != nil {
			return fmt.Errorf("seed state: %w", err)
		}
		_, err = st.db.Exec(`
			INSERT INTO personality (id, curiosity, bravery, playfulness, loyalty, independence)
			VALUES (1, ?, ?, ?, ?, ?)`,
			defaults.Personality.Curiosity, defaults.Personality.Bravery,
			defaults.Personality.Playfulness, defaults.Personality.Loyalty,
			defaults.Personality.Independence,
		)
		if err != nil {
			return fmt.Errorf("seed personality: %w", err)
		}
	}

	return st.load()
}

func (st *Store) load() error {
	var (
		createdAt, lastUpdated string
		lastInteraction        sql.NullString
		inventory              string
		s                      Snapshot
	)
	err := st.db.QueryRow(`
		SELECT created_at, last_updated, last_interaction,
			hunger, energy, health, happiness,
			current_location, time_of_day, weather,
			trust_level, bond_strength, time_together_minutes,
			inventory, total_interactions, memories_count
		FROM eevee_state WHERE id = 1`).Scan(
		&createdAt, &lastUpdated, &lastInteraction,
		&s.Physical.Hunger, &s.Physical.Energy, &s.Physical.Health, &s.Physical.Happiness,
		&s.Location, &s.TimeOfDay, &s.Weather,
		&s.Relationship.Trust, &s.Relationship.Bond, &s.TimeTogetherMinutes,
		&inventory, &s.TotalInteractions, &s.MemoriesCount,
	)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	s.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	s.LastUpdated, _ = time.Parse(time.RFC3339Nano, lastUpdated)
	if lastInteraction.Valid {
		s.LastInteraction, _ = time.Parse(time.RFC3339Nano, lastInteraction.String)
	}
	if err := json.Unmarshal([]byte(inventory), &s.Inventory); err != nil {
		return fmt.Errorf("decode inventory: %w", err)
	}

	err = st.db.QueryRow(`
		SELECT curiosity, bravery, playfulness, loyalty, independence
		FROM personality WHERE id = 1`).Scan(
		&s.Personality.Curiosity, &s.Personality.Bravery, &s.Personality.Playfulness,
		&s.Personality.Loyalty, &s.Personality.Independence,
	)
	if err != nil {
		return fmt.Errorf("load personality: %w", err)
	}

	st.s = s
	return nil
}

// Save writes the in-memory state back to the database.
func (st *Store) Save(ctx context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.s.LastUpdated = st.now()
	inventory, err := json.Marshal(st.s.Inventory)
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}

	var lastInteraction any
	if !st.s.LastInteraction.IsZero() {
		lastInteraction = st.s.LastInteraction.UTC().Format(time.RFC3339Nano)
	}

	_, err = st.db.ExecContext(ctx, `
		UPDATE eevee_state SET
			last_updated = ?, last_interaction = ?,
			hunger = ?, energy = ?, health = ?, happiness = ?,
			current_location = ?, time_of_day = ?, weather = ?,
			trust_level = ?, bond_strength = ?, time_together_minutes = ?,
			inventory = ?, total_interactions = ?, memories_count = ?
		WHERE id = 1`,
		st.s.LastUpdated.UTC().Format(time.RFC3339Nano), lastInteraction,
		st.s.Physical.Hunger, st.s.Physical.Energy, st.s.Physical.Health, st.s.Physical.Happiness,
		st.s.Location, st.s.TimeOfDay, st.s.Weather,
		st.s.Relationship.Trust, st.s.Relationship.Bond, st.s.TimeTogetherMinutes,
		string(inventory), st.s.TotalInteractions, st.s.MemoriesCount,
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// LogInteraction appends one interaction to history and bumps the counters.
func (st *Store) LogInteraction(ctx context.Context, kind, userInput, response, emotion string, significance float64) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, err := st.db.ExecContext(ctx, `
		INSERT INTO interactions (
			timestamp, interaction_type, user_input, eevee_response,
			location, emotional_state, significance
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		st.now().UTC().Format(time.RFC3339Nano),
		kind, userInput, response,
		st.s.Location, emotion, significance,
	)
	if err != nil {
		return fmt.Errorf("log interaction: %w", err)
	}

	st.s.TotalInteractions++
	st.s.LastInteraction = st.now()
	return nil
}

// Snapshot returns a copy of the current state.
func (st *Store) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.s
	s.Inventory = append([]string(nil), st.s.Inventory...)
	return s
}

// SetPhysical replaces the physical stats, clamped to [0,100].
func (st *Store) SetPhysical(p core.PhysicalState) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Physical = core.PhysicalState{
		Hunger:    clampStat(p.Hunger),
		Energy:    clampStat(p.Energy),
		Health:    clampStat(p.Health),
		Happiness: clampStat(p.Happiness),
	}
}

// AdjustPhysical shifts the physical stats by the given deltas, clamped.
func (st *Store) AdjustPhysical(hunger, energy, health, happiness int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Physical.Hunger = clampStat(st.s.Physical.Hunger + hunger)
	st.s.Physical.Energy = clampStat(st.s.Physical.Energy + energy)
	st.s.Physical.Health = clampStat(st.s.Physical.Health + health)
	st.s.Physical.Happiness = clampStat(st.s.Physical.Happiness + happiness)
}

// AdjustRelationship shifts trust and bond, clamped to [0,100].
func (st *Store) AdjustRelationship(trust, bond int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Relationship.Trust = clampStat(st.s.Relationship.Trust + trust)
	st.s.Relationship.Bond = clampStat(st.s.Relationship.Bond + bond)
}

// SetLocation moves Eevee. Travel validity is the caller's concern.
func (st *Store) SetLocation(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Location = id
}

// SetMemoriesCount records how many long-term memories exist.
func (st *Store) SetMemoriesCount(n int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.MemoriesCount = n
}

// AddItem puts an item in the inventory if not already present.
func (st *Store) AddItem(item string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, it := range st.s.Inventory {
		if it == item {
			return
		}
	}
	st.s.Inventory = append(st.s.Inventory, item)
}

// RemoveItem takes an item out of the inventory, reporting whether it was
// there.
func (st *Store) RemoveItem(item string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, it := range st.s.Inventory {
		if it == item {
			st.s.Inventory = append(st.s.Inventory[:i], st.s.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// HoursSinceInteraction returns how long Eevee has been alone. Zero when no
// interaction was ever logged.
func (st *Store) HoursSinceInteraction() float64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.s.LastInteraction.IsZero() {
		return 0
	}
	return st.now().Sub(st.s.LastInteraction).Hours()
}

// Close releases the database connection.
func (st *Store) Close() error { return st.db.Close() }

func clampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
