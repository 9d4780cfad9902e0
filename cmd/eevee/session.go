package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/YourBr0ther/EeveeLLM/config"
	"github.com/YourBr0ther/EeveeLLM/core"
	"github.com/YourBr0ther/EeveeLLM/council"
	"github.com/YourBr0ther/EeveeLLM/memory"
	chromemstore "github.com/YourBr0ther/EeveeLLM/memory/store/chromem"
	"github.com/YourBr0ther/EeveeLLM/respond"
	"github.com/YourBr0ther/EeveeLLM/state"
	"github.com/YourBr0ther/EeveeLLM/world"
)

// session holds everything one interactive run needs.
type session struct {
	cfg    *config.Config
	logger *slog.Logger

	state        *state.Store
	world        *world.Map
	store        *chromemstore.Store
	retriever    *memory.Retriever
	consolidator *memory.Consolidator
	working      *memory.Working
	engine       *council.Engine
	generator    *respond.Generator

	// lastEmotion carries the council's dominant emotion into the next
	// interaction's context.
	lastEmotion   string
	lastIntensity float64

	in  io.Reader
	out io.Writer
}

// Run greets the trainer and processes commands until exit.
func (s *session) Run() error {
	ctx := context.Background()

	fmt.Fprintln(s.out, "=== EeveeLLM ===")
	s.showScene()

	hours := s.state.HoursSinceInteraction()
	switch {
	case hours > 24:
		fmt.Fprintln(s.out, "*Eevee bolts toward you, crying with joy* VEE! VEEVEE! *leaps into your arms*")
	case hours > 4:
		fmt.Fprintln(s.out, "*Eevee perks up and trots over happily* Vee! *nuzzles your leg*")
	default:
		fmt.Fprintln(s.out, "*Eevee looks up at you* Vee? *tail wags*")
	}

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "\n> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !s.dispatch(ctx, line) {
			break
		}
	}

	fmt.Fprintln(s.out, "\n*Eevee waves a paw* Vee vee! (See you soon!)")
	if err := s.state.Save(ctx); err != nil {
		s.logger.Error("save on exit failed", "error", err)
	}
	return scanner.Err()
}

// dispatch handles one command line, returning false to exit.
func (s *session) dispatch(ctx context.Context, line string) bool {
	cmd, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)

	switch strings.ToLower(cmd) {
	case "exit", "quit", "q":
		return false
	case "help":
		s.printHelp()
	case "stats":
		s.printStats(ctx)
	case "world":
		snap := s.state.Snapshot()
		fmt.Fprintln(s.out, s.world.Describe(snap.Location))
	case "observe":
		s.observe()
	case "pet":
		s.pet(ctx)
	case "play":
		s.play(ctx)
	case "give":
		if args == "" {
			fmt.Fprintln(s.out, "Give what? (e.g., 'give Oran Berry')")
		} else {
			s.give(ctx, args)
		}
	case "go":
		if args == "" {
			fmt.Fprintln(s.out, "Go where? (e.g., 'go meadow')")
		} else {
			s.travel(ctx, args)
		}
	case "remember":
		s.remember(ctx, args)
	case "talk":
		if args == "" {
			fmt.Fprintln(s.out, "What do you want to say?")
		} else {
			s.talk(ctx, args)
		}
	default:
		// Anything unrecognized is speech directed at Eevee.
		s.talk(ctx, line)
	}
	return true
}

// interact runs the full loop for one stimulus: deliberate, retrieve,
// respond, consolidate, log.
func (s *session) interact(ctx context.Context, kind, userInput, situation string) {
	c := s.buildContext(situation)

	memories := s.retriever.Recall(ctx, situation, c)
	c.Memories = memories
	if s.cfg.Debug.ShowMemory && len(memories) > 0 {
		fmt.Fprintln(s.out, "[memory]")
		for _, m := range memories {
			fmt.Fprintf(s.out, "  - (%.2f) %s\n", m.Relevance, m.Content)
		}
	}

	d, err := s.engine.Deliberate(ctx, c)
	if err != nil {
		s.logger.Error("deliberation failed", "error", err)
		fmt.Fprintln(s.out, "*Eevee blinks, confused* Vee...?")
		return
	}
	if s.cfg.Debug.ShowCouncil {
		fmt.Fprintln(s.out, d.Transcript())
	}

	s.lastEmotion = d.Emotion
	s.lastIntensity = d.Winner.EmotionalWeight * 10

	reply := s.generator.Generate(ctx, userInput, c, d)
	fmt.Fprintln(s.out, reply)

	// The raw exchange always enters the short-term window; only the
	// long-term store is gated on significance.
	s.working.Add(fmt.Sprintf("Trainer: %s / Eevee: %s", userInput, reply))

	in := &memory.Interaction{
		UserInput: userInput,
		Response:  reply,
		Context:   *c,
		Decision:  d.Winner.Decision,
		Consensus: d.Consensus,
	}
	if _, err := s.consolidator.Consolidate(ctx, in); err != nil {
		s.logger.Warn("consolidation failed", "error", err)
	}
	if n, err := s.store.Count(ctx, ""); err == nil {
		s.state.SetMemoriesCount(n)
	}

	if err := s.state.LogInteraction(ctx, kind, userInput, reply, d.Emotion, s.consolidator.Significance(in)); err != nil {
		s.logger.Warn("interaction log failed", "error", err)
	}

	// Time passes: a little hungrier, a little more tired.
	s.state.AdjustPhysical(1, -1, 0, 0)
	if err := s.state.Save(ctx); err != nil {
		s.logger.Warn("save failed", "error", err)
	}
}

func (s *session) talk(ctx context.Context, message string) {
	s.interact(ctx, "talk", message, message)
}

func (s *session) pet(ctx context.Context) {
	fmt.Fprintln(s.out, "*pets Eevee gently*")
	s.state.AdjustPhysical(0, 0, 0, 5)
	s.state.AdjustRelationship(1, 0)
	s.interact(ctx, "pet", "pet", "The trainer pets me gently")
}

func (s *session) play(ctx context.Context) {
	fmt.Fprintln(s.out, "*initiates playtime*")
	snap := s.state.Snapshot()
	if snap.Physical.Energy > 30 {
		s.state.AdjustPhysical(5, -10, 0, 10)
		s.state.AdjustRelationship(0, 2)
	} else {
		fmt.Fprintln(s.out, "Eevee seems too tired to play much...")
	}
	s.interact(ctx, "play", "play", "The trainer wants to play with me")
}

func (s *session) give(ctx context.Context, item string) {
	fmt.Fprintf(s.out, "*offers %s*\n", item)
	lower := strings.ToLower(item)
	if strings.Contains(lower, "berry") || strings.Contains(lower, "food") {
		s.state.AdjustPhysical(-20, 0, 0, 5)
	}
	s.state.AddItem(item)
	s.interact(ctx, "give", "give "+item, "The trainer offers me "+item)
}

func (s *session) travel(ctx context.Context, destination string) {
	snap := s.state.Snapshot()
	target := s.world.GetByName(destination)
	if target == nil {
		target = s.world.Get(destination)
	}
	if target == nil {
		fmt.Fprintf(s.out, "Unknown location: %s\n", destination)
		return
	}
	if !s.world.CanTravel(snap.Location, target.ID) {
		fmt.Fprintf(s.out, "You can't go directly to %s from here.\n", target.Name)
		return
	}

	fmt.Fprintf(s.out, "Traveling to %s...\n", target.Name)
	s.state.SetLocation(target.ID)
	s.showScene()
	s.interact(ctx, "travel", "go "+target.Name, "We arrived at "+target.Name)
}

func (s *session) observe() {
	snap := s.state.Snapshot()
	switch {
	case snap.Physical.Energy < 30:
		fmt.Fprintln(s.out, "*Eevee is curled up, dozing* Veee... zzz...")
	case snap.Physical.Hunger > 70:
		fmt.Fprintln(s.out, "*Eevee sniffs around* Vee... *looking for food*")
	case snap.Physical.Happiness > 80:
		fmt.Fprintln(s.out, "*Eevee chases its tail in a burst of energy* Vee vee!")
	default:
		fmt.Fprintln(s.out, "*Eevee sits calmly, observing the surroundings* Vee~")
	}
}

// remember searches long-term memory directly, bypassing the council.
func (s *session) remember(ctx context.Context, query string) {
	if query == "" {
		query = "time with trainer"
	}
	c := s.buildContext(query)
	memories := s.retriever.Recall(ctx, query, c)
	if len(memories) == 0 {
		fmt.Fprintln(s.out, "*Eevee tilts head* Vee? (Nothing comes to mind...)")
		return
	}
	fmt.Fprintln(s.out, "*Eevee's eyes go distant, remembering...*")
	for _, m := range memories {
		fmt.Fprintf(s.out, "  [%s] %s\n", m.Type, m.Content)
	}
}

func (s *session) buildContext(situation string) *core.Context {
	snap := s.state.Snapshot()
	safety := 5
	if loc := s.world.Get(snap.Location); loc != nil {
		safety = loc.Safety
	}
	return &core.Context{
		Situation:        situation,
		Location:         snap.Location,
		LocationSafety:   safety,
		Physical:         snap.Physical,
		Relationship:     snap.Relationship,
		Personality:      snap.Personality,
		Emotion:          s.lastEmotion,
		EmotionIntensity: s.lastIntensity,
		Recent:           s.working.Recent(5),
	}
}

func (s *session) showScene() {
	snap := s.state.Snapshot()
	loc := s.world.Get(snap.Location)
	if loc == nil {
		return
	}
	fmt.Fprintf(s.out, "\n-- %s | %s, %s --\n", loc.Name, snap.TimeOfDay, snap.Weather)
	fmt.Fprintf(s.out, "Hunger %d  Energy %d  Happiness %d  Health %d\n",
		snap.Physical.Hunger, snap.Physical.Energy, snap.Physical.Happiness, snap.Physical.Health)
	fmt.Fprintln(s.out, loc.Description)
}

func (s *session) printStats(ctx context.Context) {
	snap := s.state.Snapshot()
	fmt.Fprintln(s.out, "\n=== EEVEE STATUS ===")
	fmt.Fprintf(s.out, "Physical:   hunger %d/100, energy %d/100, health %d/100, happiness %d/100\n",
		snap.Physical.Hunger, snap.Physical.Energy, snap.Physical.Health, snap.Physical.Happiness)
	fmt.Fprintf(s.out, "Relationship: trust %d/100, bond %d/100\n",
		snap.Relationship.Trust, snap.Relationship.Bond)
	fmt.Fprintf(s.out, "Personality: curiosity %d, bravery %d, playfulness %d, loyalty %d, independence %d\n",
		snap.Personality.Curiosity, snap.Personality.Bravery, snap.Personality.Playfulness,
		snap.Personality.Loyalty, snap.Personality.Independence)
	if len(snap.Inventory) > 0 {
		fmt.Fprintf(s.out, "Inventory:  %s\n", strings.Join(snap.Inventory, ", "))
	} else {
		fmt.Fprintln(s.out, "Inventory:  (empty)")
	}
	if n, err := s.store.Count(ctx, ""); err == nil {
		fmt.Fprintf(s.out, "Memories:   %d\n", n)
	}
	fmt.Fprintf(s.out, "Interactions: %d\n", snap.TotalInteractions)
}

func (s *session) printHelp() {
	fmt.Fprint(s.out, `
Commands:
  talk <message>  Say something to Eevee (or just type freely)
  pet             Pet Eevee
  play            Play together
  give <item>     Offer an item (berries reduce hunger)
  go <place>      Travel to a connected location
  observe         Watch what Eevee is doing
  remember [q]    Ask Eevee to recall memories
  world           Describe the current location
  stats           Show detailed status
  help            This help
  exit            Save and quit
`)
}
