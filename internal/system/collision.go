package system

import (
	"log/slog"

	"partyherd/internal/component"
	"partyherd/internal/ecs"
	"partyherd/internal/physics"
	"partyherd/internal/session"

	"github.com/go-gl/mathgl/mgl64"
)

// Rule identifies a collision transition.
type Rule uint8

const (
	RulePickup    Rule = iota // collectable touched by a player joins the roster
	RuleKillReset             // player touching a kill wall returns to spawn
	RuleParty                 // player touching a party zone becomes a party animal
)

func (r Rule) String() string {
	switch r {
	case RulePickup:
		return "pickup"
	case RuleKillReset:
		return "kill-reset"
	case RuleParty:
		return "party"
	}
	return "unknown"
}

// Mutation is one classified effect, applied after the whole batch is read.
type Mutation struct {
	Rule   Rule
	Target ecs.Entity
	// Bench is set on kill-resets that also drop the player from the roster.
	Bench bool
}

// Snapshot is the tag state at the start of a tick's collision batch.
type Snapshot struct {
	roles   map[ecs.Entity]component.RoleKind
	walls   map[ecs.Entity]bool
	zones   map[ecs.Entity]bool
	players int
}

// TakeSnapshot reads every role, kill wall and party zone in w.
func TakeSnapshot(w *ecs.World) Snapshot {
	s := Snapshot{
		roles: make(map[ecs.Entity]component.RoleKind),
		walls: make(map[ecs.Entity]bool),
		zones: make(map[ecs.Entity]bool),
	}
	for _, k := range []component.RoleKind{component.RoleCollectable, component.RolePlayer, component.RolePartyAnimal} {
		for _, id := range w.WithRole(k) {
			s.roles[id] = k
		}
	}
	s.players = len(w.WithRole(component.RolePlayer))
	for _, id := range w.Query(component.KillWall) {
		s.walls[id] = true
	}
	for _, id := range w.Query(component.PartyZone) {
		s.zones[id] = true
	}
	return s
}

func (s Snapshot) role(id ecs.Entity) component.RoleKind { return s.roles[id] }

// ClassifyCollisions turns a batch of collision starts into mutations.
// Every rule reads the snapshot only, so nothing decided earlier in the
// batch changes what a later event sees. Each entity is mutated at most
// once per batch: the first event that claims it wins. Kill-resets bench
// a player only while more than one player would remain.
func ClassifyCollisions(s Snapshot, events []physics.CollisionStarted) []Mutation {
	var out []Mutation
	claimed := make(map[ecs.Entity]bool)
	remaining := s.players

	claim := func(m Mutation) {
		if claimed[m.Target] {
			return
		}
		claimed[m.Target] = true
		if m.Rule == RuleKillReset && remaining > 1 {
			m.Bench = true
		}
		if m.Bench || m.Rule == RuleParty {
			remaining--
		}
		out = append(out, m)
	}

	for _, ev := range events {
		for _, side := range [2][2]ecs.Entity{{ev.A, ev.B}, {ev.B, ev.A}} {
			a, b := side[0], side[1]
			if a == b || s.role(b) != component.RolePlayer {
				continue
			}
			if s.role(a) == component.RoleCollectable {
				claim(Mutation{Rule: RulePickup, Target: a})
			}
			if s.walls[a] {
				claim(Mutation{Rule: RuleKillReset, Target: b})
			}
			if s.zones[a] {
				claim(Mutation{Rule: RuleParty, Target: b})
			}
		}
	}
	return out
}

// ApplyMutations performs classified effects in order. Targets that died
// since the snapshot are skipped.
func ApplyMutations(w *ecs.World, roster *Roster, res *session.Resources, muts []Mutation, log *slog.Logger) {
	for _, m := range muts {
		e, ok := w.Entry(m.Target)
		if !ok {
			continue
		}
		switch m.Rule {
		case RulePickup:
			var pos mgl64.Vec3
			if e.HasComponent(component.Transform) {
				pos = component.Transform.Get(e).Position
			}
			w.SetRole(m.Target, component.PlayerRole(pos))
			log.Debug("collectable picked up", "entity", m.Target, "spawn", pos)

		case RuleKillReset:
			spawn, _ := w.RoleOf(m.Target).Spawn()
			if e.HasComponent(component.Transform) {
				component.Transform.Get(e).Position = spawn
			}
			if e.HasComponent(component.Velocity) {
				component.Velocity.Get(e).Linear = mgl64.Vec3{}
			}
			if m.Bench {
				w.SetRole(m.Target, component.NoRole())
			}
			log.Debug("player reset", "entity", m.Target, "benched", m.Bench)

		case RuleParty:
			roster.Admit(w, res, m.Target)
		}
	}
}

// RouteCollisions classifies and applies one tick's collision batch.
func RouteCollisions(w *ecs.World, roster *Roster, res *session.Resources, events []physics.CollisionStarted, log *slog.Logger) []Mutation {
	if len(events) == 0 {
		return nil
	}
	muts := ClassifyCollisions(TakeSnapshot(w), events)
	ApplyMutations(w, roster, res, muts, log)
	return muts
}
