package system

import (
	"log/slog"

	"partyherd/internal/component"
	"partyherd/internal/ecs"
	"partyherd/internal/material"
	"partyherd/internal/session"
)

// PartyCap is the most party animals kept in the world at once.
const PartyCap = 10

// Roster owns party animals in delivery order and evicts the oldest once
// the cap is reached. Evicted animals keep scoring through the session's
// despawned counter.
type Roster struct {
	order     []ecs.Entity
	materials *material.Assets
	log       *slog.Logger
}

// NewRoster creates an empty roster that tints animals from materials.
func NewRoster(materials *material.Assets, log *slog.Logger) *Roster {
	return &Roster{materials: materials, log: log}
}

// Admit turns id into a party animal, evicting the oldest visible animal
// first if the cap is already reached. It returns the evicted entity, or
// NilEntity.
func (r *Roster) Admit(w *ecs.World, res *session.Resources, id ecs.Entity) ecs.Entity {
	if !w.Alive(id) {
		return ecs.NilEntity
	}
	r.prune(w)

	evicted := ecs.NilEntity
	if Visible(w) >= PartyCap {
		evicted = r.evictOldest(w)
		if evicted != ecs.NilEntity {
			res.DespawnedPartyAnimals++
			r.log.Debug("party animal despawned", "entity", evicted, "despawned", res.DespawnedPartyAnimals)
		}
	}

	w.SetRole(id, component.PartyAnimalRole())
	if h, err := r.materials.Clone(res.PartyMaterial); err != nil {
		r.log.Warn("party tint unavailable", "err", err)
	} else {
		// Every scene material is owned by its entity; the shared tint is
		// never assigned directly.
		if old := ecs.Get(w, id, component.Material); old != nil && old.Handle != res.PartyMaterial {
			r.materials.Remove(old.Handle)
		}
		ecs.Set(w, id, component.Material, component.MaterialData{Handle: h})
	}
	r.order = append(r.order, id)
	return evicted
}

// Reset forgets delivery order, e.g. after the scene was torn down.
func (r *Roster) Reset() { r.order = nil }

// Visible reports how many party animals are in the world.
func Visible(w *ecs.World) int {
	return w.CountRole(component.RolePartyAnimal)
}

// Score is every party animal delivered this session, visible or despawned.
func Score(w *ecs.World, res *session.Resources) int {
	return Visible(w) + res.DespawnedPartyAnimals
}

// prune drops entries that are no longer live party animals.
func (r *Roster) prune(w *ecs.World) {
	kept := r.order[:0]
	for _, id := range r.order {
		if w.RoleOf(id).Kind() == component.RolePartyAnimal {
			kept = append(kept, id)
		}
	}
	r.order = kept
}

// evictOldest destroys the earliest delivered animal. Animals the roster
// never admitted are evicted only when it tracks none.
func (r *Roster) evictOldest(w *ecs.World) ecs.Entity {
	var victim ecs.Entity
	if len(r.order) > 0 {
		victim = r.order[0]
		r.order = r.order[1:]
	} else if strays := w.WithRole(component.RolePartyAnimal); len(strays) > 0 {
		victim = strays[0]
	} else {
		return ecs.NilEntity
	}
	if m := ecs.Get(w, victim, component.Material); m != nil {
		r.materials.Remove(m.Handle)
	}
	w.DestroyEntity(victim)
	return victim
}
