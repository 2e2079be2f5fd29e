// Package session holds the state that lives for one game session: the
// party tint, the UI and scene roots, and the despawned-animal counter.
// Only the flow controller and the party roster receive it.
package session

import (
	"time"

	"partyherd/internal/ecs"
	"partyherd/internal/material"

	"github.com/google/uuid"
)

// Resources is the per-session singleton.
type Resources struct {
	ID            uuid.UUID
	StartedAt     time.Time
	PartyMaterial material.Handle
	UIRoot        ecs.Entity
	SceneRoot     ecs.Entity
	// DespawnedPartyAnimals counts party animals removed to respect the
	// display cap. They still score.
	DespawnedPartyAnimals int
}

// New creates resources bound to the given party tint.
func New(partyMaterial material.Handle, now time.Time) *Resources {
	return &Resources{
		ID:            uuid.New(),
		StartedAt:     now,
		PartyMaterial: partyMaterial,
		UIRoot:        ecs.NilEntity,
		SceneRoot:     ecs.NilEntity,
	}
}

// Reset starts a fresh session. The party tint definition survives; the
// roots are forgotten and the counter returns to zero.
func (r *Resources) Reset(now time.Time) {
	r.ID = uuid.New()
	r.StartedAt = now
	r.UIRoot = ecs.NilEntity
	r.SceneRoot = ecs.NilEntity
	r.DespawnedPartyAnimals = 0
}
