package system

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"partyherd/internal/component"
	"partyherd/internal/ecs"
	"partyherd/internal/material"
	"partyherd/internal/session"

	"github.com/go-gl/mathgl/mgl64"
)

// rig bundles a world with the session pieces the rules need.
type rig struct {
	w         *ecs.World
	materials *material.Assets
	res       *session.Resources
	roster    *Roster
	log       *slog.Logger
}

func newRig(t *testing.T) *rig {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	materials := material.NewAssets()
	tint := materials.Add(material.Material{Name: "party", BaseColor: "#ff5fd7"})
	return &rig{
		w:         ecs.NewWorld(),
		materials: materials,
		res:       session.New(tint, time.Unix(0, 0)),
		roster:    NewRoster(materials, log),
		log:       log,
	}
}

func (r *rig) animal(role component.RoleData, pos mgl64.Vec3) ecs.Entity {
	id := r.w.CreateEntity(component.Transform, component.Velocity)
	ecs.Set(r.w, id, component.Transform, component.NewTransform(pos))
	r.w.SetRole(id, role)
	return id
}

func (r *rig) player(pos mgl64.Vec3) ecs.Entity {
	return r.animal(component.PlayerRole(pos), pos)
}

func (r *rig) collectable(pos mgl64.Vec3) ecs.Entity {
	return r.animal(component.CollectableRole(), pos)
}

func (r *rig) killWall() ecs.Entity {
	return r.w.CreateEntity(component.Transform, component.KillWall)
}

func (r *rig) partyZone() ecs.Entity {
	id := r.w.CreateEntity(component.Transform)
	ecs.Set(r.w, id, component.PartyZone, component.PartyZoneData{})
	return id
}

func (r *rig) camera(rot mgl64.Quat, dist float64) ecs.Entity {
	id := r.w.CreateEntity(component.Transform, component.Camera)
	ecs.Set(r.w, id, component.Transform, component.TransformData{Rotation: rot})
	ecs.Set(r.w, id, component.Camera, component.CameraData{Distance: dist})
	return id
}
