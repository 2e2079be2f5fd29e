package system

import (
	"log/slog"
	"math"
	"strings"

	"partyherd/internal/component"
	"partyherd/internal/ecs"

	"github.com/go-gl/mathgl/mgl64"
)

// Scene node names the intake recognises.
const (
	NamePlayer      = "Player"
	NameCollectable = "Collectable"
	NameLevel       = "Level"
	NameKillWall    = "KillWall"
	NamePartyZone   = "PartyZone"
	NameGoal        = "Goal"
)

const animalRadius = 0.5

// NodeEvent announces that a scene node became available.
type NodeEvent struct {
	Entity    ecs.Entity
	Name      string
	Transform component.TransformData
	Children  []ecs.Entity
}

// IntakeNode assigns roles, tags and physics descriptors to a freshly
// loaded node. It reports true when the node was the goal and its colliders
// are now registered. Groups without mesh children get no collider.
func IntakeNode(w *ecs.World, ev NodeEvent, log *slog.Logger) (goalReady bool) {
	if !w.Alive(ev.Entity) {
		log.Debug("scene node vanished before intake", "name", ev.Name)
		return false
	}

	switch {
	case ev.Name == NamePlayer:
		w.SetRole(ev.Entity, component.PlayerRole(ev.Transform.Position))
		attachAnimalBody(w, ev.Entity)

	case strings.Contains(ev.Name, NameCollectable):
		w.SetRole(ev.Entity, component.CollectableRole())
		attachAnimalBody(w, ev.Entity)

	case ev.Name == NameLevel:
		n := 0
		for _, child := range ev.Children {
			mesh := ecs.Get(w, child, component.Mesh)
			if mesh == nil {
				continue
			}
			kind := component.BodyFixed
			if name := ecs.Get(w, child, component.Name); name != nil && strings.Contains(name.Value, NameKillWall) {
				kind = component.BodySensor
				ecs.Set(w, child, component.KillWall, struct{}{})
			}
			ecs.Set(w, child, component.Body, component.Box(kind, mesh.HalfExtents, mgl64.Vec3{}))
			n++
		}
		if n == 0 {
			log.Warn("level has no mesh children; no colliders attached")
		}

	case ev.Name == NamePartyZone:
		ecs.Set(w, ev.Entity, component.PartyZone, component.PartyZoneData{BobPosition: ev.Transform.Position})
		attachGroupBox(w, ev, component.BodySensor, log)

	case ev.Name == NameGoal:
		ecs.Set(w, ev.Entity, component.Goal, struct{}{})
		attachGroupBox(w, ev, component.BodyFixed, log)
		return true
	}
	return false
}

func attachAnimalBody(w *ecs.World, id ecs.Entity) {
	ecs.Set(w, id, component.Body, component.Sphere(animalRadius))
	if !w.Has(id, component.Velocity) {
		ecs.Set(w, id, component.Velocity, component.VelocityData{})
	}
}

// attachGroupBox gives a group one box collider bounding its mesh children.
func attachGroupBox(w *ecs.World, ev NodeEvent, kind component.BodyKind, log *slog.Logger) {
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	found := false
	for _, child := range ev.Children {
		mesh := ecs.Get(w, child, component.Mesh)
		pos, ok := w.Position(child)
		if mesh == nil || !ok {
			continue
		}
		found = true
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], pos[i]-mesh.HalfExtents[i])
			hi[i] = math.Max(hi[i], pos[i]+mesh.HalfExtents[i])
		}
	}
	if !found {
		log.Warn("group has no mesh children; collider skipped", "name", ev.Name)
		return
	}
	half := hi.Sub(lo).Mul(0.5)
	offset := lo.Add(half).Sub(ev.Transform.Position)
	ecs.Set(w, ev.Entity, component.Body, component.Box(kind, half, offset))
}
