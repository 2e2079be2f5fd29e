// Package physics is the small rigid-body collaborator the herding rules
// run against: it integrates dynamic spheres under gravity, pushes them out
// of fixed boxes and each other, and reports pairs that start touching.
package physics

import (
	"math"

	"partyherd/internal/component"
	"partyherd/internal/ecs"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

// Gravity is the world's vertical acceleration.
const Gravity = -9.81

// CollisionStarted names an unordered pair of entities that began touching.
type CollisionStarted struct {
	A, B ecs.Entity
}

type pair [2]ecs.Entity

// body is one collider snapshotted for a step.
type body struct {
	id    ecs.Entity
	entry *donburi.Entry
	desc  component.BodyData
}

// Sim tracks contacts between steps.
type Sim struct {
	touching map[pair]bool
}

// New creates a Sim with no contacts.
func New() *Sim {
	return &Sim{touching: make(map[pair]bool)}
}

var bodyQuery = query.NewQuery(filter.Contains(component.Body, component.Transform))

// Step advances every body by dt seconds and returns the pairs that started
// touching during this step, in detection order.
func (s *Sim) Step(w *ecs.World, dt float64) []CollisionStarted {
	var dynamic, static []body
	bodyQuery.Each(w.Donburi(), func(e *donburi.Entry) {
		b := body{id: e.Entity(), entry: e, desc: component.Body.GetValue(e)}
		if b.desc.Kind == component.BodyDynamic {
			dynamic = append(dynamic, b)
		} else {
			static = append(static, b)
		}
	})

	for _, b := range dynamic {
		integrate(b, dt)
	}

	now := make(map[pair]bool)
	var started []CollisionStarted
	touch := func(a, b ecs.Entity) {
		k := pair{a, b}
		if now[k] {
			return
		}
		now[k] = true
		now[pair{b, a}] = true
		if !s.touching[k] {
			started = append(started, CollisionStarted{A: a, B: b})
		}
	}

	for i, a := range dynamic {
		for _, st := range static {
			if sphereBox(a, st, dt) {
				touch(a.id, st.id)
			}
		}
		for _, b := range dynamic[i+1:] {
			if sphereSphere(a, b) {
				touch(a.id, b.id)
			}
		}
	}

	s.touching = now
	return started
}

// Reset forgets every contact, e.g. after the scene was torn down.
func (s *Sim) Reset() {
	s.touching = make(map[pair]bool)
}

func integrate(b body, dt float64) {
	tf := component.Transform.Get(b.entry)
	if !b.entry.HasComponent(component.Velocity) {
		return
	}
	v := component.Velocity.Get(b.entry)
	v.Linear[1] += Gravity * b.desc.GravityScale * dt
	tf.Position = tf.Position.Add(v.Linear.Mul(dt))
}

// sphereBox tests a dynamic sphere against a fixed or sensor box and
// resolves solid contacts.
func sphereBox(s, box body, dt float64) bool {
	stf := component.Transform.Get(s.entry)
	btf := component.Transform.GetValue(box.entry)
	centre := btf.Position.Add(box.desc.Offset)
	half := box.desc.HalfExtents
	r := s.desc.Radius

	closest := mgl64.Vec3{
		clamp(stf.Position.X(), centre.X()-half.X(), centre.X()+half.X()),
		clamp(stf.Position.Y(), centre.Y()-half.Y(), centre.Y()+half.Y()),
		clamp(stf.Position.Z(), centre.Z()-half.Z(), centre.Z()+half.Z()),
	}
	d := stf.Position.Sub(closest)
	dist := d.Len()
	if dist >= r {
		return false
	}
	if box.desc.Kind == component.BodySensor {
		return true
	}

	var n mgl64.Vec3
	if dist > 1e-9 {
		n = d.Mul(1 / dist)
	} else {
		// Centre inside the box: leave through the nearest face.
		n = insideNormal(stf.Position.Sub(centre), half)
		dist = 0
	}
	stf.Position = stf.Position.Add(n.Mul(r - dist))

	if s.entry.HasComponent(component.Velocity) {
		v := component.Velocity.Get(s.entry)
		into := v.Linear.Dot(n)
		if into < 0 {
			restitution := math.Max(s.desc.Restitution, box.desc.Restitution)
			v.Linear = v.Linear.Sub(n.Mul((1 + restitution) * into))
		}
		friction := math.Max(s.desc.Friction, box.desc.Friction)
		tangent := v.Linear.Sub(n.Mul(v.Linear.Dot(n)))
		v.Linear = v.Linear.Sub(tangent.Mul(math.Min(1, friction*dt)))
	}
	return true
}

// sphereSphere tests two dynamic spheres and pushes them apart evenly.
func sphereSphere(a, b body) bool {
	atf := component.Transform.Get(a.entry)
	btf := component.Transform.Get(b.entry)
	d := btf.Position.Sub(atf.Position)
	dist := d.Len()
	reach := a.desc.Radius + b.desc.Radius
	if dist >= reach {
		return false
	}
	n := mgl64.Vec3{1, 0, 0}
	if dist > 1e-9 {
		n = d.Mul(1 / dist)
	}
	push := n.Mul((reach - dist) / 2)
	atf.Position = atf.Position.Sub(push)
	btf.Position = btf.Position.Add(push)
	return true
}

func insideNormal(local, half mgl64.Vec3) mgl64.Vec3 {
	best, axis := math.Inf(1), 1
	for i := 0; i < 3; i++ {
		if gap := half[i] - math.Abs(local[i]); gap < best {
			best, axis = gap, i
		}
	}
	var n mgl64.Vec3
	n[axis] = 1
	if local[axis] < 0 {
		n[axis] = -1
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
