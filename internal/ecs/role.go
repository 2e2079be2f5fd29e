package ecs

import (
	"partyherd/internal/component"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

var roleQuery = query.NewQuery(filter.Contains(component.Role))

// SetRole replaces the role slot of id in one step. It reports false if id
// is not alive.
func (w *World) SetRole(id Entity, r component.RoleData) bool {
	e, ok := w.Entry(id)
	if !ok {
		return false
	}
	if !e.HasComponent(component.Role) {
		e.AddComponent(component.Role)
	}
	component.Role.SetValue(e, r)
	return true
}

// RoleOf returns the role of id. Dead entities and entities without a role
// slot report RoleNone.
func (w *World) RoleOf(id Entity) component.RoleData {
	e, ok := w.Entry(id)
	if !ok || !e.HasComponent(component.Role) {
		return component.NoRole()
	}
	return component.Role.GetValue(e)
}

// WithRole returns every alive entity currently holding role kind k.
func (w *World) WithRole(k component.RoleKind) []Entity {
	var out []Entity
	roleQuery.Each(w.dw, func(e *donburi.Entry) {
		if component.Role.Get(e).Kind() == k {
			out = append(out, e.Entity())
		}
	})
	return out
}

// CountRole reports how many entities hold role kind k.
func (w *World) CountRole(k component.RoleKind) int {
	n := 0
	roleQuery.Each(w.dw, func(e *donburi.Entry) {
		if component.Role.Get(e).Kind() == k {
			n++
		}
	})
	return n
}

// Position returns the world position of id.
func (w *World) Position(id Entity) (mgl64.Vec3, bool) {
	e, ok := w.Entry(id)
	if !ok || !e.HasComponent(component.Transform) {
		return mgl64.Vec3{}, false
	}
	return component.Transform.Get(e).Position, true
}

// Set attaches c to id if missing and stores v in it.
func Set[T any](w *World, id Entity, c *donburi.ComponentType[T], v T) bool {
	e, ok := w.Entry(id)
	if !ok {
		return false
	}
	if !e.HasComponent(c) {
		e.AddComponent(c)
	}
	c.SetValue(e, v)
	return true
}

// Get returns a pointer to id's c component, or nil.
func Get[T any](w *World, id Entity, c *donburi.ComponentType[T]) *T {
	e, ok := w.Entry(id)
	if !ok || !e.HasComponent(c) {
		return nil
	}
	return c.Get(e)
}
