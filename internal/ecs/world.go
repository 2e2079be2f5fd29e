// Package ecs is the world model: entity storage, the role slot and the
// queries every gameplay rule runs against. Storage is a donburi world.
package ecs

import (
	"partyherd/internal/component"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

// World is the central entity registry and component store.
type World struct {
	dw donburi.World
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{dw: donburi.NewWorld()}
}

// Donburi exposes the underlying donburi world for typed queries.
func (w *World) Donburi() donburi.World { return w.dw }

// CreateEntity mints a new entity carrying the given component types.
func (w *World) CreateEntity(types ...donburi.IComponentType) Entity {
	return w.dw.Create(types...)
}

// Entry returns the entry for id, or false if id is not alive.
func (w *World) Entry(id Entity) (*donburi.Entry, bool) {
	if id == NilEntity || !w.dw.Valid(id) {
		return nil, false
	}
	return w.dw.Entry(id), true
}

// Alive reports whether the entity is alive.
func (w *World) Alive(id Entity) bool {
	return id != NilEntity && w.dw.Valid(id)
}

// DestroyEntity removes the entity and all its components.
func (w *World) DestroyEntity(id Entity) {
	if !w.Alive(id) {
		return
	}
	w.dw.Remove(id)
}

// Tree returns root and every alive entity parented under it, at any depth.
func (w *World) Tree(root Entity) []Entity {
	if !w.Alive(root) {
		return nil
	}
	children := make(map[Entity][]Entity)
	query.NewQuery(filter.Contains(component.Parent)).Each(w.dw, func(e *donburi.Entry) {
		p := component.Parent.Get(e).Entity
		children[p] = append(children[p], e.Entity())
	})

	var tree []Entity
	stack := []Entity{root}
	seen := map[Entity]bool{root: true}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if w.Alive(id) {
			tree = append(tree, id)
		}
		for _, c := range children[id] {
			if !seen[c] {
				seen[c] = true
				stack = append(stack, c)
			}
		}
	}
	return tree
}

// DestroyTree removes root and every entity parented under it. It returns
// how many entities were removed.
func (w *World) DestroyTree(root Entity) int {
	n := 0
	for _, id := range w.Tree(root) {
		if w.Alive(id) {
			w.dw.Remove(id)
			n++
		}
	}
	return n
}

// Has reports whether entity id carries component type t.
func (w *World) Has(id Entity, t donburi.IComponentType) bool {
	e, ok := w.Entry(id)
	return ok && e.HasComponent(t)
}

// Query returns all alive entities that carry every listed component type.
func (w *World) Query(types ...donburi.IComponentType) []Entity {
	if len(types) == 0 {
		return nil
	}
	var result []Entity
	query.NewQuery(filter.Contains(types...)).Each(w.dw, func(e *donburi.Entry) {
		result = append(result, e.Entity())
	})
	return result
}

// Len reports how many entities are alive.
func (w *World) Len() int { return w.dw.Len() }
