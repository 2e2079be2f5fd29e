// Package material is the render-side store of surface definitions.
// Entities hold handles into it; cloning gives an entity its own instance
// that can be edited or released without touching the shared definition.
package material

import "fmt"

// Handle identifies a stored material. The zero handle is never issued.
type Handle uint32

// Material is a flat surface description.
type Material struct {
	Name      string
	BaseColor string // "#rrggbb"
	Metallic  float64
	Roughness float64
}

// Assets owns every material of a game.
type Assets struct {
	next  Handle
	items map[Handle]Material
}

// NewAssets creates an empty store.
func NewAssets() *Assets {
	return &Assets{next: 1, items: make(map[Handle]Material)}
}

// Add stores m and returns its handle.
func (a *Assets) Add(m Material) Handle {
	h := a.next
	a.next++
	a.items[h] = m
	return h
}

// Get returns the material behind h.
func (a *Assets) Get(h Handle) (Material, bool) {
	m, ok := a.items[h]
	return m, ok
}

// Clone copies the material behind h into a fresh instance.
func (a *Assets) Clone(h Handle) (Handle, error) {
	m, ok := a.items[h]
	if !ok {
		return 0, fmt.Errorf("clone material %d: not found", h)
	}
	return a.Add(m), nil
}

// Remove releases h. Removing an unknown handle is a no-op.
func (a *Assets) Remove(h Handle) {
	delete(a.items, h)
}

// Len reports how many materials are stored.
func (a *Assets) Len() int { return len(a.items) }
