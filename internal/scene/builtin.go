// Package scene builds the herding level: a floor ringed by kill walls, a
// party zone, the goal, the starting player and a grid of loose animals.
// It plays the part of the scene loader, creating the node hierarchy and
// announcing each node for intake.
package scene

import (
	"math/rand"

	"partyherd/internal/component"
	"partyherd/internal/ecs"
	"partyherd/internal/material"
	"partyherd/internal/system"

	"github.com/go-gl/mathgl/mgl64"
)

// AnimalColor is the base fur colour of every animal.
const AnimalColor = "#ffd891"

// AnimalGlyphs are the faces handed out to animals.
var AnimalGlyphs = []string{"🐱", "🐶", "🐰", "🦊", "🐷", "🐮", "🐸", "🐔", "🐭", "🐹"}

// Config describes the built-in level.
type Config struct {
	Columns int     // collectables per row
	Rows    int     // rows of collectables
	Spacing float64 // distance between grid neighbours
	Rand    *rand.Rand
}

// Builtin is the built-in level loader.
type Builtin struct {
	cfg Config
}

// NewBuiltin creates a loader for cfg.
func NewBuiltin(cfg Config) *Builtin {
	if cfg.Spacing == 0 {
		cfg.Spacing = 2
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	return &Builtin{cfg: cfg}
}

// builder accumulates the nodes of one load.
type builder struct {
	w         *ecs.World
	materials *material.Assets
	events    []system.NodeEvent
}

func (b *builder) node(name string, pos mgl64.Vec3, parent ecs.Entity) ecs.Entity {
	id := b.w.CreateEntity(component.Transform, component.Name, component.Parent)
	ecs.Set(b.w, id, component.Transform, component.NewTransform(pos))
	ecs.Set(b.w, id, component.Name, component.NameData{Value: name})
	ecs.Set(b.w, id, component.Parent, component.ParentData{Entity: parent})
	return id
}

func (b *builder) mesh(name string, pos, half mgl64.Vec3, parent ecs.Entity) ecs.Entity {
	id := b.node(name, pos, parent)
	ecs.Set(b.w, id, component.Mesh, component.MeshData{HalfExtents: half})
	return id
}

func (b *builder) announce(id ecs.Entity, children ...ecs.Entity) {
	b.events = append(b.events, system.NodeEvent{
		Entity:    id,
		Name:      ecs.Get(b.w, id, component.Name).Value,
		Transform: *ecs.Get(b.w, id, component.Transform),
		Children:  children,
	})
}

func (b *builder) animal(name, glyph string, pos mgl64.Vec3, mat material.Material, parent ecs.Entity) ecs.Entity {
	id := b.mesh(name, pos, mgl64.Vec3{0.5, 0.5, 0.5}, parent)
	ecs.Set(b.w, id, component.Renderable, component.RenderableData{Glyph: glyph, RenderOrder: 10})
	ecs.Set(b.w, id, component.Material, component.MaterialData{Handle: b.materials.Add(mat)})
	return id
}

// Load creates the level under a new root and returns the root together
// with the node events in intake order. The goal is announced last.
func (l *Builtin) Load(w *ecs.World, materials *material.Assets) (ecs.Entity, []system.NodeEvent, error) {
	b := &builder{w: w, materials: materials}
	root := w.CreateEntity(component.Transform, component.Name)
	ecs.Set(w, root, component.Transform, component.NewTransform(mgl64.Vec3{}))
	ecs.Set(w, root, component.Name, component.NameData{Value: "Scene"})

	cols, rows := l.cfg.Columns, l.cfg.Rows
	halfX := float64(cols)*l.cfg.Spacing/2 + 6
	halfZ := float64(rows)*l.cfg.Spacing/2 + 14

	level := b.node(system.NameLevel, mgl64.Vec3{}, root)
	floor := b.mesh("Floor", mgl64.Vec3{0, -0.5, 0}, mgl64.Vec3{halfX, 0.5, halfZ}, level)
	ecs.Set(w, floor, component.Renderable, component.RenderableData{Glyph: "·", RenderOrder: 0})
	below := b.mesh(system.NameKillWall+".Below", mgl64.Vec3{0, -12, 0}, mgl64.Vec3{halfX * 3, 1, halfZ * 3}, level)
	b.announce(level, floor, below)

	zonePos := mgl64.Vec3{0, 0.5, -halfZ + 5}
	zone := b.node(system.NamePartyZone, zonePos, root)
	pad := b.mesh("Dancefloor", zonePos, mgl64.Vec3{3, 1, 3}, zone)
	ecs.Set(w, zone, component.Renderable, component.RenderableData{Glyph: "🎉", RenderOrder: 2})
	b.announce(zone, pad)

	spawn := mgl64.Vec3{0, 0.5, halfZ - 4}
	player := b.animal(system.NamePlayer, "🐕", spawn, material.Material{Name: "player", BaseColor: AnimalColor}, root)
	b.announce(player)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			gx := float64(x) - float64(cols-1)/2
			gy := float64(y) - float64(rows-1)/2
			mat := material.Material{
				Name:      "fur",
				BaseColor: AnimalColor,
				Metallic:  ratio(y, rows),
				Roughness: ratio(x, cols),
			}
			pos := mgl64.Vec3{gx * l.cfg.Spacing, 0.5, gy * l.cfg.Spacing}
			glyph := AnimalGlyphs[l.cfg.Rand.Intn(len(AnimalGlyphs))]
			c := b.animal(system.NameCollectable, glyph, pos, mat, root)
			b.announce(c)
		}
	}

	goalPos := mgl64.Vec3{0, 1, -halfZ + 1}
	goal := b.node(system.NameGoal, goalPos, root)
	post := b.mesh("Arch", goalPos, mgl64.Vec3{3, 1, 0.5}, goal)
	ecs.Set(w, goal, component.Renderable, component.RenderableData{Glyph: "🥅", RenderOrder: 1})
	b.announce(goal, post)

	return root, b.events, nil
}

func ratio(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
