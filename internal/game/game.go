// Package game runs one herding session: it owns the world, drives the
// per-tick rule systems in order and moves between the menu, the game and
// the game-over screen.
package game

import (
	"context"
	"log/slog"
	"time"

	"partyherd/internal/component"
	"partyherd/internal/config"
	"partyherd/internal/ecs"
	"partyherd/internal/input"
	"partyherd/internal/material"
	"partyherd/internal/physics"
	"partyherd/internal/render"
	"partyherd/internal/session"
	"partyherd/internal/system"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// PartyColor tints every animal that reached the party.
const PartyColor = "#ff5fd7"

// maxStep bounds one physics step after a stalled tick.
const maxStep = 100 * time.Millisecond

// cameraPitch tilts the camera down towards the herd.
const cameraPitch = -0.9

// SceneLoader creates the level in w and returns its root together with
// the node events to intake, in order.
type SceneLoader interface {
	Load(w *ecs.World, materials *material.Assets) (ecs.Entity, []system.NodeEvent, error)
}

// Game is the top-level orchestrator of one session.
type Game struct {
	cfg       config.Config
	log       *slog.Logger
	screen    tcell.Screen
	renderer  *render.Renderer
	world     *ecs.World
	materials *material.Assets
	physics   *physics.Sim
	input     *input.Aggregator
	roster    *system.Roster
	res       *session.Resources
	loader    SceneLoader

	state   AppState
	nodes   []system.NodeEvent
	events  []physics.CollisionStarted
	elapsed float64
	quit    bool
	last    RunLog
	// lastPress is when a key was last seen on the game-over screen. Key
	// repeats within cfg.KeyHold of it are a held key, not a restart.
	lastPress time.Time
}

// New creates a Game drawing to an initialised screen and enters the main
// menu, which loads the scene. pads may be nil.
func New(cfg config.Config, screen tcell.Screen, loader SceneLoader, pads input.GamepadSource, log *slog.Logger, now time.Time) *Game {
	materials := material.NewAssets()
	tint := materials.Add(material.Material{Name: "party", BaseColor: PartyColor, Roughness: 0.4})

	g := &Game{
		cfg:       cfg,
		log:       log,
		screen:    screen,
		renderer:  render.NewRenderer(screen, materials),
		world:     ecs.NewWorld(),
		materials: materials,
		physics:   physics.New(),
		input:     input.NewAggregator(pads, cfg.KeyHold),
		roster:    system.NewRoster(materials, log),
		res:       session.New(tint, now),
		loader:    loader,
	}
	g.spawnCamera()
	g.enterMainMenu(now)
	return g
}

// spawnCamera creates the camera outside the scene so it survives restarts.
func (g *Game) spawnCamera() {
	id := g.world.CreateEntity(component.Transform, component.Camera)
	ecs.Set(g.world, id, component.Transform, component.TransformData{
		Rotation: mgl64.QuatRotate(cameraPitch, mgl64.Vec3{1, 0, 0}),
	})
	ecs.Set(g.world, id, component.Camera, component.CameraData{Distance: g.cfg.CameraDistance})
}

// State reports the current application state.
func (g *Game) State() AppState { return g.state }

// Score is the party animals delivered this session, despawned included.
func (g *Game) Score() int { return system.Score(g.world, g.res) }

// Quit reports whether the player asked to leave.
func (g *Game) Quit() bool { return g.quit }

// World exposes the entity store.
func (g *Game) World() *ecs.World { return g.world }

// Tick advances the session by dt. Scene nodes and collision events that
// arrived since the previous tick are drained first; the physics step
// runs last and its events are handled on the next tick.
func (g *Game) Tick(dt time.Duration, now time.Time) {
	goalReady := g.intakeNodes()
	events := g.events
	g.events = nil
	frame := g.input.Sample(now)

	if g.state == InGame {
		roster := g.world.WithRole(component.RolePlayer)
		system.PlaceCamera(g.world, roster, g.log)
		system.ApplySteering(g.world, roster, frame.Steering, g.cfg.CharacterSpeed)
		system.RouteCollisions(g.world, g.roster, g.res, events, g.log)
		g.elapsed += dt.Seconds()
		system.BobPartyZones(g.world, g.elapsed)
	}

	switch g.state {
	case MainMenu:
		if goalReady {
			g.enterInGame()
		}
	case InGame:
		if g.world.CountRole(component.RolePlayer) == 0 {
			g.enterGameOver(now)
		}
	case GameOver:
		if frame.AnyPressed {
			if now.Sub(g.lastPress) >= g.cfg.KeyHold {
				g.enterMainMenu(now)
			} else {
				g.lastPress = now
			}
		}
	}

	g.events = append(g.events, g.physics.Step(g.world, min(dt, maxStep).Seconds())...)
}

// intakeNodes hands every pending scene node to the intake rules and
// reports whether the goal finished registering.
func (g *Game) intakeNodes() bool {
	goalReady := false
	for _, ev := range g.nodes {
		if !g.world.Alive(ev.Entity) {
			continue
		}
		if system.IntakeNode(g.world, ev, g.log) {
			goalReady = true
		}
	}
	g.nodes = nil
	return goalReady
}

// HandleEvent processes one terminal event.
func (g *Game) HandleEvent(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
		g.renderer.Resize()
	case *tcell.EventKey:
		switch keyToAction(ev) {
		case ActionQuit:
			g.log.Info("quit requested", "session", g.res.ID)
			g.quit = true
		case ActionRedraw:
			g.screen.Sync()
		default:
			g.input.HandleKey(ev, now)
		}
	}
}

// Draw renders the current frame.
func (g *Game) Draw() {
	focus, _ := system.CameraFocus(g.world)
	g.renderer.DrawFrame(g.world, focus, render.HUD{
		State:        g.state.String(),
		Players:      g.world.CountRole(component.RolePlayer),
		Collectables: g.world.CountRole(component.RoleCollectable),
		Score:        g.Score(),
	})
}

// Run ticks the game at the configured rate until the player quits, the
// screen closes or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	// Start an async input reader goroutine.
	eventCh := make(chan tcell.Event, 32)
	go func() {
		defer close(eventCh)
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventCh <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(g.cfg.Tick)
	defer ticker.Stop()
	last := time.Now()
	g.Draw()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-eventCh:
			if !ok {
				return nil // screen closed / disconnected
			}
			g.HandleEvent(ev, time.Now())
			if g.quit {
				return nil
			}
		case now := <-ticker.C:
			g.Tick(now.Sub(last), now)
			last = now
			g.Draw()
		}
	}
}
