package game

import (
	"fmt"
	"time"

	"partyherd/internal/component"
	"partyherd/internal/ecs"
	"partyherd/internal/system"
)

// AppState tracks the main state machine.
type AppState uint8

const (
	MainMenu AppState = iota
	InGame
	GameOver
)

func (s AppState) String() string {
	switch s {
	case MainMenu:
		return "menu"
	case InGame:
		return "herding"
	case GameOver:
		return "game over"
	}
	return "unknown"
}

// enterMainMenu tears down the previous scene, starts a fresh session and
// asks the loader for a new level. The nodes are taken in on the next tick.
func (g *Game) enterMainMenu(now time.Time) {
	g.teardown()
	g.res.Reset(now)
	g.roster.Reset()
	g.physics.Reset()
	g.input.Reset()
	g.events = nil
	g.elapsed = 0

	root, nodes, err := g.loader.Load(g.world, g.materials)
	if err != nil {
		g.log.Error("scene load failed", "session", g.res.ID, "err", err)
	} else {
		g.res.SceneRoot = root
		g.nodes = nodes
	}
	g.setState(MainMenu, "🐾 Party Herd 🐾  loading the field...")
}

func (g *Game) enterInGame() {
	// Report contacts that began while the level was settling.
	g.physics.Reset()
	g.setState(InGame, "Herd every animal to the party! 🎉")
}

func (g *Game) enterGameOver(now time.Time) {
	score := g.Score()
	// TODO: count every herdable animal at load time; this total is the
	// score itself, so a full clear never triggers.
	potential := system.Visible(g.world) + g.res.DespawnedPartyAnimals
	fullClear := score == potential-1

	g.last = RunLog{
		Session:   g.res.ID,
		EndedAt:   now,
		Duration:  now.Sub(g.res.StartedAt).Seconds(),
		Score:     score,
		Despawned: g.res.DespawnedPartyAnimals,
		FullClear: fullClear,
	}
	g.recordRun(g.last)

	// Keys still held from the last run must be released before a press
	// can restart.
	g.input.Reset()
	g.lastPress = now

	banner := fmt.Sprintf("Game over! %d at the party. Press any key.", score)
	if fullClear {
		banner = fmt.Sprintf("Everyone made it! %d at the party. Press any key.", score)
	}
	g.setState(GameOver, banner)
}

// setState switches state and replaces the UI root with a new banner.
func (g *Game) setState(s AppState, banner string) {
	if g.res.UIRoot != ecs.NilEntity {
		g.world.DestroyTree(g.res.UIRoot)
	}
	ui := g.world.CreateEntity(component.Banner)
	ecs.Set(g.world, ui, component.Banner, component.BannerData{Text: banner})
	g.res.UIRoot = ui

	g.log.Info("state changed", "session", g.res.ID, "from", g.state, "to", s, "score", g.Score())
	g.state = s
}

// teardown destroys the scene and UI roots and everything under them,
// releasing the materials their entities owned.
func (g *Game) teardown() {
	if root := g.res.SceneRoot; root != ecs.NilEntity {
		for _, id := range g.world.Tree(root) {
			if m := ecs.Get(g.world, id, component.Material); m != nil {
				g.materials.Remove(m.Handle)
			}
		}
		n := g.world.DestroyTree(root)
		g.log.Debug("scene torn down", "session", g.res.ID, "entities", n, "remaining", g.world.Len())
	}
	if g.res.UIRoot != ecs.NilEntity {
		g.world.DestroyTree(g.res.UIRoot)
	}
}

func (g *Game) recordRun(entry RunLog) {
	path, err := g.cfg.RunLogPath()
	if err == nil {
		err = saveRunLog(path, entry)
	}
	if err != nil {
		g.log.Warn("run log not saved", "session", entry.Session, "err", err)
		return
	}
	g.log.Debug("run log saved", "path", path)
}
