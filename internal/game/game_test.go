package game

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"partyherd/internal/component"
	"partyherd/internal/config"
	"partyherd/internal/ecs"
	"partyherd/internal/material"
	"partyherd/internal/physics"
	"partyherd/internal/scene"
	"partyherd/internal/system"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// stubScene is a tiny level: one player, one collectable, a party zone,
// a kill wall off to the side and a goal.
type stubScene struct {
	loads       int
	player      ecs.Entity
	collectable ecs.Entity
	zone        ecs.Entity
	wall        ecs.Entity
	err         error
	// playerInZone starts the player inside the party zone sensor.
	playerInZone bool
	// deferGoal withholds the goal node; it is kept in goal.
	deferGoal bool
	goal      system.NodeEvent
}

func (s *stubScene) Load(w *ecs.World, materials *material.Assets) (ecs.Entity, []system.NodeEvent, error) {
	s.loads++
	if s.err != nil {
		return ecs.NilEntity, nil, s.err
	}
	node := func(name string, pos mgl64.Vec3, parent ecs.Entity) ecs.Entity {
		id := w.CreateEntity(component.Transform, component.Name)
		ecs.Set(w, id, component.Transform, component.NewTransform(pos))
		ecs.Set(w, id, component.Name, component.NameData{Value: name})
		if parent != ecs.NilEntity {
			ecs.Set(w, id, component.Parent, component.ParentData{Entity: parent})
		}
		return id
	}
	event := func(id ecs.Entity, children ...ecs.Entity) system.NodeEvent {
		return system.NodeEvent{
			Entity:    id,
			Name:      ecs.Get(w, id, component.Name).Value,
			Transform: *ecs.Get(w, id, component.Transform),
			Children:  children,
		}
	}

	root := node("Scene", mgl64.Vec3{}, ecs.NilEntity)
	level := node(system.NameLevel, mgl64.Vec3{}, root)
	s.wall = node("KillWall.East", mgl64.Vec3{30, 0, 0}, level)
	ecs.Set(w, s.wall, component.Mesh, component.MeshData{HalfExtents: mgl64.Vec3{1, 1, 1}})
	zoneEvent := func() system.NodeEvent { return event(s.zone) }
	if s.playerInZone {
		s.zone = node(system.NamePartyZone, mgl64.Vec3{}, root)
		pad := node("Dancefloor", mgl64.Vec3{}, s.zone)
		ecs.Set(w, pad, component.Mesh, component.MeshData{HalfExtents: mgl64.Vec3{2, 1, 2}})
		zoneEvent = func() system.NodeEvent { return event(s.zone, pad) }
	} else {
		s.zone = node(system.NamePartyZone, mgl64.Vec3{0, 0, -10}, root)
	}
	s.player = node(system.NamePlayer, mgl64.Vec3{0, 0, 0}, root)
	s.collectable = node("Collectable.001", mgl64.Vec3{2, 0, 2}, root)
	ecs.Set(w, s.collectable, component.Material, component.MaterialData{
		Handle: materials.Add(material.Material{Name: "fur", BaseColor: scene.AnimalColor}),
	})
	goal := node(system.NameGoal, mgl64.Vec3{0, 0, -20}, root)
	s.goal = event(goal)

	events := []system.NodeEvent{
		event(level, s.wall),
		zoneEvent(),
		event(s.player),
		event(s.collectable),
	}
	if !s.deferGoal {
		events = append(events, s.goal)
	}
	return root, events, nil
}

func newTestGame(t *testing.T, loader SceneLoader) (*Game, tcell.SimulationScreen) {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	ss.SetSize(80, 24)
	if err := ss.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(ss.Fini)

	cfg := config.Default()
	cfg.RunLogDir = t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, ss, loader, nil, log, time.Unix(0, 0)), ss
}

func keyPress(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestStartsInMainMenu(t *testing.T) {
	stub := &stubScene{}
	g, _ := newTestGame(t, stub)
	if g.State() != MainMenu {
		t.Fatalf("state = %v; want menu", g.State())
	}
	if stub.loads != 1 {
		t.Fatalf("loads = %d; want 1", stub.loads)
	}
	if g.world.RoleOf(stub.player).Kind() != component.RoleNone {
		t.Fatal("nodes must not be taken in before the first tick")
	}
}

func TestHerdingScenario(t *testing.T) {
	stub := &stubScene{}
	g, _ := newTestGame(t, stub)
	now := time.Unix(1, 0)

	g.Tick(0, now)
	if g.State() != InGame {
		t.Fatalf("goal signal should start the game; state = %v", g.State())
	}

	g.events = []physics.CollisionStarted{{A: stub.player, B: stub.collectable}}
	g.Tick(0, now)
	role := g.world.RoleOf(stub.collectable)
	if spawn, ok := role.Spawn(); !ok || spawn != (mgl64.Vec3{2, 0, 2}) {
		t.Fatalf("picked-up spawn = %v,%v; want (2,0,2)", spawn, ok)
	}
	if n := g.world.CountRole(component.RolePlayer); n != 2 {
		t.Fatalf("players = %d; want 2", n)
	}

	// The first player strays into the kill wall and is benched while
	// the new recruit carries on.
	g.events = []physics.CollisionStarted{{A: stub.wall, B: stub.player}}
	g.Tick(0, now)
	if g.world.RoleOf(stub.player).Kind() != component.RoleNone {
		t.Fatal("kill wall should bench a player while others remain")
	}
	if g.State() != InGame {
		t.Fatalf("state = %v; want herding", g.State())
	}

	g.events = []physics.CollisionStarted{{A: stub.collectable, B: stub.zone}}
	g.Tick(0, now)
	if g.world.RoleOf(stub.collectable).Kind() != component.RolePartyAnimal {
		t.Fatal("player should join the party")
	}
	if g.State() != GameOver {
		t.Fatalf("empty roster should end the game; state = %v", g.State())
	}
	if g.Score() != 1 {
		t.Fatalf("score = %d; want 1", g.Score())
	}

	later := now.Add(time.Second)
	g.input.HandleKey(keyPress('x'), later)
	g.Tick(0, later)
	if g.State() != MainMenu {
		t.Fatalf("any key should return to the menu; state = %v", g.State())
	}
	if g.res.DespawnedPartyAnimals != 0 {
		t.Fatalf("despawned = %d; want 0", g.res.DespawnedPartyAnimals)
	}
	if stub.loads != 2 {
		t.Fatalf("loads = %d; want 2", stub.loads)
	}
}

func TestRestartTearsDownScene(t *testing.T) {
	stub := &stubScene{}
	g, _ := newTestGame(t, stub)
	now := time.Unix(1, 0)
	g.Tick(0, now)
	old := stub.collectable
	g.events = []physics.CollisionStarted{{A: stub.player, B: stub.zone}}
	g.Tick(0, now)
	if g.State() != GameOver {
		t.Fatalf("state = %v; want game over", g.State())
	}
	g.res.DespawnedPartyAnimals = 3

	later := now.Add(time.Second)
	g.input.HandleKey(keyPress(' '), later)
	g.Tick(0, later)

	if g.world.Alive(old) {
		t.Fatal("old scene entities must be destroyed")
	}
	if g.res.DespawnedPartyAnimals != 0 {
		t.Fatalf("despawned = %d; want 0", g.res.DespawnedPartyAnimals)
	}
	if _, ok := system.CameraEntry(g.world); !ok {
		t.Fatal("camera must survive a restart")
	}
	// Party tint plus the fresh collectable's fur.
	if n := g.materials.Len(); n != 2 {
		t.Fatalf("materials = %d; want 2", n)
	}
	// Camera, banner and the seven nodes of the reloaded scene.
	if n := g.world.Len(); n != 9 {
		t.Fatalf("entities = %d; want 9", n)
	}
}

func TestGameOverWaitsForPress(t *testing.T) {
	stub := &stubScene{}
	g, _ := newTestGame(t, stub)
	now := time.Unix(1, 0)
	g.Tick(0, now)
	g.events = []physics.CollisionStarted{{A: stub.zone, B: stub.player}}
	g.Tick(0, now)

	for range 5 {
		g.Tick(16*time.Millisecond, now)
	}
	if g.State() != GameOver {
		t.Fatalf("state = %v; want game over until a key is pressed", g.State())
	}
}

func TestHeldKeyDoesNotSkipGameOver(t *testing.T) {
	stub := &stubScene{}
	g, _ := newTestGame(t, stub)
	now := time.Unix(1, 0)
	g.Tick(0, now)

	// Steering into the party zone with W held down.
	g.input.HandleKey(keyPress('w'), now)
	g.events = []physics.CollisionStarted{{A: stub.player, B: stub.zone}}
	g.Tick(0, now)
	if g.State() != GameOver {
		t.Fatalf("state = %v; want game over", g.State())
	}

	// Auto-repeat of the held key for a second.
	for i := 1; i <= 30; i++ {
		at := now.Add(time.Duration(i) * 33 * time.Millisecond)
		g.input.HandleKey(keyPress('w'), at)
		g.Tick(16*time.Millisecond, at)
		if g.State() != GameOver {
			t.Fatalf("repeat %d left game over; state = %v", i, g.State())
		}
	}

	// Released, then a fresh press.
	fresh := now.Add(2 * time.Second)
	g.input.HandleKey(keyPress('x'), fresh)
	g.Tick(16*time.Millisecond, fresh)
	if g.State() != MainMenu {
		t.Fatalf("fresh press should restart; state = %v", g.State())
	}
}

func TestContactsBeforePlayAreReported(t *testing.T) {
	stub := &stubScene{playerInZone: true, deferGoal: true}
	g, _ := newTestGame(t, stub)
	now := time.Unix(1, 0)

	// The level settles in the menu with the player already on the dancefloor.
	g.Tick(0, now)
	if g.State() != MainMenu {
		t.Fatalf("state = %v; want menu without a goal", g.State())
	}
	g.nodes = append(g.nodes, stub.goal)
	g.Tick(0, now)
	if g.State() != InGame {
		t.Fatalf("state = %v; want herding", g.State())
	}
	g.Tick(0, now)
	if g.world.RoleOf(stub.player).Kind() != component.RolePartyAnimal {
		t.Fatal("a contact that began before play should still deliver")
	}
	if g.State() != GameOver {
		t.Fatalf("state = %v; want game over", g.State())
	}
}

func TestDeliveredFurIsReleasedAcrossRestarts(t *testing.T) {
	stub := &stubScene{}
	g, _ := newTestGame(t, stub)
	now := time.Unix(1, 0)

	for round := range 4 {
		g.Tick(0, now)
		g.events = []physics.CollisionStarted{{A: stub.player, B: stub.collectable}}
		g.Tick(0, now)
		g.events = []physics.CollisionStarted{
			{A: stub.collectable, B: stub.zone},
			{A: stub.player, B: stub.zone},
		}
		g.Tick(0, now)
		if g.State() != GameOver {
			t.Fatalf("round %d: state = %v; want game over", round, g.State())
		}
		now = now.Add(time.Second)
		g.input.HandleKey(keyPress(' '), now)
		g.Tick(0, now)
		if g.State() != MainMenu {
			t.Fatalf("round %d: state = %v; want menu", round, g.State())
		}
	}
	// Party tint plus the fresh collectable's fur.
	if n := g.materials.Len(); n != 2 {
		t.Fatalf("materials after restarts = %d; want 2", n)
	}
}

func TestGameOverWritesRunLog(t *testing.T) {
	stub := &stubScene{}
	g, _ := newTestGame(t, stub)
	now := time.Unix(10, 0)
	g.Tick(0, now)
	g.events = []physics.CollisionStarted{{A: stub.player, B: stub.zone}}
	g.Tick(0, now)

	path, err := g.cfg.RunLogPath()
	if err != nil {
		t.Fatalf("RunLogPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("runs.jsonl not created: %v", err)
	}
	var entry RunLog
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("decode run log: %v", err)
	}
	if entry.Session != g.res.ID || entry.Score != 1 || entry.Duration != 10 {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestSaveRunLogAppendsMultiple(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.jsonl")
	for i := range 3 {
		if err := saveRunLog(path, RunLog{Score: i}); err != nil {
			t.Fatalf("saveRunLog: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("runs.jsonl not found: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("expected 3 log lines, got %d", len(lines))
	}
}

func TestSceneLoadFailureStaysInMenu(t *testing.T) {
	stub := &stubScene{err: errors.New("missing scene")}
	g, _ := newTestGame(t, stub)
	g.Tick(16*time.Millisecond, time.Unix(1, 0))
	if g.State() != MainMenu {
		t.Fatalf("state = %v; want menu", g.State())
	}
}

func TestBuiltinSceneStartsGame(t *testing.T) {
	g, ss := newTestGame(t, scene.NewBuiltin(scene.Config{Columns: 11, Rows: 5}))
	now := time.Unix(1, 0)
	g.Tick(16*time.Millisecond, now)
	if g.State() != InGame {
		t.Fatalf("state = %v; want herding", g.State())
	}
	if n := g.world.CountRole(component.RoleCollectable); n != 55 {
		t.Fatalf("collectables = %d; want 55", n)
	}
	for range 30 {
		now = now.Add(16 * time.Millisecond)
		g.Tick(16*time.Millisecond, now)
	}
	if g.State() != InGame {
		t.Fatalf("resting herd should keep playing; state = %v", g.State())
	}
	g.Draw()
	cells, w, _ := ss.GetContents()
	found := false
	for _, c := range cells[:w] {
		if len(c.Runes) > 0 && c.Runes[0] == 'H' {
			found = true
		}
	}
	if !found {
		t.Fatal("banner should be drawn on the top row")
	}
}

func TestEscapeQuits(t *testing.T) {
	g, _ := newTestGame(t, &stubScene{})
	g.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), time.Unix(1, 0))
	if !g.Quit() {
		t.Fatal("escape should quit")
	}
}

func TestKeyToAction(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want Action
	}{
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), ActionQuit},
		{tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModCtrl), ActionRedraw},
		{keyPress('w'), ActionNone},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), ActionNone},
	}
	for _, c := range cases {
		if got := keyToAction(c.ev); got != c.want {
			t.Errorf("keyToAction(%v) = %v; want %v", c.ev.Name(), got, c.want)
		}
	}
}

func TestRunStopsOnEscape(t *testing.T) {
	g, ss := newTestGame(t, &stubScene{})
	g.cfg.Tick = time.Millisecond

	errCh := make(chan error, 1)
	go func() { errCh <- g.Run(context.Background()) }()
	ss.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after escape")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	g, _ := newTestGame(t, &stubScene{})
	g.cfg.Tick = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- g.Run(ctx) }()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run = %v; want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
