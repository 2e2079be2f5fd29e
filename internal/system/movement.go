package system

import (
	"log/slog"
	"math"

	"partyherd/internal/component"
	"partyherd/internal/ecs"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

const (
	// LeashRadius is how far a player may stray from the herd's centroid
	// before it is dropped from the roster.
	LeashRadius = 20.0
	// FacingThreshold is the steering magnitude above which players turn to
	// face their direction of travel.
	FacingThreshold = 0.25
)

var cameraQuery = query.NewQuery(filter.Contains(component.Camera, component.Transform))

// Centroid returns the mean position of ids. ok is false for an empty set.
func Centroid(w *ecs.World, ids []ecs.Entity) (c mgl64.Vec3, ok bool) {
	n := 0
	for _, id := range ids {
		if pos, found := w.Position(id); found {
			c = c.Add(pos)
			n++
		}
	}
	if n == 0 {
		return mgl64.Vec3{}, false
	}
	return c.Mul(1 / float64(n)), true
}

// CameraEntry returns the camera entity.
func CameraEntry(w *ecs.World) (*donburi.Entry, bool) {
	return cameraQuery.First(w.Donburi())
}

// CameraFocus returns the point the camera is looking at.
func CameraFocus(w *ecs.World) (mgl64.Vec3, bool) {
	cam, ok := CameraEntry(w)
	if !ok {
		return mgl64.Vec3{}, false
	}
	tf := component.Transform.Get(cam)
	dist := component.Camera.Get(cam).Distance
	return tf.Position.Sub(tf.Rotation.Rotate(mgl64.Vec3{0, 0, dist})), true
}

// PlaceCamera re-centres the camera on the roster and leashes stragglers.
// The camera keeps its orientation and sits Distance behind the centroid
// along its own view axis. With an empty roster the camera holds still.
// It returns the number of players dropped by the leash.
func PlaceCamera(w *ecs.World, roster []ecs.Entity, log *slog.Logger) int {
	centroid, ok := Centroid(w, roster)
	if !ok {
		return 0
	}
	if cam, found := CameraEntry(w); found {
		tf := component.Transform.Get(cam)
		dist := component.Camera.Get(cam).Distance
		tf.Position = centroid.Add(tf.Rotation.Rotate(mgl64.Vec3{0, 0, dist}))
	}

	dropped := 0
	for _, id := range roster {
		pos, found := w.Position(id)
		if !found || pos.Sub(centroid).Len() <= LeashRadius {
			continue
		}
		w.SetRole(id, component.NoRole())
		dropped++
		log.Debug("player left behind", "entity", id, "distance", pos.Sub(centroid).Len())
	}
	return dropped
}

// ApplySteering turns the local steering vector into world space by the
// camera's yaw and sets every roster member's horizontal velocity from it.
// Vertical velocity belongs to physics and is kept.
func ApplySteering(w *ecs.World, roster []ecs.Entity, steering mgl64.Vec2, speed float64) {
	yaw := 0.0
	if cam, found := CameraEntry(w); found {
		yaw = component.Transform.Get(cam).Yaw()
	}
	dir := component.YawRotation(yaw).Rotate(mgl64.Vec3{steering.X(), 0, -steering.Y()})
	turn := dir.Len() > FacingThreshold
	heading := math.Atan2(-dir.X(), -dir.Z())

	for _, id := range roster {
		e, ok := w.Entry(id)
		if !ok {
			continue
		}
		if e.HasComponent(component.Velocity) {
			v := component.Velocity.Get(e)
			v.Linear = mgl64.Vec3{dir.X() * speed, v.Linear.Y(), dir.Z() * speed}
		}
		if turn && e.HasComponent(component.Transform) {
			component.Transform.Get(e).Rotation = component.YawRotation(heading)
		}
	}
}
