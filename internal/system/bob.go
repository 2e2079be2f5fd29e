package system

import (
	"math"

	"partyherd/internal/component"
	"partyherd/internal/ecs"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

const (
	bobAmplitude = 0.25
	bobSpeed     = 2.0
)

var zoneQuery = query.NewQuery(filter.Contains(component.PartyZone, component.Transform))

// BobPartyZones floats every party zone around its rest position.
// elapsed is seconds since the scene loaded.
func BobPartyZones(w *ecs.World, elapsed float64) {
	zoneQuery.Each(w.Donburi(), func(e *donburi.Entry) {
		rest := component.PartyZone.Get(e).BobPosition
		tf := component.Transform.Get(e)
		tf.Position = rest
		tf.Position[1] += bobAmplitude * math.Sin(elapsed*bobSpeed)
	})
}
