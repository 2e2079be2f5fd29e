package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// NameData is the node name assigned by the scene loader.
type NameData struct {
	Value string
}

var Name = donburi.NewComponentType[NameData]()

// ParentData links a scene node to the node it hangs under.
type ParentData struct {
	Entity donburi.Entity
}

var Parent = donburi.NewComponentType[ParentData]()

// KillWall marks boundary volumes that reset players.
var KillWall = donburi.NewComponentType[struct{}]()

// Goal marks the goal geometry whose arrival starts the game.
var Goal = donburi.NewComponentType[struct{}]()

// PartyZoneData marks a delivery volume. BobPosition is its rest position.
type PartyZoneData struct {
	BobPosition mgl64.Vec3
}

var PartyZone = donburi.NewComponentType[PartyZoneData]()
