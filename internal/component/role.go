package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// RoleKind names the herding role an entity currently plays.
type RoleKind uint8

const (
	RoleNone        RoleKind = iota // benched, left behind, or scenery
	RoleCollectable                 // loose, waiting to be picked up
	RolePlayer                      // under player control
	RolePartyAnimal                 // delivered to the party zone
)

func (k RoleKind) String() string {
	switch k {
	case RoleCollectable:
		return "collectable"
	case RolePlayer:
		return "player"
	case RolePartyAnimal:
		return "party-animal"
	default:
		return "none"
	}
}

// RoleData is the single role slot of an entity. Holding the role in one
// value means an entity can never be a collectable and a player at once.
// The spawn point is only carried by player roles.
type RoleData struct {
	kind  RoleKind
	spawn mgl64.Vec3
}

// NoRole clears the slot.
func NoRole() RoleData { return RoleData{} }

// CollectableRole marks a loose entity.
func CollectableRole() RoleData { return RoleData{kind: RoleCollectable} }

// PlayerRole marks a controlled entity that resets to spawn on a kill.
func PlayerRole(spawn mgl64.Vec3) RoleData {
	return RoleData{kind: RolePlayer, spawn: spawn}
}

// PartyAnimalRole marks a delivered entity.
func PartyAnimalRole() RoleData { return RoleData{kind: RolePartyAnimal} }

// Kind returns the role kind.
func (r RoleData) Kind() RoleKind { return r.kind }

// Spawn returns the recorded spawn position; ok is false unless the role
// is RolePlayer.
func (r RoleData) Spawn() (mgl64.Vec3, bool) {
	if r.kind != RolePlayer {
		return mgl64.Vec3{}, false
	}
	return r.spawn, true
}

var Role = donburi.NewComponentType[RoleData]()
