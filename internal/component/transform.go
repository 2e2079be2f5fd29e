package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// Forward is the local facing direction of every entity (right-handed, -Z).
var Forward = mgl64.Vec3{0, 0, -1}

// Up is the world vertical axis.
var Up = mgl64.Vec3{0, 1, 0}

// TransformData is an entity's world placement.
type TransformData struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform places an entity at pos with identity rotation.
func NewTransform(pos mgl64.Vec3) TransformData {
	return TransformData{Position: pos, Rotation: mgl64.QuatIdent()}
}

// Yaw returns the heading of the transform's forward vector around Up.
// Zero faces -Z; positive turns towards -X.
func (t TransformData) Yaw() float64 {
	f := t.Rotation.Rotate(Forward)
	return math.Atan2(-f.X(), -f.Z())
}

// YawRotation builds a rotation turning Forward by yaw radians around Up.
func YawRotation(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, Up)
}

var Transform = donburi.NewComponentType[TransformData]()

// VelocityData is the linear velocity of a dynamic body.
type VelocityData struct {
	Linear mgl64.Vec3
}

var Velocity = donburi.NewComponentType[VelocityData]()
