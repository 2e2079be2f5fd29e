package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// BodyKind selects how the physics collaborator treats a body.
type BodyKind uint8

const (
	BodyDynamic BodyKind = iota // integrated, pushed out of fixed bodies
	BodyFixed                   // immovable, solid
	BodySensor                  // immovable, reports contacts only
)

// ShapeKind selects the collider shape.
type ShapeKind uint8

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
)

// BodyData is the physics descriptor attached to tagged entities.
type BodyData struct {
	Kind         BodyKind
	Shape        ShapeKind
	Radius       float64    // ShapeSphere
	HalfExtents  mgl64.Vec3 // ShapeBox
	Offset       mgl64.Vec3 // collider centre relative to the transform
	Restitution  float64
	Friction     float64
	GravityScale float64
}

// Sphere describes a dynamic ball collider.
func Sphere(radius float64) BodyData {
	return BodyData{
		Kind:         BodyDynamic,
		Shape:        ShapeSphere,
		Radius:       radius,
		Restitution:  0.1,
		Friction:     0.5,
		GravityScale: 1,
	}
}

// Box describes an immovable box collider.
func Box(kind BodyKind, half, offset mgl64.Vec3) BodyData {
	return BodyData{
		Kind:        kind,
		Shape:       ShapeBox,
		HalfExtents: half,
		Offset:      offset,
		Friction:    0.7,
	}
}

var Body = donburi.NewComponentType[BodyData]()

// MeshData is renderable geometry carried by scene nodes. Groups derive
// their colliders from the meshes of their children.
type MeshData struct {
	HalfExtents mgl64.Vec3
}

var Mesh = donburi.NewComponentType[MeshData]()
