package ecs

import "github.com/yohamta/donburi"

// Entity identifies an entity in the world.
type Entity = donburi.Entity

// NilEntity is the zero value. No live entity has this ID.
var NilEntity = donburi.Null
