package component

import (
	"partyherd/internal/material"

	"github.com/yohamta/donburi"
)

// CameraData holds how far behind its focus point the camera sits.
type CameraData struct {
	Distance float64
}

var Camera = donburi.NewComponentType[CameraData]()

// MaterialData references a material in the material store.
type MaterialData struct {
	Handle material.Handle
}

var Material = donburi.NewComponentType[MaterialData]()

// RenderableData is the glyph drawn for an entity by the terminal view.
type RenderableData struct {
	Glyph       string
	RenderOrder int
}

var Renderable = donburi.NewComponentType[RenderableData]()

// BannerData is the text carried by a UI root entity.
type BannerData struct {
	Text string
}

var Banner = donburi.NewComponentType[BannerData]()
