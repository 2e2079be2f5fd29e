package render

import (
	"sort"

	"partyherd/internal/component"
	"partyherd/internal/ecs"
	"partyherd/internal/material"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/mattn/go-runewidth"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

// hudRows is the number of rows reserved below the view.
const hudRows = 2

// bannerRows is the number of rows reserved above the view.
const bannerRows = 2

var (
	renderableQuery = query.NewQuery(filter.Contains(component.Renderable, component.Transform))
	bannerQuery     = query.NewQuery(filter.Contains(component.Banner))
)

// Renderer draws the herding world onto a tcell screen.
type Renderer struct {
	screen    tcell.Screen
	camera    *Camera
	materials *material.Assets
	palette   Palette
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen, materials *material.Assets) *Renderer {
	w, h := screen.Size()
	return &Renderer{
		screen:    screen,
		camera:    NewCamera(w, h-hudRows-bannerRows, bannerRows),
		materials: materials,
		palette:   DefaultPalette,
	}
}

// Resize refits the view after the terminal changed size.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.camera.ViewWidth = w
	r.camera.ViewHeight = h - hudRows - bannerRows
}

// WorldToScreen converts a world position to a screen cell.
func (r *Renderer) WorldToScreen(p mgl64.Vec3) (sx, sy int, visible bool) {
	return r.camera.WorldToScreen(p)
}

// DrawFrame renders ground, zones, entities, the banner and the HUD
// centred on focus.
func (r *Renderer) DrawFrame(w *ecs.World, focus mgl64.Vec3, hud HUD) {
	r.screen.Clear()
	r.camera.Center(focus)
	r.drawEntities(w)
	r.drawBanner(w)
	r.drawHUD(hud)
	r.screen.Show()
}

// renderableEntity holds sorting info for entity rendering.
type renderableEntity struct {
	order int
	pos   mgl64.Vec3
	rend  component.RenderableData
	body  *component.BodyData
	style tcell.Style
}

// drawEntities draws box colliders as filled footprints and everything else
// as a single glyph, ordered by RenderOrder.
func (r *Renderer) drawEntities(w *ecs.World) {
	var entities []renderableEntity
	renderableQuery.Each(w.Donburi(), func(e *donburi.Entry) {
		re := renderableEntity{
			pos:   component.Transform.Get(e).Position,
			rend:  component.Renderable.GetValue(e),
			style: r.palette.Entity,
		}
		re.order = re.rend.RenderOrder
		if e.HasComponent(component.Body) {
			if b := component.Body.GetValue(e); b.Shape == component.ShapeBox {
				re.body = &b
			}
		}
		if e.HasComponent(component.Material) {
			if m, ok := r.materials.Get(component.Material.Get(e).Handle); ok && e.HasComponent(component.Role) &&
				component.Role.Get(e).Kind() == component.RolePartyAnimal {
				re.style = tint(re.style, m.BaseColor)
			}
		}
		entities = append(entities, re)
	})

	// Sort ascending by render order (lower = drawn first / behind).
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].order < entities[j].order
	})

	for _, e := range entities {
		if e.body != nil {
			r.fillBox(e)
			continue
		}
		if sx, sy, ok := r.camera.WorldToScreen(e.pos); ok {
			r.putGlyph(sx, sy, e.rend.Glyph, e.style)
		}
	}
}

// fillBox paints the footprint of a box collider and its glyph at the centre.
func (r *Renderer) fillBox(e renderableEntity) {
	centre := e.pos.Add(e.body.Offset)
	half := e.body.HalfExtents
	x0, y0, _ := r.camera.WorldToScreen(mgl64.Vec3{centre.X() - half.X(), 0, centre.Z() - half.Z()})
	x1, y1, _ := r.camera.WorldToScreen(mgl64.Vec3{centre.X() + half.X(), 0, centre.Z() + half.Z()})

	fill, style := '·', r.palette.Ground
	if e.body.Kind == component.BodySensor {
		fill, style = '░', r.palette.Zone
	}
	for y := max(y0, r.camera.Top); y <= min(y1, r.camera.Top+r.camera.ViewHeight-1); y++ {
		for x := max(x0, 0); x <= min(x1, r.camera.ViewWidth-1); x++ {
			r.screen.SetContent(x, y, fill, nil, style)
		}
	}
	if runewidth.StringWidth(e.rend.Glyph) > 1 {
		if sx, sy, ok := r.camera.WorldToScreen(centre); ok {
			r.putGlyph(sx, sy, e.rend.Glyph, style)
		}
	}
}

// drawBanner centres the current UI root's text on the top row.
func (r *Renderer) drawBanner(w *ecs.World) {
	entry, ok := bannerQuery.First(w.Donburi())
	if !ok {
		return
	}
	text := component.Banner.Get(entry).Text
	width, _ := r.screen.Size()
	x := (width - runewidth.StringWidth(text)) / 2
	r.drawText(max(x, 0), 0, text, r.palette.Banner)
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, runes[0], combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
