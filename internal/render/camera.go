package render

import "github.com/go-gl/mathgl/mgl64"

// Camera maps the ground plane onto the terminal, looking straight down.
// World X runs across the screen at two columns per unit because emoji
// occupy two terminal columns; world Z runs down the screen.
type Camera struct {
	FocusX     float64
	FocusZ     float64
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
	Top        int // first terminal row of the view
}

// NewCamera creates a camera with a view of the given size.
func NewCamera(viewW, viewH, top int) *Camera {
	return &Camera{ViewWidth: viewW, ViewHeight: viewH, Top: top}
}

// Center focuses the view on world position p.
func (c *Camera) Center(p mgl64.Vec3) {
	c.FocusX = p.X()
	c.FocusZ = p.Z()
}

// WorldToScreen converts a world position to a screen cell.
// visible is false when the cell falls outside the view.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (sx, sy int, visible bool) {
	sx = c.ViewWidth/2 + int(roundHalf((p.X()-c.FocusX)*2))
	sy = c.Top + c.ViewHeight/2 + int(roundHalf(p.Z()-c.FocusZ))
	visible = sx >= 0 && sx < c.ViewWidth && sy >= c.Top && sy < c.Top+c.ViewHeight
	return
}

// ScreenToWorld converts a screen cell back to a ground-plane position.
func (c *Camera) ScreenToWorld(sx, sy int) mgl64.Vec3 {
	x := float64(sx-c.ViewWidth/2)/2 + c.FocusX
	z := float64(sy-c.Top-c.ViewHeight/2) + c.FocusZ
	return mgl64.Vec3{x, 0, z}
}

func roundHalf(v float64) float64 {
	if v < 0 {
		return -float64(int(-v + 0.5))
	}
	return float64(int(v + 0.5))
}
