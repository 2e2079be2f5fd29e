package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// HUD is the status shown below the view.
type HUD struct {
	State        string
	Players      int
	Collectables int
	Score        int
}

// drawHUD renders the separator and status line at the bottom of the screen.
func (r *Renderer) drawHUD(h HUD) {
	_, screenH := r.screen.Size()
	hudY := screenH - hudRows

	r.drawHLine(hudY, r.palette.Separator)
	status := fmt.Sprintf("[%s]  Herd: %d  Loose: %d  Party: %d   WASD/arrows steer · Esc quits",
		h.State, h.Players, h.Collectables, h.Score)
	r.drawText(0, hudY+1, status, r.palette.HUD)
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += max(runewidth.RuneWidth(ch), 1)
	}
}
