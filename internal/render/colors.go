package render

import "github.com/gdamore/tcell/v2"

// Palette holds the terminal styles of the herding view.
type Palette struct {
	Ground    tcell.Style
	Zone      tcell.Style
	Banner    tcell.Style
	HUD       tcell.Style
	Entity    tcell.Style
	Separator tcell.Color
}

// DefaultPalette is used unless a renderer is given another.
var DefaultPalette = Palette{
	Ground:    tcell.StyleDefault.Foreground(tcell.ColorDarkOliveGreen).Background(tcell.ColorBlack),
	Zone:      tcell.StyleDefault.Foreground(tcell.ColorHotPink).Background(tcell.ColorBlack),
	Banner:    tcell.StyleDefault.Foreground(tcell.ColorLightYellow).Bold(true),
	HUD:       tcell.StyleDefault.Foreground(tcell.ColorWhite),
	Entity:    tcell.StyleDefault.Background(tcell.ColorBlack),
	Separator: tcell.ColorGray,
}

// tint returns the background style for a material colour, or base if the
// colour cannot be parsed.
func tint(base tcell.Style, hex string) tcell.Style {
	c := tcell.GetColor(hex)
	if c == tcell.ColorDefault {
		return base
	}
	return base.Background(c)
}
