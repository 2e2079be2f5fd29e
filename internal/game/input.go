package game

import "github.com/gdamore/tcell/v2"

// Action is a key handled by the game itself rather than the herd.
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionRedraw
)

// keyToAction maps a tcell key event to a game action. Everything else is
// steering or an "any key" press and goes to the input aggregator.
func keyToAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyCtrlL:
		return ActionRedraw
	}
	return ActionNone
}
