package input

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Direction is one of the four digital steering directions.
type Direction uint8

const (
	DirNone Direction = iota
	DirForward
	DirBack
	DirLeft
	DirRight
)

// keyToDirection maps a tcell key event to a steering direction.
func keyToDirection(ev *tcell.EventKey) Direction {
	switch ev.Key() {
	case tcell.KeyUp:
		return DirForward
	case tcell.KeyDown:
		return DirBack
	case tcell.KeyLeft:
		return DirLeft
	case tcell.KeyRight:
		return DirRight
	}
	switch ev.Rune() {
	case 'w', 'W':
		return DirForward
	case 's', 'S':
		return DirBack
	case 'a', 'A':
		return DirLeft
	case 'd', 'D':
		return DirRight
	}
	return DirNone
}

// Keyboard tracks which directions count as held. Terminals report key
// presses and auto-repeats but never releases, so a direction stays held
// for a fixed window after its last event.
type Keyboard struct {
	hold time.Duration
	last [DirRight + 1]time.Time
}

// NewKeyboard creates a Keyboard with the given hold window.
func NewKeyboard(hold time.Duration) *Keyboard {
	return &Keyboard{hold: hold}
}

// Press records a key event at now. It reports the direction it mapped to.
func (k *Keyboard) Press(ev *tcell.EventKey, now time.Time) Direction {
	d := keyToDirection(ev)
	if d != DirNone {
		k.last[d] = now
	}
	return d
}

// Held reports whether d is held at now.
func (k *Keyboard) Held(d Direction, now time.Time) bool {
	t := k.last[d]
	return !t.IsZero() && now.Sub(t) < k.hold
}

// Axes returns the digital axes at now: X right-positive, Y forward-positive.
func (k *Keyboard) Axes(now time.Time) mgl64.Vec2 {
	var v mgl64.Vec2
	if k.Held(DirForward, now) {
		v[1]++
	}
	if k.Held(DirBack, now) {
		v[1]--
	}
	if k.Held(DirRight, now) {
		v[0]++
	}
	if k.Held(DirLeft, now) {
		v[0]--
	}
	return v
}

// Reset forgets every held key.
func (k *Keyboard) Reset() {
	k.last = [DirRight + 1]time.Time{}
}
