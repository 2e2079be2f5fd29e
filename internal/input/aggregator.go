package input

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Frame is one tick's worth of input.
type Frame struct {
	// Steering is the deadzone-corrected sum of every source, in
	// camera-agnostic local axes.
	Steering mgl64.Vec2
	// AnyPressed is true if any key or pad button went down since the
	// previous frame.
	AnyPressed bool
}

// Aggregator merges the keyboard and all gamepads.
type Aggregator struct {
	keys    *Keyboard
	pads    GamepadSource
	pressed bool
}

// NewAggregator creates an Aggregator. A nil pads means no gamepads.
func NewAggregator(pads GamepadSource, hold time.Duration) *Aggregator {
	if pads == nil {
		pads = NoGamepads{}
	}
	return &Aggregator{keys: NewKeyboard(hold), pads: pads}
}

// HandleKey feeds a terminal key event.
func (a *Aggregator) HandleKey(ev *tcell.EventKey, now time.Time) {
	a.keys.Press(ev, now)
	a.pressed = true
}

// Sample produces the frame for the tick at now and clears the press latch.
func (a *Aggregator) Sample(now time.Time) Frame {
	sum := a.keys.Axes(now)
	pressed := a.pressed
	for _, p := range a.pads.Gamepads() {
		sum = sum.Add(p.Left).Add(p.Right)
		pressed = pressed || p.Pressed
	}
	a.pressed = false
	return Frame{Steering: ApplyDeadzone(sum), AnyPressed: pressed}
}

// Reset drops held keys and the press latch.
func (a *Aggregator) Reset() {
	a.keys.Reset()
	a.pressed = false
}
