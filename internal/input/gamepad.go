package input

import "github.com/go-gl/mathgl/mgl64"

// Gamepad is one connected pad as polled this tick. Stick axes lie in
// [-1, 1] with Y forward-positive.
type Gamepad struct {
	Left, Right mgl64.Vec2
	// Pressed is true if any button went down since the previous poll.
	Pressed bool
}

// GamepadSource polls every connected gamepad.
type GamepadSource interface {
	Gamepads() []Gamepad
}

// NoGamepads is the source used when no pad backend is available.
type NoGamepads struct{}

func (NoGamepads) Gamepads() []Gamepad { return nil }
