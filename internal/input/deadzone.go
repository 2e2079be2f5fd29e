// Package input merges keyboard and gamepad axes into one steering vector
// per tick.
package input

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Deadzone is the radial deadzone applied to the summed steering vector.
const Deadzone = 0.05

// ApplyDeadzone zeroes vectors shorter than Deadzone and rescales the rest
// so the deadzone edge maps to 0 and the unit circle maps to 1.
func ApplyDeadzone(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l < Deadzone {
		return mgl64.Vec2{}
	}
	scale := math.Max(0, l-Deadzone) / (1 - Deadzone)
	return v.Mul(scale / l)
}
