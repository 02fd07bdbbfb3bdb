// Package scene turns the body collection into something a renderer can
// draw: an orbit camera, a projection to screen space, the backdrop and
// comet tails.
package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-orrery/internal/orbit"
)

// Camera limits and rates.
const (
	DefaultDistance = 100.0
	MinDistance     = 20.0
	MaxDistance     = 300.0
	RotateStep      = 0.02 // Radians per key press
	Easing          = 0.05 // Fraction of remaining rotation applied per Step
	pitchLimit      = math.Pi / 2
)

// Camera orbits a target point. Key input moves the target yaw and pitch;
// Step eases the current angles toward them.
type Camera struct {
	Distance    float64
	Yaw         float64
	Pitch       float64
	TargetYaw   float64
	TargetPitch float64
	Target      r3.Vec // Look-at point
}

// NewCamera returns a camera at the default distance looking at the origin.
func NewCamera() Camera {
	return Camera{Distance: DefaultDistance}
}

// Rotate adds to the target angles. Pitch is limited to a quarter turn.
func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.TargetYaw += dYaw
	c.TargetPitch = clamp(c.TargetPitch+dPitch, -pitchLimit, pitchLimit)
}

// Step moves the current angles a fixed fraction toward the targets.
func (c *Camera) Step() {
	c.Yaw += (c.TargetYaw - c.Yaw) * Easing
	c.Pitch += (c.TargetPitch - c.Pitch) * Easing
}

// SetDistance sets the orbit distance, clamped to [MinDistance, MaxDistance].
func (c *Camera) SetDistance(d float64) {
	if math.IsNaN(d) {
		return
	}
	c.Distance = clamp(d, MinDistance, MaxDistance)
}

// Zoom changes the orbit distance by delta.
func (c *Camera) Zoom(delta float64) {
	c.SetDistance(c.Distance + delta)
}

// Reset restores the default distance and returns the view to the origin.
// Angles keep easing from where they are.
func (c *Camera) Reset() {
	c.Distance = DefaultDistance
	c.Target = r3.Vec{}
}

// Focus looks at target from the given distance.
func (c *Camera) Focus(target r3.Vec, distance float64) {
	c.Target = target
	c.SetDistance(distance)
}

// Eye returns the camera position.
func (c Camera) Eye() r3.Vec {
	offset := r3.Vec{
		X: math.Sin(c.Yaw) * c.Distance,
		Y: math.Sin(c.Pitch) * c.Distance * 0.5,
		Z: math.Cos(c.Yaw) * c.Distance,
	}
	return r3.Add(c.Target, offset)
}

// FocusDistance returns the viewing distance used when focusing b. parent
// is the moon's planet and is ignored for other kinds.
func FocusDistance(b orbit.Body, parent *orbit.Body) float64 {
	switch b.Kind {
	case orbit.KindStar:
		return 15
	case orbit.KindPlanet:
		return b.Distance + b.Size + 5
	case orbit.KindMoon:
		if parent != nil {
			return parent.Distance + 8
		}
	}
	return 50
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
