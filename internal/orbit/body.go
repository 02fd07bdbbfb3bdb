// Package orbit holds the body model of the orrery and the per-frame
// kinematic update that advances it.
package orbit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kind discriminates the simulated body variants.
type Kind int

const (
	KindStar Kind = iota
	KindPlanet
	KindMoon
	KindAsteroid
	KindComet
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindPlanet:
		return "planet"
	case KindMoon:
		return "moon"
	case KindAsteroid:
		return "asteroid"
	case KindComet:
		return "comet"
	default:
		return "unknown"
	}
}

// NoParent marks a body that orbits the system origin (or does not orbit).
const NoParent = -1

// ErrInvalidBody is returned when a body's construction parameters are out of range.
var ErrInvalidBody = errors.New("invalid body")

// Body is one simulated object. Which fields are meaningful depends on Kind:
// Eccentricity is only used by comets, RotationSpeed only by asteroids and
// Parent only by moons.
type Body struct {
	Kind  Kind
	Name  string  // Empty for belt members
	Size  float64 // Display radius
	Color string  // Hex colour, e.g. "#6b93d6"
	Info  string  // Short description shown in the info panel

	Distance      float64 // Orbital radius (semi-major axis for comets)
	Angle         float64 // Orbital phase in radians
	BaseSpeed     float64 // Configured angular rate
	CurrentSpeed  float64 // User override, starts at BaseSpeed
	Eccentricity  float64 // Comets only, 0 <= e < 1
	RotationSpeed float64 // Asteroids only
	Height        float64 // Fixed y offset assigned at creation

	// Parent is the index of the owning planet for moons, NoParent otherwise.
	Parent int

	Position r3.Vec // y is Height and never written by Update
	Rotation r3.Vec // Self-rotation angles per axis
}

// NewStar creates the central star.
func NewStar(name string, size float64, color string) Body {
	return Body{
		Kind:   KindStar,
		Name:   name,
		Size:   size,
		Color:  color,
		Parent: NoParent,
	}
}

// NewPlanet creates a planet orbiting the origin.
func NewPlanet(name string, size, distance, speed, angle float64, color string) Body {
	return Body{
		Kind:         KindPlanet,
		Name:         name,
		Size:         size,
		Color:        color,
		Distance:     distance,
		Angle:        angle,
		BaseSpeed:    speed,
		CurrentSpeed: speed,
		Parent:       NoParent,
	}
}

// NewMoon creates a moon orbiting the planet at index parent.
func NewMoon(name string, parent int, size, distance, speed, angle float64, color string) Body {
	return Body{
		Kind:         KindMoon,
		Name:         name,
		Size:         size,
		Color:        color,
		Distance:     distance,
		Angle:        angle,
		BaseSpeed:    speed,
		CurrentSpeed: speed,
		Parent:       parent,
	}
}

// NewAsteroid creates a belt member on a circular orbit at the given height.
func NewAsteroid(distance, angle, height, speed, rotationSpeed float64, color string) Body {
	return Body{
		Kind:          KindAsteroid,
		Size:          asteroidSize,
		Color:         color,
		Distance:      distance,
		Angle:         angle,
		BaseSpeed:     speed,
		CurrentSpeed:  speed,
		RotationSpeed: rotationSpeed,
		Height:        height,
		Parent:        NoParent,
	}
}

// NewComet creates a comet on an elliptical orbit with the star at one focus.
// The eccentricity must lie in [0, 1).
func NewComet(name string, distance, angle, height, speed, eccentricity float64) (Body, error) {
	if err := checkEccentricity(eccentricity); err != nil {
		return Body{}, err
	}
	return Body{
		Kind:         KindComet,
		Name:         name,
		Size:         cometSize,
		Color:        cometColor,
		Distance:     distance,
		Angle:        angle,
		BaseSpeed:    speed,
		CurrentSpeed: speed,
		Eccentricity: eccentricity,
		Height:       height,
		Parent:       NoParent,
	}, nil
}

const (
	asteroidSize = 0.1
	cometSize    = 0.3
	cometColor   = "#666666"
)

func checkEccentricity(e float64) error {
	if math.IsNaN(e) || e < 0 || e >= 1 {
		return fmt.Errorf("%w: eccentricity %v outside [0, 1)", ErrInvalidBody, e)
	}
	return nil
}

// validate checks the parameters that do not depend on the rest of the system.
func (b Body) validate() error {
	for name, v := range map[string]float64{
		"size":           b.Size,
		"distance":       b.Distance,
		"angle":          b.Angle,
		"speed":          b.CurrentSpeed,
		"base speed":     b.BaseSpeed,
		"rotation speed": b.RotationSpeed,
		"height":         b.Height,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s %s is not finite", ErrInvalidBody, b.label(), name)
		}
	}
	if b.Size < 0 {
		return fmt.Errorf("%w: %s has negative size", ErrInvalidBody, b.label())
	}
	if b.Distance < 0 {
		return fmt.Errorf("%w: %s has negative distance", ErrInvalidBody, b.label())
	}
	if b.Kind == KindComet {
		if err := checkEccentricity(b.Eccentricity); err != nil {
			return fmt.Errorf("%s: %w", b.label(), err)
		}
	}
	if b.Kind != KindMoon && b.Parent != NoParent {
		return fmt.Errorf("%w: %s %s cannot have a parent", ErrInvalidBody, b.Kind, b.label())
	}
	return nil
}

// label names a body in error messages.
func (b Body) label() string {
	if b.Name != "" {
		return b.Name
	}
	return "unnamed " + b.Kind.String()
}

// OrbitRadius returns the current distance from the body's orbit centre.
// For comets this is the radius of the ellipse at the current angle.
func (b Body) OrbitRadius() float64 {
	if b.Kind == KindComet {
		return CometRadius(b.Distance, b.Eccentricity, b.Angle)
	}
	return b.Distance
}

// CometRadius evaluates the polar ellipse equation with the focus at the
// origin: r = a(1-e²) / (1 + e·cos θ).
func CometRadius(a, e, angle float64) float64 {
	return a * (1 - e*e) / (1 + e*math.Cos(angle))
}

// Perihelion returns the closest approach of a comet's orbit.
func (b Body) Perihelion() float64 {
	return b.Distance * (1 - b.Eccentricity)
}

// Aphelion returns the farthest point of a comet's orbit.
func (b Body) Aphelion() float64 {
	return b.Distance * (1 + b.Eccentricity)
}
