package orbit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// System is the fixed collection of bodies the updater iterates each tick.
// Bodies are neither added nor removed once the system is built.
type System struct {
	Bodies []Body

	// Backdrop state advanced alongside the bodies.
	StarfieldRotation float64
	DustRotation      float64
	Elapsed           float64 // Seconds of unpaused simulation time

	order []int         // Update order: star, planet+moons..., asteroids, comets
	moons map[int][]int // Planet index -> moon indices
}

// NewSystem validates the bodies, computes the update order and places every
// body at the position implied by its initial angle.
func NewSystem(bodies []Body) (*System, error) {
	s := &System{
		Bodies: bodies,
		moons:  make(map[int][]int),
	}

	stars := 0
	for i, b := range bodies {
		if err := b.validate(); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		switch b.Kind {
		case KindStar:
			stars++
			if stars > 1 {
				return nil, fmt.Errorf("%w: more than one star", ErrInvalidBody)
			}
		case KindMoon:
			if b.Parent < 0 || b.Parent >= len(bodies) || bodies[b.Parent].Kind != KindPlanet {
				return nil, fmt.Errorf("%w: moon %s has no planet at index %d", ErrInvalidBody, b.label(), b.Parent)
			}
			s.moons[b.Parent] = append(s.moons[b.Parent], i)
		case KindPlanet, KindAsteroid, KindComet:
		default:
			return nil, fmt.Errorf("%w: body %d has unknown kind %d", ErrInvalidBody, i, b.Kind)
		}
	}

	s.order = s.buildOrder()
	for _, i := range s.order {
		s.place(i)
	}
	return s, nil
}

// buildOrder lists body indices in the order Update must visit them.
func (s *System) buildOrder() []int {
	order := make([]int, 0, len(s.Bodies))
	for _, kind := range []Kind{KindStar, KindPlanet, KindAsteroid, KindComet} {
		for i, b := range s.Bodies {
			if b.Kind != kind {
				continue
			}
			order = append(order, i)
			if kind == KindPlanet {
				order = append(order, s.moons[i]...)
			}
		}
	}
	return order
}

// place writes the position implied by the body's current angle.
func (s *System) place(i int) {
	b := &s.Bodies[i]
	switch b.Kind {
	case KindStar:
		b.Position = r3.Vec{Y: b.Height}
	case KindPlanet, KindAsteroid:
		b.Position = r3.Vec{
			X: math.Cos(b.Angle) * b.Distance,
			Y: b.Height,
			Z: math.Sin(b.Angle) * b.Distance,
		}
	case KindMoon:
		parent := s.Bodies[b.Parent].Position
		b.Position = r3.Vec{
			X: parent.X + math.Cos(b.Angle)*b.Distance,
			Y: b.Height,
			Z: parent.Z + math.Sin(b.Angle)*b.Distance,
		}
	case KindComet:
		r := CometRadius(b.Distance, b.Eccentricity, b.Angle)
		b.Position = r3.Vec{
			X: math.Cos(b.Angle) * r,
			Y: b.Height,
			Z: math.Sin(b.Angle) * r,
		}
	}
}

// Len returns the number of bodies.
func (s *System) Len() int {
	return len(s.Bodies)
}

// Order returns a copy of the update order.
func (s *System) Order() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// Moons returns the indices of the moons of the planet at index planet.
func (s *System) Moons(planet int) []int {
	return s.moons[planet]
}

// Indices returns the indices of all bodies of the given kind, in collection order.
func (s *System) Indices(kind Kind) []int {
	var out []int
	for i, b := range s.Bodies {
		if b.Kind == kind {
			out = append(out, i)
		}
	}
	return out
}

// Count returns the number of bodies of the given kind.
func (s *System) Count(kind Kind) int {
	n := 0
	for _, b := range s.Bodies {
		if b.Kind == kind {
			n++
		}
	}
	return n
}

// Find returns the index of the first body with the given name.
func (s *System) Find(name string) (int, bool) {
	for i, b := range s.Bodies {
		if b.Name != "" && b.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy that can be read while the original keeps ticking.
func (s *System) Clone() *System {
	c := &System{
		Bodies:            make([]Body, len(s.Bodies)),
		StarfieldRotation: s.StarfieldRotation,
		DustRotation:      s.DustRotation,
		Elapsed:           s.Elapsed,
		order:             s.order,
		moons:             s.moons,
	}
	copy(c.Bodies, s.Bodies)
	return c
}
