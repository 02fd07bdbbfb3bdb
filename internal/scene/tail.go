package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/litescript/ls-orrery/internal/orbit"
)

// Comet tail shape.
const (
	TailLength  = 100 // Points in a full tail
	TailSpacing = 0.5 // Scene units between points
)

// TailPoint is one particle of a comet tail. Alpha fades from 1 at the
// nucleus toward 0 at the end.
type TailPoint struct {
	Pos   r3.Vec
	Alpha float64
}

// CometTail returns n tail points for comet c, trailing away from the star
// at the origin. n is capped at TailLength. A comet sitting on the star
// has no defined direction and gets no tail.
func CometTail(c orbit.Body, n int) []TailPoint {
	if n > TailLength {
		n = TailLength
	}
	if n <= 0 || r3.Norm(c.Position) == 0 {
		return nil
	}
	dir := r3.Unit(c.Position)

	pts := make([]TailPoint, n)
	for i := range pts {
		pts[i] = TailPoint{
			Pos:   r3.Add(c.Position, r3.Scale(float64(i)*TailSpacing, dir)),
			Alpha: 1 - float64(i)/float64(n),
		}
	}
	return pts
}

// TailColor is the colour of the tail at full alpha.
var TailColor = [3]float64{0.8, 0.9, 1.0}

// RingedPlanets names the planets drawn with a ring system.
var RingedPlanets = map[string]bool{"Saturn": true}

// HasRings reports whether b is drawn with rings.
func HasRings(b orbit.Body) bool {
	return b.Kind == orbit.KindPlanet && RingedPlanets[b.Name]
}

// HasAtmosphere reports whether b is drawn with an atmospheric glow.
func HasAtmosphere(b orbit.Body) bool {
	return b.Kind == orbit.KindPlanet && b.Size > 2
}

// ParticleCount is the particle total shown in the stats panel: the
// backdrop plus a full tail's worth per belt member.
func ParticleCount(asteroids int) int {
	return StarCount + DustCount + asteroids*TailLength
}
