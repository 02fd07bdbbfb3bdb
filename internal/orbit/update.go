package orbit

import "math"

// SimulationState carries the user-controlled inputs of one tick.
type SimulationState struct {
	Paused      bool
	GlobalSpeed float64 // Multiplier applied to every body's angular rate
}

// Angular-rate scales per category. These calibrate relative visual speeds
// and have no physical meaning.
const (
	PlanetRateScale   = 0.1
	MoonRateScale     = 0.5
	AsteroidRateScale = 0.05
	CometRateScale    = 0.02
)

// Self-rotation rates in radians per second.
const (
	StarSpin   = 0.5
	PlanetSpin = 2.0
	MoonSpin   = 3.0
	CometSpin  = 0.5

	StarfieldSpin = 0.005
	DustSpin      = 0.002
)

// angleWrapLimit bounds accumulated angles. Beyond it the angle is reduced
// modulo 2π so long runs keep full float precision in cos/sin.
const angleWrapLimit = 2 * math.Pi * 4096

// Update advances every body by deltaTime seconds. When st.Paused is set
// nothing is mutated. Bodies are visited star first, then each planet
// followed immediately by its moons, then asteroids, then comets, so a moon
// is always placed relative to its planet's position from this same tick.
// Position.Y is never written.
func (s *System) Update(st SimulationState, deltaTime, elapsedTime float64) {
	if st.Paused {
		return
	}
	g := st.GlobalSpeed

	for _, i := range s.order {
		b := &s.Bodies[i]
		switch b.Kind {
		case KindStar:
			b.Rotation.Y = wrap(b.Rotation.Y + deltaTime*StarSpin)

		case KindPlanet:
			b.Angle = wrap(b.Angle + deltaTime*b.CurrentSpeed*g*PlanetRateScale)
			b.Position.X = math.Cos(b.Angle) * b.Distance
			b.Position.Z = math.Sin(b.Angle) * b.Distance
			b.Rotation.Y = wrap(b.Rotation.Y + deltaTime*PlanetSpin)

		case KindMoon:
			parent := s.Bodies[b.Parent].Position
			b.Angle = wrap(b.Angle + deltaTime*b.CurrentSpeed*g*MoonRateScale)
			b.Position.X = parent.X + math.Cos(b.Angle)*b.Distance
			b.Position.Z = parent.Z + math.Sin(b.Angle)*b.Distance
			b.Rotation.Y = wrap(b.Rotation.Y + deltaTime*MoonSpin)

		case KindAsteroid:
			b.Angle = wrap(b.Angle + deltaTime*b.CurrentSpeed*g*AsteroidRateScale)
			b.Position.X = math.Cos(b.Angle) * b.Distance
			b.Position.Z = math.Sin(b.Angle) * b.Distance
			b.Rotation.X = wrap(b.Rotation.X + deltaTime*b.RotationSpeed)
			b.Rotation.Y = wrap(b.Rotation.Y + deltaTime*b.RotationSpeed)

		case KindComet:
			b.Angle = wrap(b.Angle + deltaTime*b.CurrentSpeed*g*CometRateScale)
			r := CometRadius(b.Distance, b.Eccentricity, b.Angle)
			b.Position.X = math.Cos(b.Angle) * r
			b.Position.Z = math.Sin(b.Angle) * r
			b.Rotation.Y = wrap(b.Rotation.Y + deltaTime*CometSpin)
		}
	}

	s.StarfieldRotation = wrap(s.StarfieldRotation + deltaTime*StarfieldSpin)
	s.DustRotation = wrap(s.DustRotation + deltaTime*DustSpin)
	s.Elapsed = elapsedTime
}

// wrap reduces an angle modulo 2π once it exceeds angleWrapLimit in magnitude.
func wrap(a float64) float64 {
	if math.Abs(a) < angleWrapLimit {
		return a
	}
	return math.Mod(a, 2*math.Pi)
}
