package catalog

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/exp/rand"

	"github.com/litescript/ls-orrery/internal/orbit"
)

// Asteroid shading: a dusty orange hue with random lightness.
const (
	asteroidHue        = 36.0 // Degrees
	asteroidSaturation = 0.3
	asteroidMinLight   = 0.2
	asteroidLightRange = 0.5
)

// Build generates the body collection described by cfg. The same config
// (including Seed) always yields the same system.
func Build(cfg Config) (*orbit.System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	bodies := make([]orbit.Body, 0, 1+len(cfg.Planets)*2+cfg.Belt.Count+cfg.Comets.Count)

	star := orbit.NewStar(cfg.Star.Name, cfg.Star.Size, cfg.Star.Color)
	star.Info = cfg.Star.Info
	bodies = append(bodies, star)

	for _, p := range cfg.Planets {
		parent := len(bodies)
		planet := orbit.NewPlanet(p.Name, p.Size, p.Distance, p.Speed, randomAngle(rng), p.Color)
		planet.Info = p.Info
		bodies = append(bodies, planet)

		for _, m := range p.Moons {
			moon := orbit.NewMoon(m.Name, parent, m.Size, m.Distance, m.Speed, randomAngle(rng), m.Color)
			moon.Info = "Moon of " + p.Name
			bodies = append(bodies, moon)
		}
	}

	belt := cfg.Belt
	for i := 0; i < belt.Count; i++ {
		angle := randomAngle(rng)
		distance := belt.InnerRadius + rng.Float64()*belt.Width
		height := (rng.Float64() - 0.5) * belt.Height
		speed := between(rng, belt.MinSpeed, belt.MaxSpeed)
		spin := rng.Float64() * belt.MaxRotation
		bodies = append(bodies, orbit.NewAsteroid(distance, angle, height, speed, spin, AsteroidShade(rng.Float64())))
	}

	comets := cfg.Comets
	for i := 0; i < comets.Count; i++ {
		angle := randomAngle(rng)
		distance := between(rng, comets.MinDistance, comets.MaxDistance)
		height := (rng.Float64() - 0.5) * comets.HeightSpread
		speed := between(rng, comets.MinSpeed, comets.MaxSpeed)
		comet, err := orbit.NewComet(fmt.Sprintf("Comet %d", i+1), distance, angle, height, speed, comets.Eccentricity)
		if err != nil {
			return nil, fmt.Errorf("comet %d: %w", i+1, err)
		}
		comet.Info = "A periodic comet on a highly elliptical orbit"
		bodies = append(bodies, comet)
	}

	sys, err := orbit.NewSystem(bodies)
	if err != nil {
		return nil, fmt.Errorf("build system: %w", err)
	}
	return sys, nil
}

// AsteroidShade maps t in [0, 1) to a belt colour.
func AsteroidShade(t float64) string {
	return colorful.Hsl(asteroidHue, asteroidSaturation, asteroidMinLight+t*asteroidLightRange).Hex()
}

func randomAngle(rng *rand.Rand) float64 {
	return rng.Float64() * 2 * math.Pi
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
