package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
)

// Backdrop sizes.
const (
	StarCount     = 15000
	StarfieldSpan = 3000.0 // Edge of the cube stars are scattered in
	DustCount     = 5000
	DustSpan      = 1000.0
)

// StarTint is the colour class of a background star.
type StarTint int

const (
	TintWhite StarTint = iota
	TintBlue
	TintRed
)

func (t StarTint) String() string {
	switch t {
	case TintWhite:
		return "white"
	case TintBlue:
		return "blue"
	case TintRed:
		return "red"
	default:
		return "unknown"
	}
}

// Color returns the tint as an RGB colour.
func (t StarTint) Color() colorful.Color {
	switch t {
	case TintBlue:
		return colorful.Color{R: 0.7, G: 0.8, B: 1}
	case TintRed:
		return colorful.Color{R: 1, G: 0.7, B: 0.6}
	default:
		return colorful.Color{R: 1, G: 1, B: 1}
	}
}

// Star is one background star.
type Star struct {
	Pos  r3.Vec
	Tint StarTint
	Size float64 // 1 to 4
}

// Starfield holds the background stars and the space dust.
type Starfield struct {
	Stars []Star
	Dust  []r3.Vec
}

// NewStarfield scatters the default number of stars and dust particles.
func NewStarfield(seed uint64) Starfield {
	return GenerateStarfield(seed, StarCount, DustCount)
}

// GenerateStarfield scatters stars and dust particles uniformly in cubes
// centred on the star. Stars are 70% white, 15% blue and 15% red.
func GenerateStarfield(seed uint64, stars, dust int) Starfield {
	rng := rand.New(rand.NewSource(seed))

	f := Starfield{
		Stars: make([]Star, stars),
		Dust:  make([]r3.Vec, dust),
	}
	for i := range f.Stars {
		pos := cubePoint(rng, StarfieldSpan)
		tint := TintWhite
		switch kind := rng.Float64(); {
		case kind >= 0.85:
			tint = TintRed
		case kind >= 0.7:
			tint = TintBlue
		}
		f.Stars[i] = Star{Pos: pos, Tint: tint, Size: rng.Float64()*3 + 1}
	}
	for i := range f.Dust {
		f.Dust[i] = cubePoint(rng, DustSpan)
	}
	return f
}

func cubePoint(rng *rand.Rand, span float64) r3.Vec {
	return r3.Vec{
		X: (rng.Float64() - 0.5) * span,
		Y: (rng.Float64() - 0.5) * span,
		Z: (rng.Float64() - 0.5) * span,
	}
}

// RotateY rotates p about the vertical axis by angle radians.
func RotateY(p r3.Vec, angle float64) r3.Vec {
	sin, cos := math.Sincos(angle)
	return r3.Vec{
		X: p.X*cos + p.Z*sin,
		Y: p.Y,
		Z: -p.X*sin + p.Z*cos,
	}
}
