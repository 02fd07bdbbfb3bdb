package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ScaleMode defines how distances from the star are mapped before projection.
type ScaleMode int

const (
	// ScaleLinear keeps scene units as they are.
	ScaleLinear ScaleMode = iota

	// ScaleLog compresses distance logarithmically so inner planets and
	// comet aphelia fit on one screen: r' = k·log10(1 + r/k).
	ScaleLog
)

func (s ScaleMode) String() string {
	switch s {
	case ScaleLinear:
		return "Linear"
	case ScaleLog:
		return "Log"
	default:
		return "Unknown"
	}
}

// logScaleRef is k in the log mapping. Radii well below it are nearly linear.
const logScaleRef = 30.0

// ProjectedPoint is a point in normalized screen space.
type ProjectedPoint struct {
	X       float64 // Right, -1 to 1 at the edge of the field of view
	Y       float64 // Up, -1 to 1
	Depth   float64 // Distance along the view direction
	Visible bool    // False when behind the camera or too close to it
}

// ProjectionConfig configures the camera projection.
type ProjectionConfig struct {
	FOV  float64 // Vertical field of view in radians
	Near float64
	Mode ScaleMode
}

// DefaultProjectionConfig returns a 75° perspective in linear scale.
func DefaultProjectionConfig() ProjectionConfig {
	return ProjectionConfig{
		FOV:  75 * math.Pi / 180,
		Near: 0.1,
		Mode: ScaleLinear,
	}
}

// ScalePoint applies the scale mode to a scene-space point. The mapping is
// radial about the star so directions are preserved.
func ScalePoint(p r3.Vec, mode ScaleMode) r3.Vec {
	if mode != ScaleLog {
		return p
	}
	r := r3.Norm(p)
	if r == 0 {
		return p
	}
	return r3.Scale(ScaleRadius(r, mode)/r, p)
}

// ScaleRadius applies the scale mode to a distance from the star.
func ScaleRadius(r float64, mode ScaleMode) float64 {
	switch mode {
	case ScaleLog:
		return logScaleRef * math.Log10(1+r/logScaleRef)
	default:
		return r
	}
}

// View is a camera frozen for one frame: the eye and its orthonormal basis.
type View struct {
	eye     r3.Vec
	right   r3.Vec
	up      r3.Vec
	forward r3.Vec
	focal   float64
	cfg     ProjectionConfig
}

// NewView prepares cam for projecting many points.
func NewView(cam Camera, cfg ProjectionConfig) View {
	target := ScalePoint(cam.Target, cfg.Mode)
	eye := r3.Add(target, r3.Sub(cam.Eye(), cam.Target))

	forward := r3.Unit(r3.Sub(target, eye))
	right := r3.Unit(r3.Cross(forward, r3.Vec{Y: 1}))
	up := r3.Cross(right, forward)

	return View{
		eye:     eye,
		right:   right,
		up:      up,
		forward: forward,
		focal:   1 / math.Tan(cfg.FOV/2),
		cfg:     cfg,
	}
}

// Project maps a scene-space point to the screen.
func (v View) Project(p r3.Vec) ProjectedPoint {
	rel := r3.Sub(ScalePoint(p, v.cfg.Mode), v.eye)
	depth := r3.Dot(rel, v.forward)
	if depth < v.cfg.Near {
		return ProjectedPoint{Depth: depth}
	}
	return ProjectedPoint{
		X:       r3.Dot(rel, v.right) * v.focal / depth,
		Y:       r3.Dot(rel, v.up) * v.focal / depth,
		Depth:   depth,
		Visible: true,
	}
}

// Direction projects a point at infinity in direction d, ignoring the eye
// position. Used for the starfield, which should not parallax.
func (v View) Direction(d r3.Vec) ProjectedPoint {
	depth := r3.Dot(d, v.forward)
	if depth <= 0 {
		return ProjectedPoint{Depth: depth}
	}
	return ProjectedPoint{
		X:       r3.Dot(d, v.right) * v.focal / depth,
		Y:       r3.Dot(d, v.up) * v.focal / depth,
		Depth:   depth,
		Visible: true,
	}
}

// Project is a convenience for projecting a single point.
func Project(p r3.Vec, cam Camera, cfg ProjectionConfig) ProjectedPoint {
	return NewView(cam, cfg).Project(p)
}
