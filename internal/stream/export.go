// Package stream serialises orrery snapshots and serves them to external
// renderers over websockets.
package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/state"
)

// Frame is the JSON-serializable representation of one snapshot.
type Frame struct {
	Timestamp         time.Time     `json:"timestamp"`
	Paused            bool          `json:"paused"`
	GlobalSpeed       float64       `json:"global_speed"`
	Elapsed           float64       `json:"elapsed_seconds"`
	Ticks             uint64        `json:"ticks"`
	StarfieldRotation float64       `json:"starfield_rotation"`
	DustRotation      float64       `json:"dust_rotation"`
	Bodies            []BodyFrame   `json:"bodies"`
	Events            []state.Event `json:"events,omitempty"` // Recent control changes, oldest first
}

// BodyFrame is a JSON-friendly body.
type BodyFrame struct {
	Index    int        `json:"index"`
	Kind     string     `json:"kind"`
	Name     string     `json:"name,omitempty"`
	Parent   int        `json:"parent"`
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
	Angle    float64    `json:"angle"`
	Speed    float64    `json:"speed"`
	Size     float64    `json:"size"`
	Color    string     `json:"color"`
}

// NewFrame converts a snapshot to an exportable frame.
func NewFrame(snap state.Snapshot, at time.Time) *Frame {
	f := &Frame{
		Timestamp:   at,
		Paused:      snap.Paused,
		GlobalSpeed: snap.GlobalSpeed,
		Elapsed:     snap.Elapsed,
		Ticks:       snap.Ticks,
		Events:      snap.Events,
	}
	sys := snap.System
	if sys == nil {
		return f
	}
	f.StarfieldRotation = sys.StarfieldRotation
	f.DustRotation = sys.DustRotation

	f.Bodies = make([]BodyFrame, 0, sys.Len())
	for i, b := range sys.Bodies {
		f.Bodies = append(f.Bodies, BodyFrame{
			Index:    i,
			Kind:     b.Kind.String(),
			Name:     b.Name,
			Parent:   b.Parent,
			Position: vec(b.Position),
			Rotation: vec(b.Rotation),
			Angle:    b.Angle,
			Speed:    b.CurrentSpeed,
			Size:     b.Size,
			Color:    b.Color,
		})
	}
	return f
}

func vec(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// WithoutBelt returns a copy of f with the asteroids removed. Indices keep
// their system values.
func (f *Frame) WithoutBelt() *Frame {
	out := *f
	out.Bodies = make([]BodyFrame, 0, len(f.Bodies))
	for _, b := range f.Bodies {
		if b.Kind != orbit.KindAsteroid.String() {
			out.Bodies = append(out.Bodies, b)
		}
	}
	return &out
}

// WriteJSON writes the frame as indented JSON to the given writer.
func (f *Frame) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// KindStats summarises the orbit radii and speeds of one body kind.
type KindStats struct {
	Kind       orbit.Kind
	Count      int
	MeanRadius float64
	StdRadius  float64
	MinRadius  float64
	MaxRadius  float64
	MeanSpeed  float64
}

// ComputeKindStats returns one row per kind present in sys, in kind order.
func ComputeKindStats(sys *orbit.System) []KindStats {
	if sys == nil {
		return nil
	}
	var rows []KindStats
	for _, kind := range []orbit.Kind{orbit.KindStar, orbit.KindPlanet, orbit.KindMoon, orbit.KindAsteroid, orbit.KindComet} {
		idx := sys.Indices(kind)
		if len(idx) == 0 {
			continue
		}
		radii := make([]float64, len(idx))
		speeds := make([]float64, len(idx))
		for i, bi := range idx {
			b := sys.Bodies[bi]
			radii[i] = b.OrbitRadius()
			speeds[i] = b.CurrentSpeed
		}
		row := KindStats{
			Kind:       kind,
			Count:      len(idx),
			MeanRadius: stat.Mean(radii, nil),
			MinRadius:  floats.Min(radii),
			MaxRadius:  floats.Max(radii),
			MeanSpeed:  stat.Mean(speeds, nil),
		}
		if len(radii) > 1 {
			row.StdRadius = stat.StdDev(radii, nil)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteSummaryTable writes a text table of the snapshot to the given writer.
func WriteSummaryTable(w io.Writer, snap state.Snapshot, timestamp time.Time) {
	fmt.Fprintf(w, "Orrery @ %s  (t=%.1fs, speed %.2fx", timestamp.Format(time.RFC3339), snap.Elapsed, snap.GlobalSpeed)
	if snap.Paused {
		fmt.Fprint(w, ", paused")
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	sys := snap.System
	if sys == nil || sys.Len() == 0 {
		fmt.Fprintln(w, "No bodies")
		return
	}

	fmt.Fprintf(w, "%-9s %6s %9s %9s %9s %9s %9s\n",
		"Kind", "Count", "Mean r", "Std r", "Min r", "Max r", "Speed")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, r := range ComputeKindStats(sys) {
		fmt.Fprintf(w, "%-9s %6d %9.1f %9.1f %9.1f %9.1f %9.2f\n",
			r.Kind, r.Count, r.MeanRadius, r.StdRadius, r.MinRadius, r.MaxRadius, r.MeanSpeed)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-14s %-7s %9s %8s %7s\n", "Body", "Kind", "Radius", "Angle", "Speed")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	for _, i := range sys.Order() {
		b := sys.Bodies[i]
		if b.Kind == orbit.KindAsteroid {
			continue
		}
		name := b.Name
		if b.Kind == orbit.KindMoon {
			name = "└ " + name
		}
		fmt.Fprintf(w, "%-14s %-7s %9.1f %7.0f° %6.2fx\n",
			truncateStr(name, 14), b.Kind, b.OrbitRadius(), degrees(b.Angle), b.CurrentSpeed)
	}

	fmt.Fprintf(w, "\nTotal: %d bodies\n", sys.Len())
}

func degrees(rad float64) float64 {
	d := math.Mod(rad*180/math.Pi, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func truncateStr(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
