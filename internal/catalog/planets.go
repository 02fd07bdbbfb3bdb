// Package catalog describes the contents of the simulated system and builds
// the body collection from that description.
package catalog

// StarDef describes the central star.
type StarDef struct {
	Name  string  `mapstructure:"name" yaml:"name"`
	Size  float64 `mapstructure:"size" yaml:"size"`
	Color string  `mapstructure:"color" yaml:"color"`
	Info  string  `mapstructure:"info" yaml:"info"`
}

// MoonDef describes one moon of a planet.
type MoonDef struct {
	Name     string  `mapstructure:"name" yaml:"name"`
	Size     float64 `mapstructure:"size" yaml:"size"`
	Distance float64 `mapstructure:"distance" yaml:"distance"` // From the parent planet
	Speed    float64 `mapstructure:"speed" yaml:"speed"`
	Color    string  `mapstructure:"color" yaml:"color"`
}

// PlanetDef describes one planet and its moons.
type PlanetDef struct {
	Name     string    `mapstructure:"name" yaml:"name"`
	Size     float64   `mapstructure:"size" yaml:"size"`
	Distance float64   `mapstructure:"distance" yaml:"distance"`
	Speed    float64   `mapstructure:"speed" yaml:"speed"`
	Color    string    `mapstructure:"color" yaml:"color"`
	Info     string    `mapstructure:"info" yaml:"info"`
	Moons    []MoonDef `mapstructure:"moons" yaml:"moons,omitempty"`
}

// DefaultStar is the central star.
var DefaultStar = StarDef{
	Name:  "Sun",
	Size:  4,
	Color: "#ffaa00",
	Info:  "The center of our solar system, a G-type main-sequence star",
}

// DefaultPlanets is the eight-planet table. Distances and speeds are display
// units chosen for legible relative motion, not physical values.
var DefaultPlanets = []PlanetDef{
	{
		Name: "Mercury", Size: 0.8, Distance: 12, Speed: 4.74, Color: "#8c7853",
		Info: "Closest planet to the Sun, with extreme temperature variations",
	},
	{
		Name: "Venus", Size: 1.2, Distance: 16, Speed: 3.5, Color: "#ffc649",
		Info: "Hottest planet with a thick, toxic atmosphere",
	},
	{
		Name: "Earth", Size: 1.3, Distance: 22, Speed: 2.98, Color: "#6b93d6",
		Info: "Our home planet, the only known world with life",
		Moons: []MoonDef{
			{Name: "Moon", Size: 0.35, Distance: 3, Speed: 13.2, Color: "#aaaaaa"},
		},
	},
	{
		Name: "Mars", Size: 1.0, Distance: 28, Speed: 2.41, Color: "#c1440e",
		Info: "The Red Planet, with the largest volcano in the solar system",
		Moons: []MoonDef{
			{Name: "Phobos", Size: 0.1, Distance: 2, Speed: 7.6, Color: "#8b7355"},
			{Name: "Deimos", Size: 0.08, Distance: 2.8, Speed: 1.35, Color: "#8b7355"},
		},
	},
	{
		Name: "Jupiter", Size: 4.5, Distance: 40, Speed: 1.31, Color: "#d8ca9d",
		Info: "Largest planet, a gas giant with a Great Red Spot",
		Moons: []MoonDef{
			{Name: "Io", Size: 0.4, Distance: 8, Speed: 17.3, Color: "#ffff99"},
			{Name: "Europa", Size: 0.35, Distance: 10, Speed: 13.7, Color: "#aaccff"},
			{Name: "Ganymede", Size: 0.5, Distance: 12, Speed: 10.9, Color: "#888888"},
			{Name: "Callisto", Size: 0.45, Distance: 15, Speed: 8.2, Color: "#444444"},
		},
	},
	{
		Name: "Saturn", Size: 4.0, Distance: 55, Speed: 0.97, Color: "#fad5a5",
		Info: "Famous for its spectacular ring system",
		Moons: []MoonDef{
			{Name: "Titan", Size: 0.5, Distance: 12, Speed: 6.8, Color: "#cc9966"},
			{Name: "Enceladus", Size: 0.2, Distance: 8, Speed: 12.6, Color: "#ffffff"},
			{Name: "Mimas", Size: 0.15, Distance: 6, Speed: 14.3, Color: "#cccccc"},
		},
	},
	{
		Name: "Uranus", Size: 2.8, Distance: 70, Speed: 0.68, Color: "#4fd0e7",
		Info: "Ice giant tilted on its side with faint rings",
		Moons: []MoonDef{
			{Name: "Titania", Size: 0.3, Distance: 8, Speed: 8.7, Color: "#999999"},
			{Name: "Oberon", Size: 0.28, Distance: 10, Speed: 7.1, Color: "#888888"},
		},
	},
	{
		Name: "Neptune", Size: 2.6, Distance: 85, Speed: 0.54, Color: "#4b70dd",
		Info: "Windiest planet with supersonic winds",
		Moons: []MoonDef{
			{Name: "Triton", Size: 0.35, Distance: 7, Speed: 6.1, Color: "#aabbcc"},
		},
	},
}

// clonePlanets deep-copies a planet table so callers can edit it freely.
func clonePlanets(src []PlanetDef) []PlanetDef {
	out := make([]PlanetDef, len(src))
	for i, p := range src {
		out[i] = p
		if p.Moons != nil {
			out[i].Moons = append([]MoonDef(nil), p.Moons...)
		}
	}
	return out
}
