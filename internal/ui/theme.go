package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme is the palette for one colour scheme.
type Theme struct {
	Name       string
	Dark       bool
	Background colorful.Color // Sky colour, used as the blend target
	Text       lipgloss.Color
	Dim        lipgloss.Color
	Accent     lipgloss.Color
	Header     lipgloss.Color
	Focus      lipgloss.Color
	Orbit      lipgloss.Color
	Dust       lipgloss.Color
}

// DarkTheme is a near-black sky.
var DarkTheme = Theme{
	Name:       "Dark",
	Dark:       true,
	Background: colorful.Color{R: 0, G: 0, B: 17.0 / 255},
	Text:       lipgloss.Color("252"),
	Dim:        lipgloss.Color("240"),
	Accent:     lipgloss.Color("#7B2CBF"),
	Header:     lipgloss.Color("205"),
	Focus:      lipgloss.Color("229"),
	Orbit:      lipgloss.Color("238"),
	Dust:       lipgloss.Color("236"),
}

// LightTheme is a daylight sky.
var LightTheme = Theme{
	Name:       "Light",
	Dark:       false,
	Background: colorful.Color{R: 0x87 / 255.0, G: 0xce / 255.0, B: 0xeb / 255.0},
	Text:       lipgloss.Color("235"),
	Dim:        lipgloss.Color("244"),
	Accent:     lipgloss.Color("#5A189A"),
	Header:     lipgloss.Color("161"),
	Focus:      lipgloss.Color("124"),
	Orbit:      lipgloss.Color("250"),
	Dust:       lipgloss.Color("252"),
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Dark {
		return LightTheme
	}
	return DarkTheme
}

// Fade blends hex toward the sky colour. alpha 1 keeps the colour, 0 is
// fully faded. Unparseable colours fall back to the dim colour.
func (t Theme) Fade(hex string, alpha float64) lipgloss.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return t.Dim
	}
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return lipgloss.Color(t.Background.BlendLab(c, alpha).Clamped().Hex())
}

// Body returns the display colour for a body colour. On the light theme
// very light colours are darkened so they stay readable.
func (t Theme) Body(hex string) lipgloss.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return t.Text
	}
	if !t.Dark {
		h, s, l := c.Hsl()
		if l > 0.6 {
			c = colorful.Hsl(h, s, 0.45)
		}
	}
	return lipgloss.Color(c.Hex())
}

// gradientColor returns the logo colour at (col, row): a blue to violet to
// pink sweep that darkens toward the bottom rows.
func gradientColor(col, row, width, height int) string {
	stops := []colorful.Color{
		{R: 59 / 255.0, G: 130 / 255.0, B: 246 / 255.0},
		{R: 139 / 255.0, G: 92 / 255.0, B: 246 / 255.0},
		{R: 217 / 255.0, G: 70 / 255.0, B: 239 / 255.0},
		{R: 236 / 255.0, G: 72 / 255.0, B: 153 / 255.0},
	}
	if width <= 1 {
		width = 2
	}
	if height <= 0 {
		height = 1
	}

	x := float64(col) / float64(width-1) * float64(len(stops)-1)
	i := int(x)
	if i >= len(stops)-1 {
		i = len(stops) - 2
	}
	c := stops[i].BlendRgb(stops[i+1], x-float64(i))

	brightness := 1.0 - float64(row)/float64(height)*0.5
	c = colorful.Color{R: c.R * brightness, G: c.G * brightness, B: c.B * brightness}
	return c.Clamped().Hex()
}
