package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

func TestThemeToggle(t *testing.T) {
	if DarkTheme.Toggle().Name != "Light" {
		t.Error("dark should toggle to light")
	}
	if LightTheme.Toggle().Name != "Dark" {
		t.Error("light should toggle to dark")
	}
}

func TestThemeFade(t *testing.T) {
	white, _ := colorful.Hex("#ffffff")

	full, err := colorful.Hex(string(DarkTheme.Fade("#ffffff", 1)))
	if err != nil {
		t.Fatal(err)
	}
	if d := full.DistanceRgb(white); d > 0.02 {
		t.Errorf("alpha 1 should keep the colour, distance %v", d)
	}

	none, err := colorful.Hex(string(DarkTheme.Fade("#ffffff", -3)))
	if err != nil {
		t.Fatal(err)
	}
	if d := none.DistanceRgb(DarkTheme.Background); d > 0.02 {
		t.Errorf("alpha 0 should give the sky, distance %v", d)
	}

	half, _ := colorful.Hex(string(DarkTheme.Fade("#ffffff", 0.5)))
	if half.DistanceRgb(white) < 0.1 || half.DistanceRgb(DarkTheme.Background) < 0.1 {
		t.Error("alpha 0.5 should sit between sky and colour")
	}

	if got := DarkTheme.Fade("not-a-colour", 1); got != DarkTheme.Dim {
		t.Errorf("bad colour = %q, want the dim colour", got)
	}
}

func TestThemeBody(t *testing.T) {
	if got := DarkTheme.Body("#ffffff"); got != lipgloss.Color("#ffffff") {
		t.Errorf("dark theme should keep colours, got %q", got)
	}

	got, err := colorful.Hex(string(LightTheme.Body("#ffffff")))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, l := got.Hsl(); l > 0.5 {
		t.Errorf("light theme should darken white, lightness %v", l)
	}

	if got := LightTheme.Body("#202020"); got != lipgloss.Color("#202020") {
		t.Errorf("dark colours stay, got %q", got)
	}
	if got := DarkTheme.Body("bogus"); got != DarkTheme.Text {
		t.Errorf("bad colour = %q, want text colour", got)
	}
}

func TestGradientColor(t *testing.T) {
	if got := gradientColor(0, 0, 10, 1); got != "#3b82f6" {
		t.Errorf("first stop = %q, want #3b82f6", got)
	}
	if got := gradientColor(9, 0, 10, 1); got != "#ec4899" {
		t.Errorf("last stop = %q, want #ec4899", got)
	}

	top, _ := colorful.Hex(gradientColor(5, 0, 10, 6))
	bottom, _ := colorful.Hex(gradientColor(5, 5, 10, 6))
	_, _, lTop := top.Hsl()
	_, _, lBottom := bottom.Hsl()
	if lBottom >= lTop {
		t.Error("lower rows should be darker")
	}
}
