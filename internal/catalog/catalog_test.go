package catalog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/litescript/ls-orrery/internal/orbit"
)

func TestBuild_Default(t *testing.T) {
	sys, err := Build(DefaultConfig())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	counts := map[orbit.Kind]int{
		orbit.KindStar:     1,
		orbit.KindPlanet:   8,
		orbit.KindMoon:     13,
		orbit.KindAsteroid: 2000,
		orbit.KindComet:    5,
	}
	for kind, want := range counts {
		if got := sys.Count(kind); got != want {
			t.Errorf("Count(%s) = %d, want %d", kind, got, want)
		}
	}

	earth, ok := sys.Find("Earth")
	if !ok {
		t.Fatal("Earth not found")
	}
	moons := sys.Moons(earth)
	if len(moons) != 1 || sys.Bodies[moons[0]].Name != "Moon" {
		t.Errorf("Earth moons = %v", moons)
	}
	if info := sys.Bodies[moons[0]].Info; info != "Moon of Earth" {
		t.Errorf("moon info = %q", info)
	}
}

func TestBuild_BeltAndCometRanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	sys, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	for _, i := range sys.Indices(orbit.KindAsteroid) {
		a := sys.Bodies[i]
		if a.Distance < 32 || a.Distance >= 38 {
			t.Fatalf("asteroid distance %v outside [32, 38)", a.Distance)
		}
		if a.Height < -1 || a.Height >= 1 {
			t.Fatalf("asteroid height %v outside [-1, 1)", a.Height)
		}
		if a.CurrentSpeed < 0.2 || a.CurrentSpeed >= 0.7 {
			t.Fatalf("asteroid speed %v outside [0.2, 0.7)", a.CurrentSpeed)
		}
		if a.RotationSpeed < 0 || a.RotationSpeed >= 0.1 {
			t.Fatalf("asteroid spin %v outside [0, 0.1)", a.RotationSpeed)
		}
		if !strings.HasPrefix(a.Color, "#") || len(a.Color) != 7 {
			t.Fatalf("asteroid colour %q is not a hex colour", a.Color)
		}
	}

	for _, i := range sys.Indices(orbit.KindComet) {
		c := sys.Bodies[i]
		if c.Eccentricity != 0.8 {
			t.Errorf("comet eccentricity = %v, want 0.8", c.Eccentricity)
		}
		if c.Distance < 100 || c.Distance >= 200 {
			t.Errorf("comet distance %v outside [100, 200)", c.Distance)
		}
		if c.Name == "" {
			t.Error("comet should be named")
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	a, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Bodies {
		if a.Bodies[i] != b.Bodies[i] {
			t.Fatalf("body %d differs between builds with the same seed", i)
		}
	}

	cfg.Seed = 8
	c, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	same := true
	for i := range a.Bodies {
		if a.Bodies[i].Angle != c.Bodies[i].Angle {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical angles")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative belt", func(c *Config) { c.Belt.Count = -1 }},
		{"negative comets", func(c *Config) { c.Comets.Count = -2 }},
		{"eccentricity one", func(c *Config) { c.Comets.Eccentricity = 1 }},
		{"negative eccentricity", func(c *Config) { c.Comets.Eccentricity = -0.2 }},
		{"inverted belt speed", func(c *Config) { c.Belt.MinSpeed, c.Belt.MaxSpeed = 1, 0.5 }},
		{"inverted comet distance", func(c *Config) { c.Comets.MinDistance = 300 }},
		{"unnamed planet", func(c *Config) { c.Planets[0].Name = "" }},
		{"duplicate planet", func(c *Config) { c.Planets[1].Name = c.Planets[0].Name }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if _, err := Build(cfg); err == nil {
				t.Error("Build should fail on invalid config")
			}
		})
	}
}

func TestDefaultConfig_PlanetsAreCopies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Planets[2].Moons[0].Name = "Luna"
	if DefaultPlanets[2].Moons[0].Name != "Moon" {
		t.Error("editing DefaultConfig leaked into DefaultPlanets")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.yaml")
	content := `
seed: 42
belt:
  count: 10
comets:
  count: 2
  eccentricity: 0.5
planets:
  - name: Vulcan
    size: 1
    distance: 9
    speed: 5
    color: "#ff0000"
    moons:
      - name: Tiny
        size: 0.1
        distance: 1.5
        speed: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(NewViper(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.Belt.Count != 10 {
		t.Errorf("Belt.Count = %d, want 10", cfg.Belt.Count)
	}
	if cfg.Belt.InnerRadius != 32 {
		t.Errorf("Belt.InnerRadius = %v, want default 32", cfg.Belt.InnerRadius)
	}
	if cfg.Comets.Eccentricity != 0.5 {
		t.Errorf("Comets.Eccentricity = %v, want 0.5", cfg.Comets.Eccentricity)
	}
	if len(cfg.Planets) != 1 || cfg.Planets[0].Name != "Vulcan" || len(cfg.Planets[0].Moons) != 1 {
		t.Fatalf("Planets = %+v", cfg.Planets)
	}

	sys, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := sys.Len(); got != 1+1+1+10+2 {
		t.Errorf("Len = %d, want 15", got)
	}
}

func TestLoad_KeepsDefaultPlanetsWhenUnset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "system.yaml")
	if err := os.WriteFile(path, []byte("belt:\n  count: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(NewViper(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Planets) != len(DefaultPlanets) {
		t.Errorf("Planets = %d, want %d defaults", len(cfg.Planets), len(DefaultPlanets))
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(NewViper(filepath.Join(t.TempDir(), "nope.yaml")))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("comets:\n  eccentricity: 1.2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(NewViper(path)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ORRERY_BELT_COUNT", "17")
	t.Setenv("ORRERY_SEED", "5")

	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(NewViper(path))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Belt.Count != 17 {
		t.Errorf("Belt.Count = %d, want 17 from env", cfg.Belt.Count)
	}
	if cfg.Seed != 5 {
		t.Errorf("Seed = %d, want 5 from env", cfg.Seed)
	}
}

func TestWriteYAML_LoadsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1234
	cfg.Belt.Count = 12

	var buf bytes.Buffer
	if err := WriteYAML(&buf, cfg); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	if !strings.Contains(buf.String(), "inner_radius: 32") {
		t.Errorf("output missing belt settings:\n%s", buf.String())
	}

	path := filepath.Join(t.TempDir(), "dump.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(NewViper(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Seed != 1234 || loaded.Belt.Count != 12 || len(loaded.Planets) != 8 {
		t.Errorf("loaded = seed %d, belt %d, planets %d", loaded.Seed, loaded.Belt.Count, len(loaded.Planets))
	}
}

func TestAsteroidShade(t *testing.T) {
	dark := AsteroidShade(0)
	light := AsteroidShade(0.99)
	if dark == light {
		t.Errorf("shades should differ: %s vs %s", dark, light)
	}
}
