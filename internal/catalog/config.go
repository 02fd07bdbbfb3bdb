package catalog

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// BeltConfig controls asteroid belt generation.
type BeltConfig struct {
	Count       int     `mapstructure:"count" yaml:"count"`
	InnerRadius float64 `mapstructure:"inner_radius" yaml:"inner_radius"`
	Width       float64 `mapstructure:"width" yaml:"width"`
	Height      float64 `mapstructure:"height" yaml:"height"` // Total vertical spread
	MinSpeed    float64 `mapstructure:"min_speed" yaml:"min_speed"`
	MaxSpeed    float64 `mapstructure:"max_speed" yaml:"max_speed"`
	MaxRotation float64 `mapstructure:"max_rotation" yaml:"max_rotation"`
}

// CometConfig controls comet generation.
type CometConfig struct {
	Count        int     `mapstructure:"count" yaml:"count"`
	MinDistance  float64 `mapstructure:"min_distance" yaml:"min_distance"`
	MaxDistance  float64 `mapstructure:"max_distance" yaml:"max_distance"`
	MinSpeed     float64 `mapstructure:"min_speed" yaml:"min_speed"`
	MaxSpeed     float64 `mapstructure:"max_speed" yaml:"max_speed"`
	Eccentricity float64 `mapstructure:"eccentricity" yaml:"eccentricity"`
	HeightSpread float64 `mapstructure:"height_spread" yaml:"height_spread"`
}

// Config is the full description of a system to build.
type Config struct {
	Seed    uint64      `mapstructure:"seed" yaml:"seed"`
	Star    StarDef     `mapstructure:"star" yaml:"star"`
	Planets []PlanetDef `mapstructure:"planets" yaml:"planets"`
	Belt    BeltConfig  `mapstructure:"belt" yaml:"belt"`
	Comets  CometConfig `mapstructure:"comets" yaml:"comets"`
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid catalog config")

// EnvPrefix is the prefix for environment overrides (ORRERY_BELT_COUNT, ...).
const EnvPrefix = "ORRERY"

// DefaultConfig returns the stock system: eight planets, a 2000-member belt
// between Mars and Jupiter and five comets.
func DefaultConfig() Config {
	return Config{
		Seed:    1,
		Star:    DefaultStar,
		Planets: clonePlanets(DefaultPlanets),
		Belt: BeltConfig{
			Count:       2000,
			InnerRadius: 32,
			Width:       6,
			Height:      2,
			MinSpeed:    0.2,
			MaxSpeed:    0.7,
			MaxRotation: 0.1,
		},
		Comets: CometConfig{
			Count:        5,
			MinDistance:  100,
			MaxDistance:  200,
			MinSpeed:     0.05,
			MaxSpeed:     0.15,
			Eccentricity: 0.8,
			HeightSpread: 50,
		},
	}
}

// Validate checks ranges that would otherwise produce an unusable system.
func (c Config) Validate() error {
	if c.Belt.Count < 0 {
		return fmt.Errorf("%w: belt count %d is negative", ErrInvalidConfig, c.Belt.Count)
	}
	if c.Comets.Count < 0 {
		return fmt.Errorf("%w: comet count %d is negative", ErrInvalidConfig, c.Comets.Count)
	}
	if c.Belt.InnerRadius < 0 || c.Belt.Width < 0 {
		return fmt.Errorf("%w: belt radius and width must be non-negative", ErrInvalidConfig)
	}
	if c.Belt.MinSpeed > c.Belt.MaxSpeed {
		return fmt.Errorf("%w: belt min_speed %v > max_speed %v", ErrInvalidConfig, c.Belt.MinSpeed, c.Belt.MaxSpeed)
	}
	if c.Comets.MinDistance > c.Comets.MaxDistance {
		return fmt.Errorf("%w: comet min_distance %v > max_distance %v", ErrInvalidConfig, c.Comets.MinDistance, c.Comets.MaxDistance)
	}
	if c.Comets.MinSpeed > c.Comets.MaxSpeed {
		return fmt.Errorf("%w: comet min_speed %v > max_speed %v", ErrInvalidConfig, c.Comets.MinSpeed, c.Comets.MaxSpeed)
	}
	if e := c.Comets.Eccentricity; e < 0 || e >= 1 {
		return fmt.Errorf("%w: comet eccentricity %v outside [0, 1)", ErrInvalidConfig, e)
	}
	seen := make(map[string]bool)
	for _, p := range c.Planets {
		if p.Name == "" {
			return fmt.Errorf("%w: planet without a name", ErrInvalidConfig)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate planet %q", ErrInvalidConfig, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// NewViper returns a viper instance that reads the given config file, or
// searches ./ls-orrery.* and ~/.config/ls-orrery/ when path is empty.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ls-orrery")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/ls-orrery")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the catalog section of v on top of DefaultConfig. A config file
// that cannot be found is not an error when none was named explicitly.
func Load(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	// A planet list in the file replaces the default table instead of
	// being merged into it element by element.
	cfg.Planets = nil
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if !v.IsSet("planets") {
		cfg.Planets = clonePlanets(DefaultPlanets)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers the scalar keys so environment overrides apply to them.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("seed", cfg.Seed)

	v.SetDefault("star.name", cfg.Star.Name)
	v.SetDefault("star.size", cfg.Star.Size)
	v.SetDefault("star.color", cfg.Star.Color)
	v.SetDefault("star.info", cfg.Star.Info)

	v.SetDefault("belt.count", cfg.Belt.Count)
	v.SetDefault("belt.inner_radius", cfg.Belt.InnerRadius)
	v.SetDefault("belt.width", cfg.Belt.Width)
	v.SetDefault("belt.height", cfg.Belt.Height)
	v.SetDefault("belt.min_speed", cfg.Belt.MinSpeed)
	v.SetDefault("belt.max_speed", cfg.Belt.MaxSpeed)
	v.SetDefault("belt.max_rotation", cfg.Belt.MaxRotation)

	v.SetDefault("comets.count", cfg.Comets.Count)
	v.SetDefault("comets.min_distance", cfg.Comets.MinDistance)
	v.SetDefault("comets.max_distance", cfg.Comets.MaxDistance)
	v.SetDefault("comets.min_speed", cfg.Comets.MinSpeed)
	v.SetDefault("comets.max_speed", cfg.Comets.MaxSpeed)
	v.SetDefault("comets.eccentricity", cfg.Comets.Eccentricity)
	v.SetDefault("comets.height_spread", cfg.Comets.HeightSpread)
}

// WriteYAML writes cfg in the format Load accepts.
func WriteYAML(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
