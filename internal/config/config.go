package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/mapoverlay/internal/overlay"
	"github.com/mitchelldurbincs/mapoverlay/internal/overlay/core"
)

// Config holds all configuration for the application
type Config struct {
	Overlay OverlayConfig `mapstructure:"overlay"`
	Tables  TablesConfig  `mapstructure:"tables"`
	World   WorldConfig   `mapstructure:"world"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// OverlayConfig holds the user-facing overlay options
type OverlayConfig struct {
	ShowBuriedGeysers  bool   `mapstructure:"show_buried_geysers"`
	ShowBuriedCritters bool   `mapstructure:"show_buried_critters"`
	CountObjects       bool   `mapstructure:"count_objects"`
	DefaultMode        string `mapstructure:"default_mode"`
	SingleDarkBoost    bool   `mapstructure:"single_dark_boost"`
}

// TablesConfig points at an optional element/biome table override file
type TablesConfig struct {
	Path string `mapstructure:"path"`
}

// WorldConfig holds world generation settings
type WorldConfig struct {
	Width        int     `mapstructure:"width"`
	Height       int     `mapstructure:"height"`
	Worlds       int     `mapstructure:"worlds"`
	Seed         int64   `mapstructure:"seed"` // 0 picks a time-based seed
	GeyserRatio  int     `mapstructure:"geyser_ratio"`
	CritterRatio int     `mapstructure:"critter_ratio"`
	PlantRatio   int     `mapstructure:"plant_ratio"`
	SolidChance  float64 `mapstructure:"solid_chance"`
}

// UIConfig holds viewer settings
type UIConfig struct {
	Window      WindowConfig `mapstructure:"window"`
	TileSize    int          `mapstructure:"tile_size"`
	LegendWidth int          `mapstructure:"legend_width"`
	Highlights  bool         `mapstructure:"highlights"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"` // console or json
	DevEvents bool   `mapstructure:"dev_events"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"mode":            "overlay.default_mode",
	"count":           "overlay.count_objects",
	"buried-geysers":  "overlay.show_buried_geysers",
	"buried-critters": "overlay.show_buried_critters",
	"tables":          "tables.path",
	"seed":            "world.seed",
	"width":           "world.width",
	"height":          "world.height",
	"worlds":          "world.worlds",
	"log-level":       "logging.level",
}

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("overlay.show_buried_geysers", false)
	v.SetDefault("overlay.show_buried_critters", false)
	v.SetDefault("overlay.count_objects", true)
	v.SetDefault("overlay.default_mode", core.DefaultMode.String())
	v.SetDefault("overlay.single_dark_boost", false)

	v.SetDefault("tables.path", "")

	v.SetDefault("world.width", 64)
	v.SetDefault("world.height", 40)
	v.SetDefault("world.worlds", 2)
	v.SetDefault("world.seed", 0)
	v.SetDefault("world.geyser_ratio", 250)
	v.SetDefault("world.critter_ratio", 60)
	v.SetDefault("world.plant_ratio", 80)
	v.SetDefault("world.solid_chance", 0.45)

	v.SetDefault("ui.window.width", 1280)
	v.SetDefault("ui.window.height", 720)
	v.SetDefault("ui.window.title", "Map Overlay")
	v.SetDefault("ui.tile_size", 12)
	v.SetDefault("ui.legend_width", 240)
	v.SetDefault("ui.highlights", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.dev_events", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	return InitWithFlags(configPath, nil)
}

// InitWithFlags initializes the configuration with command line flags taking
// precedence over the file and environment. Flags not in flagKeys are ignored.
func InitWithFlags(configPath string, flags *pflag.FlagSet) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("mapoverlay")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/mapoverlay")
	}

	v.SetEnvPrefix("MAPOVERLAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := BindFlags(v, flags); err != nil {
			return err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing explicit file falls back to defaults, like a missing default file
		if configPath == "" && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// BindFlags binds the known flags present in flags to their config keys
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges mapoverlay.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("mapoverlay.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return nil
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange receives the
// reloaded config, or the validation error when the new file is invalid; an
// invalid file leaves the previous config in place.
func WatchConfig(onChange func(*Config, error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		err := v.Unmarshal(next)
		if err == nil {
			err = Validate(next)
		}
		if err == nil {
			*cfg = *next
		}
		if onChange != nil {
			onChange(cfg, err)
		}
	})
	v.WatchConfig()
}

// Settings converts the overlay section into overlay settings
func (c OverlayConfig) Settings() overlay.Settings {
	return overlay.Settings{
		ShowBuriedGeysers:  c.ShowBuriedGeysers,
		ShowBuriedCritters: c.ShowBuriedCritters,
		CountObjects:       c.CountObjects,
	}
}

// Mode parses the configured default mode
func (c OverlayConfig) Mode() (core.FilterMode, error) {
	return core.ParseFilterMode(c.DefaultMode)
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if _, err := c.Overlay.Mode(); err != nil {
		return fmt.Errorf("overlay.default_mode: %w", err)
	}

	if c.World.Width <= 0 || c.World.Height <= 1 {
		return fmt.Errorf("%w: world dimensions must be positive (height at least 2)", core.ErrInvalidSettings)
	}
	if c.World.Worlds < 1 {
		return fmt.Errorf("%w: world.worlds must be at least 1", core.ErrInvalidSettings)
	}
	if c.World.GeyserRatio < 0 || c.World.CritterRatio < 0 || c.World.PlantRatio < 0 {
		return fmt.Errorf("%w: world ratios must be non-negative", core.ErrInvalidSettings)
	}
	if c.World.SolidChance < 0 || c.World.SolidChance > 1 {
		return fmt.Errorf("%w: world.solid_chance must be between 0 and 1", core.ErrInvalidSettings)
	}

	if c.UI.Window.Width <= 0 || c.UI.Window.Height <= 0 {
		return fmt.Errorf("%w: ui.window dimensions must be positive", core.ErrInvalidSettings)
	}
	if c.UI.TileSize <= 0 {
		return fmt.Errorf("%w: ui.tile_size must be positive", core.ErrInvalidSettings)
	}
	if c.UI.LegendWidth < 0 {
		return fmt.Errorf("%w: ui.legend_width must be non-negative", core.ErrInvalidSettings)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json", core.ErrInvalidSettings)
	}

	return nil
}
