package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/angler/internal/data"
	"github.com/udisondev/angler/internal/game/fishing"
)

// Angler holds all configuration for the angler binary.
type Angler struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Keepnet persistence
	Database DatabaseConfig `yaml:"database"`
	Persist  bool           `yaml:"persist"`

	Fight FightConfig `yaml:"fight"`

	// Optional overrides
	TuningFile  string `yaml:"tuning_file"`
	CatalogFile string `yaml:"catalog_file"`

	// Default tackle when the command line names none
	Loadout data.Loadout `yaml:"loadout"`

	Spectator SpectatorConfig `yaml:"spectator"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// FightConfig drives the host loop.
type FightConfig struct {
	TickRate   int           `yaml:"tick_rate"` // Hz
	HardCap    time.Duration `yaml:"hard_cap"`
	Difficulty float64       `yaml:"difficulty"` // 0..1
}

// SpectatorConfig is the websocket feed listener.
type SpectatorConfig struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
}

// Addr returns host:port for net/http.
func (s SpectatorConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.BindAddress, s.Port)
}

// DefaultAngler returns Angler config with sensible defaults.
func DefaultAngler() Angler {
	return Angler{
		LogLevel: "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "angler",
			Password: "angler",
			DBName:   "angler",
			SSLMode:  "disable",
		},
		Fight: FightConfig{
			TickRate:   20,
			HardCap:    3 * time.Minute,
			Difficulty: 0.5,
		},
		Loadout: data.Loadout{
			Rod:  "feeder",
			Line: "mono 0.25",
			Reel: "trail 2000",
			Hook: "barbed 12",
		},
		Spectator: SpectatorConfig{
			BindAddress: "127.0.0.1",
			Port:        8089,
		},
	}
}

// LoadAngler loads the config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadAngler(path string) (Angler, error) {
	cfg := DefaultAngler()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// ParseLogLevel maps a config string to a slog level. Unknown values mean info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Tuning returns the stock tuning overlaid with TuningFile, if set.
func (a Angler) Tuning() (fishing.Tuning, error) {
	base := fishing.DefaultTuning()
	if a.TuningFile == "" {
		return base, nil
	}
	raw, err := os.ReadFile(a.TuningFile)
	if err != nil {
		return base, fmt.Errorf("reading tuning %s: %w", a.TuningFile, err)
	}
	t, err := fishing.MergeYAML(base, raw)
	if err != nil {
		return base, fmt.Errorf("tuning %s: %w", a.TuningFile, err)
	}
	return t, nil
}

// Catalog returns the embedded catalog, or CatalogFile when set.
func (a Angler) Catalog() (*data.Catalog, error) {
	if a.CatalogFile == "" {
		return data.Default()
	}
	return data.LoadFile(a.CatalogFile)
}
