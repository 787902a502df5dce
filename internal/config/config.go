package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/navspawn/internal/model"
)

// Source kinds.
const (
	SourceSnapshot = "snapshot"
	SourcePostgres = "postgres"
)

// Sink kinds.
const (
	SinkNone     = "none"
	SinkSQLite   = "sqlite"
	SinkPostgres = "postgres"
)

// Config holds all configuration for a generation run.
type Config struct {
	LogLevel string `yaml:"log_level"`

	// Seed drives every random draw of the run. Zero picks a random seed.
	Seed    uint64 `yaml:"seed"`
	Workers int    `yaml:"workers"` // 0 = GOMAXPROCS

	Source SourceConfig `yaml:"source"`
	Sink   SinkConfig   `yaml:"sink"`

	// Database is used when source or sink is postgres.
	Database DatabaseConfig `yaml:"database"`

	// MetricsFile receives a Prometheus text exposition after the run. Empty disables.
	MetricsFile string `yaml:"metrics_file"`

	Classification Classification `yaml:"classification"`

	Interior DomainSettings `yaml:"interior"`
	Exterior DomainSettings `yaml:"exterior"`
}

// SourceConfig selects where world data is read from.
type SourceConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"` // snapshot file (.json or .json.zst)
}

// SinkConfig selects where generated spawns are written.
type SinkConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"` // SQLite file
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"` // takes precedence over the discrete fields
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// ConnString returns the PostgreSQL connection string.
func (d DatabaseConfig) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Classification lists the named exceptions to the worldspace rule:
// areas in a worldspace are exterior, everything else interior.
type Classification struct {
	// Worldspaces that are open-world regions but play like dungeons.
	InteriorWorldspaces []string `yaml:"interior_worldspaces"`
	// Interior areas that play like the open world.
	ExteriorAreas []model.FormID `yaml:"exterior_areas"`
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Source:   SourceConfig{Kind: SourceSnapshot, Path: "world.json.zst"},
		Sink:     SinkConfig{Kind: SinkSQLite, Path: "spawns.db"},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "navspawn",
			Password: "navspawn",
			DBName:   "navspawn",
			SSLMode:  "disable",
		},
		Classification: Classification{
			InteriorWorldspaces: []string{"Blackreach", "DLC01SoulCairn", "DLC01FalmerValley"},
		},
		Interior: DefaultInterior(),
		Exterior: DefaultExterior(),
	}
}

// Domain returns the settings block for d.
func (c Config) Domain(d model.AreaDomain) DomainSettings {
	if d == model.DomainExterior {
		return c.Exterior
	}
	return c.Interior
}

// Validate checks both domain blocks and the source/sink selection.
func (c Config) Validate() error {
	var errs []error
	if err := c.Interior.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("interior: %w", err))
	}
	if err := c.Exterior.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("exterior: %w", err))
	}
	switch c.Source.Kind {
	case SourceSnapshot, SourcePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown source kind %q", c.Source.Kind))
	}
	switch c.Sink.Kind {
	case SinkNone, SinkSQLite, SinkPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown sink kind %q", c.Sink.Kind))
	}
	if c.Workers < 0 {
		errs = append(errs, errors.New("workers must be >= 0"))
	}
	return errors.Join(errs...)
}

// warnClusterSpacing logs the one combination that is legal but surprising:
// a cluster may then reach into the area reserved for the next seed.
func (c Config) warnClusterSpacing() {
	for _, d := range []model.AreaDomain{model.DomainInterior, model.DomainExterior} {
		s := c.Domain(d)
		if s.ClusterMinimumDistanceToOtherClusters < s.ClusterSpawnRadius {
			slog.Warn("cluster minimum distance is smaller than spawn radius",
				"domain", d,
				"minDistance", s.ClusterMinimumDistanceToOtherClusters,
				"radius", s.ClusterSpawnRadius)
		}
	}
}

// Load loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	cfg.warnClusterSpacing()

	return cfg, nil
}
