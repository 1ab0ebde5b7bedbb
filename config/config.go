// Package config loads game settings from a YAML file and CHAINTRIS_*
// environment variables, in that order of precedence from low to high.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/plus3/chaintris/progression"
	"github.com/plus3/chaintris/tetris"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CHAINTRIS_"

const (
	GeneratorRandom = "random"
	GeneratorBag    = "bag"
)

type Config struct {
	Width     int    `yaml:"width" env:"WIDTH"`
	Height    int    `yaml:"height" env:"HEIGHT"`
	Seed      uint64 `yaml:"seed" env:"SEED"`
	Generator string `yaml:"generator" env:"GENERATOR"`

	PlayerID string `yaml:"player_id" env:"PLAYER_ID"`
	// Catalog is a mission catalog file; empty uses the built-in one.
	Catalog string `yaml:"catalog" env:"CATALOG"`

	Ledger LedgerConfig `yaml:"ledger" envPrefix:"LEDGER_"`

	// ReplayDir enables replay recording when set.
	ReplayDir string `yaml:"replay_dir" env:"REPLAY_DIR"`
	Debug     bool   `yaml:"debug" env:"DEBUG"`
}

// LedgerConfig selects the ledger backend. Timeout bounds the connection,
// the initial profile load and every report the syncer sends.
type LedgerConfig struct {
	Mode      string        `yaml:"mode" env:"MODE"`
	Path      string        `yaml:"path" env:"PATH"`
	URL       string        `yaml:"url" env:"URL"`
	Listen    string        `yaml:"listen" env:"LISTEN"`
	QueueSize int           `yaml:"queue_size" env:"QUEUE_SIZE"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// Default returns the standard 10x20 game with an in-memory ledger.
func Default() Config {
	return Config{
		Width:     tetris.DefaultWidth,
		Height:    tetris.DefaultHeight,
		Generator: GeneratorBag,
		PlayerID:  "local",
		Ledger: LedgerConfig{
			Mode:      LedgerMemory,
			Path:      "chaintris-ledger.db",
			URL:       "ws://127.0.0.1:8787/ledger",
			Listen:    "127.0.0.1:8787",
			QueueSize: 64,
			Timeout:   5 * time.Second,
		},
	}
}

// Load starts from Default, applies the YAML file at path if path is not
// empty, then the environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Width < 4 || c.Height < 4 {
		errs = append(errs, fmt.Errorf("board %dx%d is too small", c.Width, c.Height))
	}
	switch c.Generator {
	case GeneratorRandom, GeneratorBag:
	default:
		errs = append(errs, fmt.Errorf("unknown generator %q", c.Generator))
	}
	switch c.Ledger.Mode {
	case LedgerNone, LedgerMemory:
	case LedgerSQLite:
		if c.Ledger.Path == "" {
			errs = append(errs, errors.New("ledger mode sqlite needs a path"))
		}
	case LedgerRemote:
		if c.Ledger.URL == "" {
			errs = append(errs, errors.New("ledger mode remote needs a url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ledger mode %q", c.Ledger.Mode))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// NewGenerator builds the configured piece generator.
func (c Config) NewGenerator() tetris.Generator {
	if c.Generator == GeneratorRandom {
		return tetris.NewRandomGenerator(c.Seed)
	}
	return tetris.NewBagGenerator(c.Seed)
}

// NewSession builds a session with the configured board and generator.
func (c Config) NewSession() *tetris.Session {
	return tetris.NewSession(c.Width, c.Height, c.NewGenerator())
}

// LoadCatalog returns the configured mission catalog.
func (c Config) LoadCatalog() (progression.Catalog, error) {
	if c.Catalog == "" {
		return progression.DefaultCatalog(), nil
	}
	return progression.LoadCatalog(c.Catalog)
}
