package config

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"holdem-server/internal/rng"
	"holdem-server/internal/util"
	"holdem-server/pkg/table"
)

// Config provides configuration for the Hold'em server
type Config struct {
	loaded bool

	Addr string `yaml:"addr" envconfig:"addr"`
	Log  struct {
		Level             string `yaml:"level"`
		Format            string `yaml:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`

	// Table holds the defaults for hosted tables
	Table struct {
		MaxSeats        int           `yaml:"maxSeats" envconfig:"max_seats"`
		SmallBlind      int           `yaml:"smallBlind" envconfig:"small_blind"`
		BigBlind        int           `yaml:"bigBlind" envconfig:"big_blind"`
		StartingStack   int           `yaml:"startingStack" envconfig:"starting_stack"`
		RequireReady    bool          `yaml:"requireReady" envconfig:"require_ready"`
		DisconnectGrace time.Duration `yaml:"disconnectGrace" envconfig:"disconnect_grace"`
		InterHandDelay  time.Duration `yaml:"interHandDelay" envconfig:"inter_hand_delay"`
		EmptyRetention  time.Duration `yaml:"emptyRetention" envconfig:"empty_retention"`
	} `yaml:"table"`

	// CleanupInterval is how often abandoned tables are swept
	CleanupInterval time.Duration `yaml:"cleanupInterval" envconfig:"cleanup_interval"`
	// ShuffleAlgorithm is lcg-fnv1a or crypto
	ShuffleAlgorithm string `yaml:"shuffleAlgorithm" envconfig:"shuffle_algorithm"`
}

var (
	config Config
	lock   sync.Mutex
)

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	opts := table.DefaultOptions()

	var cfg Config
	cfg.Addr = ":5000"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Table.MaxSeats = opts.MaxSeats
	cfg.Table.SmallBlind = opts.SmallBlind
	cfg.Table.BigBlind = opts.BigBlind
	cfg.Table.StartingStack = opts.StartingStack
	cfg.Table.DisconnectGrace = opts.DisconnectGrace
	cfg.Table.InterHandDelay = opts.InterHandDelay
	cfg.Table.EmptyRetention = opts.EmptyRetention
	cfg.CleanupInterval = time.Minute
	cfg.ShuffleAlgorithm = rng.Default.Name()

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	lock.Lock()
	loaded := config.loaded
	lock.Unlock()

	if !loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	lock.Lock()
	defer lock.Unlock()
	return config
}

// Load will load the configuration
// The YAML file is optional unless HOLDEM_CONFIG_FILE names one explicitly
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("HOLDEM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil {
		if _, explicit := os.LookupEnv("HOLDEM_CONFIG_FILE"); explicit || !errors.Is(err, os.ErrNotExist) {
			return err
		}
	} else {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	}

	if err := envconfig.Process("holdem", &cfg); err != nil {
		return err
	}

	if _, err := rng.SourceByName(cfg.ShuffleAlgorithm); err != nil {
		return err
	}

	if cfg.CleanupInterval <= 0 {
		return errors.New("cleanup interval must be greater than zero")
	}

	cfg.loaded = true

	lock.Lock()
	defer lock.Unlock()
	config = cfg
	return nil
}

// TableOptions returns the options for a new table with the configured defaults
func (c Config) TableOptions() table.Options {
	opts := table.DefaultOptions()
	opts.MaxSeats = c.Table.MaxSeats
	opts.SmallBlind = c.Table.SmallBlind
	opts.BigBlind = c.Table.BigBlind
	opts.StartingStack = c.Table.StartingStack
	opts.RequireReady = c.Table.RequireReady
	opts.DisconnectGrace = c.Table.DisconnectGrace
	opts.InterHandDelay = c.Table.InterHandDelay
	opts.EmptyRetention = c.Table.EmptyRetention

	// validated when the config was loaded
	opts.Source, _ = rng.SourceByName(c.ShuffleAlgorithm)
	return opts
}
