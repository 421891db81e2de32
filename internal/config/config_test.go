package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"holdem-server/internal/rng"
	"holdem-server/internal/util"
)

func TestInstance(t *testing.T) {
	defer util.SetEnv("HOLDEM_CONFIG_FILE", "testdata/config.yaml")()
	defer util.SetEnv("HOLDEM_TABLE_BIG_BLIND", "100")()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal(":6000", cfg.Addr)
	a.Equal("debug", cfg.Log.Level)
	a.Equal(6, cfg.Table.MaxSeats)
	a.Equal(25, cfg.Table.SmallBlind)
	a.Equal(100, cfg.Table.BigBlind)
	a.Equal(45*time.Second, cfg.Table.DisconnectGrace)
	// not in the file
	a.Equal(5*time.Second, cfg.Table.InterHandDelay)
	a.Equal(time.Minute, cfg.CleanupInterval)

	// ensure that it's only loaded once
	_ = os.Setenv("HOLDEM_TABLE_BIG_BLIND", "200")
	// ensure we aren't using a pointer
	cfg.Table.BigBlind = 1
	cfg = Instance()
	a.Equal(100, cfg.Table.BigBlind)

	opts := cfg.TableOptions()
	a.Equal(6, opts.MaxSeats)
	a.Equal(5000, opts.StartingStack)
	a.True(opts.RequireReady)
	a.Equal(rng.Crypto{}, opts.Source)
	a.NoError(opts.Validate())
}

func TestDefaults(t *testing.T) {
	defer util.SetEnv("HOLDEM_CONFIG_FILE", "testdata/missing.yaml")()

	a := assert.New(t)
	a.Error(Load())

	_ = os.Unsetenv("HOLDEM_CONFIG_FILE")
	a.NoError(Load())
	cfg := Instance()
	a.Equal(DefaultConfig().Table, cfg.Table)
	a.Equal("lcg-fnv1a", cfg.ShuffleAlgorithm)
	a.Equal(rng.LCG{}, cfg.TableOptions().Source)
	a.NoError(cfg.TableOptions().Validate())
}

func TestLoad_BadAlgorithm(t *testing.T) {
	defer util.SetEnv("HOLDEM_CONFIG_FILE", "testdata/bad_algorithm.yaml")()
	assert.EqualError(t, Load(), "unknown shuffle algorithm: dice")
}

func TestLoad_BadCleanupInterval(t *testing.T) {
	defer util.SetEnv("HOLDEM_CONFIG_FILE", "testdata/config.yaml")()
	defer util.SetEnv("HOLDEM_CLEANUP_INTERVAL", "0s")()
	assert.EqualError(t, Load(), "cleanup interval must be greater than zero")

	_ = os.Setenv("HOLDEM_CLEANUP_INTERVAL", "-1m")
	assert.EqualError(t, Load(), "cleanup interval must be greater than zero")
}
