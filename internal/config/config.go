package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"citysim/internal/domain/city"
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// FeedAddr serves the websocket tile feed. Empty disables it.
	FeedAddr string `yaml:"feed_addr"`
	// TickInterval is how often the host loop feeds wall time into the city.
	TickInterval  time.Duration `yaml:"tick_interval"`
	SnapshotEvery int           `yaml:"snapshot_every"`
	DSN           string        `yaml:"dsn"`
	Migrate       bool          `yaml:"migrate"`
	EventLimit    int           `yaml:"event_limit"`
	AllowOrigin   string        `yaml:"allow_origin"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	City   city.Config  `yaml:"city"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:          ":8080",
			FeedAddr:      ":8081",
			Migrate:       true,
			TickInterval:  250 * time.Millisecond,
			SnapshotEvery: 15,
			EventLimit:    50,
		},
		City: city.DefaultConfig(),
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from CITYSIM_* variables. Unparsable values are ignored.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("CITYSIM_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v, ok := os.LookupEnv("CITYSIM_FEED_ADDR"); ok {
		c.Server.FeedAddr = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv("CITYSIM_ALLOW_ORIGIN")); v != "" {
		c.Server.AllowOrigin = v
	}
	if v := strings.TrimSpace(os.Getenv("CITYSIM_DB_DSN")); v != "" {
		c.Server.DSN = v
	}
	c.Server.TickInterval = time.Duration(intEnv("CITYSIM_TICK_INTERVAL_MS", int(c.Server.TickInterval/time.Millisecond))) * time.Millisecond
	c.Server.SnapshotEvery = intEnv("CITYSIM_SNAPSHOT_EVERY", c.Server.SnapshotEvery)

	eco := &c.City.Economy
	eco.Size = intEnv("CITYSIM_SIZE", eco.Size)
	eco.StartingBudget = intEnv("CITYSIM_STARTING_BUDGET", eco.StartingBudget)
	eco.CooldownTicks = intEnv("CITYSIM_COOLDOWN_TICKS", eco.CooldownTicks)
	eco.RevenuePeriodTicks = intEnv("CITYSIM_REVENUE_PERIOD_TICKS", eco.RevenuePeriodTicks)
	eco.RevenuePerResident = intEnv("CITYSIM_REVENUE_PER_RESIDENT", eco.RevenuePerResident)
	eco.TickLength = time.Duration(intEnv("CITYSIM_TICK_LENGTH_MS", int(eco.TickLength/time.Millisecond))) * time.Millisecond
	c.City.Seed = uint64(intEnv("CITYSIM_SEED", int(c.City.Seed)))

	dev := &c.City.Development
	dev.AbandonThreshold = intEnv("CITYSIM_ABANDON_THRESHOLD", dev.AbandonThreshold)
	dev.AbandonChance = floatEnv("CITYSIM_ABANDON_CHANCE", dev.AbandonChance)
	dev.ConstructionTime = intEnv("CITYSIM_CONSTRUCTION_TIME", dev.ConstructionTime)
	dev.LevelUpChance = floatEnv("CITYSIM_LEVEL_UP_CHANCE", dev.LevelUpChance)
	dev.RedevelopChance = floatEnv("CITYSIM_REDEVELOP_CHANCE", dev.RedevelopChance)

	occ := &c.City.Occupancy
	occ.Residents.MaxResidents = intEnv("CITYSIM_MAX_RESIDENTS", occ.Residents.MaxResidents)
	occ.Residents.MoveInChance = floatEnv("CITYSIM_MOVE_IN_CHANCE", occ.Residents.MoveInChance)
	occ.Jobs.MaxWorkers = intEnv("CITYSIM_MAX_WORKERS", occ.Jobs.MaxWorkers)
	occ.Citizen.MaxJobSearchDistance = intEnv("CITYSIM_MAX_JOB_SEARCH_DISTANCE", occ.Citizen.MaxJobSearchDistance)
}

func (c Config) Validate() error {
	if c.City.Economy.Size <= 0 {
		return fmt.Errorf("city.economy.size must be positive, got %d", c.City.Economy.Size)
	}
	for name, p := range map[string]float64{
		"abandon_chance":   c.City.Development.AbandonChance,
		"level_up_chance":  c.City.Development.LevelUpChance,
		"redevelop_chance": c.City.Development.RedevelopChance,
		"move_in_chance":   c.City.Occupancy.Residents.MoveInChance,
		"fill_chance":      c.City.Occupancy.Jobs.FillChance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, p)
		}
	}
	return nil
}

func (c Config) Encode() ([]byte, error) {
	return yaml.Marshal(c)
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
