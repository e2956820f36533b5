package city

import (
	"time"

	"citysim/internal/domain/chance"
	"citysim/internal/domain/development"
	"citysim/internal/domain/occupancy"
)

type EconomyConfig struct {
	Size               int           `yaml:"size"`
	StartingBudget     int           `yaml:"starting_budget"`
	CooldownTicks      int           `yaml:"cooldown_ticks"`
	RevenuePeriodTicks int           `yaml:"revenue_period_ticks"`
	RevenuePerResident int           `yaml:"revenue_per_resident"`
	TickLength         time.Duration `yaml:"tick_length"`
	PlaceTownHall      bool          `yaml:"place_town_hall"`
}

type PowerConfig struct {
	PlantCapacity  int `yaml:"plant_capacity"`
	ConsumerDemand int `yaml:"consumer_demand"`
}

type Config struct {
	ID          string             `yaml:"id"`
	Seed        uint64             `yaml:"seed"`
	Economy     EconomyConfig      `yaml:"economy"`
	Development development.Config `yaml:"development"`
	Occupancy   occupancy.Config   `yaml:",inline"`
	Power       PowerConfig        `yaml:"power"`

	Rand     chance.Source    `yaml:"-"`
	View     View             `yaml:"-"`
	Services []Service        `yaml:"-"`
	Now      func() time.Time `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		Seed: 1,
		Economy: EconomyConfig{
			Size:               25,
			StartingBudget:     4000,
			CooldownTicks:      3,
			RevenuePeriodTicks: 15,
			RevenuePerResident: 10,
			TickLength:         time.Second,
			PlaceTownHall:      true,
		},
		Development: development.DefaultConfig(),
		Occupancy:   occupancy.DefaultConfig(),
		Power: PowerConfig{
			PlantCapacity:  50,
			ConsumerDemand: 5,
		},
		Now: time.Now,
	}
}

func (cfg Config) normalize() Config {
	def := DefaultConfig()
	if cfg.Economy.Size <= 0 {
		cfg.Economy.Size = def.Economy.Size
	}
	if cfg.Economy.CooldownTicks < 0 {
		cfg.Economy.CooldownTicks = 0
	}
	if cfg.Economy.RevenuePeriodTicks <= 0 {
		cfg.Economy.RevenuePeriodTicks = def.Economy.RevenuePeriodTicks
	}
	if cfg.Economy.TickLength <= 0 {
		cfg.Economy.TickLength = def.Economy.TickLength
	}
	if cfg.Development == (development.Config{}) {
		cfg.Development = def.Development
	}
	cfg.Occupancy = cfg.Occupancy.Normalize()
	if cfg.Power.PlantCapacity <= 0 {
		cfg.Power.PlantCapacity = def.Power.PlantCapacity
	}
	if cfg.Power.ConsumerDemand <= 0 {
		cfg.Power.ConsumerDemand = def.Power.ConsumerDemand
	}
	if cfg.Rand == nil {
		cfg.Rand = chance.NewSeeded(cfg.Seed)
	}
	if cfg.View == nil {
		cfg.View = nopView{}
	}
	if cfg.Services == nil {
		cfg.Services = []Service{NewPowerService(cfg.Power)}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return cfg
}
