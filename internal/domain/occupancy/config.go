package occupancy

type ResidentsConfig struct {
	MaxResidents int     `yaml:"max_residents"`
	PerLevel     int     `yaml:"per_level"`
	MoveInChance float64 `yaml:"move_in_chance"`
	// Occupancy ratio below which a residential zone counts toward abandonment.
	MinOccupancy float64 `yaml:"min_occupancy"`
}

type JobsConfig struct {
	MaxWorkers int     `yaml:"max_workers"`
	PerLevel   int     `yaml:"per_level"`
	FillChance float64 `yaml:"fill_chance"`
}

type CitizenConfig struct {
	MinWorkingAge        int `yaml:"min_working_age"`
	RetirementAge        int `yaml:"retirement_age"`
	MaxJobSearchDistance int `yaml:"max_job_search_distance"`
	MaxAge               int `yaml:"max_age"`
}

type Config struct {
	Residents ResidentsConfig `yaml:"residents"`
	Jobs      JobsConfig      `yaml:"jobs"`
	Citizen   CitizenConfig   `yaml:"citizen"`
}

func DefaultConfig() Config {
	return Config{
		Residents: ResidentsConfig{
			MaxResidents: 2,
			PerLevel:     2,
			MoveInChance: 0.5,
			MinOccupancy: 0.25,
		},
		Jobs: JobsConfig{
			MaxWorkers: 2,
			PerLevel:   2,
			FillChance: 1,
		},
		Citizen: CitizenConfig{
			MinWorkingAge:        16,
			RetirementAge:        65,
			MaxJobSearchDistance: 4,
			MaxAge:               90,
		},
	}
}

// Normalize fills zero values from DefaultConfig. Chances are left as given so
// that zero stays expressible.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.Residents.MaxResidents <= 0 {
		c.Residents.MaxResidents = def.Residents.MaxResidents
	}
	if c.Residents.PerLevel <= 0 {
		c.Residents.PerLevel = def.Residents.PerLevel
	}
	if c.Jobs.MaxWorkers <= 0 {
		c.Jobs.MaxWorkers = def.Jobs.MaxWorkers
	}
	if c.Jobs.PerLevel <= 0 {
		c.Jobs.PerLevel = def.Jobs.PerLevel
	}
	if c.Citizen.RetirementAge <= 0 {
		c.Citizen.RetirementAge = def.Citizen.RetirementAge
	}
	if c.Citizen.MaxAge <= 0 {
		c.Citizen.MaxAge = def.Citizen.MaxAge
	}
	if c.Citizen.MaxJobSearchDistance < 0 {
		c.Citizen.MaxJobSearchDistance = 0
	}
	return c
}
