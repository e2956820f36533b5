package occupancy

import (
	"slices"

	"citysim/internal/domain/chance"
	"citysim/internal/domain/world"
)

// Jobs holds the worker slots of one commercial or industrial building.
type Jobs struct {
	cfg     Config
	slots   *Module
	workers []*Citizen
}

func NewJobs(cfg Config, ceiling int) *Jobs {
	cfg = cfg.Normalize()
	if ceiling <= 0 {
		ceiling = cfg.Jobs.MaxWorkers
	}
	return &Jobs{cfg: cfg, slots: NewModule(cfg.Jobs.PerLevel, ceiling)}
}

func (j *Jobs) Count() int { return j.slots.Count() }

func (j *Jobs) Capacity(level int) int { return j.slots.Capacity(level) }

func (j *Jobs) Workers() []*Citizen { return slices.Clone(j.workers) }

func (j *Jobs) SearchDistance() int { return j.cfg.Citizen.MaxJobSearchDistance }

func (j *Jobs) CitizenConfig() CitizenConfig { return j.cfg.Citizen }

// Simulate runs one tick. A building that is not developed lets every worker
// go. Otherwise, when a slot is free and the fill roll succeeds, find is asked
// for a candidate within reach.
func (j *Jobs) Simulate(employer world.BuildingID, developed bool, level int, rnd chance.Source, find func() (*Citizen, bool)) (*Citizen, bool) {
	if !developed {
		j.ReleaseAll()
		return nil, false
	}
	if j.slots.Full(level) {
		return nil, false
	}
	if !chance.Roll(rnd, j.cfg.Jobs.FillChance) {
		return nil, false
	}
	c, ok := find()
	if !ok || !c.Eligible(j.cfg.Citizen) {
		return nil, false
	}
	j.slots.increment(level)
	c.job = j
	c.Employer = employer
	j.workers = append(j.workers, c)
	return c, true
}

func (j *Jobs) ReleaseAll() {
	for len(j.workers) > 0 {
		j.release(j.workers[0])
	}
}

func (j *Jobs) release(c *Citizen) {
	i := slices.Index(j.workers, c)
	if i < 0 {
		panic("occupancy: releasing a citizen that does not work here")
	}
	j.workers = slices.Delete(j.workers, i, i+1)
	j.slots.decrement()
	c.job = nil
	c.Employer = world.NoBuilding
}
