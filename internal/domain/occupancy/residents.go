package occupancy

import (
	"slices"

	"citysim/internal/domain/chance"
	"citysim/internal/domain/world"
)

// Residents houses citizens in one residential building.
type Residents struct {
	cfg      Config
	slots    *Module
	citizens []*Citizen
}

func NewResidents(cfg Config, ceiling int) *Residents {
	cfg = cfg.Normalize()
	if ceiling <= 0 {
		ceiling = cfg.Residents.MaxResidents
	}
	return &Residents{cfg: cfg, slots: NewModule(cfg.Residents.PerLevel, ceiling)}
}

func (r *Residents) Count() int { return r.slots.Count() }

func (r *Residents) Capacity(level int) int { return r.slots.Capacity(level) }

func (r *Residents) Ratio(level int) float64 { return r.slots.Ratio(level) }

func (r *Residents) Citizens() []*Citizen { return slices.Clone(r.citizens) }

func (r *Residents) Employed() int {
	n := 0
	for _, c := range r.citizens {
		if c.Employed() {
			n++
		}
	}
	return n
}

// Underoccupied is the residential abandonment criterion.
func (r *Residents) Underoccupied(level int) bool {
	return r.slots.Ratio(level) < r.cfg.Residents.MinOccupancy
}

// Candidate returns the first resident that could take a job.
func (r *Residents) Candidate() (*Citizen, bool) {
	for _, c := range r.citizens {
		if c.Eligible(r.cfg.Citizen) {
			return c, true
		}
	}
	return nil, false
}

// Simulate runs one tick. A home that is not developed is emptied. Otherwise
// one citizen may move in when there is room; its age comes from the same
// source as the move-in roll.
func (r *Residents) Simulate(home world.BuildingID, developed bool, level int, rnd chance.Source, nextID func() CitizenID) (*Citizen, bool) {
	if !developed {
		r.EvictAll()
		return nil, false
	}
	if r.slots.Full(level) {
		return nil, false
	}
	if !chance.Roll(rnd, r.cfg.Residents.MoveInChance) {
		return nil, false
	}
	c := &Citizen{
		ID:   nextID(),
		Age:  int(rnd.Float64() * float64(r.cfg.Citizen.MaxAge)),
		Home: home,
	}
	r.slots.increment(level)
	r.citizens = append(r.citizens, c)
	return c, true
}

// EvictAll moves every resident out and ends their jobs.
func (r *Residents) EvictAll() {
	for _, c := range r.citizens {
		c.Quit()
		c.Home = world.NoBuilding
		r.slots.decrement()
	}
	r.citizens = nil
}
