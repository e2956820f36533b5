package occupancy

import "citysim/internal/domain/world"

type CitizenID uint64

type Citizen struct {
	ID       CitizenID
	Age      int
	Home     world.BuildingID
	Employer world.BuildingID

	job *Jobs
}

func (c *Citizen) Employed() bool { return c.job != nil }

func (c *Citizen) WorkingAge(cfg CitizenConfig) bool {
	return c.Age >= cfg.MinWorkingAge && c.Age < cfg.RetirementAge
}

// Eligible reports whether the citizen could take a job. The caller checks
// that the home is developed.
func (c *Citizen) Eligible(cfg CitizenConfig) bool {
	return c.Home != world.NoBuilding && !c.Employed() && c.WorkingAge(cfg)
}

// Quit releases the citizen from its current job, if any.
func (c *Citizen) Quit() {
	if c.job != nil {
		c.job.release(c)
	}
}
