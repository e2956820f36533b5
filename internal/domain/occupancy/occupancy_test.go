package occupancy

import (
	"testing"

	"citysim/internal/domain/chance"
	"citysim/internal/domain/world"
)

func idSeq() func() CitizenID {
	var next CitizenID
	return func() CitizenID {
		next++
		return next
	}
}

func TestModuleCapacityScalesWithLevelUpToCeiling(t *testing.T) {
	m := NewModule(2, 5)
	cases := map[int]int{0: 0, 1: 2, 2: 4, 3: 5, 10: 5}
	for level, want := range cases {
		if got := m.Capacity(level); got != want {
			t.Fatalf("level %d: capacity = %d, want %d", level, got, want)
		}
	}
}

func TestModuleIncrementPastCapacityPanics(t *testing.T) {
	m := NewModule(1, 1)
	m.increment(1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when exceeding capacity")
		}
	}()
	m.increment(1)
}

func TestModuleNegativeCountPanics(t *testing.T) {
	m := NewModule(1, 1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on negative count")
		}
	}()
	m.decrement()
}

func TestResidentsFillUpToCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Residents.MoveInChance = 1
	r := NewResidents(cfg, 0)
	rnd := chance.NewSequence(0.5)
	ids := idSeq()

	for i := 0; i < 10; i++ {
		r.Simulate(1, true, 1, rnd, ids)
		if r.Count() > r.Capacity(1) {
			t.Fatalf("tick %d: count %d above capacity %d", i, r.Count(), r.Capacity(1))
		}
	}
	if r.Count() != 2 {
		t.Fatalf("expected 2 residents, got %d", r.Count())
	}
	for _, c := range r.Citizens() {
		if c.Home != 1 || c.Age != 45 {
			t.Fatalf("unexpected citizen %+v", c)
		}
	}
}

func TestResidentsRespectMoveInRoll(t *testing.T) {
	r := NewResidents(DefaultConfig(), 0)
	rnd := chance.NewSequence(0.5, 0.7)
	if _, ok := r.Simulate(1, true, 1, rnd, idSeq()); ok {
		t.Fatalf("draw 0.5 must fail a 0.5 move-in chance")
	}
	if rnd.Drawn() != 1 {
		t.Fatalf("expected one draw, got %d", rnd.Drawn())
	}
}

func TestResidentsForcedToZeroWhenNotDeveloped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Residents.MoveInChance = 1
	r := NewResidents(cfg, 0)
	jobs := NewJobs(cfg, 0)
	rnd := chance.NewSequence(0.5)
	ids := idSeq()
	r.Simulate(1, true, 1, rnd, ids)
	r.Simulate(1, true, 1, rnd, ids)

	c, _ := r.Candidate()
	if _, ok := jobs.Simulate(9, true, 1, rnd, func() (*Citizen, bool) { return c, true }); !ok {
		t.Fatalf("expected hire")
	}

	r.Simulate(1, false, 1, rnd, ids)
	if r.Count() != 0 || len(r.Citizens()) != 0 {
		t.Fatalf("expected empty residence, got %d", r.Count())
	}
	if jobs.Count() != 0 || c.Employed() || c.Employer != world.NoBuilding {
		t.Fatalf("evicted citizen should lose its job: jobs=%d citizen=%+v", jobs.Count(), c)
	}
}

func TestResidentsUnderoccupied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Residents.MoveInChance = 1
	r := NewResidents(cfg, 4)
	if !r.Underoccupied(1) {
		t.Fatalf("empty residence should be underoccupied")
	}
	r.Simulate(1, true, 1, chance.NewSequence(0), idSeq())
	if r.Underoccupied(1) {
		t.Fatalf("half full residence should not be underoccupied")
	}
}

func TestJobsHireOnlyEligibleCitizens(t *testing.T) {
	cfg := DefaultConfig()
	jobs := NewJobs(cfg, 0)
	rnd := chance.NewSequence(0)

	child := &Citizen{ID: 1, Age: 10, Home: 3}
	if _, ok := jobs.Simulate(9, true, 1, rnd, func() (*Citizen, bool) { return child, true }); ok {
		t.Fatalf("child should not be hired")
	}
	retired := &Citizen{ID: 2, Age: 65, Home: 3}
	if _, ok := jobs.Simulate(9, true, 1, rnd, func() (*Citizen, bool) { return retired, true }); ok {
		t.Fatalf("retiree should not be hired")
	}
	adult := &Citizen{ID: 3, Age: 16, Home: 3}
	if _, ok := jobs.Simulate(9, true, 1, rnd, func() (*Citizen, bool) { return adult, true }); !ok {
		t.Fatalf("adult should be hired")
	}
	if !adult.Employed() || adult.Employer != 9 || jobs.Count() != 1 {
		t.Fatalf("unexpected hire state: %+v count=%d", adult, jobs.Count())
	}
	if adult.Eligible(cfg.Citizen) {
		t.Fatalf("employed citizen must not stay eligible")
	}
}

func TestJobsReleaseWhenNotDeveloped(t *testing.T) {
	jobs := NewJobs(DefaultConfig(), 0)
	rnd := chance.NewSequence(0)
	a := &Citizen{ID: 1, Age: 30, Home: 3}
	b := &Citizen{ID: 2, Age: 40, Home: 3}
	jobs.Simulate(9, true, 1, rnd, func() (*Citizen, bool) { return a, true })
	jobs.Simulate(9, true, 1, rnd, func() (*Citizen, bool) { return b, true })
	if jobs.Count() != 2 {
		t.Fatalf("expected 2 workers, got %d", jobs.Count())
	}
	calls := 0
	jobs.Simulate(9, true, 1, rnd, func() (*Citizen, bool) { calls++; return nil, false })
	if calls != 0 {
		t.Fatalf("full building should not search for workers")
	}

	jobs.Simulate(9, false, 1, rnd, nil)
	if jobs.Count() != 0 || a.Employed() || b.Employed() {
		t.Fatalf("expected all workers released")
	}
}

func TestCitizenQuitFreesSlot(t *testing.T) {
	jobs := NewJobs(DefaultConfig(), 0)
	c := &Citizen{ID: 1, Age: 30, Home: 3}
	jobs.Simulate(9, true, 1, chance.NewSequence(0), func() (*Citizen, bool) { return c, true })
	c.Quit()
	if jobs.Count() != 0 || len(jobs.Workers()) != 0 {
		t.Fatalf("expected slot freed after quit")
	}
	c.Quit()
}
