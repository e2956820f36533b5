package building

import (
	"fmt"

	"citysim/internal/domain/chance"
	"citysim/internal/domain/development"
	"citysim/internal/domain/occupancy"
	"citysim/internal/domain/world"
)

// Env is the read side of the city a building sees while it simulates.
type Env interface {
	Tick() int
	Rand() chance.Source
	FindTile(start world.Point, match func(*world.Tile) bool, maxDistance int) (*world.Tile, bool)
	Building(id world.BuildingID) (*Building, bool)
	NextCitizenID() occupancy.CitizenID
}

type Building struct {
	ID      world.BuildingID
	Type    Type
	Kind    Kind
	Origin  world.Point
	Size    int
	Style   string
	Name    string
	Powered bool
	// Zone is nil for roads, power infrastructure and civic buildings.
	Zone *Zone

	disposed bool
}

type Zone struct {
	Development *development.Module
	Residents   *occupancy.Residents
	Jobs        *occupancy.Jobs
	RoadAccess  bool

	cfg development.Config
}

type behavior struct {
	simulate func(*Building, Env) development.Transition
	dispose  func(*Building)
}

var behaviors = map[Kind]behavior{
	KindResidential: {simulate: simulateZone, dispose: disposeZone},
	KindJobs:        {simulate: simulateZone, dispose: disposeZone},
	KindRoad:        {simulate: simulateStatic, dispose: disposeStatic},
	KindPowerPlant:  {simulate: simulateStatic, dispose: disposeStatic},
	KindPowerLine:   {simulate: simulateStatic, dispose: disposeStatic},
	KindCivic:       {simulate: simulateStatic, dispose: disposeStatic},
}

// Simulate runs one tick and reports the development transition, which is
// zero for buildings without a zone.
func (b *Building) Simulate(env Env) development.Transition {
	if b.disposed {
		panic(fmt.Sprintf("building %d: simulate after dispose", b.ID))
	}
	return behaviors[b.Kind].simulate(b, env)
}

// Dispose releases the building's occupants. It must be called exactly once.
func (b *Building) Dispose() {
	if b.disposed {
		panic(fmt.Sprintf("building %d: disposed twice", b.ID))
	}
	behaviors[b.Kind].dispose(b)
	b.disposed = true
}

func (b *Building) Disposed() bool { return b.disposed }

func (b *Building) Footprint() (world.Point, world.Point) {
	return b.Origin, world.Point{X: b.Origin.X + b.Size - 1, Y: b.Origin.Y + b.Size - 1}
}

func (b *Building) Covers(p world.Point) bool {
	lo, hi := b.Footprint()
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}

func (b *Building) Residents() int {
	if b.Zone == nil || b.Zone.Residents == nil {
		return 0
	}
	return b.Zone.Residents.Count()
}

func (b *Building) Workers() int {
	if b.Zone == nil || b.Zone.Jobs == nil {
		return 0
	}
	return b.Zone.Jobs.Count()
}

// Revenue is what the building pays into the budget each revenue period.
func (b *Building) Revenue(perResident int) int {
	if b.Kind != KindResidential {
		return 0
	}
	return b.Residents() * perResident
}

// Consumer reports whether the building draws power.
func (b *Building) Consumer() bool {
	return b.Kind == KindResidential || b.Kind == KindJobs || b.Kind == KindCivic
}

func (b *Building) State() development.State {
	if b.Zone == nil {
		return development.StateDeveloped
	}
	return b.Zone.Development.State()
}

func (b *Building) Level() int {
	if b.Zone == nil {
		return 1
	}
	return b.Zone.Development.Level()
}

func simulateStatic(*Building, Env) development.Transition { return development.Transition{} }

func disposeStatic(*Building) {}

func simulateZone(b *Building, env Env) development.Transition {
	z := b.Zone
	rnd := env.Rand()

	ready := true
	if z.cfg.RequireRoadAccess {
		z.RoadAccess = hasRoadAccess(b, env, z.cfg.RoadAccessDistance)
		ready = z.RoadAccess
	}
	if z.cfg.RequirePower && !b.Powered {
		ready = false
	}

	var (
		candidate *occupancy.Citizen
		abandon   bool
	)
	switch {
	case z.Residents != nil:
		abandon = z.Residents.Underoccupied(z.Development.Level())
	case z.Jobs != nil:
		var found bool
		candidate, found = findWorker(b, env)
		abandon = z.Jobs.Count() == 0 && !found
	}

	tr := z.Development.Simulate(development.Criteria{Ready: ready, Abandon: abandon}, rnd)
	developed := z.Development.Developed()
	level := z.Development.Level()

	if z.Residents != nil {
		z.Residents.Simulate(b.ID, developed, level, rnd, env.NextCitizenID)
	}
	if z.Jobs != nil {
		z.Jobs.Simulate(b.ID, developed, level, rnd, func() (*occupancy.Citizen, bool) {
			return candidate, candidate != nil
		})
	}
	return tr
}

func disposeZone(b *Building) {
	if b.Zone.Residents != nil {
		b.Zone.Residents.EvictAll()
	}
	if b.Zone.Jobs != nil {
		b.Zone.Jobs.ReleaseAll()
	}
}

func hasRoadAccess(b *Building, env Env, distance int) bool {
	_, ok := env.FindTile(b.Origin, func(t *world.Tile) bool {
		other, ok := env.Building(t.Building())
		return ok && other.Kind == KindRoad
	}, distance)
	return ok
}

// findWorker searches outward from the building for the nearest developed
// home with a resident who could take a job.
func findWorker(b *Building, env Env) (*occupancy.Citizen, bool) {
	var found *occupancy.Citizen
	env.FindTile(b.Origin, func(t *world.Tile) bool {
		home, ok := env.Building(t.Building())
		if !ok || home.Zone == nil || home.Zone.Residents == nil || !home.Zone.Development.Developed() {
			return false
		}
		c, ok := home.Zone.Residents.Candidate()
		if ok {
			found = c
		}
		return ok
	}, b.Zone.Jobs.SearchDistance())
	return found, found != nil
}
