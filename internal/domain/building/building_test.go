package building

import (
	"errors"
	"testing"

	"citysim/internal/domain/chance"
	"citysim/internal/domain/development"
	"citysim/internal/domain/occupancy"
	"citysim/internal/domain/world"
)

type fakeEnv struct {
	grid      *world.Grid
	rnd       chance.Source
	buildings map[world.BuildingID]*Building
	nextID    world.BuildingID
	citizens  occupancy.CitizenID
}

var _ Env = (*fakeEnv)(nil)

func newFakeEnv(size int, rnd chance.Source) *fakeEnv {
	return &fakeEnv{grid: world.NewGrid(size), rnd: rnd, buildings: map[world.BuildingID]*Building{}}
}

func (e *fakeEnv) Tick() int           { return 0 }
func (e *fakeEnv) Rand() chance.Source { return e.rnd }
func (e *fakeEnv) FindTile(start world.Point, match func(*world.Tile) bool, maxDistance int) (*world.Tile, bool) {
	return e.grid.FindTile(start, match, maxDistance)
}
func (e *fakeEnv) Building(id world.BuildingID) (*Building, bool) {
	b, ok := e.buildings[id]
	return b, ok
}
func (e *fakeEnv) NextCitizenID() occupancy.CitizenID {
	e.citizens++
	return e.citizens
}

func (e *fakeEnv) place(t *testing.T, f *Factory, typ Type, x, y int) *Building {
	t.Helper()
	b, err := f.Create(typ, x, y)
	if err != nil {
		t.Fatalf("create %s: %v", typ, err)
	}
	e.nextID++
	b.ID = e.nextID
	tiles, ok := e.grid.Footprint(b.Origin, b.Size)
	if !ok {
		t.Fatalf("footprint of %s at (%d,%d) leaves grid", typ, x, y)
	}
	for _, tile := range tiles {
		tile.SetBuilding(b.ID)
	}
	e.buildings[b.ID] = b
	return b
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	f := NewFactory(development.DefaultConfig(), occupancy.DefaultConfig(), chance.NewSequence(0))
	if _, err := f.Create(Type("castle"), 0, 0); !errors.Is(err, ErrUnrecognizedBuildingType) {
		t.Fatalf("expected ErrUnrecognizedBuildingType, got %v", err)
	}
	if _, err := ParseType("castle"); !errors.Is(err, ErrUnrecognizedBuildingType) {
		t.Fatalf("expected ParseType to reject, got %v", err)
	}
}

func TestFactoryBuildsCapabilitiesPerKind(t *testing.T) {
	f := NewFactory(development.DefaultConfig(), occupancy.DefaultConfig(), chance.NewSequence(0, 0.95, 0.35))

	home, _ := f.Create(TypeResidential, 1, 2)
	if home.Zone == nil || home.Zone.Residents == nil || home.Zone.Jobs != nil {
		t.Fatalf("residential should carry residents only: %+v", home.Zone)
	}
	if home.Style != "A" || home.Name != "Tranquil Court" {
		t.Fatalf("unexpected style/name %q %q", home.Style, home.Name)
	}

	shop, _ := f.Create(TypeCommercial, 0, 0)
	if shop.Zone == nil || shop.Zone.Jobs == nil || shop.Zone.Residents != nil || shop.Name != "" {
		t.Fatalf("commercial should carry jobs only: %+v", shop)
	}

	tower, _ := f.Create(TypeResidential3BHK, 0, 0)
	if tower.Size != 3 || tower.Style != "C" {
		t.Fatalf("3bhk should be size 3 style C, got %d %q", tower.Size, tower.Style)
	}

	road, _ := f.Create(TypeRoad, 0, 0)
	if road.Zone != nil || road.Visual().Key != "road" {
		t.Fatalf("road should have no zone: %+v", road)
	}
}

func TestCatalogCostsAndSizes(t *testing.T) {
	cases := map[Type][2]int{
		TypeResidential:     {300, 1},
		TypeResidential2BHK: {500, 2},
		TypeResidential3BHK: {800, 3},
		TypePowerPlant:      {1000, 2},
		TypeConcertHall:     {1500, 2},
		TypeTownHall:        {0, 2},
	}
	for typ, want := range cases {
		spec, ok := Lookup(typ)
		if !ok || spec.Cost != want[0] || spec.Size != want[1] {
			t.Fatalf("%s: got %+v ok=%v, want cost %d size %d", typ, spec, ok, want[0], want[1])
		}
	}
	list := Catalog()
	if len(list) != len(catalog) || list[0].Type != TypeTownHall {
		t.Fatalf("unexpected catalog order: %+v", list[0])
	}
}

func TestVisualFollowsDevelopment(t *testing.T) {
	dev := development.DefaultConfig()
	dev.ConstructionTime = 1
	dev.AbandonChance = 1
	dev.AbandonThreshold = 0
	env := newFakeEnv(5, chance.NewSequence(0.6))
	f := NewFactory(dev, occupancy.DefaultConfig(), env.rnd)
	home := env.place(t, f, TypeResidential, 0, 0)

	if got := home.Visual(); got.Key != "under-construction" {
		t.Fatalf("expected under-construction key, got %+v", got)
	}
	home.Simulate(env)
	home.Simulate(env)
	if got := home.Visual(); got.Key != "residential-B1" || got.Tinted {
		t.Fatalf("expected developed key, got %+v", got)
	}
	home.Simulate(env)
	if home.State() != development.StateAbandoned {
		t.Fatalf("expected abandoned, got %s", home.State())
	}
	if got := home.Visual(); !got.Tinted || got.Key != "residential-B1" {
		t.Fatalf("expected tinted key, got %+v", got)
	}
}

func TestJobsZoneHiresNearbyResidents(t *testing.T) {
	dev := development.DefaultConfig()
	dev.ConstructionTime = 1
	occ := occupancy.DefaultConfig()
	occ.Residents.MoveInChance = 1
	env := newFakeEnv(10, chance.NewSequence(0.5))
	f := NewFactory(dev, occ, env.rnd)

	home := env.place(t, f, TypeResidential, 0, 0)
	shop := env.place(t, f, TypeCommercial, 2, 0)
	far := env.place(t, f, TypeIndustrial, 9, 9)

	for i := 0; i < 6; i++ {
		home.Simulate(env)
		shop.Simulate(env)
		far.Simulate(env)
	}
	if home.Residents() != 2 {
		t.Fatalf("expected 2 residents, got %d", home.Residents())
	}
	if shop.Workers() != 2 {
		t.Fatalf("expected nearby shop to hire both residents, got %d", shop.Workers())
	}
	if far.Workers() != 0 {
		t.Fatalf("distant industry should not hire, got %d", far.Workers())
	}
	if far.Zone.Development.AbandonCounter() == 0 {
		t.Fatalf("unreachable jobs zone should count toward abandonment")
	}
	if shop.Zone.Development.AbandonCounter() != 0 {
		t.Fatalf("staffed shop should not count toward abandonment")
	}

	home.Dispose()
	if shop.Workers() != 0 {
		t.Fatalf("disposing the home should release its workers, got %d", shop.Workers())
	}
}

func TestRequireRoadAccess(t *testing.T) {
	dev := development.DefaultConfig()
	dev.RequireRoadAccess = true
	env := newFakeEnv(8, chance.NewSequence(0))
	f := NewFactory(dev, occupancy.DefaultConfig(), env.rnd)
	home := env.place(t, f, TypeResidential, 0, 0)

	home.Simulate(env)
	if home.State() != development.StateUndeveloped || home.Zone.RoadAccess {
		t.Fatalf("zone without road must stay undeveloped, got %s", home.State())
	}
	env.place(t, f, TypeRoad, 0, 3)
	home.Simulate(env)
	if home.State() != development.StateUnderConstruction || !home.Zone.RoadAccess {
		t.Fatalf("zone with road in reach should start construction, got %s", home.State())
	}
}

func TestRevenueOnlyFromResidents(t *testing.T) {
	dev := development.DefaultConfig()
	dev.ConstructionTime = 1
	occ := occupancy.DefaultConfig()
	occ.Residents.MoveInChance = 1
	env := newFakeEnv(4, chance.NewSequence(0))
	f := NewFactory(dev, occ, env.rnd)
	home := env.place(t, f, TypeResidential, 0, 0)
	civic := env.place(t, f, TypeSchool, 2, 2)
	for i := 0; i < 4; i++ {
		home.Simulate(env)
		civic.Simulate(env)
	}
	if got := home.Revenue(10); got != 20 {
		t.Fatalf("expected 20 revenue, got %d", got)
	}
	if got := civic.Revenue(10); got != 0 {
		t.Fatalf("civic buildings pay nothing, got %d", got)
	}
}

func TestDisposeTwicePanics(t *testing.T) {
	f := NewFactory(development.DefaultConfig(), occupancy.DefaultConfig(), chance.NewSequence(0))
	b, _ := f.Create(TypeResidential, 0, 0)
	b.Dispose()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on second dispose")
		}
	}()
	b.Dispose()
}

func TestDescribeZone(t *testing.T) {
	env := newFakeEnv(4, chance.NewSequence(0))
	f := NewFactory(development.DefaultConfig(), occupancy.DefaultConfig(), env.rnd)
	home := env.place(t, f, TypeResidential2BHK, 1, 1)
	d := home.Describe()
	if d.ID != home.ID || d.Size != 2 || d.State != development.StateUndeveloped || d.Level != 1 {
		t.Fatalf("unexpected description %+v", d)
	}
	if !home.Covers(world.Point{X: 2, Y: 2}) || home.Covers(world.Point{X: 3, Y: 1}) {
		t.Fatalf("unexpected footprint coverage")
	}
}
