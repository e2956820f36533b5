package city

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"citysim/internal/domain/building"
	"citysim/internal/domain/chance"
	"citysim/internal/domain/occupancy"
	"citysim/internal/domain/world"
)

type City struct {
	id       string
	cfg      Config
	grid     *world.Grid
	clock    *world.Clock
	factory  *building.Factory
	services []Service

	buildings      map[world.BuildingID]*building.Building
	nextBuildingID world.BuildingID
	nextCitizenID  occupancy.CitizenID

	budget   int
	cooldown int
	tick     int
	events   []DomainEvent
}

var _ building.Env = (*City)(nil)

// New builds an empty city from cfg, filling zero values from DefaultConfig.
// With Economy.PlaceTownHall set, a town hall is placed at the grid centre,
// shifted inward so it fits. Grids smaller than its footprint get none.
func New(cfg Config) *City {
	cfg = cfg.normalize()
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	c := &City{
		id:        id,
		cfg:       cfg,
		grid:      world.NewGrid(cfg.Economy.Size),
		clock:     world.NewClock(world.ClockConfig{TickLength: cfg.Economy.TickLength}),
		factory:   building.NewFactory(cfg.Development, cfg.Occupancy, cfg.Rand),
		services:  cfg.Services,
		buildings: map[world.BuildingID]*building.Building{},
		budget:    cfg.Economy.StartingBudget,
	}
	c.grid.Each(func(t *world.Tile) { cfg.View.Refresh(c.tileView(t)) })
	if cfg.Economy.PlaceTownHall {
		c.placeTownHall()
	}
	return c
}

func (c *City) placeTownHall() {
	spec, _ := building.Lookup(building.TypeTownHall)
	size := c.grid.Size()
	if size < spec.Size {
		return
	}
	at := min(size/2, size-spec.Size)
	if _, err := c.PlaceBuilding(at, at, building.TypeTownHall); err != nil {
		panic(fmt.Sprintf("place town hall on an empty %dx%d grid: %v", size, size, err))
	}
}

func (c *City) ID() string                { return c.id }
func (c *City) Size() int                 { return c.grid.Size() }
func (c *City) Budget() int               { return c.budget }
func (c *City) Cooldown() int             { return c.cooldown }
func (c *City) Tick() int                 { return c.tick }
func (c *City) Rand() chance.Source       { return c.cfg.Rand }
func (c *City) Config() Config            { return c.cfg }
func (c *City) TickLength() time.Duration { return c.clock.TickLength() }

func (c *City) Tile(x, y int) (*world.Tile, bool) { return c.grid.Tile(x, y) }

func (c *City) FindTile(start world.Point, match func(*world.Tile) bool, maxDistance int) (*world.Tile, bool) {
	return c.grid.FindTile(start, match, maxDistance)
}

func (c *City) Building(id world.BuildingID) (*building.Building, bool) {
	b, ok := c.buildings[id]
	return b, ok
}

// Buildings lists every building once, in grid order of its origin tile.
func (c *City) Buildings() []*building.Building {
	out := make([]*building.Building, 0, len(c.buildings))
	c.grid.Each(func(t *world.Tile) {
		b, ok := c.buildings[t.Building()]
		if ok && b.Origin == t.Pos() {
			out = append(out, b)
		}
	})
	return out
}

func (c *City) NextCitizenID() occupancy.CitizenID {
	c.nextCitizenID++
	return c.nextCitizenID
}

// PlaceBuilding validates and places a new building with its origin at (x, y).
// Nothing changes when an error is returned.
func (c *City) PlaceBuilding(x, y int, t building.Type) (*building.Building, error) {
	if c.cooldown > 0 {
		return nil, &CooldownActiveError{RemainingTicks: c.cooldown}
	}
	spec, ok := building.Lookup(t)
	if !ok {
		return nil, ErrUnrecognizedBuildingType
	}
	if c.budget < spec.Cost {
		return nil, &InsufficientFundsError{Cost: spec.Cost, Budget: c.budget}
	}
	origin := world.Point{X: x, Y: y}
	tiles, ok := c.grid.Footprint(origin, spec.Size)
	if !ok {
		return nil, ErrInvalidCoordinates
	}
	for _, tile := range tiles {
		if tile.HasBuilding() {
			return nil, &OccupiedFootprintError{At: tile.Pos(), Building: tile.Building()}
		}
	}

	b, err := c.factory.Create(t, x, y)
	if err != nil {
		return nil, err
	}
	c.nextBuildingID++
	b.ID = c.nextBuildingID
	c.buildings[b.ID] = b
	for _, tile := range tiles {
		tile.SetBuilding(b.ID)
	}
	c.budget -= spec.Cost

	c.record(EventBuildingPlaced, map[string]any{
		"building_id": uint64(b.ID),
		"type":        string(b.Type),
		"x":           x,
		"y":           y,
		"size":        b.Size,
		"cost":        spec.Cost,
		"budget":      c.budget,
	})
	c.refreshArea(b.Origin, b.Size)
	return b, nil
}

// Bulldoze removes the building covering (x, y), whichever footprint tile it is.
func (c *City) Bulldoze(x, y int) error {
	tile, ok := c.grid.Tile(x, y)
	if !ok {
		return ErrInvalidCoordinates
	}
	b, ok := c.buildings[tile.Building()]
	if !ok {
		return ErrNothingToBulldoze
	}

	b.Dispose()
	tiles, _ := c.grid.Footprint(b.Origin, b.Size)
	for _, t := range tiles {
		t.ClearBuilding()
	}
	delete(c.buildings, b.ID)
	c.cooldown = c.cfg.Economy.CooldownTicks

	c.record(EventBuildingBulldozed, map[string]any{
		"building_id": uint64(b.ID),
		"type":        string(b.Type),
		"x":           b.Origin.X,
		"y":           b.Origin.Y,
		"cooldown":    c.cooldown,
	})
	c.refreshArea(b.Origin, b.Size)
	return nil
}

// Simulate adds dt to the clock and runs one tick per whole tick length
// crossed. The remainder carries over to the next call.
func (c *City) Simulate(dt time.Duration) int {
	return c.Step(c.clock.Advance(dt))
}

// Step runs exactly n ticks.
func (c *City) Step(n int) int {
	for i := 0; i < n; i++ {
		c.runTick()
	}
	return max(n, 0)
}

func (c *City) runTick() {
	c.tick++
	for _, s := range c.services {
		s.Simulate(c)
	}
	for _, b := range c.Buildings() {
		tr := b.Simulate(c)
		if !tr.Changed() {
			continue
		}
		c.record(EventDevelopmentChanged, map[string]any{
			"building_id": uint64(b.ID),
			"from":        string(tr.From),
			"to":          string(tr.To),
			"level_from":  tr.LevelFrom,
			"level_to":    tr.LevelTo,
		})
		c.refreshFootprint(b)
	}
	if c.cooldown > 0 {
		c.cooldown--
	}
	if c.tick%c.cfg.Economy.RevenuePeriodTicks == 0 {
		c.creditRevenue()
	}
}

func (c *City) creditRevenue() {
	revenue := c.Revenue()
	c.budget += revenue
	c.record(EventRevenueCredited, map[string]any{
		"revenue": revenue,
		"budget":  c.budget,
	})
}

// Revenue is what the next revenue period would credit right now.
func (c *City) Revenue() int {
	total := 0
	for _, b := range c.buildings {
		total += b.Revenue(c.cfg.Economy.RevenuePerResident)
	}
	return total
}

func (c *City) Population() int {
	n := 0
	for _, b := range c.buildings {
		n += b.Residents()
	}
	return n
}

func (c *City) Employed() int {
	n := 0
	for _, b := range c.buildings {
		n += b.Workers()
	}
	return n
}
