package city

import (
	"citysim/internal/domain/building"
	"citysim/internal/domain/world"
)

// Service applies a city-wide effect once per tick, before buildings simulate.
type Service interface {
	Name() string
	Simulate(c *City)
}

// PowerService pushes supply from each plant through connected buildings.
// Every building conducts; consumers are powered only when fully served.
type PowerService struct {
	cfg PowerConfig
}

func NewPowerService(cfg PowerConfig) *PowerService {
	def := DefaultConfig().Power
	if cfg.PlantCapacity <= 0 {
		cfg.PlantCapacity = def.PlantCapacity
	}
	if cfg.ConsumerDemand <= 0 {
		cfg.ConsumerDemand = def.ConsumerDemand
	}
	return &PowerService{cfg: cfg}
}

func (s *PowerService) Name() string { return "power" }

func (s *PowerService) Simulate(c *City) {
	plants := []*building.Building{}
	for _, b := range c.Buildings() {
		b.Powered = false
		if b.Kind == building.KindPowerPlant {
			plants = append(plants, b)
		}
	}
	for _, plant := range plants {
		plant.Powered = true
		s.distribute(c, plant)
	}
}

func (s *PowerService) distribute(c *City, plant *building.Building) {
	supply := s.cfg.PlantCapacity
	seen := map[world.BuildingID]struct{}{plant.ID: {}}
	visited := map[world.Point]struct{}{}
	queue, _ := c.grid.Footprint(plant.Origin, plant.Size)

	for len(queue) > 0 && supply >= s.cfg.ConsumerDemand {
		tile := queue[0]
		queue = queue[1:]
		if _, ok := visited[tile.Pos()]; ok {
			continue
		}
		visited[tile.Pos()] = struct{}{}

		b, ok := c.buildings[tile.Building()]
		if !ok {
			continue
		}
		if _, done := seen[b.ID]; !done {
			seen[b.ID] = struct{}{}
			if b.Consumer() && !b.Powered {
				b.Powered = true
				supply -= s.cfg.ConsumerDemand
			}
		}
		for _, n := range c.grid.Neighbors(tile.X(), tile.Y()) {
			if n.HasBuilding() {
				queue = append(queue, n)
			}
		}
	}
}
