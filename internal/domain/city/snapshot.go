package city

import (
	"time"

	"citysim/internal/domain/building"
	"citysim/internal/domain/development"
	"citysim/internal/domain/world"
)

type Snapshot struct {
	CityID     string                    `json:"city_id"`
	Tick       int                       `json:"tick"`
	Size       int                       `json:"size"`
	Budget     int                       `json:"budget"`
	Cooldown   int                       `json:"cooldown"`
	Population int                       `json:"population"`
	Employed   int                       `json:"employed"`
	Revenue    int                       `json:"revenue"`
	States     map[development.State]int `json:"states"`
	Buildings  []building.Description    `json:"buildings"`
	TakenAt    time.Time                 `json:"taken_at"`
}

// Snapshot copies the current state. It shares nothing with the city.
func (c *City) Snapshot() Snapshot {
	s := Snapshot{
		CityID:     c.id,
		Tick:       c.tick,
		Size:       c.grid.Size(),
		Budget:     c.budget,
		Cooldown:   c.cooldown,
		Population: c.Population(),
		Employed:   c.Employed(),
		Revenue:    c.Revenue(),
		States:     map[development.State]int{},
		TakenAt:    c.cfg.Now(),
	}
	for _, b := range c.Buildings() {
		d := b.Describe()
		if d.State != "" {
			s.States[d.State]++
		}
		s.Buildings = append(s.Buildings, d)
	}
	return s
}

type TileDescription struct {
	X        int                   `json:"x"`
	Y        int                   `json:"y"`
	Building *building.Description `json:"building,omitempty"`
}

func (c *City) Describe(x, y int) (TileDescription, error) {
	tile, ok := c.grid.Tile(x, y)
	if !ok {
		return TileDescription{}, ErrInvalidCoordinates
	}
	out := TileDescription{X: x, Y: y}
	if b, ok := c.buildings[tile.Building()]; ok {
		d := b.Describe()
		out.Building = &d
	}
	return out, nil
}

// Views returns the renderer view of every tile, x-major.
func (c *City) Views() []TileView {
	out := make([]TileView, 0, c.grid.Size()*c.grid.Size())
	c.grid.Each(func(t *world.Tile) { out = append(out, c.tileView(t)) })
	return out
}
