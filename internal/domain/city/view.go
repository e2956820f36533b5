package city

import (
	"citysim/internal/domain/building"
	"citysim/internal/domain/development"
	"citysim/internal/domain/world"
)

// TileView is the read-only state a renderer needs to redraw one tile.
type TileView struct {
	X        int               `json:"x"`
	Y        int               `json:"y"`
	Building world.BuildingID  `json:"building,omitempty"`
	Type     building.Type     `json:"type,omitempty"`
	Origin   bool              `json:"origin,omitempty"`
	State    development.State `json:"state,omitempty"`
	Level    int               `json:"level,omitempty"`
	Visual   building.Visual   `json:"visual"`
}

type View interface {
	Refresh(TileView)
}

type ViewFunc func(TileView)

func (f ViewFunc) Refresh(v TileView) { f(v) }

type nopView struct{}

func (nopView) Refresh(TileView) {}

func (c *City) tileView(t *world.Tile) TileView {
	v := TileView{X: t.X(), Y: t.Y()}
	b, ok := c.buildings[t.Building()]
	if !ok {
		return v
	}
	v.Building = b.ID
	v.Type = b.Type
	v.Origin = b.Origin == t.Pos()
	v.State = b.State()
	v.Level = b.Level()
	v.Visual = b.Visual()
	return v
}

// refreshArea re-sends the footprint and a one-tile border around it.
func (c *City) refreshArea(origin world.Point, size int) {
	lo := world.Point{X: origin.X - 1, Y: origin.Y - 1}
	hi := world.Point{X: origin.X + size, Y: origin.Y + size}
	for _, t := range c.grid.Region(lo, hi) {
		c.cfg.View.Refresh(c.tileView(t))
	}
}

func (c *City) refreshFootprint(b *building.Building) {
	tiles, _ := c.grid.Footprint(b.Origin, b.Size)
	for _, t := range tiles {
		c.cfg.View.Refresh(c.tileView(t))
	}
}
