package world

// Grid is a fixed-size square of tiles stored column by column.
type Grid struct {
	size  int
	tiles []Tile
}

func NewGrid(size int) *Grid {
	if size < 1 {
		size = 1
	}
	g := &Grid{size: size, tiles: make([]Tile, size*size)}
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			g.tiles[g.index(x, y)] = Tile{pos: Point{X: x, Y: y}}
		}
	}
	return g
}

func (g *Grid) Size() int { return g.size }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

// Tile returns false for coordinates outside the grid.
func (g *Grid) Tile(x, y int) (*Tile, bool) {
	if !g.InBounds(x, y) {
		return nil, false
	}
	return &g.tiles[g.index(x, y)], true
}

// Neighbors returns the in-bounds cardinal neighbors in west, east, north, south order.
func (g *Grid) Neighbors(x, y int) []*Tile {
	out := make([]*Tile, 0, 4)
	if x > 0 {
		out = append(out, &g.tiles[g.index(x-1, y)])
	}
	if x < g.size-1 {
		out = append(out, &g.tiles[g.index(x+1, y)])
	}
	if y > 0 {
		out = append(out, &g.tiles[g.index(x, y-1)])
	}
	if y < g.size-1 {
		out = append(out, &g.tiles[g.index(x, y+1)])
	}
	return out
}

// FindTile walks the grid breadth-first from start and returns the first tile
// accepted by match. Tiles farther than maxDistance (Manhattan) are dropped
// without being expanded or matched.
func (g *Grid) FindTile(start Point, match func(*Tile) bool, maxDistance int) (*Tile, bool) {
	origin, ok := g.Tile(start.X, start.Y)
	if !ok || match == nil || maxDistance < 0 {
		return nil, false
	}
	visited := map[int]struct{}{}
	queue := []*Tile{origin}
	for len(queue) > 0 {
		tile := queue[0]
		queue = queue[1:]

		idx := g.index(tile.pos.X, tile.pos.Y)
		if _, seen := visited[idx]; seen {
			continue
		}
		visited[idx] = struct{}{}

		if origin.pos.Distance(tile.pos) > maxDistance {
			continue
		}
		queue = append(queue, g.Neighbors(tile.pos.X, tile.pos.Y)...)

		if match(tile) {
			return tile, true
		}
	}
	return nil, false
}

// Footprint returns the size×size block anchored at origin. It reports false
// when any part of the block falls outside the grid.
func (g *Grid) Footprint(origin Point, size int) ([]*Tile, bool) {
	if size < 1 {
		return nil, false
	}
	out := make([]*Tile, 0, size*size)
	for x := origin.X; x < origin.X+size; x++ {
		for y := origin.Y; y < origin.Y+size; y++ {
			t, ok := g.Tile(x, y)
			if !ok {
				return nil, false
			}
			out = append(out, t)
		}
	}
	return out, true
}

// Region returns the in-bounds tiles of the inclusive rectangle [min, max].
func (g *Grid) Region(min, max Point) []*Tile {
	out := []*Tile{}
	for x := min.X; x <= max.X; x++ {
		for y := min.Y; y <= max.Y; y++ {
			if t, ok := g.Tile(x, y); ok {
				out = append(out, t)
			}
		}
	}
	return out
}

// Each visits every tile, x-major.
func (g *Grid) Each(fn func(*Tile)) {
	for i := range g.tiles {
		fn(&g.tiles[i])
	}
}

func (g *Grid) index(x, y int) int {
	return x*g.size + y
}
