package world

// BuildingID references a building owned by the city. Tiles never own buildings.
type BuildingID uint64

const NoBuilding BuildingID = 0

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance is the Manhattan distance between two points.
func (p Point) Distance(o Point) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

type Tile struct {
	pos      Point
	building BuildingID
}

func (t *Tile) X() int     { return t.pos.X }
func (t *Tile) Y() int     { return t.pos.Y }
func (t *Tile) Pos() Point { return t.pos }

func (t *Tile) Building() BuildingID { return t.building }

func (t *Tile) HasBuilding() bool { return t.building != NoBuilding }

func (t *Tile) SetBuilding(id BuildingID) { t.building = id }

func (t *Tile) ClearBuilding() { t.building = NoBuilding }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
