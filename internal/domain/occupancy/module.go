package occupancy

import "fmt"

// Module counts the occupants of one building. Capacity grows with the
// development level up to a fixed ceiling.
type Module struct {
	perLevel int
	ceiling  int
	count    int
}

func NewModule(perLevel, ceiling int) *Module {
	if perLevel < 1 {
		perLevel = 1
	}
	if ceiling < 0 {
		ceiling = 0
	}
	return &Module{perLevel: perLevel, ceiling: ceiling}
}

func (m *Module) Count() int { return m.count }

func (m *Module) Ceiling() int { return m.ceiling }

func (m *Module) Capacity(level int) int {
	if level < 1 {
		return 0
	}
	return min(m.perLevel*level, m.ceiling)
}

// Ratio is count over capacity, or 0 when nothing fits.
func (m *Module) Ratio(level int) float64 {
	capacity := m.Capacity(level)
	if capacity == 0 {
		return 0
	}
	return float64(m.count) / float64(capacity)
}

func (m *Module) Full(level int) bool {
	return m.count >= m.Capacity(level)
}

func (m *Module) increment(level int) {
	if m.count+1 > m.Capacity(level) {
		panic(fmt.Sprintf("occupancy: count %d would exceed capacity %d", m.count+1, m.Capacity(level)))
	}
	m.count++
}

func (m *Module) decrement() {
	if m.count == 0 {
		panic("occupancy: negative count")
	}
	m.count--
}
