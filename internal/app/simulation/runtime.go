package simulation

import (
	"sync"

	"citysim/internal/domain/city"
)

// Runtime serializes every access to one city.
type Runtime struct {
	mu   sync.Mutex
	city *city.City
	id   string
}

func NewRuntime(c *city.City) *Runtime {
	return &Runtime{city: c, id: c.ID()}
}

func (r *Runtime) CityID() string { return r.id }

// Do runs fn with exclusive access to the city. fn must not retain c.
func (r *Runtime) Do(fn func(c *city.City) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.city)
}

func (r *Runtime) Snapshot() city.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.city.Snapshot()
}

func (r *Runtime) Describe(x, y int) (city.TileDescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.city.Describe(x, y)
}
