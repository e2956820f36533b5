package memory

import (
	"context"

	"citysim/internal/app/ports"
	"citysim/internal/domain/city"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, cityID string, events []city.DomainEvent) error {
	r.store.events[cityID] = append(r.store.events[cityID], events...)
	return nil
}

// ListByCityID returns the newest events inside the window first.
func (r EventRepo) ListByCityID(_ context.Context, cityID string, window ports.TickWindow, limit int) ([]city.DomainEvent, error) {
	all := r.store.events[cityID]
	if len(all) == 0 {
		return nil, ports.ErrNotFound
	}
	out := []city.DomainEvent{}
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if window.Contains(all[i].Tick) {
			out = append(out, all[i])
		}
	}
	return out, nil
}
