package memory

import (
	"context"

	"citysim/internal/app/ports"
	"citysim/internal/domain/city"
)

type SnapshotRepo struct {
	store *Store
}

func NewSnapshotRepo(store *Store) SnapshotRepo {
	return SnapshotRepo{store: store}
}

func (r SnapshotRepo) Save(_ context.Context, snapshot city.Snapshot) error {
	r.store.snapshots[snapshot.CityID] = append(r.store.snapshots[snapshot.CityID], snapshot)
	return nil
}

func (r SnapshotRepo) GetLatest(_ context.Context, cityID string) (city.Snapshot, error) {
	list := r.store.snapshots[cityID]
	if len(list) == 0 {
		return city.Snapshot{}, ports.ErrNotFound
	}
	return list[len(list)-1], nil
}
