package memory

import (
	"context"

	"citysim/internal/app/ports"
)

type CommandRepo struct {
	store *Store
}

func NewCommandRepo(store *Store) CommandRepo {
	return CommandRepo{store: store}
}

func (r CommandRepo) GetByIdempotencyKey(_ context.Context, cityID, key string) (*ports.CommandRecord, error) {
	rec, ok := r.store.commands[commandKey(cityID, key)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := rec
	return &copy, nil
}

func (r CommandRepo) SaveCommand(_ context.Context, record ports.CommandRecord) error {
	k := commandKey(record.CityID, record.IdempotencyKey)
	if _, exists := r.store.commands[k]; exists {
		return ports.ErrConflict
	}
	r.store.commands[k] = record
	return nil
}
