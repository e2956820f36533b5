package memory

import (
	"sync"

	"citysim/internal/app/ports"
	"citysim/internal/domain/city"
)

// Store backs the in-memory repositories. Repositories expect to run inside
// TxManager.RunInTx, which holds the store lock.
type Store struct {
	mu        sync.RWMutex
	commands  map[string]ports.CommandRecord
	events    map[string][]city.DomainEvent
	snapshots map[string][]city.Snapshot
}

func NewStore() *Store {
	return &Store{
		commands:  make(map[string]ports.CommandRecord),
		events:    make(map[string][]city.DomainEvent),
		snapshots: make(map[string][]city.Snapshot),
	}
}

func commandKey(cityID, key string) string {
	return cityID + "::" + key
}
