package memory

import (
	"context"
	"maps"
)

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx holds the store lock for fn and restores the previous contents
// when fn fails.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	commands := maps.Clone(t.store.commands)
	events := make(map[string]int, len(t.store.events))
	for k, v := range t.store.events {
		events[k] = len(v)
	}
	snapshots := make(map[string]int, len(t.store.snapshots))
	for k, v := range t.store.snapshots {
		snapshots[k] = len(v)
	}

	if err := fn(ctx); err != nil {
		t.store.commands = commands
		for k, v := range t.store.events {
			t.store.events[k] = v[:events[k]]
		}
		for k, v := range t.store.snapshots {
			t.store.snapshots[k] = v[:snapshots[k]]
		}
		return err
	}
	return nil
}
