package ports

import (
	"context"
	"errors"
	"time"

	"citysim/internal/domain/city"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// TxManager runs fn in one transaction. Repositories find it through ctx.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type CommandResult struct {
	Tick       int                `json:"tick"`
	Budget     int                `json:"budget"`
	BuildingID uint64             `json:"building_id,omitempty"`
	TicksRun   int                `json:"ticks_run,omitempty"`
	Events     []city.DomainEvent `json:"events"`
}

type CommandRecord struct {
	CityID         string
	IdempotencyKey string
	Command        string
	Result         CommandResult
	AppliedAt      time.Time
}

type CommandRepository interface {
	GetByIdempotencyKey(ctx context.Context, cityID, key string) (*CommandRecord, error)
	SaveCommand(ctx context.Context, record CommandRecord) error
}

// TickWindow bounds an event listing. Zero on either side leaves it open.
type TickWindow struct {
	From int
	To   int
}

func (w TickWindow) Open() bool { return w.From <= 0 && w.To <= 0 }

func (w TickWindow) Contains(tick int) bool {
	if w.From > 0 && tick < w.From {
		return false
	}
	if w.To > 0 && tick > w.To {
		return false
	}
	return true
}

// EventRepository lists newest first. The limit applies after the window, and
// ErrNotFound means the city has no events at all.
type EventRepository interface {
	Append(ctx context.Context, cityID string, events []city.DomainEvent) error
	ListByCityID(ctx context.Context, cityID string, window TickWindow, limit int) ([]city.DomainEvent, error)
}

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot city.Snapshot) error
	GetLatest(ctx context.Context, cityID string) (city.Snapshot, error)
}
