package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"citysim/internal/app/ports"
	"citysim/internal/app/simulation"
	"citysim/internal/domain/building"
	"citysim/internal/domain/city"
)

var ErrInvalidRequest = errors.New("invalid command request")

const defaultMaxAdvanceTicks = 10000

type UseCase struct {
	Runtime   *simulation.Runtime
	TxManager ports.TxManager
	Commands  ports.CommandRepository
	Events    ports.EventRepository
	Snapshots ports.SnapshotRepository
	Metrics   ports.CommandMetrics
	Publisher ports.SnapshotPublisher
	// SnapshotEvery saves a snapshot whenever the tick crosses a multiple of it.
	SnapshotEvery   int
	MaxAdvanceTicks int
	Now             func() time.Time
}

func (u UseCase) Place(ctx context.Context, req PlaceRequest) (Response, error) {
	typ, err := building.ParseType(strings.TrimSpace(req.Type))
	if err != nil {
		u.recordError(err)
		return Response{}, err
	}
	return u.run(ctx, req.IdempotencyKey, CommandPlace, func(c *city.City) (ports.CommandResult, error) {
		b, err := c.PlaceBuilding(req.X, req.Y, typ)
		if err != nil {
			return ports.CommandResult{}, err
		}
		return ports.CommandResult{BuildingID: uint64(b.ID)}, nil
	})
}

func (u UseCase) Bulldoze(ctx context.Context, req BulldozeRequest) (Response, error) {
	return u.run(ctx, req.IdempotencyKey, CommandBulldoze, func(c *city.City) (ports.CommandResult, error) {
		tile, ok := c.Tile(req.X, req.Y)
		if !ok {
			return ports.CommandResult{}, city.ErrInvalidCoordinates
		}
		id := tile.Building()
		if err := c.Bulldoze(req.X, req.Y); err != nil {
			return ports.CommandResult{}, err
		}
		return ports.CommandResult{BuildingID: uint64(id)}, nil
	})
}

func (u UseCase) Advance(ctx context.Context, req AdvanceRequest) (Response, error) {
	limit := u.MaxAdvanceTicks
	if limit <= 0 {
		limit = defaultMaxAdvanceTicks
	}
	if req.Ticks <= 0 || req.Ticks > limit {
		u.recordError(ErrInvalidRequest)
		return Response{}, ErrInvalidRequest
	}
	return u.run(ctx, req.IdempotencyKey, CommandAdvance, func(c *city.City) (ports.CommandResult, error) {
		return ports.CommandResult{TicksRun: c.Step(req.Ticks)}, nil
	})
}

// Elapse feeds host time into the city. Calls that cross no tick boundary
// touch neither storage nor subscribers.
func (u UseCase) Elapse(ctx context.Context, dt time.Duration) (int, error) {
	if dt <= 0 {
		return 0, nil
	}
	resp, err := u.run(ctx, "", CommandElapse, func(c *city.City) (ports.CommandResult, error) {
		return ports.CommandResult{TicksRun: c.Simulate(dt)}, nil
	})
	if err != nil {
		return 0, err
	}
	return resp.Result.TicksRun, nil
}

func (u UseCase) run(ctx context.Context, key, name string, mutate func(*city.City) (ports.CommandResult, error)) (Response, error) {
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	key = strings.TrimSpace(key)

	var (
		out     Response
		snap    city.Snapshot
		publish bool
	)
	err := u.Runtime.Do(func(c *city.City) error {
		return u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			if key != "" && u.Commands != nil {
				rec, err := u.Commands.GetByIdempotencyKey(txCtx, c.ID(), key)
				if err == nil {
					out = Response{Command: rec.Command, Replayed: true, Result: rec.Result}
					return nil
				}
				if !errors.Is(err, ports.ErrNotFound) {
					return err
				}
			}

			before := c.Tick()
			result, err := mutate(c)
			if err != nil {
				return err
			}
			if name == CommandElapse && result.TicksRun == 0 {
				out = Response{Command: name, Result: result}
				return nil
			}
			result.Tick = c.Tick()
			result.Budget = c.Budget()
			result.Events = c.DrainEvents()
			if result.Events == nil {
				result.Events = []city.DomainEvent{}
			}

			if err := u.Events.Append(txCtx, c.ID(), result.Events); err != nil {
				hlog.CtxErrorf(ctx, "append %d city events failed: %v", len(result.Events), err)
				return err
			}
			if key != "" && u.Commands != nil {
				if err := u.Commands.SaveCommand(txCtx, ports.CommandRecord{
					CityID:         c.ID(),
					IdempotencyKey: key,
					Command:        name,
					Result:         result,
					AppliedAt:      nowFn(),
				}); err != nil {
					return err
				}
			}
			snap = c.Snapshot()
			if u.snapshotDue(before, snap.Tick) && u.Snapshots != nil {
				if err := u.Snapshots.Save(txCtx, snap); err != nil {
					return err
				}
			}
			out = Response{Command: name, Result: result}
			publish = true
			return nil
		})
	})
	if err != nil {
		u.recordError(err)
		return Response{}, err
	}
	if u.Metrics != nil {
		if name != CommandElapse {
			u.Metrics.RecordSuccess(name)
		}
		u.Metrics.RecordTicks(out.Result.TicksRun)
	}
	if publish && u.Publisher != nil {
		u.Publisher.Publish(snap)
	}
	return out, nil
}

func (u UseCase) snapshotDue(before, after int) bool {
	if u.SnapshotEvery <= 0 || after == before {
		return false
	}
	return after/u.SnapshotEvery != before/u.SnapshotEvery
}

func (u UseCase) recordError(err error) {
	if u.Metrics == nil {
		return
	}
	if code, ok := RejectionCode(err); ok {
		u.Metrics.RecordRejected(code)
		return
	}
	u.Metrics.RecordFailure()
}

// RejectionCode names the recoverable rejections a caller can act on.
func RejectionCode(err error) (string, bool) {
	switch {
	case errors.Is(err, city.ErrCooldownActive):
		return "cooldown_active", true
	case errors.Is(err, city.ErrInsufficientFunds):
		return "insufficient_funds", true
	case errors.Is(err, city.ErrOccupiedFootprint):
		return "occupied_footprint", true
	case errors.Is(err, city.ErrInvalidCoordinates):
		return "invalid_coordinates", true
	case errors.Is(err, city.ErrUnrecognizedBuildingType):
		return "unrecognized_building_type", true
	case errors.Is(err, city.ErrNothingToBulldoze):
		return "nothing_to_bulldoze", true
	case errors.Is(err, ErrInvalidRequest):
		return "bad_request", true
	case errors.Is(err, ports.ErrConflict):
		return "conflict", true
	default:
		return "", false
	}
}
