package command

import (
	"context"
	"errors"
	"testing"
	"time"

	metricsinmem "citysim/internal/adapter/metrics/inmemory"
	"citysim/internal/adapter/repo/memory"
	"citysim/internal/app/ports"
	"citysim/internal/app/simulation"
	"citysim/internal/domain/chance"
	"citysim/internal/domain/city"
)

type fakePublisher struct {
	snapshots []city.Snapshot
}

func (p *fakePublisher) Publish(s city.Snapshot) { p.snapshots = append(p.snapshots, s) }

type failingEvents struct{}

func (failingEvents) Append(context.Context, string, []city.DomainEvent) error {
	return errors.New("disk full")
}

func (failingEvents) ListByCityID(context.Context, string, ports.TickWindow, int) ([]city.DomainEvent, error) {
	return nil, ports.ErrNotFound
}

var (
	_ ports.SnapshotPublisher = (*fakePublisher)(nil)
	_ ports.EventRepository   = failingEvents{}
)

type fixture struct {
	uc        UseCase
	store     *memory.Store
	metrics   *metricsinmem.Recorder
	publisher *fakePublisher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg := city.DefaultConfig()
	cfg.ID = "city-1"
	cfg.Rand = chance.NewSequence(0)
	rt := simulation.NewRuntime(city.New(cfg))
	_ = rt.Do(func(c *city.City) error {
		c.DrainEvents()
		return nil
	})

	store := memory.NewStore()
	metrics := metricsinmem.NewRecorder()
	pub := &fakePublisher{}
	return fixture{
		uc: UseCase{
			Runtime:       rt,
			TxManager:     memory.NewTxManager(store),
			Commands:      memory.NewCommandRepo(store),
			Events:        memory.NewEventRepo(store),
			Snapshots:     memory.NewSnapshotRepo(store),
			Metrics:       metrics,
			Publisher:     pub,
			SnapshotEvery: 15,
			Now:           func() time.Time { return time.Unix(1700000000, 0) },
		},
		store:     store,
		metrics:   metrics,
		publisher: pub,
	}
}

func (f fixture) events(t *testing.T) []city.DomainEvent {
	t.Helper()
	var out []city.DomainEvent
	_ = f.uc.TxManager.RunInTx(context.Background(), func(ctx context.Context) error {
		out, _ = f.uc.Events.ListByCityID(ctx, "city-1", ports.TickWindow{}, 0)
		return nil
	})
	return out
}

func TestPlacePersistsEventsAndPublishes(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Place(context.Background(), PlaceRequest{X: 0, Y: 0, Type: "residential"})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if resp.Result.Budget != 3700 || resp.Result.BuildingID == 0 {
		t.Fatalf("unexpected result %+v", resp.Result)
	}
	if len(resp.Result.Events) != 1 || resp.Result.Events[0].Type != city.EventBuildingPlaced {
		t.Fatalf("expected one placement event, got %+v", resp.Result.Events)
	}
	if got := f.events(t); len(got) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(got))
	}
	if len(f.publisher.snapshots) != 1 || f.publisher.snapshots[0].Budget != 3700 {
		t.Fatalf("expected published snapshot, got %+v", f.publisher.snapshots)
	}
	if f.metrics.Snapshot().ByCommand[CommandPlace] != 1 {
		t.Fatalf("expected place success recorded")
	}
}

func TestPlaceRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Place(context.Background(), PlaceRequest{Type: "castle"})
	if !errors.Is(err, city.ErrUnrecognizedBuildingType) {
		t.Fatalf("expected ErrUnrecognizedBuildingType, got %v", err)
	}
	if f.metrics.Snapshot().ByRejection["unrecognized_building_type"] != 1 {
		t.Fatalf("expected rejection recorded")
	}
	if len(f.publisher.snapshots) != 0 {
		t.Fatalf("rejections must not publish")
	}
}

func TestPlaceIsIdempotentByKey(t *testing.T) {
	f := newFixture(t)
	req := PlaceRequest{IdempotencyKey: "k1", X: 0, Y: 0, Type: "road"}
	first, err := f.uc.Place(context.Background(), req)
	if err != nil {
		t.Fatalf("first place: %v", err)
	}
	second, err := f.uc.Place(context.Background(), req)
	if err != nil {
		t.Fatalf("replayed place: %v", err)
	}
	if !second.Replayed || second.Result.BuildingID != first.Result.BuildingID {
		t.Fatalf("expected replay of first result, got %+v", second)
	}
	snap := f.uc.Runtime.Snapshot()
	if snap.Budget != 4000-25 {
		t.Fatalf("expected a single debit, got budget %d", snap.Budget)
	}
}

func TestBulldozeThenPlaceHitsCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Place(ctx, PlaceRequest{X: 3, Y: 3, Type: "road"}); err != nil {
		t.Fatalf("place: %v", err)
	}
	resp, err := f.uc.Bulldoze(ctx, BulldozeRequest{X: 3, Y: 3})
	if err != nil {
		t.Fatalf("bulldoze: %v", err)
	}
	if resp.Result.BuildingID == 0 {
		t.Fatalf("expected bulldozed building id")
	}
	_, err = f.uc.Place(ctx, PlaceRequest{X: 3, Y: 3, Type: "road"})
	var cooldown *city.CooldownActiveError
	if !errors.As(err, &cooldown) || cooldown.RemainingTicks != 3 {
		t.Fatalf("expected cooldown error, got %v", err)
	}
	if _, err := f.uc.Bulldoze(ctx, BulldozeRequest{X: 3, Y: 3}); !errors.Is(err, city.ErrNothingToBulldoze) {
		t.Fatalf("expected ErrNothingToBulldoze, got %v", err)
	}
	if _, err := f.uc.Bulldoze(ctx, BulldozeRequest{X: 99, Y: 3}); !errors.Is(err, city.ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
	if got := f.metrics.Snapshot().CommandRejected; got != 3 {
		t.Fatalf("expected 3 rejections, got %d", got)
	}
}

func TestAdvanceSavesSnapshotOnPeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.uc.Place(ctx, PlaceRequest{X: 0, Y: 0, Type: "residential"}); err != nil {
		t.Fatalf("place: %v", err)
	}
	resp, err := f.uc.Advance(ctx, AdvanceRequest{Ticks: 15})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if resp.Result.TicksRun != 15 || resp.Result.Tick != 15 || resp.Result.Budget != 3720 {
		t.Fatalf("unexpected advance result %+v", resp.Result)
	}

	var latest city.Snapshot
	_ = f.uc.TxManager.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		latest, err = f.uc.Snapshots.GetLatest(ctx, "city-1")
		return err
	})
	if latest.Tick != 15 || latest.Population != 2 {
		t.Fatalf("expected snapshot at tick 15, got %+v", latest)
	}
	if f.metrics.Snapshot().TicksRun != 15 {
		t.Fatalf("expected 15 ticks recorded")
	}
}

func TestAdvanceValidatesTicks(t *testing.T) {
	f := newFixture(t)
	for _, n := range []int{0, -1, defaultMaxAdvanceTicks + 1} {
		if _, err := f.uc.Advance(context.Background(), AdvanceRequest{Ticks: n}); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("ticks=%d: expected ErrInvalidRequest, got %v", n, err)
		}
	}
}

func TestElapseCarriesPartialTicks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	n, err := f.uc.Elapse(ctx, 500*time.Millisecond)
	if err != nil || n != 0 {
		t.Fatalf("expected no tick, got %d err=%v", n, err)
	}
	if len(f.publisher.snapshots) != 0 {
		t.Fatalf("no tick must not publish")
	}
	n, err = f.uc.Elapse(ctx, time.Second)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 tick, got %d err=%v", n, err)
	}
	if len(f.publisher.snapshots) != 1 || f.publisher.snapshots[0].Tick != 1 {
		t.Fatalf("expected snapshot for tick 1")
	}
}

func TestPersistenceFailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.uc.Events = failingEvents{}
	if _, err := f.uc.Place(context.Background(), PlaceRequest{X: 0, Y: 0, Type: "road"}); err == nil {
		t.Fatalf("expected persistence error")
	}
	if f.metrics.Snapshot().CommandFailure != 1 {
		t.Fatalf("expected failure recorded")
	}
}
