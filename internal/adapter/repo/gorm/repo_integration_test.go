package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"citysim/db"
	"citysim/internal/app/ports"
	"citysim/internal/domain/city"
	"citysim/internal/domain/development"

	"gorm.io/gorm"
)

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("CITYSIM_DB_DSN")
	if dsn == "" {
		t.Skip("CITYSIM_DB_DSN is required for integration test")
	}
	conn, err := OpenPostgres(dsn, DefaultPoolConfig())
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(context.Background(), conn, db.Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestEventRepo_AppendAndListNewestFirst(t *testing.T) {
	conn := requireDB(t)
	ctx := context.Background()
	cityID := "it-events"
	_ = conn.Exec("DELETE FROM city_events WHERE city_id = ?", cityID).Error

	repo := NewEventRepo(conn)
	now := time.Now().UTC().Truncate(time.Millisecond)
	err := repo.Append(ctx, cityID, []city.DomainEvent{
		{Type: city.EventBuildingPlaced, Tick: 0, OccurredAt: now, Payload: map[string]any{"budget": 3700}},
		{Type: city.EventRevenueCredited, Tick: 15, OccurredAt: now, Payload: map[string]any{"budget": 3720}},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := repo.ListByCityID(ctx, cityID, ports.TickWindow{}, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Type != city.EventRevenueCredited || got[0].Tick != 15 {
		t.Fatalf("unexpected events: %+v", got)
	}
	if got[0].Payload["budget"] != float64(3720) {
		t.Fatalf("unexpected payload: %+v", got[0].Payload)
	}
	if _, err := repo.ListByCityID(ctx, "it-missing", ports.TickWindow{}, 0); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err = repo.ListByCityID(ctx, cityID, ports.TickWindow{From: 0, To: 5}, 1)
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if len(got) != 1 || got[0].Type != city.EventBuildingPlaced {
		t.Fatalf("expected the placement inside the window, got %+v", got)
	}
	got, err = repo.ListByCityID(ctx, cityID, ports.TickWindow{From: 100}, 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty window without error, got %+v %v", got, err)
	}
}

func TestCommandRepo_IdempotencyRoundTrip(t *testing.T) {
	conn := requireDB(t)
	ctx := context.Background()
	cityID := "it-commands"
	_ = conn.Exec("DELETE FROM city_commands WHERE city_id = ?", cityID).Error

	repo := NewCommandRepo(conn)
	record := ports.CommandRecord{
		CityID:         cityID,
		IdempotencyKey: "k1",
		Command:        "place",
		Result:         ports.CommandResult{Tick: 2, Budget: 3700, BuildingID: 4},
		AppliedAt:      time.Now().UTC(),
	}
	if err := repo.SaveCommand(ctx, record); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveCommand(ctx, record); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	got, err := repo.GetByIdempotencyKey(ctx, cityID, "k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Command != "place" || got.Result.BuildingID != 4 || got.Result.Budget != 3700 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestSnapshotRepo_LatestAndTxRollback(t *testing.T) {
	conn := requireDB(t)
	ctx := context.Background()
	cityID := "it-snapshots"
	_ = conn.Exec("DELETE FROM city_snapshots WHERE city_id = ?", cityID).Error

	repo := NewSnapshotRepo(conn)
	tx := NewTxManager(conn)
	for _, tick := range []int{15, 30} {
		snap := city.Snapshot{
			CityID:  cityID,
			Tick:    tick,
			Budget:  4000 + tick,
			States:  map[development.State]int{development.StateDeveloped: 1},
			TakenAt: time.Now().UTC(),
		}
		if err := repo.Save(ctx, snap); err != nil {
			t.Fatalf("save tick %d: %v", tick, err)
		}
	}

	boom := errors.New("boom")
	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repo.Save(txCtx, city.Snapshot{CityID: cityID, Tick: 45, TakenAt: time.Now().UTC()}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := repo.GetLatest(ctx, cityID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.Tick != 30 || got.Budget != 4030 || got.States[development.StateDeveloped] != 1 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}
