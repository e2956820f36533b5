package gormrepo

import (
	"context"
	"encoding/json"
	"errors"

	"citysim/internal/adapter/repo/gorm/model"
	"citysim/internal/app/ports"
	"citysim/internal/domain/city"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SnapshotRepo struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepo {
	return SnapshotRepo{db: db}
}

func (r SnapshotRepo) Save(ctx context.Context, snapshot city.Snapshot) error {
	b, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return getDBFromCtx(ctx, r.db).Create(&model.CitySnapshot{
		CityID:     snapshot.CityID,
		Tick:       int64(snapshot.Tick),
		Budget:     int64(snapshot.Budget),
		Population: int64(snapshot.Population),
		Snapshot:   b,
		TakenAt:    snapshot.TakenAt,
	}).Error
}

func (r SnapshotRepo) GetLatest(ctx context.Context, cityID string) (city.Snapshot, error) {
	var m model.CitySnapshot
	err := getDBFromCtx(ctx, r.db).
		Where(&model.CitySnapshot{CityID: cityID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "tick"}, Desc: true},
				{Column: clause.Column{Name: "id"}, Desc: true},
			},
		}).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return city.Snapshot{}, ports.ErrNotFound
		}
		return city.Snapshot{}, err
	}
	var out city.Snapshot
	if err := json.Unmarshal(m.Snapshot, &out); err != nil {
		return city.Snapshot{}, err
	}
	return out, nil
}
