package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"citysim/internal/adapter/repo/gorm/model"
	"citysim/internal/app/ports"
	"citysim/internal/domain/city"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, cityID string, events []city.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.CityEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.CityEvent{
			CityID:     cityID,
			Type:       e.Type,
			Tick:       int64(e.Tick),
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

// ListByCityID returns newest first. Insertion order breaks ties within a tick.
func (r EventRepo) ListByCityID(ctx context.Context, cityID string, window ports.TickWindow, limit int) ([]city.DomainEvent, error) {
	db := getDBFromCtx(ctx, r.db)
	rows := []model.CityEvent{}
	query := db.Where(&model.CityEvent{CityID: cityID})
	if window.From > 0 {
		query = query.Where("tick >= ?", window.From)
	}
	if window.To > 0 {
		query = query.Where("tick <= ?", window.To)
	}
	query = query.Clauses(clause.OrderBy{
		Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "id"}, Desc: true}},
	})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		if window.Open() {
			return nil, ports.ErrNotFound
		}
		var count int64
		if err := db.Model(&model.CityEvent{}).Where(&model.CityEvent{CityID: cityID}).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
	}

	out := make([]city.DomainEvent, 0, len(rows))
	for _, row := range rows {
		evt, err := eventFromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, nil
}

func eventFromModel(row model.CityEvent) (city.DomainEvent, error) {
	var payload map[string]any
	if len(row.Payload) > 0 {
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			return city.DomainEvent{}, fmt.Errorf("decode event %d payload: %w", row.ID, err)
		}
	}
	return city.DomainEvent{
		Type:       row.Type,
		Tick:       int(row.Tick),
		OccurredAt: row.OccurredAt,
		Payload:    payload,
	}, nil
}
