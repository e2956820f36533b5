package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"citysim/internal/adapter/repo/gorm/model"
	"citysim/internal/app/ports"

	"gorm.io/gorm"
)

type CommandRepo struct {
	db *gorm.DB
}

func NewCommandRepo(db *gorm.DB) CommandRepo {
	return CommandRepo{db: db}
}

func (r CommandRepo) GetByIdempotencyKey(ctx context.Context, cityID, key string) (*ports.CommandRecord, error) {
	var m model.CityCommand
	err := getDBFromCtx(ctx, r.db).
		Where(&model.CityCommand{CityID: cityID, IdempotencyKey: key}).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return commandRecordFromModel(m)
}

func commandRecordFromModel(m model.CityCommand) (*ports.CommandRecord, error) {
	var result ports.CommandResult
	if err := json.Unmarshal(m.Result, &result); err != nil {
		return nil, fmt.Errorf("decode command %s result: %w", m.IdempotencyKey, err)
	}
	return &ports.CommandRecord{
		CityID:         m.CityID,
		IdempotencyKey: m.IdempotencyKey,
		Command:        m.Command,
		Result:         result,
		AppliedAt:      m.AppliedAt,
	}, nil
}

func (r CommandRepo) SaveCommand(ctx context.Context, record ports.CommandRecord) error {
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return err
	}
	m := model.CityCommand{
		CityID:         record.CityID,
		IdempotencyKey: record.IdempotencyKey,
		Command:        record.Command,
		Tick:           int64(record.Result.Tick),
		Budget:         int64(record.Result.Budget),
		Result:         resultJSON,
		AppliedAt:      record.AppliedAt,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}
