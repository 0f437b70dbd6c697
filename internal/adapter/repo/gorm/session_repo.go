package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/adapter/repo/gorm/model"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/app/ports"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
)

type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepo {
	return SessionRepo{db: db}
}

func (r SessionRepo) Open(ctx context.Context, record ports.SessionRecord) error {
	scenario, _ := json.Marshal(record.Scenario)
	m := model.GameSession{
		SessionID: record.SessionID,
		Scenario:  scenario,
		StartedAt: record.StartedAt,
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r SessionRepo) Close(ctx context.Context, sessionID, outcome string, rounds int, endedAt time.Time) error {
	updates := map[string]any{
		"outcome":  outcome,
		"rounds":   rounds,
		"ended_at": endedAt,
	}
	res := r.db.WithContext(ctx).
		Model(&model.GameSession{}).
		Where(&model.GameSession{SessionID: sessionID}).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r SessionRepo) Get(ctx context.Context, sessionID string) (ports.SessionRecord, error) {
	m := model.GameSession{}
	err := r.db.WithContext(ctx).
		Where(&model.GameSession{SessionID: sessionID}).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.SessionRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.SessionRecord{}, err
	}

	var scenario game.Scenario
	if len(m.Scenario) > 0 {
		_ = json.Unmarshal(m.Scenario, &scenario)
	}
	return ports.SessionRecord{
		SessionID: m.SessionID,
		Scenario:  scenario,
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
		Outcome:   m.Outcome,
		Rounds:    m.Rounds,
	}, nil
}
