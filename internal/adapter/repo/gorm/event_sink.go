package gormrepo

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/adapter/repo/gorm/model"
	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/domain/game"
)

type EventSink struct {
	db *gorm.DB
}

func NewEventSink(db *gorm.DB) EventSink {
	return EventSink{db: db}
}

func (s EventSink) Append(ctx context.Context, events []game.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.SessionEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.SessionEvent{
			SessionID:  e.SessionID,
			Round:      e.Round,
			Type:       e.Type,
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}

func (s EventSink) ListBySession(ctx context.Context, sessionID string, limit int) ([]game.Event, error) {
	rows := []model.SessionEvent{}
	query := s.db.WithContext(ctx).
		Where(&model.SessionEvent{SessionID: sessionID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "id"}}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]game.Event, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, game.Event{
			Type:       row.Type,
			SessionID:  row.SessionID,
			Round:      row.Round,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
