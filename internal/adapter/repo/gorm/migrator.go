package gormrepo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ThreeRiversAINexus/aeonisk-yags-sub005/internal/adapter/repo/gorm/model"
)

func Migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&model.SessionEvent{},
		&model.GameSession{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
