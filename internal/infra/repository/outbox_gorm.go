package repository

import (
	"context"
	"time"

	"pixstore/internal/domain/model"
	repo "pixstore/internal/repository"

	"gorm.io/gorm"
)

type OutboxGormRepository struct {
	db *gorm.DB
}

func NewOutboxGormRepository(db *gorm.DB) *OutboxGormRepository {
	return &OutboxGormRepository{db: db}
}

func (r *OutboxGormRepository) Enqueue(ctx context.Context, event model.OutboxEvent) error {
	return r.db.WithContext(ctx).Create(&event).Error
}

func (r *OutboxGormRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]model.OutboxEvent, error) {
	var items []model.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("processed_at IS NULL AND next_attempt_at <= ?", now).
		Order("id asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return []model.OutboxEvent{}, err
	}
	return items, nil
}

func (r *OutboxGormRepository) MarkProcessed(ctx context.Context, eventID int64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id = ?", eventID).
		Update("processed_at", at)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OutboxGormRepository) MarkFailed(ctx context.Context, eventID int64, nextAttempt time.Time, lastError string) error {
	res := r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"attempts":        gorm.Expr("attempts + 1"),
			"next_attempt_at": nextAttempt,
			"last_error":      lastError,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
