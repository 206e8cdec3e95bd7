package repository

import (
	"context"
	"time"

	"pixstore/internal/domain/model"
)

type OutboxRepository interface {
	Enqueue(ctx context.Context, event model.OutboxEvent) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, eventID int64, at time.Time) error
	MarkFailed(ctx context.Context, eventID int64, nextAttempt time.Time, lastError string) error
}
