package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"study-group-api/internal/domain"
)

// OutboxRepository defines the interface for notification outbox access.
// Rows are written by the membership transitions inside their own
// transactions; this interface serves the background dispatcher.
type OutboxRepository interface {
	FindUndispatched(ctx context.Context, limit int) ([]*domain.NotificationOutbox, error)
	MarkDispatched(ctx context.Context, ids []uuid.UUID) error
	DeleteDispatchedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// outboxRepositoryImpl is the GORM implementation of OutboxRepository
type outboxRepositoryImpl struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new instance of OutboxRepository
func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepositoryImpl{db: db}
}

// FindUndispatched returns the oldest pending events, capped at limit
func (r *outboxRepositoryImpl) FindUndispatched(ctx context.Context, limit int) ([]*domain.NotificationOutbox, error) {
	var events []*domain.NotificationOutbox
	if err := r.db.WithContext(ctx).
		Where("dispatched_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// MarkDispatched stamps the given events as delivered
func (r *outboxRepositoryImpl) MarkDispatched(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.NotificationOutbox{}).
		Where("id IN ?", ids).
		Update("dispatched_at", time.Now()).Error
}

// DeleteDispatchedBefore purges delivered events older than cutoff
func (r *outboxRepositoryImpl) DeleteDispatchedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("dispatched_at IS NOT NULL AND dispatched_at < ?", cutoff).
		Delete(&domain.NotificationOutbox{})
	return result.RowsAffected, result.Error
}
