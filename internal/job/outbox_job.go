package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"study-group-api/internal/client"
	"study-group-api/internal/repository"
)

const (
	// dispatchBatchSize caps how many events one run delivers
	dispatchBatchSize = 100
	// dispatchedRetention is how long delivered events are kept for audit
	dispatchedRetention = 7 * 24 * time.Hour
)

// OutboxJob delivers queued notification events to the notification
// service. Events are written transactionally with the membership
// transitions that caused them, so delivery here is at-least-once and
// never blocks the API path.
type OutboxJob struct {
	outboxRepo repository.OutboxRepository
	notiClient client.NotificationClient
	logger     *zap.Logger
}

// NewOutboxJob creates a new OutboxJob instance
func NewOutboxJob(
	outboxRepo repository.OutboxRepository,
	notiClient client.NotificationClient,
	logger *zap.Logger,
) *OutboxJob {
	return &OutboxJob{
		outboxRepo: outboxRepo,
		notiClient: notiClient,
		logger:     logger,
	}
}

// Run delivers one batch of pending events and purges old delivered ones
func (j *OutboxJob) Run() {
	ctx := context.Background()

	events, err := j.outboxRepo.FindUndispatched(ctx, dispatchBatchSize)
	if err != nil {
		j.logger.Error("Failed to load pending notification events",
			zap.Error(err),
		)
		return
	}

	if len(events) == 0 {
		return
	}

	j.logger.Info("Dispatching notification events",
		zap.Int("count", len(events)),
	)

	var dispatchedIDs []uuid.UUID
	failCount := 0

	for _, event := range events {
		var metadata map[string]interface{}
		if len(event.Payload) > 0 {
			if err := json.Unmarshal(event.Payload, &metadata); err != nil {
				j.logger.Warn("Failed to decode event payload",
					zap.String("event_id", event.ID.String()),
					zap.Error(err),
				)
			}
		}

		err := j.notiClient.Send(ctx, client.NotificationEvent{
			Type:        string(event.Type),
			StudyID:     event.StudyID,
			RecipientID: event.RecipientID,
			Title:       event.Title,
			Body:        event.Body,
			Metadata:    metadata,
			OccurredAt:  event.CreatedAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			// Left undispatched; the next run retries it
			j.logger.Error("Failed to dispatch notification event",
				zap.String("event_id", event.ID.String()),
				zap.Error(err),
			)
			failCount++
			continue
		}

		dispatchedIDs = append(dispatchedIDs, event.ID)
	}

	if len(dispatchedIDs) > 0 {
		if err := j.outboxRepo.MarkDispatched(ctx, dispatchedIDs); err != nil {
			j.logger.Error("Failed to mark events as dispatched",
				zap.Int("count", len(dispatchedIDs)),
				zap.Error(err),
			)
		}
	}

	purged, err := j.outboxRepo.DeleteDispatchedBefore(ctx, time.Now().Add(-dispatchedRetention))
	if err != nil {
		j.logger.Error("Failed to purge dispatched events", zap.Error(err))
	}

	j.logger.Info("Outbox dispatch completed",
		zap.Int("total", len(events)),
		zap.Int("dispatched", len(dispatchedIDs)),
		zap.Int("failed", failCount),
		zap.Int64("purged", purged),
	)
}
