package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"study-group-api/internal/repository"
)

// ExpiryJob closes studies whose recruitment due date has passed
type ExpiryJob struct {
	studyRepo repository.StudyRepository
	logger    *zap.Logger
}

// NewExpiryJob creates a new ExpiryJob instance
func NewExpiryJob(studyRepo repository.StudyRepository, logger *zap.Logger) *ExpiryJob {
	return &ExpiryJob{
		studyRepo: studyRepo,
		logger:    logger,
	}
}

// Run closes every open study past its due date
func (j *ExpiryJob) Run() {
	ctx := context.Background()

	closed, err := j.studyRepo.CloseExpired(ctx, time.Now())
	if err != nil {
		j.logger.Error("Failed to close expired studies",
			zap.Error(err),
		)
		return
	}

	if closed > 0 {
		j.logger.Info("Closed expired studies",
			zap.Int64("count", closed),
		)
	}
}
