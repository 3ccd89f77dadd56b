package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-group-api/internal/domain"
	"study-group-api/internal/dto"
	"study-group-api/internal/metrics"
	"study-group-api/internal/repository"
	"study-group-api/internal/response"
)

// viewDedupTTL is the window during which repeat views from the same
// viewer do not bump the counter again
const viewDedupTTL = 30 * time.Minute

// StudyService defines the interface for study business logic,
// including the directory search
type StudyService interface {
	CreateStudy(ctx context.Context, hostID uuid.UUID, req *dto.CreateStudyRequest) (*dto.StudyResponse, error)
	GetStudy(ctx context.Context, id uuid.UUID, viewerKey string) (*dto.StudyResponse, error)
	UpdateStudy(ctx context.Context, id, callerID uuid.UUID, req *dto.UpdateStudyRequest) (*dto.StudyResponse, error)
	DeleteStudy(ctx context.Context, id, callerID uuid.UUID) error
	SearchStudies(ctx context.Context, search *domain.StudySearch) (*dto.StudyPageResponse, error)
}

// studyServiceImpl is the implementation of StudyService
type studyServiceImpl struct {
	studyRepo repository.StudyRepository
	redis     *redis.Client
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewStudyService creates a new instance of StudyService
func NewStudyService(studyRepo repository.StudyRepository, redisClient *redis.Client, logger *zap.Logger, m *metrics.Metrics) StudyService {
	return &studyServiceImpl{
		studyRepo: studyRepo,
		redis:     redisClient,
		logger:    logger,
		metrics:   m,
	}
}

// CreateStudy creates a new study with the caller as host
func (s *studyServiceImpl) CreateStudy(ctx context.Context, hostID uuid.UUID, req *dto.CreateStudyRequest) (*dto.StudyResponse, error) {
	if err := validateSchedule(req.Weekday, req.Frequency, req.Location, req.CategoryCode); err != nil {
		return nil, err
	}
	if req.Capacity < 1 {
		return nil, response.NewAppError(response.ErrCodeValidation, "Capacity must be at least 1", "")
	}

	study := &domain.Study{
		HostID:       hostID,
		Title:        req.Title,
		Description:  req.Description,
		CategoryCode: domain.CategoryCode(req.CategoryCode),
		Weekday:      domain.Weekday(req.Weekday),
		Frequency:    domain.Frequency(req.Frequency),
		Location:     domain.Location(req.Location),
		Capacity:     req.Capacity,
		MembersCount: 0,
		DueDate:      req.DueDate,
	}
	study.Recalculate()

	if err := s.studyRepo.Create(ctx, study); err != nil {
		s.logger.Error("Failed to create study", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create study", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementStudyCreated()
	}
	s.logger.Info("Study created",
		zap.String("study_id", study.ID.String()),
		zap.String("host_id", hostID.String()),
	)
	return dto.NewStudyResponse(study), nil
}

// GetStudy returns one study, bumping its view counter at most once per
// dedup window for the same viewer
func (s *studyServiceImpl) GetStudy(ctx context.Context, id uuid.UUID, viewerKey string) (*dto.StudyResponse, error) {
	study, err := s.studyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Study not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch study", err.Error())
	}

	if s.shouldCountView(ctx, id, viewerKey) {
		if err := s.studyRepo.IncrementViewCount(ctx, id); err != nil {
			s.logger.Warn("Failed to increment view count",
				zap.String("study_id", id.String()),
				zap.Error(err),
			)
		} else {
			study.ViewCount++
		}
	}

	return dto.NewStudyResponse(study), nil
}

// shouldCountView uses Redis SETNX to suppress repeat views within the
// dedup window. Without Redis every view counts.
func (s *studyServiceImpl) shouldCountView(ctx context.Context, studyID uuid.UUID, viewerKey string) bool {
	if s.redis == nil || viewerKey == "" {
		return true
	}
	key := fmt.Sprintf("study:view:%s:%s", studyID.String(), viewerKey)
	ok, err := s.redis.SetNX(ctx, key, 1, viewDedupTTL).Result()
	if err != nil {
		// Redis outage must not break study reads
		return true
	}
	return ok
}

// UpdateStudy applies the host's partial update
func (s *studyServiceImpl) UpdateStudy(ctx context.Context, id, callerID uuid.UUID, req *dto.UpdateStudyRequest) (*dto.StudyResponse, error) {
	study, err := s.studyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Study not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch study", err.Error())
	}
	if !study.IsHostedBy(callerID) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the host can update the study", "")
	}

	if req.Title != nil {
		study.Title = *req.Title
	}
	if req.Description != nil {
		study.Description = *req.Description
	}
	if req.CategoryCode != nil {
		if !domain.IsValidCategoryCode(*req.CategoryCode) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Unknown category code", *req.CategoryCode)
		}
		study.CategoryCode = domain.CategoryCode(*req.CategoryCode)
	}
	if req.Weekday != nil {
		if !domain.IsValidWeekday(*req.Weekday) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Unknown weekday", *req.Weekday)
		}
		study.Weekday = domain.Weekday(*req.Weekday)
	}
	if req.Frequency != nil {
		if !domain.IsValidFrequency(*req.Frequency) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Unknown frequency", *req.Frequency)
		}
		study.Frequency = domain.Frequency(*req.Frequency)
	}
	if req.Location != nil {
		if !domain.IsValidLocation(*req.Location) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Unknown location", *req.Location)
		}
		study.Location = domain.Location(*req.Location)
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, response.NewAppError(response.ErrCodeValidation, "Capacity must be at least 1", "")
		}
		if *req.Capacity < study.MembersCount {
			return nil, response.NewAppError(response.ErrCodeValidation, "Capacity cannot be smaller than the current member count", "")
		}
		study.Capacity = *req.Capacity
	}
	if req.DueDate != nil {
		study.DueDate = req.DueDate
	}
	study.Recalculate()

	if err := s.studyRepo.Update(ctx, study); err != nil {
		s.logger.Error("Failed to update study", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update study", err.Error())
	}

	s.logger.Info("Study updated", zap.String("study_id", study.ID.String()))
	return dto.NewStudyResponse(study), nil
}

// DeleteStudy removes a study and its memberships
func (s *studyServiceImpl) DeleteStudy(ctx context.Context, id, callerID uuid.UUID) error {
	study, err := s.studyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Study not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to fetch study", err.Error())
	}
	if !study.IsHostedBy(callerID) {
		return response.NewAppError(response.ErrCodeForbidden, "Only the host can delete the study", "")
	}

	if err := s.studyRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete study", zap.Error(err))
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete study", err.Error())
	}

	s.logger.Info("Study deleted", zap.String("study_id", id.String()))
	return nil
}

// SearchStudies executes one directory page query and computes the
// cursor for the next page. An empty page is a valid result with no
// next cursor.
func (s *studyServiceImpl) SearchStudies(ctx context.Context, search *domain.StudySearch) (*dto.StudyPageResponse, error) {
	if search.PageSize <= 0 {
		search.PageSize = domain.DefaultPageSize
	}

	studies, err := s.studyRepo.Search(ctx, search)
	if err != nil {
		s.logger.Error("Failed to search studies", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to search studies", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementDirectorySearch(string(search.Sort))
	}

	page := &dto.StudyPageResponse{
		Studies: make([]*dto.StudyResponse, len(studies)),
	}
	for i, study := range studies {
		page.Studies[i] = dto.NewStudyResponse(study)
	}
	// A short page is the final page; only a full page gets a cursor
	if len(studies) == search.PageSize {
		page.NextCursor = dto.EncodeCursor(search.Sort, studies[len(studies)-1])
	}
	return page, nil
}

// validateSchedule checks the enumerated schedule fields of a create request
func validateSchedule(weekday, frequency, location, categoryCode string) error {
	if !domain.IsValidWeekday(weekday) {
		return response.NewAppError(response.ErrCodeValidation, "Unknown weekday", weekday)
	}
	if !domain.IsValidFrequency(frequency) {
		return response.NewAppError(response.ErrCodeValidation, "Unknown frequency", frequency)
	}
	if !domain.IsValidLocation(location) {
		return response.NewAppError(response.ErrCodeValidation, "Unknown location", location)
	}
	if !domain.IsValidCategoryCode(categoryCode) {
		return response.NewAppError(response.ErrCodeValidation, "Unknown category code", categoryCode)
	}
	return nil
}
