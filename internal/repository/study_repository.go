package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"study-group-api/internal/domain"
)

// StudyRepository defines the interface for study data access
type StudyRepository interface {
	Create(ctx context.Context, study *domain.Study) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Study, error)
	Update(ctx context.Context, study *domain.Study) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, search *domain.StudySearch) ([]*domain.Study, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
}

// studyRepositoryImpl is the GORM implementation of StudyRepository
type studyRepositoryImpl struct {
	db *gorm.DB
}

// NewStudyRepository creates a new instance of StudyRepository
func NewStudyRepository(db *gorm.DB) StudyRepository {
	return &studyRepositoryImpl{db: db}
}

// Create creates a new study
func (r *studyRepositoryImpl) Create(ctx context.Context, study *domain.Study) error {
	if err := r.db.WithContext(ctx).Create(study).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a study by its ID
func (r *studyRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Study, error) {
	var study domain.Study
	if err := r.db.WithContext(ctx).First(&study, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &study, nil
}

// Update persists all fields of the study
func (r *studyRepositoryImpl) Update(ctx context.Context, study *domain.Study) error {
	return r.db.WithContext(ctx).Save(study).Error
}

// Delete removes a study and, via the cascade constraint, its memberships
func (r *studyRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SQLite in tests does not enforce the cascade, so delete explicitly
		if err := tx.Where("study_id = ?", id).Delete(&domain.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("study_id = ? AND dispatched_at IS NULL", id).
			Delete(&domain.NotificationOutbox{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Study{}, "id = ?", id).Error
	})
}

// Search executes one directory page query. Filters are ANDed exact
// matches; the cursor is applied as a strict inequality consistent with
// the sort direction, so advancing pages never repeats a row as long as
// sort keys of returned rows do not change underneath the caller.
func (r *studyRepositoryImpl) Search(ctx context.Context, search *domain.StudySearch) ([]*domain.Study, error) {
	query := r.db.WithContext(ctx).Model(&domain.Study{})

	if search.Weekday != nil {
		query = query.Where("weekday = ?", *search.Weekday)
	}
	if search.Frequency != nil {
		query = query.Where("frequency = ?", *search.Frequency)
	}
	if search.Location != nil {
		query = query.Where("location = ?", *search.Location)
	}
	if search.CategoryCode != nil {
		query = query.Where("category_code = ?", *search.CategoryCode)
	}

	switch search.Sort {
	case domain.SortLatest:
		if search.Cursor != nil && search.Cursor.CreatedBefore != nil {
			query = query.Where("created_at < ?", *search.Cursor.CreatedBefore)
		}
		query = query.Order("created_at DESC")
	case domain.SortSmallVacancy:
		if search.Cursor != nil && search.Cursor.Vacancy != nil {
			query = query.Where("vacancy > ?", *search.Cursor.Vacancy)
		}
		query = query.Order("vacancy ASC").Order("created_at DESC")
	case domain.SortLargeVacancy:
		if search.Cursor != nil && search.Cursor.Vacancy != nil {
			query = query.Where("vacancy < ?", *search.Cursor.Vacancy)
		}
		query = query.Order("vacancy DESC").Order("created_at DESC")
	}

	var studies []*domain.Study
	if err := query.Limit(search.PageSize).Find(&studies).Error; err != nil {
		return nil, err
	}
	return studies, nil
}

// IncrementViewCount atomically bumps the view counter
func (r *studyRepositoryImpl) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Study{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// CloseExpired closes every open study whose due date has passed and
// returns the number of studies closed
func (r *studyRepositoryImpl) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Study{}).
		Where("is_open = ? AND due_date IS NOT NULL AND due_date < ?", true, now).
		UpdateColumn("is_open", false)
	return result.RowsAffected, result.Error
}
