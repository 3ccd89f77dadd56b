package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"study-group-api/internal/domain"
)

var (
	// ErrStudyFull is returned when an accept would exceed the study's capacity
	ErrStudyFull = errors.New("study is at capacity")
	// ErrAlreadyAccepted is returned when accepting a row that is already active
	ErrAlreadyAccepted = errors.New("membership is already accepted")
)

// MembershipRepository defines the interface for membership data access.
// The Accept, Demote and Remove transitions run as single transactions
// that lock the study row, so the capacity check and the counter update
// are atomic with respect to concurrent transitions on the same study.
type MembershipRepository interface {
	CreateWithOutbox(ctx context.Context, membership *domain.Membership, event *domain.NotificationOutbox) error
	FindByStudyAndUser(ctx context.Context, studyID, userID uuid.UUID) (*domain.Membership, error)
	FindPendingByStudy(ctx context.Context, studyID uuid.UUID) ([]*domain.Membership, error)
	FindAcceptedByStudy(ctx context.Context, studyID uuid.UUID) ([]*domain.Membership, error)
	CountAcceptedByStudy(ctx context.Context, studyID uuid.UUID) (int64, error)
	UpdateGreeting(ctx context.Context, studyID, userID uuid.UUID, greeting string) error
	Accept(ctx context.Context, studyID, userID uuid.UUID, event *domain.NotificationOutbox) (*domain.Membership, error)
	Demote(ctx context.Context, studyID, userID uuid.UUID, event *domain.NotificationOutbox) (*domain.Membership, error)
	Remove(ctx context.Context, studyID, userID uuid.UUID, event *domain.NotificationOutbox) error
}

// membershipRepositoryImpl is the GORM implementation of MembershipRepository
type membershipRepositoryImpl struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new instance of MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepositoryImpl{db: db}
}

// CreateWithOutbox inserts a pending membership row and its notification
// event in one transaction
func (r *membershipRepositoryImpl) CreateWithOutbox(ctx context.Context, membership *domain.Membership, event *domain.NotificationOutbox) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(membership).Error; err != nil {
			return err
		}
		if event != nil {
			return tx.Create(event).Error
		}
		return nil
	})
}

// FindByStudyAndUser finds the membership row for a (study, user) pair
func (r *membershipRepositoryImpl) FindByStudyAndUser(ctx context.Context, studyID, userID uuid.UUID) (*domain.Membership, error) {
	var membership domain.Membership
	if err := r.db.WithContext(ctx).
		First(&membership, "study_id = ? AND user_id = ?", studyID, userID).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindPendingByStudy finds all pending join requests for a study
func (r *membershipRepositoryImpl) FindPendingByStudy(ctx context.Context, studyID uuid.UUID) ([]*domain.Membership, error) {
	var memberships []*domain.Membership
	if err := r.db.WithContext(ctx).
		Where("study_id = ? AND is_accepted = ?", studyID, false).
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// FindAcceptedByStudy finds all active members of a study
func (r *membershipRepositoryImpl) FindAcceptedByStudy(ctx context.Context, studyID uuid.UUID) ([]*domain.Membership, error) {
	var memberships []*domain.Membership
	if err := r.db.WithContext(ctx).
		Where("study_id = ? AND is_accepted = ?", studyID, true).
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// CountAcceptedByStudy counts active members of a study
func (r *membershipRepositoryImpl) CountAcceptedByStudy(ctx context.Context, studyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Membership{}).
		Where("study_id = ? AND is_accepted = ?", studyID, true).
		Count(&count).Error
	return count, err
}

// UpdateGreeting updates the greeting text of the applicant's own row
func (r *membershipRepositoryImpl) UpdateGreeting(ctx context.Context, studyID, userID uuid.UUID, greeting string) error {
	result := r.db.WithContext(ctx).Model(&domain.Membership{}).
		Where("study_id = ? AND user_id = ?", studyID, userID).
		Update("greeting", greeting)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Accept promotes a pending row to active and increments the study's
// member counter. The study row is locked for the duration of the
// transaction so two concurrent accepts cannot both pass the capacity
// check; a retried accept against a full or already-accepted row fails
// without a second increment.
func (r *membershipRepositoryImpl) Accept(ctx context.Context, studyID, userID uuid.UUID, event *domain.NotificationOutbox) (*domain.Membership, error) {
	var membership domain.Membership
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		study, err := lockStudy(tx, studyID)
		if err != nil {
			return err
		}
		if err := tx.First(&membership, "study_id = ? AND user_id = ?", studyID, userID).Error; err != nil {
			return err
		}
		if membership.IsAccepted {
			return ErrAlreadyAccepted
		}
		if !study.HasVacancy() {
			return ErrStudyFull
		}

		membership.IsAccepted = true
		if err := tx.Model(&domain.Membership{}).
			Where("id = ?", membership.ID).
			Update("is_accepted", true).Error; err != nil {
			return err
		}

		study.MembersCount++
		if err := saveCounters(tx, study); err != nil {
			return err
		}
		return enqueue(tx, event)
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// Demote flips a row back to pending. If the member was active, the
// study's counters are recomputed in the same transaction; rejecting a
// still-pending request leaves the counters untouched.
func (r *membershipRepositoryImpl) Demote(ctx context.Context, studyID, userID uuid.UUID, event *domain.NotificationOutbox) (*domain.Membership, error) {
	var membership domain.Membership
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		study, err := lockStudy(tx, studyID)
		if err != nil {
			return err
		}
		if err := tx.First(&membership, "study_id = ? AND user_id = ?", studyID, userID).Error; err != nil {
			return err
		}

		if membership.IsAccepted {
			membership.IsAccepted = false
			if err := tx.Model(&domain.Membership{}).
				Where("id = ?", membership.ID).
				Update("is_accepted", false).Error; err != nil {
				return err
			}
			study.MembersCount--
			if err := saveCounters(tx, study); err != nil {
				return err
			}
		}
		return enqueue(tx, event)
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// Remove deletes the membership row. If the member was active, the
// study's counters are recomputed in the same transaction.
func (r *membershipRepositoryImpl) Remove(ctx context.Context, studyID, userID uuid.UUID, event *domain.NotificationOutbox) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		study, err := lockStudy(tx, studyID)
		if err != nil {
			return err
		}
		var membership domain.Membership
		if err := tx.First(&membership, "study_id = ? AND user_id = ?", studyID, userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Membership{}, "id = ?", membership.ID).Error; err != nil {
			return err
		}

		if membership.IsAccepted {
			study.MembersCount--
			if err := saveCounters(tx, study); err != nil {
				return err
			}
		}
		return enqueue(tx, event)
	})
}

// lockStudy reads the study row under a row lock so the capacity check
// and the counter update are serialized per study
func lockStudy(tx *gorm.DB, studyID uuid.UUID) (*domain.Study, error) {
	var study domain.Study
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&study, "id = ?", studyID).Error; err != nil {
		return nil, err
	}
	return &study, nil
}

// saveCounters recomputes vacancy/isOpen and persists the counter fields
func saveCounters(tx *gorm.DB, study *domain.Study) error {
	study.Recalculate()
	return tx.Model(&domain.Study{}).
		Where("id = ?", study.ID).
		Updates(map[string]interface{}{
			"members_count": study.MembersCount,
			"vacancy":       study.Vacancy,
			"is_open":       study.IsOpen,
		}).Error
}

// enqueue writes the outbox event inside the caller's transaction
func enqueue(tx *gorm.DB, event *domain.NotificationOutbox) error {
	if event == nil {
		return nil
	}
	return tx.Create(event).Error
}
