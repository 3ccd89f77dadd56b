package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"study-group-api/internal/domain"
)

// MockStudyRepository is a mock implementation of StudyRepository
type MockStudyRepository struct {
	CreateFunc             func(ctx context.Context, study *domain.Study) error
	FindByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.Study, error)
	UpdateFunc             func(ctx context.Context, study *domain.Study) error
	DeleteFunc             func(ctx context.Context, id uuid.UUID) error
	SearchFunc             func(ctx context.Context, search *domain.StudySearch) ([]*domain.Study, error)
	IncrementViewCountFunc func(ctx context.Context, id uuid.UUID) error
	CloseExpiredFunc       func(ctx context.Context, now time.Time) (int64, error)
}

func (m *MockStudyRepository) Create(ctx context.Context, study *domain.Study) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, study)
	}
	return nil
}

func (m *MockStudyRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Study, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStudyRepository) Update(ctx context.Context, study *domain.Study) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, study)
	}
	return nil
}

func (m *MockStudyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockStudyRepository) Search(ctx context.Context, search *domain.StudySearch) ([]*domain.Study, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, search)
	}
	return nil, nil
}

func (m *MockStudyRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	if m.IncrementViewCountFunc != nil {
		return m.IncrementViewCountFunc(ctx, id)
	}
	return nil
}

func (m *MockStudyRepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.CloseExpiredFunc != nil {
		return m.CloseExpiredFunc(ctx, now)
	}
	return 0, nil
}

// MockMembershipRepository is a mock implementation of MembershipRepository
type MockMembershipRepository struct {
	CreateWithOutboxFunc     func(ctx context.Context, membership *domain.Membership, event *domain.NotificationOutbox) error
	FindByStudyAndUserFunc   func(ctx context.Context, studyID, userID uuid.UUID) (*domain.Membership, error)
	FindPendingByStudyFunc   func(ctx context.Context, studyID uuid.UUID) ([]*domain.Membership, error)
	FindAcceptedByStudyFunc  func(ctx context.Context, studyID uuid.UUID) ([]*domain.Membership, error)
	CountAcceptedByStudyFunc func(ctx context.Context, studyID uuid.UUID) (int64, error)
	UpdateGreetingFunc       func(ctx context.Context, studyID, userID uuid.UUID, greeting string) error
	AcceptFunc               func(ctx context.Context, studyID, userID uuid.UUID, event *domain.NotificationOutbox) (*domain.Membership, error)
	DemoteFunc               func(ctx context.Context, studyID, userID uuid.UUID, event *domain.NotificationOutbox) (*domain.Membership, error)
	RemoveFunc               func(ctx context.Context, studyID, userID uuid.UUID, event *domain.NotificationOutbox) error
}

func (m *MockMembershipRepository) CreateWithOutbox(ctx context.Context, membership *domain.Membership, event *domain.NotificationOutbox) error {
	if m.CreateWithOutboxFunc != nil {
		return m.CreateWithOutboxFunc(ctx, membership, event)
	}
	return nil
}

func (m *MockMembershipRepository) FindByStudyAndUser(ctx context.Context, studyID, userID uuid.UUID) (*domain.Membership, error) {
	if m.FindByStudyAndUserFunc != nil {
		return m.FindByStudyAndUserFunc(ctx, studyID, userID)
	}
	return nil, nil
}

func (m *MockMembershipRepository) FindPendingByStudy(ctx context.Context, studyID uuid.UUID) ([]*domain.Membership, error) {
	if m.FindPendingByStudyFunc != nil {
		return m.FindPendingByStudyFunc(ctx, studyID)
	}
	return nil, nil
}

func (m *MockMembershipRepository) FindAcceptedByStudy(ctx context.Context, studyID uuid.UUID) ([]*domain.Membership, error) {
	if m.FindAcceptedByStudyFunc != nil {
		return m.FindAcceptedByStudyFunc(ctx, studyID)
	}
	return nil, nil
}

func (m *MockMembershipRepository) CountAcceptedByStudy(ctx context.Context, studyID uuid.UUID) (int64, error) {
	if m.CountAcceptedByStudyFunc != nil {
		return m.CountAcceptedByStudyFunc(ctx, studyID)
	}
	return 0, nil
}

func (m *MockMembershipRepository) UpdateGreeting(ctx context.Context, studyID, userID uuid.UUID, greeting string) error {
	if m.UpdateGreetingFunc != nil {
		return m.UpdateGreetingFunc(ctx, studyID, userID, greeting)
	}
	return nil
}

func (m *MockMembershipRepository) Accept(ctx context.Context, studyID, userID uuid.UUID, event *domain.NotificationOutbox) (*domain.Membership, error) {
	if m.AcceptFunc != nil {
		return m.AcceptFunc(ctx, studyID, userID, event)
	}
	return nil, nil
}

func (m *MockMembershipRepository) Demote(ctx context.Context, studyID, userID uuid.UUID, event *domain.NotificationOutbox) (*domain.Membership, error) {
	if m.DemoteFunc != nil {
		return m.DemoteFunc(ctx, studyID, userID, event)
	}
	return nil, nil
}

func (m *MockMembershipRepository) Remove(ctx context.Context, studyID, userID uuid.UUID, event *domain.NotificationOutbox) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, studyID, userID, event)
	}
	return nil
}
