package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"study-group-api/internal/domain"
	"study-group-api/internal/dto"
	"study-group-api/internal/metrics"
	"study-group-api/internal/repository"
	"study-group-api/internal/response"
)

// MembershipService defines the interface for the join-request lifecycle
type MembershipService interface {
	RequestJoin(ctx context.Context, studyID, userID uuid.UUID, req *dto.JoinStudyRequest) (*dto.MembershipResponse, error)
	GetPendingRequests(ctx context.Context, studyID, callerID uuid.UUID) ([]*dto.MembershipResponse, error)
	GetActiveMembers(ctx context.Context, studyID uuid.UUID) ([]*dto.MembershipResponse, error)
	Decide(ctx context.Context, studyID, targetUserID, callerID uuid.UUID, accept bool) (*dto.MembershipResponse, error)
	UpdateGreeting(ctx context.Context, studyID, userID uuid.UUID, req *dto.UpdateGreetingRequest) error
	Cancel(ctx context.Context, studyID, targetUserID, callerID uuid.UUID) error
}

// membershipServiceImpl is the implementation of MembershipService
type membershipServiceImpl struct {
	membershipRepo repository.MembershipRepository
	studyRepo      repository.StudyRepository
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

// NewMembershipService creates a new instance of MembershipService
func NewMembershipService(membershipRepo repository.MembershipRepository, studyRepo repository.StudyRepository, logger *zap.Logger, m *metrics.Metrics) MembershipService {
	return &membershipServiceImpl{
		membershipRepo: membershipRepo,
		studyRepo:      studyRepo,
		logger:         logger,
		metrics:        m,
	}
}

// RequestJoin files a pending join request against an open study
func (s *membershipServiceImpl) RequestJoin(ctx context.Context, studyID, userID uuid.UUID, req *dto.JoinStudyRequest) (*dto.MembershipResponse, error) {
	if strings.TrimSpace(req.Greeting) == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Greeting is required", "")
	}

	study, err := s.findStudy(ctx, studyID)
	if err != nil {
		return nil, err
	}
	if study.IsHostedBy(userID) {
		return nil, response.NewAppError(response.ErrCodeValidation, "The host cannot request to join their own study", "")
	}

	if _, err := s.membershipRepo.FindByStudyAndUser(ctx, studyID, userID); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "A join request for this study already exists", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check existing membership", err.Error())
	}

	membership := &domain.Membership{
		StudyID:    studyID,
		UserID:     userID,
		IsAccepted: false,
		Greeting:   req.Greeting,
	}
	event := newOutboxEvent(study, study.HostID, domain.NotificationJoinRequested,
		"New join request",
		fmt.Sprintf("A new join request arrived for %q", study.Title))

	if err := s.membershipRepo.CreateWithOutbox(ctx, membership, event); err != nil {
		if isDuplicateKeyError(err) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "A join request for this study already exists", "")
		}
		s.logger.Error("Failed to create join request", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create join request", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementMembershipTransition("join_requested")
	}
	s.logger.Info("Join request created",
		zap.String("study_id", studyID.String()),
		zap.String("user_id", userID.String()),
	)
	return dto.NewMembershipResponse(membership), nil
}

// GetPendingRequests lists pending join requests; only the host may see them
func (s *membershipServiceImpl) GetPendingRequests(ctx context.Context, studyID, callerID uuid.UUID) ([]*dto.MembershipResponse, error) {
	study, err := s.findStudy(ctx, studyID)
	if err != nil {
		return nil, err
	}
	if !study.IsHostedBy(callerID) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the host can view pending requests", "")
	}

	memberships, err := s.membershipRepo.FindPendingByStudy(ctx, studyID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch pending requests", err.Error())
	}
	return toMembershipResponses(memberships), nil
}

// GetActiveMembers lists the accepted members of a study
func (s *membershipServiceImpl) GetActiveMembers(ctx context.Context, studyID uuid.UUID) ([]*dto.MembershipResponse, error) {
	if _, err := s.findStudy(ctx, studyID); err != nil {
		return nil, err
	}

	memberships, err := s.membershipRepo.FindAcceptedByStudy(ctx, studyID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch members", err.Error())
	}
	return toMembershipResponses(memberships), nil
}

// Decide accepts or rejects a join request on the host's behalf. A
// reject against an active member demotes the row back to pending
// rather than deleting it, so the applicant can be re-accepted later.
func (s *membershipServiceImpl) Decide(ctx context.Context, studyID, targetUserID, callerID uuid.UUID, accept bool) (*dto.MembershipResponse, error) {
	study, err := s.findStudy(ctx, studyID)
	if err != nil {
		return nil, err
	}
	if !study.IsHostedBy(callerID) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the host can decide join requests", "")
	}

	var membership *domain.Membership
	if accept {
		event := newOutboxEvent(study, targetUserID, domain.NotificationRequestAccepted,
			"Join request accepted",
			fmt.Sprintf("Your request to join %q was accepted", study.Title))
		membership, err = s.membershipRepo.Accept(ctx, studyID, targetUserID, event)
	} else {
		event := newOutboxEvent(study, targetUserID, domain.NotificationRequestRejected,
			"Join request rejected",
			fmt.Sprintf("Your request to join %q was rejected", study.Title))
		membership, err = s.membershipRepo.Demote(ctx, studyID, targetUserID, event)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStudyFull):
			return nil, response.NewAppError(response.ErrCodeStudyFull, "Study is already at capacity", "")
		case errors.Is(err, repository.ErrAlreadyAccepted):
			return nil, response.NewAppError(response.ErrCodeValidation, "Membership is already accepted", "")
		case errors.Is(err, gorm.ErrRecordNotFound):
			// The study was fetched above, so the missing row is the membership
			return nil, response.NewAppError(response.ErrCodeValidation, "No join request exists for this user", "")
		}
		s.logger.Error("Failed to decide join request", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to decide join request", err.Error())
	}

	if s.metrics != nil {
		if accept {
			s.metrics.IncrementMembershipTransition("accepted")
		} else {
			s.metrics.IncrementMembershipTransition("rejected")
		}
	}
	s.logger.Info("Join request decided",
		zap.String("study_id", studyID.String()),
		zap.String("user_id", targetUserID.String()),
		zap.Bool("accepted", accept),
	)
	return dto.NewMembershipResponse(membership), nil
}

// UpdateGreeting updates the greeting on the caller's own membership row
func (s *membershipServiceImpl) UpdateGreeting(ctx context.Context, studyID, userID uuid.UUID, req *dto.UpdateGreetingRequest) error {
	if strings.TrimSpace(req.Greeting) == "" {
		return response.NewAppError(response.ErrCodeValidation, "Greeting is required", "")
	}
	if _, err := s.findStudy(ctx, studyID); err != nil {
		return err
	}

	if err := s.membershipRepo.UpdateGreeting(ctx, studyID, userID, req.Greeting); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Membership not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to update greeting", err.Error())
	}
	return nil
}

// Cancel removes a membership row. The applicant may withdraw their own
// request or leave the study; the host may remove anyone.
func (s *membershipServiceImpl) Cancel(ctx context.Context, studyID, targetUserID, callerID uuid.UUID) error {
	study, err := s.findStudy(ctx, studyID)
	if err != nil {
		return err
	}

	self := callerID == targetUserID
	if !self && !study.IsHostedBy(callerID) {
		return response.NewAppError(response.ErrCodeForbidden, "Only the member or the host can remove a membership", "")
	}

	var event *domain.NotificationOutbox
	if self {
		event = newOutboxEvent(study, study.HostID, domain.NotificationMemberLeft,
			"Member left",
			fmt.Sprintf("A member left %q", study.Title))
	} else {
		event = newOutboxEvent(study, targetUserID, domain.NotificationMemberRemoved,
			"Removed from study",
			fmt.Sprintf("You were removed from %q", study.Title))
	}

	if err := s.membershipRepo.Remove(ctx, studyID, targetUserID, event); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Membership not found", "")
		}
		s.logger.Error("Failed to remove membership", zap.Error(err))
		return response.NewAppError(response.ErrCodeInternal, "Failed to remove membership", err.Error())
	}

	if s.metrics != nil {
		if self {
			s.metrics.IncrementMembershipTransition("left")
		} else {
			s.metrics.IncrementMembershipTransition("removed")
		}
	}
	s.logger.Info("Membership removed",
		zap.String("study_id", studyID.String()),
		zap.String("user_id", targetUserID.String()),
		zap.Bool("self", self),
	)
	return nil
}

func (s *membershipServiceImpl) findStudy(ctx context.Context, studyID uuid.UUID) (*domain.Study, error) {
	study, err := s.studyRepo.FindByID(ctx, studyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Study not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch study", err.Error())
	}
	return study, nil
}

func toMembershipResponses(memberships []*domain.Membership) []*dto.MembershipResponse {
	responses := make([]*dto.MembershipResponse, len(memberships))
	for i, m := range memberships {
		responses[i] = dto.NewMembershipResponse(m)
	}
	return responses
}

// newOutboxEvent builds the outbox row persisted alongside a transition
func newOutboxEvent(study *domain.Study, recipientID uuid.UUID, notiType domain.NotificationType, title, body string) *domain.NotificationOutbox {
	payload, _ := json.Marshal(map[string]interface{}{
		"studyId":    study.ID.String(),
		"studyTitle": study.Title,
	})
	return &domain.NotificationOutbox{
		StudyID:     study.ID,
		RecipientID: recipientID,
		Type:        notiType,
		Title:       title,
		Body:        body,
		Payload:     datatypes.JSON(payload),
	}
}

// isDuplicateKeyError detects unique constraint violations across the
// postgres and sqlite drivers
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
