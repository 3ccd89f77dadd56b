package dto

import (
	"time"

	"github.com/google/uuid"

	"study-group-api/internal/domain"
)

// JoinStudyRequest represents a user's request to join a study
type JoinStudyRequest struct {
	Greeting string `json:"greeting" binding:"required"`
}

// DecideMembershipRequest represents the host's accept/reject decision
// on a join request
type DecideMembershipRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// UpdateGreetingRequest represents the applicant's edit of their greeting
type UpdateGreetingRequest struct {
	Greeting string `json:"greeting" binding:"required"`
}

// MembershipResponse represents a membership row in API responses
type MembershipResponse struct {
	ID         uuid.UUID `json:"id"`
	StudyID    uuid.UUID `json:"studyId"`
	UserID     uuid.UUID `json:"userId"`
	IsAccepted bool      `json:"isAccepted"`
	Greeting   string    `json:"greeting"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewMembershipResponse converts a domain.Membership to a MembershipResponse
func NewMembershipResponse(m *domain.Membership) *MembershipResponse {
	return &MembershipResponse{
		ID:         m.ID,
		StudyID:    m.StudyID,
		UserID:     m.UserID,
		IsAccepted: m.IsAccepted,
		Greeting:   m.Greeting,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
