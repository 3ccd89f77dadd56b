package dto

import (
	"time"

	"github.com/google/uuid"

	"study-group-api/internal/domain"
)

// CreateStudyRequest represents the request to create a study
// @Description Capacity must be at least 1; schedule fields must use the
// @Description published enumeration values
type CreateStudyRequest struct {
	Title        string     `json:"title" binding:"required,max=255"`
	Description  string     `json:"description"`
	CategoryCode string     `json:"categoryCode" binding:"required"`
	Weekday      string     `json:"weekday" binding:"required"`
	Frequency    string     `json:"frequency" binding:"required"`
	Location     string     `json:"location" binding:"required"`
	Capacity     int        `json:"capacity" binding:"required,min=1"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
}

// UpdateStudyRequest represents the host's request to update a study.
// Nil fields are left unchanged.
type UpdateStudyRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	CategoryCode *string    `json:"categoryCode,omitempty"`
	Weekday      *string    `json:"weekday,omitempty"`
	Frequency    *string    `json:"frequency,omitempty"`
	Location     *string    `json:"location,omitempty"`
	Capacity     *int       `json:"capacity,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
}

// StudyResponse represents a study in API responses
type StudyResponse struct {
	ID           uuid.UUID  `json:"id"`
	HostID       uuid.UUID  `json:"hostId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	CategoryCode string     `json:"categoryCode"`
	Weekday      string     `json:"weekday"`
	Frequency    string     `json:"frequency"`
	Location     string     `json:"location"`
	Capacity     int        `json:"capacity"`
	MembersCount int        `json:"membersCount"`
	Vacancy      int        `json:"vacancy"`
	IsOpen       bool       `json:"isOpen"`
	ViewCount    int64      `json:"viewCount"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// NewStudyResponse converts a domain.Study to a StudyResponse
func NewStudyResponse(s *domain.Study) *StudyResponse {
	return &StudyResponse{
		ID:           s.ID,
		HostID:       s.HostID,
		Title:        s.Title,
		Description:  s.Description,
		CategoryCode: string(s.CategoryCode),
		Weekday:      string(s.Weekday),
		Frequency:    string(s.Frequency),
		Location:     string(s.Location),
		Capacity:     s.Capacity,
		MembersCount: s.MembersCount,
		Vacancy:      s.Vacancy,
		IsOpen:       s.IsOpen,
		ViewCount:    s.ViewCount,
		DueDate:      s.DueDate,
		CreatedAt:    s.CreatedAt,
	}
}
