package domain

import (
	"github.com/google/uuid"
)

// Membership represents the relationship between a user and a study.
// A row with IsAccepted=false is a pending join request; IsAccepted=true
// is an active roster entry. At most one row exists per (study, user) pair.
type Membership struct {
	BaseModel
	StudyID    uuid.UUID `gorm:"type:uuid;not null;index:idx_memberships_study_id;uniqueIndex:uq_memberships_study_user" json:"study_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_memberships_user_id;uniqueIndex:uq_memberships_study_user" json:"user_id"`
	IsAccepted bool      `gorm:"not null;default:false;index:idx_memberships_is_accepted" json:"is_accepted"`
	Greeting   string    `gorm:"type:text;not null" json:"greeting"`
	Study      Study     `gorm:"foreignKey:StudyID;constraint:OnDelete:CASCADE" json:"study,omitempty"`
}

// TableName specifies the table name for Membership
func (Membership) TableName() string {
	return "memberships"
}
