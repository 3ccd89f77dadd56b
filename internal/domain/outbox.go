package domain

import (
	"time"

	"github.com/google/uuid"

	"gorm.io/datatypes"
)

// NotificationType represents the kind of membership event a notification carries
type NotificationType string

const (
	NotificationJoinRequested   NotificationType = "JOIN_REQUESTED"
	NotificationRequestAccepted NotificationType = "REQUEST_ACCEPTED"
	NotificationRequestRejected NotificationType = "REQUEST_REJECTED"
	NotificationMemberLeft      NotificationType = "MEMBER_LEFT"
	NotificationMemberRemoved   NotificationType = "MEMBER_REMOVED"
)

// NotificationOutbox is a pending notification written in the same
// transaction as the membership mutation that caused it. A background
// dispatcher delivers rows after commit, so a slow or failing
// notification channel can never hold a lock on study rows.
type NotificationOutbox struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudyID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_notification_outbox_study_id" json:"study_id"`
	RecipientID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_notification_outbox_recipient_id" json:"recipient_id"`
	Type         NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Title        string           `gorm:"type:varchar(255);not null" json:"title"`
	Body         string           `gorm:"type:text" json:"body"`
	Payload      datatypes.JSON   `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt    time.Time        `gorm:"not null" json:"created_at"`
	DispatchedAt *time.Time       `gorm:"index:idx_notification_outbox_dispatched_at" json:"dispatched_at,omitempty"`
}

// TableName specifies the table name for NotificationOutbox
func (NotificationOutbox) TableName() string {
	return "notification_outbox"
}
