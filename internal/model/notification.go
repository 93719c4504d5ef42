package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType enum constants
const (
	NotificationTaxReminder    = "tax_reminder"
	NotificationFilingComplete = "filing_complete"
	NotificationTINUpdate      = "tin_update"
	NotificationReferral       = "referral"
	NotificationSystem         = "system"
)

// Notification stores an in-app message for a user
type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Type    string `gorm:"type:varchar(30);not null" json:"type"`
	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}
