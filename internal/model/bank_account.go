package model

import (
	"time"

	"github.com/google/uuid"
)

// BankLinkStatus enum constants
const (
	BankLinkPending = "pending"
	BankLinkLinked  = "linked"
	BankLinkFailed  = "failed"
)

// BankAccount represents a bank account linked through an external provider.
// Account numbers are masked via pkg/format before display.
type BankAccount struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Provider      string `gorm:"type:varchar(20);not null" json:"provider"` // mono, okra
	ProviderRef   string `gorm:"type:varchar(100)" json:"-"`
	BankName      string `gorm:"type:varchar(100)" json:"bank_name"`
	AccountName   string `gorm:"type:varchar(255)" json:"account_name"`
	AccountNumber string `gorm:"type:varchar(20)" json:"-"`

	Status       string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	LastSyncedAt *time.Time `json:"last_synced_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
