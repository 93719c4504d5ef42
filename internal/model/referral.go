package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReferralStatus enum constants
const (
	ReferralStatusPending   = "pending"
	ReferralStatusCompleted = "completed"
	ReferralStatusExpired   = "expired"
)

// Referral tracks a referrer/referred pair and its reward.
// A user may appear as the referred party in at most one row (unique index).
type Referral struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	// Referrer (user who invited)
	ReferrerID uuid.UUID `gorm:"type:uuid;not null;index" json:"referrer_id"`
	Referrer   User      `gorm:"foreignKey:ReferrerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// Referred user (new user who joined)
	ReferredID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"referred_id"`
	Referred   User      `gorm:"foreignKey:ReferredID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Status string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	RewardAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"reward_amount"`
	RewardPaid   bool            `gorm:"default:false" json:"reward_paid"`

	CompletedAt *time.Time `gorm:"index" json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
