package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the central user entity for logic and database structure
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"` // Omit password hash from JSON requests/responses
	Name         string    `gorm:"type:varchar(255)" json:"name"`

	IsVerified bool `gorm:"default:false" json:"is_verified"`
	IsActive   bool `gorm:"default:true" json:"is_active"`

	// TIN (Tax Identification Number) — masked via pkg/format before display
	TIN         string `gorm:"type:varchar(20)" json:"-"`
	TINVerified bool   `gorm:"default:false" json:"tin_verified"`

	// Subscription plan currently assigned to the account
	SubscriptionPlan string `gorm:"type:varchar(20);not null;default:'free'" json:"subscription_plan"`

	// Referral
	ReferralCode string     `gorm:"type:varchar(20);uniqueIndex" json:"referral_code"`
	ReferredBy   *uuid.UUID `gorm:"type:uuid" json:"referred_by"`

	// Activity streak tracking
	StreakDays     int        `gorm:"default:0" json:"streak_days"`
	LastActiveDate *time.Time `gorm:"type:date" json:"last_active_date"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
