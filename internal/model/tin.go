package model

import (
	"time"

	"github.com/google/uuid"
)

// TINApplicationStatus enum constants
const (
	TINApplicationPending    = "pending"
	TINApplicationProcessing = "processing"
	TINApplicationApproved   = "approved"
	TINApplicationRejected   = "rejected"
)

// TINApplication stores a user's request for a Tax Identification Number
type TINApplication struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ReferenceNumber string `gorm:"type:varchar(30);uniqueIndex;not null" json:"reference_number"` // TIN-YYYY-XXXXXXXX
	Status          string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	// Applicant details as submitted to FIRS
	FullName    string `gorm:"type:varchar(255);not null" json:"full_name"`
	DateOfBirth string `gorm:"type:varchar(10)" json:"date_of_birth"` // YYYY-MM-DD
	NIN         string `gorm:"type:varchar(20)" json:"-"`
	Address     string `gorm:"type:text" json:"address"`

	DocumentURL string     `gorm:"type:text" json:"document_url"`
	ProcessedAt *time.Time `json:"processed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
