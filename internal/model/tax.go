package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxType enum constants
const (
	TaxTypePIT = "PIT"
	TaxTypeVAT = "VAT"
)

// FilingStatus enum constants
const (
	FilingStatusSubmitted  = "submitted"
	FilingStatusProcessing = "processing"
	FilingStatusCompleted  = "completed"
	FilingStatusRejected   = "rejected"
)

// TaxFiling stores a submitted tax return for a given year and tax type.
// At most one active filing per (user, tax_year, tax_type) is allowed.
type TaxFiling struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	TaxType string `gorm:"type:varchar(10);not null;index" json:"tax_type"` // PIT, VAT
	TaxYear int    `gorm:"not null;index" json:"tax_year"`

	Amount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Status string          `gorm:"type:varchar(20);not null;default:'submitted'" json:"status"`

	ReferenceNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"reference_number"` // FIRS-YYYY-XXXXXX
	DeclarationData string    `gorm:"type:text" json:"declaration_data"`
	FiledAt         time.Time `gorm:"not null" json:"filed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
