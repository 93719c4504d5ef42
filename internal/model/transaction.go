package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType enum constants
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Transaction represents a single income or expense entry recorded by a user
type Transaction struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Title    string          `gorm:"type:varchar(255);not null" json:"title"`
	Type     string          `gorm:"type:varchar(10);not null;index" json:"type"` // income, expense
	Amount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Category string          `gorm:"type:varchar(50);index" json:"category"`

	Description     string    `gorm:"type:text" json:"description"`
	TransactionDate time.Time `gorm:"not null;index" json:"transaction_date"`

	// Documentation — transactions backed by a receipt count toward the
	// compliance documentation ratio
	HasReceipt bool   `gorm:"default:false" json:"has_receipt"`
	ReceiptURL string `gorm:"type:text" json:"receipt_url"`

	// Source: manual entry or synced from a linked bank account
	Source        string     `gorm:"type:varchar(20);not null;default:'manual'" json:"source"`
	BankAccountID *uuid.UUID `gorm:"type:uuid;index" json:"bank_account_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
