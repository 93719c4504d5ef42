package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction enum constants
const (
	ActionFileTax           = "FILE_TAX"
	ActionUpgradePlan       = "UPGRADE_PLAN"
	ActionCancelPlan        = "CANCEL_PLAN"
	ActionApplyReferral     = "APPLY_REFERRAL"
	ActionCompleteReferral  = "COMPLETE_REFERRAL"
	ActionVerifyTIN         = "VERIFY_TIN"
	ActionLinkBankAccount   = "LINK_BANK_ACCOUNT"
	ActionUnlinkBankAccount = "UNLINK_BANK_ACCOUNT"
)

// AuditLog records sensitive account actions for traceability
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50)" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name"`
	Details    string     `gorm:"type:text" json:"details"`
	CreatedAt  time.Time  `json:"created_at"`
}
