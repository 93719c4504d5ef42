package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionStatus enum constants
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

// BillingPeriod enum constants (empty string = unbounded)
const (
	BillingPeriodMonthly = "monthly"
	BillingPeriodYearly  = "yearly"
)

// PlanID enum constants
const (
	PlanFree = "free"
	PlanPlus = "plus"
)

// Plan describes a subscription tier offered to users
type Plan struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	BillingPeriod string          `json:"billing_period"` // monthly, yearly or "" for unbounded
	Features      []string        `json:"features"`
}

// PlanCatalog lists the available plans in display order
var PlanCatalog = []Plan{
	{
		ID:       PlanFree,
		Name:     "Free",
		Price:    decimal.Zero,
		Currency: "NGN",
		Features: []string{
			"Track Expenses",
			"Basic Reports",
			"Manual Transaction Entry",
			"Tax Estimates",
		},
	},
	{
		ID:            PlanPlus,
		Name:          "SabiTax Plus",
		Price:         decimal.NewFromInt(5000),
		Currency:      "NGN",
		BillingPeriod: BillingPeriodYearly,
		Features: []string{
			"Auto-Filing (PIT & VAT)",
			"Audit Defense",
			"Priority Support",
			"Bank Linking",
			"Receipt Scanning",
			"Unlimited Transactions",
			"Tax Optimization Tips",
		},
	},
}

// PlanByID looks a plan up in the catalog
func PlanByID(id string) (Plan, bool) {
	for _, p := range PlanCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// PlanExpiry computes when a subscription started at the given time runs out.
// Unbounded plans (no billing period) never expire and return nil.
func PlanExpiry(plan Plan, startedAt time.Time) *time.Time {
	var expires time.Time
	switch plan.BillingPeriod {
	case BillingPeriodYearly:
		expires = startedAt.Add(365 * 24 * time.Hour)
	case BillingPeriodMonthly:
		expires = startedAt.Add(30 * 24 * time.Hour)
	default:
		return nil
	}
	return &expires
}

// Subscription stores one billing period of a user's paid plan
type Subscription struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	PlanID string `gorm:"type:varchar(20);not null" json:"plan_id"`
	Status string `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	PaymentReference string          `gorm:"type:varchar(100)" json:"payment_reference"`
	AmountPaid       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount_paid"`

	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the subscription is live at the given time
func (s *Subscription) IsActive(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return s.ExpiresAt == nil || !now.After(*s.ExpiresAt)
}
