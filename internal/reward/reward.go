// Package reward holds the referral reward policy: the per-referral amount,
// the rolling monthly cap and the pure decisions built on them. Persistence
// and the locked monthly-earnings read live with the caller.
package reward

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Referral business-rule violations surfaced to callers as typed errors
var (
	ErrAlreadyReferred = errors.New("referral code already used by this account")
	ErrInvalidCode     = errors.New("invalid referral code")
	ErrSelfReferral    = errors.New("cannot use your own referral code")
)

// Policy is the reward configuration threaded into the referral service
type Policy struct {
	Amount       decimal.Decimal // reward per completed referral
	MonthlyLimit decimal.Decimal // cap on rewards paid per referrer per calendar month
}

// DefaultPolicy returns the production values: ₦1,000 per referral,
// ₦50,000 paid out per referrer per month.
func DefaultPolicy() Policy {
	return Policy{
		Amount:       decimal.RequireFromString("1000.00"),
		MonthlyLimit: decimal.RequireFromString("50000.00"),
	}
}

// ShouldPay decides whether a newly completed referral earns its reward,
// given the referrer's already-paid-or-counted earnings for the current
// month. The comparison is strict: at or above the cap, the referral still
// completes but goes unpaid.
func (p Policy) ShouldPay(monthEarnings decimal.Decimal) bool {
	return monthEarnings.LessThan(p.MonthlyLimit)
}

// NormalizeCode canonicalizes a referral code for lookup: codes are stored
// and compared upper-case.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
