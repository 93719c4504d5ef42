// Package format provides display-only helpers: currency formatting and PII
// masking. These are deterministic string transforms and never feed back
// into any computed value.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Naira formats an amount as Nigerian Naira with thousands separators,
// e.g. "₦1,234,567". With showSign, positive amounts get a leading "+".
func Naira(amount decimal.Decimal, showSign bool) string {
	sign := ""
	if showSign && amount.GreaterThan(decimal.Zero) {
		sign = "+"
	} else if amount.LessThan(decimal.Zero) {
		sign = "-"
		amount = amount.Abs()
	}
	return sign + "₦" + groupThousands(amount.RoundBank(0).String())
}

// groupThousands inserts commas into a non-negative integer string
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// MaskTIN hides the middle of a TIN, keeping the first 3 and last 2 digits:
// "2214567890" becomes "221***90". Values too short to mask pass through.
func MaskTIN(tin string) string {
	if len(tin) < 6 {
		return tin
	}
	return tin[:3] + "***" + tin[len(tin)-2:]
}

// MaskAccountNumber keeps only the last 4 digits of a bank account number:
// "0123456789" becomes "***6789". Values too short to mask pass through.
func MaskAccountNumber(accountNumber string) string {
	if len(accountNumber) < 4 {
		return accountNumber
	}
	return "***" + accountNumber[len(accountNumber)-4:]
}

// MaskEmail hides the local part of an email for privacy:
// "johndoe@example.com" becomes "j*****e@example.com".
func MaskEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" {
		return email
	}

	var masked string
	if len(local) <= 2 {
		masked = local[:1] + "*"
	} else {
		masked = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	}
	return masked + "@" + domain
}
