// Package reference generates human-facing reference codes for referrals,
// tax filings and TIN applications.
package reference

import (
	"math/rand"
	"strconv"
	"strings"
)

const alphanumerics = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReferralCode builds a referral code from a user's name, e.g. "SABI-JOE4K2P".
// The name contributes its first 3 letters, padded with X when shorter.
func ReferralCode(name string) string {
	var letters strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			letters.WriteRune(r)
			if letters.Len() == 3 {
				break
			}
		}
	}

	namePart := letters.String()
	for len(namePart) < 3 {
		namePart += "X"
	}

	return "SABI-" + namePart + randomSuffix(4)
}

// FilingReference returns a tax filing reference like "FIRS-2025-7QK2MD"
func FilingReference(year int) string {
	return "FIRS-" + strconv.Itoa(year) + "-" + randomSuffix(6)
}

// TINReference returns a TIN application reference like "TIN-2025-AB12CD34"
func TINReference(year int) string {
	return "TIN-" + strconv.Itoa(year) + "-" + randomSuffix(8)
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumerics[rand.Intn(len(alphanumerics))]
	}
	return string(b)
}
