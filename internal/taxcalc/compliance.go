package taxcalc

import (
	"github.com/shopspring/decimal"
)

// ComplianceInputs aggregates the already-fetched figures a compliance
// score is derived from. All values are non-negative by construction.
type ComplianceInputs struct {
	DocumentedIncome decimal.Decimal
	EstimatedIncome  decimal.Decimal
	HasTIN           bool
	FilingsOnTime    int
	TotalFilings     int
}

// ComplianceScore rates tax compliance on a 0-100 scale:
// income documentation 50%, TIN registration 20%, filing punctuality 30%.
// Component ratios are truncated to whole points before summing.
func ComplianceScore(in ComplianceInputs) int {
	score := 0

	if in.EstimatedIncome.GreaterThan(decimal.Zero) {
		docRatio := in.DocumentedIncome.Div(in.EstimatedIncome)
		if docRatio.GreaterThan(decimal.NewFromInt(1)) {
			docRatio = decimal.NewFromInt(1)
		}
		score += int(docRatio.Mul(d("50")).IntPart())
	}

	if in.HasTIN {
		score += 20
	}

	if in.TotalFilings > 0 {
		filingRatio := decimal.NewFromInt(int64(in.FilingsOnTime)).
			Div(decimal.NewFromInt(int64(in.TotalFilings)))
		score += int(filingRatio.Mul(d("30")).IntPart())
	} else if in.HasTIN {
		// Neutral credit when registered but nothing filed yet
		score += 15
	}

	if score > 100 {
		score = 100
	}
	return score
}
