package taxcalc

import (
	"github.com/shopspring/decimal"
)

// Config carries the statutory parameters for tax computation. Threading an
// explicit Config through the Calculator keeps the schedule substitutable in
// tests instead of living in package-level state.
type Config struct {
	Brackets   BracketTable
	CRAFixed   decimal.Decimal // flat Consolidated Relief Allowance floor
	CRAPercent decimal.Decimal // relief as a fraction of gross income
	VATRate    decimal.Decimal
}

// DefaultConfig returns the current FIRS parameters:
// CRA = max(₦200,000, 1% of gross) + 20% of gross, VAT 7.5%.
func DefaultConfig() Config {
	return Config{
		Brackets:   NigerianBrackets(),
		CRAFixed:   d("200000"),
		CRAPercent: d("0.20"),
		VATRate:    d("0.075"),
	}
}

// Result holds a full Personal Income Tax computation.
// TaxAmount and EffectiveRate are quantized to 2 decimal places with
// round-half-even, matching every other monetary rounding point.
type Result struct {
	GrossIncome   decimal.Decimal `json:"gross_income"`
	CRA           decimal.Decimal `json:"cra"`
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	EffectiveRate decimal.Decimal `json:"effective_rate"` // percentage of gross
}

// Calculator computes PIT, VAT and PAYE figures. All methods are pure.
type Calculator struct {
	cfg Config
}

// NewCalculator returns a Calculator using the given parameters
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// ComputePIT calculates annual Personal Income Tax on a gross annual income.
// Non-positive income yields an all-zero result rather than an error:
// aggregated income figures are caller-validated non-negative sums.
func (c *Calculator) ComputePIT(annualIncome decimal.Decimal) Result {
	gross := annualIncome

	if gross.LessThanOrEqual(decimal.Zero) {
		return Result{
			GrossIncome:   gross,
			CRA:           decimal.Zero,
			TaxableIncome: decimal.Zero,
			TaxAmount:     decimal.Zero,
			EffectiveRate: decimal.Zero,
		}
	}

	cra := c.cra(gross)

	taxable := gross.Sub(cra)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	// Progressive walk over the bracket table
	tax := decimal.Zero
	remaining := taxable
	prevLimit := decimal.Zero

	for _, b := range c.cfg.Brackets.brackets {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}

		bracketSize := b.UpperLimit.Sub(prevLimit)
		inBracket := decimal.Min(remaining, bracketSize)
		tax = tax.Add(inBracket.Mul(b.Rate))

		remaining = remaining.Sub(inBracket)
		prevLimit = b.UpperLimit
	}

	effectiveRate := tax.Div(gross).Mul(d("100"))

	return Result{
		GrossIncome:   gross,
		CRA:           cra,
		TaxableIncome: taxable,
		TaxAmount:     tax.RoundBank(2),
		EffectiveRate: effectiveRate.RoundBank(2),
	}
}

// ComputeCRA calculates the Consolidated Relief Allowance, rounded to 2dp
func (c *Calculator) ComputeCRA(grossIncome decimal.Decimal) decimal.Decimal {
	return c.cra(grossIncome).RoundBank(2)
}

// cra is the unrounded relief used inside ComputePIT so the taxable income
// matches the reference computation exactly
func (c *Calculator) cra(gross decimal.Decimal) decimal.Decimal {
	craMinimum := decimal.Max(c.cfg.CRAFixed, gross.Mul(d("0.01")))
	return craMinimum.Add(gross.Mul(c.cfg.CRAPercent))
}

// ComputeVAT calculates Value Added Tax on an amount, rounded to 2dp
func (c *Calculator) ComputeVAT(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(c.cfg.VATRate).RoundBank(2)
}

// ComputeMonthlyPAYE calculates the monthly Pay-As-You-Earn withholding for
// a gross monthly salary: annualize, compute PIT, divide back by 12.
func (c *Calculator) ComputeMonthlyPAYE(monthlySalary decimal.Decimal) decimal.Decimal {
	annual := monthlySalary.Mul(d("12"))
	result := c.ComputePIT(annual)
	return result.TaxAmount.Div(d("12")).RoundBank(2)
}
