package taxcalc

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputePIT(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	tests := []struct {
		name          string
		gross         string
		wantCRA       string
		wantTaxable   string
		wantTax       string
		wantEffective string
	}{
		{
			name:  "first bracket only",
			gross: "300000",
			// CRA = max(200000, 3000) + 60000
			wantCRA:       "260000",
			wantTaxable:   "40000",
			wantTax:       "2800",
			wantEffective: "0.93",
		},
		{
			name:          "spans first bracket fully",
			gross:         "600000",
			wantCRA:       "320000",
			wantTaxable:   "280000",
			wantTax:       "19600",
			wantEffective: "3.27",
		},
		{
			name:          "mid schedule",
			gross:         "1000000",
			wantCRA:       "400000",
			wantTaxable:   "600000",
			wantTax:       "54000",
			wantEffective: "5.4",
		},
		{
			name:  "fourth bracket",
			gross: "2000000",
			// 1% of gross (20000) still below the 200000 floor
			wantCRA:       "600000",
			wantTaxable:   "1400000",
			wantTax:       "186000",
			wantEffective: "9.3",
		},
		{
			name:          "top bracket",
			gross:         "10000000",
			wantCRA:       "2200000",
			wantTaxable:   "7800000",
			wantTax:       "1664000",
			wantEffective: "16.64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.ComputePIT(d(tt.gross))

			if !got.CRA.Equal(d(tt.wantCRA)) {
				t.Errorf("CRA = %s, want %s", got.CRA, tt.wantCRA)
			}
			if !got.TaxableIncome.Equal(d(tt.wantTaxable)) {
				t.Errorf("TaxableIncome = %s, want %s", got.TaxableIncome, tt.wantTaxable)
			}
			if !got.TaxAmount.Equal(d(tt.wantTax)) {
				t.Errorf("TaxAmount = %s, want %s", got.TaxAmount, tt.wantTax)
			}
			if !got.EffectiveRate.Equal(d(tt.wantEffective)) {
				t.Errorf("EffectiveRate = %s, want %s", got.EffectiveRate, tt.wantEffective)
			}
		})
	}
}

func TestComputePITNonPositiveIncome(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	for _, gross := range []string{"0", "-1", "-500000"} {
		got := calc.ComputePIT(d(gross))
		if !got.TaxAmount.IsZero() || !got.CRA.IsZero() || !got.TaxableIncome.IsZero() || !got.EffectiveRate.IsZero() {
			t.Errorf("ComputePIT(%s) = %+v, want all-zero result", gross, got)
		}
	}
}

// Relief can exceed gross at very low incomes; taxable clamps at zero
func TestComputePITReliefExceedsGross(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	got := calc.ComputePIT(d("100000"))
	if !got.TaxableIncome.IsZero() {
		t.Errorf("TaxableIncome = %s, want 0", got.TaxableIncome)
	}
	if !got.TaxAmount.IsZero() {
		t.Errorf("TaxAmount = %s, want 0", got.TaxAmount)
	}
}

func TestComputePITMonotonic(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	ladder := []string{
		"100000", "250000", "300000", "500000", "600000", "900000",
		"1100000", "1600000", "2500000", "3200000", "5000000", "20000000",
	}

	prev := decimal.Zero
	for _, gross := range ladder {
		got := calc.ComputePIT(d(gross))
		if got.TaxAmount.LessThan(prev) {
			t.Fatalf("tax decreased at gross %s: %s < %s", gross, got.TaxAmount, prev)
		}
		prev = got.TaxAmount
	}
}

// The effective rate can never reach the top marginal rate
func TestEffectiveRateBelowTopMarginal(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	top := d("24")

	for _, gross := range []string{"500000", "5000000", "100000000", "5000000000"} {
		got := calc.ComputePIT(d(gross))
		if got.EffectiveRate.GreaterThanOrEqual(top) {
			t.Errorf("EffectiveRate(%s) = %s, want < %s", gross, got.EffectiveRate, top)
		}
	}
}

// TaxOn and the bracket walk inside ComputePIT are two routes to the same
// number; they must agree at and around every bracket boundary
func TestTaxOnMatchesBracketWalk(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	table := NigerianBrackets()

	grosses := []string{
		"150000", "300000", "400000", "750000", "1000000", "1375000",
		"2000000", "4000000", "4250000", "10000000", "999999999",
	}

	for _, gross := range grosses {
		result := calc.ComputePIT(d(gross))
		fromOffsets := table.TaxOn(result.TaxableIncome).RoundBank(2)
		if !fromOffsets.Equal(result.TaxAmount) {
			t.Errorf("gross %s: TaxOn = %s, bracket walk = %s", gross, fromOffsets, result.TaxAmount)
		}
	}
}

func TestComputeCRA(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	tests := []struct {
		gross string
		want  string
	}{
		{"2000000", "600000"},    // floor wins: 200000 + 400000
		{"30000000", "6300000"},  // 1% wins: 300000 + 6000000
		{"20000000", "4200000"},  // 1% equals the floor exactly
		{"0", "200000"},          // floor plus nothing
	}

	for _, tt := range tests {
		got := calc.ComputeCRA(d(tt.gross))
		if !got.Equal(d(tt.want)) {
			t.Errorf("ComputeCRA(%s) = %s, want %s", tt.gross, got, tt.want)
		}
	}
}

func TestComputeVAT(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	tests := []struct {
		amount string
		want   string
	}{
		{"100000", "7500"},
		{"200", "15"},
		{"1", "0.08"}, // 0.075 rounds half-even to 0.08
		{"0", "0"},
	}

	for _, tt := range tests {
		got := calc.ComputeVAT(d(tt.amount))
		if !got.Equal(d(tt.want)) {
			t.Errorf("ComputeVAT(%s) = %s, want %s", tt.amount, got, tt.want)
		}
	}
}

func TestComputeMonthlyPAYE(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	tests := []struct {
		monthly string
		want    string
	}{
		{"25000", "233.33"},  // annual 300000 taxes 2800
		{"50000", "1633.33"}, // annual 600000 taxes 19600
		{"0", "0"},
	}

	for _, tt := range tests {
		got := calc.ComputeMonthlyPAYE(d(tt.monthly))
		if !got.Equal(d(tt.want)) {
			t.Errorf("ComputeMonthlyPAYE(%s) = %s, want %s", tt.monthly, got, tt.want)
		}
	}
}
