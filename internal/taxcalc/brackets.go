package taxcalc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is one band of the progressive schedule. CumulativeOffset is the
// total tax owed at the upper limit of the previous bracket, which lets the
// tax for any taxable income be computed without walking the whole table.
type Bracket struct {
	UpperLimit       decimal.Decimal
	Rate             decimal.Decimal
	CumulativeOffset decimal.Decimal
}

// BracketTable is an ordered, contiguous progressive tax schedule.
// Construct via NewBracketTable so the ordering invariants hold.
type BracketTable struct {
	brackets []Bracket
}

// NewBracketTable validates that brackets are strictly ascending, rates are
// within [0, 1] and each cumulative offset equals the tax accrued over all
// preceding brackets.
func NewBracketTable(brackets []Bracket) (BracketTable, error) {
	if len(brackets) == 0 {
		return BracketTable{}, fmt.Errorf("bracket table must not be empty")
	}

	prevLimit := decimal.Zero
	wantOffset := decimal.Zero

	for i, b := range brackets {
		if b.UpperLimit.LessThanOrEqual(prevLimit) {
			return BracketTable{}, fmt.Errorf("bracket %d: upper limit %s not above previous limit %s",
				i, b.UpperLimit, prevLimit)
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return BracketTable{}, fmt.Errorf("bracket %d: rate %s outside [0, 1]", i, b.Rate)
		}
		if !b.CumulativeOffset.Equal(wantOffset) {
			return BracketTable{}, fmt.Errorf("bracket %d: cumulative offset %s, want %s",
				i, b.CumulativeOffset, wantOffset)
		}

		wantOffset = wantOffset.Add(b.UpperLimit.Sub(prevLimit).Mul(b.Rate))
		prevLimit = b.UpperLimit
	}

	table := BracketTable{brackets: make([]Bracket, len(brackets))}
	copy(table.brackets, brackets)
	return table, nil
}

// Brackets returns a copy of the schedule in ascending order
func (t BracketTable) Brackets() []Bracket {
	out := make([]Bracket, len(t.brackets))
	copy(out, t.brackets)
	return out
}

// TaxOn computes the progressive tax for a taxable income using the
// cumulative offsets: find the bracket containing the amount and add the
// marginal portion. Equivalent to walking the table bracket by bracket.
func (t BracketTable) TaxOn(taxable decimal.Decimal) decimal.Decimal {
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	// Income past the sentinel upper limit is clamped, matching the
	// bracket walk which has no band beyond the sentinel.
	if top := t.brackets[len(t.brackets)-1].UpperLimit; taxable.GreaterThan(top) {
		taxable = top
	}

	prevLimit := decimal.Zero
	for _, b := range t.brackets {
		if taxable.LessThanOrEqual(b.UpperLimit) {
			return b.CumulativeOffset.Add(taxable.Sub(prevLimit).Mul(b.Rate))
		}
		prevLimit = b.UpperLimit
	}
	return decimal.Zero // unreachable: taxable is clamped to the last limit
}

// NigerianBrackets returns the FIRS Personal Income Tax schedule.
// The last bracket's upper limit is a sentinel standing in for infinity.
func NigerianBrackets() BracketTable {
	table, err := NewBracketTable([]Bracket{
		{UpperLimit: d("300000"), Rate: d("0.07"), CumulativeOffset: d("0")},
		{UpperLimit: d("600000"), Rate: d("0.11"), CumulativeOffset: d("21000")},
		{UpperLimit: d("1100000"), Rate: d("0.15"), CumulativeOffset: d("54000")},
		{UpperLimit: d("1600000"), Rate: d("0.19"), CumulativeOffset: d("129000")},
		{UpperLimit: d("3200000"), Rate: d("0.21"), CumulativeOffset: d("224000")},
		{UpperLimit: d("999999999999"), Rate: d("0.24"), CumulativeOffset: d("560000")},
	})
	if err != nil {
		panic("taxcalc: invalid built-in Nigerian bracket table: " + err.Error())
	}
	return table
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
