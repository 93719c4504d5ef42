package taxcalc

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewBracketTableValidation(t *testing.T) {
	valid := []Bracket{
		{UpperLimit: d("100"), Rate: d("0.10"), CumulativeOffset: d("0")},
		{UpperLimit: d("200"), Rate: d("0.20"), CumulativeOffset: d("10")},
	}

	tests := []struct {
		name     string
		brackets []Bracket
		wantErr  bool
	}{
		{
			name:     "valid two-band table",
			brackets: valid,
		},
		{
			name:    "empty table",
			wantErr: true,
		},
		{
			name: "limits not ascending",
			brackets: []Bracket{
				{UpperLimit: d("200"), Rate: d("0.10"), CumulativeOffset: d("0")},
				{UpperLimit: d("100"), Rate: d("0.20"), CumulativeOffset: d("20")},
			},
			wantErr: true,
		},
		{
			name: "rate above one",
			brackets: []Bracket{
				{UpperLimit: d("100"), Rate: d("1.5"), CumulativeOffset: d("0")},
			},
			wantErr: true,
		},
		{
			name: "negative rate",
			brackets: []Bracket{
				{UpperLimit: d("100"), Rate: d("-0.1"), CumulativeOffset: d("0")},
			},
			wantErr: true,
		},
		{
			name: "offset does not accumulate",
			brackets: []Bracket{
				{UpperLimit: d("100"), Rate: d("0.10"), CumulativeOffset: d("0")},
				{UpperLimit: d("200"), Rate: d("0.20"), CumulativeOffset: d("99")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBracketTable(tt.brackets)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewBracketTable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// The built-in FIRS schedule must satisfy its own invariants
func TestNigerianBracketsValid(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("NigerianBrackets panicked: %v", r)
		}
	}()

	table := NigerianBrackets()
	if got := len(table.Brackets()); got != 6 {
		t.Errorf("len(Brackets()) = %d, want 6", got)
	}
}

func TestTaxOn(t *testing.T) {
	table := NigerianBrackets()

	tests := []struct {
		taxable string
		want    string
	}{
		{"0", "0"},
		{"-50", "0"},
		{"300000", "21000"},      // exactly the first limit
		{"600000", "54000"},      // exactly the second limit
		{"1000000", "114000"},    // 54000 + 400000 * 0.15
		{"3200000", "560000"},    // exactly the fifth limit
		{"4000000", "752000"},    // 560000 + 800000 * 0.24
	}

	for _, tt := range tests {
		got := table.TaxOn(d(tt.taxable))
		if !got.Equal(d(tt.want)) {
			t.Errorf("TaxOn(%s) = %s, want %s", tt.taxable, got, tt.want)
		}
	}
}

func TestTaxOnClampsAtSentinel(t *testing.T) {
	table := NigerianBrackets()
	sentinel := d("999999999999")

	atSentinel := table.TaxOn(sentinel)
	beyond := table.TaxOn(sentinel.Mul(decimal.NewFromInt(2)))

	if !beyond.Equal(atSentinel) {
		t.Errorf("TaxOn beyond sentinel = %s, want %s", beyond, atSentinel)
	}
}

func TestBracketsReturnsCopy(t *testing.T) {
	table := NigerianBrackets()

	out := table.Brackets()
	out[0].Rate = d("0.99")

	if !table.Brackets()[0].Rate.Equal(d("0.07")) {
		t.Error("mutating the returned slice changed the table")
	}
}
