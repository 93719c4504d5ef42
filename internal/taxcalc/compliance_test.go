package taxcalc

import "testing"

func TestComplianceScore(t *testing.T) {
	tests := []struct {
		name string
		in   ComplianceInputs
		want int
	}{
		{
			name: "nothing at all",
			in:   ComplianceInputs{},
			want: 0,
		},
		{
			name: "fully compliant",
			in: ComplianceInputs{
				DocumentedIncome: d("1000000"),
				EstimatedIncome:  d("1000000"),
				HasTIN:           true,
				FilingsOnTime:    4,
				TotalFilings:     4,
			},
			want: 100,
		},
		{
			name: "half documented income",
			in: ComplianceInputs{
				DocumentedIncome: d("500000"),
				EstimatedIncome:  d("1000000"),
			},
			want: 25,
		},
		{
			name: "documentation ratio clamps at one",
			in: ComplianceInputs{
				DocumentedIncome: d("2000000"),
				EstimatedIncome:  d("1000000"),
			},
			want: 50,
		},
		{
			name: "component ratios truncate, never round up",
			in: ComplianceInputs{
				DocumentedIncome: d("999"),
				EstimatedIncome:  d("1000"),
			},
			want: 49, // 49.95 points of documentation credit
		},
		{
			name: "TIN with no filings gets neutral filing credit",
			in: ComplianceInputs{
				HasTIN: true,
			},
			want: 35, // 20 + 15
		},
		{
			name: "no TIN and no filings earns no filing credit",
			in: ComplianceInputs{
				DocumentedIncome: d("1000000"),
				EstimatedIncome:  d("1000000"),
			},
			want: 50,
		},
		{
			name: "half the filings on time",
			in: ComplianceInputs{
				HasTIN:        true,
				FilingsOnTime: 1,
				TotalFilings:  2,
			},
			want: 35, // 20 + 15
		},
		{
			name: "late filings earn nothing",
			in: ComplianceInputs{
				HasTIN:        true,
				FilingsOnTime: 0,
				TotalFilings:  3,
			},
			want: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComplianceScore(tt.in); got != tt.want {
				t.Errorf("ComplianceScore() = %d, want %d", got, tt.want)
			}
		})
	}
}
