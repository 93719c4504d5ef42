package taxcalc

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		want  time.Time
	}{
		{
			name:  "before the deadline",
			today: date(2026, time.January, 15),
			want:  date(2026, time.January, 31),
		},
		{
			name:  "deadline day still counts",
			today: time.Date(2026, time.January, 31, 10, 30, 0, 0, time.UTC),
			want:  date(2026, time.January, 31),
		},
		{
			name:  "just past the deadline",
			today: date(2026, time.February, 1),
			want:  date(2027, time.January, 31),
		},
		{
			name:  "mid year",
			today: date(2026, time.August, 28),
			want:  date(2027, time.January, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDueDate(tt.today); !got.Equal(tt.want) {
				t.Errorf("NextDueDate(%s) = %s, want %s", tt.today, got, tt.want)
			}
		})
	}
}

func TestTaxYear(t *testing.T) {
	tests := []struct {
		today time.Time
		want  int
	}{
		{date(2026, time.January, 15), 2025},
		{time.Date(2026, time.January, 31, 23, 0, 0, 0, time.UTC), 2025},
		{date(2026, time.February, 1), 2026},
		{date(2026, time.December, 31), 2026},
	}

	for _, tt := range tests {
		if got := TaxYear(tt.today); got != tt.want {
			t.Errorf("TaxYear(%s) = %d, want %d", tt.today, got, tt.want)
		}
	}
}
