package streak

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvance(t *testing.T) {
	monday := day(2026, time.August, 24)

	tests := []struct {
		name        string
		state       State
		today       time.Time
		wantDays    int
		wantChanged bool
	}{
		{
			name:        "first ever activity",
			state:       State{},
			today:       monday,
			wantDays:    1,
			wantChanged: true,
		},
		{
			name:        "same day is a no-op",
			state:       State{Days: 5, LastActive: &monday},
			today:       monday.Add(14 * time.Hour),
			wantDays:    5,
			wantChanged: false,
		},
		{
			name:        "next day extends",
			state:       State{Days: 5, LastActive: &monday},
			today:       day(2026, time.August, 25),
			wantDays:    6,
			wantChanged: true,
		},
		{
			name:        "two-day gap resets",
			state:       State{Days: 30, LastActive: &monday},
			today:       day(2026, time.August, 26),
			wantDays:    1,
			wantChanged: true,
		},
		{
			name:        "long gap resets",
			state:       State{Days: 365, LastActive: &monday},
			today:       day(2026, time.December, 1),
			wantDays:    1,
			wantChanged: true,
		},
		{
			name:        "backdated activity never rewinds",
			state:       State{Days: 5, LastActive: &monday},
			today:       day(2026, time.August, 20),
			wantDays:    5,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Advance(tt.state, tt.today)
			if got.Days != tt.wantDays {
				t.Errorf("Days = %d, want %d", got.Days, tt.wantDays)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

// Repeated same-day activity must converge after the first application
func TestAdvanceIdempotentWithinDay(t *testing.T) {
	now := time.Date(2026, time.August, 24, 9, 0, 0, 0, time.UTC)

	state, changed := Advance(State{}, now)
	if !changed || state.Days != 1 {
		t.Fatalf("first Advance = (%+v, %v), want Days 1 and changed", state, changed)
	}

	for i := 0; i < 3; i++ {
		next, changed := Advance(state, now.Add(time.Duration(i)*time.Hour))
		if changed {
			t.Fatalf("repeat %d reported a change", i)
		}
		if next.Days != 1 {
			t.Fatalf("repeat %d: Days = %d, want 1", i, next.Days)
		}
		state = next
	}
}

// A chain built day by day counts every day exactly once
func TestAdvanceChain(t *testing.T) {
	state := State{}
	start := day(2026, time.March, 1)

	for i := 0; i < 10; i++ {
		state, _ = Advance(state, start.AddDate(0, 0, i))
	}

	if state.Days != 10 {
		t.Errorf("Days after 10 consecutive days = %d, want 10", state.Days)
	}
}

func TestAdvanceNormalizesToDate(t *testing.T) {
	lateNight := time.Date(2026, time.August, 24, 23, 59, 0, 0, time.UTC)
	earlyNext := time.Date(2026, time.August, 25, 0, 1, 0, 0, time.UTC)

	state, _ := Advance(State{}, lateNight)
	state, changed := Advance(state, earlyNext)

	if !changed || state.Days != 2 {
		t.Errorf("minutes across midnight: (%+v, %v), want Days 2 and changed", state, changed)
	}
}
