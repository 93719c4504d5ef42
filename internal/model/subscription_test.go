package model

import (
	"testing"
	"time"
)

func TestPlanExpiry(t *testing.T) {
	start := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

	yearly, _ := PlanByID(PlanPlus)
	expires := PlanExpiry(yearly, start)
	if expires == nil {
		t.Fatal("yearly plan returned nil expiry")
	}
	if want := start.Add(365 * 24 * time.Hour); !expires.Equal(want) {
		t.Errorf("yearly expiry = %s, want %s", expires, want)
	}

	free, _ := PlanByID(PlanFree)
	if got := PlanExpiry(free, start); got != nil {
		t.Errorf("free plan expiry = %s, want nil", got)
	}

	monthly := Plan{ID: "plus-monthly", BillingPeriod: BillingPeriodMonthly}
	expires = PlanExpiry(monthly, start)
	if expires == nil {
		t.Fatal("monthly plan returned nil expiry")
	}
	if want := start.Add(30 * 24 * time.Hour); !expires.Equal(want) {
		t.Errorf("monthly expiry = %s, want %s", expires, want)
	}
}

func TestPlanByID(t *testing.T) {
	if _, ok := PlanByID(PlanPlus); !ok {
		t.Error("PlanByID(plus) not found")
	}
	if _, ok := PlanByID("enterprise"); ok {
		t.Error("PlanByID(enterprise) unexpectedly found")
	}
}

func TestSubscriptionIsActive(t *testing.T) {
	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{
			name: "active with future expiry",
			sub:  Subscription{Status: SubscriptionStatusActive, ExpiresAt: &future},
			want: true,
		},
		{
			name: "active without expiry",
			sub:  Subscription{Status: SubscriptionStatusActive},
			want: true,
		},
		{
			name: "expiry moment itself still counts",
			sub:  Subscription{Status: SubscriptionStatusActive, ExpiresAt: &now},
			want: true,
		},
		{
			name: "lapsed",
			sub:  Subscription{Status: SubscriptionStatusActive, ExpiresAt: &past},
			want: false,
		},
		{
			name: "cancelled",
			sub:  Subscription{Status: SubscriptionStatusCancelled, ExpiresAt: &future},
			want: false,
		},
		{
			name: "expired status",
			sub:  Subscription{Status: SubscriptionStatusExpired},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.IsActive(now); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}
