package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sabitax/internal/model"
	"sabitax/internal/repository"
	"sabitax/internal/reward"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- In-memory fakes ---

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		copied := *u
		repo.users[u.ID] = &copied
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByReferralCode(ctx context.Context, code string) (*model.User, error) {
	for _, u := range f.users {
		if u.ReferralCode == code {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SetReferralCode(ctx context.Context, id uuid.UUID, code string) error {
	f.users[id].ReferralCode = code
	return nil
}

func (f *fakeUserRepo) SetReferredBy(ctx context.Context, id uuid.UUID, referrerID uuid.UUID) error {
	f.users[id].ReferredBy = &referrerID
	return nil
}

func (f *fakeUserRepo) UpdateStreak(ctx context.Context, id uuid.UUID, streakDays int, lastActive time.Time) error {
	f.users[id].StreakDays = streakDays
	f.users[id].LastActiveDate = &lastActive
	return nil
}

func (f *fakeUserRepo) UpdateSubscriptionPlan(ctx context.Context, id uuid.UUID, planID string) error {
	f.users[id].SubscriptionPlan = planID
	return nil
}

func (f *fakeUserRepo) SetTIN(ctx context.Context, id uuid.UUID, tin string, verified bool) error {
	f.users[id].TIN = tin
	f.users[id].TINVerified = verified
	return nil
}

func (f *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return nil
}

func (f *fakeUserRepo) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) DeleteRefreshToken(ctx context.Context, token string) error { return nil }

func (f *fakeUserRepo) DeleteRefreshTokensByUser(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type fakeReferralRepo struct {
	referrals []*model.Referral
}

func (f *fakeReferralRepo) Create(ctx context.Context, referral *model.Referral) error {
	referral.ID = uuid.New()
	copied := *referral
	f.referrals = append(f.referrals, &copied)
	return nil
}

func (f *fakeReferralRepo) GetByReferred(ctx context.Context, referredID uuid.UUID) (*model.Referral, error) {
	for _, r := range f.referrals {
		if r.ReferredID == referredID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeReferralRepo) ListByReferrer(ctx context.Context, referrerID uuid.UUID, status string, page, limit int) ([]model.Referral, int64, error) {
	var out []model.Referral
	for _, r := range f.referrals {
		if r.ReferrerID == referrerID && (status == "" || r.Status == status) {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReferralRepo) CountByReferrer(ctx context.Context, referrerID uuid.UUID, status string) (int64, error) {
	_, total, _ := f.ListByReferrer(ctx, referrerID, status, 1, 100)
	return total, nil
}

func (f *fakeReferralRepo) TotalEarnings(ctx context.Context, referrerID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, r := range f.referrals {
		if r.ReferrerID == referrerID && r.Status == model.ReferralStatusCompleted && r.RewardPaid {
			total = total.Add(r.RewardAmount)
		}
	}
	return total, nil
}

// MonthlyEarnings sums completed referrals whether or not the reward went
// out, matching the real query
func (f *fakeReferralRepo) MonthlyEarnings(ctx context.Context, referrerID uuid.UUID, year int, month time.Month) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, r := range f.referrals {
		if r.ReferrerID != referrerID || r.Status != model.ReferralStatusCompleted {
			continue
		}
		if r.CompletedAt != nil && r.CompletedAt.Year() == year && r.CompletedAt.Month() == month {
			total = total.Add(r.RewardAmount)
		}
	}
	return total, nil
}

func (f *fakeReferralRepo) MonthlyEarningsForUpdate(ctx context.Context, referrerID uuid.UUID, year int, month time.Month) (decimal.Decimal, error) {
	return f.MonthlyEarnings(ctx, referrerID, year, month)
}

func (f *fakeReferralRepo) Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	for _, r := range f.referrals {
		if r.ID == id {
			r.Status = model.ReferralStatusCompleted
			r.CompletedAt = &completedAt
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeReferralRepo) MarkRewardPaid(ctx context.Context, id uuid.UUID) error {
	for _, r := range f.referrals {
		if r.ID == id {
			r.RewardPaid = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// passthroughTxManager runs the callback directly; the fakes have no
// transaction semantics to enforce
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ repository.ReferralRepository = (*fakeReferralRepo)(nil)

// --- Tests ---

func newTestReferralService(users *fakeUserRepo, referrals *fakeReferralRepo) *referralService {
	return &referralService{
		policy:       reward.DefaultPolicy(),
		userRepo:     users,
		referralRepo: referrals,
		txManager:    passthroughTxManager{},
		now:          func() time.Time { return time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC) },
	}
}

func TestApplyCode(t *testing.T) {
	referrer := &model.User{ID: uuid.New(), Email: "ada@example.com", Name: "Ada", ReferralCode: "SABI-ADA1234"}
	applicant := &model.User{ID: uuid.New(), Email: "joe@example.com", Name: "Joe", ReferralCode: "SABI-JOE5678"}

	t.Run("success links referral and referrer", func(t *testing.T) {
		users := newFakeUserRepo(referrer, applicant)
		referrals := &fakeReferralRepo{}
		svc := newTestReferralService(users, referrals)

		resp, err := svc.ApplyCode(context.Background(), applicant.ID, "sabi-ada1234")
		if err != nil {
			t.Fatalf("ApplyCode() error = %v", err)
		}
		if !resp.Applied || resp.ReferrerName != "Ada" {
			t.Errorf("ApplyCode() = %+v, want applied by Ada", resp)
		}

		stored, _ := referrals.GetByReferred(context.Background(), applicant.ID)
		if stored == nil || stored.Status != model.ReferralStatusPending {
			t.Fatalf("stored referral = %+v, want pending", stored)
		}
		if !stored.RewardAmount.Equal(decimal.RequireFromString("1000")) {
			t.Errorf("RewardAmount = %s, want 1000", stored.RewardAmount)
		}
		if got := users.users[applicant.ID].ReferredBy; got == nil || *got != referrer.ID {
			t.Errorf("ReferredBy = %v, want %s", got, referrer.ID)
		}
	})

	t.Run("second apply is rejected", func(t *testing.T) {
		users := newFakeUserRepo(referrer, applicant)
		referrals := &fakeReferralRepo{}
		svc := newTestReferralService(users, referrals)

		if _, err := svc.ApplyCode(context.Background(), applicant.ID, "SABI-ADA1234"); err != nil {
			t.Fatalf("first ApplyCode() error = %v", err)
		}
		_, err := svc.ApplyCode(context.Background(), applicant.ID, "SABI-ADA1234")
		if !errors.Is(err, reward.ErrAlreadyReferred) {
			t.Errorf("second ApplyCode() error = %v, want ErrAlreadyReferred", err)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		users := newFakeUserRepo(referrer, applicant)
		svc := newTestReferralService(users, &fakeReferralRepo{})

		_, err := svc.ApplyCode(context.Background(), applicant.ID, "SABI-NOBODY1")
		if !errors.Is(err, reward.ErrInvalidCode) {
			t.Errorf("ApplyCode() error = %v, want ErrInvalidCode", err)
		}
	})

	t.Run("own code", func(t *testing.T) {
		users := newFakeUserRepo(referrer, applicant)
		svc := newTestReferralService(users, &fakeReferralRepo{})

		_, err := svc.ApplyCode(context.Background(), applicant.ID, "SABI-JOE5678")
		if !errors.Is(err, reward.ErrSelfReferral) {
			t.Errorf("ApplyCode() error = %v, want ErrSelfReferral", err)
		}
	})
}

func TestComplete(t *testing.T) {
	referrer := &model.User{ID: uuid.New(), Email: "ada@example.com", Name: "Ada", ReferralCode: "SABI-ADA1234"}

	pendingFor := func(referrals *fakeReferralRepo, referredID uuid.UUID) {
		_ = referrals.Create(context.Background(), &model.Referral{
			ReferrerID:   referrer.ID,
			ReferredID:   referredID,
			Status:       model.ReferralStatusPending,
			RewardAmount: decimal.RequireFromString("1000.00"),
		})
	}

	t.Run("no referral returns false", func(t *testing.T) {
		svc := newTestReferralService(newFakeUserRepo(referrer), &fakeReferralRepo{})

		done, err := svc.Complete(context.Background(), uuid.New())
		if err != nil || done {
			t.Errorf("Complete() = (%v, %v), want (false, nil)", done, err)
		}
	})

	t.Run("pending referral completes, pays and notifies", func(t *testing.T) {
		referrals := &fakeReferralRepo{}
		referredID := uuid.New()
		pendingFor(referrals, referredID)
		svc := newTestReferralService(newFakeUserRepo(referrer), referrals)
		notifier := &fakeNotifier{}
		svc.notificationService = notifier

		done, err := svc.Complete(context.Background(), referredID)
		if err != nil || !done {
			t.Fatalf("Complete() = (%v, %v), want (true, nil)", done, err)
		}

		stored, _ := referrals.GetByReferred(context.Background(), referredID)
		if stored.Status != model.ReferralStatusCompleted || !stored.RewardPaid {
			t.Errorf("referral = %+v, want completed and paid", stored)
		}
		if len(notifier.sent) != 1 {
			t.Errorf("notifications = %v, want one reward message", notifier.sent)
		}
	})

	t.Run("completing twice does not pay twice", func(t *testing.T) {
		referrals := &fakeReferralRepo{}
		referredID := uuid.New()
		pendingFor(referrals, referredID)
		svc := newTestReferralService(newFakeUserRepo(referrer), referrals)

		_, _ = svc.Complete(context.Background(), referredID)
		done, err := svc.Complete(context.Background(), referredID)
		if err != nil || !done {
			t.Fatalf("second Complete() = (%v, %v), want (true, nil)", done, err)
		}

		total, _ := referrals.TotalEarnings(context.Background(), referrer.ID)
		if !total.Equal(decimal.RequireFromString("1000")) {
			t.Errorf("TotalEarnings = %s, want 1000", total)
		}
	})

	t.Run("monthly cap stops payment but not completion", func(t *testing.T) {
		referrals := &fakeReferralRepo{}
		svc := newTestReferralService(newFakeUserRepo(referrer), referrals)

		// Each completion counts its own reward toward the month's total,
		// so 49 completions pay out before the ₦50,000 cap engages
		for i := 0; i < 49; i++ {
			referredID := uuid.New()
			pendingFor(referrals, referredID)
			if done, err := svc.Complete(context.Background(), referredID); err != nil || !done {
				t.Fatalf("Complete() %d = (%v, %v)", i, done, err)
			}
			stored, _ := referrals.GetByReferred(context.Background(), referredID)
			if !stored.RewardPaid {
				t.Fatalf("completion %d under the cap went unpaid", i)
			}
		}

		// The 50th completion brings the month total to exactly 50,000
		capID := uuid.New()
		pendingFor(referrals, capID)
		done, err := svc.Complete(context.Background(), capID)
		if err != nil || !done {
			t.Fatalf("50th Complete() = (%v, %v), want (true, nil)", done, err)
		}

		stored, _ := referrals.GetByReferred(context.Background(), capID)
		if stored.Status != model.ReferralStatusCompleted {
			t.Errorf("50th referral status = %s, want completed", stored.Status)
		}
		if stored.RewardPaid {
			t.Error("50th referral was paid at the monthly limit")
		}

		total, _ := referrals.TotalEarnings(context.Background(), referrer.ID)
		if !total.Equal(decimal.RequireFromString("49000")) {
			t.Errorf("TotalEarnings = %s, want 49000", total)
		}

		month, _ := referrals.MonthlyEarnings(context.Background(), referrer.ID, 2026, time.August)
		if !month.Equal(decimal.RequireFromString("50000")) {
			t.Errorf("MonthlyEarnings = %s, want 50000", month)
		}
	})
}

func TestGetInfoAssignsMissingCode(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "joe@example.com", Name: "Joe"}
	users := newFakeUserRepo(user)
	svc := newTestReferralService(users, &fakeReferralRepo{})

	info, err := svc.GetInfo(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetInfo() error = %v", err)
	}
	if info.ReferralCode == "" {
		t.Error("GetInfo() left the referral code empty")
	}
	if users.users[user.ID].ReferralCode != info.ReferralCode {
		t.Error("assigned code was not persisted")
	}
	if info.MonthlyLimit != "50000.00" {
		t.Errorf("MonthlyLimit = %s, want 50000.00", info.MonthlyLimit)
	}
}
