package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sabitax/internal/model"
	"sabitax/internal/repository"
	"sabitax/internal/reward"
	"sabitax/pkg/apperr"
	"sabitax/pkg/format"
	"sabitax/pkg/reference"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type ReferralInfoResponse struct {
	ReferralCode  string `json:"referral_code"`
	TotalEarnings string `json:"total_earnings"`
	MonthEarnings string `json:"month_earnings"`
	MonthlyLimit  string `json:"monthly_limit"`
	ReferralCount int64  `json:"referral_count"`
	PendingCount  int64  `json:"pending_count"`
}

type ReferralHistoryItem struct {
	ID           string  `json:"id"`
	ReferredUser string  `json:"referred_user"` // masked email
	Status       string  `json:"status"`
	Reward       string  `json:"reward"`
	CreatedAt    string  `json:"created_at"`
	CompletedAt  *string `json:"completed_at"`
}

type ReferralHistoryResponse struct {
	Referrals []ReferralHistoryItem `json:"referrals"`
	Total     int64                 `json:"total"`
}

type ApplyReferralRequest struct {
	ReferralCode string `json:"referral_code" binding:"required"`
}

type ApplyReferralResponse struct {
	Message      string `json:"message"`
	ReferrerName string `json:"referrer_name"`
	Applied      bool   `json:"applied"`
}

// --- Interface ---

type ReferralService interface {
	GetInfo(ctx context.Context, userID uuid.UUID) (*ReferralInfoResponse, error)
	GetHistory(ctx context.Context, userID uuid.UUID, page, limit int) (*ReferralHistoryResponse, error)
	ApplyCode(ctx context.Context, userID uuid.UUID, code string) (*ApplyReferralResponse, error)
	Complete(ctx context.Context, referredID uuid.UUID) (bool, error)
}

type referralService struct {
	policy              reward.Policy
	userRepo            repository.UserRepository
	referralRepo        repository.ReferralRepository
	txManager           repository.TransactionManager
	notificationService NotificationService
	now                 func() time.Time
}

// NewReferralService wires the reward policy to the user and referral stores
func NewReferralService(db *gorm.DB, policy reward.Policy, notificationService NotificationService) ReferralService {
	return &referralService{
		policy:              policy,
		userRepo:            repository.NewUserRepository(db),
		referralRepo:        repository.NewReferralRepository(db),
		txManager:           repository.NewTransactionManager(db),
		notificationService: notificationService,
		now:                 time.Now,
	}
}

// --- Implementation ---

func (s *referralService) GetInfo(ctx context.Context, userID uuid.UUID) (*ReferralInfoResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	// Lazily assign a referral code to accounts created before codes existed
	if user.ReferralCode == "" {
		name := user.Name
		if name == "" {
			name = "User"
		}
		code := reference.ReferralCode(name)
		if err := s.userRepo.SetReferralCode(ctx, userID, code); err != nil {
			return nil, fmt.Errorf("failed to assign referral code: %w", err)
		}
		user.ReferralCode = code
	}

	totalEarnings, err := s.referralRepo.TotalEarnings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch referral earnings: %w", err)
	}

	now := s.now()
	monthEarnings, err := s.referralRepo.MonthlyEarnings(ctx, userID, now.Year(), now.Month())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch monthly earnings: %w", err)
	}

	completedCount, err := s.referralRepo.CountByReferrer(ctx, userID, model.ReferralStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed referrals: %w", err)
	}

	pendingCount, err := s.referralRepo.CountByReferrer(ctx, userID, model.ReferralStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending referrals: %w", err)
	}

	return &ReferralInfoResponse{
		ReferralCode:  user.ReferralCode,
		TotalEarnings: totalEarnings.StringFixed(2),
		MonthEarnings: monthEarnings.StringFixed(2),
		MonthlyLimit:  s.policy.MonthlyLimit.StringFixed(2),
		ReferralCount: completedCount,
		PendingCount:  pendingCount,
	}, nil
}

func (s *referralService) GetHistory(ctx context.Context, userID uuid.UUID, page, limit int) (*ReferralHistoryResponse, error) {
	referrals, total, err := s.referralRepo.ListByReferrer(ctx, userID, "", page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch referrals: %w", err)
	}

	items := make([]ReferralHistoryItem, 0, len(referrals))
	for _, ref := range referrals {
		maskedEmail := "Unknown"
		if referred, err := s.userRepo.GetByID(ctx, ref.ReferredID); err == nil {
			maskedEmail = format.MaskEmail(referred.Email)
		}

		item := ReferralHistoryItem{
			ID:           ref.ID.String(),
			ReferredUser: maskedEmail,
			Status:       ref.Status,
			Reward:       ref.RewardAmount.StringFixed(2),
			CreatedAt:    ref.CreatedAt.Format(time.RFC3339),
		}
		if ref.CompletedAt != nil {
			completed := ref.CompletedAt.Format(time.RFC3339)
			item.CompletedAt = &completed
		}
		items = append(items, item)
	}

	return &ReferralHistoryResponse{Referrals: items, Total: total}, nil
}

// ApplyCode links the applicant to the code owner and opens a pending
// referral. Rule checks run in order: duplicate use, unknown code, self
// referral. The uniqueness of the referred side is also backed by a unique
// index, so a concurrent duplicate apply fails on insert rather than
// slipping through.
func (s *referralService) ApplyCode(ctx context.Context, userID uuid.UUID, code string) (*ApplyReferralResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	existing, err := s.referralRepo.GetByReferred(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing referral: %w", err)
	}
	if existing != nil {
		return nil, apperr.BadRequestWrap("You have already used a referral code", reward.ErrAlreadyReferred)
	}

	referrer, err := s.userRepo.GetByReferralCode(ctx, reward.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.BadRequestWrap("Invalid referral code", reward.ErrInvalidCode)
		}
		return nil, fmt.Errorf("failed to look up referral code: %w", err)
	}

	if referrer.ID == user.ID {
		return nil, apperr.BadRequestWrap("You cannot use your own referral code", reward.ErrSelfReferral)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		referral := model.Referral{
			ReferrerID:   referrer.ID,
			ReferredID:   userID,
			Status:       model.ReferralStatusPending,
			RewardAmount: s.policy.Amount,
		}
		if err := s.referralRepo.Create(txCtx, &referral); err != nil {
			return fmt.Errorf("failed to create referral: %w", err)
		}
		if err := s.userRepo.SetReferredBy(txCtx, userID, referrer.ID); err != nil {
			return fmt.Errorf("failed to link referrer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ApplyReferralResponse{
		Message:      "Referral code applied successfully!",
		ReferrerName: referrer.Name,
		Applied:      true,
	}, nil
}

// Complete marks the referral for a referred user as completed and pays the
// reward while the referrer's monthly earnings stay under the cap. Returns
// false when the user has no referral; completing twice is a no-op success.
//
// The monthly-earnings read and both updates run in one transaction with
// the completed rows locked, so two concurrent completions for the same
// referrer serialize instead of both paying past the cap.
func (s *referralService) Complete(ctx context.Context, referredID uuid.UUID) (bool, error) {
	referral, err := s.referralRepo.GetByReferred(ctx, referredID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch referral: %w", err)
	}
	if referral == nil {
		return false, nil
	}
	if referral.Status == model.ReferralStatusCompleted {
		return true, nil
	}

	paid := false
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		now := s.now()

		if err := s.referralRepo.Complete(txCtx, referral.ID, now); err != nil {
			return fmt.Errorf("failed to complete referral: %w", err)
		}

		// Sum after completing, so this referral's own reward counts
		// against the cap
		earnings, err := s.referralRepo.MonthlyEarningsForUpdate(
			txCtx, referral.ReferrerID, now.Year(), now.Month())
		if err != nil {
			return fmt.Errorf("failed to read monthly earnings: %w", err)
		}

		if s.policy.ShouldPay(earnings) {
			if err := s.referralRepo.MarkRewardPaid(txCtx, referral.ID); err != nil {
				return fmt.Errorf("failed to mark reward paid: %w", err)
			}
			paid = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if paid && s.notificationService != nil {
		_ = s.notificationService.Notify(ctx, referral.ReferrerID, model.NotificationReferral,
			"Referral Reward Earned",
			fmt.Sprintf("You earned %s for a successful referral.", format.Naira(s.policy.Amount, false)))
	}

	return true, nil
}
