package repository

import (
	"context"
	"errors"
	"time"

	"sabitax/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferralRepository defines the interface for data access of Referral entities
type ReferralRepository interface {
	Create(ctx context.Context, referral *model.Referral) error
	GetByReferred(ctx context.Context, referredID uuid.UUID) (*model.Referral, error)
	ListByReferrer(ctx context.Context, referrerID uuid.UUID, status string, page, limit int) ([]model.Referral, int64, error)
	CountByReferrer(ctx context.Context, referrerID uuid.UUID, status string) (int64, error)

	TotalEarnings(ctx context.Context, referrerID uuid.UUID) (decimal.Decimal, error)
	MonthlyEarnings(ctx context.Context, referrerID uuid.UUID, year int, month time.Month) (decimal.Decimal, error)
	MonthlyEarningsForUpdate(ctx context.Context, referrerID uuid.UUID, year int, month time.Month) (decimal.Decimal, error)

	Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) error
	MarkRewardPaid(ctx context.Context, id uuid.UUID) error
}

type referralRepository struct {
	db *gorm.DB
}

// NewReferralRepository returns a new instance of ReferralRepository
func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &referralRepository{db: db}
}

func (r *referralRepository) Create(ctx context.Context, referral *model.Referral) error {
	return GetDB(ctx, r.db).Create(referral).Error
}

// GetByReferred returns the single referral where the user is the referred
// party, or nil when none exists.
func (r *referralRepository) GetByReferred(ctx context.Context, referredID uuid.UUID) (*model.Referral, error) {
	var referral model.Referral
	err := GetDB(ctx, r.db).First(&referral, "referred_id = ?", referredID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &referral, nil
}

func (r *referralRepository) ListByReferrer(ctx context.Context, referrerID uuid.UUID, status string, page, limit int) ([]model.Referral, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.Referral{}).Where("referrer_id = ?", referrerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var referrals []model.Referral
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&referrals).Error; err != nil {
		return nil, 0, err
	}

	return referrals, total, nil
}

func (r *referralRepository) CountByReferrer(ctx context.Context, referrerID uuid.UUID, status string) (int64, error) {
	query := GetDB(ctx, r.db).Model(&model.Referral{}).Where("referrer_id = ?", referrerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// TotalEarnings sums paid-out rewards across all completed referrals
func (r *referralRepository) TotalEarnings(ctx context.Context, referrerID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := GetDB(ctx, r.db).Model(&model.Referral{}).
		Select("COALESCE(SUM(reward_amount), 0) AS total").
		Where("referrer_id = ? AND status = ? AND reward_paid = true",
			referrerID, model.ReferralStatusCompleted).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// MonthlyEarnings sums rewards for completed referrals in one calendar month
func (r *referralRepository) MonthlyEarnings(ctx context.Context, referrerID uuid.UUID, year int, month time.Month) (decimal.Decimal, error) {
	return r.monthlyEarnings(ctx, referrerID, year, month, false)
}

// MonthlyEarningsForUpdate is MonthlyEarnings under SELECT ... FOR UPDATE.
// Run inside a transaction: the row locks keep two concurrent completions
// for the same referrer from both reading a sum below the monthly cap.
func (r *referralRepository) MonthlyEarningsForUpdate(ctx context.Context, referrerID uuid.UUID, year int, month time.Month) (decimal.Decimal, error) {
	return r.monthlyEarnings(ctx, referrerID, year, month, true)
}

func (r *referralRepository) monthlyEarnings(ctx context.Context, referrerID uuid.UUID, year int, month time.Month, lock bool) (decimal.Decimal, error) {
	db := GetDB(ctx, r.db)

	// Aggregates cannot take row locks directly, so lock the rows first and
	// sum over the locked set.
	query := db.Model(&model.Referral{}).
		Where("referrer_id = ? AND status = ?", referrerID, model.ReferralStatusCompleted).
		Where("EXTRACT(YEAR FROM completed_at) = ? AND EXTRACT(MONTH FROM completed_at) = ?",
			year, int(month))
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var referrals []model.Referral
	if err := query.Find(&referrals).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, ref := range referrals {
		total = total.Add(ref.RewardAmount)
	}
	return total, nil
}

func (r *referralRepository) Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	return GetDB(ctx, r.db).Model(&model.Referral{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.ReferralStatusCompleted,
			"completed_at": completedAt,
		}).Error
}

func (r *referralRepository) MarkRewardPaid(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Referral{}).Where("id = ?", id).
		Update("reward_paid", true).Error
}
