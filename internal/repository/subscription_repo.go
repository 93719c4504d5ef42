package repository

import (
	"context"
	"errors"
	"time"

	"sabitax/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionRepository defines the interface for data access of Subscription entities
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *model.Subscription) error
	GetActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*model.Subscription, error)
	Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error
	LapsedUserIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository returns a new instance of SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	return GetDB(ctx, r.db).Create(sub).Error
}

// GetActiveByUser returns the user's live subscription, or nil when the user
// is on the implicit free plan.
func (r *subscriptionRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*model.Subscription, error) {
	var sub model.Subscription
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND status = ? AND (expires_at IS NULL OR expires_at >= ?)",
			userID, model.SubscriptionStatusActive, now).
		Order("started_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error {
	return GetDB(ctx, r.db).Model(&model.Subscription{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.SubscriptionStatusCancelled,
			"cancelled_at": cancelledAt,
		}).Error
}

// LapsedUserIDs returns the distinct owners of active subscriptions whose
// paid window has passed
func (r *subscriptionRepository) LapsedUserIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := GetDB(ctx, r.db).Model(&model.Subscription{}).
		Distinct("user_id").
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?",
			model.SubscriptionStatusActive, now).
		Pluck("user_id", &ids).Error
	return ids, err
}

// ExpireLapsed flips active subscriptions whose paid window has passed to
// expired and reports how many rows changed.
func (r *subscriptionRepository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	result := GetDB(ctx, r.db).Model(&model.Subscription{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?",
			model.SubscriptionStatusActive, now).
		Update("status", model.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}
