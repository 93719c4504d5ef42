package repository

import (
	"context"
	"time"

	"sabitax/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByReferralCode(ctx context.Context, code string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	SetReferralCode(ctx context.Context, id uuid.UUID, code string) error
	SetReferredBy(ctx context.Context, id uuid.UUID, referrerID uuid.UUID) error
	UpdateStreak(ctx context.Context, id uuid.UUID, streakDays int, lastActive time.Time) error
	UpdateSubscriptionPlan(ctx context.Context, id uuid.UUID, planID string) error
	SetTIN(ctx context.Context, id uuid.UUID, tin string, verified bool) error

	CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteRefreshTokensByUser(ctx context.Context, userID uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByReferralCode(ctx context.Context, code string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "referral_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.User{}).Error
}

func (r *userRepository) SetReferralCode(ctx context.Context, id uuid.UUID, code string) error {
	return GetDB(ctx, r.db).Model(&model.User{}).Where("id = ?", id).
		Update("referral_code", code).Error
}

func (r *userRepository) SetReferredBy(ctx context.Context, id uuid.UUID, referrerID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.User{}).Where("id = ?", id).
		Update("referred_by", referrerID).Error
}

func (r *userRepository) UpdateStreak(ctx context.Context, id uuid.UUID, streakDays int, lastActive time.Time) error {
	return GetDB(ctx, r.db).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"streak_days":      streakDays,
			"last_active_date": lastActive,
		}).Error
}

func (r *userRepository) UpdateSubscriptionPlan(ctx context.Context, id uuid.UUID, planID string) error {
	return GetDB(ctx, r.db).Model(&model.User{}).Where("id = ?", id).
		Update("subscription_plan", planID).Error
}

func (r *userRepository) SetTIN(ctx context.Context, id uuid.UUID, tin string, verified bool) error {
	return GetDB(ctx, r.db).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"tin":          tin,
			"tin_verified": verified,
		}).Error
}

func (r *userRepository) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return GetDB(ctx, r.db).Create(token).Error
}

func (r *userRepository) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var t model.RefreshToken
	if err := GetDB(ctx, r.db).First(&t, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *userRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	return GetDB(ctx, r.db).Where("token = ?", token).Delete(&model.RefreshToken{}).Error
}

func (r *userRepository) DeleteRefreshTokensByUser(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.RefreshToken{}).Error
}
