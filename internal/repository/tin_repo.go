package repository

import (
	"context"
	"errors"

	"sabitax/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TINRepository defines the interface for data access of TINApplication entities
type TINRepository interface {
	Create(ctx context.Context, application *model.TINApplication) error
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*model.TINApplication, error)
	GetByReference(ctx context.Context, reference string) (*model.TINApplication, error)
	Update(ctx context.Context, application *model.TINApplication) error
}

type tinRepository struct {
	db *gorm.DB
}

// NewTINRepository returns a new instance of TINRepository
func NewTINRepository(db *gorm.DB) TINRepository {
	return &tinRepository{db: db}
}

func (r *tinRepository) Create(ctx context.Context, application *model.TINApplication) error {
	return GetDB(ctx, r.db).Create(application).Error
}

// GetLatestByUser returns the user's most recent application, or nil when
// they have never applied.
func (r *tinRepository) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*model.TINApplication, error) {
	var application model.TINApplication
	err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

func (r *tinRepository) GetByReference(ctx context.Context, reference string) (*model.TINApplication, error) {
	var application model.TINApplication
	if err := GetDB(ctx, r.db).First(&application, "reference_number = ?", reference).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *tinRepository) Update(ctx context.Context, application *model.TINApplication) error {
	return GetDB(ctx, r.db).Save(application).Error
}
