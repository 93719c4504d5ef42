package repository

import (
	"context"

	"sabitax/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxRepository defines the interface for data access of TaxFiling entities
type TaxRepository interface {
	CreateFiling(ctx context.Context, filing *model.TaxFiling) error
	GetFilingByYearAndType(ctx context.Context, userID uuid.UUID, year int, taxType string) (*model.TaxFiling, error)
	ListFilingsByUser(ctx context.Context, userID uuid.UUID, taxType string, year int, page, limit int) ([]model.TaxFiling, int64, error)
	CountFilingsByUser(ctx context.Context, userID uuid.UUID, status string) (int64, error)
}

type taxRepository struct {
	db *gorm.DB
}

// NewTaxRepository returns a new instance of TaxRepository
func NewTaxRepository(db *gorm.DB) TaxRepository {
	return &taxRepository{db: db}
}

func (r *taxRepository) CreateFiling(ctx context.Context, filing *model.TaxFiling) error {
	return GetDB(ctx, r.db).Create(filing).Error
}

func (r *taxRepository) GetFilingByYearAndType(ctx context.Context, userID uuid.UUID, year int, taxType string) (*model.TaxFiling, error) {
	var filing model.TaxFiling
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND tax_year = ? AND tax_type = ?", userID, year, taxType).
		Order("filed_at DESC").
		First(&filing).Error
	if err != nil {
		return nil, err
	}
	return &filing, nil
}

func (r *taxRepository) ListFilingsByUser(ctx context.Context, userID uuid.UUID, taxType string, year int, page, limit int) ([]model.TaxFiling, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.TaxFiling{}).Where("user_id = ?", userID)

	if taxType != "" {
		query = query.Where("tax_type = ?", taxType)
	}
	if year > 0 {
		query = query.Where("tax_year = ?", year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var filings []model.TaxFiling
	offset := (page - 1) * limit
	if err := query.Order("filed_at DESC").Offset(offset).Limit(limit).Find(&filings).Error; err != nil {
		return nil, 0, err
	}

	return filings, total, nil
}

func (r *taxRepository) CountFilingsByUser(ctx context.Context, userID uuid.UUID, status string) (int64, error) {
	query := GetDB(ctx, r.db).Model(&model.TaxFiling{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}
