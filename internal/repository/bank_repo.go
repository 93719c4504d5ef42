package repository

import (
	"context"
	"time"

	"sabitax/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BankRepository defines the interface for data access of BankAccount entities
type BankRepository interface {
	Create(ctx context.Context, account *model.BankAccount) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*model.BankAccount, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.BankAccount, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	TouchSynced(ctx context.Context, id uuid.UUID, syncedAt time.Time) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type bankRepository struct {
	db *gorm.DB
}

// NewBankRepository returns a new instance of BankRepository
func NewBankRepository(db *gorm.DB) BankRepository {
	return &bankRepository{db: db}
}

func (r *bankRepository) Create(ctx context.Context, account *model.BankAccount) error {
	return GetDB(ctx, r.db).Create(account).Error
}

func (r *bankRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*model.BankAccount, error) {
	var account model.BankAccount
	if err := GetDB(ctx, r.db).First(&account, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *bankRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.BankAccount, error) {
	var accounts []model.BankAccount
	err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&accounts).Error
	return accounts, err
}

func (r *bankRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.BankAccount{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *bankRepository) TouchSynced(ctx context.Context, id uuid.UUID, syncedAt time.Time) error {
	return GetDB(ctx, r.db).Model(&model.BankAccount{}).Where("id = ?", id).
		Update("last_synced_at", syncedAt).Error
}

func (r *bankRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.BankAccount{}).Error
}
