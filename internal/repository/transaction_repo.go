package repository

import (
	"context"
	"time"

	"sabitax/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	Type      string
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

// Totals holds aggregated income and expense sums for a period.
// This is the aggregator boundary the tax calculator consumes.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// CategoryTotal is one category's aggregated amount
type CategoryTotal struct {
	Category string          `gorm:"column:category"`
	Type     string          `gorm:"column:type"`
	Total    decimal.Decimal `gorm:"column:total"`
}

// TransactionRepository defines the interface for data access of Transaction entities
type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*model.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter TransactionFilter, page, limit int) ([]model.Transaction, int64, error)
	Update(ctx context.Context, tx *model.Transaction) error
	Delete(ctx context.Context, id, userID uuid.UUID) error

	TotalsByUser(ctx context.Context, userID uuid.UUID, year int) (Totals, error)
	DocumentedIncomeByUser(ctx context.Context, userID uuid.UUID, year int) (decimal.Decimal, error)
	CategoryTotalsByUser(ctx context.Context, userID uuid.UUID, year int) ([]CategoryTotal, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	UserIDsWithIncome(ctx context.Context, year int) ([]uuid.UUID, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository returns a new instance of TransactionRepository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*model.Transaction, error) {
	var tx model.Transaction
	if err := GetDB(ctx, r.db).First(&tx, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter TransactionFilter, page, limit int) ([]model.Transaction, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.Transaction{}).Where("user_id = ?", userID)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.StartDate != nil {
		query = query.Where("transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("transaction_date <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []model.Transaction
	offset := (page - 1) * limit
	if err := query.Order("transaction_date DESC").Offset(offset).Limit(limit).Find(&txs).Error; err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

func (r *transactionRepository) Update(ctx context.Context, tx *model.Transaction) error {
	return GetDB(ctx, r.db).Save(tx).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Transaction{}).Error
}

// TotalsByUser sums income and expense amounts for one calendar year
func (r *transactionRepository) TotalsByUser(ctx context.Context, userID uuid.UUID, year int) (Totals, error) {
	type row struct {
		Type  string          `gorm:"column:type"`
		Total decimal.Decimal `gorm:"column:total"`
	}

	var rows []row
	err := GetDB(ctx, r.db).Model(&model.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND EXTRACT(YEAR FROM transaction_date) = ?", userID, year).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return Totals{}, err
	}

	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, r := range rows {
		switch r.Type {
		case model.TransactionTypeIncome:
			totals.Income = r.Total
		case model.TransactionTypeExpense:
			totals.Expense = r.Total
		}
	}
	return totals, nil
}

// DocumentedIncomeByUser sums receipt-backed income for one calendar year
func (r *transactionRepository) DocumentedIncomeByUser(ctx context.Context, userID uuid.UUID, year int) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := GetDB(ctx, r.db).Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ? AND has_receipt = true AND EXTRACT(YEAR FROM transaction_date) = ?",
			userID, model.TransactionTypeIncome, year).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *transactionRepository) CategoryTotalsByUser(ctx context.Context, userID uuid.UUID, year int) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := GetDB(ctx, r.db).Model(&model.Transaction{}).
		Select("category, type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND EXTRACT(YEAR FROM transaction_date) = ?", userID, year).
		Group("category, type").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *transactionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Transaction{}).
		Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// UserIDsWithIncome returns the distinct users with income recorded in a year
func (r *transactionRepository) UserIDsWithIncome(ctx context.Context, year int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := GetDB(ctx, r.db).Model(&model.Transaction{}).
		Distinct("user_id").
		Where("type = ? AND EXTRACT(YEAR FROM transaction_date) = ?", model.TransactionTypeIncome, year).
		Pluck("user_id", &ids).Error
	return ids, err
}
