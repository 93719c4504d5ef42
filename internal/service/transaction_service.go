package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sabitax/internal/model"
	"sabitax/internal/repository"
	"sabitax/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateTransactionRequest struct {
	Title           string `json:"title" binding:"required"`
	Type            string `json:"type" binding:"required,oneof=income expense"`
	Amount          string `json:"amount" binding:"required"` // Decimal string, e.g. "150000.00"
	Category        string `json:"category"`
	Description     string `json:"description"`
	TransactionDate string `json:"transaction_date"` // RFC3339, defaults to now
	HasReceipt      bool   `json:"has_receipt"`
	ReceiptURL      string `json:"receipt_url"`
}

type UpdateTransactionRequest struct {
	Title       string `json:"title"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	HasReceipt  *bool  `json:"has_receipt"`
	ReceiptURL  string `json:"receipt_url"`
}

type TransactionResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	TransactionDate string `json:"transaction_date"`
	HasReceipt      bool   `json:"has_receipt"`
	ReceiptURL      string `json:"receipt_url"`
	Source          string `json:"source"`
	CreatedAt       string `json:"created_at"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
}

type TransactionSummaryResponse struct {
	Year          int                     `json:"year"`
	TotalIncome   string                  `json:"total_income"`
	TotalExpenses string                  `json:"total_expenses"`
	Net           string                  `json:"net"`
	ByCategory    []CategoryTotalResponse `json:"by_category"`
}

type CategoryTotalResponse struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Total    string `json:"total"`
}

// --- Interface ---

type TransactionService interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateTransactionRequest) (*TransactionResponse, error)
	GetByID(ctx context.Context, id string, userID uuid.UUID) (*TransactionResponse, error)
	List(ctx context.Context, userID uuid.UUID, filter repository.TransactionFilter, page, limit int) (*TransactionListResponse, error)
	Update(ctx context.Context, id string, userID uuid.UUID, req UpdateTransactionRequest) (*TransactionResponse, error)
	Delete(ctx context.Context, id string, userID uuid.UUID) error
	Summary(ctx context.Context, userID uuid.UUID, year int) (*TransactionSummaryResponse, error)
}

type transactionService struct {
	transactionRepo repository.TransactionRepository
	now             func() time.Time
}

// NewTransactionService returns a new instance of TransactionService
func NewTransactionService(db *gorm.DB) TransactionService {
	return &transactionService{
		transactionRepo: repository.NewTransactionRepository(db),
		now:             time.Now,
	}
}

// --- Implementation ---

func (s *transactionService) Create(ctx context.Context, userID uuid.UUID, req CreateTransactionRequest) (*TransactionResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, apperr.BadRequest("invalid amount value")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperr.BadRequest("amount must be positive")
	}

	txDate := s.now()
	if req.TransactionDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.TransactionDate)
		if err != nil {
			return nil, apperr.BadRequest("invalid transaction_date format (expected RFC3339)")
		}
		txDate = parsed
	}

	tx := model.Transaction{
		UserID:          userID,
		Title:           req.Title,
		Type:            req.Type,
		Amount:          amount.RoundBank(2),
		Category:        req.Category,
		Description:     req.Description,
		TransactionDate: txDate,
		HasReceipt:      req.HasReceipt,
		ReceiptURL:      req.ReceiptURL,
		Source:          "manual",
	}

	if err := s.transactionRepo.Create(ctx, &tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return toTransactionResponse(&tx), nil
}

func (s *transactionService) GetByID(ctx context.Context, id string, userID uuid.UUID) (*TransactionResponse, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid transaction id")
	}

	tx, err := s.transactionRepo.GetByID(ctx, txID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}

	return toTransactionResponse(tx), nil
}

func (s *transactionService) List(ctx context.Context, userID uuid.UUID, filter repository.TransactionFilter, page, limit int) (*TransactionListResponse, error) {
	txs, total, err := s.transactionRepo.ListByUser(ctx, userID, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	items := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		items = append(items, *toTransactionResponse(&txs[i]))
	}

	return &TransactionListResponse{Transactions: items, Total: total}, nil
}

func (s *transactionService) Update(ctx context.Context, id string, userID uuid.UUID, req UpdateTransactionRequest) (*TransactionResponse, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.BadRequest("invalid transaction id")
	}

	tx, err := s.transactionRepo.GetByID(ctx, txID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction not found")
		}
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}

	if req.Title != "" {
		tx.Title = req.Title
	}
	if req.Amount != "" {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil || amount.LessThanOrEqual(decimal.Zero) {
			return nil, apperr.BadRequest("invalid amount value")
		}
		tx.Amount = amount.RoundBank(2)
	}
	if req.Category != "" {
		tx.Category = req.Category
	}
	if req.Description != "" {
		tx.Description = req.Description
	}
	if req.HasReceipt != nil {
		tx.HasReceipt = *req.HasReceipt
	}
	if req.ReceiptURL != "" {
		tx.ReceiptURL = req.ReceiptURL
	}

	if err := s.transactionRepo.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return toTransactionResponse(tx), nil
}

func (s *transactionService) Delete(ctx context.Context, id string, userID uuid.UUID) error {
	txID, err := uuid.Parse(id)
	if err != nil {
		return apperr.BadRequest("invalid transaction id")
	}

	if _, err := s.transactionRepo.GetByID(ctx, txID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("transaction not found")
		}
		return fmt.Errorf("failed to fetch transaction: %w", err)
	}

	return s.transactionRepo.Delete(ctx, txID, userID)
}

// Summary aggregates a calendar year's totals — the figures the tax and
// compliance endpoints are computed from.
func (s *transactionService) Summary(ctx context.Context, userID uuid.UUID, year int) (*TransactionSummaryResponse, error) {
	if year == 0 {
		year = s.now().Year()
	}

	totals, err := s.transactionRepo.TotalsByUser(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction totals: %w", err)
	}

	categories, err := s.transactionRepo.CategoryTotalsByUser(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category totals: %w", err)
	}

	byCategory := make([]CategoryTotalResponse, 0, len(categories))
	for _, c := range categories {
		byCategory = append(byCategory, CategoryTotalResponse{
			Category: c.Category,
			Type:     c.Type,
			Total:    c.Total.StringFixed(2),
		})
	}

	return &TransactionSummaryResponse{
		Year:          year,
		TotalIncome:   totals.Income.StringFixed(2),
		TotalExpenses: totals.Expense.StringFixed(2),
		Net:           totals.Income.Sub(totals.Expense).StringFixed(2),
		ByCategory:    byCategory,
	}, nil
}

// --- Helpers ---

func toTransactionResponse(tx *model.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              tx.ID.String(),
		Title:           tx.Title,
		Type:            tx.Type,
		Amount:          tx.Amount.StringFixed(2),
		Category:        tx.Category,
		Description:     tx.Description,
		TransactionDate: tx.TransactionDate.Format(time.RFC3339),
		HasReceipt:      tx.HasReceipt,
		ReceiptURL:      tx.ReceiptURL,
		Source:          tx.Source,
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
	}
}
