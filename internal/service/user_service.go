package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sabitax/internal/model"
	"sabitax/internal/repository"
	"sabitax/internal/taxcalc"
	"sabitax/pkg/apperr"
	"sabitax/pkg/format"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type UserResponse struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	IsVerified       bool   `json:"is_verified"`
	TIN              string `json:"tin"` // masked
	TINVerified      bool   `json:"tin_verified"`
	SubscriptionPlan string `json:"subscription_plan"`
	ReferralCode     string `json:"referral_code"`
	StreakDays       int    `json:"streak_days"`
	CreatedAt        string `json:"created_at"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

type UserStatsResponse struct {
	ComplianceScore         int    `json:"compliance_score"`
	StreakDays              int    `json:"streak_days"`
	TotalIncome             string `json:"total_income"`
	TotalExpenses           string `json:"total_expenses"`
	EstimatedTax            string `json:"estimated_tax"`
	IncomeDocumentedPercent int    `json:"income_documented_percent"`
	TransactionCount        int64  `json:"transaction_count"`
	TaxDueDate              string `json:"tax_due_date"`
}

// --- Interface ---

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*UserStatsResponse, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	calculator      *taxcalc.Calculator
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	taxRepo         repository.TaxRepository
	now             func() time.Time
}

// NewUserService wires the profile endpoints to their stores
func NewUserService(db *gorm.DB, calculator *taxcalc.Calculator) UserService {
	return &userService{
		calculator:      calculator,
		userRepo:        repository.NewUserRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		taxRepo:         repository.NewTaxRepository(db),
		now:             time.Now,
	}
}

// --- Implementation ---

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return toUserResponse(user), nil
}

// GetStats assembles the dashboard: year totals feed the tax calculator and
// the compliance scorer, the streak and due date come straight off the user.
func (s *userService) GetStats(ctx context.Context, userID uuid.UUID) (*UserStatsResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	now := s.now()
	year := now.Year()

	totals, err := s.transactionRepo.TotalsByUser(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction totals: %w", err)
	}

	documented, err := s.transactionRepo.DocumentedIncomeByUser(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documented income: %w", err)
	}

	taxResult := s.calculator.ComputePIT(totals.Income)

	totalFilings, err := s.taxRepo.CountFilingsByUser(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to count filings: %w", err)
	}
	completedFilings, err := s.taxRepo.CountFilingsByUser(ctx, userID, model.FilingStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed filings: %w", err)
	}

	score := taxcalc.ComplianceScore(taxcalc.ComplianceInputs{
		DocumentedIncome: documented,
		EstimatedIncome:  totals.Income,
		HasTIN:           user.TINVerified,
		FilingsOnTime:    int(completedFilings),
		TotalFilings:     int(totalFilings),
	})

	transactionCount, err := s.transactionRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	documentedPercent := 0
	if totals.Income.GreaterThan(decimal.Zero) {
		ratio := documented.Div(totals.Income)
		if ratio.GreaterThan(decimal.NewFromInt(1)) {
			ratio = decimal.NewFromInt(1)
		}
		documentedPercent = int(ratio.Mul(decimal.NewFromInt(100)).IntPart())
	}

	return &UserStatsResponse{
		ComplianceScore:         score,
		StreakDays:              user.StreakDays,
		TotalIncome:             totals.Income.StringFixed(2),
		TotalExpenses:           totals.Expense.StringFixed(2),
		EstimatedTax:            taxResult.TaxAmount.StringFixed(2),
		IncomeDocumentedPercent: documentedPercent,
		TransactionCount:        transactionCount,
		TaxDueDate:              taxcalc.NextDueDate(now).Format("2006-01-02"),
	}, nil
}

// DeleteAccount soft-deletes the user row. Dependent rows (transactions,
// filings, referrals) are removed by the database's cascade constraints —
// the explicit deletion contract lives in the schema, not in object graphs.
func (s *userService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user not found")
		}
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	return s.userRepo.Delete(ctx, userID)
}

// --- Helpers ---

func toUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:               user.ID.String(),
		Email:            user.Email,
		Name:             user.Name,
		IsVerified:       user.IsVerified,
		TIN:              format.MaskTIN(user.TIN),
		TINVerified:      user.TINVerified,
		SubscriptionPlan: user.SubscriptionPlan,
		ReferralCode:     user.ReferralCode,
		StreakDays:       user.StreakDays,
		CreatedAt:        user.CreatedAt.Format(time.RFC3339),
	}
}
