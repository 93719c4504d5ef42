package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sabitax/internal/model"
	"sabitax/internal/repository"
	"sabitax/internal/taxcalc"
	"sabitax/pkg/apperr"
	"sabitax/pkg/format"
	"sabitax/pkg/reference"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type TaxObligationItem struct {
	Type    string  `json:"type"`
	Name    string  `json:"name"`
	Amount  string  `json:"amount"`
	DueDate *string `json:"due_date"` // YYYY-MM-DD, nullable
	Status  string  `json:"status"`   // pending, none
	BasedOn string  `json:"based_on"`
}

type TaxObligationsResponse struct {
	Obligations []TaxObligationItem `json:"obligations"`
	TotalDue    string              `json:"total_due"`
}

type TaxEstimateResponse struct {
	TotalIncome      string  `json:"total_income"`
	CRA              string  `json:"cra"`
	TaxableIncome    string  `json:"taxable_income"`
	EstimatedTax     string  `json:"estimated_tax"`
	TaxRate          string  `json:"tax_rate"` // effective rate, percent
	PotentialSavings string  `json:"potential_savings"`
	NextDueDate      string  `json:"next_due_date"`
	MonthlyPAYE      *string `json:"monthly_paye,omitempty"`
}

type TaxFilingRequest struct {
	TaxType     string `json:"tax_type" binding:"required,oneof=PIT VAT"`
	Year        int    `json:"year" binding:"required,min=2000"`
	Declaration string `json:"declaration"`
}

type TaxFilingResponse struct {
	FilingID        string `json:"filing_id"`
	Status          string `json:"status"`
	ReferenceNumber string `json:"reference_number"`
	FiledAt         string `json:"filed_at"`
}

type TaxFilingHistoryItem struct {
	ID              string `json:"id"`
	TaxType         string `json:"tax_type"`
	TaxYear         int    `json:"tax_year"`
	Amount          string `json:"amount"`
	Status          string `json:"status"`
	ReferenceNumber string `json:"reference_number"`
	FiledAt         string `json:"filed_at"`
}

type TaxFilingHistoryResponse struct {
	Filings []TaxFilingHistoryItem `json:"filings"`
	Total   int64                  `json:"total"`
}

type TaxOptimizationSuggestion struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	PotentialSave string `json:"potential_save"`
}

type TaxOptimizationResponse struct {
	CurrentTax  string                      `json:"current_tax"`
	Suggestions []TaxOptimizationSuggestion `json:"suggestions"`
}

// --- Interface ---

type TaxService interface {
	GetObligations(ctx context.Context, userID uuid.UUID) (*TaxObligationsResponse, error)
	GetEstimate(ctx context.Context, userID uuid.UUID) (*TaxEstimateResponse, error)
	FileTax(ctx context.Context, userID uuid.UUID, req TaxFilingRequest) (*TaxFilingResponse, error)
	GetFilings(ctx context.Context, userID uuid.UUID, taxType string, year, page, limit int) (*TaxFilingHistoryResponse, error)
	GetOptimization(ctx context.Context, userID uuid.UUID) (*TaxOptimizationResponse, error)
	SendDeadlineReminders(ctx context.Context) (int, error)
}

type taxService struct {
	db                  *gorm.DB
	calculator          *taxcalc.Calculator
	taxRepo             repository.TaxRepository
	transactionRepo     repository.TransactionRepository
	notificationService NotificationService
	now                 func() time.Time
}

// NewTaxService wires the tax calculator to the filing and transaction stores
func NewTaxService(db *gorm.DB, calculator *taxcalc.Calculator, notificationService NotificationService) TaxService {
	return &taxService{
		db:                  db,
		calculator:          calculator,
		taxRepo:             repository.NewTaxRepository(db),
		transactionRepo:     repository.NewTransactionRepository(db),
		notificationService: notificationService,
		now:                 time.Now,
	}
}

// --- Implementation ---

func (s *taxService) GetObligations(ctx context.Context, userID uuid.UUID) (*TaxObligationsResponse, error) {
	now := s.now()
	totals, err := s.transactionRepo.TotalsByUser(ctx, userID, now.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction totals: %w", err)
	}

	result := s.calculator.ComputePIT(totals.Income)

	pitStatus := "none"
	basedOn := "No recorded income"
	var dueDate *string
	if result.TaxAmount.GreaterThan(decimal.Zero) {
		pitStatus = "pending"
		due := taxcalc.NextDueDate(now).Format("2006-01-02")
		dueDate = &due
	}
	if totals.Income.GreaterThan(decimal.Zero) {
		basedOn = format.Naira(totals.Income, false) + " annual income"
	}

	obligations := []TaxObligationItem{
		{
			Type:    model.TaxTypePIT,
			Name:    "Personal Income Tax",
			Amount:  result.TaxAmount.StringFixed(2),
			DueDate: dueDate,
			Status:  pitStatus,
			BasedOn: basedOn,
		},
		// VAT does not apply to individuals without business transactions
		{
			Type:    model.TaxTypeVAT,
			Name:    "Value Added Tax",
			Amount:  "0.00",
			DueDate: nil,
			Status:  "none",
			BasedOn: "No taxable business transactions",
		},
	}

	totalDue := decimal.Zero
	if pitStatus == "pending" {
		totalDue = totalDue.Add(result.TaxAmount)
	}

	return &TaxObligationsResponse{
		Obligations: obligations,
		TotalDue:    totalDue.StringFixed(2),
	}, nil
}

func (s *taxService) GetEstimate(ctx context.Context, userID uuid.UUID) (*TaxEstimateResponse, error) {
	now := s.now()
	totals, err := s.transactionRepo.TotalsByUser(ctx, userID, now.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction totals: %w", err)
	}

	result := s.calculator.ComputePIT(totals.Income)

	// Suggest ~5% savings through reliefs once income crosses ₦1M
	potentialSavings := decimal.Zero
	if totals.Income.GreaterThan(decimal.NewFromInt(1000000)) {
		potentialSavings = result.TaxAmount.Mul(decimal.RequireFromString("0.05")).RoundBank(2)
	}

	return &TaxEstimateResponse{
		TotalIncome:      totals.Income.StringFixed(2),
		CRA:              result.CRA.RoundBank(2).StringFixed(2),
		TaxableIncome:    result.TaxableIncome.RoundBank(2).StringFixed(2),
		EstimatedTax:     result.TaxAmount.StringFixed(2),
		TaxRate:          result.EffectiveRate.StringFixed(2),
		PotentialSavings: potentialSavings.StringFixed(2),
		NextDueDate:      taxcalc.NextDueDate(now).Format("2006-01-02"),
	}, nil
}

func (s *taxService) FileTax(ctx context.Context, userID uuid.UUID, req TaxFilingRequest) (*TaxFilingResponse, error) {
	// Reject duplicate filings for the same year and type
	existing, err := s.taxRepo.GetFilingByYearAndType(ctx, userID, req.Year, req.TaxType)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing filings: %w", err)
	}
	if existing != nil {
		switch existing.Status {
		case model.FilingStatusSubmitted, model.FilingStatusProcessing, model.FilingStatusCompleted:
			return nil, apperr.Conflict(fmt.Sprintf("%s for %d has already been filed", req.TaxType, req.Year))
		}
	}

	totals, err := s.transactionRepo.TotalsByUser(ctx, userID, req.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction totals: %w", err)
	}

	result := s.calculator.ComputePIT(totals.Income)

	now := s.now()
	filing := model.TaxFiling{
		UserID:          userID,
		TaxType:         req.TaxType,
		TaxYear:         req.Year,
		Amount:          result.TaxAmount,
		Status:          model.FilingStatusSubmitted,
		ReferenceNumber: reference.FilingReference(now.Year()),
		DeclarationData: req.Declaration,
		FiledAt:         now,
	}

	if err := s.taxRepo.CreateFiling(ctx, &filing); err != nil {
		return nil, fmt.Errorf("failed to create tax filing: %w", err)
	}

	s.writeAuditLog(ctx, userID, model.ActionFileTax, filing.ID.String(),
		filing.ReferenceNumber, req)

	if s.notificationService != nil {
		_ = s.notificationService.Notify(ctx, userID, model.NotificationFilingComplete,
			"Tax Filing Submitted",
			fmt.Sprintf("Your %s filing for %d was submitted. Reference: %s", req.TaxType, req.Year, filing.ReferenceNumber))
	}

	return &TaxFilingResponse{
		FilingID:        filing.ID.String(),
		Status:          filing.Status,
		ReferenceNumber: filing.ReferenceNumber,
		FiledAt:         filing.FiledAt.Format(time.RFC3339),
	}, nil
}

func (s *taxService) GetFilings(ctx context.Context, userID uuid.UUID, taxType string, year, page, limit int) (*TaxFilingHistoryResponse, error) {
	filings, total, err := s.taxRepo.ListFilingsByUser(ctx, userID, taxType, year, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tax filings: %w", err)
	}

	items := make([]TaxFilingHistoryItem, 0, len(filings))
	for _, f := range filings {
		items = append(items, TaxFilingHistoryItem{
			ID:              f.ID.String(),
			TaxType:         f.TaxType,
			TaxYear:         f.TaxYear,
			Amount:          f.Amount.StringFixed(2),
			Status:          f.Status,
			ReferenceNumber: f.ReferenceNumber,
			FiledAt:         f.FiledAt.Format(time.RFC3339),
		})
	}

	return &TaxFilingHistoryResponse{Filings: items, Total: total}, nil
}

func (s *taxService) GetOptimization(ctx context.Context, userID uuid.UUID) (*TaxOptimizationResponse, error) {
	now := s.now()
	totals, err := s.transactionRepo.TotalsByUser(ctx, userID, now.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction totals: %w", err)
	}

	result := s.calculator.ComputePIT(totals.Income)

	suggestions := []TaxOptimizationSuggestion{}

	if totals.Income.GreaterThan(decimal.Zero) {
		// Pension contributions are deductible up to 8% of income
		pensionSave := totals.Income.Mul(decimal.RequireFromString("0.08")).
			Mul(decimal.RequireFromString("0.19")).RoundBank(2)
		suggestions = append(suggestions, TaxOptimizationSuggestion{
			Title:         "Contribute to a pension scheme",
			Description:   "Pension contributions of up to 8% of income are tax-deductible.",
			PotentialSave: pensionSave.StringFixed(2),
		})

		suggestions = append(suggestions, TaxOptimizationSuggestion{
			Title:         "Document your expenses",
			Description:   "Keep receipts for business expenses to support deductions during an audit.",
			PotentialSave: "0.00",
		})
	}

	if result.TaxAmount.GreaterThan(decimal.Zero) {
		suggestions = append(suggestions, TaxOptimizationSuggestion{
			Title:         "File before the deadline",
			Description:   "Filing before January 31st avoids late-filing penalties of up to 10%.",
			PotentialSave: result.TaxAmount.Mul(decimal.RequireFromString("0.10")).RoundBank(2).StringFixed(2),
		})
	}

	return &TaxOptimizationResponse{
		CurrentTax:  result.TaxAmount.StringFixed(2),
		Suggestions: suggestions,
	}, nil
}

// SendDeadlineReminders notifies users who recorded income in the closing
// tax year but have not filed PIT yet. No-op outside the month before the
// January 31st deadline; returns how many reminders went out.
func (s *taxService) SendDeadlineReminders(ctx context.Context) (int, error) {
	now := s.now()
	due := taxcalc.NextDueDate(now)
	if due.Sub(now) > 31*24*time.Hour {
		return 0, nil
	}

	taxYear := taxcalc.TaxYear(now)
	userIDs, err := s.transactionRepo.UserIDsWithIncome(ctx, taxYear)
	if err != nil {
		return 0, fmt.Errorf("failed to list users with income: %w", err)
	}

	sent := 0
	for _, userID := range userIDs {
		existing, err := s.taxRepo.GetFilingByYearAndType(ctx, userID, taxYear, model.TaxTypePIT)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return sent, fmt.Errorf("failed to check filings: %w", err)
		}
		if existing != nil {
			continue
		}

		if s.notificationService == nil {
			continue
		}
		if err := s.notificationService.Notify(ctx, userID, model.NotificationTaxReminder,
			"Tax Filing Deadline Approaching",
			fmt.Sprintf("Your %d personal income tax filing is due by %s.", taxYear, due.Format("January 2, 2006"))); err == nil {
			sent++
		}
	}
	return sent, nil
}

// --- Helpers ---

func (s *taxService) writeAuditLog(ctx context.Context, userID uuid.UUID, action, entityID, entityName string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := model.AuditLog{
		UserID:     &userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}

	// Best-effort audit log — don't fail the operation if logging fails
	_ = s.db.WithContext(ctx).Create(&entry).Error
}
