package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sabitax/internal/model"
	"sabitax/internal/repository"
	"sabitax/pkg/apperr"
	"sabitax/pkg/format"
	"sabitax/pkg/reference"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type TINStatusResponse struct {
	HasTIN      bool                    `json:"has_tin"`
	TIN         *string                 `json:"tin"` // masked
	Verified    bool                    `json:"verified"`
	Application *TINApplicationResponse `json:"application"`
}

type TINApplicationRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	DateOfBirth string `json:"date_of_birth" binding:"required"` // YYYY-MM-DD
	NIN         string `json:"nin" binding:"required"`
	Address     string `json:"address" binding:"required"`
	DocumentURL string `json:"document_url"`
}

type TINApplicationResponse struct {
	ReferenceNumber string  `json:"reference_number"`
	Status          string  `json:"status"`
	SubmittedAt     string  `json:"submitted_at"`
	ProcessedAt     *string `json:"processed_at"`
}

type TINVerifyRequest struct {
	TIN string `json:"tin" binding:"required"`
}

type TINVerifyResponse struct {
	TIN      string `json:"tin"` // masked
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

// --- Interface ---

type TINService interface {
	GetStatus(ctx context.Context, userID uuid.UUID) (*TINStatusResponse, error)
	Apply(ctx context.Context, userID uuid.UUID, req TINApplicationRequest) (*TINApplicationResponse, error)
	Verify(ctx context.Context, userID uuid.UUID, req TINVerifyRequest) (*TINVerifyResponse, error)
	ProcessApplication(ctx context.Context, referenceNumber string, approved bool, assignedTIN string) error
}

type tinService struct {
	db                  *gorm.DB
	userRepo            repository.UserRepository
	tinRepo             repository.TINRepository
	notificationService NotificationService
	now                 func() time.Time
}

func NewTINService(db *gorm.DB, notificationService NotificationService) TINService {
	return &tinService{
		db:                  db,
		userRepo:            repository.NewUserRepository(db),
		tinRepo:             repository.NewTINRepository(db),
		notificationService: notificationService,
		now:                 time.Now,
	}
}

// --- Implementation ---

func (s *tinService) GetStatus(ctx context.Context, userID uuid.UUID) (*TINStatusResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	resp := &TINStatusResponse{
		HasTIN:   user.TIN != "",
		Verified: user.TINVerified,
	}
	if user.TIN != "" {
		masked := format.MaskTIN(user.TIN)
		resp.TIN = &masked
	}

	application, err := s.tinRepo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch TIN application: %w", err)
	}
	if application != nil {
		appResp := toTINApplicationResponse(application)
		resp.Application = &appResp
	}

	return resp, nil
}

func (s *tinService) Apply(ctx context.Context, userID uuid.UUID, req TINApplicationRequest) (*TINApplicationResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if user.TIN != "" && user.TINVerified {
		return nil, apperr.Conflict("a verified TIN is already registered on this account")
	}

	latest, err := s.tinRepo.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch TIN application: %w", err)
	}
	if latest != nil && (latest.Status == model.TINApplicationPending || latest.Status == model.TINApplicationProcessing) {
		return nil, apperr.Conflict(fmt.Sprintf("an application is already in progress: %s", latest.ReferenceNumber))
	}

	if _, err := time.Parse("2006-01-02", req.DateOfBirth); err != nil {
		return nil, apperr.BadRequest("date_of_birth must be in YYYY-MM-DD format")
	}

	now := s.now()
	application := model.TINApplication{
		UserID:          userID,
		ReferenceNumber: reference.TINReference(now.Year()),
		Status:          model.TINApplicationPending,
		FullName:        req.FullName,
		DateOfBirth:     req.DateOfBirth,
		NIN:             req.NIN,
		Address:         req.Address,
		DocumentURL:     req.DocumentURL,
	}
	if err := s.tinRepo.Create(ctx, &application); err != nil {
		return nil, fmt.Errorf("failed to create TIN application: %w", err)
	}

	resp := toTINApplicationResponse(&application)
	return &resp, nil
}

// Verify registers an externally obtained TIN against the account. Format
// validation only; a FIRS lookup integration would slot in here.
func (s *tinService) Verify(ctx context.Context, userID uuid.UUID, req TINVerifyRequest) (*TINVerifyResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if user.TINVerified {
		return nil, apperr.Conflict("TIN is already verified")
	}

	if !validTIN(req.TIN) {
		return nil, apperr.BadRequest("TIN must be 10 to 14 digits, optionally with a dash")
	}

	if err := s.userRepo.SetTIN(ctx, userID, req.TIN, true); err != nil {
		return nil, fmt.Errorf("failed to save TIN: %w", err)
	}

	s.writeAuditLog(ctx, userID, model.ActionVerifyTIN, userID.String(), format.MaskTIN(req.TIN), nil)

	if s.notificationService != nil {
		_ = s.notificationService.Notify(ctx, userID, model.NotificationTINUpdate,
			"TIN Verified", "Your Tax Identification Number has been verified.")
	}

	return &TINVerifyResponse{
		TIN:      format.MaskTIN(req.TIN),
		Verified: true,
		Message:  "TIN verified successfully",
	}, nil
}

// ProcessApplication settles a pending application, assigning the TIN on
// approval. Driven by the back-office, not a user-facing endpoint.
func (s *tinService) ProcessApplication(ctx context.Context, referenceNumber string, approved bool, assignedTIN string) error {
	application, err := s.tinRepo.GetByReference(ctx, referenceNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("TIN application not found")
		}
		return fmt.Errorf("failed to fetch TIN application: %w", err)
	}

	if application.Status == model.TINApplicationApproved || application.Status == model.TINApplicationRejected {
		return apperr.Conflict("application has already been processed")
	}

	now := s.now()
	application.ProcessedAt = &now
	if approved {
		if !validTIN(assignedTIN) {
			return apperr.BadRequest("assigned TIN must be 10 to 14 digits, optionally with a dash")
		}
		application.Status = model.TINApplicationApproved
	} else {
		application.Status = model.TINApplicationRejected
	}

	if err := s.tinRepo.Update(ctx, application); err != nil {
		return fmt.Errorf("failed to update TIN application: %w", err)
	}

	if approved {
		if err := s.userRepo.SetTIN(ctx, application.UserID, assignedTIN, true); err != nil {
			return fmt.Errorf("failed to save TIN: %w", err)
		}
	}

	if s.notificationService != nil {
		title, message := "TIN Application Update", fmt.Sprintf("Your TIN application %s was not approved.", referenceNumber)
		if approved {
			message = fmt.Sprintf("Your TIN application %s has been approved.", referenceNumber)
		}
		_ = s.notificationService.Notify(ctx, application.UserID, model.NotificationTINUpdate, title, message)
	}

	return nil
}

// --- Helpers ---

// validTIN accepts 10-14 digits with at most one dash separator, the shape
// FIRS issues (e.g. "12345678-0001")
func validTIN(tin string) bool {
	digits := 0
	dashes := 0
	for _, r := range tin {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-':
			dashes++
		default:
			return false
		}
	}
	return digits >= 10 && digits <= 14 && dashes <= 1
}

func toTINApplicationResponse(a *model.TINApplication) TINApplicationResponse {
	resp := TINApplicationResponse{
		ReferenceNumber: a.ReferenceNumber,
		Status:          a.Status,
		SubmittedAt:     a.CreatedAt.Format(time.RFC3339),
	}
	if a.ProcessedAt != nil {
		processed := a.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &processed
	}
	return resp
}

func (s *tinService) writeAuditLog(ctx context.Context, userID uuid.UUID, action, entityID, entityName string, details interface{}) {
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
