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

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type BankAccountResponse struct {
	ID            string  `json:"id"`
	Provider      string  `json:"provider"`
	BankName      string  `json:"bank_name"`
	AccountName   string  `json:"account_name"`
	AccountNumber string  `json:"account_number"` // masked
	Status        string  `json:"status"`
	LastSyncedAt  *string `json:"last_synced_at"`
	LinkedAt      string  `json:"linked_at"`
}

type BankAccountListResponse struct {
	Accounts []BankAccountResponse `json:"accounts"`
}

type LinkBankAccountRequest struct {
	Provider      string `json:"provider" binding:"required,oneof=mono okra"`
	ProviderRef   string `json:"provider_ref" binding:"required"`
	BankName      string `json:"bank_name" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
}

// --- Interface ---

type BankService interface {
	ListAccounts(ctx context.Context, userID uuid.UUID) (*BankAccountListResponse, error)
	LinkAccount(ctx context.Context, userID uuid.UUID, req LinkBankAccountRequest) (*BankAccountResponse, error)
	SyncAccount(ctx context.Context, userID, accountID uuid.UUID) (*BankAccountResponse, error)
	UnlinkAccount(ctx context.Context, userID, accountID uuid.UUID) error
}

type bankService struct {
	db       *gorm.DB
	bankRepo repository.BankRepository
	now      func() time.Time
}

func NewBankService(db *gorm.DB) BankService {
	return &bankService{
		db:       db,
		bankRepo: repository.NewBankRepository(db),
		now:      time.Now,
	}
}

// --- Implementation ---

func (s *bankService) ListAccounts(ctx context.Context, userID uuid.UUID) (*BankAccountListResponse, error) {
	accounts, err := s.bankRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}

	items := make([]BankAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, toBankAccountResponse(&a))
	}
	return &BankAccountListResponse{Accounts: items}, nil
}

// LinkAccount records a connection handed back by the aggregator widget.
// The provider exchange token is kept for the sync worker, never exposed.
func (s *bankService) LinkAccount(ctx context.Context, userID uuid.UUID, req LinkBankAccountRequest) (*BankAccountResponse, error) {
	existing, err := s.bankRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	for _, a := range existing {
		if a.Provider == req.Provider && a.AccountNumber == req.AccountNumber {
			return nil, apperr.Conflict("this account is already linked")
		}
	}

	account := model.BankAccount{
		UserID:        userID,
		Provider:      req.Provider,
		ProviderRef:   req.ProviderRef,
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		Status:        model.BankLinkLinked,
	}
	if err := s.bankRepo.Create(ctx, &account); err != nil {
		return nil, fmt.Errorf("failed to link bank account: %w", err)
	}

	s.writeAuditLog(ctx, userID, model.ActionLinkBankAccount, account.ID.String(),
		fmt.Sprintf("%s %s", account.BankName, format.MaskAccountNumber(account.AccountNumber)), nil)

	resp := toBankAccountResponse(&account)
	return &resp, nil
}

// SyncAccount refreshes a linked account from its provider. The provider
// pull itself is stubbed; a pending link is promoted on first sync and the
// sync timestamp always advances.
func (s *bankService) SyncAccount(ctx context.Context, userID, accountID uuid.UUID) (*BankAccountResponse, error) {
	account, err := s.bankRepo.GetByID(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("bank account not found")
		}
		return nil, fmt.Errorf("failed to fetch bank account: %w", err)
	}

	if account.Status == model.BankLinkFailed {
		return nil, apperr.Conflict("account link failed, unlink and connect it again")
	}

	now := s.now()
	if account.Status == model.BankLinkPending {
		if err := s.bankRepo.UpdateStatus(ctx, accountID, model.BankLinkLinked); err != nil {
			return nil, fmt.Errorf("failed to update account status: %w", err)
		}
		account.Status = model.BankLinkLinked
	}
	if err := s.bankRepo.TouchSynced(ctx, accountID, now); err != nil {
		return nil, fmt.Errorf("failed to record sync time: %w", err)
	}
	account.LastSyncedAt = &now

	resp := toBankAccountResponse(account)
	return &resp, nil
}

func (s *bankService) UnlinkAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	account, err := s.bankRepo.GetByID(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("bank account not found")
		}
		return fmt.Errorf("failed to fetch bank account: %w", err)
	}

	if err := s.bankRepo.Delete(ctx, accountID, userID); err != nil {
		return fmt.Errorf("failed to unlink bank account: %w", err)
	}

	s.writeAuditLog(ctx, userID, model.ActionUnlinkBankAccount, account.ID.String(),
		fmt.Sprintf("%s %s", account.BankName, format.MaskAccountNumber(account.AccountNumber)), nil)
	return nil
}

// --- Helpers ---

func toBankAccountResponse(a *model.BankAccount) BankAccountResponse {
	resp := BankAccountResponse{
		ID:            a.ID.String(),
		Provider:      a.Provider,
		BankName:      a.BankName,
		AccountName:   a.AccountName,
		AccountNumber: format.MaskAccountNumber(a.AccountNumber),
		Status:        a.Status,
		LinkedAt:      a.CreatedAt.Format(time.RFC3339),
	}
	if a.LastSyncedAt != nil {
		synced := a.LastSyncedAt.Format(time.RFC3339)
		resp.LastSyncedAt = &synced
	}
	return resp
}

func (s *bankService) writeAuditLog(ctx context.Context, userID uuid.UUID, action, entityID, entityName string, details interface{}) {
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
