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

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type SubscriptionPlanResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         string   `json:"price"`
	Currency      string   `json:"currency"`
	BillingPeriod *string  `json:"billing_period"`
	Features      []string `json:"features"`
}

type SubscriptionPlansResponse struct {
	Plans []SubscriptionPlanResponse `json:"plans"`
}

type CurrentSubscriptionResponse struct {
	PlanID    string  `json:"plan_id"`
	PlanName  string  `json:"plan_name"`
	Status    string  `json:"status"`
	StartedAt string  `json:"started_at"`
	ExpiresAt *string `json:"expires_at"`
}

type UpgradeSubscriptionRequest struct {
	PlanID           string `json:"plan_id" binding:"required"`
	PaymentReference string `json:"payment_reference"`
}

type UpgradeSubscriptionResponse struct {
	PlanID    string  `json:"plan_id"`
	PlanName  string  `json:"plan_name"`
	Status    string  `json:"status"`
	ExpiresAt *string `json:"expires_at"`
}

type CancelSubscriptionResponse struct {
	Message     string  `json:"message"`
	CancelledAt string  `json:"cancelled_at"`
	AccessUntil *string `json:"access_until"`
}

// --- Interface ---

type SubscriptionService interface {
	GetPlans(ctx context.Context) (*SubscriptionPlansResponse, error)
	GetCurrent(ctx context.Context, userID uuid.UUID) (*CurrentSubscriptionResponse, error)
	Upgrade(ctx context.Context, userID uuid.UUID, req UpgradeSubscriptionRequest) (*UpgradeSubscriptionResponse, error)
	Cancel(ctx context.Context, userID uuid.UUID) (*CancelSubscriptionResponse, error)
	ExpireLapsed(ctx context.Context) (int64, error)
}

type subscriptionService struct {
	db               *gorm.DB
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
	referralService  ReferralService
	txManager        repository.TransactionManager
	now              func() time.Time
}

// NewSubscriptionService wires plan management to its stores. The referral
// service is notified on upgrade: the first paid action completes a pending
// referral.
func NewSubscriptionService(db *gorm.DB, referralService ReferralService) SubscriptionService {
	return &subscriptionService{
		db:               db,
		userRepo:         repository.NewUserRepository(db),
		subscriptionRepo: repository.NewSubscriptionRepository(db),
		referralService:  referralService,
		txManager:        repository.NewTransactionManager(db),
		now:              time.Now,
	}
}

// --- Implementation ---

func (s *subscriptionService) GetPlans(ctx context.Context) (*SubscriptionPlansResponse, error) {
	plans := make([]SubscriptionPlanResponse, 0, len(model.PlanCatalog))
	for _, p := range model.PlanCatalog {
		plan := SubscriptionPlanResponse{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price.StringFixed(2),
			Currency: p.Currency,
			Features: p.Features,
		}
		if p.BillingPeriod != "" {
			period := p.BillingPeriod
			plan.BillingPeriod = &period
		}
		plans = append(plans, plan)
	}
	return &SubscriptionPlansResponse{Plans: plans}, nil
}

func (s *subscriptionService) GetCurrent(ctx context.Context, userID uuid.UUID) (*CurrentSubscriptionResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	sub, err := s.subscriptionRepo.GetActiveByUser(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}

	if sub == nil {
		// No paid subscription row — the account is on the implicit free plan
		return &CurrentSubscriptionResponse{
			PlanID:    model.PlanFree,
			PlanName:  "Free",
			Status:    model.SubscriptionStatusActive,
			StartedAt: user.CreatedAt.Format(time.RFC3339),
		}, nil
	}

	plan, ok := model.PlanByID(sub.PlanID)
	if !ok {
		plan, _ = model.PlanByID(model.PlanFree)
	}

	resp := &CurrentSubscriptionResponse{
		PlanID:    sub.PlanID,
		PlanName:  plan.Name,
		Status:    sub.Status,
		StartedAt: sub.StartedAt.Format(time.RFC3339),
	}
	if sub.ExpiresAt != nil {
		expires := sub.ExpiresAt.Format(time.RFC3339)
		resp.ExpiresAt = &expires
	}
	return resp, nil
}

func (s *subscriptionService) Upgrade(ctx context.Context, userID uuid.UUID, req UpgradeSubscriptionRequest) (*UpgradeSubscriptionResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	plan, ok := model.PlanByID(req.PlanID)
	if !ok {
		return nil, apperr.BadRequest("invalid subscription plan")
	}
	if plan.ID == model.PlanFree {
		return nil, apperr.BadRequest("cannot upgrade to the free plan, use cancel instead")
	}

	now := s.now()

	// Only a live subscription blocks a repeat purchase; a lapsed or
	// cancelled one must not stop a renewal
	active, err := s.subscriptionRepo.GetActiveByUser(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	if active != nil && active.PlanID == plan.ID {
		return nil, apperr.Conflict(fmt.Sprintf("already subscribed to %s", plan.Name))
	}
	sub := model.Subscription{
		UserID:           userID,
		PlanID:           plan.ID,
		Status:           model.SubscriptionStatusActive,
		PaymentReference: req.PaymentReference,
		AmountPaid:       plan.Price,
		StartedAt:        now,
		ExpiresAt:        model.PlanExpiry(plan, now),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.subscriptionRepo.Create(txCtx, &sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		if err := s.userRepo.UpdateSubscriptionPlan(txCtx, userID, plan.ID); err != nil {
			return fmt.Errorf("failed to update account plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// First paid action qualifies a pending referral for completion.
	// Best-effort: a referral failure never rolls back a paid upgrade.
	if _, err := s.referralService.Complete(ctx, userID); err != nil {
		s.writeAuditLog(ctx, userID, model.ActionCompleteReferral, userID.String(),
			"referral completion failed", map[string]string{"error": err.Error()})
	}

	s.writeAuditLog(ctx, userID, model.ActionUpgradePlan, sub.ID.String(), plan.Name, req)

	resp := &UpgradeSubscriptionResponse{
		PlanID:   sub.PlanID,
		PlanName: plan.Name,
		Status:   sub.Status,
	}
	if sub.ExpiresAt != nil {
		expires := sub.ExpiresAt.Format(time.RFC3339)
		resp.ExpiresAt = &expires
	}
	return resp, nil
}

// Cancel flips the active subscription to cancelled and resets the account
// plan to free. The historical row keeps its expiry, so the already-paid
// window remains visible as the access-until bound.
func (s *subscriptionService) Cancel(ctx context.Context, userID uuid.UUID) (*CancelSubscriptionResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if user.SubscriptionPlan == model.PlanFree {
		return nil, apperr.BadRequest("you are already on the free plan")
	}

	now := s.now()
	sub, err := s.subscriptionRepo.GetActiveByUser(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}

	resp := &CancelSubscriptionResponse{
		Message:     "Subscription cancelled",
		CancelledAt: now.Format(time.RFC3339),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if sub != nil {
			if err := s.subscriptionRepo.Cancel(txCtx, sub.ID, now); err != nil {
				return fmt.Errorf("failed to cancel subscription: %w", err)
			}
		}
		return s.userRepo.UpdateSubscriptionPlan(txCtx, userID, model.PlanFree)
	})
	if err != nil {
		return nil, err
	}

	if sub != nil {
		resp.Message = "Subscription cancelled successfully"
		if sub.ExpiresAt != nil {
			until := sub.ExpiresAt.Format(time.RFC3339)
			resp.AccessUntil = &until
		}
		s.writeAuditLog(ctx, userID, model.ActionCancelPlan, sub.ID.String(), sub.PlanID, nil)
	}

	return resp, nil
}

// ExpireLapsed sweeps subscriptions whose paid window has passed, flipping
// the rows to expired and dropping the affected accounts back to the free
// plan. Called periodically from the server process.
func (s *subscriptionService) ExpireLapsed(ctx context.Context) (int64, error) {
	now := s.now()

	var expired int64
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		userIDs, err := s.subscriptionRepo.LapsedUserIDs(txCtx, now)
		if err != nil {
			return fmt.Errorf("failed to list lapsed subscribers: %w", err)
		}

		expired, err = s.subscriptionRepo.ExpireLapsed(txCtx, now)
		if err != nil {
			return fmt.Errorf("failed to expire lapsed subscriptions: %w", err)
		}

		for _, userID := range userIDs {
			// A newer paid row keeps the account on its plan
			active, err := s.subscriptionRepo.GetActiveByUser(txCtx, userID, now)
			if err != nil {
				return fmt.Errorf("failed to fetch subscription: %w", err)
			}
			if active != nil {
				continue
			}
			if err := s.userRepo.UpdateSubscriptionPlan(txCtx, userID, model.PlanFree); err != nil {
				return fmt.Errorf("failed to reset account plan: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}

// --- Helpers ---

func (s *subscriptionService) writeAuditLog(ctx context.Context, userID uuid.UUID, action, entityID, entityName string, details interface{}) {
	if s.db == nil {
		return
	}

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
