package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"sabitax/internal/model"
	"sabitax/internal/repository"
	"sabitax/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- In-memory fakes ---

type fakeTINRepo struct {
	applications []*model.TINApplication
}

func (f *fakeTINRepo) Create(ctx context.Context, application *model.TINApplication) error {
	application.ID = uuid.New()
	application.CreatedAt = time.Now()
	copied := *application
	f.applications = append(f.applications, &copied)
	return nil
}

func (f *fakeTINRepo) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*model.TINApplication, error) {
	var latest *model.TINApplication
	for _, a := range f.applications {
		if a.UserID == userID && (latest == nil || a.CreatedAt.After(latest.CreatedAt)) {
			latest = a
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeTINRepo) GetByReference(ctx context.Context, reference string) (*model.TINApplication, error) {
	for _, a := range f.applications {
		if a.ReferenceNumber == reference {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTINRepo) Update(ctx context.Context, application *model.TINApplication) error {
	for i, a := range f.applications {
		if a.ID == application.ID {
			copied := *application
			f.applications[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.TINRepository = (*fakeTINRepo)(nil)

// fakeNotifier records Notify calls; the list/read paths are not under test
type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, limit int) (*NotificationListResponse, error) {
	return &NotificationListResponse{}, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (f *fakeNotifier) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string) error {
	f.sent = append(f.sent, notifType+": "+message)
	return nil
}

var _ NotificationService = (*fakeNotifier)(nil)

// --- Tests ---

func newTestTINService(users *fakeUserRepo, tins *fakeTINRepo, notifier *fakeNotifier) *tinService {
	return &tinService{
		userRepo:            users,
		tinRepo:             tins,
		notificationService: notifier,
		now:                 func() time.Time { return time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC) },
	}
}

func TestApply(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "joe@example.com", Name: "Joe"}

	validReq := TINApplicationRequest{
		FullName:    "Joe Okafor",
		DateOfBirth: "1990-04-12",
		NIN:         "12345678901",
		Address:     "12 Allen Avenue, Ikeja, Lagos",
	}

	t.Run("creates a pending application", func(t *testing.T) {
		tins := &fakeTINRepo{}
		svc := newTestTINService(newFakeUserRepo(user), tins, &fakeNotifier{})

		resp, err := svc.Apply(context.Background(), user.ID, validReq)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if resp.Status != model.TINApplicationPending {
			t.Errorf("Status = %s, want pending", resp.Status)
		}
		if !strings.HasPrefix(resp.ReferenceNumber, "TIN-2026-") {
			t.Errorf("ReferenceNumber = %s, want TIN-2026- prefix", resp.ReferenceNumber)
		}
	})

	t.Run("rejects a second in-flight application", func(t *testing.T) {
		tins := &fakeTINRepo{}
		svc := newTestTINService(newFakeUserRepo(user), tins, &fakeNotifier{})

		if _, err := svc.Apply(context.Background(), user.ID, validReq); err != nil {
			t.Fatalf("first Apply() error = %v", err)
		}
		_, err := svc.Apply(context.Background(), user.ID, validReq)
		if apperr.Status(err) != 409 {
			t.Errorf("second Apply() error = %v, want conflict", err)
		}
	})

	t.Run("rejects when a verified TIN exists", func(t *testing.T) {
		verified := &model.User{ID: uuid.New(), Email: "ada@example.com", TIN: "12345678-0001", TINVerified: true}
		svc := newTestTINService(newFakeUserRepo(verified), &fakeTINRepo{}, &fakeNotifier{})

		_, err := svc.Apply(context.Background(), verified.ID, validReq)
		if apperr.Status(err) != 409 {
			t.Errorf("Apply() error = %v, want conflict", err)
		}
	})

	t.Run("rejects malformed date of birth", func(t *testing.T) {
		svc := newTestTINService(newFakeUserRepo(user), &fakeTINRepo{}, &fakeNotifier{})

		badReq := validReq
		badReq.DateOfBirth = "12/04/1990"
		_, err := svc.Apply(context.Background(), user.ID, badReq)
		if apperr.Status(err) != 400 {
			t.Errorf("Apply() error = %v, want bad request", err)
		}
	})
}

func TestProcessApplication(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "joe@example.com", Name: "Joe"}

	submit := func(t *testing.T, svc *tinService) string {
		t.Helper()
		resp, err := svc.Apply(context.Background(), user.ID, TINApplicationRequest{
			FullName:    "Joe Okafor",
			DateOfBirth: "1990-04-12",
			NIN:         "12345678901",
			Address:     "12 Allen Avenue, Ikeja, Lagos",
		})
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		return resp.ReferenceNumber
	}

	t.Run("approval assigns the TIN and notifies", func(t *testing.T) {
		users := newFakeUserRepo(user)
		notifier := &fakeNotifier{}
		svc := newTestTINService(users, &fakeTINRepo{}, notifier)
		ref := submit(t, svc)

		if err := svc.ProcessApplication(context.Background(), ref, true, "12345678-0001"); err != nil {
			t.Fatalf("ProcessApplication() error = %v", err)
		}

		stored := users.users[user.ID]
		if stored.TIN != "12345678-0001" || !stored.TINVerified {
			t.Errorf("user TIN = (%q, %v), want assigned and verified", stored.TIN, stored.TINVerified)
		}
		if len(notifier.sent) != 1 || !strings.Contains(notifier.sent[0], "approved") {
			t.Errorf("notifications = %v, want one approval message", notifier.sent)
		}

		status, err := svc.GetStatus(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("GetStatus() error = %v", err)
		}
		if status.Application == nil || status.Application.Status != model.TINApplicationApproved {
			t.Errorf("application = %+v, want approved", status.Application)
		}
		if status.Application.ProcessedAt == nil {
			t.Error("ProcessedAt was not set")
		}
	})

	t.Run("rejection leaves the user without a TIN", func(t *testing.T) {
		users := newFakeUserRepo(&model.User{ID: user.ID, Email: user.Email, Name: user.Name})
		notifier := &fakeNotifier{}
		svc := newTestTINService(users, &fakeTINRepo{}, notifier)
		ref := submit(t, svc)

		if err := svc.ProcessApplication(context.Background(), ref, false, ""); err != nil {
			t.Fatalf("ProcessApplication() error = %v", err)
		}

		if users.users[user.ID].TIN != "" {
			t.Errorf("user TIN = %q, want empty after rejection", users.users[user.ID].TIN)
		}
		if len(notifier.sent) != 1 || !strings.Contains(notifier.sent[0], "not approved") {
			t.Errorf("notifications = %v, want one rejection message", notifier.sent)
		}
	})

	t.Run("processing twice is rejected", func(t *testing.T) {
		svc := newTestTINService(newFakeUserRepo(user), &fakeTINRepo{}, &fakeNotifier{})
		ref := submit(t, svc)

		if err := svc.ProcessApplication(context.Background(), ref, true, "12345678-0001"); err != nil {
			t.Fatalf("ProcessApplication() error = %v", err)
		}
		err := svc.ProcessApplication(context.Background(), ref, true, "12345678-0001")
		if apperr.Status(err) != 409 {
			t.Errorf("second ProcessApplication() error = %v, want conflict", err)
		}
	})

	t.Run("unknown reference", func(t *testing.T) {
		svc := newTestTINService(newFakeUserRepo(user), &fakeTINRepo{}, &fakeNotifier{})

		err := svc.ProcessApplication(context.Background(), "TIN-2026-00000000", true, "12345678-0001")
		if apperr.Status(err) != 404 {
			t.Errorf("ProcessApplication() error = %v, want not found", err)
		}
	})

	t.Run("approval with a malformed TIN", func(t *testing.T) {
		svc := newTestTINService(newFakeUserRepo(user), &fakeTINRepo{}, &fakeNotifier{})
		ref := submit(t, svc)

		err := svc.ProcessApplication(context.Background(), ref, true, "not-a-tin")
		if apperr.Status(err) != 400 {
			t.Errorf("ProcessApplication() error = %v, want bad request", err)
		}
	})
}

func TestValidTIN(t *testing.T) {
	tests := []struct {
		tin  string
		want bool
	}{
		{"1234567890", true},
		{"12345678-0001", true},
		{"12345678901234", true},
		{"123456789", false},
		{"123456789012345", false},
		{"12-34-5678901", false},
		{"12345678 0001", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validTIN(tt.tin); got != tt.want {
			t.Errorf("validTIN(%q) = %v, want %v", tt.tin, got, tt.want)
		}
	}
}
