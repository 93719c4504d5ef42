package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sabitax/internal/model"
	"sabitax/internal/repository"
	"sabitax/internal/websocket"
	"sabitax/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type NotificationResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	IsRead    bool    `json:"is_read"`
	ReadAt    *string `json:"read_at"`
	CreatedAt string  `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
	Total         int64                  `json:"total"`
}

// wsEnvelope is the payload pushed over the websocket when a notification
// is created
type wsEnvelope struct {
	Event string               `json:"event"`
	Data  NotificationResponse `json:"data"`
}

// --- Interface ---

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, limit int) (*NotificationListResponse, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	hub              *websocket.Hub
	now              func() time.Time
}

// NewNotificationService creates the in-app notification service. The hub
// may be nil, in which case notifications are stored but not pushed.
func NewNotificationService(db *gorm.DB, hub *websocket.Hub) NotificationService {
	return &notificationService{
		notificationRepo: repository.NewNotificationRepository(db),
		hub:              hub,
		now:              time.Now,
	}
}

// --- Implementation ---

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, limit int) (*NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, unreadOnly, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	items := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, toNotificationResponse(&n))
	}

	return &NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Total:         total,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	affected, err := s.notificationRepo.MarkRead(ctx, notificationID, userID, s.now())
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	affected, err := s.notificationRepo.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return affected, nil
}

// Notify stores a notification and pushes it to the user's open websocket
// connections. The push is best-effort.
func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string) error {
	notification := model.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}
	if err := s.notificationRepo.Create(ctx, &notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.hub != nil {
		payload, err := json.Marshal(wsEnvelope{
			Event: "notification",
			Data:  toNotificationResponse(&notification),
		})
		if err == nil {
			s.hub.SendToUser(userID, payload)
		}
	}
	return nil
}

// --- Helpers ---

func toNotificationResponse(n *model.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		readAt := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &readAt
	}
	return resp
}
