// Package notify manages user-facing notifications. They are written
// explicitly by the operation that warrants one; nothing here derives
// them from the activity log.
package notify

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/livequery"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/realtime"
	"github.com/lalith-99/communityhub/internal/repository"
	"go.uber.org/zap"
)

const TableNotifications = "notifications"

// Service stores notifications and pushes each insert to its recipient.
type Service struct {
	repo     repository.NotificationRepository
	announce *realtime.Announcer
	logger   *zap.Logger
}

func NewService(repo repository.NotificationRepository, announce *realtime.Announcer, logger *zap.Logger) *Service {
	return &Service{repo: repo, announce: announce, logger: logger}
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// Create stores n and publishes it. The publish is best-effort.
func (s *Service) Create(ctx context.Context, n models.Notification) (*models.Notification, error) {
	n.Title = strings.TrimSpace(n.Title)
	if n.UserID == uuid.Nil {
		return nil, apperr.Validation("notification recipient is required")
	}
	if n.Title == "" {
		return nil, apperr.Validation("notification title is required")
	}

	out, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	s.announce.Insert(ctx, TableNotifications, out, livequery.NotificationsKey(n.UserID))
	return out, nil
}

// CreateBestEffort is for notifications that follow a primary write which
// already succeeded. Failures are logged, never returned.
func (s *Service) CreateBestEffort(ctx context.Context, n models.Notification) {
	if _, err := s.Create(ctx, n); err != nil {
		s.logger.Warn("failed to create notification",
			zap.Stringer("user_id", n.UserID),
			zap.String("type", n.Type),
			zap.Error(err),
		)
	}
}

// MarkRead only affects the caller's own notification.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	ok, err := s.repo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification")
	}
	s.announce.Invalidate(livequery.NotificationsKey(userID))
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.announce.Invalidate(livequery.NotificationsKey(userID))
	}
	return n, nil
}
