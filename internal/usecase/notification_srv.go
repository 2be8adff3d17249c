package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/internal/data/repository"
	"golocal-spaces/internal/dto/request"
	"golocal-spaces/internal/dto/response"
	"golocal-spaces/pkg/apperror"
	"golocal-spaces/pkg/broker"
	"golocal-spaces/pkg/utils"
	"golocal-spaces/pkg/worker"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService interface {
	// Notify queues n and returns immediately. Failures are reported to the
	// task pool's failure hook, never to the caller.
	Notify(ctx context.Context, n *entity.Notification)
	// NotifyNow writes n synchronously. A notification whose DedupeKey was
	// already written is skipped without error.
	NotifyNow(ctx context.Context, n *entity.Notification) error

	ListNotifications(ctx context.Context, userID uuid.UUID, req *request.ListNotificationsRequest) (*response.PaginatedResponse[response.NotificationResponse], error)
	MarkRead(ctx context.Context, userID uuid.UUID, notificationID string) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	tasks            TaskSubmitter
	publisher        broker.Publisher
	log              *zap.Logger
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	tasks TaskSubmitter,
	publisher broker.Publisher,
	log *zap.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		tasks:            tasks,
		publisher:        publisher,
		log:              log.With(zap.String("service", "notification")),
	}
}

// NewNotification builds a notification for userID about relatedID.
func NewNotification(userID uuid.UUID, nType entity.NotificationType, title, message string, relatedID *uuid.UUID) *entity.Notification {
	return &entity.Notification{
		UserID:    userID,
		Type:      nType,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
}

// DedupeKey joins parts into a stable notification dedupe key.
func DedupeKey(parts ...string) *string {
	key := strings.Join(parts, ":")
	return &key
}

func (s *notificationService) Notify(ctx context.Context, n *entity.Notification) {
	s.tasks.Submit(worker.Task{
		Name: "notify:" + string(n.Type),
		Run: func(taskCtx context.Context) error {
			return s.NotifyNow(taskCtx, n)
		},
	})
}

func (s *notificationService) NotifyNow(ctx context.Context, n *entity.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	inserted, err := s.notificationRepo.Create(ctx, n)
	if err != nil {
		s.log.Error("Failed to create notification",
			zap.Error(err),
			zap.String("user_id", n.UserID.String()),
			zap.String("type", string(n.Type)))
		return apperror.Persistence("failed to create notification", err)
	}
	if !inserted {
		s.log.Debug("Notification already sent", zap.Stringp("dedupe_key", n.DedupeKey))
		return nil
	}

	s.publish(ctx, n)
	return nil
}

type notificationEvent struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Type      string  `json:"notification_type"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	RelatedID *string `json:"related_id,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// publish fans the stored notification out to downstream consumers. Delivery
// there is best-effort; the stored row is the source of truth.
func (s *notificationService) publish(ctx context.Context, n *entity.Notification) {
	resp := response.NotificationToResponse(n)
	payload, err := json.Marshal(notificationEvent{
		ID:        resp.ID,
		UserID:    n.UserID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: resp.RelatedID,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.log.Warn("Failed to encode notification event", zap.Error(err))
		return
	}

	if err := s.publisher.Publish(ctx, []byte(n.UserID.String()), payload); err != nil {
		s.log.Warn("Failed to publish notification event",
			zap.Error(err),
			zap.String("notification_id", resp.ID))
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, userID uuid.UUID, req *request.ListNotificationsRequest) (*response.PaginatedResponse[response.NotificationResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.ValidationFields("validation failed", errs)
	}

	notifications, err := s.notificationRepo.FindByUserID(ctx, userID, req.UnreadOnly, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list notifications", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Persistence("failed to list notifications", err)
	}

	total, err := s.notificationRepo.CountByUserID(ctx, userID, req.UnreadOnly)
	if err != nil {
		s.log.Error("Failed to count notifications", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Persistence("failed to count notifications", err)
	}

	data := make([]response.NotificationResponse, len(notifications))
	for i, n := range notifications {
		data[i] = response.NotificationToResponse(n)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID uuid.UUID, notificationID string) error {
	id, err := uuid.Parse(notificationID)
	if err != nil {
		return apperror.Validation("invalid notification ID")
	}

	updated, err := s.notificationRepo.MarkRead(ctx, id, userID)
	if err != nil {
		s.log.Error("Failed to mark notification read", zap.Error(err), zap.String("notification_id", notificationID))
		return apperror.Persistence("failed to update notification", err)
	}
	if !updated {
		return apperror.NotFound("notification not found")
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		s.log.Error("Failed to mark notifications read", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, apperror.Persistence("failed to update notifications", err)
	}
	return count, nil
}
