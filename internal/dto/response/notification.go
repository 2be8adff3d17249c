package response

import (
	"time"

	"golocal-spaces/internal/data/entity"
)

type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      entity.NotificationType `json:"notification_type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	RelatedID *string                 `json:"related_id,omitempty"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

func NotificationToResponse(n *entity.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.RelatedID != nil {
		id := n.RelatedID.String()
		resp.RelatedID = &id
	}
	return resp
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
