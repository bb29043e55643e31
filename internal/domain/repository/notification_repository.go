package repository

import (
	"context"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string) ([]entity.Notification, error)
	// MarkRead flags the notification as read when it belongs to userID.
	MarkRead(ctx context.Context, userID, id string) error
}
