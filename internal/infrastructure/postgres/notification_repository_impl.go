package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	"github.com/oksasatya/savings-tracker/internal/domain/repository"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	return conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO notifications (id, user_id, title, message, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, is_read
	`, n.ID, n.UserID, n.Title, n.Message, string(n.Type)).Scan(&n.CreatedAt, &n.IsRead)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]entity.Notification, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, user_id, title, message, type, created_at, is_read
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 100
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Notification, 0)
	for rows.Next() {
		var n entity.Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &typ, &n.CreatedAt, &n.IsRead); err != nil {
			return nil, err
		}
		n.Type = entity.NotificationType(typ)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	res, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return notFound(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
