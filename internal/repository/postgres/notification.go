package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
)

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(base BaseRepository) repository.NotificationRepository {
	return &notificationRepository{base}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.EmailNotification) error {
	query := `
		INSERT INTO email_notifications (
			user_id, notification_type, subject, message, success, created_at
		) VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		n.UserID,
		n.Type,
		n.Subject,
		n.Message,
		n.Success,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log email notification: %w", err)
	}
	return nil
}
