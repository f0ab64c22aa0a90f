package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/gameup-app/gameup-backend/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByChildID(ctx context.Context, childID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) (bool, error)
}

type notificationRepository struct {
	*PostgresRepository
}

func NewNotificationRepository(db *sql.DB, logger zerolog.Logger) NotificationRepository {
	return &notificationRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, child_id, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.ChildID,
		notification.Message,
		notification.IsRead,
		notification.CreatedAt,
	)

	return err
}

func (r *notificationRepository) GetByChildID(ctx context.Context, childID string) ([]models.Notification, error) {
	query := `
		SELECT id, child_id, message, is_read, created_at
		FROM notifications
		WHERE child_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, childID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.ChildID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}
