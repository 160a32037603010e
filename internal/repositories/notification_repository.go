package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"event-service/internal/models"
)

// NotificationRepository abstracts notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	ListRecent(ctx context.Context, userID, limit int) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID int) error
}

// NotificationRepo is a sqlx-backed repository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create stores a notification for a recipient.
func (r *NotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	var created models.Notification
	err := r.db.QueryRowxContext(ctx, `INSERT INTO notifications (user_id, type, title, body, payload)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, user_id, type, title, body, payload, read, created_at`,
		n.UserID, n.Type, n.Title, n.Body, n.Payload).
		StructScan(&created)
	return created, err
}

// ListRecent returns the newest notifications for a recipient.
func (r *NotificationRepo) ListRecent(ctx context.Context, userID, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.SelectContext(ctx, &notifications, `SELECT id, user_id, type, title, body, payload, read, created_at
        FROM notifications WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	return notifications, err
}

// MarkAllRead flags every notification for the recipient as read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET read=TRUE WHERE user_id=$1`, userID)
	return err
}
