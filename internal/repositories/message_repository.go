package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"event-service/internal/models"
)

// MessageRepository abstracts direct message persistence.
type MessageRepository interface {
	Create(ctx context.Context, from, to int, body string) (models.Message, error)
	Conversation(ctx context.Context, userA, userB int) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create stores a direct message.
func (r *MessageRepo) Create(ctx context.Context, from, to int, body string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (from_user, to_user, body)
        VALUES ($1, $2, $3) RETURNING id, from_user, to_user, body, created_at`,
		from, to, body).
		StructScan(&msg)
	return msg, err
}

// Conversation returns every message between the pair in either
// direction, oldest first.
func (r *MessageRepo) Conversation(ctx context.Context, userA, userB int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT id, from_user, to_user, body, created_at
        FROM messages
        WHERE (from_user=$1 AND to_user=$2) OR (from_user=$2 AND to_user=$1)
        ORDER BY created_at ASC`, userA, userB)
	return msgs, err
}
