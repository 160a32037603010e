package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"event-service/internal/models"
)

// CommentRepository abstracts event comment persistence.
type CommentRepository interface {
	ListByEvent(ctx context.Context, eventID int) ([]models.Comment, error)
	Create(ctx context.Context, comment models.Comment) (models.Comment, error)
	Delete(ctx context.Context, id int) error
}

// CommentRepo is a sqlx-backed repository.
type CommentRepo struct {
	db *sqlx.DB
}

// NewCommentRepo constructs a CommentRepo.
func NewCommentRepo(db *sqlx.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

// ListByEvent returns an event's comments, oldest first.
func (r *CommentRepo) ListByEvent(ctx context.Context, eventID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.SelectContext(ctx, &comments, `SELECT id, event_id, user_id, username, avatar, body, created_at
        FROM comments WHERE event_id=$1 ORDER BY created_at ASC`, eventID)
	return comments, err
}

// Create stores a comment.
func (r *CommentRepo) Create(ctx context.Context, comment models.Comment) (models.Comment, error) {
	var created models.Comment
	err := r.db.QueryRowxContext(ctx, `INSERT INTO comments (event_id, user_id, username, avatar, body)
        VALUES ($1, $2, $3, $4, $5) RETURNING id, event_id, user_id, username, avatar, body, created_at`,
		comment.EventID, comment.UserID, comment.Username, comment.Avatar, comment.Body).
		StructScan(&created)
	return created, err
}

// Delete removes a comment. Deleting an absent row is not an error.
func (r *CommentRepo) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id=$1`, id)
	return err
}
