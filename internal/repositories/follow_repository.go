package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"event-service/internal/models"
)

// FollowRepository abstracts the directed follow graph.
type FollowRepository interface {
	Toggle(ctx context.Context, followerID, followingID int) (bool, error)
	Following(ctx context.Context, userID int) ([]models.User, error)
	Followers(ctx context.Context, userID int) ([]models.User, error)
}

// FollowRepo is a sqlx-backed repository.
type FollowRepo struct {
	db *sqlx.DB
}

// NewFollowRepo constructs a FollowRepo.
func NewFollowRepo(db *sqlx.DB) *FollowRepo {
	return &FollowRepo{db: db}
}

// Toggle flips the follower->following edge and reports whether it now
// exists. The unique constraint makes racing toggles converge instead of
// duplicating the edge.
func (r *FollowRepo) Toggle(ctx context.Context, followerID, followingID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM follows WHERE follower_id=$1 AND following_id=$2`,
		followerID, followingID)
	if err != nil {
		return false, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if removed > 0 {
		return false, nil
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO follows (follower_id, following_id)
        VALUES ($1, $2) ON CONFLICT (follower_id, following_id) DO NOTHING`,
		followerID, followingID)
	return true, err
}

// Following returns the users that userID follows.
func (r *FollowRepo) Following(ctx context.Context, userID int) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT `+joinedUserColumns+` FROM follows f
        JOIN users u ON u.id = f.following_id
        WHERE f.follower_id=$1 ORDER BY u.created_at DESC`, userID)
	return users, err
}

// Followers returns the users that follow userID.
func (r *FollowRepo) Followers(ctx context.Context, userID int) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT `+joinedUserColumns+` FROM follows f
        JOIN users u ON u.id = f.follower_id
        WHERE f.following_id=$1 ORDER BY u.created_at DESC`, userID)
	return users, err
}

const joinedUserColumns = `u.id, u.username, u.email, u.password_hash, u.avatar, u.online, u.bio, u.profile_color, u.created_at`
