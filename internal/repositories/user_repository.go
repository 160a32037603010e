package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"event-service/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("username or email already taken")
)

const userColumns = `id, username, email, password_hash, avatar, online, bio, profile_color, created_at`

// UserRepository abstracts account persistence.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Taken(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	SetOnline(ctx context.Context, id int, online bool) error
	Patch(ctx context.Context, id int, patch models.UserPatch) (models.User, error)
}

// UserRepo is a sqlx-backed repository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new account. Duplicate usernames or emails surface as
// ErrDuplicateUser whether caught by the pre-check or the unique index.
func (r *UserRepo) Create(ctx context.Context, user models.User) (models.User, error) {
	var created models.User
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users (username, email, password_hash, avatar)
        VALUES ($1, $2, $3, $4) RETURNING `+userColumns,
		user.Username, user.Email, user.PasswordHash, user.Avatar).
		StructScan(&created)
	if isUniqueViolation(err) {
		return models.User{}, ErrDuplicateUser
	}
	return created, err
}

// GetByID fetches one account.
func (r *UserRepo) GetByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetByEmail fetches an account by email, case-insensitive.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE LOWER(email)=LOWER($1)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// Taken reports whether the username or a non-empty email is already in
// use, matched case-insensitively.
func (r *UserRepo) Taken(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(
        SELECT 1 FROM users WHERE LOWER(username)=LOWER($1) OR ($2 <> '' AND LOWER(email)=LOWER($2)))`,
		username, email)
	return exists, err
}

// List returns all accounts, newest first.
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	return users, err
}

// SetOnline flips the online flag. Idempotent.
func (r *UserRepo) SetOnline(ctx context.Context, id int, online bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET online=$2 WHERE id=$1`, id, online)
	return err
}

// Patch merges the non-nil patch fields into the stored row.
func (r *UserRepo) Patch(ctx context.Context, id int, patch models.UserPatch) (models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx, `UPDATE users SET
        username = COALESCE($2, username),
        avatar = COALESCE($3, avatar),
        bio = COALESCE($4, bio),
        profile_color = COALESCE($5, profile_color)
        WHERE id=$1 RETURNING `+userColumns,
		id, patch.Username, patch.Avatar, patch.Bio, patch.ProfileColor).
		StructScan(&user)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if isUniqueViolation(err) {
		return models.User{}, ErrDuplicateUser
	}
	return user, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
