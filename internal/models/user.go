package models

import "time"

// User is an account row. The password hash is never serialized.
type User struct {
	ID           int       `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Avatar       string    `db:"avatar" json:"avatar,omitempty"`
	Online       bool      `db:"online" json:"online"`
	Bio          string    `db:"bio" json:"bio,omitempty"`
	ProfileColor string    `db:"profile_color" json:"profile_color,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserPatch carries a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	Username     *string `json:"username"`
	Avatar       *string `json:"avatar"`
	Bio          *string `json:"bio"`
	ProfileColor *string `json:"profile_color"`
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Avatar == nil && p.Bio == nil && p.ProfileColor == nil
}
