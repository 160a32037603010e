package models

import "time"

// Comment is a child of an event, listed oldest-first.
type Comment struct {
	ID        int       `db:"id" json:"id"`
	EventID   int       `db:"event_id" json:"event_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	Avatar    string    `db:"avatar" json:"avatar,omitempty"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Follow is a directed edge in the social graph.
type Follow struct {
	ID          int `db:"id" json:"id"`
	FollowerID  int `db:"follower_id" json:"follower_id"`
	FollowingID int `db:"following_id" json:"following_id"`
}

// Notification types created by the service itself. Arbitrary types may
// still arrive through the direct creation endpoint.
const (
	NotificationFollow = "follow"
	NotificationRSVP   = "rsvp"
	NotificationInvite = "invite"
)

// Notification is delivered to a single recipient.
type Notification struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Type      string    `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body,omitempty"`
	Payload   Payload   `db:"payload" json:"payload,omitempty"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
