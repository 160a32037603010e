package models

import "time"

// Message is a direct message row. Storage is directional; conversation
// views are symmetric over the (from, to) pair.
type Message struct {
	ID        int       `db:"id" json:"id"`
	FromUser  int       `db:"from_user" json:"from"`
	ToUser    int       `db:"to_user" json:"to"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
