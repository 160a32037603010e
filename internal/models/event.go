package models

import "time"

// Privacy values accepted for an event.
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// Event is a discoverable event row. Rsvps is joined in from the
// event_rsvps relation and always serialized, empty or not.
type Event struct {
	ID            int        `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Location      string     `db:"location" json:"location"`
	Category      string     `db:"category" json:"category"`
	CategoryColor string     `db:"category_color" json:"category_color,omitempty"`
	Host          string     `db:"host" json:"host"`
	HostAvatar    string     `db:"host_avatar" json:"host_avatar,omitempty"`
	Privacy       string     `db:"privacy" json:"privacy"`
	Lat           float64    `db:"lat" json:"lat"`
	Lng           float64    `db:"lng" json:"lng"`
	Description   string     `db:"description" json:"description,omitempty"`
	Date          string     `db:"date" json:"date,omitempty"`
	Time          string     `db:"time" json:"time,omitempty"`
	MaxAttendees  int        `db:"max_attendees" json:"max_attendees,omitempty"`
	Tags          StringList `db:"tags" json:"tags"`
	Image         string     `db:"image" json:"image,omitempty"`
	CreatedBy     int        `db:"created_by" json:"created_by,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	Rsvps         []RSVP     `db:"-" json:"rsvps"`
}

// RSVP is one attendee entry on an event.
type RSVP struct {
	UserID   int    `db:"user_id" json:"userId"`
	Username string `db:"username" json:"username"`
}

// HasRSVP reports whether userID is on the list.
func (e Event) HasRSVP(userID int) bool {
	for _, r := range e.Rsvps {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
