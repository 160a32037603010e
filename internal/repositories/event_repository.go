package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"event-service/internal/models"
)

var ErrEventNotFound = errors.New("event not found")

const eventColumns = `id, name, location, category, category_color, host, host_avatar, privacy,
    lat, lng, description, date, time, max_attendees, tags, image, created_by, created_at`

// EventRepository abstracts event persistence, RSVP list included.
type EventRepository interface {
	Create(ctx context.Context, ev models.Event) (models.Event, error)
	Get(ctx context.Context, id int) (models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Delete(ctx context.Context, id int) error
	ToggleRSVP(ctx context.Context, eventID int, rsvp models.RSVP) (bool, error)
	Trending(ctx context.Context, since time.Time) ([]models.Event, error)
}

// EventRepo is a sqlx-backed repository.
type EventRepo struct {
	db *sqlx.DB
}

// NewEventRepo constructs an EventRepo.
func NewEventRepo(db *sqlx.DB) *EventRepo {
	return &EventRepo{db: db}
}

// Create stores an event and returns the stored row.
func (r *EventRepo) Create(ctx context.Context, ev models.Event) (models.Event, error) {
	var created models.Event
	err := r.db.QueryRowxContext(ctx, `INSERT INTO events
        (name, location, category, category_color, host, host_avatar, privacy, lat, lng,
         description, date, time, max_attendees, tags, image, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING `+eventColumns,
		ev.Name, ev.Location, ev.Category, ev.CategoryColor, ev.Host, ev.HostAvatar,
		ev.Privacy, ev.Lat, ev.Lng, ev.Description, ev.Date, ev.Time, ev.MaxAttendees,
		ev.Tags, ev.Image, ev.CreatedBy).
		StructScan(&created)
	if err != nil {
		return models.Event{}, err
	}
	created.Rsvps = []models.RSVP{}
	return created, nil
}

// Get fetches an event with its RSVP list.
func (r *EventRepo) Get(ctx context.Context, id int) (models.Event, error) {
	var ev models.Event
	err := r.db.GetContext(ctx, &ev, `SELECT `+eventColumns+` FROM events WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, ErrEventNotFound
	}
	if err != nil {
		return models.Event{}, err
	}
	if err := r.attachRSVPs(ctx, []*models.Event{&ev}); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// List returns all events, newest first.
func (r *EventRepo) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.SelectContext(ctx, &events, `SELECT `+eventColumns+` FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	refs := make([]*models.Event, len(events))
	for i := range events {
		refs[i] = &events[i]
	}
	if err := r.attachRSVPs(ctx, refs); err != nil {
		return nil, err
	}
	return events, nil
}

// Delete removes an event. Deleting an absent row is not an error.
func (r *EventRepo) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id=$1`, id)
	return err
}

// ToggleRSVP flips the caller's membership on the event's RSVP list and
// reports whether the entry was added. Both directions are idempotent
// under concurrency: removal is a keyed delete and addition relies on the
// primary key, so two racing toggles cannot clobber each other's entries.
func (r *EventRepo) ToggleRSVP(ctx context.Context, eventID int, rsvp models.RSVP) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM event_rsvps WHERE event_id=$1 AND user_id=$2`,
		eventID, rsvp.UserID)
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
	_, err = r.db.ExecContext(ctx, `INSERT INTO event_rsvps (event_id, user_id, username)
        VALUES ($1, $2, $3) ON CONFLICT (event_id, user_id) DO NOTHING`,
		eventID, rsvp.UserID, rsvp.Username)
	return true, err
}

// Trending returns public events created after the cutoff, ranked by RSVP
// count descending.
func (r *EventRepo) Trending(ctx context.Context, since time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.SelectContext(ctx, &events, `SELECT `+eventColumns+` FROM events
        WHERE privacy='public' AND created_at > $1 ORDER BY created_at DESC`, since)
	if err != nil {
		return nil, err
	}
	refs := make([]*models.Event, len(events))
	for i := range events {
		refs[i] = &events[i]
	}
	if err := r.attachRSVPs(ctx, refs); err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return len(events[i].Rsvps) > len(events[j].Rsvps)
	})
	return events, nil
}

func (r *EventRepo) attachRSVPs(ctx context.Context, events []*models.Event) error {
	ids := make([]int, 0, len(events))
	byID := make(map[int]*models.Event, len(events))
	for _, ev := range events {
		ev.Rsvps = []models.RSVP{}
		ids = append(ids, ev.ID)
		byID[ev.ID] = ev
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.db.QueryxContext(ctx, `SELECT event_id, user_id, username FROM event_rsvps
        WHERE event_id = ANY($1) ORDER BY created_at ASC`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID int
		var rsvp models.RSVP
		if err := rows.Scan(&eventID, &rsvp.UserID, &rsvp.Username); err != nil {
			return err
		}
		if ev, ok := byID[eventID]; ok {
			ev.Rsvps = append(ev.Rsvps, rsvp)
		}
	}
	return rows.Err()
}
