package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/repository"
)

// EventStore holds events and registrations. Registration takes a row
// lock on the event so concurrent sign-ups can't overrun max_attendees.
type EventStore struct {
	pool *pgxpool.Pool
}

func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

const eventColumns = `id, title, description, event_date, end_date, location, image_url, max_attendees, organizer_id, status, created_at, updated_at`

const registrationColumns = `id, event_id, user_id, status, created_at`

func (s *EventStore) Create(ctx context.Context, e models.Event) (*models.Event, error) {
	if e.Status == "" {
		e.Status = models.StatusPending
	}
	query := `
		INSERT INTO events (title, description, event_date, end_date, location, image_url, max_attendees, organizer_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + eventColumns

	rows, err := s.pool.Query(ctx, query,
		e.Title, e.Description, e.EventDate, e.EndDate, e.Location, e.ImageURL,
		e.MaxAttendees, e.OrganizerID, e.Status)
	if err != nil {
		return nil, wrapErr("insert event", err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.Event])
	if err != nil {
		return nil, wrapErr("insert event", err)
	}
	return &out, nil
}

func (s *EventStore) GetByID(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	e, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.Event])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// List sorts the admin view (no status filter) newest event first and the
// public view soonest first.
func (s *EventStore) List(ctx context.Context, f repository.EventFilter) ([]models.Event, error) {
	order := "ASC"
	if f.Status == "" {
		order = "DESC"
	}
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE ($1::text = '' OR status = $1)
		  AND ($2::text = ''
		       OR ($2 = 'upcoming' AND event_date >= $3::timestamptz)
		       OR ($2 = 'past' AND event_date < $3::timestamptz))
		ORDER BY event_date ` + order

	rows, err := s.pool.Query(ctx, query, f.Status, f.When, f.Now)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Event])
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	if events == nil {
		events = make([]models.Event, 0)
	}
	return events, nil
}

func (s *EventStore) Update(ctx context.Context, e models.Event) (*models.Event, error) {
	query := `
		UPDATE events
		SET title = $2, description = $3, event_date = $4, end_date = $5, location = $6,
		    image_url = $7, max_attendees = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + eventColumns

	rows, err := s.pool.Query(ctx, query,
		e.ID, e.Title, e.Description, e.EventDate, e.EndDate, e.Location, e.ImageURL, e.MaxAttendees)
	if err != nil {
		return nil, wrapErr("update event", err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.Event])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("update event", err)
	}
	return &out, nil
}

func (s *EventStore) UpdateStatus(ctx context.Context, eventID uuid.UUID, status string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE events SET status = $2, updated_at = now() WHERE id = $1`, eventID, status)
	if err != nil {
		return false, fmt.Errorf("update event status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *EventStore) Delete(ctx context.Context, eventID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *EventStore) GetRegistration(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRegistration, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+registrationColumns+` FROM event_registrations WHERE event_id = $1 AND user_id = $2`,
		eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}
	reg, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.EventRegistration])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &reg, nil
}

func (s *EventStore) Register(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRegistration, error) {
	var reg models.EventRegistration
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var capacity *int32
		err := tx.QueryRow(ctx,
			`SELECT max_attendees FROM events WHERE id = $1 FOR UPDATE`, eventID,
		).Scan(&capacity)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound("event")
			}
			return fmt.Errorf("lock event: %w", err)
		}
		if capacity != nil {
			var taken int64
			if err := tx.QueryRow(ctx,
				`SELECT count(*) FROM event_registrations WHERE event_id = $1`, eventID,
			).Scan(&taken); err != nil {
				return fmt.Errorf("count registrations: %w", err)
			}
			if taken >= int64(*capacity) {
				return apperr.Validation("event is full")
			}
		}

		rows, err := tx.Query(ctx, `
			INSERT INTO event_registrations (event_id, user_id, status)
			VALUES ($1, $2, $3)
			RETURNING `+registrationColumns,
			eventID, userID, models.RegistrationRegistered)
		if err != nil {
			return wrapErr("insert registration", err)
		}
		reg, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.EventRegistration])
		if err != nil {
			return wrapErr("insert registration", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
