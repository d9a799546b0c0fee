package portal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/livequery"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/realtime"
	"github.com/lalith-99/communityhub/internal/repository"
	"go.uber.org/zap"
)

// Event list filters.
const (
	EventsAll      = "all"
	EventsUpcoming = "upcoming"
	EventsPast     = "past"
)

// ValidEventFilter reports whether f names an event list. Empty means all.
func ValidEventFilter(f string) bool {
	switch f {
	case "", EventsAll, EventsUpcoming, EventsPast:
		return true
	}
	return false
}

// Events is the community calendar. Anyone signed in may propose an
// event; it is listed once an admin approves it. Every write that can
// change a public list invalidates the events live queries.
type Events struct {
	repo     repository.EventRepository
	announce *realtime.Announcer
	now      func() time.Time
	logger   *zap.Logger
}

func NewEvents(repo repository.EventRepository, announce *realtime.Announcer, logger *zap.Logger) *Events {
	return &Events{repo: repo, announce: announce, now: time.Now, logger: logger}
}

// List returns approved events matching filter, soonest first. includeAll
// is the admin view: every status, no date filter, newest first.
func (e *Events) List(ctx context.Context, filter string, includeAll bool) ([]models.Event, error) {
	if includeAll {
		return e.repo.List(ctx, repository.EventFilter{})
	}
	if !ValidEventFilter(filter) {
		return nil, apperr.Validation("unknown event filter %q", filter)
	}
	f := repository.EventFilter{Status: models.StatusApproved}
	if filter == EventsUpcoming || filter == EventsPast {
		f.When = filter
		f.Now = e.now().UTC()
	}
	return e.repo.List(ctx, f)
}

// Get hides events that are not approved from everyone but admins and
// the organizer.
func (e *Events) Get(ctx context.Context, actor *Actor, eventID uuid.UUID) (*models.Event, error) {
	ev, err := e.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev == nil || !e.visible(actor, ev) {
		return nil, apperr.NotFound("event")
	}
	return ev, nil
}

func (e *Events) visible(actor *Actor, ev *models.Event) bool {
	if ev.Status == models.StatusApproved {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || (ev.OrganizerID != nil && *ev.OrganizerID == actor.UserID)
}

// Create files an event. Admins may set the status directly; everyone
// else's event starts pending.
func (e *Events) Create(ctx context.Context, actor Actor, ev models.Event) (*models.Event, error) {
	if err := validateEvent(&ev); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() || !validModerationStatus(ev.Status) {
		ev.Status = models.StatusPending
	}
	ev.OrganizerID = &actor.UserID

	out, err := e.repo.Create(ctx, ev)
	if err != nil {
		return nil, err
	}
	if out.Status == models.StatusApproved {
		e.announce.Invalidate(livequery.AllEvents)
	}
	return out, nil
}

// Update rewrites an event's details. Status changes go through SetStatus.
func (e *Events) Update(ctx context.Context, ev models.Event) (*models.Event, error) {
	if err := validateEvent(&ev); err != nil {
		return nil, err
	}
	out, err := e.repo.Update(ctx, ev)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, apperr.NotFound("event")
	}
	e.announce.Invalidate(livequery.AllEvents)
	return out, nil
}

func (e *Events) SetStatus(ctx context.Context, eventID uuid.UUID, status string) error {
	if !validModerationStatus(status) {
		return apperr.Validation("unknown event status %q", status)
	}
	ok, err := e.repo.UpdateStatus(ctx, eventID, status)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("event")
	}
	e.announce.Invalidate(livequery.AllEvents)
	return nil
}

func (e *Events) Delete(ctx context.Context, eventID uuid.UUID) error {
	ok, err := e.repo.Delete(ctx, eventID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("event")
	}
	e.announce.Invalidate(livequery.AllEvents)
	return nil
}

// Registration returns the caller's registration, or nil when there is
// none.
func (e *Events) Registration(ctx context.Context, userID, eventID uuid.UUID) (*models.EventRegistration, error) {
	return e.repo.GetRegistration(ctx, eventID, userID)
}

// Register signs userID up for an approved event that hasn't started.
func (e *Events) Register(ctx context.Context, actor Actor, eventID uuid.UUID) (*models.EventRegistration, error) {
	ev, err := e.Get(ctx, &actor, eventID)
	if err != nil {
		return nil, err
	}
	if ev.Status != models.StatusApproved {
		return nil, apperr.Validation("event is not open for registration")
	}
	if !ev.EventDate.After(e.now()) {
		return nil, apperr.Validation("event has already started")
	}
	reg, err := e.repo.Register(ctx, eventID, actor.UserID)
	if err != nil {
		return nil, err
	}
	e.logger.Info("event registration created",
		zap.Stringer("event_id", eventID),
		zap.Stringer("user_id", actor.UserID),
	)
	return reg, nil
}

func validateEvent(ev *models.Event) error {
	ev.Title = strings.TrimSpace(ev.Title)
	if ev.Title == "" {
		return apperr.Validation("title is required")
	}
	if ev.EventDate.IsZero() {
		return apperr.Validation("event_date is required")
	}
	if ev.EndDate != nil && ev.EndDate.Before(ev.EventDate) {
		return apperr.Validation("end_date is before event_date")
	}
	if ev.MaxAttendees != nil && *ev.MaxAttendees < 1 {
		return apperr.Validation("max_attendees must be positive")
	}
	ev.Description = strings.TrimSpace(ev.Description)
	ev.Location = strings.TrimSpace(ev.Location)
	return nil
}

func validModerationStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
		return true
	}
	return false
}
