package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/models"
)

// Every method takes context.Context first: the HTTP request context (with
// its deadline from middleware.Timeout) or the live query refresh context
// flows into the driver, so a cancelled caller cancels its query.
//
// Single-row lookups return nil, nil when the row does not exist. Unique
// violations surface as apperr.ErrConflict, broken foreign keys as
// apperr.ErrNotFound.

// UserRepository handles login credentials and roles.
type UserRepository interface {
	// Create inserts the user, its default "user" role and its public
	// profile in one transaction.
	Create(ctx context.Context, email, passwordHash, fullName string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GrantRole(ctx context.Context, userID uuid.UUID, role string) error
}

type ProfileUpdate struct {
	FullName     *string
	AvatarURL    *string
	Bio          *string
	Location     *string
	Phone        *string
	PrivacyLevel *string
}

// ProfileRepository is the profile directory, the leaf every other
// component resolves display identities through.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	// GetPublic reads from the profiles_public view.
	GetPublic(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error)
	// Snippets batch-resolves display identities. Ids without a profile
	// are simply absent from the map.
	Snippets(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.ProfileSnippet, error)
	Update(ctx context.Context, userID uuid.UUID, upd ProfileUpdate) (*models.Profile, error)
}

// ChannelRepository is the channel registry.
type ChannelRepository interface {
	Create(ctx context.Context, ch models.Channel) (*models.Channel, error)
	Update(ctx context.Context, channelID uuid.UUID, name, description string) (*models.Channel, error)
	// Delete removes the channel; memberships and messages cascade.
	Delete(ctx context.Context, channelID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, channelID uuid.UUID) (*models.Channel, error)
	// ListVisible returns public channels plus the private channels viewer
	// is a member of, ordered by name. A nil viewer sees public channels only.
	ListVisible(ctx context.Context, viewer *uuid.UUID) ([]models.Channel, error)
	// GetOrCreateDM returns the private channel shared by a and b, creating
	// it and both memberships if needed. Calling it again for the same pair
	// (in either order) returns the same id.
	GetOrCreateDM(ctx context.Context, a, b uuid.UUID) (channelID uuid.UUID, created bool, err error)
}

// MembershipRepository handles who belongs to which channel.
type MembershipRepository interface {
	// AddMember is idempotent; added is false when the row already existed.
	AddMember(ctx context.Context, channelID, userID uuid.UUID) (added bool, err error)
	RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error
	ListMembers(ctx context.Context, channelID uuid.UUID) ([]models.ChannelMember, error)
	IsMember(ctx context.Context, channelID, userID uuid.UUID) (bool, error)
	// Counterparts returns membership rows of the given channels excluding
	// exclude's own rows.
	Counterparts(ctx context.Context, channelIDs []uuid.UUID, exclude uuid.UUID) ([]models.ChannelMember, error)
}

// MessageRepository handles channel message persistence.
type MessageRepository interface {
	Create(ctx context.Context, msg models.ChannelMessage) (*models.ChannelMessage, error)
	GetByID(ctx context.Context, messageID uuid.UUID) (*models.ChannelMessage, error)
	// ListRecent returns the newest limit messages of a channel in ascending
	// (created_at, seq) order.
	ListRecent(ctx context.Context, channelID uuid.UUID, limit int) ([]models.ChannelMessage, error)
	// Delete hard-deletes a message written by authorID.
	Delete(ctx context.Context, messageID, authorID uuid.UUID) (bool, error)
	CountByChannel(ctx context.Context, channelID uuid.UUID) (int64, error)
}

// DirectMessageRepository handles user-pair-scoped messages.
type DirectMessageRepository interface {
	Create(ctx context.Context, from, to uuid.UUID, content string) (*models.DirectMessage, error)
	// ListForUser returns every message userID sent or received, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.DirectMessage, error)
	// ListConversation returns the messages between a and b, oldest first.
	ListConversation(ctx context.Context, a, b uuid.UUID) ([]models.DirectMessage, error)
	// MarkRead flips read to true on messages from counterpart to viewer.
	MarkRead(ctx context.Context, viewer, counterpart uuid.UUID) (int64, error)
}

// ActivityRepository is the append-only audit log.
type ActivityRepository interface {
	Insert(ctx context.Context, entry models.ActivityLog) (*models.ActivityLog, error)
	// List returns the newest entries, optionally restricted to one entity type.
	List(ctx context.Context, entityType string, limit int) ([]models.ActivityLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ActivityLog, error)
}

// NotificationRepository stores user-facing alerts. There is deliberately
// no way to set read back to false.
type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (*models.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// JobRepository covers postings, saved jobs and applications.
type JobRepository interface {
	Create(ctx context.Context, job models.Job) (*models.Job, error)
	GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	// List returns jobs newest first; an empty status means all of them.
	List(ctx context.Context, status string) ([]models.Job, error)
	UpdateStatus(ctx context.Context, jobID uuid.UUID, status string) (bool, error)
	Delete(ctx context.Context, jobID uuid.UUID) (bool, error)

	Save(ctx context.Context, jobID, userID uuid.UUID) error
	Unsave(ctx context.Context, jobID, userID uuid.UUID) error
	SavedJobIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	CreateApplication(ctx context.Context, app models.JobApplication) (*models.JobApplication, error)
	GetApplication(ctx context.Context, applicationID uuid.UUID) (*models.JobApplication, error)
	ListApplications(ctx context.Context, jobID uuid.UUID) ([]models.JobApplication, error)
	UpdateApplicationStatus(ctx context.Context, applicationID uuid.UUID, status string) (bool, error)
}

// MatrimonyRepository covers listings and interests.
type MatrimonyRepository interface {
	Create(ctx context.Context, p models.MatrimonyProfile) (*models.MatrimonyProfile, error)
	GetByID(ctx context.Context, profileID uuid.UUID) (*models.MatrimonyProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.MatrimonyProfile, error)
	List(ctx context.Context, status string) ([]models.MatrimonyProfile, error)
	UpdateStatus(ctx context.Context, profileID uuid.UUID, status string) (bool, error)

	CreateInterest(ctx context.Context, i models.MatrimonyInterest) (*models.MatrimonyInterest, error)
	// SentInterests returns the profile ids userID has expressed interest in.
	SentInterests(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type BusinessFilter struct {
	Status   string
	Category string
	Search   string
}

// BusinessRepository is the business directory.
type BusinessRepository interface {
	Create(ctx context.Context, b models.Business) (*models.Business, error)
	GetByID(ctx context.Context, businessID uuid.UUID) (*models.Business, error)
	// ListPublic reads from the businesses_public view.
	ListPublic(ctx context.Context, f BusinessFilter) ([]models.PublicBusiness, error)
	UpdateStatus(ctx context.Context, businessID uuid.UUID, status string) (bool, error)
}

// EventFilter narrows the event list. Zero values match everything.
// When is "upcoming" or "past", both relative to Now.
type EventFilter struct {
	Status string
	When   string
	Now    time.Time
}

// EventRepository covers events and their registrations.
type EventRepository interface {
	Create(ctx context.Context, e models.Event) (*models.Event, error)
	GetByID(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
	// List orders by event date, ascending unless f.Status is empty.
	List(ctx context.Context, f EventFilter) ([]models.Event, error)
	// Update rewrites the editable columns. It returns nil, nil when the
	// event does not exist.
	Update(ctx context.Context, e models.Event) (*models.Event, error)
	UpdateStatus(ctx context.Context, eventID uuid.UUID, status string) (bool, error)
	Delete(ctx context.Context, eventID uuid.UUID) (bool, error)

	GetRegistration(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRegistration, error)
	// Register fails with apperr.ErrConflict on a repeat registration and
	// with apperr.ErrValidation once MaxAttendees is reached.
	Register(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRegistration, error)
}

type ArticleFilter struct {
	Status   string
	Category string
}

// ArticleRepository covers news articles and reader bookmarks.
type ArticleRepository interface {
	Create(ctx context.Context, a models.Article) (*models.Article, error)
	GetByID(ctx context.Context, articleID uuid.UUID) (*models.Article, error)
	// List returns newest first.
	List(ctx context.Context, f ArticleFilter) ([]models.Article, error)
	Update(ctx context.Context, a models.Article) (*models.Article, error)
	Delete(ctx context.Context, articleID uuid.UUID) (bool, error)

	Bookmark(ctx context.Context, articleID, userID uuid.UUID) error
	Unbookmark(ctx context.Context, articleID, userID uuid.UUID) error
	BookmarkedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// ReportRepository is the moderation queue.
type ReportRepository interface {
	Create(ctx context.Context, r models.Report) (*models.Report, error)
	List(ctx context.Context, status string) ([]models.Report, error)
	// Resolve returns nil, nil when the report does not exist.
	Resolve(ctx context.Context, reportID uuid.UUID, note string, resolvedBy uuid.UUID) (*models.Report, error)
}
