package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Profile is a registered person. One row per user id.
//
// Phone and Email are private columns. Anything served to other users
// goes through PublicProfile, which does not carry them at all.
type Profile struct {
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	AvatarURL    string    `json:"avatar_url"`
	Bio          string    `json:"bio"`
	Location     string    `json:"location"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	PrivacyLevel string    `json:"privacy_level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicProfile mirrors the profiles_public view.
type PublicProfile struct {
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	AvatarURL    string    `json:"avatar_url"`
	Bio          string    `json:"bio"`
	Location     string    `json:"location"`
	PrivacyLevel string    `json:"privacy_level"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public drops the sensitive columns.
func (p Profile) Public() PublicProfile {
	return PublicProfile{
		UserID:       p.UserID,
		FullName:     p.FullName,
		AvatarURL:    p.AvatarURL,
		Bio:          p.Bio,
		Location:     p.Location,
		PrivacyLevel: p.PrivacyLevel,
		CreatedAt:    p.CreatedAt,
	}
}

// ProfileSnippet is the denormalized author identity attached to messages,
// channels and threads.
type ProfileSnippet struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// User holds login credentials. The profile lives in its own table.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	RoleSuperAdmin      = "super_admin"
	RoleContentAdmin    = "content_admin"
	RoleModerationAdmin = "moderation_admin"
	RoleUser            = "user"
)

// IsAdmin reports whether role is any of the admin roles.
func IsAdmin(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleContentAdmin, RoleModerationAdmin:
		return true
	}
	return false
}

// Channel is a named conversation space. Private channels carry exactly
// two members; DMKey is set for channels created by the DM RPC.
type Channel struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsPrivate   bool       `json:"is_private"`
	CreatedBy   *uuid.UUID `json:"created_by"`
	DMKey       *string    `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ChannelView is a channel as one viewer sees it. OtherProfile is only set
// for private channels, and stays nil when the counterpart can't be resolved.
type ChannelView struct {
	Channel
	OtherUserID  *uuid.UUID      `json:"other_user_id,omitempty"`
	OtherProfile *ProfileSnippet `json:"other_profile"`
}

// ChannelMember is the join table between channels and users. Existence of
// a row is the access grant.
type ChannelMember struct {
	ID        uuid.UUID `json:"id"`
	ChannelID uuid.UUID `json:"channel_id"`
	UserID    uuid.UUID `json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

// ChannelMessage is one post in a channel. Seq is assigned by Postgres at
// insert time and breaks ties between identical CreatedAt values.
type ChannelMessage struct {
	ID            uuid.UUID  `json:"id"`
	Seq           int64      `json:"seq"`
	ChannelID     uuid.UUID  `json:"channel_id"`
	UserID        uuid.UUID  `json:"user_id"`
	Content       string     `json:"content"`
	AttachmentURL string     `json:"attachment_url,omitempty"`
	ReplyTo       *uuid.UUID `json:"reply_to"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ChannelMessageWithProfile struct {
	ChannelMessage
	Profile *ProfileSnippet `json:"profile"`
}

// DirectMessage is addressed between exactly two users. Read only ever
// transitions false -> true.
type DirectMessage struct {
	ID         uuid.UUID `json:"id"`
	Seq        int64     `json:"seq"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

type DirectMessageWithProfiles struct {
	DirectMessage
	FromProfile *ProfileSnippet `json:"from_profile"`
	ToProfile   *ProfileSnippet `json:"to_profile"`
}

// DirectMessageThread is derived from the direct message log, never stored.
type DirectMessageThread struct {
	OtherUserID     uuid.UUID `json:"other_user_id"`
	OtherUserName   string    `json:"other_user_name"`
	OtherUserAvatar string    `json:"other_user_avatar"`
	LastMessage     string    `json:"last_message"`
	LastMessageAt   time.Time `json:"last_message_at"`
	UnreadCount     int       `json:"unread_count"`
}

// ActivityLog is an append-only audit row. Details is the raw JSON payload;
// decode it with activity.Decode using Action as the tag.
type ActivityLog struct {
	ID         uuid.UUID       `json:"id"`
	UserID     *uuid.UUID      `json:"user_id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   *uuid.UUID      `json:"entity_id"`
	Details    json.RawMessage `json:"details"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Notification is a user-facing alert. It is never derived from the
// activity log; handlers insert it explicitly.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusResolved = "resolved"
)

// Job is a posting. It is listed only once Status is approved.
type Job struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	JobType      string     `json:"job_type"`
	SalaryRange  string     `json:"salary_range"`
	Requirements string     `json:"requirements"`
	ContactEmail string     `json:"contact_email"`
	Status       string     `json:"status"`
	PostedBy     *uuid.UUID `json:"posted_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// JobApplication is visible to the applicant, the poster and admins.
type JobApplication struct {
	ID               uuid.UUID `json:"id"`
	JobID            uuid.UUID `json:"job_id"`
	UserID           uuid.UUID `json:"user_id"`
	CoverLetter      string    `json:"cover_letter"`
	ApplicantName    string    `json:"applicant_name"`
	ApplicantEmail   string    `json:"applicant_email"`
	ApplicantPhone   string    `json:"applicant_phone"`
	ApplicantAddress string    `json:"applicant_address"`
	ResumeURL        string    `json:"resume_url,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// MatrimonyProfile is a listing; a user has at most one.
type MatrimonyProfile struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	Age          int       `json:"age"`
	Gender       string    `json:"gender"`
	Location     string    `json:"location"`
	Education    string    `json:"education"`
	Occupation   string    `json:"occupation"`
	About        string    `json:"about"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	PrivacyLevel string    `json:"privacy_level"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MatrimonyInterest struct {
	ID          uuid.UUID `json:"id"`
	FromUserID  uuid.UUID `json:"from_user_id"`
	ToProfileID uuid.UUID `json:"to_profile_id"`
	Message     string    `json:"message,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Business is the full directory row, including contact columns that only
// the owner and admins may read.
type Business struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	Website     string     `json:"website"`
	ImageURL    string     `json:"image_url"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	WhatsApp    string     `json:"whatsapp"`
	OwnerID     *uuid.UUID `json:"owner_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PublicBusiness mirrors the businesses_public view.
type PublicBusiness struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Website     string    `json:"website"`
	ImageURL    string    `json:"image_url"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (b Business) Public() PublicBusiness {
	return PublicBusiness{
		ID:          b.ID,
		Name:        b.Name,
		Category:    b.Category,
		Description: b.Description,
		Address:     b.Address,
		Website:     b.Website,
		ImageURL:    b.ImageURL,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// Report flags a piece of content for moderation.
type Report struct {
	ID                  uuid.UUID  `json:"id"`
	ReporterID          *uuid.UUID `json:"reporter_id"`
	ReportedUserID      *uuid.UUID `json:"reported_user_id"`
	ReportedContentID   *uuid.UUID `json:"reported_content_id"`
	ReportedContentType string     `json:"reported_content_type"`
	Reason              string     `json:"reason"`
	Details             string     `json:"details"`
	Status              string     `json:"status"`
	ResolutionNote      string     `json:"resolution_note"`
	ResolvedBy          *uuid.UUID `json:"resolved_by"`
	ResolvedAt          *time.Time `json:"resolved_at"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Event is a community gathering. The public list shows approved events
// only, ordered by EventDate.
type Event struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	EventDate    time.Time  `json:"event_date"`
	EndDate      *time.Time `json:"end_date"`
	Location     string     `json:"location"`
	ImageURL     string     `json:"image_url"`
	MaxAttendees *int32     `json:"max_attendees"`
	OrganizerID  *uuid.UUID `json:"organizer_id"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type EventRegistration struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	UserID    uuid.UUID `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

const RegistrationRegistered = "registered"

const (
	ArticleDraft     = "draft"
	ArticlePublished = "published"
)

// Article is a news post. PublishedAt is set the first time it is
// published.
type Article struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"image_url"`
	Status      string     `json:"status"`
	Featured    bool       `json:"featured"`
	AuthorID    *uuid.UUID `json:"author_id"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
