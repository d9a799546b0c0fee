// Package activity is the append-only audit log. Each action carries one
// of a closed set of payload shapes; Decode maps a stored row back to its
// shape using the action as the tag.
package activity

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/models"
)

const (
	ActionJobApplicationReceived    = "job_application_received"
	ActionMatrimonyInterestReceived = "matrimony_interest_received"
	ActionReportResolved            = "report_resolved"
	ActionChannelDeleted            = "channel_deleted"
)

// Details is implemented by every payload variant.
type Details interface {
	Action() string
	EntityType() string
}

type JobApplicationReceived struct {
	JobID            uuid.UUID `json:"job_id" validate:"required"`
	JobTitle         string    `json:"job_title" validate:"required"`
	ApplicantID      uuid.UUID `json:"applicant_id" validate:"required"`
	ApplicantName    string    `json:"applicant_name" validate:"required"`
	ApplicantEmail   string    `json:"applicant_email" validate:"required,email"`
	ApplicantPhone   string    `json:"applicant_phone"`
	ApplicantAddress string    `json:"applicant_address"`
	ResumeLink       string    `json:"resume_link,omitempty" validate:"omitempty,url"`
}

func (JobApplicationReceived) Action() string     { return ActionJobApplicationReceived }
func (JobApplicationReceived) EntityType() string { return "job_application" }

type MatrimonyInterestReceived struct {
	FromUserID   uuid.UUID `json:"from_user_id" validate:"required"`
	FromUserName string    `json:"from_user_name" validate:"required"`
	ProfileID    uuid.UUID `json:"profile_id" validate:"required"`
	ProfileName  string    `json:"profile_name" validate:"required"`
	Message      *string   `json:"message"`
}

func (MatrimonyInterestReceived) Action() string     { return ActionMatrimonyInterestReceived }
func (MatrimonyInterestReceived) EntityType() string { return "matrimony_interest" }

type ReportResolved struct {
	ReportID       uuid.UUID `json:"report_id" validate:"required"`
	Reason         string    `json:"reason" validate:"required"`
	ResolutionNote string    `json:"resolution_note"`
	ResolvedBy     uuid.UUID `json:"resolved_by" validate:"required"`
}

func (ReportResolved) Action() string     { return ActionReportResolved }
func (ReportResolved) EntityType() string { return "report" }

type ChannelDeleted struct {
	ChannelID       uuid.UUID `json:"channel_id" validate:"required"`
	ChannelName     string    `json:"channel_name" validate:"required"`
	MessagesRemoved int64     `json:"messages_removed" validate:"gte=0"`
	DeletedBy       uuid.UUID `json:"deleted_by" validate:"required"`
}

func (ChannelDeleted) Action() string     { return ActionChannelDeleted }
func (ChannelDeleted) EntityType() string { return "chat_channel" }

// Unknown wraps rows whose action this build does not recognize.
type Unknown struct {
	Tag string
	Raw json.RawMessage
}

func (u Unknown) Action() string   { return u.Tag }
func (Unknown) EntityType() string { return "" }

// MarshalJSON passes the stored payload through untouched.
func (u Unknown) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return []byte("null"), nil
	}
	return u.Raw, nil
}

// Log is a stored entry with its payload decoded into its variant.
type Log struct {
	models.ActivityLog
	Details Details `json:"details"`
}

// Decode parses raw into the variant selected by action.
func Decode(action string, raw json.RawMessage) (Details, error) {
	var d Details
	switch action {
	case ActionJobApplicationReceived:
		var v JobApplicationReceived
		if err := unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", action, err)
		}
		d = v
	case ActionMatrimonyInterestReceived:
		var v MatrimonyInterestReceived
		if err := unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", action, err)
		}
		d = v
	case ActionReportResolved:
		var v ReportResolved
		if err := unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", action, err)
		}
		d = v
	case ActionChannelDeleted:
		var v ChannelDeleted
		if err := unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", action, err)
		}
		d = v
	default:
		d = Unknown{Tag: action, Raw: raw}
	}
	return d, nil
}

// unmarshal treats a NULL details column as an empty payload.
func unmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
