package portal

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/activity"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/filestore"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/repository"
	"go.uber.org/zap"
)

// Fallback labels for interest log entries when a lookup fails.
const (
	UnknownUser    = "Unknown User"
	UnknownProfile = "Unknown"
)

// Matrimony manages listings and the interests sent between them.
type Matrimony struct {
	repo     repository.MatrimonyRepository
	profiles repository.ProfileRepository
	files    filestore.Store
	activity *activity.Recorder
	logger   *zap.Logger
}

func NewMatrimony(repo repository.MatrimonyRepository, profiles repository.ProfileRepository, files filestore.Store, rec *activity.Recorder, logger *zap.Logger) *Matrimony {
	return &Matrimony{repo: repo, profiles: profiles, files: files, activity: rec, logger: logger}
}

func (m *Matrimony) List(ctx context.Context, includeAll bool) ([]models.MatrimonyProfile, error) {
	return m.repo.List(ctx, listStatus(includeAll))
}

// Own returns nil, nil when the user has no profile yet.
func (m *Matrimony) Own(ctx context.Context, userID uuid.UUID) (*models.MatrimonyProfile, error) {
	return m.repo.GetByUserID(ctx, userID)
}

// Photo is an optional listing image.
type Photo struct {
	Body io.Reader
	Name string
}

func (m *Matrimony) Create(ctx context.Context, userID uuid.UUID, p models.MatrimonyProfile, photo *Photo) (*models.MatrimonyProfile, error) {
	if strings.TrimSpace(p.FullName) == "" {
		return nil, apperr.Validation("full_name is required")
	}
	if p.Age < 18 || p.Age > 120 {
		return nil, apperr.Validation("age must be between 18 and 120")
	}
	if photo != nil {
		url, err := m.files.Save(ctx, filestore.BucketMatrimonyPhotos, userID, photo.Name, photo.Body)
		if err != nil {
			return nil, err
		}
		p.PhotoURL = url
	}
	p.UserID = userID
	p.Status = models.StatusPending
	return m.repo.Create(ctx, p)
}

func (m *Matrimony) SetStatus(ctx context.Context, profileID uuid.UUID, status string) error {
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		return apperr.Validation("unknown profile status %q", status)
	}
	ok, err := m.repo.UpdateStatus(ctx, profileID, status)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("matrimony profile")
	}
	return nil
}

// SendInterest records interest in a profile and logs it for the
// profile's owner. Name lookups for the log fall back to placeholder
// labels, and the log write itself is best-effort.
func (m *Matrimony) SendInterest(ctx context.Context, userID, profileID uuid.UUID, message string) (*models.MatrimonyInterest, error) {
	target, err := m.repo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperr.NotFound("matrimony profile")
	}
	if target.UserID == userID {
		return nil, apperr.Validation("cannot send interest to your own profile")
	}

	message = strings.TrimSpace(message)
	interest, err := m.repo.CreateInterest(ctx, models.MatrimonyInterest{
		FromUserID:  userID,
		ToProfileID: profileID,
		Message:     message,
	})
	if err != nil {
		return nil, err
	}

	fromName := UnknownUser
	if p, err := m.profiles.GetByUserID(ctx, userID); err != nil {
		m.logger.Warn("interest sender lookup failed", zap.Stringer("user_id", userID), zap.Error(err))
	} else if p != nil && p.FullName != "" {
		fromName = p.FullName
	}
	profileName := UnknownProfile
	if target.FullName != "" {
		profileName = target.FullName
	}
	var msg *string
	if message != "" {
		msg = &message
	}

	m.activity.RecordBestEffort(ctx, activity.Entry{
		UserID:   &target.UserID,
		EntityID: &interest.ID,
		Details: activity.MatrimonyInterestReceived{
			FromUserID:   userID,
			FromUserName: fromName,
			ProfileID:    profileID,
			ProfileName:  profileName,
			Message:      msg,
		},
	})
	return interest, nil
}

func (m *Matrimony) SentInterests(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return m.repo.SentInterests(ctx, userID)
}
