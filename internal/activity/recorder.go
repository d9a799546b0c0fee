package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/repository"
	"go.uber.org/zap"
)

const (
	AdminListLimit = 100
	UserListLimit  = 50
)

// Entry is one audit row before it is written. UserID is the user the
// entry is addressed to, not necessarily the actor.
type Entry struct {
	UserID   *uuid.UUID
	EntityID *uuid.UUID
	Details  Details
}

// Recorder validates, writes and reads the activity log.
type Recorder struct {
	repo     repository.ActivityRepository
	validate *validator.Validate
	logger   *zap.Logger
}

func NewRecorder(repo repository.ActivityRepository, logger *zap.Logger) *Recorder {
	return &Recorder{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Record validates the payload and inserts a single row.
func (r *Recorder) Record(ctx context.Context, e Entry) (*models.ActivityLog, error) {
	if e.Details == nil {
		return nil, apperr.Validation("activity details are required")
	}
	if err := r.validate.Struct(e.Details); err != nil {
		return nil, apperr.Validation("%s details: %v", e.Details.Action(), err)
	}
	raw, err := json.Marshal(e.Details)
	if err != nil {
		return nil, fmt.Errorf("encode activity details: %w", err)
	}
	return r.repo.Insert(ctx, models.ActivityLog{
		UserID:     e.UserID,
		Action:     e.Details.Action(),
		EntityType: e.Details.EntityType(),
		EntityID:   e.EntityID,
		Details:    raw,
	})
}

// RecordBestEffort is for audit writes that follow a primary write which
// already succeeded. Failures are logged and swallowed.
func (r *Recorder) RecordBestEffort(ctx context.Context, e Entry) {
	if _, err := r.Record(ctx, e); err != nil {
		action := ""
		if e.Details != nil {
			action = e.Details.Action()
		}
		r.logger.Warn("failed to record activity",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// List is the admin view; an empty or "all" entity type returns every entry.
func (r *Recorder) List(ctx context.Context, entityType string) ([]Log, error) {
	if entityType == "all" {
		entityType = ""
	}
	rows, err := r.repo.List(ctx, entityType, AdminListLimit)
	if err != nil {
		return nil, err
	}
	return r.decode(rows), nil
}

func (r *Recorder) ListForUser(ctx context.Context, userID uuid.UUID) ([]Log, error) {
	rows, err := r.repo.ListByUser(ctx, userID, UserListLimit)
	if err != nil {
		return nil, err
	}
	return r.decode(rows), nil
}

// decode never drops a row. A payload that no longer parses is returned
// as stored.
func (r *Recorder) decode(rows []models.ActivityLog) []Log {
	out := make([]Log, 0, len(rows))
	for _, row := range rows {
		d, err := Decode(row.Action, row.Details)
		if err != nil {
			r.logger.Warn("undecodable activity details",
				zap.Stringer("id", row.ID),
				zap.String("action", row.Action),
				zap.Error(err),
			)
			d = Unknown{Tag: row.Action, Raw: row.Details}
		}
		out = append(out, Log{ActivityLog: row, Details: d})
	}
	return out
}
