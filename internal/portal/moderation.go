package portal

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/activity"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/repository"
)

// Moderation files user reports and lets admins resolve them.
type Moderation struct {
	repo     repository.ReportRepository
	activity *activity.Recorder
}

func NewModeration(repo repository.ReportRepository, rec *activity.Recorder) *Moderation {
	return &Moderation{repo: repo, activity: rec}
}

// Report files a report on behalf of reporter. It starts pending.
func (m *Moderation) Report(ctx context.Context, reporter uuid.UUID, r models.Report) (*models.Report, error) {
	if strings.TrimSpace(r.Reason) == "" {
		return nil, apperr.Validation("reason is required")
	}
	if r.ReportedUserID == nil && r.ReportedContentID == nil {
		return nil, apperr.Validation("a reported user or content id is required")
	}
	r.ReporterID = &reporter
	return m.repo.Create(ctx, r)
}

// List filters by status; "all" or empty returns every report.
func (m *Moderation) List(ctx context.Context, status string) ([]models.Report, error) {
	if status == "all" {
		status = ""
	}
	return m.repo.List(ctx, status)
}

// Resolve closes a report and records who did it. The reporter, when
// known, is the recipient of the log entry.
func (m *Moderation) Resolve(ctx context.Context, actor uuid.UUID, reportID uuid.UUID, note string) (*models.Report, error) {
	note = strings.TrimSpace(note)
	r, err := m.repo.Resolve(ctx, reportID, note, actor)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFound("report")
	}

	m.activity.RecordBestEffort(ctx, activity.Entry{
		UserID:   r.ReporterID,
		EntityID: &r.ID,
		Details: activity.ReportResolved{
			ReportID:       r.ID,
			Reason:         r.Reason,
			ResolutionNote: note,
			ResolvedBy:     actor,
		},
	})
	return r, nil
}
