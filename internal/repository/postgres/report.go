package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/communityhub/internal/models"
)

type ReportStore struct {
	pool *pgxpool.Pool
}

func NewReportStore(pool *pgxpool.Pool) *ReportStore {
	return &ReportStore{pool: pool}
}

const reportColumns = `id, reporter_id, reported_user_id, reported_content_id, reported_content_type, reason, details, status, resolution_note, resolved_by, resolved_at, created_at`

func (s *ReportStore) Create(ctx context.Context, r models.Report) (*models.Report, error) {
	query := `
		INSERT INTO reports (reporter_id, reported_user_id, reported_content_id, reported_content_type, reason, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + reportColumns

	rows, err := s.pool.Query(ctx, query,
		r.ReporterID, r.ReportedUserID, r.ReportedContentID, r.ReportedContentType, r.Reason, r.Details)
	if err != nil {
		return nil, wrapErr("insert report", err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.Report])
	if err != nil {
		return nil, wrapErr("insert report", err)
	}
	return &out, nil
}

func (s *ReportStore) List(ctx context.Context, status string) ([]models.Report, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Report])
	if err != nil {
		return nil, fmt.Errorf("scan reports: %w", err)
	}
	if out == nil {
		out = make([]models.Report, 0)
	}
	return out, nil
}

func (s *ReportStore) Resolve(ctx context.Context, reportID uuid.UUID, note string, resolvedBy uuid.UUID) (*models.Report, error) {
	query := `
		UPDATE reports SET
			status = 'resolved',
			resolution_note = $2,
			resolved_by = $3,
			resolved_at = now()
		WHERE id = $1
		RETURNING ` + reportColumns

	rows, err := s.pool.Query(ctx, query, reportID, note, resolvedBy)
	if err != nil {
		return nil, fmt.Errorf("resolve report: %w", err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.Report])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve report: %w", err)
	}
	return &out, nil
}
