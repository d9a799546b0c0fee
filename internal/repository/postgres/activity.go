package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/communityhub/internal/models"
)

// ActivityStore is append-only.
type ActivityStore struct {
	pool *pgxpool.Pool
}

func NewActivityStore(pool *pgxpool.Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

const activityColumns = `id, user_id, action, entity_type, entity_id, details, created_at`

func (s *ActivityStore) Insert(ctx context.Context, entry models.ActivityLog) (*models.ActivityLog, error) {
	query := `
		INSERT INTO activity_logs (user_id, action, entity_type, entity_id, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + activityColumns

	var details []byte
	if len(entry.Details) > 0 {
		details = entry.Details
	}

	var out models.ActivityLog
	err := s.pool.QueryRow(ctx, query, entry.UserID, entry.Action, entry.EntityType, entry.EntityID, details).Scan(
		&out.ID, &out.UserID, &out.Action, &out.EntityType, &out.EntityID, &out.Details, &out.CreatedAt,
	)
	if err != nil {
		return nil, wrapErr("insert activity log", err)
	}
	return &out, nil
}

func (s *ActivityStore) List(ctx context.Context, entityType string, limit int) ([]models.ActivityLog, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activity_logs
		WHERE $1 = '' OR entity_type = $1
		ORDER BY created_at DESC
		LIMIT $2`

	return s.query(ctx, "list activity", query, entityType, limit)
}

func (s *ActivityStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ActivityLog, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activity_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	return s.query(ctx, "list user activity", query, userID, limit)
}

func (s *ActivityStore) query(ctx context.Context, op, query string, args ...any) ([]models.ActivityLog, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	entries := make([]models.ActivityLog, 0)
	for rows.Next() {
		var e models.ActivityLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity logs: %w", err)
	}
	return entries, nil
}
