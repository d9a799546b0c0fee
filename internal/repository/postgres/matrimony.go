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

type MatrimonyStore struct {
	pool *pgxpool.Pool
}

func NewMatrimonyStore(pool *pgxpool.Pool) *MatrimonyStore {
	return &MatrimonyStore{pool: pool}
}

const matrimonyColumns = `id, user_id, full_name, age, gender, location, education, occupation, about, photo_url, privacy_level, status, created_at, updated_at`

func (s *MatrimonyStore) Create(ctx context.Context, p models.MatrimonyProfile) (*models.MatrimonyProfile, error) {
	if p.Status == "" {
		p.Status = models.StatusPending
	}
	if p.PrivacyLevel == "" {
		p.PrivacyLevel = "public"
	}
	query := `
		INSERT INTO matrimony_profiles (user_id, full_name, age, gender, location, education, occupation, about, photo_url, privacy_level, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + matrimonyColumns

	rows, err := s.pool.Query(ctx, query,
		p.UserID, p.FullName, p.Age, p.Gender, p.Location, p.Education,
		p.Occupation, p.About, p.PhotoURL, p.PrivacyLevel, p.Status)
	if err != nil {
		return nil, wrapErr("insert matrimony profile", err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.MatrimonyProfile])
	if err != nil {
		return nil, wrapErr("insert matrimony profile", err)
	}
	return &out, nil
}

func (s *MatrimonyStore) getOne(ctx context.Context, op, query string, arg uuid.UUID) (*models.MatrimonyProfile, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.MatrimonyProfile])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

func (s *MatrimonyStore) GetByID(ctx context.Context, profileID uuid.UUID) (*models.MatrimonyProfile, error) {
	return s.getOne(ctx, "get matrimony profile",
		`SELECT `+matrimonyColumns+` FROM matrimony_profiles WHERE id = $1`, profileID)
}

func (s *MatrimonyStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.MatrimonyProfile, error) {
	return s.getOne(ctx, "get own matrimony profile",
		`SELECT `+matrimonyColumns+` FROM matrimony_profiles WHERE user_id = $1`, userID)
}

func (s *MatrimonyStore) List(ctx context.Context, status string) ([]models.MatrimonyProfile, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+matrimonyColumns+`
		FROM matrimony_profiles
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list matrimony profiles: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.MatrimonyProfile])
	if err != nil {
		return nil, fmt.Errorf("scan matrimony profiles: %w", err)
	}
	if out == nil {
		out = make([]models.MatrimonyProfile, 0)
	}
	return out, nil
}

func (s *MatrimonyStore) UpdateStatus(ctx context.Context, profileID uuid.UUID, status string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE matrimony_profiles SET status = $2, updated_at = now() WHERE id = $1`, profileID, status)
	if err != nil {
		return false, fmt.Errorf("update matrimony status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CreateInterest surfaces a repeated interest as apperr.ErrConflict.
func (s *MatrimonyStore) CreateInterest(ctx context.Context, i models.MatrimonyInterest) (*models.MatrimonyInterest, error) {
	if i.Status == "" {
		i.Status = models.StatusPending
	}
	var out models.MatrimonyInterest
	err := s.pool.QueryRow(ctx, `
		INSERT INTO matrimony_interests (from_user_id, to_profile_id, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, from_user_id, to_profile_id, message, status, created_at`,
		i.FromUserID, i.ToProfileID, i.Message, i.Status,
	).Scan(&out.ID, &out.FromUserID, &out.ToProfileID, &out.Message, &out.Status, &out.CreatedAt)
	if err != nil {
		return nil, wrapErr("insert matrimony interest", err)
	}
	return &out, nil
}

func (s *MatrimonyStore) SentInterests(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT to_profile_id FROM matrimony_interests
		WHERE from_user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sent interests: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("scan sent interests: %w", err)
	}
	if ids == nil {
		ids = make([]uuid.UUID, 0)
	}
	return ids, nil
}
