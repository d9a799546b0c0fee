package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/repository"
)

type ProfileStore struct {
	pool *pgxpool.Pool
}

func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

const profileColumns = `user_id, full_name, avatar_url, bio, location, phone, email, privacy_level, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.UserID,
		&p.FullName,
		&p.AvatarURL,
		&p.Bio,
		&p.Location,
		&p.Phone,
		&p.Email,
		&p.PrivacyLevel,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *ProfileStore) GetPublic(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error) {
	query := `
		SELECT user_id, full_name, avatar_url, bio, location, privacy_level, created_at
		FROM profiles_public
		WHERE user_id = $1`

	var p models.PublicProfile
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.FullName,
		&p.AvatarURL,
		&p.Bio,
		&p.Location,
		&p.PrivacyLevel,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get public profile: %w", err)
	}
	return &p, nil
}

// Snippets resolves display identities for many users in one round trip.
func (s *ProfileStore) Snippets(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.ProfileSnippet, error) {
	out := make(map[uuid.UUID]models.ProfileSnippet, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT user_id, full_name, avatar_url
		FROM profiles_public
		WHERE user_id = ANY($1::uuid[])`, uuidStrings(userIDs))
	if err != nil {
		return nil, fmt.Errorf("list profile snippets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var snip models.ProfileSnippet
		if err := rows.Scan(&id, &snip.FullName, &snip.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan profile snippet: %w", err)
		}
		out[id] = snip
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile snippets: %w", err)
	}
	return out, nil
}

// Update applies the non-nil fields of upd.
func (s *ProfileStore) Update(ctx context.Context, userID uuid.UUID, upd repository.ProfileUpdate) (*models.Profile, error) {
	query := `
		UPDATE profiles SET
			full_name     = COALESCE($2, full_name),
			avatar_url    = COALESCE($3, avatar_url),
			bio           = COALESCE($4, bio),
			location      = COALESCE($5, location),
			phone         = COALESCE($6, phone),
			privacy_level = COALESCE($7, privacy_level),
			updated_at    = now()
		WHERE user_id = $1
		RETURNING ` + profileColumns

	p, err := scanProfile(s.pool.QueryRow(ctx, query,
		userID, upd.FullName, upd.AvatarURL, upd.Bio, upd.Location, upd.Phone, upd.PrivacyLevel))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("update profile", err)
	}
	return p, nil
}
