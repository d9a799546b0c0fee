package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/communityhub/internal/models"
)

// UserStore owns users and user_roles.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// roleQuery picks the strongest role a user holds.
const roleQuery = `
	COALESCE((
		SELECT r.role FROM user_roles r
		WHERE r.user_id = u.id
		ORDER BY CASE r.role
			WHEN 'super_admin' THEN 0
			WHEN 'content_admin' THEN 1
			WHEN 'moderation_admin' THEN 2
			ELSE 3 END
		LIMIT 1
	), 'user')`

// Create inserts the user row, its default role and the profile every
// other feature resolves names through, all in one transaction.
func (s *UserStore) Create(ctx context.Context, email, passwordHash, fullName string) (*models.User, error) {
	u := models.User{Role: models.RoleUser}
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (email, password_hash)
			VALUES ($1, $2)
			RETURNING id, email, password_hash, created_at`,
			strings.ToLower(email), passwordHash,
		).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
		if err != nil {
			return wrapErr("insert user", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`,
			u.ID, models.RoleUser,
		); err != nil {
			return wrapErr("insert user role", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO profiles (user_id, full_name, email, privacy_level)
			VALUES ($1, $2, $3, 'public')`,
			u.ID, strings.TrimSpace(fullName), u.Email,
		); err != nil {
			return wrapErr("insert profile", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, ` + roleQuery + `, u.created_at
		FROM users u
		WHERE u.id = $1`

	var u models.User
	err := s.pool.QueryRow(ctx, query, userID).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetByEmail is the login lookup. Emails are stored lower-cased.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, ` + roleQuery + `, u.created_at
		FROM users u
		WHERE u.email = $1`

	var u models.User
	err := s.pool.QueryRow(ctx, query, strings.ToLower(email)).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (s *UserStore) GrantRole(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING`, userID, role)
	if err != nil {
		return wrapErr("grant role", err)
	}
	return nil
}
