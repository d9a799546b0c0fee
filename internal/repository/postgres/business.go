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

type BusinessStore struct {
	pool *pgxpool.Pool
}

func NewBusinessStore(pool *pgxpool.Pool) *BusinessStore {
	return &BusinessStore{pool: pool}
}

const businessColumns = `id, name, category, description, address, website, image_url, phone, email, whatsapp, owner_id, status, created_at, updated_at`

const publicBusinessColumns = `id, name, category, description, address, website, image_url, status, created_at, updated_at`

func (s *BusinessStore) Create(ctx context.Context, b models.Business) (*models.Business, error) {
	if b.Status == "" {
		b.Status = models.StatusPending
	}
	query := `
		INSERT INTO businesses (name, category, description, address, website, image_url, phone, email, whatsapp, owner_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + businessColumns

	rows, err := s.pool.Query(ctx, query,
		b.Name, b.Category, b.Description, b.Address, b.Website, b.ImageURL,
		b.Phone, b.Email, b.WhatsApp, b.OwnerID, b.Status)
	if err != nil {
		return nil, wrapErr("insert business", err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.Business])
	if err != nil {
		return nil, wrapErr("insert business", err)
	}
	return &out, nil
}

func (s *BusinessStore) GetByID(ctx context.Context, businessID uuid.UUID) (*models.Business, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, businessID)
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.Business])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

// ListPublic never touches the base table, so contact columns can't leak.
func (s *BusinessStore) ListPublic(ctx context.Context, f repository.BusinessFilter) ([]models.PublicBusiness, error) {
	query := `
		SELECT ` + publicBusinessColumns + `
		FROM businesses_public
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR category = $2)
		  AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%')
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, f.Status, f.Category, f.Search)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.PublicBusiness])
	if err != nil {
		return nil, fmt.Errorf("scan businesses: %w", err)
	}
	if out == nil {
		out = make([]models.PublicBusiness, 0)
	}
	return out, nil
}

func (s *BusinessStore) UpdateStatus(ctx context.Context, businessID uuid.UUID, status string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE businesses SET status = $2, updated_at = now() WHERE id = $1`, businessID, status)
	if err != nil {
		return false, fmt.Errorf("update business status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
