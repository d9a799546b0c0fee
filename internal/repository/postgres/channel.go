package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/communityhub/internal/models"
)

// ChannelStore implements repository.ChannelRepository. Deleting a
// channel cascades to its memberships and messages.
type ChannelStore struct {
	pool *pgxpool.Pool
}

func NewChannelStore(pool *pgxpool.Pool) *ChannelStore {
	return &ChannelStore{pool: pool}
}

const channelColumns = `id, name, description, is_private, created_by, dm_key, created_at`

func scanChannel(row pgx.Row) (*models.Channel, error) {
	var ch models.Channel
	err := row.Scan(
		&ch.ID,
		&ch.Name,
		&ch.Description,
		&ch.IsPrivate,
		&ch.CreatedBy,
		&ch.DMKey,
		&ch.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (s *ChannelStore) Create(ctx context.Context, ch models.Channel) (*models.Channel, error) {
	query := `
		INSERT INTO chat_channels (name, description, is_private, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + channelColumns

	out, err := scanChannel(s.pool.QueryRow(ctx, query, ch.Name, ch.Description, ch.IsPrivate, ch.CreatedBy))
	if err != nil {
		return nil, wrapErr("insert channel", err)
	}
	return out, nil
}

func (s *ChannelStore) Update(ctx context.Context, channelID uuid.UUID, name, description string) (*models.Channel, error) {
	query := `
		UPDATE chat_channels SET name = $2, description = $3
		WHERE id = $1
		RETURNING ` + channelColumns

	out, err := scanChannel(s.pool.QueryRow(ctx, query, channelID, name, description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("update channel", err)
	}
	return out, nil
}

// Delete relies on ON DELETE CASCADE for members and messages.
func (s *ChannelStore) Delete(ctx context.Context, channelID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM chat_channels WHERE id = $1`, channelID)
	if err != nil {
		return false, fmt.Errorf("delete channel: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *ChannelStore) GetByID(ctx context.Context, channelID uuid.UUID) (*models.Channel, error) {
	ch, err := scanChannel(s.pool.QueryRow(ctx,
		`SELECT `+channelColumns+` FROM chat_channels WHERE id = $1`, channelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return ch, nil
}

// ListVisible filters server-side: a private channel is only returned to
// its members.
func (s *ChannelStore) ListVisible(ctx context.Context, viewer *uuid.UUID) ([]models.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM chat_channels c
		WHERE NOT c.is_private
		   OR ($1::uuid IS NOT NULL AND EXISTS (
				SELECT 1 FROM channel_members m
				WHERE m.channel_id = c.id AND m.user_id = $1::uuid))
		ORDER BY c.name ASC, c.id ASC`

	var arg any
	if viewer != nil {
		arg = viewer.String()
	}

	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	channels := make([]models.Channel, 0)
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, *ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}

	return channels, nil
}

// DMKey is the order-independent identity of a user pair.
func DMKey(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}

// GetOrCreateDM upserts on dm_key, so concurrent callers for the same pair
// converge on a single channel. Memberships are inserted with ON CONFLICT
// DO NOTHING so a retry after a partial failure heals the pair.
func (s *ChannelStore) GetOrCreateDM(ctx context.Context, a, b uuid.UUID) (uuid.UUID, bool, error) {
	key := DMKey(a, b)

	var (
		id      uuid.UUID
		created bool
	)
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		// xmax = 0 only for a freshly inserted row.
		err := tx.QueryRow(ctx, `
			INSERT INTO chat_channels (name, description, is_private, created_by, dm_key)
			VALUES ($1, '', true, $2, $3)
			ON CONFLICT (dm_key) DO UPDATE SET dm_key = EXCLUDED.dm_key
			RETURNING id, (xmax = 0)`,
			"dm-"+key, a, key,
		).Scan(&id, &created)
		if err != nil {
			return wrapErr("upsert dm channel", err)
		}

		for _, member := range []uuid.UUID{a, b} {
			if _, err := tx.Exec(ctx, `
				INSERT INTO channel_members (channel_id, user_id)
				VALUES ($1, $2)
				ON CONFLICT (channel_id, user_id) DO NOTHING`, id, member); err != nil {
				return wrapErr("add dm member", err)
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, created, nil
}
