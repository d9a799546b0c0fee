package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/communityhub/internal/models"
)

type MembershipStore struct {
	pool *pgxpool.Pool
}

func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{pool: pool}
}

// AddMember is idempotent: joining twice is a no-op, reported via added.
func (s *MembershipStore) AddMember(ctx context.Context, channelID uuid.UUID, userID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO channel_members (channel_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (channel_id, user_id) DO NOTHING`

	tag, err := s.pool.Exec(ctx, query, channelID, userID)
	if err != nil {
		return false, wrapErr("add member", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveMember deletes zero rows when the user already left.
func (s *MembershipStore) RemoveMember(ctx context.Context, channelID uuid.UUID, userID uuid.UUID) error {
	query := `
		DELETE FROM channel_members
		WHERE channel_id = $1 AND user_id = $2`

	_, err := s.pool.Exec(ctx, query, channelID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *MembershipStore) ListMembers(ctx context.Context, channelID uuid.UUID) ([]models.ChannelMember, error) {
	query := `
		SELECT id, channel_id, user_id, joined_at
		FROM channel_members
		WHERE channel_id = $1
		ORDER BY joined_at ASC`

	return s.queryMembers(ctx, "list members", query, channelID)
}

func (s *MembershipStore) IsMember(ctx context.Context, channelID uuid.UUID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM channel_members
			WHERE channel_id = $1 AND user_id = $2
		)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, channelID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return exists, nil
}

// Counterparts fetches, in one query, everyone but exclude who belongs to
// any of channelIDs.
func (s *MembershipStore) Counterparts(ctx context.Context, channelIDs []uuid.UUID, exclude uuid.UUID) ([]models.ChannelMember, error) {
	if len(channelIDs) == 0 {
		return make([]models.ChannelMember, 0), nil
	}
	query := `
		SELECT id, channel_id, user_id, joined_at
		FROM channel_members
		WHERE channel_id = ANY($1::uuid[]) AND user_id <> $2
		ORDER BY channel_id, joined_at ASC`

	return s.queryMembers(ctx, "list counterparts", query, uuidStrings(channelIDs), exclude)
}

func (s *MembershipStore) queryMembers(ctx context.Context, op, query string, args ...any) ([]models.ChannelMember, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	members := make([]models.ChannelMember, 0)
	for rows.Next() {
		var m models.ChannelMember
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}
