package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/communityhub/internal/models"
)

// DirectMessageStore holds one row per message between two users.
type DirectMessageStore struct {
	pool *pgxpool.Pool
}

func NewDirectMessageStore(pool *pgxpool.Pool) *DirectMessageStore {
	return &DirectMessageStore{pool: pool}
}

const directMessageColumns = `id, seq, from_user_id, to_user_id, content, read, created_at`

func (s *DirectMessageStore) Create(ctx context.Context, from, to uuid.UUID, content string) (*models.DirectMessage, error) {
	query := `
		INSERT INTO direct_messages (from_user_id, to_user_id, content)
		VALUES ($1, $2, $3)
		RETURNING ` + directMessageColumns

	var m models.DirectMessage
	err := s.pool.QueryRow(ctx, query, from, to, content).Scan(
		&m.ID, &m.Seq, &m.FromUserID, &m.ToUserID, &m.Content, &m.Read, &m.CreatedAt,
	)
	if err != nil {
		return nil, wrapErr("insert direct message", err)
	}
	return &m, nil
}

func (s *DirectMessageStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.DirectMessage, error) {
	query := `
		SELECT ` + directMessageColumns + `
		FROM direct_messages
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC, seq DESC`

	return s.query(ctx, "list direct messages", query, userID)
}

func (s *DirectMessageStore) ListConversation(ctx context.Context, a, b uuid.UUID) ([]models.DirectMessage, error) {
	query := `
		SELECT ` + directMessageColumns + `
		FROM direct_messages
		WHERE (from_user_id = $1 AND to_user_id = $2)
		   OR (from_user_id = $2 AND to_user_id = $1)
		ORDER BY created_at ASC, seq ASC`

	return s.query(ctx, "list conversation", query, a, b)
}

// MarkRead never sets read back to false.
func (s *DirectMessageStore) MarkRead(ctx context.Context, viewer, counterpart uuid.UUID) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE direct_messages SET read = true
		WHERE to_user_id = $1 AND from_user_id = $2 AND NOT read`, viewer, counterpart)
	if err != nil {
		return 0, fmt.Errorf("mark direct messages read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *DirectMessageStore) query(ctx context.Context, op, query string, args ...any) ([]models.DirectMessage, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	messages := make([]models.DirectMessage, 0)
	for rows.Next() {
		m, err := pgx.RowToStructByPos[models.DirectMessage](rows)
		if err != nil {
			return nil, fmt.Errorf("scan direct message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate direct messages: %w", err)
	}
	return messages, nil
}
