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

// MessageStore implements repository.MessageRepository.
type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

const messageColumns = `id, seq, channel_id, user_id, content, attachment_url, reply_to, created_at`

func scanMessage(row pgx.Row) (*models.ChannelMessage, error) {
	var m models.ChannelMessage
	err := row.Scan(
		&m.ID,
		&m.Seq,
		&m.ChannelID,
		&m.UserID,
		&m.Content,
		&m.AttachmentURL,
		&m.ReplyTo,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MessageStore) Create(ctx context.Context, msg models.ChannelMessage) (*models.ChannelMessage, error) {
	// seq is a bigserial; Postgres assigns it.
	query := `
		INSERT INTO chat_messages (channel_id, user_id, content, attachment_url, reply_to)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + messageColumns

	out, err := scanMessage(s.pool.QueryRow(ctx, query,
		msg.ChannelID, msg.UserID, msg.Content, msg.AttachmentURL, msg.ReplyTo))
	if err != nil {
		return nil, wrapErr("insert message", err)
	}
	return out, nil
}

func (s *MessageStore) GetByID(ctx context.Context, messageID uuid.UUID) (*models.ChannelMessage, error) {
	m, err := scanMessage(s.pool.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM chat_messages WHERE id = $1`, messageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

// ListRecent takes the newest limit rows and flips them back to ascending
// order for display.
func (s *MessageStore) ListRecent(ctx context.Context, channelID uuid.UUID, limit int) ([]models.ChannelMessage, error) {
	query := `
		SELECT ` + messageColumns + ` FROM (
			SELECT ` + messageColumns + `
			FROM chat_messages
			WHERE channel_id = $1
			ORDER BY created_at DESC, seq DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, seq ASC`

	rows, err := s.pool.Query(ctx, query, channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.ChannelMessage, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

func (s *MessageStore) Delete(ctx context.Context, messageID, authorID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM chat_messages WHERE id = $1 AND user_id = $2`, messageID, authorID)
	if err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *MessageStore) CountByChannel(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM chat_messages WHERE channel_id = $1`, channelID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}
