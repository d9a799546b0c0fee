package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/livequery"
	"github.com/lalith-99/communityhub/internal/models"
)

// ChannelFeed returns the newest messages of a channel, oldest first,
// each with its author's snippet. A zero channel id, or a channel that
// does not exist, yields an empty feed.
func (s *Service) ChannelFeed(ctx context.Context, viewer *uuid.UUID, channelID uuid.UUID) ([]models.ChannelMessageWithProfile, error) {
	if channelID == uuid.Nil {
		return make([]models.ChannelMessageWithProfile, 0), nil
	}
	ch, err := s.readableChannel(ctx, viewer, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return make([]models.ChannelMessageWithProfile, 0), nil
	}

	msgs, err := s.messages.ListRecent(ctx, channelID, s.feedWindow)
	if err != nil {
		return nil, err
	}

	authors := make([]uuid.UUID, len(msgs))
	for i, m := range msgs {
		authors[i] = m.UserID
	}
	profiles, err := s.snippets(ctx, authors)
	if err != nil {
		return nil, err
	}

	out := make([]models.ChannelMessageWithProfile, len(msgs))
	for i, m := range msgs {
		out[i] = models.ChannelMessageWithProfile{
			ChannelMessage: m,
			Profile:        snippetPtr(profiles, m.UserID),
		}
	}
	return out, nil
}

// SendChannelMessage is a post to a channel. Content may be blank only
// when AttachmentURL is set.
type SendChannelMessage struct {
	ChannelID     uuid.UUID
	Content       string
	AttachmentURL string
	ReplyTo       *uuid.UUID
}

// SendChannelMessage persists one message. Content or an attachment is
// required; this is checked before any I/O.
func (s *Service) SendChannelMessage(ctx context.Context, viewer uuid.UUID, in SendChannelMessage) (*models.ChannelMessage, error) {
	content := strings.TrimSpace(in.Content)
	attachment := strings.TrimSpace(in.AttachmentURL)
	if content == "" && attachment == "" {
		return nil, apperr.Validation("message content or attachment is required")
	}
	if in.ChannelID == uuid.Nil {
		return nil, apperr.Validation("channel_id is required")
	}

	ch, err := s.readableChannel(ctx, &viewer, in.ChannelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, apperr.NotFound("channel")
	}

	msg, err := s.messages.Create(ctx, models.ChannelMessage{
		ChannelID:     in.ChannelID,
		UserID:        viewer,
		Content:       content,
		AttachmentURL: attachment,
		ReplyTo:       in.ReplyTo,
	})
	if err != nil {
		return nil, err
	}

	s.announce.Insert(ctx, TableChatMessages, msg, livequery.MessagesKey(in.ChannelID))
	return msg, nil
}

// DeleteChannelMessage lets an author remove their own message.
func (s *Service) DeleteChannelMessage(ctx context.Context, viewer, messageID uuid.UUID) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return apperr.NotFound("message")
	}
	if msg.UserID != viewer {
		return apperr.Forbidden("only the author can delete a message")
	}

	deleted, err := s.messages.Delete(ctx, messageID, viewer)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("message")
	}
	s.announce.Invalidate(livequery.MessagesKey(msg.ChannelID))
	return nil
}
