package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/livequery"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/realtime"
	"go.uber.org/zap"
)

// Conversation returns every message between viewer and other, oldest
// first, with both parties' snippets attached.
func (s *Service) Conversation(ctx context.Context, viewer, other uuid.UUID) ([]models.DirectMessageWithProfiles, error) {
	if viewer == uuid.Nil || other == uuid.Nil {
		return nil, apperr.Validation("both user ids are required")
	}

	msgs, err := s.dms.ListConversation(ctx, viewer, other)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return make([]models.DirectMessageWithProfiles, 0), nil
	}

	profiles, err := s.snippets(ctx, []uuid.UUID{viewer, other})
	if err != nil {
		return nil, err
	}

	out := make([]models.DirectMessageWithProfiles, len(msgs))
	for i, m := range msgs {
		out[i] = models.DirectMessageWithProfiles{
			DirectMessage: m,
			FromProfile:   snippetPtr(profiles, m.FromUserID),
			ToProfile:     snippetPtr(profiles, m.ToUserID),
		}
	}
	return out, nil
}

// SendDirectMessage writes one message from viewer to recipient.
func (s *Service) SendDirectMessage(ctx context.Context, viewer, recipient uuid.UUID, content string) (*models.DirectMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("message content is required")
	}
	if recipient == uuid.Nil {
		return nil, apperr.Validation("recipient is required")
	}
	if recipient == viewer {
		return nil, apperr.Validation("cannot message yourself")
	}

	msg, err := s.dms.Create(ctx, viewer, recipient, content)
	if err != nil {
		return nil, err
	}

	s.announce.Insert(ctx, TableDirectMessages, msg,
		livequery.ConversationKey(viewer, recipient),
		livequery.ThreadsKey(viewer),
		livequery.ThreadsKey(recipient),
	)
	return msg, nil
}

// MarkConversationRead flips read on the messages other sent to viewer.
func (s *Service) MarkConversationRead(ctx context.Context, viewer, other uuid.UUID) (int64, error) {
	if other == uuid.Nil {
		return 0, apperr.Validation("user id is required")
	}
	n, err := s.dms.MarkRead(ctx, viewer, other)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.announce.Invalidate(livequery.ConversationKey(viewer, other), livequery.ThreadsKey(viewer))
	}
	return n, nil
}

// InConversation reports whether a direct_messages event belongs to the
// conversation between a and b, in either direction.
func InConversation(ev realtime.Event, a, b uuid.UUID) bool {
	if ev.Table != TableDirectMessages {
		return false
	}
	from, ok := realtime.Field(ev, "from_user_id")
	if !ok {
		return false
	}
	to, ok := realtime.Field(ev, "to_user_id")
	if !ok {
		return false
	}
	as, bs := a.String(), b.String()
	return (from == as && to == bs) || (from == bs && to == as)
}

// GetOrCreateDM returns the private channel shared by viewer and other.
// Repeated calls, from either side, return the same channel.
func (s *Service) GetOrCreateDM(ctx context.Context, viewer, other uuid.UUID) (uuid.UUID, error) {
	if other == uuid.Nil {
		return uuid.Nil, apperr.Validation("user id is required")
	}
	if other == viewer {
		return uuid.Nil, apperr.Validation("cannot open a direct channel with yourself")
	}

	channelID, created, err := s.channels.GetOrCreateDM(ctx, viewer, other)
	if err != nil {
		return uuid.Nil, err
	}
	if created {
		s.logger.Info("direct channel created",
			zap.Stringer("channel_id", channelID),
			zap.Stringer("user_id", viewer),
			zap.Stringer("other_user_id", other),
		)
		for _, member := range []uuid.UUID{viewer, other} {
			s.announce.Insert(ctx, TableChannelMembers, models.ChannelMember{
				ChannelID: channelID,
				UserID:    member,
			}, livequery.ChannelsKey(member))
		}
	}
	return channelID, nil
}
