package chat

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/models"
)

// UnknownUser labels a counterpart whose profile can't be found.
const UnknownUser = "Unknown User"

// AggregateThreads folds viewer's direct messages, given newest first,
// into one thread per counterpart. The first message seen for a
// counterpart is its newest, so it supplies the preview. Unread counts
// come from the same list: messages to viewer from that counterpart not
// yet read.
//
// Threads are sorted newest first by last message, ties broken by
// counterpart id.
func AggregateThreads(viewer uuid.UUID, newestFirst []models.DirectMessage, profiles map[uuid.UUID]models.ProfileSnippet) []models.DirectMessageThread {
	index := make(map[uuid.UUID]int)
	threads := make([]models.DirectMessageThread, 0)

	for _, m := range newestFirst {
		other := m.FromUserID
		if other == viewer {
			other = m.ToUserID
		}

		i, ok := index[other]
		if !ok {
			i = len(threads)
			index[other] = i
			threads = append(threads, models.DirectMessageThread{
				OtherUserID:   other,
				LastMessage:   m.Content,
				LastMessageAt: m.CreatedAt,
			})
		}
		if m.ToUserID == viewer && m.FromUserID == other && !m.Read {
			threads[i].UnreadCount++
		}
	}

	for i := range threads {
		threads[i].OtherUserName = UnknownUser
		if p, ok := profiles[threads[i].OtherUserID]; ok {
			if p.FullName != "" {
				threads[i].OtherUserName = p.FullName
			}
			threads[i].OtherUserAvatar = p.AvatarURL
		}
	}

	sort.SliceStable(threads, func(a, b int) bool {
		ta, tb := threads[a].LastMessageAt, threads[b].LastMessageAt
		if !ta.Equal(tb) {
			return ta.After(tb)
		}
		return threads[a].OtherUserID.String() < threads[b].OtherUserID.String()
	})
	return threads
}

// Counterparts returns the distinct other-party ids in viewer's messages.
func Counterparts(viewer uuid.UUID, msgs []models.DirectMessage) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	out := make([]uuid.UUID, 0)
	for _, m := range msgs {
		other := m.FromUserID
		if other == viewer {
			other = m.ToUserID
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, other)
	}
	return out
}

// ListThreads loads viewer's direct messages once, resolves every
// counterpart in one batch, and aggregates.
func (s *Service) ListThreads(ctx context.Context, viewer uuid.UUID) ([]models.DirectMessageThread, error) {
	msgs, err := s.dms.ListForUser(ctx, viewer)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return make([]models.DirectMessageThread, 0), nil
	}
	profiles, err := s.snippets(ctx, Counterparts(viewer, msgs))
	if err != nil {
		return nil, err
	}
	return AggregateThreads(viewer, msgs, profiles), nil
}
