// Package chat implements channels, channel feeds, direct-message threads
// and conversations. The current user is always passed in explicitly.
package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/activity"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/realtime"
	"github.com/lalith-99/communityhub/internal/repository"
	"go.uber.org/zap"
)

const (
	TableChannelMembers = "channel_members"
	TableChatMessages   = "chat_messages"
	TableDirectMessages = "direct_messages"
)

const DefaultFeedWindow = 100

// Deps are the collaborators a Service needs. Activity and Announcer may
// be nil in tests; every other field is required.
type Deps struct {
	Profiles       repository.ProfileRepository
	Channels       repository.ChannelRepository
	Members        repository.MembershipRepository
	Messages       repository.MessageRepository
	DirectMessages repository.DirectMessageRepository
	Activity       *activity.Recorder
	Announcer      *realtime.Announcer
	FeedWindow     int
	Logger         *zap.Logger
}

// Service is the messaging core: channels, channel feeds and direct
// messages. Every write announces the live query keys it makes stale.
type Service struct {
	profiles   repository.ProfileRepository
	channels   repository.ChannelRepository
	members    repository.MembershipRepository
	messages   repository.MessageRepository
	dms        repository.DirectMessageRepository
	activity   *activity.Recorder
	announce   *realtime.Announcer
	feedWindow int
	logger     *zap.Logger
}

// NewService defaults FeedWindow and Logger when they are unset.
func NewService(d Deps) *Service {
	window := d.FeedWindow
	if window <= 0 {
		window = DefaultFeedWindow
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiles:   d.Profiles,
		channels:   d.Channels,
		members:    d.Members,
		messages:   d.Messages,
		dms:        d.DirectMessages,
		activity:   d.Activity,
		announce:   d.Announcer,
		feedWindow: window,
		logger:     logger,
	}
}

// snippets batch-resolves display identities for ids, skipping duplicates.
func (s *Service) snippets(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.ProfileSnippet, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	distinct := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	if len(distinct) == 0 {
		return map[uuid.UUID]models.ProfileSnippet{}, nil
	}
	out, err := s.profiles.Snippets(ctx, distinct)
	if err != nil {
		return nil, fmt.Errorf("resolve profiles: %w", err)
	}
	return out, nil
}

func snippetPtr(m map[uuid.UUID]models.ProfileSnippet, id uuid.UUID) *models.ProfileSnippet {
	if snip, ok := m[id]; ok {
		return &snip
	}
	return nil
}
