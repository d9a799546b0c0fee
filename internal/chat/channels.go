package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/activity"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/livequery"
	"github.com/lalith-99/communityhub/internal/models"
	"go.uber.org/zap"
)

// ListChannels returns the channels viewer can see, ordered by name. Each
// private channel is decorated with the one other member's identity; when
// that member can't be determined OtherProfile stays nil.
func (s *Service) ListChannels(ctx context.Context, viewer *uuid.UUID) ([]models.ChannelView, error) {
	channels, err := s.channels.ListVisible(ctx, viewer)
	if err != nil {
		return nil, err
	}

	views := make([]models.ChannelView, len(channels))
	privateIDs := make([]uuid.UUID, 0)
	for i, ch := range channels {
		views[i] = models.ChannelView{Channel: ch}
		if ch.IsPrivate {
			privateIDs = append(privateIDs, ch.ID)
		}
	}
	if viewer == nil || len(privateIDs) == 0 {
		return views, nil
	}

	rows, err := s.members.Counterparts(ctx, privateIDs, *viewer)
	if err != nil {
		return nil, err
	}
	counterparts := make(map[uuid.UUID][]uuid.UUID, len(privateIDs))
	others := make([]uuid.UUID, 0, len(rows))
	for _, m := range rows {
		counterparts[m.ChannelID] = append(counterparts[m.ChannelID], m.UserID)
		others = append(others, m.UserID)
	}

	profiles, err := s.snippets(ctx, others)
	if err != nil {
		return nil, err
	}

	for i := range views {
		if !views[i].IsPrivate {
			continue
		}
		ids := counterparts[views[i].ID]
		if len(ids) != 1 {
			s.logger.Warn("private channel without exactly one counterpart",
				zap.Stringer("channel_id", views[i].ID),
				zap.Int("counterparts", len(ids)),
			)
			continue
		}
		other := ids[0]
		views[i].OtherUserID = &other
		views[i].OtherProfile = snippetPtr(profiles, other)
	}
	return views, nil
}

// CreateChannel is admin-only at the route level.
func (s *Service) CreateChannel(ctx context.Context, actor uuid.UUID, name, description string, isPrivate bool) (*models.Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("channel name is required")
	}
	ch, err := s.channels.Create(ctx, models.Channel{
		Name:        name,
		Description: strings.TrimSpace(description),
		IsPrivate:   isPrivate,
		CreatedBy:   &actor,
	})
	if err != nil {
		return nil, err
	}
	s.announce.Invalidate(livequery.AllChannels)
	return ch, nil
}

func (s *Service) UpdateChannel(ctx context.Context, channelID uuid.UUID, name, description string) (*models.Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("channel name is required")
	}
	ch, err := s.channels.Update(ctx, channelID, name, strings.TrimSpace(description))
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, apperr.NotFound("channel")
	}
	s.announce.Invalidate(livequery.AllChannels)
	return ch, nil
}

// DeleteChannel removes the channel together with its memberships and
// messages, then records how many messages went with it.
func (s *Service) DeleteChannel(ctx context.Context, actor, channelID uuid.UUID) error {
	ch, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return err
	}
	if ch == nil {
		return apperr.NotFound("channel")
	}
	count, err := s.messages.CountByChannel(ctx, channelID)
	if err != nil {
		return err
	}

	deleted, err := s.channels.Delete(ctx, channelID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("channel")
	}

	s.logger.Info("channel deleted",
		zap.Stringer("channel_id", channelID),
		zap.Int64("messages_removed", count),
	)
	if s.activity != nil {
		s.activity.RecordBestEffort(ctx, activity.Entry{
			UserID:   &actor,
			EntityID: &channelID,
			Details: activity.ChannelDeleted{
				ChannelID:       channelID,
				ChannelName:     ch.Name,
				MessagesRemoved: count,
				DeletedBy:       actor,
			},
		})
	}
	s.announce.Invalidate(livequery.AllChannels, livequery.MessagesKey(channelID))
	return nil
}

// JoinChannel is idempotent. Private channels can't be joined; their
// memberships are created by GetOrCreateDM.
func (s *Service) JoinChannel(ctx context.Context, viewer, channelID uuid.UUID) error {
	ch, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return err
	}
	if ch == nil {
		return apperr.NotFound("channel")
	}
	if ch.IsPrivate {
		return apperr.Forbidden("channel %s is private", channelID)
	}

	added, err := s.members.AddMember(ctx, channelID, viewer)
	if err != nil {
		return err
	}
	if added {
		s.announce.Insert(ctx, TableChannelMembers, models.ChannelMember{
			ChannelID: channelID,
			UserID:    viewer,
		}, livequery.ChannelsKey(viewer))
	}
	return nil
}

// LeaveChannel is idempotent.
func (s *Service) LeaveChannel(ctx context.Context, viewer, channelID uuid.UUID) error {
	if err := s.members.RemoveMember(ctx, channelID, viewer); err != nil {
		return err
	}
	s.announce.Invalidate(livequery.ChannelsKey(viewer))
	return nil
}

// Members lists a channel's members. Private channels only show their
// members to each other.
func (s *Service) Members(ctx context.Context, viewer *uuid.UUID, channelID uuid.UUID) ([]models.ChannelMember, error) {
	ch, err := s.readableChannel(ctx, viewer, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, apperr.NotFound("channel")
	}
	return s.members.ListMembers(ctx, channelID)
}

// readableChannel returns nil, nil when the channel does not exist.
func (s *Service) readableChannel(ctx context.Context, viewer *uuid.UUID, channelID uuid.UUID) (*models.Channel, error) {
	ch, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil || !ch.IsPrivate {
		return ch, nil
	}
	if viewer == nil {
		return nil, apperr.Forbidden("channel %s is private", channelID)
	}
	ok, err := s.members.IsMember(ctx, channelID, *viewer)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !ok {
		return nil, apperr.Forbidden("not a member of channel %s", channelID)
	}
	return ch, nil
}
