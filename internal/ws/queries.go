package ws

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/activity"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/chat"
	"github.com/lalith-99/communityhub/internal/livequery"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/notify"
	"github.com/lalith-99/communityhub/internal/portal"
	"github.com/lalith-99/communityhub/internal/realtime"
)

// ChatReader is the read side of chat.Service.
type ChatReader interface {
	ListChannels(ctx context.Context, viewer *uuid.UUID) ([]models.ChannelView, error)
	ChannelFeed(ctx context.Context, viewer *uuid.UUID, channelID uuid.UUID) ([]models.ChannelMessageWithProfile, error)
	ListThreads(ctx context.Context, viewer uuid.UUID) ([]models.DirectMessageThread, error)
	Conversation(ctx context.Context, viewer, other uuid.UUID) ([]models.DirectMessageWithProfiles, error)
}

type NotificationReader interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
}

type ActivityReader interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]activity.Log, error)
}

// EventReader is the read side of portal.Events.
type EventReader interface {
	List(ctx context.Context, filter string, includeAll bool) ([]models.Event, error)
}

// Intervals are the poll periods per query. Zero disables polling and the
// query refreshes on push events only.
type Intervals struct {
	Channels      time.Duration
	Messages      time.Duration
	Threads       time.Duration
	Conversation  time.Duration
	Notifications time.Duration
	Activity      time.Duration
	Events        time.Duration
}

// Queries resolves subscribe requests into live query definitions.
type Queries struct {
	Chat          ChatReader
	Notifications NotificationReader
	Activity      ActivityReader
	Events        EventReader
	Intervals     Intervals
}

// definition is everything needed to run one subscription. Fetches
// coalesce only within a scope, and anything whose result depends on the
// viewer's permissions is scoped to the viewer.
type definition struct {
	key      string
	scope    string
	interval time.Duration
	fetch    livequery.Fetcher

	// push events matching filter, and accept when set, invalidate the
	// query. A zero filter means poll only.
	filter realtime.Filter
	accept func(realtime.Event) bool
}

func (d definition) pushes() bool {
	return d.filter.Table != ""
}

func (q *Queries) resolve(viewer uuid.UUID, name string, params map[string]string) (definition, error) {
	switch name {
	case livequery.NameChannels:
		return definition{
			key:      livequery.ChannelsKey(viewer),
			scope:    viewer.String(),
			interval: q.Intervals.Channels,
			fetch: func(ctx context.Context) (any, error) {
				return q.Chat.ListChannels(ctx, &viewer)
			},
			filter: realtime.Filter{
				Table: chat.TableChannelMembers, Event: realtime.EventInsert,
				Column: "user_id", Value: viewer.String(),
			},
		}, nil

	case livequery.NameMessages:
		channelID, err := param(params, "channel_id")
		if err != nil {
			return definition{}, err
		}
		return definition{
			key:      livequery.MessagesKey(channelID),
			scope:    viewer.String(),
			interval: q.Intervals.Messages,
			fetch: func(ctx context.Context) (any, error) {
				return q.Chat.ChannelFeed(ctx, &viewer, channelID)
			},
			filter: realtime.Filter{
				Table: chat.TableChatMessages, Event: realtime.EventInsert,
				Column: "channel_id", Value: channelID.String(),
			},
		}, nil

	case livequery.NameThreads:
		return definition{
			key:      livequery.ThreadsKey(viewer),
			scope:    viewer.String(),
			interval: q.Intervals.Threads,
			fetch: func(ctx context.Context) (any, error) {
				return q.Chat.ListThreads(ctx, viewer)
			},
			filter: realtime.Filter{Table: chat.TableDirectMessages, Event: realtime.EventInsert},
			accept: func(ev realtime.Event) bool {
				return involves(ev, viewer)
			},
		}, nil

	case livequery.NameConversation:
		other, err := param(params, "user_id")
		if err != nil {
			return definition{}, err
		}
		if other == viewer {
			return definition{}, apperr.Validation("cannot open a conversation with yourself")
		}
		return definition{
			key:      livequery.ConversationKey(viewer, other),
			scope:    viewer.String(),
			interval: q.Intervals.Conversation,
			fetch: func(ctx context.Context) (any, error) {
				return q.Chat.Conversation(ctx, viewer, other)
			},
			// the filter can't express an OR over two columns, so every
			// direct message insert arrives here and is checked.
			filter: realtime.Filter{Table: chat.TableDirectMessages, Event: realtime.EventInsert},
			accept: func(ev realtime.Event) bool {
				return chat.InConversation(ev, viewer, other)
			},
		}, nil

	case livequery.NameNotifications:
		return definition{
			key:      livequery.NotificationsKey(viewer),
			scope:    viewer.String(),
			interval: q.Intervals.Notifications,
			fetch: func(ctx context.Context) (any, error) {
				return q.Notifications.List(ctx, viewer)
			},
			filter: realtime.Filter{
				Table: notify.TableNotifications, Event: realtime.EventInsert,
				Column: "user_id", Value: viewer.String(),
			},
		}, nil

	case livequery.NameActivity:
		return definition{
			key:      livequery.ActivityKey(viewer),
			scope:    viewer.String(),
			interval: q.Intervals.Activity,
			fetch: func(ctx context.Context) (any, error) {
				return q.Activity.ListForUser(ctx, viewer)
			},
		}, nil

	case livequery.NameEvents:
		filter := params["filter"]
		if filter == "" {
			filter = portal.EventsAll
		}
		if !portal.ValidEventFilter(filter) {
			return definition{}, apperr.Validation("unknown event filter %q", filter)
		}
		// approved events look the same to everyone, so viewers share one
		// fetch per filter.
		return definition{
			key:      livequery.EventsKey(filter),
			interval: q.Intervals.Events,
			fetch: func(ctx context.Context) (any, error) {
				return q.Events.List(ctx, filter, false)
			},
		}, nil
	}
	return definition{}, apperr.Validation("unknown query %q", name)
}

func param(params map[string]string, name string) (uuid.UUID, error) {
	raw, ok := params[name]
	if !ok || raw == "" {
		return uuid.Nil, apperr.Validation("%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

func involves(ev realtime.Event, userID uuid.UUID) bool {
	id := userID.String()
	if from, ok := realtime.Field(ev, "from_user_id"); ok && from == id {
		return true
	}
	to, ok := realtime.Field(ev, "to_user_id")
	return ok && to == id
}
