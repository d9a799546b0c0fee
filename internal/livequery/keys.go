package livequery

import (
	"sort"

	"github.com/google/uuid"
)

// Names of the live queries a client can subscribe to.
const (
	NameChannels      = "chat-channels"
	NameMessages      = "chat-messages"
	NameThreads       = "dm-threads"
	NameConversation  = "direct-messages"
	NameNotifications = "notifications"
	NameActivity      = "user-activity-logs"
	NameEvents        = "events"
)

func ChannelsKey(viewer uuid.UUID) string {
	return NameChannels + ":" + viewer.String()
}

func MessagesKey(channelID uuid.UUID) string {
	return NameMessages + ":" + channelID.String()
}

func ThreadsKey(viewer uuid.UUID) string {
	return NameThreads + ":" + viewer.String()
}

// ConversationKey is the same for (a, b) and (b, a), so a write by either
// party invalidates both sides of the conversation.
func ConversationKey(a, b uuid.UUID) string {
	ids := []string{a.String(), b.String()}
	sort.Strings(ids)
	return NameConversation + ":" + ids[0] + ":" + ids[1]
}

func NotificationsKey(userID uuid.UUID) string {
	return NameNotifications + ":" + userID.String()
}

func ActivityKey(userID uuid.UUID) string {
	return NameActivity + ":" + userID.String()
}

// EventsKey is shared by every viewer; filter is all, upcoming or past.
func EventsKey(filter string) string {
	return NameEvents + ":" + filter
}

// AllEvents invalidates every event list.
const AllEvents = NameEvents + ":*"

// AllChannels invalidates every viewer's channel list.
const AllChannels = NameChannels + ":*"
