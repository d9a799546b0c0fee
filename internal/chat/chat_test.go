package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/activity"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/livequery"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/realtime"
	"github.com/lalith-99/communityhub/internal/repository/repomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	store    *memStore
	svc      *Service
	hub      *realtime.Hub
	stale    *staleKeys
	activity *repomock.MockActivityRepository
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	hub := realtime.NewHub(zaptest.NewLogger(t))
	stale := &staleKeys{}
	act := &repomock.MockActivityRepository{}
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	svc := NewService(Deps{
		Profiles:       store,
		Channels:       memChannels{store},
		Members:        memMembers{store},
		Messages:       memMessages{store},
		DirectMessages: memDMs{store},
		Activity:       activity.NewRecorder(act, logger),
		Announcer:      realtime.NewAnnouncer(stale, hub, logger),
		FeedWindow:     3,
		Logger:         logger,
	})
	return &fixture{store: store, svc: svc, hub: hub, stale: stale, activity: act, logs: logs}
}

// staleKeys records invalidated live query keys.
type staleKeys struct {
	mu   sync.Mutex
	keys []string
}

func (s *staleKeys) Invalidate(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, keys...)
}

func (s *staleKeys) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.keys, key)
}

func (f *fixture) profile(name string) uuid.UUID {
	id := uuid.New()
	f.store.profiles[id] = models.ProfileSnippet{FullName: name, AvatarURL: "https://cdn.example/" + name}
	return id
}

func ctx() context.Context { return context.Background() }

func dm(from, to uuid.UUID, content string, at time.Time, read bool) models.DirectMessage {
	return models.DirectMessage{ID: uuid.New(), FromUserID: from, ToUserID: to, Content: content, CreatedAt: at, Read: read}
}

func TestAggregateThreadsExample(t *testing.T) {
	viewer, b, c := uuid.New(), uuid.New(), uuid.New()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	newestFirst := []models.DirectMessage{
		dm(b, viewer, "hi", t0.Add(3*time.Minute), false),
		dm(viewer, c, "yo", t0.Add(2*time.Minute), false),
		dm(b, viewer, "hey", t0.Add(1*time.Minute), true),
		dm(b, viewer, "sup", t0, false),
	}
	profiles := map[uuid.UUID]models.ProfileSnippet{
		b: {FullName: "Bea", AvatarURL: "b.png"},
	}

	threads := AggregateThreads(viewer, newestFirst, profiles)
	require.Len(t, threads, 2)

	assert.Equal(t, b, threads[0].OtherUserID)
	assert.Equal(t, "hi", threads[0].LastMessage)
	assert.Equal(t, 2, threads[0].UnreadCount)
	assert.Equal(t, "Bea", threads[0].OtherUserName)
	assert.Equal(t, "b.png", threads[0].OtherUserAvatar)

	assert.Equal(t, c, threads[1].OtherUserID)
	assert.Equal(t, "yo", threads[1].LastMessage)
	assert.Equal(t, 0, threads[1].UnreadCount, "messages sent by the viewer are never unread")
	assert.Equal(t, UnknownUser, threads[1].OtherUserName)
	assert.Empty(t, threads[1].OtherUserAvatar)
}

func TestAggregateThreadsEmptyAndTies(t *testing.T) {
	viewer := uuid.New()
	assert.Empty(t, AggregateThreads(viewer, nil, nil))

	a, b := uuid.New(), uuid.New()
	at := time.Now()
	threads := AggregateThreads(viewer, []models.DirectMessage{
		dm(a, viewer, "one", at, false),
		dm(b, viewer, "two", at, false),
	}, map[uuid.UUID]models.ProfileSnippet{a: {FullName: ""}})

	require.Len(t, threads, 2)
	assert.True(t, threads[0].OtherUserID.String() < threads[1].OtherUserID.String())
	for _, th := range threads {
		assert.Equal(t, UnknownUser, th.OtherUserName)
	}
}

func TestListThreadsUsesOneProfileBatch(t *testing.T) {
	f := newFixture(t)
	viewer := f.profile("viewer")
	bea := f.profile("Bea")
	cal := f.profile("Cal")

	for i, to := range []uuid.UUID{bea, cal, bea} {
		_, err := f.svc.SendDirectMessage(ctx(), viewer, to, fmt.Sprintf("m%d", i))
		require.NoError(t, err)
	}
	_, err := f.svc.SendDirectMessage(ctx(), cal, viewer, "back")
	require.NoError(t, err)

	f.store.snippetCalls = 0
	threads, err := f.svc.ListThreads(ctx(), viewer)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, 1, f.store.snippetCalls)

	assert.Equal(t, cal, threads[0].OtherUserID)
	assert.Equal(t, "back", threads[0].LastMessage)
	assert.Equal(t, 1, threads[0].UnreadCount)
	assert.Equal(t, bea, threads[1].OtherUserID)
	assert.Equal(t, "m2", threads[1].LastMessage)

	empty, err := f.svc.ListThreads(ctx(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestListChannelsDecoratesPrivateChannels(t *testing.T) {
	f := newFixture(t)
	viewer := f.profile("viewer")
	other := f.profile("Other")

	_, err := f.svc.CreateChannel(ctx(), viewer, "general", "", false)
	require.NoError(t, err)
	dmID, err := f.svc.GetOrCreateDM(ctx(), viewer, other)
	require.NoError(t, err)

	views, err := f.svc.ListChannels(ctx(), &viewer)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[uuid.UUID]models.ChannelView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	private := byID[dmID]
	require.NotNil(t, private.OtherProfile)
	assert.Equal(t, "Other", private.OtherProfile.FullName)
	assert.Equal(t, other, *private.OtherUserID)

	for _, v := range views {
		if !v.IsPrivate {
			assert.Nil(t, v.OtherProfile)
		}
	}
}

func TestListChannelsVisibility(t *testing.T) {
	f := newFixture(t)
	a := f.profile("A")
	b := f.profile("B")
	outsider := f.profile("C")

	_, err := f.svc.CreateChannel(ctx(), a, "general", "", false)
	require.NoError(t, err)
	dmID, err := f.svc.GetOrCreateDM(ctx(), a, b)
	require.NoError(t, err)

	for _, viewer := range []*uuid.UUID{&outsider, nil} {
		views, err := f.svc.ListChannels(ctx(), viewer)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.False(t, views[0].IsPrivate)
	}

	_, err = f.svc.ChannelFeed(ctx(), &outsider, dmID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = f.svc.ChannelFeed(ctx(), nil, dmID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = f.svc.SendChannelMessage(ctx(), outsider, SendChannelMessage{ChannelID: dmID, Content: "hi"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = f.svc.Members(ctx(), &outsider, dmID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.svc.ChannelFeed(ctx(), &b, dmID)
	assert.NoError(t, err)
}

func TestListChannelsWarnsOnBrokenPrivateChannel(t *testing.T) {
	f := newFixture(t)
	viewer := f.profile("viewer")

	lonely, err := memChannels{f.store}.Create(ctx(), models.Channel{Name: "lonely", IsPrivate: true})
	require.NoError(t, err)
	_, err = memMembers{f.store}.AddMember(ctx(), lonely.ID, viewer)
	require.NoError(t, err)

	views, err := f.svc.ListChannels(ctx(), &viewer)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].OtherProfile)
	assert.Nil(t, views[0].OtherUserID)
	assert.Equal(t, 1, f.logs.FilterMessage("private channel without exactly one counterpart").Len())
}

func TestGetOrCreateDMIsIdempotent(t *testing.T) {
	f := newFixture(t)
	a := f.profile("A")
	b := f.profile("B")

	first, err := f.svc.GetOrCreateDM(ctx(), a, b)
	require.NoError(t, err)
	second, err := f.svc.GetOrCreateDM(ctx(), a, b)
	require.NoError(t, err)
	reversed, err := f.svc.GetOrCreateDM(ctx(), b, a)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, reversed)

	members, err := memMembers{f.store}.ListMembers(ctx(), first)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 8)
	c := f.profile("C")
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := f.svc.GetOrCreateDM(ctx(), a, c)
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	_, err = f.svc.GetOrCreateDM(ctx(), a, a)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.GetOrCreateDM(ctx(), a, uuid.Nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestChannelFeedOrderingAndWindow(t *testing.T) {
	f := newFixture(t)
	author := f.profile("Author")
	ch, err := f.svc.CreateChannel(ctx(), author, "general", "", false)
	require.NoError(t, err)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	// Same timestamp: insertion order (seq) decides.
	for _, body := range []string{"a", "b", "c", "d"} {
		_, err := memMessages{f.store}.Create(ctx(), models.ChannelMessage{
			ChannelID: ch.ID, UserID: author, Content: body, CreatedAt: at,
		})
		require.NoError(t, err)
	}

	for n := 0; n < 2; n++ {
		feed, err := f.svc.ChannelFeed(ctx(), &author, ch.ID)
		require.NoError(t, err)
		require.Len(t, feed, 3, "feed is capped at the window size")
		assert.Equal(t, "b", feed[0].Content)
		assert.Equal(t, "c", feed[1].Content)
		assert.Equal(t, "d", feed[2].Content)
		require.NotNil(t, feed[0].Profile)
		assert.Equal(t, "Author", feed[0].Profile.FullName)
	}
}

func TestChannelFeedEmptyCases(t *testing.T) {
	f := newFixture(t)
	viewer := f.profile("v")

	feed, err := f.svc.ChannelFeed(ctx(), &viewer, uuid.Nil)
	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)

	feed, err = f.svc.ChannelFeed(ctx(), &viewer, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestSendChannelMessage(t *testing.T) {
	f := newFixture(t)
	author := f.profile("Author")
	ch, err := f.svc.CreateChannel(ctx(), author, "general", "", false)
	require.NoError(t, err)

	var events []realtime.Event
	f.hub.Subscribe(realtime.Filter{
		Table: TableChatMessages, Event: realtime.EventInsert,
		Column: "channel_id", Value: ch.ID.String(),
	}, func(ev realtime.Event) { events = append(events, ev) })

	_, err = f.svc.SendChannelMessage(ctx(), author, SendChannelMessage{ChannelID: ch.ID, Content: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, f.store.messages, "validation happens before any write")

	msg, err := f.svc.SendChannelMessage(ctx(), author, SendChannelMessage{ChannelID: ch.ID, Content: " hello "})
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)

	withFile, err := f.svc.SendChannelMessage(ctx(), author, SendChannelMessage{ChannelID: ch.ID, AttachmentURL: "https://files/x.png"})
	require.NoError(t, err)
	assert.Empty(t, withFile.Content)

	assert.Len(t, events, 2)
	assert.True(t, f.stale.has(livequery.MessagesKey(ch.ID)))

	_, err = f.svc.SendChannelMessage(ctx(), author, SendChannelMessage{ChannelID: uuid.New(), Content: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteChannelMessageAuthorOnly(t *testing.T) {
	f := newFixture(t)
	author := f.profile("Author")
	other := f.profile("Other")
	ch, err := f.svc.CreateChannel(ctx(), author, "general", "", false)
	require.NoError(t, err)
	msg, err := f.svc.SendChannelMessage(ctx(), author, SendChannelMessage{ChannelID: ch.ID, Content: "hi"})
	require.NoError(t, err)

	err = f.svc.DeleteChannelMessage(ctx(), other, msg.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, f.svc.DeleteChannelMessage(ctx(), author, msg.ID))
	assert.ErrorIs(t, f.svc.DeleteChannelMessage(ctx(), author, msg.ID), apperr.ErrNotFound)
}

func TestDeleteChannelRecordsActivity(t *testing.T) {
	f := newFixture(t)
	admin := f.profile("Admin")
	ch, err := f.svc.CreateChannel(ctx(), admin, "general", "", false)
	require.NoError(t, err)
	for n := 0; n < 2; n++ {
		_, err := f.svc.SendChannelMessage(ctx(), admin, SendChannelMessage{ChannelID: ch.ID, Content: "x"})
		require.NoError(t, err)
	}

	f.activity.On("Insert", mock.Anything, mock.MatchedBy(func(e models.ActivityLog) bool {
		d, err := activity.Decode(e.Action, e.Details)
		if err != nil {
			return false
		}
		cd, ok := d.(activity.ChannelDeleted)
		return ok && cd.ChannelName == "general" && cd.MessagesRemoved == 2 && cd.DeletedBy == admin
	})).Return(&models.ActivityLog{}, nil).Once()

	require.NoError(t, f.svc.DeleteChannel(ctx(), admin, ch.ID))
	f.activity.AssertExpectations(t)
	assert.Empty(t, f.store.messages)

	assert.ErrorIs(t, f.svc.DeleteChannel(ctx(), admin, ch.ID), apperr.ErrNotFound)
}

func TestDeleteChannelSurvivesAuditFailure(t *testing.T) {
	f := newFixture(t)
	admin := f.profile("Admin")
	ch, err := f.svc.CreateChannel(ctx(), admin, "general", "", false)
	require.NoError(t, err)

	f.activity.On("Insert", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	require.NoError(t, f.svc.DeleteChannel(ctx(), admin, ch.ID))
	assert.Equal(t, 1, f.logs.FilterMessage("failed to record activity").Len())
}

func TestJoinAndLeaveChannel(t *testing.T) {
	f := newFixture(t)
	a := f.profile("A")
	b := f.profile("B")
	ch, err := f.svc.CreateChannel(ctx(), a, "general", "", false)
	require.NoError(t, err)

	var joins int
	f.hub.Subscribe(realtime.Filter{
		Table: TableChannelMembers, Event: realtime.EventInsert,
		Column: "user_id", Value: b.String(),
	}, func(realtime.Event) { joins++ })

	require.NoError(t, f.svc.JoinChannel(ctx(), b, ch.ID))
	require.NoError(t, f.svc.JoinChannel(ctx(), b, ch.ID))
	assert.Equal(t, 1, joins, "a repeated join is a no-op")

	members, err := f.svc.Members(ctx(), &a, ch.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	require.NoError(t, f.svc.LeaveChannel(ctx(), b, ch.ID))
	members, err = f.svc.Members(ctx(), &a, ch.ID)
	require.NoError(t, err)
	assert.Empty(t, members)

	dmID, err := f.svc.GetOrCreateDM(ctx(), a, b)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.JoinChannel(ctx(), f.profile("C"), dmID), apperr.ErrForbidden)
	assert.ErrorIs(t, f.svc.JoinChannel(ctx(), a, uuid.New()), apperr.ErrNotFound)
}

func TestCreateAndUpdateChannelValidation(t *testing.T) {
	f := newFixture(t)
	a := f.profile("A")

	_, err := f.svc.CreateChannel(ctx(), a, "  ", "", false)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	ch, err := f.svc.CreateChannel(ctx(), a, " news ", " daily ", false)
	require.NoError(t, err)
	assert.Equal(t, "news", ch.Name)
	assert.Equal(t, "daily", ch.Description)

	updated, err := f.svc.UpdateChannel(ctx(), ch.ID, "headlines", "")
	require.NoError(t, err)
	assert.Equal(t, "headlines", updated.Name)

	_, err = f.svc.UpdateChannel(ctx(), uuid.New(), "x", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestConversation(t *testing.T) {
	f := newFixture(t)
	a := f.profile("A")
	b := f.profile("B")
	c := f.profile("C")

	_, err := f.svc.SendDirectMessage(ctx(), a, b, "one")
	require.NoError(t, err)
	_, err = f.svc.SendDirectMessage(ctx(), b, a, "two")
	require.NoError(t, err)
	_, err = f.svc.SendDirectMessage(ctx(), a, c, "elsewhere")
	require.NoError(t, err)

	conv, err := f.svc.Conversation(ctx(), a, b)
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, "one", conv[0].Content)
	assert.Equal(t, "two", conv[1].Content)
	assert.Equal(t, "A", conv[0].FromProfile.FullName)
	assert.Equal(t, "B", conv[0].ToProfile.FullName)
	assert.Equal(t, "B", conv[1].FromProfile.FullName)

	_, err = f.svc.Conversation(ctx(), a, uuid.Nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	empty, err := f.svc.Conversation(ctx(), b, c)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSendDirectMessageValidation(t *testing.T) {
	f := newFixture(t)
	a := f.profile("A")

	_, err := f.svc.SendDirectMessage(ctx(), a, uuid.New(), "  ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.SendDirectMessage(ctx(), a, a, "hi")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.svc.SendDirectMessage(ctx(), a, uuid.Nil, "hi")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, f.store.dms)
}

func TestSendDirectMessageInvalidatesBothSides(t *testing.T) {
	f := newFixture(t)
	a := f.profile("A")
	b := f.profile("B")

	_, err := f.svc.SendDirectMessage(ctx(), a, b, "hi")
	require.NoError(t, err)

	for _, key := range []string{livequery.ConversationKey(b, a), livequery.ThreadsKey(a), livequery.ThreadsKey(b)} {
		assert.True(t, f.stale.has(key), key)
	}
}

func TestMarkConversationReadIsMonotonic(t *testing.T) {
	f := newFixture(t)
	a := f.profile("A")
	b := f.profile("B")

	_, err := f.svc.SendDirectMessage(ctx(), b, a, "one")
	require.NoError(t, err)
	_, err = f.svc.SendDirectMessage(ctx(), a, b, "mine")
	require.NoError(t, err)

	n, err := f.svc.MarkConversationRead(ctx(), a, b)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = f.svc.MarkConversationRead(ctx(), a, b)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	for _, m := range f.store.dms {
		if m.ToUserID == a {
			assert.True(t, m.Read)
		} else {
			assert.False(t, m.Read, "the viewer's own messages are untouched")
		}
	}
}

func TestInConversation(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	event := func(table string, from, to uuid.UUID) realtime.Event {
		ev, err := realtime.NewInsert(table, map[string]uuid.UUID{"from_user_id": from, "to_user_id": to})
		require.NoError(t, err)
		return ev
	}

	assert.True(t, InConversation(event(TableDirectMessages, a, b), a, b))
	assert.True(t, InConversation(event(TableDirectMessages, b, a), a, b))
	assert.False(t, InConversation(event(TableDirectMessages, a, c), a, b))
	assert.False(t, InConversation(event(TableChatMessages, a, b), a, b))
}
