package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func insert(t *testing.T, table string, record any) Event {
	t.Helper()
	ev, err := NewInsert(table, record)
	require.NoError(t, err)
	return ev
}

func TestFilterMatches(t *testing.T) {
	channelID := uuid.New()
	ev := insert(t, "chat_messages", map[string]any{
		"channel_id": channelID,
		"seq":        42,
		"read":       false,
	})

	tcases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"table only", Filter{Table: "chat_messages"}, true},
		{"other table", Filter{Table: "direct_messages"}, false},
		{"insert event", Filter{Table: "chat_messages", Event: EventInsert}, true},
		{"delete event", Filter{Table: "chat_messages", Event: EventDelete}, false},
		{"uuid column", Filter{Table: "chat_messages", Column: "channel_id", Value: channelID.String()}, true},
		{"uuid mismatch", Filter{Table: "chat_messages", Column: "channel_id", Value: uuid.NewString()}, false},
		{"number column", Filter{Table: "chat_messages", Column: "seq", Value: "42"}, true},
		{"bool column", Filter{Table: "chat_messages", Column: "read", Value: "false"}, true},
		{"missing column", Filter{Table: "chat_messages", Column: "user_id", Value: "x"}, false},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Matches(ev))
		})
	}

	bad := Event{Table: "chat_messages", Type: EventInsert, Record: json.RawMessage(`{not json`)}
	assert.False(t, Filter{Table: "chat_messages", Column: "channel_id", Value: "x"}.Matches(bad))
}

func TestField(t *testing.T) {
	from := uuid.New()
	ev := insert(t, "direct_messages", map[string]any{"from_user_id": from})

	got, ok := Field(ev, "from_user_id")
	require.True(t, ok)
	assert.Equal(t, from.String(), got)

	_, ok = Field(ev, "to_user_id")
	assert.False(t, ok)
}

func TestHubSubscribeAndUnsubscribe(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	userID := uuid.NewString()

	var got []Event
	unsubscribe := hub.Subscribe(
		Filter{Table: "notifications", Event: EventInsert, Column: "user_id", Value: userID},
		func(ev Event) { got = append(got, ev) },
	)
	assert.Equal(t, 1, hub.Len())

	require.NoError(t, hub.Publish(context.Background(), insert(t, "notifications", map[string]string{"user_id": userID})))
	require.NoError(t, hub.Publish(context.Background(), insert(t, "notifications", map[string]string{"user_id": uuid.NewString()})))
	assert.Len(t, got, 1)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, hub.Len())

	require.NoError(t, hub.Publish(context.Background(), insert(t, "notifications", map[string]string{"user_id": userID})))
	assert.Len(t, got, 1)
}

func TestBrokerRelaysThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hub := NewHub(zaptest.NewLogger(t))
	broker := NewBroker(rdb, hub, zaptest.NewLogger(t))

	received := make(chan Event, 1)
	hub.Subscribe(Filter{Table: "chat_messages"}, func(ev Event) { received <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- broker.Run(ctx, ready) }()

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("broker did not subscribe")
	}

	ev := insert(t, "chat_messages", map[string]string{"content": "hello"})
	require.NoError(t, broker.Publish(ctx, ev))

	select {
	case got := <-received:
		assert.Equal(t, "chat_messages", got.Table)
		assert.Equal(t, EventInsert, got.Type)
		assert.JSONEq(t, `{"content":"hello"}`, string(got.Record))
	case <-time.After(2 * time.Second):
		t.Fatal("event was not relayed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("broker did not stop")
	}
}

type recordingInvalidator struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingInvalidator) Invalidate(keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, keys...)
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, Event) error {
	return errors.New("redis unavailable")
}

func TestAnnouncerIsBestEffort(t *testing.T) {
	inv := &recordingInvalidator{}
	core, logs := observer.New(zap.WarnLevel)
	a := NewAnnouncer(inv, failingPublisher{}, zap.New(core))

	a.Insert(context.Background(), "chat_messages", map[string]string{"id": "1"}, "chat-messages:1")

	assert.Equal(t, []string{"chat-messages:1"}, inv.keys)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "failed to publish realtime event", logs.All()[0].Message)
}

func TestAnnouncerPublishesToHub(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	a := NewAnnouncer(nil, hub, zaptest.NewLogger(t))

	var got Event
	hub.Subscribe(Filter{Table: "direct_messages", Event: EventInsert}, func(ev Event) { got = ev })
	a.Insert(context.Background(), "direct_messages", map[string]string{"content": "hi"})

	assert.Equal(t, "direct_messages", got.Table)

	var nilAnnouncer *Announcer
	nilAnnouncer.Insert(context.Background(), "direct_messages", nil)
	nilAnnouncer.Invalidate("x")
}
