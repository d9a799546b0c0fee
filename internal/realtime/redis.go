package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "realtime:"

// Broker publishes events to Redis on realtime:<table> and relays every
// event it receives back into the local hub, so all instances see writes
// made on any of them.
type Broker struct {
	rdb    *redis.Client
	hub    *Hub
	logger *zap.Logger
}

// NewBroker relays into hub. Run must be started for remote events to
// arrive.
func NewBroker(rdb *redis.Client, hub *Hub, logger *zap.Logger) *Broker {
	return &Broker{rdb: rdb, hub: hub, logger: logger}
}

// Channel is the Redis pub/sub channel for table.
func Channel(table string) string {
	return channelPrefix + table
}

// Publish sends ev to every instance, this one included. Delivery is at
// most once; a subscriber that is down misses it and catches up on its
// next poll.
func (b *Broker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.rdb.Publish(ctx, Channel(ev.Table), payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Table, err)
	}
	return nil
}

// Run relays until ctx is cancelled. ready, if non-nil, is closed once the
// subscription is confirmed by the server.
func (b *Broker) Run(ctx context.Context, ready chan<- struct{}) error {
	pubsub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s*: %w", channelPrefix, err)
	}
	if ready != nil {
		close(ready)
	}
	b.logger.Info("realtime broker subscribed", zap.String("pattern", channelPrefix+"*"))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("realtime subscription closed")
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn("dropping malformed realtime event",
					zap.String("channel", msg.Channel),
					zap.Error(err),
				)
				continue
			}
			if ev.Table == "" {
				ev.Table = strings.TrimPrefix(msg.Channel, channelPrefix)
			}
			b.hub.Dispatch(ev)
		}
	}
}
