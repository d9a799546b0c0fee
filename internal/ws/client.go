package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/livequery"
	"github.com/lalith-99/communityhub/internal/realtime"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64

	// maxSubscriptions caps live queries per connection.
	maxSubscriptions = 32
)

type subscription struct {
	query  *livequery.Query
	cancel context.CancelFunc
	unsub  func()
	done   chan struct{}
}

// Client is one websocket connection. Read and Write run on their own
// goroutines; every subscription runs its live query on a third.
type Client struct {
	conn    *websocket.Conn
	gateway *Gateway
	userID  uuid.UUID
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	send   chan *ServerMessage

	mu   sync.Mutex
	subs map[string]*subscription
}

func newClient(ctx context.Context, g *Gateway, conn *websocket.Conn, userID uuid.UUID) *Client {
	ctx, cancel := context.WithCancel(ctx)
	return &Client{
		conn:    conn,
		gateway: g,
		userID:  userID,
		logger:  g.logger.With(zap.Stringer("user_id", userID)),
		ctx:     ctx,
		cancel:  cancel,
		send:    make(chan *ServerMessage, sendBuffer),
		subs:    make(map[string]*subscription),
	}
}

func (c *Client) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			raw, err := json.Marshal(msg)
			if err != nil {
				c.logger.Error("failed to encode message", zap.Error(err))
				continue
			}
			if !c.write(websocket.TextMessage, raw) {
				return
			}
		case <-ticker.C:
			if !c.write(websocket.PingMessage, nil) {
				return
			}
		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) Read() {
	defer func() {
		c.conn.Close()
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.queue(errorMessage("", "invalid message"))
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg ClientMessage) {
	if msg.ID == "" {
		c.queue(errorMessage("", "id is required"))
		return
	}
	switch msg.Op {
	case OpSubscribe:
		c.subscribe(msg)
	case OpUnsubscribe:
		if c.unsubscribe(msg.ID) {
			c.queue(&ServerMessage{Type: TypeUnsubscribed, ID: msg.ID})
		} else {
			c.queue(errorMessage(msg.ID, "no such subscription"))
		}
	default:
		c.queue(errorMessage(msg.ID, "unknown op"))
	}
}

// subscribe opens the live query, sends the first snapshot, and keeps the
// query running until unsubscribe or disconnect. A failing first fetch is
// reported to the client and nothing is left running.
func (c *Client) subscribe(msg ClientMessage) {
	def, err := c.gateway.queries.resolve(c.userID, msg.Query, msg.Params)
	if err != nil {
		c.queue(errorMessage(msg.ID, publicError(err)))
		return
	}

	c.mu.Lock()
	_, dup := c.subs[msg.ID]
	full := len(c.subs) >= maxSubscriptions
	c.mu.Unlock()
	if dup {
		c.queue(errorMessage(msg.ID, "subscription id already in use"))
		return
	}
	if full {
		c.queue(errorMessage(msg.ID, "too many subscriptions"))
		return
	}

	q := c.gateway.registry.Open(def.key, def.scope, def.interval, def.fetch)
	first, _, err := q.Refresh(c.ctx)
	if err != nil {
		c.gateway.registry.Close(q)
		c.logger.Warn("subscribe failed", zap.String("key", def.key), zap.Error(err))
		c.queue(errorMessage(msg.ID, publicError(err)))
		return
	}

	ctx, cancel := context.WithCancel(c.ctx)
	sub := &subscription{query: q, cancel: cancel, unsub: func() {}, done: make(chan struct{})}
	if def.pushes() {
		accept := def.accept
		sub.unsub = c.gateway.hub.Subscribe(def.filter, func(ev realtime.Event) {
			if accept == nil || accept(ev) {
				q.Invalidate()
			}
		})
	}

	c.mu.Lock()
	c.subs[msg.ID] = sub
	c.mu.Unlock()

	c.queue(&ServerMessage{Type: TypeSubscribed, ID: msg.ID, Key: def.key})
	c.deliver(q, snapshotMessage(msg.ID, first))

	go func() {
		defer close(sub.done)
		q.Run(ctx, func(s livequery.Snapshot) {
			c.deliver(q, snapshotMessage(msg.ID, s))
		})
	}()
}

func (c *Client) unsubscribe(id string) bool {
	c.mu.Lock()
	sub, ok := c.subs[id]
	delete(c.subs, id)
	c.mu.Unlock()
	if !ok {
		return false
	}
	c.stop(sub)
	return true
}

func (c *Client) stop(sub *subscription) {
	sub.unsub()
	sub.cancel()
	<-sub.done
	c.gateway.registry.Close(sub.query)
}

// close tears down every subscription. It runs once, when Read exits.
func (c *Client) close() {
	c.cancel()
	c.mu.Lock()
	subs := c.subs
	c.subs = make(map[string]*subscription)
	c.mu.Unlock()
	for _, sub := range subs {
		c.stop(sub)
	}
}

// deliver queues a snapshot. When it is dropped the query forgets what it
// last saw, so the next refresh resends the data even if nothing changed.
func (c *Client) deliver(q *livequery.Query, msg *ServerMessage) {
	if !c.queue(msg) {
		q.Forget()
	}
}

// queue drops the message when the client is not keeping up.
func (c *Client) queue(msg *ServerMessage) bool {
	select {
	case c.send <- msg:
		return true
	default:
		c.logger.Warn("send buffer full, dropping message",
			zap.String("type", msg.Type),
			zap.String("id", msg.ID),
		)
		return false
	}
}

func (c *Client) write(msgType int, data []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(msgType, data); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.logger.Warn("websocket write failed", zap.Error(err))
		}
		return false
	}
	return true
}

func snapshotMessage(id string, s livequery.Snapshot) *ServerMessage {
	at := s.At
	return &ServerMessage{Type: TypeSnapshot, ID: id, Key: s.Key, Data: s.Data, At: &at}
}

// publicError hides backend failures from the client.
func publicError(err error) string {
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrForbidden):
		return err.Error()
	}
	return "internal error"
}
