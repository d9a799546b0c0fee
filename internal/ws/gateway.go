package ws

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lalith-99/communityhub/internal/livequery"
	"github.com/lalith-99/communityhub/internal/middleware"
	"github.com/lalith-99/communityhub/internal/realtime"
	"go.uber.org/zap"
)

// Subscriber is satisfied by *realtime.Hub.
type Subscriber interface {
	Subscribe(f realtime.Filter, fn func(realtime.Event)) func()
}

// Gateway accepts websocket connections and runs their live queries
// against one registry and hub.
type Gateway struct {
	ctx      context.Context
	queries  *Queries
	registry *livequery.Registry
	hub      Subscriber
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewGateway serves connections until ctx is cancelled.
func NewGateway(ctx context.Context, queries *Queries, registry *livequery.Registry, hub Subscriber, allowedOrigins []string, logger *zap.Logger) *Gateway {
	return &Gateway{
		ctx:      ctx,
		queries:  queries,
		registry: registry,
		hub:      hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowedOrigins) == 0 {
					return true
				}
				return slices.Contains(allowedOrigins, origin)
			},
		},
		logger: logger,
	}
}

// Serve upgrades an authenticated request. It must run after
// middleware.AuthMiddleware.
func (g *Gateway) Serve(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		g.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(g.ctx, g, conn, userID)
	g.logger.Debug("websocket connected", zap.Stringer("user_id", userID))
	go client.Write()
	go client.Read()
}
