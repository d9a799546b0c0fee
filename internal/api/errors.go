package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/middleware"
	"github.com/lalith-99/communityhub/internal/portal"
	"go.uber.org/zap"
)

// respondError maps the apperr taxonomy to a status code. Anything else is
// a backend failure: it is logged with op and the client gets a generic
// message.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": clientMessage(err, apperr.ErrValidation)})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": clientMessage(err, apperr.ErrForbidden)})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	default:
		logger.Error("failed to "+op,
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op})
	}
}

// clientMessage strips the sentinel prefix: "validation failed: name is
// required" becomes "name is required".
func clientMessage(err, kind error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, kind.Error()+": "); ok {
		return rest
	}
	return msg
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + strings.ReplaceAll(name, "_", " ")})
		return uuid.Nil, false
	}
	return id, true
}

func actor(c *gin.Context) portal.Actor {
	return portal.Actor{UserID: middleware.GetUserID(c), Role: middleware.GetRole(c)}
}

// optionalActor is nil for anonymous requests.
func optionalActor(c *gin.Context) *portal.Actor {
	if middleware.GetUserID(c) == uuid.Nil {
		return nil
	}
	a := actor(c)
	return &a
}
