package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/communityhub/internal/activity"
	"github.com/lalith-99/communityhub/internal/middleware"
	"github.com/lalith-99/communityhub/internal/notify"
	"go.uber.org/zap"
)

// NotificationHandler serves the caller's notifications and activity log,
// and the admin view of the whole log.
type NotificationHandler struct {
	notify   *notify.Service
	activity *activity.Recorder
	logger   *zap.Logger
}

func NewNotificationHandler(n *notify.Service, rec *activity.Recorder, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notify: n, activity: rec, logger: logger}
}

// List handles GET /v1/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	out, err := h.notify.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "list notifications", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UnreadCount handles GET /v1/notifications/unread-count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.notify.UnreadCount(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "count notifications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// MarkRead handles POST /v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.notify.MarkRead(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, h.logger, "mark notification read", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.notify.MarkAllRead(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "mark notifications read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// MyActivity handles GET /v1/activity/me.
func (h *NotificationHandler) MyActivity(c *gin.Context) {
	out, err := h.activity.ListForUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "list activity", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Activity handles GET /v1/admin/activity?entity_type=job_application.
func (h *NotificationHandler) Activity(c *gin.Context) {
	out, err := h.activity.List(c.Request.Context(), c.Query("entity_type"))
	if err != nil {
		respondError(c, h.logger, "list activity", err)
		return
	}
	c.JSON(http.StatusOK, out)
}
