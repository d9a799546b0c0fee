package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/chat"
	"github.com/lalith-99/communityhub/internal/middleware"
	"go.uber.org/zap"
)

// ChannelHandler serves channels, their members, and their message feeds.
type ChannelHandler struct {
	chat   *chat.Service
	logger *zap.Logger
}

func NewChannelHandler(svc *chat.Service, logger *zap.Logger) *ChannelHandler {
	return &ChannelHandler{chat: svc, logger: logger}
}

type channelRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

// List handles GET /v1/channels. Anonymous callers see public channels.
func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := h.chat.ListChannels(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		respondError(c, h.logger, "list channels", err)
		return
	}
	c.JSON(http.StatusOK, channels)
}

// Create handles POST /v1/channels (admin).
func (h *ChannelHandler) Create(c *gin.Context) {
	var req channelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ch, err := h.chat.CreateChannel(c.Request.Context(), middleware.GetUserID(c), req.Name, req.Description, req.IsPrivate)
	if err != nil {
		respondError(c, h.logger, "create channel", err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

// Update handles PUT /v1/channels/:id (admin).
func (h *ChannelHandler) Update(c *gin.Context) {
	channelID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req channelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ch, err := h.chat.UpdateChannel(c.Request.Context(), channelID, req.Name, req.Description)
	if err != nil {
		respondError(c, h.logger, "update channel", err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

// Delete handles DELETE /v1/channels/:id (admin). Members and messages go
// with the channel.
func (h *ChannelHandler) Delete(c *gin.Context) {
	channelID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.chat.DeleteChannel(c.Request.Context(), middleware.GetUserID(c), channelID); err != nil {
		respondError(c, h.logger, "delete channel", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Join handles POST /v1/channels/:id/join.
func (h *ChannelHandler) Join(c *gin.Context) {
	channelID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.chat.JoinChannel(c.Request.Context(), middleware.GetUserID(c), channelID); err != nil {
		respondError(c, h.logger, "join channel", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Leave handles POST /v1/channels/:id/leave.
func (h *ChannelHandler) Leave(c *gin.Context) {
	channelID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.chat.LeaveChannel(c.Request.Context(), middleware.GetUserID(c), channelID); err != nil {
		respondError(c, h.logger, "leave channel", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Members handles GET /v1/channels/:id/members.
func (h *ChannelHandler) Members(c *gin.Context) {
	channelID, ok := paramID(c, "id")
	if !ok {
		return
	}
	members, err := h.chat.Members(c.Request.Context(), middleware.Viewer(c), channelID)
	if err != nil {
		respondError(c, h.logger, "list members", err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// Messages handles GET /v1/channels/:id/messages: the newest window of
// the feed, oldest first.
func (h *ChannelHandler) Messages(c *gin.Context) {
	channelID, ok := paramID(c, "id")
	if !ok {
		return
	}
	feed, err := h.chat.ChannelFeed(c.Request.Context(), middleware.Viewer(c), channelID)
	if err != nil {
		respondError(c, h.logger, "list messages", err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

type sendMessageRequest struct {
	Content       string     `json:"content"`
	AttachmentURL string     `json:"attachment_url"`
	ReplyTo       *uuid.UUID `json:"reply_to"`
}

// Send handles POST /v1/channels/:id/messages.
func (h *ChannelHandler) Send(c *gin.Context) {
	channelID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.chat.SendChannelMessage(c.Request.Context(), middleware.GetUserID(c), chat.SendChannelMessage{
		ChannelID:     channelID,
		Content:       req.Content,
		AttachmentURL: req.AttachmentURL,
		ReplyTo:       req.ReplyTo,
	})
	if err != nil {
		respondError(c, h.logger, "send message", err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// DeleteMessage handles DELETE /v1/messages/:id.
func (h *ChannelHandler) DeleteMessage(c *gin.Context) {
	messageID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.chat.DeleteChannelMessage(c.Request.Context(), middleware.GetUserID(c), messageID); err != nil {
		respondError(c, h.logger, "delete message", err)
		return
	}
	c.Status(http.StatusNoContent)
}
