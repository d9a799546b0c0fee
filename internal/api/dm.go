package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/communityhub/internal/chat"
	"github.com/lalith-99/communityhub/internal/middleware"
	"go.uber.org/zap"
)

// DMHandler serves direct messages and the DM channel RPC.
type DMHandler struct {
	chat   *chat.Service
	logger *zap.Logger
}

func NewDMHandler(svc *chat.Service, logger *zap.Logger) *DMHandler {
	return &DMHandler{chat: svc, logger: logger}
}

// GetOrCreate handles POST /v1/dm/:user_id. Calling it again, from either
// side, returns the same channel id.
func (h *DMHandler) GetOrCreate(c *gin.Context) {
	other, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	channelID, err := h.chat.GetOrCreateDM(c.Request.Context(), middleware.GetUserID(c), other)
	if err != nil {
		respondError(c, h.logger, "open direct channel", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel_id": channelID})
}

// Threads handles GET /v1/threads: one entry per counterpart, most recent
// first.
func (h *DMHandler) Threads(c *gin.Context) {
	threads, err := h.chat.ListThreads(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "list threads", err)
		return
	}
	c.JSON(http.StatusOK, threads)
}

// Conversation handles GET /v1/dm/:user_id/messages.
func (h *DMHandler) Conversation(c *gin.Context) {
	other, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	msgs, err := h.chat.Conversation(c.Request.Context(), middleware.GetUserID(c), other)
	if err != nil {
		respondError(c, h.logger, "list direct messages", err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

type sendDirectRequest struct {
	Content string `json:"content" binding:"required"`
}

// Send handles POST /v1/dm/:user_id/messages.
func (h *DMHandler) Send(c *gin.Context) {
	other, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	var req sendDirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.chat.SendDirectMessage(c.Request.Context(), middleware.GetUserID(c), other, req.Content)
	if err != nil {
		respondError(c, h.logger, "send direct message", err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// MarkRead handles POST /v1/dm/:user_id/read.
func (h *DMHandler) MarkRead(c *gin.Context) {
	other, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	n, err := h.chat.MarkConversationRead(c.Request.Context(), middleware.GetUserID(c), other)
	if err != nil {
		respondError(c, h.logger, "mark messages read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
