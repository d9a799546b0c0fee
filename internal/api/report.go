package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/middleware"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/portal"
	"go.uber.org/zap"
)

// ReportHandler serves user reports and the admin queue.
type ReportHandler struct {
	moderation *portal.Moderation
	logger     *zap.Logger
}

func NewReportHandler(m *portal.Moderation, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{moderation: m, logger: logger}
}

type reportRequest struct {
	ReportedUserID      *uuid.UUID `json:"reported_user_id"`
	ReportedContentID   *uuid.UUID `json:"reported_content_id"`
	ReportedContentType string     `json:"reported_content_type"`
	Reason              string     `json:"reason" binding:"required"`
	Details             string     `json:"details"`
}

// Create handles POST /v1/reports.
func (h *ReportHandler) Create(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.moderation.Report(c.Request.Context(), middleware.GetUserID(c), models.Report{
		ReportedUserID:      req.ReportedUserID,
		ReportedContentID:   req.ReportedContentID,
		ReportedContentType: req.ReportedContentType,
		Reason:              req.Reason,
		Details:             req.Details,
	})
	if err != nil {
		respondError(c, h.logger, "create report", err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// List handles GET /v1/admin/reports?status=pending.
func (h *ReportHandler) List(c *gin.Context) {
	out, err := h.moderation.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, h.logger, "list reports", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type resolveRequest struct {
	Note string `json:"resolution_note"`
}

// Resolve handles POST /v1/admin/reports/:id/resolve.
func (h *ReportHandler) Resolve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req resolveRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	r, err := h.moderation.Resolve(c.Request.Context(), middleware.GetUserID(c), id, req.Note)
	if err != nil {
		respondError(c, h.logger, "resolve report", err)
		return
	}
	c.JSON(http.StatusOK, r)
}
