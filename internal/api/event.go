package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/communityhub/internal/middleware"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/portal"
	"go.uber.org/zap"
)

// EventHandler serves the community calendar and event registration.
type EventHandler struct {
	events *portal.Events
	logger *zap.Logger
}

func NewEventHandler(events *portal.Events, logger *zap.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

type eventRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	EventDate    time.Time  `json:"event_date" binding:"required"`
	EndDate      *time.Time `json:"end_date"`
	Location     string     `json:"location"`
	ImageURL     string     `json:"image_url" binding:"omitempty,url"`
	MaxAttendees *int32     `json:"max_attendees" binding:"omitempty,min=1"`
	Status       string     `json:"status"`
}

func (r eventRequest) event() models.Event {
	return models.Event{
		Title:        r.Title,
		Description:  r.Description,
		EventDate:    r.EventDate,
		EndDate:      r.EndDate,
		Location:     r.Location,
		ImageURL:     r.ImageURL,
		MaxAttendees: r.MaxAttendees,
		Status:       r.Status,
	}
}

// List handles GET /v1/events?filter=all|upcoming|past. Admins may pass
// ?all=true to see every event regardless of status.
func (h *EventHandler) List(c *gin.Context) {
	all := c.Query("all") == "true" && models.IsAdmin(middleware.GetRole(c))
	events, err := h.events.List(c.Request.Context(), c.Query("filter"), all)
	if err != nil {
		respondError(c, h.logger, "list events", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// Get handles GET /v1/events/:id.
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ev, err := h.events.Get(c.Request.Context(), optionalActor(c), id)
	if err != nil {
		respondError(c, h.logger, "get event", err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Create handles POST /v1/events.
func (h *EventHandler) Create(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev, err := h.events.Create(c.Request.Context(), actor(c), req.event())
	if err != nil {
		respondError(c, h.logger, "create event", err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// Update handles PUT /v1/admin/events/:id.
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev := req.event()
	ev.ID = id
	out, err := h.events.Update(c.Request.Context(), ev)
	if err != nil {
		respondError(c, h.logger, "update event", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// SetStatus handles PUT /v1/admin/events/:id/status.
func (h *EventHandler) SetStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.events.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, h.logger, "update event status", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete event", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Registration handles GET /v1/events/:id/registration. It answers
// {"registered": false} rather than 404 when the caller hasn't signed up.
func (h *EventHandler) Registration(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reg, err := h.events.Registration(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, h.logger, "get registration", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered": reg != nil, "registration": reg})
}

// Register handles POST /v1/events/:id/register.
func (h *EventHandler) Register(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reg, err := h.events.Register(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, h.logger, "register for event", err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}
