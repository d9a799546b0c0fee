package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/communityhub/internal/middleware"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/portal"
	"go.uber.org/zap"
)

type MatrimonyHandler struct {
	matrimony *portal.Matrimony
	logger    *zap.Logger
}

func NewMatrimonyHandler(m *portal.Matrimony, logger *zap.Logger) *MatrimonyHandler {
	return &MatrimonyHandler{matrimony: m, logger: logger}
}

// List handles GET /v1/matrimony. Admins may pass ?all=true.
func (h *MatrimonyHandler) List(c *gin.Context) {
	all := c.Query("all") == "true" && models.IsAdmin(middleware.GetRole(c))
	out, err := h.matrimony.List(c.Request.Context(), all)
	if err != nil {
		respondError(c, h.logger, "list matrimony profiles", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Own handles GET /v1/me/matrimony. The body is null when the caller has
// no profile yet.
func (h *MatrimonyHandler) Own(c *gin.Context) {
	p, err := h.matrimony.Own(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "get matrimony profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type matrimonyRequest struct {
	FullName     string `form:"full_name" binding:"required"`
	Age          int    `form:"age" binding:"required"`
	Gender       string `form:"gender"`
	Location     string `form:"location"`
	Education    string `form:"education"`
	Occupation   string `form:"occupation"`
	About        string `form:"about"`
	PrivacyLevel string `form:"privacy_level"`
}

// Create handles POST /v1/matrimony as multipart/form-data with an
// optional "photo" file.
func (h *MatrimonyHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormSize)

	var req matrimonyRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body, name, closeFile, err := formFile(c, "photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeFile()

	var photo *portal.Photo
	if body != nil {
		photo = &portal.Photo{Body: body, Name: name}
	}
	privacy := req.PrivacyLevel
	if privacy == "" {
		privacy = "members"
	}

	p, err := h.matrimony.Create(c.Request.Context(), middleware.GetUserID(c), models.MatrimonyProfile{
		FullName:     req.FullName,
		Age:          req.Age,
		Gender:       req.Gender,
		Location:     req.Location,
		Education:    req.Education,
		Occupation:   req.Occupation,
		About:        req.About,
		PrivacyLevel: privacy,
	}, photo)
	if err != nil {
		respondError(c, h.logger, "create matrimony profile", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// SetStatus handles PUT /v1/admin/matrimony/:id/status.
func (h *MatrimonyHandler) SetStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.matrimony.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, h.logger, "update matrimony status", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type interestRequest struct {
	Message string `json:"message"`
}

// SendInterest handles POST /v1/matrimony/:id/interest.
func (h *MatrimonyHandler) SendInterest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req interestRequest
	// the body is optional
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	interest, err := h.matrimony.SendInterest(c.Request.Context(), middleware.GetUserID(c), id, req.Message)
	if err != nil {
		respondError(c, h.logger, "send interest", err)
		return
	}
	c.JSON(http.StatusCreated, interest)
}

// SentInterests handles GET /v1/me/interests: the profile ids the caller
// has already sent interest to.
func (h *MatrimonyHandler) SentInterests(c *gin.Context) {
	ids, err := h.matrimony.SentInterests(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "list interests", err)
		return
	}
	c.JSON(http.StatusOK, ids)
}
