package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/communityhub/internal/middleware"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/portal"
	"github.com/lalith-99/communityhub/internal/repository"
	"go.uber.org/zap"
)

// DirectoryHandler serves businesses and profiles. Other users only ever
// get the public shapes.
type DirectoryHandler struct {
	directory *portal.Directory
	logger    *zap.Logger
}

func NewDirectoryHandler(d *portal.Directory, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{directory: d, logger: logger}
}

// Businesses handles GET /v1/businesses?category=Food&search=tailor.
func (h *DirectoryHandler) Businesses(c *gin.Context) {
	all := c.Query("all") == "true" && models.IsAdmin(middleware.GetRole(c))
	out, err := h.directory.Businesses(c.Request.Context(), c.Query("category"), c.Query("search"), all)
	if err != nil {
		respondError(c, h.logger, "list businesses", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Business handles GET /v1/businesses/:id. Contact details are included
// for the owner and admins only.
func (h *DirectoryHandler) Business(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, contact, err := h.directory.Business(c.Request.Context(), optionalActor(c), id)
	if err != nil {
		respondError(c, h.logger, "get business", err)
		return
	}
	if contact {
		c.JSON(http.StatusOK, b)
		return
	}
	c.JSON(http.StatusOK, b.Public())
}

type businessRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Website     string `json:"website" binding:"omitempty,url"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	WhatsApp    string `json:"whatsapp"`
}

// CreateBusiness handles POST /v1/businesses. Listings wait for approval.
func (h *DirectoryHandler) CreateBusiness(c *gin.Context) {
	var req businessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.directory.CreateBusiness(c.Request.Context(), actor(c), models.Business{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Address:     req.Address,
		Website:     req.Website,
		ImageURL:    req.ImageURL,
		Phone:       req.Phone,
		Email:       req.Email,
		WhatsApp:    req.WhatsApp,
	})
	if err != nil {
		respondError(c, h.logger, "create business", err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// SetBusinessStatus handles PUT /v1/admin/businesses/:id/status.
func (h *DirectoryHandler) SetBusinessStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.directory.SetBusinessStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, h.logger, "update business status", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Profile handles GET /v1/profiles/:user_id from the public view.
func (h *DirectoryHandler) Profile(c *gin.Context) {
	id, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	p, err := h.directory.PublicProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// OwnProfile handles GET /v1/me/profile.
func (h *DirectoryHandler) OwnProfile(c *gin.Context) {
	p, err := h.directory.OwnProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type profileRequest struct {
	FullName     *string `json:"full_name"`
	AvatarURL    *string `json:"avatar_url"`
	Bio          *string `json:"bio"`
	Location     *string `json:"location"`
	Phone        *string `json:"phone"`
	PrivacyLevel *string `json:"privacy_level"`
}

// UpdateProfile handles PATCH /v1/me/profile. Omitted fields are kept.
func (h *DirectoryHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.directory.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), repository.ProfileUpdate{
		FullName:     req.FullName,
		AvatarURL:    req.AvatarURL,
		Bio:          req.Bio,
		Location:     req.Location,
		Phone:        req.Phone,
		PrivacyLevel: req.PrivacyLevel,
	})
	if err != nil {
		respondError(c, h.logger, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}
