package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/communityhub/internal/middleware"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/portal"
	"go.uber.org/zap"
)

// NewsHandler serves articles and reader bookmarks.
type NewsHandler struct {
	news   *portal.News
	logger *zap.Logger
}

func NewNewsHandler(news *portal.News, logger *zap.Logger) *NewsHandler {
	return &NewsHandler{news: news, logger: logger}
}

type articleRequest struct {
	Title    string `json:"title" binding:"required"`
	Slug     string `json:"slug"`
	Content  string `json:"content" binding:"required"`
	Excerpt  string `json:"excerpt"`
	Category string `json:"category" binding:"required"`
	ImageURL string `json:"image_url" binding:"omitempty,url"`
	Status   string `json:"status" binding:"omitempty,oneof=draft published"`
	Featured bool   `json:"featured"`
}

func (r articleRequest) article() models.Article {
	return models.Article{
		Title:    r.Title,
		Slug:     r.Slug,
		Content:  r.Content,
		Excerpt:  r.Excerpt,
		Category: r.Category,
		ImageURL: r.ImageURL,
		Status:   r.Status,
		Featured: r.Featured,
	}
}

// List handles GET /v1/articles?category=. Admins may pass ?all=true to
// include drafts.
func (h *NewsHandler) List(c *gin.Context) {
	all := c.Query("all") == "true" && models.IsAdmin(middleware.GetRole(c))
	articles, err := h.news.List(c.Request.Context(), c.Query("category"), all)
	if err != nil {
		respondError(c, h.logger, "list articles", err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *NewsHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	a, err := h.news.Get(c.Request.Context(), optionalActor(c), id)
	if err != nil {
		respondError(c, h.logger, "get article", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Create handles POST /v1/admin/articles.
func (h *NewsHandler) Create(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.news.Create(c.Request.Context(), actor(c), req.article())
	if err != nil {
		respondError(c, h.logger, "create article", err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// Update handles PUT /v1/admin/articles/:id.
func (h *NewsHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a := req.article()
	a.ID = id
	out, err := h.news.Update(c.Request.Context(), a)
	if err != nil {
		respondError(c, h.logger, "update article", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *NewsHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.news.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete article", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Bookmark handles POST /v1/articles/:id/bookmark.
func (h *NewsHandler) Bookmark(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.news.Bookmark(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, h.logger, "bookmark article", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unbookmark handles DELETE /v1/articles/:id/bookmark.
func (h *NewsHandler) Unbookmark(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.news.Unbookmark(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, h.logger, "remove bookmark", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Bookmarks handles GET /v1/me/bookmarks and returns article ids.
func (h *NewsHandler) Bookmarks(c *gin.Context) {
	ids, err := h.news.Bookmarks(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "list bookmarks", err)
		return
	}
	c.JSON(http.StatusOK, ids)
}
