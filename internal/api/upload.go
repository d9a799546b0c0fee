package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/communityhub/internal/filestore"
	"github.com/lalith-99/communityhub/internal/middleware"
	"go.uber.org/zap"
)

// UploadHandler stores chat attachments. Resumes and matrimony photos are
// uploaded with the form they belong to.
type UploadHandler struct {
	files  filestore.Store
	logger *zap.Logger
}

func NewUploadHandler(files filestore.Store, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{files: files, logger: logger}
}

// Attachment handles POST /v1/uploads/attachments with a multipart "file".
// The returned url goes into a message's attachment_url.
func (h *UploadHandler) Attachment(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormSize)

	body, name, closeFile, err := formFile(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeFile()
	if body == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	url, err := h.files.Save(c.Request.Context(), filestore.BucketChatAttachments, middleware.GetUserID(c), name, body)
	if err != nil {
		respondError(c, h.logger, "upload file", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
