package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/communityhub/internal/filestore"
	"github.com/lalith-99/communityhub/internal/middleware"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/portal"
	"go.uber.org/zap"
)

// maxFormSize leaves room for the form fields around one upload.
const maxFormSize = filestore.MaxUploadSize + 1<<20

// JobHandler serves the job board and its applications.
type JobHandler struct {
	jobs   *portal.Jobs
	logger *zap.Logger
}

func NewJobHandler(jobs *portal.Jobs, logger *zap.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, logger: logger}
}

type jobRequest struct {
	Title        string `json:"title" binding:"required"`
	Company      string `json:"company" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Location     string `json:"location"`
	JobType      string `json:"job_type"`
	SalaryRange  string `json:"salary_range"`
	Requirements string `json:"requirements"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List handles GET /v1/jobs. Admins may pass ?all=true to include jobs
// awaiting review.
func (h *JobHandler) List(c *gin.Context) {
	all := c.Query("all") == "true" && models.IsAdmin(middleware.GetRole(c))
	jobs, err := h.jobs.List(c.Request.Context(), all)
	if err != nil {
		respondError(c, h.logger, "list jobs", err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// Get handles GET /v1/jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Create handles POST /v1/jobs. New jobs wait for admin approval.
func (h *JobHandler) Create(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job, err := h.jobs.Create(c.Request.Context(), actor(c), models.Job{
		Title:        req.Title,
		Company:      req.Company,
		Description:  req.Description,
		Location:     req.Location,
		JobType:      req.JobType,
		SalaryRange:  req.SalaryRange,
		Requirements: req.Requirements,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		respondError(c, h.logger, "create job", err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// SetStatus handles PUT /v1/admin/jobs/:id/status.
func (h *JobHandler) SetStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.jobs.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, h.logger, "update job status", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /v1/jobs/:id (poster or admin).
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), actor(c), id); err != nil {
		respondError(c, h.logger, "delete job", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Save handles POST /v1/jobs/:id/save.
func (h *JobHandler) Save(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.jobs.Save(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, h.logger, "save job", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unsave handles DELETE /v1/jobs/:id/save.
func (h *JobHandler) Unsave(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.jobs.Unsave(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, h.logger, "unsave job", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Saved handles GET /v1/me/saved-jobs.
func (h *JobHandler) Saved(c *gin.Context) {
	ids, err := h.jobs.Saved(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "list saved jobs", err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

type applyRequest struct {
	Name        string `form:"name" binding:"required"`
	Email       string `form:"email" binding:"required,email"`
	Phone       string `form:"phone"`
	Address     string `form:"address"`
	CoverLetter string `form:"cover_letter"`
}

// Apply handles POST /v1/jobs/:id/apply as multipart/form-data with an
// optional "resume" file.
func (h *JobHandler) Apply(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormSize)

	var req applyRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resume, name, closeFile, err := formFile(c, "resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeFile()

	app, err := h.jobs.Apply(c.Request.Context(), middleware.GetUserID(c), id, portal.Application{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		CoverLetter: req.CoverLetter,
		Resume:      resume,
		ResumeName:  name,
	})
	if err != nil {
		respondError(c, h.logger, "apply", err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// Applications handles GET /v1/jobs/:id/applications (poster or admin).
func (h *JobHandler) Applications(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	apps, err := h.jobs.Applications(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, h.logger, "list applications", err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// SetApplicationStatus handles PUT /v1/applications/:id/status. The
// applicant is notified; if that fails the update still succeeds.
func (h *JobHandler) SetApplicationStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.jobs.UpdateApplicationStatus(c.Request.Context(), actor(c), id, req.Status); err != nil {
		respondError(c, h.logger, "update application status", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// formFile opens an optional multipart file. A missing file yields a nil
// reader.
func formFile(c *gin.Context, field string) (io.Reader, string, func(), error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, "", func() {}, nil
	}
	if err != nil {
		return nil, "", func() {}, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", func() {}, err
	}
	return f, fh.Filename, func() { f.Close() }, nil
}
