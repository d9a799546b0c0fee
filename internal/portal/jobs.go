package portal

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/activity"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/filestore"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/notify"
	"github.com/lalith-99/communityhub/internal/repository"
	"go.uber.org/zap"
)

// Application statuses a poster can move an application through.
var applicationStatuses = map[string]bool{
	"pending":     true,
	"reviewed":    true,
	"shortlisted": true,
	"accepted":    true,
	"rejected":    true,
}

// Jobs is the job board. Postings need admin approval before they are
// listed, and applications go only to the poster.
type Jobs struct {
	repo     repository.JobRepository
	files    filestore.Store
	activity *activity.Recorder
	notify   *notify.Service
	logger   *zap.Logger
}

func NewJobs(repo repository.JobRepository, files filestore.Store, rec *activity.Recorder, n *notify.Service, logger *zap.Logger) *Jobs {
	return &Jobs{repo: repo, files: files, activity: rec, notify: n, logger: logger}
}

// List returns approved jobs, or every job when includeAll is set.
func (j *Jobs) List(ctx context.Context, includeAll bool) ([]models.Job, error) {
	return j.repo.List(ctx, listStatus(includeAll))
}

func (j *Jobs) Get(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	job, err := j.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperr.NotFound("job")
	}
	return job, nil
}

// Create files a job for review; it is not listed until approved.
func (j *Jobs) Create(ctx context.Context, actor Actor, job models.Job) (*models.Job, error) {
	if missing := required("title", job.Title, "company", job.Company, "description", job.Description); missing != "" {
		return nil, apperr.Validation("%s is required", missing)
	}
	job.Status = models.StatusPending
	job.PostedBy = &actor.UserID
	return j.repo.Create(ctx, job)
}

func (j *Jobs) SetStatus(ctx context.Context, jobID uuid.UUID, status string) error {
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		return apperr.Validation("unknown job status %q", status)
	}
	ok, err := j.repo.UpdateStatus(ctx, jobID, status)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("job")
	}
	return nil
}

func (j *Jobs) Delete(ctx context.Context, actor Actor, jobID uuid.UUID) error {
	if _, err := j.ownedJob(ctx, actor, jobID); err != nil {
		return err
	}
	ok, err := j.repo.Delete(ctx, jobID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("job")
	}
	return nil
}

func (j *Jobs) Save(ctx context.Context, userID, jobID uuid.UUID) error {
	return j.repo.Save(ctx, jobID, userID)
}

func (j *Jobs) Unsave(ctx context.Context, userID, jobID uuid.UUID) error {
	return j.repo.Unsave(ctx, jobID, userID)
}

func (j *Jobs) Saved(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return j.repo.SavedJobIDs(ctx, userID)
}

// Application is what an applicant submits. Resume is optional.
type Application struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	CoverLetter string
	Resume      io.Reader
	ResumeName  string
}

// Apply uploads the resume, stores the application, and tells the poster
// through the activity log. The log entry is best-effort.
func (j *Jobs) Apply(ctx context.Context, userID, jobID uuid.UUID, in Application) (*models.JobApplication, error) {
	if missing := required("name", in.Name, "email", in.Email); missing != "" {
		return nil, apperr.Validation("%s is required", missing)
	}
	email := strings.TrimSpace(in.Email)
	if !validEmail(email) {
		return nil, apperr.Validation("invalid email")
	}
	job, err := j.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	var resumeURL string
	if in.Resume != nil {
		resumeURL, err = j.files.Save(ctx, filestore.BucketResumes, userID, in.ResumeName, in.Resume)
		if err != nil {
			return nil, err
		}
	}

	submitted := models.JobApplication{
		JobID:            jobID,
		UserID:           userID,
		CoverLetter:      strings.TrimSpace(in.CoverLetter),
		ApplicantName:    strings.TrimSpace(in.Name),
		ApplicantEmail:   email,
		ApplicantPhone:   strings.TrimSpace(in.Phone),
		ApplicantAddress: strings.TrimSpace(in.Address),
		ResumeURL:        resumeURL,
	}
	app, err := j.repo.CreateApplication(ctx, submitted)
	if err != nil {
		return nil, err
	}
	j.logger.Info("job application created",
		zap.Stringer("job_id", jobID),
		zap.Stringer("application_id", app.ID),
	)

	if job.PostedBy != nil {
		j.activity.RecordBestEffort(ctx, activity.Entry{
			UserID:   job.PostedBy,
			EntityID: &app.ID,
			Details: activity.JobApplicationReceived{
				JobID:            jobID,
				JobTitle:         job.Title,
				ApplicantID:      userID,
				ApplicantName:    submitted.ApplicantName,
				ApplicantEmail:   submitted.ApplicantEmail,
				ApplicantPhone:   submitted.ApplicantPhone,
				ApplicantAddress: submitted.ApplicantAddress,
				ResumeLink:       resumeURL,
			},
		})
	}
	return app, nil
}

// Applications lists a job's applications for its poster or an admin.
func (j *Jobs) Applications(ctx context.Context, actor Actor, jobID uuid.UUID) ([]models.JobApplication, error) {
	if _, err := j.ownedJob(ctx, actor, jobID); err != nil {
		return nil, err
	}
	return j.repo.ListApplications(ctx, jobID)
}

// UpdateApplicationStatus moves an application and notifies the applicant.
// The notification is best-effort: a failure there is logged and the
// status change still succeeds.
func (j *Jobs) UpdateApplicationStatus(ctx context.Context, actor Actor, applicationID uuid.UUID, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if !applicationStatuses[status] {
		return apperr.Validation("unknown application status %q", status)
	}

	app, err := j.repo.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if app == nil {
		return apperr.NotFound("application")
	}
	job, err := j.ownedJob(ctx, actor, app.JobID)
	if err != nil {
		return err
	}

	ok, err := j.repo.UpdateApplicationStatus(ctx, applicationID, status)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("application")
	}

	display := DisplayStatus(status)
	j.notify.CreateBestEffort(ctx, models.Notification{
		UserID:  app.UserID,
		Title:   "Application Update: " + display,
		Message: `Your application for "` + job.Title + `" has been moved to ` + display + `.`,
		Type:    "job_status_update",
		Link:    "/jobs",
	})
	return nil
}

// ownedJob loads a job the actor may manage.
func (j *Jobs) ownedJob(ctx context.Context, actor Actor, jobID uuid.UUID) (*models.Job, error) {
	job, err := j.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return job, nil
	}
	if job.PostedBy == nil || *job.PostedBy != actor.UserID {
		return nil, apperr.Forbidden("only the poster can manage this job")
	}
	return job, nil
}
