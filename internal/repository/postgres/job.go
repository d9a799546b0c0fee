package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/communityhub/internal/models"
)

// JobStore holds postings, saved jobs and applications.
type JobStore struct {
	pool *pgxpool.Pool
}

func NewJobStore(pool *pgxpool.Pool) *JobStore {
	return &JobStore{pool: pool}
}

const jobColumns = `id, title, company, description, location, job_type, salary_range, requirements, contact_email, status, posted_by, created_at, updated_at`

const applicationColumns = `id, job_id, user_id, cover_letter, applicant_name, applicant_email, applicant_phone, applicant_address, resume_url, status, created_at`

func (s *JobStore) Create(ctx context.Context, job models.Job) (*models.Job, error) {
	if job.Status == "" {
		job.Status = models.StatusPending
	}
	query := `
		INSERT INTO jobs (title, company, description, location, job_type, salary_range, requirements, contact_email, status, posted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + jobColumns

	rows, err := s.pool.Query(ctx, query,
		job.Title, job.Company, job.Description, job.Location, job.JobType,
		job.SalaryRange, job.Requirements, job.ContactEmail, job.Status, job.PostedBy)
	if err != nil {
		return nil, wrapErr("insert job", err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.Job])
	if err != nil {
		return nil, wrapErr("insert job", err)
	}
	return &out, nil
}

func (s *JobStore) GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	job, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.Job])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &job, nil
}

func (s *JobStore) List(ctx context.Context, status string) ([]models.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	jobs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Job])
	if err != nil {
		return nil, fmt.Errorf("scan jobs: %w", err)
	}
	if jobs == nil {
		jobs = make([]models.Job, 0)
	}
	return jobs, nil
}

func (s *JobStore) UpdateStatus(ctx context.Context, jobID uuid.UUID, status string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1`, jobID, status)
	if err != nil {
		return false, fmt.Errorf("update job status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *JobStore) Delete(ctx context.Context, jobID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, jobID)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *JobStore) Save(ctx context.Context, jobID, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO saved_jobs (job_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (job_id, user_id) DO NOTHING`, jobID, userID)
	if err != nil {
		return wrapErr("save job", err)
	}
	return nil
}

func (s *JobStore) Unsave(ctx context.Context, jobID, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM saved_jobs WHERE job_id = $1 AND user_id = $2`, jobID, userID)
	if err != nil {
		return fmt.Errorf("unsave job: %w", err)
	}
	return nil
}

func (s *JobStore) SavedJobIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT job_id FROM saved_jobs WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("scan saved jobs: %w", err)
	}
	if ids == nil {
		ids = make([]uuid.UUID, 0)
	}
	return ids, nil
}

func (s *JobStore) CreateApplication(ctx context.Context, app models.JobApplication) (*models.JobApplication, error) {
	if app.Status == "" {
		app.Status = models.StatusPending
	}
	query := `
		INSERT INTO job_applications (job_id, user_id, cover_letter, applicant_name, applicant_email, applicant_phone, applicant_address, resume_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + applicationColumns

	rows, err := s.pool.Query(ctx, query,
		app.JobID, app.UserID, app.CoverLetter, app.ApplicantName, app.ApplicantEmail,
		app.ApplicantPhone, app.ApplicantAddress, app.ResumeURL, app.Status)
	if err != nil {
		return nil, wrapErr("insert job application", err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.JobApplication])
	if err != nil {
		return nil, wrapErr("insert job application", err)
	}
	return &out, nil
}

func (s *JobStore) GetApplication(ctx context.Context, applicationID uuid.UUID) (*models.JobApplication, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("get job application: %w", err)
	}
	app, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[models.JobApplication])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job application: %w", err)
	}
	return &app, nil
}

func (s *JobStore) ListApplications(ctx context.Context, jobID uuid.UUID) ([]models.JobApplication, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+applicationColumns+`
		FROM job_applications
		WHERE job_id = $1
		ORDER BY created_at DESC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list job applications: %w", err)
	}
	apps, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.JobApplication])
	if err != nil {
		return nil, fmt.Errorf("scan job applications: %w", err)
	}
	if apps == nil {
		apps = make([]models.JobApplication, 0)
	}
	return apps, nil
}

func (s *JobStore) UpdateApplicationStatus(ctx context.Context, applicationID uuid.UUID, status string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job_applications SET status = $2 WHERE id = $1`, applicationID, status)
	if err != nil {
		return false, fmt.Errorf("update application status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
