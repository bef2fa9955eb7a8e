package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Skryldev/jobly/apperr"
	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/sqlfrag"
)

// JobRepository defines the persistence operations on jobs.
type JobRepository interface {
	Create(ctx context.Context, params models.CreateJobParams) (*models.Job, error)
	FindAll(ctx context.Context, filters models.JobFilters) ([]*models.Job, error)
	Get(ctx context.Context, id int64) (*models.Job, error)
	Update(ctx context.Context, id int64, data *sqlfrag.Payload) (*models.Job, error)
	Remove(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// JobColumns is empty: every updatable job field is named like its column.
var JobColumns = sqlfrag.ColumnMap{}

type jobRepo struct {
	q      db.Querier
	filter sqlfrag.Filter[models.JobFilters]
}

// NewJobRepo returns a JobRepository backed by q, rendering SQL for
// dialect d.
func NewJobRepo(q db.Querier, d sqlfrag.Dialect) JobRepository {
	return &jobRepo{q: q, filter: JobFilter(d)}
}

const jobCols = `id, title, salary, equity, company_handle`

const (
	sqlInsertJob = `
		INSERT INTO jobs (title, salary, equity, company_handle)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + jobCols

	sqlGetJob = `
		SELECT ` + jobCols + `
		FROM   jobs
		WHERE  id = $1`

	// %s: optional WHERE fragment. Filter columns are unqualified and only
	// exist on jobs.
	sqlListJobs = `
		SELECT j.id, j.title, j.salary, j.equity, j.company_handle, c.name
		FROM   jobs AS j
		LEFT   JOIN companies AS c ON c.handle = j.company_handle
		%s
		ORDER  BY j.title, j.id`

	// %s: SET fragment, then the id's placeholder.
	sqlUpdateJob = `
		UPDATE jobs
		SET    %s
		WHERE  id = %s
		RETURNING ` + jobCols

	sqlDeleteJob = `
		DELETE FROM jobs
		WHERE  id = $1
		RETURNING id`

	sqlCountJobs = `
		SELECT COUNT(*) FROM jobs`
)

// Create inserts a job. A company_handle that names no company yields a
// NotFoundError.
func (r *jobRepo) Create(ctx context.Context, params models.CreateJobParams) (*models.Job, error) {
	row := r.q.QueryRow(ctx, sqlInsertJob,
		params.Title, params.Salary, params.Equity, params.CompanyHandle)
	j, err := scanJob(row)
	if err != nil {
		return nil, jobWriteErr(params.CompanyHandle, err)
	}
	return j, nil
}

// FindAll returns the jobs matching filters, ordered by title, each with
// its company's name.
func (r *jobRepo) FindAll(ctx context.Context, filters models.JobFilters) ([]*models.Job, error) {
	where, err := r.filter.Build(filters)
	if err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, fmt.Sprintf(sqlListJobs, where.SQL), where.Args...)
	if err != nil {
		return nil, fmt.Errorf("repo/job: %w", err)
	}
	defer rows.Close()

	jobs := []*models.Job{}
	for rows.Next() {
		var (
			j    models.Job
			name sql.NullString
		)
		if err := rows.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle, &name); err != nil {
			return nil, fmt.Errorf("repo/job: scan: %w", err)
		}
		j.CompanyName = name.String
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

// Get returns the job with its company nested in place of the handle.
func (r *jobRepo) Get(ctx context.Context, id int64) (*models.Job, error) {
	j, err := scanJob(r.q.QueryRow(ctx, sqlGetJob, id))
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("no job: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("repo/job: %w", err)
	}

	c, err := scanCompany(r.q.QueryRow(ctx, sqlGetCompany, j.CompanyHandle))
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("no company: %s", j.CompanyHandle)
	}
	if err != nil {
		return nil, fmt.Errorf("repo/job: company: %w", err)
	}

	j.Company = c
	j.CompanyHandle = ""
	return j, nil
}

// Update applies data (title, salary, equity) to the job and returns the
// updated row.
func (r *jobRepo) Update(ctx context.Context, id int64, data *sqlfrag.Payload) (*models.Job, error) {
	set, err := sqlfrag.BuildSet(data, JobColumns)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(sqlUpdateJob, set.SQL, sqlfrag.Placeholder(set.Next()))
	j, err := scanJob(r.q.QueryRow(ctx, query, append(set.Args, id)...))
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("no job: %d", id)
	}
	if err != nil {
		return nil, jobWriteErr(payloadHandle(data), err)
	}
	return j, nil
}

// Remove deletes the job.
func (r *jobRepo) Remove(ctx context.Context, id int64) error {
	var deleted int64
	err := r.q.QueryRow(ctx, sqlDeleteJob, id).Scan(&deleted)
	if db.IsNotFound(err) {
		return apperr.NotFound("no job: %d", id)
	}
	if err != nil {
		return fmt.Errorf("repo/job: %w", err)
	}
	return nil
}

// Count returns the total number of jobs.
func (r *jobRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, sqlCountJobs).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo/job: %w", err)
	}
	return n, nil
}

// scanJob scans the jobCols column list.
func scanJob(s scanner) (*models.Job, error) {
	j := &models.Job{}
	if err := s.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle); err != nil {
		return nil, err
	}
	return j, nil
}

// payloadHandle returns the company handle an update moves the job to.
func payloadHandle(data *sqlfrag.Payload) string {
	v, ok := data.Get("company_handle")
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

func jobWriteErr(handle string, err error) error {
	switch {
	case db.IsForeignKeyViolation(err) && handle == "":
		return apperr.Wrap(apperr.ErrNotFound, err, "no such company")
	case db.IsForeignKeyViolation(err):
		return apperr.Wrap(apperr.ErrNotFound, err, "no company: %s", handle)
	case db.IsCheckViolation(err):
		return apperr.Wrap(apperr.ErrValidation, err, "invalid job data")
	}
	return fmt.Errorf("repo/job: %w", err)
}

var _ JobRepository = (*jobRepo)(nil)
