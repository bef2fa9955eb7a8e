package repo

import (
	"context"
	"fmt"

	"github.com/Skryldev/jobly/apperr"
	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/sqlfrag"
)

// ─────────────────────────────────────────────────────────────────────────────
// CompanyRepository interface
// ─────────────────────────────────────────────────────────────────────────────

// CompanyRepository defines the persistence operations on companies.
type CompanyRepository interface {
	Create(ctx context.Context, params models.CreateCompanyParams) (*models.Company, error)
	FindAll(ctx context.Context, filters models.CompanyFilters) ([]*models.Company, error)
	Get(ctx context.Context, handle string) (*models.Company, error)
	Update(ctx context.Context, handle string, data *sqlfrag.Payload) (*models.Company, error)
	Remove(ctx context.Context, handle string) error
	Count(ctx context.Context) (int64, error)
}

// CompanyColumns maps company field names to their columns where the two
// differ.
var CompanyColumns = sqlfrag.Columns(
	sqlfrag.Column{Field: "numEmployees", Name: "num_employees"},
	sqlfrag.Column{Field: "logoUrl", Name: "logo_url"},
)

type companyRepo struct {
	q      db.Querier
	filter sqlfrag.Filter[models.CompanyFilters]
}

// NewCompanyRepo returns a CompanyRepository backed by q, rendering SQL
// for dialect d. q can be a *db.DB or *db.Tx.
func NewCompanyRepo(q db.Querier, d sqlfrag.Dialect) CompanyRepository {
	return &companyRepo{q: q, filter: CompanyFilter(d)}
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL
// ─────────────────────────────────────────────────────────────────────────────

const companyCols = `handle, name, description, num_employees, logo_url`

const (
	sqlCompanyExists = `
		SELECT handle
		FROM   companies
		WHERE  handle = $1`

	sqlInsertCompany = `
		INSERT INTO companies (handle, name, description, num_employees, logo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + companyCols

	sqlGetCompany = `
		SELECT ` + companyCols + `
		FROM   companies
		WHERE  handle = $1`

	// %s: optional WHERE fragment.
	sqlListCompanies = `
		SELECT ` + companyCols + `
		FROM   companies
		%s
		ORDER  BY name`

	sqlCompanyJobs = `
		SELECT id, title, salary, equity
		FROM   jobs
		WHERE  company_handle = $1
		ORDER  BY id`

	// %s: SET fragment, then the handle's placeholder.
	sqlUpdateCompany = `
		UPDATE companies
		SET    %s
		WHERE  handle = %s
		RETURNING ` + companyCols

	sqlDeleteCompany = `
		DELETE FROM companies
		WHERE  handle = $1
		RETURNING handle`

	sqlCountCompanies = `
		SELECT COUNT(*) FROM companies`
)

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

// Create inserts a company after checking its handle is free.
//
// The check and the insert are separate statements, not a transaction.
// When a concurrent create slips in between, the insert trips the primary
// key instead and the result is the same ConflictError.
func (r *companyRepo) Create(ctx context.Context, params models.CreateCompanyParams) (*models.Company, error) {
	var existing string
	err := r.q.QueryRow(ctx, sqlCompanyExists, params.Handle).Scan(&existing)
	switch {
	case err == nil:
		return nil, apperr.Conflict("duplicate company: %s", params.Handle)
	case !db.IsNotFound(err):
		return nil, fmt.Errorf("repo/company: %w", err)
	}

	row := r.q.QueryRow(ctx, sqlInsertCompany,
		params.Handle, params.Name, params.Description, params.NumEmployees, params.LogoURL)
	c, err := scanCompany(row)
	if err != nil {
		return nil, companyWriteErr(params.Handle, err)
	}
	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// FindAll
// ─────────────────────────────────────────────────────────────────────────────

// FindAll returns the companies matching filters, ordered by name.
// Jobs are not loaded.
func (r *companyRepo) FindAll(ctx context.Context, filters models.CompanyFilters) ([]*models.Company, error) {
	where, err := r.filter.Build(filters)
	if err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, fmt.Sprintf(sqlListCompanies, where.SQL), where.Args...)
	if err != nil {
		return nil, fmt.Errorf("repo/company: %w", err)
	}
	defer rows.Close()

	companies := []*models.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("repo/company: scan: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Get
// ─────────────────────────────────────────────────────────────────────────────

// Get returns the company with its jobs ordered by id.
func (r *companyRepo) Get(ctx context.Context, handle string) (*models.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, sqlGetCompany, handle))
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("no company: %s", handle)
	}
	if err != nil {
		return nil, fmt.Errorf("repo/company: %w", err)
	}

	rows, err := r.q.Query(ctx, sqlCompanyJobs, handle)
	if err != nil {
		return nil, fmt.Errorf("repo/company: jobs: %w", err)
	}
	defer rows.Close()

	c.Jobs = []models.Job{}
	for rows.Next() {
		var j models.Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity); err != nil {
			return nil, fmt.Errorf("repo/company: scan job: %w", err)
		}
		c.Jobs = append(c.Jobs, j)
	}
	return c, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

// Update applies data to the company and returns the updated row. data
// uses field names (numEmployees, logoUrl, …); handle must not be among
// them, which the caller enforces.
func (r *companyRepo) Update(ctx context.Context, handle string, data *sqlfrag.Payload) (*models.Company, error) {
	set, err := sqlfrag.BuildSet(data, CompanyColumns)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(sqlUpdateCompany, set.SQL, sqlfrag.Placeholder(set.Next()))
	c, err := scanCompany(r.q.QueryRow(ctx, query, append(set.Args, handle)...))
	if db.IsNotFound(err) {
		return nil, apperr.NotFound("no company: %s", handle)
	}
	if err != nil {
		return nil, companyWriteErr(handle, err)
	}
	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Remove
// ─────────────────────────────────────────────────────────────────────────────

// Remove deletes the company; its jobs go with it (ON DELETE CASCADE).
func (r *companyRepo) Remove(ctx context.Context, handle string) error {
	var deleted string
	err := r.q.QueryRow(ctx, sqlDeleteCompany, handle).Scan(&deleted)
	if db.IsNotFound(err) {
		return apperr.NotFound("no company: %s", handle)
	}
	if err != nil {
		return fmt.Errorf("repo/company: %w", err)
	}
	return nil
}

// Count returns the total number of companies.
func (r *companyRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, sqlCountCompanies).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo/company: %w", err)
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanner is satisfied by *db.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanCompany scans the companyCols column list.
func scanCompany(s scanner) (*models.Company, error) {
	c := &models.Company{}
	if err := s.Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL); err != nil {
		return nil, err
	}
	return c, nil
}

func companyWriteErr(handle string, err error) error {
	switch {
	case db.IsDuplicateKey(err):
		return apperr.Wrap(apperr.ErrConflict, err, "duplicate company: %s", handle)
	case db.IsCheckViolation(err):
		return apperr.Wrap(apperr.ErrValidation, err, "invalid company data: %s", handle)
	}
	return fmt.Errorf("repo/company: %w", err)
}

var _ CompanyRepository = (*companyRepo)(nil)
