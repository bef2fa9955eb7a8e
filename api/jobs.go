package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Skryldev/jobly/apperr"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/sqlfrag"
)

type createJobRequest struct {
	Title         *string  `json:"title"`
	Salary        *int     `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle *string  `json:"companyHandle"`
}

func (req createJobRequest) params() (models.CreateJobParams, error) {
	var problems []string
	if req.Title == nil || *req.Title == "" {
		problems = append(problems, "title is required")
	}
	if req.CompanyHandle == nil || *req.CompanyHandle == "" {
		problems = append(problems, "companyHandle is required")
	}
	if req.Salary != nil && *req.Salary < 0 {
		problems = append(problems, "salary must be a non-negative integer")
	}
	if req.Equity != nil && (*req.Equity < 0 || *req.Equity > 1) {
		problems = append(problems, "equity must be between 0 and 1")
	}
	if len(problems) > 0 {
		return models.CreateJobParams{}, apperr.Validation("%s", strings.Join(problems, "; "))
	}

	return models.CreateJobParams{
		Title:         *req.Title,
		Salary:        req.Salary,
		Equity:        req.Equity,
		CompanyHandle: *req.CompanyHandle,
	}, nil
}

var jobUpdateRules = map[string]rule{
	"title":  nonEmptyString,
	"salary": nullable(nonNegativeInt),
	"equity": nullable(fraction),
}

func jobID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid job id: %s", raw)
	}
	return id, nil
}

// POST /jobs
func (s *Server) createJob(w http.ResponseWriter, r *http.Request) error {
	var req createJobRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}
	params, err := req.params()
	if err != nil {
		return err
	}

	j, err := s.jobs.Create(r.Context(), params)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]any{"job": j})
	return nil
}

// GET /jobs?minSalary=&hasEquity=&title=
func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	if err := checkQuery(q, "minSalary", "hasEquity", "title"); err != nil {
		return err
	}

	var (
		filters models.JobFilters
		err     error
	)
	if filters.MinSalary, err = intParam(q, "minSalary"); err != nil {
		return err
	}
	if filters.HasEquity, err = boolParam(q, "hasEquity"); err != nil {
		return err
	}
	filters.Title = q.Get("title")

	jobs, err := s.jobs.FindAll(r.Context(), filters)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
	return nil
}

// GET /jobs/{id}
func (s *Server) getJob(w http.ResponseWriter, r *http.Request) error {
	id, err := jobID(r)
	if err != nil {
		return err
	}
	j, err := s.jobs.Get(r.Context(), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": j})
	return nil
}

// PATCH /jobs/{id}
func (s *Server) updateJob(w http.ResponseWriter, r *http.Request) error {
	id, err := jobID(r)
	if err != nil {
		return err
	}
	var data sqlfrag.Payload
	if err := decodeBody(w, r, &data); err != nil {
		return err
	}
	if err := checkPayload(&data, jobUpdateRules, "id", "companyHandle"); err != nil {
		return err
	}

	j, err := s.jobs.Update(r.Context(), id, &data)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": j})
	return nil
}

// DELETE /jobs/{id}
func (s *Server) removeJob(w http.ResponseWriter, r *http.Request) error {
	id, err := jobID(r)
	if err != nil {
		return err
	}
	if err := s.jobs.Remove(r.Context(), id); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
	return nil
}
