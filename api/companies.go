package api

import (
	"net/http"
	"strings"

	"github.com/Skryldev/jobly/apperr"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/sqlfrag"
)

const maxHandleLen = 25

type createCompanyRequest struct {
	Handle       *string `json:"handle"`
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

func (req createCompanyRequest) params() (models.CreateCompanyParams, error) {
	var problems []string
	switch {
	case req.Handle == nil || *req.Handle == "":
		problems = append(problems, "handle is required")
	case len(*req.Handle) > maxHandleLen:
		problems = append(problems, "handle must be at most 25 characters")
	}
	if req.Name == nil || *req.Name == "" {
		problems = append(problems, "name is required")
	}
	if req.Description == nil {
		problems = append(problems, "description is required")
	}
	if req.NumEmployees != nil && *req.NumEmployees < 0 {
		problems = append(problems, "numEmployees must be a non-negative integer")
	}
	if req.LogoURL != nil && !validURL(*req.LogoURL) {
		problems = append(problems, "logoUrl must be a URL")
	}
	if len(problems) > 0 {
		return models.CreateCompanyParams{}, apperr.Validation("%s", strings.Join(problems, "; "))
	}

	return models.CreateCompanyParams{
		Handle:       *req.Handle,
		Name:         *req.Name,
		Description:  *req.Description,
		NumEmployees: req.NumEmployees,
		LogoURL:      req.LogoURL,
	}, nil
}

var companyUpdateRules = map[string]rule{
	"name":         nonEmptyString,
	"description":  anyString,
	"numEmployees": nullable(nonNegativeInt),
	"logoUrl":      nullable(urlString),
}

// companyDetail always carries the jobs key, even when there are none.
type companyDetail struct {
	*models.Company
	Jobs []models.Job `json:"jobs"`
}

// POST /companies
func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) error {
	var req createCompanyRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}
	params, err := req.params()
	if err != nil {
		return err
	}

	c, err := s.companies.Create(r.Context(), params)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]any{"company": c})
	return nil
}

// GET /companies?minEmployees=&maxEmployees=&nameLike=
func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	if err := checkQuery(q, "minEmployees", "maxEmployees", "nameLike"); err != nil {
		return err
	}

	var (
		filters models.CompanyFilters
		err     error
	)
	if filters.MinEmployees, err = intParam(q, "minEmployees"); err != nil {
		return err
	}
	if filters.MaxEmployees, err = intParam(q, "maxEmployees"); err != nil {
		return err
	}
	filters.Name = q.Get("nameLike")

	companies, err := s.companies.FindAll(r.Context(), filters)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": companies})
	return nil
}

// GET /companies/{handle}
func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) error {
	c, err := s.companies.Get(r.Context(), r.PathValue("handle"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": companyDetail{Company: c, Jobs: c.Jobs}})
	return nil
}

// PATCH /companies/{handle}
func (s *Server) updateCompany(w http.ResponseWriter, r *http.Request) error {
	var data sqlfrag.Payload
	if err := decodeBody(w, r, &data); err != nil {
		return err
	}
	if err := checkPayload(&data, companyUpdateRules, "handle"); err != nil {
		return err
	}

	c, err := s.companies.Update(r.Context(), r.PathValue("handle"), &data)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"company": c})
	return nil
}

// DELETE /companies/{handle}
func (s *Server) removeCompany(w http.ResponseWriter, r *http.Request) error {
	handle := r.PathValue("handle")
	if err := s.companies.Remove(r.Context(), handle); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": handle})
	return nil
}
