package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jaswdr/faker"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/repo"
)

const (
	sqlSeedCompany = `
		INSERT INTO companies (handle, name, description, num_employees, logo_url)
		VALUES ($1, $2, $3, $4, $5)`

	sqlSeedJob = `
		INSERT INTO jobs (title, salary, equity, company_handle)
		VALUES ($1, $2, $3, $4)`
)

func newSeedCmd(a *app) *cobra.Command {
	var companies, jobsPerCompany int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with fake companies and jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if companies < 0 || jobsPerCompany < 0 {
				return fmt.Errorf("seed: counts must not be negative")
			}
			d, err := a.openDB(nil)
			if err != nil {
				return err
			}
			defer d.Close()

			ctx := cmd.Context()
			if err := seed(ctx, d, faker.New(), companies, jobsPerCompany); err != nil {
				return err
			}

			nc, err := repo.NewCompanyRepo(d, d.Dialect()).Count(ctx)
			if err != nil {
				return err
			}
			nj, err := repo.NewJobRepo(d, d.Dialect()).Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d companies, %d jobs (totals: %d companies, %d jobs)\n",
				companies, companies*jobsPerCompany, nc, nj)
			return nil
		},
	}
	cmd.Flags().IntVar(&companies, "companies", 10, "number of companies to create")
	cmd.Flags().IntVar(&jobsPerCompany, "jobs-per-company", 3, "number of jobs per company")
	return cmd
}

// seed writes nCompanies fake companies with jobsPer jobs each. Companies
// and jobs are each written in one batch.
func seed(ctx context.Context, d *db.DB, gen faker.Faker, nCompanies, jobsPer int) error {
	companies := fakeCompanies(gen, nCompanies)
	err := db.BatchExec(d, ctx, sqlSeedCompany, companies, func(c models.CreateCompanyParams) []any {
		return []any{c.Handle, c.Name, c.Description, c.NumEmployees, c.LogoURL}
	})
	if err != nil {
		return fmt.Errorf("seed companies: %w", err)
	}

	jobs := lo.FlatMap(companies, func(c models.CreateCompanyParams, _ int) []models.CreateJobParams {
		return fakeJobs(gen, c.Handle, jobsPer)
	})
	err = db.BatchExec(d, ctx, sqlSeedJob, jobs, func(j models.CreateJobParams) []any {
		return []any{j.Title, j.Salary, j.Equity, j.CompanyHandle}
	})
	if err != nil {
		return fmt.Errorf("seed jobs: %w", err)
	}
	return nil
}

func fakeCompanies(gen faker.Faker, n int) []models.CreateCompanyParams {
	names := map[string]bool{}
	out := make([]models.CreateCompanyParams, 0, n)
	for i := 0; i < n; i++ {
		name := gen.Company().Name()
		if names[name] {
			name = name + " " + strconv.Itoa(i)
		}
		names[name] = true

		employees := gen.IntBetween(1, 5000)
		logo := gen.Internet().URL()
		out = append(out, models.CreateCompanyParams{
			Handle:       handleFor(name, i),
			Name:         name,
			Description:  gen.Company().CatchPhrase(),
			NumEmployees: &employees,
			LogoURL:      &logo,
		})
	}
	return out
}

func fakeJobs(gen faker.Faker, handle string, n int) []models.CreateJobParams {
	return lo.Times(n, func(int) models.CreateJobParams {
		j := models.CreateJobParams{
			Title:         gen.Company().JobTitle(),
			CompanyHandle: handle,
		}
		salary := gen.IntBetween(30, 250) * 1000
		j.Salary = &salary
		// about a third of the jobs come with equity
		if gen.IntBetween(0, 2) == 0 {
			equity := float64(gen.IntBetween(1, 100)) / 1000
			j.Equity = &equity
		}
		return j
	})
}

// handleFor derives a handle from name: lower-case, runs of other
// characters collapsed to "-", suffixed with i to keep it unique, at most
// 25 characters.
func handleFor(name string, i int) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	suffix := "-" + strconv.Itoa(i)
	base := strings.TrimRight(b.String(), "-")
	if limit := 25 - len(suffix); len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}
	return base + suffix
}
