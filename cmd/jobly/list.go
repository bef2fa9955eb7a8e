package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Skryldev/jobly/models"
	"github.com/Skryldev/jobly/repo"
)

func newCompaniesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "Inspect companies",
	}

	var (
		minEmployees, maxEmployees int
		name                       string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List companies, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filters models.CompanyFilters
			if cmd.Flags().Changed("min-employees") {
				filters.MinEmployees = &minEmployees
			}
			if cmd.Flags().Changed("max-employees") {
				filters.MaxEmployees = &maxEmployees
			}
			filters.Name = name

			d, err := a.openDB(nil)
			if err != nil {
				return err
			}
			defer d.Close()

			companies, err := repo.NewCompanyRepo(d, d.Dialect()).FindAll(cmd.Context(), filters)
			if err != nil {
				return err
			}
			renderCompanies(cmd.OutOrStdout(), companies)
			return nil
		},
	}
	list.Flags().IntVar(&minEmployees, "min-employees", 0, "minimum number of employees")
	list.Flags().IntVar(&maxEmployees, "max-employees", 0, "maximum number of employees")
	list.Flags().StringVar(&name, "name", "", "case-insensitive name substring")

	cmd.AddCommand(list)
	return cmd
}

func newJobsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect jobs",
	}

	var (
		minSalary int
		hasEquity bool
		title     string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List jobs, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filters models.JobFilters
			if cmd.Flags().Changed("min-salary") {
				filters.MinSalary = &minSalary
			}
			if cmd.Flags().Changed("has-equity") {
				filters.HasEquity = &hasEquity
			}
			filters.Title = title

			d, err := a.openDB(nil)
			if err != nil {
				return err
			}
			defer d.Close()

			jobs, err := repo.NewJobRepo(d, d.Dialect()).FindAll(cmd.Context(), filters)
			if err != nil {
				return err
			}
			renderJobs(cmd.OutOrStdout(), jobs)
			return nil
		},
	}
	list.Flags().IntVar(&minSalary, "min-salary", 0, "minimum salary")
	list.Flags().BoolVar(&hasEquity, "has-equity", false, "only jobs with equity")
	list.Flags().StringVar(&title, "title", "", "case-insensitive title substring")

	cmd.AddCommand(list)
	return cmd
}

func renderCompanies(w io.Writer, companies []*models.Company) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Handle", "Name", "Employees", "Logo"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, c := range companies {
		table.Append([]string{c.Handle, c.Name, intCell(c.NumEmployees), stringCell(c.LogoURL)})
	}
	table.Render()
}

func renderJobs(w io.Writer, jobs []*models.Job) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Title", "Salary", "Equity", "Company"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, j := range jobs {
		equity := ""
		if j.Equity != nil {
			equity = strconv.FormatFloat(*j.Equity, 'f', -1, 64)
		}
		table.Append([]string{
			strconv.FormatInt(j.ID, 10), j.Title, intCell(j.Salary), equity, j.CompanyName,
		})
	}
	table.Render()
}

func intCell(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func stringCell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
