package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"vacancyhunt/internal/domain"
)

// renderVacancies prints a result list as a table, longest fields
// truncated so rows stay on one line.
func renderVacancies(out io.Writer, vacancies []domain.Vacancy) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"#", "Title", "Salary", "Employer", "Published", "URL"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 40},
		{Name: "Salary", WidthMax: 24},
		{Name: "Employer", WidthMax: 28},
		{Name: "URL", WidthMax: 48, WidthMaxEnforcer: text.Trim},
	})

	for i, v := range vacancies {
		t.AppendRow(table.Row{i + 1, v.Title, v.Salary, v.Employer, v.PublishedAt, v.URL})
	}

	t.Render()
}
