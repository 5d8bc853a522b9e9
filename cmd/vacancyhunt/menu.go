package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"vacancyhunt/internal/domain"
	"vacancyhunt/internal/hh"
	"vacancyhunt/internal/store"
)

type menu struct {
	search   *hh.SearchClient
	resolver *hh.AreaResolver
	store    store.VacancyStore
	pageSize int
	log      *zap.Logger
}

const menuText = `
Choose an action:
1. Search vacancies
2. Top N vacancies by salary
3. Filter by keyword
4. Show all saved vacancies
5. Delete a vacancy by URL
6. Filter by salary range
7. Filter by employer
8. Delete all vacancies
9. Exit
`

// run drives the interactive loop. Core failures become short messages
// and the loop continues; only exit (9) or EOF on stdin ends it.
func (m *menu) run(ctx context.Context, in io.Reader, out io.Writer) {
	m.log.Info("interactive session started")
	defer m.log.Info("interactive session finished")

	fmt.Fprintln(out, "Welcome to the vacancy search tool!")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	sc := bufio.NewScanner(in)
	prompt := func(label string) (string, bool) {
		fmt.Fprint(out, label)
		if !sc.Scan() {
			return "", false
		}
		return strings.TrimSpace(sc.Text()), true
	}

	for {
		fmt.Fprint(out, menuText)
		choice, ok := prompt("\nEnter action number (1-9): ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			if !m.searchAndSave(ctx, prompt, out) {
				return
			}
		case "2":
			n, ok, err := promptInt(prompt, "How many vacancies in the top: ", 0)
			if !ok {
				return
			}
			if err != nil || n <= 0 {
				fmt.Fprintln(out, "The number must be positive!")
				continue
			}
			top, err := m.store.TopBySalary(n)
			if err != nil {
				fmt.Fprintf(out, "Could not read the store: %v\n", err)
				continue
			}
			if len(top) == 0 {
				fmt.Fprintln(out, "No saved vacancies.")
				continue
			}
			fmt.Fprintf(out, "\nTop %d vacancies by salary:\n", n)
			renderVacancies(out, top)
		case "3":
			keyword, ok := prompt("Keyword to search for: ")
			if !ok {
				return
			}
			if keyword == "" {
				fmt.Fprintln(out, "The keyword cannot be empty!")
				continue
			}
			m.showFiltered(out, func() ([]domain.Vacancy, error) {
				return m.store.FilterByKeyword(keyword)
			}, fmt.Sprintf("vacancies matching %q", keyword))
		case "4":
			all, err := m.store.All()
			if err != nil {
				fmt.Fprintf(out, "Could not read the store: %v\n", err)
				continue
			}
			if len(all) == 0 {
				fmt.Fprintln(out, "No saved vacancies.")
				continue
			}
			fmt.Fprintf(out, "\nSaved vacancies: %d\n", len(all))
			renderVacancies(out, all)
		case "5":
			rawURL, ok := prompt("Vacancy URL to delete: ")
			if !ok {
				return
			}
			if rawURL == "" {
				fmt.Fprintln(out, "The URL cannot be empty!")
				continue
			}
			found, err := m.store.Delete(domain.DeletionKey(rawURL))
			if err != nil {
				fmt.Fprintf(out, "Delete failed: %v\n", err)
				continue
			}
			if found {
				fmt.Fprintln(out, "Vacancy deleted.")
			} else {
				fmt.Fprintln(out, "Vacancy not found.")
			}
		case "6":
			minSal, ok, err := promptFloat(prompt, "Minimum salary: ", 0)
			if !ok {
				return
			}
			if err != nil {
				fmt.Fprintln(out, "Invalid salary format!")
				continue
			}
			maxSal, ok, err := promptFloat(prompt, "Maximum salary: ", math.Inf(1))
			if !ok {
				return
			}
			if err != nil {
				fmt.Fprintln(out, "Invalid salary format!")
				continue
			}
			m.showFiltered(out, func() ([]domain.Vacancy, error) {
				return m.store.FilterBySalaryRange(minSal, maxSal)
			}, fmt.Sprintf("vacancies in range %v-%v", minSal, maxSal))
		case "7":
			employer, ok := prompt("Employer name: ")
			if !ok {
				return
			}
			if employer == "" {
				fmt.Fprintln(out, "The employer name cannot be empty!")
				continue
			}
			m.showFiltered(out, func() ([]domain.Vacancy, error) {
				return m.store.FilterByEmployer(employer)
			}, fmt.Sprintf("vacancies from %s", employer))
		case "8":
			answer, ok := prompt("Delete all vacancies? ")
			if !ok {
				return
			}
			if !store.IsAffirmative(answer) {
				fmt.Fprintln(out, "Deletion cancelled.")
				continue
			}
			if err := m.store.DeleteAll(); err != nil {
				fmt.Fprintf(out, "Delete failed: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "All vacancies deleted.")
		case "9":
			fmt.Fprintln(out, "Goodbye!")
			return
		default:
			fmt.Fprintln(out, "Invalid choice. Please enter a number from 1 to 9.")
		}
	}
}

// searchAndSave runs the search dialog. Returns false when the input
// closed mid-dialog and the session should end.
func (m *menu) searchAndSave(ctx context.Context, prompt func(string) (string, bool), out io.Writer) bool {
	query, ok := prompt("Search query: ")
	if !ok {
		return false
	}
	if query == "" {
		fmt.Fprintln(out, "The query cannot be empty!")
		return true
	}
	excluded, ok := prompt("Words to exclude (comma separated): ")
	if !ok {
		return false
	}

	count, ok, err := promptInt(prompt, fmt.Sprintf("How many vacancies to load (default %d): ", m.pageSize), m.pageSize)
	if !ok {
		return false
	}
	if err != nil {
		fmt.Fprintln(out, "Invalid number!")
		return true
	}
	if count <= 0 {
		fmt.Fprintln(out, "The count must be positive!")
		return true
	}

	place, ok := prompt("Place name (city or region): ")
	if !ok {
		return false
	}
	areaID := m.resolver.ResolveAreaID(ctx, place)

	fmt.Fprintf(out, "Searching for %q...\n", query)
	found := m.search.Search(ctx, query, excluded, areaID, count)
	if len(found) == 0 {
		fmt.Fprintln(out, "No vacancies found.")
		return true
	}

	saved := 0
	for _, v := range found {
		added, err := m.store.Add(v)
		if err != nil {
			fmt.Fprintf(out, "Save failed: %v\n", err)
			return true
		}
		if added {
			saved++
		}
	}
	fmt.Fprintf(out, "Found %d vacancies. Saved %d new ones.\n", len(found), saved)
	return true
}

func (m *menu) showFiltered(out io.Writer, query func() ([]domain.Vacancy, error), what string) {
	results, err := query()
	if err != nil {
		fmt.Fprintf(out, "Could not read the store: %v\n", err)
		return
	}
	if len(results) == 0 {
		fmt.Fprintf(out, "No %s.\n", what)
		return
	}
	fmt.Fprintf(out, "\nFound %d %s:\n", len(results), what)
	renderVacancies(out, results)
}

// promptInt and promptFloat report ok=false when the input is closed,
// so a session that loses stdin mid-dialog ends instead of silently
// proceeding on defaults.
func promptInt(prompt func(string) (string, bool), label string, def int) (int, bool, error) {
	s, ok := prompt(label)
	if !ok {
		return 0, false, nil
	}
	if s == "" {
		return def, true, nil
	}
	n, err := strconv.Atoi(s)
	return n, true, err
}

func promptFloat(prompt func(string) (string, bool), label string, def float64) (float64, bool, error) {
	s, ok := prompt(label)
	if !ok {
		return 0, false, nil
	}
	if s == "" {
		return def, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, true, err
}
