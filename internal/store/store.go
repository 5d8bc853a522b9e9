package store

import (
	"sort"
	"strings"

	"vacancyhunt/internal/domain"
)

// VacancyStore is a durable collection of vacancies keyed by URL.
// Implemented by the JSON file store and the SQLite store; both give
// the same answers for the same data.
type VacancyStore interface {
	// Add appends the vacancy unless one with the same URL exists.
	// Returns false with no write on a duplicate.
	Add(v domain.Vacancy) (bool, error)

	// Delete removes the first vacancy matching the URL of v, reporting
	// whether a match was found.
	Delete(v domain.Vacancy) (bool, error)

	// DeleteAll clears the collection unconditionally.
	DeleteAll() error

	// All returns the full collection in insertion order.
	All() ([]domain.Vacancy, error)

	FilterByKeyword(keyword string) ([]domain.Vacancy, error)
	FilterByEmployer(employer string) ([]domain.Vacancy, error)
	FilterBySalaryRange(min, max float64) ([]domain.Vacancy, error)
	TopBySalary(n int) ([]domain.Vacancy, error)

	Close() error
}

// IsAffirmative reports whether a free-text answer confirms the
// delete-all branch.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "да":
		return true
	}
	return false
}

// Query helpers shared by both backends. They operate on an ordered
// snapshot so that backends only differ in how they produce it.

func filterByKeyword(vs []domain.Vacancy, keyword string) []domain.Vacancy {
	kw := strings.ToLower(keyword)
	var out []domain.Vacancy
	for _, v := range vs {
		if strings.Contains(strings.ToLower(v.Title), kw) ||
			strings.Contains(strings.ToLower(v.Description), kw) {
			out = append(out, v)
		}
	}
	return out
}

func filterByEmployer(vs []domain.Vacancy, employer string) []domain.Vacancy {
	emp := strings.ToLower(employer)
	var out []domain.Vacancy
	for _, v := range vs {
		if strings.Contains(strings.ToLower(v.Employer), emp) {
			out = append(out, v)
		}
	}
	return out
}

// filterBySalaryRange keeps vacancies whose derived salary lies in
// [min, max]. A salary that does not parse derives to 0, so such
// records show up exactly when min <= 0. Documented policy, not an
// accident.
func filterBySalaryRange(vs []domain.Vacancy, min, max float64) []domain.Vacancy {
	var out []domain.Vacancy
	for _, v := range vs {
		val := v.SalaryValue()
		if val >= min && val <= max {
			out = append(out, v)
		}
	}
	return out
}

func topBySalary(vs []domain.Vacancy, n int) []domain.Vacancy {
	if n <= 0 {
		return nil
	}
	sorted := make([]domain.Vacancy, len(vs))
	copy(sorted, vs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SalaryValue() > sorted[j].SalaryValue()
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
