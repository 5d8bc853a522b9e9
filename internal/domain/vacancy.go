package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// NotSpecified stands in for salary, description and employer text the
// provider never sent.
const NotSpecified = "not specified"

// Vacancy is one normalized job posting. The URL is the identity key:
// two vacancies with the same URL are the same vacancy as far as any
// store is concerned. Construct via New or DeletionKey; fields are not
// meant to change afterwards except through SetSalary.
type Vacancy struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
	Employer    string `json:"employer"`
	PublishedAt string `json:"published_at"`
}

// New validates and normalizes a vacancy. The URL must be absolute
// (scheme and host); everything else is normalized, not rejected.
func New(title, rawURL, salary, description, employer, publishedAt string) (Vacancy, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Vacancy{}, fmt.Errorf("vacancy url %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Vacancy{}, fmt.Errorf("vacancy url %q: not an absolute URL", rawURL)
	}

	return Vacancy{
		Title:       strings.TrimSpace(title),
		URL:         u.String(),
		Salary:      normalizeText(salary),
		Description: normalizeText(description),
		Employer:    normalizeText(employer),
		PublishedAt: publishedAt,
	}, nil
}

// DeletionKey builds a placeholder vacancy carrying only a URL. It
// exists to address a removal target and skips validation on purpose.
func DeletionKey(rawURL string) Vacancy {
	return Vacancy{URL: strings.TrimSpace(rawURL)}
}

// SetSalary replaces the salary text, applying the same normalization
// as construction.
func (v *Vacancy) SetSalary(salary string) {
	v.Salary = normalizeText(salary)
}

func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotSpecified
	}
	return s
}

// salaryNumber matches one money figure: either digit groups separated
// by spaces/NBSP ("100 000") or a plain number with an optional decimal
// part ("150000", "1500.50").
var salaryNumber = regexp.MustCompile(`\d{1,3}(?:[ \x{00a0}]\d{3})+(?:[.,]\d+)?|\d+(?:[.,]\d+)?`)

// SalaryValue derives a comparable number from the salary text.
// A range ("150000-200000 RUR") averages to its midpoint, a single
// figure is taken as-is, and anything else (the sentinel included)
// counts as 0.
func (v Vacancy) SalaryValue() float64 {
	if v.Salary == "" || v.Salary == NotSpecified {
		return 0
	}

	matches := salaryNumber.FindAllString(v.Salary, -1)
	nums := make([]float64, 0, len(matches))
	for _, m := range matches {
		m = strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(m)
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		nums = append(nums, f)
	}

	switch len(nums) {
	case 1:
		return nums[0]
	case 2:
		return (nums[0] + nums[1]) / 2
	default:
		// zero or too many figures: no usable salary
		return 0
	}
}
