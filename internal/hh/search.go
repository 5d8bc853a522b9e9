package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"vacancyhunt/internal/domain"
)

// SearchClient pages through the vacancy search endpoint and maps raw
// items into domain records.
type SearchClient struct {
	fetcher PageFetcher
	log     *zap.Logger
}

func NewSearchClient(fetcher PageFetcher, log *zap.Logger) *SearchClient {
	return &SearchClient{fetcher: fetcher, log: log}
}

// Search fetches up to pageSize vacancies for the query, requesting
// successive pages starting at 0. Remote failures never raise: the loop
// stops at the failed page and whatever accumulated so far is returned.
func (s *SearchClient) Search(ctx context.Context, query, excludedText, areaID string, pageSize int) []domain.Vacancy {
	if pageSize <= 0 {
		return nil
	}

	var out []domain.Vacancy
	for page := 0; ; page++ {
		params := url.Values{}
		params.Set("text", query)
		params.Set("excluded_text", excludedText)
		params.Set("area", areaID)
		params.Set("per_page", strconv.Itoa(pageSize))
		params.Set("page", strconv.Itoa(page))

		body, err := s.fetcher.FetchPage(ctx, "vacancies", params)
		if err != nil {
			s.log.Warn("vacancy page unavailable", zap.Int("page", page), zap.Error(err))
			break
		}

		var pg searchPage
		if err := json.Unmarshal(body, &pg); err != nil {
			s.log.Warn("vacancy page unparseable", zap.Int("page", page), zap.Error(err))
			break
		}
		if len(pg.Items) == 0 {
			break
		}

		for _, it := range pg.Items {
			v, ok := s.mapItem(it)
			if !ok {
				continue
			}
			out = append(out, v)
		}

		if len(out) >= pageSize {
			out = out[:pageSize]
			break
		}
		if page+1 >= pg.Pages {
			break
		}
	}

	s.log.Info("search finished", zap.String("query", query), zap.Int("results", len(out)))
	return out
}

// mapItem normalizes one raw posting. Items missing a displayable name
// or a valid URL are skipped, not fatal.
func (s *SearchClient) mapItem(it vacancyItem) (domain.Vacancy, bool) {
	if strings.TrimSpace(it.Name) == "" || strings.TrimSpace(it.AlternateURL) == "" {
		return domain.Vacancy{}, false
	}

	v, err := domain.New(
		it.Name,
		it.AlternateURL,
		formatSalary(it.Salary),
		stripHighlights(it.Snippet.Requirement),
		it.Employer.Name,
		it.PublishedAt,
	)
	if err != nil {
		s.log.Debug("skipping malformed item", zap.String("url", it.AlternateURL), zap.Error(err))
		return domain.Vacancy{}, false
	}
	return v, true
}

// formatSalary renders the {from,to,currency} sub-object as display
// text; with neither bound present the record falls back to the
// not-specified sentinel downstream.
func formatSalary(sal *itemSalary) string {
	if sal == nil {
		return ""
	}
	switch {
	case sal.From != nil && sal.To != nil:
		return strings.TrimSpace(fmt.Sprintf("%d-%d %s", *sal.From, *sal.To, sal.Currency))
	case sal.From != nil:
		return strings.TrimSpace(fmt.Sprintf("from %d %s", *sal.From, sal.Currency))
	case sal.To != nil:
		return strings.TrimSpace(fmt.Sprintf("to %d %s", *sal.To, sal.Currency))
	default:
		return ""
	}
}

// stripHighlights drops the <highlighttext> markup the provider wraps
// matched terms in.
func stripHighlights(snippet string) string {
	if snippet == "" || !strings.Contains(snippet, "<") {
		return strings.TrimSpace(snippet)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return strings.TrimSpace(snippet)
	}
	return strings.TrimSpace(doc.Text())
}
