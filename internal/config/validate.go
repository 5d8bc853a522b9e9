package config

import (
	"errors"
	"fmt"
	"strings"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.API.BaseURL == "" {
		errs = append(errs, "api.base_url is required")
	}
	if cfg.API.TimeoutSeconds <= 0 {
		errs = append(errs, "api.timeout_seconds must be > 0")
	}
	if cfg.API.RequestsPerSecond <= 0 {
		errs = append(errs, "api.requests_per_second must be > 0")
	}

	switch cfg.Storage.Backend {
	case "json", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("storage.backend %q must be json or sqlite", cfg.Storage.Backend))
	}

	if cfg.Search.DefaultPageSize <= 0 {
		errs = append(errs, "search.default_page_size must be > 0")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
