package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"vacancyhunt/internal/config"
	"vacancyhunt/internal/hh"
	"vacancyhunt/internal/logger"
	"vacancyhunt/internal/secrets"
	"vacancyhunt/internal/store"
)

func main() {
	// Data dir: use env if provided, else local folder.
	dataDir := os.Getenv("VACANCYHUNT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.App.Debug)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zl.Sync()

	client := hh.NewClient(hh.Options{
		BaseURL:           cfg.API.BaseURL,
		UserAgent:         cfg.API.UserAgent,
		Token:             secrets.APIToken(cfg.API.KeyringAccount),
		Timeout:           time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
	}, zl.Named("hh"))

	resolver := hh.NewAreaResolver(client, filepath.Join(dataDir, cfg.Storage.AreasFile), zl.Named("areas"))
	search := hh.NewSearchClient(client, zl.Named("search"))

	var st store.VacancyStore
	switch cfg.Storage.Backend {
	case "sqlite":
		st, err = store.OpenSQLite(filepath.Join(dataDir, cfg.Storage.SQLiteFile), zl.Named("store"))
	default:
		st, err = store.OpenJSON(filepath.Join(dataDir, cfg.Storage.VacanciesFile), zl.Named("store"))
	}
	if err != nil {
		// unrecoverable storage corruption is the one startup failure
		// that ends the session
		log.Fatalf("vacancies store unusable: %v", err)
	}
	defer st.Close()

	m := &menu{
		search:   search,
		resolver: resolver,
		store:    st,
		pageSize: cfg.Search.DefaultPageSize,
		log:      zl.Named("menu"),
	}
	m.run(context.Background(), os.Stdin, os.Stdout)
}
