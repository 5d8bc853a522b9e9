package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"vacancyhunt/internal/domain"
)

var _ VacancyStore = (*SQLiteStore)(nil)

// SQLiteStore is the alternative backend, same contract as JSONStore
// over a single-table database. The unique URL index does the dedup.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
}

func OpenSQLite(path string, log *zap.Logger) (*SQLiteStore, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS vacancies (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL,
	url          TEXT NOT NULL,
	salary       TEXT NOT NULL,
	description  TEXT NOT NULL,
	employer     TEXT NOT NULL,
	published_at TEXT NOT NULL
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_vacancies_url ON vacancies(url);`,
	}
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate vacancies store: %w", err)
		}
	}

	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) Add(v domain.Vacancy) (bool, error) {
	_, err := s.db.Exec(`
INSERT OR IGNORE INTO vacancies (title, url, salary, description, employer, published_at)
VALUES (?, ?, ?, ?, ?, ?);`,
		v.Title, v.URL, v.Salary, v.Description, v.Employer, v.PublishedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert vacancy: %w", err)
	}

	// changes() tells us whether IGNORE swallowed the insert.
	changes, err := s.lastChanges()
	if err != nil {
		return false, err
	}
	if changes == 0 {
		s.log.Info("duplicate vacancy skipped", zap.String("url", v.URL))
		return false, nil
	}
	return true, nil
}

func (s *SQLiteStore) lastChanges() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT changes();`).Scan(&n); err != nil {
		return 0, fmt.Errorf("check insert outcome: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Delete(v domain.Vacancy) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM vacancies WHERE url = ?;`, v.URL)
	if err != nil {
		return false, fmt.Errorf("delete vacancy: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) DeleteAll() error {
	_, err := s.db.Exec(`DELETE FROM vacancies;`)
	return err
}

func (s *SQLiteStore) All() ([]domain.Vacancy, error) {
	rows, err := s.db.Query(`
SELECT title, url, salary, description, employer, published_at
FROM vacancies ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list vacancies: %w", err)
	}
	defer rows.Close()

	var out []domain.Vacancy
	for rows.Next() {
		var v domain.Vacancy
		if err := rows.Scan(&v.Title, &v.URL, &v.Salary, &v.Description, &v.Employer, &v.PublishedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) FilterByKeyword(keyword string) ([]domain.Vacancy, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	return filterByKeyword(all, keyword), nil
}

func (s *SQLiteStore) FilterByEmployer(employer string) ([]domain.Vacancy, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	return filterByEmployer(all, employer), nil
}

func (s *SQLiteStore) FilterBySalaryRange(min, max float64) ([]domain.Vacancy, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	return filterBySalaryRange(all, min, max), nil
}

func (s *SQLiteStore) TopBySalary(n int) ([]domain.Vacancy, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	return topBySalary(all, n), nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
