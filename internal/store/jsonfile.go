package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"vacancyhunt/internal/domain"
)

var _ VacancyStore = (*JSONStore)(nil)

// JSONStore mirrors an in-memory vacancy list to one JSON array file.
// Every mutation synchronously rewrites the whole file; there is no
// append path and no rollback, so a failed write leaves memory ahead of
// disk until the next successful rewrite.
//
// One store instance owns the file. Two processes pointed at the same
// file are unsupported; the open-time lock makes the second one fail
// fast instead of silently racing.
type JSONStore struct {
	path      string
	lock      *flock.Flock
	log       *zap.Logger
	vacancies []domain.Vacancy
}

func OpenJSON(path string, log *zap.Logger) (*JSONStore, error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock vacancies store: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("vacancies store %s is in use by another instance", path)
	}

	s := &JSONStore{path: path, lock: lock, log: log}
	if err := s.load(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return s, nil
}

// load reads the backing file. A missing file means an empty store; a
// corrupt one is fatal, unlike the area cache.
func (s *JSONStore) load() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read vacancies store %s: %w", s.path, err)
	}

	var stored []domain.Vacancy
	if err := json.Unmarshal(b, &stored); err != nil {
		return fmt.Errorf("vacancies store %s is corrupt: %w", s.path, err)
	}

	s.vacancies = make([]domain.Vacancy, 0, len(stored))
	for _, rec := range stored {
		v, err := domain.New(rec.Title, rec.URL, rec.Salary, rec.Description, rec.Employer, rec.PublishedAt)
		if err != nil {
			return fmt.Errorf("vacancies store %s: %w", s.path, err)
		}
		s.vacancies = append(s.vacancies, v)
	}
	return nil
}

// persist rewrites the entire backing file, pretty-printed with
// non-ASCII text kept readable.
func (s *JSONStore) persist() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("write vacancies store %s: %w", s.path, err)
	}
	recs := s.vacancies
	if recs == nil {
		recs = []domain.Vacancy{}
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(recs); err != nil {
		f.Close()
		return fmt.Errorf("write vacancies store %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write vacancies store %s: %w", s.path, err)
	}
	return nil
}

func (s *JSONStore) Add(v domain.Vacancy) (bool, error) {
	for _, existing := range s.vacancies {
		if existing.URL == v.URL {
			s.log.Info("duplicate vacancy skipped", zap.String("url", v.URL))
			return false, nil
		}
	}
	s.vacancies = append(s.vacancies, v)
	if err := s.persist(); err != nil {
		return true, err
	}
	return true, nil
}

func (s *JSONStore) Delete(v domain.Vacancy) (bool, error) {
	for i, existing := range s.vacancies {
		if existing.URL == v.URL {
			s.vacancies = append(s.vacancies[:i], s.vacancies[i+1:]...)
			if err := s.persist(); err != nil {
				return true, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *JSONStore) DeleteAll() error {
	s.vacancies = s.vacancies[:0]
	return s.persist()
}

func (s *JSONStore) All() ([]domain.Vacancy, error) {
	out := make([]domain.Vacancy, len(s.vacancies))
	copy(out, s.vacancies)
	return out, nil
}

func (s *JSONStore) FilterByKeyword(keyword string) ([]domain.Vacancy, error) {
	return filterByKeyword(s.vacancies, keyword), nil
}

func (s *JSONStore) FilterByEmployer(employer string) ([]domain.Vacancy, error) {
	return filterByEmployer(s.vacancies, employer), nil
}

func (s *JSONStore) FilterBySalaryRange(min, max float64) ([]domain.Vacancy, error) {
	return filterBySalaryRange(s.vacancies, min, max), nil
}

func (s *JSONStore) TopBySalary(n int) ([]domain.Vacancy, error) {
	return topBySalary(s.vacancies, n), nil
}

func (s *JSONStore) Close() error {
	return s.lock.Unlock()
}
